package repository

import (
	"context"
	"log"
	"sync"
	"time"

	"tokenmail/internal/interfaces"
	"tokenmail/internal/metrics"
	"tokenmail/internal/models"
)

// MemoryTokenStore holds token records in a mutex-guarded map keyed by email
// address, exactly as given (case-sensitive). Records do not survive a
// restart.
type MemoryTokenStore struct {
	mu      sync.RWMutex
	records map[string]*models.TokenRecord
	now     func() time.Time
	stop    chan struct{}
	stopped sync.Once
}

func NewMemoryTokenStore() *MemoryTokenStore {
	return &MemoryTokenStore{
		records: make(map[string]*models.TokenRecord),
		now:     func() time.Time { return time.Now().UTC() },
		stop:    make(chan struct{}),
	}
}

// SetClock replaces the time source. Intended for tests.
func (s *MemoryTokenStore) SetClock(now func() time.Time) {
	if now != nil {
		s.now = now
	}
}

func (s *MemoryTokenStore) Put(_ context.Context, record *models.TokenRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	// Last write wins: a reissue replaces whatever was stored before,
	// expired or not.
	clone := *record
	s.records[record.Email] = &clone
	return nil
}

func (s *MemoryTokenStore) Get(_ context.Context, email string) (*models.TokenRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	record, ok := s.records[email]
	if !ok {
		return nil, &interfaces.NotFoundError{Email: email}
	}

	if record.IsExpired(s.now()) {
		// Lazy eviction: the sweeper would get here eventually, but a
		// lookup that sees an expired record removes it right away.
		delete(s.records, email)
		return nil, &interfaces.ExpiredError{Email: email, ExpiredAt: record.ExpiresAt}
	}

	clone := *record
	return &clone, nil
}

func (s *MemoryTokenStore) Sweep(_ context.Context) int {
	now := s.now()

	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for email, record := range s.records {
		if record.IsExpired(now) {
			delete(s.records, email)
			removed++
		}
	}
	return removed
}

// Len reports the number of stored records, expired or not.
func (s *MemoryTokenStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}

// StartSweeper launches the background sweep loop. It runs until Stop is
// called.
func (s *MemoryTokenStore) StartSweeper(interval time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				if removed := s.Sweep(context.Background()); removed > 0 {
					metrics.TokensSwept.Add(float64(removed))
					log.Printf("token sweep removed %d expired record(s)", removed)
				}
			case <-s.stop:
				return
			}
		}
	}()
}

// Stop terminates the sweep loop. Safe to call more than once.
func (s *MemoryTokenStore) Stop() {
	s.stopped.Do(func() { close(s.stop) })
}
