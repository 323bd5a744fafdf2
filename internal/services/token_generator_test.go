package services

import (
	"strings"
	"testing"
)

func TestGenerateTokenLengthAndAlphabet(t *testing.T) {
	for i := 0; i < 100; i++ {
		token := GenerateToken()
		if len(token) != tokenLength {
			t.Fatalf("expected %d chars got %q", tokenLength, token)
		}
		for _, c := range token {
			if !strings.ContainsRune(tokenAlphabet, c) {
				t.Fatalf("token %q contains %q outside the alphabet", token, c)
			}
		}
	}
}

func TestGenerateTokenDoesNotRepeat(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 1000; i++ {
		token := GenerateToken()
		if seen[token] {
			t.Fatalf("token %q generated twice in 1000 draws", token)
		}
		seen[token] = true
	}
}
