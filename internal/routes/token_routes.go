package routes

import (
	"github.com/go-chi/chi/v5"
	"tokenmail/internal/config"
	"tokenmail/internal/handlers"
	"tokenmail/internal/repository"
	"tokenmail/internal/services"
)

func RegisterTokenRoutes(router chi.Router, store *repository.MemoryTokenStore, cfg *config.Config) {
	mailer := &services.SMTPSender{
		Host:   cfg.SMTPHost,
		Port:   cfg.SMTPPort,
		User:   cfg.SMTPUser,
		Pass:   cfg.SMTPPassword,
		From:   cfg.SMTPFrom,
		UseTLS: cfg.SMTPUseTLS,
	}
	svc := services.NewTokenService(store, mailer, cfg.TokenTTLMinutes)
	tokenHandler := handlers.NewTokenHandler(svc)

	router.Route("/tokens", func(r chi.Router) {
		r.Post("/", tokenHandler.IssueToken)
		r.Get("/{email}", tokenHandler.GetToken)
	})
}
