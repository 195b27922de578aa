package main

import (
	"net/http"
	"os"
	"time"

	"pet-health-records/internal/adapters/auth/session"
	"pet-health-records/internal/platform/logger"
	"pet-health-records/internal/ports/auth"
	"pet-health-records/internal/router"
)

func main() {
	log := logger.NewFromEnv()

	addr := ":8080"
	if v := os.Getenv("PORT"); v != "" {
		addr = ":" + v
	}

	// Verifier opcional: sin SESSION_BASE_URL/SESSION_API_KEY corre en modo
	// dev (owner key vía header X-Debug-User-ID).
	var verifier auth.AuthVerifier
	if v, err := session.NewVerifier(session.Config{
		BaseURL: os.Getenv("SESSION_BASE_URL"),
		APIKey:  os.Getenv("SESSION_API_KEY"),
	}); err == nil {
		verifier = v
	}

	r := router.NewRouter(router.Options{
		AuthVerifier: verifier,
		Logger:       log,
	})

	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	log.Info("starting server", map[string]any{"addr": addr})
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Error("server error", map[string]any{"error": err.Error()})
		os.Exit(1)
	}
}
