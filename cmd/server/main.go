package main

import (
	"log"
	"log/slog"
	"net/http"
	"os"

	"github.com/csg33k/training-portal/internal/adapters/backend"
	"github.com/csg33k/training-portal/internal/adapters/pdf"
	"github.com/csg33k/training-portal/internal/config"
	"github.com/csg33k/training-portal/internal/handlers"
	"github.com/csg33k/training-portal/internal/session"
)

func main() {
	cfg, err := config.New(".env")
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: parseLevel(cfg.LogLevel),
	}))

	api := backend.New(cfg.BackendURL, cfg.BackendTimeout, logger)
	sessions := session.NewManager(cfg.SessionSecret)
	h := handlers.New(api, pdf.NewRenderer(), sessions, logger)

	log.Printf("Training portal running on http://localhost:%s", cfg.Port)
	log.Printf("Backend service: %s", cfg.BackendURL)
	if err := http.ListenAndServe(":"+cfg.Port, h.Routes()); err != nil {
		log.Fatal(err)
	}
}

func parseLevel(level string) slog.Level {
	var l slog.Level
	if err := l.UnmarshalText([]byte(level)); err != nil {
		return slog.LevelInfo
	}
	return l
}
