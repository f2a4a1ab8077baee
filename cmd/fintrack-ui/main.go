// Command fintrack-ui is the form-based front end of the personal finance
// tracker, rendered as a terminal application.
package main

import (
	"log/slog"
	"os"

	"fintrack/internal/config"
	"fintrack/internal/storage"
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	cfg := config.Load()

	db, err := storage.Open(cfg.DBPath)
	if err != nil {
		logger.Error("failed to open database", "path", cfg.DBPath, "error", err)
		os.Exit(1)
	}
	defer db.Close()

	ui := newUI(db)
	if err := ui.Run(); err != nil {
		logger.Error("ui terminated", "error", err)
		os.Exit(1)
	}
}
