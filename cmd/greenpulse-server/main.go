// Command greenpulse-server serves the analysis read API and the
// Prometheus metrics endpoint over HTTP.
package main

import (
	"flag"
	"log/slog"
	"os"

	"greenpulse/internal/app"
)

func main() {
	configPath := flag.String("config", "greenpulse.yaml", "path to the config file")
	flag.Parse()

	application, err := app.NewApplication(*configPath)
	if err != nil {
		slog.Error("Failed to initialize application", slog.String("error", err.Error()))
		os.Exit(1)
	}

	if err := application.Run(); err != nil {
		slog.Error("Application error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
