package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"

	"derrclan.com/daily-bread/internal/config"
	"derrclan.com/daily-bread/internal/resolver"
	"derrclan.com/daily-bread/internal/scripture"
	"derrclan.com/daily-bread/internal/server"
)

func main() {
	configPath := pflag.String("config", "", "config file (default: $XDG_CONFIG_HOME/bible/config.toml)")
	pflag.String("api-key", "", "api.bible API key")
	pflag.StringP("bible-version", "b", "", "bible version id (default \"kjv\")")
	pflag.Duration("timeout", 0, "per-request timeout (default 10s)")
	pflag.String("listen-addr", "", "address to listen on (default \":42069\")")
	pflag.Parse()

	if err := godotenv.Load(); err != nil {
		slog.Debug("no .env file loaded", "error", err)
	}

	cfg, err := config.Load(*configPath, pflag.CommandLine)
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	if err := cfg.Validate(); err != nil {
		slog.Error("invalid config", "error", err)
		os.Exit(1)
	}

	client := scripture.NewClient(cfg.APIKey, scripture.WithTimeout(cfg.Timeout))
	mux := server.Muxer(resolver.New(client, cfg.BibleVersion))

	srv := http.Server{
		Addr:    cfg.ListenAddr,
		Handler: mux,
	}

	ctx := context.Background()

	idleConns := make(chan struct{})
	go func() {
		sigint := make(chan os.Signal, 1)
		signal.Notify(sigint, os.Interrupt)
		<-sigint

		if err := srv.Shutdown(ctx); err != nil {
			slog.Error("error shutting down http server", "error", err)
		}
		close(idleConns)
	}()

	slog.Info("serving verses", "addr", cfg.ListenAddr, "version", cfg.BibleVersion)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		slog.Error("http server died", "error", err)
		os.Exit(1)
	}
	<-idleConns
}
