package main

import (
	"context"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"postgen/internal/api"
	"postgen/internal/config"
	"postgen/internal/credential"
	"postgen/internal/generator"
	"postgen/internal/httpserver"
	"postgen/internal/llm"
	"postgen/internal/logging"
	"postgen/internal/metrics"
	"postgen/internal/prompt"
	"postgen/internal/transport"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger := logging.New(cfg.LogLevel, os.Stdout)

	if !llm.IsKnownModel(cfg.Generation.ModelID) {
		logger.Warn("model is not in the catalog", slog.String("model", cfg.Generation.ModelID))
	}

	store, err := credential.OpenStore(cfg.Credential, logger)
	if err != nil {
		log.Fatalf("failed to init credential store: %v", err)
	}
	creds := credential.NewService(cfg.Credential.Name, store, cfg.Credential.APIKey)

	builder, err := prompt.New(cfg.Generation)
	if err != nil {
		log.Fatalf("failed to init prompt builder: %v", err)
	}

	m := metrics.New()
	httpClient := transport.NewHTTPClient(cfg.RequestTimeout)
	client := llm.NewClient(llm.ClientConfig{
		Primary:  llm.NewSDKTransport(cfg.Together, httpClient),
		Fallback: llm.NewHTTPTransport(cfg.Together, httpClient),
		Observer: m,
		Logger:   logger,
	})

	gen := generator.New(generator.Deps{
		Prompts:     builder,
		Completer:   client,
		Credentials: creds,
		Prompter:    logPrompter{logger: logger},
		Recorder:    m,
		Logger:      logger,
		OnState: func(s generator.State) {
			logger.Debug("generator state", slog.String("state", s.String()))
		},
	})

	router := httpserver.NewRouter(httpserver.RouterDeps{
		Logger: logger,
		API: api.NewHandler(api.Deps{
			Generator:   gen,
			Credentials: creds,
			Logger:      logger,
		}),
		Recorder: m,
		Metrics:  m.Handler(),
	})

	// WriteTimeout должен покрывать две попытки к провайдеру.
	server := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 2*cfg.RequestTimeout + 10*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		logger.Info("server starting",
			slog.String("addr", cfg.HTTPAddr),
			slog.String("model", cfg.Generation.ModelID),
			slog.Bool("credential_present", creds.Present()))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server failed", slog.String("error", err.Error()))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutdown initiated")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown error", slog.String("error", err.Error()))
	}

	logger.Info("server stopped")
}

// В HTTP-режиме ключ запрашивает страница по ответу 401,
// сервер только отмечает это в логе.
type logPrompter struct {
	logger *slog.Logger
}

func (p logPrompter) RequestCredential(ctx context.Context) {
	p.logger.Info("api key required, waiting for client to provide one")
}
