// Command kirvanohook runs the Kirvano webhook receiver.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/radarpolitico/kirvanohook/internal/config"
	"github.com/radarpolitico/kirvanohook/pkg/kirvano"
	zerologadapter "github.com/radarpolitico/kirvanohook/pkg/kirvano/logger/zerolog"
	prommetrics "github.com/radarpolitico/kirvanohook/pkg/kirvano/metrics/prometheus"
	"github.com/radarpolitico/kirvanohook/pkg/telegram"
)

func main() {
	output := zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}
	zlog := zerolog.New(output).With().Timestamp().Logger()
	logger := zerologadapter.NewLogger(zlog)

	cfg, err := config.LoadConfig()
	if err != nil {
		zlog.Fatal().Err(err).Msg("failed to load configuration")
	}

	logger.Info("starting webhook server",
		kirvano.Field{Key: "kirvano_token_configured", Value: cfg.KirvanoToken != ""},
		kirvano.Field{Key: "bot_token_configured", Value: cfg.BotToken != ""},
		kirvano.Field{Key: "admin_chat_configured", Value: cfg.AdminChatID != ""},
		kirvano.Field{Key: "port", Value: cfg.Port})

	notifier := telegram.NewNotifier(telegram.Config{
		BotToken: cfg.BotToken,
		ChatID:   cfg.AdminChatID,
		Logger:   logger,
	})

	handler := kirvano.NewHandler(kirvano.Config{
		Token:    cfg.KirvanoToken,
		Notifier: notifier,
		Logger:   logger,
		Metrics:  prommetrics.DefaultMetrics("kirvanohook"),
	})

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Handle("/metrics", promhttp.Handler())
	r.Mount("/", handler.Routes())

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("listening", kirvano.Field{Key: "addr", Value: srv.Addr})
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		zlog.Fatal().Err(err).Msg("server error")
	}
	logger.Info("server stopped")
}
