// Command api runs the lead relay HTTP service.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cntpdlab/leadrelay/internal/config"
	"github.com/cntpdlab/leadrelay/internal/handler"
	"github.com/cntpdlab/leadrelay/internal/logger"
	"github.com/cntpdlab/leadrelay/internal/middleware"
	"github.com/cntpdlab/leadrelay/internal/router"
	"github.com/cntpdlab/leadrelay/internal/server"
	"github.com/cntpdlab/leadrelay/internal/service"
	"github.com/rs/zerolog"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		bootstrapFatal(err, "failed to load config")
	}

	log, loggerService, err := logger.New(cfg)
	if err != nil {
		bootstrapFatal(err, "failed to initialize logger")
	}

	srv, err := server.New(cfg, log, loggerService)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize server")
	}

	services := service.NewServices(srv)
	handlers := handler.NewHandlers(srv, services)
	middlewares := middleware.NewMiddlewares(srv)

	srv.SetupHTTPServer(router.New(srv, handlers, middlewares))

	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server stopped unexpectedly")
		}
	}()

	// Block until an interrupt/termination signal, then shut down
	// gracefully: inflight requests get up to 10 seconds to finish.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}

	// Flush buffered telemetry before exit.
	loggerService.Shutdown(5 * time.Second)
}

// bootstrapFatal reports errors that occur before the main logger
// exists.
func bootstrapFatal(err error, msg string) {
	fallback := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()
	fallback.Fatal().Err(err).Msg(msg)
}
