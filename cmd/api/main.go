package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"github.com/shafwanhasyim/sikad-gg/internal/config"
	"github.com/shafwanhasyim/sikad-gg/internal/logging"
	"github.com/shafwanhasyim/sikad-gg/internal/server"
)

func gracefulShutdown(apiServer *http.Server, logger log.Logger, cancelBackground context.CancelFunc, done chan bool) {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Listen for the interrupt signal.
	<-ctx.Done()

	level.Info(logger).Log("msg", "shutting down gracefully, press Ctrl+C again to force")
	stop()
	cancelBackground()

	// The server has 5 seconds to finish the requests it is handling
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := apiServer.Shutdown(ctx); err != nil {
		level.Error(logger).Log("msg", "server forced to shutdown", "err", err)
	}

	level.Info(logger).Log("msg", "server exiting")

	done <- true
}

func main() {
	bootLogger := logging.New(os.Stderr, "sikad-api", "info")

	if err := config.LoadDotEnv(); err != nil {
		level.Warn(bootLogger).Log("msg", "continuing without .env", "err", err)
	}

	cfg, err := config.Load()
	if err != nil {
		level.Error(bootLogger).Log("msg", "invalid configuration", "err", err)
		os.Exit(1)
	}

	logger := logging.New(os.Stderr, "sikad-api", cfg.LogLevel)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	apiServer, err := server.NewServer(ctx, cfg, logger)
	if err != nil {
		level.Error(logger).Log("msg", "failed to start server", "err", err)
		os.Exit(1)
	}

	done := make(chan bool, 1)
	go gracefulShutdown(apiServer, logger, cancel, done)

	level.Info(logger).Log("msg", "listening", "addr", apiServer.Addr, "auth", cfg.AuthEnabled)
	err = apiServer.ListenAndServe()
	if err != nil && err != http.ErrServerClosed {
		panic(fmt.Sprintf("http server error: %s", err))
	}

	<-done
	level.Info(logger).Log("msg", "graceful shutdown complete")
}
