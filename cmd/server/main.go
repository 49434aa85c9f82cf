package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/polyblog/polyblog"
	"github.com/polyblog/polyblog/internal/logging"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		log.Fatalf("server: %v", err)
	}
}

func run(args []string) error {
	fs := flag.NewFlagSet("server", flag.ExitOnError)
	seed := fs.Bool("seed", false, "Load demo content on startup")
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, err := polyblog.LoadConfig()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	module, err := polyblog.New(ctx, cfg)
	if err != nil {
		return err
	}
	defer module.Close()

	logger := logging.ModuleLogger(module.LoggerProvider(), "polyblog.server")

	if *seed {
		if err := module.Seed(ctx); err != nil {
			return err
		}
		logger.Info("demo content seeded")
	}

	server := &http.Server{
		Addr:    cfg.Server.Addr,
		Handler: module.Handler(),
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("listening", "addr", cfg.Server.Addr)
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
	case <-ctx.Done():
		logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			return err
		}
	}

	return nil
}
