package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/okian/learnboard/internal/fakeplatform"
	"github.com/okian/learnboard/pkg/logger"
)

const (
	readHeaderTimeout = 5 * time.Second
	shutdownTimeout   = 10 * time.Second
)

var (
	serveAddr  string
	serveFlags datasetFlags
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the sign-in and GraphQL endpoints",
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", ":9100", "Address to listen on")
	serveFlags.bind(serveCmd)
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	if err := logger.Init(); err != nil {
		return fmt.Errorf("failed to initialize logging: %w", err)
	}
	log := logger.Named("fake-platform")

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg := serveFlags.config()
	srv := fakeplatform.New(cfg, fakeplatform.WithLogger(log))
	httpSrv := &http.Server{
		Addr:              serveAddr,
		Handler:           srv.Handler(),
		ReadHeaderTimeout: readHeaderTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info(ctx, "fake platform listening",
			logger.String("addr", serveAddr),
			logger.String("identifier", cfg.Identifier),
			logger.Int("xp", cfg.XPCount),
			logger.Int("projects", cfg.ProjectCount),
		)
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	issued, queries := srv.Stats()
	log.Info(ctx, "fake platform stopped", logger.Int("tokens", int(issued)), logger.Int("queries", int(queries)))
	return nil
}
