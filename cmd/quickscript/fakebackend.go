package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/five82/quickscript/internal/backend/fakebackend"
)

const shutdownTimeout = 5 * time.Second

func newFakeBackendCmd() *cobra.Command {
	var (
		listen string
		auto   bool
		level  string
	)
	cmd := &cobra.Command{
		Use:    "fake-backend",
		Short:  "Serve an in-memory stand-in for the transcription backend",
		Args:   cobra.NoArgs,
		Hidden: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var lvl slog.Level
			if err := lvl.UnmarshalText([]byte(level)); err != nil {
				return fmt.Errorf("invalid --log-level %q: %w", level, err)
			}
			logger := slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: lvl}))

			opts := []fakebackend.Option{fakebackend.WithLogger(logger)}
			if auto {
				opts = append(opts, fakebackend.WithAutoProgress())
			}
			return serveFakeBackend(cmd.Context(), listen, fakebackend.New(opts...), logger)
		},
	}
	cmd.Flags().StringVar(&listen, "listen", "127.0.0.1:8000", "address to listen on")
	cmd.Flags().BoolVar(&auto, "auto", true, "advance jobs to complete on each status poll")
	cmd.Flags().StringVar(&level, "log-level", "info", "request log level")
	return cmd
}

func serveFakeBackend(ctx context.Context, addr string, handler http.Handler, logger *slog.Logger) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", addr, err)
	}
	srv := &http.Server{
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Serve(ln)
	}()
	logger.Info("fake backend listening", "addr", ln.Addr().String(), "pid", os.Getpid())

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	logger.Info("fake backend stopped")
	return nil
}
