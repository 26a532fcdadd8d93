package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/hy4ri/clickup-tui/internal/web"
	"github.com/hy4ri/clickup-tui/internal/workload"
)

func newServeCmd(opts *rootOptions) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Poll ClickUp and serve the dashboard over HTTP",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			session, cfg, logger, err := startSession(ctx, opts)
			if err != nil {
				return err
			}

			go session.Poll(ctx, cfg.Workspace.PollInterval, func(snap *workload.Snapshot, err error) {
				if err != nil {
					logger.Warn("poll failed", "err", err)
					return
				}
				logger.Debug("poll", "generation", snap.Generation, "tasks", snap.RawCount)
			})

			srv := &http.Server{
				Addr:              addr,
				Handler:           web.NewServer(session, logger),
				ReadHeaderTimeout: 10 * time.Second,
			}

			go func() {
				<-ctx.Done()
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				if err := srv.Shutdown(shutdownCtx); err != nil {
					logger.Error("shutdown", "err", err)
				}
			}()

			logger.Info("serving dashboard", "addr", addr)
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "localhost:8080", "Listen address")
	return cmd
}
