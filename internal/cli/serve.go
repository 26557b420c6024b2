package cli

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/findosh/stockpulse/internal/handlers"
)

func newServeCmd(a *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the dashboard API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			if err := a.Open(ctx); err != nil {
				return err
			}

			if port, _ := cmd.Flags().GetString("port"); port != "" {
				a.Config.Port = port
			}

			h := handlers.New(a.Config, a.Controller, a.Auth, a.Activity, a.Registry, a.Logger)
			srv := &http.Server{
				Addr:              ":" + a.Config.Port,
				Handler:           h.Routes(),
				ReadHeaderTimeout: 10 * time.Second,
			}

			a.Controller.Start(ctx)
			go a.cleanupSessions(ctx, time.Hour)

			errCh := make(chan error, 1)
			go func() {
				a.Logger.Info().
					Str("addr", srv.Addr).
					Str("environment", a.Config.Environment).
					Bool("auth", a.Auth.Enabled()).
					Msg("StockPulse server starting")
				errCh <- srv.ListenAndServe()
			}()

			select {
			case err := <-errCh:
				if !errors.Is(err, http.ErrServerClosed) {
					return err
				}
				return nil
			case <-ctx.Done():
			}

			a.Logger.Info().Msg("shutting down")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	}
	cmd.Flags().String("port", "", "listen port (overrides config)")
	return cmd
}

func (a *App) cleanupSessions(ctx context.Context, every time.Duration) {
	t := time.NewTicker(every)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			if err := a.Auth.CleanupExpiredSessions(); err != nil {
				a.Logger.Warn().Err(err).Msg("failed to clean up sessions")
			}
		}
	}
}
