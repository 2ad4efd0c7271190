package cmd

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/TWRT/taskflow-client/internal/api"
	"github.com/TWRT/taskflow-client/internal/repository"
)

func (c *cli) serverCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mock-server",
		Short: "Run a local task API backed by sqlite",
		Long: `Run the task API locally for development and contract tests.

Tokens are verified with server.jwt_secret when it is set. Without a
secret any bearer token is accepted and used as the user id.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := c.app.cfg.Server
			log := c.app.log.WithField("component", "server")

			db, err := repository.InitDB(cfg.DBPath)
			if err != nil {
				return err
			}
			defer db.Close()

			srv := &http.Server{
				Addr: cfg.Addr,
				Handler: api.SetupRouter(db, api.Options{
					JWTSecret: cfg.JWTSecret,
					Log:       c.app.log,
				}),
				ReadHeaderTimeout: 10 * time.Second,
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			errCh := make(chan error, 1)
			go func() {
				log.WithField("addr", cfg.Addr).WithField("db", cfg.DBPath).Info("listening")
				errCh <- srv.ListenAndServe()
			}()

			select {
			case err := <-errCh:
				if errors.Is(err, http.ErrServerClosed) {
					return nil
				}
				return err
			case <-ctx.Done():
			}

			log.Info("shutting down")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	}
	f := cmd.Flags()
	f.String("addr", "", "listen address (default :8080)")
	f.String("db", "", "sqlite database path (default ./taskflow.db)")
	_ = c.v.BindPFlag("server.addr", f.Lookup("addr"))
	_ = c.v.BindPFlag("server.db_path", f.Lookup("db"))
	return cmd
}
