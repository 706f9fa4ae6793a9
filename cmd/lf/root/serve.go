package root

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"lifeforge/internal/api"
	"lifeforge/internal/housekeeping"
	"lifeforge/internal/ui"
)

func newServeCmd() *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API with scheduled housekeeping",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			a, cleanup, err := openApp(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			if addr == "" {
				addr = cfg.HTTP.Addr
			}
			srv := api.NewServer(a.svc, a.log)
			if cfg.Metrics.Enabled {
				srv.EnableMetrics()
			}

			var sched *housekeeping.Scheduler
			if cfg.Housekeeping.Schedule != "" {
				sched = housekeeping.New(a.svc, a.log)
				if err := sched.Start(cfg.Housekeeping.Schedule); err != nil {
					return err
				}
			}

			httpSrv := &http.Server{
				Addr:              addr,
				Handler:           srv.Handler(),
				ReadHeaderTimeout: 10 * time.Second,
			}
			errCh := make(chan error, 1)
			go func() {
				errCh <- httpSrv.ListenAndServe()
			}()
			fmt.Fprintf(cmd.OutOrStdout(), "%s listening on %s\n", ui.IconBolt, ui.Key.Render("http://"+addr))
			a.log.Info("http server started", "addr", addr)

			select {
			case err := <-errCh:
				if !errors.Is(err, http.ErrServerClosed) {
					return fmt.Errorf("http server: %w", err)
				}
			case <-ctx.Done():
			}

			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if sched != nil {
				sched.Stop(shutdownCtx)
			}
			if err := httpSrv.Shutdown(shutdownCtx); err != nil {
				return fmt.Errorf("shutdown: %w", err)
			}
			a.log.Info("http server stopped")
			return nil
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "Listen address (overrides config)")
	return cmd
}
