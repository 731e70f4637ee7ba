package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	opshttp "github.com/auditax/console/internal/infrastructure/http"
)

var opsCmd = &cobra.Command{
	Use:   "ops",
	Short: "Run the local health/metrics listener",
	Long: `Serves /health, /health/ready and /metrics on CONSOLE_OPS_ADDR for
long-running console deployments. Blocks until interrupted.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		addr := app.Config.OpsAddr
		if addr == "" {
			return fmt.Errorf("set CONSOLE_OPS_ADDR to enable the ops listener")
		}

		router := opshttp.NewRouter(app.Store)
		errCh := make(chan error, 1)
		go func() {
			errCh <- router.Start(addr)
		}()
		app.Log.Info().Str("addr", addr).Msg("ops listener started")

		select {
		case err := <-errCh:
			if err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		case <-cmd.Context().Done():
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			return router.Shutdown(shutdownCtx)
		}
	},
}

func init() {
	rootCmd.AddCommand(opsCmd)
}
