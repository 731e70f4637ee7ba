package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

var processoCmd = &cobra.Command{
	Use:   "processo",
	Short: "Drive server-side batch runs",
}

var processoSyncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Start a product synchronisation run",
	RunE: func(cmd *cobra.Command, _ []string) error {
		if err := requireSession(cmd.Context()); err != nil {
			return err
		}
		sessionID, err := app.Processo.Sincronizar(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Printf("started, session %s\n", sessionID)
		return nil
	},
}

var processoLoteCmd = &cobra.Command{
	Use:   "lote [produto-id...]",
	Short: "Start a batch classification run",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireSession(cmd.Context()); err != nil {
			return err
		}
		ids := make([]int, 0, len(args))
		for _, arg := range args {
			id, err := strconv.Atoi(arg)
			if err != nil {
				return fmt.Errorf("invalid produto id %q", arg)
			}
			ids = append(ids, id)
		}
		sessionID, err := app.Processo.ClassificarLote(cmd.Context(), ids)
		if err != nil {
			return err
		}
		fmt.Printf("started, session %s\n", sessionID)
		return nil
	},
}

var processoStatusCmd = &cobra.Command{
	Use:   "status <session-id>",
	Short: "Show the progress of a batch run",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireSession(cmd.Context()); err != nil {
			return err
		}
		status, err := app.Processo.Status(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		return printJSON(status)
	},
}

func init() {
	processoCmd.AddCommand(processoSyncCmd, processoLoteCmd, processoStatusCmd)
	rootCmd.AddCommand(processoCmd)
}
