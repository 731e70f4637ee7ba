package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/auditax/console/internal/core/ports"
)

var basePadraoCmd = &cobra.Command{
	Use:   "basepadrao",
	Short: "Manage the golden set of validated classifications",
}

var basePadraoListCmd = &cobra.Command{
	Use:   "list",
	Short: "List golden-set entries",
	RunE: func(cmd *cobra.Command, _ []string) error {
		if err := requireSession(cmd.Context()); err != nil {
			return err
		}
		search, _ := cmd.Flags().GetString("search")
		items, err := app.BasePadrao.List(cmd.Context(), search)
		if err != nil {
			return err
		}
		return printJSON(items)
	},
}

var basePadraoAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Add a validated classification to the golden set",
	RunE: func(cmd *cobra.Command, _ []string) error {
		if err := requireSession(cmd.Context()); err != nil {
			return err
		}
		in := ports.BasePadraoInput{}
		in.Descricao, _ = cmd.Flags().GetString("descricao")
		in.GTIN, _ = cmd.Flags().GetString("gtin")
		in.NCM, _ = cmd.Flags().GetString("ncm")
		in.CEST, _ = cmd.Flags().GetString("cest")

		item, err := app.BasePadrao.Create(cmd.Context(), in)
		if err != nil {
			return err
		}
		return printJSON(item)
	},
}

var basePadraoUpdateCmd = &cobra.Command{
	Use:   "update <id>",
	Short: "Rewrite a golden-set entry",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireSession(cmd.Context()); err != nil {
			return err
		}
		id, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid entry id %q", args[0])
		}

		in := ports.BasePadraoInput{}
		in.Descricao, _ = cmd.Flags().GetString("descricao")
		in.GTIN, _ = cmd.Flags().GetString("gtin")
		in.NCM, _ = cmd.Flags().GetString("ncm")
		in.CEST, _ = cmd.Flags().GetString("cest")

		item, err := app.BasePadrao.Update(cmd.Context(), id, in)
		if err != nil {
			return err
		}
		return printJSON(item)
	},
}

var basePadraoRemoveCmd = &cobra.Command{
	Use:   "remove <id>",
	Short: "Remove a golden-set entry",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireSession(cmd.Context()); err != nil {
			return err
		}
		id, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid entry id %q", args[0])
		}
		if err := app.BasePadrao.Delete(cmd.Context(), id); err != nil {
			return err
		}
		fmt.Println("entry removed")
		return nil
	},
}

func init() {
	basePadraoListCmd.Flags().String("search", "", "filter by description")

	for _, c := range []*cobra.Command{basePadraoAddCmd, basePadraoUpdateCmd} {
		c.Flags().String("descricao", "", "product description")
		c.Flags().String("gtin", "", "barcode")
		c.Flags().String("ncm", "", "validated NCM code")
		c.Flags().String("cest", "", "validated CEST code")
	}
	_ = basePadraoAddCmd.MarkFlagRequired("descricao")
	_ = basePadraoAddCmd.MarkFlagRequired("ncm")
	_ = basePadraoUpdateCmd.MarkFlagRequired("descricao")
	_ = basePadraoUpdateCmd.MarkFlagRequired("ncm")

	basePadraoCmd.AddCommand(basePadraoListCmd, basePadraoAddCmd,
		basePadraoUpdateCmd, basePadraoRemoveCmd)
	rootCmd.AddCommand(basePadraoCmd)
}
