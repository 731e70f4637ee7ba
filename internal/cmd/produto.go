package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/auditax/console/internal/core/ports"
)

var produtosCmd = &cobra.Command{
	Use:   "produtos",
	Short: "Browse and classify products of the active empresa",
}

var produtosListCmd = &cobra.Command{
	Use:   "list",
	Short: "List products",
	RunE: func(cmd *cobra.Command, _ []string) error {
		if err := requireSession(cmd.Context()); err != nil {
			return err
		}
		status, _ := cmd.Flags().GetString("status")
		search, _ := cmd.Flags().GetString("search")
		page, _ := cmd.Flags().GetInt("page")

		produtos, err := app.Produtos.List(cmd.Context(), ports.ProdutoFilter{
			Status: status,
			Search: search,
			Page:   page,
		})
		if err != nil {
			return err
		}
		return printJSON(produtos)
	},
}

var produtosClassifyCmd = &cobra.Command{
	Use:   "classify <id>",
	Short: "Request a (re)classification of one product",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireSession(cmd.Context()); err != nil {
			return err
		}
		id, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid produto id %q", args[0])
		}
		produto, err := app.Produtos.Classify(cmd.Context(), id)
		if err != nil {
			return err
		}
		return printJSON(produto)
	},
}

var dashboardCmd = &cobra.Command{
	Use:   "dashboard",
	Short: "Show classification dashboard statistics",
	RunE: func(cmd *cobra.Command, _ []string) error {
		if err := requireSession(cmd.Context()); err != nil {
			return err
		}
		stats, err := app.Produtos.DashboardStats(cmd.Context())
		if err != nil {
			return err
		}
		return printJSON(stats)
	},
}

func init() {
	produtosListCmd.Flags().String("status", "", "filter by status (pendente, aprovado, reprovado)")
	produtosListCmd.Flags().String("search", "", "filter by description")
	produtosListCmd.Flags().Int("page", 0, "result page")

	produtosCmd.AddCommand(produtosListCmd, produtosClassifyCmd)
	rootCmd.AddCommand(produtosCmd, dashboardCmd)
}
