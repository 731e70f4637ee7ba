package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/auditax/console/internal/core/domain"
	"github.com/auditax/console/internal/core/ports"
)

var empresaCmd = &cobra.Command{
	Use:   "empresa",
	Short: "Manage empresas (tenants) and the active selection",
}

var empresaListCmd = &cobra.Command{
	Use:   "list",
	Short: "List empresas visible to the signed-in user",
	RunE: func(cmd *cobra.Command, _ []string) error {
		if err := requireSession(cmd.Context()); err != nil {
			return err
		}
		if result := app.Empresas.LoadEmpresas(cmd.Context()); !result.Success {
			return fmt.Errorf("%s", result.Message)
		}
		return printJSON(app.Empresas.Empresas())
	},
}

var empresaSelectCmd = &cobra.Command{
	Use:   "select <id>",
	Short: "Activate an empresa for subsequent commands",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireSession(cmd.Context()); err != nil {
			return err
		}
		id, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid empresa id %q", args[0])
		}

		if result := app.Empresas.LoadEmpresas(cmd.Context()); !result.Success {
			return fmt.Errorf("%s", result.Message)
		}
		var target *domain.Empresa
		for _, e := range app.Empresas.Empresas() {
			if e.ID == id {
				found := e
				target = &found
				break
			}
		}
		if target == nil {
			return fmt.Errorf("empresa %d not found", id)
		}

		result := app.Empresas.SelectEmpresa(cmd.Context(), *target)
		if !result.Success {
			return fmt.Errorf("%s", result.Message)
		}
		fmt.Println(result.Message)
		return nil
	},
}

var empresaCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Register a new empresa",
	RunE: func(cmd *cobra.Command, _ []string) error {
		if err := requireSession(cmd.Context()); err != nil {
			return err
		}
		name, _ := cmd.Flags().GetString("nome")
		cnpj, _ := cmd.Flags().GetString("cnpj")
		legal, _ := cmd.Flags().GetString("razao-social")
		email, _ := cmd.Flags().GetString("email")

		created, result := app.Empresas.Create(cmd.Context(), ports.CreateEmpresaInput{
			Name:      name,
			CNPJ:      cnpj,
			LegalName: legal,
			Email:     email,
		})
		if !result.Success {
			return fmt.Errorf("%s", result.Message)
		}
		return printJSON(created)
	},
}

var empresaDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Remove an empresa",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireSession(cmd.Context()); err != nil {
			return err
		}
		id, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid empresa id %q", args[0])
		}
		if result := app.Empresas.Delete(cmd.Context(), id); !result.Success {
			return fmt.Errorf("%s", result.Message)
		}
		fmt.Println("empresa deleted")
		return nil
	},
}

var empresaStatsCmd = &cobra.Command{
	Use:   "stats <id>",
	Short: "Show an empresa's classification workload",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireSession(cmd.Context()); err != nil {
			return err
		}
		id, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid empresa id %q", args[0])
		}
		stats, err := app.EmpresaAPI.Stats(cmd.Context(), id)
		if err != nil {
			return err
		}
		return printJSON(stats)
	},
}

var empresaSyncCmd = &cobra.Command{
	Use:   "sync <id>",
	Short: "Trigger a data synchronisation for an empresa",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireSession(cmd.Context()); err != nil {
			return err
		}
		id, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid empresa id %q", args[0])
		}
		if err := app.EmpresaAPI.Sync(cmd.Context(), id); err != nil {
			return err
		}
		fmt.Println("synchronisation started")
		return nil
	},
}

var empresaPermissionsCmd = &cobra.Command{
	Use:   "permissions <id>",
	Short: "Show the caller's permission set within an empresa",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireSession(cmd.Context()); err != nil {
			return err
		}
		id, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid empresa id %q", args[0])
		}
		perms, err := app.EmpresaAPI.UserPermissions(cmd.Context(), id)
		if err != nil {
			return err
		}
		return printJSON(perms)
	},
}

var empresaUsersCmd = &cobra.Command{
	Use:   "usuarios <id>",
	Short: "List the users of an empresa",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireSession(cmd.Context()); err != nil {
			return err
		}
		id, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid empresa id %q", args[0])
		}
		users, err := app.EmpresaAPI.Users(cmd.Context(), id)
		if err != nil {
			return err
		}
		return printJSON(users)
	},
}

func init() {
	empresaCreateCmd.Flags().String("nome", "", "display name")
	empresaCreateCmd.Flags().String("cnpj", "", "tax identifier (14 digits)")
	empresaCreateCmd.Flags().String("razao-social", "", "legal name")
	empresaCreateCmd.Flags().String("email", "", "contact email")
	_ = empresaCreateCmd.MarkFlagRequired("nome")
	_ = empresaCreateCmd.MarkFlagRequired("cnpj")

	empresaCmd.AddCommand(empresaListCmd, empresaSelectCmd, empresaCreateCmd,
		empresaDeleteCmd, empresaPermissionsCmd, empresaStatsCmd, empresaSyncCmd,
		empresaUsersCmd)
	rootCmd.AddCommand(empresaCmd)
}
