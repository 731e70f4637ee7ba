package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/auditax/console/internal/core/domain"
	"github.com/auditax/console/internal/core/ports"
)

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Sign in and persist the session",
	RunE: func(cmd *cobra.Command, _ []string) error {
		username, _ := cmd.Flags().GetString("username")
		password, _ := cmd.Flags().GetString("password")

		app.Nav.path = ports.LoginPath
		result := app.Sessions.Login(cmd.Context(), domain.Credentials{
			Username: username,
			Password: password,
		})
		if !result.Success {
			return fmt.Errorf("%s", result.Message)
		}

		user := app.Sessions.CurrentUser()
		fmt.Printf("signed in as %s\n", user.Username)
		if len(user.Empresas) > 0 {
			fmt.Println("select an empresa with 'auditax empresa select <id>'")
		}
		return nil
	},
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Sign out and clear all persisted state",
	RunE: func(cmd *cobra.Command, _ []string) error {
		app.Sessions.Restore(cmd.Context())
		result := app.Sessions.Logout(cmd.Context())
		if !result.Success {
			return fmt.Errorf("%s", result.Message)
		}
		fmt.Println("signed out")
		return nil
	},
}

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the signed-in user and active empresa",
	RunE: func(cmd *cobra.Command, _ []string) error {
		if err := requireSession(cmd.Context()); err != nil {
			return err
		}

		out := struct {
			User     *domain.User    `json:"user"`
			Selected *domain.Empresa `json:"selected_empresa,omitempty"`
		}{
			User:     app.Sessions.CurrentUser(),
			Selected: app.Empresas.Selected(),
		}
		return printJSON(out)
	},
}

var passwdCmd = &cobra.Command{
	Use:   "passwd",
	Short: "Change the account password",
	RunE: func(cmd *cobra.Command, _ []string) error {
		if err := requireSession(cmd.Context()); err != nil {
			return err
		}
		current, _ := cmd.Flags().GetString("current")
		newPass, _ := cmd.Flags().GetString("new")

		if err := app.Auth.ChangePassword(cmd.Context(), current, newPass, newPass); err != nil {
			return err
		}
		fmt.Println("password changed")
		return nil
	},
}

func init() {
	loginCmd.Flags().String("username", "", "account username")
	loginCmd.Flags().String("password", "", "account password")
	_ = loginCmd.MarkFlagRequired("username")
	_ = loginCmd.MarkFlagRequired("password")

	passwdCmd.Flags().String("current", "", "current password")
	passwdCmd.Flags().String("new", "", "new password")
	_ = passwdCmd.MarkFlagRequired("current")
	_ = passwdCmd.MarkFlagRequired("new")

	rootCmd.AddCommand(loginCmd, logoutCmd, whoamiCmd, passwdCmd)
}
