// Package cmd defines the auditax CLI: the console surface over the session
// store, tenant context and access layer.
package cmd

import (
	"context"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "auditax",
	Short: "Administrative console for the tax-classification backend",
	Long: `auditax is the administrative console for the product tax-classification
service. It manages the signed-in session, the active empresa (tenant) and
issues product, golden-set and batch-process operations against the REST
backend.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// ExecuteContext runs the root command with the given context.
func ExecuteContext(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}
