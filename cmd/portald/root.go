package main

import (
	"github.com/spf13/cobra"
)

// NewRootCmd creates the portald command tree.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "portald",
		Short: "Student portal authentication service",
		Long: `portald serves account registration, login and profile endpoints
for the student portal. Settings come from PORTAL_* environment variables;
flags override a few of them.`,
		SilenceUsage: true,
	}

	cmd.AddCommand(NewServeCmd())
	cmd.AddCommand(NewMigrateCmd())

	return cmd
}
