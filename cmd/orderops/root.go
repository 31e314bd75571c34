package main

import (
	"github.com/spf13/cobra"
)

// NewRootCmd creates the root command for the orderops CLI.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "orderops",
		Short: "orderops - order, production and shipping backend",
		Long: `orderops serves the session gateway for the order, production and
shipping application and provides account administration commands.`,
		SilenceUsage: true,
	}

	cmd.AddCommand(newServeCmd())
	cmd.AddCommand(newHashPasswordCmd())
	cmd.AddCommand(newCreateUserCmd())
	cmd.AddCommand(newSetPasswordCmd())
	cmd.AddCommand(newSetActiveCmd())

	return cmd
}
