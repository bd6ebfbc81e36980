// Command cli is the operator tool for the reconciliation engine: schema
// migrations, ledger lookups and credential helpers.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var Version = "dev"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var envFile string
	rootCmd := &cobra.Command{
		Use:           "payme-cli",
		Short:         "Operator tool for the payme reconciliation engine",
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().StringVar(&envFile, "env", ".env", "environment file to load")

	env := func() string { return envFile }
	rootCmd.AddCommand(migrateCmd(env))
	rootCmd.AddCommand(txCmd(env))
	rootCmd.AddCommand(statementCmd(env))
	rootCmd.AddCommand(authHeaderCmd(env))
	rootCmd.AddCommand(tokenCmd(env))
	return rootCmd
}
