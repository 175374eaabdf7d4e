// Package command holds the cobra commands of the archive server binary.
package command

import (
	"fmt"
	"os"

	"github.com/dmitrijs2005/docarchive/internal/server/config"
	"github.com/spf13/cobra"
)

// NewRootCommand builds the command tree. args are the raw process
// arguments; configuration flags (-a, -d, -c ...) are picked out of them by
// the config package, so subcommands tolerate flags they do not declare.
func NewRootCommand(args []string) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "server",
		Short:         "Department document archive server",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	load := func() *config.Config {
		return config.LoadConfig(args)
	}

	rootCmd.AddCommand(NewServeCommand(load))
	rootCmd.AddCommand(NewMigrateCommand(load))
	rootCmd.AddCommand(NewTokenCommand(load))

	return rootCmd
}

// Execute runs the root command against os.Args.
func Execute() {
	if err := NewRootCommand(os.Args[1:]).Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

var tolerateConfigFlags = cobra.FParseErrWhitelist{UnknownFlags: true}
