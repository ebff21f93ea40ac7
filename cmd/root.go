// Package cmd implements the command-line interface for the price engine.
// It provides the root command and subcommands for searching medicine prices
// and serving the HTTP API.
package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pharmalens/pricelens/cmd/httpd"
	"github.com/pharmalens/pricelens/cmd/search"
	cmdsources "github.com/pharmalens/pricelens/cmd/sources"
)

var (
	// cfgFile holds the path to the configuration file.
	cfgFile string

	// debug enables debug mode for all commands.
	debug bool

	rootCmd = &cobra.Command{
		Use:   "pricelens",
		Short: "A medicine price comparison engine",
		Long:  `Compare medicine prices across Indian online pharmacies.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}
)

// Execute runs the root command.
func Execute() error {
	return rootCmd.ExecuteContext(context.Background())
}

func init() {
	rootCmd.PersistentFlags().StringVar(
		&cfgFile,
		"config",
		"",
		"config file (default is ./config.yaml or ./config/config.yaml)",
	)
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug mode")

	rootCmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print the version number",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("pricelens version %s\n", "1.0.0")
		},
	})

	rootCmd.AddCommand(httpd.Command(&cfgFile, &debug))
	rootCmd.AddCommand(search.Command(&cfgFile, &debug))
	rootCmd.AddCommand(cmdsources.Command())
}
