// Package cmd implements the CLI commands for stockwatch.
package cmd

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "stockwatch",
	Short: "Monitor storefront product pages for stock changes",
	Long: "A service that polls e-commerce product pages across supported storefronts, " +
		"detects variant availability changes with set diffs, and sends restock and " +
		"sold-out alerts to a Discord channel.",
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "config.yaml", "config file path")
	rootCmd.PersistentFlags().String("server", "http://localhost:8080", "API server URL for client commands")

	if err := viper.BindPFlag("server", rootCmd.PersistentFlags().Lookup("server")); err != nil {
		panic(err)
	}
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
