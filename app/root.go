// Package app implements the main application commands.
package app

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "materialdesk",
	Short: "MaterialDesk is a backend for sharing and collecting study materials",
	Long: `MaterialDesk is a backend service for sharing study materials.
It stores uploaded files with their metadata, lets users tag materials with
categories, build personal collections and search the shared catalog.`,
	Args: cobra.OnlyValidArgs,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
