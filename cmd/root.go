package cmd

import (
	"github.com/spf13/cobra"
)

var cfgPath string

var rootCmd = &cobra.Command{
	Use:   "humanpred",
	Short: "Pedestrian occupancy prediction service",
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgPath, "config", "c", "config.yaml", "configuration file")
	rootCmd.AddCommand(predictCmd, simulateCmd)
}

// Execute runs the CLI.
func Execute() error { return rootCmd.Execute() }
