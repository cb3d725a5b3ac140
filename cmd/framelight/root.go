package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "framelight",
	Short: "Framelight is a playback engine for interactive design prototypes",
	Long:  `Framelight plays the interaction layer of a design prototype: frames, triggers, overlays, variables, and timed transitions, from the terminal or over HTTP.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	// Persistent flags (available to all commands)
	rootCmd.PersistentFlags().StringP("file", "f", "prototype.yaml", "Path to the prototype document")
}
