package main

import (
	"fmt"
	"strings"

	"github.com/framelight/framelight"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of framelight",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("framelight version %s\n", strings.TrimSpace(framelight.Version))
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
