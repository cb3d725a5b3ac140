package main

import (
	"fmt"
	"os"

	"github.com/framelight/framelight"
	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check the prototype for consistency",
	Long:  `Loads the prototype document and reports dangling destinations, duplicate interaction IDs, and unknown triggers or actions. Findings are advisory; the player degrades around them.`,
	Run: func(cmd *cobra.Command, args []string) {
		docPath, _ := cmd.Flags().GetString("file")
		if !cmd.Flags().Changed("file") && len(args) > 0 {
			docPath = args[0]
		}

		engine, err := framelight.New(docPath)
		if err != nil {
			fmt.Printf("Error initializing framelight: %v\n", err)
			os.Exit(1)
		}

		issues, err := engine.Validate()
		if err != nil {
			fmt.Printf("Validation failed: %v\n", err)
			os.Exit(1)
		}

		if len(issues) == 0 {
			fmt.Println("Prototype is valid! ✅")
			return
		}

		fmt.Printf("Found %d issue(s):\n", len(issues))
		for _, issue := range issues {
			fmt.Println("- " + issue.String())
		}
		os.Exit(1)
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
}
