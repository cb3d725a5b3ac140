package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/framelight/framelight/pkg/adapters/file"
	"github.com/framelight/framelight/pkg/flowgen"
	"github.com/spf13/cobra"
)

// generateCmd represents the generate command
var generateCmd = &cobra.Command{
	Use:   "generate <prompt>",
	Short: "Generate a prototype flow from a prompt",
	Long: `Generates a playable prototype from a textual flow description and writes
it as a YAML document. Screens are comma, "then", or "->" separated:

  framelight generate "login, then dashboard, then settings" -o flow.yaml`,
	Args: cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		prompt := strings.Join(args, " ")
		output, _ := cmd.Flags().GetString("output")

		gen := flowgen.NewGenerator(flowgen.WithStatusFunc(func(s flowgen.Status) {
			fmt.Printf("... %s\n", s)
		}))

		result, err := gen.Generate(cmd.Context(), prompt)
		if err != nil {
			fmt.Printf("Generation failed: %v\n", err)
			os.Exit(1)
		}

		if err := file.Save(output, prompt, result.Source); err != nil {
			fmt.Printf("Error writing document: %v\n", err)
			os.Exit(1)
		}

		fmt.Printf("Wrote %d screens to %s\n", len(result.Screens), output)
		fmt.Printf("Play it with: framelight run -f %s\n", output)
	},
}

func init() {
	rootCmd.AddCommand(generateCmd)
	generateCmd.Flags().StringP("output", "o", "prototype.yaml", "Output document path")
}
