package main

import (
	"fmt"
	"os"

	"github.com/framelight/framelight"
	"github.com/framelight/framelight/internal/presentation/graph"
	"github.com/spf13/cobra"
)

// graphCmd represents the graph command
var graphCmd = &cobra.Command{
	Use:   "graph",
	Short: "Export the flow graph visualization",
	Long:  `Inspects the prototype and outputs a Mermaid diagram (graph TD) of frames and interaction edges.`,
	Run: func(cmd *cobra.Command, args []string) {
		docPath, _ := cmd.Flags().GetString("file")
		if !cmd.Flags().Changed("file") && len(args) > 0 {
			docPath = args[0]
		}
		listOnly, _ := cmd.Flags().GetBool("list")

		engine, err := framelight.New(docPath)
		if err != nil {
			fmt.Printf("Error initializing framelight: %v\n", err)
			os.Exit(1)
		}

		proto, err := engine.Inspect()
		if err != nil {
			fmt.Printf("Error inspecting prototype: %v\n", err)
			os.Exit(1)
		}

		gp := graph.Prototype{
			StartFrame:   proto.StartFrame,
			Frames:       proto.Frames,
			Interactions: proto.Interactions,
		}

		if listOnly {
			for _, id := range graph.SortedFrameIDs(gp) {
				fmt.Println(id)
			}
			return
		}

		fmt.Print(graph.GenerateMermaid(gp, nil))
	},
}

func init() {
	rootCmd.AddCommand(graphCmd)
	graphCmd.Flags().Bool("list", false, "List frame IDs instead of rendering a diagram")
}
