package main

import (
	"context"
	"fmt"
	"os"

	"log/slog"

	"github.com/framelight/framelight"
	"github.com/framelight/framelight/internal/logging"
	"github.com/framelight/framelight/internal/presentation/tui"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

// runCmd represents the run command
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Play the prototype interactively",
	Long:  `Starts the Framelight player in interactive mode with the given prototype document.`,
	Run: func(cmd *cobra.Command, args []string) {
		docPath, _ := cmd.Flags().GetString("file")
		if !cmd.Flags().Changed("file") && len(args) > 0 {
			docPath = args[0]
		}
		headless, _ := cmd.Flags().GetBool("headless")
		watchMode, _ := cmd.Flags().GetBool("watch")
		debug, _ := cmd.Flags().GetBool("debug")

		if watchMode && headless {
			fmt.Println("Error: --watch and --headless cannot be used together.")
			os.Exit(1)
		}

		level := slog.LevelWarn
		if debug {
			level = slog.LevelDebug
		}
		logger := logging.New(level)

		engine, err := framelight.New(docPath, framelight.WithLogger(logger))
		if err != nil {
			fmt.Printf("Error initializing framelight: %v\n", err)
			os.Exit(1)
		}

		// The banner and glamour rendering only make sense on a real terminal.
		interactive := !headless && term.IsTerminal(int(os.Stdout.Fd()))
		if interactive {
			tui.PrintBanner(framelight.Version)
		}

		if watchMode {
			ctx, cancel := context.WithCancel(cmd.Context())
			defer cancel()
			if ch, err := engine.Watch(ctx); err == nil {
				go func() {
					for range ch {
						fmt.Println("\nPrototype changed. Type 'reset' to pick up the new flow.")
					}
				}()
			} else {
				fmt.Printf("Warning: watch unavailable: %v\n", err)
			}
		}

		r := framelight.NewRunner()
		r.Input = os.Stdin
		r.Output = os.Stdout
		r.Headless = headless
		if interactive {
			r.Renderer = tui.NewRenderer()
		}

		if err := r.Run(engine); err != nil {
			fmt.Printf("Error: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().Bool("headless", false, "Run in headless mode (no prompts, strict IO)")
	runCmd.Flags().BoolP("watch", "w", false, "Reload the document when it changes on disk")
	runCmd.Flags().Bool("debug", false, "Enable debug logging")

	// Make 'run' the default if no command is provided
	rootCmd.Run = runCmd.Run
}
