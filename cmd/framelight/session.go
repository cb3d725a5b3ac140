package main

import (
	"encoding/json"
	"fmt"
	"os"

	backend "github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	"github.com/framelight/framelight/internal/config"
	redisstore "github.com/framelight/framelight/pkg/adapters/redis"
)

var sessionCmd = &cobra.Command{
	Use:   "session",
	Short: "Manage persistent playback sessions",
	Long:  `List, inspect, and remove playback sessions stored in Redis (FRAMELIGHT_REDIS_URL).`,
}

var sessionLsCmd = &cobra.Command{
	Use:   "ls",
	Short: "List all active sessions",
	Run: func(cmd *cobra.Command, args []string) {
		store := getSessionStore()
		defer store.Close()

		sessions, err := store.List(cmd.Context())
		if err != nil {
			fmt.Printf("Error listing sessions: %v\n", err)
			os.Exit(1)
		}

		if len(sessions) == 0 {
			fmt.Println("No active sessions found.")
			return
		}

		fmt.Println("Active Sessions:")
		for _, s := range sessions {
			fmt.Println("- " + s)
		}
	},
}

var sessionInspectCmd = &cobra.Command{
	Use:   "inspect <session-id>",
	Short: "Inspect the playback state of a session",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		sessionID := args[0]
		store := getSessionStore()
		defer store.Close()

		state, err := store.Load(cmd.Context(), sessionID)
		if err != nil {
			fmt.Printf("Error loading session '%s': %v\n", sessionID, err)
			os.Exit(1)
		}

		data, err := json.MarshalIndent(state, "", "  ")
		if err != nil {
			fmt.Printf("Error marshaling state: %v\n", err)
			os.Exit(1)
		}

		fmt.Println(string(data))
	},
}

var sessionRmCmd = &cobra.Command{
	Use:   "rm <session-id>...",
	Short: "Remove one or more sessions",
	Args:  cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		store := getSessionStore()
		defer store.Close()

		hasError := false
		for _, sessionID := range args {
			if err := store.Delete(cmd.Context(), sessionID); err != nil {
				fmt.Printf("Error removing '%s': %v\n", sessionID, err)
				hasError = true
			} else {
				fmt.Printf("Removed session '%s'\n", sessionID)
			}
		}

		if hasError {
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(sessionCmd)
	sessionCmd.AddCommand(sessionLsCmd)
	sessionCmd.AddCommand(sessionInspectCmd)
	sessionCmd.AddCommand(sessionRmCmd)
}

func getSessionStore() *redisstore.Store {
	cfg, err := config.FromEnv()
	if err != nil {
		fmt.Printf("Error loading configuration: %v\n", err)
		os.Exit(1)
	}
	if cfg.RedisURL == "" {
		fmt.Println("FRAMELIGHT_REDIS_URL is not set; session management requires a Redis store.")
		os.Exit(1)
	}

	redisOpts, err := backend.ParseURL(cfg.RedisURL)
	if err != nil {
		fmt.Printf("Error parsing redis url: %v\n", err)
		os.Exit(1)
	}
	return redisstore.NewFromClient(backend.NewClient(redisOpts), redisstore.WithTTL(cfg.SessionTTL))
}
