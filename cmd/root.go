package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/redbtn-io/chatflow/internal"
	"github.com/spf13/cobra"
)

var (
	verbose bool
	dbPath  string
	version string = "dev"
	commit  string = "unknown"
	date    string = "unknown"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "chatflow",
	Short: "Inspect and replay streamed AI conversations",
	Long: `chatflow maintains transcripts of streaming AI turns: message text,
reasoning traces and tool-execution timelines, reconciled from a
multiplexed event stream.

Commands:
  chatflow list                      # List stored conversations
  chatflow show <conversation-id>    # Render a stored transcript
  chatflow replay <events.jsonl>     # Replay a recorded event stream
  chatflow export <conversation-id>  # Export a transcript (json, jsonl, md, yaml)`,
	Version: fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date),
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		internal.SetVerbose(verbose)
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "Path to the conversation history database")
}

// historyPath resolves the history database location, defaulting to the
// user's home directory.
func historyPath() (string, error) {
	if dbPath != "" {
		return dbPath, nil
	}
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(homeDir, ".chatflow", "history.db"), nil
}

func openHistory() (*internal.History, error) {
	path, err := historyPath()
	if err != nil {
		return nil, err
	}
	history, err := internal.OpenHistory(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open history: %w", err)
	}
	return history, nil
}
