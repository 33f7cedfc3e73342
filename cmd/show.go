package cmd

import (
	"fmt"
	"os"

	"github.com/redbtn-io/chatflow/internal"
	"github.com/spf13/cobra"
)

var showLimit int

// showCmd represents the show command
var showCmd = &cobra.Command{
	Use:   "show <conversation-id>",
	Short: "Render a stored conversation transcript",
	Long: `Hydrate a conversation from the history database and render its
transcript, including reasoning traces and tool-execution timelines.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		conversationID := args[0]

		history, err := openHistory()
		if err != nil {
			return err
		}
		defer history.Close()

		payload, err := history.LoadConversation(conversationID, showLimit)
		if err != nil {
			return fmt.Errorf("failed to load conversation: %w", err)
		}

		manager := internal.NewManager()
		manager.Hydrate(*payload)

		conversation := manager.GetCurrentConversation()
		if conversation == nil {
			return fmt.Errorf("conversation %s is empty", conversationID)
		}
		renderConversation(os.Stdout, conversation)
		return nil
	},
}

func init() {
	showCmd.Flags().IntVar(&showLimit, "limit", 0, "Maximum number of recent messages to load (0 = all)")
	rootCmd.AddCommand(showCmd)
}
