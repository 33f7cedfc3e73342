package cmd

import (
	"fmt"
	"os"

	"github.com/redbtn-io/chatflow/internal"
	"github.com/spf13/cobra"
)

var (
	replayConversationID string
	replaySave           bool
)

// replayCmd represents the replay command
var replayCmd = &cobra.Command{
	Use:   "replay <events.jsonl>",
	Short: "Replay a recorded event stream into a transcript",
	Long: `Feed a JSONL recording of stream events (message deltas, reasoning
deltas, tool lifecycle events) through the conversation engine and render
the resulting transcript. Malformed lines are skipped, duplicated and
out-of-order deliveries converge to the same transcript they would have
produced live.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		file, err := os.Open(args[0])
		if err != nil {
			return fmt.Errorf("failed to open event log: %w", err)
		}
		defer file.Close()

		events, err := internal.ReadEventLog(file)
		if err != nil {
			return err
		}
		internal.LogInfo("replaying %d event(s)", len(events))

		manager := internal.NewManager()
		manager.CreateEmpty(replayConversationID, "")

		notifications := 0
		unsubscribe := manager.Subscribe(func() { notifications++ })
		defer unsubscribe()

		epoch := manager.Epoch()
		applied := 0
		for _, event := range events {
			if manager.Dispatch(epoch, event) {
				applied++
			}
		}
		internal.LogDebug("applied %d event(s), %d notification(s)", applied, notifications)

		conversation := manager.GetCurrentConversation()
		if conversation == nil || len(conversation.Messages) == 0 {
			fmt.Println("Event stream produced an empty transcript.")
			return nil
		}
		renderConversation(os.Stdout, conversation)

		if replaySave {
			history, err := openHistory()
			if err != nil {
				return err
			}
			defer history.Close()
			if err := history.SaveSnapshot(conversation); err != nil {
				return fmt.Errorf("failed to save replayed conversation: %w", err)
			}
			fmt.Printf("Saved conversation %s\n", conversation.ID)
		}
		return nil
	},
}

func init() {
	replayCmd.Flags().StringVar(&replayConversationID, "conversation", "replay", "Conversation id assigned to the replayed transcript")
	replayCmd.Flags().BoolVar(&replaySave, "save", false, "Save the replayed transcript to the history database")
	rootCmd.AddCommand(replayCmd)
}
