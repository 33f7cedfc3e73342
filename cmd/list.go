package cmd

import (
	"fmt"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/redbtn-io/chatflow/internal"
	"github.com/spf13/cobra"
)

var (
	listHeaderStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("212"))

	listRowStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("252"))

	listMetaStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("243"))
)

// listCmd represents the list command
var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored conversations",
	Long:  `List all conversations in the history database with message counts.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		history, err := openHistory()
		if err != nil {
			return err
		}
		defer history.Close()

		infos, err := history.ListConversations()
		if err != nil {
			return fmt.Errorf("failed to list conversations: %w", err)
		}

		if len(infos) == 0 {
			fmt.Println("No conversations found.")
			return nil
		}

		fmt.Println(listHeaderStyle.Render(fmt.Sprintf("%d conversation(s)", len(infos))))
		for _, info := range infos {
			title := info.Title
			if title == "" {
				title = "(untitled)"
			}
			line := fmt.Sprintf("%-36s  %s", info.ID, listRowStyle.Render(title))
			meta := fmt.Sprintf("%d messages, updated %s", info.MessageCount, internal.FormatTimestamp(info.UpdatedAt))
			fmt.Fprintf(os.Stdout, "%s  %s\n", line, listMetaStyle.Render(meta))
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(listCmd)
}
