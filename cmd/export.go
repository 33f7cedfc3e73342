package cmd

import (
	"fmt"
	"os"

	"github.com/redbtn-io/chatflow/internal"
	"github.com/redbtn-io/chatflow/internal/export"
	"github.com/spf13/cobra"
)

var (
	exportFormat string
	exportOutput string
)

// exportCmd represents the export command
var exportCmd = &cobra.Command{
	Use:   "export <conversation-id>",
	Short: "Export a conversation transcript",
	Long:  `Export a stored conversation in JSON, JSONL, Markdown or YAML format.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		conversationID := args[0]

		exporter, err := export.NewExporter(exportFormat)
		if err != nil {
			return err
		}

		history, err := openHistory()
		if err != nil {
			return err
		}
		defer history.Close()

		payload, err := history.LoadConversation(conversationID, 0)
		if err != nil {
			return fmt.Errorf("failed to load conversation: %w", err)
		}

		manager := internal.NewManager()
		manager.Hydrate(*payload)
		conversation := manager.GetCurrentConversation()

		out := os.Stdout
		if exportOutput != "" {
			file, err := os.Create(exportOutput)
			if err != nil {
				return &internal.ExportError{Format: exportFormat, Path: exportOutput, Err: err}
			}
			defer file.Close()
			out = file
		}

		if err := exporter.Export(conversation, out); err != nil {
			return &internal.ExportError{Format: exportFormat, Path: exportOutput, Err: err}
		}
		if exportOutput != "" {
			fmt.Printf("Exported conversation %s to %s\n", conversationID, exportOutput)
		}
		return nil
	},
}

func init() {
	exportCmd.Flags().StringVarP(&exportFormat, "format", "f", "json", "Export format (json, jsonl, md, yaml)")
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "Output file (default: stdout)")
	rootCmd.AddCommand(exportCmd)
}
