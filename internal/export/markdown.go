package export

import (
	"fmt"
	"io"
	"strings"

	"github.com/redbtn-io/chatflow/internal"
)

// MarkdownExporter exports conversations in Markdown format
type MarkdownExporter struct{}

// Export exports a conversation to Markdown format
func (e *MarkdownExporter) Export(conversation *internal.Conversation, w io.Writer) error {
	// Header
	_, _ = fmt.Fprintf(w, "# Conversation %s\n\n", conversation.ID)

	if conversation.Title != "" {
		_, _ = fmt.Fprintf(w, "**Title:** %s  \n", conversation.Title)
	}
	_, _ = fmt.Fprintf(w, "**Messages:** %d\n\n", len(conversation.Messages))

	_, _ = fmt.Fprintf(w, "---\n\n")

	// Messages
	for i, msg := range conversation.Messages {
		timestamp := ""
		if msg.Timestamp > 0 {
			timestamp = fmt.Sprintf(" (%s)", internal.FormatTimestamp(msg.Timestamp))
		}

		content := escapeMarkdown(msg.Content)

		_, _ = fmt.Fprintf(w, "**%s:**%s\n\n%s\n\n", msg.Role, timestamp, content)

		if thought, ok := conversation.Thoughts[msg.ID]; ok && thought.Content != "" {
			_, _ = fmt.Fprintf(w, "> _Reasoning:_ %s\n\n", strings.ReplaceAll(thought.Content, "\n", "\n> "))
		}

		for _, execution := range msg.ToolExecutions {
			e.writeExecution(w, execution)
		}

		// Add horizontal rule after each message (except the last one)
		if i < len(conversation.Messages)-1 {
			_, _ = fmt.Fprintf(w, "---\n\n")
		}
	}

	return nil
}

func (e *MarkdownExporter) writeExecution(w io.Writer, execution internal.ToolExecution) {
	status := string(execution.Status)
	if execution.Duration != nil {
		status = fmt.Sprintf("%s in %dms", status, *execution.Duration)
	}
	_, _ = fmt.Fprintf(w, "- **Tool** `%s` (%s): %s\n", execution.ToolName, execution.ToolType, status)
	for _, step := range execution.Steps {
		_, _ = fmt.Fprintf(w, "  - %s\n", step.Step)
	}
	if execution.Error != "" {
		_, _ = fmt.Fprintf(w, "  - error: %s\n", execution.Error)
	}
	_, _ = fmt.Fprintf(w, "\n")
}

// Extension returns the file extension for this format
func (e *MarkdownExporter) Extension() string {
	return "md"
}

// escapeMarkdown escapes markdown special characters
func escapeMarkdown(text string) string {
	// Basic escaping - preserve code blocks
	lines := strings.Split(text, "\n")
	var result []string
	inCodeBlock := false

	for _, line := range lines {
		if strings.HasPrefix(line, "```") {
			inCodeBlock = !inCodeBlock
			result = append(result, line)
		} else if inCodeBlock {
			result = append(result, line)
		} else {
			line = strings.ReplaceAll(line, "**", "\\*\\*")
			line = strings.ReplaceAll(line, "__", "\\_\\_")
			result = append(result, line)
		}
	}

	return strings.Join(result, "\n")
}
