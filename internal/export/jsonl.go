package export

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/redbtn-io/chatflow/internal"
)

// JSONLExporter exports conversations in JSONL format (one message per line)
type JSONLExporter struct{}

// Export exports a conversation to JSONL format
func (e *JSONLExporter) Export(conversation *internal.Conversation, w io.Writer) error {
	enc := json.NewEncoder(w)

	for _, msg := range conversation.Messages {
		obj := map[string]interface{}{
			"role":    msg.Role,
			"content": msg.Content,
		}

		if msg.Timestamp > 0 {
			obj["timestamp"] = internal.FormatTimestamp(msg.Timestamp)
		}
		if thought, ok := conversation.Thoughts[msg.ID]; ok && thought.Content != "" {
			obj["reasoning"] = thought.Content
		}
		if len(msg.ToolExecutions) > 0 {
			obj["toolExecutions"] = msg.ToolExecutions
		}

		if err := enc.Encode(obj); err != nil {
			return fmt.Errorf("failed to encode message: %w", err)
		}
	}

	return nil
}

// Extension returns the file extension for this format
func (e *JSONLExporter) Extension() string {
	return "jsonl"
}
