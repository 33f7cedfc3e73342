package export

import (
	"encoding/json"
	"io"

	"github.com/redbtn-io/chatflow/internal"
)

// JSONExporter exports conversations in JSON format (pretty-printed)
type JSONExporter struct{}

// Export exports a conversation to JSON format
func (e *JSONExporter) Export(conversation *internal.Conversation, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")

	return enc.Encode(conversation)
}

// Extension returns the file extension for this format
func (e *JSONExporter) Extension() string {
	return "json"
}
