package internal

import "fmt"

// DecodeError represents errors decoding a stream event envelope
type DecodeError struct {
	Kind string // event kind, or "envelope" when the wrapper itself is bad
	Err  error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode error [%s]: %v", e.Kind, e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// StoreError represents errors accessing the conversation history store
type StoreError struct {
	Op             string // "open", "save", "load", "page"
	ConversationID string
	Err            error
}

func (e *StoreError) Error() string {
	if e.ConversationID == "" {
		return fmt.Sprintf("history store error: %s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("history store error: %s [%s]: %v", e.Op, e.ConversationID, e.Err)
}

func (e *StoreError) Unwrap() error {
	return e.Err
}

// ExportError represents errors during transcript export
type ExportError struct {
	Format string
	Path   string
	Err    error
}

func (e *ExportError) Error() string {
	return fmt.Sprintf("export error [%s] %s: %v", e.Format, e.Path, e.Err)
}

func (e *ExportError) Unwrap() error {
	return e.Err
}
