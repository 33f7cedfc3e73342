package internal

import (
	"encoding/json"
	"errors"
	"fmt"
)

// Event is one logical occurrence on an in-flight turn, decoded from the
// transport's JSON envelope into a concrete per-kind struct. The engine never
// inspects raw payloads past this point; anything the decoder rejects is
// reported once and dropped.
type Event interface {
	EventKind() string
}

// Event kind tags carried in the envelope's "type" field.
const (
	EventMessageAdd        = "message_add"
	EventMessageUpdate     = "message_update"
	EventMessageDelta      = "message_delta"
	EventReasoningDelta    = "reasoning_delta"
	EventReasoningComplete = "reasoning_complete"
	EventToolStart         = "tool_start"
	EventToolProgress      = "tool_progress"
	EventToolStream        = "tool_stream"
	EventToolComplete      = "tool_complete"
	EventToolError         = "tool_error"
)

// MessageAddEvent introduces a new transcript message.
type MessageAddEvent struct {
	Message Message `json:"message"`
}

func (MessageAddEvent) EventKind() string { return EventMessageAdd }

// MessageUpdateEvent shallow-merges fields onto an existing message.
type MessageUpdateEvent struct {
	MessageID string       `json:"messageId"`
	Content   *string      `json:"content,omitempty"`
	Metadata  *MessageMeta `json:"metadata,omitempty"`
}

func (MessageUpdateEvent) EventKind() string { return EventMessageUpdate }

// MessageDeltaEvent appends streamed text to a message's content.
type MessageDeltaEvent struct {
	MessageID string `json:"messageId"`
	TextDelta string `json:"textDelta"`
}

func (MessageDeltaEvent) EventKind() string { return EventMessageDelta }

// ReasoningDeltaEvent appends streamed reasoning text for a message.
type ReasoningDeltaEvent struct {
	MessageID string `json:"messageId"`
	TextDelta string `json:"textDelta"`
}

func (ReasoningDeltaEvent) EventKind() string { return EventReasoningDelta }

// ReasoningCompleteEvent marks a message's reasoning stream as finished.
type ReasoningCompleteEvent struct {
	MessageID string `json:"messageId"`
}

func (ReasoningCompleteEvent) EventKind() string { return EventReasoningComplete }

// ToolStartEvent opens a tool execution on a message.
type ToolStartEvent struct {
	MessageID string   `json:"messageId"`
	ToolID    string   `json:"toolId"`
	ToolType  ToolType `json:"toolType"`
	ToolName  string   `json:"toolName"`
	StartTime int64    `json:"startTime"`
}

func (ToolStartEvent) EventKind() string { return EventToolStart }

// ToolProgressEvent carries one timeline step for a running execution.
// Step stays raw here; the sanitizer decides whether it is a usable step.
type ToolProgressEvent struct {
	MessageID string      `json:"messageId"`
	ToolID    string      `json:"toolId"`
	Step      interface{} `json:"step"`
}

func (ToolProgressEvent) EventKind() string { return EventToolProgress }

// ToolStreamEvent appends incremental output text to an execution.
type ToolStreamEvent struct {
	MessageID string `json:"messageId"`
	ToolID    string `json:"toolId"`
	TextDelta string `json:"textDelta"`
}

func (ToolStreamEvent) EventKind() string { return EventToolStream }

// ToolCompleteEvent transitions an execution to completed.
type ToolCompleteEvent struct {
	MessageID string                 `json:"messageId"`
	ToolID    string                 `json:"toolId"`
	Result    interface{}            `json:"result,omitempty"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	EndTime   *int64                 `json:"endTime,omitempty"`
}

func (ToolCompleteEvent) EventKind() string { return EventToolComplete }

// ToolErrorEvent transitions an execution to error.
type ToolErrorEvent struct {
	MessageID string `json:"messageId"`
	ToolID    string `json:"toolId"`
	Error     string `json:"error"`
	EndTime   *int64 `json:"endTime,omitempty"`
}

func (ToolErrorEvent) EventKind() string { return EventToolError }

type eventEnvelope struct {
	Type string `json:"type"`
}

// DecodeEvent parses one JSON event envelope into its concrete Event.
// Unknown or malformed envelopes yield a DecodeError, never a partial event.
func DecodeEvent(data []byte) (Event, error) {
	var env eventEnvelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, &DecodeError{Kind: "envelope", Err: err}
	}
	if env.Type == "" {
		return nil, &DecodeError{Kind: "envelope", Err: errors.New("missing event type")}
	}

	var (
		event Event
		err   error
	)
	switch env.Type {
	case EventMessageAdd:
		var e MessageAddEvent
		err = json.Unmarshal(data, &e)
		event = e
	case EventMessageUpdate:
		var e MessageUpdateEvent
		err = json.Unmarshal(data, &e)
		event = e
	case EventMessageDelta:
		var e MessageDeltaEvent
		err = json.Unmarshal(data, &e)
		event = e
	case EventReasoningDelta:
		var e ReasoningDeltaEvent
		err = json.Unmarshal(data, &e)
		event = e
	case EventReasoningComplete:
		var e ReasoningCompleteEvent
		err = json.Unmarshal(data, &e)
		event = e
	case EventToolStart:
		var e ToolStartEvent
		err = json.Unmarshal(data, &e)
		event = e
	case EventToolProgress:
		var e ToolProgressEvent
		err = json.Unmarshal(data, &e)
		event = e
	case EventToolStream:
		var e ToolStreamEvent
		err = json.Unmarshal(data, &e)
		event = e
	case EventToolComplete:
		var e ToolCompleteEvent
		err = json.Unmarshal(data, &e)
		event = e
	case EventToolError:
		var e ToolErrorEvent
		err = json.Unmarshal(data, &e)
		event = e
	default:
		return nil, &DecodeError{Kind: env.Type, Err: fmt.Errorf("unknown event type")}
	}

	if err != nil {
		return nil, &DecodeError{Kind: env.Type, Err: err}
	}
	return event, nil
}

// EncodeEvent wraps an Event back into its JSON envelope form.
func EncodeEvent(event Event) ([]byte, error) {
	body, err := json.Marshal(event)
	if err != nil {
		return nil, &DecodeError{Kind: event.EventKind(), Err: err}
	}

	// Merge the kind tag into the marshalled body.
	var fields map[string]interface{}
	if err := json.Unmarshal(body, &fields); err != nil {
		return nil, &DecodeError{Kind: event.EventKind(), Err: err}
	}
	fields["type"] = event.EventKind()
	return json.Marshal(fields)
}
