package internal

import "time"

// Role identifies the speaker of a transcript message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleSystem    Role = "system"
)

// MessageStatus tracks the lifecycle of an assistant message during a turn.
type MessageStatus string

const (
	MessageStatusProcessing MessageStatus = "processing"
	MessageStatusSearching  MessageStatus = "searching"
	MessageStatusThinking   MessageStatus = "thinking"
	MessageStatusStreaming  MessageStatus = "streaming"
	MessageStatusCompleted  MessageStatus = "completed"
	MessageStatusError      MessageStatus = "error"
)

// ToolStatus captures the lifecycle state of a tool execution.
// Completed and error are terminal; a terminal execution never mutates again.
type ToolStatus string

const (
	ToolStatusRunning   ToolStatus = "running"
	ToolStatusCompleted ToolStatus = "completed"
	ToolStatusError     ToolStatus = "error"
)

// ToolType is a categorical tag for the kind of capability a tool invokes.
type ToolType string

const (
	ToolTypeReasoning ToolType = "reasoning"
	ToolTypeSearch    ToolType = "search"
	ToolTypeDatabase  ToolType = "database"
	ToolTypeCode      ToolType = "code"
	ToolTypeFile      ToolType = "file"
	ToolTypeAPI       ToolType = "api"
	ToolTypeMemory    ToolType = "memory"
	ToolTypeCustom    ToolType = "custom"
)

// ToolStep is one entry in a tool execution's timeline.
type ToolStep struct {
	Step      string                 `json:"step" yaml:"step"`
	Timestamp int64                  `json:"timestamp" yaml:"timestamp"`
	Progress  *int                   `json:"progress,omitempty" yaml:"progress,omitempty"`
	Data      map[string]interface{} `json:"data,omitempty" yaml:"data,omitempty"`
}

// ToolExecution tracks one tool invocation's full lifecycle.
// Timestamps are unix milliseconds.
type ToolExecution struct {
	ToolID           string                 `json:"toolId" yaml:"tool_id"`
	ToolType         ToolType               `json:"toolType" yaml:"tool_type"`
	ToolName         string                 `json:"toolName" yaml:"tool_name"`
	Status           ToolStatus             `json:"status" yaml:"status"`
	StartTime        int64                  `json:"startTime" yaml:"start_time"`
	EndTime          *int64                 `json:"endTime,omitempty" yaml:"end_time,omitempty"`
	Duration         *int64                 `json:"duration,omitempty" yaml:"duration,omitempty"`
	Steps            []ToolStep             `json:"steps" yaml:"steps"`
	CurrentStep      string                 `json:"currentStep,omitempty" yaml:"current_step,omitempty"`
	Progress         *int                   `json:"progress,omitempty" yaml:"progress,omitempty"`
	StreamingContent string                 `json:"streamingContent,omitempty" yaml:"streaming_content,omitempty"`
	Result           interface{}            `json:"result,omitempty" yaml:"result,omitempty"`
	Error            string                 `json:"error,omitempty" yaml:"error,omitempty"`
	Metadata         map[string]interface{} `json:"metadata,omitempty" yaml:"metadata,omitempty"`
}

// Terminal reports whether the execution has reached an absorbing state.
func (te *ToolExecution) Terminal() bool {
	return te.Status == ToolStatusCompleted || te.Status == ToolStatusError
}

// MessageMeta carries optional per-message annotations set by the model layer.
type MessageMeta struct {
	Model         string        `json:"model,omitempty" yaml:"model,omitempty"`
	InputTokens   int           `json:"inputTokens,omitempty" yaml:"input_tokens,omitempty"`
	OutputTokens  int           `json:"outputTokens,omitempty" yaml:"output_tokens,omitempty"`
	Status        MessageStatus `json:"status,omitempty" yaml:"status,omitempty"`
	CorrelationID string        `json:"correlationId,omitempty" yaml:"correlation_id,omitempty"`
}

// Message is a single transcript entry. Content grows by append while the
// message is streaming; Timestamp is set once at creation.
type Message struct {
	ID             string          `json:"id" yaml:"id"`
	Role           Role            `json:"role" yaml:"role"`
	Content        string          `json:"content" yaml:"content"`
	Timestamp      int64           `json:"timestamp" yaml:"timestamp"`
	Metadata       *MessageMeta    `json:"metadata,omitempty" yaml:"metadata,omitempty"`
	ToolExecutions []ToolExecution `json:"toolExecutions,omitempty" yaml:"tool_executions,omitempty"`
}

// Thought accumulates streamed reasoning text for one message.
type Thought struct {
	MessageID   string `json:"messageId" yaml:"message_id"`
	Content     string `json:"content" yaml:"content"`
	IsStreaming bool   `json:"isStreaming" yaml:"is_streaming"`
	LastUpdated int64  `json:"lastUpdated" yaml:"last_updated"`
}

// Pagination holds transcript paging state for the active conversation.
type Pagination struct {
	HasMore       bool `json:"hasMore" yaml:"has_more"`
	IsLoadingMore bool `json:"isLoadingMore" yaml:"is_loading_more"`
	TotalMessages *int `json:"totalMessages,omitempty" yaml:"total_messages,omitempty"`
}

// Conversation is a point-in-time snapshot of the active conversation:
// the ordered transcript plus the per-message thought and tool maps.
// Snapshots are deep copies; mutating one never affects engine state.
type Conversation struct {
	ID             string                     `json:"id" yaml:"id"`
	Title          string                     `json:"title,omitempty" yaml:"title,omitempty"`
	Messages       []Message                  `json:"messages" yaml:"messages"`
	Thoughts       map[string]Thought         `json:"thoughts,omitempty" yaml:"thoughts,omitempty"`
	ToolExecutions map[string][]ToolExecution `json:"toolExecutions,omitempty" yaml:"tool_executions,omitempty"`
	Pagination     Pagination                 `json:"pagination" yaml:"pagination"`
}

// HydrationPayload is the bulk-load shape supplied by the persistence layer
// when a conversation is opened. Per-message embedded tool executions are the
// source of truth; the top-level Thoughts/ToolExecutions maps are a legacy
// fallback merged first and overwritten by anything embedded in messages.
type HydrationPayload struct {
	ID             string                     `json:"id"`
	Title          string                     `json:"title,omitempty"`
	Messages       []Message                  `json:"messages"`
	Thoughts       map[string]string          `json:"thoughts,omitempty"`
	ToolExecutions map[string][]ToolExecution `json:"toolExecutions,omitempty"`
	HasMore        bool                       `json:"hasMore,omitempty"`
	TotalMessages  *int                       `json:"totalMessages,omitempty"`
}

// PageResult is one backward page from the persistence layer.
type PageResult struct {
	Messages []Message `json:"messages"`
	HasMore  bool      `json:"hasMore"`
}

// FormatTimestamp renders a unix-millisecond timestamp as RFC 3339.
func FormatTimestamp(ms int64) string {
	if ms <= 0 {
		return ""
	}
	return time.Unix(0, ms*int64(time.Millisecond)).UTC().Format(time.RFC3339)
}

// NowMillis returns the current time in unix milliseconds.
func NowMillis() int64 {
	return time.Now().UnixMilli()
}
