package internal

import "sync"

// Manager is the façade over the transcript, thought buffer and tool ledger.
// It exclusively owns the one active conversation: every mutation enters
// through a Manager method, and each public mutating call notifies
// subscribers exactly once, however many fields it touched.
//
// Nothing here returns an error or panics for a missing target. The manager
// sits between a streaming transport and a live rendering surface, so all
// "not found" conditions are absorbed into logged no-ops.
type Manager struct {
	mu         sync.RWMutex
	epoch      uint64
	transcript *Transcript
	thoughts   *Thoughts
	ledger     *Ledger
	subs       *subscribers
}

// NewManager creates a Manager with no active conversation.
func NewManager() *Manager {
	return &Manager{
		transcript: NewTranscript(),
		thoughts:   NewThoughts(),
		ledger:     NewLedger(),
		subs:       newSubscribers(),
	}
}

// Epoch identifies the current active-conversation instance. It increments
// on every CreateEmpty and Hydrate; Dispatch drops events tagged with any
// other epoch, which is what keeps in-flight events for a discarded
// conversation from leaking into its replacement.
func (m *Manager) Epoch() uint64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.epoch
}

// CreateEmpty replaces any active conversation with a fresh empty one.
func (m *Manager) CreateEmpty(id, title string) {
	m.mu.Lock()
	m.epoch++
	m.transcript.CreateEmpty(id, title)
	m.thoughts.reset()
	m.ledger.reset()
	m.mu.Unlock()
	m.subs.notify()
}

// Hydrate replaces any active conversation with one bulk-loaded from
// persistence.
func (m *Manager) Hydrate(payload HydrationPayload) {
	m.mu.Lock()
	m.epoch++
	m.transcript.Hydrate(payload, m.thoughts, m.ledger)
	m.mu.Unlock()
	m.subs.notify()
}

// Dispatch applies one decoded stream event tagged with the epoch it was
// ingested under. Events from a replaced conversation are dropped. Returns
// whether the event was applied.
func (m *Manager) Dispatch(epoch uint64, event Event) bool {
	m.mu.RLock()
	current := m.epoch
	m.mu.RUnlock()
	if epoch != current {
		LogDebug("manager: dropping %s event from stale epoch %d (current %d)", event.EventKind(), epoch, current)
		return false
	}

	switch e := event.(type) {
	case MessageAddEvent:
		m.AddMessage(e.Message)
	case MessageUpdateEvent:
		m.UpdateMessage(e.MessageID, e.Content, e.Metadata)
	case MessageDeltaEvent:
		m.AppendMessageDelta(e.MessageID, e.TextDelta)
	case ReasoningDeltaEvent:
		m.AppendThoughtDelta(e.MessageID, e.TextDelta)
	case ReasoningCompleteEvent:
		m.CompleteThought(e.MessageID)
	case ToolStartEvent:
		m.StartTool(e.MessageID, ToolExecution{
			ToolID:    e.ToolID,
			ToolType:  e.ToolType,
			ToolName:  e.ToolName,
			StartTime: e.StartTime,
		})
	case ToolProgressEvent:
		m.ToolProgress(e.MessageID, e.ToolID, e.Step)
	case ToolStreamEvent:
		m.ToolStream(e.MessageID, e.ToolID, e.TextDelta)
	case ToolCompleteEvent:
		m.CompleteTool(e.MessageID, e.ToolID, e.Result, e.Metadata, e.EndTime)
	case ToolErrorEvent:
		m.FailTool(e.MessageID, e.ToolID, e.Error, e.EndTime)
	default:
		LogWarn("manager: unhandled event kind %s", event.EventKind())
		return false
	}
	return true
}

// AddMessage appends one message on the live-turn path.
func (m *Manager) AddMessage(message Message) {
	m.mu.Lock()
	m.transcript.AddMessage(message)
	m.mu.Unlock()
	m.subs.notify()
}

// UpdateMessage shallow-merges fields onto an existing message.
func (m *Manager) UpdateMessage(id string, content *string, metadata *MessageMeta) {
	m.mu.Lock()
	m.transcript.UpdateMessage(id, content, metadata)
	m.mu.Unlock()
	m.subs.notify()
}

// AppendMessageDelta concatenates streamed text onto a message's content.
func (m *Manager) AppendMessageDelta(id, delta string) {
	m.mu.Lock()
	m.transcript.AppendContent(id, delta)
	m.mu.Unlock()
	m.subs.notify()
}

// AppendMessages adds a batch of newer messages, deduplicated by id.
func (m *Manager) AppendMessages(messages []Message, newThoughts map[string]string) {
	m.mu.Lock()
	m.transcript.Append(messages, newThoughts, m.thoughts, m.ledger)
	m.mu.Unlock()
	m.subs.notify()
}

// PrependOlder inserts an older page at the front of the transcript.
func (m *Manager) PrependOlder(messages []Message, hasMore bool) {
	m.mu.Lock()
	m.transcript.Prepend(messages, hasMore, m.ledger)
	m.mu.Unlock()
	m.subs.notify()
}

// SetLoadingMore flips the pagination loading flag.
func (m *Manager) SetLoadingMore(loading bool) {
	m.mu.Lock()
	m.transcript.SetLoadingMore(loading)
	m.mu.Unlock()
	m.subs.notify()
}

// SetThought replaces a message's thought entry.
func (m *Manager) SetThought(messageID, content string, isStreaming bool) {
	m.mu.Lock()
	m.thoughts.Set(messageID, content, isStreaming)
	m.mu.Unlock()
	m.subs.notify()
}

// AppendThoughtDelta concatenates streamed reasoning text for a message.
func (m *Manager) AppendThoughtDelta(messageID, delta string) {
	m.mu.Lock()
	m.thoughts.AppendDelta(messageID, delta)
	m.mu.Unlock()
	m.subs.notify()
}

// CompleteThought marks a message's reasoning stream finished.
func (m *Manager) CompleteThought(messageID string) {
	m.mu.Lock()
	m.thoughts.Complete(messageID)
	m.mu.Unlock()
	m.subs.notify()
}

// StartTool opens a tool execution on a message.
func (m *Manager) StartTool(messageID string, execution ToolExecution) {
	m.mu.Lock()
	m.ledger.Start(messageID, execution)
	m.mu.Unlock()
	m.subs.notify()
}

// ToolProgress records one timeline step for a running execution.
func (m *Manager) ToolProgress(messageID, toolID string, rawStep interface{}) {
	m.mu.Lock()
	m.ledger.Progress(messageID, toolID, rawStep)
	m.mu.Unlock()
	m.subs.notify()
}

// ToolStream appends incremental output to a running execution.
func (m *Manager) ToolStream(messageID, toolID, text string) {
	m.mu.Lock()
	m.ledger.StreamAppend(messageID, toolID, text)
	m.mu.Unlock()
	m.subs.notify()
}

// CompleteTool transitions an execution to completed.
func (m *Manager) CompleteTool(messageID, toolID string, result interface{}, metadata map[string]interface{}, endTimestamp *int64) {
	m.mu.Lock()
	m.ledger.Complete(messageID, toolID, result, metadata, endTimestamp)
	m.mu.Unlock()
	m.subs.notify()
}

// FailTool transitions an execution to error.
func (m *Manager) FailTool(messageID, toolID, errorMessage string, errorTimestamp *int64) {
	m.mu.Lock()
	m.ledger.Fail(messageID, toolID, errorMessage, errorTimestamp)
	m.mu.Unlock()
	m.subs.notify()
}

// Subscribe registers a change callback and returns its unsubscribe
// function. Callbacks run synchronously on the mutating call, take no
// arguments and re-pull state through the accessors below.
func (m *Manager) Subscribe(callback func()) func() {
	return m.subs.add(callback)
}

// GetCurrentConversation returns a deep-copied snapshot of the active
// conversation, with per-message tool executions embedded, or nil when no
// conversation is active.
func (m *Manager) GetCurrentConversation() *Conversation {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if !m.transcript.Exists() {
		return nil
	}
	conversation := &Conversation{
		ID:             m.transcript.ID(),
		Title:          m.transcript.Title(),
		Messages:       m.transcript.Messages(),
		Thoughts:       m.thoughts.snapshot(),
		ToolExecutions: m.ledger.snapshot(),
		Pagination:     m.transcript.Pagination(),
	}
	for i := range conversation.Messages {
		if executions, ok := conversation.ToolExecutions[conversation.Messages[i].ID]; ok {
			conversation.Messages[i].ToolExecutions = executions
		}
	}
	return conversation
}

// GetThought returns the thought entry for a message, or nil.
func (m *Manager) GetThought(messageID string) *Thought {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.thoughts.Get(messageID)
}

// GetToolExecutions returns a message's executions in start order.
func (m *Manager) GetToolExecutions(messageID string) []ToolExecution {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.ledger.Get(messageID)
}

// GetMessage returns a copy of one message by id, or nil.
func (m *Manager) GetMessage(id string) *Message {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.transcript.Message(id)
}

// OldestTimestamp returns the pagination cursor for loading older history.
func (m *Manager) OldestTimestamp() int64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.transcript.OldestTimestamp()
}
