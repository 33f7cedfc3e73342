package internal

// Thoughts stores streamed reasoning text keyed by message id.
type Thoughts struct {
	entries map[string]*Thought
	now     func() int64
}

// NewThoughts creates an empty Thoughts buffer.
func NewThoughts() *Thoughts {
	return &Thoughts{
		entries: make(map[string]*Thought),
		now:     NowMillis,
	}
}

// Set replaces the thought entry for a message. Unlike the tool ledger,
// Set may re-enter streaming for a message whose thought was already
// completed: a retried turn reuses the message id and starts reasoning over.
func (t *Thoughts) Set(messageID, content string, isStreaming bool) {
	if messageID == "" {
		return
	}
	t.entries[messageID] = &Thought{
		MessageID:   messageID,
		Content:     content,
		IsStreaming: isStreaming,
		LastUpdated: t.now(),
	}
}

// AppendDelta concatenates streamed reasoning text onto the entry for a
// message, creating it if absent, and marks the entry streaming.
func (t *Thoughts) AppendDelta(messageID, delta string) {
	if messageID == "" {
		return
	}
	entry, ok := t.entries[messageID]
	if !ok {
		entry = &Thought{MessageID: messageID}
		t.entries[messageID] = entry
	}
	entry.Content += delta
	entry.IsStreaming = true
	entry.LastUpdated = t.now()
}

// Complete marks a message's thought as no longer streaming. No-op when the
// message has no thought entry.
func (t *Thoughts) Complete(messageID string) {
	entry, ok := t.entries[messageID]
	if !ok {
		LogDebug("thoughts: complete for unknown message %s", messageID)
		return
	}
	entry.IsStreaming = false
	entry.LastUpdated = t.now()
}

// Get returns the thought entry for a message, or nil. Never creates.
func (t *Thoughts) Get(messageID string) *Thought {
	entry, ok := t.entries[messageID]
	if !ok {
		return nil
	}
	clone := *entry
	return &clone
}

// SetIfAbsent adds a completed thought only when the message has none yet.
// Used by the incremental append path, which must never overwrite a thought
// already accumulated from the live stream.
func (t *Thoughts) SetIfAbsent(messageID, content string) {
	if messageID == "" || content == "" {
		return
	}
	if _, ok := t.entries[messageID]; ok {
		return
	}
	t.entries[messageID] = &Thought{
		MessageID:   messageID,
		Content:     content,
		LastUpdated: t.now(),
	}
}

// Len returns the number of thought entries.
func (t *Thoughts) Len() int {
	return len(t.entries)
}

func (t *Thoughts) reset() {
	t.entries = make(map[string]*Thought)
}

func (t *Thoughts) snapshot() map[string]Thought {
	if len(t.entries) == 0 {
		return nil
	}
	out := make(map[string]Thought, len(t.entries))
	for id, entry := range t.entries {
		out[id] = *entry
	}
	return out
}
