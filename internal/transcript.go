package internal

// Transcript holds the ordered message list and pagination state for the
// one active conversation. Messages are never reordered once inserted;
// older pages prepend, live messages append. Append and Prepend are
// set-union operations keyed by message id, so retried batches are no-ops
// past their first delivery.
type Transcript struct {
	id       string
	title    string
	messages []Message
	page     Pagination
	exists   bool
}

// NewTranscript creates a Transcript with no active conversation.
func NewTranscript() *Transcript {
	return &Transcript{}
}

// CreateEmpty starts a fresh conversation, discarding any existing one.
func (t *Transcript) CreateEmpty(id, title string) {
	t.id = id
	t.title = title
	t.messages = nil
	t.page = Pagination{}
	t.exists = true
}

// Hydrate bulk-loads a conversation from a historical fetch, replacing any
// existing one. Legacy top-level thought/tool maps merge first; embedded
// per-message data then wins message by message. Calling Hydrate twice with
// the same payload yields an identical state to calling it once.
func (t *Transcript) Hydrate(payload HydrationPayload, thoughts *Thoughts, ledger *Ledger) {
	t.id = payload.ID
	t.title = payload.Title
	t.exists = true
	t.page = Pagination{
		HasMore:       payload.HasMore,
		TotalMessages: payload.TotalMessages,
	}

	thoughts.reset()
	ledger.reset()
	for id, content := range payload.Thoughts {
		thoughts.SetIfAbsent(id, content)
	}
	for id, executions := range payload.ToolExecutions {
		ledger.Merge(id, executions)
	}

	t.messages = make([]Message, 0, len(payload.Messages))
	for _, message := range payload.Messages {
		if t.contains(message.ID) {
			LogDebug("transcript: duplicate message %s in hydration payload", message.ID)
			continue
		}
		if len(message.ToolExecutions) > 0 {
			ledger.Load(message.ID, message.ToolExecutions)
			message.ToolExecutions = nil
		}
		t.messages = append(t.messages, message)
	}
}

// Append pushes newer messages that are not already present, in batch order.
// Thoughts are only added for messages that have none yet.
func (t *Transcript) Append(newMessages []Message, newThoughts map[string]string, thoughts *Thoughts, ledger *Ledger) int {
	if !t.exists {
		LogDebug("transcript: append without active conversation")
		return 0
	}
	added := 0
	for _, message := range newMessages {
		if t.contains(message.ID) {
			continue
		}
		if len(message.ToolExecutions) > 0 {
			ledger.Load(message.ID, message.ToolExecutions)
			message.ToolExecutions = nil
		}
		t.messages = append(t.messages, message)
		added++
	}
	for id, content := range newThoughts {
		thoughts.SetIfAbsent(id, content)
	}
	return added
}

// Prepend unshifts older page messages that are not already present onto the
// front of the transcript, keeping page order, and records whether more
// history remains. The caller owns scroll compensation (see ScrollAnchor).
func (t *Transcript) Prepend(olderMessages []Message, hasMore bool, ledger *Ledger) int {
	if !t.exists {
		LogDebug("transcript: prepend without active conversation")
		return 0
	}
	unique := make([]Message, 0, len(olderMessages))
	for _, message := range olderMessages {
		if t.contains(message.ID) {
			continue
		}
		if len(message.ToolExecutions) > 0 {
			ledger.Load(message.ID, message.ToolExecutions)
			message.ToolExecutions = nil
		}
		unique = append(unique, message)
	}
	if len(unique) > 0 {
		t.messages = append(unique, t.messages...)
	}
	t.page.HasMore = hasMore
	t.page.IsLoadingMore = false
	return len(unique)
}

// AddMessage appends exactly one message on the live-turn path. Requires an
// active conversation; it will not create one implicitly.
func (t *Transcript) AddMessage(message Message) bool {
	if !t.exists {
		LogWarn("transcript: addMessage without active conversation")
		return false
	}
	if t.contains(message.ID) {
		LogDebug("transcript: duplicate addMessage %s", message.ID)
		return false
	}
	if message.Timestamp == 0 {
		message.Timestamp = NowMillis()
	}
	t.messages = append(t.messages, message)
	return true
}

// UpdateMessage shallow-merges non-zero fields onto an existing message.
// The id and creation timestamp never change. No-op when the id is unknown.
func (t *Transcript) UpdateMessage(id string, content *string, metadata *MessageMeta) bool {
	index := t.indexOf(id)
	if index < 0 {
		LogDebug("transcript: update for unknown message %s", id)
		return false
	}
	if content != nil {
		t.messages[index].Content = *content
	}
	if metadata != nil {
		t.messages[index].Metadata = metadata
	}
	return true
}

// AppendContent concatenates streamed text onto an existing message.
func (t *Transcript) AppendContent(id, delta string) bool {
	index := t.indexOf(id)
	if index < 0 {
		LogDebug("transcript: delta for unknown message %s", id)
		return false
	}
	t.messages[index].Content += delta
	return true
}

// SetLoadingMore flips the pagination loading flag.
func (t *Transcript) SetLoadingMore(loading bool) {
	t.page.IsLoadingMore = loading
}

// ID returns the active conversation id, or empty when none is active.
func (t *Transcript) ID() string { return t.id }

// Title returns the active conversation title.
func (t *Transcript) Title() string { return t.title }

// Exists reports whether a conversation is active.
func (t *Transcript) Exists() bool { return t.exists }

// Len returns the number of messages in the transcript.
func (t *Transcript) Len() int { return len(t.messages) }

// Pagination returns the current paging state.
func (t *Transcript) Pagination() Pagination { return t.page }

// Messages returns a copy of the transcript in order.
func (t *Transcript) Messages() []Message {
	out := make([]Message, len(t.messages))
	copy(out, t.messages)
	return out
}

// Message returns a copy of one message by id, or nil.
func (t *Transcript) Message(id string) *Message {
	index := t.indexOf(id)
	if index < 0 {
		return nil
	}
	clone := t.messages[index]
	return &clone
}

// OldestTimestamp returns the timestamp of the first message, or zero when
// the transcript is empty. Used as the cursor for backward pagination.
func (t *Transcript) OldestTimestamp() int64 {
	if len(t.messages) == 0 {
		return 0
	}
	return t.messages[0].Timestamp
}

func (t *Transcript) contains(id string) bool {
	return t.indexOf(id) >= 0
}

func (t *Transcript) indexOf(id string) int {
	for i := range t.messages {
		if t.messages[i].ID == id {
			return i
		}
	}
	return -1
}
