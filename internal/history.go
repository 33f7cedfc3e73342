package internal

import (
	"database/sql"
	"encoding/json"
	"fmt"
)

// History is the SQLite-backed persistence collaborator. It supplies
// hydration payloads when a conversation is opened, serves backward pages
// for the load-older path, and persists engine snapshots after a turn.
type History struct {
	db *sql.DB
}

// ConversationInfo is one row of the conversation index.
type ConversationInfo struct {
	ID           string
	Title        string
	MessageCount int
	UpdatedAt    int64
}

// OpenHistory opens the history database at path.
func OpenHistory(path string) (*History, error) {
	db, err := OpenDatabase(path)
	if err != nil {
		return nil, &StoreError{Op: "open", Err: err}
	}
	return &History{db: db}, nil
}

// Close releases the underlying database.
func (h *History) Close() error {
	if h == nil || h.db == nil {
		return nil
	}
	return h.db.Close()
}

// SaveSnapshot persists a conversation snapshot, replacing any stored state
// for the same conversation id. Saving the same snapshot twice is a no-op
// beyond the first save.
func (h *History) SaveSnapshot(conversation *Conversation) error {
	if conversation == nil || conversation.ID == "" {
		return &StoreError{Op: "save", Err: fmt.Errorf("missing conversation id")}
	}

	tx, err := h.db.Begin()
	if err != nil {
		return &StoreError{Op: "save", ConversationID: conversation.ID, Err: err}
	}
	defer tx.Rollback()

	now := NowMillis()
	_, err = tx.Exec(
		`INSERT INTO conversations (id, title, created_at, updated_at) VALUES (?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET title = excluded.title, updated_at = excluded.updated_at`,
		conversation.ID, conversation.Title, now, now,
	)
	if err != nil {
		return &StoreError{Op: "save", ConversationID: conversation.ID, Err: err}
	}

	for _, table := range []string{"messages", "tool_executions", "thoughts"} {
		if _, err := tx.Exec("DELETE FROM "+table+" WHERE conversation_id = ?", conversation.ID); err != nil {
			return &StoreError{Op: "save", ConversationID: conversation.ID, Err: err}
		}
	}

	for _, message := range conversation.Messages {
		var metadataJSON interface{}
		if message.Metadata != nil {
			encoded, err := json.Marshal(message.Metadata)
			if err != nil {
				return &StoreError{Op: "save", ConversationID: conversation.ID, Err: err}
			}
			metadataJSON = string(encoded)
		}
		_, err = tx.Exec(
			`INSERT INTO messages (conversation_id, id, role, content, timestamp, metadata_json) VALUES (?, ?, ?, ?, ?, ?)`,
			conversation.ID, message.ID, string(message.Role), message.Content, message.Timestamp, metadataJSON,
		)
		if err != nil {
			return &StoreError{Op: "save", ConversationID: conversation.ID, Err: err}
		}
	}

	for messageID, executions := range conversation.ToolExecutions {
		for seq, execution := range executions {
			encoded, err := json.Marshal(execution)
			if err != nil {
				return &StoreError{Op: "save", ConversationID: conversation.ID, Err: err}
			}
			_, err = tx.Exec(
				`INSERT INTO tool_executions (conversation_id, message_id, tool_id, seq, execution_json) VALUES (?, ?, ?, ?, ?)`,
				conversation.ID, messageID, execution.ToolID, seq, string(encoded),
			)
			if err != nil {
				return &StoreError{Op: "save", ConversationID: conversation.ID, Err: err}
			}
		}
	}

	for messageID, thought := range conversation.Thoughts {
		_, err = tx.Exec(
			`INSERT INTO thoughts (conversation_id, message_id, content) VALUES (?, ?, ?)`,
			conversation.ID, messageID, thought.Content,
		)
		if err != nil {
			return &StoreError{Op: "save", ConversationID: conversation.ID, Err: err}
		}
	}

	if err := tx.Commit(); err != nil {
		return &StoreError{Op: "save", ConversationID: conversation.ID, Err: err}
	}
	return nil
}

// LoadConversation builds the hydration payload for a conversation: the
// newest messages up to limit (all when limit <= 0) with tool executions
// embedded per message, the thought map, and pagination metadata.
func (h *History) LoadConversation(id string, limit int) (*HydrationPayload, error) {
	var title string
	err := h.db.QueryRow("SELECT title FROM conversations WHERE id = ?", id).Scan(&title)
	if err == sql.ErrNoRows {
		return nil, &StoreError{Op: "load", ConversationID: id, Err: fmt.Errorf("conversation not found")}
	}
	if err != nil {
		return nil, &StoreError{Op: "load", ConversationID: id, Err: err}
	}

	var total int
	if err := h.db.QueryRow("SELECT COUNT(*) FROM messages WHERE conversation_id = ?", id).Scan(&total); err != nil {
		return nil, &StoreError{Op: "load", ConversationID: id, Err: err}
	}

	query := "SELECT id, role, content, timestamp, metadata_json FROM messages WHERE conversation_id = ? ORDER BY timestamp DESC"
	args := []interface{}{id}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}
	messages, err := h.queryMessages(query, args...)
	if err != nil {
		return nil, &StoreError{Op: "load", ConversationID: id, Err: err}
	}
	reverseMessages(messages)

	executions, err := h.loadExecutions(id)
	if err != nil {
		return nil, &StoreError{Op: "load", ConversationID: id, Err: err}
	}
	for i := range messages {
		messages[i].ToolExecutions = executions[messages[i].ID]
	}

	thoughts, err := h.loadThoughts(id)
	if err != nil {
		return nil, &StoreError{Op: "load", ConversationID: id, Err: err}
	}

	return &HydrationPayload{
		ID:            id,
		Title:         title,
		Messages:      messages,
		Thoughts:      thoughts,
		HasMore:       limit > 0 && total > len(messages),
		TotalMessages: &total,
	}, nil
}

// LoadPageBefore returns up to limit messages strictly older than the given
// timestamp, oldest first, with tool executions embedded.
func (h *History) LoadPageBefore(id string, before int64, limit int) (*PageResult, error) {
	if limit <= 0 {
		limit = 50
	}
	messages, err := h.queryMessages(
		"SELECT id, role, content, timestamp, metadata_json FROM messages WHERE conversation_id = ? AND timestamp < ? ORDER BY timestamp DESC LIMIT ?",
		id, before, limit,
	)
	if err != nil {
		return nil, &StoreError{Op: "page", ConversationID: id, Err: err}
	}
	reverseMessages(messages)

	executions, err := h.loadExecutions(id)
	if err != nil {
		return nil, &StoreError{Op: "page", ConversationID: id, Err: err}
	}
	for i := range messages {
		messages[i].ToolExecutions = executions[messages[i].ID]
	}

	hasMore := false
	if len(messages) > 0 {
		var remaining int
		err = h.db.QueryRow(
			"SELECT COUNT(*) FROM messages WHERE conversation_id = ? AND timestamp < ?",
			id, messages[0].Timestamp,
		).Scan(&remaining)
		if err != nil {
			return nil, &StoreError{Op: "page", ConversationID: id, Err: err}
		}
		hasMore = remaining > 0
	}

	return &PageResult{Messages: messages, HasMore: hasMore}, nil
}

// ListConversations returns the conversation index, most recent first.
func (h *History) ListConversations() ([]ConversationInfo, error) {
	rows, err := h.db.Query(
		`SELECT c.id, c.title, c.updated_at, COUNT(m.id)
		 FROM conversations c LEFT JOIN messages m ON m.conversation_id = c.id
		 GROUP BY c.id ORDER BY c.updated_at DESC`,
	)
	if err != nil {
		return nil, &StoreError{Op: "load", Err: err}
	}
	defer rows.Close()

	var infos []ConversationInfo
	for rows.Next() {
		var info ConversationInfo
		if err := rows.Scan(&info.ID, &info.Title, &info.UpdatedAt, &info.MessageCount); err != nil {
			return nil, &StoreError{Op: "load", Err: err}
		}
		infos = append(infos, info)
	}
	if err := rows.Err(); err != nil {
		return nil, &StoreError{Op: "load", Err: err}
	}
	return infos, nil
}

func (h *History) queryMessages(query string, args ...interface{}) ([]Message, error) {
	rows, err := h.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var messages []Message
	for rows.Next() {
		var (
			message      Message
			role         string
			metadataJSON sql.NullString
		)
		if err := rows.Scan(&message.ID, &role, &message.Content, &message.Timestamp, &metadataJSON); err != nil {
			return nil, err
		}
		message.Role = Role(role)
		if metadataJSON.Valid && metadataJSON.String != "" {
			var meta MessageMeta
			if err := json.Unmarshal([]byte(metadataJSON.String), &meta); err != nil {
				LogWarn("history: skipping unreadable metadata for message %s: %v", message.ID, err)
			} else {
				message.Metadata = &meta
			}
		}
		messages = append(messages, message)
	}
	return messages, rows.Err()
}

func (h *History) loadExecutions(conversationID string) (map[string][]ToolExecution, error) {
	rows, err := h.db.Query(
		"SELECT message_id, execution_json FROM tool_executions WHERE conversation_id = ? ORDER BY message_id, seq",
		conversationID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	executions := make(map[string][]ToolExecution)
	for rows.Next() {
		var (
			messageID string
			encoded   string
		)
		if err := rows.Scan(&messageID, &encoded); err != nil {
			return nil, err
		}
		execution, err := decodeStoredExecution([]byte(encoded))
		if err != nil {
			LogWarn("history: skipping unreadable tool execution on message %s: %v", messageID, err)
			continue
		}
		executions[messageID] = append(executions[messageID], *execution)
	}
	return executions, rows.Err()
}

func (h *History) loadThoughts(conversationID string) (map[string]string, error) {
	rows, err := h.db.Query(
		"SELECT message_id, content FROM thoughts WHERE conversation_id = ?",
		conversationID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	thoughts := make(map[string]string)
	for rows.Next() {
		var messageID, content string
		if err := rows.Scan(&messageID, &content); err != nil {
			return nil, err
		}
		thoughts[messageID] = content
	}
	return thoughts, rows.Err()
}

// storedExecution keeps steps and currentStep loosely typed so stored rows
// pass through the same sanitizer as live events. Old clients wrote event
// envelopes into step lists; hydration must shed those too.
type storedExecution struct {
	ToolID           string                 `json:"toolId"`
	ToolType         ToolType               `json:"toolType"`
	ToolName         string                 `json:"toolName"`
	Status           ToolStatus             `json:"status"`
	StartTime        int64                  `json:"startTime"`
	EndTime          *int64                 `json:"endTime"`
	Duration         *int64                 `json:"duration"`
	Steps            []interface{}          `json:"steps"`
	CurrentStep      interface{}            `json:"currentStep"`
	Progress         *int                   `json:"progress"`
	StreamingContent string                 `json:"streamingContent"`
	Result           interface{}            `json:"result"`
	Error            string                 `json:"error"`
	Metadata         map[string]interface{} `json:"metadata"`
}

func decodeStoredExecution(data []byte) (*ToolExecution, error) {
	var stored storedExecution
	if err := json.Unmarshal(data, &stored); err != nil {
		return nil, err
	}
	if stored.ToolID == "" {
		return nil, fmt.Errorf("missing toolId")
	}
	return &ToolExecution{
		ToolID:           stored.ToolID,
		ToolType:         stored.ToolType,
		ToolName:         stored.ToolName,
		Status:           stored.Status,
		StartTime:        stored.StartTime,
		EndTime:          stored.EndTime,
		Duration:         stored.Duration,
		Steps:            SanitizeSteps(stored.Steps),
		CurrentStep:      CoerceStepLabel(stored.CurrentStep),
		Progress:         stored.Progress,
		StreamingContent: stored.StreamingContent,
		Result:           stored.Result,
		Error:            stored.Error,
		Metadata:         stored.Metadata,
	}, nil
}

func reverseMessages(messages []Message) {
	for i, j := 0, len(messages)-1; i < j; i, j = i+1, j-1 {
		messages[i], messages[j] = messages[j], messages[i]
	}
}
