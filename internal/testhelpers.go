package internal

// CreateTestMessage builds a message with sensible defaults for tests
func CreateTestMessage(id string, role Role, content string) Message {
	return Message{
		ID:        id,
		Role:      role,
		Content:   content,
		Timestamp: NowMillis(),
	}
}

// CreateTestConversationPayload builds a small hydration payload for tests
func CreateTestConversationPayload(id string) HydrationPayload {
	total := 2
	return HydrationPayload{
		ID:    id,
		Title: "Test Conversation",
		Messages: []Message{
			{ID: "m1", Role: RoleUser, Content: "Hello, how are you?", Timestamp: 1000},
			{ID: "m2", Role: RoleAssistant, Content: "I'm doing well, thank you!", Timestamp: 2000},
		},
		Thoughts:      map[string]string{"m2": "The user is greeting me."},
		TotalMessages: &total,
	}
}

// CreateTestExecution builds a running execution for tests
func CreateTestExecution(toolID string, startTime int64) ToolExecution {
	return ToolExecution{
		ToolID:    toolID,
		ToolType:  ToolTypeSearch,
		ToolName:  "web_search",
		StartTime: startTime,
	}
}
