package internal

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestManagerFullTurn(t *testing.T) {
	manager := NewManager()

	manager.CreateEmpty("c1", "")
	manager.AddMessage(Message{ID: "u1", Role: RoleUser, Content: "hi"})
	manager.AddMessage(Message{ID: "a1", Role: RoleAssistant, Content: ""})
	manager.StartTool("a1", ToolExecution{ToolID: "t1", ToolType: ToolTypeSearch, ToolName: "web_search", StartTime: 1000})
	manager.ToolProgress("a1", "t1", map[string]interface{}{"step": "querying", "timestamp": float64(1001)})
	end := int64(1500)
	manager.CompleteTool("a1", "t1", map[string]interface{}{"hits": 3}, nil, &end)

	executions := manager.GetToolExecutions("a1")
	require.Len(t, executions, 1)
	require.Equal(t, ToolStatusCompleted, executions[0].Status)
	require.NotNil(t, executions[0].Duration)
	require.EqualValues(t, 500, *executions[0].Duration)
	require.Len(t, executions[0].Steps, 1)
	require.Equal(t, map[string]interface{}{"hits": 3}, executions[0].Result)

	conversation := manager.GetCurrentConversation()
	require.NotNil(t, conversation)
	require.Len(t, conversation.Messages, 2)
	require.Equal(t, "u1", conversation.Messages[0].ID)
	require.Len(t, conversation.Messages[1].ToolExecutions, 1)
}

func TestManagerNotificationPerMutatingCall(t *testing.T) {
	manager := NewManager()
	manager.CreateEmpty("c1", "")

	notifications := 0
	unsubscribe := manager.Subscribe(func() { notifications++ })
	defer unsubscribe()

	manager.AddMessage(Message{ID: "m1", Role: RoleUser, Content: "a"})
	manager.AppendMessageDelta("m1", "bc")
	end := int64(2000)
	manager.StartTool("m1", CreateTestExecution("t1", 1000))
	manager.CompleteTool("m1", "t1", nil, nil, &end)

	// One notification per public call, however many fields each touched.
	require.Equal(t, 4, notifications)
}

func TestManagerUnsubscribeStopsNotifications(t *testing.T) {
	manager := NewManager()
	manager.CreateEmpty("c1", "")

	notifications := 0
	unsubscribe := manager.Subscribe(func() { notifications++ })
	manager.AddMessage(Message{ID: "m1", Role: RoleUser})
	unsubscribe()
	unsubscribe() // idempotent
	manager.AddMessage(Message{ID: "m2", Role: RoleUser})

	require.Equal(t, 1, notifications)
}

func TestManagerDispatchDropsStaleEpoch(t *testing.T) {
	manager := NewManager()
	manager.CreateEmpty("c1", "")
	staleEpoch := manager.Epoch()

	manager.CreateEmpty("c2", "")
	manager.AddMessage(Message{ID: "a1", Role: RoleAssistant})

	// Events ingested under the discarded conversation must not apply.
	applied := manager.Dispatch(staleEpoch, MessageDeltaEvent{MessageID: "a1", TextDelta: "stale"})
	require.False(t, applied)
	require.Equal(t, "", manager.GetMessage("a1").Content)

	applied = manager.Dispatch(manager.Epoch(), MessageDeltaEvent{MessageID: "a1", TextDelta: "fresh"})
	require.True(t, applied)
	require.Equal(t, "fresh", manager.GetMessage("a1").Content)
}

func TestManagerDispatchEventKinds(t *testing.T) {
	manager := NewManager()
	manager.CreateEmpty("c1", "")
	epoch := manager.Epoch()

	events := []Event{
		MessageAddEvent{Message: Message{ID: "a1", Role: RoleAssistant}},
		MessageDeltaEvent{MessageID: "a1", TextDelta: "Hello"},
		ReasoningDeltaEvent{MessageID: "a1", TextDelta: "thinking"},
		ReasoningCompleteEvent{MessageID: "a1"},
		ToolStartEvent{MessageID: "a1", ToolID: "t1", ToolType: ToolTypeCode, ToolName: "run", StartTime: 100},
		ToolProgressEvent{MessageID: "a1", ToolID: "t1", Step: map[string]interface{}{"step": "compiling"}},
		ToolStreamEvent{MessageID: "a1", ToolID: "t1", TextDelta: "ok\n"},
		ToolErrorEvent{MessageID: "a1", ToolID: "t1", Error: "exit 1"},
	}
	for _, event := range events {
		require.True(t, manager.Dispatch(epoch, event), "event kind %s", event.EventKind())
	}

	require.Equal(t, "Hello", manager.GetMessage("a1").Content)

	thought := manager.GetThought("a1")
	require.NotNil(t, thought)
	require.Equal(t, "thinking", thought.Content)
	require.False(t, thought.IsStreaming)

	executions := manager.GetToolExecutions("a1")
	require.Len(t, executions, 1)
	require.Equal(t, ToolStatusError, executions[0].Status)
	require.Equal(t, "exit 1", executions[0].Error)
	require.Equal(t, "compiling", executions[0].CurrentStep)
	require.Equal(t, "ok\n", executions[0].StreamingContent)
}

func TestManagerAbsentTargetsAreSilent(t *testing.T) {
	manager := NewManager()

	// No conversation, nothing exists: every call must absorb quietly.
	manager.AddMessage(Message{ID: "m1"})
	manager.AppendMessageDelta("m1", "x")
	manager.ToolProgress("m1", "t1", map[string]interface{}{"step": "s"})
	manager.CompleteTool("m1", "t1", nil, nil, nil)
	manager.CompleteThought("m1")

	require.Nil(t, manager.GetCurrentConversation())
	require.Nil(t, manager.GetThought("m1"))
	require.Empty(t, manager.GetToolExecutions("m1"))
}

func TestManagerSnapshotIsolation(t *testing.T) {
	manager := NewManager()
	manager.CreateEmpty("c1", "")
	manager.AddMessage(Message{ID: "m1", Role: RoleUser, Content: "original"})
	manager.AppendThoughtDelta("m1", "thought")
	manager.StartTool("m1", CreateTestExecution("t1", 1000))

	snapshot := manager.GetCurrentConversation()
	snapshot.Messages[0].Content = "mutated"
	snapshot.Thoughts["m1"] = Thought{MessageID: "m1", Content: "mutated"}
	snapshot.ToolExecutions["m1"][0].ToolName = "mutated"

	require.Equal(t, "original", manager.GetMessage("m1").Content)
	require.Equal(t, "thought", manager.GetThought("m1").Content)
	require.Equal(t, "web_search", manager.GetToolExecutions("m1")[0].ToolName)
}

func TestManagerHydrateThenPaginate(t *testing.T) {
	manager := NewManager()
	payload := CreateTestConversationPayload("c1")
	payload.HasMore = true
	manager.Hydrate(payload)

	conversation := manager.GetCurrentConversation()
	require.Equal(t, "c1", conversation.ID)
	require.True(t, conversation.Pagination.HasMore)
	require.Len(t, conversation.Messages, 2)

	manager.SetLoadingMore(true)
	manager.PrependOlder([]Message{
		{ID: "m0", Role: RoleUser, Content: "earlier", Timestamp: 500},
	}, false)

	conversation = manager.GetCurrentConversation()
	require.Equal(t, "m0", conversation.Messages[0].ID)
	require.False(t, conversation.Pagination.HasMore)
	require.False(t, conversation.Pagination.IsLoadingMore)
}

func TestManagerConversationSwitchResetsState(t *testing.T) {
	manager := NewManager()
	manager.CreateEmpty("c1", "")
	manager.AddMessage(Message{ID: "m1", Role: RoleUser})
	manager.AppendThoughtDelta("m1", "abc")

	before := manager.Epoch()
	manager.CreateEmpty("c2", "")

	require.Greater(t, manager.Epoch(), before)
	require.Nil(t, manager.GetThought("m1"))
	conversation := manager.GetCurrentConversation()
	require.Equal(t, "c2", conversation.ID)
	require.Empty(t, conversation.Messages)
}
