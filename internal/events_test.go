package internal

import (
	"errors"
	"testing"
)

func TestDecodeEvent(t *testing.T) {
	tests := []struct {
		name     string
		payload  string
		wantKind string
		wantErr  bool
	}{
		{
			name:     "message delta",
			payload:  `{"type":"message_delta","messageId":"m1","textDelta":"Hi"}`,
			wantKind: EventMessageDelta,
		},
		{
			name:     "reasoning delta",
			payload:  `{"type":"reasoning_delta","messageId":"m1","textDelta":"hmm"}`,
			wantKind: EventReasoningDelta,
		},
		{
			name:     "reasoning complete",
			payload:  `{"type":"reasoning_complete","messageId":"m1"}`,
			wantKind: EventReasoningComplete,
		},
		{
			name:     "tool start",
			payload:  `{"type":"tool_start","messageId":"m1","toolId":"t1","toolType":"search","toolName":"web_search","startTime":1000}`,
			wantKind: EventToolStart,
		},
		{
			name:     "tool progress",
			payload:  `{"type":"tool_progress","messageId":"m1","toolId":"t1","step":{"step":"querying","timestamp":1001}}`,
			wantKind: EventToolProgress,
		},
		{
			name:     "tool complete",
			payload:  `{"type":"tool_complete","messageId":"m1","toolId":"t1","result":{"hits":3},"endTime":1500}`,
			wantKind: EventToolComplete,
		},
		{
			name:     "tool error",
			payload:  `{"type":"tool_error","messageId":"m1","toolId":"t1","error":"boom"}`,
			wantKind: EventToolError,
		},
		{
			name:    "unknown kind",
			payload: `{"type":"mystery"}`,
			wantErr: true,
		},
		{
			name:    "missing kind",
			payload: `{"messageId":"m1"}`,
			wantErr: true,
		},
		{
			name:    "invalid json",
			payload: `{not json`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			event, err := DecodeEvent([]byte(tt.payload))
			if tt.wantErr {
				if err == nil {
					t.Fatalf("DecodeEvent() error = nil, want error")
				}
				var decodeErr *DecodeError
				if !errors.As(err, &decodeErr) {
					t.Errorf("DecodeEvent() error type = %T, want *DecodeError", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("DecodeEvent() error = %v", err)
			}
			if event.EventKind() != tt.wantKind {
				t.Errorf("EventKind() = %q, want %q", event.EventKind(), tt.wantKind)
			}
		})
	}
}

func TestDecodeEventFields(t *testing.T) {
	payload := `{"type":"tool_complete","messageId":"m1","toolId":"t1","result":{"hits":3},"endTime":1500}`
	event, err := DecodeEvent([]byte(payload))
	if err != nil {
		t.Fatalf("DecodeEvent() error = %v", err)
	}

	complete, ok := event.(ToolCompleteEvent)
	if !ok {
		t.Fatalf("event type = %T, want ToolCompleteEvent", event)
	}
	if complete.MessageID != "m1" || complete.ToolID != "t1" {
		t.Errorf("ids = %s/%s, want m1/t1", complete.MessageID, complete.ToolID)
	}
	if complete.EndTime == nil || *complete.EndTime != 1500 {
		t.Errorf("EndTime = %v, want 1500", complete.EndTime)
	}
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	original := ToolStartEvent{
		MessageID: "m1",
		ToolID:    "t1",
		ToolType:  ToolTypeSearch,
		ToolName:  "web_search",
		StartTime: 1000,
	}

	encoded, err := EncodeEvent(original)
	if err != nil {
		t.Fatalf("EncodeEvent() error = %v", err)
	}
	decoded, err := DecodeEvent(encoded)
	if err != nil {
		t.Fatalf("DecodeEvent() error = %v", err)
	}
	restored, ok := decoded.(ToolStartEvent)
	if !ok {
		t.Fatalf("decoded type = %T, want ToolStartEvent", decoded)
	}
	if restored != original {
		t.Errorf("round trip = %+v, want %+v", restored, original)
	}
}
