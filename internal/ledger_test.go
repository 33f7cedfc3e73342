package internal

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLedgerStartAndGet(t *testing.T) {
	ledger := NewLedger()

	ledger.Start("m1", CreateTestExecution("t1", 1000))

	executions := ledger.Get("m1")
	require.Len(t, executions, 1)
	require.Equal(t, "t1", executions[0].ToolID)
	require.Equal(t, ToolStatusRunning, executions[0].Status)
	require.EqualValues(t, 1000, executions[0].StartTime)

	require.Empty(t, ledger.Get("unknown"))
	require.Nil(t, ledger.GetExecution("m1", "unknown"))
}

func TestLedgerDuplicateStartIgnored(t *testing.T) {
	ledger := NewLedger()

	ledger.Start("m1", CreateTestExecution("t1", 1000))
	ledger.Start("m1", CreateTestExecution("t1", 9999))

	executions := ledger.Get("m1")
	require.Len(t, executions, 1)
	require.EqualValues(t, 1000, executions[0].StartTime)
}

func TestLedgerProgress(t *testing.T) {
	ledger := NewLedger()
	ledger.Start("m1", CreateTestExecution("t1", 1000))

	ledger.Progress("m1", "t1", map[string]interface{}{
		"step":      "querying",
		"timestamp": float64(1001),
		"progress":  float64(30),
	})

	execution := ledger.GetExecution("m1", "t1")
	require.NotNil(t, execution)
	require.Len(t, execution.Steps, 1)
	require.Equal(t, "querying", execution.CurrentStep)
	require.NotNil(t, execution.Progress)
	require.Equal(t, 30, *execution.Progress)
}

func TestLedgerProgressRejectsEventShapedStep(t *testing.T) {
	ledger := NewLedger()
	ledger.Start("m1", CreateTestExecution("t1", 1000))

	ledger.Progress("m1", "t1", map[string]interface{}{
		"type":     "tool_start",
		"toolType": "x",
		"toolId":   "y",
	})

	execution := ledger.GetExecution("m1", "t1")
	require.NotNil(t, execution)
	require.Empty(t, execution.Steps)
}

func TestLedgerTerminalStickiness(t *testing.T) {
	ledger := NewLedger()
	ledger.Start("m1", CreateTestExecution("t1", 1000))

	end := int64(1500)
	ledger.Complete("m1", "t1", map[string]interface{}{"hits": 3}, nil, &end)
	ledger.Fail("m1", "t1", "boom", nil)

	execution := ledger.GetExecution("m1", "t1")
	require.NotNil(t, execution)
	require.Equal(t, ToolStatusCompleted, execution.Status)
	require.Equal(t, map[string]interface{}{"hits": 3}, execution.Result)
	require.Empty(t, execution.Error)
}

func TestLedgerDurationComputedOnce(t *testing.T) {
	ledger := NewLedger()
	ledger.Start("m1", CreateTestExecution("t1", 1000))

	first := int64(1500)
	ledger.Complete("m1", "t1", nil, nil, &first)

	second := int64(9000)
	ledger.Complete("m1", "t1", nil, nil, &second)

	execution := ledger.GetExecution("m1", "t1")
	require.NotNil(t, execution.Duration)
	require.EqualValues(t, 500, *execution.Duration)
	require.NotNil(t, execution.EndTime)
	require.EqualValues(t, 1500, *execution.EndTime)
}

func TestLedgerNoMutationAfterTerminal(t *testing.T) {
	ledger := NewLedger()
	ledger.Start("m1", CreateTestExecution("t1", 1000))
	ledger.StreamAppend("m1", "t1", "partial ")

	end := int64(2000)
	ledger.Fail("m1", "t1", "timeout", &end)

	ledger.Progress("m1", "t1", map[string]interface{}{"step": "late"})
	ledger.StreamAppend("m1", "t1", "more")

	execution := ledger.GetExecution("m1", "t1")
	require.Equal(t, ToolStatusError, execution.Status)
	require.Equal(t, "timeout", execution.Error)
	require.Empty(t, execution.Steps)
	require.Equal(t, "partial ", execution.StreamingContent)
}

func TestLedgerLoadOverridesMerge(t *testing.T) {
	ledger := NewLedger()

	ledger.Merge("m1", []ToolExecution{
		{ToolID: "t1", ToolName: "legacy", Status: ToolStatusCompleted},
		{ToolID: "t2", ToolName: "legacy-only", Status: ToolStatusCompleted},
	})
	ledger.Load("m1", []ToolExecution{
		{ToolID: "t1", ToolName: "embedded", Status: ToolStatusCompleted},
	})

	executions := ledger.Get("m1")
	require.Len(t, executions, 1)
	require.Equal(t, "embedded", executions[0].ToolName)
}

func TestLedgerLoadFiltersUnlabeledSteps(t *testing.T) {
	ledger := NewLedger()

	ledger.Load("m1", []ToolExecution{{
		ToolID: "t1",
		Status: ToolStatusCompleted,
		Steps:  []ToolStep{{Step: "good"}, {Step: ""}, {Step: "also good"}},
	}})

	execution := ledger.GetExecution("m1", "t1")
	require.Len(t, execution.Steps, 2)
}

func TestLedgerGetReturnsCopies(t *testing.T) {
	ledger := NewLedger()
	ledger.Start("m1", CreateTestExecution("t1", 1000))
	ledger.Progress("m1", "t1", map[string]interface{}{"step": "one"})

	executions := ledger.Get("m1")
	executions[0].Steps[0].Step = "mutated"
	executions[0].StreamingContent = "mutated"

	fresh := ledger.GetExecution("m1", "t1")
	require.Equal(t, "one", fresh.Steps[0].Step)
	require.Empty(t, fresh.StreamingContent)
}
