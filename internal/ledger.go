package internal

// Ledger tracks tool executions per message. Each execution moves through
// running into one of two absorbing states (completed, error); once terminal
// it never mutates again, which is what makes replayed and late-arriving
// transport events safe to feed in any order.
type Ledger struct {
	executions map[string][]*ToolExecution
	now        func() int64
}

// NewLedger creates an empty Ledger.
func NewLedger() *Ledger {
	return &Ledger{
		executions: make(map[string][]*ToolExecution),
		now:        NowMillis,
	}
}

// Start appends a new running execution to a message's list, creating the
// list if needed. A duplicate toolId for the same message is dropped.
func (l *Ledger) Start(messageID string, execution ToolExecution) {
	if messageID == "" || execution.ToolID == "" {
		LogDebug("ledger: start with empty key (message=%q tool=%q)", messageID, execution.ToolID)
		return
	}
	if l.find(messageID, execution.ToolID) != nil {
		LogDebug("ledger: duplicate start for %s/%s", messageID, execution.ToolID)
		return
	}
	execution.Status = ToolStatusRunning
	if execution.StartTime == 0 {
		execution.StartTime = l.now()
	}
	if execution.Steps == nil {
		execution.Steps = []ToolStep{}
	}
	l.executions[messageID] = append(l.executions[messageID], &execution)
}

// Progress sanitizes and appends a timeline step for a running execution,
// updating the denormalized current-step label and progress. Terminal
// executions ignore further progress; a completion racing a trailing
// progress event must win regardless of arrival order.
func (l *Ledger) Progress(messageID, toolID string, rawStep interface{}) {
	execution := l.find(messageID, toolID)
	if execution == nil {
		LogDebug("ledger: progress for unknown execution %s/%s", messageID, toolID)
		return
	}
	if execution.Terminal() {
		LogDebug("ledger: progress after terminal state for %s/%s", messageID, toolID)
		return
	}
	step := SanitizeStep(rawStep)
	if step == nil {
		return
	}
	if step.Timestamp == 0 {
		step.Timestamp = l.now()
	}
	execution.Steps = append(execution.Steps, *step)
	execution.CurrentStep = step.Step
	if step.Progress != nil {
		p := *step.Progress
		execution.Progress = &p
	}
}

// StreamAppend appends incremental output text to a running execution.
func (l *Ledger) StreamAppend(messageID, toolID, text string) {
	execution := l.find(messageID, toolID)
	if execution == nil {
		LogDebug("ledger: stream for unknown execution %s/%s", messageID, toolID)
		return
	}
	if execution.Terminal() {
		LogDebug("ledger: stream after terminal state for %s/%s", messageID, toolID)
		return
	}
	execution.StreamingContent += text
}

// Complete transitions an execution to completed, recording the result and
// computing duration once from the supplied end timestamp or the clock.
// Idempotent: a second completion (or a late failure) is a no-op.
func (l *Ledger) Complete(messageID, toolID string, result interface{}, metadata map[string]interface{}, endTimestamp *int64) {
	execution := l.find(messageID, toolID)
	if execution == nil {
		LogDebug("ledger: complete for unknown execution %s/%s", messageID, toolID)
		return
	}
	if execution.Terminal() {
		LogDebug("ledger: complete after terminal state for %s/%s", messageID, toolID)
		return
	}
	execution.Status = ToolStatusCompleted
	execution.Result = result
	if metadata != nil {
		execution.Metadata = metadata
	}
	l.finish(execution, endTimestamp)
}

// Fail transitions an execution to error. Symmetric to Complete.
func (l *Ledger) Fail(messageID, toolID, errorMessage string, errorTimestamp *int64) {
	execution := l.find(messageID, toolID)
	if execution == nil {
		LogDebug("ledger: fail for unknown execution %s/%s", messageID, toolID)
		return
	}
	if execution.Terminal() {
		LogDebug("ledger: fail after terminal state for %s/%s", messageID, toolID)
		return
	}
	execution.Status = ToolStatusError
	execution.Error = errorMessage
	l.finish(execution, errorTimestamp)
}

func (l *Ledger) finish(execution *ToolExecution, endTimestamp *int64) {
	end := l.now()
	if endTimestamp != nil {
		end = *endTimestamp
	}
	duration := end - execution.StartTime
	execution.EndTime = &end
	execution.Duration = &duration
}

// Get returns copies of a message's executions in start order, or an empty
// slice when the message has none.
func (l *Ledger) Get(messageID string) []ToolExecution {
	list := l.executions[messageID]
	out := make([]ToolExecution, 0, len(list))
	for _, execution := range list {
		out = append(out, cloneExecution(execution))
	}
	return out
}

// GetExecution returns a copy of one execution, or nil when absent.
func (l *Ledger) GetExecution(messageID, toolID string) *ToolExecution {
	execution := l.find(messageID, toolID)
	if execution == nil {
		return nil
	}
	clone := cloneExecution(execution)
	return &clone
}

// Load replaces a message's execution list wholesale. Used on hydration,
// where embedded per-message executions are the source of truth.
func (l *Ledger) Load(messageID string, executions []ToolExecution) {
	if messageID == "" {
		return
	}
	list := make([]*ToolExecution, 0, len(executions))
	for _, execution := range executions {
		clone := cloneExecution(&execution)
		clone.Steps = filterLoadedSteps(messageID, clone.ToolID, clone.Steps)
		if clone.Status == "" {
			clone.Status = ToolStatusRunning
		}
		list = append(list, &clone)
	}
	l.executions[messageID] = list
}

// Merge adds executions for a message, skipping toolIds already present.
// Used for the legacy top-level hydration maps, which Load then overrides
// per message whenever embedded data exists.
func (l *Ledger) Merge(messageID string, executions []ToolExecution) {
	for _, execution := range executions {
		if execution.ToolID == "" || l.find(messageID, execution.ToolID) != nil {
			continue
		}
		clone := cloneExecution(&execution)
		clone.Steps = filterLoadedSteps(messageID, clone.ToolID, clone.Steps)
		if clone.Status == "" {
			clone.Status = ToolStatusRunning
		}
		l.executions[messageID] = append(l.executions[messageID], &clone)
	}
}

// filterLoadedSteps applies the sanitizer's step rules to hydrated timelines,
// so persisted malformed entries are dropped the same way live ones are.
func filterLoadedSteps(messageID, toolID string, steps []ToolStep) []ToolStep {
	kept := steps[:0]
	for _, step := range steps {
		if step.Step == "" {
			LogWarn("ledger: dropping hydrated step without label for %s/%s", messageID, toolID)
			continue
		}
		kept = append(kept, step)
	}
	return kept
}

func (l *Ledger) find(messageID, toolID string) *ToolExecution {
	for _, execution := range l.executions[messageID] {
		if execution.ToolID == toolID {
			return execution
		}
	}
	return nil
}

func (l *Ledger) reset() {
	l.executions = make(map[string][]*ToolExecution)
}

func (l *Ledger) snapshot() map[string][]ToolExecution {
	if len(l.executions) == 0 {
		return nil
	}
	out := make(map[string][]ToolExecution, len(l.executions))
	for id := range l.executions {
		out[id] = l.Get(id)
	}
	return out
}

func cloneExecution(execution *ToolExecution) ToolExecution {
	clone := *execution
	clone.Steps = append([]ToolStep(nil), execution.Steps...)
	if execution.EndTime != nil {
		end := *execution.EndTime
		clone.EndTime = &end
	}
	if execution.Duration != nil {
		d := *execution.Duration
		clone.Duration = &d
	}
	if execution.Progress != nil {
		p := *execution.Progress
		clone.Progress = &p
	}
	if execution.Metadata != nil {
		metadata := make(map[string]interface{}, len(execution.Metadata))
		for k, v := range execution.Metadata {
			metadata[k] = v
		}
		clone.Metadata = metadata
	}
	return clone
}
