package internal

import "fmt"

// SanitizeStep validates a raw tool-step value and returns a well-formed
// ToolStep, or nil when the value must be dropped. Two malformed shapes show
// up in practice: values that are not objects at all, and whole event
// envelopes mistakenly forwarded as steps (they carry type+toolType+toolId
// simultaneously). Both are rejected here so neither the live path nor
// hydration can corrupt a timeline.
func SanitizeStep(raw interface{}) *ToolStep {
	if step, ok := raw.(ToolStep); ok {
		if step.Step == "" {
			LogWarn("sanitizer: dropping step with empty label")
			return nil
		}
		return &step
	}
	if step, ok := raw.(*ToolStep); ok && step != nil {
		if step.Step == "" {
			LogWarn("sanitizer: dropping step with empty label")
			return nil
		}
		clone := *step
		return &clone
	}

	fields, ok := raw.(map[string]interface{})
	if !ok {
		LogWarn("sanitizer: dropping non-object step value (%T)", raw)
		return nil
	}

	if hasKey(fields, "type") && hasKey(fields, "toolType") && hasKey(fields, "toolId") {
		LogWarn("sanitizer: dropping event envelope passed as step")
		return nil
	}

	label, ok := fields["step"].(string)
	if !ok || label == "" {
		LogWarn("sanitizer: dropping step without step field")
		return nil
	}

	step := &ToolStep{Step: label}
	if ts, ok := asInt64(fields["timestamp"]); ok {
		step.Timestamp = ts
	}
	if p, ok := asInt(fields["progress"]); ok {
		step.Progress = &p
	}
	if data, ok := fields["data"].(map[string]interface{}); ok {
		step.Data = data
	}
	return step
}

// SanitizeSteps filters a raw step list, keeping only well-formed entries.
func SanitizeSteps(raw []interface{}) []ToolStep {
	steps := make([]ToolStep, 0, len(raw))
	for _, value := range raw {
		if step := SanitizeStep(value); step != nil {
			steps = append(steps, *step)
		}
	}
	return steps
}

// CoerceStepLabel turns a raw currentStep value into a display string. The
// transport sometimes sends a step-shaped object where a plain label belongs;
// that case is recovered, everything else falls back to fmt with a warning.
func CoerceStepLabel(raw interface{}) string {
	switch v := raw.(type) {
	case nil:
		return ""
	case string:
		return v
	case map[string]interface{}:
		if label, ok := v["step"].(string); ok {
			LogWarn("sanitizer: currentStep arrived as step object, using label %q", label)
			return label
		}
	case ToolStep:
		return v.Step
	case *ToolStep:
		if v != nil {
			return v.Step
		}
		return ""
	}
	LogWarn("sanitizer: non-string currentStep value (%T)", raw)
	return fmt.Sprintf("%v", raw)
}

func hasKey(fields map[string]interface{}, key string) bool {
	_, ok := fields[key]
	return ok
}

func asInt64(value interface{}) (int64, bool) {
	switch v := value.(type) {
	case int64:
		return v, true
	case int:
		return int64(v), true
	case float64:
		return int64(v), true
	}
	return 0, false
}

func asInt(value interface{}) (int, bool) {
	switch v := value.(type) {
	case int:
		return v, true
	case int64:
		return int(v), true
	case float64:
		return int(v), true
	}
	return 0, false
}
