package internal

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// ReadEventLog decodes a JSONL stream of event envelopes, one per line.
// Malformed lines are logged and skipped so a partially corrupt recording
// still replays; an unreadable stream returns an error.
func ReadEventLog(r io.Reader) ([]Event, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)

	var events []Event
	line := 0
	for scanner.Scan() {
		line++
		text := strings.TrimSpace(scanner.Text())
		if text == "" {
			continue
		}
		event, err := DecodeEvent([]byte(text))
		if err != nil {
			LogWarn("eventlog: skipping line %d: %v", line, err)
			continue
		}
		events = append(events, event)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read event log: %w", err)
	}
	return events, nil
}

// WriteEventLog writes events as JSONL envelopes.
func WriteEventLog(w io.Writer, events []Event) error {
	for _, event := range events {
		encoded, err := EncodeEvent(event)
		if err != nil {
			return err
		}
		if _, err := fmt.Fprintf(w, "%s\n", encoded); err != nil {
			return fmt.Errorf("failed to write event log: %w", err)
		}
	}
	return nil
}
