package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/redbtn-io/chatflow/internal"
)

var (
	// Styles shared by show and replay
	conversationHeaderStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("212")).
				Padding(0, 1).
				MarginBottom(1)

	conversationMetaStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("243")).
				MarginBottom(1)

	userMessageStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("39")).
				Bold(true).
				Padding(0, 1)

	assistantMessageStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("135")).
				Bold(true).
				Padding(0, 1)

	systemMessageStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("243")).
				Bold(true).
				Padding(0, 1)

	messageContentStyle = lipgloss.NewStyle().
				Padding(0, 2).
				MarginBottom(1)

	thoughtStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("245")).
			Italic(true).
			Padding(0, 2)

	toolLineStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214")).
			Padding(0, 2)

	toolStepStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")).
			Padding(0, 4)

	toolErrorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")).
			Padding(0, 2)

	timestampStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")).
			Italic(true)
)

// renderConversation writes a styled transcript of the conversation.
func renderConversation(w io.Writer, conversation *internal.Conversation) {
	title := conversation.Title
	if title == "" {
		title = conversation.ID
	}
	fmt.Fprintln(w, conversationHeaderStyle.Render(title))

	meta := fmt.Sprintf("%d messages", len(conversation.Messages))
	if conversation.Pagination.TotalMessages != nil {
		meta = fmt.Sprintf("%d of %d messages", len(conversation.Messages), *conversation.Pagination.TotalMessages)
	}
	if conversation.Pagination.HasMore {
		meta += " (older history available)"
	}
	fmt.Fprintln(w, conversationMetaStyle.Render(meta))

	for _, message := range conversation.Messages {
		renderMessage(w, conversation, message)
	}
}

func renderMessage(w io.Writer, conversation *internal.Conversation, message internal.Message) {
	label := roleStyle(message.Role).Render(strings.ToUpper(string(message.Role)))
	if ts := internal.FormatTimestamp(message.Timestamp); ts != "" {
		label += " " + timestampStyle.Render(ts)
	}
	fmt.Fprintln(w, label)

	if thought, ok := conversation.Thoughts[message.ID]; ok && thought.Content != "" {
		marker := ""
		if thought.IsStreaming {
			marker = " …"
		}
		fmt.Fprintln(w, thoughtStyle.Render("thinking: "+thought.Content+marker))
	}

	for _, execution := range message.ToolExecutions {
		renderExecution(w, execution)
	}

	if message.Content != "" {
		fmt.Fprintln(w, messageContentStyle.Render(message.Content))
	}
}

func renderExecution(w io.Writer, execution internal.ToolExecution) {
	line := fmt.Sprintf("⚙ %s [%s] %s", execution.ToolName, execution.ToolType, execution.Status)
	if execution.Duration != nil {
		line += fmt.Sprintf(" (%dms)", *execution.Duration)
	}
	if execution.Status == internal.ToolStatusRunning && execution.CurrentStep != "" {
		line += ": " + execution.CurrentStep
	}
	fmt.Fprintln(w, toolLineStyle.Render(line))

	for _, step := range execution.Steps {
		stepLine := step.Step
		if step.Progress != nil {
			stepLine += fmt.Sprintf(" (%d%%)", *step.Progress)
		}
		fmt.Fprintln(w, toolStepStyle.Render("· "+stepLine))
	}
	if execution.Error != "" {
		fmt.Fprintln(w, toolErrorStyle.Render("✗ "+execution.Error))
	}
}

func roleStyle(role internal.Role) lipgloss.Style {
	switch role {
	case internal.RoleUser:
		return userMessageStyle
	case internal.RoleAssistant:
		return assistantMessageStyle
	default:
		return systemMessageStyle
	}
}
