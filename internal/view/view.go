// Package view renders the post list and the draft form for the terminal client.
package view

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/debemdeboas/postboard/internal/model"
	"github.com/debemdeboas/postboard/internal/postlist"
	"github.com/debemdeboas/postboard/internal/remote"
)

const (
	AppTitle  = "CRUD Application"
	NoPosts   = "No posts available"
	LabelList = "Posts"
)

var (
	headerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("63")).Bold(true)
	titleStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("212")).Bold(true)
	idStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	bodyStyle   = lipgloss.NewStyle().PaddingLeft(2)
	mutedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Faint(true)
	noticeStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("214")).Bold(true)
	formStyle   = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("63")).
			Padding(0, 1)

	PromptStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("63")).Bold(true)
)

// List renders the mirror in display order.
func List(posts []model.Post) string {
	var b strings.Builder
	b.WriteString(headerStyle.Render(LabelList))
	b.WriteString("\n")

	if len(posts) == 0 {
		b.WriteString(mutedStyle.Render(NoPosts))
		return b.String()
	}

	for i, p := range posts {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(idStyle.Render("#"+string(p.ID)) + " " + titleStyle.Render(p.Title))
		b.WriteString("\n")
		b.WriteString(bodyStyle.Render(p.Body))
	}
	return b.String()
}

// Draft renders the form with the action a submit would take.
func Draft(d model.Draft) string {
	action := "Create Post"
	heading := "New post"
	if d.IsEditing() {
		action = "Update Post"
		heading = "Editing post #" + string(d.TargetID)
	}

	lines := []string{
		headerStyle.Render(heading),
		"Title: " + placeholder(d.Title, "Title"),
		"Body:  " + placeholder(d.Body, "Body"),
		idStyle.Render("[save] " + action),
	}
	return formStyle.Render(strings.Join(lines, "\n"))
}

// Screen is the full client view: heading, form and list.
func Screen(posts []model.Post, d model.Draft) string {
	return lipgloss.JoinVertical(lipgloss.Left,
		headerStyle.Render(AppTitle),
		Draft(d),
		List(posts),
	)
}

// Error renders an operation failure for the user. Validation problems are notices; transport
// failures are shown dimmed since the state did not change.
func Error(err error) string {
	switch {
	case err == nil:
		return ""
	case postlist.IsValidation(err):
		return noticeStyle.Render(err.Error())
	case remote.IsTransport(err):
		return mutedStyle.Render("request failed: " + err.Error())
	default:
		return noticeStyle.Render(err.Error())
	}
}

func Info(format string, args ...any) string {
	return mutedStyle.Render(fmt.Sprintf(format, args...))
}

func placeholder(value, name string) string {
	if value == "" {
		return mutedStyle.Render("<" + strings.ToLower(name) + ">")
	}
	return value
}
