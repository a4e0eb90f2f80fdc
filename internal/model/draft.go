package model

// Mode tells whether submitting the draft creates a new post or overwrites an existing one.
type Mode int

const (
	ModeCreate Mode = iota
	ModeEditing
)

func (m Mode) String() string {
	switch m {
	case ModeCreate:
		return "create"
	case ModeEditing:
		return "editing"
	default:
		return "unknown"
	}
}

// Draft is the transient state of the post form.
type Draft struct {
	Title string
	Body  string
	Mode  Mode

	// Only set in ModeEditing.
	TargetID PostID
}

// EditDraft returns a draft populated from p, ready to overwrite it.
func EditDraft(p Post) Draft {
	return Draft{
		Title:    p.Title,
		Body:     p.Body,
		Mode:     ModeEditing,
		TargetID: p.ID,
	}
}

func (d Draft) Request() PostRequest {
	return PostRequest{Title: d.Title, Body: d.Body}
}

func (d Draft) IsEditing() bool {
	return d.Mode == ModeEditing
}
