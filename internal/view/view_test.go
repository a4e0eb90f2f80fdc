package view

import (
	"errors"
	"regexp"
	"strings"
	"testing"

	"github.com/debemdeboas/postboard/internal/model"
	"github.com/debemdeboas/postboard/internal/postlist"
	"github.com/debemdeboas/postboard/internal/remote"
)

var ansi = regexp.MustCompile(`\x1b\[[0-9;]*m`)

func plain(s string) string {
	return ansi.ReplaceAllString(s, "")
}

func TestList(t *testing.T) {
	t.Run("Empty list", func(t *testing.T) {
		out := plain(List(nil))
		if !strings.Contains(out, NoPosts) {
			t.Errorf("Expected %q in output, got %q", NoPosts, out)
		}
	})

	t.Run("Posts in order", func(t *testing.T) {
		out := plain(List([]model.Post{
			{ID: "2", Title: "Second", Body: "b2"},
			{ID: "1", Title: "First", Body: "b1"},
		}))

		if strings.Contains(out, NoPosts) {
			t.Error("Did not expect the empty notice")
		}
		second := strings.Index(out, "#2 Second")
		first := strings.Index(out, "#1 First")
		if second == -1 || first == -1 {
			t.Fatalf("Expected both posts in output, got %q", out)
		}
		if second > first {
			t.Error("Expected posts to keep their order")
		}
		if !strings.Contains(out, "b1") || !strings.Contains(out, "b2") {
			t.Error("Expected bodies in output")
		}
	})
}

func TestDraft(t *testing.T) {
	testCases := []struct {
		name     string
		draft    model.Draft
		expected []string
	}{
		{
			name:     "Empty create form",
			draft:    model.Draft{},
			expected: []string{"New post", "<title>", "<body>", "Create Post"},
		},
		{
			name:     "Editing form",
			draft:    model.EditDraft(model.Post{ID: "7", Title: "T", Body: "B"}),
			expected: []string{"Editing post #7", "Title: T", "Body:  B", "Update Post"},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			out := plain(Draft(tc.draft))
			for _, want := range tc.expected {
				if !strings.Contains(out, want) {
					t.Errorf("Expected %q in output, got %q", want, out)
				}
			}
		})
	}
}

func TestScreen(t *testing.T) {
	out := plain(Screen(nil, model.Draft{}))

	for _, want := range []string{AppTitle, "Create Post", NoPosts} {
		if !strings.Contains(out, want) {
			t.Errorf("Expected %q in output, got %q", want, out)
		}
	}
}

func TestError(t *testing.T) {
	if Error(nil) != "" {
		t.Error("Expected empty output for nil error")
	}

	validation := plain(Error(&postlist.ValidationError{Field: "title"}))
	if !strings.Contains(validation, "Please fill in all fields") {
		t.Errorf("Unexpected validation notice %q", validation)
	}

	transport := plain(Error(&remote.TransportError{Op: remote.OpDelete, ID: "3", StatusCode: 404, Err: errors.New("gone")}))
	if !strings.Contains(transport, "request failed: ") || !strings.Contains(transport, "404") {
		t.Errorf("Unexpected transport notice %q", transport)
	}

	other := plain(Error(postlist.ErrPostNotFound))
	if !strings.Contains(other, postlist.ErrPostNotFound.Error()) {
		t.Errorf("Unexpected notice %q", other)
	}
}

func TestHighlightJSON(t *testing.T) {
	posts := []model.Post{{ID: "1", Title: "A", Body: "x"}}

	t.Run("Colored output keeps the content", func(t *testing.T) {
		out, err := HighlightJSON(posts, "monokai", "terminal256")
		if err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
		if !strings.Contains(out, "\x1b[") {
			t.Error("Expected ANSI escapes in highlighted output")
		}
		stripped := plain(out)
		for _, want := range []string{`"id"`, `1`, `"title"`, `"A"`} {
			if !strings.Contains(stripped, want) {
				t.Errorf("Expected %s in output, got %q", want, stripped)
			}
		}
	})

	t.Run("Unknown style and formatter fall back", func(t *testing.T) {
		out, err := HighlightJSON(posts, "no-such-style", "no-such-formatter")
		if err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
		if !strings.Contains(plain(out), `"title": "A"`) {
			t.Errorf("Unexpected output %q", out)
		}
	})

	t.Run("Unencodable value", func(t *testing.T) {
		if _, err := HighlightJSON(make(chan int), "monokai", "terminal256"); err == nil {
			t.Error("Expected error for a channel")
		}
	})
}
