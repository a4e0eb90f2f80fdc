package main

import (
	"bytes"
	"context"
	"net/http/httptest"
	"regexp"
	"strings"
	"testing"

	"github.com/debemdeboas/postboard/internal/config"
	"github.com/debemdeboas/postboard/internal/model"
	"github.com/debemdeboas/postboard/internal/postlist"
	"github.com/debemdeboas/postboard/internal/remote"
	"github.com/debemdeboas/postboard/internal/server"
	"github.com/debemdeboas/postboard/internal/store"
)

var ansi = regexp.MustCompile(`\x1b\[[0-9;]*m`)

func runREPL(t *testing.T, s store.PostStore, script string) (*postlist.Controller, string) {
	t.Helper()

	ts := httptest.NewServer(server.New(s).Handler())
	t.Cleanup(ts.Close)

	rc, err := remote.NewHTTPCollection(ts.URL, "posts")
	if err != nil {
		t.Fatalf("Failed to create collection: %v", err)
	}
	c := postlist.New(rc, postlist.Options{})
	if err := c.Initialize(context.Background()); err != nil {
		t.Fatalf("Failed to initialize: %v", err)
	}

	var out bytes.Buffer
	r := newREPL(c, strings.NewReader(script), &out, config.ViewConfig{SyntaxStyle: "monokai", Formatter: "noop"})
	if err := r.Run(context.Background()); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	return c, ansi.ReplaceAllString(out.String(), "")
}

func TestREPL(t *testing.T) {
	t.Run("Empty collection", func(t *testing.T) {
		_, out := runREPL(t, store.NewMemoryStore(), "quit\n")
		if !strings.Contains(out, "No posts available") {
			t.Errorf("Expected empty notice, got %q", out)
		}
	})

	t.Run("Create through the form", func(t *testing.T) {
		c, out := runREPL(t, store.NewMemoryStore(), "title Hello\nbody World\nsave\nquit\n")

		posts := c.Snapshot()
		if len(posts) != 1 || posts[0].Title != "Hello" || posts[0].Body != "World" {
			t.Fatalf("Unexpected posts %+v", posts)
		}
		if !strings.Contains(out, "#1 Hello") {
			t.Errorf("Expected the new post to be rendered, got %q", out)
		}
	})

	t.Run("Validation notice", func(t *testing.T) {
		c, out := runREPL(t, store.NewMemoryStore(), "title Only a title\nsave\n")

		if c.Len() != 0 {
			t.Errorf("Expected no posts, got %d", c.Len())
		}
		if !strings.Contains(out, "Please fill in all fields") {
			t.Errorf("Expected validation notice, got %q", out)
		}
	})

	t.Run("Edit, update and delete", func(t *testing.T) {
		s := store.NewMemoryStore()
		for _, p := range []model.Post{{Title: "A", Body: "x"}, {Title: "B", Body: "y"}} {
			if _, err := s.Create(context.Background(), p); err != nil {
				t.Fatalf("Failed to seed store: %v", err)
			}
		}

		c, out := runREPL(t, s, "edit 1\ntitle A2\nsave\ndelete 2\nlist\n")

		posts := c.Snapshot()
		if len(posts) != 1 || posts[0].ID != "1" || posts[0].Title != "A2" {
			t.Fatalf("Unexpected posts %+v", posts)
		}
		if !strings.Contains(out, "Editing post #1") {
			t.Errorf("Expected the edit form, got %q", out)
		}
		if c.Draft().IsEditing() {
			t.Error("Expected the draft to reset after the update")
		}
	})

	t.Run("Quick create", func(t *testing.T) {
		c, _ := runREPL(t, store.NewMemoryStore(), "new Title | Some body\n")

		posts := c.Snapshot()
		if len(posts) != 1 || posts[0].Title != "Title" || posts[0].Body != "Some body" {
			t.Fatalf("Unexpected posts %+v", posts)
		}
	})

	t.Run("Transport errors are reported", func(t *testing.T) {
		c, out := runREPL(t, store.NewMemoryStore(), "delete 9\n")

		if c.Len() != 0 {
			t.Errorf("Expected no posts, got %d", c.Len())
		}
		if !strings.Contains(out, "request failed") || !strings.Contains(out, "404") {
			t.Errorf("Expected transport error, got %q", out)
		}
	})

	t.Run("Unknown post and command", func(t *testing.T) {
		_, out := runREPL(t, store.NewMemoryStore(), "edit 5\nfrobnicate\n")

		if !strings.Contains(out, postlist.ErrPostNotFound.Error()) {
			t.Errorf("Expected not found notice, got %q", out)
		}
		if !strings.Contains(out, `unknown command "frobnicate"`) {
			t.Errorf("Expected unknown command notice, got %q", out)
		}
	})

	t.Run("Dump prints JSON", func(t *testing.T) {
		s := store.NewMemoryStore()
		if _, err := s.Create(context.Background(), model.Post{Title: "A", Body: "x"}); err != nil {
			t.Fatalf("Failed to seed store: %v", err)
		}

		_, out := runREPL(t, s, "dump\n")
		if !strings.Contains(out, `"title": "A"`) {
			t.Errorf("Expected JSON dump, got %q", out)
		}
	})

	t.Run("Help", func(t *testing.T) {
		_, out := runREPL(t, store.NewMemoryStore(), "help\n")
		if !strings.Contains(out, "edit <id>") {
			t.Errorf("Expected help text, got %q", out)
		}
	})
}
