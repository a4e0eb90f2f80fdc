package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/debemdeboas/postboard/internal/config"
	"github.com/debemdeboas/postboard/internal/model"
	"github.com/debemdeboas/postboard/internal/notify"
	"github.com/debemdeboas/postboard/internal/postlist"
	"github.com/debemdeboas/postboard/internal/view"
)

const helpText = `Commands:
  list                  show the posts
  form                  show the post form
  title <text>          set the form title
  body <text>           set the form body
  save                  create the post, or update it while editing
  new <title> | <body>  create a post directly
  edit <id>             load a post into the form
  delete <id>           delete a post
  reload                fetch the posts again
  dump                  print the posts as JSON
  help                  show this help
  quit                  exit`

// repl reads one command per line and re-renders whenever the controller reports a change.
type repl struct {
	controller *postlist.Controller
	in         io.Reader
	out        io.Writer
	view       config.ViewConfig

	listener *notify.Listener
}

func newREPL(c *postlist.Controller, in io.Reader, out io.Writer, viewCfg config.ViewConfig) *repl {
	return &repl{
		controller: c,
		in:         in,
		out:        out,
		view:       viewCfg,
	}
}

func (r *repl) Run(ctx context.Context) error {
	r.listener = r.controller.Subscribe()
	defer r.controller.Unsubscribe(r.listener)

	fmt.Fprintln(r.out, view.Screen(r.controller.Snapshot(), r.controller.Draft()))
	fmt.Fprintln(r.out, "Type 'help' for commands, 'quit' to exit.")

	scanner := bufio.NewScanner(r.in)
	for {
		fmt.Fprint(r.out, view.PromptStyle.Render("> "))

		if !scanner.Scan() {
			break
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if line == "quit" || line == "exit" {
			break
		}

		r.exec(ctx, line)
		r.renderChanges()

		if ctx.Err() != nil {
			break
		}
	}

	return scanner.Err()
}

func (r *repl) exec(ctx context.Context, line string) {
	cmd, arg, _ := strings.Cut(line, " ")

	switch cmd {
	case "help":
		fmt.Fprintln(r.out, helpText)
	case "list":
		fmt.Fprintln(r.out, view.List(r.controller.Snapshot()))
	case "form":
		fmt.Fprintln(r.out, view.Draft(r.controller.Draft()))
	case "title":
		r.controller.SetDraftTitle(arg)
	case "body":
		r.controller.SetDraftBody(arg)
	case "save":
		_, err := r.controller.SubmitDraft(ctx)
		r.report(err)
	case "new":
		title, body, _ := strings.Cut(arg, "|")
		_, err := r.controller.SubmitCreate(ctx, strings.TrimSpace(title), strings.TrimSpace(body))
		r.report(err)
	case "edit":
		r.report(r.controller.BeginEdit(model.PostID(strings.TrimSpace(arg))))
	case "delete":
		r.report(r.controller.SubmitDelete(ctx, model.PostID(strings.TrimSpace(arg))))
	case "reload":
		r.report(r.controller.Initialize(ctx))
	case "dump":
		out, err := view.HighlightJSON(r.controller.Snapshot(), r.view.SyntaxStyle, r.view.Formatter)
		if err != nil {
			r.report(err)
		}
		fmt.Fprintln(r.out, out)
	default:
		fmt.Fprintln(r.out, view.Error(fmt.Errorf("unknown command %q, type 'help'", cmd)))
	}
}

func (r *repl) report(err error) {
	if err != nil {
		fmt.Fprintln(r.out, view.Error(err))
	}
}

// renderChanges drains pending events and redraws once: the whole screen when the mirror
// changed, only the form when just the draft did.
func (r *repl) renderChanges() {
	mirror, draft := false, false
	for {
		select {
		case ev := <-r.listener.C:
			if ev.Kind == notify.KindDraft {
				draft = true
			} else {
				mirror = true
			}
			continue
		default:
		}
		break
	}

	switch {
	case mirror:
		fmt.Fprintln(r.out, view.Screen(r.controller.Snapshot(), r.controller.Draft()))
	case draft:
		fmt.Fprintln(r.out, view.Draft(r.controller.Draft()))
	}
}
