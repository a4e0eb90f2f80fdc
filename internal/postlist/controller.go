// Package postlist keeps a local mirror of the remote posts collection and the post form draft in
// step with user intent.
//
// Consistency policy: a create appends the post returned by the server, an update merges the
// submitted title and body into the mirrored entry without refetching, and a delete removes the
// entry locally once the server accepts it. Nothing is refetched after a mutation, so changes made
// by other clients only show up on the next Initialize.
package postlist

import (
	"context"
	"sync"

	"github.com/rs/zerolog"

	"github.com/debemdeboas/postboard/internal/cache"
	"github.com/debemdeboas/postboard/internal/config"
	"github.com/debemdeboas/postboard/internal/model"
	"github.com/debemdeboas/postboard/internal/notify"
	"github.com/debemdeboas/postboard/internal/remote"
)

var listLogger zerolog.Logger

func SetLogger(l zerolog.Logger) {
	listLogger = l
}

type Options struct {
	// Use the server's update response as the new entry when it is a post with the target id.
	ReconcileUpdates bool
}

// Controller owns the mirror and the draft. All methods are safe for concurrent use; the lock is
// never held during a remote call, so racing operations apply in completion order.
type Controller struct {
	remote remote.Collection
	opts   Options
	hub    *notify.Hub

	mu    sync.Mutex
	posts []model.Post
	index *cache.Cache[model.PostID, int]
	draft model.Draft
}

func New(rc remote.Collection, opts Options) *Controller {
	return &Controller{
		remote: rc,
		opts:   opts,
		hub:    notify.NewHub(),
		posts:  []model.Post{},
		index:  cache.NewCache[model.PostID, int](),
	}
}

// Initialize replaces the mirror with the full remote collection, in server order. On failure the
// mirror is left as it was and the error is returned; there is no retry.
func (c *Controller) Initialize(ctx context.Context) error {
	posts, err := c.remote.List(ctx)
	if err != nil {
		listLogger.Error().Stack().Err(err).Msg(config.ErrFetchingPosts)
		return err
	}

	c.mu.Lock()
	c.replace(posts)
	c.mu.Unlock()

	listLogger.Info().Int("count", len(posts)).Msg("Posts loaded")
	c.hub.Broadcast(notify.Event{Kind: notify.KindReplaced})
	return nil
}

// SubmitCreate sends a new post and appends the server's copy, id included, to the mirror.
func (c *Controller) SubmitCreate(ctx context.Context, title, body string) (model.Post, error) {
	req := model.PostRequest{Title: title, Body: body}
	if err := validate(req); err != nil {
		return model.Post{}, err
	}

	post, err := c.remote.Create(ctx, req)
	if err != nil {
		listLogger.Error().Stack().Err(err).Msg(config.ErrCreatingPost)
		return model.Post{}, err
	}

	c.mu.Lock()
	c.posts = append(c.posts, post.Clone())
	if _, dup := c.index.Get(post.ID); !dup {
		c.index.Set(post.ID, len(c.posts)-1)
	}
	c.draft = model.Draft{}
	c.mu.Unlock()

	listLogger.Info().Str("post_id", string(post.ID)).Str("title", post.Title).Msg("Post created")
	c.hub.Broadcast(notify.Event{Kind: notify.KindCreated, PostID: post.ID})
	return post, nil
}

// BeginEdit loads the mirrored post into the draft and switches it to editing mode.
func (c *Controller) BeginEdit(id model.PostID) error {
	c.mu.Lock()
	pos, ok := c.index.Get(id)
	if !ok {
		c.mu.Unlock()
		return ErrPostNotFound
	}
	c.draft = model.EditDraft(c.posts[pos])
	c.mu.Unlock()

	c.hub.Broadcast(notify.Event{Kind: notify.KindDraft, PostID: id})
	return nil
}

func (c *Controller) SetDraftTitle(title string) {
	c.editDraft(func(d *model.Draft) { d.Title = title })
}

func (c *Controller) SetDraftBody(body string) {
	c.editDraft(func(d *model.Draft) { d.Body = body })
}

func (c *Controller) editDraft(fn func(d *model.Draft)) {
	c.mu.Lock()
	fn(&c.draft)
	id := c.draft.TargetID
	c.mu.Unlock()

	c.hub.Broadcast(notify.Event{Kind: notify.KindDraft, PostID: id})
}

// SubmitUpdate sends the editing draft to its target post. On success the mirrored entry gets the
// draft's title and body and the draft resets.
func (c *Controller) SubmitUpdate(ctx context.Context) (model.Post, error) {
	c.mu.Lock()
	draft := c.draft
	c.mu.Unlock()

	req := draft.Request()
	if err := validate(req); err != nil {
		return model.Post{}, err
	}
	if !draft.IsEditing() || draft.TargetID == "" {
		return model.Post{}, ErrNotEditing
	}

	resp, err := c.remote.Update(ctx, draft.TargetID, req)
	if err != nil {
		listLogger.Error().Stack().Err(err).Str("post_id", string(draft.TargetID)).Msg(config.ErrUpdatingPost)
		return model.Post{}, err
	}

	c.mu.Lock()
	var updated model.Post
	_, ok := c.index.Get(draft.TargetID)
	for i := range c.posts {
		if c.posts[i].ID != draft.TargetID {
			continue
		}
		updated = c.posts[i].Merge(req)
		if c.opts.ReconcileUpdates && resp != nil && resp.ID == draft.TargetID {
			updated = resp.Clone()
		}
		c.posts[i] = updated
	}
	c.draft = model.Draft{}
	c.mu.Unlock()

	if !ok {
		// Deleted while the update was in flight.
		listLogger.Warn().Str("post_id", string(draft.TargetID)).Msg("Updated post is no longer mirrored")
	} else {
		listLogger.Info().Str("post_id", string(draft.TargetID)).Str("title", updated.Title).Msg("Post updated")
	}
	c.hub.Broadcast(notify.Event{Kind: notify.KindUpdated, PostID: draft.TargetID})
	return updated.Clone(), nil
}

// SubmitDraft submits the draft as a create or an update depending on its mode.
func (c *Controller) SubmitDraft(ctx context.Context) (model.Post, error) {
	draft := c.Draft()
	if draft.IsEditing() {
		return c.SubmitUpdate(ctx)
	}
	return c.SubmitCreate(ctx, draft.Title, draft.Body)
}

// SubmitDelete deletes id remotely, then drops it from the mirror. The request is sent even when
// id is not mirrored.
func (c *Controller) SubmitDelete(ctx context.Context, id model.PostID) error {
	if err := c.remote.Delete(ctx, id); err != nil {
		listLogger.Error().Stack().Err(err).Str("post_id", string(id)).Msg(config.ErrDeletingPost)
		return err
	}

	c.mu.Lock()
	removed := c.remove(id)
	c.mu.Unlock()

	listLogger.Info().Str("post_id", string(id)).Bool("mirrored", removed).Msg("Post deleted")
	c.hub.Broadcast(notify.Event{Kind: notify.KindDeleted, PostID: id})
	return nil
}

// Snapshot returns a copy of the mirror in display order.
func (c *Controller) Snapshot() []model.Post {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]model.Post, len(c.posts))
	for i, p := range c.posts {
		out[i] = p.Clone()
	}
	return out
}

func (c *Controller) Post(id model.PostID) (model.Post, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	pos, ok := c.index.Get(id)
	if !ok {
		return model.Post{}, false
	}
	return c.posts[pos].Clone(), true
}

func (c *Controller) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.posts)
}

func (c *Controller) Draft() model.Draft {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.draft
}

// Subscribe registers for change events. Events are hints: read Snapshot or Draft for state.
func (c *Controller) Subscribe() *notify.Listener {
	return c.hub.Subscribe()
}

func (c *Controller) Unsubscribe(l *notify.Listener) {
	c.hub.Unsubscribe(l)
}

func validate(req model.PostRequest) error {
	if req.Title == "" {
		return &ValidationError{Field: "title"}
	}
	if req.Body == "" {
		return &ValidationError{Field: "body"}
	}
	return nil
}

// replace must be called with c.mu held. With duplicate ids the first entry wins the index.
func (c *Controller) replace(posts []model.Post) {
	c.posts = make([]model.Post, len(posts))
	for i, p := range posts {
		c.posts[i] = p.Clone()
	}
	c.reindex()
}

// remove drops every entry with id. It must be called with c.mu held.
func (c *Controller) remove(id model.PostID) bool {
	if _, ok := c.index.Get(id); !ok {
		return false
	}

	kept := make([]model.Post, 0, len(c.posts)-1)
	for _, p := range c.posts {
		if p.ID != id {
			kept = append(kept, p)
		}
	}
	c.posts = kept
	c.reindex()
	return true
}

func (c *Controller) reindex() {
	idx := make(map[model.PostID]int, len(c.posts))
	for i, p := range c.posts {
		if _, dup := idx[p.ID]; !dup {
			idx[p.ID] = i
		}
	}
	c.index.SetTo(idx)
}
