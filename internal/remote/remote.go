// Package remote talks to the posts collection that owns the authoritative copy of every post.
package remote

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/debemdeboas/postboard/internal/model"
)

var remoteLogger zerolog.Logger

func SetLogger(l zerolog.Logger) {
	remoteLogger = l
}

// Collection is the remote "posts" resource. Implementations return a *TransportError for any
// failed call.
type Collection interface {
	// List returns every post in server order.
	List(ctx context.Context) ([]model.Post, error)

	// Create stores a new post and returns it with its server-assigned id.
	Create(ctx context.Context, req model.PostRequest) (model.Post, error)

	// Update overwrites the title and body of id. The returned post is nil when the server's
	// response body is not a post.
	Update(ctx context.Context, id model.PostID, req model.PostRequest) (*model.Post, error)

	Delete(ctx context.Context, id model.PostID) error
}
