// Package store persists the posts collection served by the development server.
package store

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/rs/zerolog"

	"github.com/debemdeboas/postboard/internal/config"
	"github.com/debemdeboas/postboard/internal/db"
	"github.com/debemdeboas/postboard/internal/model"
	"github.com/debemdeboas/postboard/internal/util/compression"
)

var ErrNotFound = errors.New("post not found")

var storeLogger zerolog.Logger

func SetLogger(l zerolog.Logger) {
	storeLogger = l
}

// PostStore keeps posts in creation order. Ids are sequential integers assigned on Create and
// never reused.
type PostStore interface {
	List(ctx context.Context) ([]model.Post, error)
	// Create ignores post.ID and returns the stored post with its new id.
	Create(ctx context.Context, post model.Post) (model.Post, error)
	// Update replaces the stored post wholesale, keeping its id.
	Update(ctx context.Context, id model.PostID, post model.Post) (model.Post, error)
	Delete(ctx context.Context, id model.PostID) error
	Close() error
}

// New builds the backend selected in cfg.
func New(ctx context.Context, cfg config.StoreConfig) (PostStore, error) {
	switch cfg.Backend {
	case config.BackendMemory, "":
		return NewMemoryStore(), nil

	case config.BackendSQLite:
		compressor, err := compression.New(cfg.Compression)
		if err != nil {
			return nil, err
		}
		conn := db.NewSQLite(cfg.SQLitePath)
		if err := conn.InitDB(); err != nil {
			conn.Close()
			return nil, fmt.Errorf(config.ErrInitializeDatabaseFmt, err)
		}
		return NewSQLiteStore(conn, compressor), nil

	case config.BackendS3:
		return NewS3StoreFromConfig(ctx, cfg)

	default:
		return nil, fmt.Errorf("unknown store backend %q", cfg.Backend)
	}
}

func parseSeq(id model.PostID) (int64, bool) {
	n, err := strconv.ParseInt(string(id), 10, 64)
	if err != nil || n <= 0 {
		return 0, false
	}
	return n, true
}

func seqID(n int64) model.PostID {
	return model.PostID(strconv.FormatInt(n, 10))
}
