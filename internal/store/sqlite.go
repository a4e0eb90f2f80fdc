package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/debemdeboas/postboard/internal/db"
	"github.com/debemdeboas/postboard/internal/model"
	"github.com/debemdeboas/postboard/internal/util"
	"github.com/debemdeboas/postboard/internal/util/compression"
)

type SQLiteStore struct { // implements PostStore
	db         db.Db
	compressor compression.Compressor
}

// NewSQLiteStore expects conn to be initialized already.
func NewSQLiteStore(conn db.Db, compressor compression.Compressor) *SQLiteStore {
	if compressor == nil {
		compressor = compression.ZstdCompressor{}
	}
	return &SQLiteStore{
		db:         conn,
		compressor: compressor,
	}
}

func (s *SQLiteStore) List(ctx context.Context) ([]model.Post, error) {
	rows, err := s.db.Query(`SELECT id, title, body, extra FROM posts ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("error querying posts: %w", err)
	}
	defer rows.Close()

	posts := make([]model.Post, 0)
	for rows.Next() {
		var id int64
		var post model.Post
		var compressed []byte
		var extra sql.NullString

		if err := rows.Scan(&id, &post.Title, &compressed, &extra); err != nil {
			return nil, fmt.Errorf("error scanning post: %w", err)
		}
		post.ID = seqID(id)

		body, err := s.compressor.Decompress(compressed)
		if err != nil {
			return nil, fmt.Errorf("error decompressing body of post %d: %w", id, err)
		}
		post.Body = string(body)

		if extra.Valid && extra.String != "" {
			if err := json.Unmarshal([]byte(extra.String), &post.Extra); err != nil {
				return nil, fmt.Errorf("error decoding attributes of post %d: %w", id, err)
			}
		}

		posts = append(posts, post)
	}
	return posts, rows.Err()
}

func (s *SQLiteStore) Create(ctx context.Context, post model.Post) (model.Post, error) {
	compressed, hash, extra, err := s.encode(post)
	if err != nil {
		return model.Post{}, err
	}

	now := time.Now().UTC()
	res, err := s.db.Exec(
		`INSERT INTO posts (title, body, body_hash, extra, created_at, modified_at) VALUES (?, ?, ?, ?, ?, ?)`,
		post.Title, compressed, hash, extra, now, now,
	)
	if err != nil {
		return model.Post{}, fmt.Errorf("error saving post: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return model.Post{}, fmt.Errorf("error reading post id: %w", err)
	}

	created := post.Clone()
	created.ID = seqID(id)
	storeLogger.Debug().Str("post_id", string(created.ID)).Str("body_hash", hash).Msg("Post saved")
	return created, nil
}

func (s *SQLiteStore) Update(ctx context.Context, id model.PostID, post model.Post) (model.Post, error) {
	n, ok := parseSeq(id)
	if !ok {
		return model.Post{}, ErrNotFound
	}

	compressed, hash, extra, err := s.encode(post)
	if err != nil {
		return model.Post{}, err
	}

	res, err := s.db.Exec(
		`UPDATE posts SET title = ?, body = ?, body_hash = ?, extra = ?, modified_at = ? WHERE id = ?`,
		post.Title, compressed, hash, extra, time.Now().UTC(), n,
	)
	if err != nil {
		return model.Post{}, fmt.Errorf("error updating post: %w", err)
	}
	if affected, err := res.RowsAffected(); err == nil && affected == 0 {
		return model.Post{}, ErrNotFound
	}

	updated := post.Clone()
	updated.ID = id
	storeLogger.Debug().Str("post_id", string(id)).Str("body_hash", hash).Msg("Post updated")
	return updated, nil
}

func (s *SQLiteStore) Delete(ctx context.Context, id model.PostID) error {
	n, ok := parseSeq(id)
	if !ok {
		return ErrNotFound
	}

	res, err := s.db.Exec(`DELETE FROM posts WHERE id = ?`, n)
	if err != nil {
		return fmt.Errorf("error deleting post: %w", err)
	}
	if affected, err := res.RowsAffected(); err == nil && affected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// encode compresses the body and serializes the extra attributes. The hash is taken over the
// compressed bytes.
func (s *SQLiteStore) encode(post model.Post) ([]byte, string, sql.NullString, error) {
	compressed, err := s.compressor.Compress([]byte(post.Body))
	if err != nil {
		return nil, "", sql.NullString{}, fmt.Errorf("error compressing body: %w", err)
	}

	var extra sql.NullString
	if len(post.Extra) > 0 {
		raw, err := json.Marshal(post.Extra)
		if err != nil {
			return nil, "", sql.NullString{}, fmt.Errorf("error encoding attributes: %w", err)
		}
		extra = sql.NullString{String: string(raw), Valid: true}
	}

	return compressed, util.ContentHash(compressed), extra, nil
}
