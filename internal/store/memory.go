package store

import (
	"context"
	"sync"

	"github.com/debemdeboas/postboard/internal/cache"
	"github.com/debemdeboas/postboard/internal/model"
)

type MemoryStore struct { // implements PostStore
	mu     sync.Mutex
	posts  *cache.Cache[model.PostID, model.Post]
	order  []model.PostID
	nextID int64
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		posts:  cache.NewCache[model.PostID, model.Post](),
		nextID: 1,
	}
}

func (s *MemoryStore) List(ctx context.Context) ([]model.Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	posts := make([]model.Post, 0, len(s.order))
	for _, id := range s.order {
		if post, ok := s.posts.Get(id); ok {
			posts = append(posts, post.Clone())
		}
	}
	return posts, nil
}

func (s *MemoryStore) Create(ctx context.Context, post model.Post) (model.Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	post = post.Clone()
	post.ID = seqID(s.nextID)
	s.nextID++

	s.posts.Set(post.ID, post)
	s.order = append(s.order, post.ID)

	storeLogger.Debug().Str("post_id", string(post.ID)).Msg("Post stored in memory")
	return post.Clone(), nil
}

func (s *MemoryStore) Update(ctx context.Context, id model.PostID, post model.Post) (model.Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.posts.Get(id); !ok {
		return model.Post{}, ErrNotFound
	}

	post = post.Clone()
	post.ID = id
	s.posts.Set(id, post)
	return post.Clone(), nil
}

func (s *MemoryStore) Delete(ctx context.Context, id model.PostID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.posts.Delete(id) {
		return ErrNotFound
	}
	for i, oid := range s.order {
		if oid == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return nil
}

func (s *MemoryStore) Close() error {
	return nil
}
