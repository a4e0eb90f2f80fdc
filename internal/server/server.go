// Package server serves a posts collection over the same REST interface the client consumes:
// GET and POST on /posts, GET, PUT and DELETE on /posts/{id}.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"

	"github.com/debemdeboas/postboard/internal/config"
	"github.com/debemdeboas/postboard/internal/model"
	"github.com/debemdeboas/postboard/internal/store"
	"github.com/debemdeboas/postboard/internal/util"
)

var serverLogger zerolog.Logger

func SetLogger(l zerolog.Logger) {
	serverLogger = l
}

const maxBodyBytes = 1 << 20

type Server struct {
	store  store.PostStore
	router *mux.Router
}

func New(s store.PostStore) *Server {
	srv := &Server{
		store:  s,
		router: mux.NewRouter(),
	}

	srv.router.HandleFunc(config.PostsURLPath, srv.listPosts).Methods(http.MethodGet)
	srv.router.HandleFunc(config.PostsURLPath, srv.createPost).Methods(http.MethodPost)
	srv.router.HandleFunc(config.PostURLPath, srv.getPost).Methods(http.MethodGet)
	srv.router.HandleFunc(config.PostURLPath, srv.updatePost).Methods(http.MethodPut)
	srv.router.HandleFunc(config.PostURLPath, srv.deletePost).Methods(http.MethodDelete)

	srv.router.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, config.HTTPErrMethodNotAllowed)
	})
	srv.router.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, http.StatusText(http.StatusNotFound))
	})

	srv.router.Use(withRequestID, secureHeaders)
	return srv
}

func (s *Server) Handler() http.Handler {
	return s.router
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	httpServer := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		serverLogger.Info().Str("addr", addr).Msg("Serving posts collection")
		errCh <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return httpServer.Shutdown(shutdownCtx)
	}
}

func (s *Server) listPosts(w http.ResponseWriter, r *http.Request) {
	posts, err := s.store.List(r.Context())
	if err != nil {
		s.storageError(w, r, err)
		return
	}

	body, err := json.Marshal(posts)
	if err != nil {
		s.storageError(w, r, err)
		return
	}

	etag := util.ETag(body)
	w.Header().Set(config.HETag, etag)
	if r.Header.Get(config.HIfNoneMatch) == etag {
		w.WriteHeader(http.StatusNotModified)
		return
	}

	writeRaw(w, http.StatusOK, body)
}

func (s *Server) getPost(w http.ResponseWriter, r *http.Request) {
	id := model.PostID(mux.Vars(r)["id"])

	posts, err := s.store.List(r.Context())
	if err != nil {
		s.storageError(w, r, err)
		return
	}
	for _, p := range posts {
		if p.ID == id {
			writeJSON(w, http.StatusOK, p)
			return
		}
	}
	writeError(w, http.StatusNotFound, config.HTTPErrPostNotFound)
}

func (s *Server) createPost(w http.ResponseWriter, r *http.Request) {
	post, ok := decodePost(w, r)
	if !ok {
		return
	}

	created, err := s.store.Create(r.Context(), post)
	if err != nil {
		s.storageError(w, r, err)
		return
	}

	requestLogger(r).Info().Str("post_id", string(created.ID)).Str("title", created.Title).Msg("Post created")
	w.Header().Set("Location", config.PostsURLPath+"/"+string(created.ID))
	writeJSON(w, http.StatusCreated, created)
}

func (s *Server) updatePost(w http.ResponseWriter, r *http.Request) {
	id := model.PostID(mux.Vars(r)["id"])

	post, ok := decodePost(w, r)
	if !ok {
		return
	}

	updated, err := s.store.Update(r.Context(), id, post)
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, config.HTTPErrPostNotFound)
		return
	}
	if err != nil {
		s.storageError(w, r, err)
		return
	}

	requestLogger(r).Info().Str("post_id", string(id)).Msg("Post updated")
	writeJSON(w, http.StatusOK, updated)
}

func (s *Server) deletePost(w http.ResponseWriter, r *http.Request) {
	id := model.PostID(mux.Vars(r)["id"])

	err := s.store.Delete(r.Context(), id)
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, config.HTTPErrPostNotFound)
		return
	}
	if err != nil {
		s.storageError(w, r, err)
		return
	}

	requestLogger(r).Info().Str("post_id", string(id)).Msg("Post deleted")
	writeRaw(w, http.StatusOK, []byte(`{}`))
}

func (s *Server) storageError(w http.ResponseWriter, r *http.Request, err error) {
	requestLogger(r).Error().Err(err).Str("path", r.URL.Path).Msg(config.HTTPErrStorage)
	writeError(w, http.StatusInternalServerError, config.HTTPErrStorage)
}

// decodePost reads a post object from the body. Any id in the payload is ignored by the store.
func decodePost(w http.ResponseWriter, r *http.Request) (model.Post, bool) {
	var post model.Post
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&post); err != nil {
		requestLogger(r).Warn().Err(err).Msg(config.HTTPErrInvalidPost)
		writeError(w, http.StatusBadRequest, config.HTTPErrInvalidPost)
		return model.Post{}, false
	}
	return post, true
}
