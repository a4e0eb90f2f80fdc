package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/debemdeboas/postboard/internal/config"
	"github.com/debemdeboas/postboard/internal/model"
)

// Longest response excerpt kept in a status error.
const maxErrorBody = 512

type HTTPCollection struct { // implements Collection
	client    *http.Client
	base      *url.URL
	userAgent string
}

type Option func(*HTTPCollection)

func WithHTTPClient(client *http.Client) Option {
	return func(c *HTTPCollection) {
		c.client = client
	}
}

func WithTimeout(d time.Duration) Option {
	return func(c *HTTPCollection) {
		c.client.Timeout = d
	}
}

func WithUserAgent(ua string) Option {
	return func(c *HTTPCollection) {
		c.userAgent = ua
	}
}

// NewHTTPCollection targets baseURL/collection, e.g. http://localhost:3001 and "posts".
func NewHTTPCollection(baseURL, collection string, opts ...Option) (*HTTPCollection, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, errors.Wrap(err, "invalid base url")
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, errors.Errorf("base url %q must be absolute", baseURL)
	}

	collection = strings.Trim(collection, "/")
	if collection == "" {
		return nil, errors.New("collection must not be empty")
	}

	c := &HTTPCollection{
		client: &http.Client{},
		base:   u.JoinPath(collection),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// NewFromConfig builds the collection client described by the remote section.
func NewFromConfig(cfg config.RemoteConfig) (*HTTPCollection, error) {
	return NewHTTPCollection(cfg.BaseURL, cfg.Collection,
		WithTimeout(cfg.Timeout),
		WithUserAgent(cfg.UserAgent),
	)
}

// URL of the collection resource.
func (c *HTTPCollection) URL() string {
	return c.base.String()
}

func (c *HTTPCollection) itemURL(id model.PostID) string {
	return c.base.JoinPath(url.PathEscape(string(id))).String()
}

func (c *HTTPCollection) List(ctx context.Context) ([]model.Post, error) {
	var posts []model.Post
	if _, err := c.do(ctx, OpList, "", http.MethodGet, c.base.String(), nil, &posts); err != nil {
		return nil, err
	}
	if posts == nil {
		posts = []model.Post{}
	}
	return posts, nil
}

func (c *HTTPCollection) Create(ctx context.Context, req model.PostRequest) (model.Post, error) {
	var post model.Post
	rc, err := c.do(ctx, OpCreate, "", http.MethodPost, c.base.String(), req, &post)
	if err != nil {
		return model.Post{}, err
	}
	if post.ID == "" {
		return model.Post{}, rc.fail(errors.New("created post has no id"))
	}
	return post, nil
}

func (c *HTTPCollection) Update(ctx context.Context, id model.PostID, req model.PostRequest) (*model.Post, error) {
	var raw json.RawMessage
	if _, err := c.do(ctx, OpUpdate, id, http.MethodPut, c.itemURL(id), req, &raw); err != nil {
		return nil, err
	}

	var post model.Post
	if len(raw) == 0 || json.Unmarshal(raw, &post) != nil || post.ID == "" {
		return nil, nil
	}
	return &post, nil
}

func (c *HTTPCollection) Delete(ctx context.Context, id model.PostID) error {
	_, err := c.do(ctx, OpDelete, id, http.MethodDelete, c.itemURL(id), nil, nil)
	return err
}

// remoteCall identifies one sent request so later failures can be attributed to it.
type remoteCall struct {
	op        Op
	id        model.PostID
	requestID string
	status    int
}

func (rc remoteCall) fail(err error) error {
	return &TransportError{Op: rc.op, ID: rc.id, RequestID: rc.requestID, StatusCode: rc.status, Err: err}
}

// do sends one request. A nil out discards the response body; a *json.RawMessage out receives
// it verbatim, possibly empty. The returned remoteCall carries the request id and status for
// callers that reject a response after decoding it.
func (c *HTTPCollection) do(ctx context.Context, op Op, id model.PostID, method, target string, in, out any) (remoteCall, error) {
	rc := remoteCall{op: op, id: id, requestID: uuid.New().String()}

	var body io.Reader
	if in != nil {
		payload, err := json.Marshal(in)
		if err != nil {
			return rc, rc.fail(errors.Wrap(err, "encoding request"))
		}
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return rc, rc.fail(errors.Wrap(err, "building request"))
	}
	if in != nil {
		req.Header.Set(config.HCType, config.CTypeJSON)
	}
	req.Header.Set(config.HAccept, config.CTypeJSON)
	req.Header.Set(config.HRequestID, rc.requestID)
	if c.userAgent != "" {
		req.Header.Set(config.HUserAgent, c.userAgent)
	}

	start := time.Now()
	resp, err := c.client.Do(req)
	if err != nil {
		return rc, rc.fail(errors.Wrap(err, "sending request"))
	}
	defer resp.Body.Close()
	rc.status = resp.StatusCode

	data, err := io.ReadAll(resp.Body)

	remoteLogger.Debug().
		Str("op", string(op)).
		Str("method", method).
		Str("url", target).
		Str("request_id", rc.requestID).
		Int("status", resp.StatusCode).
		Dur("elapsed", time.Since(start)).
		Msg("Remote call")

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		excerpt := strings.TrimSpace(string(data))
		if len(excerpt) > maxErrorBody {
			excerpt = excerpt[:maxErrorBody]
		}
		return rc, rc.fail(errors.Errorf("unexpected status %s: %s", resp.Status, excerpt))
	}
	if err != nil {
		return rc, rc.fail(errors.Wrap(err, "reading response"))
	}

	switch dst := out.(type) {
	case nil:
		return rc, nil
	case *json.RawMessage:
		*dst = bytes.TrimSpace(data)
		return rc, nil
	default:
		if err := json.Unmarshal(data, out); err != nil {
			return rc, rc.fail(errors.Wrap(err, "malformed response"))
		}
		return rc, nil
	}
}
