// Package model defines the post resource served by the remote collection and the edit-form
// draft held by the client.
package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// PostID is the opaque, server-assigned identity of a post. The remote collection may encode it
// as a JSON string or a JSON number; both are kept in their textual form.
type PostID string

func (id PostID) String() string {
	return string(id)
}

// MarshalJSON writes canonical integers ("12", "-3") as JSON numbers and everything else, such as
// "007" or "+5", as a string.
func (id PostID) MarshalJSON() ([]byte, error) {
	if n, err := strconv.ParseInt(string(id), 10, 64); err == nil && strconv.FormatInt(n, 10) == string(id) {
		return []byte(id), nil
	}
	return json.Marshal(string(id))
}

func (id *PostID) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var v any
	if err := dec.Decode(&v); err != nil {
		return err
	}

	switch t := v.(type) {
	case nil:
		*id = ""
	case string:
		*id = PostID(t)
	case json.Number:
		*id = PostID(t.String())
	default:
		return fmt.Errorf("post id must be a string or a number, got %T", v)
	}
	return nil
}

// PostRequest is the payload of create and update requests.
type PostRequest struct {
	Title string `json:"title"`
	Body  string `json:"body"`
}

type Post struct {
	ID    PostID
	Title string
	Body  string

	// Attributes the server returned beyond id, title and body (timestamps, author...).
	// They are carried along untouched.
	Extra map[string]json.RawMessage
}

const (
	fieldID    = "id"
	fieldTitle = "title"
	fieldBody  = "body"
)

func (p Post) MarshalJSON() ([]byte, error) {
	out := make(map[string]json.RawMessage, len(p.Extra)+3)
	for k, v := range p.Extra {
		out[k] = v
	}

	if p.ID != "" {
		raw, err := p.ID.MarshalJSON()
		if err != nil {
			return nil, err
		}
		out[fieldID] = raw
	}

	title, err := json.Marshal(p.Title)
	if err != nil {
		return nil, err
	}
	body, err := json.Marshal(p.Body)
	if err != nil {
		return nil, err
	}
	out[fieldTitle] = title
	out[fieldBody] = body

	return json.Marshal(out)
}

func (p *Post) UnmarshalJSON(data []byte) error {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return err
	}

	var decoded Post
	for k, v := range fields {
		var err error
		switch k {
		case fieldID:
			err = decoded.ID.UnmarshalJSON(v)
		case fieldTitle:
			err = json.Unmarshal(v, &decoded.Title)
		case fieldBody:
			err = json.Unmarshal(v, &decoded.Body)
		default:
			if decoded.Extra == nil {
				decoded.Extra = make(map[string]json.RawMessage)
			}
			decoded.Extra[k] = v
		}
		if err != nil {
			return fmt.Errorf("invalid post field %q: %w", k, err)
		}
	}

	*p = decoded
	return nil
}

// Clone returns a copy that shares no mutable state with p.
func (p Post) Clone() Post {
	if p.Extra == nil {
		return p
	}

	extra := make(map[string]json.RawMessage, len(p.Extra))
	for k, v := range p.Extra {
		extra[k] = append(json.RawMessage(nil), v...)
	}
	p.Extra = extra
	return p
}

// Merge overlays the request's title and body onto a copy of p. Identity and extra attributes
// stay as they are.
func (p Post) Merge(req PostRequest) Post {
	merged := p.Clone()
	merged.Title = req.Title
	merged.Body = req.Body
	return merged
}
