package types

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

const (
	DefaultAuthor  = "Abhijeet"
	DefaultDate    = "2026-02-24"
	DefaultSummary = "Click to read more..."
)

// Defaults holds the values assigned to optional metadata fields that are
// absent from a create request.
type Defaults struct {
	Author  string
	Date    string
	Summary string
}

// DefaultDefaults returns the built-in metadata defaults.
func DefaultDefaults() Defaults {
	return Defaults{
		Author:  DefaultAuthor,
		Date:    DefaultDate,
		Summary: DefaultSummary,
	}
}

// CreatePostRequest is the payload of a create request. Pointer fields
// distinguish an absent field from an empty one.
type CreatePostRequest struct {
	ID      *string `json:"id"`
	Title   *string `json:"title"`
	Content *string `json:"content"`
	Author  *string `json:"author"`
	Date    *string `json:"date"`
	Summary *string `json:"summary"`
}

// ParseCreatePostRequest decodes a create payload and builds the post to
// store. Optional fields that are absent take their value from defaults.
// Every failure is a [ValidationError].
func ParseCreatePostRequest(body []byte, defaults Defaults) (*Post, error) {
	if len(bytes.TrimSpace(body)) == 0 {
		return nil, NewValidationError("", "request body is required")
	}

	var req CreatePostRequest

	if err := json.Unmarshal(body, &req); err != nil {
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) && typeErr.Field != "" {
			return nil, NewValidationError(typeErr.Field, fmt.Sprintf("must be a %s", typeErr.Type))
		}
		return nil, NewValidationError("", "request body must be a JSON object")
	}

	return req.Post(defaults)
}

// Post validates the request and converts it into a [Post].
func (r *CreatePostRequest) Post(defaults Defaults) (*Post, error) {
	required := []struct {
		field string
		value *string
	}{
		{"id", r.ID},
		{AttrTitle, r.Title},
		{AttrContent, r.Content},
	}

	for _, f := range required {
		if f.value == nil {
			return nil, NewValidationError(f.field, "is required")
		}
	}

	post := &Post{
		ID:      *r.ID,
		Title:   *r.Title,
		Content: *r.Content,
		Author:  valueOrDefault(r.Author, defaults.Author),
		Date:    valueOrDefault(r.Date, defaults.Date),
		Summary: valueOrDefault(r.Summary, defaults.Summary),
	}

	if err := post.Validate(); err != nil {
		return nil, err
	}

	return post, nil
}

func valueOrDefault(v *string, def string) string {
	if v == nil {
		return def
	}

	return *v
}
