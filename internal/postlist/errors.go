package postlist

import (
	"errors"

	"github.com/debemdeboas/postboard/internal/config"
)

var (
	// ErrEmptyField matches every *ValidationError.
	ErrEmptyField = errors.New(config.MsgFillAllFields)

	ErrNotEditing   = errors.New("draft is not editing a post")
	ErrPostNotFound = errors.New("post not found")
)

// ValidationError rejects a submit before any request is sent.
type ValidationError struct {
	Field string
}

func (e *ValidationError) Error() string {
	return config.MsgFillAllFields
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrEmptyField
}

func IsValidation(err error) bool {
	return errors.Is(err, ErrEmptyField)
}
