package blog

import "errors"

// ErrNotFound is returned when an id or slug does not resolve to a post.
var ErrNotFound = errors.New("post not found")

// ValidationError reports a declined operation due to bad input. It is
// surfaced to the caller with a human-readable message and never retried.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// AsValidation returns the ValidationError inside err, if any.
func AsValidation(err error) (*ValidationError, bool) {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve, true
	}
	return nil, false
}
