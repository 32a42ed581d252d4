package webhook

import (
	"fmt"
	"io"
)

// ReadBody consumes r to completion and returns the bytes untouched.
// limit <= 0 disables the size check.
func ReadBody(r io.Reader, limit int64) ([]byte, error) {
	if r == nil {
		return nil, fmt.Errorf("%w: nil body", ErrReadBody)
	}
	if limit > 0 {
		r = io.LimitReader(r, limit+1)
	}

	body, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrReadBody, err)
	}
	if limit > 0 && int64(len(body)) > limit {
		return nil, fmt.Errorf("%w: %w", ErrReadBody, ErrBodyTooLarge)
	}

	return body, nil
}
