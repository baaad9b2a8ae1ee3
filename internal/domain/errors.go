package domain

import (
	"errors"
	"fmt"
)

// ErrMalformedRecord marks an item that failed normalization because a
// mandatory field is missing or unparseable. The pipeline skips such
// records and keeps going; it never aborts a run for one bad item.
var ErrMalformedRecord = errors.New("malformed record")

// ErrPageLimit marks a paginated fetch that hit the safety bound without
// the server ever reporting a last page.
var ErrPageLimit = errors.New("page limit exceeded")

// RemoteError is a non-success HTTP response from an upstream API.
type RemoteError struct {
	Endpoint string
	Status   int
}

func (e *RemoteError) Error() string {
	return fmt.Sprintf("%s: unexpected status %d", e.Endpoint, e.Status)
}
