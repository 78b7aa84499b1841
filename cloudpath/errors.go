package cloudpath

import "errors"

var (
	// ErrMalformedPath is returned when a URI cannot be parsed: the
	// scheme is missing or invalid, the container is empty, or the
	// remainder contains bytes that cannot form a key (NUL, backslash,
	// dot segments).
	ErrMalformedPath = errors.New("malformed path")

	// ErrInvalidSegment is returned when a join is attempted with a
	// segment that is empty or contains a path separator. Rejecting
	// these prevents accidental traversal injection through joined
	// input.
	ErrInvalidSegment = errors.New("invalid segment")

	// ErrRootHasNoParent is returned when Parent is called on a path
	// with no segments.
	ErrRootHasNoParent = errors.New("root has no parent")
)
