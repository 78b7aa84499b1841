package cloudpath

import (
	"fmt"
	"strings"
)

// Path is an immutable, hierarchical path into a storage container.
// It carries a scheme identifying the provider, a container (bucket)
// name, and an ordered list of segments. The zero value is not valid;
// construct paths with Parse, FromKey, or New.
type Path struct {
	scheme    string
	container string
	segments  []string
}

// Parse splits a URI of the form scheme://container/seg1/seg2 into a
// Path. The scheme is lowercased. Redundant separators in the remainder
// are collapsed; a trailing slash is tolerated and dropped.
//
// Parse fails with an error wrapping ErrMalformedPath when the scheme
// delimiter is absent, the scheme or container is empty or invalid, or
// the remainder contains a NUL byte, a backslash, or a "." or ".."
// segment.
func Parse(uri string) (Path, error) {
	idx := strings.Index(uri, "://")
	if idx < 0 {
		return Path{}, fmt.Errorf("%w: missing scheme delimiter in %q", ErrMalformedPath, uri)
	}

	scheme, err := parseScheme(uri[:idx])
	if err != nil {
		return Path{}, err
	}

	rest := uri[idx+3:]
	if err := checkKeyBytes(rest); err != nil {
		return Path{}, err
	}

	container, remainder, _ := strings.Cut(rest, "/")
	if container == "" {
		return Path{}, fmt.Errorf("%w: missing container in %q", ErrMalformedPath, uri)
	}

	segments, err := splitKey(remainder)
	if err != nil {
		return Path{}, err
	}

	return Path{scheme: scheme, container: container, segments: segments}, nil
}

// FromKey constructs a Path from a scheme, container, and a flat object
// key. It is the inverse of Key: for any well-formed key lacking
// redundant separators, FromKey followed by Key returns the same string.
// An empty key yields the container root.
func FromKey(scheme, container, key string) (Path, error) {
	scheme, err := parseScheme(scheme)
	if err != nil {
		return Path{}, err
	}
	if container == "" {
		return Path{}, fmt.Errorf("%w: empty container", ErrMalformedPath)
	}
	if err := checkKeyBytes(container); err != nil {
		return Path{}, err
	}
	if strings.Contains(container, "/") {
		return Path{}, fmt.Errorf("%w: container %q contains separator", ErrMalformedPath, container)
	}
	if err := checkKeyBytes(key); err != nil {
		return Path{}, err
	}

	segments, err := splitKey(key)
	if err != nil {
		return Path{}, err
	}

	return Path{scheme: scheme, container: container, segments: segments}, nil
}

// New constructs a Path from a scheme, container, and individual
// segments. Segments are validated with the Join rules; any empty or
// separator-containing segment fails with ErrInvalidSegment.
func New(scheme, container string, segments ...string) (Path, error) {
	root, err := FromKey(scheme, container, "")
	if err != nil {
		return Path{}, err
	}
	return root.Join(segments...)
}

// Scheme returns the provider scheme (e.g., "s3").
func (p Path) Scheme() string { return p.scheme }

// Container returns the bucket or container name.
func (p Path) Container() string { return p.container }

// Segments returns a copy of the path segments.
func (p Path) Segments() []string {
	if len(p.segments) == 0 {
		return nil
	}
	out := make([]string, len(p.segments))
	copy(out, p.segments)
	return out
}

// IsRoot reports whether the path is at the container root.
func (p Path) IsRoot() bool { return len(p.segments) == 0 }

// Key returns the flat object key for the path: segments joined by "/",
// with no leading or trailing slash. The key for the container root is
// the empty string.
func (p Path) Key() string {
	return strings.Join(p.segments, "/")
}

// Prefix returns the directory-marker form of the key (key + "/") used
// for listings under the path. The prefix for the container root is the
// empty string, which lists the whole container.
func (p Path) Prefix() string {
	if len(p.segments) == 0 {
		return ""
	}
	return p.Key() + "/"
}

// Name returns the last segment, or "" at the container root.
func (p Path) Name() string {
	if len(p.segments) == 0 {
		return ""
	}
	return p.segments[len(p.segments)-1]
}

// Join returns a new Path with the given segments appended. The
// receiver is not modified.
//
// Join fails with an error wrapping ErrInvalidSegment if any segment is
// empty, is "." or "..", or contains "/", "\", or a NUL byte.
func (p Path) Join(segments ...string) (Path, error) {
	if len(segments) == 0 {
		return p, nil
	}

	for _, seg := range segments {
		if err := checkSegment(seg); err != nil {
			return Path{}, err
		}
	}

	joined := make([]string, 0, len(p.segments)+len(segments))
	joined = append(joined, p.segments...)
	joined = append(joined, segments...)

	return Path{scheme: p.scheme, container: p.container, segments: joined}, nil
}

// Parent returns the path with the last segment dropped. It fails with
// ErrRootHasNoParent if the path is already at the container root.
func (p Path) Parent() (Path, error) {
	if len(p.segments) == 0 {
		return Path{}, fmt.Errorf("%w: %s", ErrRootHasNoParent, p)
	}
	return Path{
		scheme:    p.scheme,
		container: p.container,
		segments:  p.segments[:len(p.segments)-1],
	}, nil
}

// Equal reports whether two paths have the same scheme, container, and
// segment sequence.
func (p Path) Equal(other Path) bool {
	if p.scheme != other.scheme || p.container != other.container {
		return false
	}
	if len(p.segments) != len(other.segments) {
		return false
	}
	for i := range p.segments {
		if p.segments[i] != other.segments[i] {
			return false
		}
	}
	return true
}

// String returns the URI form of the path: scheme://container/key.
func (p Path) String() string {
	if len(p.segments) == 0 {
		return p.scheme + "://" + p.container
	}
	return p.scheme + "://" + p.container + "/" + p.Key()
}

// parseScheme validates and lowercases a URI scheme. Valid schemes match
// RFC 3986: a letter followed by letters, digits, "+", "-", or ".".
func parseScheme(scheme string) (string, error) {
	if scheme == "" {
		return "", fmt.Errorf("%w: empty scheme", ErrMalformedPath)
	}
	scheme = strings.ToLower(scheme)
	for i, r := range scheme {
		switch {
		case r >= 'a' && r <= 'z':
		case i > 0 && (r >= '0' && r <= '9' || r == '+' || r == '-' || r == '.'):
		default:
			return "", fmt.Errorf("%w: invalid scheme %q", ErrMalformedPath, scheme)
		}
	}
	return scheme, nil
}

// checkKeyBytes rejects bytes that can never appear in a key.
// Backslashes are rejected, never normalized to "/".
func checkKeyBytes(s string) error {
	if strings.ContainsRune(s, 0) {
		return fmt.Errorf("%w: NUL byte in path", ErrMalformedPath)
	}
	if strings.Contains(s, `\`) {
		return fmt.Errorf("%w: backslash in path", ErrMalformedPath)
	}
	return nil
}

// splitKey splits a key on "/" into segments, collapsing redundant
// separators. Dot segments are rejected: their resolution against a
// flat key space is backend-defined.
func splitKey(key string) ([]string, error) {
	if key == "" {
		return nil, nil
	}

	var segments []string
	for _, seg := range strings.Split(key, "/") {
		switch seg {
		case "":
			continue
		case ".", "..":
			return nil, fmt.Errorf("%w: dot segment %q", ErrMalformedPath, seg)
		}
		segments = append(segments, seg)
	}
	return segments, nil
}

// checkSegment validates a single segment for Join.
func checkSegment(seg string) error {
	switch seg {
	case "":
		return fmt.Errorf("%w: empty segment", ErrInvalidSegment)
	case ".", "..":
		return fmt.Errorf("%w: dot segment %q", ErrInvalidSegment, seg)
	}
	if strings.ContainsAny(seg, "/\\") {
		return fmt.Errorf("%w: separator in segment %q", ErrInvalidSegment, seg)
	}
	if strings.ContainsRune(seg, 0) {
		return fmt.Errorf("%w: NUL byte in segment", ErrInvalidSegment)
	}
	return nil
}
