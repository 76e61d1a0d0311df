package resolver

import "strings"

// Kind discriminates the two resource forms.
type Kind int

const (
	// KindFile is a filesystem path relative to the working directory.
	KindFile Kind = iota
	// KindURL is a remote resource identifier, passed through unchanged.
	KindURL
)

// Resource is a concrete, selected unit of content. Immutable after selection.
type Resource struct {
	// Identifier is the normalized relative path or the URL as supplied.
	Identifier string
	Kind       Kind
}

// IsLocal reports whether the resource is a filesystem path.
func (r Resource) IsLocal() bool {
	return r.Kind == KindFile
}

// IsURL reports whether token names a remote resource.
func IsURL(token string) bool {
	return strings.HasPrefix(token, "http://") || strings.HasPrefix(token, "https://")
}
