package valueobjects

import "errors"

// ElementKind is a value object tagging the two versionable element variants.
// It replaces stringly keyed sub-object access on the wire format with a
// typed enum so an unknown kind is rejected at the boundary, once.
type ElementKind string

const (
	KindLocation ElementKind = "locations"
	KindRegion   ElementKind = "regions"
)

// ErrUnknownElementKind is returned when a string does not name a kind.
var ErrUnknownElementKind = errors.New("unknown element kind")

// AllElementKinds returns every kind in a stable order
func AllElementKinds() []ElementKind {
	return []ElementKind{KindLocation, KindRegion}
}

// ParseElementKind converts a wire string into an ElementKind
func ParseElementKind(s string) (ElementKind, error) {
	switch ElementKind(s) {
	case KindLocation, KindRegion:
		return ElementKind(s), nil
	default:
		return "", ErrUnknownElementKind
	}
}

// String returns the wire representation of the kind
func (k ElementKind) String() string {
	return string(k)
}

// IsValid reports whether the kind is one of the known variants
func (k ElementKind) IsValid() bool {
	return k == KindLocation || k == KindRegion
}
