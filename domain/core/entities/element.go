package entities

import (
	"encoding/json"
	"fmt"

	"atlas-backend/domain/core/valueobjects"
	pkgerrors "atlas-backend/pkg/errors"
)

// Reserved element fields. Everything else on the wire document is a
// versionable attribute and lives in Attrs.
const (
	FieldID           = "id"
	FieldElementType  = "elementType"
	FieldCreationYear = "creationYear"
)

// AttrLabelCollision names the label-collision policy attribute. Legacy
// documents may lack it; the migration backfills DefaultLabelCollision.
const (
	AttrLabelCollision    = "labelCollision"
	DefaultLabelCollision = "shift"
)

// Attributes is the named attribute set of an element, or a partial patch
// of it recorded at a timeline year.
type Attributes map[string]interface{}

// Clone returns a shallow copy of the attribute set
func (a Attributes) Clone() Attributes {
	if a == nil {
		return Attributes{}
	}
	out := make(Attributes, len(a))
	for k, v := range a {
		out[k] = v
	}
	return out
}

// Apply overwrites only the fields the patch names; later patches win
func (a Attributes) Apply(patch Attributes) {
	for k, v := range patch {
		a[k] = v
	}
}

// FieldNames returns the attribute names mentioned by this set
func (a Attributes) FieldNames() []string {
	names := make([]string, 0, len(a))
	for k := range a {
		names = append(names, k)
	}
	return names
}

// Element is a location or region: a stable identity plus a mapping of
// named attributes whose values change over the element's in-world life.
// The element store owns the current attribute values; historical deltas
// belong to the timeline.
type Element struct {
	ID           string
	Kind         valueobjects.ElementKind
	CreationYear int
	Attrs        Attributes
}

// NewElement creates an element with validated identity fields
func NewElement(id string, kind valueobjects.ElementKind, creationYear int, attrs Attributes) (*Element, error) {
	if id == "" {
		return nil, pkgerrors.NewValidationError("element id cannot be empty")
	}
	if !kind.IsValid() {
		return nil, pkgerrors.NewValidationError(fmt.Sprintf("unknown element kind %q", kind))
	}
	return &Element{
		ID:           id,
		Kind:         kind,
		CreationYear: creationYear,
		Attrs:        attrs.Clone(),
	}, nil
}

// Clone returns a deep-enough copy for read-modify-write cycles
func (e *Element) Clone() *Element {
	return &Element{
		ID:           e.ID,
		Kind:         e.Kind,
		CreationYear: e.CreationYear,
		Attrs:        e.Attrs.Clone(),
	}
}

// MarshalJSON flattens Attrs next to the identity fields, matching the
// persisted document shape.
func (e *Element) MarshalJSON() ([]byte, error) {
	doc := make(map[string]interface{}, len(e.Attrs)+3)
	for k, v := range e.Attrs {
		doc[k] = v
	}
	doc[FieldID] = e.ID
	doc[FieldElementType] = e.Kind.String()
	doc[FieldCreationYear] = e.CreationYear
	return json.Marshal(doc)
}

// UnmarshalJSON splits the flat document back into identity fields and Attrs.
// A document lacking creationYear is legacy data and defaults to year 0.
func (e *Element) UnmarshalJSON(data []byte) error {
	var doc map[string]interface{}
	if err := json.Unmarshal(data, &doc); err != nil {
		return err
	}

	id, _ := doc[FieldID].(string)
	e.ID = id

	if raw, ok := doc[FieldElementType].(string); ok {
		kind, err := valueobjects.ParseElementKind(raw)
		if err != nil {
			return fmt.Errorf("element %s: %w", id, err)
		}
		e.Kind = kind
	}

	e.CreationYear = 0
	if raw, ok := doc[FieldCreationYear]; ok {
		year, err := toYear(raw)
		if err != nil {
			return fmt.Errorf("element %s: %w", id, err)
		}
		e.CreationYear = year
	}

	delete(doc, FieldID)
	delete(doc, FieldElementType)
	delete(doc, FieldCreationYear)
	e.Attrs = Attributes(doc)
	return nil
}

// toYear converts a decoded JSON number into an integer year
func toYear(v interface{}) (int, error) {
	switch n := v.(type) {
	case float64:
		return int(n), nil
	case int:
		return n, nil
	case json.Number:
		i, err := n.Int64()
		return int(i), err
	default:
		return 0, fmt.Errorf("year must be a number, got %T", v)
	}
}
