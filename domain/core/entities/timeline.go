package entities

import (
	"sort"

	"atlas-backend/domain/core/valueobjects"
)

// Note is a free-text annotation attached to a timeline entry. Notes are
// not versioned; they describe the year, not an element.
type Note struct {
	ID   string `json:"id,omitempty"`
	Text string `json:"text"`
}

// ModifiedByKind maps element ids to the partial attribute patch that held
// true starting at the owning entry's year, per element kind.
type ModifiedByKind struct {
	Locations map[string]Attributes `json:"locations,omitempty"`
	Regions   map[string]Attributes `json:"regions,omitempty"`
}

// forKind dispatches to the typed sub-map for a kind
func (m *ModifiedByKind) forKind(kind valueobjects.ElementKind) *map[string]Attributes {
	if kind == valueobjects.KindRegion {
		return &m.Regions
	}
	return &m.Locations
}

// DeletedByKind lists element ids that ceased to exist as of the owning
// entry's year, per element kind.
type DeletedByKind struct {
	Locations []string `json:"locations,omitempty"`
	Regions   []string `json:"regions,omitempty"`
}

func (d *DeletedByKind) forKind(kind valueobjects.ElementKind) *[]string {
	if kind == valueobjects.KindRegion {
		return &d.Regions
	}
	return &d.Locations
}

// CreatedByKind is the legacy per-year "created" bookkeeping. The element's
// creationYear field is the single source of truth; these lists are
// write-only compatibility artifacts reconciled by consolidation.
//
// Deprecated: scheduled for removal once all persisted timelines are
// consolidated.
type CreatedByKind struct {
	Locations []string `json:"locations,omitempty"`
	Regions   []string `json:"regions,omitempty"`
}

func (c *CreatedByKind) forKind(kind valueobjects.ElementKind) *[]string {
	if kind == valueobjects.KindRegion {
		return &c.Regions
	}
	return &c.Locations
}

// IsEmpty reports whether no legacy created ids remain
func (c *CreatedByKind) IsEmpty() bool {
	return c == nil || (len(c.Locations) == 0 && len(c.Regions) == 0)
}

// Remove strips an id from the legacy created list for a kind
func (c *CreatedByKind) Remove(kind valueobjects.ElementKind, id string) bool {
	return removeID(c.forKind(kind), id)
}

// Contains reports whether the legacy created list mentions an id
func (c *CreatedByKind) Contains(kind valueobjects.ElementKind, id string) bool {
	for _, existing := range *c.forKind(kind) {
		if existing == id {
			return true
		}
	}
	return false
}

// Changes is one entry's recorded modifications and deletions.
// Invariant: an id must not appear in both Modified and Deleted for the
// same kind; the mutating methods below enforce it, Repair restores it for
// legacy data.
type Changes struct {
	Modified ModifiedByKind `json:"modified,omitempty"`
	Deleted  DeletedByKind  `json:"deleted,omitempty"`
}

// ModifiedFor returns the modification patches recorded for a kind
func (c *Changes) ModifiedFor(kind valueobjects.ElementKind) map[string]Attributes {
	return *c.Modified.forKind(kind)
}

// DeletedFor returns the ids recorded as deleted for a kind
func (c *Changes) DeletedFor(kind valueobjects.ElementKind) []string {
	return *c.Deleted.forKind(kind)
}

// SetModified records a partial attribute patch for an element at this
// entry's year, clearing any deletion marker for the same id.
func (c *Changes) SetModified(kind valueobjects.ElementKind, id string, patch Attributes) {
	modified := c.Modified.forKind(kind)
	if *modified == nil {
		*modified = make(map[string]Attributes)
	}
	(*modified)[id] = patch.Clone()
	removeID(c.Deleted.forKind(kind), id)
}

// MarkDeleted records that an element ceased to exist as of this entry's
// year, clearing any modification recorded for the same id and year.
func (c *Changes) MarkDeleted(kind valueobjects.ElementKind, id string) {
	deleted := c.Deleted.forKind(kind)
	for _, existing := range *deleted {
		if existing == id {
			delete(*c.Modified.forKind(kind), id)
			return
		}
	}
	*deleted = append(*deleted, id)
	delete(*c.Modified.forKind(kind), id)
}

// IsDeleted reports whether the id carries a deletion marker for the kind
func (c *Changes) IsDeleted(kind valueobjects.ElementKind, id string) bool {
	for _, existing := range *c.Deleted.forKind(kind) {
		if existing == id {
			return true
		}
	}
	return false
}

// RemoveElement strips every record of an id from this entry and reports
// whether anything was removed.
func (c *Changes) RemoveElement(kind valueobjects.ElementKind, id string) bool {
	touched := false

	modified := c.Modified.forKind(kind)
	if _, ok := (*modified)[id]; ok {
		delete(*modified, id)
		touched = true
	}
	if removeID(c.Deleted.forKind(kind), id) {
		touched = true
	}
	return touched
}

// Repair restores the modified/deleted mutual exclusion invariant on legacy
// data. A deletion marker wins over a same-year modification, mirroring the
// recorder's behavior. Returns the number of conflicts repaired.
func (c *Changes) Repair() int {
	repaired := 0
	for _, kind := range valueobjects.AllElementKinds() {
		modified := c.Modified.forKind(kind)
		for _, id := range *c.Deleted.forKind(kind) {
			if _, ok := (*modified)[id]; ok {
				delete(*modified, id)
				repaired++
			}
		}
	}
	return repaired
}

// IsEmpty reports whether the entry records no changes at all
func (c *Changes) IsEmpty() bool {
	return c == nil ||
		(len(c.Modified.Locations) == 0 && len(c.Modified.Regions) == 0 &&
			len(c.Deleted.Locations) == 0 && len(c.Deleted.Regions) == 0)
}

// Clone returns a deep copy
func (c *Changes) Clone() *Changes {
	if c == nil {
		return nil
	}
	out := &Changes{}
	for _, kind := range valueobjects.AllElementKinds() {
		src := *c.Modified.forKind(kind)
		if src != nil {
			dst := make(map[string]Attributes, len(src))
			for id, patch := range src {
				dst[id] = patch.Clone()
			}
			*out.Modified.forKind(kind) = dst
		}
		if ids := *c.Deleted.forKind(kind); ids != nil {
			*out.Deleted.forKind(kind) = append([]string(nil), ids...)
		}
	}
	return out
}

// removeID deletes an id from a slice in place, reporting whether it was found
func removeID(ids *[]string, id string) bool {
	for i, existing := range *ids {
		if existing == id {
			*ids = append((*ids)[:i], (*ids)[i+1:]...)
			return true
		}
	}
	return false
}

// TimelineEntry is one year's worth of recorded timeline state. Entries are
// created on the first edit affecting their year and kept sorted ascending.
type TimelineEntry struct {
	Year    int            `json:"year"`
	Age     string         `json:"age,omitempty"`
	Notes   []Note         `json:"notes,omitempty"`
	Changes *Changes       `json:"changes,omitempty"`
	Created *CreatedByKind `json:"created,omitempty"` // legacy, write-only
}

// EnsureChanges returns the entry's Changes block, allocating it if absent
func (e *TimelineEntry) EnsureChanges() *Changes {
	if e.Changes == nil {
		e.Changes = &Changes{}
	}
	return e.Changes
}

// PruneChanges drops the Changes block once it records nothing. The entry
// itself survives; it may still carry an age or notes.
func (e *TimelineEntry) PruneChanges() {
	if e.Changes.IsEmpty() {
		e.Changes = nil
	}
	if e.Created.IsEmpty() {
		e.Created = nil
	}
}

// IsBare reports whether the entry carries nothing worth keeping
func (e *TimelineEntry) IsBare() bool {
	return e.Changes.IsEmpty() && e.Created.IsEmpty() && e.Age == "" && len(e.Notes) == 0
}

// Clone returns a deep copy
func (e *TimelineEntry) Clone() TimelineEntry {
	out := TimelineEntry{Year: e.Year, Age: e.Age, Changes: e.Changes.Clone()}
	if e.Notes != nil {
		out.Notes = append([]Note(nil), e.Notes...)
	}
	if e.Created != nil {
		out.Created = &CreatedByKind{
			Locations: append([]string(nil), e.Created.Locations...),
			Regions:   append([]string(nil), e.Created.Regions...),
		}
	}
	return out
}

// TimelineDocument is the whole persisted timeline: the ordered year
// entries plus the epoch list. It is the unit of atomicity for every
// mutation.
type TimelineDocument struct {
	Entries []TimelineEntry `json:"entries"`
	Epochs  []Epoch         `json:"epochs"`
}

// NewTimelineDocument returns an empty document with non-nil slices so it
// serializes as [] rather than null.
func NewTimelineDocument() *TimelineDocument {
	return &TimelineDocument{Entries: []TimelineEntry{}, Epochs: []Epoch{}}
}

// EntryForYear returns the entry recorded at a year, or nil
func (d *TimelineDocument) EntryForYear(year int) *TimelineEntry {
	for i := range d.Entries {
		if d.Entries[i].Year == year {
			return &d.Entries[i]
		}
	}
	return nil
}

// EnsureEntry returns the entry for a year, creating and re-sorting if absent
func (d *TimelineDocument) EnsureEntry(year int) *TimelineEntry {
	if entry := d.EntryForYear(year); entry != nil {
		return entry
	}
	d.Entries = append(d.Entries, TimelineEntry{Year: year})
	d.SortEntries()
	return d.EntryForYear(year)
}

// RemoveEntry deletes the entry for a year, reporting whether it existed
func (d *TimelineDocument) RemoveEntry(year int) bool {
	for i := range d.Entries {
		if d.Entries[i].Year == year {
			d.Entries = append(d.Entries[:i], d.Entries[i+1:]...)
			return true
		}
	}
	return false
}

// SortEntries orders entries ascending by year
func (d *TimelineDocument) SortEntries() {
	sort.Slice(d.Entries, func(i, j int) bool {
		return d.Entries[i].Year < d.Entries[j].Year
	})
}

// SortEpochs orders epochs ascending by start year
func (d *TimelineDocument) SortEpochs() {
	sort.Slice(d.Epochs, func(i, j int) bool {
		return d.Epochs[i].StartYear < d.Epochs[j].StartYear
	})
}

// EpochByID returns the index of an epoch, or -1
func (d *TimelineDocument) EpochByID(id string) int {
	for i := range d.Epochs {
		if d.Epochs[i].ID == id {
			return i
		}
	}
	return -1
}

// Clone returns a deep copy, used by stores to keep failed mutations from
// leaking into the cached document.
func (d *TimelineDocument) Clone() *TimelineDocument {
	out := &TimelineDocument{
		Entries: make([]TimelineEntry, len(d.Entries)),
		Epochs:  append([]Epoch(nil), d.Epochs...),
	}
	for i := range d.Entries {
		out.Entries[i] = d.Entries[i].Clone()
	}
	return out
}
