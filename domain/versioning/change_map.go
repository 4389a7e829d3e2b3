// Package versioning is the temporal core: it indexes the year-change log
// into a per-element lookup and reconstructs element state as of any year.
// Everything here is a pure function of its inputs; the package never
// touches a store.
package versioning

import (
	"atlas-backend/domain/core/entities"
	"atlas-backend/domain/core/valueobjects"
)

// ChangeRecord is what one timeline entry recorded for one element: either
// a deletion marker or a partial attribute patch.
type ChangeRecord struct {
	Deleted bool
	Patch   entities.Attributes
}

// ChangeMap is the derived (kind, id, year) index over the raw timeline
// entries. It is rebuilt from the entries whenever needed and never
// persisted; rebuilding is cheap enough to do per request, which keeps a
// cache-invalidation hazard out of the engine entirely.
type ChangeMap struct {
	byKind map[valueobjects.ElementKind]map[string]map[int]ChangeRecord
}

// BuildChangeMap flat-indexes the timeline entries in a single pass. Input
// order does not matter; records are stored by year key. Within one entry a
// deletion marker wins over a same-id patch, matching the recorder's
// mutual-exclusion invariant, so legacy entries violating it index sanely.
func BuildChangeMap(entries []entities.TimelineEntry) *ChangeMap {
	cm := &ChangeMap{byKind: make(map[valueobjects.ElementKind]map[string]map[int]ChangeRecord, 2)}
	for _, kind := range valueobjects.AllElementKinds() {
		cm.byKind[kind] = make(map[string]map[int]ChangeRecord)
	}

	for i := range entries {
		entry := &entries[i]
		if entry.Changes == nil {
			continue
		}
		for _, kind := range valueobjects.AllElementKinds() {
			for id, patch := range entry.Changes.ModifiedFor(kind) {
				cm.record(kind, id, entry.Year, ChangeRecord{Patch: patch})
			}
			for _, id := range entry.Changes.DeletedFor(kind) {
				cm.record(kind, id, entry.Year, ChangeRecord{Deleted: true})
			}
		}
	}
	return cm
}

func (cm *ChangeMap) record(kind valueobjects.ElementKind, id string, year int, rec ChangeRecord) {
	history := cm.byKind[kind][id]
	if history == nil {
		history = make(map[int]ChangeRecord)
		cm.byKind[kind][id] = history
	}
	history[year] = rec
}

// History returns every recorded year for an element, keyed by year.
// May be nil when the element has no recorded changes.
func (cm *ChangeMap) History(kind valueobjects.ElementKind, id string) map[int]ChangeRecord {
	return cm.byKind[kind][id]
}

// FieldsMentioned collects the attribute names named by at least one patch
// for the element, across all recorded years. Fields in this set are fully
// determined by the chronological patch sequence; fields outside it are
// assumed constant across history and come from the current record.
func (cm *ChangeMap) FieldsMentioned(kind valueobjects.ElementKind, id string) map[string]struct{} {
	fields := make(map[string]struct{})
	for _, rec := range cm.byKind[kind][id] {
		for name := range rec.Patch {
			fields[name] = struct{}{}
		}
	}
	return fields
}
