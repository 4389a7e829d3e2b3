package versioning

import (
	"sort"

	"atlas-backend/domain/core/entities"
	pkgerrors "atlas-backend/pkg/errors"
)

// StateForYear reconstructs an element's attribute set as it existed at
// targetYear. The second return value is false when the element did not
// exist at that year: either it was not yet created, or a deletion marker
// is the latest record at or before the year.
//
// A deletion at year D removes the element for all years >= D unless a
// later patch in (D, targetYear] re-establishes it; the resurrected element
// carries that patch layered on top of the state accumulated before and
// after the deletion.
func StateForYear(element *entities.Element, targetYear int, cm *ChangeMap) (*entities.Element, bool, error) {
	if element == nil {
		return nil, false, pkgerrors.NewConsistencyError("cannot reconstruct a nil element")
	}
	if !element.Kind.IsValid() {
		return nil, false, pkgerrors.NewConsistencyError("element " + element.ID + " has no valid kind")
	}

	if element.CreationYear > targetYear {
		return nil, false, nil
	}

	history := cm.History(element.Kind, element.ID)
	if len(history) == 0 {
		// No recorded changes: the current record holds for all of history
		return element.Clone(), true, nil
	}

	years := make([]int, 0, len(history))
	for year := range history {
		if year <= targetYear {
			years = append(years, year)
		}
	}
	sort.Ints(years)

	alive := true
	accumulated := entities.Attributes{}
	for _, year := range years {
		rec := history[year]
		if rec.Deleted {
			alive = false
			continue
		}
		accumulated.Apply(rec.Patch)
		alive = true
	}
	if !alive {
		return nil, false, nil
	}

	// Baseline: the current record minus every field any patch mentions at
	// any year. Those fields belong to the patch sequence alone; the rest
	// are assumed constant across history.
	state := element.Clone()
	for field := range cm.FieldsMentioned(element.Kind, element.ID) {
		delete(state.Attrs, field)
	}
	state.Attrs.Apply(accumulated)

	state.CreationYear = element.CreationYear
	return state, true, nil
}

// StatesForYear reconstructs a batch, dropping elements absent at the year.
// A single element's failure never aborts the batch; offending ids come
// back in failed for the caller to report. If filtering empties a non-empty
// input the current elements are returned unmodified, so an index defect
// degrades to "no time travel" instead of an empty world.
func StatesForYear(elems []*entities.Element, targetYear int, cm *ChangeMap) (states []*entities.Element, failed []string) {
	states = make([]*entities.Element, 0, len(elems))
	for _, element := range elems {
		state, present, err := StateForYear(element, targetYear, cm)
		if err != nil {
			if element != nil {
				failed = append(failed, element.ID)
			}
			continue
		}
		if present {
			states = append(states, state)
		}
	}

	if len(states) == 0 && len(elems) > 0 {
		return elems, failed
	}
	return states, failed
}
