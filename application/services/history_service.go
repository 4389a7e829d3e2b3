package services

import (
	"context"
	"fmt"

	"atlas-backend/application/ports"
	"atlas-backend/domain/core/entities"
	"atlas-backend/domain/core/valueobjects"
	pkgerrors "atlas-backend/pkg/errors"

	"go.uber.org/zap"
)

// DeleteAfterResult reports what a history rewind removed
type DeleteAfterResult struct {
	EntriesTouched int    `json:"entriesTouched"`
	Summary        string `json:"summary"`
}

// ConsolidateResult reports what a consolidation pass reconciled
type ConsolidateResult struct {
	CreatedRemoved    int `json:"createdRemoved"`
	ConflictsRepaired int `json:"conflictsRepaired"`
}

// HistoryService runs bulk maintenance over the change log: purging an
// element's history, rewinding it past a year, and reconciling legacy
// bookkeeping. All passes tolerate invariant violations in old data and
// repair them rather than fail.
type HistoryService struct {
	timeline ports.TimelineRepository
	logger   *zap.Logger
}

// NewHistoryService creates a new history service
func NewHistoryService(timeline ports.TimelineRepository, logger *zap.Logger) *HistoryService {
	return &HistoryService{timeline: timeline, logger: logger}
}

// Purge removes every recorded change for an element across all years,
// then drops entries left carrying nothing. Used when an element is
// permanently removed from the element store so its history does not
// linger.
func (s *HistoryService) Purge(ctx context.Context, kind valueobjects.ElementKind, id string) (int, error) {
	if !kind.IsValid() {
		return 0, pkgerrors.NewValidationError(fmt.Sprintf("unknown element kind %q", kind))
	}
	if id == "" {
		return 0, pkgerrors.NewValidationError("element id is required")
	}

	touched := 0
	err := s.timeline.Update(ctx, func(doc *entities.TimelineDocument) error {
		kept := doc.Entries[:0]
		for i := range doc.Entries {
			entry := &doc.Entries[i]
			hit := false
			if entry.Changes != nil && entry.Changes.RemoveElement(kind, id) {
				hit = true
			}
			if entry.Created != nil && entry.Created.Remove(kind, id) {
				hit = true
			}
			if hit {
				touched++
			}
			entry.PruneChanges()
			if !entry.IsBare() {
				kept = append(kept, *entry)
			}
		}
		doc.Entries = kept
		return nil
	})
	if err != nil {
		return 0, err
	}

	s.logger.Info("purged element history",
		zap.String("kind", kind.String()),
		zap.String("elementID", id),
		zap.Int("entriesTouched", touched),
	)
	return touched, nil
}

// DeleteAfter strips an element's recorded changes from every entry past
// afterYear, or from every entry when no bound is given. This is how an
// editor forgets everything defined after a point in time when rewinding an
// element's history.
func (s *HistoryService) DeleteAfter(ctx context.Context, kind valueobjects.ElementKind, id string, afterYear *int) (DeleteAfterResult, error) {
	if !kind.IsValid() {
		return DeleteAfterResult{}, pkgerrors.NewValidationError(fmt.Sprintf("unknown element kind %q", kind))
	}
	if id == "" {
		return DeleteAfterResult{}, pkgerrors.NewValidationError("element id is required")
	}

	touched := 0
	err := s.timeline.Update(ctx, func(doc *entities.TimelineDocument) error {
		for i := range doc.Entries {
			entry := &doc.Entries[i]
			if afterYear != nil && entry.Year <= *afterYear {
				continue
			}
			if entry.Changes != nil && entry.Changes.RemoveElement(kind, id) {
				touched++
			}
			entry.PruneChanges()
		}
		return nil
	})
	if err != nil {
		return DeleteAfterResult{}, err
	}

	var summary string
	if afterYear != nil {
		summary = fmt.Sprintf("removed recorded changes for %s %q from %d entries after year %d", kind, id, touched, *afterYear)
	} else {
		summary = fmt.Sprintf("removed recorded changes for %s %q from %d entries", kind, id, touched)
	}

	s.logger.Info("rewound element history",
		zap.String("kind", kind.String()),
		zap.String("elementID", id),
		zap.Int("entriesTouched", touched),
	)
	return DeleteAfterResult{EntriesTouched: touched, Summary: summary}, nil
}

// Consolidate reconciles the legacy per-year created lists against recorded
// modifications: an id modified in the same entry no longer needs its
// created marker, since creationYear on the element is the authoritative
// creation moment. Also repairs any modified/deleted conflicts found in
// legacy data.
func (s *HistoryService) Consolidate(ctx context.Context) (ConsolidateResult, error) {
	result := ConsolidateResult{}
	err := s.timeline.Update(ctx, func(doc *entities.TimelineDocument) error {
		for i := range doc.Entries {
			entry := &doc.Entries[i]
			if entry.Changes != nil {
				result.ConflictsRepaired += entry.Changes.Repair()
			}
			if entry.Created == nil || entry.Changes == nil {
				continue
			}
			for _, kind := range valueobjects.AllElementKinds() {
				modified := entry.Changes.ModifiedFor(kind)
				if len(modified) == 0 {
					continue
				}
				for modifiedID := range modified {
					if entry.Created.Remove(kind, modifiedID) {
						result.CreatedRemoved++
					}
				}
			}
			entry.PruneChanges()
		}
		return nil
	})
	if err != nil {
		return ConsolidateResult{}, err
	}

	s.logger.Info("consolidated timeline",
		zap.Int("createdRemoved", result.CreatedRemoved),
		zap.Int("conflictsRepaired", result.ConflictsRepaired),
	)
	return result, nil
}

