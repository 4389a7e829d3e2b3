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

// ChangeType says what a recorded change did to its element at that year
type ChangeType string

const (
	ChangeUpdated ChangeType = "updated"
	ChangeDeleted ChangeType = "deleted"
)

// RecordChangeInput describes one edit to record on the timeline
type RecordChangeInput struct {
	Year       int
	ElementID  string
	Kind       valueobjects.ElementKind
	ChangeType ChangeType
	Patch      entities.Attributes
}

// TimelineService records changes on the year log and manages entries.
// Every mutation runs inside the timeline repository's Update boundary, so
// a failed save never leaves a half-applied edit behind.
type TimelineService struct {
	timeline ports.TimelineRepository
	logger   *zap.Logger
}

// NewTimelineService creates a new timeline service
func NewTimelineService(timeline ports.TimelineRepository, logger *zap.Logger) *TimelineService {
	return &TimelineService{timeline: timeline, logger: logger}
}

// Entries returns the timeline entries, sorted ascending by year
func (s *TimelineService) Entries(ctx context.Context) ([]entities.TimelineEntry, error) {
	doc, err := s.timeline.Load(ctx)
	if err != nil {
		return nil, err
	}
	return doc.Entries, nil
}

// RecordChange appends or updates a modification or deletion at a year,
// creating the year entry if absent and keeping entries sorted. Recording a
// deletion clears any same-year modification for the id. Returns the
// updated entry as persisted.
func (s *TimelineService) RecordChange(ctx context.Context, input RecordChangeInput) (*entities.TimelineEntry, error) {
	if input.ElementID == "" {
		return nil, pkgerrors.NewValidationError("elementId is required")
	}
	if !input.Kind.IsValid() {
		return nil, pkgerrors.NewValidationError(fmt.Sprintf("unknown element kind %q", input.Kind))
	}

	var recorded entities.TimelineEntry
	err := s.timeline.Update(ctx, func(doc *entities.TimelineDocument) error {
		entry := doc.EnsureEntry(input.Year)
		changes := entry.EnsureChanges()

		switch input.ChangeType {
		case ChangeUpdated:
			if len(input.Patch) == 0 {
				return pkgerrors.NewValidationError("an updated change requires a non-empty patch")
			}
			changes.SetModified(input.Kind, input.ElementID, input.Patch)
		case ChangeDeleted:
			changes.MarkDeleted(input.Kind, input.ElementID)
		default:
			return pkgerrors.NewValidationError(fmt.Sprintf("unknown change type %q", input.ChangeType))
		}

		entry.PruneChanges()
		recorded = entry.Clone()
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Debug("recorded timeline change",
		zap.Int("year", input.Year),
		zap.String("kind", input.Kind.String()),
		zap.String("elementID", input.ElementID),
		zap.String("changeType", string(input.ChangeType)),
	)
	return &recorded, nil
}

// UpdateEntry replaces an entry's age label and notes. Nil fields are left
// untouched; recorded changes are never affected.
func (s *TimelineService) UpdateEntry(ctx context.Context, year int, age *string, notes []entities.Note) (*entities.TimelineEntry, error) {
	var updated entities.TimelineEntry
	err := s.timeline.Update(ctx, func(doc *entities.TimelineDocument) error {
		entry := doc.EntryForYear(year)
		if entry == nil {
			return pkgerrors.NewNotFoundError(fmt.Sprintf("timeline entry for year %d", year))
		}
		if age != nil {
			entry.Age = *age
		}
		if notes != nil {
			entry.Notes = notes
		}
		updated = entry.Clone()
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

// DeleteEntry removes an entry outright, recorded changes included. Entry
// removal is always this explicit call; maintenance operations only prune
// entries that carry nothing at all.
func (s *TimelineService) DeleteEntry(ctx context.Context, year int) error {
	return s.timeline.Update(ctx, func(doc *entities.TimelineDocument) error {
		if !doc.RemoveEntry(year) {
			return pkgerrors.NewNotFoundError(fmt.Sprintf("timeline entry for year %d", year))
		}
		return nil
	})
}
