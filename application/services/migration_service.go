package services

import (
	"context"

	"atlas-backend/application/ports"
	"atlas-backend/domain/core/entities"
	"atlas-backend/domain/core/valueobjects"

	"go.uber.org/zap"
)

// MigrationResult reports what a migration pass touched
type MigrationResult struct {
	CreationYearsBackfilled int `json:"creationYearsBackfilled"`
	LabelPoliciesBackfilled int `json:"labelPoliciesBackfilled"`
}

// MigrationService runs the one-shot upgrades over persisted collections.
// Every migration is idempotent: re-running is a no-op once applied, so the
// pass is safe to trigger on every deploy.
type MigrationService struct {
	elements ports.ElementRepository
	timeline ports.TimelineRepository
	logger   *zap.Logger
}

// NewMigrationService creates a new migration service
func NewMigrationService(elements ports.ElementRepository, timeline ports.TimelineRepository, logger *zap.Logger) *MigrationService {
	return &MigrationService{elements: elements, timeline: timeline, logger: logger}
}

// Run executes all migrations in order
func (s *MigrationService) Run(ctx context.Context) (MigrationResult, error) {
	result := MigrationResult{}

	backfilled, err := s.backfillCreationYears(ctx)
	if err != nil {
		return result, err
	}
	result.CreationYearsBackfilled = backfilled

	labels, err := s.backfillLabelCollision(ctx)
	if err != nil {
		return result, err
	}
	result.LabelPoliciesBackfilled = labels

	s.logger.Info("migrations complete",
		zap.Int("creationYearsBackfilled", result.CreationYearsBackfilled),
		zap.Int("labelPoliciesBackfilled", result.LabelPoliciesBackfilled),
	)
	return result, nil
}

// backfillCreationYears sets creationYear on elements still at the legacy
// default, using the earliest year whose legacy created list mentions the
// id. Elements never mentioned stay at year 0.
func (s *MigrationService) backfillCreationYears(ctx context.Context) (int, error) {
	doc, err := s.timeline.Load(ctx)
	if err != nil {
		return 0, err
	}

	earliest := make(map[valueobjects.ElementKind]map[string]int, 2)
	for _, kind := range valueobjects.AllElementKinds() {
		earliest[kind] = make(map[string]int)
	}
	// Entries are sorted ascending, so the first mention wins
	for i := range doc.Entries {
		entry := &doc.Entries[i]
		if entry.Created == nil {
			continue
		}
		for _, kind := range valueobjects.AllElementKinds() {
			ids := entry.Created.Locations
			if kind == valueobjects.KindRegion {
				ids = entry.Created.Regions
			}
			for _, id := range ids {
				if _, seen := earliest[kind][id]; !seen {
					earliest[kind][id] = entry.Year
				}
			}
		}
	}

	updated := 0
	for _, kind := range valueobjects.AllElementKinds() {
		elems, err := s.elements.GetAll(ctx, kind)
		if err != nil {
			return updated, err
		}
		for _, element := range elems {
			if element.CreationYear != 0 {
				continue
			}
			year, ok := earliest[kind][element.ID]
			if !ok || year == 0 {
				continue
			}
			patched := element.Clone()
			patched.CreationYear = year
			if err := s.elements.Put(ctx, patched); err != nil {
				return updated, err
			}
			updated++
		}
	}
	return updated, nil
}

// backfillLabelCollision gives every element lacking a label-collision
// policy the explicit default.
func (s *MigrationService) backfillLabelCollision(ctx context.Context) (int, error) {
	updated := 0
	for _, kind := range valueobjects.AllElementKinds() {
		elems, err := s.elements.GetAll(ctx, kind)
		if err != nil {
			return updated, err
		}
		for _, element := range elems {
			if _, ok := element.Attrs[entities.AttrLabelCollision]; ok {
				continue
			}
			patched := element.Clone()
			patched.Attrs[entities.AttrLabelCollision] = entities.DefaultLabelCollision
			if err := s.elements.Put(ctx, patched); err != nil {
				return updated, err
			}
			updated++
		}
	}
	return updated, nil
}

