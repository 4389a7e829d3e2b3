package services

import (
	"context"
	"fmt"

	"atlas-backend/application/ports"
	"atlas-backend/domain/core/entities"
	pkgerrors "atlas-backend/pkg/errors"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// EpochInput carries the caller-editable epoch fields. Pointer fields
// distinguish "not sent" from an explicit zero value.
type EpochInput struct {
	Name          string
	Description   string
	StartYear     *int
	EndYear       *int
	Color         string
	YearPrefix    string
	YearSuffix    string
	RestartAtZero *bool
	ShowEndDate   *bool
	ReverseYears  *bool
}

// EpochService manages the named, non-overlapping year ranges labeling the
// timeline axis. Epochs are purely descriptive; deleting one cascades into
// nothing.
type EpochService struct {
	timeline ports.TimelineRepository
	logger   *zap.Logger
}

// NewEpochService creates a new epoch service
func NewEpochService(timeline ports.TimelineRepository, logger *zap.Logger) *EpochService {
	return &EpochService{timeline: timeline, logger: logger}
}

// List returns the epochs sorted ascending by start year
func (s *EpochService) List(ctx context.Context) ([]entities.Epoch, error) {
	doc, err := s.timeline.Load(ctx)
	if err != nil {
		return nil, err
	}
	return doc.Epochs, nil
}

// Create validates and inserts a new epoch, applying display defaults
func (s *EpochService) Create(ctx context.Context, input EpochInput) (*entities.Epoch, error) {
	if input.StartYear == nil || input.EndYear == nil {
		return nil, pkgerrors.NewValidationError("epoch startYear and endYear are required")
	}

	epoch := entities.Epoch{
		ID:          uuid.New().String(),
		Name:        input.Name,
		Description: input.Description,
		StartYear:   *input.StartYear,
		EndYear:     *input.EndYear,
		Color:       input.Color,
		YearPrefix:  input.YearPrefix,
		YearSuffix:  input.YearSuffix,
		ShowEndDate: true,
	}
	if epoch.Color == "" {
		epoch.Color = entities.DefaultEpochColor
	}
	if input.RestartAtZero != nil {
		epoch.RestartAtZero = *input.RestartAtZero
	}
	if input.ShowEndDate != nil {
		epoch.ShowEndDate = *input.ShowEndDate
	}
	if input.ReverseYears != nil {
		epoch.ReverseYears = *input.ReverseYears
	}

	if err := epoch.Validate(); err != nil {
		return nil, err
	}

	err := s.timeline.Update(ctx, func(doc *entities.TimelineDocument) error {
		if err := rejectOverlap(doc, &epoch, ""); err != nil {
			return err
		}
		doc.Epochs = append(doc.Epochs, epoch)
		doc.SortEpochs()
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("created epoch",
		zap.String("epochID", epoch.ID),
		zap.String("name", epoch.Name),
		zap.Int("startYear", epoch.StartYear),
		zap.Int("endYear", epoch.EndYear),
	)
	return &epoch, nil
}

// Update validates and replaces an existing epoch's fields. The epoch is
// excluded from its own overlap check.
func (s *EpochService) Update(ctx context.Context, id string, input EpochInput) (*entities.Epoch, error) {
	var updated entities.Epoch
	err := s.timeline.Update(ctx, func(doc *entities.TimelineDocument) error {
		idx := doc.EpochByID(id)
		if idx < 0 {
			return pkgerrors.NewNotFoundError(fmt.Sprintf("epoch %s", id))
		}

		epoch := doc.Epochs[idx]
		if input.Name != "" {
			epoch.Name = input.Name
		}
		if input.Description != "" {
			epoch.Description = input.Description
		}
		if input.StartYear != nil {
			epoch.StartYear = *input.StartYear
		}
		if input.EndYear != nil {
			epoch.EndYear = *input.EndYear
		}
		if input.Color != "" {
			epoch.Color = input.Color
		}
		if input.YearPrefix != "" {
			epoch.YearPrefix = input.YearPrefix
		}
		if input.YearSuffix != "" {
			epoch.YearSuffix = input.YearSuffix
		}
		if input.RestartAtZero != nil {
			epoch.RestartAtZero = *input.RestartAtZero
		}
		if input.ShowEndDate != nil {
			epoch.ShowEndDate = *input.ShowEndDate
		}
		if input.ReverseYears != nil {
			epoch.ReverseYears = *input.ReverseYears
		}

		if err := epoch.Validate(); err != nil {
			return err
		}
		if err := rejectOverlap(doc, &epoch, id); err != nil {
			return err
		}

		doc.Epochs[idx] = epoch
		doc.SortEpochs()
		updated = epoch
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

// Delete removes an epoch by id
func (s *EpochService) Delete(ctx context.Context, id string) error {
	return s.timeline.Update(ctx, func(doc *entities.TimelineDocument) error {
		idx := doc.EpochByID(id)
		if idx < 0 {
			return pkgerrors.NewNotFoundError(fmt.Sprintf("epoch %s", id))
		}
		doc.Epochs = append(doc.Epochs[:idx], doc.Epochs[idx+1:]...)
		return nil
	})
}

// rejectOverlap fails when the candidate shares any year with another epoch
func rejectOverlap(doc *entities.TimelineDocument, candidate *entities.Epoch, selfID string) error {
	for i := range doc.Epochs {
		other := &doc.Epochs[i]
		if other.ID == selfID {
			continue
		}
		if candidate.Overlaps(other) {
			return pkgerrors.NewValidationError(fmt.Sprintf(
				"epoch years %d-%d overlap existing epoch %q (%d-%d)",
				candidate.StartYear, candidate.EndYear, other.Name, other.StartYear, other.EndYear,
			))
		}
	}
	return nil
}
