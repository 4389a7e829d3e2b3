package entities

import (
	pkgerrors "atlas-backend/pkg/errors"
)

// DefaultEpochColor is applied when an epoch is created without one
const DefaultEpochColor = "#a67c52"

// Epoch is a named year range labeling a stretch of the timeline axis.
// Epochs only annotate years; they never cascade into element history.
// No two epochs on one timeline may overlap, closed on both ends.
type Epoch struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	Description   string `json:"description,omitempty"`
	StartYear     int    `json:"startYear"`
	EndYear       int    `json:"endYear"`
	Color         string `json:"color,omitempty"`
	YearPrefix    string `json:"yearPrefix,omitempty"`
	YearSuffix    string `json:"yearSuffix,omitempty"`
	RestartAtZero bool   `json:"restartAtZero,omitempty"`
	ShowEndDate   bool   `json:"showEndDate"`
	ReverseYears  bool   `json:"reverseYears,omitempty"`
}

// Validate checks the epoch's own fields
func (e *Epoch) Validate() error {
	if e.Name == "" {
		return pkgerrors.NewValidationError("epoch name is required")
	}
	if e.StartYear >= e.EndYear {
		return pkgerrors.NewValidationError("epoch startYear must be before endYear")
	}
	return nil
}

// Overlaps reports whether two epochs share any year, both ends inclusive
func (e *Epoch) Overlaps(other *Epoch) bool {
	return e.StartYear <= other.EndYear && e.EndYear >= other.StartYear
}
