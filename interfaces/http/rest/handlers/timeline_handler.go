package handlers

import (
	"net/http"
	"strconv"

	"atlas-backend/application/services"
	"atlas-backend/domain/core/entities"
	"atlas-backend/domain/core/valueobjects"
	"atlas-backend/pkg/common"
	pkgerrors "atlas-backend/pkg/errors"
	"atlas-backend/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// TimelineHandler handles timeline entry and change-log HTTP requests
type TimelineHandler struct {
	timeline *services.TimelineService
	history  *services.HistoryService
	errors   *pkgerrors.ErrorHandler
	logger   *zap.Logger
}

// NewTimelineHandler creates a new timeline handler
func NewTimelineHandler(
	timeline *services.TimelineService,
	history *services.HistoryService,
	errors *pkgerrors.ErrorHandler,
	logger *zap.Logger,
) *TimelineHandler {
	return &TimelineHandler{
		timeline: timeline,
		history:  history,
		errors:   errors,
		logger:   logger,
	}
}

// ListEntries handles GET /timeline/entries
func (h *TimelineHandler) ListEntries(w http.ResponseWriter, r *http.Request) {
	entries, err := h.timeline.Entries(r.Context())
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, entries)
}

// RecordChangeRequest represents the request body for recording a change
type RecordChangeRequest struct {
	Year      int                 `json:"year"`
	ElementID string              `json:"elementId" validate:"required"`
	Kind      string              `json:"kind" validate:"required"`
	Type      string              `json:"type" validate:"required,oneof=updated deleted"`
	Patch     entities.Attributes `json:"patch,omitempty"`
}

// RecordChange handles POST /timeline/changes
func (h *TimelineHandler) RecordChange(w http.ResponseWriter, r *http.Request) {
	var req RecordChangeRequest
	if err := common.ParseJSONBody(r, &req, maxBodyBytes); err != nil {
		h.errors.Handle(w, r, pkgerrors.NewValidationError("invalid request body: "+err.Error()))
		return
	}
	if err := utils.ValidateStruct(req); err != nil {
		h.errors.Handle(w, r, pkgerrors.NewValidationError(err.Error()))
		return
	}

	kind, err := valueobjects.ParseElementKind(req.Kind)
	if err != nil {
		h.errors.Handle(w, r, pkgerrors.NewValidationError(err.Error()))
		return
	}

	entry, err := h.timeline.RecordChange(r.Context(), services.RecordChangeInput{
		Year:       req.Year,
		ElementID:  req.ElementID,
		Kind:       kind,
		ChangeType: services.ChangeType(req.Type),
		Patch:      req.Patch,
	})
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, entry)
}

// UpdateEntryRequest represents the request body for editing a year entry
type UpdateEntryRequest struct {
	Age   *string         `json:"age,omitempty"`
	Notes []entities.Note `json:"notes,omitempty"`
}

// UpdateEntry handles PUT /timeline/entries/{year}
func (h *TimelineHandler) UpdateEntry(w http.ResponseWriter, r *http.Request) {
	year, err := yearParam(r)
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	var req UpdateEntryRequest
	if err := common.ParseJSONBody(r, &req, maxBodyBytes); err != nil {
		h.errors.Handle(w, r, pkgerrors.NewValidationError("invalid request body: "+err.Error()))
		return
	}

	entry, err := h.timeline.UpdateEntry(r.Context(), year, req.Age, req.Notes)
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, entry)
}

// DeleteEntry handles DELETE /timeline/entries/{year}
func (h *TimelineHandler) DeleteEntry(w http.ResponseWriter, r *http.Request) {
	year, err := yearParam(r)
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	if err := h.timeline.DeleteEntry(r.Context(), year); err != nil {
		h.errors.Handle(w, r, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, map[string]interface{}{
		"year":    year,
		"deleted": true,
	})
}

// DeleteHistory handles DELETE /timeline/history/{kind}/{id}. Without a
// query parameter the element's whole history is purged; with ?after=Y only
// changes recorded at years strictly greater than Y are removed.
func (h *TimelineHandler) DeleteHistory(w http.ResponseWriter, r *http.Request) {
	kind, err := kindParam(r)
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}
	id := chi.URLParam(r, "elementID")

	if raw := r.URL.Query().Get("after"); raw != "" {
		after, err := strconv.Atoi(raw)
		if err != nil {
			h.errors.Handle(w, r, pkgerrors.NewValidationError("after must be an integer: "+raw))
			return
		}
		result, err := h.history.DeleteAfter(r.Context(), kind, id, &after)
		if err != nil {
			h.errors.Handle(w, r, err)
			return
		}
		common.RespondJSON(w, http.StatusOK, result)
		return
	}

	touched, err := h.history.Purge(r.Context(), kind, id)
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, map[string]interface{}{
		"entriesTouched": touched,
	})
}

func yearParam(r *http.Request) (int, error) {
	raw := chi.URLParam(r, "year")
	year, err := strconv.Atoi(raw)
	if err != nil {
		return 0, pkgerrors.NewValidationError("year must be an integer: " + raw)
	}
	return year, nil
}
