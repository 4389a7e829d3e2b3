package handlers

import (
	"net/http"

	"atlas-backend/application/services"
	"atlas-backend/pkg/common"
	pkgerrors "atlas-backend/pkg/errors"
	"atlas-backend/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// EpochHandler handles epoch HTTP requests
type EpochHandler struct {
	epochs *services.EpochService
	errors *pkgerrors.ErrorHandler
	logger *zap.Logger
}

// NewEpochHandler creates a new epoch handler
func NewEpochHandler(epochs *services.EpochService, errors *pkgerrors.ErrorHandler, logger *zap.Logger) *EpochHandler {
	return &EpochHandler{epochs: epochs, errors: errors, logger: logger}
}

// EpochRequest represents the request body for creating or updating an epoch
type EpochRequest struct {
	Name          string  `json:"name" validate:"required"`
	Description   string  `json:"description,omitempty"`
	StartYear     *int    `json:"startYear" validate:"required"`
	EndYear       *int    `json:"endYear" validate:"required"`
	Color         string  `json:"color,omitempty"`
	YearPrefix    string  `json:"yearPrefix,omitempty"`
	YearSuffix    string  `json:"yearSuffix,omitempty"`
	RestartAtZero *bool   `json:"restartAtZero,omitempty"`
	ShowEndDate   *bool   `json:"showEndDate,omitempty"`
	ReverseYears  *bool   `json:"reverseYears,omitempty"`
}

func (req EpochRequest) toInput() services.EpochInput {
	return services.EpochInput{
		Name:          req.Name,
		Description:   req.Description,
		StartYear:     req.StartYear,
		EndYear:       req.EndYear,
		Color:         req.Color,
		YearPrefix:    req.YearPrefix,
		YearSuffix:    req.YearSuffix,
		RestartAtZero: req.RestartAtZero,
		ShowEndDate:   req.ShowEndDate,
		ReverseYears:  req.ReverseYears,
	}
}

// ListEpochs handles GET /epochs
func (h *EpochHandler) ListEpochs(w http.ResponseWriter, r *http.Request) {
	epochs, err := h.epochs.List(r.Context())
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, epochs)
}

// CreateEpoch handles POST /epochs
func (h *EpochHandler) CreateEpoch(w http.ResponseWriter, r *http.Request) {
	req, ok := h.parseEpochRequest(w, r)
	if !ok {
		return
	}

	epoch, err := h.epochs.Create(r.Context(), req.toInput())
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}
	common.RespondJSON(w, http.StatusCreated, epoch)
}

// UpdateEpoch handles PUT /epochs/{epochID}
func (h *EpochHandler) UpdateEpoch(w http.ResponseWriter, r *http.Request) {
	epochID := chi.URLParam(r, "epochID")

	req, ok := h.parseEpochRequest(w, r)
	if !ok {
		return
	}

	epoch, err := h.epochs.Update(r.Context(), epochID, req.toInput())
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, epoch)
}

// DeleteEpoch handles DELETE /epochs/{epochID}
func (h *EpochHandler) DeleteEpoch(w http.ResponseWriter, r *http.Request) {
	epochID := chi.URLParam(r, "epochID")

	if err := h.epochs.Delete(r.Context(), epochID); err != nil {
		h.errors.Handle(w, r, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, map[string]interface{}{
		"id":      epochID,
		"deleted": true,
	})
}

func (h *EpochHandler) parseEpochRequest(w http.ResponseWriter, r *http.Request) (EpochRequest, bool) {
	var req EpochRequest
	if err := common.ParseJSONBody(r, &req, maxBodyBytes); err != nil {
		h.errors.Handle(w, r, pkgerrors.NewValidationError("invalid request body: "+err.Error()))
		return req, false
	}
	if err := utils.ValidateStruct(req); err != nil {
		h.errors.Handle(w, r, pkgerrors.NewValidationError(err.Error()))
		return req, false
	}
	return req, true
}
