package handlers

import (
	"net/http"
	"strconv"

	"atlas-backend/application/services"
	"atlas-backend/domain/core/entities"
	"atlas-backend/domain/core/valueobjects"
	"atlas-backend/pkg/common"
	pkgerrors "atlas-backend/pkg/errors"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

const maxBodyBytes = 1 << 20

// ElementHandler handles element-related HTTP requests
type ElementHandler struct {
	elements  *services.ElementService
	snapshots *services.SnapshotService
	errors    *pkgerrors.ErrorHandler
	logger    *zap.Logger
}

// NewElementHandler creates a new element handler
func NewElementHandler(
	elements *services.ElementService,
	snapshots *services.SnapshotService,
	errors *pkgerrors.ErrorHandler,
	logger *zap.Logger,
) *ElementHandler {
	return &ElementHandler{
		elements:  elements,
		snapshots: snapshots,
		errors:    errors,
		logger:    logger,
	}
}

// ListElements handles GET /elements/{kind}. With ?year=Y the list is
// reconstructed as of that year instead of the current records.
func (h *ElementHandler) ListElements(w http.ResponseWriter, r *http.Request) {
	kind, err := kindParam(r)
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	year, err := optionalYearQuery(r)
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	elems, err := h.snapshots.ElementsForYear(r.Context(), kind, year)
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, elems)
}

// GetElement handles GET /elements/{kind}/{id}. With ?year=Y the element
// state is reconstructed; an element absent at that year is a 404.
func (h *ElementHandler) GetElement(w http.ResponseWriter, r *http.Request) {
	kind, err := kindParam(r)
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}
	id := chi.URLParam(r, "elementID")

	year, err := optionalYearQuery(r)
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	if year != nil {
		element, present, err := h.snapshots.ElementForYear(r.Context(), kind, id, *year)
		if err != nil {
			h.errors.Handle(w, r, err)
			return
		}
		if !present {
			h.errors.Handle(w, r, pkgerrors.NewNotFoundError(string(kind)+" "+id+" at year "+strconv.Itoa(*year)))
			return
		}
		common.RespondJSON(w, http.StatusOK, element)
		return
	}

	element, err := h.elements.Get(r.Context(), kind, id)
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, element)
}

// CreateElement handles POST /elements/{kind}. The body is the element
// document itself: optional id and creationYear beside free-form attributes.
func (h *ElementHandler) CreateElement(w http.ResponseWriter, r *http.Request) {
	kind, err := kindParam(r)
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	body := entities.Attributes{}
	if err := common.ParseJSONBody(r, &body, maxBodyBytes); err != nil {
		h.errors.Handle(w, r, pkgerrors.NewValidationError("invalid request body: "+err.Error()))
		return
	}

	id, _ := body[entities.FieldID].(string)
	creationYear, _, err := popYear(body, entities.FieldCreationYear)
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}
	delete(body, entities.FieldID)
	delete(body, entities.FieldElementType)

	element, err := h.elements.Create(r.Context(), kind, id, creationYear, body)
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}
	common.RespondJSON(w, http.StatusCreated, element)
}

// UpdateElement handles PUT /elements/{kind}/{id}
func (h *ElementHandler) UpdateElement(w http.ResponseWriter, r *http.Request) {
	kind, err := kindParam(r)
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}
	id := chi.URLParam(r, "elementID")

	body := entities.Attributes{}
	if err := common.ParseJSONBody(r, &body, maxBodyBytes); err != nil {
		h.errors.Handle(w, r, pkgerrors.NewValidationError("invalid request body: "+err.Error()))
		return
	}

	creationYear, present, err := popYear(body, entities.FieldCreationYear)
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}
	var yearPtr *int
	if present {
		yearPtr = &creationYear
	}
	delete(body, entities.FieldID)
	delete(body, entities.FieldElementType)

	element, err := h.elements.Update(r.Context(), kind, id, yearPtr, body)
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, element)
}

// DeleteElement handles DELETE /elements/{kind}/{id}. The element's
// timeline history is purged along with the record.
func (h *ElementHandler) DeleteElement(w http.ResponseWriter, r *http.Request) {
	kind, err := kindParam(r)
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}
	id := chi.URLParam(r, "elementID")

	if err := h.elements.Delete(r.Context(), kind, id); err != nil {
		h.errors.Handle(w, r, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, map[string]interface{}{
		"id":      id,
		"deleted": true,
	})
}

// kindParam parses the {kind} URL segment into a typed element kind
func kindParam(r *http.Request) (valueobjects.ElementKind, error) {
	kind, err := valueobjects.ParseElementKind(chi.URLParam(r, "kind"))
	if err != nil {
		return "", pkgerrors.NewValidationError(err.Error())
	}
	return kind, nil
}

// optionalYearQuery parses ?year=Y, returning nil when absent
func optionalYearQuery(r *http.Request) (*int, error) {
	raw := r.URL.Query().Get("year")
	if raw == "" {
		return nil, nil
	}
	year, err := strconv.Atoi(raw)
	if err != nil {
		return nil, pkgerrors.NewValidationError("year must be an integer: " + raw)
	}
	return &year, nil
}

// popYear extracts an integer field from a decoded JSON body, removing it
// from the attribute set. JSON numbers arrive as float64.
func popYear(body entities.Attributes, field string) (int, bool, error) {
	raw, ok := body[field]
	if !ok {
		return 0, false, nil
	}
	delete(body, field)
	switch v := raw.(type) {
	case float64:
		return int(v), true, nil
	case int:
		return v, true, nil
	default:
		return 0, false, pkgerrors.NewValidationError(field + " must be an integer")
	}
}
