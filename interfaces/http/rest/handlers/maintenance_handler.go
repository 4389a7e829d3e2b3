package handlers

import (
	"net/http"

	"atlas-backend/application/services"
	"atlas-backend/pkg/common"
	pkgerrors "atlas-backend/pkg/errors"
	"atlas-backend/pkg/utils"

	"go.uber.org/zap"
)

// MaintenanceHandler exposes the bulk history passes: consolidation of
// legacy bookkeeping and the idempotent data migrations.
type MaintenanceHandler struct {
	history    *services.HistoryService
	migrations *services.MigrationService
	errors     *pkgerrors.ErrorHandler
	logger     *zap.Logger
}

// NewMaintenanceHandler creates a new maintenance handler
func NewMaintenanceHandler(
	history *services.HistoryService,
	migrations *services.MigrationService,
	errors *pkgerrors.ErrorHandler,
	logger *zap.Logger,
) *MaintenanceHandler {
	return &MaintenanceHandler{
		history:    history,
		migrations: migrations,
		errors:     errors,
		logger:     logger,
	}
}

// maintenanceResponse wraps a pass result with the time it finished.
type maintenanceResponse struct {
	Result      interface{} `json:"result"`
	CompletedAt string      `json:"completedAt"`
}

// Consolidate handles POST /maintenance/consolidate
func (h *MaintenanceHandler) Consolidate(w http.ResponseWriter, r *http.Request) {
	result, err := h.history.Consolidate(r.Context())
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, maintenanceResponse{
		Result:      result,
		CompletedAt: utils.NowRFC3339(),
	})
}

// Migrate handles POST /maintenance/migrate
func (h *MaintenanceHandler) Migrate(w http.ResponseWriter, r *http.Request) {
	result, err := h.migrations.Run(r.Context())
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, maintenanceResponse{
		Result:      result,
		CompletedAt: utils.NowRFC3339(),
	})
}
