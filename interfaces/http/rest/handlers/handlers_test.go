package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"atlas-backend/application/services"
	"atlas-backend/infrastructure/persistence/file"
	pkgerrors "atlas-backend/pkg/errors"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// testEnv wires real services over file stores in a temp dir, so handler
// tests cover the full parse-execute-respond path.
type testEnv struct {
	elements   *services.ElementService
	snapshots  *services.SnapshotService
	timeline   *services.TimelineService
	history    *services.HistoryService
	epochs     *services.EpochService
	migrations *services.MigrationService
	errors     *pkgerrors.ErrorHandler
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	dir := t.TempDir()
	logger := zap.NewNop()

	elementStore, err := file.NewElementStore(dir, logger)
	require.NoError(t, err)
	timelineStore, err := file.NewTimelineStore(dir, false, logger)
	require.NoError(t, err)
	t.Cleanup(func() { timelineStore.Close() })

	history := services.NewHistoryService(timelineStore, logger)
	return &testEnv{
		elements:   services.NewElementService(elementStore, history, logger),
		snapshots:  services.NewSnapshotService(elementStore, timelineStore, logger),
		timeline:   services.NewTimelineService(timelineStore, logger),
		history:    history,
		epochs:     services.NewEpochService(timelineStore, logger),
		migrations: services.NewMigrationService(elementStore, timelineStore, logger),
		errors:     pkgerrors.NewErrorHandler(logger, false),
	}
}

func (env *testEnv) router() http.Handler {
	r := chi.NewRouter()

	elementHandler := NewElementHandler(env.elements, env.snapshots, env.errors, zap.NewNop())
	timelineHandler := NewTimelineHandler(env.timeline, env.history, env.errors, zap.NewNop())
	epochHandler := NewEpochHandler(env.epochs, env.errors, zap.NewNop())
	maintenanceHandler := NewMaintenanceHandler(env.history, env.migrations, env.errors, zap.NewNop())

	r.Route("/elements/{kind}", func(r chi.Router) {
		r.Get("/", elementHandler.ListElements)
		r.Post("/", elementHandler.CreateElement)
		r.Get("/{elementID}", elementHandler.GetElement)
		r.Put("/{elementID}", elementHandler.UpdateElement)
		r.Delete("/{elementID}", elementHandler.DeleteElement)
	})
	r.Route("/timeline", func(r chi.Router) {
		r.Get("/entries", timelineHandler.ListEntries)
		r.Put("/entries/{year}", timelineHandler.UpdateEntry)
		r.Delete("/entries/{year}", timelineHandler.DeleteEntry)
		r.Post("/changes", timelineHandler.RecordChange)
		r.Delete("/history/{kind}/{elementID}", timelineHandler.DeleteHistory)
	})
	r.Route("/epochs", func(r chi.Router) {
		r.Get("/", epochHandler.ListEpochs)
		r.Post("/", epochHandler.CreateEpoch)
		r.Put("/{epochID}", epochHandler.UpdateEpoch)
		r.Delete("/{epochID}", epochHandler.DeleteEpoch)
	})
	r.Route("/maintenance", func(r chi.Router) {
		r.Post("/consolidate", maintenanceHandler.Consolidate)
		r.Post("/migrate", maintenanceHandler.Migrate)
	})
	return r
}

// do runs one request through the router and decodes the JSON response
func do(t *testing.T, router http.Handler, method, path string, body interface{}) (*httptest.ResponseRecorder, map[string]interface{}) {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	decoded := map[string]interface{}{}
	if rec.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &decoded))
	}
	return rec, decoded
}
