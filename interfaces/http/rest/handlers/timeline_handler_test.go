package handlers

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTimelineHandler_RecordChangeAndList(t *testing.T) {
	router := newTestEnv(t).router()

	rec, recorded := do(t, router, http.MethodPost, "/timeline/changes", map[string]interface{}{
		"year": 10, "elementId": "loc-1", "kind": "locations",
		"type": "updated", "patch": map[string]interface{}{"name": "Keep"},
	})
	require.Equal(t, http.StatusOK, rec.Code)
	entry := recorded["data"].(map[string]interface{})
	assert.Equal(t, 10.0, entry["year"])

	rec, listed := do(t, router, http.MethodGet, "/timeline/entries", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	entries := listed["data"].([]interface{})
	require.Len(t, entries, 1)
}

func TestTimelineHandler_RecordChangeValidation(t *testing.T) {
	router := newTestEnv(t).router()

	// Missing elementId
	rec, body := do(t, router, http.MethodPost, "/timeline/changes", map[string]interface{}{
		"year": 10, "kind": "locations", "type": "deleted",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "VALIDATION", body["type"])

	// Unknown change type
	rec, _ = do(t, router, http.MethodPost, "/timeline/changes", map[string]interface{}{
		"year": 10, "elementId": "loc-1", "kind": "locations", "type": "renamed",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	// Unknown kind
	rec, _ = do(t, router, http.MethodPost, "/timeline/changes", map[string]interface{}{
		"year": 10, "elementId": "loc-1", "kind": "castles", "type": "deleted",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestTimelineHandler_UpdateAndDeleteEntry(t *testing.T) {
	router := newTestEnv(t).router()

	rec, _ := do(t, router, http.MethodPost, "/timeline/changes", map[string]interface{}{
		"year": 10, "elementId": "loc-1", "kind": "locations", "type": "deleted",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	rec, updated := do(t, router, http.MethodPut, "/timeline/entries/10", map[string]interface{}{
		"age":   "Age of Ruin",
		"notes": []map[string]interface{}{{"text": "the fall"}},
	})
	require.Equal(t, http.StatusOK, rec.Code)
	entry := updated["data"].(map[string]interface{})
	assert.Equal(t, "Age of Ruin", entry["age"])

	rec, _ = do(t, router, http.MethodPut, "/timeline/entries/99", map[string]interface{}{"age": "x"})
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec, _ = do(t, router, http.MethodDelete, "/timeline/entries/10", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	rec, _ = do(t, router, http.MethodDelete, "/timeline/entries/10", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestTimelineHandler_DeleteHistory(t *testing.T) {
	router := newTestEnv(t).router()

	for _, year := range []int{10, 20, 30} {
		rec, _ := do(t, router, http.MethodPost, "/timeline/changes", map[string]interface{}{
			"year": year, "elementId": "loc-1", "kind": "locations",
			"type": "updated", "patch": map[string]interface{}{"pop": year},
		})
		require.Equal(t, http.StatusOK, rec.Code)
	}

	// Rewind past year 20: only year 30 goes
	rec, result := do(t, router, http.MethodDelete, "/timeline/history/locations/loc-1?after=20", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	data := result["data"].(map[string]interface{})
	assert.Equal(t, 1.0, data["entriesTouched"])

	// Full purge removes the rest
	rec, result = do(t, router, http.MethodDelete, "/timeline/history/locations/loc-1", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	data = result["data"].(map[string]interface{})
	assert.Equal(t, 2.0, data["entriesTouched"])

	rec, listed := do(t, router, http.MethodGet, "/timeline/entries", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, listed["data"])
}
