package services

import (
	"context"
	"testing"

	"atlas-backend/domain/core/entities"
	"atlas-backend/domain/core/valueobjects"
	pkgerrors "atlas-backend/pkg/errors"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newElementService(elements *memElementRepo, timeline *memTimelineRepo) *ElementService {
	history := NewHistoryService(timeline, zap.NewNop())
	return NewElementService(elements, history, zap.NewNop())
}

func TestElementService_Create_GeneratesIDWhenAbsent(t *testing.T) {
	ctx := context.Background()
	svc := newElementService(newMemElementRepo(), newMemTimelineRepo())

	element, err := svc.Create(ctx, valueobjects.KindLocation, "", 12, entities.Attributes{"name": "Keep"})

	require.NoError(t, err)
	_, parseErr := uuid.Parse(element.ID)
	assert.NoError(t, parseErr)
	assert.Equal(t, 12, element.CreationYear)
}

func TestElementService_Create_KeepsSuppliedID(t *testing.T) {
	ctx := context.Background()
	elements := newMemElementRepo()
	svc := newElementService(elements, newMemTimelineRepo())

	element, err := svc.Create(ctx, valueobjects.KindRegion, "reg-1", 0, nil)

	require.NoError(t, err)
	assert.Equal(t, "reg-1", element.ID)

	stored, err := elements.Get(ctx, valueobjects.KindRegion, "reg-1")
	require.NoError(t, err)
	assert.Equal(t, "reg-1", stored.ID)
}

func TestElementService_Update(t *testing.T) {
	ctx := context.Background()
	elements := newMemElementRepo()
	require.NoError(t, elements.Put(ctx, mustElement("loc-1", valueobjects.KindLocation, 5, entities.Attributes{"name": "Old"})))
	svc := newElementService(elements, newMemTimelineRepo())

	year := 9
	updated, err := svc.Update(ctx, valueobjects.KindLocation, "loc-1", &year, entities.Attributes{"name": "New"})

	require.NoError(t, err)
	assert.Equal(t, 9, updated.CreationYear)
	assert.Equal(t, "New", updated.Attrs["name"])

	// Nil creationYear leaves the stored value alone
	updated, err = svc.Update(ctx, valueobjects.KindLocation, "loc-1", nil, entities.Attributes{"name": "Newer"})
	require.NoError(t, err)
	assert.Equal(t, 9, updated.CreationYear)
	assert.Equal(t, "Newer", updated.Attrs["name"])
}

func TestElementService_Update_NotFound(t *testing.T) {
	svc := newElementService(newMemElementRepo(), newMemTimelineRepo())

	_, err := svc.Update(context.Background(), valueobjects.KindLocation, "missing", nil, nil)

	assert.True(t, pkgerrors.IsNotFound(err))
}

func TestElementService_Delete_PurgesHistory(t *testing.T) {
	ctx := context.Background()
	elements := newMemElementRepo()
	timeline := newMemTimelineRepo()
	require.NoError(t, elements.Put(ctx, mustElement("loc-1", valueobjects.KindLocation, 0, nil)))
	timeline.doc.EnsureEntry(10).EnsureChanges().SetModified(valueobjects.KindLocation, "loc-1", entities.Attributes{"name": "Keep"})

	svc := newElementService(elements, timeline)

	require.NoError(t, svc.Delete(ctx, valueobjects.KindLocation, "loc-1"))

	_, err := elements.Get(ctx, valueobjects.KindLocation, "loc-1")
	assert.True(t, pkgerrors.IsNotFound(err))
	// The purge dropped the now-bare year entry too
	assert.Empty(t, timeline.doc.Entries)
}

func TestElementService_Delete_NotFound(t *testing.T) {
	svc := newElementService(newMemElementRepo(), newMemTimelineRepo())

	err := svc.Delete(context.Background(), valueobjects.KindLocation, "missing")

	assert.True(t, pkgerrors.IsNotFound(err))
}
