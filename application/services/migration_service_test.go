package services

import (
	"context"
	"testing"

	"atlas-backend/domain/core/entities"
	"atlas-backend/domain/core/valueobjects"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestMigrationService_BackfillsCreationYearFromEarliestMention(t *testing.T) {
	// Arrange
	ctx := context.Background()
	elements := newMemElementRepo()
	timeline := newMemTimelineRepo()

	require.NoError(t, elements.Put(ctx, mustElement("loc-1", valueobjects.KindLocation, 0, nil)))
	require.NoError(t, elements.Put(ctx, mustElement("reg-1", valueobjects.KindRegion, 0, nil)))

	// loc-1 mentioned at years 40 and 25: the earliest mention wins
	timeline.doc.EnsureEntry(40).Created = &entities.CreatedByKind{Locations: []string{"loc-1"}}
	timeline.doc.EnsureEntry(25).Created = &entities.CreatedByKind{
		Locations: []string{"loc-1"},
		Regions:   []string{"reg-1"},
	}

	svc := NewMigrationService(elements, timeline, zap.NewNop())

	// Act
	result, err := svc.Run(ctx)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, 2, result.CreationYearsBackfilled)

	loc, err := elements.Get(ctx, valueobjects.KindLocation, "loc-1")
	require.NoError(t, err)
	assert.Equal(t, 25, loc.CreationYear)

	reg, err := elements.Get(ctx, valueobjects.KindRegion, "reg-1")
	require.NoError(t, err)
	assert.Equal(t, 25, reg.CreationYear)
}

func TestMigrationService_LeavesExplicitCreationYearsAlone(t *testing.T) {
	ctx := context.Background()
	elements := newMemElementRepo()
	timeline := newMemTimelineRepo()

	require.NoError(t, elements.Put(ctx, mustElement("loc-1", valueobjects.KindLocation, 77, entities.Attributes{entities.AttrLabelCollision: "hide"})))
	timeline.doc.EnsureEntry(25).Created = &entities.CreatedByKind{Locations: []string{"loc-1"}}

	svc := NewMigrationService(elements, timeline, zap.NewNop())

	result, err := svc.Run(ctx)

	require.NoError(t, err)
	assert.Equal(t, 0, result.CreationYearsBackfilled)

	loc, err := elements.Get(ctx, valueobjects.KindLocation, "loc-1")
	require.NoError(t, err)
	assert.Equal(t, 77, loc.CreationYear)
}

func TestMigrationService_BackfillsLabelCollisionPolicy(t *testing.T) {
	ctx := context.Background()
	elements := newMemElementRepo()
	require.NoError(t, elements.Put(ctx, mustElement("loc-1", valueobjects.KindLocation, 1, entities.Attributes{"name": "Keep"})))
	require.NoError(t, elements.Put(ctx, mustElement("loc-2", valueobjects.KindLocation, 1, entities.Attributes{entities.AttrLabelCollision: "hide"})))

	svc := NewMigrationService(elements, newMemTimelineRepo(), zap.NewNop())

	result, err := svc.Run(ctx)

	require.NoError(t, err)
	assert.Equal(t, 1, result.LabelPoliciesBackfilled)

	patched, err := elements.Get(ctx, valueobjects.KindLocation, "loc-1")
	require.NoError(t, err)
	assert.Equal(t, entities.DefaultLabelCollision, patched.Attrs[entities.AttrLabelCollision])

	// The explicit policy survives
	kept, err := elements.Get(ctx, valueobjects.KindLocation, "loc-2")
	require.NoError(t, err)
	assert.Equal(t, "hide", kept.Attrs[entities.AttrLabelCollision])
}

func TestMigrationService_RunIsIdempotent(t *testing.T) {
	ctx := context.Background()
	elements := newMemElementRepo()
	timeline := newMemTimelineRepo()

	require.NoError(t, elements.Put(ctx, mustElement("loc-1", valueobjects.KindLocation, 0, nil)))
	timeline.doc.EnsureEntry(25).Created = &entities.CreatedByKind{Locations: []string{"loc-1"}}

	svc := NewMigrationService(elements, timeline, zap.NewNop())

	first, err := svc.Run(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, first.CreationYearsBackfilled)
	assert.Equal(t, 1, first.LabelPoliciesBackfilled)

	second, err := svc.Run(ctx)
	require.NoError(t, err)
	assert.Equal(t, MigrationResult{}, second)
}
