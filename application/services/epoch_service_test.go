package services

import (
	"context"
	"testing"

	"atlas-backend/domain/core/entities"
	pkgerrors "atlas-backend/pkg/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func intPtr(v int) *int    { return &v }
func boolPtr(v bool) *bool { return &v }

func TestEpochService_Create_AppliesDefaults(t *testing.T) {
	// Arrange
	ctx := context.Background()
	repo := newMemTimelineRepo()
	svc := NewEpochService(repo, zap.NewNop())

	// Act
	epoch, err := svc.Create(ctx, EpochInput{
		Name:      "First Age",
		StartYear: intPtr(0),
		EndYear:   intPtr(100),
	})

	// Assert
	require.NoError(t, err)
	assert.NotEmpty(t, epoch.ID)
	assert.Equal(t, entities.DefaultEpochColor, epoch.Color)
	assert.True(t, epoch.ShowEndDate)
	assert.False(t, epoch.RestartAtZero)
	require.Len(t, repo.doc.Epochs, 1)
}

func TestEpochService_Create_ExplicitDisplayFlags(t *testing.T) {
	ctx := context.Background()
	svc := NewEpochService(newMemTimelineRepo(), zap.NewNop())

	epoch, err := svc.Create(ctx, EpochInput{
		Name:         "Countdown Era",
		StartYear:    intPtr(0),
		EndYear:      intPtr(50),
		Color:        "#112233",
		ShowEndDate:  boolPtr(false),
		ReverseYears: boolPtr(true),
	})

	require.NoError(t, err)
	assert.Equal(t, "#112233", epoch.Color)
	assert.False(t, epoch.ShowEndDate)
	assert.True(t, epoch.ReverseYears)
}

func TestEpochService_Create_Validation(t *testing.T) {
	ctx := context.Background()
	svc := NewEpochService(newMemTimelineRepo(), zap.NewNop())

	_, err := svc.Create(ctx, EpochInput{Name: "No Years"})
	assert.True(t, pkgerrors.IsValidation(err))

	_, err = svc.Create(ctx, EpochInput{StartYear: intPtr(0), EndYear: intPtr(10)})
	assert.True(t, pkgerrors.IsValidation(err))

	_, err = svc.Create(ctx, EpochInput{Name: "Inverted", StartYear: intPtr(10), EndYear: intPtr(10)})
	assert.True(t, pkgerrors.IsValidation(err))
}

func TestEpochService_Create_RejectsOverlap(t *testing.T) {
	ctx := context.Background()
	repo := newMemTimelineRepo()
	svc := NewEpochService(repo, zap.NewNop())

	_, err := svc.Create(ctx, EpochInput{Name: "First Age", StartYear: intPtr(0), EndYear: intPtr(100)})
	require.NoError(t, err)

	// Shares the boundary year 100, closed intervals overlap
	_, err = svc.Create(ctx, EpochInput{Name: "Second Age", StartYear: intPtr(100), EndYear: intPtr(200)})
	assert.True(t, pkgerrors.IsValidation(err))
	require.Len(t, repo.doc.Epochs, 1)

	// Fully disjoint range is fine
	_, err = svc.Create(ctx, EpochInput{Name: "Second Age", StartYear: intPtr(101), EndYear: intPtr(200)})
	assert.NoError(t, err)
}

func TestEpochService_Create_KeepsEpochsSortedByStartYear(t *testing.T) {
	ctx := context.Background()
	repo := newMemTimelineRepo()
	svc := NewEpochService(repo, zap.NewNop())

	_, err := svc.Create(ctx, EpochInput{Name: "Later", StartYear: intPtr(200), EndYear: intPtr(300)})
	require.NoError(t, err)
	_, err = svc.Create(ctx, EpochInput{Name: "Earlier", StartYear: intPtr(0), EndYear: intPtr(100)})
	require.NoError(t, err)

	epochs, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, epochs, 2)
	assert.Equal(t, "Earlier", epochs[0].Name)
	assert.Equal(t, "Later", epochs[1].Name)
}

func TestEpochService_Update_ExcludesSelfFromOverlapCheck(t *testing.T) {
	ctx := context.Background()
	repo := newMemTimelineRepo()
	svc := NewEpochService(repo, zap.NewNop())

	created, err := svc.Create(ctx, EpochInput{Name: "First Age", StartYear: intPtr(0), EndYear: intPtr(100)})
	require.NoError(t, err)

	// Shrinking within its own range must not collide with itself
	updated, err := svc.Update(ctx, created.ID, EpochInput{EndYear: intPtr(80)})
	require.NoError(t, err)
	assert.Equal(t, 80, updated.EndYear)
	assert.Equal(t, "First Age", updated.Name)
}

func TestEpochService_Update_RejectsOverlapWithOthers(t *testing.T) {
	ctx := context.Background()
	svc := NewEpochService(newMemTimelineRepo(), zap.NewNop())

	first, err := svc.Create(ctx, EpochInput{Name: "First Age", StartYear: intPtr(0), EndYear: intPtr(100)})
	require.NoError(t, err)
	_, err = svc.Create(ctx, EpochInput{Name: "Second Age", StartYear: intPtr(101), EndYear: intPtr(200)})
	require.NoError(t, err)

	_, err = svc.Update(ctx, first.ID, EpochInput{EndYear: intPtr(150)})
	assert.True(t, pkgerrors.IsValidation(err))
}

func TestEpochService_Update_NotFound(t *testing.T) {
	svc := NewEpochService(newMemTimelineRepo(), zap.NewNop())

	_, err := svc.Update(context.Background(), "missing", EpochInput{})

	assert.True(t, pkgerrors.IsNotFound(err))
}

func TestEpochService_Delete(t *testing.T) {
	ctx := context.Background()
	repo := newMemTimelineRepo()
	svc := NewEpochService(repo, zap.NewNop())

	created, err := svc.Create(ctx, EpochInput{Name: "First Age", StartYear: intPtr(0), EndYear: intPtr(100)})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, created.ID))
	assert.Empty(t, repo.doc.Epochs)

	err = svc.Delete(ctx, created.ID)
	assert.True(t, pkgerrors.IsNotFound(err))
}
