package leads

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jordanlanch/leadcrm/pkg/database/mongotest"
	"github.com/jordanlanch/leadcrm/pkg/models"
)

func TestMongoRepository(t *testing.T) {
	db := mongotest.NewDatabase(t)
	repo := NewMongoRepository(db)
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	require.NoError(t, repo.EnsureIndexes(ctx))

	now := time.Now().UTC().Truncate(time.Millisecond)
	open := &models.Lead{Name: "Open", Type: "Solar", CreatedBy: "lg", CreatedAt: now, UpdatedAt: now}
	mine := &models.Lead{Name: "Mine", Type: "Solar", CreatedBy: "lg", AssignedTo: strPtr("t1"), CreatedAt: now, UpdatedAt: now}
	dnc := &models.Lead{Name: "Quiet", CreatedBy: "lg", CallDisposition: models.DispositionDoNotCall, CreatedAt: now, UpdatedAt: now}
	for _, l := range []*models.Lead{open, mine, dnc} {
		require.NoError(t, repo.Insert(ctx, l))
	}

	t.Run("filters", func(t *testing.T) {
		inv, err := repo.Find(ctx, Filter{InventoryFor: "t1", ExcludeSuppressed: true})
		require.NoError(t, err)
		require.Len(t, inv, 2)
		assert.Equal(t, open.ID, inv[0].ID)
		assert.Equal(t, mine.ID, inv[1].ID)

		n, err := repo.Count(ctx, Filter{Unassigned: true})
		require.NoError(t, err)
		assert.Equal(t, int64(2), n)

		n, err = repo.Count(ctx, Filter{Assigned: true})
		require.NoError(t, err)
		assert.Equal(t, int64(1), n)
	})

	t.Run("versioned update", func(t *testing.T) {
		v := int64(0)
		got, err := repo.Update(ctx, open.ID.Hex(), &v, func(l *models.Lead) error {
			l.CallDisposition = models.DispositionBooked
			return nil
		})
		require.NoError(t, err)
		assert.Equal(t, int64(1), got.Version)

		_, err = repo.Update(ctx, open.ID.Hex(), &v, func(l *models.Lead) error { return nil })
		assert.ErrorIs(t, err, ErrVersionConflict)

		_, err = repo.Update(ctx, "64b7f0c2a1b2c3d4e5f60718", nil, func(l *models.Lead) error { return nil })
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("group counts", func(t *testing.T) {
		byDisposition, err := repo.CountByDisposition(ctx)
		require.NoError(t, err)
		assert.Equal(t, int64(1), byDisposition[models.DispositionBooked])
		assert.Equal(t, int64(1), byDisposition[models.DispositionDoNotCall])

		byType, err := repo.CountByType(ctx)
		require.NoError(t, err)
		assert.Equal(t, map[string]int64{"Solar": 2}, byType)
	})

	t.Run("delete", func(t *testing.T) {
		deleted, err := repo.Delete(ctx, dnc.ID.Hex())
		require.NoError(t, err)
		assert.Equal(t, "Quiet", deleted.Name)

		_, err = repo.FindByID(ctx, dnc.ID.Hex())
		assert.ErrorIs(t, err, ErrNotFound)
	})
}
