package database

import (
	"context"
	"testing"
	"time"

	"github.com/diegoclair/slack-duty-bot/internal/domain/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHistoryRepo_Record(t *testing.T) {
	db := SetupTestDB(t)
	defer db.Close()

	repo := newHistoryRepo(db.conn)
	ctx := context.Background()

	t.Run("should record event successfully", func(t *testing.T) {
		event := &entity.Event{
			CycleID:   "cycle-1",
			Kind:      entity.EventNotified,
			UserID:    "U123456789",
			CreatedAt: time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC),
		}

		err := repo.Record(ctx, event)

		require.NoError(t, err)
		assert.NotZero(t, event.ID)
	})

	t.Run("should default created_at when empty", func(t *testing.T) {
		event := &entity.Event{
			Kind:    entity.EventAdded,
			UserID:  "U987654321",
			ActorID: "UADMIN",
		}

		err := repo.Record(ctx, event)

		require.NoError(t, err)
		assert.NotZero(t, event.ID)
		assert.False(t, event.CreatedAt.IsZero())
	})
}

func TestHistoryRepo_Recent(t *testing.T) {
	db := SetupTestDB(t)
	defer db.Close()

	repo := newHistoryRepo(db.conn)
	ctx := context.Background()

	t.Run("should return empty list when there is no history", func(t *testing.T) {
		events, err := repo.Recent(ctx, 5)

		require.NoError(t, err)
		assert.Empty(t, events)
	})

	base := time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)
	kinds := []entity.EventKind{entity.EventNotified, entity.EventConfirmed, entity.EventNotified, entity.EventSkipped}
	for i, kind := range kinds {
		err := repo.Record(ctx, &entity.Event{
			CycleID:   "cycle",
			Kind:      kind,
			UserID:    "U1",
			ActorID:   "U2",
			CreatedAt: base.Add(time.Duration(i) * time.Hour),
		})
		require.NoError(t, err)
	}

	t.Run("should return newest events first", func(t *testing.T) {
		events, err := repo.Recent(ctx, 10)

		require.NoError(t, err)
		require.Len(t, events, 4)
		assert.Equal(t, entity.EventSkipped, events[0].Kind)
		assert.Equal(t, entity.EventNotified, events[3].Kind)
		assert.True(t, events[0].CreatedAt.Equal(base.Add(3*time.Hour)))
		assert.Equal(t, "U2", events[0].ActorID)
	})

	t.Run("should honor limit", func(t *testing.T) {
		events, err := repo.Recent(ctx, 2)

		require.NoError(t, err)
		require.Len(t, events, 2)
		assert.Equal(t, entity.EventSkipped, events[0].Kind)
		assert.Equal(t, entity.EventNotified, events[1].Kind)
	})

	t.Run("should use default limit when limit is not positive", func(t *testing.T) {
		events, err := repo.Recent(ctx, 0)

		require.NoError(t, err)
		assert.Len(t, events, 4)
	})
}

func TestNewInstance(t *testing.T) {
	db := SetupTestDB(t)
	defer db.Close()

	dm := NewInstance(db)

	require.NotNil(t, dm)
	require.NotNil(t, dm.History())
}
