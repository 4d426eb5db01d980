package contract

//go:generate mockgen -source=repo.go -destination=../../../mocks/repo.go -package=mocks

import (
	"context"

	"github.com/diegoclair/slack-duty-bot/internal/domain/entity"
)

// StateStore persists the rotation snapshot.
type StateStore interface {
	// Load returns the persisted state. A wrapped domain.ErrCorruptState comes back
	// together with a usable fallback state.
	Load() (entity.State, error)
	// Save replaces the persisted snapshot atomically.
	Save(state entity.State) error
}

// DataManager aggregates all repository interfaces
type DataManager interface {
	History() HistoryRepo
}

// HistoryRepo defines the contract for the rotation history repository
type HistoryRepo interface {
	Record(ctx context.Context, event *entity.Event) error
	Recent(ctx context.Context, limit int) ([]*entity.Event, error)
}
