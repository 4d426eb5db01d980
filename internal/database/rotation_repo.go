package database

import (
	"context"
	"fmt"
	"time"

	"github.com/diegoclair/slack-duty-bot/internal/domain/contract"
	"github.com/diegoclair/slack-duty-bot/internal/domain/entity"
)

const defaultHistoryLimit = 10

type historyRepo struct {
	db dbConn
}

func newHistoryRepo(db dbConn) contract.HistoryRepo {
	return &historyRepo{db: db}
}

func (r *historyRepo) Record(ctx context.Context, event *entity.Event) error {
	query := `
		INSERT INTO rotation_events (cycle_id, kind, user_id, actor_id, created_at)
		VALUES (?, ?, ?, ?, ?)
	`

	if event.CreatedAt.IsZero() {
		event.CreatedAt = time.Now()
	}

	result, err := r.db.ExecContext(ctx, query,
		event.CycleID,
		string(event.Kind),
		event.UserID,
		event.ActorID,
		event.CreatedAt.UTC(),
	)
	if err != nil {
		return fmt.Errorf("failed to record rotation event: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}

	event.ID = id
	return nil
}

// Recent returns the newest events first.
func (r *historyRepo) Recent(ctx context.Context, limit int) ([]*entity.Event, error) {
	if limit <= 0 {
		limit = defaultHistoryLimit
	}

	query := `
		SELECT id, cycle_id, kind, user_id, actor_id, created_at
		FROM rotation_events
		ORDER BY created_at DESC, id DESC
		LIMIT ?
	`

	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get rotation events: %w", err)
	}
	defer rows.Close()

	var events []*entity.Event
	for rows.Next() {
		event := &entity.Event{}
		var kind string
		err := rows.Scan(
			&event.ID,
			&event.CycleID,
			&kind,
			&event.UserID,
			&event.ActorID,
			&event.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan rotation event: %w", err)
		}
		event.Kind = entity.EventKind(kind)
		events = append(events, event)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate rotation events: %w", err)
	}

	return events, nil
}
