package contract

//go:generate mockgen -source=service.go -destination=../../../mocks/service.go -package=mocks

import (
	"context"
	"time"

	"github.com/diegoclair/slack-duty-bot/internal/domain/entity"
)

type RotationService interface {
	Trigger(ctx context.Context) (*entity.TriggerResult, error)
	OnAction(ctx context.Context, action entity.Action) (*entity.StateChange, error)
	ExpirePending(ctx context.Context) (*entity.StateChange, error)
	AddUser(ctx context.Context, actorID, slackUserID string) (*entity.RosterChange, error)
	RemoveUser(ctx context.Context, actorID, slackUserID string) (*entity.RosterChange, error)
	ListUsers() []string
	Status() entity.Status
	History(ctx context.Context, limit int) ([]*entity.Event, error)
	Shutdown()
}

// Scheduler fires callbacks on a calendar. It is swapped for a fake in tests.
type Scheduler interface {
	// Daily runs fn at hh:mm on the given ISO weekdays in the scheduler's location.
	Daily(hour, minute int, days []int, fn func()) error
	Every(interval string, fn func()) error
	Start()
	Stop()
}

// ReminderSchedule reports when the next reminder fires.
type ReminderSchedule interface {
	NextReminder(now time.Time) time.Time
}
