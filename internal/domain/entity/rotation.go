package entity

import "time"

// ActionKind is the answer a member gives to a reminder.
type ActionKind string

const (
	ActionConfirm ActionKind = "confirm"
	ActionSkip    ActionKind = "skip"
	ActionTimeout ActionKind = "timeout"
)

// Action is an inbound button press.
type Action struct {
	Kind    ActionKind
	ActorID string
	CycleID string
}

// StateChange describes what a resolved reminder did to the rotation.
type StateChange struct {
	Kind          ActionKind
	CycleID       string
	UserID        string // who was asked
	ActorID       string // who answered, empty on timeout
	PreviousIndex int
	Index         int
	NextUserID    string
	// PersistErr is set when the change is live in memory but could not be written to disk.
	PersistErr error
}

// TriggerResult describes a reminder that was sent.
type TriggerResult struct {
	CycleID string
	UserID  string
	Handle  NotificationHandle
	// Expired is set when a reminder from an earlier day was resolved as a timeout first.
	Expired    *StateChange
	PersistErr error
}

// RosterChange is returned by roster mutations.
type RosterChange struct {
	UserID     string
	Roster     []string
	Index      int
	Cancelled  bool // the removed member had an open reminder
	PersistErr error
}

// Status is a read-only view used by the status command and health endpoints.
type Status struct {
	State            State
	CurrentUserID    string
	NextUserID       string
	PersistFailures  int64
	LastPersistError string
}

// EventKind classifies a history record.
type EventKind string

const (
	EventNotified  EventKind = "notified"
	EventConfirmed EventKind = "confirmed"
	EventSkipped   EventKind = "skipped"
	EventTimedOut  EventKind = "timed_out"
	EventAdded     EventKind = "added"
	EventRemoved   EventKind = "removed"
	EventCancelled EventKind = "cancelled"
)

// Event is one row of the rotation history.
type Event struct {
	ID        int64     `json:"id" db:"id"`
	CycleID   string    `json:"cycle_id,omitempty" db:"cycle_id"`
	Kind      EventKind `json:"kind" db:"kind"`
	UserID    string    `json:"user_id" db:"user_id"`
	ActorID   string    `json:"actor_id,omitempty" db:"actor_id"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}
