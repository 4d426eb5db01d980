package entity

import (
	"slices"
	"time"
)

// State is the persisted rotation snapshot: the roster, whose turn it is, and
// the reminder currently waiting for an answer (if any).
type State struct {
	Roster         []string         `json:"roster"`
	Index          int              `json:"index"`
	LastNotifiedAt *time.Time       `json:"lastNotifiedAt,omitempty"`
	Pending        *PendingReminder `json:"pending,omitempty"`
}

// PendingReminder exists only while a reminder awaits confirm/skip.
type PendingReminder struct {
	CycleID   string    `json:"cycleId"`
	UserID    string    `json:"userId"`
	ChannelID string    `json:"channelId"`
	MessageTS string    `json:"messageTs"`
	SentAt    time.Time `json:"sentAt"`
}

// Clone returns a deep copy so snapshots never share memory with the live state.
func (s State) Clone() State {
	out := State{
		Roster: slices.Clone(s.Roster),
		Index:  s.Index,
	}
	if out.Roster == nil {
		out.Roster = []string{}
	}
	if s.LastNotifiedAt != nil {
		t := *s.LastNotifiedAt
		out.LastNotifiedAt = &t
	}
	if s.Pending != nil {
		p := *s.Pending
		out.Pending = &p
	}
	return out
}

// Current returns the member the index points at.
func (s State) Current() (string, bool) {
	if len(s.Roster) == 0 {
		return "", false
	}
	return s.Roster[s.Index], true
}

// NextIndex is the index after one advance, or 0 for an empty roster.
func (s State) NextIndex() int {
	if len(s.Roster) == 0 {
		return 0
	}
	return (s.Index + 1) % len(s.Roster)
}

// Contains reports whether userID is on the roster.
func (s State) Contains(userID string) bool {
	return slices.Contains(s.Roster, userID)
}

// NotificationHandle identifies a posted reminder so it can be edited later.
type NotificationHandle struct {
	ChannelID string
	MessageTS string
}

// Reminder is what the notifier renders for a single cycle.
type Reminder struct {
	CycleID string
	Role    string
}
