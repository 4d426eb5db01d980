package service

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/diegoclair/slack-duty-bot/internal/domain"
	"github.com/diegoclair/slack-duty-bot/internal/domain/contract"
	"github.com/diegoclair/slack-duty-bot/internal/domain/entity"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// Options are the rotation settings that come from configuration.
type Options struct {
	ChannelID       string
	Role            string
	ResponseTimeout time.Duration
	SlackTimeout    time.Duration
	Location        *time.Location
	AdminUserIDs    []string

	ReminderHour   int
	ReminderMinute int
	ActiveDays     []int
}

// rotationService owns the roster and the rotation index. Every mutation
// happens under mu and is written through to the store before the lock is
// released. Readers use the snapshot and never take the lock.
type rotationService struct {
	mu     sync.Mutex
	state  entity.State
	closed bool

	snapshot        atomic.Pointer[entity.State]
	persistFailures atomic.Int64
	lastPersistErr  atomic.Pointer[string]

	store    contract.StateStore
	dm       contract.DataManager
	notifier contract.Notifier
	log      *logrus.Entry
	opts     Options
	admins   map[string]bool

	now        func() time.Time
	newCycleID func() string
}

func newRotation(initial entity.State, store contract.StateStore, dm contract.DataManager, notifier contract.Notifier, log *logrus.Entry, opts Options) *rotationService {
	if opts.Location == nil {
		opts.Location = time.UTC
	}
	if opts.Role == "" {
		opts.Role = domain.DefaultRole
	}

	admins := make(map[string]bool, len(opts.AdminUserIDs))
	for _, id := range opts.AdminUserIDs {
		admins[id] = true
	}

	s := &rotationService{
		state:      initial.Clone(),
		store:      store,
		dm:         dm,
		notifier:   notifier,
		log:        log,
		opts:       opts,
		admins:     admins,
		now:        time.Now,
		newCycleID: uuid.NewString,
	}
	s.publish()
	return s
}

// Trigger runs the Idle -> Notified transition: the member at the current
// index gets a reminder with confirm and skip buttons. At most one reminder
// goes out per local day.
func (s *rotationService) Trigger(ctx context.Context) (*entity.TriggerResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil, domain.ErrShuttingDown
	}

	userID, ok := s.state.Current()
	if !ok {
		s.log.Warn("Rotation reminder skipped: no users in rotation. Use `/rotation add @user` to add team members")
		return nil, domain.ErrEmptyRoster
	}

	now := s.now()
	result := &entity.TriggerResult{}

	if p := s.state.Pending; p != nil {
		if s.sameDay(p.SentAt, now) {
			s.log.Infof("Reminder for <@%s> is still waiting for an answer, not sending another one today", p.UserID)
			return nil, domain.ErrAlreadyNotified
		}
		// an unanswered reminder from an earlier day counts as timed out
		result.Expired = s.resolveLocked(ctx, entity.ActionTimeout, "")
		userID, _ = s.state.Current()
	} else if last := s.state.LastNotifiedAt; last != nil && s.sameDay(*last, now) {
		s.log.Infof("Reminder already sent today at %s", last.In(s.opts.Location).Format("15:04"))
		return nil, domain.ErrAlreadyNotified
	}

	cycleID := s.newCycleID()

	sendCtx, cancel := context.WithTimeout(ctx, s.opts.SlackTimeout)
	defer cancel()

	handle, err := s.notifier.Send(sendCtx, userID, entity.Reminder{CycleID: cycleID, Role: s.opts.Role})
	if err != nil {
		s.log.WithError(err).Errorf("Failed to send reminder to <@%s>, rotation left unchanged", userID)
		return nil, fmt.Errorf("%w: %v", domain.ErrNotificationDelivery, err)
	}

	sentAt := now
	s.state.LastNotifiedAt = &sentAt
	s.state.Pending = &entity.PendingReminder{
		CycleID:   cycleID,
		UserID:    userID,
		ChannelID: handle.ChannelID,
		MessageTS: handle.MessageTS,
		SentAt:    sentAt,
	}

	result.CycleID = cycleID
	result.UserID = userID
	result.Handle = handle
	result.PersistErr = s.persistLocked()

	s.record(ctx, entity.EventNotified, cycleID, userID, "")
	s.log.Infof("Reminder sent to channel %s for user %s (cycle %s)", handle.ChannelID, userID, cycleID)

	return result, nil
}

// OnAction resolves the pending reminder with a confirm or skip. Both advance
// the index by one; a skip is not a retry of the same member.
func (s *rotationService) OnAction(ctx context.Context, action entity.Action) (*entity.StateChange, error) {
	if action.Kind != entity.ActionConfirm && action.Kind != entity.ActionSkip {
		return nil, fmt.Errorf("unknown action %q", action.Kind)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	p := s.state.Pending
	if p == nil || p.CycleID != action.CycleID {
		s.log.Infof("Ignoring %s from %s for inactive cycle %s", action.Kind, action.ActorID, action.CycleID)
		return nil, domain.ErrStaleAction
	}

	return s.resolveLocked(ctx, action.Kind, action.ActorID), nil
}

// ExpirePending resolves a reminder nobody answered within the response timeout.
// It returns nil when there was nothing to expire.
func (s *rotationService) ExpirePending(ctx context.Context) (*entity.StateChange, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p := s.state.Pending
	if p == nil || s.now().Sub(p.SentAt) < s.opts.ResponseTimeout {
		return nil, nil
	}

	return s.resolveLocked(ctx, entity.ActionTimeout, ""), nil
}

// resolveLocked performs the Notified -> Idle transition. Caller holds mu and
// has checked that a reminder is pending.
func (s *rotationService) resolveLocked(ctx context.Context, kind entity.ActionKind, actorID string) *entity.StateChange {
	p := s.state.Pending
	prev := s.state.Index

	s.advanceLocked()
	s.state.Pending = nil

	next, _ := s.state.Current()
	change := &entity.StateChange{
		Kind:          kind,
		CycleID:       p.CycleID,
		UserID:        p.UserID,
		ActorID:       actorID,
		PreviousIndex: prev,
		Index:         s.state.Index,
		NextUserID:    next,
	}
	change.PersistErr = s.persistLocked()

	eventKind := entity.EventConfirmed
	switch kind {
	case entity.ActionSkip:
		eventKind = entity.EventSkipped
	case entity.ActionTimeout:
		eventKind = entity.EventTimedOut
	}
	s.record(ctx, eventKind, p.CycleID, p.UserID, actorID)

	s.log.Infof("Cycle %s resolved by %s: index %d -> %d, next up %s", p.CycleID, kind, prev, change.Index, next)

	s.updateMessage(ctx, p, resolvedText(kind, p.UserID, actorID, next, s.opts.Role))

	return change
}

// advanceLocked moves the index one step. An empty roster parks it at 0
// before any modulo is attempted.
func (s *rotationService) advanceLocked() {
	if len(s.state.Roster) == 0 {
		s.state.Index = 0
		return
	}
	s.state.Index = (s.state.Index + 1) % len(s.state.Roster)
}

func (s *rotationService) AddUser(ctx context.Context, actorID, slackUserID string) (*entity.RosterChange, error) {
	slackUserID = strings.TrimSpace(slackUserID)
	if slackUserID == "" {
		return nil, errors.New("user id is required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.isAdmin(actorID) {
		return nil, domain.ErrNotAuthorized
	}

	if s.state.Contains(slackUserID) {
		return nil, domain.ErrDuplicateEntry
	}

	// new members rotate in last
	s.state.Roster = append(slices.Clone(s.state.Roster), slackUserID)

	change := &entity.RosterChange{
		UserID: slackUserID,
		Roster: slices.Clone(s.state.Roster),
		Index:  s.state.Index,
	}
	change.PersistErr = s.persistLocked()

	s.record(ctx, entity.EventAdded, "", slackUserID, actorID)
	s.log.Infof("User %s added to rotation by %s", slackUserID, actorID)

	return change, nil
}

// RemoveUser drops a member while keeping "who comes next" stable: removing
// someone before the index shifts it down, removing the member at the index
// leaves it pointing at their successor.
func (s *rotationService) RemoveUser(ctx context.Context, actorID, slackUserID string) (*entity.RosterChange, error) {
	slackUserID = strings.TrimSpace(slackUserID)

	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.isAdmin(actorID) {
		return nil, domain.ErrNotAuthorized
	}

	k := slices.Index(s.state.Roster, slackUserID)
	if k < 0 {
		return nil, domain.ErrNotFound
	}

	s.state.Roster = slices.Delete(slices.Clone(s.state.Roster), k, k+1)

	n := len(s.state.Roster)
	switch {
	case n == 0:
		s.state.Index = 0
	case k < s.state.Index:
		s.state.Index--
	case k == s.state.Index && s.state.Index >= n:
		s.state.Index = 0
	}

	change := &entity.RosterChange{
		UserID: slackUserID,
		Roster: slices.Clone(s.state.Roster),
		Index:  s.state.Index,
	}

	var cancelled *entity.PendingReminder
	if p := s.state.Pending; p != nil && p.UserID == slackUserID {
		cancelled = p
		s.state.Pending = nil
		change.Cancelled = true
	}

	change.PersistErr = s.persistLocked()

	s.record(ctx, entity.EventRemoved, "", slackUserID, actorID)
	if cancelled != nil {
		s.record(ctx, entity.EventCancelled, cancelled.CycleID, slackUserID, actorID)
		s.updateMessage(ctx, cancelled, fmt.Sprintf("🚫 <@%s> was removed from the rotation, this reminder is closed.", slackUserID))
	}
	s.log.Infof("User %s removed from rotation by %s, index now %d", slackUserID, actorID, s.state.Index)

	return change, nil
}

func (s *rotationService) ListUsers() []string {
	return slices.Clone(s.snapshot.Load().Roster)
}

func (s *rotationService) Status() entity.Status {
	state := s.snapshot.Load().Clone()

	status := entity.Status{
		State:           state,
		PersistFailures: s.persistFailures.Load(),
	}
	if cur, ok := state.Current(); ok {
		status.CurrentUserID = cur
		status.NextUserID = state.Roster[state.NextIndex()]
	}
	if msg := s.lastPersistErr.Load(); msg != nil {
		status.LastPersistError = *msg
	}
	return status
}

func (s *rotationService) History(ctx context.Context, limit int) ([]*entity.Event, error) {
	if s.dm == nil {
		return nil, nil
	}
	return s.dm.History().Recent(ctx, limit)
}

// Shutdown refuses further triggers. In-flight work finishes on its own.
func (s *rotationService) Shutdown() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
}

// persistLocked publishes the new snapshot and writes it through. A failed
// write keeps the in-memory change: the next successful write catches the
// file up, until then memory and disk disagree and we say so.
func (s *rotationService) persistLocked() error {
	s.publish()

	if err := s.store.Save(s.state); err != nil {
		s.persistFailures.Add(1)
		msg := err.Error()
		s.lastPersistErr.Store(&msg)
		s.log.WithError(err).Warn("Rotation state changed in memory but could not be saved; memory and disk now diverge")
		return err
	}
	return nil
}

func (s *rotationService) publish() {
	snap := s.state.Clone()
	s.snapshot.Store(&snap)
}

func (s *rotationService) record(ctx context.Context, kind entity.EventKind, cycleID, userID, actorID string) {
	if s.dm == nil {
		return
	}

	event := &entity.Event{
		CycleID:   cycleID,
		Kind:      kind,
		UserID:    userID,
		ActorID:   actorID,
		CreatedAt: s.now(),
	}
	if err := s.dm.History().Record(ctx, event); err != nil {
		s.log.WithError(err).Warnf("Failed to record %s event for %s", kind, userID)
	}
}

func (s *rotationService) updateMessage(ctx context.Context, p *entity.PendingReminder, text string) {
	if p.MessageTS == "" {
		return
	}

	updateCtx, cancel := context.WithTimeout(ctx, s.opts.SlackTimeout)
	defer cancel()

	handle := entity.NotificationHandle{ChannelID: p.ChannelID, MessageTS: p.MessageTS}
	if err := s.notifier.Update(updateCtx, handle, text); err != nil {
		s.log.WithError(err).Warnf("Failed to update reminder message %s", p.MessageTS)
	}
}

func (s *rotationService) isAdmin(userID string) bool {
	return len(s.admins) == 0 || s.admins[userID]
}

func (s *rotationService) sameDay(a, b time.Time) bool {
	ay, am, ad := a.In(s.opts.Location).Date()
	by, bm, bd := b.In(s.opts.Location).Date()
	return ay == by && am == bm && ad == bd
}

func resolvedText(kind entity.ActionKind, userID, actorID, nextUserID, role string) string {
	switch kind {
	case entity.ActionSkip:
		if actorID != "" && actorID != userID {
			return fmt.Sprintf("⏭️ <@%s> skipped <@%s>. Next up: <@%s>.", actorID, userID, nextUserID)
		}
		return fmt.Sprintf("⏭️ <@%s> skipped. Next up: <@%s>.", userID, nextUserID)
	case entity.ActionTimeout:
		return fmt.Sprintf("⌛ No answer from <@%s>, the rotation moved on. Next up: <@%s>.", userID, nextUserID)
	default:
		return fmt.Sprintf("✅ <@%s> confirmed: %s today. Next up: <@%s>.", userID, role, nextUserID)
	}
}
