package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/diegoclair/slack-duty-bot/internal/domain"
	"github.com/diegoclair/slack-duty-bot/internal/domain/contract"
	"github.com/sirupsen/logrus"
)

const (
	sweepInterval = "@every 1m"
	jobTimeout    = 2 * time.Minute
)

// scheduler connects the calendar to the rotation: a daily reminder on the
// active days and a sweep that expires unanswered reminders.
type scheduler struct {
	cron     contract.Scheduler
	rotation contract.RotationService
	log      *logrus.Entry

	hour     int
	minute   int
	days     []int
	location *time.Location

	mu      sync.Mutex
	running bool
}

func newScheduler(cron contract.Scheduler, rotation contract.RotationService, log *logrus.Entry, opts Options) *scheduler {
	days := opts.ActiveDays
	if len(days) == 0 {
		days = domain.DefaultActiveDays
	}
	location := opts.Location
	if location == nil {
		location = time.UTC
	}

	return &scheduler{
		cron:     cron,
		rotation: rotation,
		log:      log,
		hour:     opts.ReminderHour,
		minute:   opts.ReminderMinute,
		days:     days,
		location: location,
	}
}

func (s *scheduler) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		return nil
	}

	if err := s.cron.Daily(s.hour, s.minute, s.days, s.runReminder); err != nil {
		return fmt.Errorf("failed to schedule reminder: %w", err)
	}
	if err := s.cron.Every(sweepInterval, s.sweepTimeouts); err != nil {
		return fmt.Errorf("failed to schedule timeout sweep: %w", err)
	}

	s.cron.Start()
	s.running = true

	s.log.Infof("Scheduler started: %02d:%02d %s on %s, next reminder at %s",
		s.hour, s.minute, s.location, domain.FormatDays(s.days),
		s.NextReminder(time.Now()).Format("2006-01-02 15:04 MST"))
	return nil
}

// Stop blocks until a running job has finished (or the cron grace period ran out).
func (s *scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running {
		return
	}
	s.log.Info("Scheduler stopping...")
	s.cron.Stop()
	s.running = false
}

// RunOnce runs one reminder cycle. Expected outcomes such as an empty roster
// or a reminder already sent today are logged and returned for the caller to
// report, they are never fatal.
func (s *scheduler) RunOnce(ctx context.Context) error {
	result, err := s.rotation.Trigger(ctx)
	switch {
	case errors.Is(err, domain.ErrEmptyRoster):
		s.log.Warn("No users in rotation, skipping this cycle")
		return err
	case errors.Is(err, domain.ErrAlreadyNotified), errors.Is(err, domain.ErrShuttingDown):
		s.log.Infof("Reminder not sent: %v", err)
		return err
	case err != nil:
		s.log.WithError(err).Error("Reminder cycle failed")
		return err
	}

	if result.Expired != nil {
		s.log.Infof("Previous reminder for %s expired without an answer", result.Expired.UserID)
	}
	return nil
}

func (s *scheduler) runReminder() {
	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()

	_ = s.RunOnce(ctx)
}

func (s *scheduler) sweepTimeouts() {
	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()

	change, err := s.rotation.ExpirePending(ctx)
	if err != nil {
		s.log.WithError(err).Error("Timeout sweep failed")
		return
	}
	if change != nil {
		s.log.Infof("Reminder for %s timed out, next up %s", change.UserID, change.NextUserID)
	}
}

// NextReminder returns the next firing time strictly after now, in the
// configured location.
func (s *scheduler) NextReminder(now time.Time) time.Time {
	if len(s.days) == 0 {
		return time.Time{}
	}

	activeDaysMap := make(map[int]bool)
	for _, day := range s.days {
		activeDaysMap[day] = true
	}

	now = now.In(s.location)
	today := time.Date(now.Year(), now.Month(), now.Day(), s.hour, s.minute, 0, 0, s.location)

	if activeDaysMap[domain.ISOWeekday(today.Weekday())] && today.After(now) {
		return today
	}

	for i := 1; i <= 7; i++ {
		nextDay := today.AddDate(0, 0, i)
		if activeDaysMap[domain.ISOWeekday(nextDay.Weekday())] {
			return nextDay
		}
	}

	return time.Time{}
}
