package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/diegoclair/slack-duty-bot/internal/config"
	"github.com/diegoclair/slack-duty-bot/internal/database"
	"github.com/diegoclair/slack-duty-bot/internal/domain"
	"github.com/diegoclair/slack-duty-bot/internal/domain/service"
	"github.com/diegoclair/slack-duty-bot/internal/logger"
	"github.com/diegoclair/slack-duty-bot/internal/scheduler"
	slacknotifier "github.com/diegoclair/slack-duty-bot/internal/slack"
	"github.com/diegoclair/slack-duty-bot/internal/statefile"
	"github.com/diegoclair/slack-duty-bot/migrator/sqlite"
	"github.com/sirupsen/logrus"
	"github.com/slack-go/slack"
	"golang.org/x/time/rate"
)

// app holds everything the commands share. close releases it.
type app struct {
	cfg      *config.Config
	log      *logrus.Logger
	db       *database.DB
	notifier *slacknotifier.Notifier
	instance *service.Instance
	unlock   func() error
}

func loadConfig() (*config.Config, *logrus.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}

	log := logger.New(cfg.LogLevel, cfg.Environment)
	if !cfg.EnvFileLoaded() {
		log.Debug(".env file not found, using process environment only")
	}
	return cfg, log, nil
}

func loadState(cfg *config.Config, log *logrus.Logger) (*statefile.Store, error) {
	store, err := statefile.New(cfg.StateDir, cfg.TeamMembers, logger.Component(log, "statefile"))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrConfiguration, err)
	}
	return store, nil
}

func newApp(ctx context.Context) (_ *app, err error) {
	cfg, log, err := loadConfig()
	if err != nil {
		return nil, err
	}

	store, err := loadState(cfg, log)
	if err != nil {
		return nil, err
	}

	// one process owns the snapshot; a second one would overwrite the first one's cycles
	unlock, err := store.Lock()
	if errors.Is(err, domain.ErrStateLocked) {
		return nil, fmt.Errorf("%w. Stop the server first, or use `/rotation remind` in Slack", err)
	} else if err != nil {
		return nil, err
	}
	defer func() {
		if err != nil {
			_ = unlock()
		}
	}()

	initial, err := store.Load()
	if errors.Is(err, domain.ErrCorruptState) {
		// Load already fell back to a usable state
		log.WithError(err).Warn("Rotation state was not loaded cleanly")
		err = nil
	} else if err != nil {
		return nil, err
	}

	db, err := database.New(cfg.DatabasePath)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	log.Info("Running migrations...")
	if err := sqlite.Migrate(db.DB()); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}
	log.Info("Migrations completed successfully")

	client := slack.New(cfg.SlackBotToken)
	limiter := rate.NewLimiter(rate.Limit(cfg.SlackRateLimit), cfg.SlackRateBurst)
	notifier := slacknotifier.NewNotifier(client, cfg.SlackChannelID, limiter, logger.Component(log, "slack"))

	authCtx, cancel := context.WithTimeout(ctx, cfg.SlackTimeout)
	defer cancel()
	if botID, err := notifier.CheckAuth(authCtx); err != nil {
		log.WithError(err).Warn("Slack auth check failed, reminders may not be delivered")
	} else {
		log.Infof("Connected to Slack as %s", botID)
	}

	hour, minute := cfg.ReminderAt()
	cron := scheduler.New(cfg.Location(), logger.Component(log, "cron"))

	instance := service.NewInstance(initial, store, database.NewInstance(db), notifier, cron, log, service.Options{
		ChannelID:       cfg.SlackChannelID,
		Role:            cfg.Role,
		ResponseTimeout: cfg.ResponseTimeout,
		SlackTimeout:    cfg.SlackTimeout,
		Location:        cfg.Location(),
		AdminUserIDs:    cfg.AdminUserIDs,
		ReminderHour:    hour,
		ReminderMinute:  minute,
		ActiveDays:      cfg.ActiveDays(),
	})

	log.Infof("Rotation loaded: %d member(s), state file %s", len(initial.Roster), store.Path())

	return &app{
		cfg:      cfg,
		log:      log,
		db:       db,
		notifier: notifier,
		instance: instance,
		unlock:   unlock,
	}, nil
}

func (a *app) close() {
	a.instance.Rotation.Shutdown()
	if err := a.db.Close(); err != nil {
		a.log.WithError(err).Warn("Failed to close database")
	}
	if err := a.unlock(); err != nil {
		a.log.WithError(err).Warn("Failed to release state lock")
	}
}
