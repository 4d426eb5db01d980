package service

import (
	"github.com/diegoclair/slack-duty-bot/internal/domain/contract"
	"github.com/diegoclair/slack-duty-bot/internal/domain/entity"
	"github.com/diegoclair/slack-duty-bot/internal/logger"
	"github.com/sirupsen/logrus"
)

type Instance struct {
	Rotation  *rotationService
	Scheduler *scheduler
}

// NewInstance wires the rotation owner around the state loaded at startup.
func NewInstance(initial entity.State, store contract.StateStore, dm contract.DataManager, notifier contract.Notifier, cron contract.Scheduler, log *logrus.Logger, opts Options) *Instance {
	rotationService := newRotation(initial, store, dm, notifier, logger.Component(log, "rotation"), opts)

	return &Instance{
		Rotation:  rotationService,
		Scheduler: newScheduler(cron, rotationService, logger.Component(log, "scheduler"), opts),
	}
}
