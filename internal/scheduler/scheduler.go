package scheduler

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

const stopGracePeriod = 30 * time.Second

// Cron runs jobs on wall-clock schedules in a fixed location.
type Cron struct {
	engine *cron.Cron
	log    *logrus.Entry
}

func New(location *time.Location, log *logrus.Entry) *Cron {
	if location == nil {
		location = time.UTC
	}

	logger := cron.PrintfLogger(log)
	return &Cron{
		engine: cron.New(
			cron.WithLocation(location),
			cron.WithChain(cron.Recover(logger), cron.SkipIfStillRunning(logger)),
		),
		log: log,
	}
}

// Daily runs fn at hour:minute on the given ISO weekdays (1 = Monday ... 7 = Sunday).
func (c *Cron) Daily(hour, minute int, days []int, fn func()) error {
	spec, err := DailySpec(hour, minute, days)
	if err != nil {
		return err
	}

	if _, err := c.engine.AddFunc(spec, fn); err != nil {
		return fmt.Errorf("invalid cron spec %q: %w", spec, err)
	}
	c.log.Debugf("Registered daily job %q", spec)
	return nil
}

// Every accepts any cron spec, typically "@every 1m".
func (c *Cron) Every(interval string, fn func()) error {
	if _, err := c.engine.AddFunc(interval, fn); err != nil {
		return fmt.Errorf("invalid interval %q: %w", interval, err)
	}
	c.log.Debugf("Registered periodic job %q", interval)
	return nil
}

func (c *Cron) Start() {
	c.engine.Start()
	c.log.Infof("Cron started with %d job(s)", len(c.engine.Entries()))
}

// Stop waits for running jobs, up to a grace period.
func (c *Cron) Stop() {
	ctx := c.engine.Stop()
	select {
	case <-ctx.Done():
		c.log.Info("Cron stopped")
	case <-time.After(stopGracePeriod):
		c.log.Warn("Cron stop timed out waiting for running jobs")
	}
}

// DailySpec builds the five-field cron expression for a daily job.
func DailySpec(hour, minute int, days []int) (string, error) {
	if hour < 0 || hour > 23 || minute < 0 || minute > 59 {
		return "", fmt.Errorf("invalid time %02d:%02d", hour, minute)
	}
	if len(days) == 0 {
		return "", fmt.Errorf("no active days")
	}

	fields := make([]string, 0, len(days))
	for _, d := range days {
		if d < 1 || d > 7 {
			return "", fmt.Errorf("invalid weekday %d", d)
		}
		// cron counts Sunday as 0
		fields = append(fields, strconv.Itoa(d%7))
	}

	return fmt.Sprintf("%d %d * * %s", minute, hour, strings.Join(fields, ",")), nil
}
