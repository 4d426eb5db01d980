package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/diegoclair/slack-duty-bot/internal/handlers"
	"github.com/diegoclair/slack-duty-bot/internal/logger"
	"github.com/spf13/cobra"
)

const shutdownTimeout = 10 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP server and the daily scheduler (default)",
	RunE:  runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer a.close()

	sched := a.instance.Scheduler
	if a.cfg.SchedulerEnabled {
		if err := sched.Start(); err != nil {
			return err
		}
		defer sched.Stop()
	} else {
		a.log.Info("Scheduler disabled, only serving Slack requests")
	}

	slackHandler := handlers.New(a.instance.Rotation, a.notifier, sched, a.cfg.SlackSigningSecret, a.cfg.Location(), logger.Component(a.log, "handler"))
	health := handlers.NewHealth(a.instance.Rotation, map[string]handlers.Pinger{"database": a.db}, logger.Component(a.log, "health"))

	mux := http.NewServeMux()
	mux.HandleFunc("POST /slack/commands", slackHandler.HandleSlashCommand)
	mux.HandleFunc("POST /slack/interactions", slackHandler.HandleInteraction)
	mux.HandleFunc("GET /health", health.HandleHealth)
	mux.HandleFunc("GET /ready", health.HandleReady)
	mux.HandleFunc("GET /metrics", health.HandleMetrics)

	server := &http.Server{
		Addr:              ":" + a.cfg.Port,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		a.log.Infof("Server starting on port %s", a.cfg.Port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		return err
	case <-ctx.Done():
	}

	a.log.Info("Shutting down...")

	// stop taking reminders before the server drains in-flight button presses
	if a.cfg.SchedulerEnabled {
		sched.Stop()
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		a.log.WithError(err).Warn("Server did not shut down cleanly")
	}

	// button presses acked just before shutdown still get applied
	slackHandler.Wait()

	a.log.Info("Bye")
	return nil
}
