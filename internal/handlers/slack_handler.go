package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/diegoclair/slack-duty-bot/internal/domain"
	"github.com/diegoclair/slack-duty-bot/internal/domain/contract"
	"github.com/diegoclair/slack-duty-bot/internal/domain/entity"
	slackcmd "github.com/diegoclair/slack-duty-bot/internal/domain/slack"
	"github.com/sirupsen/logrus"
	"github.com/slack-go/slack"
)

const (
	defaultHistoryLimit = 10
	maxHistoryLimit     = 50

	// Slack wants an answer within 3 seconds; slower work runs after the ack
	backgroundTimeout = 30 * time.Second

	persistWarning = "\n\n⚠️ The change is live, but the state file could not be written. It will be retried on the next change."
	staleNotice    = "This reminder is no longer active. It was already answered, expired, or replaced by a newer one."
)

type SlackHandler struct {
	rotationService contract.RotationService
	notifier        contract.Notifier
	schedule        contract.ReminderSchedule
	signingSecret   string
	location        *time.Location
	log             *logrus.Entry
	now             func() time.Time

	background sync.WaitGroup
}

func New(rotationService contract.RotationService, notifier contract.Notifier, schedule contract.ReminderSchedule, signingSecret string, location *time.Location, log *logrus.Entry) *SlackHandler {
	if location == nil {
		location = time.UTC
	}
	return &SlackHandler{
		rotationService: rotationService,
		notifier:        notifier,
		schedule:        schedule,
		signingSecret:   signingSecret,
		location:        location,
		log:             log,
		now:             time.Now,
	}
}

// Wait blocks until work started after an ack has finished.
func (h *SlackHandler) Wait() {
	h.background.Wait()
}

func (h *SlackHandler) goBackground(parent context.Context, fn func(ctx context.Context)) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(parent), backgroundTimeout)
	h.background.Add(1)
	go func() {
		defer h.background.Done()
		defer cancel()
		fn(ctx)
	}()
}

func (h *SlackHandler) HandleSlashCommand(w http.ResponseWriter, r *http.Request) {
	if !h.verifyRequest(w, r) {
		return
	}

	// Parse command
	s, err := slack.SlashCommandParse(r)
	if err != nil {
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	// Parse our command
	cmd, err := slackcmd.ParseCommand(s.Text)
	if err != nil {
		h.respondWithError(w, fmt.Sprintf("%s. Try `%s help`", err.Error(), s.Command))
		return
	}

	h.log.Debugf("Command %q from %s in %s", s.Text, s.UserID, s.ChannelID)

	// Handle command
	response := h.handleCommand(r.Context(), cmd, &s)

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(response)
}

// HandleInteraction receives button presses on reminder messages. It acks
// right away and applies the press in the background; outcomes are reported by
// editing the reminder or with an ephemeral notice to whoever pressed.
func (h *SlackHandler) HandleInteraction(w http.ResponseWriter, r *http.Request) {
	if !h.verifyRequest(w, r) {
		return
	}

	if err := r.ParseForm(); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	var callback slack.InteractionCallback
	if err := json.Unmarshal([]byte(r.PostFormValue("payload")), &callback); err != nil {
		h.log.WithError(err).Warn("Invalid interaction payload")
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	if callback.Type != slack.InteractionTypeBlockActions {
		w.WriteHeader(http.StatusOK)
		return
	}

	var actions []entity.Action
	for _, action := range callback.ActionCallback.BlockActions {
		kind, ok := actionKind(action.ActionID)
		if !ok {
			continue
		}
		actions = append(actions, entity.Action{
			Kind:    kind,
			ActorID: callback.User.ID,
			CycleID: action.Value,
		})
	}

	if len(actions) > 0 {
		// resolving edits the reminder through Slack, which can outlast the ack window
		h.goBackground(r.Context(), func(ctx context.Context) {
			for _, action := range actions {
				h.handleAction(ctx, &callback, action)
			}
		})
	}

	w.WriteHeader(http.StatusOK)
}

func (h *SlackHandler) handleAction(ctx context.Context, callback *slack.InteractionCallback, action entity.Action) {
	change, err := h.rotationService.OnAction(ctx, action)
	switch {
	case errors.Is(err, domain.ErrStaleAction):
		h.notice(ctx, callback, staleNotice)
		return
	case err != nil:
		h.log.WithError(err).Errorf("Failed to apply %s from %s", action.Kind, action.ActorID)
		h.notice(ctx, callback, "❌ Something went wrong while recording your answer. Please try again.")
		return
	}

	if change.PersistErr != nil {
		h.notice(ctx, callback, strings.TrimSpace(persistWarning))
	}
}

func (h *SlackHandler) notice(ctx context.Context, callback *slack.InteractionCallback, text string) {
	if err := h.notifier.Notice(ctx, callback.Channel.ID, callback.User.ID, text); err != nil {
		h.log.WithError(err).Warnf("Failed to send notice to %s", callback.User.ID)
	}
}

func actionKind(actionID string) (entity.ActionKind, bool) {
	switch actionID {
	case domain.ActionIDConfirm:
		return entity.ActionConfirm, true
	case domain.ActionIDSkip:
		return entity.ActionSkip, true
	}
	return "", false
}

// verifyRequest checks the Slack signature and leaves r.Body readable again.
func (h *SlackHandler) verifyRequest(w http.ResponseWriter, r *http.Request) bool {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		w.WriteHeader(http.StatusBadRequest)
		return false
	}
	r.Body = io.NopCloser(bytes.NewBuffer(body))

	verifier, err := slack.NewSecretsVerifier(r.Header, h.signingSecret)
	if err != nil {
		w.WriteHeader(http.StatusUnauthorized)
		return false
	}

	if _, err := verifier.Write(body); err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		return false
	}

	if err := verifier.Ensure(); err != nil {
		h.log.Warnf("Rejected request with invalid signature from %s", r.RemoteAddr)
		w.WriteHeader(http.StatusUnauthorized)
		return false
	}

	return true
}

func (h *SlackHandler) handleCommand(ctx context.Context, cmd *slackcmd.Command, slashCmd *slack.SlashCommand) *slack.Msg {
	switch cmd.Type {
	case slackcmd.CmdAdd:
		return h.handleAddUser(ctx, cmd, slashCmd)
	case slackcmd.CmdRemove:
		return h.handleRemoveUser(ctx, cmd, slashCmd)
	case slackcmd.CmdList:
		return h.handleListUsers()
	case slackcmd.CmdStatus:
		return h.handleStatus()
	case slackcmd.CmdHistory:
		return h.handleHistory(ctx, cmd)
	case slackcmd.CmdRemind:
		return h.handleRemind(ctx, slashCmd)
	case slackcmd.CmdHelp:
		return h.handleHelp()
	default:
		return h.createErrorResponse("Unknown command")
	}
}

func (h *SlackHandler) handleAddUser(ctx context.Context, cmd *slackcmd.Command, slashCmd *slack.SlashCommand) *slack.Msg {
	if len(cmd.Args) == 0 {
		return h.createErrorResponse("Please mention the user: `/rotation add @user`")
	}

	var (
		added     []string
		existing  []string
		persistOK = true
	)

	for _, arg := range cmd.Args {
		userID, err := slackcmd.ParseUserID(arg)
		if err != nil {
			return h.createErrorResponse(err.Error())
		}

		change, err := h.rotationService.AddUser(ctx, slashCmd.UserID, userID)
		switch {
		case errors.Is(err, domain.ErrDuplicateEntry):
			existing = append(existing, mention(userID))
			continue
		case errors.Is(err, domain.ErrNotAuthorized):
			return h.createErrorResponse("Only rotation admins can change the roster")
		case err != nil:
			return h.createErrorResponse(fmt.Sprintf("Error adding user: %v", err))
		}

		added = append(added, mention(userID))
		if change.PersistErr != nil {
			persistOK = false
		}
	}

	if len(added) == 0 {
		return h.createErrorResponse(fmt.Sprintf("%s already in the rotation", strings.Join(existing, ", ")))
	}

	var text string
	if len(added) == 1 {
		text = fmt.Sprintf("✅ %s has been added to the rotation!", added[0])
	} else {
		text = fmt.Sprintf("✅ Added to the rotation: %s", strings.Join(added, ", "))
	}
	if len(existing) > 0 {
		text += fmt.Sprintf("\nℹ️ Already in the rotation: %s", strings.Join(existing, ", "))
	}
	if !persistOK {
		text += persistWarning
	}

	return &slack.Msg{
		ResponseType: slack.ResponseTypeInChannel,
		Text:         text,
	}
}

func (h *SlackHandler) handleRemoveUser(ctx context.Context, cmd *slackcmd.Command, slashCmd *slack.SlashCommand) *slack.Msg {
	if len(cmd.Args) == 0 {
		return h.createErrorResponse("Please mention the user: `/rotation remove @user`")
	}

	userID, err := slackcmd.ParseUserID(cmd.Args[0])
	if err != nil {
		return h.createErrorResponse(err.Error())
	}

	change, err := h.rotationService.RemoveUser(ctx, slashCmd.UserID, userID)
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return h.createErrorResponse(fmt.Sprintf("%s is not in the rotation", mention(userID)))
	case errors.Is(err, domain.ErrNotAuthorized):
		return h.createErrorResponse("Only rotation admins can change the roster")
	case err != nil:
		return h.createErrorResponse(fmt.Sprintf("Error removing user: %v", err))
	}

	text := fmt.Sprintf("✅ %s has been removed from the rotation.", mention(userID))
	if change.Cancelled {
		text += " Their pending reminder was closed."
	}
	if change.PersistErr != nil {
		text += persistWarning
	}

	return &slack.Msg{
		ResponseType: slack.ResponseTypeInChannel,
		Text:         text,
	}
}

func (h *SlackHandler) handleListUsers() *slack.Msg {
	users := h.rotationService.ListUsers()
	if len(users) == 0 {
		return &slack.Msg{
			ResponseType: slack.ResponseTypeEphemeral,
			Text:         "No users in rotation. Use `/rotation add @user` to add members.",
		}
	}

	current := h.rotationService.Status().CurrentUserID

	var userList strings.Builder
	userList.WriteString("*Users in rotation:*\n")
	for i, user := range users {
		userList.WriteString(fmt.Sprintf("%d. %s", i+1, mention(user)))
		if user == current {
			userList.WriteString(" 👈 current")
		}
		userList.WriteString("\n")
	}

	return &slack.Msg{
		ResponseType: slack.ResponseTypeEphemeral,
		Text:         userList.String(),
	}
}

func (h *SlackHandler) handleStatus() *slack.Msg {
	status := h.rotationService.Status()

	var b strings.Builder
	b.WriteString("*Rotation status*\n")

	if status.CurrentUserID == "" {
		b.WriteString("• No users in rotation. Use `/rotation add @user` to add members.\n")
	} else {
		b.WriteString(fmt.Sprintf("• Current: %s\n", mention(status.CurrentUserID)))
		b.WriteString(fmt.Sprintf("• Next: %s\n", mention(status.NextUserID)))
		b.WriteString(fmt.Sprintf("• Members: %d\n", len(status.State.Roster)))
	}

	if p := status.State.Pending; p != nil {
		b.WriteString(fmt.Sprintf("• Waiting for an answer from %s since %s\n",
			mention(p.UserID), p.SentAt.In(h.location).Format("Mon 15:04")))
	}

	if h.schedule != nil {
		if next := h.schedule.NextReminder(h.now()); !next.IsZero() {
			b.WriteString(fmt.Sprintf("• Next reminder: %s\n", next.In(h.location).Format("Mon 02 Jan 15:04 MST")))
		}
	}

	if status.PersistFailures > 0 {
		b.WriteString(fmt.Sprintf("• ⚠️ %d state write(s) failed, last error: %s\n", status.PersistFailures, status.LastPersistError))
	}

	return &slack.Msg{
		ResponseType: slack.ResponseTypeEphemeral,
		Text:         b.String(),
	}
}

func (h *SlackHandler) handleHistory(ctx context.Context, cmd *slackcmd.Command) *slack.Msg {
	limit := defaultHistoryLimit
	if len(cmd.Args) > 0 {
		n, err := strconv.Atoi(cmd.Args[0])
		if err != nil || n < 1 {
			return h.createErrorResponse("Usage: `/rotation history [N]`")
		}
		limit = min(n, maxHistoryLimit)
	}

	events, err := h.rotationService.History(ctx, limit)
	if err != nil {
		h.log.WithError(err).Error("Failed to load rotation history")
		return h.createErrorResponse("Error loading history")
	}

	if len(events) == 0 {
		return &slack.Msg{
			ResponseType: slack.ResponseTypeEphemeral,
			Text:         "No rotation history yet.",
		}
	}

	var b strings.Builder
	b.WriteString("*Recent rotation events:*\n")
	for _, e := range events {
		b.WriteString(fmt.Sprintf("`%s` %s\n", e.CreatedAt.In(h.location).Format("2006-01-02 15:04"), describeEvent(e)))
	}

	return &slack.Msg{
		ResponseType: slack.ResponseTypeEphemeral,
		Text:         b.String(),
	}
}

func describeEvent(e *entity.Event) string {
	by := ""
	if e.ActorID != "" && e.ActorID != e.UserID {
		by = " by " + mention(e.ActorID)
	}

	switch e.Kind {
	case entity.EventNotified:
		return fmt.Sprintf("🔔 %s was reminded", mention(e.UserID))
	case entity.EventConfirmed:
		return fmt.Sprintf("✅ %s confirmed%s", mention(e.UserID), by)
	case entity.EventSkipped:
		return fmt.Sprintf("⏭️ %s was skipped%s", mention(e.UserID), by)
	case entity.EventTimedOut:
		return fmt.Sprintf("⌛ %s did not answer", mention(e.UserID))
	case entity.EventAdded:
		return fmt.Sprintf("➕ %s joined the rotation%s", mention(e.UserID), by)
	case entity.EventRemoved:
		return fmt.Sprintf("➖ %s left the rotation%s", mention(e.UserID), by)
	case entity.EventCancelled:
		return fmt.Sprintf("🚫 reminder for %s was cancelled", mention(e.UserID))
	default:
		return fmt.Sprintf("%s %s", e.Kind, mention(e.UserID))
	}
}

// handleRemind runs the reminder cycle inside this process, which owns the
// rotation state, so the buttons of the reminder it posts stay valid.
func (h *SlackHandler) handleRemind(ctx context.Context, slashCmd *slack.SlashCommand) *slack.Msg {
	channelID, userID := slashCmd.ChannelID, slashCmd.UserID

	h.goBackground(ctx, func(ctx context.Context) {
		result, err := h.rotationService.Trigger(ctx)

		var text string
		switch {
		case errors.Is(err, domain.ErrAlreadyNotified):
			text = "ℹ️ Today's reminder was already sent."
		case errors.Is(err, domain.ErrEmptyRoster):
			text = "❌ No users in rotation. Use `/rotation add @user` to add members."
		case errors.Is(err, domain.ErrShuttingDown):
			text = "❌ The bot is restarting, try again in a minute."
		case err != nil:
			h.log.WithError(err).Error("Manual reminder failed")
			text = "❌ Could not send the reminder. Please try again."
		case result.PersistErr != nil:
			text = strings.TrimSpace(persistWarning)
		default:
			h.log.Infof("Manual reminder sent to %s by %s", result.UserID, userID)
			return
		}

		if err := h.notifier.Notice(ctx, channelID, userID, text); err != nil {
			h.log.WithError(err).Warnf("Failed to send notice to %s", userID)
		}
	})

	return &slack.Msg{
		ResponseType: slack.ResponseTypeEphemeral,
		Text:         "⏳ Sending today's reminder...",
	}
}

func (h *SlackHandler) handleHelp() *slack.Msg {
	return &slack.Msg{
		ResponseType: slack.ResponseTypeEphemeral,
		Text:         slackcmd.GetHelpText(),
	}
}

func (h *SlackHandler) createErrorResponse(message string) *slack.Msg {
	return &slack.Msg{
		ResponseType: slack.ResponseTypeEphemeral,
		Text:         fmt.Sprintf("❌ %s", message),
	}
}

func (h *SlackHandler) respondWithError(w http.ResponseWriter, message string) {
	response := h.createErrorResponse(message)
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(response)
}

func mention(userID string) string {
	return "<@" + userID + ">"
}
