package test

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/diegoclair/slack-duty-bot/internal/handlers"
	"github.com/diegoclair/slack-duty-bot/mocks"
	"github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

const SigningSecret = "test-signing-secret"

type ServiceMocks struct {
	RotationServiceMock *mocks.MockRotationService
	NotifierMock        *mocks.MockNotifier
	ScheduleMock        *mocks.MockReminderSchedule
}

func GetHandlerTest(t *testing.T) (m ServiceMocks, handler *handlers.SlackHandler, ctrl *gomock.Controller) {
	t.Helper()

	ctrl = gomock.NewController(t)
	m = ServiceMocks{
		RotationServiceMock: mocks.NewMockRotationService(ctrl),
		NotifierMock:        mocks.NewMockNotifier(ctrl),
		ScheduleMock:        mocks.NewMockReminderSchedule(ctrl),
	}

	handler = handlers.New(m.RotationServiceMock, m.NotifierMock, m.ScheduleMock, SigningSecret, time.UTC, NullLog())

	return
}

func NullLog() *logrus.Entry {
	logger, _ := logtest.NewNullLogger()
	return logrus.NewEntry(logger)
}

// CreateSlackRequest creates a properly signed Slack slash command request
func CreateSlackRequest(t *testing.T, command, text, channelID, channelName, userID, teamID, signingSecret string) *http.Request {
	t.Helper()

	// Create form data matching Slack's slash command format
	form := url.Values{
		"token":        {"test-token"},
		"team_id":      {teamID},
		"team_domain":  {"test-team"},
		"channel_id":   {channelID},
		"channel_name": {channelName},
		"user_id":      {userID},
		"user_name":    {"test-user"},
		"command":      {command},
		"text":         {text},
		"response_url": {"https://hooks.slack.com/commands/test"},
		"trigger_id":   {"test-trigger-id"},
	}

	return signedFormRequest(t, "/slack/commands", form.Encode(), signingSecret)
}

// CreateInteractionRequest wraps payload the way Slack posts interactivity callbacks.
func CreateInteractionRequest(t *testing.T, payload, signingSecret string) *http.Request {
	t.Helper()

	form := url.Values{"payload": {payload}}
	return signedFormRequest(t, "/slack/interactions", form.Encode(), signingSecret)
}

// BlockActionPayload is a minimal block_actions callback for a single button press.
func BlockActionPayload(userID, channelID, actionID, value string) string {
	return fmt.Sprintf(`{
		"type": "block_actions",
		"user": {"id": %q, "name": "test-user"},
		"channel": {"id": %q, "name": "test-channel"},
		"container": {"type": "message", "message_ts": "1704099600.000100", "channel_id": %q},
		"actions": [{"type": "button", "action_id": %q, "block_id": "rotation_actions", "value": %q, "action_ts": "1704099700.000000"}]
	}`, userID, channelID, channelID, actionID, value)
}

func signedFormRequest(t *testing.T, path, body, signingSecret string) *http.Request {
	t.Helper()

	req, err := http.NewRequest(http.MethodPost, path, strings.NewReader(body))
	require.NoError(t, err)

	// Set content type
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	// Generate Slack signature
	timestamp := strconv.FormatInt(time.Now().Unix(), 10)
	req.Header.Set("X-Slack-Request-Timestamp", timestamp)

	sig := generateSlackSignature(signingSecret, timestamp, body)
	req.Header.Set("X-Slack-Signature", sig)

	return req
}

func generateSlackSignature(signingSecret, timestamp, body string) string {
	baseString := fmt.Sprintf("v0:%s:%s", timestamp, body)
	h := hmac.New(sha256.New, []byte(signingSecret))
	h.Write([]byte(baseString))
	signature := hex.EncodeToString(h.Sum(nil))
	return fmt.Sprintf("v0=%s", signature)
}

func CreateTestRecorder() *httptest.ResponseRecorder {
	return httptest.NewRecorder()
}
