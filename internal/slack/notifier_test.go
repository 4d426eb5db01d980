package slack_test

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/diegoclair/slack-duty-bot/internal/domain"
	"github.com/diegoclair/slack-duty-bot/internal/domain/entity"
	slacknotifier "github.com/diegoclair/slack-duty-bot/internal/slack"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/slack-go/slack"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"
)

// fakeSlackAPI records calls per Web API method and answers with canned JSON.
type fakeSlackAPI struct {
	mu        sync.Mutex
	calls     map[string][]string
	responses map[string]string
}

func newFakeSlackAPI(t *testing.T, responses map[string]string) (*fakeSlackAPI, *slack.Client) {
	t.Helper()

	api := &fakeSlackAPI{calls: map[string][]string{}, responses: responses}
	srv := httptest.NewServer(api)
	t.Cleanup(srv.Close)

	client := slack.New("xoxb-test", slack.OptionAPIURL(srv.URL+"/"))
	return api, client
}

func (f *fakeSlackAPI) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	method := strings.TrimPrefix(r.URL.Path, "/")
	body, _ := io.ReadAll(r.Body)

	decoded, err := url.QueryUnescape(string(body))
	if err != nil {
		decoded = string(body)
	}

	f.mu.Lock()
	f.calls[method] = append(f.calls[method], decoded)
	resp, ok := f.responses[method]
	f.mu.Unlock()

	if !ok {
		resp = `{"ok":false,"error":"unknown_method"}`
	}
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write([]byte(resp))
}

func (f *fakeSlackAPI) callsTo(method string) []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[method]
}

func newTestLog() *logrus.Entry {
	logger, _ := test.NewNullLogger()
	return logrus.NewEntry(logger)
}

func TestNotifier_Send(t *testing.T) {
	tests := []struct {
		name       string
		response   string
		wantErr    bool
		wantHandle entity.NotificationHandle
	}{
		{
			name:       "Should post the reminder and return its handle",
			response:   `{"ok":true,"channel":"C1","ts":"1704099600.000100"}`,
			wantHandle: entity.NotificationHandle{ChannelID: "C1", MessageTS: "1704099600.000100"},
		},
		{
			name:     "Should return an error when Slack rejects the message",
			response: `{"ok":false,"error":"channel_not_found"}`,
			wantErr:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			api, client := newFakeSlackAPI(t, map[string]string{"chat.postMessage": tt.response})
			n := slacknotifier.NewNotifier(client, "C1", rate.NewLimiter(rate.Inf, 1), newTestLog())

			got, err := n.Send(context.Background(), "U123", entity.Reminder{CycleID: "cycle-abc", Role: "Code reviewer"})

			calls := api.callsTo("chat.postMessage")
			require.Len(t, calls, 1)
			assert.Contains(t, calls[0], "C1")
			assert.Contains(t, calls[0], "Code reviewer today")
			assert.Contains(t, calls[0], "U123")
			assert.Contains(t, calls[0], domain.ActionIDConfirm)
			assert.Contains(t, calls[0], domain.ActionIDSkip)
			assert.Contains(t, calls[0], "cycle-abc")

			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantHandle, got)
		})
	}
}

func TestNotifier_Update(t *testing.T) {
	api, client := newFakeSlackAPI(t, map[string]string{
		"chat.update": `{"ok":true,"channel":"C1","ts":"1704099600.000100","text":"done"}`,
	})
	n := slacknotifier.NewNotifier(client, "C1", nil, newTestLog())

	err := n.Update(context.Background(), entity.NotificationHandle{ChannelID: "C1", MessageTS: "1704099600.000100"}, "✅ <@U123> confirmed")

	require.NoError(t, err)
	calls := api.callsTo("chat.update")
	require.Len(t, calls, 1)
	assert.Contains(t, calls[0], "1704099600.000100")
	assert.Contains(t, calls[0], "confirmed")
	assert.NotContains(t, calls[0], domain.ActionIDConfirm, "answered reminders lose their buttons")
}

func TestNotifier_Notice(t *testing.T) {
	api, client := newFakeSlackAPI(t, map[string]string{
		"chat.postEphemeral": `{"ok":true,"message_ts":"1704099600.000200"}`,
	})
	n := slacknotifier.NewNotifier(client, "C1", nil, newTestLog())

	err := n.Notice(context.Background(), "C1", "U999", "This reminder is no longer active.")

	require.NoError(t, err)
	calls := api.callsTo("chat.postEphemeral")
	require.Len(t, calls, 1)
	assert.Contains(t, calls[0], "U999")
	assert.Contains(t, calls[0], "no longer active")
}

func TestNotifier_CheckAuth(t *testing.T) {
	_, client := newFakeSlackAPI(t, map[string]string{
		"auth.test": `{"ok":true,"url":"https://test.slack.com/","team":"Test","user":"dutybot","team_id":"T1","user_id":"UBOT"}`,
	})
	n := slacknotifier.NewNotifier(client, "C1", nil, newTestLog())

	botID, err := n.CheckAuth(context.Background())

	require.NoError(t, err)
	assert.Equal(t, "UBOT", botID)
}

func TestNotifier_RateLimited(t *testing.T) {
	api, client := newFakeSlackAPI(t, map[string]string{
		"chat.postMessage": `{"ok":true,"channel":"C1","ts":"1"}`,
	})
	n := slacknotifier.NewNotifier(client, "C1", rate.NewLimiter(rate.Every(time.Hour), 1), newTestLog())

	_, err := n.Send(context.Background(), "U1", entity.Reminder{CycleID: "c1", Role: "On duty"})
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err = n.Send(ctx, "U2", entity.Reminder{CycleID: "c2", Role: "On duty"})

	require.ErrorIs(t, err, domain.ErrNotificationDelivery)
	assert.Len(t, api.callsTo("chat.postMessage"), 1)
}

func TestReminderBlocks(t *testing.T) {
	blocks := slacknotifier.ReminderBlocks("U1", entity.Reminder{CycleID: "cycle-9", Role: "On duty"})

	require.Len(t, blocks, 2)

	actions, ok := blocks[1].(*slack.ActionBlock)
	require.True(t, ok)
	require.Len(t, actions.Elements.ElementSet, 2)

	confirm, ok := actions.Elements.ElementSet[0].(*slack.ButtonBlockElement)
	require.True(t, ok)
	assert.Equal(t, domain.ActionIDConfirm, confirm.ActionID)
	assert.Equal(t, "cycle-9", confirm.Value)
	assert.Equal(t, slack.StylePrimary, confirm.Style)

	skip, ok := actions.Elements.ElementSet[1].(*slack.ButtonBlockElement)
	require.True(t, ok)
	assert.Equal(t, domain.ActionIDSkip, skip.ActionID)
	assert.Equal(t, "cycle-9", skip.Value)
	assert.Equal(t, slack.StyleDanger, skip.Style)
}
