package service

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/diegoclair/slack-duty-bot/internal/domain/entity"
	"github.com/diegoclair/slack-duty-bot/mocks"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

// Monday 09:00 UTC
var testNow = time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)

type allMocks struct {
	mockDataManager *mocks.MockDataManager
	mockHistoryRepo *mocks.MockHistoryRepo
	mockNotifier    *mocks.MockNotifier
	mockStateStore  *mocks.MockStateStore
	mockScheduler   *mocks.MockScheduler
	logHook         *test.Hook
	log             *logrus.Entry
}

func newServiceTestMock(t *testing.T) (m allMocks, ctrl *gomock.Controller) {
	t.Helper()

	ctrl = gomock.NewController(t)

	dm := mocks.NewMockDataManager(ctrl)

	historyRepo := mocks.NewMockHistoryRepo(ctrl)
	dm.EXPECT().History().Return(historyRepo).AnyTimes()

	logger, hook := test.NewNullLogger()

	m = allMocks{
		mockDataManager: dm,
		mockHistoryRepo: historyRepo,
		mockNotifier:    mocks.NewMockNotifier(ctrl),
		mockStateStore:  mocks.NewMockStateStore(ctrl),
		mockScheduler:   mocks.NewMockScheduler(ctrl),
		logHook:         hook,
		log:             logrus.NewEntry(logger),
	}

	// validate service creation
	rotationService := newRotation(entity.State{}, m.mockStateStore, dm, m.mockNotifier, m.log, testOptions())
	require.NotNil(t, rotationService)

	return
}

func testOptions() Options {
	return Options{
		ChannelID:       "C1",
		Role:            "On duty",
		ResponseTimeout: 8 * time.Hour,
		SlackTimeout:    5 * time.Second,
		Location:        time.UTC,
		ReminderHour:    9,
		ReminderMinute:  0,
		ActiveDays:      []int{1, 2, 3, 4, 5},
	}
}

// newTestRotation builds a service with a fixed clock and predictable cycle IDs.
func newTestRotation(m allMocks, initial entity.State, opts Options) *rotationService {
	s := newRotation(initial, m.mockStateStore, m.mockDataManager, m.mockNotifier, m.log, opts)
	s.now = func() time.Time { return testNow }

	seq := 0
	s.newCycleID = func() string {
		seq++
		return fmt.Sprintf("cycle-%d", seq)
	}
	return s
}

// allowSideEffects accepts saves, history records and message updates without asserting on them.
func allowSideEffects(m allMocks) {
	m.mockStateStore.EXPECT().Save(gomock.Any()).Return(nil).AnyTimes()
	m.mockHistoryRepo.EXPECT().Record(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	m.mockNotifier.EXPECT().Update(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
}

func pendingFor(userID, cycleID string, sentAt time.Time) *entity.PendingReminder {
	return &entity.PendingReminder{
		CycleID:   cycleID,
		UserID:    userID,
		ChannelID: "C1",
		MessageTS: "1700000000.000100",
		SentAt:    sentAt,
	}
}

func timePtr(t time.Time) *time.Time {
	return &t
}

func hasWarning(m allMocks, substr string) bool {
	for _, entry := range m.logHook.AllEntries() {
		if entry.Level == logrus.WarnLevel && strings.Contains(entry.Message, substr) {
			return true
		}
	}
	return false
}
