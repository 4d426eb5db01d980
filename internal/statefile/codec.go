package statefile

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/diegoclair/slack-duty-bot/internal/domain"
	"github.com/diegoclair/slack-duty-bot/internal/domain/entity"
)

// rawState mirrors the file layout with loose types so a bad field can be
// repaired instead of rejecting the whole snapshot.
type rawState struct {
	Roster         []string                `json:"roster"`
	Index          json.RawMessage         `json:"index"`
	LastNotifiedAt *time.Time              `json:"lastNotifiedAt"`
	Pending        *entity.PendingReminder `json:"pending"`
}

// Decode turns file bytes into a validated state. It never mutates anything
// outside its return value. repaired reports whether fields had to be fixed,
// in which case the caller should write the result back.
func Decode(data []byte) (state entity.State, repaired bool, err error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return entity.State{}, false, fmt.Errorf("%w: empty file", domain.ErrCorruptState)
	}

	var raw rawState
	if err := json.Unmarshal(data, &raw); err != nil {
		return entity.State{}, false, fmt.Errorf("%w: %v", domain.ErrCorruptState, err)
	}

	index, exact, ok := parseIndex(raw.Index)

	state.Roster = make([]string, 0, len(raw.Roster))
	for i, id := range raw.Roster {
		id = strings.TrimSpace(id)
		if id == "" {
			repaired = true
			// dropping an entry shifts the index like removing a member does
			if i < index {
				index--
			}
			continue
		}
		state.Roster = append(state.Roster, id)
	}

	switch {
	case !ok || index < 0 || (len(state.Roster) > 0 && index >= len(state.Roster)) || (len(state.Roster) == 0 && index != 0):
		repaired = repaired || len(raw.Index) > 0
		index = 0
	case !exact:
		repaired = true
	}
	state.Index = index

	state.LastNotifiedAt = raw.LastNotifiedAt

	if p := raw.Pending; p != nil {
		// an open reminder always belongs to whoever the index points at
		if current, ok := state.Current(); p.CycleID == "" || !ok || current != p.UserID {
			repaired = true
		} else {
			state.Pending = p
		}
	}

	return state, repaired, nil
}

// parseIndex accepts a JSON integer (exact) or a quoted integer such as "2".
func parseIndex(raw json.RawMessage) (n int, exact bool, ok bool) {
	if len(raw) == 0 {
		return 0, false, false
	}
	if err := json.Unmarshal(raw, &n); err == nil {
		return n, true, true
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		if n, err := strconv.Atoi(strings.TrimSpace(s)); err == nil {
			return n, false, true
		}
	}
	return 0, false, false
}

// Encode renders the snapshot as indented JSON so it stays human-inspectable.
func Encode(state entity.State) ([]byte, error) {
	if state.Roster == nil {
		state.Roster = []string{}
	}
	data, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode state: %w", err)
	}
	return append(data, '\n'), nil
}
