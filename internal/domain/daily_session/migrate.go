package dailysession

import (
	"encoding/json"

	"github.com/hanja-cards/backend/internal/domain/progress"
)

// Outcome says which persisted shape Migrate recognised.
type Outcome string

const (
	OutcomeCurrent Outcome = "current"
	OutcomeLegacy  Outcome = "legacy"
	OutcomeRebuilt Outcome = "rebuilt"
)

// Migrate turns persisted session bytes into today's session. The current
// schema is tried first, then the flat legacy schema; anything else,
// including a session for another day, is replaced by a fresh build.
func Migrate(raw []byte, p progress.Progress, candidates []string, cfg Config, today string) (*DailySession, Outcome) {
	if len(raw) > 0 {
		if s, ok := parseCurrent(raw, today); ok {
			return s, OutcomeCurrent
		}
		if s, ok := parseLegacy(raw, cfg, today); ok {
			return s, OutcomeLegacy
		}
	}
	return Build(p, candidates, cfg, today), OutcomeRebuilt
}

func parseCurrent(raw []byte, today string) (*DailySession, bool) {
	var probe struct {
		Main       json.RawMessage `json:"main"`
		FinalEnded *bool           `json:"finalEnded"`
	}
	if err := json.Unmarshal(raw, &probe); err != nil {
		return nil, false
	}
	if !isObject(probe.Main) || probe.FinalEnded == nil {
		return nil, false
	}

	var s DailySession
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil, false
	}
	if s.Date != today || !inRange(s.Main.Cursor, len(s.Main.IDs)) || s.Main.BaseCount < 0 {
		return nil, false
	}
	if s.Extra != nil && (!s.Extra.Type.Valid() || !inRange(s.Extra.Cursor, len(s.Extra.IDs))) {
		return nil, false
	}
	if s.FinalEnded && (s.Extra != nil || !s.Main.BaseCompleted) {
		return nil, false
	}

	if s.Main.IDs == nil {
		s.Main.IDs = []string{}
	}
	if s.Main.Results == nil {
		s.Main.Results = Results{}
	}
	if s.Extra != nil {
		if s.Extra.IDs == nil {
			s.Extra.IDs = []string{}
		}
		if s.Extra.Results == nil {
			s.Extra.Results = Results{}
		}
	}
	return &s, true
}

// legacySession is the flat shape written before rounds were nested.
type legacySession struct {
	Date          string          `json:"date"`
	IDs           json.RawMessage `json:"ids"`
	Cursor        *int            `json:"cursor"`
	Results       Results         `json:"results"`
	BaseCount     *int            `json:"baseCount"`
	BaseCompleted *bool           `json:"baseCompleted"`
	Paused        *bool           `json:"paused"`
}

func parseLegacy(raw []byte, cfg Config, today string) (*DailySession, bool) {
	var old legacySession
	if err := json.Unmarshal(raw, &old); err != nil {
		return nil, false
	}
	if old.Date != today || old.Cursor == nil || !isArray(old.IDs) {
		return nil, false
	}

	var ids []string
	if err := json.Unmarshal(old.IDs, &ids); err != nil {
		return nil, false
	}
	cursor := *old.Cursor
	if !inRange(cursor, len(ids)) {
		return nil, false
	}

	baseCount := min(len(ids), cfg.DailyBaseCount)
	if old.BaseCount != nil {
		baseCount = *old.BaseCount
	}
	baseCompleted := cursor >= baseCount
	if old.BaseCompleted != nil {
		baseCompleted = *old.BaseCompleted
	}
	paused := false
	if old.Paused != nil {
		paused = *old.Paused
	}
	results := old.Results
	if results == nil {
		results = Results{}
	}

	return &DailySession{
		Date: old.Date,
		Main: MainRound{
			IDs:           ids,
			Cursor:        cursor,
			Results:       results,
			BaseCount:     baseCount,
			BaseCompleted: baseCompleted,
			Paused:        paused,
		},
	}, true
}

func isObject(raw json.RawMessage) bool {
	return len(raw) > 0 && raw[0] == '{'
}

func isArray(raw json.RawMessage) bool {
	return len(raw) > 0 && raw[0] == '['
}

func inRange(cursor, n int) bool {
	return cursor >= 0 && cursor <= n
}
