package dailysession

import (
	"math/rand"

	"github.com/hanja-cards/backend/internal/domain/progress"
)

// ExtraKind names how a supplemental round was drawn.
type ExtraKind string

const (
	ExtraRandom ExtraKind = "random"
	ExtraWrong  ExtraKind = "wrong"
)

func (k ExtraKind) Valid() bool {
	return k == ExtraRandom || k == ExtraWrong
}

// Results holds the round-local verdict per judged id.
type Results map[string]progress.Verdict

// MainRound is the day's base queue.
type MainRound struct {
	IDs           []string `json:"ids"`
	Cursor        int      `json:"cursor"`
	Results       Results  `json:"results"`
	BaseCount     int      `json:"baseCount"`
	BaseCompleted bool     `json:"baseCompleted"`
	Paused        bool     `json:"paused"`
}

// ExtraRound is a supplemental queue layered on top of the base set.
type ExtraRound struct {
	Type    ExtraKind `json:"type"`
	IDs     []string  `json:"ids"`
	Cursor  int       `json:"cursor"`
	Results Results   `json:"results"`
}

// Exhausted reports whether every id in the round has been passed.
func (e *ExtraRound) Exhausted() bool {
	return e.Cursor >= len(e.IDs)
}

// DailySession is the study state for a single day key.
type DailySession struct {
	Date       string      `json:"date"`
	Main       MainRound   `json:"main"`
	Extra      *ExtraRound `json:"extra"`
	FinalEnded bool        `json:"finalEnded"`

	// ExtraSeen lists every id drawn into any extra round today, so later
	// random rounds never repeat an earlier one.
	ExtraSeen []string `json:"extraSeen,omitempty"`
}

// Clone returns a deep copy so transitions never alias their input.
func (s *DailySession) Clone() *DailySession {
	if s == nil {
		return nil
	}
	out := *s
	out.Main.IDs = cloneIDs(s.Main.IDs)
	out.Main.Results = s.Main.Results.clone()
	if s.Extra != nil {
		extra := *s.Extra
		extra.IDs = cloneIDs(s.Extra.IDs)
		extra.Results = s.Extra.Results.clone()
		out.Extra = &extra
	}
	if s.ExtraSeen != nil {
		out.ExtraSeen = cloneIDs(s.ExtraSeen)
	}
	return &out
}

// CurrentID returns the id under the active round's cursor. The extra round
// is active whenever one exists.
func (s *DailySession) CurrentID() (string, bool) {
	if s == nil || s.FinalEnded {
		return "", false
	}
	ids, cursor := s.Main.IDs, s.Main.Cursor
	if s.Extra != nil {
		ids, cursor = s.Extra.IDs, s.Extra.Cursor
	}
	if cursor < 0 || cursor >= len(ids) {
		return "", false
	}
	return ids[cursor], true
}

// State is the display state derived from the session flags.
type State string

const (
	StateActiveMain    State = "active-main"
	StatePaused        State = "paused"
	StateBaseComplete  State = "base-complete-awaiting-summary"
	StateActiveExtra   State = "active-extra"
	StateExtraComplete State = "extra-complete"
	StateFinalized     State = "finalized"
)

// DerivedState is the single place the session flags are interpreted.
// Precedence matters: finalized beats paused beats extra beats base.
func DerivedState(s *DailySession) State {
	switch {
	case s.FinalEnded:
		return StateFinalized
	case s.Main.Paused && !s.Main.BaseCompleted:
		return StatePaused
	case s.Extra != nil && !s.Extra.Exhausted():
		return StateActiveExtra
	case s.Extra != nil:
		return StateExtraComplete
	case s.Main.BaseCompleted:
		return StateBaseComplete
	default:
		return StateActiveMain
	}
}

func (r Results) clone() Results {
	out := make(Results, len(r))
	for id, v := range r {
		out[id] = v
	}
	return out
}

func cloneIDs(ids []string) []string {
	if ids == nil {
		return []string{}
	}
	out := make([]string, len(ids))
	copy(out, ids)
	return out
}

// shuffleIDs returns a new slice with ids in random order.
func shuffleIDs(ids []string) []string {
	shuffled := cloneIDs(ids)

	rand.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})

	return shuffled
}
