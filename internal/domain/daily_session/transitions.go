package dailysession

import (
	"time"

	"github.com/hanja-cards/backend/internal/domain/progress"
)

// Every transition takes the current state and returns the next one along
// with whether anything was applied. Inputs are never mutated; a rejected
// intent returns the input unchanged and false.

// Judge records a verdict for id, which must be the active round's current
// item. The mastery record keeps known sticky while the round result stores
// the literal verdict.
func Judge(s *DailySession, p progress.Progress, id string, known bool, at time.Time) (*DailySession, progress.Progress, bool) {
	current, ok := s.CurrentID()
	if !ok || current != id {
		return s, p, false
	}

	nextProgress := p.Clone()
	nextProgress.Mark(id, known, at, s.Date)

	next := s.Clone()
	verdict := progress.VerdictOf(known)
	next.Main.Paused = false

	if next.Extra != nil {
		next.Extra.Results[id] = verdict
		next.Extra.Cursor++
		return next, nextProgress, true
	}

	next.Main.Results[id] = verdict
	next.Main.Cursor++
	next.Main.BaseCompleted = next.Main.BaseCompleted || next.Main.Cursor >= next.Main.BaseCount
	return next, nextProgress, true
}

// EndNow stops the current round early. An extra round is marked exhausted
// without judging its remaining items; an unfinished base set is paused.
func EndNow(s *DailySession) (*DailySession, bool) {
	if s.FinalEnded {
		return s, false
	}

	next := s.Clone()
	switch {
	case next.Extra != nil:
		next.Extra.Cursor = len(next.Extra.IDs)
	case next.Main.BaseCompleted || next.Main.Cursor >= next.Main.BaseCount:
		next.Main.BaseCompleted = true
		next.Main.Paused = false
	default:
		next.Main.Paused = true
	}
	return next, true
}

// Resume unpauses an unfinished base set.
func Resume(s *DailySession) (*DailySession, bool) {
	if s.FinalEnded || s.Main.BaseCompleted || !s.Main.Paused {
		return s, false
	}

	next := s.Clone()
	next.Main.Paused = false
	return next, true
}

// StartExtra opens a supplemental round, replacing a finished one. A count
// of zero or less picks the default size for the kind.
func StartExtra(s *DailySession, p progress.Progress, candidates []string, kind ExtraKind, count int, cfg Config) (*DailySession, bool) {
	if s.FinalEnded || !kind.Valid() {
		return s, false
	}
	if s.Extra != nil && !s.Extra.Exhausted() {
		return s, false
	}

	var ids []string
	switch kind {
	case ExtraRandom:
		ids = randomExtraIDs(s, p, candidates, count, cfg)
	case ExtraWrong:
		ids = wrongExtraIDs(s, p, count, cfg)
	}

	next := s.Clone()
	next.Main.BaseCompleted = true
	next.Main.Paused = false
	next.Extra = &ExtraRound{
		Type:    kind,
		IDs:     ids,
		Cursor:  0,
		Results: Results{},
	}
	if len(ids) > 0 {
		next.ExtraSeen = append(next.ExtraSeen, ids...)
	}
	return next, true
}

// Finalize closes the day. It is only accepted once the base set is done.
func Finalize(s *DailySession) (*DailySession, bool) {
	if s.FinalEnded || !s.Main.BaseCompleted {
		return s, false
	}

	next := s.Clone()
	next.FinalEnded = true
	next.Extra = nil
	next.Main.Paused = false
	return next, true
}

func randomExtraIDs(s *DailySession, p progress.Progress, candidates []string, count int, cfg Config) []string {
	if count <= 0 {
		count = cfg.defaultRandomCount()
	}

	seen := make(map[string]struct{}, len(s.Main.IDs)+len(s.ExtraSeen))
	for _, id := range s.Main.IDs {
		seen[id] = struct{}{}
	}
	for _, id := range s.ExtraSeen {
		seen[id] = struct{}{}
	}
	// Sessions saved before ExtraSeen existed only carry the latest round.
	if s.Extra != nil {
		for _, id := range s.Extra.IDs {
			seen[id] = struct{}{}
		}
	}

	picked := shuffleIDs(eligible(candidates, p, seen))
	if count < len(picked) {
		picked = picked[:count]
	}
	return picked
}

func wrongExtraIDs(s *DailySession, p progress.Progress, count int, cfg Config) []string {
	limit := cfg.ExtraWrongMax
	if count > 0 && (limit <= 0 || count < limit) {
		limit = count
	}

	var wrong []string
	seen := make(map[string]struct{})
	for _, id := range s.Main.IDs {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		if s.Main.Results[id] == progress.VerdictUnknown && !p.IsKnown(id) {
			wrong = append(wrong, id)
		}
	}

	picked := shuffleIDs(wrong)
	if limit > 0 && limit < len(picked) {
		picked = picked[:limit]
	}
	return picked
}
