package progress

import (
	"time"

	"github.com/hanja-cards/backend/internal/calendar"
)

// Verdict is the literal outcome of one judgment.
type Verdict string

const (
	VerdictKnown   Verdict = "known"
	VerdictUnknown Verdict = "unknown"
)

// VerdictOf maps a known/unknown flag to its verdict.
func VerdictOf(known bool) Verdict {
	if known {
		return VerdictKnown
	}
	return VerdictUnknown
}

// Record is the cumulative mastery state of one item. It exists only once
// the item has been judged.
type Record struct {
	Known            bool      `json:"known"`
	LastReviewedDate string    `json:"lastReviewedDate,omitempty"`
	ReviewedAt       time.Time `json:"reviewedAt"`
}

// Reviewed reports whether the record carries a review timestamp.
func (r Record) Reviewed() bool {
	return !r.ReviewedAt.IsZero()
}

// Progress maps item id to its mastery record.
type Progress map[string]Record

// Clone returns an independent copy. A nil receiver clones to an empty map.
func (p Progress) Clone() Progress {
	out := make(Progress, len(p))
	for id, r := range p {
		out[id] = r
	}
	return out
}

// IsKnown reports whether the item has been mastered.
func (p Progress) IsKnown(id string) bool {
	return p[id].Known
}

// Mark records a judgment for id. Known is sticky: an unknown verdict never
// clears an earlier known one.
func (p Progress) Mark(id string, known bool, at time.Time, day string) Record {
	prev := p[id]
	r := Record{
		Known:            known || prev.Known,
		LastReviewedDate: day,
		ReviewedAt:       at,
	}
	p[id] = r
	return r
}

// Scope selects which records a reset removes.
type Scope string

const (
	ScopeToday Scope = "today"
	ScopeWeek  Scope = "week"
	ScopeAll   Scope = "all"
)

func (s Scope) Valid() bool {
	switch s {
	case ScopeToday, ScopeWeek, ScopeAll:
		return true
	}
	return false
}

// Matches reports whether a record last reviewed on day falls in the scope
// relative to today.
func (s Scope) Matches(day, today string) bool {
	switch s {
	case ScopeAll:
		return true
	case ScopeToday:
		return day != "" && day == today
	case ScopeWeek:
		return calendar.InWeek(day, calendar.WeekKey(today))
	}
	return false
}

// Reset deletes the records matched by scope and returns how many were
// removed. An invalid scope removes nothing.
func (p Progress) Reset(scope Scope, today string) int {
	removed := 0
	for id, r := range p {
		if scope.Matches(r.LastReviewedDate, today) {
			delete(p, id)
			removed++
		}
	}
	return removed
}
