package progress_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/hanja-cards/backend/internal/domain/progress"
)

var reviewTime = time.Date(2026, 10, 15, 9, 0, 0, 0, time.UTC)

func TestMark_CreatesRecordLazily(t *testing.T) {
	p := progress.Progress{}

	assert.False(t, p.IsKnown("a"))
	_, exists := p["a"]
	assert.False(t, exists)

	r := p.Mark("a", false, reviewTime, "2026-10-15")

	assert.False(t, r.Known)
	assert.Equal(t, "2026-10-15", r.LastReviewedDate)
	assert.Equal(t, reviewTime, r.ReviewedAt)
	assert.True(t, r.Reviewed())
}

func TestMark_KnownIsSticky(t *testing.T) {
	p := progress.Progress{}
	p.Mark("a", true, reviewTime, "2026-10-14")

	later := reviewTime.Add(24 * time.Hour)
	r := p.Mark("a", false, later, "2026-10-15")

	assert.True(t, r.Known)
	assert.True(t, p.IsKnown("a"))
	assert.Equal(t, "2026-10-15", r.LastReviewedDate)
	assert.Equal(t, later, r.ReviewedAt)
}

func TestMark_UnknownThenKnown(t *testing.T) {
	p := progress.Progress{}
	p.Mark("a", false, reviewTime, "2026-10-15")
	p.Mark("a", true, reviewTime, "2026-10-15")

	assert.True(t, p.IsKnown("a"))
}

func TestClone_IsIndependent(t *testing.T) {
	p := progress.Progress{}
	p.Mark("a", true, reviewTime, "2026-10-15")

	c := p.Clone()
	c.Mark("b", true, reviewTime, "2026-10-15")

	assert.Len(t, p, 1)
	assert.Len(t, c, 2)

	var nilProgress progress.Progress
	assert.NotNil(t, nilProgress.Clone())
}

func TestReset(t *testing.T) {
	seed := func() progress.Progress {
		p := progress.Progress{}
		p.Mark("today", true, reviewTime, "2026-10-15")
		p.Mark("monday", false, reviewTime, "2026-10-12")
		p.Mark("lastweek", true, reviewTime, "2026-10-11")
		return p
	}

	tests := []struct {
		scope   progress.Scope
		removed int
		left    []string
	}{
		{progress.ScopeToday, 1, []string{"monday", "lastweek"}},
		{progress.ScopeWeek, 2, []string{"lastweek"}},
		{progress.ScopeAll, 3, nil},
		{progress.Scope("bogus"), 0, []string{"today", "monday", "lastweek"}},
	}

	for _, tt := range tests {
		t.Run(string(tt.scope), func(t *testing.T) {
			p := seed()
			assert.Equal(t, tt.removed, p.Reset(tt.scope, "2026-10-15"))
			assert.Len(t, p, len(tt.left))
			for _, id := range tt.left {
				assert.Contains(t, p, id)
			}
		})
	}
}

func TestScopeValid(t *testing.T) {
	assert.True(t, progress.ScopeToday.Valid())
	assert.True(t, progress.ScopeWeek.Valid())
	assert.True(t, progress.ScopeAll.Valid())
	assert.False(t, progress.Scope("month").Valid())
}

func TestVerdictOf(t *testing.T) {
	assert.Equal(t, progress.VerdictKnown, progress.VerdictOf(true))
	assert.Equal(t, progress.VerdictUnknown, progress.VerdictOf(false))
}
