package stats

import (
	"sort"

	"github.com/hanja-cards/backend/internal/calendar"
	dailysession "github.com/hanja-cards/backend/internal/domain/daily_session"
	"github.com/hanja-cards/backend/internal/domain/progress"
)

// Counts splits reviewed records by mastery.
type Counts struct {
	Reviewed int `json:"reviewed"`
	Known    int `json:"known"`
	Unknown  int `json:"unknown"`
}

func (c *Counts) add(r progress.Record) {
	c.Reviewed++
	if r.Known {
		c.Known++
	} else {
		c.Unknown++
	}
}

// Stats is the rollup of the progress store.
type Stats struct {
	Total  Counts            `json:"total"`
	Today  Counts            `json:"today"`
	Week   Counts            `json:"week"`
	ByDate map[string]Counts `json:"byDate"`
}

// Compute aggregates every reviewed record. Today and week buckets use the
// record's last review day; weeks start on Monday.
func Compute(p progress.Progress, today string) Stats {
	week := calendar.WeekKey(today)
	s := Stats{ByDate: make(map[string]Counts)}

	for _, r := range p {
		if !r.Reviewed() {
			continue
		}
		s.Total.add(r)

		day := r.LastReviewedDate
		if day == "" {
			continue
		}
		if day == today {
			s.Today.add(r)
		}
		if calendar.InWeek(day, week) {
			s.Week.add(r)
		}
		bucket := s.ByDate[day]
		bucket.add(r)
		s.ByDate[day] = bucket
	}
	return s
}

// Dates lists the history buckets newest first.
func Dates(s Stats) []string {
	keys := make([]string, 0, len(s.ByDate))
	for k := range s.ByDate {
		keys = append(keys, k)
	}
	sort.Sort(sort.Reverse(sort.StringSlice(keys)))
	return keys
}

// DateItems is the per-day view reconstructed from cumulative mastery.
type DateItems struct {
	Known   []string `json:"known"`
	Unknown []string `json:"unknown"`
	Total   int      `json:"total"`
}

// ItemsForDate lists items last reviewed on day, oldest review first with
// ties broken by id.
func ItemsForDate(p progress.Progress, day string) DateItems {
	type entry struct {
		id string
		r  progress.Record
	}
	var entries []entry
	for id, r := range p {
		if r.LastReviewedDate == day && r.Reviewed() {
			entries = append(entries, entry{id, r})
		}
	}

	sort.Slice(entries, func(i, j int) bool {
		a, b := entries[i], entries[j]
		if !a.r.ReviewedAt.Equal(b.r.ReviewedAt) {
			return a.r.ReviewedAt.Before(b.r.ReviewedAt)
		}
		return a.id < b.id
	})

	out := DateItems{Known: []string{}, Unknown: []string{}, Total: len(entries)}
	for _, e := range entries {
		if e.r.Known {
			out.Known = append(out.Known, e.id)
		} else {
			out.Unknown = append(out.Unknown, e.id)
		}
	}
	return out
}

// Verdicts holds round-local known/unknown ids.
type Verdicts struct {
	Known   []string `json:"known"`
	Unknown []string `json:"unknown"`
}

// TodayVerdicts reads the session's own results, main round first. These can
// disagree with ItemsForDate: an item already mastered on an earlier day but
// missed today is unknown here and known there.
func TodayVerdicts(s *dailysession.DailySession) Verdicts {
	v := Verdicts{Known: []string{}, Unknown: []string{}}
	if s == nil {
		return v
	}
	v.collect(s.Main.IDs, s.Main.Results)
	if s.Extra != nil {
		v.collect(s.Extra.IDs, s.Extra.Results)
	}
	return v
}

func (v *Verdicts) collect(ids []string, results dailysession.Results) {
	for _, id := range ids {
		switch results[id] {
		case progress.VerdictKnown:
			v.Known = append(v.Known, id)
		case progress.VerdictUnknown:
			v.Unknown = append(v.Unknown, id)
		}
	}
}

// Summary is what the end-of-round screen reports.
type Summary struct {
	Done           int `json:"done"`
	Remaining      int `json:"remaining"`
	BaseCount      int `json:"baseCount"`
	KnownCount     int `json:"knownCount"`
	UnknownCount   int `json:"unknownCount"`
	WrongAvailable int `json:"wrongAvailable"`
}

// Summarize combines base progress with today's verdicts. WrongAvailable
// counts unknown verdicts whose items are still not mastered.
func Summarize(s *dailysession.DailySession, p progress.Progress) Summary {
	if s == nil {
		return Summary{}
	}
	v := TodayVerdicts(s)

	wrong := 0
	for _, id := range v.Unknown {
		if !p.IsKnown(id) {
			wrong++
		}
	}

	return Summary{
		Done:           min(s.Main.Cursor, s.Main.BaseCount),
		Remaining:      max(0, s.Main.BaseCount-s.Main.Cursor),
		BaseCount:      s.Main.BaseCount,
		KnownCount:     len(v.Known),
		UnknownCount:   len(v.Unknown),
		WrongAvailable: wrong,
	}
}
