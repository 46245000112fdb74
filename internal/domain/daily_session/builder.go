package dailysession

import "github.com/hanja-cards/backend/internal/domain/progress"

// Build draws a fresh session for today. Mastered items are never eligible;
// the base set is a uniform random sample of at most cfg.DailyBaseCount ids.
// An empty base set starts out completed, so the day goes straight to the
// summary.
func Build(p progress.Progress, candidates []string, cfg Config, today string) *DailySession {
	pool := eligible(candidates, p, nil)
	ids := shuffleIDs(pool)

	if cfg.DailyBaseCount >= 0 && cfg.DailyBaseCount < len(ids) {
		ids = ids[:cfg.DailyBaseCount]
	}

	return &DailySession{
		Date: today,
		Main: MainRound{
			IDs:       ids,
			Cursor:    0,
			Results:       Results{},
			BaseCount:     len(ids),
			BaseCompleted: len(ids) == 0,
		},
	}
}

// eligible filters candidates down to unique ids that are not mastered and
// not in exclude, preserving candidate order.
func eligible(candidates []string, p progress.Progress, exclude map[string]struct{}) []string {
	seen := make(map[string]struct{}, len(candidates))
	out := make([]string, 0, len(candidates))
	for _, id := range candidates {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		if p.IsKnown(id) {
			continue
		}
		if _, skip := exclude[id]; skip {
			continue
		}
		out = append(out, id)
	}
	return out
}
