// internal/service/study.go
package service

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/hanja-cards/backend/internal/calendar"
	"github.com/hanja-cards/backend/internal/domain/catalog"
	dailysession "github.com/hanja-cards/backend/internal/domain/daily_session"
	"github.com/hanja-cards/backend/internal/domain/progress"
	"github.com/hanja-cards/backend/internal/domain/stats"
	"github.com/hanja-cards/backend/internal/metrics"
	"github.com/hanja-cards/backend/internal/store"
	"github.com/hanja-cards/backend/internal/worker"
)

// Persisted keys.
const (
	ProgressKey = "hanja_progress"
	SessionKey  = "hanja_today_set"
	DailyLogKey = "hanja_daily_log"
)

// DayEntry marks a day on which at least one judgment happened.
type DayEntry struct {
	TouchedAt time.Time `json:"touchedAt"`
}

// Snapshot is the state handed to the presentation layer after every call.
type Snapshot struct {
	Session   *dailysession.DailySession
	State     dailysession.State
	CurrentID string
	Current   *catalog.Item
	Applied   bool
}

// Options tunes a StudyService. Zero values fall back to defaults.
type Options struct {
	Config         dailysession.Config
	Clock          calendar.Clock
	Metrics        *metrics.Recorder
	WriteQueueSize int
}

// StudyService owns the live progress store and today's session. Every
// operation runs under one mutex, applies a pure transition, then queues
// the writes: progress first, session last.
type StudyService struct {
	kv      store.KV
	writes  *worker.Pool
	catalog *catalog.Catalog
	clock   calendar.Clock
	cfg     dailysession.Config
	logger  *slog.Logger
	metrics *metrics.Recorder

	mu       sync.Mutex
	loaded   bool
	progress progress.Progress
	session  *dailysession.DailySession
	dailyLog map[string]DayEntry
}

// NewStudyService creates a StudyService. Nothing is read until the first
// call.
func NewStudyService(kv store.KV, cat *catalog.Catalog, logger *slog.Logger, opts Options) *StudyService {
	if opts.Config.DailyBaseCount == 0 && opts.Config.ExtraWrongMax == 0 && len(opts.Config.ExtraRandomOptions) == 0 {
		opts.Config = dailysession.DefaultConfig()
	}
	if opts.Clock == nil {
		opts.Clock = calendar.SystemClock{}
	}
	if opts.Metrics == nil {
		opts.Metrics = metrics.NewRecorder()
	}
	if opts.WriteQueueSize <= 0 {
		opts.WriteQueueSize = 64
	}

	s := &StudyService{
		kv:      kv,
		catalog: cat,
		clock:   opts.Clock,
		cfg:     opts.Config,
		logger:  logger,
		metrics: opts.Metrics,
	}
	s.writes = worker.NewPool(opts.WriteQueueSize, func(r worker.Result) {
		s.logger.Error("persist failed", "job", r.JobID, "error", r.Err)
		s.metrics.PersistErrors.WithLabelValues(r.JobID, "write").Inc()
	})
	return s
}

// Catalog exposes the item catalog for display lookups.
func (s *StudyService) Catalog() *catalog.Catalog {
	return s.catalog
}

// Flush waits for queued writes.
func (s *StudyService) Flush() {
	s.writes.Flush()
}

// Close flushes queued writes and stops the writer. The KV store is owned
// by the caller.
func (s *StudyService) Close() {
	s.writes.Close()
}

// ── Intents ─────────────────────────────────────────────────────────────────

// BuildOrLoadSession returns today's session, migrating or rebuilding the
// persisted one when needed.
func (s *StudyService) BuildOrLoadSession(ctx context.Context) Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.ensureToday(ctx)
	return s.snapshot(true)
}

// Judge records a known/unknown verdict for the current item.
func (s *StudyService) Judge(ctx context.Context, id string, known bool) Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.ensureToday(ctx)

	round := "main"
	if s.session.Extra != nil {
		round = string(s.session.Extra.Type)
	}

	now := s.clock.Now()
	next, nextProgress, ok := dailysession.Judge(s.session, s.progress, id, known, now)
	if !ok {
		s.logger.Debug("judgment ignored", "id", id, "state", dailysession.DerivedState(s.session))
		return s.snapshot(false)
	}

	s.progress = nextProgress
	s.session = next
	s.metrics.Judgments.WithLabelValues(string(progress.VerdictOf(known)), round).Inc()

	s.saveProgress()
	s.touchDay(now)
	s.saveSession()
	return s.snapshot(true)
}

// EndNow ends the active round early, pausing an unfinished base set.
func (s *StudyService) EndNow(ctx context.Context) Snapshot {
	return s.apply(ctx, "end", dailysession.EndNow)
}

// Resume continues a paused base set.
func (s *StudyService) Resume(ctx context.Context) Snapshot {
	return s.apply(ctx, "resume", dailysession.Resume)
}

// Finalize closes the day.
func (s *StudyService) Finalize(ctx context.Context) Snapshot {
	return s.apply(ctx, "finalize", dailysession.Finalize)
}

// StartExtra opens a random or wrong-only supplemental round.
func (s *StudyService) StartExtra(ctx context.Context, kind dailysession.ExtraKind, count int) Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.ensureToday(ctx)

	next, ok := dailysession.StartExtra(s.session, s.progress, s.catalog.IDs(), kind, count, s.cfg)
	if !ok {
		s.logger.Debug("extra round ignored", "kind", kind, "state", dailysession.DerivedState(s.session))
		return s.snapshot(false)
	}

	s.session = next
	s.metrics.ExtraRounds.WithLabelValues(string(kind)).Inc()
	s.logger.Info("extra round started", "kind", kind, "items", len(next.Extra.IDs))

	s.saveSession()
	return s.snapshot(true)
}

// ResetScope deletes mastery records reviewed in scope and immediately
// builds a fresh session. It returns how many records were removed.
// Confirmation is the caller's job.
func (s *StudyService) ResetScope(ctx context.Context, scope progress.Scope) (Snapshot, int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.ensureToday(ctx)
	if !scope.Valid() {
		return s.snapshot(false), 0
	}

	today := calendar.TodayKey(s.clock)
	var removed int
	if scope == progress.ScopeAll {
		removed = len(s.progress)
		s.progress = progress.Progress{}
		s.remove(ProgressKey)
		s.remove(SessionKey)
	} else {
		next := s.progress.Clone()
		removed = next.Reset(scope, today)
		s.progress = next
		s.saveProgress()
	}

	s.session = dailysession.Build(s.progress, s.catalog.IDs(), s.cfg, today)
	s.saveSession()

	s.metrics.Resets.WithLabelValues(string(scope)).Inc()
	s.logger.Info("progress reset", "scope", scope, "removed", removed)
	return s.snapshot(true), removed
}

// ── Read accessors ──────────────────────────────────────────────────────────

// Stats aggregates the progress store.
func (s *StudyService) Stats(ctx context.Context) stats.Stats {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.ensureToday(ctx)
	return stats.Compute(s.progress, calendar.TodayKey(s.clock))
}

// TodayVerdicts returns the round-local verdicts of today's session.
func (s *StudyService) TodayVerdicts(ctx context.Context) stats.Verdicts {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.ensureToday(ctx)
	return stats.TodayVerdicts(s.session)
}

// ItemsForDate lists the items whose last review fell on day.
func (s *StudyService) ItemsForDate(ctx context.Context, day string) stats.DateItems {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.ensureToday(ctx)
	return stats.ItemsForDate(s.progress, day)
}

// DerivedState reports the display state of today's session.
func (s *StudyService) DerivedState(ctx context.Context) dailysession.State {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.ensureToday(ctx)
	return dailysession.DerivedState(s.session)
}

// Summary reports the numbers for the end-of-round view.
func (s *StudyService) Summary(ctx context.Context) stats.Summary {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.ensureToday(ctx)
	return stats.Summarize(s.session, s.progress)
}

// StudyDays lists every day with at least one judgment, newest first.
func (s *StudyService) StudyDays(ctx context.Context) []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.ensureToday(ctx)
	days := make([]string, 0, len(s.dailyLog))
	for day := range s.dailyLog {
		days = append(days, day)
	}
	sort.Sort(sort.Reverse(sort.StringSlice(days)))
	return days
}

// ── Internals ───────────────────────────────────────────────────────────────

func (s *StudyService) apply(ctx context.Context, name string, fn func(*dailysession.DailySession) (*dailysession.DailySession, bool)) Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.ensureToday(ctx)

	next, ok := fn(s.session)
	if !ok {
		s.logger.Debug("intent ignored", "intent", name, "state", dailysession.DerivedState(s.session))
		return s.snapshot(false)
	}

	s.session = next
	s.saveSession()
	return s.snapshot(true)
}

// ensureToday loads persisted state on first use and swaps in a new session
// whenever the held one is not for today. Stale sessions are never mutated.
func (s *StudyService) ensureToday(ctx context.Context) {
	today := calendar.TodayKey(s.clock)

	if !s.loaded {
		s.progress = s.readProgress(ctx)
		s.dailyLog = map[string]DayEntry{}
		var log map[string]DayEntry
		if s.readJSON(ctx, DailyLogKey, &log) && log != nil {
			s.dailyLog = log
		}
	}

	if s.loaded && s.session != nil && s.session.Date == today {
		return
	}

	var raw []byte
	if !s.loaded {
		raw = s.readRaw(ctx, SessionKey)
		s.loaded = true
	}

	session, outcome := dailysession.Migrate(raw, s.progress, s.catalog.IDs(), s.cfg, today)
	s.session = session
	s.metrics.SessionsBuilt.WithLabelValues(string(outcome)).Inc()
	s.logger.Info("daily session ready", "date", today, "outcome", outcome, "base_count", session.Main.BaseCount)

	if outcome != dailysession.OutcomeCurrent {
		s.saveSession()
	}
}

func (s *StudyService) touchDay(now time.Time) {
	day := calendar.Key(now)
	if _, ok := s.dailyLog[day]; ok {
		return
	}
	s.dailyLog[day] = DayEntry{TouchedAt: now}
	s.saveJSON(DailyLogKey, s.dailyLog)
}

func (s *StudyService) snapshot(applied bool) Snapshot {
	snap := Snapshot{
		Session: s.session.Clone(),
		State:   dailysession.DerivedState(s.session),
		Applied: applied,
	}
	if id, ok := s.session.CurrentID(); ok {
		snap.CurrentID = id
		if item, found := s.catalog.Get(id); found {
			snap.Current = &item
		}
	}
	return snap
}

func (s *StudyService) saveProgress() {
	s.saveJSON(ProgressKey, s.progress)
}

func (s *StudyService) saveSession() {
	s.saveJSON(SessionKey, s.session)
}

// saveJSON encodes v now, so later mutations cannot leak into the queued
// write, and enqueues the store call.
func (s *StudyService) saveJSON(key string, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		s.logger.Error("encode failed", "key", key, "error", err)
		s.metrics.PersistErrors.WithLabelValues(key, "encode").Inc()
		return
	}
	s.writes.Submit(key, func(ctx context.Context) error {
		return s.kv.Set(ctx, key, data)
	})
}

func (s *StudyService) remove(key string) {
	s.writes.Submit(key, func(ctx context.Context) error {
		return s.kv.Remove(ctx, key)
	})
}

// readRaw returns nil for absent keys and for read failures, which are
// logged and treated as absent.
func (s *StudyService) readRaw(ctx context.Context, key string) []byte {
	raw, err := s.kv.Get(ctx, key)
	if errors.Is(err, store.ErrNotFound) {
		return nil
	}
	if err != nil {
		s.logger.Warn("read failed, treating as absent", "key", key, "error", err)
		s.metrics.PersistErrors.WithLabelValues(key, "read").Inc()
		return nil
	}
	return raw
}

// readProgress decodes the mastery map one record at a time, so a single
// bad record is dropped instead of the whole store.
func (s *StudyService) readProgress(ctx context.Context) progress.Progress {
	p := progress.Progress{}
	var raw map[string]json.RawMessage
	if !s.readJSON(ctx, ProgressKey, &raw) {
		return p
	}
	for id, data := range raw {
		var r progress.Record
		if err := json.Unmarshal(data, &r); err != nil {
			s.logger.Warn("malformed progress record, skipping", "id", id, "error", err)
			s.metrics.PersistErrors.WithLabelValues(ProgressKey, "decode").Inc()
			continue
		}
		p[id] = r
	}
	return p
}

// readJSON decodes key into v and reports whether it succeeded. v may be
// partially filled on failure, so callers decode into a scratch value.
func (s *StudyService) readJSON(ctx context.Context, key string, v any) bool {
	raw := s.readRaw(ctx, key)
	if raw == nil {
		return false
	}
	if err := json.Unmarshal(raw, v); err != nil {
		s.logger.Warn("malformed persisted data, treating as absent", "key", key, "error", err)
		s.metrics.PersistErrors.WithLabelValues(key, "decode").Inc()
		return false
	}
	return true
}
