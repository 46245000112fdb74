package api_test

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hanja-cards/backend/internal/api"
	"github.com/hanja-cards/backend/internal/calendar"
	"github.com/hanja-cards/backend/internal/domain/catalog"
	"github.com/hanja-cards/backend/internal/service"
	"github.com/hanja-cards/backend/internal/store"
)

func newServer(t *testing.T) http.Handler {
	t.Helper()
	cat, err := catalog.New([]catalog.Item{
		{ID: "A", Character: "家", Sound: "가", Meaning: "house"},
		{ID: "B", Character: "江", Sound: "강", Meaning: "river"},
		{ID: "C", Character: "車", Sound: "거", Meaning: "cart"},
	})
	require.NoError(t, err)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	study := service.NewStudyService(store.NewMemory(), cat, logger, service.Options{
		Clock: calendar.FixedClock{T: time.Date(2026, 10, 15, 9, 0, 0, 0, time.Local)},
	})
	t.Cleanup(study.Close)

	mux := http.NewServeMux()
	api.RegisterRoutes(mux, api.NewHandler(study, logger))
	api.RegisterDocs(mux)
	return api.Logging(logger)(api.CORS(mux))
}

func do(t *testing.T, srv http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, r)
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&v))
	return v
}

// judgeAll answers every remaining card in the active round.
func judgeAll(t *testing.T, srv http.Handler, known map[string]bool) api.SessionResponse {
	t.Helper()
	sess := decode[api.SessionResponse](t, do(t, srv, "GET", "/session", ""))
	for sess.Current != nil {
		body, _ := json.Marshal(map[string]any{"id": sess.Current.ID, "known": known[sess.Current.ID]})
		rec := do(t, srv, "POST", "/session/judgments", string(body))
		require.Equal(t, http.StatusOK, rec.Code)
		sess = decode[api.SessionResponse](t, rec)
		require.True(t, sess.Applied)
	}
	return sess
}

func TestGetSession(t *testing.T) {
	srv := newServer(t)

	rec := do(t, srv, "GET", "/session", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))

	sess := decode[api.SessionResponse](t, rec)
	assert.Equal(t, "2026-10-15", sess.Date)
	assert.Equal(t, "active-main", string(sess.State))
	require.NotNil(t, sess.Current)
	assert.NotEmpty(t, sess.Current.Character)
	assert.Equal(t, 3, sess.Main.Total)
	assert.Equal(t, 3, sess.Main.BaseCount)
	assert.Nil(t, sess.Extra)
}

func TestRequestIDIsEchoed(t *testing.T) {
	srv := newServer(t)

	req := httptest.NewRequest("GET", "/session", nil)
	req.Header.Set("X-Request-ID", "abc-123")
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	assert.Equal(t, "abc-123", rec.Header().Get("X-Request-ID"))
}

func TestJudge_Validation(t *testing.T) {
	srv := newServer(t)

	cases := map[string]string{
		"not json":      `{`,
		"missing id":    `{"known": true}`,
		"missing known": `{"id": "A"}`,
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			rec := do(t, srv, "POST", "/session/judgments", body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
}

func TestJudge_OutOfTurnIsNotApplied(t *testing.T) {
	srv := newServer(t)
	sess := decode[api.SessionResponse](t, do(t, srv, "GET", "/session", ""))

	rec := do(t, srv, "POST", "/session/judgments", `{"id": "Z", "known": true}`)
	require.Equal(t, http.StatusOK, rec.Code)

	got := decode[api.SessionResponse](t, rec)
	assert.False(t, got.Applied)
	assert.Equal(t, sess.Current.ID, got.Current.ID)
}

func TestFullDay(t *testing.T) {
	srv := newServer(t)

	sess := judgeAll(t, srv, map[string]bool{"A": true, "C": true})
	assert.Equal(t, "base-complete-awaiting-summary", string(sess.State))
	assert.True(t, sess.Main.BaseCompleted)

	summary := decode[map[string]int](t, do(t, srv, "GET", "/session/summary", ""))
	assert.Equal(t, 3, summary["done"])
	assert.Equal(t, 1, summary["wrongAvailable"])

	rec := do(t, srv, "POST", "/session/extra", `{"kind": "wrong"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	sess = decode[api.SessionResponse](t, rec)
	require.True(t, sess.Applied)
	require.NotNil(t, sess.Extra)
	assert.Equal(t, 1, sess.Extra.Total)
	assert.Equal(t, "B", sess.Current.ID)

	sess = judgeAll(t, srv, map[string]bool{"B": true})
	assert.Equal(t, "extra-complete", string(sess.State))

	verdicts := decode[api.VerdictsResponse](t, do(t, srv, "GET", "/session/verdicts", ""))
	assert.Len(t, verdicts.Known, 3)
	require.Len(t, verdicts.Unknown, 1)
	assert.Equal(t, "江", verdicts.Unknown[0].Character)

	sess = decode[api.SessionResponse](t, do(t, srv, "POST", "/session/finalize", ""))
	assert.True(t, sess.Applied)
	assert.Equal(t, "finalized", string(sess.State))
	assert.Nil(t, sess.Current)

	sess = decode[api.SessionResponse](t, do(t, srv, "POST", "/session/extra", `{"kind": "random", "count": 10}`))
	assert.False(t, sess.Applied)
}

func TestStartExtra_Validation(t *testing.T) {
	srv := newServer(t)

	assert.Equal(t, http.StatusBadRequest, do(t, srv, "POST", "/session/extra", `{"kind": "all"}`).Code)
	assert.Equal(t, http.StatusBadRequest, do(t, srv, "POST", "/session/extra", `{"kind": "random", "count": -1}`).Code)
}

func TestEndAndResume(t *testing.T) {
	srv := newServer(t)
	do(t, srv, "GET", "/session", "")

	sess := decode[api.SessionResponse](t, do(t, srv, "POST", "/session/end", ""))
	assert.True(t, sess.Applied)
	assert.Equal(t, "paused", string(sess.State))

	sess = decode[api.SessionResponse](t, do(t, srv, "POST", "/session/resume", ""))
	assert.True(t, sess.Applied)
	assert.Equal(t, "active-main", string(sess.State))

	sess = decode[api.SessionResponse](t, do(t, srv, "POST", "/session/resume", ""))
	assert.False(t, sess.Applied)
}

func TestStats(t *testing.T) {
	srv := newServer(t)
	judgeAll(t, srv, map[string]bool{"A": true})

	rec := do(t, srv, "GET", "/stats", "")
	require.Equal(t, http.StatusOK, rec.Code)
	st := decode[api.StatsResponse](t, rec)
	assert.Equal(t, 3, st.Total.Reviewed)
	assert.Equal(t, 1, st.Today.Known)
	assert.Equal(t, 2, st.Week.Unknown)
	assert.Equal(t, []string{"2026-10-15"}, st.StudyDays)

	dates := decode[[]api.DateSummary](t, do(t, srv, "GET", "/stats/dates", ""))
	require.Len(t, dates, 1)
	assert.Equal(t, "2026-10-15", dates[0].Date)
	assert.Equal(t, 3, dates[0].Reviewed)

	day := decode[api.DateItemsResponse](t, do(t, srv, "GET", "/stats/dates/2026-10-15", ""))
	assert.Equal(t, 3, day.Total)
	require.Len(t, day.Known, 1)
	assert.Equal(t, "家", day.Known[0].Character)
	assert.Len(t, day.Unknown, 2)

	assert.Equal(t, http.StatusBadRequest, do(t, srv, "GET", "/stats/dates/yesterday", "").Code)
}

func TestResetProgress(t *testing.T) {
	srv := newServer(t)
	judgeAll(t, srv, map[string]bool{"A": true})

	rec := do(t, srv, "POST", "/progress/reset", `{"scope": "today"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, srv, "POST", "/progress/reset", `{"scope": "month", "confirm": true}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, srv, "POST", "/progress/reset", `{"scope": "today", "confirm": true}`)
	require.Equal(t, http.StatusOK, rec.Code)
	resp := decode[api.ResetResponse](t, rec)
	assert.Equal(t, 3, resp.Removed)
	assert.True(t, resp.Session.Applied)
	assert.Equal(t, "active-main", string(resp.Session.State))
	assert.Equal(t, 0, resp.Session.Main.Cursor)

	st := decode[api.StatsResponse](t, do(t, srv, "GET", "/stats", ""))
	assert.Zero(t, st.Total.Reviewed)
}

func TestCORSPreflight(t *testing.T) {
	srv := newServer(t)

	rec := do(t, srv, "OPTIONS", "/session/judgments", "")
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestDocs(t *testing.T) {
	srv := newServer(t)

	rec := do(t, srv, "GET", "/swagger/doc.json", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	doc := decode[struct {
		Paths map[string]map[string]any `json:"paths"`
	}](t, rec)
	for path, method := range map[string]string{
		"/session":            "get",
		"/session/judgments":  "post",
		"/session/end":        "post",
		"/session/resume":     "post",
		"/session/extra":      "post",
		"/session/finalize":   "post",
		"/session/summary":    "get",
		"/session/verdicts":   "get",
		"/progress/reset":     "post",
		"/stats":              "get",
		"/stats/dates":        "get",
		"/stats/dates/{date}": "get",
	} {
		require.Contains(t, doc.Paths, path)
		assert.Contains(t, doc.Paths[path], method, path)
	}

	ui := do(t, srv, "GET", "/swagger/index.html", "")
	assert.Equal(t, http.StatusOK, ui.Code)
	assert.Contains(t, ui.Body.String(), "/swagger/doc.json")
}
