package api

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/bytedance/sonic"
	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus/hooks/test"

	"workload-board/board"
	"workload-board/domain"
	"workload-board/storage"
)

type failingKV struct {
	storage.KV
}

func (failingKV) Save(context.Context, string, []byte) error { return errors.New("disk full") }

// flakyKV fails the first Save and succeeds afterwards.
type flakyKV struct {
	storage.KV
	failed bool
}

func (f *flakyKV) Save(ctx context.Context, key string, value []byte) error {
	if !f.failed {
		f.failed = true
		return errors.New("timeout")
	}
	return f.KV.Save(ctx, key, value)
}

func newTestServer(t *testing.T, kv storage.KV, dedup Deduper) *echo.Echo {
	t.Helper()
	logger, _ := test.NewNullLogger()
	n := 0
	ids := func() string {
		n++
		return "id-" + strconv.Itoa(n)
	}
	b := board.Open(context.Background(), storage.NewSnapshots(kv), logger, board.WithIDGenerator(ids))
	e := echo.New()
	Register(e, b, dedup, logger)
	return e
}

func do(t *testing.T, e *echo.Echo, method, path, body string) (*httptest.ResponseRecorder, board.State) {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	var st board.State
	if rec.Code == http.StatusOK && strings.HasPrefix(path, "/api/") && !(method == http.MethodGet && path == "/api/weights") {
		if err := sonic.Unmarshal(rec.Body.Bytes(), &st); err != nil {
			t.Fatalf("decode state: %v (%s)", err, rec.Body.String())
		}
	}
	return rec, st
}

func personByID(t *testing.T, st board.State, id string) domain.Person {
	t.Helper()
	p, ok := st.Person(id)
	if !ok {
		t.Fatalf("person %q missing", id)
	}
	return p
}

func TestGetBoard(t *testing.T) {
	e := newTestServer(t, storage.NewMemoryKV(), nil)
	rec, st := do(t, e, http.MethodGet, "/api/board", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if len(st.People) != 3 || personByID(t, st, "1").TotalScore != 3.9 {
		t.Fatalf("unexpected board %+v", st)
	}
}

func TestPeopleRoutes(t *testing.T) {
	e := newTestServer(t, storage.NewMemoryKV(), nil)

	rec, st := do(t, e, http.MethodPost, "/api/people", `{"name":"Ann","level":18}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("add person: %d %s", rec.Code, rec.Body.String())
	}
	if p := personByID(t, st, "id-1"); p.Name != "Ann" || p.Level != 18 {
		t.Fatalf("unexpected person %+v", p)
	}

	_, st = do(t, e, http.MethodPatch, "/api/people/id-1", `{"name":"Anna"}`)
	if personByID(t, st, "id-1").Name != "Anna" {
		t.Fatalf("rename not applied")
	}

	_, st = do(t, e, http.MethodPut, "/api/people/1/level", `{"level":14}`)
	if personByID(t, st, "1").TotalScore != 3 {
		t.Fatalf("expected rescore after level change, got %v", personByID(t, st, "1").TotalScore)
	}

	_, st = do(t, e, http.MethodPost, "/api/people/move", `{"index":3,"direction":"up"}`)
	if st.People[2].ID != "id-1" {
		t.Fatalf("move not applied: %+v", st.People)
	}

	rec, _ = do(t, e, http.MethodPost, "/api/people/move", `{"index":0,"direction":"left"}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for bad direction, got %d", rec.Code)
	}

	_, st = do(t, e, http.MethodDelete, "/api/people/id-1", "")
	if _, ok := st.Person("id-1"); ok {
		t.Fatalf("person not deleted")
	}
}

func TestTaskRoutes(t *testing.T) {
	e := newTestServer(t, storage.NewMemoryKV(), nil)

	_, st := do(t, e, http.MethodPost, "/api/people/3/tasks", `{"title":"Ship","estimation":"l","color":"#000"}`)
	p := personByID(t, st, "3")
	if len(p.Tasks) != 3 || p.TotalScore != 3 || p.Tasks[2].Color != domain.DefaultColor {
		t.Fatalf("unexpected person %+v", p)
	}

	_, st = do(t, e, http.MethodPost, "/api/people/3/tasks", `{"title":"Default"}`)
	if got := personByID(t, st, "3").Tasks[3].Estimation; got != domain.DefaultEstimation {
		t.Fatalf("estimation = %q, want default", got)
	}

	_, st = do(t, e, http.MethodPut, "/api/people/3/tasks/id-1", `{"title":"Ship it","estimation":"XS","color":"#80CBC4"}`)
	if task := personByID(t, st, "3").Tasks[2]; task.Title != "Ship it" || task.Estimation != domain.EstimationXS {
		t.Fatalf("update not applied: %+v", task)
	}

	rec, _ := do(t, e, http.MethodPost, "/api/people/3/tasks", `{"title":"x","estimation":"XXL"}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for bad estimation, got %d", rec.Code)
	}

	_, st = do(t, e, http.MethodPost, "/api/people/3/tasks/reorder", `{"from":"id-1","to":"3-1"}`)
	if got := personByID(t, st, "3").Tasks[0].ID; got != "id-1" {
		t.Fatalf("reorder not applied, first task %q", got)
	}

	_, st = do(t, e, http.MethodDelete, "/api/people/3/tasks/id-1", "")
	if len(personByID(t, st, "3").Tasks) != 3 {
		t.Fatalf("task not deleted")
	}

	rec, _ = do(t, e, http.MethodPost, "/api/people/3/tasks", `{"title":"x","unknown":1}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for unknown field, got %d", rec.Code)
	}
}

func TestReorderGestureAppliedOnce(t *testing.T) {
	e := newTestServer(t, storage.NewMemoryKV(), NewMemoryDeduper(time.Minute))
	body := `{"from":"1-2","to":"1-1","gestureId":"g1"}`

	_, first := do(t, e, http.MethodPost, "/api/people/1/tasks/reorder", body)
	_, second := do(t, e, http.MethodPost, "/api/people/1/tasks/reorder", body)
	if first.Version != 1 || second.Version != 1 {
		t.Fatalf("versions = %d, %d; want 1, 1", first.Version, second.Version)
	}
	if personByID(t, second, "1").Tasks[0].ID != "1-2" {
		t.Fatalf("replayed gesture must not undo the move")
	}
}

func TestReorderRetryAfterPersistFailureIsDropped(t *testing.T) {
	e := newTestServer(t, &flakyKV{KV: storage.NewMemoryKV()}, NewMemoryDeduper(time.Minute))
	body := `{"from":"1-1","to":"1-2","gestureId":"g1"}`

	rec, _ := do(t, e, http.MethodPost, "/api/people/1/tasks/reorder", body)
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503 on failed save, got %d", rec.Code)
	}

	rec, st := do(t, e, http.MethodPost, "/api/people/1/tasks/reorder", body)
	if rec.Code != http.StatusOK {
		t.Fatalf("retry: expected 200, got %d", rec.Code)
	}
	if st.Version != 1 {
		t.Fatalf("gesture applied more than once: version=%d", st.Version)
	}
	tasks := personByID(t, st, "1").Tasks
	if tasks[0].ID != "1-2" || tasks[1].ID != "1-1" {
		t.Fatalf("unexpected order %s, %s", tasks[0].ID, tasks[1].ID)
	}
}

func TestWeightsRoutes(t *testing.T) {
	e := newTestServer(t, storage.NewMemoryKV(), nil)

	rows := make([]map[string]any, 0, 4)
	for _, w := range domain.DefaultWeights() {
		cells := map[string]any{}
		for lvl, v := range w.Weights {
			cells[strconv.Itoa(int(lvl))] = v
		}
		rows = append(rows, map[string]any{"type": string(w.Type), "weights": cells})
	}
	rows[1]["weights"].(map[string]any)["17"] = "2"
	rows[2]["weights"].(map[string]any)["14"] = "abc"
	body, err := sonic.Marshal(rows)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	rec, st := do(t, e, http.MethodPut, "/api/weights", string(body))
	if rec.Code != http.StatusOK {
		t.Fatalf("save weights: %d %s", rec.Code, rec.Body.String())
	}
	if got := personByID(t, st, "2").TotalScore; got != 4 {
		t.Fatalf("score = %v, want 4", got)
	}
	if got := personByID(t, st, "3").TotalScore; got != 0 {
		t.Fatalf("unparsable cell should count as 0, score = %v", got)
	}

	rec, _ = do(t, e, http.MethodPut, "/api/weights", `[{"type":"L","weights":{"14":1}}]`)
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422 for incomplete table, got %d", rec.Code)
	}

	rec, _ = do(t, e, http.MethodGet, "/api/weights", "")
	var table domain.WeightTable
	if err := sonic.Unmarshal(rec.Body.Bytes(), &table); err != nil {
		t.Fatalf("decode weights: %v", err)
	}
	if w, _ := table.Weight(domain.EstimationM, 17); w != 2 {
		t.Fatalf("stored weight = %v, want 2", w)
	}
}

func TestSelectionAndReset(t *testing.T) {
	e := newTestServer(t, storage.NewMemoryKV(), nil)

	_, st := do(t, e, http.MethodPut, "/api/selection", `{"personId":"2","taskId":"2-1","editingPersonId":"3"}`)
	want := board.Selection{PersonID: "2", TaskID: "2-1", EditingPersonID: "3"}
	if st.Selection != want {
		t.Fatalf("selection = %+v, want %+v", st.Selection, want)
	}
	_, st = do(t, e, http.MethodDelete, "/api/selection", "")
	if st.Selection != (board.Selection{}) {
		t.Fatalf("selection not cleared")
	}

	do(t, e, http.MethodDelete, "/api/people/1", "")
	_, st = do(t, e, http.MethodPost, "/api/reset", "")
	if len(st.People) != 3 || st.Selection != (board.Selection{}) {
		t.Fatalf("reset did not restore defaults: %+v", st)
	}
}

func TestPersistFailureReturns503(t *testing.T) {
	e := newTestServer(t, failingKV{KV: storage.NewMemoryKV()}, nil)
	rec, _ := do(t, e, http.MethodPost, "/api/people", `{"name":"Ann","level":16}`)
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", rec.Code)
	}
}

func TestHealthz(t *testing.T) {
	e := newTestServer(t, storage.NewMemoryKV(), nil)
	rec, _ := do(t, e, http.MethodGet, "/healthz", "")
	if rec.Code != http.StatusOK || rec.Body.String() != "ok" {
		t.Fatalf("unexpected healthz response %d %q", rec.Code, rec.Body.String())
	}
}

func TestCellValue(t *testing.T) {
	tests := []struct {
		in   any
		want float64
	}{
		{1.5, 1.5},
		{"2.25", 2.25},
		{" 3 ", 3},
		{"abc", 0},
		{-1.0, 0},
		{"-1", 0},
		{true, 0},
		{nil, 0},
	}
	for _, tt := range tests {
		if got := cellValue(tt.in); got != tt.want {
			t.Fatalf("cellValue(%#v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
