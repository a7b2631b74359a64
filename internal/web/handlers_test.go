package web

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/foxerapp/foxer/internal/config"
	"github.com/foxerapp/foxer/internal/store"
	"github.com/foxerapp/foxer/internal/stt"
	"github.com/foxerapp/foxer/internal/task"
)

func testConfig() *config.Config {
	cfg := config.DefaultConfig()
	cfg.MaxAudioBytes = 64
	return cfg
}

func newTestServer(t *testing.T, sttClient *stt.Client) (*store.Store, http.Handler) {
	t.Helper()
	st := store.New(nil, nil)
	srv := NewServer(st, testConfig(), sttClient, "test", "127.0.0.1", 0)
	return st, srv.Handler
}

func seedTask(t *testing.T, st *store.Store, title string) task.Task {
	t.Helper()
	created, err := st.Add(title, "", task.Due{ParsedDate: time.Now()})
	if err != nil {
		t.Fatalf("seeding %q: %v", title, err)
	}
	return *created
}

func doJSON(t *testing.T, h http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var rd *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshaling body: %v", err)
		}
		rd = bytes.NewReader(raw)
	} else {
		rd = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, rd)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder, out any) {
	t.Helper()
	if err := json.Unmarshal(w.Body.Bytes(), out); err != nil {
		t.Fatalf("decoding response %q: %v", w.Body.String(), err)
	}
}

func TestListPageRendersTasks(t *testing.T) {
	st, h := newTestServer(t, nil)
	seedTask(t, st, "Water the plants")

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/tasks", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	if !strings.Contains(w.Body.String(), "Water the plants") {
		t.Error("list page does not show the seeded task title")
	}
}

func TestDetailPageRendersNotes(t *testing.T) {
	st, h := newTestServer(t, nil)
	created, err := st.Add("Read", "# Chapter one", task.Due{ParsedDate: time.Now()})
	if err != nil {
		t.Fatal(err)
	}

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/tasks/"+created.ID, nil))

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	if !strings.Contains(w.Body.String(), "<h1>Chapter one</h1>") {
		t.Error("detail page does not render markdown notes")
	}
}

func TestDetailPageNotFound(t *testing.T) {
	_, h := newTestServer(t, nil)

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/tasks/nope", nil))

	if w.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", w.Code)
	}
}

func TestAPIListSplitsCollections(t *testing.T) {
	st, h := newTestServer(t, nil)
	a := seedTask(t, st, "a")
	seedTask(t, st, "b")
	st.SetCompleted(a.ID, true)

	w := doJSON(t, h, http.MethodGet, "/api/tasks", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}

	var resp struct {
		Active    []task.Task `json:"active"`
		Completed []task.Task `json:"completed"`
	}
	decodeBody(t, w, &resp)
	if len(resp.Active) != 1 || len(resp.Completed) != 1 {
		t.Fatalf("got %d active / %d completed, want 1/1", len(resp.Active), len(resp.Completed))
	}
	if resp.Completed[0].ID != a.ID {
		t.Errorf("completed[0] = %q, want %q", resp.Completed[0].ID, a.ID)
	}
}

func TestCreateTask(t *testing.T) {
	st, h := newTestServer(t, nil)

	w := doJSON(t, h, http.MethodPost, "/api/tasks", map[string]string{
		"title":    "Dentist",
		"due_date": "2026-09-15",
		"due_time": "09:30",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201: %s", w.Code, w.Body.String())
	}

	var created task.Task
	decodeBody(t, w, &created)
	due := created.Due.ParsedDate
	if due.Year() != 2026 || due.Month() != time.September || due.Day() != 15 {
		t.Errorf("due date = %v, want 2026-09-15", due)
	}
	if due.Hour() != 9 || due.Minute() != 30 {
		t.Errorf("due time = %02d:%02d, want 09:30", due.Hour(), due.Minute())
	}
	if !st.Has(created.ID) {
		t.Error("created task is not in the store")
	}
}

func TestCreateTaskRejectsEmptyTitle(t *testing.T) {
	st, h := newTestServer(t, nil)

	w := doJSON(t, h, http.MethodPost, "/api/tasks", map[string]string{"title": "   "})
	if w.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want 422", w.Code)
	}
	if len(st.Active()) != 0 {
		t.Error("rejected create must not touch the store")
	}
}

func TestCreateTaskRejectsMalformedBody(t *testing.T) {
	_, h := newTestServer(t, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/tasks", strings.NewReader("{not json"))
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
}

func TestPatchTask(t *testing.T) {
	st, h := newTestServer(t, nil)
	seeded := seedTask(t, st, "Old title")

	w := doJSON(t, h, http.MethodPatch, "/api/tasks/"+seeded.ID, map[string]any{
		"title":     "New title",
		"completed": true,
	})
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", w.Code, w.Body.String())
	}

	got, _ := st.Get(seeded.ID)
	if got.Title != "New title" {
		t.Errorf("title = %q, want %q", got.Title, "New title")
	}
	if !got.Completed {
		t.Error("task should be completed")
	}
	if len(st.Completed()) != 1 {
		t.Error("task did not move to the completed collection")
	}
}

func TestPatchTaskNotFound(t *testing.T) {
	_, h := newTestServer(t, nil)

	w := doJSON(t, h, http.MethodPatch, "/api/tasks/missing", map[string]any{"title": "x"})
	if w.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", w.Code)
	}
}

func TestDeleteTaskIsStaged(t *testing.T) {
	st, h := newTestServer(t, nil)
	seeded := seedTask(t, st, "doomed")

	w := doJSON(t, h, http.MethodDelete, "/api/tasks/"+seeded.ID, nil)
	if w.Code != http.StatusAccepted {
		t.Fatalf("status = %d, want 202", w.Code)
	}
	if !st.Has(seeded.ID) {
		t.Fatal("staged delete must not remove the task immediately")
	}

	// The marker shows up in the list payload while the grace period runs.
	lw := doJSON(t, h, http.MethodGet, "/api/tasks", nil)
	if !strings.Contains(lw.Body.String(), `"pending_delete":true`) {
		t.Error("pending delete marker missing from the list payload")
	}

	deadline := time.Now().Add(2 * time.Second)
	for st.Has(seeded.ID) {
		if time.Now().After(deadline) {
			t.Fatal("staged delete never committed")
		}
		time.Sleep(10 * time.Millisecond)
	}
}

func TestStagedDeleteFollowsTaskAcrossCollections(t *testing.T) {
	st, h := newTestServer(t, nil)
	seeded := seedTask(t, st, "doomed")

	w := doJSON(t, h, http.MethodDelete, "/api/tasks/"+seeded.ID, nil)
	if w.Code != http.StatusAccepted {
		t.Fatalf("status = %d, want 202", w.Code)
	}

	// The task completes while the grace period runs; the deferred delete
	// must still find it in its new collection.
	if !st.SetCompleted(seeded.ID, true) {
		t.Fatal("SetCompleted reported not found")
	}

	deadline := time.Now().Add(2 * time.Second)
	for st.Has(seeded.ID) {
		if time.Now().After(deadline) {
			t.Fatal("staged delete missed the task after it changed collections")
		}
		time.Sleep(10 * time.Millisecond)
	}
}

func TestDeleteTaskNow(t *testing.T) {
	st, h := newTestServer(t, nil)
	seeded := seedTask(t, st, "doomed")

	w := doJSON(t, h, http.MethodDelete, "/api/tasks/"+seeded.ID+"?now=true", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	if st.Has(seeded.ID) {
		t.Error("immediate delete left the task in the store")
	}
}

func TestDuplicateTask(t *testing.T) {
	st, h := newTestServer(t, nil)
	seeded := seedTask(t, st, "original")

	w := doJSON(t, h, http.MethodPost, "/api/tasks/"+seeded.ID+"/duplicate", nil)
	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201", w.Code)
	}

	var dup task.Task
	decodeBody(t, w, &dup)
	if dup.ID == seeded.ID {
		t.Error("duplicate must get a fresh id")
	}
	if dup.Title != "original" {
		t.Errorf("duplicate title = %q", dup.Title)
	}
}

func TestReorderEndpoint(t *testing.T) {
	st, h := newTestServer(t, nil)
	t3 := seedTask(t, st, "t3")
	t2 := seedTask(t, st, "t2")
	t1 := seedTask(t, st, "t1") // active order: t1, t2, t3

	w := doJSON(t, h, http.MethodPost, "/api/tasks/reorder", map[string]any{
		"group_ids": []string{t1.ID, t3.ID},
		"active_id": t1.ID,
		"over_id":   t2.ID,
	})
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}

	var resp struct {
		Moved bool `json:"moved"`
	}
	decodeBody(t, w, &resp)
	if !resp.Moved {
		t.Fatal("moved = false, want true")
	}

	active := st.Active()
	got := []string{active[0].ID, active[1].ID, active[2].ID}
	want := []string{t2.ID, t1.ID, t3.ID}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("order = %v, want %v", got, want)
		}
	}
}

func TestMoveEndpoint(t *testing.T) {
	st, h := newTestServer(t, nil)
	a := seedTask(t, st, "a")
	b := seedTask(t, st, "b")

	w := doJSON(t, h, http.MethodPost, "/api/tasks/move", map[string]any{
		"ids":          []string{a.ID, b.ID},
		"to_completed": true,
	})
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}

	var resp struct {
		Moved int `json:"moved"`
	}
	decodeBody(t, w, &resp)
	if resp.Moved != 2 {
		t.Errorf("moved = %d, want 2", resp.Moved)
	}
	if len(st.Completed()) != 2 {
		t.Errorf("completed holds %d tasks, want 2", len(st.Completed()))
	}
}

func TestTranscribe(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer secret" {
			t.Errorf("Authorization = %q", got)
		}
		fmt.Fprint(w, "  buy milk tomorrow\n")
	}))
	defer upstream.Close()

	client := stt.NewClient(upstream.URL, "secret", "whisper-large-v3-turbo", 64, 5*time.Second)
	_, h := newTestServer(t, client)

	w := doJSON(t, h, http.MethodPost, "/api/transcribe", map[string]string{
		"audio":    base64.StdEncoding.EncodeToString([]byte("RIFFdata")),
		"mimeType": "audio/webm",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", w.Code, w.Body.String())
	}

	var resp struct {
		Text string `json:"text"`
	}
	decodeBody(t, w, &resp)
	if resp.Text != "buy milk tomorrow" {
		t.Errorf("text = %q, want trimmed transcript", resp.Text)
	}
}

func TestTranscribeMissingAudio(t *testing.T) {
	_, h := newTestServer(t, nil)

	w := doJSON(t, h, http.MethodPost, "/api/transcribe", map[string]string{"mimeType": "audio/webm"})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
	if !strings.Contains(w.Body.String(), "INVALID_REQUEST") {
		t.Errorf("body = %s, want INVALID_REQUEST code", w.Body.String())
	}
}

func TestTranscribeOversizePayload(t *testing.T) {
	_, h := newTestServer(t, nil) // testConfig caps audio at 64 bytes

	w := doJSON(t, h, http.MethodPost, "/api/transcribe", map[string]string{
		"audio": base64.StdEncoding.EncodeToString(bytes.Repeat([]byte("x"), 65)),
	})
	if w.Code != http.StatusRequestEntityTooLarge {
		t.Fatalf("status = %d, want 413: %s", w.Code, w.Body.String())
	}
}

func TestTranscribeForbiddenOrigin(t *testing.T) {
	_, h := newTestServer(t, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/transcribe", strings.NewReader("{}"))
	req.Header.Set("Origin", "https://evil.example")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	if w.Code != http.StatusForbidden {
		t.Fatalf("status = %d, want 403", w.Code)
	}
	if !strings.Contains(w.Body.String(), "ORIGIN_FORBIDDEN") {
		t.Errorf("body = %s, want ORIGIN_FORBIDDEN code", w.Body.String())
	}
}

func TestTranscribePreflight(t *testing.T) {
	_, h := newTestServer(t, nil)

	req := httptest.NewRequest(http.MethodOptions, "/api/transcribe", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	if w.Code != http.StatusNoContent {
		t.Fatalf("status = %d, want 204", w.Code)
	}
	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "http://localhost:3000" {
		t.Errorf("ACAO = %q", got)
	}
}

func TestDueLabel(t *testing.T) {
	now := time.Date(2026, 8, 30, 12, 0, 0, 0, time.Local)
	tests := []struct {
		due  time.Time
		want string
	}{
		{time.Date(2026, 8, 30, 0, 0, 0, 0, time.Local), "Today"},
		{time.Date(2026, 8, 30, 15, 30, 0, 0, time.Local), "Today 15:30"},
		{time.Date(2026, 8, 31, 9, 0, 0, 0, time.Local), "Tomorrow"},
		{time.Date(2026, 8, 29, 9, 0, 0, 0, time.Local), "Yesterday"},
		{time.Date(2026, 10, 2, 9, 0, 0, 0, time.Local), "Oct 2"},
	}
	for _, tt := range tests {
		if got := dueLabel(tt.due, now); got != tt.want {
			t.Errorf("dueLabel(%v) = %q, want %q", tt.due, got, tt.want)
		}
	}
}

func TestGreetingFor(t *testing.T) {
	tests := []struct {
		hour int
		want string
	}{
		{8, "Good morning"},
		{13, "Good afternoon"},
		{21, "Good evening"},
	}
	for _, tt := range tests {
		now := time.Date(2026, 8, 30, tt.hour, 0, 0, 0, time.Local)
		if got := greetingFor(now); got != tt.want {
			t.Errorf("greetingFor(hour=%d) = %q, want %q", tt.hour, got, tt.want)
		}
	}
}
