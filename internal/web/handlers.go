package web

import (
	"encoding/base64"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/foxerapp/foxer/internal/config"
	"github.com/foxerapp/foxer/internal/duedate"
	"github.com/foxerapp/foxer/internal/errors"
	"github.com/foxerapp/foxer/internal/store"
	"github.com/foxerapp/foxer/internal/stt"
	"github.com/foxerapp/foxer/internal/task"
)

// deleteGrace is how long a staged delete stays pending so the client can
// animate the removal before the store mutation commits.
const deleteGrace = 300 * time.Millisecond

// Handlers contains HTTP route handlers.
type Handlers struct {
	store    *store.Store
	cfg      *config.Config
	stt      *stt.Client
	renderer *Renderer

	// pendingDelete stages deletions behind a caller-visible marker.
	mu            sync.Mutex
	pendingDelete map[string]*time.Timer
}

// NewHandlers wires route handlers. sttClient may be nil when no API key is
// configured; the transcribe route then reports upstream failure.
func NewHandlers(st *store.Store, cfg *config.Config, sttClient *stt.Client, renderer *Renderer) *Handlers {
	return &Handlers{
		store:         st,
		cfg:           cfg,
		stt:           sttClient,
		renderer:      renderer,
		pendingDelete: make(map[string]*time.Timer),
	}
}

// HandleHealth handles GET /health.
func (h *Handlers) HandleHealth(w http.ResponseWriter, r *http.Request) {
	renderJSON(w, http.StatusOK, map[string]any{"ok": true, "version": h.renderer.version})
}

// HandleListPage handles GET /tasks — the rendered task list.
func (h *Handlers) HandleListPage(w http.ResponseWriter, r *http.Request) {
	now := time.Now()
	active := h.store.Active()
	completed := h.store.Completed()

	h.renderer.renderPage(w, "list", ListPageData{
		PageData:  PageData{Title: "Tasks", Version: h.renderer.version},
		Greeting:  greetingFor(now),
		Summary:   summaryFor(active, now),
		Active:    h.views(active, now),
		Completed: h.views(completed, now),
	})
}

// HandleDetailPage handles GET /tasks/{id} — a single task with rendered notes.
func (h *Handlers) HandleDetailPage(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	t, ok := h.store.Get(id)
	if !ok {
		h.renderer.renderError(w, r, errors.NewNotFound(id))
		return
	}

	now := time.Now()
	h.renderer.renderPage(w, "detail", DetailPageData{
		PageData:     PageData{Title: t.Title, Version: h.renderer.version},
		Task:         t,
		DueLabel:     dueLabel(t.Due.ParsedDate, now),
		Urgency:      task.ClassifyUrgency(&t, now),
		RenderedHTML: renderMarkdown(t.Notes),
	})
}

// taskListResponse is the JSON shape of GET /api/tasks.
type taskListResponse struct {
	Active    []taskJSON `json:"active"`
	Completed []taskJSON `json:"completed"`
}

type taskJSON struct {
	task.Task
	Urgency       task.Urgency `json:"urgency"`
	PendingDelete bool         `json:"pending_delete,omitempty"`
}

// HandleTasks handles GET /api/tasks.
func (h *Handlers) HandleTasks(w http.ResponseWriter, r *http.Request) {
	now := time.Now()
	renderJSON(w, http.StatusOK, taskListResponse{
		Active:    h.jsonViews(h.store.Active(), now),
		Completed: h.jsonViews(h.store.Completed(), now),
	})
}

// createTaskRequest is the JSON body of POST /api/tasks. Explicit date/time
// picks win over whatever the free text parses to.
type createTaskRequest struct {
	Title   string `json:"title"`
	Notes   string `json:"notes"`
	DueText string `json:"due_text"`
	DueDate string `json:"due_date"` // "2006-01-02"
	DueTime string `json:"due_time"` // "15:04"
}

// HandleCreateTask handles POST /api/tasks.
func (h *Handlers) HandleCreateTask(w http.ResponseWriter, r *http.Request) {
	var req createTaskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.renderer.renderError(w, r, errors.NewInvalidRequest("malformed JSON body"))
		return
	}

	resolver := duedate.NewResolver(duedate.NewNaturalParser())
	resolver.SetText(req.DueText)
	if req.DueDate != "" {
		d, err := time.ParseInLocation("2006-01-02", req.DueDate, time.Local)
		if err != nil {
			h.renderer.renderError(w, r, errors.NewInvalidRequest("due_date must be YYYY-MM-DD"))
			return
		}
		resolver.PickDate(d.Year(), d.Month(), d.Day())
	}
	if req.DueTime != "" {
		c, err := time.Parse("15:04", req.DueTime)
		if err != nil {
			h.renderer.renderError(w, r, errors.NewInvalidRequest("due_time must be HH:MM"))
			return
		}
		resolver.PickTime(c.Hour(), c.Minute())
	}

	t, err := h.store.Add(req.Title, req.Notes, resolver.Build(req.DueText))
	if err != nil {
		h.renderer.renderError(w, r, err)
		return
	}
	renderJSON(w, http.StatusCreated, t)
}

// patchTaskRequest is the JSON body of PATCH /api/tasks/{id}.
type patchTaskRequest struct {
	Title     *string `json:"title"`
	Notes     *string `json:"notes"`
	Completed *bool   `json:"completed"`
	DueDate   *string `json:"due_date"` // "2006-01-02", merged onto the existing time-of-day
	Focused   *bool   `json:"focused"`
}

// HandlePatchTask handles PATCH /api/tasks/{id}.
func (h *Handlers) HandlePatchTask(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if !h.store.Has(id) {
		h.renderer.renderError(w, r, errors.NewNotFound(id))
		return
	}

	var req patchTaskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.renderer.renderError(w, r, errors.NewInvalidRequest("malformed JSON body"))
		return
	}

	if req.Title != nil {
		if err := h.store.UpdateTitle(id, *req.Title); err != nil {
			h.renderer.renderError(w, r, err)
			return
		}
	}
	if req.Notes != nil {
		if err := h.store.UpdateNotes(id, *req.Notes); err != nil {
			h.renderer.renderError(w, r, err)
			return
		}
	}
	if req.DueDate != nil {
		d, err := time.ParseInLocation("2006-01-02", *req.DueDate, time.Local)
		if err != nil {
			h.renderer.renderError(w, r, errors.NewInvalidRequest("due_date must be YYYY-MM-DD"))
			return
		}
		h.store.UpdateDueDate(id, d.Year(), d.Month(), d.Day())
	}
	if req.Completed != nil {
		h.store.SetCompleted(id, *req.Completed)
	}
	if req.Focused != nil {
		h.store.SetFocused(id, *req.Focused)
	}

	t, _ := h.store.Get(id)
	renderJSON(w, http.StatusOK, t)
}

// HandleDeleteTask handles DELETE /api/tasks/{id}. The delete is staged:
// the task is marked pending so the client can animate removal, and the
// store mutation commits after the grace period. ?now=true commits
// immediately. Missing ids are a silent no-op.
func (h *Handlers) HandleDeleteTask(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	fromCompleted := r.URL.Query().Get("completed") == "true"

	if r.URL.Query().Get("now") == "true" {
		h.cancelStaged(id)
		h.store.Delete(id, fromCompleted)
		renderJSON(w, http.StatusOK, map[string]any{"deleted": true, "id": id})
		return
	}

	h.mu.Lock()
	if _, staged := h.pendingDelete[id]; !staged {
		h.pendingDelete[id] = time.AfterFunc(deleteGrace, func() {
			// The task may have moved collections during the grace
			// window; delete it from wherever it lives now.
			if t, ok := h.store.Get(id); ok {
				h.store.Delete(id, t.Completed)
			}
			h.mu.Lock()
			delete(h.pendingDelete, id)
			h.mu.Unlock()
		})
	}
	h.mu.Unlock()

	renderJSON(w, http.StatusAccepted, map[string]any{"pending": true, "id": id})
}

func (h *Handlers) cancelStaged(id string) {
	h.mu.Lock()
	if timer, ok := h.pendingDelete[id]; ok {
		timer.Stop()
		delete(h.pendingDelete, id)
	}
	h.mu.Unlock()
}

func (h *Handlers) isPendingDelete(id string) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	_, ok := h.pendingDelete[id]
	return ok
}

// HandleDuplicateTask handles POST /api/tasks/{id}/duplicate.
func (h *Handlers) HandleDuplicateTask(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	fromCompleted := r.URL.Query().Get("completed") == "true"

	dup, ok := h.store.Duplicate(id, fromCompleted)
	if !ok {
		h.renderer.renderError(w, r, errors.NewNotFound(id))
		return
	}
	renderJSON(w, http.StatusCreated, dup)
}

// reorderRequest is the JSON body of POST /api/tasks/reorder.
type reorderRequest struct {
	GroupIDs  []string `json:"group_ids"`
	ActiveID  string   `json:"active_id"`
	OverID    string   `json:"over_id"`
	Completed bool     `json:"completed"`
}

// HandleReorder handles POST /api/tasks/reorder — a within-collection group
// drop. An invalid drop is the defined no-op, reported as moved=false.
func (h *Handlers) HandleReorder(w http.ResponseWriter, r *http.Request) {
	var req reorderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.renderer.renderError(w, r, errors.NewInvalidRequest("malformed JSON body"))
		return
	}

	moved := h.store.Reorder(req.GroupIDs, req.ActiveID, req.OverID, req.Completed)
	renderJSON(w, http.StatusOK, map[string]any{"moved": moved})
}

// moveRequest is the JSON body of POST /api/tasks/move.
type moveRequest struct {
	IDs         []string `json:"ids"`
	ToCompleted bool     `json:"to_completed"`
}

// HandleMove handles POST /api/tasks/move — a cross-collection group drop.
func (h *Handlers) HandleMove(w http.ResponseWriter, r *http.Request) {
	var req moveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.renderer.renderError(w, r, errors.NewInvalidRequest("malformed JSON body"))
		return
	}

	moved := h.store.MoveGroup(req.IDs, req.ToCompleted)
	renderJSON(w, http.StatusOK, map[string]any{"moved": moved})
}

// transcribeRequest is the JSON body of POST /api/transcribe.
type transcribeRequest struct {
	Audio    string `json:"audio"` // base64
	MimeType string `json:"mimeType"`
}

// HandleTranscribe handles POST /api/transcribe.
func (h *Handlers) HandleTranscribe(w http.ResponseWriter, r *http.Request) {
	// Base64 inflates by 4/3; leave headroom for the JSON envelope.
	r.Body = http.MaxBytesReader(w, r.Body, int64(h.cfg.MaxAudioBytes)*2)

	var req transcribeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.renderer.renderError(w, r, errors.NewInvalidRequest("missing or invalid audio"))
		return
	}
	if req.Audio == "" {
		h.renderer.renderError(w, r, errors.NewInvalidRequest("missing or invalid audio"))
		return
	}

	audio, err := base64.StdEncoding.DecodeString(req.Audio)
	if err != nil || len(audio) == 0 {
		h.renderer.renderError(w, r, errors.NewInvalidRequest("invalid audio payload"))
		return
	}
	if len(audio) > h.cfg.MaxAudioBytes {
		h.renderer.renderError(w, r, errors.NewPayloadTooLarge(h.cfg.MaxAudioBytes, len(audio)))
		return
	}
	if h.stt == nil {
		h.renderer.renderError(w, r, errors.NewUpstreamFailed(0))
		return
	}

	text, err := h.stt.Transcribe(r.Context(), audio, req.MimeType)
	if err != nil {
		h.renderer.renderError(w, r, err)
		return
	}
	renderJSON(w, http.StatusOK, map[string]string{"text": text})
}

func (h *Handlers) views(tasks []task.Task, now time.Time) []TaskView {
	out := make([]TaskView, 0, len(tasks))
	for i := range tasks {
		t := tasks[i]
		out = append(out, TaskView{
			ID:            t.ID,
			Title:         t.Title,
			HasNotes:      t.Notes != "",
			DueLabel:      dueLabel(t.Due.ParsedDate, now),
			Urgency:       task.ClassifyUrgency(&t, now),
			PendingDelete: h.isPendingDelete(t.ID),
		})
	}
	return out
}

func (h *Handlers) jsonViews(tasks []task.Task, now time.Time) []taskJSON {
	out := make([]taskJSON, 0, len(tasks))
	for i := range tasks {
		t := tasks[i]
		out = append(out, taskJSON{
			Task:          t,
			Urgency:       task.ClassifyUrgency(&t, now),
			PendingDelete: h.isPendingDelete(t.ID),
		})
	}
	return out
}
