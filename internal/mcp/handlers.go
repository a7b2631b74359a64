package mcp

import (
	"context"
	"encoding/json"
	"time"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/foxerapp/foxer/internal/duedate"
	"github.com/foxerapp/foxer/internal/errors"
	"github.com/foxerapp/foxer/internal/store"
	"github.com/foxerapp/foxer/internal/task"
)

// Handlers holds dependencies for MCP tool handlers.
type Handlers struct {
	store *store.Store
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(st *store.Store) *Handlers {
	return &Handlers{store: st}
}

// Request types for each tool

// AddRequest represents the arguments for task_add.
type AddRequest struct {
	Title   string `json:"title"`
	Notes   string `json:"notes,omitempty"`
	DueText string `json:"due_text,omitempty"`
	DueDate string `json:"due_date,omitempty"`
	DueTime string `json:"due_time,omitempty"`
}

// FetchRequest represents the arguments for task_fetch.
type FetchRequest struct {
	ID string `json:"id"`
}

// UpdateRequest represents the arguments for task_update.
type UpdateRequest struct {
	ID      string  `json:"id"`
	Title   *string `json:"title,omitempty"`
	Notes   *string `json:"notes,omitempty"`
	DueDate *string `json:"due_date,omitempty"`
	Focused *bool   `json:"focused,omitempty"`
}

// CompleteRequest represents the arguments for task_complete.
type CompleteRequest struct {
	ID        string `json:"id"`
	Completed bool   `json:"completed"`
}

// DeleteRequest represents the arguments for task_delete.
type DeleteRequest struct {
	ID        string `json:"id"`
	Completed bool   `json:"completed,omitempty"`
}

// DuplicateRequest represents the arguments for task_duplicate.
type DuplicateRequest struct {
	ID        string `json:"id"`
	Completed bool   `json:"completed,omitempty"`
}

// ReorderRequest represents the arguments for task_reorder.
type ReorderRequest struct {
	GroupIDs  []string `json:"group_ids"`
	ActiveID  string   `json:"active_id"`
	OverID    string   `json:"over_id"`
	Completed bool     `json:"completed,omitempty"`
}

// MoveRequest represents the arguments for task_move.
type MoveRequest struct {
	IDs         []string `json:"ids"`
	ToCompleted bool     `json:"to_completed"`
}

// ExportRequest represents the arguments for task_export.
type ExportRequest struct {
	Path string `json:"path"`
}

// ImportRequest represents the arguments for task_import.
type ImportRequest struct {
	Path string `json:"path"`
}

// Handler implementations

// HandleAdd handles the task_add tool call.
func (h *Handlers) HandleAdd(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[AddRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	resolver := duedate.NewResolver(duedate.NewNaturalParser())
	resolver.SetText(input.DueText)
	if input.DueDate != "" {
		d, err := time.ParseInLocation("2006-01-02", input.DueDate, time.Local)
		if err != nil {
			return errorResult(errors.NewInvalidRequest("due_date must be YYYY-MM-DD")), nil
		}
		resolver.PickDate(d.Year(), d.Month(), d.Day())
	}
	if input.DueTime != "" {
		c, err := time.Parse("15:04", input.DueTime)
		if err != nil {
			return errorResult(errors.NewInvalidRequest("due_time must be HH:MM")), nil
		}
		resolver.PickTime(c.Hour(), c.Minute())
	}

	created, err := h.store.Add(input.Title, input.Notes, resolver.Build(input.DueText))
	if err != nil {
		return errorResult(err), nil
	}
	return successResult(created)
}

// HandleList handles the task_list tool call.
func (h *Handlers) HandleList(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return successResult(map[string][]task.Task{
		"active":    h.store.Active(),
		"completed": h.store.Completed(),
	})
}

// HandleFetch handles the task_fetch tool call.
func (h *Handlers) HandleFetch(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[FetchRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	t, ok := h.store.Get(input.ID)
	if !ok {
		return errorResult(errors.NewNotFound(input.ID)), nil
	}
	return successResult(t)
}

// HandleUpdate handles the task_update tool call.
func (h *Handlers) HandleUpdate(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[UpdateRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}
	if !h.store.Has(input.ID) {
		return errorResult(errors.NewNotFound(input.ID)), nil
	}

	if input.Title != nil {
		if err := h.store.UpdateTitle(input.ID, *input.Title); err != nil {
			return errorResult(err), nil
		}
	}
	if input.Notes != nil {
		if err := h.store.UpdateNotes(input.ID, *input.Notes); err != nil {
			return errorResult(err), nil
		}
	}
	if input.DueDate != nil {
		d, err := time.ParseInLocation("2006-01-02", *input.DueDate, time.Local)
		if err != nil {
			return errorResult(errors.NewInvalidRequest("due_date must be YYYY-MM-DD")), nil
		}
		h.store.UpdateDueDate(input.ID, d.Year(), d.Month(), d.Day())
	}
	if input.Focused != nil {
		h.store.SetFocused(input.ID, *input.Focused)
	}

	t, _ := h.store.Get(input.ID)
	return successResult(t)
}

// HandleComplete handles the task_complete tool call.
func (h *Handlers) HandleComplete(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[CompleteRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	moved := h.store.SetCompleted(input.ID, input.Completed)
	return successResult(map[string]any{"id": input.ID, "moved": moved})
}

// HandleDelete handles the task_delete tool call.
func (h *Handlers) HandleDelete(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[DeleteRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	deleted := h.store.Delete(input.ID, input.Completed)
	return successResult(map[string]any{"id": input.ID, "deleted": deleted})
}

// HandleDuplicate handles the task_duplicate tool call.
func (h *Handlers) HandleDuplicate(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[DuplicateRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	dup, ok := h.store.Duplicate(input.ID, input.Completed)
	if !ok {
		return errorResult(errors.NewNotFound(input.ID)), nil
	}
	return successResult(dup)
}

// HandleReorder handles the task_reorder tool call.
func (h *Handlers) HandleReorder(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[ReorderRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	moved := h.store.Reorder(input.GroupIDs, input.ActiveID, input.OverID, input.Completed)
	return successResult(map[string]any{"moved": moved})
}

// HandleMove handles the task_move tool call.
func (h *Handlers) HandleMove(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[MoveRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	moved := h.store.MoveGroup(input.IDs, input.ToCompleted)
	return successResult(map[string]any{"moved": moved})
}

// HandleExport handles the task_export tool call.
func (h *Handlers) HandleExport(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[ExportRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}
	if input.Path == "" {
		return errorResult(errors.NewInvalidRequest("path is required")), nil
	}

	if err := h.store.Export(input.Path); err != nil {
		return errorResult(err), nil
	}
	return successResult(map[string]any{"path": input.Path, "exported": true})
}

// HandleImport handles the task_import tool call.
func (h *Handlers) HandleImport(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[ImportRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}
	if input.Path == "" {
		return errorResult(errors.NewInvalidRequest("path is required")), nil
	}

	if err := h.store.Import(input.Path); err != nil {
		return errorResult(err), nil
	}
	return successResult(map[string]any{"path": input.Path, "imported": true})
}

// Result helpers

// errorResult creates an MCP error result from any error.
// Uses IsError: true so MCP clients recognize failures properly.
// Note: Internal error details are not exposed to prevent leaking sensitive info.
func errorResult(err error) *mcp.CallToolResult {
	var payload map[string]any

	if fErr, ok := err.(*errors.FoxerError); ok {
		errorObj := map[string]any{
			"code":    fErr.Code,
			"message": fErr.Message,
			"status":  fErr.Status,
		}
		if fErr.Code != errors.ErrInternal && fErr.Details != nil {
			errorObj["details"] = fErr.Details
		}
		payload = map[string]any{"error": errorObj}
	} else {
		payload = map[string]any{
			"error": map[string]any{
				"code":    "INTERNAL",
				"message": "an internal error occurred",
				"status":  500,
			},
		}
	}

	content, _ := json.Marshal(payload)
	return &mcp.CallToolResult{
		Content: []mcp.Content{mcp.TextContent{Type: "text", Text: string(content)}},
		IsError: true,
	}
}

// successResult creates an MCP success result from any data.
func successResult(data any) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultJSON(data)
}
