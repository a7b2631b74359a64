package mcp

import "github.com/mark3labs/mcp-go/mcp"

var addToolDef = mcp.NewTool("task_add",
	mcp.WithDescription("Create a task. The task goes to the top of the active list. Free-text due phrasing like 'tomorrow at 5pm' is parsed; explicit due_date/due_time override the parsed values."),
	mcp.WithString("title", mcp.Required(), mcp.Description("Task title. Must not be blank.")),
	mcp.WithString("notes", mcp.Description("Markdown notes attached to the task.")),
	mcp.WithString("due_text", mcp.Description("Natural-language due phrase, e.g. 'friday 9am'.")),
	mcp.WithString("due_date", mcp.Description("Explicit due date, YYYY-MM-DD. Overrides the date parsed from due_text.")),
	mcp.WithString("due_time", mcp.Description("Explicit due time, HH:MM. Overrides the time parsed from due_text.")),
)

var listToolDef = mcp.NewTool("task_list",
	mcp.WithDescription("List tasks in order. Returns both the active and completed collections."),
)

var fetchToolDef = mcp.NewTool("task_fetch",
	mcp.WithDescription("Fetch a single task by id, from either collection."),
	mcp.WithString("id", mcp.Required(), mcp.Description("Task id.")),
)

var updateToolDef = mcp.NewTool("task_update",
	mcp.WithDescription("Update a task's title, notes, due date, or focus flag. Omitted fields are left unchanged. Changing the due date keeps the task's time of day."),
	mcp.WithString("id", mcp.Required(), mcp.Description("Task id.")),
	mcp.WithString("title", mcp.Description("New title. Must not be blank.")),
	mcp.WithString("notes", mcp.Description("New markdown notes.")),
	mcp.WithString("due_date", mcp.Description("New due date, YYYY-MM-DD.")),
	mcp.WithBoolean("focused", mcp.Description("Focus flag.")),
)

var completeToolDef = mcp.NewTool("task_complete",
	mcp.WithDescription("Complete or uncomplete a task. Completing moves it to the top of the completed list; uncompleting appends it to the end of the active list."),
	mcp.WithString("id", mcp.Required(), mcp.Description("Task id.")),
	mcp.WithBoolean("completed", mcp.Required(), mcp.Description("true to complete, false to reactivate.")),
)

var deleteToolDef = mcp.NewTool("task_delete",
	mcp.WithDescription("Delete a task. Unknown ids are a no-op."),
	mcp.WithString("id", mcp.Required(), mcp.Description("Task id.")),
	mcp.WithBoolean("completed", mcp.Description("Whether the task lives in the completed collection.")),
)

var duplicateToolDef = mcp.NewTool("task_duplicate",
	mcp.WithDescription("Duplicate a task. The copy gets a fresh id and is inserted directly after the source."),
	mcp.WithString("id", mcp.Required(), mcp.Description("Task id.")),
	mcp.WithBoolean("completed", mcp.Description("Whether the task lives in the completed collection.")),
)

var reorderToolDef = mcp.NewTool("task_reorder",
	mcp.WithDescription("Reorder a group of tasks within one collection. The group becomes a contiguous block placed where the dragged task was dropped. An invalid drop is a no-op."),
	mcp.WithArray("group_ids", mcp.Required(), mcp.Description("Ids of the dragged group."), mcp.Items(map[string]any{"type": "string"})),
	mcp.WithString("active_id", mcp.Required(), mcp.Description("Id of the task being dragged.")),
	mcp.WithString("over_id", mcp.Required(), mcp.Description("Id of the task the group was dropped on.")),
	mcp.WithBoolean("completed", mcp.Description("Reorder within the completed collection instead of active.")),
)

var moveToolDef = mcp.NewTool("task_move",
	mcp.WithDescription("Move a group of tasks between the active and completed collections, preserving their relative order."),
	mcp.WithArray("ids", mcp.Required(), mcp.Description("Ids to move."), mcp.Items(map[string]any{"type": "string"})),
	mcp.WithBoolean("to_completed", mcp.Required(), mcp.Description("true moves to completed, false back to active.")),
)

var exportToolDef = mcp.NewTool("task_export",
	mcp.WithDescription("Export both collections to a JSON snapshot file."),
	mcp.WithString("path", mcp.Required(), mcp.Description("Destination file path.")),
)

var importToolDef = mcp.NewTool("task_import",
	mcp.WithDescription("Import a JSON snapshot file, replacing both collections."),
	mcp.WithString("path", mcp.Required(), mcp.Description("Source file path.")),
)
