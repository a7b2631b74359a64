package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/foxerapp/foxer/internal/config"
	"github.com/foxerapp/foxer/internal/duedate"
	"github.com/foxerapp/foxer/internal/errors"
	"github.com/foxerapp/foxer/internal/persist"
	"github.com/foxerapp/foxer/internal/store"
	"github.com/foxerapp/foxer/internal/stt"
	"github.com/foxerapp/foxer/internal/web"
)

// newCLIApp creates the CLI application with all commands.
func newCLIApp(st *store.Store, cfg *config.Config, flusher *persist.Flusher) *cli.App {
	app := &cli.App{
		Name:    "foxer",
		Usage:   "Local task list with a mind of its own",
		Version: Version,
		Commands: []*cli.Command{
			addCmd(st, flusher),
			listCmd(st),
			fetchCmd(st),
			completeCmd(st, flusher),
			uncompleteCmd(st, flusher),
			deleteCmd(st, flusher),
			duplicateCmd(st, flusher),
			editCmd(st, flusher),
			dueCmd(st, flusher),
			reorderCmd(st, flusher),
			moveCmd(st, flusher),
			exportCmd(st),
			importCmd(st, flusher),
			serveCmd(st, cfg, flusher),
		},
	}
	// Disable default exit error handler to allow proper error return in tests
	app.ExitErrHandler = func(_ *cli.Context, _ error) {}
	return app
}

// addCmd creates the add command.
func addCmd(st *store.Store, flusher *persist.Flusher) *cli.Command {
	return &cli.Command{
		Name:      "add",
		Usage:     "Add a task to the top of the active list",
		ArgsUsage: "<title>",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "notes", Aliases: []string{"n"}, Usage: "Markdown notes"},
			&cli.StringFlag{Name: "due", Aliases: []string{"d"}, Usage: "Natural-language due phrase, e.g. 'tomorrow 5pm'"},
			&cli.StringFlag{Name: "due-date", Usage: "Explicit due date (YYYY-MM-DD), overrides --due"},
			&cli.StringFlag{Name: "due-time", Usage: "Explicit due time (HH:MM), overrides --due"},
		},
		Action: func(c *cli.Context) error {
			title := strings.Join(c.Args().Slice(), " ")
			if strings.TrimSpace(title) == "" {
				return outputError(errors.NewValidation("title is required"))
			}

			resolver := duedate.NewResolver(duedate.NewNaturalParser())
			resolver.SetText(c.String("due"))
			if v := c.String("due-date"); v != "" {
				d, err := time.ParseInLocation("2006-01-02", v, time.Local)
				if err != nil {
					return outputError(errors.NewInvalidRequest("due-date must be YYYY-MM-DD"))
				}
				resolver.PickDate(d.Year(), d.Month(), d.Day())
			}
			if v := c.String("due-time"); v != "" {
				clock, err := time.Parse("15:04", v)
				if err != nil {
					return outputError(errors.NewInvalidRequest("due-time must be HH:MM"))
				}
				resolver.PickTime(clock.Hour(), clock.Minute())
			}

			created, err := st.Add(title, c.String("notes"), resolver.Build(c.String("due")))
			if err != nil {
				return outputError(err)
			}
			flushNow(flusher)
			return outputJSON(created)
		},
	}
}

// listCmd creates the list command.
func listCmd(st *store.Store) *cli.Command {
	return &cli.Command{
		Name:  "list",
		Usage: "List tasks in order",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "completed", Aliases: []string{"c"}, Usage: "Only the completed collection"},
			&cli.BoolFlag{Name: "active", Aliases: []string{"a"}, Usage: "Only the active collection"},
		},
		Action: func(c *cli.Context) error {
			switch {
			case c.Bool("completed") && !c.Bool("active"):
				return outputJSON(st.Completed())
			case c.Bool("active") && !c.Bool("completed"):
				return outputJSON(st.Active())
			default:
				return outputJSON(map[string]any{
					"active":    st.Active(),
					"completed": st.Completed(),
				})
			}
		},
	}
}

// fetchCmd creates the fetch command.
func fetchCmd(st *store.Store) *cli.Command {
	return &cli.Command{
		Name:      "fetch",
		Usage:     "Fetch a task by id",
		ArgsUsage: "<id>",
		Action: func(c *cli.Context) error {
			id := c.Args().First()
			t, ok := st.Get(id)
			if !ok {
				return outputError(errors.NewNotFound(id))
			}
			return outputJSON(t)
		},
	}
}

// completeCmd creates the complete command.
func completeCmd(st *store.Store, flusher *persist.Flusher) *cli.Command {
	return &cli.Command{
		Name:      "complete",
		Usage:     "Mark a task completed (moves to the top of completed)",
		ArgsUsage: "<id>",
		Action: func(c *cli.Context) error {
			id := c.Args().First()
			moved := st.SetCompleted(id, true)
			flushNow(flusher)
			return outputJSON(map[string]any{"id": id, "moved": moved})
		},
	}
}

// uncompleteCmd creates the uncomplete command.
func uncompleteCmd(st *store.Store, flusher *persist.Flusher) *cli.Command {
	return &cli.Command{
		Name:      "uncomplete",
		Usage:     "Reactivate a completed task (appends to the end of active)",
		ArgsUsage: "<id>",
		Action: func(c *cli.Context) error {
			id := c.Args().First()
			moved := st.SetCompleted(id, false)
			flushNow(flusher)
			return outputJSON(map[string]any{"id": id, "moved": moved})
		},
	}
}

// deleteCmd creates the delete command.
func deleteCmd(st *store.Store, flusher *persist.Flusher) *cli.Command {
	return &cli.Command{
		Name:      "delete",
		Usage:     "Delete a task (unknown ids are a no-op)",
		ArgsUsage: "<id>",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "completed", Aliases: []string{"c"}, Usage: "The task lives in the completed collection"},
		},
		Action: func(c *cli.Context) error {
			id := c.Args().First()
			deleted := st.Delete(id, c.Bool("completed"))
			flushNow(flusher)
			return outputJSON(map[string]any{"id": id, "deleted": deleted})
		},
	}
}

// duplicateCmd creates the duplicate command.
func duplicateCmd(st *store.Store, flusher *persist.Flusher) *cli.Command {
	return &cli.Command{
		Name:      "duplicate",
		Usage:     "Duplicate a task (copy inserted directly after the source)",
		ArgsUsage: "<id>",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "completed", Aliases: []string{"c"}, Usage: "The task lives in the completed collection"},
		},
		Action: func(c *cli.Context) error {
			id := c.Args().First()
			dup, ok := st.Duplicate(id, c.Bool("completed"))
			if !ok {
				return outputError(errors.NewNotFound(id))
			}
			flushNow(flusher)
			return outputJSON(dup)
		},
	}
}

// editCmd creates the edit command.
func editCmd(st *store.Store, flusher *persist.Flusher) *cli.Command {
	return &cli.Command{
		Name:      "edit",
		Usage:     "Edit a task's title or notes",
		ArgsUsage: "<id>",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "title", Aliases: []string{"t"}, Usage: "New title"},
			&cli.StringFlag{Name: "notes", Aliases: []string{"n"}, Usage: "New markdown notes"},
		},
		Action: func(c *cli.Context) error {
			id := c.Args().First()
			if !c.IsSet("title") && !c.IsSet("notes") {
				return outputError(errors.NewInvalidRequest("nothing to edit: pass --title or --notes"))
			}

			if c.IsSet("title") {
				if err := st.UpdateTitle(id, c.String("title")); err != nil {
					return outputError(err)
				}
			}
			if c.IsSet("notes") {
				if err := st.UpdateNotes(id, c.String("notes")); err != nil {
					return outputError(err)
				}
			}
			flushNow(flusher)

			t, _ := st.Get(id)
			return outputJSON(t)
		},
	}
}

// dueCmd creates the due command.
func dueCmd(st *store.Store, flusher *persist.Flusher) *cli.Command {
	return &cli.Command{
		Name:      "due",
		Usage:     "Change a task's due date, keeping its time of day",
		ArgsUsage: "<id> <YYYY-MM-DD>",
		Action: func(c *cli.Context) error {
			id := c.Args().First()
			if !st.Has(id) {
				return outputError(errors.NewNotFound(id))
			}

			d, err := time.ParseInLocation("2006-01-02", c.Args().Get(1), time.Local)
			if err != nil {
				return outputError(errors.NewInvalidRequest("date must be YYYY-MM-DD"))
			}
			st.UpdateDueDate(id, d.Year(), d.Month(), d.Day())
			flushNow(flusher)

			t, _ := st.Get(id)
			return outputJSON(t)
		},
	}
}

// reorderCmd creates the reorder command.
func reorderCmd(st *store.Store, flusher *persist.Flusher) *cli.Command {
	return &cli.Command{
		Name:  "reorder",
		Usage: "Reorder a group of tasks as a contiguous block within one collection",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "group", Aliases: []string{"g"}, Required: true, Usage: "Comma-separated ids of the dragged group"},
			&cli.StringFlag{Name: "active-id", Required: true, Usage: "Id of the task being dragged"},
			&cli.StringFlag{Name: "over-id", Required: true, Usage: "Id of the task the group is dropped on"},
			&cli.BoolFlag{Name: "completed", Aliases: []string{"c"}, Usage: "Reorder within the completed collection"},
		},
		Action: func(c *cli.Context) error {
			moved := st.Reorder(parseIDs(c.String("group")), c.String("active-id"), c.String("over-id"), c.Bool("completed"))
			flushNow(flusher)
			return outputJSON(map[string]any{"moved": moved})
		},
	}
}

// moveCmd creates the move command.
func moveCmd(st *store.Store, flusher *persist.Flusher) *cli.Command {
	return &cli.Command{
		Name:  "move",
		Usage: "Move a group of tasks between collections, preserving relative order",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "ids", Required: true, Usage: "Comma-separated ids to move"},
			&cli.BoolFlag{Name: "to-completed", Usage: "Move to completed (default moves back to active)"},
		},
		Action: func(c *cli.Context) error {
			moved := st.MoveGroup(parseIDs(c.String("ids")), c.Bool("to-completed"))
			flushNow(flusher)
			return outputJSON(map[string]any{"moved": moved})
		},
	}
}

// exportCmd creates the export command.
func exportCmd(st *store.Store) *cli.Command {
	return &cli.Command{
		Name:  "export",
		Usage: "Export both collections to a JSON snapshot file",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "path", Aliases: []string{"p"}, Required: true, Usage: "Export file path"},
		},
		Action: func(c *cli.Context) error {
			path := c.String("path")
			if err := st.Export(path); err != nil {
				return outputError(err)
			}
			return outputJSON(map[string]any{"path": path, "exported": true})
		},
	}
}

// importCmd creates the import command.
func importCmd(st *store.Store, flusher *persist.Flusher) *cli.Command {
	return &cli.Command{
		Name:  "import",
		Usage: "Import a JSON snapshot file, replacing both collections",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "path", Aliases: []string{"p"}, Required: true, Usage: "Import file path"},
		},
		Action: func(c *cli.Context) error {
			path := c.String("path")
			if err := st.Import(path); err != nil {
				return outputError(err)
			}
			flushNow(flusher)
			return outputJSON(map[string]any{"path": path, "imported": true})
		},
	}
}

// serveCmd creates the serve command.
func serveCmd(st *store.Store, cfg *config.Config, flusher *persist.Flusher) *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Run the web UI and API server",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "bind", Aliases: []string{"b"}, Value: "127.0.0.1", Usage: "Bind address"},
			&cli.IntFlag{Name: "port", Aliases: []string{"p"}, Value: 3001, Usage: "Listen port"},
		},
		Action: func(c *cli.Context) error {
			var sttClient *stt.Client
			if key := config.APIKey(); key != "" {
				sttClient = stt.NewClient(
					cfg.STTEndpoint,
					key,
					cfg.STTModel,
					cfg.MaxAudioBytes,
					time.Duration(cfg.STTTimeoutMS)*time.Millisecond,
				)
			}

			srv := web.NewServer(st, cfg, sttClient, Version, c.String("bind"), c.Int("port"))
			return web.Run(srv, func() { flushNow(flusher) })
		},
	}
}

// Helper functions

// outputJSON marshals result to stdout as JSON.
func outputJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// outputError formats error for CLI.
func outputError(err error) error {
	if fErr, ok := err.(*errors.FoxerError); ok {
		return cli.Exit(fmt.Sprintf("[%s] %s", fErr.Code, fErr.Message), 1)
	}
	return cli.Exit(err.Error(), 1)
}

// flushNow forces a snapshot write so mutations survive process exit.
func flushNow(f *persist.Flusher) {
	if f != nil {
		f.Flush()
	}
}

// parseIDs splits a comma-separated id list, dropping blanks.
func parseIDs(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	ids := make([]string, 0, len(parts))
	for _, p := range parts {
		if id := strings.TrimSpace(p); id != "" {
			ids = append(ids, id)
		}
	}
	return ids
}
