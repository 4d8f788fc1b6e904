package cmd

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/spf13/cobra"

	"github.com/tempoboard/tempo/internal/board"
	"github.com/tempoboard/tempo/internal/models"
	"github.com/tempoboard/tempo/internal/output"
)

var (
	logHours    int
	logMinutes  int
	logDate     string
	logNotes    string
	logCategory string
	logLimit    int
)

var logCmd = &cobra.Command{
	Use:   "log",
	Short: "Log and review time entries",
	RunE: func(cmd *cobra.Command, args []string) error {
		return logListRun("")
	},
}

var logAddCmd = &cobra.Command{
	Use:   "add <task-id>",
	Short: "Log time against a task",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return logAddRun(args[0])
	},
}

var logListCmd = &cobra.Command{
	Use:     "list [task-id]",
	Aliases: []string{"ls"},
	Short:   "List time entries, newest first",
	Args:    cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ref := ""
		if len(args) > 0 {
			ref = args[0]
		}
		return logListRun(ref)
	},
}

var logRemoveCmd = &cobra.Command{
	Use:     "remove <entry-id>",
	Aliases: []string{"rm"},
	Short:   "Delete a time entry",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return logRemoveRun(args[0])
	},
}

var commentCmd = &cobra.Command{
	Use:   "comment <task-id> <body>",
	Short: "Add a comment to a task",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return commentRun(args[0], args[1])
	},
}

var attachCmd = &cobra.Command{
	Use:   "attach <task-id> <name>",
	Short: "Record an attachment on a task",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return attachRun(args[0], args[1])
	},
}

var (
	attachSize int64
	attachMime string
)

func init() {
	logAddCmd.Flags().IntVar(&logHours, "hours", 0, "Hours spent")
	logAddCmd.Flags().IntVar(&logMinutes, "minutes", 0, "Minutes spent (0-59)")
	logAddCmd.Flags().StringVar(&logDate, "date", "", "Entry date (YYYY-MM-DD, default today)")
	logAddCmd.Flags().StringVar(&logNotes, "notes", "", "What the time was spent on")
	logAddCmd.Flags().StringVar(&logCategory, "category", "", "Category: development, meeting, code_review, planning, research, other (default development)")

	logListCmd.Flags().IntVar(&logLimit, "limit", 20, "Maximum entries to show (0 for all)")

	attachCmd.Flags().Int64Var(&attachSize, "size", 0, "File size in bytes")
	attachCmd.Flags().StringVar(&attachMime, "mime", "", "MIME type")

	logCmd.AddCommand(logAddCmd)
	logCmd.AddCommand(logListCmd)
	logCmd.AddCommand(logRemoveCmd)
	rootCmd.AddCommand(logCmd)
	rootCmd.AddCommand(commentCmd)
	rootCmd.AddCommand(attachCmd)
}

func logAddRun(taskRef string) error {
	b, err := getBoard()
	if err != nil {
		return err
	}

	t, err := findTask(b, taskRef)
	if err != nil {
		return err
	}

	draft := board.EntryDraft{
		TaskID:   t.ID,
		Hours:    logHours,
		Minutes:  logMinutes,
		Notes:    logNotes,
		Category: models.EntryCategory(logCategory),
	}
	if logDate != "" {
		d, err := parseDay(logDate)
		if err != nil {
			return err
		}
		draft.Date = d
	}

	if dryRun {
		ui.DryRunMsg("Would log %s against %s", output.FormatMinutes(logHours*60+logMinutes), shortID(t.ID))
		return nil
	}

	e := b.LogTime(context.Background(), draft)
	if e == nil {
		return fmt.Errorf("time not logged")
	}
	ui.Success("Logged %s on %s (%s)", output.FormatMinutes(e.Duration()), output.Cyan(shortID(t.ID)), e.Category)
	return nil
}

func logListRun(taskRef string) error {
	b, err := getBoard()
	if err != nil {
		return err
	}

	var entries []*models.TimeEntry
	if taskRef != "" {
		t, err := findTask(b, taskRef)
		if err != nil {
			return err
		}
		entries = b.EntriesForTask(t.ID)
	} else {
		entries = b.TimeEntries()
	}

	if len(entries) == 0 {
		ui.Info("No time entries.")
		return nil
	}

	sorted := make([]*models.TimeEntry, len(entries))
	copy(sorted, entries)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Date.After(sorted[j].Date) })
	if logLimit > 0 && len(sorted) > logLimit {
		sorted = sorted[:logLimit]
	}

	taskTitles := make(map[string]string)
	for _, t := range b.Tasks() {
		taskTitles[t.ID] = t.Title
	}

	table := ui.Table([]string{"ID", "Date", "Task", "Time", "Category", "Notes"})
	for _, e := range sorted {
		_ = table.Append([]string{
			shortID(e.ID),
			e.Date.Format("2006-01-02"),
			taskTitles[e.TaskID],
			output.FormatMinutes(e.Duration()),
			string(e.Category),
			e.Notes,
		})
	}
	_ = table.Render()
	return nil
}

func logRemoveRun(id string) error {
	b, err := getBoard()
	if err != nil {
		return err
	}

	e := b.TimeEntry(id)
	if e == nil {
		// Prefix match against all entries
		var matches []*models.TimeEntry
		for _, cand := range b.TimeEntries() {
			if len(id) > 0 && len(cand.ID) >= len(id) && cand.ID[:len(id)] == id {
				matches = append(matches, cand)
			}
		}
		switch len(matches) {
		case 0:
			return fmt.Errorf("time entry not found: %s", id)
		case 1:
			e = matches[0]
		default:
			return fmt.Errorf("ambiguous entry ID %s: matches %d entries", id, len(matches))
		}
	}

	if dryRun {
		ui.DryRunMsg("Would delete entry %s (%s)", shortID(e.ID), output.FormatMinutes(e.Duration()))
		return nil
	}

	if !b.DeleteTimeEntry(context.Background(), e.ID) {
		return fmt.Errorf("time entry not deleted: %s", id)
	}
	ui.Success("Deleted entry %s", shortID(e.ID))
	return nil
}

func commentRun(taskRef, body string) error {
	b, err := getBoard()
	if err != nil {
		return err
	}

	t, err := findTask(b, taskRef)
	if err != nil {
		return err
	}

	if dryRun {
		ui.DryRunMsg("Would comment on %s", shortID(t.ID))
		return nil
	}

	c := b.AddComment(context.Background(), t.ID, body)
	if c == nil {
		return fmt.Errorf("comment not added")
	}
	ui.Success("Commented on %s at %s", output.Cyan(shortID(t.ID)), c.CreatedAt.Format(time.RFC3339))
	return nil
}

func attachRun(taskRef, name string) error {
	b, err := getBoard()
	if err != nil {
		return err
	}

	t, err := findTask(b, taskRef)
	if err != nil {
		return err
	}

	if dryRun {
		ui.DryRunMsg("Would attach %s to %s", name, shortID(t.ID))
		return nil
	}

	a := b.AddAttachment(context.Background(), t.ID, name, attachSize, attachMime)
	if a == nil {
		return fmt.Errorf("attachment not recorded")
	}
	ui.Success("Attached %s to %s", a.Name, output.Cyan(shortID(t.ID)))
	return nil
}
