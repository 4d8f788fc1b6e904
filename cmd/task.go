package cmd

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/tempoboard/tempo/internal/board"
	"github.com/tempoboard/tempo/internal/filter"
	"github.com/tempoboard/tempo/internal/models"
	"github.com/tempoboard/tempo/internal/output"
)

var (
	taskProject     string
	taskTitle       string
	taskDesc        string
	taskStatus      string
	taskPriority    string
	taskDue         string
	taskClearDue    bool
	taskSubcategory string
	taskTracker     string
	taskPoints      int
	taskNewPoints   int
	taskAll         bool
)

var taskCmd = &cobra.Command{
	Use:   "task",
	Short: "Manage tasks",
	Long:  "Create, list, move, and update kanban tasks.",
	RunE: func(cmd *cobra.Command, args []string) error {
		return taskListRun()
	},
}

var taskAddCmd = &cobra.Command{
	Use:   "add <title>",
	Short: "Add a new task",
	Long:  "Add a task. Without --project, uses the selected project.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return taskAddRun(args[0])
	},
}

var taskListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List tasks through the board filters",
	RunE: func(cmd *cobra.Command, args []string) error {
		return taskListRun()
	},
}

var taskShowCmd = &cobra.Command{
	Use:   "show <task-id>",
	Short: "Show task details, history, and logged time",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return taskShowRun(args[0])
	},
}

var taskUpdateCmd = &cobra.Command{
	Use:   "update <task-id>",
	Short: "Update task fields",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return taskUpdateRun(args[0])
	},
}

var taskMoveCmd = &cobra.Command{
	Use:   "move <task-id> <status>",
	Short: "Move a task to another column",
	Long:  "Move a task to backlog, todo, in_progress, or done.",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return taskMoveRun(args[0], args[1])
	},
}

var taskArchiveCmd = &cobra.Command{
	Use:   "archive <task-id>",
	Short: "Archive a task",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return taskArchiveRun(args[0], true)
	},
}

var taskUnarchiveCmd = &cobra.Command{
	Use:   "unarchive <task-id>",
	Short: "Restore an archived task",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return taskArchiveRun(args[0], false)
	},
}

var taskBlockCmd = &cobra.Command{
	Use:   "block <task-id> <blocker-id>",
	Short: "Mark a task as blocked by another",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return taskBlockRun(args[0], args[1], true)
	},
}

var taskUnblockCmd = &cobra.Command{
	Use:   "unblock <task-id> <blocker-id>",
	Short: "Remove a blocking relationship",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return taskBlockRun(args[0], args[1], false)
	},
}

var taskRemoveCmd = &cobra.Command{
	Use:     "remove <task-id>",
	Aliases: []string{"rm"},
	Short:   "Delete a task and everything attached to it",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return taskRemoveRun(args[0])
	},
}

func init() {
	taskAddCmd.Flags().StringVar(&taskProject, "project", "", "Project name or ID")
	taskAddCmd.Flags().StringVar(&taskDesc, "desc", "", "Task description")
	taskAddCmd.Flags().StringVar(&taskStatus, "status", "", "Initial status (default backlog)")
	taskAddCmd.Flags().StringVar(&taskPriority, "priority", "", "Priority: low, medium, high (default medium)")
	taskAddCmd.Flags().StringVar(&taskDue, "due", "", "Due date (YYYY-MM-DD)")
	taskAddCmd.Flags().StringVar(&taskSubcategory, "subcat", "", "Project subcategory")
	taskAddCmd.Flags().StringVar(&taskTracker, "tracker", "", "External tracker key (e.g. PROJ-42)")
	taskAddCmd.Flags().IntVar(&taskPoints, "points", 0, "Story points")

	taskListCmd.Flags().BoolVar(&taskAll, "all", false, "Ignore board filters and list every task")

	taskUpdateCmd.Flags().StringVar(&taskTitle, "title", "", "New title")
	taskUpdateCmd.Flags().StringVar(&taskDesc, "desc", "", "New description")
	taskUpdateCmd.Flags().StringVar(&taskPriority, "priority", "", "New priority")
	taskUpdateCmd.Flags().StringVar(&taskDue, "due", "", "New due date (YYYY-MM-DD)")
	taskUpdateCmd.Flags().BoolVar(&taskClearDue, "clear-due", false, "Remove the due date")
	taskUpdateCmd.Flags().StringVar(&taskSubcategory, "subcat", "", "New subcategory")
	taskUpdateCmd.Flags().StringVar(&taskTracker, "tracker", "", "New tracker key")
	taskUpdateCmd.Flags().IntVar(&taskNewPoints, "points", -1, "New story points")

	taskCmd.AddCommand(taskAddCmd)
	taskCmd.AddCommand(taskListCmd)
	taskCmd.AddCommand(taskShowCmd)
	taskCmd.AddCommand(taskUpdateCmd)
	taskCmd.AddCommand(taskMoveCmd)
	taskCmd.AddCommand(taskArchiveCmd)
	taskCmd.AddCommand(taskUnarchiveCmd)
	taskCmd.AddCommand(taskBlockCmd)
	taskCmd.AddCommand(taskUnblockCmd)
	taskCmd.AddCommand(taskRemoveCmd)
	rootCmd.AddCommand(taskCmd)
}

func taskAddRun(title string) error {
	b, err := getBoard()
	if err != nil {
		return err
	}

	projectID := b.SelectedProjectID()
	if taskProject != "" {
		p, err := findProject(b, taskProject)
		if err != nil {
			return err
		}
		projectID = p.ID
	}
	if projectID == "" {
		return fmt.Errorf("no project specified and none selected (use --project or 'tempo project select')")
	}

	draft := board.TaskDraft{
		ProjectID:   projectID,
		Title:       title,
		Description: taskDesc,
		Status:      models.TaskStatus(taskStatus),
		Priority:    models.TaskPriority(taskPriority),
		Subcategory: taskSubcategory,
		TrackerKey:  taskTracker,
		StoryPoints: taskPoints,
	}
	if taskDue != "" {
		due, err := parseDay(taskDue)
		if err != nil {
			return err
		}
		draft.DueDate = &due
	}

	if dryRun {
		ui.DryRunMsg("Would add task: %s", title)
		return nil
	}

	t := b.CreateTask(context.Background(), draft)
	if t == nil {
		return fmt.Errorf("task not created: %s", title)
	}
	ui.Success("Created task %s: %s", output.Cyan(shortID(t.ID)), t.Title)
	return nil
}

func taskListRun() error {
	b, err := getBoard()
	if err != nil {
		return err
	}

	var tasks []*models.Task
	if taskAll {
		tasks = b.Tasks()
	} else {
		tasks = filter.Tasks(b.Tasks(), b.Filters(), b.SelectedProjectID())
	}

	if len(tasks) == 0 {
		ui.Info("No tasks match the current filters.")
		return nil
	}

	projectNames := make(map[string]string)
	for _, p := range b.Projects() {
		projectNames[p.ID] = p.Name
	}

	table := ui.Table([]string{"ID", "Project", "Title", "Status", "Priority", "Due"})
	for _, t := range tasks {
		due := ""
		if t.DueDate != nil {
			due = t.DueDate.Format("2006-01-02")
		}
		_ = table.Append([]string{
			shortID(t.ID),
			projectNames[t.ProjectID],
			t.Title,
			output.StatusColor(string(t.Status)),
			output.PriorityColor(string(t.Priority)),
			due,
		})
	}
	_ = table.Render()
	return nil
}

func taskShowRun(id string) error {
	b, err := getBoard()
	if err != nil {
		return err
	}

	t, err := findTask(b, id)
	if err != nil {
		return err
	}

	projName := ""
	if p := b.Project(t.ProjectID); p != nil {
		projName = p.Name
	}

	fmt.Fprintf(ui.Out, "%s  %s\n", output.Cyan(shortID(t.ID)), t.Title)
	fmt.Fprintf(ui.Out, "  Project:    %s\n", projName)
	fmt.Fprintf(ui.Out, "  Status:     %s\n", output.StatusColor(string(t.Status)))
	fmt.Fprintf(ui.Out, "  Priority:   %s\n", output.PriorityColor(string(t.Priority)))
	if t.Description != "" {
		fmt.Fprintf(ui.Out, "  Desc:       %s\n", t.Description)
	}
	if t.Subcategory != "" {
		fmt.Fprintf(ui.Out, "  Subcat:     %s\n", t.Subcategory)
	}
	if t.TrackerKey != "" {
		fmt.Fprintf(ui.Out, "  Tracker:    %s\n", t.TrackerKey)
	}
	if t.StoryPoints > 0 {
		fmt.Fprintf(ui.Out, "  Points:     %d\n", t.StoryPoints)
	}
	if t.DueDate != nil {
		fmt.Fprintf(ui.Out, "  Due:        %s\n", t.DueDate.Format("2006-01-02"))
	}
	if len(t.BlockedBy) > 0 {
		fmt.Fprintf(ui.Out, "  Blocked by: %s\n", joinShortIDs(t.BlockedBy))
	}
	if len(t.Blocking) > 0 {
		fmt.Fprintf(ui.Out, "  Blocking:   %s\n", joinShortIDs(t.Blocking))
	}
	if t.IsArchived {
		fmt.Fprintf(ui.Out, "  Archived:   %s\n", output.Yellow("yes"))
	}
	fmt.Fprintf(ui.Out, "  Created:    %s\n", t.CreatedAt.Format(time.RFC3339))
	if t.CompletedAt != nil {
		fmt.Fprintf(ui.Out, "  Completed:  %s\n", t.CompletedAt.Format(time.RFC3339))
	}
	fmt.Fprintf(ui.Out, "  Full ID:    %s\n", t.ID)

	total := 0
	for _, e := range b.EntriesForTask(t.ID) {
		total += e.Duration()
	}
	if total > 0 {
		fmt.Fprintf(ui.Out, "  Logged:     %s\n", output.FormatMinutes(total))
	}

	if comments := b.CommentsForTask(t.ID); len(comments) > 0 {
		fmt.Fprintln(ui.Out)
		for _, c := range comments {
			fmt.Fprintf(ui.Out, "  %s %s\n", c.CreatedAt.Format("2006-01-02"), c.Body)
		}
	}

	if history := b.HistoryForTask(t.ID); len(history) > 0 && verbose {
		fmt.Fprintln(ui.Out)
		for _, h := range history {
			fmt.Fprintf(ui.Out, "  %s %s: %s -> %s\n",
				h.ChangedAt.Format("2006-01-02 15:04"), h.Field, h.OldValue, h.NewValue)
		}
	}
	return nil
}

func taskUpdateRun(id string) error {
	b, err := getBoard()
	if err != nil {
		return err
	}

	t, err := findTask(b, id)
	if err != nil {
		return err
	}

	upd := board.TaskUpdate{ClearDueDate: taskClearDue}
	changed := taskClearDue
	if taskTitle != "" {
		upd.Title = &taskTitle
		changed = true
	}
	if taskDesc != "" {
		upd.Description = &taskDesc
		changed = true
	}
	if taskPriority != "" {
		p := models.TaskPriority(taskPriority)
		upd.Priority = &p
		changed = true
	}
	if taskDue != "" {
		due, err := parseDay(taskDue)
		if err != nil {
			return err
		}
		upd.DueDate = &due
		changed = true
	}
	if taskSubcategory != "" {
		upd.Subcategory = &taskSubcategory
		changed = true
	}
	if taskTracker != "" {
		upd.TrackerKey = &taskTracker
		changed = true
	}
	if taskNewPoints >= 0 {
		upd.StoryPoints = &taskNewPoints
		changed = true
	}

	if !changed {
		return fmt.Errorf("no updates specified (use --title, --desc, --priority, --due, --clear-due, --subcat, --tracker, or --points)")
	}

	if dryRun {
		ui.DryRunMsg("Would update task %s", shortID(t.ID))
		return nil
	}

	if b.UpdateTask(context.Background(), t.ID, upd) == nil {
		return fmt.Errorf("task not updated: %s", id)
	}
	ui.Success("Updated task %s", output.Cyan(shortID(t.ID)))
	return nil
}

func taskMoveRun(id, status string) error {
	b, err := getBoard()
	if err != nil {
		return err
	}

	t, err := findTask(b, id)
	if err != nil {
		return err
	}

	target := models.TaskStatus(status)
	if !models.ValidStatus(target) {
		return fmt.Errorf("unknown status: %s (use: backlog, todo, in_progress, done)", status)
	}

	if dryRun {
		ui.DryRunMsg("Would move task %s to %s", shortID(t.ID), status)
		return nil
	}

	if b.MoveTask(context.Background(), t.ID, target) == nil {
		return fmt.Errorf("task not moved: %s", id)
	}
	ui.Success("Moved task %s to %s", output.Cyan(shortID(t.ID)), output.StatusColor(status))
	return nil
}

func taskArchiveRun(id string, archive bool) error {
	b, err := getBoard()
	if err != nil {
		return err
	}

	t, err := findTask(b, id)
	if err != nil {
		return err
	}

	verb := "archive"
	if !archive {
		verb = "unarchive"
	}
	if dryRun {
		ui.DryRunMsg("Would %s task %s: %s", verb, shortID(t.ID), t.Title)
		return nil
	}

	ctx := context.Background()
	if archive {
		t = b.ArchiveTask(ctx, t.ID)
	} else {
		t = b.UnarchiveTask(ctx, t.ID)
	}
	if t == nil {
		return fmt.Errorf("task not %sd: %s", verb, id)
	}
	ui.Success("%sd task %s: %s", verb, output.Cyan(shortID(t.ID)), t.Title)
	return nil
}

func taskBlockRun(id, blockerID string, block bool) error {
	b, err := getBoard()
	if err != nil {
		return err
	}

	t, err := findTask(b, id)
	if err != nil {
		return err
	}
	blocker, err := findTask(b, blockerID)
	if err != nil {
		return err
	}

	ctx := context.Background()
	if block {
		if !b.AddBlocker(ctx, t.ID, blocker.ID) {
			return fmt.Errorf("blocker not added")
		}
		ui.Success("Task %s is now blocked by %s", output.Cyan(shortID(t.ID)), output.Cyan(shortID(blocker.ID)))
	} else {
		if !b.RemoveBlocker(ctx, t.ID, blocker.ID) {
			return fmt.Errorf("blocker not removed")
		}
		ui.Success("Task %s is no longer blocked by %s", output.Cyan(shortID(t.ID)), output.Cyan(shortID(blocker.ID)))
	}
	return nil
}

func taskRemoveRun(id string) error {
	b, err := getBoard()
	if err != nil {
		return err
	}

	t, err := findTask(b, id)
	if err != nil {
		return err
	}

	if dryRun {
		ui.DryRunMsg("Would delete task %s: %s", shortID(t.ID), t.Title)
		return nil
	}

	if !b.DeleteTask(context.Background(), t.ID) {
		return fmt.Errorf("task not deleted: %s", id)
	}
	ui.Success("Deleted task %s: %s", shortID(t.ID), t.Title)
	return nil
}

// findTask finds a task by full ID or prefix match.
func findTask(b *board.Board, id string) (*models.Task, error) {
	if t := b.Task(id); t != nil {
		return t, nil
	}

	upper := strings.ToUpper(id)
	var matches []*models.Task
	for _, t := range b.Tasks() {
		if strings.HasPrefix(t.ID, upper) {
			matches = append(matches, t)
		}
	}
	switch len(matches) {
	case 0:
		return nil, fmt.Errorf("task not found: %s", id)
	case 1:
		return matches[0], nil
	default:
		return nil, fmt.Errorf("ambiguous task ID %s: matches %d tasks", id, len(matches))
	}
}

// shortID returns a truncated ULID for display (first 12 chars).
func shortID(id string) string {
	if len(id) > 12 {
		return id[:12]
	}
	return id
}

func joinShortIDs(ids []string) string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = shortID(id)
	}
	return strings.Join(out, ", ")
}

// parseDay parses a YYYY-MM-DD argument as a UTC day.
func parseDay(s string) (time.Time, error) {
	t, err := time.ParseInLocation("2006-01-02", s, time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q (expected YYYY-MM-DD)", s)
	}
	return t, nil
}
