package cmd

import (
	"encoding/csv"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tempoboard/tempo/internal/board"
)

var (
	exportFormat string
	exportType   string
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export data as JSON, CSV, or Markdown",
	Long:  "Export projects, tasks, or time entries in various formats.",
	RunE: func(cmd *cobra.Command, args []string) error {
		return exportRun()
	},
}

func init() {
	exportCmd.Flags().StringVar(&exportFormat, "format", "json", "Output format: json, csv, markdown")
	exportCmd.Flags().StringVar(&exportType, "type", "tasks", "Data type: projects, tasks, entries")
	rootCmd.AddCommand(exportCmd)
}

func exportRun() error {
	b, err := getBoard()
	if err != nil {
		return err
	}

	switch exportType {
	case "projects":
		return exportProjects(b)
	case "tasks":
		return exportTasks(b)
	case "entries":
		return exportEntries(b)
	default:
		return fmt.Errorf("unknown export type: %s (use: projects, tasks, entries)", exportType)
	}
}

func exportProjects(b *board.Board) error {
	projects := b.Projects()

	switch exportFormat {
	case "json":
		enc := json.NewEncoder(ui.Out)
		enc.SetIndent("", "  ")
		return enc.Encode(projects)
	case "csv":
		w := csv.NewWriter(ui.Out)
		w.Write([]string{"ID", "Name", "Color", "Tracker", "Created"})
		for _, p := range projects {
			w.Write([]string{p.ID, p.Name, string(p.Color), p.TrackerKey, p.CreatedAt.Format("2006-01-02")})
		}
		w.Flush()
		return w.Error()
	case "markdown":
		fmt.Fprintln(ui.Out, "# Projects")
		fmt.Fprintln(ui.Out)
		fmt.Fprintln(ui.Out, "| Name | Color | Tracker |")
		fmt.Fprintln(ui.Out, "|------|-------|---------|")
		for _, p := range projects {
			fmt.Fprintf(ui.Out, "| %s | %s | %s |\n", p.Name, p.Color, p.TrackerKey)
		}
		return nil
	default:
		return fmt.Errorf("unknown format: %s", exportFormat)
	}
}

func exportTasks(b *board.Board) error {
	tasks := b.Tasks()
	projectNames := make(map[string]string)
	for _, p := range b.Projects() {
		projectNames[p.ID] = p.Name
	}

	switch exportFormat {
	case "json":
		enc := json.NewEncoder(ui.Out)
		enc.SetIndent("", "  ")
		return enc.Encode(tasks)
	case "csv":
		w := csv.NewWriter(ui.Out)
		w.Write([]string{"ID", "Project", "Title", "Status", "Priority", "Archived", "Created", "Completed"})
		for _, t := range tasks {
			completed := ""
			if t.CompletedAt != nil {
				completed = t.CompletedAt.Format("2006-01-02")
			}
			w.Write([]string{
				t.ID,
				projectNames[t.ProjectID],
				t.Title,
				string(t.Status),
				string(t.Priority),
				fmt.Sprintf("%t", t.IsArchived),
				t.CreatedAt.Format("2006-01-02"),
				completed,
			})
		}
		w.Flush()
		return w.Error()
	case "markdown":
		fmt.Fprintln(ui.Out, "# Tasks")
		fmt.Fprintln(ui.Out)
		fmt.Fprintln(ui.Out, "| Title | Project | Status | Priority |")
		fmt.Fprintln(ui.Out, "|-------|---------|--------|----------|")
		for _, t := range tasks {
			fmt.Fprintf(ui.Out, "| %s | %s | %s | %s |\n", t.Title, projectNames[t.ProjectID], t.Status, t.Priority)
		}
		return nil
	default:
		return fmt.Errorf("unknown format: %s", exportFormat)
	}
}

func exportEntries(b *board.Board) error {
	entries := b.TimeEntries()
	taskTitles := make(map[string]string)
	for _, t := range b.Tasks() {
		taskTitles[t.ID] = t.Title
	}

	switch exportFormat {
	case "json":
		enc := json.NewEncoder(ui.Out)
		enc.SetIndent("", "  ")
		return enc.Encode(entries)
	case "csv":
		w := csv.NewWriter(ui.Out)
		w.Write([]string{"ID", "Task", "Date", "Minutes", "Category", "Notes"})
		for _, e := range entries {
			w.Write([]string{
				e.ID,
				taskTitles[e.TaskID],
				e.Date.Format("2006-01-02"),
				fmt.Sprintf("%d", e.Duration()),
				string(e.Category),
				e.Notes,
			})
		}
		w.Flush()
		return w.Error()
	case "markdown":
		fmt.Fprintln(ui.Out, "# Time Entries")
		fmt.Fprintln(ui.Out)
		fmt.Fprintln(ui.Out, "| Date | Task | Minutes | Category |")
		fmt.Fprintln(ui.Out, "|------|------|---------|----------|")
		for _, e := range entries {
			fmt.Fprintf(ui.Out, "| %s | %s | %d | %s |\n", e.Date.Format("2006-01-02"), taskTitles[e.TaskID], e.Duration(), e.Category)
		}
		return nil
	default:
		return fmt.Errorf("unknown format: %s", exportFormat)
	}
}
