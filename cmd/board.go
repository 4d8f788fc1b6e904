package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tempoboard/tempo/internal/filter"
	"github.com/tempoboard/tempo/internal/models"
	"github.com/tempoboard/tempo/internal/output"
)

var (
	filterSearch   string
	filterProject  string
	filterPriority string
	filterRange    string
	filterFrom     string
	filterTo       string
	filterClear    bool
)

var boardCmd = &cobra.Command{
	Use:   "board",
	Short: "Show the kanban board",
	Long:  "Show filtered tasks grouped by status column.",
	RunE: func(cmd *cobra.Command, args []string) error {
		return boardShowRun()
	},
}

var boardFilterCmd = &cobra.Command{
	Use:   "filter",
	Short: "Set or clear the persisted board filters",
	RunE: func(cmd *cobra.Command, args []string) error {
		return boardFilterRun()
	},
}

var boardArchiveCmd = &cobra.Command{
	Use:   "archive",
	Short: "Show archived tasks",
	RunE: func(cmd *cobra.Command, args []string) error {
		return boardArchiveRun()
	},
}

func init() {
	boardFilterCmd.Flags().StringVar(&filterSearch, "search", "", "Free-text search over title, description, and tracker key")
	boardFilterCmd.Flags().StringVar(&filterProject, "project", "", "Restrict to one project")
	boardFilterCmd.Flags().StringVar(&filterPriority, "priority", "", "Priority filter: low, medium, high, all")
	boardFilterCmd.Flags().StringVar(&filterRange, "range", "", "Created-at bucket: all, today, week, month, quarter, custom")
	boardFilterCmd.Flags().StringVar(&filterFrom, "from", "", "Custom range start (YYYY-MM-DD)")
	boardFilterCmd.Flags().StringVar(&filterTo, "to", "", "Custom range end (YYYY-MM-DD)")
	boardFilterCmd.Flags().BoolVar(&filterClear, "clear", false, "Reset all filters to defaults")

	boardCmd.AddCommand(boardFilterCmd)
	boardCmd.AddCommand(boardArchiveCmd)
	rootCmd.AddCommand(boardCmd)
}

func boardShowRun() error {
	b, err := getBoard()
	if err != nil {
		return err
	}

	tasks := filter.Tasks(b.Tasks(), b.Filters(), b.SelectedProjectID())

	byStatus := make(map[models.TaskStatus][]*models.Task)
	for _, t := range tasks {
		byStatus[t.Status] = append(byStatus[t.Status], t)
	}

	projectNames := make(map[string]string)
	for _, p := range b.Projects() {
		projectNames[p.ID] = p.Name
	}

	f := b.Filters()
	if f.Search != "" || f.ProjectID != "" || f.Priority != models.PriorityAll || f.DateRange != models.RangeAll {
		ui.Info("Filters active (see 'tempo board filter')")
	}

	for _, s := range models.Statuses() {
		column := byStatus[s]
		fmt.Fprintf(ui.Out, "%s (%d)\n", output.StatusColor(string(s)), len(column))
		for _, t := range column {
			blocked := ""
			if len(t.BlockedBy) > 0 {
				blocked = output.Red(" [blocked]")
			}
			fmt.Fprintf(ui.Out, "  %s  %s  %s%s\n",
				shortID(t.ID),
				output.PriorityColor(string(t.Priority)),
				t.Title,
				blocked,
			)
			if proj := projectNames[t.ProjectID]; proj != "" && verbose {
				fmt.Fprintf(ui.Out, "      %s\n", proj)
			}
		}
		fmt.Fprintln(ui.Out)
	}
	return nil
}

func boardFilterRun() error {
	b, err := getBoard()
	if err != nil {
		return err
	}
	ctx := context.Background()

	if filterClear {
		b.SetFilters(ctx, models.DefaultFilters())
		ui.Success("Filters reset")
		return nil
	}

	f := b.Filters()
	changed := false
	if filterSearch != "" {
		f.Search = filterSearch
		changed = true
	}
	if filterProject != "" {
		p, err := findProject(b, filterProject)
		if err != nil {
			return err
		}
		f.ProjectID = p.ID
		changed = true
	}
	if filterPriority != "" {
		f.Priority = filterPriority
		changed = true
	}
	if filterRange != "" {
		f.DateRange = models.DateRange(filterRange)
		changed = true
	}
	if filterFrom != "" {
		from, err := parseDay(filterFrom)
		if err != nil {
			return err
		}
		f.CustomStart = &from
		changed = true
	}
	if filterTo != "" {
		to, err := parseDay(filterTo)
		if err != nil {
			return err
		}
		f.CustomEnd = &to
		changed = true
	}

	if !changed {
		// No flags: report the current state instead
		fmt.Fprintf(ui.Out, "  search:    %q\n", f.Search)
		fmt.Fprintf(ui.Out, "  project:   %s\n", f.ProjectID)
		fmt.Fprintf(ui.Out, "  priority:  %s\n", f.Priority)
		fmt.Fprintf(ui.Out, "  range:     %s\n", f.DateRange)
		if f.CustomStart != nil {
			fmt.Fprintf(ui.Out, "  from:      %s\n", f.CustomStart.Format("2006-01-02"))
		}
		if f.CustomEnd != nil {
			fmt.Fprintf(ui.Out, "  to:        %s\n", f.CustomEnd.Format("2006-01-02"))
		}
		return nil
	}

	if dryRun {
		ui.DryRunMsg("Would update board filters")
		return nil
	}

	b.SetFilters(ctx, f)
	ui.Success("Filters updated")
	return nil
}

func boardArchiveRun() error {
	b, err := getBoard()
	if err != nil {
		return err
	}

	f := b.Filters()
	f.ShowArchived = true
	tasks := filter.Tasks(b.Tasks(), f, b.SelectedProjectID())

	if len(tasks) == 0 {
		ui.Info("No archived tasks.")
		return nil
	}

	projectNames := make(map[string]string)
	for _, p := range b.Projects() {
		projectNames[p.ID] = p.Name
	}

	table := ui.Table([]string{"ID", "Project", "Title", "Archived"})
	for _, t := range tasks {
		when := ""
		if t.ArchivedAt != nil {
			when = t.ArchivedAt.Format("2006-01-02")
		}
		_ = table.Append([]string{
			shortID(t.ID),
			projectNames[t.ProjectID],
			t.Title,
			when,
		})
	}
	_ = table.Render()
	return nil
}
