package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/tempoboard/tempo/internal/board"
	"github.com/tempoboard/tempo/internal/models"
	"github.com/tempoboard/tempo/internal/output"
)

var (
	projectColor      string
	projectTrackerKey string
	projectNewName    string
)

var projectCmd = &cobra.Command{
	Use:   "project",
	Short: "Manage projects",
	Long:  "Create, list, update, and delete board projects.",
	RunE: func(cmd *cobra.Command, args []string) error {
		return projectListRun()
	},
}

var projectAddCmd = &cobra.Command{
	Use:   "add <name>",
	Short: "Create a project",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return projectAddRun(args[0])
	},
}

var projectListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List projects",
	RunE: func(cmd *cobra.Command, args []string) error {
		return projectListRun()
	},
}

var projectShowCmd = &cobra.Command{
	Use:   "show <name-or-id>",
	Short: "Show project details",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return projectShowRun(args[0])
	},
}

var projectUpdateCmd = &cobra.Command{
	Use:   "update <name-or-id>",
	Short: "Update a project",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return projectUpdateRun(args[0])
	},
}

var projectRemoveCmd = &cobra.Command{
	Use:     "remove <name-or-id>",
	Aliases: []string{"rm"},
	Short:   "Delete a project and everything attached to it",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return projectRemoveRun(args[0])
	},
}

var projectSelectCmd = &cobra.Command{
	Use:   "select [name-or-id]",
	Short: "Select the active project (no argument clears the selection)",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ref := ""
		if len(args) > 0 {
			ref = args[0]
		}
		return projectSelectRun(ref)
	},
}

var projectSubcatCmd = &cobra.Command{
	Use:   "subcat <add|remove> <project> <label>",
	Short: "Manage project subcategories",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		return projectSubcatRun(args[0], args[1], args[2])
	},
}

func init() {
	projectAddCmd.Flags().StringVar(&projectColor, "color", "", "Project color: blue, green, purple, orange, pink (default blue)")
	projectAddCmd.Flags().StringVar(&projectTrackerKey, "tracker", "", "External tracker key prefix (e.g. PROJ)")

	projectUpdateCmd.Flags().StringVar(&projectNewName, "name", "", "New project name")
	projectUpdateCmd.Flags().StringVar(&projectColor, "color", "", "New color")
	projectUpdateCmd.Flags().StringVar(&projectTrackerKey, "tracker", "", "New tracker key")

	projectCmd.AddCommand(projectAddCmd)
	projectCmd.AddCommand(projectListCmd)
	projectCmd.AddCommand(projectShowCmd)
	projectCmd.AddCommand(projectUpdateCmd)
	projectCmd.AddCommand(projectRemoveCmd)
	projectCmd.AddCommand(projectSelectCmd)
	projectCmd.AddCommand(projectSubcatCmd)
	rootCmd.AddCommand(projectCmd)
}

func projectAddRun(name string) error {
	b, err := getBoard()
	if err != nil {
		return err
	}

	if dryRun {
		ui.DryRunMsg("Would create project: %s", name)
		return nil
	}

	p := b.CreateProject(context.Background(), name, models.ProjectColor(projectColor), projectTrackerKey)
	if p == nil {
		return fmt.Errorf("project not created: %s", name)
	}

	ui.Success("Created project %s %s", output.Cyan(shortID(p.ID)), output.ProjectColor(p.Name, string(p.Color)))
	return nil
}

func projectListRun() error {
	b, err := getBoard()
	if err != nil {
		return err
	}

	projects := b.Projects()
	if len(projects) == 0 {
		ui.Info("No projects yet. Use 'tempo project add <name>' to get started.")
		return nil
	}

	// Count open tasks and logged minutes per project
	openTasks := make(map[string]int)
	for _, t := range b.Tasks() {
		if !t.IsArchived && t.Status != models.StatusDone {
			openTasks[t.ProjectID]++
		}
	}
	minutes := make(map[string]int)
	taskProject := make(map[string]string)
	for _, t := range b.Tasks() {
		taskProject[t.ID] = t.ProjectID
	}
	for _, e := range b.TimeEntries() {
		minutes[taskProject[e.TaskID]] += e.Duration()
	}

	selected := b.SelectedProjectID()
	table := ui.Table([]string{"ID", "Name", "Tracker", "Open", "Logged", ""})
	for _, p := range projects {
		marker := ""
		if p.ID == selected {
			marker = output.Green("*")
		}
		_ = table.Append([]string{
			shortID(p.ID),
			output.ProjectColor(p.Name, string(p.Color)),
			p.TrackerKey,
			fmt.Sprintf("%d", openTasks[p.ID]),
			output.FormatMinutes(minutes[p.ID]),
			marker,
		})
	}
	_ = table.Render()
	return nil
}

func projectShowRun(ref string) error {
	b, err := getBoard()
	if err != nil {
		return err
	}

	p, err := findProject(b, ref)
	if err != nil {
		return err
	}

	fmt.Fprintf(ui.Out, "%s  %s\n", output.Cyan(shortID(p.ID)), output.ProjectColor(p.Name, string(p.Color)))
	fmt.Fprintf(ui.Out, "  Color:      %s\n", p.Color)
	if p.TrackerKey != "" {
		fmt.Fprintf(ui.Out, "  Tracker:    %s\n", p.TrackerKey)
	}
	if len(p.Subcategories) > 0 {
		fmt.Fprintf(ui.Out, "  Subcats:    %s\n", strings.Join(p.Subcategories, ", "))
	}
	fmt.Fprintf(ui.Out, "  Created:    %s\n", p.CreatedAt.Format("2006-01-02"))
	fmt.Fprintf(ui.Out, "  Full ID:    %s\n", p.ID)

	byStatus := make(map[models.TaskStatus]int)
	for _, t := range b.Tasks() {
		if t.ProjectID == p.ID && !t.IsArchived {
			byStatus[t.Status]++
		}
	}
	fmt.Fprintln(ui.Out)
	for _, s := range models.Statuses() {
		fmt.Fprintf(ui.Out, "  %-14s %d\n", output.StatusColor(string(s)), byStatus[s])
	}
	return nil
}

func projectUpdateRun(ref string) error {
	b, err := getBoard()
	if err != nil {
		return err
	}

	p, err := findProject(b, ref)
	if err != nil {
		return err
	}

	upd := board.ProjectUpdate{}
	if projectNewName != "" {
		upd.Name = &projectNewName
	}
	if projectColor != "" {
		c := models.ProjectColor(projectColor)
		upd.Color = &c
	}
	if projectTrackerKey != "" {
		upd.TrackerKey = &projectTrackerKey
	}
	if upd.Name == nil && upd.Color == nil && upd.TrackerKey == nil {
		return fmt.Errorf("no updates specified (use --name, --color, or --tracker)")
	}

	if dryRun {
		ui.DryRunMsg("Would update project %s", p.Name)
		return nil
	}

	if b.UpdateProject(context.Background(), p.ID, upd) == nil {
		return fmt.Errorf("project not updated: %s", ref)
	}
	ui.Success("Updated project %s", output.Cyan(shortID(p.ID)))
	return nil
}

func projectRemoveRun(ref string) error {
	b, err := getBoard()
	if err != nil {
		return err
	}

	p, err := findProject(b, ref)
	if err != nil {
		return err
	}

	count := 0
	for _, t := range b.Tasks() {
		if t.ProjectID == p.ID {
			count++
		}
	}

	if dryRun {
		ui.DryRunMsg("Would delete project %s and %d tasks", p.Name, count)
		return nil
	}

	if !b.DeleteProject(context.Background(), p.ID) {
		return fmt.Errorf("project not deleted: %s", ref)
	}
	ui.Success("Deleted project %s (%d tasks removed)", p.Name, count)
	return nil
}

func projectSelectRun(ref string) error {
	b, err := getBoard()
	if err != nil {
		return err
	}

	if ref == "" {
		b.SelectProject(context.Background(), "")
		ui.Success("Cleared project selection")
		return nil
	}

	p, err := findProject(b, ref)
	if err != nil {
		return err
	}

	b.SelectProject(context.Background(), p.ID)
	ui.Success("Selected project %s", output.ProjectColor(p.Name, string(p.Color)))
	return nil
}

func projectSubcatRun(verb, ref, label string) error {
	b, err := getBoard()
	if err != nil {
		return err
	}

	p, err := findProject(b, ref)
	if err != nil {
		return err
	}

	switch verb {
	case "add":
		if !b.AddSubcategory(context.Background(), p.ID, label) {
			return fmt.Errorf("subcategory not added: %s", label)
		}
		ui.Success("Added subcategory %s to %s", label, p.Name)
	case "remove", "rm":
		if !b.RemoveSubcategory(context.Background(), p.ID, label) {
			return fmt.Errorf("subcategory not found: %s", label)
		}
		ui.Success("Removed subcategory %s from %s", label, p.Name)
	default:
		return fmt.Errorf("unknown subcommand: %s (use: add, remove)", verb)
	}
	return nil
}

// findProject resolves a project by exact ID, ID prefix, or name.
func findProject(b *board.Board, ref string) (*models.Project, error) {
	if p := b.Project(ref); p != nil {
		return p, nil
	}
	if p := b.ProjectByName(ref); p != nil {
		return p, nil
	}

	upper := strings.ToUpper(ref)
	var matches []*models.Project
	for _, p := range b.Projects() {
		if strings.HasPrefix(p.ID, upper) {
			matches = append(matches, p)
		}
	}
	switch len(matches) {
	case 0:
		return nil, fmt.Errorf("project not found: %s", ref)
	case 1:
		return matches[0], nil
	default:
		return nil, fmt.Errorf("ambiguous project ID %s: matches %d projects", ref, len(matches))
	}
}
