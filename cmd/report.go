package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/tempoboard/tempo/internal/analytics"
	"github.com/tempoboard/tempo/internal/calendar"
	"github.com/tempoboard/tempo/internal/output"
)

var (
	reportWeeks    int
	reportPeriod   string
	reportMinHours float64
	reportDays     int
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Analytics reports over tasks and logged time",
	RunE: func(cmd *cobra.Command, args []string) error {
		return reportVelocityRun()
	},
}

var reportVelocityCmd = &cobra.Command{
	Use:   "velocity",
	Short: "Weekly completion counts and cycle times",
	RunE: func(cmd *cobra.Command, args []string) error {
		return reportVelocityRun()
	},
}

var reportCompareCmd = &cobra.Command{
	Use:   "compare",
	Short: "Compare this period against the previous one",
	RunE: func(cmd *cobra.Command, args []string) error {
		return reportCompareRun()
	},
}

var reportEfficiencyCmd = &cobra.Command{
	Use:   "efficiency",
	Short: "Cycle time and effort by priority and project",
	RunE: func(cmd *cobra.Command, args []string) error {
		return reportEfficiencyRun()
	},
}

var reportTrendCmd = &cobra.Command{
	Use:   "trend",
	Short: "Daily logged minutes over recent days",
	RunE: func(cmd *cobra.Command, args []string) error {
		return reportTrendRun()
	},
}

var reportDeepWorkCmd = &cobra.Command{
	Use:   "deepwork",
	Short: "Detected deep-work sessions",
	RunE: func(cmd *cobra.Command, args []string) error {
		return reportDeepWorkRun()
	},
}

var reportCategoriesCmd = &cobra.Command{
	Use:   "categories",
	Short: "Logged time split by category",
	RunE: func(cmd *cobra.Command, args []string) error {
		return reportCategoriesRun()
	},
}

func init() {
	reportVelocityCmd.Flags().IntVar(&reportWeeks, "weeks", 0, "Weeks of history (default from config)")
	reportCompareCmd.Flags().StringVar(&reportPeriod, "period", "week", "Comparison granularity: week, month, quarter")
	reportDeepWorkCmd.Flags().Float64Var(&reportMinHours, "min-hours", 0, "Focus threshold in hours (default from config)")
	reportTrendCmd.Flags().IntVar(&reportDays, "days", 14, "Days of history")

	reportCmd.AddCommand(reportVelocityCmd)
	reportCmd.AddCommand(reportCompareCmd)
	reportCmd.AddCommand(reportEfficiencyCmd)
	reportCmd.AddCommand(reportTrendCmd)
	reportCmd.AddCommand(reportDeepWorkCmd)
	reportCmd.AddCommand(reportCategoriesCmd)
	rootCmd.AddCommand(reportCmd)
}

func reportVelocityRun() error {
	b, err := getBoard()
	if err != nil {
		return err
	}

	weeks := reportWeeks
	if weeks <= 0 {
		weeks = viper.GetInt("report.weeks_back")
	}

	records := analytics.VelocityData(b.Tasks(), weeks, time.Now().UTC())
	table := ui.Table([]string{"Week", "Completed", "Avg Cycle"})
	for _, r := range records {
		_ = table.Append([]string{
			fmt.Sprintf("%s - %s", r.Start.Format("Jan 2"), r.End.Format("Jan 2")),
			fmt.Sprintf("%d", r.Completed),
			fmt.Sprintf("%.1fd", r.AvgCycleDays),
		})
	}
	_ = table.Render()
	return nil
}

func reportCompareRun() error {
	b, err := getBoard()
	if err != nil {
		return err
	}

	period := calendar.Period(reportPeriod)
	if !calendar.ValidPeriod(period) {
		return fmt.Errorf("unknown period: %s (use: week, month, quarter)", reportPeriod)
	}

	data := analytics.PeriodComparison(b.Tasks(), b.TimeEntries(), period, time.Now().UTC())

	fmt.Fprintf(ui.Out, "This %s vs last %s\n\n", period, period)
	table := ui.Table([]string{"Metric", "Current", "Previous", "Delta", "%"})
	rows := []struct {
		name     string
		cur, prv string
		d        analytics.Delta
	}{
		{"Completed", fmt.Sprintf("%d", data.Current.TasksCompleted), fmt.Sprintf("%d", data.Previous.TasksCompleted), data.TasksCompleted},
		{"Created", fmt.Sprintf("%d", data.Current.TasksCreated), fmt.Sprintf("%d", data.Previous.TasksCreated), data.TasksCreated},
		{"Logged", output.FormatMinutes(data.Current.MinutesLogged), output.FormatMinutes(data.Previous.MinutesLogged), data.MinutesLogged},
		{"Avg cycle (d)", fmt.Sprintf("%d", data.Current.AvgCompletionDays), fmt.Sprintf("%d", data.Previous.AvgCompletionDays), data.AvgCompletion},
	}
	for _, r := range rows {
		_ = table.Append([]string{r.name, r.cur, r.prv, formatDelta(r.d.Value), fmt.Sprintf("%d%%", r.d.Percent)})
	}
	_ = table.Render()
	return nil
}

func formatDelta(v int) string {
	switch {
	case v > 0:
		return output.Green(fmt.Sprintf("+%d", v))
	case v < 0:
		return output.Red(fmt.Sprintf("%d", v))
	default:
		return "0"
	}
}

func reportEfficiencyRun() error {
	b, err := getBoard()
	if err != nil {
		return err
	}

	report := analytics.TaskEfficiency(b.Tasks(), b.TimeEntries(), b.Projects())
	if report.Completed == 0 {
		ui.Info("No completed tasks yet.")
		return nil
	}

	fmt.Fprintf(ui.Out, "Completed: %d  avg cycle %.1fd  avg effort %s\n\n",
		report.Completed, report.AvgCycleDays, output.FormatMinutes(int(report.AvgMinutes)))

	table := ui.Table([]string{"Group", "Count", "Avg Cycle", "Avg Effort"})
	for _, g := range report.ByPriority {
		_ = table.Append([]string{
			output.PriorityColor(g.Key),
			fmt.Sprintf("%d", g.Count),
			fmt.Sprintf("%.1fd", g.AvgCycleDays),
			output.FormatMinutes(int(g.AvgMinutes)),
		})
	}
	for _, g := range report.ByProject {
		_ = table.Append([]string{
			g.Key,
			fmt.Sprintf("%d", g.Count),
			fmt.Sprintf("%.1fd", g.AvgCycleDays),
			output.FormatMinutes(int(g.AvgMinutes)),
		})
	}
	_ = table.Render()
	return nil
}

func reportTrendRun() error {
	b, err := getBoard()
	if err != nil {
		return err
	}

	end := calendar.StartOfDay(time.Now().UTC())
	start := end.AddDate(0, 0, -(reportDays - 1))
	points := analytics.ProductivityTrend(b.TimeEntries(), start, end)

	table := ui.Table([]string{"Day", "Logged"})
	for _, p := range points {
		_ = table.Append([]string{p.Label, output.FormatMinutes(p.Minutes)})
	}
	_ = table.Render()
	return nil
}

func reportDeepWorkRun() error {
	b, err := getBoard()
	if err != nil {
		return err
	}

	minHours := reportMinHours
	if minHours <= 0 {
		minHours = viper.GetFloat64("deepwork.min_hours")
	}

	sessions := analytics.DeepWorkSessions(b.TimeEntries(), minHours)
	if len(sessions) == 0 {
		ui.Info("No deep-work sessions at the %.1fh threshold.", minHours)
		return nil
	}

	taskTitles := make(map[string]string)
	for _, t := range b.Tasks() {
		taskTitles[t.ID] = t.Title
	}

	table := ui.Table([]string{"Day", "Task", "Focused"})
	for _, s := range sessions {
		_ = table.Append([]string{
			s.Day.Format("2006-01-02"),
			taskTitles[s.TaskID],
			output.FormatMinutes(s.Minutes),
		})
	}
	_ = table.Render()
	return nil
}

func reportCategoriesRun() error {
	b, err := getBoard()
	if err != nil {
		return err
	}

	breakdown := analytics.TimeByCategory(b.TimeEntries(), nil, nil)
	if len(breakdown) == 0 {
		ui.Info("No time logged yet.")
		return nil
	}

	table := ui.Table([]string{"Category", "Logged", "Share"})
	for _, c := range breakdown {
		_ = table.Append([]string{
			string(c.Category),
			output.FormatMinutes(c.Minutes),
			fmt.Sprintf("%d%%", c.Percentage),
		})
	}
	_ = table.Render()
	return nil
}
