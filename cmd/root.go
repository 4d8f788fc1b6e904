package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/tempoboard/tempo/internal/board"
	"github.com/tempoboard/tempo/internal/output"
	"github.com/tempoboard/tempo/internal/storage"
)

// Package-level shared dependencies, initialized in cobra.OnInitialize.
var (
	ui         *output.UI
	boardState *board.Board
	docStore   *storage.SQLiteStore
	logger     *zap.Logger

	verbose bool
	dryRun  bool
)

var rootCmd = &cobra.Command{
	Use:   "tempo",
	Short: "Tempo - kanban task and time tracking",
	Long: `tempo tracks projects, tasks, and logged time on a local kanban board.
Tasks move across backlog, todo, in_progress, and done columns; time
entries feed velocity, deep-work, and period-comparison reports.`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	DisableAutoGenTag: true,
}

// Execute is the main entry point called from main.go.
func Execute(version, commit, date string) {
	buildVersion = version
	buildCommit = commit
	buildDate = date

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig, initDeps)

	rootCmd.RunE = func(cmd *cobra.Command, args []string) error {
		if _, err := getBoard(); err != nil {
			return cmd.Help()
		}
		return boardShowRun()
	}

	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Verbose output")
	rootCmd.PersistentFlags().BoolVarP(&dryRun, "dry-run", "n", false, "Show what would happen without making changes")
	rootCmd.PersistentFlags().String("config", "", "Config file (default ~/.config/tempo/config.yaml)")
}

func initConfig() {
	// If --config is explicitly set, use that file
	if cfgFile, _ := rootCmd.PersistentFlags().GetString("config"); cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: cannot find home directory: %v\n", err)
			os.Exit(1)
		}

		configDir := filepath.Join(home, ".config", "tempo")
		viper.AddConfigPath(configDir)
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
	}

	viper.SetEnvPrefix("TEMPO")
	viper.AutomaticEnv()

	// Defaults via viper.SetDefault()
	home, _ := os.UserHomeDir()
	defaultConfigDir := filepath.Join(home, ".config", "tempo")

	viper.SetDefault("state_dir", defaultConfigDir)
	viper.SetDefault("db_path", filepath.Join(defaultConfigDir, "tempo.db"))
	viper.SetDefault("log.level", "warn")
	viper.SetDefault("report.weeks_back", 8)
	viper.SetDefault("deepwork.min_hours", 2.0)

	// Read config file if it exists (optional)
	_ = viper.ReadInConfig()
}

func initDeps() {
	ui = output.New()
	ui.Verbose = verbose
	ui.DryRun = dryRun

	// Board and store initialize lazily, only when commands need them.
	// This allows config/version commands to run without a db.
}

// newLogger builds the engine logger from the configured level.
func newLogger() *zap.Logger {
	level := zapcore.WarnLevel
	if err := level.Set(viper.GetString("log.level")); err != nil {
		level = zapcore.WarnLevel
	}

	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(level)
	cfg.OutputPaths = []string{"stderr"}
	l, err := cfg.Build()
	if err != nil {
		return zap.NewNop()
	}
	return l
}

// getBoard returns the shared board, loading the document on first call.
func getBoard() (*board.Board, error) {
	if boardState != nil {
		return boardState, nil
	}

	s, err := storage.NewSQLiteStore(viper.GetString("db_path"))
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	ctx := context.Background()
	if err := s.Migrate(ctx); err != nil {
		_ = s.Close()
		return nil, fmt.Errorf("migrate database: %w", err)
	}

	doc, err := s.Load(ctx)
	if err != nil {
		_ = s.Close()
		return nil, fmt.Errorf("load board: %w", err)
	}

	logger = newLogger()
	docStore = s
	boardState = board.New(doc, s, logger)
	return boardState, nil
}
