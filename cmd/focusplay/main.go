// Package main provides the CLI entrypoint for focusplay.
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/verte-zerg/focusplay/internal/auth"
	"github.com/verte-zerg/focusplay/internal/challenge"
	"github.com/verte-zerg/focusplay/internal/config"
	"github.com/verte-zerg/focusplay/internal/generator"
	"github.com/verte-zerg/focusplay/internal/progress"
	"github.com/verte-zerg/focusplay/internal/session"
	"github.com/verte-zerg/focusplay/internal/settings"
	"github.com/verte-zerg/focusplay/internal/store"
	"github.com/verte-zerg/focusplay/internal/tui"
)

var (
	globalDBPath string
	globalMemory bool

	playSeed         int64
	playTimeLimit    bool
	playHistoryLimit int
)

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "focusplay",
		Short:         "Attention-training mini-games in the terminal",
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE:          runPlayCmd,
	}

	rootCmd.PersistentFlags().StringVar(&globalDBPath, "db", "", "database path (default: XDG data dir)")
	rootCmd.PersistentFlags().BoolVar(&globalMemory, "memory", false, "keep data in memory only")

	rootCmd.Flags().Int64Var(&playSeed, "seed", 0, "random seed (0 = time based)")
	rootCmd.Flags().BoolVar(&playTimeLimit, "time-limit", false, "end games after the session duration setting")
	rootCmd.Flags().IntVar(&playHistoryLimit, "history-limit", 0, "keep at most N sessions (0 = unbounded)")

	rootCmd.AddCommand(newStatsCmd())
	rootCmd.AddCommand(newSettingsCmd())
	rootCmd.AddCommand(newChallengeCmd())
	rootCmd.AddCommand(newResetCmd())
	rootCmd.AddCommand(newLoginCmd())
	rootCmd.AddCommand(newLogoutCmd())
	rootCmd.AddCommand(newConfigCmd())
	rootCmd.AddCommand(newDataCmd())

	return rootCmd
}

// app holds the opened stores shared by every command.
type app struct {
	kv         store.KV
	db         *store.Store
	fileCfg    config.FileConfig
	envCfg     config.EnvConfig
	progress   *progress.Store
	settings   *settings.Store
	challenges *challenge.Selector
}

func loadConfigs() (config.FileConfig, config.EnvConfig, error) {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return config.FileConfig{}, config.EnvConfig{}, fmt.Errorf("failed to load config: %w", err)
	}
	envCfg, err := config.LoadEnv()
	if err != nil {
		return config.FileConfig{}, config.EnvConfig{}, err
	}
	return fileCfg, envCfg, nil
}

func openApp(ctx context.Context, seed int64, historyLimit int) (*app, error) {
	fileCfg, envCfg, err := loadConfigs()
	if err != nil {
		return nil, err
	}
	a := &app{fileCfg: fileCfg, envCfg: envCfg}
	if globalMemory {
		a.kv = store.NewMemory()
	} else {
		path := globalDBPath
		if path == "" {
			path = envCfg.ResolveDBPath()
		}
		st, err := store.Open(path)
		if err != nil {
			return nil, fmt.Errorf("failed to open db: %w", err)
		}
		a.db = st
		a.kv = st
	}

	a.progress = progress.New(a.kv, progress.WithHistoryLimit(historyLimit))
	if _, err := a.progress.Load(ctx); err != nil {
		a.close()
		return nil, fmt.Errorf("failed to load progress: %w", err)
	}
	a.settings = settings.New(a.kv)
	if _, err := a.settings.Load(ctx); err != nil {
		a.close()
		return nil, fmt.Errorf("failed to load settings: %w", err)
	}
	a.challenges = challenge.NewSelector(a.kv, generator.New(seed), time.Now)
	return a, nil
}

func (a *app) close() {
	if a.db == nil {
		return
	}
	if err := a.db.Close(); err != nil {
		logErrf("failed to close db: %v\n", err)
	}
}

func (a *app) tokenSource() auth.FileSource {
	path := config.DefaultTokenPath()
	if a.fileCfg.Auth.TokenPath != nil && *a.fileCfg.Auth.TokenPath != "" {
		path = *a.fileCfg.Auth.TokenPath
	}
	return auth.FileSource{Path: path, Override: a.envCfg.AuthToken}
}

func (a *app) gate() *auth.Gate {
	required := a.fileCfg.Auth.Required != nil && *a.fileCfg.Auth.Required
	return auth.NewGate(a.tokenSource(), required, time.Now)
}

func (a *app) providerURL() string {
	if a.envCfg.ProviderURL != "" {
		return a.envCfg.ProviderURL
	}
	if a.fileCfg.Auth.ProviderURL != nil {
		return *a.fileCfg.Auth.ProviderURL
	}
	return ""
}

func runPlayCmd(cmd *cobra.Command, _ []string) error {
	fileCfg, envCfg, err := loadConfigs()
	if err != nil {
		return err
	}
	applyInt64Config(cmd, "seed", &playSeed, fileCfg.Play.Seed)
	applyInt64Config(cmd, "seed", &playSeed, envCfg.Seed)
	applyBoolConfig(cmd, "time-limit", &playTimeLimit, fileCfg.Play.TimeLimit)
	applyIntConfig(cmd, "history-limit", &playHistoryLimit, fileCfg.Play.HistoryLimit)
	if playHistoryLimit < 0 {
		return fmt.Errorf("--history-limit must be >= 0")
	}

	ctx := context.Background()
	a, err := openApp(ctx, playSeed, playHistoryLimit)
	if err != nil {
		return err
	}
	defer a.close()

	var limit time.Duration
	if playTimeLimit {
		limit = time.Duration(a.settings.Current().SessionDuration) * time.Minute
	}
	ctrl := session.NewController(session.Options{
		Progress:   a.progress,
		Challenges: a.challenges,
		Source:     generator.New(playSeed),
		TimeLimit:  limit,
	})

	m := tui.NewModel(tui.Deps{
		Controller:  ctrl,
		Progress:    a.progress,
		Challenges:  a.challenges,
		Gate:        a.gate(),
		ProviderURL: a.providerURL(),
	})
	program := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run TUI: %w", err)
	}
	return nil
}

func applyIntConfig(cmd *cobra.Command, name string, target, value *int) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyInt64Config(cmd *cobra.Command, name string, target, value *int64) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyBoolConfig(cmd *cobra.Command, name string, target, value *bool) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func logErrf(format string, args ...any) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}

func logErrln(args ...any) {
	if _, err := fmt.Fprintln(os.Stderr, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}
