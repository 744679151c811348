package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/verte-zerg/focusplay/internal/auth"
	"github.com/verte-zerg/focusplay/internal/config"
	"github.com/verte-zerg/focusplay/internal/model"
	"github.com/verte-zerg/focusplay/internal/stats"
	"github.com/verte-zerg/focusplay/internal/statsui"
	"github.com/verte-zerg/focusplay/internal/store"
)

const defaultRecent = 10

var (
	statsPlain bool
	statsLast  int

	settingsDifficulty int
	settingsSound      bool
	settingsVibration  bool
	settingsDuration   int
	settingsDefaults   bool

	challengeReroll bool

	resetYes bool
	resetAll bool

	loginToken string
)

func newStatsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show progress and history",
		Args:  cobra.NoArgs,
		RunE:  runStatsCmd,
	}
	cmd.Flags().BoolVar(&statsPlain, "plain", false, "print plain text instead of the interactive view")
	cmd.Flags().IntVar(&statsLast, "last", defaultRecent, "recent sessions to print in plain mode (0 = all)")
	return cmd
}

func runStatsCmd(cmd *cobra.Command, _ []string) error {
	if statsLast < 0 {
		return fmt.Errorf("--last must be >= 0")
	}
	a, err := openApp(context.Background(), 0, 0)
	if err != nil {
		return err
	}
	defer a.close()

	if !statsPlain && term.IsTerminal(int(os.Stdout.Fd())) {
		m := statsui.NewModel(statsui.Deps{
			Progress:   a.progress,
			Settings:   a.settings,
			Challenges: a.challenges,
		})
		program := tea.NewProgram(m, tea.WithAltScreen())
		if _, err := program.Run(); err != nil {
			return fmt.Errorf("failed to run stats TUI: %w", err)
		}
		return nil
	}

	out := cmd.OutOrStdout()
	p := a.progress.Snapshot()
	if err := stats.RenderSummary(out, p); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	if err := stats.RenderGameTable(out, p.Sessions); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	if err := stats.RenderRecent(out, a.progress.Recent(statsLast)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func newSettingsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "settings",
		Short: "Show or change game settings",
		Args:  cobra.NoArgs,
		RunE:  runSettingsCmd,
	}
	cmd.Flags().IntVar(&settingsDifficulty, "difficulty", 0, "difficulty (1-3)")
	cmd.Flags().BoolVar(&settingsSound, "sound", true, "enable sound")
	cmd.Flags().BoolVar(&settingsVibration, "vibration", true, "enable vibration")
	cmd.Flags().IntVar(&settingsDuration, "duration", 0, "session duration in minutes (3-15)")
	cmd.Flags().BoolVar(&settingsDefaults, "defaults", false, "restore default settings")
	return cmd
}

func runSettingsCmd(cmd *cobra.Command, _ []string) error {
	ctx := context.Background()
	a, err := openApp(ctx, 0, 0)
	if err != nil {
		return err
	}
	defer a.close()

	if settingsDefaults {
		if _, err := a.settings.Reset(ctx); err != nil {
			return fmt.Errorf("failed to reset settings: %w", err)
		}
	}
	flags := cmd.Flags()
	if flags.Changed("difficulty") || flags.Changed("sound") || flags.Changed("vibration") || flags.Changed("duration") {
		_, err := a.settings.Update(ctx, func(g *model.GameSettings) {
			if flags.Changed("difficulty") {
				g.Difficulty = settingsDifficulty
			}
			if flags.Changed("sound") {
				g.SoundEnabled = settingsSound
			}
			if flags.Changed("vibration") {
				g.VibrationEnabled = settingsVibration
			}
			if flags.Changed("duration") {
				g.SessionDuration = settingsDuration
			}
		})
		if err != nil {
			return fmt.Errorf("failed to save settings: %w", err)
		}
	}
	return writeSettings(cmd.OutOrStdout(), a.settings.Current())
}

func writeSettings(w io.Writer, g model.GameSettings) error {
	lines := []string{
		fmt.Sprintf("difficulty: %d (%s)", g.Difficulty, model.DifficultyLabel(g.Difficulty)),
		fmt.Sprintf("sound: %t", g.SoundEnabled),
		fmt.Sprintf("vibration: %t", g.VibrationEnabled),
		fmt.Sprintf("duration: %d min", g.SessionDuration),
	}
	for _, line := range lines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
	}
	return nil
}

func newChallengeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "challenge",
		Short: "Show the weekly challenge",
		Args:  cobra.NoArgs,
		RunE:  runChallengeCmd,
	}
	cmd.Flags().BoolVar(&challengeReroll, "reroll", false, "pick a new weekly challenge")
	return cmd
}

func runChallengeCmd(cmd *cobra.Command, _ []string) error {
	ctx := context.Background()
	a, err := openApp(ctx, 0, 0)
	if err != nil {
		return err
	}
	defer a.close()

	var wc model.WeeklyChallenge
	if challengeReroll {
		wc, err = a.challenges.Reroll(ctx)
	} else {
		wc, err = a.challenges.Current(ctx)
	}
	if err != nil {
		return fmt.Errorf("failed to load challenge: %w", err)
	}
	return writeChallenge(cmd.OutOrStdout(), wc)
}

func writeChallenge(w io.Writer, wc model.WeeklyChallenge) error {
	status := "open"
	if wc.Completed {
		status = "completed"
		if wc.CompletedAt != nil {
			status += " on " + wc.CompletedAt.Local().Format("2006-01-02")
		}
	}
	_, err := fmt.Fprintf(w, "%s (%s)\n%s\n", wc.Title, status, wc.Description)
	if err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func newResetCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Erase progress",
		Args:  cobra.NoArgs,
		RunE:  runResetCmd,
	}
	cmd.Flags().BoolVarP(&resetYes, "yes", "y", false, "skip the confirmation prompt")
	cmd.Flags().BoolVar(&resetAll, "all", false, "also erase settings and the weekly challenge")
	return cmd
}

func runResetCmd(cmd *cobra.Command, _ []string) error {
	if !resetYes {
		prompt := "Erase all progress? [y/N] "
		if resetAll {
			prompt = "Erase progress, settings and the weekly challenge? [y/N] "
		}
		ok, err := confirm(cmd.InOrStdin(), cmd.ErrOrStderr(), prompt)
		if err != nil {
			return err
		}
		if !ok {
			logErrln("Aborted.")
			return nil
		}
	}

	ctx := context.Background()
	a, err := openApp(ctx, 0, 0)
	if err != nil {
		return err
	}
	defer a.close()

	if err := a.progress.Reset(ctx); err != nil {
		return err
	}
	if resetAll {
		for _, key := range []string{store.KeySettings, store.KeyChallenge} {
			if err := a.kv.Delete(ctx, key); err != nil {
				return fmt.Errorf("failed to delete %s: %w", key, err)
			}
		}
	}
	_, err = fmt.Fprintln(cmd.OutOrStdout(), "Progress reset.")
	return err
}

// confirm asks prompt on w and reports whether the answer read from r is yes.
func confirm(r io.Reader, w io.Writer, prompt string) (bool, error) {
	if _, err := fmt.Fprint(w, prompt); err != nil {
		return false, fmt.Errorf("failed to write prompt: %w", err)
	}
	line, err := bufio.NewReader(r).ReadString('\n')
	if err != nil && err != io.EOF {
		return false, fmt.Errorf("failed to read answer: %w", err)
	}
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true, nil
	default:
		return false, nil
	}
}

func newLoginCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Store the access token from the hosted sign-in page",
		Args:  cobra.NoArgs,
		RunE:  runLoginCmd,
	}
	cmd.Flags().StringVar(&loginToken, "token", "", "access token (read from stdin when empty)")
	return cmd
}

func runLoginCmd(cmd *cobra.Command, _ []string) error {
	fileCfg, envCfg, err := loadConfigs()
	if err != nil {
		return err
	}
	a := &app{fileCfg: fileCfg, envCfg: envCfg}
	token := strings.TrimSpace(loginToken)
	if token == "" {
		if url := a.providerURL(); url != "" {
			logErrf("Sign in at %s and paste the access token.\n", url)
		}
		line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
		if err != nil && err != io.EOF {
			return fmt.Errorf("failed to read token: %w", err)
		}
		token = strings.TrimSpace(line)
	}
	src := a.tokenSource()
	if err := src.Save(token); err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	if exp, ok := auth.Expiry(token); ok {
		_, err = fmt.Fprintf(out, "Signed in until %s.\n", exp.Local().Format("2006-01-02 15:04"))
		return err
	}
	_, err = fmt.Fprintln(out, "Signed in.")
	return err
}

func newLogoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Remove the stored access token",
		Args:  cobra.NoArgs,
		RunE:  runLogoutCmd,
	}
}

func runLogoutCmd(cmd *cobra.Command, _ []string) error {
	fileCfg, envCfg, err := loadConfigs()
	if err != nil {
		return err
	}
	a := &app{fileCfg: fileCfg, envCfg: envCfg}
	if err := a.tokenSource().Clear(); err != nil {
		return err
	}
	if envCfg.AuthToken != "" {
		logErrln("FOCUSPLAY_AUTH_TOKEN is still set and keeps the session present.")
	}
	_, err = fmt.Fprintln(cmd.OutOrStdout(), "Signed out.")
	return err
}

func newConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Create/open config file",
		Args:  cobra.NoArgs,
		RunE:  runConfigCmd,
	}
}

func runConfigCmd(_ *cobra.Command, _ []string) error {
	path := config.DefaultConfigPath()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if _, err := os.Stat(path); err != nil {
		if !os.IsNotExist(err) {
			return fmt.Errorf("failed to stat config: %w", err)
		}
		if err := os.WriteFile(path, []byte(defaultConfigTemplate()), 0o644); err != nil {
			return fmt.Errorf("failed to write config: %w", err)
		}
	}

	editor := strings.TrimSpace(os.Getenv("EDITOR"))
	if editor == "" {
		editor = "vi"
	}
	parts := strings.Fields(editor)
	if len(parts) == 0 {
		return fmt.Errorf("editor command is empty")
	}
	cmd := exec.Command(parts[0], append(parts[1:], path)...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("failed to open editor: %w", err)
	}
	return nil
}

func defaultConfigTemplate() string {
	return fmt.Sprintf(`# focusplay configuration
# Uncomment a value to enable it. CLI flags override config values.

[play]
# seed = 0                # Random seed (0 = time based)
# history-limit = 0       # Keep at most N sessions (0 = unbounded)
# time-limit = false      # End games after the session duration setting

[auth]
# required = false        # Require a hosted sign-in session before playing
# provider-url = ""       # Hosted sign-in page shown on the sign-in screen
# token-path = %q
`, config.DefaultTokenPath())
}

func newDataCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "data",
		Short: "List stored data blobs",
		Args:  cobra.NoArgs,
		RunE:  runDataCmd,
	}
}

func runDataCmd(cmd *cobra.Command, _ []string) error {
	if globalMemory {
		return fmt.Errorf("--memory has no stored data")
	}
	a, err := openApp(context.Background(), 0, 0)
	if err != nil {
		return err
	}
	defer a.close()

	entries, err := a.db.List(context.Background())
	if err != nil {
		return fmt.Errorf("failed to list data: %w", err)
	}
	return writeEntries(cmd.OutOrStdout(), entries)
}

func writeEntries(w io.Writer, entries []store.Entry) error {
	if len(entries) == 0 {
		_, err := fmt.Fprintln(w, "No data stored.")
		return err
	}
	for _, e := range entries {
		line := fmt.Sprintf("%-22s %6d B  %s", e.Key, e.Size, e.UpdatedAt.Local().Format("2006-01-02 15:04:05"))
		if _, err := fmt.Fprintln(w, line); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
	}
	return nil
}
