// Package main provides the CLI entrypoint for typing.
package main

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/ahmed-okal1/typing/internal/config"
	"github.com/ahmed-okal1/typing/internal/model"
	"github.com/ahmed-okal1/typing/internal/stats"
	"github.com/ahmed-okal1/typing/internal/statsui"
	"github.com/ahmed-okal1/typing/internal/store"
	"github.com/ahmed-okal1/typing/internal/texts"
	"github.com/ahmed-okal1/typing/internal/tui"
)

const (
	defaultLang        = "en"
	defaultDifficulty  = "beginner"
	defaultUsername    = "player"
	defaultCurveWindow = 20
)

var (
	practiceLang       string
	practiceDifficulty string
	practiceUsername   string

	statsLang        string
	statsSince       string
	statsLast        int
	statsCurveWindow int
	statsPlain       bool

	textsLang       string
	textsDifficulty string

	profileUsername string
	profileLang     string
)

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "typing",
		Short:         "TUI typing speed trainer",
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE:          runPracticeCmd,
	}

	rootCmd.Flags().StringVar(&practiceLang, "lang", defaultLang, "language code (en, ar)")
	rootCmd.Flags().StringVar(&practiceDifficulty, "difficulty", defaultDifficulty, "difficulty level (beginner, intermediate, advanced)")
	rootCmd.Flags().StringVar(&practiceUsername, "user", defaultUsername, "profile name")

	rootCmd.AddCommand(newConfigCmd())
	rootCmd.AddCommand(newStatsCmd())
	rootCmd.AddCommand(newTextsCmd())
	rootCmd.AddCommand(newProfileCmd())

	return rootCmd
}

func runPracticeCmd(cmd *cobra.Command, _ []string) error {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	applyStringConfig(cmd, "lang", &practiceLang, fileCfg.Practice.Lang)
	applyStringConfig(cmd, "difficulty", &practiceDifficulty, fileCfg.Practice.Difficulty)
	applyStringConfig(cmd, "user", &practiceUsername, fileCfg.Practice.Username)

	lang, err := texts.NormalizeLang(practiceLang)
	if err != nil {
		return err
	}
	difficulty, err := texts.NormalizeDifficulty(practiceDifficulty)
	if err != nil {
		return err
	}
	username := strings.TrimSpace(practiceUsername)
	if username == "" {
		return fmt.Errorf("--user must not be empty")
	}

	cfg := model.Config{
		Lang:       lang,
		Difficulty: difficulty,
		Username:   username,
	}

	st, err := store.Open(config.DefaultDBPath())
	if err != nil {
		return fmt.Errorf("failed to open db: %w", err)
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			logErrf("failed to close db: %v\n", cerr)
		}
	}()

	if _, err := st.EnsureUser(context.Background(), cfg.Username, cfg.Lang); err != nil {
		return fmt.Errorf("failed to load profile: %w", err)
	}

	library := texts.NewLibrary(config.DefaultTextsDir())
	candidates, err := library.List(cfg.Lang, cfg.Difficulty)
	if err != nil {
		return fmt.Errorf("failed to load texts: %w", err)
	}
	picker := texts.NewPicker()
	first, err := picker.Pick(candidates)
	if err != nil {
		return fmt.Errorf("failed to pick text: %w", err)
	}

	uiModel, err := tui.NewModel(cfg, st, library, picker, first)
	if err != nil {
		return err
	}
	program := tea.NewProgram(uiModel, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run TUI: %w", err)
	}
	return nil
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

func newStatsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show stats",
		Args:  cobra.NoArgs,
		RunE:  runStatsCmd,
	}
	cmd.Flags().StringVar(&statsLang, "lang", "", "language filter")
	cmd.Flags().StringVar(&statsSince, "since", "", "start date (YYYY-MM-DD)")
	cmd.Flags().IntVar(&statsLast, "last", 0, "limit to last N tests")
	cmd.Flags().IntVar(&statsCurveWindow, "window", defaultCurveWindow, "moving average window")
	cmd.Flags().BoolVar(&statsPlain, "plain", false, "print a plain-text report instead of the TUI")
	return cmd
}

func runStatsCmd(_ *cobra.Command, _ []string) error {
	lang := ""
	if strings.TrimSpace(statsLang) != "" {
		normalized, err := texts.NormalizeLang(statsLang)
		if err != nil {
			return err
		}
		lang = normalized
	}

	var sinceTime *time.Time
	if statsSince != "" {
		parsed, err := time.ParseInLocation("2006-01-02", statsSince, time.Local)
		if err != nil {
			return fmt.Errorf("invalid --since value: %w", err)
		}
		sinceTime = &parsed
	}
	if statsLast < 0 {
		return fmt.Errorf("--last must be >= 0")
	}
	if statsCurveWindow <= 0 {
		return fmt.Errorf("--window must be > 0")
	}

	cfg := model.StatsConfig{
		Lang:        lang,
		Since:       sinceTime,
		Last:        statsLast,
		CurveWindow: statsCurveWindow,
	}

	st, err := store.Open(config.DefaultDBPath())
	if err != nil {
		return fmt.Errorf("failed to open db: %w", err)
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			logErrf("failed to close db: %v\n", cerr)
		}
	}()

	if statsPlain {
		report, err := stats.BuildReport(context.Background(), st, cfg)
		if err != nil {
			return fmt.Errorf("failed to build report: %w", err)
		}
		return stats.RenderReport(os.Stdout, report, cfg.CurveWindow)
	}

	uiModel := statsui.NewModel(st, cfg)
	program := tea.NewProgram(uiModel, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run stats TUI: %w", err)
	}
	return nil
}

func newTextsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "texts",
		Short: "Manage practice texts",
	}
	cmd.PersistentFlags().StringVar(&textsLang, "lang", defaultLang, "language code (en, ar)")
	cmd.PersistentFlags().StringVar(&textsDifficulty, "difficulty", defaultDifficulty, "difficulty level")

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List texts for a language and difficulty",
		Args:  cobra.NoArgs,
		RunE:  runTextsListCmd,
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "add <text>",
		Short: "Add a custom text",
		Args:  cobra.MinimumNArgs(1),
		RunE:  runTextsAddCmd,
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "remove <id>",
		Short: "Remove a custom text by id",
		Args:  cobra.ExactArgs(1),
		RunE:  runTextsRemoveCmd,
	})
	return cmd
}

func normalizedTextsScope() (lang, difficulty string, err error) {
	lang, err = texts.NormalizeLang(textsLang)
	if err != nil {
		return "", "", err
	}
	difficulty, err = texts.NormalizeDifficulty(textsDifficulty)
	if err != nil {
		return "", "", err
	}
	return lang, difficulty, nil
}

func runTextsListCmd(cmd *cobra.Command, _ []string) error {
	lang, difficulty, err := normalizedTextsScope()
	if err != nil {
		return err
	}
	library := texts.NewLibrary(config.DefaultTextsDir())
	list, err := library.List(lang, difficulty)
	if err != nil {
		return fmt.Errorf("failed to load texts: %w", err)
	}
	for _, t := range list {
		marker := " "
		if t.Custom {
			marker = "*"
		}
		if _, err := fmt.Fprintf(cmd.OutOrStdout(), "%s %-12s %s\n", marker, t.ID, t.Text); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
	}
	return nil
}

func runTextsAddCmd(cmd *cobra.Command, args []string) error {
	lang, difficulty, err := normalizedTextsScope()
	if err != nil {
		return err
	}
	library := texts.NewLibrary(config.DefaultTextsDir())
	added, err := library.Add(lang, difficulty, strings.Join(args, " "))
	if err != nil {
		return err
	}
	if _, err := fmt.Fprintf(cmd.OutOrStdout(), "Added %s\n", added.ID); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func runTextsRemoveCmd(cmd *cobra.Command, args []string) error {
	lang, difficulty, err := normalizedTextsScope()
	if err != nil {
		return err
	}
	library := texts.NewLibrary(config.DefaultTextsDir())
	if err := library.Remove(lang, difficulty, args[0]); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(cmd.OutOrStdout(), "Removed %s\n", args[0]); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func newProfileCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "profile",
		Short: "Show or update the practice profile",
		Args:  cobra.NoArgs,
		RunE:  runProfileCmd,
	}
	cmd.Flags().StringVar(&profileUsername, "name", "", "new profile name")
	cmd.Flags().StringVar(&profileLang, "lang", "", "new default language")
	return cmd
}

func runProfileCmd(cmd *cobra.Command, _ []string) error {
	st, err := store.Open(config.DefaultDBPath())
	if err != nil {
		return fmt.Errorf("failed to open db: %w", err)
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			logErrf("failed to close db: %v\n", cerr)
		}
	}()

	ctx := context.Background()
	user, err := st.GetUser(ctx)
	if err != nil {
		return fmt.Errorf("failed to load profile: %w", err)
	}
	if user == nil {
		return fmt.Errorf("no profile exists yet; run a practice session first")
	}

	if cmd.Flags().Changed("name") || cmd.Flags().Changed("lang") {
		username := user.Username
		if cmd.Flags().Changed("name") {
			username = strings.TrimSpace(profileUsername)
			if username == "" {
				return fmt.Errorf("--name must not be empty")
			}
		}
		lang := user.Lang
		if cmd.Flags().Changed("lang") {
			lang, err = texts.NormalizeLang(profileLang)
			if err != nil {
				return err
			}
		}
		if err := st.UpdateUser(ctx, username, lang); err != nil {
			return fmt.Errorf("failed to update profile: %w", err)
		}
		user, err = st.GetUser(ctx)
		if err != nil {
			return fmt.Errorf("failed to reload profile: %w", err)
		}
	}

	out := cmd.OutOrStdout()
	lines := []string{
		fmt.Sprintf("Name:        %s", user.Username),
		fmt.Sprintf("Language:    %s", user.Lang),
		fmt.Sprintf("Level:       %d", user.Level),
		fmt.Sprintf("Total tests: %d", user.TotalTests),
		fmt.Sprintf("Since:       %s", user.CreatedAt.Local().Format("2006-01-02")),
	}
	for _, line := range lines {
		if _, err := fmt.Fprintln(out, line); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
	}
	return nil
}

func applyStringConfig(cmd *cobra.Command, name string, target, value *string) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func defaultConfigTemplate() string {
	return fmt.Sprintf(`# typing configuration
# Uncomment a value to enable it. CLI flags override config values.

[practice]
# lang = %q            # Language code (en, ar)
# difficulty = %q # Difficulty level (beginner, intermediate, advanced)
# username = %q    # Profile name
`,
		defaultLang,
		defaultDifficulty,
		defaultUsername,
	)
}

func logErrf(format string, args ...any) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}
