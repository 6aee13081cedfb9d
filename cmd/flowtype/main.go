// Package main provides the CLI entrypoint for flowtype.
package main

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/verte-zerg/flowtype/internal/config"
	"github.com/verte-zerg/flowtype/internal/customtext"
	"github.com/verte-zerg/flowtype/internal/generator"
	"github.com/verte-zerg/flowtype/internal/logger"
	"github.com/verte-zerg/flowtype/internal/model"
	"github.com/verte-zerg/flowtype/internal/practice"
	"github.com/verte-zerg/flowtype/internal/store"
	"github.com/verte-zerg/flowtype/internal/tui"
	"github.com/verte-zerg/flowtype/internal/wordbank"
)

const (
	defaultMode     = string(model.ModeTime)
	defaultLogLevel = "info"
)

var (
	practiceMode       string
	practiceTime       int
	practiceWords      int
	practiceCustomText string
	practiceCustomFile string
	practiceUser       string
	practiceWordBank   string

	logLevel string
)

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "flowtype",
		Short:         "Typing test with flow-optimized text",
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE:          runPracticeCmd,
	}

	rootCmd.Flags().StringVar(&practiceMode, "mode", defaultMode, "test mode: "+modeList())
	rootCmd.Flags().IntVar(&practiceTime, "time", practice.DefaultTimeSeconds, "seconds for time-bounded modes")
	rootCmd.Flags().IntVar(&practiceWords, "words", practice.DefaultWords, "words for length-bounded modes")
	rootCmd.Flags().StringVar(&practiceCustomText, "custom-text", "", "text for custom mode")
	rootCmd.Flags().StringVar(&practiceCustomFile, "custom-file", "", "text or Markdown file for custom mode")
	rootCmd.Flags().StringVar(&practiceUser, "user", "", "user name results are stored under")
	rootCmd.PersistentFlags().StringVar(&practiceWordBank, "wordbank", "", "word list file (default: config dir words.txt)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", defaultLogLevel, "log level: trace, debug, info, warn, error")

	rootCmd.AddCommand(newConfigCmd())
	rootCmd.AddCommand(newGenerateCmd())
	rootCmd.AddCommand(newStatsCmd())
	rootCmd.AddCommand(newExportCmd())
	rootCmd.AddCommand(newWordBankCmd())
	rootCmd.AddCommand(newServeCmd())

	return rootCmd
}

func runPracticeCmd(cmd *cobra.Command, _ []string) error {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	applyConfig(cmd, "mode", &practiceMode, fileCfg.Practice.Mode)
	applyConfig(cmd, "time", &practiceTime, fileCfg.Practice.Time)
	applyConfig(cmd, "words", &practiceWords, fileCfg.Practice.Words)
	applyConfig(cmd, "custom-text", &practiceCustomText, fileCfg.Practice.CustomText)
	applyConfig(cmd, "custom-file", &practiceCustomFile, fileCfg.Practice.CustomFile)
	applyConfig(cmd, "user", &practiceUser, fileCfg.Practice.User)
	log, err := newLogger(cmd, fileCfg)
	if err != nil {
		return err
	}

	custom, err := customtext.Resolve(practiceCustomText, practiceCustomFile)
	if err != nil {
		return err
	}
	cfg := model.Config{
		Mode:         model.Mode(practiceMode),
		TimeSeconds:  practiceTime,
		Words:        practiceWords,
		CustomText:   custom,
		User:         practiceUser,
		WordBankPath: resolveWordBankPath(cmd, fileCfg),
	}
	if err := validateConfig(cfg); err != nil {
		return err
	}
	if cfg.Mode == model.ModeCustom && custom == "" {
		log.Warnf("custom mode without --custom-text or --custom-file; using the fallback sentence")
	}

	gen, err := loadGenerator(cfg.WordBankPath, log)
	if err != nil {
		return err
	}
	st, err := store.Open(config.DefaultDBPath())
	if err != nil {
		return fmt.Errorf("failed to open db: %w", err)
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			log.Errorf("failed to close db: %v", cerr)
		}
	}()

	m := tui.NewModel(cfg, tui.Options{Store: st, Generator: gen, Log: log})
	program := tea.NewProgram(m, tea.WithAltScreen())
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
	cmd := exec.Command(parts[0], append(parts[1:], path)...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("failed to open editor: %w", err)
	}
	return nil
}

// applyConfig copies a config file value into target unless the flag was set on the command line.
func applyConfig[T any](cmd *cobra.Command, name string, target, value *T) {
	if value == nil {
		return
	}
	if f := cmd.Flag(name); f != nil && f.Changed {
		return
	}
	*target = *value
}

func newLogger(cmd *cobra.Command, fileCfg config.FileConfig) (*logger.Logger, error) {
	level := logLevel
	applyConfig(cmd, "log-level", &level, fileCfg.Log.Level)
	lvl, ok := logger.ParseLevel(level)
	if !ok {
		return nil, fmt.Errorf("--log-level must be one of trace, debug, info, warn, error")
	}
	return logger.New(os.Stderr, lvl), nil
}

func resolveWordBankPath(cmd *cobra.Command, fileCfg config.FileConfig) string {
	path := practiceWordBank
	applyConfig(cmd, "wordbank", &path, fileCfg.Practice.WordBank)
	if path == "" {
		path = config.DefaultWordBankPath()
	}
	return path
}

func loadGenerator(path string, log *logger.Logger) (*generator.Generator, error) {
	bank, err := wordbank.LoadOrDefault(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load word bank: %w", err)
	}
	log.Debugf("word bank %s: %d words", path, bank.Size())
	return generator.New(bank), nil
}

func validateConfig(cfg model.Config) error {
	if !model.Known(string(cfg.Mode)) {
		return fmt.Errorf("--mode must be one of %s", modeList())
	}
	if cfg.TimeSeconds <= 0 {
		return fmt.Errorf("--time must be > 0")
	}
	if cfg.Words <= 0 {
		return fmt.Errorf("--words must be > 0")
	}
	if cfg.Words > generator.MaxTargetCount {
		return fmt.Errorf("--words must be <= %d", generator.MaxTargetCount)
	}
	return nil
}

func modeList() string {
	names := make([]string, len(model.Modes))
	for i, m := range model.Modes {
		names[i] = string(m)
	}
	return strings.Join(names, ", ")
}

func defaultConfigTemplate() string {
	return fmt.Sprintf(`# flowtype configuration
# Uncomment a value to enable it. CLI flags override config values.

[practice]
# mode = %q            # %s
# time = %d                # Seconds for time, punctuation and numbers modes
# words = %d               # Words for words and quote modes
# custom-text = ""         # Text for custom mode
# custom-file = ""         # Text or Markdown file for custom mode
# user = ""                # User name results are stored under
# wordbank = %q

[server]
# addr = %q

[log]
# level = %q
`,
		defaultMode,
		modeList(),
		practice.DefaultTimeSeconds,
		practice.DefaultWords,
		config.DefaultWordBankPath(),
		defaultServeAddr,
		defaultLogLevel,
	)
}

func logErrf(format string, args ...any) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}
