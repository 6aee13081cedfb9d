package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/joho/godotenv"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/verte-zerg/flowtype/internal/config"
	"github.com/verte-zerg/flowtype/internal/customtext"
	"github.com/verte-zerg/flowtype/internal/generator"
	"github.com/verte-zerg/flowtype/internal/model"
	"github.com/verte-zerg/flowtype/internal/practice"
	"github.com/verte-zerg/flowtype/internal/server"
	"github.com/verte-zerg/flowtype/internal/stats"
	"github.com/verte-zerg/flowtype/internal/statsui"
	"github.com/verte-zerg/flowtype/internal/store"
	"github.com/verte-zerg/flowtype/internal/wordbank"
)

const (
	defaultCurveWindow = 20
	defaultServeAddr   = server.DefaultAddr
)

var (
	generateMode       string
	generateCount      int
	generateCustomText string
	generateCustomFile string
	generateLimit      int

	statsUser        string
	statsMode        string
	statsSince       string
	statsLast        int
	statsCurveWindow int
	statsPlain       bool

	exportFormat string
	exportUser   string
	exportMode   string
	exportSince  string
	exportOut    string

	serveAddr string
	serveDB   string
)

func newGenerateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Print generated practice text",
		Args:  cobra.NoArgs,
		RunE:  runGenerateCmd,
	}
	cmd.Flags().StringVar(&generateMode, "mode", defaultMode, "text mode: "+modeList())
	cmd.Flags().IntVar(&generateCount, "count", practice.DefaultWords, "target word count")
	cmd.Flags().StringVar(&generateCustomText, "custom-text", "", "text for custom mode")
	cmd.Flags().StringVar(&generateCustomFile, "custom-file", "", "text or Markdown file for custom mode")
	cmd.Flags().IntVar(&generateLimit, "limit", 0, "print at most N words (0: all)")
	return cmd
}

func runGenerateCmd(cmd *cobra.Command, _ []string) error {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	log, err := newLogger(cmd, fileCfg)
	if err != nil {
		return err
	}
	if !model.Known(generateMode) {
		return fmt.Errorf("--mode must be one of %s", modeList())
	}
	if generateCount < 0 || generateLimit < 0 {
		return fmt.Errorf("--count and --limit must be >= 0")
	}
	if generateCount > generator.MaxTargetCount {
		return fmt.Errorf("--count must be <= %d", generator.MaxTargetCount)
	}
	custom, err := customtext.Resolve(generateCustomText, generateCustomFile)
	if err != nil {
		return err
	}
	gen, err := loadGenerator(resolveWordBankPath(cmd, fileCfg), log)
	if err != nil {
		return err
	}
	text := gen.Generate(model.GenerationRequest{
		Mode:        model.ParseMode(generateMode),
		TargetCount: generateCount,
		CustomText:  custom,
	})
	if generateLimit > 0 {
		text = generator.TakeWords(text, generateLimit)
	}
	if _, err := fmt.Fprintln(cmd.OutOrStdout(), text); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
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
	cmd.Flags().StringVar(&statsUser, "user", "", "user filter")
	cmd.Flags().StringVar(&statsMode, "mode", "", "mode filter")
	cmd.Flags().StringVar(&statsSince, "since", "", "start date (YYYY-MM-DD)")
	cmd.Flags().IntVar(&statsLast, "last", 0, "limit to last N results")
	cmd.Flags().IntVar(&statsCurveWindow, "curve-window", defaultCurveWindow, "moving average window")
	cmd.Flags().BoolVar(&statsPlain, "plain", false, "print a text report instead of the stats UI")
	return cmd
}

func runStatsCmd(cmd *cobra.Command, _ []string) error {
	cfg, err := statsConfig(statsUser, statsMode, statsSince, statsLast)
	if err != nil {
		return err
	}
	if statsCurveWindow < 1 {
		return fmt.Errorf("--curve-window must be >= 1")
	}
	cfg.CurveWindow = statsCurveWindow

	st, err := store.Open(config.DefaultDBPath())
	if err != nil {
		return fmt.Errorf("failed to open db: %w", err)
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			logErrf("failed to close db: %v\n", cerr)
		}
	}()

	out := cmd.OutOrStdout()
	if statsPlain || !isTerminal(out) {
		report, err := stats.BuildReport(context.Background(), st, cfg)
		if err != nil {
			return fmt.Errorf("failed to build report: %w", err)
		}
		return report.Render(out, cfg.CurveWindow, 0, false)
	}

	m := statsui.NewModel(st, cfg)
	program := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run stats TUI: %w", err)
	}
	return nil
}

func newExportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export stored results as JSON or YAML",
		Args:  cobra.NoArgs,
		RunE:  runExportCmd,
	}
	cmd.Flags().StringVar(&exportFormat, "format", "json", "output format: json or yaml")
	cmd.Flags().StringVar(&exportUser, "user", "", "user filter")
	cmd.Flags().StringVar(&exportMode, "mode", "", "mode filter")
	cmd.Flags().StringVar(&exportSince, "since", "", "start date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&exportOut, "out", "", "output file (default: stdout)")
	return cmd
}

func runExportCmd(cmd *cobra.Command, _ []string) (err error) {
	format := strings.ToLower(strings.TrimSpace(exportFormat))
	if format != "json" && format != "yaml" {
		return fmt.Errorf("--format must be json or yaml")
	}
	cfg, err := statsConfig(exportUser, exportMode, exportSince, 0)
	if err != nil {
		return err
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
	records, err := st.ListResults(context.Background(), cfg)
	if err != nil {
		return fmt.Errorf("failed to list results: %w", err)
	}

	out := cmd.OutOrStdout()
	if exportOut != "" {
		f, ferr := os.Create(exportOut)
		if ferr != nil {
			return fmt.Errorf("failed to create %s: %w", exportOut, ferr)
		}
		defer func() {
			if cerr := f.Close(); cerr != nil && err == nil {
				err = fmt.Errorf("failed to close %s: %w", exportOut, cerr)
			}
		}()
		out = f
	}
	return writeExport(out, format, records)
}

func writeExport(w io.Writer, format string, records []model.ResultRecord) error {
	if records == nil {
		records = []model.ResultRecord{}
	}
	switch format {
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(records); err != nil {
			return fmt.Errorf("failed to encode yaml: %w", err)
		}
		if err := enc.Close(); err != nil {
			return fmt.Errorf("failed to encode yaml: %w", err)
		}
		return nil
	default:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(records); err != nil {
			return fmt.Errorf("failed to encode json: %w", err)
		}
		return nil
	}
}

func newWordBankCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "wordbank",
		Short: "Manage the word bank",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "import <file>",
		Short: "Validate a word list and install it as the word bank",
		Args:  cobra.ExactArgs(1),
		RunE:  runWordBankImportCmd,
	})
	return cmd
}

func runWordBankImportCmd(cmd *cobra.Command, args []string) error {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	dst := resolveWordBankPath(cmd, fileCfg)
	n, err := wordbank.Import(args[0], dst)
	if err != nil {
		return err
	}
	if _, err := fmt.Fprintf(cmd.OutOrStdout(), "Imported %d words into %s\n", n, dst); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the REST/WebSocket service",
		Args:  cobra.NoArgs,
		RunE:  runServeCmd,
	}
	cmd.Flags().StringVar(&serveAddr, "addr", defaultServeAddr, "listen address (env FLOWTYPE_ADDR)")
	cmd.Flags().StringVar(&serveDB, "db", "", "SQLite database path (env FLOWTYPE_DB)")
	return cmd
}

func runServeCmd(cmd *cobra.Command, _ []string) error {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to load .env: %w", err)
	}
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	log, err := newLogger(cmd, fileCfg)
	if err != nil {
		return err
	}

	addr := serveAddr
	applyConfig(cmd, "addr", &addr, fileCfg.Server.Addr)
	applyEnv(cmd, "addr", &addr, "FLOWTYPE_ADDR")
	dbPath := serveDB
	applyEnv(cmd, "db", &dbPath, "FLOWTYPE_DB")
	if dbPath == "" {
		dbPath = config.DefaultDBPath()
	}

	gen, err := loadGenerator(resolveWordBankPath(cmd, fileCfg), log)
	if err != nil {
		return err
	}
	st, err := store.Open(dbPath)
	if err != nil {
		return fmt.Errorf("failed to open db: %w", err)
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			log.Errorf("failed to close db: %v", cerr)
		}
	}()
	log.Infof("using db %s", dbPath)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return server.New(st, gen, server.WithLogger(log)).ListenAndServe(ctx, addr)
}

// applyEnv copies a non-empty environment variable into target unless the flag was set.
func applyEnv(cmd *cobra.Command, name string, target *string, key string) {
	value, ok := os.LookupEnv(key)
	if !ok || value == "" {
		return
	}
	applyConfig(cmd, name, target, &value)
}

func statsConfig(user, mode, since string, last int) (model.StatsConfig, error) {
	cfg := model.StatsConfig{User: user, Last: last}
	if mode != "" {
		if !model.Known(mode) {
			return cfg, fmt.Errorf("--mode must be one of %s", modeList())
		}
		cfg.Mode = string(model.ParseMode(mode))
	}
	if since != "" {
		parsed, err := time.ParseInLocation("2006-01-02", since, time.Local)
		if err != nil {
			return cfg, fmt.Errorf("invalid --since value: %w", err)
		}
		cfg.Since = &parsed
	}
	if last < 0 {
		return cfg, fmt.Errorf("--last must be >= 0")
	}
	return cfg, nil
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && isatty.IsTerminal(f.Fd())
}
