// Package main provides the CLI entrypoint for datafolio.
package main

import (
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/muesli/reflow/wordwrap"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/verte-zerg/datafolio/internal/config"
	"github.com/verte-zerg/datafolio/internal/content"
	"github.com/verte-zerg/datafolio/internal/genai"
	"github.com/verte-zerg/datafolio/internal/history"
	"github.com/verte-zerg/datafolio/internal/model"
	"github.com/verte-zerg/datafolio/internal/rain"
	"github.com/verte-zerg/datafolio/internal/refine"
	"github.com/verte-zerg/datafolio/internal/store"
	"github.com/verte-zerg/datafolio/internal/tui"
	"github.com/verte-zerg/datafolio/internal/view"
)

const (
	defaultColumnWidth = rain.DefaultColumnWidth
	defaultHistoryLast = 20
	defaultOutputWidth = 80
	apiKeyEnv          = "GEMINI_API_KEY"
)

var (
	pageContent     string
	pageCaption     string
	pageRain        bool
	pageColumnWidth int
	logFile         string

	genEndpoint string
	genAPIKey   string
	genTimeout  string
	noHistory   bool

	historyLast int
)

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "datafolio",
		Short:         "Animated terminal portfolio",
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE:          runPortfolioCmd,
	}

	rootCmd.Flags().StringVar(&pageContent, "content", "", "YAML portfolio file (default: built-in)")
	rootCmd.Flags().StringVar(&pageCaption, "caption", "", "intro caption (overrides the portfolio)")
	rootCmd.Flags().BoolVar(&pageRain, "rain", true, "animate the background")
	rootCmd.Flags().IntVar(&pageColumnWidth, "column-width", defaultColumnWidth, "background column spacing in cells")
	rootCmd.Flags().StringVar(&logFile, "log-file", "", "write diagnostics to this file")

	rootCmd.PersistentFlags().StringVar(&genEndpoint, "endpoint", genai.DefaultEndpoint, "generateContent endpoint")
	rootCmd.PersistentFlags().StringVar(&genAPIKey, "api-key", "", "generator API key (default: $"+apiKeyEnv+")")
	rootCmd.PersistentFlags().StringVar(&genTimeout, "timeout", "", "request timeout, e.g. 30s (default: none)")
	rootCmd.PersistentFlags().BoolVar(&noHistory, "no-history", false, "do not record refinements")

	rootCmd.AddCommand(newConfigCmd())
	rootCmd.AddCommand(newRefineCmd())
	rootCmd.AddCommand(newHistoryCmd())

	return rootCmd
}

// resolveConfig merges the config file under the flags. Flags the user set
// win over file values.
func resolveConfig(cmd *cobra.Command) (model.Config, error) {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return model.Config{}, fmt.Errorf("failed to load config: %w", err)
	}
	applyStringConfig(cmd, "content", &pageContent, fileCfg.Page.Content)
	applyStringConfig(cmd, "caption", &pageCaption, fileCfg.Page.Caption)
	applyBoolConfig(cmd, "rain", &pageRain, fileCfg.Page.Rain)
	applyIntConfig(cmd, "column-width", &pageColumnWidth, fileCfg.Page.ColumnWidth)
	applyStringConfig(cmd, "endpoint", &genEndpoint, fileCfg.Generator.Endpoint)
	applyStringConfig(cmd, "api-key", &genAPIKey, fileCfg.Generator.APIKey)
	applyStringConfig(cmd, "timeout", &genTimeout, fileCfg.Generator.Timeout)

	historyEnabled := !noHistory
	if fileCfg.History.Enabled != nil && !cmd.Flags().Changed("no-history") {
		historyEnabled = *fileCfg.History.Enabled
	}

	timeout, err := parseTimeout(genTimeout)
	if err != nil {
		return model.Config{}, err
	}
	apiKey := strings.TrimSpace(genAPIKey)
	if apiKey == "" {
		apiKey = strings.TrimSpace(os.Getenv(apiKeyEnv))
	}

	cfg := model.Config{
		ContentPath:    pageContent,
		Caption:        pageCaption,
		Rain:           pageRain,
		ColumnWidth:    pageColumnWidth,
		Endpoint:       strings.TrimSpace(genEndpoint),
		APIKey:         apiKey,
		Timeout:        timeout,
		HistoryEnabled: historyEnabled,
		LogFile:        logFile,
	}
	if err := validateConfig(cfg); err != nil {
		return model.Config{}, err
	}
	return cfg, nil
}

func parseTimeout(value string) (time.Duration, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("invalid --timeout value: %w", err)
	}
	return d, nil
}

func runPortfolioCmd(cmd *cobra.Command, _ []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	portfolio, err := content.Load(cfg.ContentPath)
	if err != nil {
		return fmt.Errorf("failed to load portfolio: %w", err)
	}
	if cfg.Caption != "" {
		portfolio.Caption = cfg.Caption
	}

	logger := log.New(io.Discard, "", 0)
	if cfg.LogFile != "" {
		f, err := tea.LogToFile(cfg.LogFile, "datafolio")
		if err != nil {
			return fmt.Errorf("failed to open log file: %w", err)
		}
		defer func() {
			if cerr := f.Close(); cerr != nil {
				// Best-effort close of the diagnostic log.
				_ = cerr
			}
		}()
		logger = log.Default()
	}

	opts := tui.Options{
		Caption:     portfolio.Caption,
		Sections:    portfolio.Sections,
		Rain:        cfg.Rain,
		ColumnWidth: cfg.ColumnWidth,
		Generator:   newGenerator(cfg),
		Logger:      logger,
	}
	if st := openHistory(cfg); st != nil {
		defer closeStore(st)
		opts.Recorder = st
	}

	program := tea.NewProgram(tui.NewModel(opts), tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run TUI: %w", err)
	}
	return nil
}

func newGenerator(cfg model.Config) *genai.Client {
	return genai.New(genai.Config{
		Endpoint: cfg.Endpoint,
		APIKey:   cfg.APIKey,
		Timeout:  cfg.Timeout,
	})
}

// openHistory returns nil when history is disabled or the database cannot be
// opened; refinement works without it.
func openHistory(cfg model.Config) *store.Store {
	if !cfg.HistoryEnabled {
		return nil
	}
	st, err := store.Open(config.DefaultDBPath())
	if err != nil {
		logErrf("history disabled: failed to open db: %v\n", err)
		return nil
	}
	return st
}

func closeStore(st *store.Store) {
	if cerr := st.Close(); cerr != nil {
		logErrf("failed to close db: %v\n", cerr)
	}
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

func newRefineCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "refine [draft]",
		Short: "Refine a bio draft without the TUI",
		Long:  "Refine a bio draft once. The draft is read from the arguments, or from stdin when none are given.",
		RunE:  runRefineCmd,
	}
}

func runRefineCmd(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	draft, err := readDraft(cmd.InOrStdin(), args, stdinIsTerminal())
	if err != nil {
		return err
	}

	var opts []refine.Option
	opts = append(opts, refine.WithLogger(log.New(cmd.ErrOrStderr(), "", 0)))
	if st := openHistory(cfg); st != nil {
		defer closeStore(st)
		opts = append(opts, refine.WithRecorder(st))
	}

	doc := view.NewDocument("", nil)
	r := refine.New(doc, newGenerator(cfg), opts...)
	outcome, _ := r.Submit(cmd.Context(), draft)
	text := wordwrap.String(doc.ByID(view.GeneratedOutput).Text, outputWidth())
	if outcome != model.OutcomeRefined {
		logErrln(text)
		cmd.SilenceErrors = true
		return errRefineFailed
	}
	if _, err := fmt.Fprintln(cmd.OutOrStdout(), text); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

var errRefineFailed = errors.New("refinement failed")

// readDraft joins args into the draft. Without args it reads in, unless in is
// an interactive terminal.
func readDraft(in io.Reader, args []string, interactive bool) (string, error) {
	if len(args) > 0 {
		return strings.Join(args, " "), nil
	}
	if interactive {
		return "", nil
	}
	data, err := io.ReadAll(in)
	if err != nil {
		return "", fmt.Errorf("failed to read draft: %w", err)
	}
	return string(data), nil
}

func stdinIsTerminal() bool {
	return term.IsTerminal(int(os.Stdin.Fd()))
}

func outputWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		return defaultOutputWidth
	}
	return width
}

func newHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recorded refinements",
		Args:  cobra.NoArgs,
		RunE:  runHistoryCmd,
	}
	cmd.Flags().IntVar(&historyLast, "last", defaultHistoryLast, "limit to last N refinements (0 for all)")
	return cmd
}

func runHistoryCmd(cmd *cobra.Command, _ []string) error {
	if historyLast < 0 {
		return fmt.Errorf("--last must be >= 0")
	}
	st, err := store.Open(config.DefaultDBPath())
	if err != nil {
		return fmt.Errorf("failed to open db: %w", err)
	}
	defer closeStore(st)

	records, err := st.ListRefinements(cmd.Context(), historyLast)
	if err != nil {
		return fmt.Errorf("failed to load history: %w", err)
	}
	if err := history.Render(cmd.OutOrStdout(), records, outputWidth()); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
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

func applyIntConfig(cmd *cobra.Command, name string, target, value *int) {
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

func defaultConfigTemplate() string {
	return fmt.Sprintf(`# datafolio configuration
# Uncomment a value to enable it. CLI flags override config values.

[page]
# content = ""            # YAML portfolio file (default: built-in)
# caption = ""            # Intro caption, overrides the portfolio
# rain = true             # Animate the background
# column-width = %d        # Background column spacing in cells

[generator]
# endpoint = %q
# api-key = ""            # Falls back to $%s
# timeout = ""            # Request timeout, e.g. "30s" (default: none)

[history]
# enabled = true          # Record refinements for "datafolio history"
`,
		defaultColumnWidth,
		genai.DefaultEndpoint,
		apiKeyEnv,
	)
}

func validateConfig(cfg model.Config) error {
	if cfg.ColumnWidth <= 0 {
		return fmt.Errorf("--column-width must be > 0")
	}
	if cfg.Timeout < 0 {
		return fmt.Errorf("--timeout must be >= 0")
	}
	if cfg.Endpoint == "" {
		return fmt.Errorf("--endpoint must not be empty")
	}
	return nil
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
