package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"idlint/internal/baseline"
	"idlint/internal/config"
	"idlint/internal/diag"
	"idlint/internal/diagfmt"
	"idlint/internal/driver"
	"idlint/internal/observ"
	"idlint/internal/trace"
	"idlint/internal/version"
)

func newCheckCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check [flags] [packages...]",
		Short: "Check identifier values in Go packages",
		Long: `Load the given package patterns (default ./...), collect //idlint:resolve
directives across the whole import graph and validate every string value bound
to a tagged parameter or struct field.`,
		RunE: runCheck,
	}
	cmd.Flags().String("format", "pretty", "output format (pretty|json|sarif|short)")
	cmd.Flags().Bool("with-notes", false, "include notes pointing at tagged parameters")
	cmd.Flags().Bool("tests", false, "also check _test.go files")
	cmd.Flags().Int("jobs", 0, "max parallel package workers (0=auto)")
	cmd.Flags().String("config", "", "config file (default: nearest idlint.toml or .idlint.yaml)")
	cmd.Flags().String("baseline", "", "suppress findings recorded in this baseline file")
	cmd.Flags().String("write-baseline", "", "record current findings into this baseline file and exit")
	cmd.Flags().String("ui", "auto", "progress UI (auto|on|off)")
	cmd.Flags().Bool("fullpath", false, "emit absolute file paths in output")
	return cmd
}

// checkSettings is the merged view of config file and flags.
type checkSettings struct {
	format         diagfmt.Format
	notes          bool
	tests          bool
	jobs           int
	maxDiagnostics int
	pathMode       diagfmt.PathMode
	color          bool
	baselinePath   string
	writeBaseline  string
	ui             uiMode
	timings        bool
}

// loadConfig reads --config or discovers the nearest config file.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path, err := cmd.Flags().GetString("config")
	if err != nil {
		return nil, fmt.Errorf("failed to get config flag: %w", err)
	}
	if path != "" {
		return config.Load(path)
	}
	wd, err := os.Getwd()
	if err != nil {
		return nil, err
	}
	return config.Discover(wd)
}

// resolveSettings overlays explicitly set flags on cfg.
func resolveSettings(cmd *cobra.Command, cfg *config.Config) (checkSettings, error) {
	flags := cmd.Flags()
	root := cmd.Root().PersistentFlags()
	var s checkSettings
	var err error

	formatStr := cfg.Output.Format
	if flags.Changed("format") || formatStr == "" {
		if formatStr, err = flags.GetString("format"); err != nil {
			return s, fmt.Errorf("failed to get format flag: %w", err)
		}
	}
	if s.format, err = diagfmt.ParseFormat(formatStr); err != nil {
		return s, err
	}

	s.notes = cfg.Output.Notes
	if flags.Changed("with-notes") {
		if s.notes, err = flags.GetBool("with-notes"); err != nil {
			return s, fmt.Errorf("failed to get with-notes flag: %w", err)
		}
	}

	s.tests = cfg.Check.Tests
	if flags.Changed("tests") {
		if s.tests, err = flags.GetBool("tests"); err != nil {
			return s, fmt.Errorf("failed to get tests flag: %w", err)
		}
	}

	s.jobs = cfg.Check.Jobs
	if flags.Changed("jobs") {
		if s.jobs, err = flags.GetInt("jobs"); err != nil {
			return s, fmt.Errorf("failed to get jobs flag: %w", err)
		}
	}
	if s.jobs < 0 {
		return s, fmt.Errorf("--jobs must be >= 0, got %d", s.jobs)
	}

	if s.maxDiagnostics, err = root.GetInt("max-diagnostics"); err != nil {
		return s, fmt.Errorf("failed to get max-diagnostics flag: %w", err)
	}
	if !root.Changed("max-diagnostics") && cfg.Check.MaxDiagnostics > 0 {
		s.maxDiagnostics = cfg.Check.MaxDiagnostics
	}

	if s.pathMode, err = diagfmt.ParsePathMode(cfg.Output.PathMode); err != nil {
		return s, err
	}
	fullPath, err := flags.GetBool("fullpath")
	if err != nil {
		return s, fmt.Errorf("failed to get fullpath flag: %w", err)
	}
	if fullPath {
		s.pathMode = diagfmt.PathModeAbsolute
	}

	if !root.Changed("color") && cfg.Output.Color != "" {
		if err := root.Set("color", cfg.Output.Color); err != nil {
			return s, err
		}
	}
	if s.color, err = useColor(cmd, outFile(cmd)); err != nil {
		return s, err
	}

	if s.baselinePath, err = flags.GetString("baseline"); err != nil {
		return s, fmt.Errorf("failed to get baseline flag: %w", err)
	}
	if s.writeBaseline, err = flags.GetString("write-baseline"); err != nil {
		return s, fmt.Errorf("failed to get write-baseline flag: %w", err)
	}

	uiStr, err := flags.GetString("ui")
	if err != nil {
		return s, fmt.Errorf("failed to get ui flag: %w", err)
	}
	if s.ui, err = readUIMode(uiStr); err != nil {
		return s, err
	}

	if s.timings, err = root.GetBool("timings"); err != nil {
		return s, fmt.Errorf("failed to get timings flag: %w", err)
	}
	return s, nil
}

// runCheck executes `idlint check`. It returns errFindings when error
// diagnostics remain after suppression and baseline filtering.
func runCheck(cmd *cobra.Command, args []string) error {
	defer dumpTraceOnPanic()

	cleanup, err := setupTracing(cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	stopProfiling, err := setupProfiling(cmd)
	if err != nil {
		return err
	}
	defer stopProfiling()

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	settings, err := resolveSettings(cmd, cfg)
	if err != nil {
		return err
	}
	registry, err := cfg.Registry()
	if err != nil {
		return err
	}

	var timer *observ.Timer
	if settings.timings {
		timer = observ.NewTimer()
	}

	patterns := args
	if len(patterns) == 0 {
		patterns = []string{"./..."}
	}
	opts := driver.Options{
		Patterns: patterns,
		Tests:    settings.tests,
		Jobs:     settings.jobs,
		Registry: registry,
		Notes:    settings.notes,
		Timer:    timer,
	}

	ctx := cmd.Context()
	var res *driver.Result
	if shouldUseTUI(settings.ui) {
		res, err = runCheckWithUI(ctx, "idlint check", opts)
	} else {
		res, err = driver.Check(ctx, opts)
	}
	if err != nil {
		return fmt.Errorf("check failed: %w", err)
	}

	if settings.writeBaseline != "" {
		return writeBaseline(cmd.ErrOrStderr(), settings.writeBaseline, res, timer)
	}

	baselined := 0
	if settings.baselinePath != "" {
		err = timer.Track("baseline", func() (string, error) {
			var err error
			baselined, err = applyBaseline(settings.baselinePath, res)
			return fmt.Sprintf("%d known", baselined), err
		})
		if err != nil {
			return err
		}
	}

	// The limit trims output only; the exit status follows every finding.
	hasErrors := res.Bag.HasErrors()
	bag := diag.NewBag(settings.maxDiagnostics)
	bag.Merge(res.Bag)

	out := cmd.OutOrStdout()
	if err := timer.Track("render", func() (string, error) {
		return settings.format.String(), render(out, bag, res, settings)
	}); err != nil {
		return fmt.Errorf("failed to format diagnostics: %w", err)
	}

	if settings.format == diagfmt.FormatPretty {
		printSummary(cmd.ErrOrStderr(), bag, res.Suppressed, baselined)
	}
	if settings.timings {
		printTimings(cmd.ErrOrStderr(), timer)
	}
	trace.Point(trace.FromContext(ctx), trace.ScopeDriver, "report", fmt.Sprintf("%d diagnostics", bag.Len()), trace.ParentID(ctx))

	if hasErrors {
		return errFindings
	}
	return nil
}

func render(w io.Writer, bag *diag.Bag, res *driver.Result, s checkSettings) error {
	switch s.format {
	case diagfmt.FormatPretty:
		diagfmt.Pretty(w, bag, res.Fset, diagfmt.PrettyOpts{
			Color:     s.color,
			PathMode:  s.pathMode,
			ShowNotes: s.notes,
		})
		return nil
	case diagfmt.FormatShort:
		wd, _ := os.Getwd()
		return diagfmt.Short(w, bag, res.Fset, wd, s.notes)
	case diagfmt.FormatJSON:
		return diagfmt.JSON(w, bag, res.Fset, diagfmt.JSONOpts{
			IncludePositions: true,
			IncludeNotes:     s.notes,
			PathMode:         s.pathMode,
		})
	case diagfmt.FormatSarif:
		wd, _ := os.Getwd()
		return diagfmt.Sarif(w, bag, res.Fset, diagfmt.SarifRunMeta{
			ToolName:       "idlint",
			ToolVersion:    version.Version,
			InvocationArgs: os.Args[1:],
			BaseDir:        wd,
		})
	}
	return fmt.Errorf("unknown format: %s", s.format)
}

// baselineDir anchors fingerprints at the directory of the baseline file so
// the same file works from any working directory.
func baselineDir(path string) string {
	abs, err := filepath.Abs(path)
	if err != nil {
		return filepath.Dir(path)
	}
	return filepath.Dir(abs)
}

func writeBaseline(stderr io.Writer, path string, res *driver.Result, timer *observ.Timer) error {
	fp := baseline.NewFingerprinter(res.Fset, baselineDir(path))
	file := baseline.FromDiagnostics(res.Bag.Items(), fp)
	if err := baseline.Write(path, file); err != nil {
		return fmt.Errorf("failed to write baseline: %w", err)
	}
	fmt.Fprintf(stderr, "baseline: recorded %d finding(s) in %s\n", len(file.Entries), path)
	printTimings(stderr, timer)
	return nil
}

func applyBaseline(path string, res *driver.Result) (int, error) {
	file, err := baseline.Read(path)
	if errors.Is(err, os.ErrNotExist) {
		return 0, fmt.Errorf("baseline %s not found (create it with --write-baseline)", path)
	}
	if err != nil {
		return 0, err
	}
	return file.Apply(res.Bag, baseline.NewFingerprinter(res.Fset, baselineDir(path))), nil
}

func printSummary(w io.Writer, bag *diag.Bag, suppressed, baselined int) {
	var errs, warns, infos int
	for _, d := range bag.Items() {
		switch d.Severity {
		case diag.SevError:
			errs++
		case diag.SevWarning:
			warns++
		default:
			infos++
		}
	}
	if bag.Len() > 0 {
		fmt.Fprintln(w)
	}
	fmt.Fprintf(w, "%d error(s), %d warning(s), %d info", errs, warns, infos)
	if suppressed > 0 {
		fmt.Fprintf(w, ", %d suppressed", suppressed)
	}
	if baselined > 0 {
		fmt.Fprintf(w, ", %d baselined", baselined)
	}
	fmt.Fprintln(w)
}
