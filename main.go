package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"

	"pathboot/internal/analysis"
	"pathboot/internal/bootstrap"
	"pathboot/internal/config"
	"pathboot/internal/envstore"
	"pathboot/internal/model"
	"pathboot/internal/registrar"
	"pathboot/internal/tui"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/afero"
	"github.com/spf13/pflag"
	"github.com/tcnksm/go-latest"
)

// Release repository queried by --update. Forks override these with
// -ldflags "-X main.updateOwner=... -X main.updateRepo=...".
var (
	updateOwner = "pathboot"
	updateRepo  = "pathboot"
)

// exitDegraded is the exit status of a run that finished but left at least
// one tool unregistered.
const exitDegraded = 2

var errDegraded = errors.New("some tools could not be located")

func checkUpdate(w io.Writer, src latest.Source, currentVer string) error {
	res, err := latest.Check(src, currentVer)
	if err != nil {
		return fmt.Errorf("checking for updates: %w", err)
	}

	if res.Outdated {
		fmt.Fprintf(w, "\n✨ A new version is available: %s (you have %s)\n", res.Current, currentVer)
	} else {
		fmt.Fprintf(w, "✅ You are using the latest version: %s\n", currentVer)
	}
	return nil
}

func main() {
	pflag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: pathboot [options]\n\n")
		fmt.Fprintf(os.Stderr, "pathboot provisions prerequisite tools, registers their directories\n")
		fmt.Fprintf(os.Stderr, "on the user search path without duplicates, and fetches a project archive.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		pflag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  pathboot                 # Run the built-in plan (python, git)\n")
		fmt.Fprintf(os.Stderr, "  pathboot -c plan.yaml    # Run a custom plan\n")
		fmt.Fprintf(os.Stderr, "  pathboot -n              # Dry run: nothing is persisted\n")
		fmt.Fprintf(os.Stderr, "  pathboot --report        # Print a search path report\n")
		fmt.Fprintf(os.Stderr, "  pathboot --tui           # Browse the search path interactively\n")
	}

	configFlag := pflag.StringP("config", "c", "", "Load the bootstrap plan from this YAML file")
	dryRunFlag := pflag.BoolP("dry-run", "n", false, "Locate tools but skip installers and downloads; search path writes stay in memory")
	reportFlag := pflag.BoolP("report", "r", false, "Print a diagnostic report of the search path")
	outputFlag := pflag.StringP("output", "o", "", "Save report to the specified file (combined with --report)")
	jsonFlag := pflag.BoolP("json", "j", false, "Output the run summary (or the report, with --report) as JSON")
	tuiFlag := pflag.BoolP("tui", "t", false, "Browse the search path in a terminal UI")
	verboseFlag := pflag.BoolP("verbose", "v", false, "Enable debug logging and raw values in the report")
	versionFlag := pflag.BoolP("version", "V", false, "Print version information")
	updateFlag := pflag.BoolP("update", "u", false, "Check for latest version")
	helpFlag := pflag.BoolP("help", "h", false, "Show this help message")
	pflag.Parse()

	level := slog.LevelInfo
	if *verboseFlag {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	if *helpFlag {
		pflag.Usage()
		return
	}

	if *versionFlag {
		fmt.Printf("pathboot version %s\n", model.Version)
		return
	}

	if *updateFlag {
		src := &latest.GithubTag{Owner: updateOwner, Repository: updateRepo}
		if err := checkUpdate(os.Stdout, src, model.Version); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v (release repository %s/%s)\n", err, updateOwner, updateRepo)
			os.Exit(1)
		}
		return
	}

	fs := afero.NewOsFs()
	store := envstore.Default()

	if *tuiFlag {
		runTuiMode(fs, store)
		return
	}

	if *reportFlag {
		if err := runReportMode(fs, store, *outputFlag, *verboseFlag, *jsonFlag); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	err := runBootstrap(os.Stdout, fs, store, *configFlag, *dryRunFlag, *jsonFlag)
	if errors.Is(err, errDegraded) {
		fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
		os.Exit(exitDegraded)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func loadPlan(fs afero.Fs, path string) (*config.Plan, error) {
	if path == "" {
		return config.Default(os.LookupEnv), nil
	}
	return config.Load(fs, path, os.LookupEnv)
}

// runBootstrap runs the plan and prints its summary to w. A run that left a
// tool degraded returns errDegraded after the summary is printed.
func runBootstrap(w io.Writer, fs afero.Fs, store envstore.Store, configPath string, dryRun, asJSON bool) error {
	plan, err := loadPlan(fs, configPath)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if dryRun {
		overlay := envstore.NewOverlay(store)
		store = overlay
		defer func() {
			for scope, v := range overlay.Pending() {
				fmt.Fprintf(w, "(dry run) would set %s search path to: %s\n", scope, v)
			}
		}()
	}

	reg := registrar.New(store, slog.Default())
	if !dryRun {
		reg.Apply = func(v string) error { return os.Setenv("PATH", v) }
	}

	runner := &bootstrap.Runner{
		Fs:         fs,
		Registrar:  reg,
		Downloader: &bootstrap.Downloader{Fs: fs, UserAgent: "pathboot/" + model.Version},
		Commands:   bootstrap.ExecRunner{},
		Log:        slog.Default(),
		DryRun:     dryRun,
	}

	sum, err := runner.Run(ctx, plan)
	var pwe *registrar.PersistenceWriteError
	if errors.As(err, &pwe) {
		return fmt.Errorf("could not update the %s search path (check permissions): %w", pwe.Scope, pwe.Err)
	}
	if err != nil {
		return err
	}

	if asJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(sum); err != nil {
			return err
		}
	} else {
		for _, t := range sum.Tools {
			switch {
			case t.Degraded:
				fmt.Fprintf(w, "⚠️  %s: not found; it may be unreachable by name for the rest of this run\n", t.Name)
			case t.Registered:
				fmt.Fprintf(w, "✅ %s: %s (added to user search path)\n", t.Name, t.Directory)
			default:
				fmt.Fprintf(w, "✅ %s: %s (already on search path)\n", t.Name, t.Directory)
			}
		}
		if sum.ProjectDest != "" {
			fmt.Fprintf(w, "📦 project: %d files extracted to %s\n", sum.ProjectFiles, sum.ProjectDest)
		}
	}

	if sum.Degraded() {
		return errDegraded
	}
	return nil
}

func runReportMode(fs afero.Fs, store envstore.Store, outputFile string, verbose, asJSON bool) error {
	result, err := analysis.NewAnalyzer(fs).AnalyzeStore(store)
	if err != nil {
		return err
	}

	if asJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	}

	report := analysis.GenerateReport(result, verbose)
	if outputFile != "" {
		if err := afero.WriteFile(fs, outputFile, []byte(report), 0644); err != nil {
			return fmt.Errorf("writing report to %s: %w", outputFile, err)
		}
		fmt.Printf("Report saved to %s\n", outputFile)
		return nil
	}
	fmt.Println(report)
	return nil
}

func runTuiMode(fs afero.Fs, store envstore.Store) {
	analyzer := analysis.NewAnalyzer(fs)
	m := tui.InitialModel(fs, func() (model.AnalysisResult, error) {
		return analyzer.AnalyzeStore(store)
	})
	p := tea.NewProgram(&m, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		fmt.Printf("Alas, there's been an error: %v", err)
		os.Exit(1)
	}
}
