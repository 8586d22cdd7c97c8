package main

import (
	_ "github.com/vanderheijden86/modelbrowser/pkg/ttyguard"

	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"runtime/pprof"
	"strconv"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/term"

	"github.com/vanderheijden86/modelbrowser/pkg/config"
	"github.com/vanderheijden86/modelbrowser/pkg/export"
	"github.com/vanderheijden86/modelbrowser/pkg/loader"
	"github.com/vanderheijden86/modelbrowser/pkg/metrics"
	"github.com/vanderheijden86/modelbrowser/pkg/model"
	"github.com/vanderheijden86/modelbrowser/pkg/treemodel"
	"github.com/vanderheijden86/modelbrowser/pkg/ui"
	"github.com/vanderheijden86/modelbrowser/pkg/version"
	"github.com/vanderheijden86/modelbrowser/pkg/watcher"
)

func main() {
	cpuProfile := flag.String("cpu-profile", "", "Write CPU profile to file")
	help := flag.Bool("help", false, "Show help")
	versionFlag := flag.Bool("version", false, "Show version")
	modelDir := flag.String("model", "", "Directory with *.model.yaml files (default: $MB_MODEL_DIR or the working directory)")
	setName := flag.String("set", "", "Open a model set from the config file by name")
	configPath := flag.String("config", "", "Config file (default: $XDG_CONFIG_HOME/mb/config.yaml)")
	robotTree := flag.Bool("robot-tree", false, "Print the model tree and exit")
	outFormat := flag.String("format", "json", "Output format for --robot-tree: json or markdown")
	depth := flag.Int("depth", 0, "Levels to print with --robot-tree (0 = all)")
	noWatch := flag.Bool("no-watch", false, "Do not reload when model files change")
	showMetrics := flag.Bool("metrics", false, "Print timing metrics to stderr on exit")
	flag.Parse()

	if *cpuProfile != "" {
		f, err := os.Create(*cpuProfile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Could not create CPU profile: %v\n", err)
			os.Exit(1)
		}
		defer f.Close()
		if err := pprof.StartCPUProfile(f); err != nil {
			fmt.Fprintf(os.Stderr, "Could not start CPU profile: %v\n", err)
			os.Exit(1)
		}
		defer pprof.StopCPUProfile()
	}

	if *help {
		fmt.Println("Usage: mb [options]")
		fmt.Println("\nA terminal browser for UML and RAAML models.")
		flag.PrintDefaults()
		os.Exit(0)
	}

	if *versionFlag {
		fmt.Printf("mb %s\n", version.String())
		os.Exit(0)
	}

	if *outFormat != "json" && *outFormat != "markdown" {
		fmt.Fprintf(os.Stderr, "Error: unknown --format %q (want json or markdown)\n", *outFormat)
		os.Exit(2)
	}

	cfg, err := loadConfig(*configPath)
	if err != nil {
		// Non-fatal: continue with defaults
		log.Printf("warning: %v", err)
	}

	paths, err := resolveModelPaths(cfg, *setName, *modelDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		if errors.Is(err, loader.ErrNoModelFiles) {
			fmt.Fprintln(os.Stderr, "Point --model at a directory with *.model.yaml files.")
		}
		os.Exit(1)
	}

	g, err := loader.Load(context.Background(), paths)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading model: %v\n", err)
		os.Exit(1)
	}

	if *showMetrics {
		defer metrics.WriteSummary(os.Stderr)
	}

	if *robotTree || !term.IsTerminal(int(os.Stdout.Fd())) {
		if err := writeTree(os.Stdout, g, *outFormat, *depth, modelTitle(paths)); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	opts := []ui.Option{
		ui.WithConfig(cfg),
		ui.WithModelPaths(paths),
		ui.WithStatePath(cfg.StatePath()),
	}
	if cfg.Watch.IsEnabled() && !*noWatch {
		w, err := startWatcher(paths, cfg.Watch)
		if err != nil {
			log.Printf("warning: live reload disabled: %v", err)
		} else {
			opts = append(opts, ui.WithWatcher(w))
		}
	}

	m := ui.NewModel(g, opts...)
	if err := runTUIProgram(m); err != nil {
		fmt.Printf("Error running model browser: %v\n", err)
		os.Exit(1)
	}
}

func loadConfig(path string) (config.Config, error) {
	if path == "" {
		return config.Load()
	}
	return config.LoadFrom(path)
}

// resolveModelPaths picks the files to open: a named set from the config,
// or every model file in dir.
func resolveModelPaths(cfg config.Config, set, dir string) ([]string, error) {
	if set != "" {
		ms := cfg.FindModels(set)
		if ms == nil {
			return nil, fmt.Errorf("no model set named %q in %s", set, config.ConfigPath())
		}
		if len(ms.Paths) == 0 {
			return nil, fmt.Errorf("model set %q lists no files", set)
		}
		return ms.Paths, nil
	}
	modelDir, err := loader.GetModelDir(dir)
	if err != nil {
		return nil, err
	}
	return loader.FindModelFiles(modelDir)
}

func modelTitle(paths []string) string {
	if len(paths) == 0 {
		return "Model"
	}
	return filepath.Base(filepath.Dir(paths[0]))
}

// writeTree prints the tree a fresh browser shows for g, expanded to depth.
func writeTree(w io.Writer, g *model.Graph, format string, depth int, title string) error {
	br := treemodel.NewBrowser(g)
	defer br.Close()

	switch format {
	case "markdown":
		return export.WriteMarkdown(w, title, export.TreeSnapshot(br.Tree(), depth))
	default:
		return export.WriteJSON(w, g, br.Tree(), depth)
	}
}

func startWatcher(paths []string, wc config.WatchConfig) (*watcher.Watcher, error) {
	opts := []watcher.WatcherOption{
		watcher.WithForcePoll(wc.ForcePoll),
		watcher.WithOnError(func(err error) {
			log.Printf("warning: watcher: %v", err)
		}),
	}
	if wc.Debounce > 0 {
		opts = append(opts, watcher.WithDebounceDuration(wc.Debounce))
	}
	if wc.PollInterval > 0 {
		opts = append(opts, watcher.WithPollInterval(wc.PollInterval))
	}
	w, err := watcher.NewWatcher(paths, opts...)
	if err != nil {
		return nil, err
	}
	if err := w.Start(); err != nil {
		return nil, err
	}
	return w, nil
}

func runTUIProgram(m ui.Model) error {
	p := tea.NewProgram(
		m,
		tea.WithAltScreen(),
		tea.WithoutSignalHandler(),
	)

	runDone := make(chan struct{})
	defer close(runDone)

	// Graceful shutdown on SIGINT/SIGTERM.
	sigCh := make(chan os.Signal, 2)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigCh)
	go func() {
		select {
		case <-runDone:
			return
		case <-sigCh:
		}

		p.Quit()

		select {
		case <-runDone:
			return
		case <-sigCh:
		case <-time.After(5 * time.Second):
		}

		p.Kill()
	}()

	// Optional auto-quit for automated tests: set MB_TUI_AUTOCLOSE_MS.
	if v := os.Getenv("MB_TUI_AUTOCLOSE_MS"); v != "" {
		if ms, err := strconv.Atoi(v); err == nil && ms > 0 {
			go func() {
				timer := time.NewTimer(time.Duration(ms) * time.Millisecond)
				defer timer.Stop()

				select {
				case <-runDone:
					return
				case <-timer.C:
				}

				p.Quit()
			}()
		}
	}

	final, err := p.Run()
	if fm, ok := final.(ui.Model); ok {
		fm.Close()
	} else {
		m.Close()
	}
	if errors.Is(err, tea.ErrProgramKilled) || errors.Is(err, tea.ErrInterrupted) {
		return nil
	}
	return err
}
