package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"chardiff/internal/app"
	"chardiff/internal/config"
	"chardiff/internal/logging"
	"chardiff/internal/report"
	"chardiff/internal/session"
	"chardiff/internal/source"
	"chardiff/internal/watch"
)

const exitDifferent = 1

type flags struct {
	configPath       string
	ignoreCase       bool
	ignoreWhitespace bool
	watch            bool
	print            bool
	set              map[string]bool
}

func parseFlags(args []string) (flags, []string, error) {
	var f flags
	fs := flag.NewFlagSet("chardiff", flag.ContinueOnError)
	fs.Usage = func() {
		fmt.Fprintf(fs.Output(), "usage: chardiff [flags] [left [right]]\n\nSources are file paths or git:<rev>:<path>.\n\n")
		fs.PrintDefaults()
	}
	fs.StringVar(&f.configPath, "config", "", "Path to a TOML or JSON config file. Defaults to $XDG_CONFIG_HOME/chardiff/config.toml.")
	fs.BoolVar(&f.ignoreCase, "i", false, "Ignore case differences (overrides config file if set)")
	fs.BoolVar(&f.ignoreWhitespace, "w", false, "Treat any two whitespace characters as equal (overrides config file if set)")
	fs.BoolVar(&f.watch, "watch", false, "Reload sources when their files change on disk (overrides config file if set)")
	fs.BoolVar(&f.print, "print", false, "Compare the two sources, print a summary and exit 1 if they differ")
	if err := fs.Parse(args); err != nil {
		return f, nil, err
	}
	f.set = make(map[string]bool)
	fs.Visit(func(fl *flag.Flag) { f.set[fl.Name] = true })
	return f, fs.Args(), nil
}

func loadConfig(f flags) (config.AppConfig, error) {
	var (
		cfg config.AppConfig
		err error
	)
	if f.configPath != "" {
		cfg, err = config.LoadFromPath(f.configPath)
	} else {
		cfg, _, err = config.Load()
	}
	if err != nil {
		return cfg, err
	}
	if f.set["i"] {
		cfg.IgnoreCase = f.ignoreCase
	}
	if f.set["w"] {
		cfg.IgnoreWhitespace = f.ignoreWhitespace
	}
	if f.set["watch"] {
		cfg.Watch = f.watch
	}
	return cfg, cfg.Validate()
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	f, sources, err := parseFlags(args)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}

	cfg, err := loadConfig(f)
	if err != nil {
		fmt.Fprintf(stderr, "failed to load config: %v\n", err)
		return 2
	}

	logger, closer, err := logging.New(cfg.Log)
	if err != nil {
		fmt.Fprintf(stderr, "failed to initialize logger: %v\n", err)
		return 2
	}
	defer closer.Close()

	cwd, err := os.Getwd()
	if err != nil {
		fmt.Fprintf(stderr, "failed to resolve working directory: %v\n", err)
		return 2
	}
	loader := source.NewLoader(cwd)
	ctl := session.NewController(loader,
		session.WithLogger(logger),
		session.WithOptions(cfg.CompareOptions()),
	)
	logger.Info().Str("session", ctl.SessionID()).Strs("sources", sources).Msg("chardiff starting")

	if f.print {
		return printComparison(ctl, sources, stdout, stderr)
	}

	var watcher *watch.Watcher
	if cfg.Watch {
		watcher, err = watch.New(watch.DefaultDebounce)
		if err != nil {
			logger.Warn().Err(err).Msg("file watching disabled")
			watcher = nil
		} else {
			defer watcher.Close()
		}
	}

	model := app.NewModel(app.Deps{
		Controller:  ctl,
		Files:       loader,
		Watcher:     watcher,
		Logger:      logger,
		Placeholder: cfg.PlaceholderRune(),
		Initial:     sources,
	})

	program := tea.NewProgram(model, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		logger.Error().Err(err).Msg("application error")
		fmt.Fprintf(stderr, "application error: %v\n", err)
		return 2
	}
	return 0
}

func printComparison(ctl *session.Controller, sources []string, stdout, stderr io.Writer) int {
	if len(sources) != 2 {
		fmt.Fprintln(stderr, "-print needs exactly two sources")
		return 2
	}
	if err := ctl.AttachSources(context.Background(), sources); err != nil {
		fmt.Fprintf(stderr, "Error opening file:\n%v\n", err)
		return 2
	}
	res := ctl.Compare()
	fmt.Fprintln(stdout, report.Summary(res, ctl.Left(), ctl.Right(), ctl.Options()))
	if !res.Equal() {
		return exitDifferent
	}
	return 0
}
