package main

import (
	"fmt"
	"log/slog"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mmcdole/kinopick/internal/config"
	"github.com/mmcdole/kinopick/internal/domain"
	"github.com/mmcdole/kinopick/internal/export"
	"github.com/mmcdole/kinopick/internal/library"
	"github.com/mmcdole/kinopick/internal/log"
	"github.com/mmcdole/kinopick/internal/store"
	"github.com/mmcdole/kinopick/internal/tui"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

// pickFlags are the command-line overrides shared by every command
type pickFlags struct {
	configPath string
	mode       string
	min        int
	max        int
	sort       string
	album      string
	format     string
	match      string
	noCache    bool
	watch      bool
}

func (f *pickFlags) register(cmd *cobra.Command) {
	flags := cmd.Flags()
	flags.StringVar(&f.configPath, "config", "", "config file (default $XDG_CONFIG_HOME/kinopick/config.yaml)")
	flags.StringVar(&f.mode, "mode", "", "selection mode: single or multiple")
	flags.IntVar(&f.min, "min", 0, "minimum number of picks")
	flags.IntVar(&f.max, "max", domain.Unlimited, "maximum number of picks (-1 = unlimited)")
	flags.StringVar(&f.sort, "sort", "", "initial order: asc (oldest first) or desc")
	flags.StringVar(&f.album, "album", "", "start in this album (\"\" for files at the root)")
	flags.StringVar(&f.format, "format", "", "output format: paths, json or toml")
	flags.StringVar(&f.match, "match", "", "only show files whose names fuzzy-match this")
	flags.BoolVar(&f.noCache, "no-cache", false, "scan without the on-disk cache")
	flags.BoolVar(&f.watch, "watch", false, "reload when the library changes")
}

// load reads the config file and applies flags that were set
func (f *pickFlags) load(cmd *cobra.Command, args []string) (*config.Config, error) {
	cfg, err := config.Load(f.configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	if len(args) > 0 {
		cfg.Library.Root = args[0]
	}
	flags := cmd.Flags()
	if flags.Changed("mode") {
		cfg.Picker.Mode = f.mode
	}
	if flags.Changed("min") {
		cfg.Picker.MinSelection = f.min
	}
	if flags.Changed("max") {
		cfg.Picker.MaxSelection = f.max
	}
	if flags.Changed("sort") {
		cfg.Picker.SortDirection = f.sort
	}
	if flags.Changed("format") {
		cfg.Output.Format = f.format
	}
	if flags.Changed("no-cache") {
		cfg.Cache.Enabled = !f.noCache
	}
	if flags.Changed("watch") {
		cfg.Library.Watch = f.watch
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func setupLogger(cfg *config.Config) *slog.Logger {
	logger, err := log.SetupLogger(&cfg.Logging)
	if err != nil {
		// Fall back to null logger if file logging fails
		logger = log.NullLogger()
	}
	slog.SetDefault(logger)
	return logger
}

func openLibrary(cfg *config.Config, match string, logger *slog.Logger) (*library.Library, error) {
	opts := cfg.LibraryOptions()
	opts.Match = match
	lib, err := library.New(cfg.Library.Root, opts, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to open library: %w", err)
	}
	return lib, nil
}

// openSource wraps lib in the scan cache when enabled. The returned close
// function is always safe to call.
func openSource(cfg *config.Config, lib *library.Library, logger *slog.Logger) (domain.GroupedSource, func()) {
	if !cfg.Cache.Enabled {
		return lib, func() {}
	}

	dir, err := log.ExpandHome(cfg.Cache.Dir)
	if err == nil {
		var st *store.AssetStore
		st, err = store.Open(dir, lib.Root())
		if err == nil {
			return library.WithCache(lib, st, logger), func() {
				if err := st.Close(); err != nil {
					logger.Warn("failed to close cache", "error", err)
				}
			}
		}
	}
	logger.Warn("cache unavailable, scanning directly", "dir", cfg.Cache.Dir, "error", err)
	return lib, func() {}
}

func rootCmd() *cobra.Command {
	var f pickFlags

	cmd := &cobra.Command{
		Use:   "kinopick [root]",
		Short: "Pick photos and videos from a directory",
		Long: `kinopick shows the photos and videos under a directory in a terminal grid,
lets you pick some, and prints the picks to stdout.`,
		Version:       Version,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPick(cmd, args, &f)
		},
	}
	f.register(cmd)
	return cmd
}

func runPick(cmd *cobra.Command, args []string, f *pickFlags) error {
	cfg, err := f.load(cmd, args)
	if err != nil {
		return err
	}
	format, err := export.ParseFormat(cfg.Output.Format)
	if err != nil {
		return err
	}

	logger := setupLogger(cfg)
	logger.Info("starting kinopick", "version", Version, "root", cfg.Library.Root)

	lib, err := openLibrary(cfg, f.match, logger)
	if err != nil {
		return err
	}
	source, closeSource := openSource(cfg, lib, logger)
	defer closeSource()

	opts := tui.Options{
		Picker:       cfg.PickerOptions(),
		Direction:    cfg.SortDirection(),
		GridColumns:  cfg.UI.GridColumns,
		MaxAssetSize: cfg.Picker.MaxAssetSize,
		Theme:        cfg.UI.Theme,
		Logger:       logger,
	}
	if cmd.Flags().Changed("album") {
		opts.Album = f.album
		opts.AlbumScoped = true
	}

	if cfg.Library.Watch {
		watcher, err := library.NewWatcher(lib, library.DefaultDebounce, logger)
		if err != nil {
			return err
		}
		if err := watcher.Start(); err != nil {
			return fmt.Errorf("failed to watch library: %w", err)
		}
		defer watcher.Stop()
		opts.Changes = watcher.Changes()
	}

	model, err := tui.NewModel(source, opts)
	if err != nil {
		return err
	}

	// Keep stdout clean for the result when it is piped
	var progOpts []tea.ProgramOption
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		progOpts = append(progOpts, tea.WithOutput(os.Stderr))
	}

	final, err := tui.Run(model, progOpts...)
	if err != nil {
		logger.Error("TUI error", "error", err)
		return err
	}

	picked, cancelled := final.Result()
	if cancelled || !final.Done() {
		logger.Info("shutting down", "cancelled", true)
		return errCancelled
	}

	logger.Info("shutting down", "picked", len(picked))
	return export.Write(cmd.OutOrStdout(), format, picked)
}
