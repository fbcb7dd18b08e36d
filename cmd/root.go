package cmd

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/zjrosen/vedit/internal/buffer"
	"github.com/zjrosen/vedit/internal/config"
	"github.com/zjrosen/vedit/internal/editor"
	"github.com/zjrosen/vedit/internal/glyph"
	"github.com/zjrosen/vedit/internal/log"
	"github.com/zjrosen/vedit/internal/paths"
	"github.com/zjrosen/vedit/internal/render"
	"github.com/zjrosen/vedit/internal/storage"
	"github.com/zjrosen/vedit/internal/watcher"
)

func init() {
	// Query the terminal background before the program starts so the OSC 11
	// reply cannot race with Bubble Tea's input loop.
	_ = lipgloss.HasDarkBackground()
}

var (
	version   = "dev"
	cfgFile   string
	cfg       config.Config
	configErr error
)

var rootCmd = &cobra.Command{
	Use:   "vedit [files...]",
	Short: "A minimal modal text editor",
	Long: `A minimal modal text editor for the terminal.

The editor starts in insert mode. Esc switches to normal mode, where
arrow keys move, tab cycles buffers, "i" returns to insert mode and
":" opens the command line (:w save, :q quit, :wq save and quit,
:b next buffer).

With no files, the buffers listed in the config are opened.`,
	Version: version,
	RunE:    runApp,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "",
		"config file (default: .vedit/config.yaml, then ~/.config/vedit/config.yaml)")
	rootCmd.PersistentFlags().BoolP("debug", "d", false,
		"write a debug log (also VEDIT_DEBUG=1)")
	rootCmd.Flags().String("save-target", "",
		`where :w writes: "origin", "executable" or "dir"`)
	rootCmd.Flags().String("save-dir", "",
		"base directory for scratch buffers, or the output directory for --save-target=dir")
	rootCmd.Flags().String("glyph-width", "",
		`character width rules: "heuristic" or "unicode"`)
	rootCmd.Flags().Bool("no-watch", false,
		"do not warn when open files change on disk")

	// Bind flags to viper
	_ = viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	_ = viper.BindPFlag("save.target", rootCmd.Flags().Lookup("save-target"))
	_ = viper.BindPFlag("save.dir", rootCmd.Flags().Lookup("save-dir"))
	_ = viper.BindPFlag("glyph.width", rootCmd.Flags().Lookup("glyph-width"))
}

func initConfig() {
	defaults := config.Defaults()
	viper.SetDefault("buffers", defaults.Buffers)
	viper.SetDefault("watch_files", defaults.WatchFiles)
	viper.SetDefault("save.target", defaults.Save.Target)
	viper.SetDefault("save.dir", defaults.Save.Dir)
	viper.SetDefault("glyph.width", defaults.Glyph.Width)
	viper.SetDefault("ui.help_hint", defaults.UI.HelpHint)
	viper.SetDefault("ui.status_style.foreground", defaults.UI.StatusStyle.Foreground)
	viper.SetDefault("ui.status_style.background", defaults.UI.StatusStyle.Background)
	viper.SetDefault("log.path", defaults.Log.Path)
	viper.SetDefault("log.max_size_mb", defaults.Log.MaxSizeMB)
	viper.SetDefault("log.max_backups", defaults.Log.MaxBackups)
	viper.SetDefault("debug", defaults.Debug)

	viper.SetEnvPrefix("VEDIT")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		// Config lookup order:
		// 1. .vedit/config.yaml (current directory)
		// 2. ~/.config/vedit/config.yaml (user config)
		if _, err := os.Stat(paths.LocalConfigPath()); err == nil {
			viper.SetConfigFile(paths.LocalConfigPath())
		} else if userPath := paths.UserConfigPath(); userPath != "" {
			viper.AddConfigPath(filepath.Dir(userPath))
			viper.SetConfigName("config")
			viper.SetConfigType("yaml")
		}
	}

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		switch {
		case errors.As(err, &notFound):
			// No config anywhere - create the user default. If the write
			// fails, continue with defaults.
			if userPath := paths.UserConfigPath(); userPath != "" {
				if writeErr := config.WriteDefaultConfig(userPath); writeErr == nil {
					viper.SetConfigFile(userPath)
					_ = viper.ReadInConfig()
				}
			}
		default:
			configErr = fmt.Errorf("reading config: %w", err)
			return
		}
	}

	if err := viper.Unmarshal(&cfg); err != nil {
		configErr = fmt.Errorf("decoding config: %w", err)
	}
}

func runApp(cmd *cobra.Command, args []string) error {
	if configErr != nil {
		return configErr
	}
	if err := config.Validate(cfg); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	if cfg.Debug {
		cleanup, err := log.Init(log.Options{
			Path:       cfg.Log.Path,
			MaxSizeMB:  cfg.Log.MaxSizeMB,
			MaxBackups: cfg.Log.MaxBackups,
		})
		if err != nil {
			return fmt.Errorf("initializing log: %w", err)
		}
		defer cleanup()
	}
	log.Info(log.CatUI, "session start",
		"session", uuid.New().String(),
		"version", version,
		"config", viper.ConfigFileUsed())

	// Handle --no-watch flag (negated logic)
	if noWatch, _ := cmd.Flags().GetBool("no-watch"); noWatch {
		cfg.WatchFiles = false
	}

	model, err := newModel(cfg, args, storage.NewStore(afero.NewOsFs()))
	if err != nil {
		return err
	}

	if cfg.WatchFiles {
		w, changes := startWatcher(model.Set())
		if w != nil {
			defer func() { _ = w.Stop() }()
			model = model.WithChanges(changes)
		}
	}

	p := tea.NewProgram(model, tea.WithAltScreen())
	final, err := p.Run()
	if err != nil {
		return fmt.Errorf("running program: %w", err)
	}

	if m, ok := final.(editor.Model); ok && m.Err() != nil {
		return m.Err()
	}
	log.Info(log.CatUI, "session end")
	return nil
}

// newModel builds the editor session described by c. Files given as args
// replace the configured buffers.
func newModel(c config.Config, args []string, store *storage.Store) (editor.Model, error) {
	classifier, err := glyph.Parse(c.Glyph.Width)
	if err != nil {
		return editor.Model{}, err
	}
	resolver, err := storage.NewResolver(c.Save.Target, c.Save.Dir)
	if err != nil {
		return editor.Model{}, err
	}

	set, err := openBuffers(store, bufferConfigs(c, args))
	if err != nil {
		return editor.Model{}, err
	}

	styles := render.NewStyles(c.UI.StatusStyle.Foreground, c.UI.StatusStyle.Background)
	return editor.New(set, editor.Options{
		Store:      store,
		Resolver:   resolver,
		Classifier: classifier,
		Styles:     &styles,
		Hint:       c.UI.HelpHint,
	}), nil
}

// bufferConfigs turns file arguments into buffer entries, falling back to
// the configured buffers.
func bufferConfigs(c config.Config, args []string) []config.BufferConfig {
	if len(args) == 0 {
		return c.GetBuffers()
	}
	bufs := make([]config.BufferConfig, 0, len(args))
	for _, a := range args {
		bufs = append(bufs, config.BufferConfig{Name: filepath.Base(a), Path: a})
	}
	return bufs
}

func openBuffers(store *storage.Store, bufs []config.BufferConfig) (*buffer.Set, error) {
	opened := make([]*buffer.Buffer, 0, len(bufs))
	for _, b := range bufs {
		if b.Path == "" {
			opened = append(opened, buffer.New(b.Name))
			continue
		}
		buf, err := store.Load(b.Name, paths.ResolveBaseDir(b.Path))
		if err != nil {
			return nil, fmt.Errorf("opening %s: %w", b.Name, err)
		}
		opened = append(opened, buf)
	}
	return buffer.NewSet(opened...)
}

// startWatcher watches the files behind the set's buffers. It returns a nil
// watcher when there is nothing to watch or watching is unavailable.
func startWatcher(set *buffer.Set) (*watcher.Watcher, <-chan string) {
	var files []string
	for i := range set.Len() {
		if p := set.At(i).Path(); p != "" {
			files = append(files, p)
		}
	}
	if len(files) == 0 {
		return nil, nil
	}

	w, err := watcher.New(watcher.DefaultConfig(files...))
	if err != nil {
		log.Warn(log.CatStorage, "file watching unavailable", "error", err)
		return nil, nil
	}
	changes, err := w.Start()
	if err != nil {
		_ = w.Stop()
		log.Warn(log.CatStorage, "file watching unavailable", "error", err)
		return nil, nil
	}
	return w, changes
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

// SetVersion sets the version string (called from main with ldflags)
func SetVersion(v string) {
	version = v
	rootCmd.Version = v
}
