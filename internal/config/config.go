// Package config provides configuration types and defaults for vedit.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/zjrosen/vedit/internal/glyph"
	"github.com/zjrosen/vedit/internal/log"
	"github.com/zjrosen/vedit/internal/render"
	"github.com/zjrosen/vedit/internal/storage"
)

// BufferConfig defines one buffer opened at startup.
type BufferConfig struct {
	Name string `mapstructure:"name" yaml:"name"`
	Path string `mapstructure:"path" yaml:"path,omitempty"` // empty for a scratch buffer
}

// Config holds all configuration options for vedit.
type Config struct {
	Buffers    []BufferConfig `mapstructure:"buffers" yaml:"buffers"`
	WatchFiles bool           `mapstructure:"watch_files" yaml:"watch_files"`
	Save       SaveConfig     `mapstructure:"save" yaml:"save"`
	Glyph      GlyphConfig    `mapstructure:"glyph" yaml:"glyph"`
	UI         UIConfig       `mapstructure:"ui" yaml:"ui"`
	Log        LogConfig      `mapstructure:"log" yaml:"log"`
	Debug      bool           `mapstructure:"debug" yaml:"debug"`
}

// SaveConfig controls where buffers are written.
type SaveConfig struct {
	Target string `mapstructure:"target" yaml:"target"` // "origin" (default), "executable" or "dir"
	Dir    string `mapstructure:"dir" yaml:"dir"`       // base dir for scratch buffers, or the output dir
}

// GlyphConfig selects the glyph width classifier.
type GlyphConfig struct {
	Width string `mapstructure:"width" yaml:"width"` // "heuristic" (default) or "unicode"
}

// UIConfig holds user interface configuration options.
type UIConfig struct {
	HelpHint    string      `mapstructure:"help_hint" yaml:"help_hint"`
	StatusStyle StyleConfig `mapstructure:"status_style" yaml:"status_style"`
}

// StyleConfig holds colors for a styled region. Empty uses the built-in color.
type StyleConfig struct {
	Foreground string `mapstructure:"foreground" yaml:"foreground"`
	Background string `mapstructure:"background" yaml:"background"`
}

// LogConfig controls the debug log file.
type LogConfig struct {
	Path       string `mapstructure:"path" yaml:"path"`
	MaxSizeMB  int    `mapstructure:"max_size_mb" yaml:"max_size_mb"`
	MaxBackups int    `mapstructure:"max_backups" yaml:"max_backups"`
}

// DefaultBuffers returns the two scratch buffers opened when nothing else is
// configured.
func DefaultBuffers() []BufferConfig {
	return []BufferConfig{
		{Name: "file1.txt"},
		{Name: "file2.txt"},
	}
}

// Defaults returns a Config with sensible default values.
func Defaults() Config {
	return Config{
		Buffers:    DefaultBuffers(),
		WatchFiles: true,
		Save: SaveConfig{
			Target: storage.TargetOrigin,
		},
		Glyph: GlyphConfig{
			Width: glyph.NameHeuristic,
		},
		UI: UIConfig{
			HelpHint: render.DefaultHint,
		},
		Log: LogConfig{
			Path:       "debug.log",
			MaxSizeMB:  10,
			MaxBackups: 3,
		},
	}
}

// ValidateBuffers checks buffer configuration for errors.
// Returns nil if buffers are valid or empty (will use defaults).
func ValidateBuffers(bufs []BufferConfig) error {
	seen := make(map[string]int, len(bufs))
	for i, b := range bufs {
		if b.Name == "" {
			return fmt.Errorf("buffer %d: name is required", i)
		}
		if filepath.Base(b.Name) != b.Name {
			return fmt.Errorf("buffer %d (%s): name must not contain a path separator", i, b.Name)
		}
		if j, dup := seen[b.Name]; dup {
			return fmt.Errorf("buffer %d (%s): duplicate of buffer %d", i, b.Name, j)
		}
		seen[b.Name] = i
	}
	return nil
}

// ValidateSave checks save configuration for errors.
func ValidateSave(save SaveConfig) error {
	_, err := storage.NewResolver(save.Target, save.Dir)
	if err != nil {
		return fmt.Errorf("save: %w", err)
	}
	return nil
}

// ValidateGlyph checks glyph configuration for errors.
func ValidateGlyph(g GlyphConfig) error {
	if _, err := glyph.Parse(g.Width); err != nil {
		return fmt.Errorf("glyph.width: %w", err)
	}
	return nil
}

// ValidateLog checks log configuration for errors.
func ValidateLog(l LogConfig) error {
	if l.MaxSizeMB < 0 {
		return fmt.Errorf("log.max_size_mb must be >= 0, got %d", l.MaxSizeMB)
	}
	if l.MaxBackups < 0 {
		return fmt.Errorf("log.max_backups must be >= 0, got %d", l.MaxBackups)
	}
	return nil
}

// Validate checks every section and joins the errors.
func Validate(c Config) error {
	return errors.Join(
		ValidateBuffers(c.Buffers),
		ValidateSave(c.Save),
		ValidateGlyph(c.Glyph),
		ValidateLog(c.Log),
	)
}

// GetBuffers returns the configured buffers, or the defaults if none are set.
func (c Config) GetBuffers() []BufferConfig {
	if len(c.Buffers) == 0 {
		return DefaultBuffers()
	}
	return c.Buffers
}

// DefaultConfigTemplate returns the default config as a YAML string with comments.
func DefaultConfigTemplate() string {
	return `# vedit configuration

# Buffers opened when no files are given on the command line.
# A buffer with a path is loaded from and saved back to that file.
buffers:
  - name: file1.txt
  - name: file2.txt
  # - name: notes.md
  #   path: ~/notes.md

# Warn when a file backing an open buffer is changed by another program
watch_files: true

# Where ":w" writes a buffer
save:
  target: origin   # "origin" (file it came from), "executable" (next to the binary) or "dir"
  dir: ""          # scratch buffers go here for "origin"; every buffer goes here for "dir"

# Display width of characters
glyph:
  width: heuristic  # "heuristic" (CJK range counts as wide) or "unicode" (East Asian Width tables)

# UI settings
ui:
  help_hint: "command =>:w save :q exit tab switch"
  status_style:
    foreground: ""  # e.g. "#1A1A1A"
    background: ""  # e.g. "#7D7D7D"

# Debug log (written only with --debug or VEDIT_DEBUG=1)
log:
  path: debug.log
  max_size_mb: 10
  max_backups: 3
`
}

// WriteDefaultConfig creates a config file at the given path with default settings and comments.
// Creates the parent directory if it doesn't exist.
func WriteDefaultConfig(configPath string) error {
	log.Debug(log.CatConfig, "Writing default config", "path", configPath)

	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		log.ErrorErr(log.CatConfig, "Failed to create config directory", err, "dir", dir)
		return fmt.Errorf("creating config directory: %w", err)
	}

	if err := os.WriteFile(configPath, []byte(DefaultConfigTemplate()), 0o600); err != nil {
		log.ErrorErr(log.CatConfig, "Failed to write config file", err, "path", configPath)
		return fmt.Errorf("writing config file: %w", err)
	}

	log.Info(log.CatConfig, "Created default config", "path", configPath)
	return nil
}
