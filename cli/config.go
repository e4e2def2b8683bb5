package cli

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

// ErrInvalidConfig is returned when a configuration file cannot be used.
var ErrInvalidConfig = errors.New("invalid configuration")

// Config is the on-disk configuration of the viewer.
//
//	cols = 100
//	rows = 30
//	scrollback = 5000
//	border = "rounded"
//	title = "purfectmux"
//	status_bar = true
//
//	[hyperlinks]
//	capacity = 5000
//
//	[log]
//	level = "debug"
//	format = "json"
type Config struct {
	Cols       int    `toml:"cols"`
	Rows       int    `toml:"rows"`
	Scrollback int    `toml:"scrollback"`
	Border     string `toml:"border"`
	Title      string `toml:"title"`
	StatusBar  bool   `toml:"status_bar"`

	Hyperlinks HyperlinkConfig `toml:"hyperlinks"`
	Log        LogConfig       `toml:"log"`
}

// HyperlinkConfig configures the hyperlink pool.
type HyperlinkConfig struct {
	// Capacity bounds the live hyperlinks of all surfaces; 0 keeps the default.
	Capacity int `toml:"capacity"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"` // "text" or "json"
}

// LoadConfig reads a TOML configuration file. Unknown keys are rejected.
func LoadConfig(path string) (Config, error) {
	var cfg Config
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}

	dec := toml.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&cfg); err != nil {
		return cfg, fmt.Errorf("%w: %s: %v", ErrInvalidConfig, path, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks value ranges.
func (c Config) Validate() error {
	if c.Cols < 0 || c.Rows < 0 {
		return fmt.Errorf("%w: negative size %dx%d", ErrInvalidConfig, c.Cols, c.Rows)
	}
	if c.Scrollback < 0 {
		return fmt.Errorf("%w: negative scrollback %d", ErrInvalidConfig, c.Scrollback)
	}
	if c.Hyperlinks.Capacity != 0 && c.Hyperlinks.Capacity < 3 {
		return fmt.Errorf("%w: hyperlink capacity %d", ErrInvalidConfig, c.Hyperlinks.Capacity)
	}
	if _, err := ParseBorderStyle(c.Border); err != nil {
		return err
	}
	switch strings.ToLower(c.Log.Format) {
	case "", "text", "json":
	default:
		return fmt.Errorf("%w: log format %q", ErrInvalidConfig, c.Log.Format)
	}
	return nil
}

// Options converts the configuration into terminal options. Size is
// detected from the host terminal when cols or rows is unset.
func (c Config) Options() Options {
	border, _ := ParseBorderStyle(c.Border)
	return Options{
		Cols:           c.Cols,
		Rows:           c.Rows,
		ScrollbackSize: c.Scrollback,
		BorderStyle:    border,
		Title:          c.Title,
		ShowStatusBar:  c.StatusBar,
		AutoSize:       c.Cols == 0 || c.Rows == 0,
	}
}

// LoadOptions reads a configuration file and returns its terminal options.
func LoadOptions(path string) (Options, error) {
	cfg, err := LoadConfig(path)
	if err != nil {
		return Options{}, err
	}
	return cfg.Options(), nil
}

// ParseBorderStyle parses a border name. The empty string means no border.
func ParseBorderStyle(s string) (BorderStyle, error) {
	switch strings.ToLower(s) {
	case "", "none":
		return BorderNone, nil
	case "single":
		return BorderSingle, nil
	case "double":
		return BorderDouble, nil
	case "heavy":
		return BorderHeavy, nil
	case "rounded":
		return BorderRounded, nil
	}
	return BorderNone, fmt.Errorf("%w: border style %q", ErrInvalidConfig, s)
}
