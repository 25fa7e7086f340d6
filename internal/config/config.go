// Package config holds user settings (YAML, hand-editable) and the session
// state restored on the next launch (JSON, written on quit).
//
// Settings are read from <user config dir>/bible-slides/config.yaml. Missing
// fields keep their defaults and BIBLESLIDES_* environment variables override
// the file at runtime without being written back.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	applog "bible-slides/internal/log"
)

const (
	appDir       = "bible-slides"
	settingsFile = "config.yaml"
	stateFile    = "state.json"

	// DefaultFontPercent is the terminal zoom used when none, or an invalid one, is set.
	DefaultFontPercent = 100
	defaultRasterPx    = 48
)

type DisplayConfig struct {
	Mode        string `yaml:"mode"` // slide | slide-scroll | scroll
	FontPercent int    `yaml:"font_percent"`
	ShowRef     bool   `yaml:"show_ref"`

	// Raster surface, used by export and the paginate command.
	FontSize     int    `yaml:"font_size"` // pixels
	FontFile     string `yaml:"font_file"` // TTF/OTF; Go Regular when empty
	RasterWidth  int    `yaml:"raster_width"`
	RasterHeight int    `yaml:"raster_height"`
	Margin       int    `yaml:"margin"` // pixels kept clear on every side
}

type ColorConfig struct {
	Highlight string `yaml:"highlight"`
	VerseNum  string `yaml:"verse_num"`
	Text      string `yaml:"text"`
	Dim       string `yaml:"dim"`
}

type DataConfig struct {
	Dir         string `yaml:"dir"`
	Translation string `yaml:"translation"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	Source bool   `yaml:"source"`
	File   string `yaml:"file"`
}

type Settings struct {
	ConfigVersion int           `yaml:"config_version"`
	Display       DisplayConfig `yaml:"display"`
	Colors        ColorConfig   `yaml:"colors"`
	Data          DataConfig    `yaml:"data"`
	Logging       LoggingConfig `yaml:"logging"`
}

func Defaults() Settings {
	return Settings{
		ConfigVersion: 1,
		Display: DisplayConfig{
			Mode:         "slide",
			FontPercent:  DefaultFontPercent,
			ShowRef:      true,
			FontSize:     defaultRasterPx,
			RasterWidth:  1920,
			RasterHeight: 1080,
		},
		Colors: ColorConfig{
			Highlight: "#cba6f7",
			VerseNum:  "#89b4fa",
			Text:      "#cdd6f4",
			Dim:       "#313244",
		},
		Data:    DataConfig{Dir: "bible-data"},
		Logging: LoggingConfig{Level: "info", Format: "console"},
	}
}

// Env var names used as overrides. Logging shares the names read by the log package.
const (
	EnvConfigDir   = "BIBLESLIDES_CONFIG_DIR"
	EnvDataDir     = "BIBLESLIDES_DATA_DIR"
	EnvTranslation = "BIBLESLIDES_TRANSLATION"
	EnvMode        = "BIBLESLIDES_MODE"
	EnvFontPercent = "BIBLESLIDES_FONT_PERCENT"
	EnvShowRef     = "BIBLESLIDES_SHOW_REF"
	EnvFontFile    = "BIBLESLIDES_FONT_FILE"
)

// Dir returns the per-user directory holding settings and state.
func Dir() (string, error) {
	if d := strings.TrimSpace(os.Getenv(EnvConfigDir)); d != "" {
		return d, nil
	}
	base, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("cannot resolve config directory: %w", err)
	}
	return filepath.Join(base, appDir), nil
}

func ensureDir() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	return dir, nil
}

// SettingsPath returns the settings file path.
func SettingsPath() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, settingsFile), nil
}

// Load reads the settings file if present, applies defaults and then
// environment overrides. A malformed file is reported but defaults are
// still returned.
func Load() (Settings, error) {
	cfg := Defaults()
	path, err := SettingsPath()
	if err != nil {
		return cfg, err
	}
	var parseErr error
	if data, err := os.ReadFile(path); err == nil {
		fileCfg := Defaults()
		if err := yaml.Unmarshal(data, &fileCfg); err != nil {
			parseErr = fmt.Errorf("parse %s: %w", path, err)
		} else {
			mergeInto(&cfg, &fileCfg)
		}
	} else if !errors.Is(err, os.ErrNotExist) {
		parseErr = fmt.Errorf("read %s: %w", path, err)
	}
	applyEnvOverrides(&cfg)
	cfg.normalize()
	return cfg, parseErr
}

// Save writes the settings YAML.
func Save(cfg Settings) error {
	dir, err := ensureDir()
	if err != nil {
		return err
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(dir, settingsFile), data, 0o644)
}

func (cfg *Settings) normalize() {
	if cfg.Display.FontPercent <= 0 {
		cfg.Display.FontPercent = DefaultFontPercent
	}
	if cfg.Display.FontSize <= 0 {
		cfg.Display.FontSize = defaultRasterPx
	}
	if strings.TrimSpace(cfg.Display.Mode) == "" {
		cfg.Display.Mode = "slide"
	}
	d := Defaults().Display
	if cfg.Display.RasterWidth <= 0 {
		cfg.Display.RasterWidth = d.RasterWidth
	}
	if cfg.Display.RasterHeight <= 0 {
		cfg.Display.RasterHeight = d.RasterHeight
	}
	cfg.Display.Margin = max(cfg.Display.Margin, 0)
}

func mergeInto(dst *Settings, src *Settings) {
	if src.ConfigVersion != 0 {
		dst.ConfigVersion = src.ConfigVersion
	}
	if v := strings.TrimSpace(src.Display.Mode); v != "" {
		dst.Display.Mode = strings.ToLower(v)
	}
	if src.Display.FontPercent != 0 {
		dst.Display.FontPercent = src.Display.FontPercent
	}
	// booleans: copy directly so an explicit false in the file persists
	dst.Display.ShowRef = src.Display.ShowRef
	if src.Display.FontSize != 0 {
		dst.Display.FontSize = src.Display.FontSize
	}
	if v := strings.TrimSpace(src.Display.FontFile); v != "" {
		dst.Display.FontFile = v
	}
	if src.Display.RasterWidth != 0 {
		dst.Display.RasterWidth = src.Display.RasterWidth
	}
	if src.Display.RasterHeight != 0 {
		dst.Display.RasterHeight = src.Display.RasterHeight
	}
	if src.Display.Margin != 0 {
		dst.Display.Margin = src.Display.Margin
	}

	setIfSet(&dst.Colors.Highlight, src.Colors.Highlight)
	setIfSet(&dst.Colors.VerseNum, src.Colors.VerseNum)
	setIfSet(&dst.Colors.Text, src.Colors.Text)
	setIfSet(&dst.Colors.Dim, src.Colors.Dim)
	setIfSet(&dst.Data.Dir, src.Data.Dir)
	setIfSet(&dst.Data.Translation, src.Data.Translation)
	setIfSet(&dst.Logging.File, src.Logging.File)

	if v := strings.TrimSpace(src.Logging.Level); v != "" {
		dst.Logging.Level = strings.ToLower(v)
	}
	if v := strings.TrimSpace(src.Logging.Format); v != "" {
		dst.Logging.Format = strings.ToLower(v)
	}
	dst.Logging.Source = src.Logging.Source
}

func setIfSet(dst *string, src string) {
	if v := strings.TrimSpace(src); v != "" {
		*dst = v
	}
}

func isTrue(v string) bool {
	lv := strings.ToLower(strings.TrimSpace(v))
	return lv == "1" || lv == "true" || lv == "on" || lv == "yes"
}

func applyEnvOverrides(cfg *Settings) {
	if v := strings.TrimSpace(os.Getenv(EnvDataDir)); v != "" {
		cfg.Data.Dir = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvTranslation)); v != "" {
		cfg.Data.Translation = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvMode)); v != "" {
		cfg.Display.Mode = strings.ToLower(v)
	}
	if v := strings.TrimSpace(os.Getenv(EnvFontPercent)); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Display.FontPercent = n
		}
	}
	if v := strings.TrimSpace(os.Getenv(EnvShowRef)); v != "" {
		cfg.Display.ShowRef = isTrue(v)
	}
	if v := strings.TrimSpace(os.Getenv(EnvFontFile)); v != "" {
		cfg.Display.FontFile = v
	}
	// logging overrides
	if v := strings.TrimSpace(os.Getenv(applog.EnvLevel)); v != "" {
		cfg.Logging.Level = strings.ToLower(v)
	}
	if v := strings.TrimSpace(os.Getenv(applog.EnvFormat)); v != "" {
		cfg.Logging.Format = strings.ToLower(v)
	}
	if v := strings.TrimSpace(os.Getenv(applog.EnvSource)); v != "" {
		cfg.Logging.Source = isTrue(v)
	}
	if v := strings.TrimSpace(os.Getenv(applog.EnvFile)); v != "" {
		cfg.Logging.File = v
	}
}

// EnvOverrideFor returns the env var name if the field is overridden by environment variables.
func EnvOverrideFor(key string) (string, bool) {
	name, ok := map[string]string{
		"data.dir":             EnvDataDir,
		"data.translation":     EnvTranslation,
		"display.mode":         EnvMode,
		"display.font_percent": EnvFontPercent,
		"display.show_ref":     EnvShowRef,
		"display.font_file":    EnvFontFile,
		"logging.level":        applog.EnvLevel,
		"logging.format":       applog.EnvFormat,
		"logging.source":       applog.EnvSource,
		"logging.file":         applog.EnvFile,
	}[key]
	if !ok || os.Getenv(name) == "" {
		return "", false
	}
	return name, true
}

// LogOptions converts the logging section for log.Init.
func (l LoggingConfig) LogOptions() applog.Options {
	return applog.Options{Level: l.Level, Format: l.Format, AddSource: l.Source, File: l.File}
}
