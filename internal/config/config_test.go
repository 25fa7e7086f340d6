package config

import (
	"os"
	"path/filepath"
	"testing"

	applog "bible-slides/internal/log"
)

func useTempDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv(EnvConfigDir, dir)
	return dir
}

func TestLoadWithoutFileGivesDefaults(t *testing.T) {
	useTempDir(t)
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg != Defaults() {
		t.Fatalf("Load() = %#v, want defaults", cfg)
	}
	if !cfg.Display.ShowRef || cfg.Display.Mode != "slide" || cfg.Display.FontPercent != 100 {
		t.Fatalf("unexpected display defaults: %#v", cfg.Display)
	}
}

func TestSaveThenLoad(t *testing.T) {
	useTempDir(t)
	cfg := Defaults()
	cfg.Display.ShowRef = false
	cfg.Display.Mode = "scroll"
	cfg.Data.Translation = "KRV"
	cfg.Colors.Text = "#ffffff"
	cfg.Display.Margin = 24
	if err := Save(cfg); err != nil {
		t.Fatalf("Save: %v", err)
	}
	got, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got != cfg {
		t.Fatalf("round trip = %#v, want %#v", got, cfg)
	}
}

func TestPartialFileKeepsDefaults(t *testing.T) {
	dir := useTempDir(t)
	yml := "display:\n  font_percent: -5\n  margin: -3\n  mode: Slide-Scroll\ndata:\n  translation: KJV\n"
	if err := os.WriteFile(filepath.Join(dir, settingsFile), []byte(yml), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Display.FontPercent != DefaultFontPercent {
		t.Fatalf("invalid font percent kept: %d", cfg.Display.FontPercent)
	}
	if cfg.Display.Margin != 0 {
		t.Fatalf("negative margin kept: %d", cfg.Display.Margin)
	}
	if cfg.Display.Mode != "slide-scroll" || cfg.Data.Translation != "KJV" {
		t.Fatalf("file values lost: %#v", cfg)
	}
	if !cfg.Display.ShowRef || cfg.Colors.Highlight != Defaults().Colors.Highlight {
		t.Fatalf("unset fields lost their defaults: %#v", cfg)
	}
}

func TestMalformedFileReportsErrorWithDefaults(t *testing.T) {
	dir := useTempDir(t)
	if err := os.WriteFile(filepath.Join(dir, settingsFile), []byte("display: [oops"), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load()
	if err == nil {
		t.Fatalf("expected parse error")
	}
	if cfg != Defaults() {
		t.Fatalf("defaults not returned: %#v", cfg)
	}
}

func TestMergeIncludesLogging(t *testing.T) {
	dst := Defaults()
	src := Defaults()
	src.Logging.Level = "DEBUG"
	src.Logging.Format = "json"
	src.Logging.Source = true
	src.Logging.File = "/tmp/bs.log"
	mergeInto(&dst, &src)
	if dst.Logging.Level != "debug" || dst.Logging.Format != "json" || !dst.Logging.Source || dst.Logging.File != "/tmp/bs.log" {
		t.Fatalf("logging fields not merged correctly: %#v", dst.Logging)
	}
	opts := dst.Logging.LogOptions()
	if opts.Level != "debug" || !opts.AddSource || opts.File != "/tmp/bs.log" {
		t.Fatalf("LogOptions = %#v", opts)
	}
}

func TestEnvOverrides(t *testing.T) {
	useTempDir(t)
	t.Setenv(EnvTranslation, "NIV")
	t.Setenv(EnvShowRef, "off")
	t.Setenv(EnvFontPercent, "150")
	t.Setenv(applog.EnvLevel, "ERROR")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Data.Translation != "NIV" || cfg.Display.ShowRef || cfg.Display.FontPercent != 150 || cfg.Logging.Level != "error" {
		t.Fatalf("env overrides not applied: %#v", cfg)
	}
	if name, ok := EnvOverrideFor("display.show_ref"); !ok || name != EnvShowRef {
		t.Fatalf("EnvOverrideFor(display.show_ref) = %q, %v", name, ok)
	}
	if _, ok := EnvOverrideFor("display.mode"); ok {
		t.Fatalf("display.mode is not overridden")
	}
	if _, ok := EnvOverrideFor("no.such.key"); ok {
		t.Fatalf("unknown key reported as overridden")
	}
}

func TestStateRoundTrip(t *testing.T) {
	useTempDir(t)

	s, err := LoadState()
	if err != nil {
		t.Fatalf("LoadState: %v", err)
	}
	if s != defaultState() {
		t.Fatalf("missing state = %#v", s)
	}

	want := State{Translation: "KRV", Book: "요", Chapter: 3, Verse: 16, Mode: "slide", FontPercent: 180, ShowRef: true}
	if err := SaveState(want); err != nil {
		t.Fatalf("SaveState: %v", err)
	}
	got, err := LoadState()
	if err != nil {
		t.Fatalf("LoadState: %v", err)
	}
	if got != want {
		t.Fatalf("LoadState = %#v, want %#v", got, want)
	}
}

func TestStateWithoutTranslationIsDefault(t *testing.T) {
	dir := useTempDir(t)
	if err := os.WriteFile(filepath.Join(dir, stateFile), []byte(`{"book":"창","chapter":0}`), 0o644); err != nil {
		t.Fatal(err)
	}
	s, _ := LoadState()
	if s != defaultState() {
		t.Fatalf("LoadState = %#v", s)
	}
}
