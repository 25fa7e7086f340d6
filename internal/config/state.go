package config

import (
	"encoding/json"
	"os"
	"path/filepath"
)

// State is what the presenter restores on the next launch.
type State struct {
	Translation string `json:"translation"`
	Book        string `json:"book"`
	Chapter     int    `json:"chapter"`
	Verse       int    `json:"verse"`
	EndChapter  int    `json:"endChapter,omitempty"`
	EndVerse    int    `json:"endVerse,omitempty"`
	Mode        string `json:"mode"`
	FontPercent int    `json:"fontPercent"`
	ShowRef     bool   `json:"showRef"`
	Zen         bool   `json:"zen,omitempty"`
}

func defaultState() State {
	d := Defaults().Display
	return State{Chapter: 1, Verse: 1, Mode: d.Mode, FontPercent: d.FontPercent, ShowRef: d.ShowRef}
}

func statePath() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, stateFile), nil
}

// SaveState writes s as state.json in the config directory.
func SaveState(s State) error {
	dir, err := ensureDir()
	if err != nil {
		return err
	}
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(dir, stateFile), data, 0o644)
}

// LoadState returns the saved state, or defaults when there is none or it
// cannot be read.
func LoadState() (State, error) {
	path, err := statePath()
	if err != nil {
		return defaultState(), err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return defaultState(), nil
	}
	state := defaultState()
	if err := json.Unmarshal(data, &state); err != nil || state.Translation == "" {
		return defaultState(), nil
	}
	if state.Chapter <= 0 {
		state.Chapter = 1
	}
	if state.Verse <= 0 {
		state.Verse = 1
	}
	if state.FontPercent <= 0 {
		state.FontPercent = DefaultFontPercent
	}
	return state, nil
}
