package bible

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
)

const (
	jsonSuffix   = "_bible.json"
	sqliteSuffix = "_bible.db"
)

// Library is a directory of translations named <NAME>_bible.json or
// <NAME>_bible.db, loaded on first use and cached.
type Library struct {
	mu           sync.Mutex
	translations map[string]*Store
	names        []string
	paths        map[string]string
	log          *slog.Logger
}

// OpenLibrary indexes the translations in dir.
func OpenLibrary(dir string, logger *slog.Logger) (*Library, error) {
	if logger == nil {
		logger = slog.Default()
	}
	lib := &Library{
		translations: make(map[string]*Store),
		paths:        make(map[string]string),
		log:          logger,
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read bible data dir: %w", err)
	}
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		var trans string
		switch {
		case strings.HasSuffix(name, jsonSuffix):
			trans = strings.TrimSuffix(name, jsonSuffix)
		case strings.HasSuffix(name, sqliteSuffix):
			trans = strings.TrimSuffix(name, sqliteSuffix)
		default:
			continue
		}
		// A database wins over JSON of the same translation.
		if prev, ok := lib.paths[trans]; ok && strings.HasSuffix(prev, sqliteSuffix) {
			continue
		}
		if _, ok := lib.paths[trans]; !ok {
			lib.names = append(lib.names, trans)
		}
		lib.paths[trans] = filepath.Join(dir, name)
	}
	if len(lib.names) == 0 {
		return nil, fmt.Errorf("no bible files in %s (expected files like KRV%s): %w", dir, jsonSuffix, ErrNoData)
	}
	sort.Strings(lib.names)
	return lib, nil
}

// Translations lists translation names alphabetically.
func (l *Library) Translations() []string { return l.names }

// Get loads (or returns the cached) translation.
func (l *Library) Get(ctx context.Context, translation string) (*Store, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if s, ok := l.translations[translation]; ok {
		return s, nil
	}
	path, ok := l.paths[translation]
	if !ok {
		return nil, fmt.Errorf("translation %q: %w", translation, ErrNoData)
	}

	s, err := Load(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("translation %q: %w", translation, err)
	}
	l.log.Info("translation loaded", slog.String("translation", translation),
		slog.String("path", path), slog.Int("verses", s.Len()), slog.Int("books", len(s.Books())))
	l.translations[translation] = s
	return s, nil
}

// Load reads a single bible file, JSON or SQLite by extension.
func Load(ctx context.Context, path string) (*Store, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".db", ".sqlite", ".sqlite3":
		return LoadSQLite(ctx, path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(data)
}
