// Package config loads and caches the catalog of game maps: the
// built-in map plus any JSON map files found in the maps directory.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"ticketgame/game/engine"
	"ticketgame/validate"
)

var (
	ErrMapNotFound = errors.New("map not found")
	ErrInvalidMap  = errors.New("invalid map")
)

// MapInfo describes one catalog entry for listings.
type MapInfo struct {
	Name         string `json:"name"`
	Cities       int    `json:"cities"`
	Segments     int    `json:"segments"`
	LongTickets  int    `json:"longTickets"`
	ShortTickets int    `json:"shortTickets"`
	BuiltIn      bool   `json:"builtIn"`
}

// Manager resolves maps by name. Loaded maps are cached; the built-in
// map is always available under its own name.
type Manager struct {
	mapsDir string

	mu   sync.RWMutex
	maps map[string]*engine.Map
}

// NewManager creates a manager over the given maps directory. An empty
// dir serves the built-in map only.
func NewManager(mapsDir string) (*Manager, error) {
	if mapsDir != "" {
		if _, err := os.Stat(mapsDir); err != nil {
			return nil, fmt.Errorf("maps directory: %w", err)
		}
	}
	m := &Manager{
		mapsDir: mapsDir,
		maps:    make(map[string]*engine.Map),
	}
	builtin := engine.NewBuiltinMap()
	m.maps[builtin.Name] = builtin
	return m, nil
}

// Map resolves a map by name, loading it from disk on first use.
func (m *Manager) Map(name string) (*engine.Map, error) {
	m.mu.RLock()
	if cached, ok := m.maps[name]; ok {
		m.mu.RUnlock()
		return cached, nil
	}
	m.mu.RUnlock()

	m.mu.Lock()
	defer m.mu.Unlock()
	if cached, ok := m.maps[name]; ok {
		return cached, nil
	}

	loaded, err := m.load(name)
	if err != nil {
		return nil, err
	}
	m.maps[name] = loaded
	return loaded, nil
}

// Default returns the built-in map.
func (m *Manager) Default() *engine.Map {
	gameMap, _ := m.Map(engine.BuiltinMapName)
	return gameMap
}

// List describes every available map: the built-in one plus every valid
// JSON file in the maps directory. Invalid files are skipped.
func (m *Manager) List() ([]MapInfo, error) {
	infos := []MapInfo{info(engine.NewBuiltinMap(), true)}
	if m.mapsDir == "" {
		return infos, nil
	}

	entries, err := os.ReadDir(m.mapsDir)
	if err != nil {
		return nil, fmt.Errorf("failed to read maps directory: %w", err)
	}
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		name := strings.TrimSuffix(entry.Name(), ".json")
		if name == engine.BuiltinMapName {
			continue
		}
		gameMap, err := m.Map(name)
		if err != nil {
			continue
		}
		infos = append(infos, info(gameMap, false))
	}
	return infos, nil
}

// RefreshCache drops every map loaded from disk. The built-in map is
// kept.
func (m *Manager) RefreshCache() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.maps = make(map[string]*engine.Map)
	builtin := engine.NewBuiltinMap()
	m.maps[builtin.Name] = builtin
}

// Save validates and writes a map to the maps directory.
func (m *Manager) Save(gameMap *engine.Map) error {
	if m.mapsDir == "" {
		return errors.New("no maps directory configured")
	}
	if err := gameMap.Init(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidMap, err)
	}
	if result := validate.Map(gameMap); !result.Valid {
		return fmt.Errorf("%w: %s", ErrInvalidMap, strings.Join(result.Errors, "; "))
	}

	data, err := json.MarshalIndent(gameMap, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal map: %w", err)
	}
	path := filepath.Join(m.mapsDir, gameMap.Name+".json")
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write map file: %w", err)
	}

	m.mu.Lock()
	m.maps[gameMap.Name] = gameMap
	m.mu.Unlock()
	return nil
}

func (m *Manager) load(name string) (*engine.Map, error) {
	if m.mapsDir == "" {
		return nil, ErrMapNotFound
	}
	path := filepath.Join(m.mapsDir, name+".json")
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrMapNotFound
		}
		return nil, fmt.Errorf("failed to read map file: %w", err)
	}

	var gameMap engine.Map
	if err := json.Unmarshal(data, &gameMap); err != nil {
		return nil, fmt.Errorf("failed to parse map: %w", err)
	}
	if gameMap.Name == "" {
		gameMap.Name = name
	}
	if err := gameMap.Init(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidMap, err)
	}
	if result := validate.Map(&gameMap); !result.Valid {
		return nil, fmt.Errorf("%w: %s", ErrInvalidMap, strings.Join(result.Errors, "; "))
	}
	return &gameMap, nil
}

func info(m *engine.Map, builtIn bool) MapInfo {
	return MapInfo{
		Name:         m.Name,
		Cities:       len(m.Cities),
		Segments:     len(m.Segments),
		LongTickets:  len(m.LongTickets()),
		ShortTickets: len(m.ShortTickets()),
		BuiltIn:      builtIn,
	}
}
