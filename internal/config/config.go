package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// ManifestName is the file probe looks for when loading project settings.
const ManifestName = "probe.toml"

// Settings holds the analysis knobs a probe.toml may override.
type Settings struct {
	MaxDiagnostics        int  `toml:"max_diagnostics" json:"max_diagnostics"`
	SuppressDebugWarnings bool `toml:"suppress_debug_warnings" json:"suppress_debug_warnings"`
	PreliminaryPass       bool `toml:"preliminary_pass" json:"preliminary_pass"`
}

// Manifest is a loaded probe.toml plus where it was found.
type Manifest struct {
	Path     string
	Root     string
	Analysis Settings `toml:"analysis"`
}

// Default returns the settings used when no manifest overrides them.
func Default() Settings {
	return Settings{
		MaxDiagnostics:        100,
		SuppressDebugWarnings: true,
		PreliminaryPass:       true,
	}
}

// Find walks from startDir up to the filesystem root looking for probe.toml.
func Find(startDir string) (string, bool, error) {
	if startDir == "" {
		startDir = "."
	}
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", false, fmt.Errorf("failed to resolve start directory: %w", err)
	}
	for {
		candidate := filepath.Join(dir, ManifestName)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, true, nil
		} else if !errors.Is(err, os.ErrNotExist) {
			return "", false, fmt.Errorf("failed to stat %q: %w", candidate, err)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", false, nil
}

// Load parses the manifest at path. Missing keys keep their defaults.
func Load(path string) (*Manifest, error) {
	m := &Manifest{Analysis: Default()}
	if _, err := toml.DecodeFile(path, m); err != nil {
		return nil, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if m.Analysis.MaxDiagnostics <= 0 {
		return nil, fmt.Errorf("%s: max_diagnostics must be positive", path)
	}
	m.Path = path
	m.Root = filepath.Dir(path)
	return m, nil
}

// LoadOrDefault finds and loads the nearest manifest above startDir, falling
// back to defaults when none exists.
func LoadOrDefault(startDir string) (*Manifest, error) {
	path, ok, err := Find(startDir)
	if err != nil {
		return nil, err
	}
	if !ok {
		return &Manifest{Analysis: Default()}, nil
	}
	return Load(path)
}
