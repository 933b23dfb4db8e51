// Package projectconfig provides the ProjectConfig struct and loader for
// .parbench.yaml project-level configuration files.
package projectconfig

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/spboyer/parbench/internal/hooks"
	"github.com/spboyer/parbench/internal/utils"
)

// FileName is the project configuration file looked up from the working directory.
const FileName = ".parbench.yaml"

// Default values for project configuration. New() references them and no
// other code should duplicate them.
const (
	DefaultBinary      = "bin/main"
	DefaultDataPattern = "data/*.jss"
	DefaultOutputDir   = "output"
	DefaultChart       = "benchmark_results.png"

	DefaultThreads     = "1,2,4,8,16,32"
	DefaultRepetitions = 10
)

// maxWalkUp bounds how many parent directories are searched.
const maxWalkUp = 10

// PathsConfig holds the solver binary and input/output locations.
type PathsConfig struct {
	Binary      string `yaml:"binary,omitempty"`
	DataPattern string `yaml:"data,omitempty"`
	OutputDir   string `yaml:"output,omitempty"`
	Chart       string `yaml:"chart,omitempty"`
}

// DefaultsConfig holds default run parameters.
type DefaultsConfig struct {
	Threads     string `yaml:"threads,omitempty"`
	Repetitions int    `yaml:"repetitions,omitempty"`
	Verbose     *bool  `yaml:"verbose,omitempty"`
	Display     *bool  `yaml:"display,omitempty"`
}

// ProjectConfig is the top-level configuration loaded from .parbench.yaml.
type ProjectConfig struct {
	Paths    PathsConfig    `yaml:"paths,omitempty"`
	Defaults DefaultsConfig `yaml:"defaults,omitempty"`
	Hooks    hooks.Config   `yaml:"hooks,omitempty"`

	// Dir is the directory holding the loaded file; empty when defaults are used.
	Dir string `yaml:"-"`
}

// New returns a ProjectConfig with all hard-coded defaults populated.
func New() *ProjectConfig {
	return &ProjectConfig{
		Paths: PathsConfig{
			Binary:      DefaultBinary,
			DataPattern: DefaultDataPattern,
			OutputDir:   DefaultOutputDir,
			Chart:       DefaultChart,
		},
		Defaults: DefaultsConfig{
			Threads:     DefaultThreads,
			Repetitions: DefaultRepetitions,
			Verbose:     boolPtr(false),
			Display:     boolPtr(true),
		},
	}
}

// Load finds .parbench.yaml by walking up from startDir (max 10 levels),
// unmarshals it, and fills in missing fields with defaults. Relative paths
// in the file are resolved against the file's directory.
// If no config file is found, returns defaults with a nil error.
func Load(startDir string) (*ProjectConfig, error) {
	cfg := New()

	path, data, err := findConfigFile(startDir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return nil, fmt.Errorf("loading %s: %w", FileName, err)
	}

	var fileCfg ProjectConfig
	if err := yaml.Unmarshal(data, &fileCfg); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	if fileCfg.Defaults.Repetitions < 0 {
		return nil, fmt.Errorf("parsing %s: defaults.repetitions must be positive, got %d", path, fileCfg.Defaults.Repetitions)
	}

	fileCfg.Dir = filepath.Dir(path)
	p := &fileCfg.Paths
	resolved := utils.ResolveFrom(fileCfg.Dir, p.Binary, p.DataPattern, p.OutputDir, p.Chart)
	p.DataPattern, p.OutputDir, p.Chart = resolved[1], resolved[2], resolved[3]
	// A bare command name is looked up on PATH, not next to the config file.
	if isPathLike(p.Binary) {
		p.Binary = resolved[0]
	}
	resolveHookDirs(fileCfg.Dir, fileCfg.Hooks.BeforeRun)
	resolveHookDirs(fileCfg.Dir, fileCfg.Hooks.AfterRun)

	mergeConfig(cfg, &fileCfg)
	return cfg, nil
}

func isPathLike(s string) bool {
	return strings.ContainsAny(s, `/\`)
}

func resolveHookDirs(baseDir string, hs []hooks.Hook) {
	for i := range hs {
		hs[i].Dir = utils.ResolveFrom(baseDir, hs[i].Dir)[0]
	}
}

// findConfigFile walks up from dir looking for .parbench.yaml. Returns
// os.ErrNotExist if none is found and propagates real I/O errors.
func findConfigFile(dir string) (string, []byte, error) {
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return "", nil, fmt.Errorf("resolving path %q: %w", dir, err)
	}
	dir = absDir

	for i := 0; i < maxWalkUp; i++ {
		p := filepath.Join(dir, FileName)
		data, err := os.ReadFile(p)
		if err == nil {
			return p, data, nil
		}
		if !errors.Is(err, os.ErrNotExist) {
			return "", nil, fmt.Errorf("reading %q: %w", p, err)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break // reached filesystem root
		}
		dir = parent
	}
	return "", nil, os.ErrNotExist
}

// mergeConfig overlays non-zero values from src onto dst.
func mergeConfig(dst, src *ProjectConfig) {
	dst.Dir = src.Dir

	// Paths
	if src.Paths.Binary != "" {
		dst.Paths.Binary = src.Paths.Binary
	}
	if src.Paths.DataPattern != "" {
		dst.Paths.DataPattern = src.Paths.DataPattern
	}
	if src.Paths.OutputDir != "" {
		dst.Paths.OutputDir = src.Paths.OutputDir
	}
	if src.Paths.Chart != "" {
		dst.Paths.Chart = src.Paths.Chart
	}

	// Defaults
	if src.Defaults.Threads != "" {
		dst.Defaults.Threads = src.Defaults.Threads
	}
	if src.Defaults.Repetitions != 0 {
		dst.Defaults.Repetitions = src.Defaults.Repetitions
	}
	if src.Defaults.Verbose != nil {
		dst.Defaults.Verbose = src.Defaults.Verbose
	}
	if src.Defaults.Display != nil {
		dst.Defaults.Display = src.Defaults.Display
	}

	// Hooks
	if len(src.Hooks.BeforeRun) > 0 {
		dst.Hooks.BeforeRun = src.Hooks.BeforeRun
	}
	if len(src.Hooks.AfterRun) > 0 {
		dst.Hooks.AfterRun = src.Hooks.AfterRun
	}
}

func boolPtr(b bool) *bool {
	return &b
}
