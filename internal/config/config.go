// Package config resolves td's layered configuration.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/calvinalkan/agent-todo/internal/kv"
	"github.com/calvinalkan/agent-todo/internal/logging"
	"github.com/tailscale/hujson"
)

// Config holds all configuration options.
type Config struct {
	// From config files (serialized)
	DataDir   string `json:"data_dir"`
	Backend   string `json:"backend,omitempty"`
	Key       string `json:"key,omitempty"`
	LogLevel  string `json:"log_level,omitempty"`
	LogFormat string `json:"log_format,omitempty"`

	// Resolved paths (computed, not serialized)
	EffectiveCwd string `json:"-"` // Absolute working directory (from -C flag or os.Getwd)
	DataDirAbs   string `json:"-"` // Absolute path to the data directory

	// Sources tracks which config files were loaded (for diagnostics)
	Sources Sources `json:"-"`
}

// Sources tracks which config files were loaded.
type Sources struct {
	Global  string // Path to global config if loaded, empty otherwise
	Project string // Path to project config if loaded, empty otherwise
}

// Default returns the default configuration.
func Default() Config {
	return Config{
		DataDir:   ".todo",
		Backend:   string(kv.BackendFile),
		Key:       "todos",
		LogLevel:  "info",
		LogFormat: logging.FormatText,
	}
}

// FileName is the project config file name.
const FileName = ".td.json"

// Fields that a config file may not set to "".
var requiredFields = []struct {
	name string
	err  error
}{
	{"data_dir", ErrDataDirEmpty},
	{"backend", ErrBackendEmpty},
	{"key", ErrKeyEmpty},
}

// GlobalPath returns the path to the global config file.
// Uses $XDG_CONFIG_HOME/td/config.json if set, otherwise ~/.config/td/config.json.
// Returns empty string if home directory cannot be determined.
func GlobalPath(env map[string]string) string {
	if xdgConfig := env["XDG_CONFIG_HOME"]; xdgConfig != "" {
		return filepath.Join(xdgConfig, "td", "config.json")
	}

	if home := env["HOME"]; home != "" {
		return filepath.Join(home, ".config", "td", "config.json")
	}

	return ""
}

// LoadInput holds the inputs for Load.
type LoadInput struct {
	WorkDirOverride string            // -C/--cwd flag value; if empty, os.Getwd() is used
	ConfigPath      string            // -c/--config flag value
	DataDir         *string           // --data-dir flag value; nil means not given
	Backend         *string           // --backend flag value; nil means not given
	Env             map[string]string // environment variables
}

// Load loads configuration with the following precedence (highest wins):
// 1. Defaults
// 2. Global user config (~/.config/td/config.json or $XDG_CONFIG_HOME/td/config.json)
// 3. Project config file at default location (.td.json, if exists)
// 4. Explicit config file via ConfigPath (if non-empty)
// 5. CLI overrides.
//
// All paths in the returned Config are resolved to absolute paths.
func Load(input LoadInput) (Config, error) {
	workDir := input.WorkDirOverride
	if workDir == "" {
		var err error

		workDir, err = os.Getwd()
		if err != nil {
			return Config{}, fmt.Errorf("cannot get working directory: %w", err)
		}
	}

	workDir, err := filepath.Abs(workDir)
	if err != nil {
		return Config{}, fmt.Errorf("cannot resolve working directory: %w", err)
	}

	cfg := Default()

	globalCfg, globalPath, err := loadGlobal(input.Env)
	if err != nil {
		return Config{}, err
	}

	cfg.Sources.Global = globalPath
	cfg = merge(cfg, globalCfg)

	projectCfg, projectPath, err := loadProject(workDir, input.ConfigPath)
	if err != nil {
		return Config{}, err
	}

	cfg.Sources.Project = projectPath
	cfg = merge(cfg, projectCfg)

	if input.DataDir != nil {
		cfg.DataDir = *input.DataDir
	}

	if input.Backend != nil {
		cfg.Backend = *input.Backend
	}

	err = Validate(cfg)
	if err != nil {
		return Config{}, err
	}

	cfg.EffectiveCwd = workDir

	if filepath.IsAbs(cfg.DataDir) {
		cfg.DataDirAbs = filepath.Clean(cfg.DataDir)
	} else {
		cfg.DataDirAbs = filepath.Join(workDir, cfg.DataDir)
	}

	return cfg, nil
}

// Logging returns the logger settings, with TD_LOG_* variables from env
// taking precedence over the file settings.
func (c Config) Logging(env map[string]string) logging.Config {
	base := logging.DefaultConfig()

	if c.LogLevel != "" {
		base.Level = c.LogLevel
	}

	if c.LogFormat != "" {
		base.Format = c.LogFormat
	}

	return logging.ConfigFromEnv(env, base)
}

// Validate checks a merged config.
func Validate(cfg Config) error {
	if cfg.DataDir == "" {
		return ErrDataDirEmpty
	}

	if cfg.Key == "" {
		return ErrKeyEmpty
	}

	if cfg.Backend == "" {
		return ErrBackendEmpty
	}

	_, err := kv.ParseBackend(cfg.Backend)
	if err != nil {
		return err
	}

	err = kv.ValidateKey(cfg.Key)
	if err != nil {
		return err
	}

	return logging.ValidateFormat(cfg.LogFormat)
}

// loadGlobal loads the global user config file if it exists.
// Returns the config, the path if loaded, and any error.
func loadGlobal(env map[string]string) (Config, string, error) {
	path := GlobalPath(env)
	if path == "" {
		return Config{}, "", nil
	}

	cfg, loaded, err := loadFile(path, false)
	if err != nil || !loaded {
		return Config{}, "", err
	}

	return cfg, path, nil
}

// loadProject loads the project config file (.td.json) or an explicit config file.
// Returns the config, the path if loaded, and any error.
func loadProject(workDir, configPath string) (Config, string, error) {
	var path string

	var mustExist bool

	if configPath != "" {
		path = configPath
		if !filepath.IsAbs(path) {
			path = filepath.Join(workDir, path)
		}

		mustExist = true

		_, statErr := os.Stat(path)
		if statErr != nil {
			return Config{}, "", fmt.Errorf("%w: %s", ErrConfigFileNotFound, configPath)
		}
	} else {
		path = filepath.Join(workDir, FileName)
	}

	cfg, loaded, err := loadFile(path, mustExist)
	if err != nil || !loaded {
		return Config{}, "", err
	}

	return cfg, path, nil
}

// loadFile loads a config file. If mustExist is false, missing files return zero config.
// Returns the config, whether the file was loaded, and any error.
func loadFile(path string, mustExist bool) (Config, bool, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if mustExist {
			return Config{}, false, fmt.Errorf("%w: %s", ErrConfigFileRead, path)
		}

		return Config{}, false, nil
	}

	cfg, explicitEmpty, err := parse(data)
	if err != nil {
		return Config{}, false, fmt.Errorf("%w %s: %w", ErrConfigInvalid, path, err)
	}

	for _, f := range requiredFields {
		if explicitEmpty[f.name] {
			return Config{}, false, fmt.Errorf("%w %s: %w", ErrConfigInvalid, path, f.err)
		}
	}

	return cfg, true, nil
}

func parse(data []byte) (Config, map[string]bool, error) {
	standardized, err := hujson.Standardize(data)
	if err != nil {
		return Config{}, nil, fmt.Errorf("invalid JSONC: %w", err)
	}

	var cfg Config

	err = json.Unmarshal(standardized, &cfg)
	if err != nil {
		return Config{}, nil, fmt.Errorf("invalid JSON: %w", err)
	}

	// Check which fields were explicitly set to empty
	var raw map[string]any

	_ = json.Unmarshal(standardized, &raw)

	explicitEmpty := make(map[string]bool)

	for _, f := range requiredFields {
		if str, ok := raw[f.name].(string); ok && str == "" {
			explicitEmpty[f.name] = true
		}
	}

	return cfg, explicitEmpty, nil
}

func merge(base, overlay Config) Config {
	if overlay.DataDir != "" {
		base.DataDir = overlay.DataDir
	}

	if overlay.Backend != "" {
		base.Backend = overlay.Backend
	}

	if overlay.Key != "" {
		base.Key = overlay.Key
	}

	if overlay.LogLevel != "" {
		base.LogLevel = overlay.LogLevel
	}

	if overlay.LogFormat != "" {
		base.LogFormat = overlay.LogFormat
	}

	return base
}
