// Package config resolves the effective tc configuration from defaults,
// JSONC config files, a .env file, the environment and CLI overrides.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"maps"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/tailscale/hujson"

	"github.com/calvinalkan/taskcal/internal/kv"
	"github.com/calvinalkan/taskcal/internal/view"
)

// Errors returned by [Load]. Each is wrapped with the offending path or value.
var (
	ErrFileNotFound   = errors.New("config file not found")
	ErrFileRead       = errors.New("cannot read config file")
	ErrInvalid        = errors.New("invalid config")
	ErrDataDirEmpty   = errors.New("data_dir cannot be empty")
	ErrBackendEmpty   = errors.New("backend cannot be empty")
	ErrInvalidDotEnv  = errors.New("invalid .env file")
	errNoWorkingDir   = errors.New("cannot get working directory")
	errEndpointNoHTTP = errors.New("lyrics_endpoint must be an http(s) URL")
)

const (
	// FileName is the project config file looked up in the working directory.
	FileName = ".tc.json"

	// DotEnvName is the optional env file merged under the process environment.
	DotEnvName = ".env"

	DefaultLyricsModel    = "gemini-2.5-flash-preview-05-20"
	DefaultLyricsEndpoint = "https://generativelanguage.googleapis.com/v1beta"

	envLocale = "TC_LOCALE"
	envAPIKey = "GEMINI_API_KEY"
)

// Config holds all configuration options.
type Config struct {
	DataDir        string `json:"data_dir"`
	Backend        string `json:"backend"`
	Locale         string `json:"locale"`
	LyricsModel    string `json:"lyrics_model"`
	LyricsEndpoint string `json:"lyrics_endpoint"`

	EffectiveCwd string `json:"-"`
	DataDirAbs   string `json:"-"`

	// EnvAPIKey is GEMINI_API_KEY, used when no key is stored.
	EnvAPIKey string `json:"-"`

	Sources Sources `json:"-"`
}

// Sources tracks which files contributed to the config.
type Sources struct {
	Global  string
	Project string
	DotEnv  string
	Env     []string // environment variables that overrode a value
}

// Default returns the default configuration.
func Default() Config {
	return Config{
		DataDir:        ".taskcal",
		Backend:        kv.BackendFile,
		Locale:         "en",
		LyricsModel:    DefaultLyricsModel,
		LyricsEndpoint: DefaultLyricsEndpoint,
	}
}

// Input holds the inputs for [Load].
type Input struct {
	WorkDirOverride string            // -C/--cwd; os.Getwd() when empty
	ConfigPath      string            // -c/--config
	DataDirOverride *string           // --data-dir; nil when not given
	BackendOverride *string           // --backend; nil when not given
	Env             map[string]string // process environment
}

// Load resolves the configuration. Precedence, lowest first:
//
//  1. defaults
//  2. global config ($XDG_CONFIG_HOME/tc/config.json or ~/.config/tc/config.json)
//  3. project config (.tc.json) or the explicit -c file
//  4. environment, with .env values under the process environment
//  5. CLI overrides
func Load(in Input) (Config, error) {
	workDir := in.WorkDirOverride
	if workDir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return Config{}, fmt.Errorf("%w: %w", errNoWorkingDir, err)
		}

		workDir = wd
	}

	cfg := Default()

	globalPath := globalConfigPath(in.Env)
	if globalPath != "" {
		loaded, err := mergeFile(&cfg, globalPath, false)
		if err != nil {
			return Config{}, err
		}

		if loaded {
			cfg.Sources.Global = globalPath
		}
	}

	projectPath := filepath.Join(workDir, FileName)
	mustExist := false

	if in.ConfigPath != "" {
		projectPath = in.ConfigPath
		if !filepath.IsAbs(projectPath) {
			projectPath = filepath.Join(workDir, projectPath)
		}

		mustExist = true
	}

	loaded, err := mergeFile(&cfg, projectPath, mustExist)
	if err != nil {
		return Config{}, err
	}

	if loaded {
		cfg.Sources.Project = projectPath
	}

	env, dotEnvPath, err := LoadEnv(workDir, in.Env)
	if err != nil {
		return Config{}, err
	}

	cfg.Sources.DotEnv = dotEnvPath

	if v := env[envLocale]; v != "" {
		cfg.Locale = v
		cfg.Sources.Env = append(cfg.Sources.Env, envLocale)
	}

	cfg.EnvAPIKey = env[envAPIKey]

	if in.DataDirOverride != nil {
		if *in.DataDirOverride == "" {
			return Config{}, ErrDataDirEmpty
		}

		cfg.DataDir = *in.DataDirOverride
	}

	if in.BackendOverride != nil {
		if *in.BackendOverride == "" {
			return Config{}, ErrBackendEmpty
		}

		cfg.Backend = *in.BackendOverride
	}

	err = validate(cfg)
	if err != nil {
		return Config{}, err
	}

	cfg.EffectiveCwd = workDir

	cfg.DataDirAbs = cfg.DataDir
	if !filepath.IsAbs(cfg.DataDirAbs) {
		cfg.DataDirAbs = filepath.Join(workDir, cfg.DataDir)
	}

	return cfg, nil
}

// LoadEnv returns env with the values of workDir/.env added for keys env
// does not already set. The returned path is empty if there was no .env.
func LoadEnv(workDir string, env map[string]string) (map[string]string, string, error) {
	merged := maps.Clone(env)
	if merged == nil {
		merged = map[string]string{}
	}

	path := filepath.Join(workDir, DotEnvName)

	fromFile, err := godotenv.Read(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return merged, "", nil
		}

		return nil, "", fmt.Errorf("%w %s: %w", ErrInvalidDotEnv, path, err)
	}

	for k, v := range fromFile {
		if _, set := merged[k]; !set {
			merged[k] = v
		}
	}

	return merged, path, nil
}

func globalConfigPath(env map[string]string) string {
	if xdg := env["XDG_CONFIG_HOME"]; xdg != "" {
		return filepath.Join(xdg, "tc", "config.json")
	}

	if home := env["HOME"]; home != "" {
		return filepath.Join(home, ".config", "tc", "config.json")
	}

	return ""
}

// mergeFile overlays the non-empty fields of the file at path onto cfg.
// A present but empty data_dir is rejected.
func mergeFile(cfg *Config, path string, mustExist bool) (bool, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if !mustExist {
			return false, nil
		}

		if errors.Is(err, os.ErrNotExist) {
			return false, fmt.Errorf("%w: %s", ErrFileNotFound, path)
		}

		return false, fmt.Errorf("%w: %s", ErrFileRead, path)
	}

	file, explicitEmpty, err := parse(data)
	if err != nil {
		return false, fmt.Errorf("%w %s: %w", ErrInvalid, path, err)
	}

	if explicitEmpty["data_dir"] {
		return false, fmt.Errorf("%w %s: %w", ErrInvalid, path, ErrDataDirEmpty)
	}

	overlay(cfg, file)

	return true, nil
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

	var raw map[string]any

	_ = json.Unmarshal(standardized, &raw)

	explicitEmpty := make(map[string]bool)

	for k, v := range raw {
		if s, ok := v.(string); ok && s == "" {
			explicitEmpty[k] = true
		}
	}

	return cfg, explicitEmpty, nil
}

func overlay(base *Config, o Config) {
	if o.DataDir != "" {
		base.DataDir = o.DataDir
	}

	if o.Backend != "" {
		base.Backend = o.Backend
	}

	if o.Locale != "" {
		base.Locale = o.Locale
	}

	if o.LyricsModel != "" {
		base.LyricsModel = o.LyricsModel
	}

	if o.LyricsEndpoint != "" {
		base.LyricsEndpoint = o.LyricsEndpoint
	}
}

func validate(cfg Config) error {
	if cfg.DataDir == "" {
		return ErrDataDirEmpty
	}

	switch cfg.Backend {
	case kv.BackendFile, kv.BackendSQLite:
	default:
		return fmt.Errorf("%w: %w: %s", ErrInvalid, kv.ErrUnknownBackend, cfg.Backend)
	}

	_, err := view.LookupLocale(cfg.Locale)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalid, err)
	}

	if !strings.HasPrefix(cfg.LyricsEndpoint, "http://") && !strings.HasPrefix(cfg.LyricsEndpoint, "https://") {
		return fmt.Errorf("%w: %w: %s", ErrInvalid, errEndpointNoHTTP, cfg.LyricsEndpoint)
	}

	return nil
}
