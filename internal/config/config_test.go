package config_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/calvinalkan/taskcal/internal/config"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()

	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o750))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
}

// isolatedInput points the global config at an empty temp dir.
func isolatedInput(t *testing.T) (config.Input, string) {
	t.Helper()

	dir := t.TempDir()

	return config.Input{
		WorkDirOverride: dir,
		Env:             map[string]string{"XDG_CONFIG_HOME": filepath.Join(dir, "xdg")},
	}, dir
}

func ptr(s string) *string { return &s }

func TestLoad_Defaults(t *testing.T) {
	t.Parallel()

	in, dir := isolatedInput(t)

	cfg, err := config.Load(in)
	require.NoError(t, err)

	assert.Equal(t, ".taskcal", cfg.DataDir)
	assert.Equal(t, filepath.Join(dir, ".taskcal"), cfg.DataDirAbs)
	assert.Equal(t, "file", cfg.Backend)
	assert.Equal(t, "en", cfg.Locale)
	assert.Equal(t, config.DefaultLyricsModel, cfg.LyricsModel)
	assert.Equal(t, dir, cfg.EffectiveCwd)
	assert.Empty(t, cfg.Sources.Global)
	assert.Empty(t, cfg.Sources.Project)
}

func TestLoad_Precedence(t *testing.T) {
	t.Parallel()

	in, dir := isolatedInput(t)

	globalPath := filepath.Join(dir, "xdg", "tc", "config.json")
	writeFile(t, globalPath, `{"data_dir": "global", "locale": "ko", "backend": "sqlite"}`)
	writeFile(t, filepath.Join(dir, ".tc.json"), `{
		// project wins over global
		"data_dir": "project",
	}`)

	cfg, err := config.Load(in)
	require.NoError(t, err)

	assert.Equal(t, "project", cfg.DataDir)
	assert.Equal(t, "ko", cfg.Locale)
	assert.Equal(t, "sqlite", cfg.Backend)
	assert.Equal(t, globalPath, cfg.Sources.Global)
	assert.Equal(t, filepath.Join(dir, ".tc.json"), cfg.Sources.Project)

	in.DataDirOverride = ptr("/abs/cli")
	in.BackendOverride = ptr("file")

	cfg, err = config.Load(in)
	require.NoError(t, err)

	assert.Equal(t, "/abs/cli", cfg.DataDirAbs)
	assert.Equal(t, "file", cfg.Backend)
}

func TestLoad_ExplicitConfig(t *testing.T) {
	t.Parallel()

	in, dir := isolatedInput(t)
	writeFile(t, filepath.Join(dir, ".tc.json"), `{"data_dir": "ignored"}`)
	writeFile(t, filepath.Join(dir, "custom.json"), `{"data_dir": "custom"}`)

	in.ConfigPath = "custom.json"

	cfg, err := config.Load(in)
	require.NoError(t, err)
	assert.Equal(t, "custom", cfg.DataDir)

	in.ConfigPath = "missing.json"

	_, err = config.Load(in)
	require.ErrorIs(t, err, config.ErrFileNotFound)
}

func TestLoad_Errors(t *testing.T) {
	t.Parallel()

	for _, tt := range []struct {
		name    string
		file    string
		dataDir *string
		backend *string
		want    error
	}{
		{name: "invalid json", file: `{invalid}`, want: config.ErrInvalid},
		{name: "empty data_dir in file", file: `{"data_dir": ""}`, want: config.ErrDataDirEmpty},
		{name: "unknown backend", file: `{"backend": "redis"}`, want: config.ErrInvalid},
		{name: "unknown locale", file: `{"locale": "xx"}`, want: config.ErrInvalid},
		{name: "bad endpoint", file: `{"lyrics_endpoint": "ftp://x"}`, want: config.ErrInvalid},
		{name: "empty data_dir flag", dataDir: ptr(""), want: config.ErrDataDirEmpty},
		{name: "empty backend flag", backend: ptr(""), want: config.ErrBackendEmpty},
	} {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			in, dir := isolatedInput(t)
			if tt.file != "" {
				writeFile(t, filepath.Join(dir, ".tc.json"), tt.file)
			}

			in.DataDirOverride = tt.dataDir
			in.BackendOverride = tt.backend

			_, err := config.Load(in)
			if !errors.Is(err, tt.want) {
				t.Fatalf("err=%v, want=%v", err, tt.want)
			}
		})
	}
}

func TestLoad_EnvAndDotEnv(t *testing.T) {
	t.Parallel()

	in, dir := isolatedInput(t)
	writeFile(t, filepath.Join(dir, ".env"), "GEMINI_API_KEY=from-dotenv\nTC_LOCALE=ko\n")

	cfg, err := config.Load(in)
	require.NoError(t, err)

	assert.Equal(t, "from-dotenv", cfg.EnvAPIKey)
	assert.Equal(t, "ko", cfg.Locale)
	assert.Equal(t, filepath.Join(dir, ".env"), cfg.Sources.DotEnv)
	assert.Equal(t, []string{"TC_LOCALE"}, cfg.Sources.Env)

	in.Env["GEMINI_API_KEY"] = "from-process"
	in.Env["TC_LOCALE"] = "en"

	cfg, err = config.Load(in)
	require.NoError(t, err)

	assert.Equal(t, "from-process", cfg.EnvAPIKey)
	assert.Equal(t, "en", cfg.Locale)
}

func TestLoadEnv_DoesNotMutateInput(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, ".env"), "A=1\n")

	env := map[string]string{"B": "2"}

	merged, path, err := config.LoadEnv(dir, env)
	require.NoError(t, err)

	assert.Equal(t, map[string]string{"A": "1", "B": "2"}, merged)
	assert.Equal(t, filepath.Join(dir, ".env"), path)
	assert.Equal(t, map[string]string{"B": "2"}, env)

	merged, path, err = config.LoadEnv(t.TempDir(), nil)
	require.NoError(t, err)
	assert.Empty(t, merged)
	assert.Empty(t, path)
}
