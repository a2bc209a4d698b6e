package config_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/calvinalkan/agent-todo/internal/config"
	"github.com/calvinalkan/agent-todo/internal/kv"
	"github.com/calvinalkan/agent-todo/internal/logging"
	"github.com/google/go-cmp/cmp"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()

	dir := filepath.Dir(path)

	err := os.MkdirAll(dir, 0o750)
	if err != nil {
		t.Fatalf("failed to create dir %s: %v", dir, err)
	}

	err = os.WriteFile(path, []byte(content), 0o600)
	if err != nil {
		t.Fatalf("failed to write %s: %v", path, err)
	}
}

func ptr(s string) *string { return &s }

// load runs Load with an isolated environment so the developer's own
// global config never leaks in.
func load(t *testing.T, dir string, mod func(*config.LoadInput)) (config.Config, error) {
	t.Helper()

	input := config.LoadInput{
		WorkDirOverride: dir,
		Env:             map[string]string{"HOME": filepath.Join(dir, "home")},
	}
	if mod != nil {
		mod(&input)
	}

	return config.Load(input)
}

func TestLoadDefaults(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	cfg, err := load(t, dir, nil)
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	want := config.Default()
	want.EffectiveCwd = dir
	want.DataDirAbs = filepath.Join(dir, ".todo")

	if diff := cmp.Diff(want, cfg); diff != "" {
		t.Errorf("config mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadProjectFileWithComments(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, config.FileName), `{
		// where tasks live
		"data_dir": "tasks",
		"backend": "sqlite",
		"key": "inbox",
	}`)

	cfg, err := load(t, dir, nil)
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if got, want := cfg.DataDirAbs, filepath.Join(dir, "tasks"); got != want {
		t.Errorf("DataDirAbs=%q, want=%q", got, want)
	}

	if got, want := cfg.Backend, "sqlite"; got != want {
		t.Errorf("Backend=%q, want=%q", got, want)
	}

	if got, want := cfg.Key, "inbox"; got != want {
		t.Errorf("Key=%q, want=%q", got, want)
	}

	if got, want := cfg.Sources.Project, filepath.Join(dir, config.FileName); got != want {
		t.Errorf("Sources.Project=%q, want=%q", got, want)
	}
}

func TestLoadPrecedence(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	xdg := filepath.Join(dir, "xdg")

	writeFile(t, filepath.Join(xdg, "td", "config.json"), `{"data_dir": "global", "key": "global-key", "log_level": "debug"}`)
	writeFile(t, filepath.Join(dir, config.FileName), `{"data_dir": "project"}`)
	writeFile(t, filepath.Join(dir, "explicit.json"), `{"data_dir": "explicit", "backend": "memory"}`)

	for _, tt := range []struct {
		name        string
		configPath  string
		dataDir     *string
		backend     *string
		wantDataDir string
		wantBackend string
	}{
		{name: "project over global", wantDataDir: "project", wantBackend: "file"},
		{name: "explicit over global", configPath: "explicit.json", wantDataDir: "explicit", wantBackend: "memory"},
		{name: "cli over project", dataDir: ptr("cli"), wantDataDir: "cli", wantBackend: "file"},
		{name: "cli over explicit", configPath: "explicit.json", dataDir: ptr("cli"), backend: ptr("sqlite"), wantDataDir: "cli", wantBackend: "sqlite"},
	} {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg, err := config.Load(config.LoadInput{
				WorkDirOverride: dir,
				ConfigPath:      tt.configPath,
				DataDir:         tt.dataDir,
				Backend:         tt.backend,
				Env:             map[string]string{"XDG_CONFIG_HOME": xdg},
			})
			if err != nil {
				t.Fatalf("load: %v", err)
			}

			if got, want := cfg.DataDir, tt.wantDataDir; got != want {
				t.Errorf("DataDir=%q, want=%q", got, want)
			}

			if got, want := cfg.Backend, tt.wantBackend; got != want {
				t.Errorf("Backend=%q, want=%q", got, want)
			}

			// Global-only fields survive every layer above them.
			if got, want := cfg.Key, "global-key"; got != want {
				t.Errorf("Key=%q, want=%q", got, want)
			}

			if got, want := cfg.LogLevel, "debug"; got != want {
				t.Errorf("LogLevel=%q, want=%q", got, want)
			}

			if got, want := cfg.Sources.Global, filepath.Join(xdg, "td", "config.json"); got != want {
				t.Errorf("Sources.Global=%q, want=%q", got, want)
			}
		})
	}
}

func TestLoadAbsoluteDataDir(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	abs := filepath.Join(t.TempDir(), "elsewhere")

	cfg, err := load(t, dir, func(in *config.LoadInput) { in.DataDir = &abs })
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if got, want := cfg.DataDirAbs, abs; got != want {
		t.Errorf("DataDirAbs=%q, want=%q", got, want)
	}
}

func TestLoadErrors(t *testing.T) {
	t.Parallel()

	for _, tt := range []struct {
		name    string
		file    string
		mod     func(*config.LoadInput)
		wantErr error
	}{
		{name: "explicit missing", mod: func(in *config.LoadInput) { in.ConfigPath = "nope.json" }, wantErr: config.ErrConfigFileNotFound},
		{name: "invalid json", file: `{invalid json}`, wantErr: config.ErrConfigInvalid},
		{name: "wrong type", file: `{"data_dir": 5}`, wantErr: config.ErrConfigInvalid},
		{name: "empty data_dir in file", file: `{"data_dir": ""}`, wantErr: config.ErrDataDirEmpty},
		{name: "empty key in file", file: `{"key": ""}`, wantErr: config.ErrKeyEmpty},
		{name: "empty backend in file", file: `{"backend": ""}`, wantErr: config.ErrBackendEmpty},
		{name: "empty data_dir via cli", mod: func(in *config.LoadInput) { in.DataDir = ptr("") }, wantErr: config.ErrDataDirEmpty},
		{name: "unknown backend", file: `{"backend": "redis"}`, wantErr: kv.ErrUnknownBackend},
		{name: "unknown backend via cli", mod: func(in *config.LoadInput) { in.Backend = ptr("etcd") }, wantErr: kv.ErrUnknownBackend},
		{name: "key with separator", file: `{"key": "../escape"}`, wantErr: kv.ErrInvalidKey},
		{name: "unknown log format", file: `{"log_format": "xml"}`, wantErr: logging.ErrInvalidFormat},
	} {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			dir := t.TempDir()
			if tt.file != "" {
				writeFile(t, filepath.Join(dir, config.FileName), tt.file)
			}

			_, err := load(t, dir, tt.mod)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("err=%v, want=%v", err, tt.wantErr)
			}
		})
	}
}

func TestGlobalPath(t *testing.T) {
	t.Parallel()

	for _, tt := range []struct {
		env  map[string]string
		want string
	}{
		{env: map[string]string{"XDG_CONFIG_HOME": "/xdg", "HOME": "/home/u"}, want: filepath.Join("/xdg", "td", "config.json")},
		{env: map[string]string{"HOME": "/home/u"}, want: filepath.Join("/home/u", ".config", "td", "config.json")},
		{env: map[string]string{}, want: ""},
	} {
		if got := config.GlobalPath(tt.env); got != tt.want {
			t.Errorf("GlobalPath(%v)=%q, want=%q", tt.env, got, tt.want)
		}
	}
}

func TestLoggingEnvOverridesFile(t *testing.T) {
	t.Parallel()

	cfg := config.Default()
	cfg.LogLevel = "warn"
	cfg.LogFormat = "json"

	got := cfg.Logging(map[string]string{logging.EnvLevel: "debug"})

	if got.Level != "debug" || got.Format != "json" {
		t.Errorf("Logging()=%+v, want level=debug format=json", got)
	}
}
