package testsupport

import (
	"path/filepath"
	"testing"

	"cursorvip/internal/config"
	"cursorvip/internal/logging"
)

// Lookups is a fixed config.Lookups for tests.
type Lookups struct {
	Browsers map[string]string
	Drivers  map[string]string
	Cursor   string
}

func (l Lookups) BrowserPath(name string) string { return l.Browsers[name] }

func (l Lookups) DriverPath(name string) string { return l.Drivers[name] }

func (l Lookups) LinuxCursorPath() string { return l.Cursor }

// EnvOption customizes the generated test environment.
type EnvOption func(*envBuilder)

type envBuilder struct {
	t    testing.TB
	base string
	vars map[string]string
	env  config.Environment
}

// NewEnvironment produces a Linux config.Environment rooted in a temp
// directory. Homes live under <base>/home and root's home under <base>/root.
func NewEnvironment(t testing.TB, opts ...EnvOption) config.Environment {
	t.Helper()

	base := t.TempDir()
	b := &envBuilder{
		t:    t,
		base: base,
		vars: map[string]string{},
		env: config.Environment{
			Platform:  config.Linux,
			ConfigDir: filepath.Join(base, "config"),
			HomeDir:   filepath.Join(base, "home", "tester"),
			HomesRoot: filepath.Join(base, "home"),
			RootHome:  filepath.Join(base, "root"),
			Lookups: Lookups{
				Browsers: map[string]string{"chrome": "/usr/bin/google-chrome"},
				Drivers:  map[string]string{"chrome": "/opt/drivers/chromedriver"},
				Cursor:   "/opt/Cursor/resources/app",
			},
			Logger: logging.NewNop(),
		},
	}
	b.vars["USER"] = "tester"

	for _, opt := range opts {
		opt(b)
	}

	vars := b.vars
	b.env.Getenv = func(key string) string { return vars[key] }
	return b.env
}

// WithPlatform selects the platform paths section.
func WithPlatform(p config.Platform) EnvOption {
	return func(b *envBuilder) { b.env.Platform = p }
}

// WithEnvVar sets an environment variable seen by the defaults builder.
func WithEnvVar(key, value string) EnvOption {
	return func(b *envBuilder) { b.vars[key] = value }
}

// WithLookups replaces the fixed browser lookups.
func WithLookups(l config.Lookups) EnvOption {
	return func(b *envBuilder) { b.env.Lookups = l }
}

// WithConfigDir overrides the config directory.
func WithConfigDir(dir string) EnvOption {
	return func(b *envBuilder) { b.env.ConfigDir = dir }
}
