package testsupport

import (
	"log/slog"
	"testing"

	"cursorvip/internal/config"
	"cursorvip/internal/logging"
)

// StaticDir is a config.DirResolver that always returns itself.
type StaticDir string

func (d StaticDir) Resolve() (string, error) { return string(d), nil }

// StoreOption customizes NewStore.
type StoreOption func(*storeBuilder)

type storeBuilder struct {
	dir     string
	logger  *slog.Logger
	envOpts []EnvOption
	extra   []config.Option
}

// NewStore returns a Store rooted in a fresh temp directory that builds
// defaults from a NewEnvironment test environment.
func NewStore(t testing.TB, opts ...StoreOption) *config.Store {
	t.Helper()

	b := &storeBuilder{dir: t.TempDir(), logger: logging.NewNop()}
	for _, opt := range opts {
		opt(b)
	}

	envOpts := b.envOpts
	storeOpts := []config.Option{
		config.WithDirResolver(StaticDir(b.dir)),
		config.WithLogger(b.logger),
		config.WithEnvironment(func(dir string) config.Environment {
			return NewEnvironment(t, append([]EnvOption{WithConfigDir(dir)}, envOpts...)...)
		}),
	}
	return config.NewStore(append(storeOpts, b.extra...)...)
}

// InDir roots the store in dir.
func InDir(dir string) StoreOption {
	return func(b *storeBuilder) { b.dir = dir }
}

// WithLogger sends store logs to logger.
func WithLogger(logger *slog.Logger) StoreOption {
	return func(b *storeBuilder) { b.logger = logger }
}

// WithEnv applies environment options to every default build.
func WithEnv(opts ...EnvOption) StoreOption {
	return func(b *storeBuilder) { b.envOpts = append(b.envOpts, opts...) }
}

// WithStoreOptions appends raw config.Store options.
func WithStoreOptions(opts ...config.Option) StoreOption {
	return func(b *storeBuilder) { b.extra = append(b.extra, opts...) }
}
