package config

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/gofrs/flock"

	"cursorvip/internal/browser"
	"cursorvip/internal/configdir"
	"cursorvip/internal/fileutil"
	"cursorvip/internal/logging"
)

// FileName is the config file inside the config directory.
const FileName = "config.ini"

const backupTimeLayout = "20060102-150405"

// DirResolver picks the config directory.
type DirResolver interface {
	Resolve() (string, error)
}

// Option customizes a Store.
type Option func(*Store)

// WithDirResolver overrides the directory fallback chain.
func WithDirResolver(r DirResolver) Option {
	return func(s *Store) { s.resolver = r }
}

// WithLookups overrides browser and install lookups used for defaults.
func WithLookups(l Lookups) Option {
	return func(s *Store) { s.lookups = l }
}

// WithLogger sets the logger; the store tags it with its component.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Store) { s.logger = logger }
}

// WithEnvironment replaces host detection for default synthesis.
func WithEnvironment(fn func(dir string) Environment) Option {
	return func(s *Store) { s.envFn = fn }
}

// WithClock sets the time source used to name backups.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// Store owns the config directory and the cached configuration. It is safe
// for concurrent use.
type Store struct {
	mu       sync.Mutex
	resolver DirResolver
	lookups  Lookups
	envFn    func(dir string) Environment
	logger   *slog.Logger
	now      func() time.Time

	dir    string
	cached *Config
}

// NewStore builds a Store. Nothing touches the filesystem until the first call
// that needs the directory.
func NewStore(opts ...Option) *Store {
	s := &Store{now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = logging.NewNop()
	}
	if s.resolver == nil {
		s.resolver = configdir.Default(s.logger)
	}
	if s.lookups == nil {
		s.lookups = browser.NewFinder()
	}
	s.logger = logging.NewComponentLogger(s.logger, "config")
	if s.envFn == nil {
		s.envFn = func(dir string) Environment {
			return SystemEnvironment(dir, s.lookups, s.logger)
		}
	}
	return s
}

// Dir returns the config directory, resolving it on first use.
func (s *Store) Dir() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.dirLocked()
}

// Path returns the config file path.
func (s *Store) Path() (string, error) {
	dir, err := s.Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, FileName), nil
}

func (s *Store) dirLocked() (string, error) {
	if s.dir != "" {
		return s.dir, nil
	}
	dir, err := s.resolver.Resolve()
	if err != nil {
		s.logger.Error("config directory unavailable", logging.Error(err))
		return "", fmt.Errorf("resolve config directory: %w", err)
	}
	s.dir = dir
	return dir, nil
}

func (s *Store) pathLocked() (string, error) {
	dir, err := s.dirLocked()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, FileName), nil
}

// Default builds the stock configuration for the resolved directory.
func (s *Store) Default() (*Config, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	dir, err := s.dirLocked()
	if err != nil {
		return nil, err
	}
	return s.defaultsLocked(dir)
}

func (s *Store) defaultsLocked(dir string) (*Config, error) {
	env := s.envFn(dir)
	if env.Logger == nil {
		env.Logger = s.logger
	}
	cfg, err := Default(env)
	if err != nil {
		s.logger.Error("build default configuration failed", logging.Error(err))
		return nil, fmt.Errorf("build default configuration: %w", err)
	}
	return cfg, nil
}

// Load returns the config file as-is, writing defaults first when it does not
// exist. The result replaces the cache.
func (s *Store) Load() (*Config, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loadLocked()
}

func (s *Store) loadLocked() (*Config, error) {
	path, err := s.pathLocked()
	if err != nil {
		return nil, err
	}

	unlock, err := s.lockFile(path)
	if err != nil {
		return nil, err
	}
	defer unlock()

	exists, err := fileutil.FileExists(path)
	if err != nil {
		s.logger.Error("config file check failed", "path", path, logging.Error(err))
		return nil, fmt.Errorf("check config file: %w", err)
	}

	var cfg *Config
	if !exists {
		cfg, err = s.writeDefaultsLocked(path)
		if err != nil {
			return nil, err
		}
		s.logger.Info("config file created", "path", path)
	} else {
		cfg, err = Read(path)
		if err != nil {
			s.logger.Error("config file read failed", "path", path, logging.Error(err))
			return nil, err
		}
	}
	s.cached = cfg
	return cfg, nil
}

func (s *Store) writeDefaultsLocked(path string) (*Config, error) {
	cfg, err := s.defaultsLocked(filepath.Dir(path))
	if err != nil {
		return nil, err
	}
	if err := Write(path, cfg); err != nil {
		s.logger.Error("config file write failed", "path", path, logging.Error(err))
		return nil, err
	}
	return cfg, nil
}

// Get returns the cached configuration, loading it on first use. Repeated
// calls return the same instance until a refresh, update, or invalidation.
func (s *Store) Get() (*Config, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cached != nil {
		return s.cached, nil
	}
	return s.loadLocked()
}

// ForceRefresh re-reads the config file. A file missing any RequiredSections
// is backed up and replaced with defaults.
func (s *Store) ForceRefresh() (*Config, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	path, err := s.pathLocked()
	if err != nil {
		return nil, err
	}
	exists, err := fileutil.FileExists(path)
	if err != nil {
		s.logger.Error("config file check failed", "path", path, logging.Error(err))
		return nil, fmt.Errorf("check config file: %w", err)
	}
	if !exists {
		cfg, err := s.loadLocked()
		if err != nil {
			return nil, err
		}
		s.logger.Info("configuration refreshed", "path", path)
		return cfg, nil
	}

	unlock, err := s.lockFile(path)
	if err != nil {
		return nil, err
	}
	defer unlock()

	cfg, err := Read(path)
	if err != nil {
		s.logger.Error("config file read failed", "path", path, logging.Error(err))
		return nil, err
	}

	if missing := cfg.MissingSections(RequiredSections); len(missing) > 0 {
		s.logger.Warn("config file missing required sections, reinitializing",
			"path", path,
			"missing", strings.Join(missing, ", "),
		)
		backup := path + ".bak-" + s.now().Format(backupTimeLayout)
		if err := fileutil.CopyFile(path, backup); err != nil {
			s.logger.Error("config backup failed", "path", backup, logging.Error(err))
			return nil, fmt.Errorf("back up config file: %w", err)
		}
		s.logger.Info("config file backed up", "backup", backup)
		cfg, err = s.writeDefaultsLocked(path)
		if err != nil {
			return nil, err
		}
	}

	s.cached = cfg
	s.logger.Info("configuration refreshed", "path", path)
	return cfg, nil
}

// Update applies fn to a copy of the current configuration and persists the
// result. The cache is replaced only when the write succeeds.
func (s *Store) Update(fn func(*Config) error) (*Config, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	current := s.cached
	if current == nil {
		loaded, err := s.loadLocked()
		if err != nil {
			return nil, err
		}
		current = loaded
	}

	next := current.Clone()
	if err := fn(next); err != nil {
		return nil, err
	}

	path, err := s.pathLocked()
	if err != nil {
		return nil, err
	}
	unlock, err := s.lockFile(path)
	if err != nil {
		return nil, err
	}
	defer unlock()

	if err := Write(path, next); err != nil {
		s.logger.Error("config file write failed", "path", path, logging.Error(err))
		return nil, err
	}
	s.cached = next
	return next, nil
}

// Overwrite replaces the config file with defaults without validation.
func (s *Store) Overwrite() (*Config, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	path, err := s.pathLocked()
	if err != nil {
		return nil, err
	}
	unlock, err := s.lockFile(path)
	if err != nil {
		return nil, err
	}
	defer unlock()

	cfg, err := s.writeDefaultsLocked(path)
	if err != nil {
		return nil, err
	}
	s.cached = cfg
	s.logger.Info("config file reset to defaults", "path", path)
	return cfg, nil
}

// Invalidate drops the cached configuration.
func (s *Store) Invalidate() {
	s.mu.Lock()
	s.cached = nil
	s.mu.Unlock()
}

// lockFile serializes writers across processes with an advisory lock next to
// the config file.
func (s *Store) lockFile(path string) (func(), error) {
	lock := flock.New(path + ".lock")
	if err := lock.Lock(); err != nil {
		s.logger.Error("config lock failed", "path", lock.Path(), logging.Error(err))
		return nil, fmt.Errorf("acquire config lock: %w", err)
	}
	return func() {
		if err := lock.Unlock(); err != nil {
			s.logger.Warn("failed to release config lock", logging.Error(err))
		}
	}, nil
}
