package configdir

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"cursorvip/internal/logging"
)

const (
	// EnvVar overrides the config directory.
	EnvVar = "CURSOR_FREE_VIP_CONFIG_DIR"
	// MarkerFileName is read from the executable's directory.
	MarkerFileName = "config_dir.txt"
	// DirName is the directory created under documents, home, or temp.
	DirName = ".cursor-free-vip"
)

// ErrNotConfigured marks a candidate that has nothing to offer, such as an
// unset environment variable. The resolver skips it without a warning.
var ErrNotConfigured = errors.New("candidate not configured")

// Candidate is one step of the fallback chain.
type Candidate struct {
	Name    string
	Resolve func() (string, error)
	// Notice is logged when this candidate wins. Used to tell the user the
	// directory moved away from its usual place.
	Notice string
}

// Resolver folds over candidates and returns the first usable directory.
type Resolver struct {
	candidates []Candidate
	fallback   Candidate
	logger     *slog.Logger
}

// NewResolver builds a resolver. The fallback runs after every candidate
// failed; its error is the only one Resolve returns.
func NewResolver(logger *slog.Logger, candidates []Candidate, fallback Candidate) *Resolver {
	return &Resolver{
		candidates: candidates,
		fallback:   fallback,
		logger:     logging.NewComponentLogger(logger, "configdir"),
	}
}

// Default returns the standard five-step chain for the running system.
func Default(logger *slog.Logger) *Resolver {
	candidates, fallback := DefaultCandidates(SystemOptions())
	return NewResolver(logger, candidates, fallback)
}

// Fixed returns a resolver that only accepts dir. Used for explicit overrides
// where silently falling back elsewhere would surprise the caller.
func Fixed(logger *slog.Logger, dir string) *Resolver {
	return NewResolver(logger, nil, Candidate{
		Name: "fixed " + dir,
		Resolve: func() (string, error) {
			return ensureDir(dir)
		},
	})
}

// Resolve returns an absolute, writable directory.
func (r *Resolver) Resolve() (string, error) {
	for _, candidate := range r.candidates {
		dir, err := candidate.Resolve()
		if err != nil {
			if errors.Is(err, ErrNotConfigured) {
				r.logger.Debug("config directory candidate skipped", "candidate", candidate.Name)
				continue
			}
			r.logger.Warn("config directory candidate unusable", "candidate", candidate.Name, logging.Error(err))
			continue
		}
		if candidate.Notice != "" {
			r.logger.Info(candidate.Notice, "dir", dir)
		}
		r.logger.Debug("config directory resolved", "candidate", candidate.Name, "dir", dir)
		return dir, nil
	}

	dir, err := r.fallback.Resolve()
	if err != nil {
		r.logger.Error("no usable config directory", "candidate", r.fallback.Name, logging.Error(err))
		return "", fmt.Errorf("resolve config directory: %w", err)
	}
	if r.fallback.Notice != "" {
		r.logger.Warn(r.fallback.Notice, "dir", dir)
	}
	return dir, nil
}

// ensureDir makes dir absolute, creates it, and checks write access.
func ensureDir(dir string) (string, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", dir, err)
	}
	if err := os.MkdirAll(abs, 0o755); err != nil {
		return "", fmt.Errorf("create directory %q: %w", abs, err)
	}
	if err := checkAccess(abs); err != nil {
		return "", fmt.Errorf("%s: insufficient permissions: %w", abs, err)
	}
	return abs, nil
}
