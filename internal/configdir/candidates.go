package configdir

import (
	"bufio"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// Options supplies the system lookups the default chain depends on.
type Options struct {
	Getenv       func(string) string
	ExeDir       string
	DocumentsDir func() (string, error)
	HomeDir      func() (string, error)
	TempDir      func() string
}

// SystemOptions wires Options to the running process.
func SystemOptions() Options {
	exeDir := ""
	if exe, err := os.Executable(); err == nil {
		exeDir = filepath.Dir(exe)
	}
	return Options{
		Getenv:       os.Getenv,
		ExeDir:       exeDir,
		DocumentsDir: DocumentsDir,
		HomeDir:      os.UserHomeDir,
		TempDir:      os.TempDir,
	}
}

// DefaultCandidates returns the ordered chain and its temp-dir fallback.
func DefaultCandidates(opts Options) ([]Candidate, Candidate) {
	candidates := []Candidate{
		EnvCandidate(opts.Getenv),
		MarkerCandidate(filepath.Join(opts.ExeDir, MarkerFileName)),
		DocumentsCandidate(opts.DocumentsDir),
		HomeCandidate(opts.HomeDir),
	}
	return candidates, TempCandidate(opts.TempDir)
}

// EnvCandidate reads EnvVar.
func EnvCandidate(getenv func(string) string) Candidate {
	return Candidate{
		Name: "env " + EnvVar,
		Resolve: func() (string, error) {
			value := strings.TrimSpace(getenv(EnvVar))
			if value == "" {
				return "", ErrNotConfigured
			}
			return ensureDir(value)
		},
	}
}

// MarkerCandidate reads the first non-blank line of the marker file.
func MarkerCandidate(markerPath string) Candidate {
	return Candidate{
		Name: "marker " + markerPath,
		Resolve: func() (string, error) {
			value, err := readMarker(markerPath)
			if err != nil {
				return "", err
			}
			return ensureDir(value)
		},
	}
}

// DocumentsCandidate uses <documents>/DirName and proves it writable with a
// throwaway file.
func DocumentsCandidate(documentsDir func() (string, error)) Candidate {
	return Candidate{
		Name: "documents",
		Resolve: func() (string, error) {
			docs, err := documentsDir()
			if err != nil {
				return "", fmt.Errorf("locate documents directory: %w", err)
			}
			dir, err := ensureDir(filepath.Join(docs, DirName))
			if err != nil {
				return "", err
			}
			if err := probeWrite(dir); err != nil {
				return "", err
			}
			return dir, nil
		},
	}
}

// HomeCandidate uses <home>/DirName.
func HomeCandidate(homeDir func() (string, error)) Candidate {
	return Candidate{
		Name:   "home",
		Notice: "config directory switched to home",
		Resolve: func() (string, error) {
			home, err := homeDir()
			if err != nil {
				return "", fmt.Errorf("resolve home directory: %w", err)
			}
			if strings.TrimSpace(home) == "" {
				return "", errors.New("resolve home directory: empty path")
			}
			return ensureDir(filepath.Join(home, DirName))
		},
	}
}

// TempCandidate uses <temp>/DirName.
func TempCandidate(tempDir func() string) Candidate {
	return Candidate{
		Name:   "temp",
		Notice: "config directory switched to temp directory",
		Resolve: func() (string, error) {
			return ensureDir(filepath.Join(tempDir(), DirName))
		},
	}
}

func readMarker(path string) (string, error) {
	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", ErrNotConfigured
		}
		return "", fmt.Errorf("open marker file: %w", err)
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(strings.TrimPrefix(scanner.Text(), "\ufeff"))
		if line != "" {
			return line, nil
		}
	}
	if err := scanner.Err(); err != nil {
		return "", fmt.Errorf("read marker file: %w", err)
	}
	return "", ErrNotConfigured
}

func probeWrite(dir string) error {
	probe := filepath.Join(dir, ".probe-"+uuid.NewString()+".tmp")
	if err := os.WriteFile(probe, []byte("test"), 0o600); err != nil {
		return fmt.Errorf("probe write in %s: %w", dir, err)
	}
	if err := os.Remove(probe); err != nil {
		return fmt.Errorf("remove probe file in %s: %w", dir, err)
	}
	return nil
}
