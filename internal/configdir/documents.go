//go:build !windows

package configdir

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
)

// DocumentsDir returns the user's documents folder. Under sudo on Linux the
// invoking user's folder is used so the config does not land in /root.
func DocumentsDir() (string, error) {
	if runtime.GOOS == "linux" {
		if sudoUser := strings.TrimSpace(os.Getenv("SUDO_USER")); sudoUser != "" {
			return filepath.Join("/home", sudoUser, "Documents"), nil
		}
	}
	if xdg := strings.TrimSpace(os.Getenv("XDG_DOCUMENTS_DIR")); xdg != "" {
		return xdg, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home directory: %w", err)
	}
	return filepath.Join(home, "Documents"), nil
}
