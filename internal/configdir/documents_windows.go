//go:build windows

package configdir

import (
	"fmt"
	"os"
	"path/filepath"

	"golang.org/x/sys/windows"
)

// DocumentsDir returns the Documents known folder, which honours folder
// redirection, falling back to %USERPROFILE%\Documents.
func DocumentsDir() (string, error) {
	if path, err := windows.KnownFolderPath(windows.FOLDERID_Documents, 0); err == nil && path != "" {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home directory: %w", err)
	}
	return filepath.Join(home, "Documents"), nil
}
