package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"

	"cursorvip/internal/logging"
)

// Platform identifies which platform paths section a config carries.
type Platform string

const (
	Windows Platform = "windows"
	MacOS   Platform = "darwin"
	Linux   Platform = "linux"
)

// CurrentPlatform maps runtime.GOOS onto a Platform. Unknown systems are
// treated as Linux.
func CurrentPlatform() Platform {
	switch runtime.GOOS {
	case "windows":
		return Windows
	case "darwin":
		return MacOS
	default:
		return Linux
	}
}

// SectionName returns the platform-specific paths section.
func (p Platform) SectionName() string {
	switch p {
	case Windows:
		return "WindowsPaths"
	case MacOS:
		return "MacPaths"
	default:
		return "LinuxPaths"
	}
}

// Lookups resolves install locations that depend on the host.
type Lookups interface {
	BrowserPath(name string) string
	DriverPath(name string) string
	LinuxCursorPath() string
}

// Environment is everything Default reads from the host.
type Environment struct {
	Platform  Platform
	ConfigDir string
	Getenv    func(string) string
	HomeDir   string
	// HomesRoot and RootHome locate user homes for the Linux sudo lookup.
	HomesRoot string
	RootHome  string
	Lookups   Lookups
	Logger    *slog.Logger
}

// SystemEnvironment describes the running host.
func SystemEnvironment(configDir string, lookups Lookups, logger *slog.Logger) Environment {
	home, _ := os.UserHomeDir()
	return Environment{
		Platform:  CurrentPlatform(),
		ConfigDir: configDir,
		Getenv:    os.Getenv,
		HomeDir:   home,
		HomesRoot: "/home",
		RootHome:  "/root",
		Lookups:   lookups,
		Logger:    logger,
	}
}

func (e Environment) getenv(key string) string {
	if e.Getenv == nil {
		return ""
	}
	return e.Getenv(key)
}

func (e Environment) logger() *slog.Logger {
	if e.Logger == nil {
		return logging.NewNop()
	}
	return e.Logger
}

// platformKeys is the fixed key order of every paths section.
var platformKeys = []string{
	"storage_path",
	"sqlite_path",
	"machine_id_path",
	"cursor_path",
	"updater_path",
	"update_yml_path",
	"product_json_path",
}

type pathBuilder func(env Environment) (map[string]string, error)

var pathBuilders = map[Platform]pathBuilder{
	Windows: windowsPaths,
	MacOS:   macPaths,
	Linux:   linuxPaths,
}

func buildPlatformSection(cfg *Config, env Environment) error {
	build, ok := pathBuilders[env.Platform]
	if !ok {
		return fmt.Errorf("unsupported platform %q", env.Platform)
	}
	values, err := build(env)
	if err != nil {
		return err
	}
	section := cfg.AddSection(env.Platform.SectionName())
	for _, key := range platformKeys {
		section.Set(key, values[key])
	}
	return nil
}

func windowsPaths(env Environment) (map[string]string, error) {
	appData := env.getenv("APPDATA")
	if appData == "" {
		appData = filepath.Join(env.HomeDir, "AppData", "Roaming")
	}
	localAppData := env.getenv("LOCALAPPDATA")
	if localAppData == "" {
		localAppData = filepath.Join(env.HomeDir, "AppData", "Local")
	}
	globalStorage := filepath.Join(appData, "Cursor", "User", "globalStorage")
	resources := filepath.Join(localAppData, "Programs", "Cursor", "resources")

	values := map[string]string{
		"storage_path":      filepath.Join(globalStorage, "storage.json"),
		"sqlite_path":       filepath.Join(globalStorage, "state.vscdb"),
		"machine_id_path":   filepath.Join(appData, "Cursor", "machineId"),
		"cursor_path":       filepath.Join(resources, "app"),
		"updater_path":      filepath.Join(localAppData, "cursor-updater"),
		"update_yml_path":   filepath.Join(resources, "app-update.yml"),
		"product_json_path": filepath.Join(resources, "app", "product.json"),
	}
	if err := os.MkdirAll(globalStorage, 0o755); err != nil {
		return nil, fmt.Errorf("create storage directory: %w", err)
	}
	return values, nil
}

func macPaths(env Environment) (map[string]string, error) {
	support := filepath.Join(env.HomeDir, "Library", "Application Support")
	globalStorage := filepath.Join(support, "Cursor", "User", "globalStorage")
	resources := "/Applications/Cursor.app/Contents/Resources"

	values := map[string]string{
		"storage_path":      filepath.Join(globalStorage, "storage.json"),
		"sqlite_path":       filepath.Join(globalStorage, "state.vscdb"),
		"machine_id_path":   filepath.Join(support, "Cursor", "machineId"),
		"cursor_path":       resources + "/app",
		"updater_path":      filepath.Join(support, "cursor-updater"),
		"update_yml_path":   resources + "/app-update.yml",
		"product_json_path": resources + "/app/product.json",
	}
	if err := os.MkdirAll(globalStorage, 0o755); err != nil {
		return nil, fmt.Errorf("create storage directory: %w", err)
	}
	return values, nil
}

func linuxPaths(env Environment) (map[string]string, error) {
	logger := env.logger()
	sudoUser := env.getenv("SUDO_USER")
	user := sudoUser
	if user == "" {
		user = env.getenv("USER")
	}
	if user == "" {
		user = env.getenv("USERNAME")
	}
	if user == "" {
		user = filepath.Base(env.HomeDir)
	}

	actualHome := filepath.Join(env.HomesRoot, user)
	if _, err := os.Stat(actualHome); err != nil {
		actualHome = env.HomeDir
	}
	configBase := filepath.Join(actualHome, ".config")

	candidates := []string{
		filepath.Join(configBase, "Cursor"),
		filepath.Join(configBase, "cursor"),
	}
	if sudoUser != "" {
		candidates = append(candidates,
			filepath.Join(env.RootHome, ".config", "Cursor"),
			filepath.Join(env.RootHome, ".config", "cursor"),
		)
	}

	cursorDir := ""
	for _, candidate := range candidates {
		if _, err := os.Stat(candidate); err == nil {
			cursorDir = candidate
			break
		}
	}

	values := map[string]string{}
	if cursorDir == "" {
		logger.Warn("cursor directory not found", "config_base", configBase)
		if sudoUser != "" {
			logger.Info("make sure Cursor is installed and has been run at least once", "sudo_user", sudoUser)
		}
	} else {
		globalStorage := filepath.Join(cursorDir, "User", "globalStorage")
		values["storage_path"] = filepath.Join(globalStorage, "storage.json")
		values["sqlite_path"] = filepath.Join(globalStorage, "state.vscdb")
		values["machine_id_path"] = filepath.Join(cursorDir, "machineId")
		if err := os.MkdirAll(globalStorage, 0o755); err != nil {
			logger.Warn("unable to create storage directory", "path", globalStorage, logging.Error(err))
		}
	}
	if env.Lookups != nil {
		values["cursor_path"] = env.Lookups.LinuxCursorPath()
	}
	return values, nil
}
