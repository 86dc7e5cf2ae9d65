package browser

import (
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
)

// Names lists the supported browsers in configuration order.
var Names = []string{"chrome", "edge", "firefox", "brave", "opera", "operagx"}

var driverBinaries = map[string]string{
	"chrome":  "chromedriver",
	"edge":    "msedgedriver",
	"firefox": "geckodriver",
	"brave":   "chromedriver",
	"opera":   "chromedriver",
	"operagx": "chromedriver",
}

var linuxBinaries = map[string][]string{
	"chrome":  {"google-chrome", "google-chrome-stable", "chromium", "chromium-browser"},
	"edge":    {"microsoft-edge", "microsoft-edge-stable"},
	"firefox": {"firefox"},
	"brave":   {"brave-browser", "brave"},
	"opera":   {"opera"},
	"operagx": {"opera"},
}

var macBundles = map[string]string{
	"chrome":  "/Applications/Google Chrome.app/Contents/MacOS/Google Chrome",
	"edge":    "/Applications/Microsoft Edge.app/Contents/MacOS/Microsoft Edge",
	"firefox": "/Applications/Firefox.app/Contents/MacOS/firefox",
	"brave":   "/Applications/Brave Browser.app/Contents/MacOS/Brave Browser",
	"opera":   "/Applications/Opera.app/Contents/MacOS/Opera",
	"operagx": "/Applications/Opera GX.app/Contents/MacOS/Opera",
}

// Finder resolves install locations. The function fields exist so tests can
// simulate another platform; NewFinder wires them to the real system.
type Finder struct {
	GOOS     string
	ExeDir   string
	Getenv   func(string) string
	LookPath func(string) (string, error)
	Exists   func(string) bool
	HomeDir  func() (string, error)
}

// NewFinder returns a Finder for the running system. Drivers are expected in a
// drivers directory next to the executable.
func NewFinder() *Finder {
	exeDir := "."
	if exe, err := os.Executable(); err == nil {
		exeDir = filepath.Dir(exe)
	}
	return &Finder{
		GOOS:     runtime.GOOS,
		ExeDir:   exeDir,
		Getenv:   os.Getenv,
		LookPath: exec.LookPath,
		Exists: func(path string) bool {
			_, err := os.Stat(path)
			return err == nil
		},
		HomeDir: os.UserHomeDir,
	}
}

// BrowserPath returns the executable for browser name, or "" for an unknown browser.
func (f *Finder) BrowserPath(name string) string {
	name = strings.ToLower(strings.TrimSpace(name))
	switch f.GOOS {
	case "windows":
		return f.firstExisting(f.windowsCandidates(name))
	case "darwin":
		return macBundles[name]
	default:
		bins, ok := linuxBinaries[name]
		if !ok {
			return ""
		}
		for _, bin := range bins {
			if path, err := f.LookPath(bin); err == nil {
				return path
			}
		}
		return filepath.Join("/usr/bin", bins[0])
	}
}

// DriverPath returns the WebDriver binary used to automate browser name.
func (f *Finder) DriverPath(name string) string {
	driver, ok := driverBinaries[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return ""
	}
	if f.GOOS == "windows" {
		driver += ".exe"
	}
	return filepath.Join(f.ExeDir, "drivers", driver)
}

// LinuxCursorPath returns the first existing Cursor resources/app directory,
// or the /opt location when Cursor is not installed.
func (f *Finder) LinuxCursorPath() string {
	candidates := []string{
		"/opt/Cursor/resources/app",
		"/usr/share/cursor/resources/app",
		"/opt/cursor-bin/resources/app",
		"/usr/lib/cursor/resources/app",
	}
	if home, err := f.HomeDir(); err == nil && home != "" {
		candidates = append(candidates, filepath.Join(home, ".local", "share", "cursor", "resources", "app"))
	}
	return f.firstExisting(candidates)
}

func (f *Finder) windowsCandidates(name string) []string {
	programFiles := f.envOr("PROGRAMFILES", `C:\Program Files`)
	programFilesX86 := f.envOr("PROGRAMFILES(X86)", `C:\Program Files (x86)`)
	localAppData := f.Getenv("LOCALAPPDATA")

	switch name {
	case "chrome":
		return []string{
			filepath.Join(programFiles, "Google", "Chrome", "Application", "chrome.exe"),
			filepath.Join(programFilesX86, "Google", "Chrome", "Application", "chrome.exe"),
			filepath.Join(localAppData, "Google", "Chrome", "Application", "chrome.exe"),
		}
	case "edge":
		return []string{
			filepath.Join(programFilesX86, "Microsoft", "Edge", "Application", "msedge.exe"),
			filepath.Join(programFiles, "Microsoft", "Edge", "Application", "msedge.exe"),
		}
	case "firefox":
		return []string{
			filepath.Join(programFiles, "Mozilla Firefox", "firefox.exe"),
			filepath.Join(programFilesX86, "Mozilla Firefox", "firefox.exe"),
		}
	case "brave":
		return []string{
			filepath.Join(programFiles, "BraveSoftware", "Brave-Browser", "Application", "brave.exe"),
			filepath.Join(programFilesX86, "BraveSoftware", "Brave-Browser", "Application", "brave.exe"),
		}
	case "opera":
		return []string{
			filepath.Join(localAppData, "Programs", "Opera", "opera.exe"),
			filepath.Join(programFiles, "Opera", "opera.exe"),
		}
	case "operagx":
		return []string{
			filepath.Join(localAppData, "Programs", "Opera GX", "launcher.exe"),
			filepath.Join(localAppData, "Programs", "Opera GX", "opera.exe"),
		}
	default:
		return nil
	}
}

func (f *Finder) firstExisting(candidates []string) string {
	if len(candidates) == 0 {
		return ""
	}
	for _, candidate := range candidates {
		if f.Exists(candidate) {
			return candidate
		}
	}
	return candidates[0]
}

func (f *Finder) envOr(key, fallback string) string {
	if value := strings.TrimSpace(f.Getenv(key)); value != "" {
		return value
	}
	return fallback
}
