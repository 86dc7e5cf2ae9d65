package config_test

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pelletier/go-toml/v2"

	"cursorvip/internal/config"
	"cursorvip/internal/testsupport"
)

func TestSectionKeysAreCaseInsensitive(t *testing.T) {
	cfg := config.New()
	cfg.Set("Browser", "Default_Browser", "edge")

	value, ok := cfg.Get("Browser", "DEFAULT_BROWSER")
	if !ok || value != "edge" {
		t.Fatalf("expected edge, got %q (ok=%v)", value, ok)
	}
	if _, ok := cfg.Get("browser", "default_browser"); ok {
		t.Fatal("section names must be case-sensitive")
	}
	if keys := cfg.Section("Browser").Keys(); len(keys) != 1 || keys[0] != "default_browser" {
		t.Fatalf("unexpected keys: %v", keys)
	}
}

func TestSetKeepsKeyPosition(t *testing.T) {
	cfg := config.New()
	s := cfg.AddSection("Timing")
	s.Set("a", "1")
	s.Set("b", "2")
	s.Set("A", "3")

	if got := strings.Join(s.Keys(), ","); got != "a,b" {
		t.Fatalf("unexpected key order: %s", got)
	}
	if v, _ := s.Get("a"); v != "3" {
		t.Fatalf("expected overwritten value, got %q", v)
	}
	if !s.Delete("b") || s.Delete("b") {
		t.Fatal("expected Delete to report existence once")
	}
}

func TestCloneIsIndependent(t *testing.T) {
	cfg := config.New()
	cfg.Set("Utils", "enabled_update_check", "True")
	clone := cfg.Clone()
	clone.Set("Utils", "enabled_update_check", "False")
	clone.Set("Extra", "k", "v")

	if v, _ := cfg.Get("Utils", "enabled_update_check"); v != "True" {
		t.Fatalf("original mutated: %q", v)
	}
	if cfg.HasSection("Extra") {
		t.Fatal("original gained a section")
	}
	if cfg.Equal(clone) {
		t.Fatal("expected configs to differ")
	}
	if !clone.RemoveSection("Extra") || clone.RemoveSection("Extra") {
		t.Fatal("expected RemoveSection to report existence once")
	}
}

func TestParseHandlesCommentsAndDefaultSection(t *testing.T) {
	data := []byte(`; leading comment
[Token]
# comment
Refresh_Server = https://example.test/#frag
enable_refresh=True

[Empty]
`)
	cfg, err := config.Parse(data)
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}
	if got := strings.Join(cfg.Sections(), ","); got != "Token,Empty" {
		t.Fatalf("unexpected sections: %s", got)
	}
	if v, _ := cfg.Get("Token", "refresh_server"); v != "https://example.test/#frag" {
		t.Fatalf("inline # must be kept, got %q", v)
	}

}

func TestParseFoldsDefaultKeysIntoSections(t *testing.T) {
	cfg, err := config.Parse([]byte("top = 1\nx = fallback\n[Token]\nx = y\n[Utils]\n"))
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}
	if got := strings.Join(cfg.Sections(), ","); got != "Token,Utils" {
		t.Fatalf("DEFAULT must not be a section, got %s", got)
	}
	if got := strings.Join(cfg.Section("Token").Keys(), ","); got != "x,top" {
		t.Fatalf("unexpected Token keys: %s", got)
	}
	if v, _ := cfg.Get("Token", "x"); v != "y" {
		t.Fatalf("section value must win over DEFAULT, got %q", v)
	}
	if v, _ := cfg.Get("Utils", "x"); v != "fallback" {
		t.Fatalf("expected DEFAULT value in Utils, got %q", v)
	}
}

func TestParseJoinsIndentedContinuationLines(t *testing.T) {
	cfg, err := config.Parse([]byte("[Browser]\nchrome_args = --first\n\t--second\n    --third\nnext = 1\n"))
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}
	if v, _ := cfg.Get("Browser", "chrome_args"); v != "--first\n--second\n--third" {
		t.Fatalf("unexpected continued value %q", v)
	}
	if v, _ := cfg.Get("Browser", "next"); v != "1" {
		t.Fatalf("key after continuation lost, got %q", v)
	}
}

func TestWriteRoundTripsAwkwardValues(t *testing.T) {
	cases := []struct {
		name  string
		value string
		want  string
	}{
		{"quoted path", `"C:\Program Files\Google\chrome.exe"`, `"C:\Program Files\Google\chrome.exe"`},
		{"single quotes", `'single'`, `'single'`},
		{"quotes around spaces", `"  padded  "`, `"  padded  "`},
		{"outer spaces", "  padded  ", "padded"},
		{"backtick", "a`b", "a`b"},
		{"newlines", "first\n  second\nthird", "first\nsecond\nthird"},
		{"trailing backslash", `C:\drivers\`, `C:\drivers\`},
		{"hash and semicolon", "https://x/#frag;y", "https://x/#frag;y"},
		{"inner triple quote", `a"""b`, `a"""b`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := config.New()
			cfg.Set("Browser", "chrome_path", tc.value)
			path := filepath.Join(t.TempDir(), config.FileName)
			if err := config.Write(path, cfg); err != nil {
				t.Fatalf("Write returned error: %v", err)
			}
			loaded, err := config.Read(path)
			if err != nil {
				t.Fatalf("Read returned error: %v", err)
			}
			if v, _ := loaded.Get("Browser", "chrome_path"); v != tc.want {
				t.Fatalf("got %q want %q", v, tc.want)
			}
		})
	}
}

func TestWriteRejectsValuesINICannotCarry(t *testing.T) {
	cases := map[string]func(*config.Config){
		"triple quoted":   func(c *config.Config) { c.Set("Browser", "chrome_path", `"""abc"""`) },
		"open triple":     func(c *config.Config) { c.Set("Browser", "chrome_path", `"""abc`) },
		"DEFAULT section": func(c *config.Config) { c.Set("DEFAULT", "top", "1") },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			cfg := config.New()
			cfg.Set("Browser", "default_browser", "chrome")
			mutate(cfg)
			path := filepath.Join(t.TempDir(), config.FileName)
			err := config.Write(path, cfg)
			if err == nil || !strings.Contains(err.Error(), "cannot be stored as INI") {
				t.Fatalf("expected encode error, got %v", err)
			}
			if _, statErr := os.Stat(path); !os.IsNotExist(statErr) {
				t.Fatalf("file must not be written, stat: %v", statErr)
			}
		})
	}
}

func TestSectionNamesAreTrimmedEverywhere(t *testing.T) {
	cfg := config.New()
	cfg.Set(" Browser ", "k", "v")

	if v, ok := cfg.Get("Browser ", "k"); !ok || v != "v" {
		t.Fatalf("expected v, got %q (ok=%v)", v, ok)
	}
	if !cfg.HasSection(" Browser") || cfg.Section("\tBrowser") == nil {
		t.Fatal("lookups must trim the section name")
	}
	if got := strings.Join(cfg.Sections(), ","); got != "Browser" {
		t.Fatalf("unexpected sections: %q", got)
	}
	if !cfg.RemoveSection(" Browser ") || cfg.HasSection("Browser") {
		t.Fatal("RemoveSection must trim the section name")
	}
}

func TestParseRejectsMalformedInput(t *testing.T) {
	if _, err := config.Parse([]byte("[Broken\nkey = value\n")); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestWriteThenReadPreservesConfig(t *testing.T) {
	env := testsupport.NewEnvironment(t)
	cfg, err := config.Default(env)
	if err != nil {
		t.Fatalf("Default returned error: %v", err)
	}

	path := filepath.Join(t.TempDir(), config.FileName)
	if err := config.Write(path, cfg); err != nil {
		t.Fatalf("Write returned error: %v", err)
	}
	loaded, err := config.Read(path)
	if err != nil {
		t.Fatalf("Read returned error: %v", err)
	}
	if !loaded.Equal(cfg) {
		var want, got bytes.Buffer
		_, _ = cfg.WriteTo(&want)
		_, _ = loaded.WriteTo(&got)
		t.Fatalf("round trip mismatch\nwant:\n%s\ngot:\n%s", want.String(), got.String())
	}
}

func TestDefaultSectionOrderAndValues(t *testing.T) {
	env := testsupport.NewEnvironment(t)
	cfg, err := config.Default(env)
	if err != nil {
		t.Fatalf("Default returned error: %v", err)
	}

	want := "Browser,Turnstile,Timing,Utils,OAuth,Token,Language,LinuxPaths"
	if got := strings.Join(cfg.Sections(), ","); got != want {
		t.Fatalf("unexpected sections: got %s want %s", got, want)
	}

	checks := []struct {
		section, key, want string
	}{
		{"Browser", "default_browser", "chrome"},
		{"Browser", "chrome_path", "/usr/bin/google-chrome"},
		{"Browser", "chrome_driver_path", "/opt/drivers/chromedriver"},
		{"Turnstile", "handle_turnstile_random_time", "1-3"},
		{"Timing", "max_timeout", "160"},
		{"Timing", "retry_interval", "8-12"},
		{"Utils", "enabled_force_update", "False"},
		{"OAuth", "timeout", "120"},
		{"Token", "refresh_server", "https://token.cursorpro.com.cn"},
		{"Language", "current_language", ""},
		{"Language", "fallback_language", "en"},
		{"Language", "language_cache_dir", filepath.Join(env.ConfigDir, "language_cache")},
		{"LinuxPaths", "cursor_path", "/opt/Cursor/resources/app"},
		{"LinuxPaths", "updater_path", ""},
	}
	for _, c := range checks {
		got, ok := cfg.Get(c.section, c.key)
		if !ok {
			t.Fatalf("missing %s.%s", c.section, c.key)
		}
		if got != c.want {
			t.Fatalf("%s.%s: got %q want %q", c.section, c.key, got, c.want)
		}
	}

	browser := cfg.Section("Browser")
	if browser.Len() != 13 {
		t.Fatalf("expected 13 browser keys, got %d", browser.Len())
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("defaults must validate: %v", err)
	}
}

func TestValidateNamesMissingSections(t *testing.T) {
	cfg := config.New()
	cfg.AddSection("Browser")
	cfg.AddSection("Timing")

	missing := cfg.MissingSections(config.RequiredSections)
	if got := strings.Join(missing, ","); got != "Turnstile,Utils,Language" {
		t.Fatalf("unexpected missing sections: %s", got)
	}
	err := cfg.Validate()
	if err == nil || !strings.Contains(err.Error(), "Turnstile, Utils, Language") {
		t.Fatalf("unexpected validate error: %v", err)
	}
}

func TestMarshalTOMLProducesTables(t *testing.T) {
	cfg := config.New()
	cfg.Set("Token", "enable_refresh", "True")
	cfg.Set("Timing", "max_timeout", "160")

	data, err := cfg.MarshalTOML()
	if err != nil {
		t.Fatalf("MarshalTOML returned error: %v", err)
	}
	var decoded map[string]map[string]string
	if err := toml.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("decode toml: %v", err)
	}
	if decoded["Token"]["enable_refresh"] != "True" || decoded["Timing"]["max_timeout"] != "160" {
		t.Fatalf("unexpected toml content: %s", data)
	}
}
