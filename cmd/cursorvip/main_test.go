package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/pelletier/go-toml/v2"
)

func runCLI(t *testing.T, args []string, configDir string) (string, string, error) {
	t.Helper()
	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	flags := []string{}
	if configDir != "" {
		flags = append(flags, "--config-dir", configDir)
	}
	cmd.SetArgs(append(flags, args...))
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func requireContains(t *testing.T, output, substr string) {
	t.Helper()
	if !strings.Contains(output, substr) {
		t.Fatalf("expected %q to contain %q", output, substr)
	}
}

func TestConfigPathUsesConfigDirFlag(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "cfg")

	out, _, err := runCLI(t, []string{"config", "path"}, dir)
	if err != nil {
		t.Fatalf("config path: %v", err)
	}
	if strings.TrimSpace(out) != filepath.Join(dir, "config.ini") {
		t.Fatalf("unexpected path output: %q", out)
	}
	if _, err := os.Stat(filepath.Join(dir, "config.ini")); !os.IsNotExist(err) {
		t.Fatalf("config path must not create the file, stat err=%v", err)
	}
}

func TestConfigInitAndValidate(t *testing.T) {
	dir := t.TempDir()

	out, _, err := runCLI(t, []string{"config", "init"}, dir)
	if err != nil {
		t.Fatalf("config init: %v", err)
	}
	requireContains(t, out, "Wrote default configuration")

	_, _, err = runCLI(t, []string{"config", "init"}, dir)
	if err == nil || !strings.Contains(err.Error(), "--overwrite") {
		t.Fatalf("expected overwrite hint, got %v", err)
	}

	if _, _, err := runCLI(t, []string{"config", "init", "--overwrite"}, dir); err != nil {
		t.Fatalf("config init --overwrite: %v", err)
	}

	out, _, err = runCLI(t, []string{"config", "validate"}, dir)
	if err != nil {
		t.Fatalf("config validate: %v", err)
	}
	requireContains(t, out, "Configuration valid")
}

func TestConfigValidateReportsMissingSections(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "config.ini"), []byte("[Browser]\ndefault_browser = edge\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	_, _, err := runCLI(t, []string{"config", "validate"}, dir)
	if err == nil {
		t.Fatal("expected validate to fail")
	}
	requireContains(t, err.Error(), "Turnstile")
}

func TestConfigValidateReportsBadValues(t *testing.T) {
	dir := t.TempDir()
	if _, _, err := runCLI(t, []string{"config", "init"}, dir); err != nil {
		t.Fatalf("config init: %v", err)
	}
	bad := [][]string{
		{"Timing", "page_load_wait", "soon"},
		{"Turnstile", "handle_turnstile_time", "3-1"},
		{"Utils", "enabled_force_update", "sometimes"},
		{"OAuth", "timeout", "2m"},
		{"Language", "fallback_language", "!!"},
	}
	for _, kv := range bad {
		if _, _, err := runCLI(t, append([]string{"config", "set"}, kv...), dir); err != nil {
			t.Fatalf("config set %v: %v", kv, err)
		}
	}

	out, _, err := runCLI(t, []string{"config", "validate"}, dir)
	if err == nil {
		t.Fatalf("expected validate to fail, got output %q", out)
	}
	for _, kv := range bad {
		requireContains(t, err.Error(), kv[0]+"."+kv[1])
	}
	if strings.Contains(err.Error(), "input_wait") {
		t.Fatalf("well-formed key reported: %v", err)
	}
}

func TestConfigShowFormats(t *testing.T) {
	dir := t.TempDir()

	out, stderr, err := runCLI(t, []string{"config", "show"}, dir)
	if err != nil {
		t.Fatalf("config show: %v", err)
	}
	requireContains(t, out, "Config file: "+filepath.Join(dir, "config.ini"))
	requireContains(t, out, "[Timing]")
	requireContains(t, out, "  max_timeout = 160")
	requireContains(t, stderr, "config file created")

	out, _, err = runCLI(t, []string{"config", "show", "--format", "json"}, dir)
	if err != nil {
		t.Fatalf("config show json: %v", err)
	}
	var decoded map[string]map[string]string
	if err := json.Unmarshal([]byte(out), &decoded); err != nil {
		t.Fatalf("decode json: %v\n%s", err, out)
	}
	if decoded["Token"]["refresh_server"] != "https://token.cursorpro.com.cn" {
		t.Fatalf("unexpected json token section: %v", decoded["Token"])
	}

	out, _, err = runCLI(t, []string{"config", "show", "--format", "toml"}, dir)
	if err != nil {
		t.Fatalf("config show toml: %v", err)
	}
	decoded = nil
	if err := toml.Unmarshal([]byte(out), &decoded); err != nil {
		t.Fatalf("decode toml: %v\n%s", err, out)
	}
	if decoded["Language"]["fallback_language"] != "en" {
		t.Fatalf("unexpected toml language section: %v", decoded["Language"])
	}

	out, _, err = runCLI(t, []string{"config", "show", "--format", "table"}, dir)
	if err != nil {
		t.Fatalf("config show table: %v", err)
	}
	requireContains(t, out, "SECTION")
	requireContains(t, out, "default_browser")

	if _, _, err := runCLI(t, []string{"config", "show", "--format", "yaml"}, dir); err == nil {
		t.Fatal("expected unknown format error")
	}
}

func TestConfigSetThenGet(t *testing.T) {
	dir := t.TempDir()

	out, _, err := runCLI(t, []string{"config", "set", "Browser", "Default_Browser", "firefox"}, dir)
	if err != nil {
		t.Fatalf("config set: %v", err)
	}
	requireContains(t, out, "Set Browser.default_browser = firefox")

	out, _, err = runCLI(t, []string{"config", "get", "Browser", "default_browser"}, dir)
	if err != nil {
		t.Fatalf("config get: %v", err)
	}
	if strings.TrimSpace(out) != "firefox" {
		t.Fatalf("unexpected value: %q", out)
	}

	if _, _, err := runCLI(t, []string{"config", "get", "Browser", "nope"}, dir); err == nil {
		t.Fatal("expected missing key error")
	}
}

func TestConfigRefreshHealsPartialFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.ini")
	if err := os.WriteFile(path, []byte("[Timing]\nmax_timeout = 30\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	out, stderr, err := runCLI(t, []string{"config", "refresh"}, dir)
	if err != nil {
		t.Fatalf("config refresh: %v", err)
	}
	requireContains(t, out, "Configuration refreshed")
	requireContains(t, stderr, "WARN config: config file missing required sections")

	backups, err := filepath.Glob(path + ".bak-*")
	if err != nil || len(backups) != 1 {
		t.Fatalf("expected one backup, got %v (err=%v)", backups, err)
	}

	out, _, err = runCLI(t, []string{"config", "get", "Timing", "max_timeout"}, dir)
	if err != nil {
		t.Fatalf("config get: %v", err)
	}
	if strings.TrimSpace(out) != "160" {
		t.Fatalf("expected defaults after heal, got %q", out)
	}
}

func TestUnknownLogFormatFails(t *testing.T) {
	_, _, err := runCLI(t, []string{"--log-format", "xml", "config", "path"}, t.TempDir())
	if err == nil {
		t.Fatal("expected log format error")
	}
}

func TestLogFileReceivesStoreLogs(t *testing.T) {
	dir := t.TempDir()
	logPath := filepath.Join(t.TempDir(), "logs", "cursorvip.log")

	_, stderr, err := runCLI(t, []string{"--log-file", logPath, "config", "show"}, dir)
	if err != nil {
		t.Fatalf("config show: %v", err)
	}
	requireContains(t, stderr, "config file created")

	data, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	requireContains(t, string(data), "INFO config: config file created")
}

type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func waitFor(t *testing.T, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(3 * time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatalf("timed out waiting for %s", what)
		}
		time.Sleep(20 * time.Millisecond)
	}
}

func TestConfigWatchReprintsOnChange(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.ini")

	cmd := newRootCommand()
	var stdout, stderr syncBuffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs([]string{"--config-dir", dir, "config", "watch"})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan error, 1)
	go func() { done <- cmd.ExecuteContext(ctx) }()

	waitFor(t, "initial print", func() bool { return strings.Contains(stdout.String(), "[Timing]") })

	// The watcher may register after the first print, so keep rewriting.
	waitFor(t, "change notice", func() bool {
		if err := os.WriteFile(path, []byte("[Browser]\ndefault_browser = edge\n"), 0o644); err != nil {
			t.Fatalf("write config: %v", err)
		}
		return strings.Contains(stdout.String(), "Configuration changed")
	})
	waitFor(t, "reloaded value", func() bool { return strings.Contains(stdout.String(), "default_browser = edge") })
	// Let events from the rewrite loop drain before removing the file.
	time.Sleep(300 * time.Millisecond)

	if err := os.Remove(path); err != nil {
		t.Fatalf("remove config: %v", err)
	}
	waitFor(t, "removal notice", func() bool { return strings.Contains(stdout.String(), "Configuration removed") })
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Fatalf("watch must not recreate a removed file, stat err=%v", err)
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("config watch: %v", err)
		}
	case <-time.After(3 * time.Second):
		t.Fatal("config watch did not stop after cancel")
	}
}
