package config

import (
	"fmt"
	"path/filepath"

	"cursorvip/internal/browser"
)

const (
	defaultBrowser         = "chrome"
	defaultRefreshServer   = "https://token.cursorpro.com.cn"
	defaultFallbackLang    = "en"
	languageCacheDirName   = "language_cache"
	defaultOAuthTimeout    = "120"
	defaultOAuthMaxAttempt = "3"
)

type entry struct {
	key   string
	value string
}

var turnstileDefaults = []entry{
	{"handle_turnstile_time", "2"},
	{"handle_turnstile_random_time", "1-3"},
}

var timingDefaults = []entry{
	{"min_random_time", "0.1"},
	{"max_random_time", "0.8"},
	{"page_load_wait", "0.1-0.8"},
	{"input_wait", "0.3-0.8"},
	{"submit_wait", "0.5-1.5"},
	{"verification_code_input", "0.1-0.3"},
	{"verification_success_wait", "2-3"},
	{"verification_retry_wait", "2-3"},
	{"email_check_initial_wait", "4-6"},
	{"email_refresh_wait", "2-4"},
	{"settings_page_load_wait", "1-2"},
	{"failed_retry_time", "0.5-1"},
	{"retry_interval", "8-12"},
	{"max_timeout", "160"},
}

var utilsDefaults = []entry{
	{"enabled_update_check", "True"},
	{"enabled_force_update", "False"},
	{"enabled_account_info", "True"},
}

var oauthDefaults = []entry{
	{"show_selection_alert", "False"},
	{"timeout", defaultOAuthTimeout},
	{"max_attempts", defaultOAuthMaxAttempt},
}

var tokenDefaults = []entry{
	{"refresh_server", defaultRefreshServer},
	{"enable_refresh", "True"},
}

// Default builds the stock configuration for env. It may create the parent
// directory of the platform storage path.
func Default(env Environment) (*Config, error) {
	cfg := New()

	browserSection := cfg.AddSection("Browser")
	browserSection.Set("default_browser", defaultBrowser)
	for _, name := range browser.Names {
		path, driver := "", ""
		if env.Lookups != nil {
			path = env.Lookups.BrowserPath(name)
			driver = env.Lookups.DriverPath(name)
		}
		browserSection.Set(name+"_path", path)
		browserSection.Set(name+"_driver_path", driver)
	}

	setAll(cfg.AddSection("Turnstile"), turnstileDefaults)
	setAll(cfg.AddSection("Timing"), timingDefaults)
	setAll(cfg.AddSection("Utils"), utilsDefaults)
	setAll(cfg.AddSection("OAuth"), oauthDefaults)
	setAll(cfg.AddSection("Token"), tokenDefaults)

	lang := cfg.AddSection("Language")
	lang.Set("current_language", "")
	lang.Set("fallback_language", defaultFallbackLang)
	lang.Set("auto_update_languages", "True")
	lang.Set("language_cache_dir", filepath.Join(env.ConfigDir, languageCacheDirName))

	if err := buildPlatformSection(cfg, env); err != nil {
		return nil, fmt.Errorf("build %s: %w", env.Platform.SectionName(), err)
	}
	return cfg, nil
}

func setAll(s *Section, entries []entry) {
	for _, e := range entries {
		s.Set(e.key, e.value)
	}
}
