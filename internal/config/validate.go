package config

import (
	"errors"
	"fmt"
	"strings"
)

// RequiredSections must be present for a config file to be accepted by
// ForceRefresh.
var RequiredSections = []string{"Browser", "Turnstile", "Timing", "Utils", "Language"}

// MissingSections returns the entries of required that c lacks, in order.
func (c *Config) MissingSections(required []string) []string {
	var missing []string
	for _, name := range required {
		if !c.HasSection(name) {
			missing = append(missing, name)
		}
	}
	return missing
}

// Validate ensures every required section is present.
func (c *Config) Validate() error {
	if missing := c.MissingSections(RequiredSections); len(missing) > 0 {
		return fmt.Errorf("config missing required sections: %s", strings.Join(missing, ", "))
	}
	return nil
}

type valueKind int

const (
	kindBool valueKind = iota
	kindInt
	kindFloat
	kindRange
	kindLanguage
)

type typedKey struct {
	section string
	key     string
	kind    valueKind
}

var typedKeys = []typedKey{
	{"Turnstile", "handle_turnstile_time", kindRange},
	{"Turnstile", "handle_turnstile_random_time", kindRange},
	{"Timing", "min_random_time", kindFloat},
	{"Timing", "max_random_time", kindFloat},
	{"Timing", "max_timeout", kindInt},
	{"Utils", "enabled_update_check", kindBool},
	{"Utils", "enabled_force_update", kindBool},
	{"Utils", "enabled_account_info", kindBool},
	{"OAuth", "show_selection_alert", kindBool},
	{"OAuth", "timeout", kindInt},
	{"OAuth", "max_attempts", kindInt},
	{"Token", "enable_refresh", kindBool},
	{"Language", "current_language", kindLanguage},
	{"Language", "fallback_language", kindLanguage},
	{"Language", "auto_update_languages", kindBool},
}

// CheckValues type-checks the known keys that are present and reports every
// value that does not parse. Timing keys other than the fixed ones are ranges.
func (c *Config) CheckValues() error {
	var errs []error
	for _, tk := range typedKeys {
		if _, ok := c.Get(tk.section, tk.key); !ok {
			continue
		}
		if err := c.checkValue(tk.section, tk.key, tk.kind); err != nil {
			errs = append(errs, err)
		}
	}

	if timing := c.Section("Timing"); timing != nil {
		for _, key := range timing.Keys() {
			if isTypedKey("Timing", key) {
				continue
			}
			if err := c.checkValue("Timing", key, kindRange); err != nil {
				errs = append(errs, err)
			}
		}
	}
	return errors.Join(errs...)
}

func (c *Config) checkValue(section, key string, kind valueKind) error {
	var err error
	switch kind {
	case kindBool:
		_, err = c.Bool(section, key)
	case kindInt:
		_, err = c.Int(section, key)
	case kindFloat:
		_, err = c.Float(section, key)
	case kindRange:
		_, err = c.Range(section, key)
	case kindLanguage:
		_, err = c.LanguageTag(section, key)
	}
	return err
}

func isTypedKey(section, key string) bool {
	for _, tk := range typedKeys {
		if tk.section == section && tk.key == key {
			return true
		}
	}
	return false
}
