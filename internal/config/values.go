package config

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/text/language"
)

var (
	// ErrSectionNotFound is returned by accessors when the section is absent.
	ErrSectionNotFound = errors.New("section not found")
	// ErrKeyNotFound is returned by accessors when the key is absent.
	ErrKeyNotFound = errors.New("key not found")
)

// Range is a closed interval of seconds, written "min-max" or as a single number.
type Range struct {
	Min float64
	Max float64
}

// String returns the raw value of section.key.
func (c *Config) String(section, key string) (string, error) {
	s := c.Section(section)
	if s == nil {
		return "", fmt.Errorf("%s: %w", section, ErrSectionNotFound)
	}
	value, ok := s.Get(key)
	if !ok {
		return "", fmt.Errorf("%s.%s: %w", section, normalizeKey(key), ErrKeyNotFound)
	}
	return value, nil
}

// Bool parses section.key using INI boolean words.
func (c *Config) Bool(section, key string) (bool, error) {
	raw, err := c.String(section, key)
	if err != nil {
		return false, err
	}
	value, err := ParseBool(raw)
	if err != nil {
		return false, fmt.Errorf("%s.%s: %w", section, normalizeKey(key), err)
	}
	return value, nil
}

// Int parses section.key as a base-10 integer.
func (c *Config) Int(section, key string) (int, error) {
	raw, err := c.String(section, key)
	if err != nil {
		return 0, err
	}
	value, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0, fmt.Errorf("%s.%s: %w", section, normalizeKey(key), err)
	}
	return value, nil
}

// Float parses section.key as a float.
func (c *Config) Float(section, key string) (float64, error) {
	raw, err := c.String(section, key)
	if err != nil {
		return 0, err
	}
	value, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return 0, fmt.Errorf("%s.%s: %w", section, normalizeKey(key), err)
	}
	return value, nil
}

// Range parses section.key with ParseRange.
func (c *Config) Range(section, key string) (Range, error) {
	raw, err := c.String(section, key)
	if err != nil {
		return Range{}, err
	}
	r, err := ParseRange(raw)
	if err != nil {
		return Range{}, fmt.Errorf("%s.%s: %w", section, normalizeKey(key), err)
	}
	return r, nil
}

// LanguageTag parses section.key as a BCP 47 tag. An empty value means
// "detect from the system" and yields language.Und.
func (c *Config) LanguageTag(section, key string) (language.Tag, error) {
	raw, err := c.String(section, key)
	if err != nil {
		return language.Und, err
	}
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return language.Und, nil
	}
	tag, err := language.Parse(strings.ReplaceAll(raw, "_", "-"))
	if err != nil {
		return language.Und, fmt.Errorf("%s.%s: %w", section, normalizeKey(key), err)
	}
	return tag, nil
}

// ParseBool accepts 1/yes/true/on and 0/no/false/off in any case.
func ParseBool(raw string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "1", "yes", "true", "on":
		return true, nil
	case "0", "no", "false", "off":
		return false, nil
	default:
		return false, fmt.Errorf("not a boolean: %q", raw)
	}
}

// ParseRange parses "a-b" or "a". Min must not exceed Max.
func ParseRange(raw string) (Range, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return Range{}, errors.New("empty range")
	}

	// Skip the first byte so a leading sign is not taken for the separator.
	sep := -1
	if len(trimmed) > 1 {
		if idx := strings.IndexByte(trimmed[1:], '-'); idx >= 0 {
			sep = idx + 1
		}
	}

	if sep < 0 {
		value, err := strconv.ParseFloat(trimmed, 64)
		if err != nil {
			return Range{}, fmt.Errorf("parse range %q: %w", raw, err)
		}
		return Range{Min: value, Max: value}, nil
	}

	lo, err := strconv.ParseFloat(strings.TrimSpace(trimmed[:sep]), 64)
	if err != nil {
		return Range{}, fmt.Errorf("parse range %q: %w", raw, err)
	}
	hi, err := strconv.ParseFloat(strings.TrimSpace(trimmed[sep+1:]), 64)
	if err != nil {
		return Range{}, fmt.Errorf("parse range %q: %w", raw, err)
	}
	if lo > hi {
		return Range{}, fmt.Errorf("parse range %q: min exceeds max", raw)
	}
	return Range{Min: lo, Max: hi}, nil
}
