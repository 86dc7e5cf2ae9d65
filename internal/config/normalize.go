package config

import "strings"

func normalizeKey(key string) string {
	return strings.ToLower(strings.TrimSpace(key))
}

func normalizeSection(name string) string {
	return strings.TrimSpace(name)
}

// normalizeValue strips surrounding whitespace from every line, the way an
// INI reader sees a value, so stored values survive a write and re-read.
func normalizeValue(value string) string {
	if !strings.Contains(value, "\n") {
		return strings.TrimSpace(value)
	}
	lines := strings.Split(strings.TrimSpace(value), "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSpace(line)
	}
	return strings.Join(lines, "\n")
}
