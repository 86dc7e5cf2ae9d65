package config

import (
	"fmt"
	"io"
	"strings"

	"cursorvip/internal/fileutil"
)

const (
	ansiReset  = "\033[0m"
	ansiRed    = "\033[31m"
	ansiGreen  = "\033[32m"
	ansiYellow = "\033[33m"
	ansiCyan   = "\033[36m"
)

const ruleWidth = 50

// PrintOptions controls Print output.
type PrintOptions struct {
	// Path is shown as the config file location.
	Path string
	// Color enables ANSI colour.
	Color bool
	// Exists checks path values; defaults to fileutil.Exists.
	Exists func(string) bool
}

// Print writes a human-readable dump of cfg. Keys whose name contains "path"
// are annotated with whether the path exists. Write errors are ignored.
func Print(w io.Writer, cfg *Config, opts PrintOptions) {
	exists := opts.Exists
	if exists == nil {
		exists = fileutil.Exists
	}
	paint := func(color, text string) string {
		if !opts.Color {
			return text
		}
		return color + text + ansiReset
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, paint(ansiCyan, "Configuration"))
	fmt.Fprintln(w, paint(ansiCyan, strings.Repeat("─", ruleWidth)))

	if cfg == nil {
		fmt.Fprintln(w, paint(ansiRed, "Error: configuration unavailable"))
		return
	}

	if opts.Path != "" {
		fmt.Fprintf(w, "Config file: %s\n", paint(ansiYellow, opts.Path))
	}

	for _, section := range cfg.sections {
		fmt.Fprintf(w, "\n%s\n", paint(ansiCyan, "["+section.name+"]"))
		for _, key := range section.keys {
			value := section.values[key]
			line := fmt.Sprintf("  %s = %s", key, value)
			if strings.Contains(strings.ToLower(key), "path") && value != "" {
				if exists(value) {
					line = fmt.Sprintf("  %s = %s %s", key, value, paint(ansiGreen, "(exists)"))
				} else {
					line = fmt.Sprintf("  %s = %s %s", key, value, paint(ansiRed, "(not found)"))
				}
			}
			fmt.Fprintln(w, line)
		}
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, paint(ansiCyan, strings.Repeat("─", ruleWidth)))
}
