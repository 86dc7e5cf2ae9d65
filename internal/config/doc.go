// Package config builds, persists, and serves the cursorvip configuration.
//
// A Config is an ordered set of named sections, each an ordered set of string
// keys and values, stored on disk as config.ini. Default synthesizes the
// stock configuration for the host platform, including the WindowsPaths,
// MacPaths, or LinuxPaths section that points at Cursor's storage files.
//
// Store owns the config directory and a cached Config. Load writes defaults
// when the file is missing and otherwise returns the file as-is; ForceRefresh
// re-reads it and reinitializes when a required section has gone missing.
// Values stay strings on disk and are coerced where they are used through
// accessors such as Bool, Range, and LanguageTag.
package config
