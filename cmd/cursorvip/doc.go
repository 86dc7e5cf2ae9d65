// Package main hosts the cursorvip CLI entrypoint and command graph.
//
// The Cobra-based command tree exposes the configuration store: locating the
// config directory, printing the resolved configuration in several formats,
// forcing a refresh, validating values, watching the file for edits, and
// reading or writing single keys. Logging goes to stderr (and --log-file) so
// command output stays clean for scripting.
package main
