// Package logging assembles structured slog loggers for the cursorvip CLI and
// its configuration packages.
//
// Console output leads every line with a severity label (INFO, WARN, ERROR)
// so users can tell recoverable fallbacks from fatal failures at a glance; a
// JSON handler is available for machine consumption. NewNop returns a logger
// for tests and wiring code that cannot fail.
package logging
