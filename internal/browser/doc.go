// Package browser locates the browser executables, WebDriver binaries and the
// Linux Cursor installation that the default configuration records.
//
// Lookups never fail: when nothing is installed the conventional location for
// the platform is returned so the user has a sensible value to edit.
package browser
