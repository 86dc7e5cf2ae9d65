// Package configdir chooses the directory that holds config.ini and the
// language cache.
//
// Resolution walks an ordered list of candidates and stops at the first one
// that yields a usable directory:
//
//  1. the CURSOR_FREE_VIP_CONFIG_DIR environment variable
//  2. a config_dir.txt marker file next to the executable
//  3. <documents>/.cursor-free-vip, verified with a probe write
//  4. <home>/.cursor-free-vip
//  5. <temp>/.cursor-free-vip, the fallback that only fails when the temp
//     directory itself is unusable
//
// Failed candidates are logged as warnings and skipped. The list is plain
// data, so callers and tests can build their own chain with NewResolver.
package configdir
