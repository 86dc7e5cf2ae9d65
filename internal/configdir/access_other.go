//go:build !unix

package configdir

// Windows ACLs are not captured by a mode check; the documents candidate's
// probe write covers the primary location there.
func checkAccess(string) error { return nil }
