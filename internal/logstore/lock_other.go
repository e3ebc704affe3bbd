//go:build !unix

package logstore

// lockFile is a no-op where flock is unavailable; the in-process mutex
// still serializes access within one process.
func lockFile(string) (func(), error) {
	return func() {}, nil
}
