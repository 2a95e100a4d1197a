package fileseq

import "os"

// FS is the filesystem surface a Store needs. It exists so tests and
// embedders can substitute fault-injecting or in-memory implementations.
type FS interface {
	// MkdirAll creates a directory and any missing parents.
	MkdirAll(path string, perm os.FileMode) error

	// ReadFile returns the full contents of a file.
	ReadFile(name string) ([]byte, error)

	// WriteFile writes data to a file, creating or truncating it.
	WriteFile(name string, data []byte, perm os.FileMode) error

	// Rename atomically replaces newpath with oldpath.
	Rename(oldpath, newpath string) error

	// Remove deletes a file.
	Remove(name string) error

	// Stat reports metadata for a file, failing if it does not exist.
	Stat(name string) (os.FileInfo, error)
}

// osFS is the host filesystem.
type osFS struct{}

func (osFS) MkdirAll(path string, perm os.FileMode) error {
	return os.MkdirAll(path, perm)
}

func (osFS) ReadFile(name string) ([]byte, error) {
	return os.ReadFile(name)
}

func (osFS) WriteFile(name string, data []byte, perm os.FileMode) error {
	return os.WriteFile(name, data, perm)
}

func (osFS) Rename(oldpath, newpath string) error {
	return os.Rename(oldpath, newpath)
}

func (osFS) Remove(name string) error {
	return os.Remove(name)
}

func (osFS) Stat(name string) (os.FileInfo, error) {
	return os.Stat(name)
}

// Ensure interface compliance at compile time.
var _ FS = osFS{}
