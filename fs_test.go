package fileseq

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
)

func TestOSFS_RoundTrip(t *testing.T) {
	fsys := osFS{}
	dir := filepath.Join(t.TempDir(), "sub")

	if err := fsys.MkdirAll(dir, 0755); err != nil {
		t.Fatalf("MkdirAll: %v", err)
	}

	name := filepath.Join(dir, "a")
	if err := fsys.WriteFile(name, []byte("hi"), 0644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	got, err := fsys.ReadFile(name)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if !bytes.Equal(got, []byte("hi")) {
		t.Fatalf("ReadFile = %q, want %q", got, "hi")
	}

	renamed := filepath.Join(dir, "b")
	if err := fsys.Rename(name, renamed); err != nil {
		t.Fatalf("Rename: %v", err)
	}
	if _, err := fsys.Stat(renamed); err != nil {
		t.Fatalf("Stat after rename: %v", err)
	}
	if _, err := fsys.Stat(name); !os.IsNotExist(err) {
		t.Fatalf("Stat(old path) error = %v, want not-exist", err)
	}

	if err := fsys.Remove(renamed); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if _, err := fsys.Stat(renamed); !os.IsNotExist(err) {
		t.Fatalf("Stat after remove error = %v, want not-exist", err)
	}
}
