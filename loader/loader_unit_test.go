// ==============================================================================================
// FILE: loader/loader_unit_test.go
// ==============================================================================================

package loader

import (
	"os"
	"path/filepath"
	"testing"
)

func TestFileSystemLoaderFindsStdlibFirst(t *testing.T) {
	stdlib := t.TempDir()
	search := t.TempDir()

	if err := os.WriteFile(filepath.Join(stdlib, "math.pith"), []byte("# stdlib math\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(search, "math.pith"), []byte("# local math\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	l := NewFileSystemLoader(stdlib, search)
	src, err := l.Load("math")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if src != "# stdlib math\n" {
		t.Fatalf("expected stdlib version to win, got %q", src)
	}
}

func TestFileSystemLoaderFallsBackToSearchPath(t *testing.T) {
	stdlib := t.TempDir()
	search := t.TempDir()

	if err := os.WriteFile(filepath.Join(search, "utils.pith"), []byte("# utils\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	l := NewFileSystemLoader(stdlib, search)
	src, err := l.Load("utils")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if src != "# utils\n" {
		t.Fatalf("got %q", src)
	}
}

func TestFileSystemLoaderMissingModuleReturnsError(t *testing.T) {
	l := NewFileSystemLoader(t.TempDir())
	if _, err := l.Load("nope"); err == nil {
		t.Fatalf("expected an error for a missing module")
	}
}
