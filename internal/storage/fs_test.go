package storage

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func tempRoot(t *testing.T) *FS {
	t.Helper()
	dir := t.TempDir()
	fs, err := NewFS(dir)
	if err != nil {
		t.Fatalf("NewFS: %v", err)
	}
	return fs
}

func TestWriteAndRead(t *testing.T) {
	s := tempRoot(t)
	content := []byte("export type { Counter } from \"./Counter\";\n")
	if err := s.Write("index.ts", content); err != nil {
		t.Fatalf("Write: %v", err)
	}
	got, err := s.Read("index.ts")
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if string(got) != string(content) {
		t.Errorf("content mismatch: got %q", got)
	}
}

func TestWriteCreatesSubdirs(t *testing.T) {
	s := tempRoot(t)
	if err := s.Write("factories/Counter__factory.ts", []byte("deep")); err != nil {
		t.Fatalf("Write: %v", err)
	}
	got, err := s.Read("factories/Counter__factory.ts")
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if string(got) != "deep" {
		t.Errorf("content = %q", got)
	}
	info, err := os.Stat(filepath.Join(s.Root(), "factories", "Counter__factory.ts"))
	if err != nil {
		t.Fatalf("Stat: %v", err)
	}
	if info.Mode().Perm() != 0o644 {
		t.Errorf("mode = %v, want 0644", info.Mode().Perm())
	}
}

func TestDeletePrunesEmptyDirs(t *testing.T) {
	s := tempRoot(t)
	_ = s.Write("factories/a/Counter__factory.ts", []byte("bye"))
	_ = s.Write("keep.ts", []byte("stay"))
	if err := s.Delete("factories/a/Counter__factory.ts"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := s.Read("factories/a/Counter__factory.ts"); err == nil {
		t.Error("expected error reading deleted file")
	}
	if _, err := os.Stat(filepath.Join(s.Root(), "factories")); !os.IsNotExist(err) {
		t.Errorf("empty parent dirs should be pruned, stat err = %v", err)
	}
	if _, err := os.Stat(s.Root()); err != nil {
		t.Errorf("root must survive pruning: %v", err)
	}
	if err := s.Delete(""); err == nil {
		t.Error("expected error deleting root")
	}
}

func TestExists(t *testing.T) {
	s := tempRoot(t)
	_ = s.Write("sub/Counter.d.ts", []byte("x"))

	if ok, err := s.Exists("sub/Counter.d.ts"); err != nil || !ok {
		t.Errorf("Exists(file) = %v, %v", ok, err)
	}
	if ok, err := s.Exists("sub"); err != nil || ok {
		t.Errorf("Exists(dir) = %v, %v; directories are not files", ok, err)
	}
	if ok, err := s.Exists("missing.ts"); err != nil || ok {
		t.Errorf("Exists(missing) = %v, %v", ok, err)
	}
}

func TestList(t *testing.T) {
	s := tempRoot(t)
	_ = s.Write("Counter.json", []byte("a"))
	_ = s.Write("sub/Token.abi", []byte("b"))
	_ = s.Write("readme.txt", []byte("not an artifact"))

	all, err := s.List("", nil)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(all) != 3 {
		t.Errorf("len = %d, want 3", len(all))
	}

	items, err := s.List("", func(p string) bool { return !strings.HasSuffix(p, ".txt") })
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("len = %d, want 2", len(items))
	}
	if items[0].Path != "Counter.json" || items[1].Path != "sub/Token.abi" {
		t.Errorf("paths = %q, %q", items[0].Path, items[1].Path)
	}
	if items[0].Checksum == items[1].Checksum || len(items[0].Checksum) != 64 {
		t.Errorf("unexpected checksums %q %q", items[0].Checksum, items[1].Checksum)
	}
}

func TestTraversalBlocked(t *testing.T) {
	s := tempRoot(t)

	cases := []string{
		"../../etc/passwd",
		"../outside.ts",
		"/etc/shadow",
	}
	for _, p := range cases {
		if _, err := s.Read(p); err == nil {
			t.Errorf("expected error for path %q", p)
		}
		if err := s.Write(p, []byte("x")); err == nil {
			t.Errorf("expected error for write to %q", p)
		}
		if _, err := s.Exists(p); err == nil {
			t.Errorf("expected error for exists on %q", p)
		}
	}
}

func TestAtomicWriteNoCorruption(t *testing.T) {
	s := tempRoot(t)
	_ = s.Write("Counter.d.ts", []byte("original content"))

	updated := []byte("updated content")
	if err := s.Write("Counter.d.ts", updated); err != nil {
		t.Fatalf("Write: %v", err)
	}
	got, _ := s.Read("Counter.d.ts")
	if string(got) != string(updated) {
		t.Errorf("expected updated content, got %q", got)
	}

	// Confirm no leftover temp files.
	matches, _ := filepath.Glob(filepath.Join(s.root, tmpPrefix+"*"))
	if len(matches) != 0 {
		t.Errorf("leftover temp files: %v", matches)
	}
}

func TestNewFS_NonExistentDir(t *testing.T) {
	_, err := NewFS(filepath.Join(t.TempDir(), "does-not-exist"))
	if err == nil {
		t.Error("expected error for non-existent dir")
	}
}

func TestEnsureFS_CreatesDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "types", "ethers-contracts")
	s, err := EnsureFS(dir)
	if err != nil {
		t.Fatalf("EnsureFS: %v", err)
	}
	if s.Root() != dir {
		t.Errorf("root = %q, want %q", s.Root(), dir)
	}
}

func TestNewFS_FileNotDir(t *testing.T) {
	f, _ := os.CreateTemp("", "typegen-test-*")
	_ = f.Close()
	defer os.Remove(f.Name())
	_, err := NewFS(f.Name())
	if err == nil {
		t.Error("expected error when root is a file")
	}
}
