// Package testutil provides shared fixtures for artifacts, output
// directories and cache databases.
package testutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/starford/typegen/internal/cache"
	"github.com/starford/typegen/internal/storage"
)

// CounterABI is a small ABI with a constructor, a view, a transaction, an
// overloaded function and an event.
const CounterABI = `[
  {"type":"constructor","inputs":[{"name":"initial","type":"uint256"}],"stateMutability":"nonpayable"},
  {"type":"function","name":"count","inputs":[],"outputs":[{"name":"","type":"uint256"}],"stateMutability":"view"},
  {"type":"function","name":"increment","inputs":[],"outputs":[],"stateMutability":"nonpayable"},
  {"type":"function","name":"add","inputs":[{"name":"by","type":"uint256"}],"outputs":[],"stateMutability":"nonpayable"},
  {"type":"function","name":"add","inputs":[{"name":"by","type":"uint256"},{"name":"times","type":"uint8"}],"outputs":[],"stateMutability":"nonpayable"},
  {"type":"event","name":"Incremented","anonymous":false,"inputs":[{"name":"by","type":"address","indexed":true},{"name":"value","type":"uint256","indexed":false}]}
]`

// CounterBytecode is the raw hex contents of a .bin artifact.
const CounterBytecode = "0x6080604052348015600f57600080fd5b50603f80601d6000396000f3fe"

// CounterCombined is a hardhat-style combined artifact.
const CounterCombined = `{
  "contractName": "Counter",
  "abi": ` + CounterABI + `,
  "bytecode": "` + CounterBytecode + `"
}`

// BaseABI is an interface-only ABI.
const BaseABI = `[
  {"type":"function","name":"owner","inputs":[],"outputs":[{"name":"","type":"address"}],"stateMutability":"view"}
]`

// TestDB creates a temporary cache database that is automatically cleaned up.
func TestDB(t *testing.T) *cache.DB {
	t.Helper()
	db, err := cache.Open(filepath.Join(t.TempDir(), "typegen-test.db"))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

// TestDirs creates temporary artifact and output directories with their
// storage providers.
func TestDirs(t *testing.T) (artifactsDir string, artifacts *storage.FS, outDir string, out *storage.FS) {
	t.Helper()
	artifactsDir = t.TempDir()
	outDir = t.TempDir()
	var err error
	if artifacts, err = storage.NewFS(artifactsDir); err != nil {
		t.Fatal(err)
	}
	if out, err = storage.NewFS(outDir); err != nil {
		t.Fatal(err)
	}
	return artifactsDir, artifacts, outDir, out
}

// WriteArtifact writes contents to rel under dir, creating parent directories.
func WriteArtifact(t *testing.T, dir, rel, contents string) {
	t.Helper()
	p := filepath.Join(dir, rel)
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(p, []byte(contents), 0o644); err != nil {
		t.Fatal(err)
	}
}
