package internal

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/starford/typegen/internal/apperr"
	"github.com/starford/typegen/internal/testutil"
)

func testConfig(t *testing.T) *Config {
	t.Helper()
	root := t.TempDir()
	cfg := NewDefaultConfig()
	cfg.App.LogLevel = 8 // above error, keeps test output quiet
	cfg.Artifacts.Dir = filepath.Join(root, "artifacts")
	cfg.Output.Dir = filepath.Join(root, "types")
	cfg.Cache.Path = filepath.Join(root, ".typegen", "cache.db")
	if err := os.MkdirAll(cfg.Artifacts.Dir, 0o755); err != nil {
		t.Fatal(err)
	}
	return cfg
}

func TestRun_RequiresConfig(t *testing.T) {
	if err := Run(context.Background()); err == nil {
		t.Fatal("Run without config should fail")
	}
}

func TestRun_SinglePass(t *testing.T) {
	cfg := testConfig(t)
	testutil.WriteArtifact(t, cfg.Artifacts.Dir, "Counter.json", testutil.CounterCombined)

	var buf bytes.Buffer
	if err := Run(context.Background(), WithConfig(cfg), WithOutput(&buf)); err != nil {
		t.Fatalf("Run: %v", err)
	}

	for _, rel := range []string{"Counter.d.ts", "factories/Counter__factory.ts", "common.d.ts", "index.ts"} {
		if _, err := os.Stat(filepath.Join(cfg.Output.Dir, filepath.FromSlash(rel))); err != nil {
			t.Errorf("missing %s: %v", rel, err)
		}
	}
	if _, err := os.Stat(cfg.Cache.Path); err != nil {
		t.Errorf("cache not created: %v", err)
	}
	if !strings.Contains(buf.String(), "Generated 1 typings") {
		t.Errorf("summary = %q", buf.String())
	}

	// Second run sees the cache and skips.
	buf.Reset()
	if err := Run(context.Background(), WithConfig(cfg), WithOutput(&buf)); err != nil {
		t.Fatalf("second Run: %v", err)
	}
	if !strings.Contains(buf.String(), "nothing generated") {
		t.Errorf("second summary = %q", buf.String())
	}
}

func TestRun_WithoutCache(t *testing.T) {
	cfg := testConfig(t)
	cfg.Cache.Path = ""
	testutil.WriteArtifact(t, cfg.Artifacts.Dir, "IBase.abi", testutil.BaseABI)

	var buf bytes.Buffer
	if err := Run(context.Background(), WithConfig(cfg), WithOutput(&buf), WithVerbose(true)); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if !strings.Contains(buf.String(), "factories/IBase__factory.ts") {
		t.Errorf("verbose summary should list the abstract factory: %q", buf.String())
	}
}

func TestRun_MalformedArtifactFails(t *testing.T) {
	cfg := testConfig(t)
	testutil.WriteArtifact(t, cfg.Artifacts.Dir, "Broken.abi", "[{")

	var buf bytes.Buffer
	err := Run(context.Background(), WithConfig(cfg), WithOutput(&buf))
	if !errors.Is(err, apperr.ErrMalformedArtifact) {
		t.Fatalf("err = %v, want malformed artifact", err)
	}
	if !strings.Contains(buf.String(), "Generation failed") {
		t.Errorf("summary = %q", buf.String())
	}
}
