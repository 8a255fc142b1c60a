package generator

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/starford/typegen/internal/testutil"
)

// eventually polls fn every tick until it returns true or timeout elapses.
func eventually(t *testing.T, timeout, tick time.Duration, fn func() bool, msg string) {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if fn() {
			return
		}
		time.Sleep(tick)
	}
	t.Error(msg)
}

type recorder struct {
	mu      sync.Mutex
	reports []*Report
	errs    []error
}

func (r *recorder) callback(report *Report, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err != nil {
		r.errs = append(r.errs, err)
		return
	}
	r.reports = append(r.reports, report)
}

func (r *recorder) counts() (int, int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.reports), len(r.errs)
}

func startWatch(t *testing.T, e env, rec *recorder) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go e.gen.Watch(ctx, e.artifactsDir, 50*time.Millisecond, rec.callback)
	time.Sleep(100 * time.Millisecond)
}

func TestWatcher_NewArtifactGenerates(t *testing.T) {
	e := newEnv(t, Config{}, false)
	rec := &recorder{}
	startWatch(t, e, rec)

	testutil.WriteArtifact(t, e.artifactsDir, "Counter.json", testutil.CounterCombined)

	eventually(t, 5*time.Second, 50*time.Millisecond, func() bool {
		return e.exists("factories/Counter__factory.ts")
	}, "new artifact not generated by watcher")

	eventually(t, 2*time.Second, 50*time.Millisecond, func() bool {
		n, _ := rec.counts()
		return n > 0
	}, "expected a run report callback")
}

func TestWatcher_NewDirWatched(t *testing.T) {
	e := newEnv(t, Config{}, false)
	startWatch(t, e, &recorder{})

	subDir := filepath.Join(e.artifactsDir, "contracts", "Token.sol")
	_ = os.MkdirAll(subDir, 0o755)
	time.Sleep(100 * time.Millisecond)

	testutil.WriteArtifact(t, e.artifactsDir, "contracts/Token.sol/IBase.abi", testutil.BaseABI)

	eventually(t, 5*time.Second, 50*time.Millisecond, func() bool {
		return e.exists("factories/IBase__factory.ts")
	}, "artifact in new subdir not generated by watcher")
}

func TestWatcher_RemovedArtifactDeletesBindings(t *testing.T) {
	e := newEnv(t, Config{}, false)
	testutil.WriteArtifact(t, e.artifactsDir, "Counter.json", testutil.CounterCombined)
	testutil.WriteArtifact(t, e.artifactsDir, "IBase.abi", testutil.BaseABI)
	if _, err := e.gen.Generate(context.Background(), false); err != nil {
		t.Fatal(err)
	}
	startWatch(t, e, &recorder{})

	_ = os.Remove(filepath.Join(e.artifactsDir, "IBase.abi"))

	eventually(t, 5*time.Second, 50*time.Millisecond, func() bool {
		return !e.exists("IBase.d.ts") && e.exists("Counter.d.ts")
	}, "bindings of removed artifact still present")
}

func TestWatcher_FailedRunKeepsWatching(t *testing.T) {
	e := newEnv(t, Config{}, false)
	rec := &recorder{}
	startWatch(t, e, rec)

	testutil.WriteArtifact(t, e.artifactsDir, "Broken.abi", "[{")
	eventually(t, 5*time.Second, 50*time.Millisecond, func() bool {
		_, n := rec.counts()
		return n > 0
	}, "expected a failure callback")

	testutil.WriteArtifact(t, e.artifactsDir, "Broken.abi", testutil.BaseABI)
	eventually(t, 5*time.Second, 50*time.Millisecond, func() bool {
		return e.exists("Broken.d.ts")
	}, "watcher stopped after a failed run")
}

func TestRelevant(t *testing.T) {
	cases := []struct {
		ev   fsnotify.Event
		want bool
	}{
		{fsnotify.Event{Name: "/a/Counter.json", Op: fsnotify.Write}, true},
		{fsnotify.Event{Name: "/a/Counter.bin", Op: fsnotify.Create}, true},
		{fsnotify.Event{Name: "/a/Counter.json", Op: fsnotify.Chmod}, false},
		{fsnotify.Event{Name: "/a/Counter.dbg.json", Op: fsnotify.Write}, false},
		{fsnotify.Event{Name: "/a/notes.md", Op: fsnotify.Remove}, false},
		{fsnotify.Event{Name: "/a/contracts", Op: fsnotify.Remove}, true},
		{fsnotify.Event{Name: "/a/contracts", Op: fsnotify.Write}, false},
	}
	for _, tc := range cases {
		if got := relevant(tc.ev); got != tc.want {
			t.Errorf("relevant(%v) = %v, want %v", tc.ev, got, tc.want)
		}
	}
}
