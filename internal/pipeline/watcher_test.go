package pipeline

import (
	"context"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"
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

func TestWatch_ChangeTriggersRebuild(t *testing.T) {
	vaultDir := t.TempDir()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var rebuilds atomic.Int64
	go Watch(ctx, vaultDir, discardLogger(), func() {
		rebuilds.Add(1)
	})

	time.Sleep(100 * time.Millisecond)

	_ = os.WriteFile(filepath.Join(vaultDir, "new.md"), []byte("# New"), 0o644)

	eventually(t, 5*time.Second, 50*time.Millisecond, func() bool {
		return rebuilds.Load() >= 1
	}, "expected a rebuild after vault change")
}

func TestWatch_DebounceCoalescesBurst(t *testing.T) {
	vaultDir := t.TempDir()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var rebuilds atomic.Int64
	go Watch(ctx, vaultDir, discardLogger(), func() {
		rebuilds.Add(1)
	})

	time.Sleep(100 * time.Millisecond)

	// A save burst inside the debounce window should settle into one rebuild.
	for i := 0; i < 5; i++ {
		_ = os.WriteFile(filepath.Join(vaultDir, "burst.md"), []byte("# B"), 0o644)
		time.Sleep(10 * time.Millisecond)
	}

	eventually(t, 5*time.Second, 50*time.Millisecond, func() bool {
		return rebuilds.Load() >= 1
	}, "expected a rebuild after burst")
	// Allow a second debounce window to elapse, then confirm no extra storm.
	time.Sleep(2 * debounce)
	if n := rebuilds.Load(); n > 2 {
		t.Errorf("rebuilds = %d, want the burst coalesced", n)
	}
}

func TestWatch_NonMarkdownIgnored(t *testing.T) {
	vaultDir := t.TempDir()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var rebuilds atomic.Int64
	go Watch(ctx, vaultDir, discardLogger(), func() {
		rebuilds.Add(1)
	})

	time.Sleep(100 * time.Millisecond)

	_ = os.WriteFile(filepath.Join(vaultDir, "notes.txt"), []byte("not markdown"), 0o644)

	time.Sleep(2 * debounce)
	if n := rebuilds.Load(); n != 0 {
		t.Errorf("rebuilds = %d, want 0 for non-markdown change", n)
	}
}

func TestWatch_NewSubdirWatched(t *testing.T) {
	vaultDir := t.TempDir()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var rebuilds atomic.Int64
	go Watch(ctx, vaultDir, discardLogger(), func() {
		rebuilds.Add(1)
	})

	time.Sleep(100 * time.Millisecond)

	subDir := filepath.Join(vaultDir, "subdir")
	_ = os.MkdirAll(subDir, 0o755)
	time.Sleep(200 * time.Millisecond)

	before := rebuilds.Load()
	_ = os.WriteFile(filepath.Join(subDir, "deep.md"), []byte("# Deep"), 0o644)

	eventually(t, 5*time.Second, 50*time.Millisecond, func() bool {
		return rebuilds.Load() > before
	}, "file in new subdir did not trigger a rebuild")
}

func TestWatch_StopsOnCancel(t *testing.T) {
	vaultDir := t.TempDir()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- Watch(ctx, vaultDir, discardLogger(), func() {})
	}()

	time.Sleep(100 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Watch returned %v on cancel", err)
		}
	case <-time.After(2 * time.Second):
		t.Error("Watch did not return after context cancel")
	}
}
