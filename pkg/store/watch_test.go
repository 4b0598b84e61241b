package store

import (
	"context"
	"testing"
	"time"
)

func TestDiskWatchEmitsKeyChanges(t *testing.T) {
	p, err := OpenDiskv(t.TempDir())
	if err != nil {
		t.Fatalf("open diskv: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ch, err := p.Watch(ctx)
	if err != nil {
		t.Fatalf("watch: %v", err)
	}

	// Allow watcher goroutine to subscribe to directories before storing.
	time.Sleep(50 * time.Millisecond)

	if err := p.Set(ctx, ProjectKey("abc"), []byte(`{}`)); err != nil {
		t.Fatalf("set: %v", err)
	}

	deadline := time.After(2 * time.Second)
	for {
		select {
		case evt := <-ch:
			if evt.Type == EventInvalidated {
				return
			}
			if evt.Key != ProjectKey("abc") {
				t.Fatalf("expected key %q, got %q", ProjectKey("abc"), evt.Key)
			}
			return
		case <-deadline:
			t.Fatal("timed out waiting for change event")
		}
	}
}
