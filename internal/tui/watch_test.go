package tui

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

const watchCatalog = `
[[element]]
symbol = "H"
z = 1
abundance = 12.0

[[transition]]
name = "HI 1215"
wrest = 1215.6701
f = 0.4164
gamma = 6.265e8
z = 1
`

func TestCatalogWatcher(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "catalog.toml")
	if err := os.WriteFile(path, []byte(watchCatalog), 0o644); err != nil {
		t.Fatal(err)
	}
	cw, err := WatchCatalog(path)
	if err != nil {
		t.Fatal(err)
	}
	defer cw.Close()

	msgs := make(chan any, 16)
	go func() {
		for {
			cmd := cw.Next()
			msg := cmd()
			if msg == nil {
				close(msgs)
				return
			}
			msgs <- msg
		}
	}()

	// A write can be seen half-done, so wait for the outcome we expect and
	// skip the rest.
	waitFor := func(want func(any) bool) {
		t.Helper()
		deadline := time.After(5 * time.Second)
		for {
			select {
			case msg, ok := <-msgs:
				if !ok {
					t.Fatal("watcher closed")
				}
				if want(msg) {
					return
				}
			case <-deadline:
				t.Fatal("timed out waiting for the watcher")
			}
		}
	}

	if err := os.WriteFile(path, []byte(watchCatalog), 0o644); err != nil {
		t.Fatal(err)
	}
	waitFor(func(msg any) bool {
		m, ok := msg.(MsgCatalogReloaded)
		return ok && m.Catalog.Len() == 1
	})

	if err := os.WriteFile(path, []byte("not = [toml"), 0o644); err != nil {
		t.Fatal(err)
	}
	waitFor(func(msg any) bool {
		_, ok := msg.(MsgCatalogError)
		return ok
	})

}

func TestNilWatcher(t *testing.T) {
	t.Parallel()
	var cw *CatalogWatcher
	if cw.Next() != nil {
		t.Error("nil watcher should not schedule a command")
	}
	if err := cw.Close(); err != nil {
		t.Error(err)
	}
}
