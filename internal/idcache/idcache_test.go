package idcache

import (
	"path/filepath"
	"testing"
)

func tempCache(t *testing.T) (*Cache, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "ids.db")
	c, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { c.Close() })
	return c, path
}

func TestPutAndGet(t *testing.T) {
	c, _ := tempCache(t)
	if err := c.Put("Note A", "abcd1234"); err != nil {
		t.Fatalf("Put: %v", err)
	}
	id, ok, err := c.Get("Note A")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if !ok || id != "abcd1234" {
		t.Errorf("got (%q, %v), want (abcd1234, true)", id, ok)
	}
}

func TestGetMissing(t *testing.T) {
	c, _ := tempCache(t)
	_, ok, err := c.Get("absent")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if ok {
		t.Error("expected ok=false for missing title")
	}
}

func TestPutOverwrites(t *testing.T) {
	c, _ := tempCache(t)
	_ = c.Put("Note", "first000")
	if err := c.Put("Note", "second00"); err != nil {
		t.Fatalf("Put: %v", err)
	}
	id, _, _ := c.Get("Note")
	if id != "second00" {
		t.Errorf("id = %q, want second00", id)
	}
}

func TestPersistsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ids.db")
	c, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	_ = c.Put("Durable", "deadbeef")
	if err := c.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	c2, err := Open(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer c2.Close()
	id, ok, err := c2.Get("Durable")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if !ok || id != "deadbeef" {
		t.Errorf("got (%q, %v) after reopen", id, ok)
	}
}

func TestAll(t *testing.T) {
	c, _ := tempCache(t)
	_ = c.Put("A", "1")
	_ = c.Put("B", "2")
	all, err := c.All()
	if err != nil {
		t.Fatalf("All: %v", err)
	}
	if len(all) != 2 || all["A"] != "1" || all["B"] != "2" {
		t.Errorf("all = %v", all)
	}
}

func TestOpenBadPath(t *testing.T) {
	_, err := Open(filepath.Join("/nonexistent-dir", "x.db"))
	if err == nil {
		t.Error("expected error for unwritable path")
	}
}
