// Package testutil provides shared test helpers for setting up vaults and
// identifier caches.
package testutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/veidar/munin/internal/idcache"
	"github.com/veidar/munin/internal/storage"
)

// TestVault creates a temporary vault directory with a storage.Provider.
func TestVault(t *testing.T) (string, storage.Provider) {
	t.Helper()
	vaultDir := t.TempDir()
	store, err := storage.NewFS(vaultDir, ".md")
	if err != nil {
		t.Fatal(err)
	}
	return vaultDir, store
}

// WriteNote writes a note file (creating parent directories) into the vault.
func WriteNote(t *testing.T, vaultDir, rel string, content string) {
	t.Helper()
	p := filepath.Join(vaultDir, rel)
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

// TestCache creates a temporary SQLite identifier cache that is
// automatically cleaned up.
func TestCache(t *testing.T) *idcache.Cache {
	t.Helper()
	dbFile, err := os.CreateTemp("", "munin-test-*.db")
	if err != nil {
		t.Fatal(err)
	}
	dbFile.Close()
	t.Cleanup(func() { os.Remove(dbFile.Name()) })

	cache, err := idcache.Open(dbFile.Name())
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { cache.Close() })
	return cache
}
