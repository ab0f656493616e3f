// Package mapping builds the title-to-identifier table used to resolve
// [[wikilinks]] during tokenization.
package mapping

import (
	"path/filepath"
	"strings"

	"github.com/veidar/munin/internal/idcache"
	"github.com/veidar/munin/internal/ident"
	"github.com/veidar/munin/internal/storage"
)

// Table maps normalised note titles to note identifiers. It is built once
// before tokenization and read-only afterwards.
type Table map[string]string

// TitleFromPath derives a note title from a vault-relative file path:
// the base name without the extension, with all '#' characters removed.
func TitleFromPath(path, ext string) string {
	name := filepath.Base(path)
	name = strings.TrimSuffix(name, ext)
	return strings.ReplaceAll(name, "#", "")
}

// Build scans every note file in the vault and assigns an identifier per
// title. Files normalising to the same title silently overwrite earlier
// entries (last scanned wins). When cache is non-nil, identifiers already
// stored for a title are reused so re-exports stay stable; fresh
// assignments are written back to the cache.
func Build(store storage.Provider, ext string, cache *idcache.Cache) (Table, error) {
	metas, err := store.List("")
	if err != nil {
		return nil, err
	}

	table := make(Table, len(metas))
	for _, m := range metas {
		title := TitleFromPath(m.Path, ext)

		if cache != nil {
			id, ok, err := cache.Get(title)
			if err != nil {
				return nil, err
			}
			if ok {
				table[title] = id
				continue
			}
		}

		id := ident.New()
		if cache != nil {
			if err := cache.Put(title, id); err != nil {
				return nil, err
			}
		}
		table[title] = id
	}
	return table, nil
}
