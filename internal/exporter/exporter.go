// Package exporter assembles the Ideaflow import document from a vault and
// writes it to disk.
package exporter

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/veidar/munin/internal/idcache"
	"github.com/veidar/munin/internal/mapping"
	"github.com/veidar/munin/internal/parser"
	"github.com/veidar/munin/internal/storage"
	"github.com/veidar/munin/internal/token"
)

// Fixed values required by the Ideaflow import format.
const (
	FormatVersion   = "08212023"
	ImportSource    = "Obsidian"
	DefaultPosition = "aC"

	timestampLayout = "2006-01-02T15:04:05.000000Z"
	dateLayout      = "20060102"
)

// Summary is a lightweight description of one converted note, used by the
// preview API and the MCP surface. The import format itself carries no
// titles, so they only live here.
type Summary struct {
	ID         string `json:"id"`
	Title      string `json:"title"`
	Path       string `json:"path"`
	TokenCount int    `json:"token_count"`
}

// Exporter converts a vault into an import document.
type Exporter struct {
	store storage.Provider
	ext   string
	cache *idcache.Cache // nil disables stable identifiers
	log   *slog.Logger

	now func() time.Time
}

// New creates an Exporter over the given vault. cache may be nil.
func New(store storage.Provider, ext string, cache *idcache.Cache, logger *slog.Logger) *Exporter {
	if logger == nil {
		logger = slog.Default()
	}
	return &Exporter{
		store: store,
		ext:   ext,
		cache: cache,
		log:   logger,
		now:   time.Now,
	}
}

// Convert runs both passes over the vault: the mapping build, then the
// per-note tokenization. The title line is prepended to each note body
// before tokenizing. Any read failure aborts the whole conversion.
func (e *Exporter) Convert() (*token.Document, []Summary, error) {
	titles, err := mapping.Build(e.store, e.ext, e.cache)
	if err != nil {
		return nil, nil, fmt.Errorf("exporter: build mapping: %w", err)
	}

	metas, err := e.store.List("")
	if err != nil {
		return nil, nil, fmt.Errorf("exporter: list vault: %w", err)
	}

	notes := make(map[string]token.Note, len(metas))
	summaries := make([]Summary, 0, len(metas))
	for _, m := range metas {
		data, err := e.store.Read(m.Path)
		if err != nil {
			return nil, nil, fmt.Errorf("exporter: read %s: %w", m.Path, err)
		}

		title := mapping.TitleFromPath(m.Path, e.ext)
		id := titles[title]

		tokens := parser.Tokenize(title+"\n"+string(data), titles)

		ts := e.now().UTC()
		created := ts.Format(timestampLayout)
		notes[id] = token.Note{
			ID:           id,
			CreatedAt:    created,
			InsertedAt:   ts.Format(dateLayout),
			Position:     DefaultPosition,
			Tokens:       tokens,
			UpdatedAt:    created,
			ImportSource: ImportSource,
		}
		summaries = append(summaries, Summary{
			ID:         id,
			Title:      title,
			Path:       m.Path,
			TokenCount: len(tokens),
		})

		e.log.Debug("exporter: converted note",
			slog.String("path", m.Path),
			slog.String("id", id),
			slog.Int("tokens", len(tokens)))
	}

	return &token.Document{Version: FormatVersion, Notes: notes}, summaries, nil
}

// Render marshals the document the way the Ideaflow importer expects:
// UTF-8, pretty-printed with four-space indentation.
func Render(doc *token.Document) ([]byte, error) {
	data, err := json.MarshalIndent(doc, "", "    ")
	if err != nil {
		return nil, fmt.Errorf("exporter: marshal document: %w", err)
	}
	return data, nil
}

// Export converts the vault and writes the rendered document to outputPath.
func (e *Exporter) Export(outputPath string) (*token.Document, []Summary, error) {
	doc, summaries, err := e.Convert()
	if err != nil {
		return nil, nil, err
	}
	data, err := Render(doc)
	if err != nil {
		return nil, nil, err
	}
	if err := writeAtomic(outputPath, data); err != nil {
		return nil, nil, err
	}
	e.log.Info("exporter: wrote import document",
		slog.String("output", outputPath),
		slog.Int("notes", len(doc.Notes)))
	return doc, summaries, nil
}

// writeAtomic writes content via tmp file → fsync → rename so a failed run
// never leaves a truncated import file behind.
func writeAtomic(path string, content []byte) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".munin-tmp-*")
	if err != nil {
		return fmt.Errorf("exporter: create temp: %w", err)
	}
	tmpName := tmp.Name()

	success := false
	defer func() {
		if !success {
			_ = tmp.Close()
			_ = os.Remove(tmpName)
		}
	}()

	if _, err := tmp.Write(content); err != nil {
		return fmt.Errorf("exporter: write temp: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		return fmt.Errorf("exporter: fsync: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("exporter: close temp: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("exporter: rename: %w", err)
	}
	success = true
	return nil
}
