package exporter

import (
	"context"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/veidar/munin/internal/checksum"
	"github.com/veidar/munin/internal/token"
)

// Event is one watcher notification. Kind is "changed" or "removed" with a
// vault-relative note path, or "exported" with the output path. On
// "exported" events Doc and Summaries carry the exact conversion that was
// written to disk, so consumers never need to re-convert.
type Event struct {
	Kind      string
	Path      string
	Doc       *token.Document
	Summaries []Summary
}

// EventCallback is called for vault changes and completed re-exports.
type EventCallback func(ev Event)

// debounce is how long the watcher waits after the last file event before
// re-running the conversion, so editor save bursts produce one export.
const debounce = 200 * time.Millisecond

// Watch starts an fsnotify watcher on the vault root and re-exports the
// whole document whenever note files change, until ctx is cancelled.
// Conversion identifiers are only stable across re-exports when an id
// cache is configured. The vault content is fingerprinted so an unchanged
// vault is not re-exported or re-announced.
//
// New directories created at runtime are added to the watch list.
func (e *Exporter) Watch(ctx context.Context, outputPath string, cb EventCallback) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()

	if err := addDirsRecursive(w, e.store.Root()); err != nil {
		return err
	}

	e.log.Info("watcher: started", slog.String("root", e.store.Root()))

	// The initial export has already run by the time Watch starts, so the
	// current vault fingerprint is the baseline for skipping no-op exports.
	lastSum, err := e.fingerprint()
	if err != nil {
		return err
	}

	var exportTimer *time.Timer
	var exportCh <-chan time.Time

	scheduleExport := func() {
		if exportTimer == nil {
			exportTimer = time.NewTimer(debounce)
			exportCh = exportTimer.C
			return
		}
		// Stop and drain a fired-but-unread timer so Reset cannot deliver
		// a stale export tick.
		if !exportTimer.Stop() {
			select {
			case <-exportCh:
			default:
			}
		}
		exportTimer.Reset(debounce)
	}

	for {
		select {
		case <-ctx.Done():
			if exportTimer != nil {
				exportTimer.Stop()
			}
			e.log.Info("watcher: stopped")
			return nil

		case <-exportCh:
			sum, doc, summaries, exportErr := e.reexport(outputPath, lastSum)
			if exportErr != nil {
				e.log.Warn("watcher: re-export failed", slog.String("error", exportErr.Error()))
				continue
			}
			if doc != nil {
				lastSum = sum
				if cb != nil {
					cb(Event{Kind: "exported", Path: outputPath, Doc: doc, Summaries: summaries})
				}
			}

		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}

			absPath := ev.Name

			// New directories join the watch list; anything already in
			// them is picked up by the scheduled export.
			if ev.Op&fsnotify.Create != 0 {
				if info, statErr := os.Stat(absPath); statErr == nil && info.IsDir() {
					if addErr := addDirsRecursive(w, absPath); addErr != nil {
						e.log.Warn("watcher: add new dir failed",
							slog.String("path", absPath),
							slog.String("error", addErr.Error()))
					}
					scheduleExport()
					continue
				}
			}

			if !strings.HasSuffix(absPath, e.ext) {
				continue
			}
			rel, relErr := filepath.Rel(e.store.Root(), absPath)
			if relErr != nil {
				continue
			}

			switch {
			case ev.Op&(fsnotify.Create|fsnotify.Write) != 0:
				e.log.Debug("watcher: note changed", slog.String("path", rel))
				if cb != nil {
					cb(Event{Kind: "changed", Path: rel})
				}
				scheduleExport()

			case ev.Op&(fsnotify.Remove|fsnotify.Rename) != 0:
				e.log.Debug("watcher: note removed", slog.String("path", rel))
				if cb != nil {
					cb(Event{Kind: "removed", Path: rel})
				}
				scheduleExport()
			}

		case watchErr, ok := <-w.Errors:
			if !ok {
				return nil
			}
			e.log.Error("watcher: error", slog.String("error", watchErr.Error()))
		}
	}
}

// reexport re-runs the conversion unless the vault fingerprint still equals
// lastSum. It returns the current fingerprint plus the conversion that was
// written; doc is nil when the export was skipped.
func (e *Exporter) reexport(outputPath, lastSum string) (string, *token.Document, []Summary, error) {
	sum, err := e.fingerprint()
	if err != nil {
		return "", nil, nil, err
	}
	if sum == lastSum {
		return sum, nil, nil, nil
	}
	doc, summaries, err := e.Convert()
	if err != nil {
		return "", nil, nil, err
	}
	data, err := Render(doc)
	if err != nil {
		return "", nil, nil, err
	}
	if err := writeAtomic(outputPath, data); err != nil {
		return "", nil, nil, err
	}
	e.log.Info("watcher: re-exported", slog.String("output", outputPath), slog.Int("notes", len(doc.Notes)))
	return sum, doc, summaries, nil
}

// fingerprint digests the vault's file paths and contents, in List order, so
// any note addition, removal, or edit changes the result. Contents are read
// and hashed here, in the watcher path only; plain conversions never hash
// the vault.
func (e *Exporter) fingerprint() (string, error) {
	metas, err := e.store.List("")
	if err != nil {
		return "", err
	}
	var b strings.Builder
	for _, m := range metas {
		data, err := e.store.Read(m.Path)
		if err != nil {
			return "", err
		}
		b.WriteString(m.Path)
		b.WriteByte(0)
		b.WriteString(checksum.Sum(data))
		b.WriteByte(0)
	}
	return checksum.Sum([]byte(b.String())), nil
}

// addDirsRecursive adds root and all its subdirectories to the watcher.
func addDirsRecursive(w *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return w.Add(path)
		}
		return nil
	})
}
