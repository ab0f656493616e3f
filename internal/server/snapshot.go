package server

import (
	"sync"

	"github.com/veidar/munin/internal/apperr"
	"github.com/veidar/munin/internal/exporter"
	"github.com/veidar/munin/internal/token"
)

// Snapshot holds the latest converted document for the preview API. The
// watcher swaps in a fresh conversion after each re-export while request
// handlers read concurrently.
type Snapshot struct {
	mu        sync.RWMutex
	doc       *token.Document
	summaries []exporter.Summary
}

// NewSnapshot creates a snapshot seeded with the initial conversion.
func NewSnapshot(doc *token.Document, summaries []exporter.Summary) *Snapshot {
	return &Snapshot{doc: doc, summaries: summaries}
}

// Update replaces the held document and summaries.
func (s *Snapshot) Update(doc *token.Document, summaries []exporter.Summary) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.doc = doc
	s.summaries = summaries
}

// Document returns the current import document.
func (s *Snapshot) Document() *token.Document {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.doc
}

// Summaries returns the current note summaries.
func (s *Snapshot) Summaries() []exporter.Summary {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.summaries
}

// Note returns one note record by identifier.
func (s *Snapshot) Note(id string) (token.Note, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	n, ok := s.doc.Notes[id]
	if !ok {
		return token.Note{}, apperr.ErrNotFound
	}
	return n, nil
}
