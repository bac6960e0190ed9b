package grading

import (
	"iter"
	"strings"
)

// WrongEntry is one question that was answered incorrectly at least once.
type WrongEntry struct {
	ID   string
	Blob string // options one per line, then the correct spec
}

// Options splits the blob back into option texts.
func (e WrongEntry) Options() []string {
	lines := strings.Split(e.Blob, "\n")
	return lines[:len(lines)-1]
}

// CorrectSpec returns the last line of the blob.
func (e WrongEntry) CorrectSpec() string {
	lines := strings.Split(e.Blob, "\n")
	return lines[len(lines)-1]
}

// WrongRecord is an insertion-ordered set of missed questions. Entries are
// added once and never updated or removed.
type WrongRecord struct {
	order []string
	blobs map[string]string
}

func newWrongRecord() *WrongRecord {
	return &WrongRecord{blobs: make(map[string]string)}
}

// add reports whether the id was inserted.
func (w *WrongRecord) add(id, blob string) bool {
	if _, ok := w.blobs[id]; ok {
		return false
	}
	w.order = append(w.order, id)
	w.blobs[id] = blob
	return true
}

// Len returns the number of recorded questions.
func (w *WrongRecord) Len() int { return len(w.order) }

// Contains reports whether id was ever recorded.
func (w *WrongRecord) Contains(id string) bool {
	_, ok := w.blobs[id]
	return ok
}

// All yields entries in the order they were recorded.
func (w *WrongRecord) All() iter.Seq[WrongEntry] {
	return func(yield func(WrongEntry) bool) {
		for _, id := range w.order {
			if !yield(WrongEntry{ID: id, Blob: w.blobs[id]}) {
				return
			}
		}
	}
}

// Entries returns a snapshot of the record.
func (w *WrongRecord) Entries() []WrongEntry {
	out := make([]WrongEntry, 0, len(w.order))
	for e := range w.All() {
		out = append(out, e)
	}
	return out
}
