// Package bank builds and holds the question bank.
package bank

import (
	"iter"

	"github.com/pavelanni/quizrunner/internal/model"
)

// Bank is an insertion-ordered collection of questions keyed by id.
// It is read-only once Load or New returns it.
type Bank struct {
	order   []string
	byID    map[string]model.Question
	pos     map[string]int
	skipped []*MalformedRowError
}

func newBank(capacity int) *Bank {
	return &Bank{
		order: make([]string, 0, capacity),
		byID:  make(map[string]model.Question, capacity),
		pos:   make(map[string]int, capacity),
	}
}

// New builds a bank from questions in order. A repeated id replaces the
// earlier value but keeps its position.
func New(questions ...model.Question) *Bank {
	b := newBank(len(questions))
	for _, q := range questions {
		b.put(q)
	}
	return b
}

// put reports whether the id was new.
func (b *Bank) put(q model.Question) bool {
	_, exists := b.byID[q.ID]
	if !exists {
		b.pos[q.ID] = len(b.order)
		b.order = append(b.order, q.ID)
	}
	b.byID[q.ID] = q
	return !exists
}

// Get returns the question with the given id.
func (b *Bank) Get(id string) (model.Question, bool) {
	q, ok := b.byID[id]
	return q, ok
}

// Index returns the zero-based position of id.
func (b *Bank) Index(id string) (int, bool) {
	i, ok := b.pos[id]
	return i, ok
}

// At returns the question at zero-based position i.
func (b *Bank) At(i int) (model.Question, bool) {
	if i < 0 || i >= len(b.order) {
		return model.Question{}, false
	}
	return b.byID[b.order[i]], true
}

// Len returns the number of questions.
func (b *Bank) Len() int { return len(b.order) }

// All yields (position, question) pairs in load order. Each call starts over.
func (b *Bank) All() iter.Seq2[int, model.Question] {
	return func(yield func(int, model.Question) bool) {
		for i, id := range b.order {
			if !yield(i, b.byID[id]) {
				return
			}
		}
	}
}

// Window returns up to take questions starting after the first skip.
func (b *Bank) Window(skip, take int) []model.Question {
	if skip < 0 {
		skip = 0
	}
	if take <= 0 || skip >= len(b.order) {
		return nil
	}
	take = min(take, len(b.order)-skip)
	end := skip + take
	out := make([]model.Question, 0, end-skip)
	for _, id := range b.order[skip:end] {
		out = append(out, b.byID[id])
	}
	return out
}

// Pages returns how many windows of the given size cover the bank.
func (b *Bank) Pages(size int) int {
	if size <= 0 || len(b.order) == 0 {
		return 1
	}
	return (len(b.order)-1)/size + 1
}

// Skipped returns the rows dropped by a loader running with SkipMalformed.
func (b *Bank) Skipped() []*MalformedRowError {
	return b.skipped
}
