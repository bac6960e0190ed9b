// Package session tracks the selections a user has made during one run.
package session

import (
	"fmt"
	"iter"

	"github.com/google/uuid"

	"github.com/pavelanni/quizrunner/internal/bank"
	"github.com/pavelanni/quizrunner/internal/model"
)

// State holds per-question selections. Entries are only ever set, overwritten
// or flipped; nothing is removed.
//
// State is not safe for concurrent use.
type State struct {
	id        string
	bank      *bank.Bank
	single    map[string]model.Label
	multi     map[string][]bool
	submitted map[string]bool
}

// New creates empty selection state for a fully loaded bank.
func New(b *bank.Bank) *State {
	return &State{
		id:        uuid.NewString(),
		bank:      b,
		single:    make(map[string]model.Label),
		multi:     make(map[string][]bool),
		submitted: make(map[string]bool),
	}
}

// ID identifies this run in logs and reports.
func (s *State) ID() string { return s.id }

// Bank returns the bank the state belongs to.
func (s *State) Bank() *bank.Bank { return s.bank }

func (s *State) lookup(id string, kind model.Kind) (model.Question, error) {
	q, ok := s.bank.Get(id)
	if !ok {
		return model.Question{}, fmt.Errorf("%w: %q", model.ErrUnknownQuestion, id)
	}
	if q.Kind() != kind {
		return model.Question{}, fmt.Errorf("%w: %q is %s-select", model.ErrKindMismatch, id, q.Kind())
	}
	return q, nil
}

// SelectSingle sets or overwrites the chosen label of a single-select question.
// The label is not checked against the correct answer.
func (s *State) SelectSingle(id string, label model.Label) error {
	q, err := s.lookup(id, model.KindSingle)
	if err != nil {
		return err
	}
	if label.Index() >= len(q.Options) {
		return fmt.Errorf("%w: %s, question has %d options", model.ErrIndexOutOfRange, label, len(q.Options))
	}
	s.single[id] = label
	return nil
}

// vector returns the flag vector of a multi-select question, creating an
// all-false one of len(Options) on first access.
func (s *State) vector(q model.Question) []bool {
	v, ok := s.multi[q.ID]
	if !ok {
		v = make([]bool, len(q.Options))
		s.multi[q.ID] = v
	}
	return v
}

// ToggleMulti flips the flag at index. An out-of-range index leaves the
// vector unchanged.
func (s *State) ToggleMulti(id string, index int) error {
	q, err := s.lookup(id, model.KindMulti)
	if err != nil {
		return err
	}
	if index < 0 || index >= len(q.Options) {
		return fmt.Errorf("%w: %d, question has %d options", model.ErrIndexOutOfRange, index, len(q.Options))
	}
	v := s.vector(q)
	v[index] = !v[index]
	return nil
}

// SubmitMulti marks a multi-select answer as submitted for grading.
func (s *State) SubmitMulti(id string) error {
	q, err := s.lookup(id, model.KindMulti)
	if err != nil {
		return err
	}
	s.vector(q)
	s.submitted[id] = true
	return nil
}

// Status returns the recorded selection for id. Unknown ids are Unanswered.
func (s *State) Status(id string) model.Status {
	if label, ok := s.single[id]; ok {
		return model.Status{State: model.AnsweredSingle, Label: label}
	}
	if v, ok := s.multi[id]; ok {
		return model.Status{
			State:     model.AnsweredMulti,
			Flags:     append([]bool(nil), v...),
			Submitted: s.submitted[id],
		}
	}
	return model.Status{State: model.Unanswered}
}

// SingleCount returns how many single-select questions have a chosen label.
func (s *State) SingleCount() int { return len(s.single) }

// SubmittedCount returns how many multi-select answers were submitted.
func (s *State) SubmittedCount() int { return len(s.submitted) }

// Answered yields every question with a recorded selection, in bank order.
func (s *State) Answered() iter.Seq2[model.Question, model.Status] {
	return func(yield func(model.Question, model.Status) bool) {
		for _, q := range s.bank.All() {
			st := s.Status(q.ID)
			if !st.Answered() {
				continue
			}
			if !yield(q, st) {
				return
			}
		}
	}
}

// Singles yields every chosen label, in bank order.
func (s *State) Singles() iter.Seq2[string, model.Label] {
	return func(yield func(string, model.Label) bool) {
		for _, q := range s.bank.All() {
			label, ok := s.single[q.ID]
			if !ok {
				continue
			}
			if !yield(q.ID, label) {
				return
			}
		}
	}
}

// Multis yields a copy of every selection vector, in bank order.
func (s *State) Multis() iter.Seq2[string, []bool] {
	return func(yield func(string, []bool) bool) {
		for _, q := range s.bank.All() {
			v, ok := s.multi[q.ID]
			if !ok {
				continue
			}
			if !yield(q.ID, append([]bool(nil), v...)) {
				return
			}
		}
	}
}
