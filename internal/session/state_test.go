package session

import (
	"errors"
	"reflect"
	"testing"

	"github.com/pavelanni/quizrunner/internal/bank"
	"github.com/pavelanni/quizrunner/internal/model"
)

func newTestState(t *testing.T) *State {
	t.Helper()
	b := bank.New(
		model.Question{ID: "single", Options: []string{"x", "y", "z"}, CorrectSpec: "B"},
		model.Question{ID: "multi", Options: []string{"x", "y", "z", "w"}, CorrectSpec: "AC"},
	)
	return New(b)
}

func TestSelectSingleOverwrites(t *testing.T) {
	s := newTestState(t)

	if st := s.Status("single"); st.State != model.Unanswered {
		t.Fatalf("expected unanswered, got %v", st.State)
	}
	if err := s.SelectSingle("single", model.LabelA); err != nil {
		t.Fatalf("SelectSingle: %v", err)
	}
	if err := s.SelectSingle("single", model.LabelC); err != nil {
		t.Fatalf("SelectSingle: %v", err)
	}
	st := s.Status("single")
	if st.State != model.AnsweredSingle || st.Label != model.LabelC {
		t.Errorf("status = %+v, want single C", st)
	}
	if s.SingleCount() != 1 {
		t.Errorf("SingleCount = %d, want 1", s.SingleCount())
	}
}

func TestSelectSingleErrors(t *testing.T) {
	s := newTestState(t)

	tests := []struct {
		name  string
		id    string
		label model.Label
		want  error
	}{
		{"unknown", "nope", model.LabelA, model.ErrUnknownQuestion},
		{"multi question", "multi", model.LabelA, model.ErrKindMismatch},
		{"no such option", "single", model.LabelD, model.ErrIndexOutOfRange},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := s.SelectSingle(tt.id, tt.label)
			if !errors.Is(err, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, err)
			}
		})
	}
	if s.Status("single").Answered() {
		t.Error("failed selections must not record anything")
	}
}

func TestToggleMultiLazyInit(t *testing.T) {
	s := newTestState(t)

	if err := s.ToggleMulti("multi", 2); err != nil {
		t.Fatalf("ToggleMulti: %v", err)
	}
	st := s.Status("multi")
	if st.State != model.AnsweredMulti {
		t.Fatalf("expected multi status, got %v", st.State)
	}
	if !reflect.DeepEqual(st.Flags, []bool{false, false, true, false}) {
		t.Errorf("flags = %v", st.Flags)
	}

	if err := s.ToggleMulti("multi", 2); err != nil {
		t.Fatalf("ToggleMulti: %v", err)
	}
	if got := s.Status("multi").Flags; !reflect.DeepEqual(got, []bool{false, false, false, false}) {
		t.Errorf("flags after second toggle = %v", got)
	}
}

func TestToggleMultiOutOfRange(t *testing.T) {
	s := newTestState(t)
	if err := s.ToggleMulti("multi", 0); err != nil {
		t.Fatalf("ToggleMulti: %v", err)
	}

	err := s.ToggleMulti("multi", 9)
	if !errors.Is(err, model.ErrIndexOutOfRange) {
		t.Fatalf("expected ErrIndexOutOfRange, got %v", err)
	}
	if got := s.Status("multi").Flags; !reflect.DeepEqual(got, []bool{true, false, false, false}) {
		t.Errorf("vector changed: %v", got)
	}

	if err := s.ToggleMulti("multi", -1); !errors.Is(err, model.ErrIndexOutOfRange) {
		t.Errorf("expected ErrIndexOutOfRange for negative index, got %v", err)
	}
	if err := s.ToggleMulti("single", 0); !errors.Is(err, model.ErrKindMismatch) {
		t.Errorf("expected ErrKindMismatch, got %v", err)
	}
}

func TestStatusReturnsCopy(t *testing.T) {
	s := newTestState(t)
	_ = s.ToggleMulti("multi", 1)

	st := s.Status("multi")
	st.Flags[0] = true
	if s.Status("multi").Flags[0] {
		t.Error("mutating a status must not change the state")
	}
}

func TestSubmitMulti(t *testing.T) {
	s := newTestState(t)
	if err := s.SubmitMulti("multi"); err != nil {
		t.Fatalf("SubmitMulti: %v", err)
	}
	st := s.Status("multi")
	if !st.Submitted || len(st.Flags) != 4 {
		t.Errorf("status = %+v, want submitted with 4 flags", st)
	}
	if s.SubmittedCount() != 1 {
		t.Errorf("SubmittedCount = %d", s.SubmittedCount())
	}
}

func TestAnsweredOrder(t *testing.T) {
	s := newTestState(t)
	_ = s.ToggleMulti("multi", 0)
	_ = s.SelectSingle("single", model.LabelB)

	var ids []string
	for q := range s.Answered() {
		ids = append(ids, q.ID)
	}
	if !reflect.DeepEqual(ids, []string{"single", "multi"}) {
		t.Errorf("answered = %v, want bank order", ids)
	}
	if s.ID() == "" {
		t.Error("expected a run id")
	}
}

func TestSinglesAndMultis(t *testing.T) {
	s := newTestState(t)
	_ = s.SelectSingle("single", model.LabelC)
	_ = s.ToggleMulti("multi", 3)

	singles := map[string]model.Label{}
	for id, l := range s.Singles() {
		singles[id] = l
	}
	if !reflect.DeepEqual(singles, map[string]model.Label{"single": model.LabelC}) {
		t.Errorf("singles = %v", singles)
	}

	for id, v := range s.Multis() {
		if id != "multi" || !reflect.DeepEqual(v, []bool{false, false, false, true}) {
			t.Errorf("multi %q = %v", id, v)
		}
		v[0] = true
	}
	if s.Status("multi").Flags[0] {
		t.Error("Multis must yield copies")
	}
}
