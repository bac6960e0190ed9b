package grading

import (
	"reflect"
	"testing"

	"github.com/pavelanni/quizrunner/internal/bank"
	"github.com/pavelanni/quizrunner/internal/model"
	"github.com/pavelanni/quizrunner/internal/session"
)

var acQuestion = model.Question{ID: "multi", Options: []string{"X", "Y", "Z", "W"}, CorrectSpec: "AC"}

func threeSingles(t *testing.T) *session.State {
	t.Helper()
	opts := []string{"first", "second", "third"}
	return session.New(bank.New(
		model.Question{ID: "q1", Options: opts, CorrectSpec: "A"},
		model.Question{ID: "q2", Options: opts, CorrectSpec: "B"},
		model.Question{ID: "q3", Options: opts, CorrectSpec: "C"},
	))
}

func TestDeriveCorrectness(t *testing.T) {
	tests := []struct {
		name string
		q    model.Question
		want []bool
	}{
		{"AC", acQuestion, []bool{true, false, true, false}},
		{"single", model.Question{Options: []string{"a", "b"}, CorrectSpec: "B"}, []bool{false, true}},
		{"unknown characters ignored", model.Question{Options: []string{"a", "b", "c"}, CorrectSpec: "AxZ c"}, []bool{true, false, false}},
		{"label past last option", model.Question{Options: []string{"a", "b"}, CorrectSpec: "AH"}, []bool{true, false}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DeriveCorrectness(tt.q); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("DeriveCorrectness = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestEvaluateMultiExactMatch(t *testing.T) {
	tests := []struct {
		name  string
		flags []bool
		want  bool
	}{
		{"exact", []bool{true, false, true, false}, true},
		{"superset", []bool{true, true, true, false}, false},
		{"subset", []bool{true, false, false, false}, false},
		{"none", []bool{false, false, false, false}, false},
		{"wrong length", []bool{true, false, true}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := EvaluateMulti(acQuestion, tt.flags); got != tt.want {
				t.Errorf("EvaluateMulti(%v) = %v, want %v", tt.flags, got, tt.want)
			}
		})
	}
}

func TestEvaluateSingle(t *testing.T) {
	q := model.Question{Options: []string{"a", "b"}, CorrectSpec: "B"}
	if !EvaluateSingle(q, model.LabelB) {
		t.Error("B should be correct")
	}
	if EvaluateSingle(q, model.LabelA) {
		t.Error("A should be incorrect")
	}
}

func TestEvaluateVerdicts(t *testing.T) {
	single := model.Question{Options: []string{"a", "b"}, CorrectSpec: "A"}
	tests := []struct {
		name string
		q    model.Question
		st   model.Status
		want model.Verdict
	}{
		{"unanswered", single, model.Status{}, model.VerdictPending},
		{"single correct", single, model.Status{State: model.AnsweredSingle, Label: model.LabelA}, model.VerdictCorrect},
		{"single wrong", single, model.Status{State: model.AnsweredSingle, Label: model.LabelB}, model.VerdictIncorrect},
		{"multi not submitted", acQuestion, model.Status{State: model.AnsweredMulti, Flags: []bool{true, false, true, false}}, model.VerdictPending},
		{"multi submitted", acQuestion, model.Status{State: model.AnsweredMulti, Flags: []bool{true, false, true, false}, Submitted: true}, model.VerdictCorrect},
		{"multi submitted wrong", acQuestion, model.Status{State: model.AnsweredMulti, Flags: []bool{true, true, true, false}, Submitted: true}, model.VerdictIncorrect},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Evaluate(tt.q, tt.st); got != tt.want {
				t.Errorf("Evaluate = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestScoreAndWrongRecord(t *testing.T) {
	s := threeSingles(t)
	e := New(Policy{})

	if err := s.SelectSingle("q1", model.LabelA); err != nil {
		t.Fatal(err)
	}
	if err := s.SelectSingle("q2", model.LabelC); err != nil {
		t.Fatal(err)
	}

	sum := e.Refresh(s)
	if e.Score(s) != 1 || sum.Correct != 1 {
		t.Errorf("score = %d, summary correct = %d, want 1", e.Score(s), sum.Correct)
	}
	want := Summary{Total: 3, Answered: 2, Correct: 1, Wrong: 2, Recorded: 1}
	if sum != want {
		t.Errorf("summary = %+v, want %+v", sum, want)
	}
	entries := e.Wrong().Entries()
	if len(entries) != 1 || entries[0].ID != "q2" {
		t.Fatalf("wrong record = %v, want only q2", entries)
	}
	if entries[0].Blob != "first\nsecond\nthird\nB" {
		t.Errorf("blob = %q", entries[0].Blob)
	}
	if !reflect.DeepEqual(entries[0].Options(), []string{"first", "second", "third"}) || entries[0].CorrectSpec() != "B" {
		t.Errorf("entry options %v spec %q", entries[0].Options(), entries[0].CorrectSpec())
	}
}

func TestWrongRecordIsMonotonic(t *testing.T) {
	s := threeSingles(t)
	e := New(Policy{})

	_ = s.SelectSingle("q2", model.LabelC)
	e.Refresh(s)
	if !e.Wrong().Contains("q2") {
		t.Fatal("q2 should be recorded")
	}

	_ = s.SelectSingle("q2", model.LabelB)
	sum := e.Refresh(s)
	if !e.Wrong().Contains("q2") || e.Wrong().Len() != 1 {
		t.Errorf("q2 must stay recorded after correction, record = %v", e.Wrong().Entries())
	}
	if sum.Correct != 1 || sum.Recorded != 1 {
		t.Errorf("summary = %+v", sum)
	}

	_ = s.SelectSingle("q2", model.LabelA)
	e.Refresh(s)
	if e.Wrong().Len() != 1 {
		t.Errorf("second wrong answer must not add a duplicate, len = %d", e.Wrong().Len())
	}
}

func TestWrongRecordOrder(t *testing.T) {
	s := threeSingles(t)
	e := New(Policy{})

	_ = s.SelectSingle("q3", model.LabelA)
	e.Refresh(s)
	_ = s.SelectSingle("q1", model.LabelB)
	e.Refresh(s)

	var ids []string
	for entry := range e.Wrong().All() {
		ids = append(ids, entry.ID)
	}
	if !reflect.DeepEqual(ids, []string{"q3", "q1"}) {
		t.Errorf("order = %v, want detection order", ids)
	}
}

func multiState(t *testing.T) *session.State {
	t.Helper()
	return session.New(bank.New(
		model.Question{ID: "single", Options: []string{"a", "b"}, CorrectSpec: "A"},
		acQuestion,
	))
}

func TestMultiKeptOutOfScoreByDefault(t *testing.T) {
	s := multiState(t)
	e := New(Policy{})

	_ = s.ToggleMulti("multi", 1)
	_ = s.SubmitMulti("multi")

	sum := e.Refresh(s)
	if sum.Answered != 0 || sum.Correct != 0 || sum.Recorded != 0 {
		t.Errorf("summary = %+v, multi-select must not be graded", sum)
	}
	q, _ := s.Bank().Get("multi")
	if got := Evaluate(q, s.Status("multi")); got != model.VerdictIncorrect {
		t.Errorf("verdict = %s, want incorrect for display", got)
	}
}

func TestFoldMulti(t *testing.T) {
	s := multiState(t)
	e := New(Policy{FoldMulti: true})

	_ = s.ToggleMulti("multi", 0)
	_ = s.ToggleMulti("multi", 1)
	sum := e.Refresh(s)
	if sum.Answered != 0 {
		t.Errorf("unsubmitted multi answer graded: %+v", sum)
	}

	_ = s.SubmitMulti("multi")
	sum = e.Refresh(s)
	if sum.Answered != 1 || sum.Correct != 0 || !e.Wrong().Contains("multi") {
		t.Errorf("summary = %+v, record = %v", sum, e.Wrong().Entries())
	}

	_ = s.ToggleMulti("multi", 1)
	_ = s.ToggleMulti("multi", 2)
	sum = e.Refresh(s)
	if sum.Correct != 1 || e.Score(s) != 1 {
		t.Errorf("corrected multi answer not scored: %+v", sum)
	}
	if !e.Wrong().Contains("multi") {
		t.Error("multi must stay recorded")
	}
}
