// Package grading evaluates selections against correct specs, keeps the score
// and accumulates the list of missed questions.
package grading

import (
	"log/slog"

	"github.com/pavelanni/quizrunner/internal/model"
	"github.com/pavelanni/quizrunner/internal/session"
)

// Policy controls which answers feed the score and the wrong record.
type Policy struct {
	// FoldMulti grades submitted multi-select answers together with
	// single-select ones. When false, multi-select answers are evaluated for
	// display only.
	FoldMulti bool
}

// Summary is the result of one evaluation pass.
type Summary struct {
	Total    int `json:"total"`
	Answered int `json:"answered"`
	Correct  int `json:"correct"`
	// Wrong is Total minus Correct, so unanswered questions count as wrong.
	// Recorded is the size of the wrong record and only counts answers that
	// were actually graded incorrect.
	Wrong    int `json:"wrong"`
	Recorded int `json:"recorded"`
}

// Engine grades a session against its bank.
type Engine struct {
	policy Policy
	wrong  *WrongRecord
}

// New creates an engine with an empty wrong record.
func New(policy Policy) *Engine {
	return &Engine{policy: policy, wrong: newWrongRecord()}
}

// Policy returns the grading policy.
func (e *Engine) Policy() Policy { return e.policy }

// Wrong returns the wrong record. Callers must treat it as read-only.
func (e *Engine) Wrong() *WrongRecord { return e.wrong }

// DeriveCorrectness returns one flag per option, true where the correct spec
// names that option's label. Characters outside A-H and labels past the last
// option are ignored.
func DeriveCorrectness(q model.Question) []bool {
	flags := make([]bool, len(q.Options))
	for _, r := range q.CorrectSpec {
		label, ok := model.ParseLabel(r)
		if !ok || label.Index() >= len(flags) {
			continue
		}
		flags[label.Index()] = true
	}
	return flags
}

// EvaluateSingle reports whether label is the correct answer.
func EvaluateSingle(q model.Question, label model.Label) bool {
	return label.String() == q.CorrectSpec
}

// EvaluateMulti reports whether flags match the correct options exactly.
func EvaluateMulti(q model.Question, flags []bool) bool {
	want := DeriveCorrectness(q)
	if len(flags) != len(want) {
		return false
	}
	for i := range want {
		if flags[i] != want[i] {
			return false
		}
	}
	return true
}

// Evaluate returns the verdict for a recorded selection. Multi-select answers
// stay pending until submitted.
func Evaluate(q model.Question, st model.Status) model.Verdict {
	var ok bool
	switch {
	case q.Kind() == model.KindSingle && st.State == model.AnsweredSingle:
		ok = EvaluateSingle(q, st.Label)
	case q.Kind() == model.KindMulti && st.State == model.AnsweredMulti && st.Submitted:
		ok = EvaluateMulti(q, st.Flags)
	default:
		return model.VerdictPending
	}
	if ok {
		return model.VerdictCorrect
	}
	return model.VerdictIncorrect
}

// graded reports whether a selection takes part in scoring under the policy.
func (e *Engine) graded(q model.Question, st model.Status) bool {
	switch st.State {
	case model.AnsweredSingle:
		return true
	case model.AnsweredMulti:
		return e.policy.FoldMulti && st.Submitted
	}
	return false
}

// Score counts correct answers among the graded selections. Unanswered
// questions are not counted either way.
func (e *Engine) Score(s *session.State) int {
	correct := 0
	for q, st := range s.Answered() {
		if e.graded(q, st) && Evaluate(q, st) == model.VerdictCorrect {
			correct++
		}
	}
	return correct
}

// RecordWrong adds q to the wrong record if the selection is graded and
// incorrect. It reports whether a new entry was added. Existing entries are
// never touched, even once the answer is corrected.
func (e *Engine) RecordWrong(q model.Question, st model.Status) bool {
	if !e.graded(q, st) || Evaluate(q, st) != model.VerdictIncorrect {
		return false
	}
	added := e.wrong.add(q.ID, q.Blob())
	if added {
		slog.Debug("question recorded wrong", "question", q.ID, "correct", q.CorrectSpec)
	}
	return added
}

// Refresh runs one evaluation pass over the session: it scores every graded
// selection and records newly wrong answers.
func (e *Engine) Refresh(s *session.State) Summary {
	sum := Summary{Total: s.Bank().Len()}
	for q, st := range s.Answered() {
		if !e.graded(q, st) {
			continue
		}
		sum.Answered++
		if Evaluate(q, st) == model.VerdictCorrect {
			sum.Correct++
			continue
		}
		e.RecordWrong(q, st)
	}
	sum.Wrong = sum.Total - sum.Correct
	sum.Recorded = e.wrong.Len()
	return sum
}
