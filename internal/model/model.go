package model

import (
	"errors"
	"fmt"
	"strings"
)

// MaxOptions is the number of option labels available (A through H).
const MaxOptions = 8

// Label is a positional option label, A through H.
type Label uint8

const (
	LabelA Label = iota
	LabelB
	LabelC
	LabelD
	LabelE
	LabelF
	LabelG
	LabelH
)

// ParseLabel maps a rune in A..H to its label.
func ParseLabel(r rune) (Label, bool) {
	if r < 'A' || r >= 'A'+MaxOptions {
		return 0, false
	}
	return Label(r - 'A'), true
}

// ParseLabelString parses a one-character label such as "C". Lowercase is accepted.
func ParseLabelString(s string) (Label, bool) {
	s = strings.ToUpper(strings.TrimSpace(s))
	if len(s) != 1 {
		return 0, false
	}
	return ParseLabel(rune(s[0]))
}

// LabelAt returns the label for option position i.
func LabelAt(i int) (Label, bool) {
	if i < 0 || i >= MaxOptions {
		return 0, false
	}
	return Label(i), true
}

// Index returns the option position the label names.
func (l Label) Index() int { return int(l) }

func (l Label) String() string {
	return string(rune('A' + l))
}

// Kind distinguishes single-select from multi-select questions.
type Kind int

const (
	KindSingle Kind = iota
	KindMulti
)

func (k Kind) String() string {
	if k == KindMulti {
		return "multi"
	}
	return "single"
}

// Question is one entry of a question bank. ID is the question text itself.
type Question struct {
	ID          string   `json:"id"`
	Options     []string `json:"options"`
	CorrectSpec string   `json:"correct_spec"`
}

// Kind reports whether the question is single- or multi-select, based on the
// length of CorrectSpec.
func (q Question) Kind() Kind {
	if len([]rune(q.CorrectSpec)) > 1 {
		return KindMulti
	}
	return KindSingle
}

// Blob returns the raw option text: one option per line followed by the
// correct spec line.
func (q Question) Blob() string {
	parts := make([]string, 0, len(q.Options)+1)
	parts = append(parts, q.Options...)
	parts = append(parts, q.CorrectSpec)
	return strings.Join(parts, "\n")
}

// SelectionState tells which kind of selection, if any, is recorded for a question.
type SelectionState int

const (
	Unanswered SelectionState = iota
	AnsweredSingle
	AnsweredMulti
)

func (s SelectionState) String() string {
	switch s {
	case AnsweredSingle:
		return "single"
	case AnsweredMulti:
		return "multi"
	}
	return "unanswered"
}

func (s SelectionState) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

func (s *SelectionState) UnmarshalText(b []byte) error {
	switch string(b) {
	case "unanswered":
		*s = Unanswered
	case "single":
		*s = AnsweredSingle
	case "multi":
		*s = AnsweredMulti
	default:
		return fmt.Errorf("unknown selection state %q", b)
	}
	return nil
}

// Status is the recorded selection for one question.
type Status struct {
	State     SelectionState `json:"state"`
	Label     Label          `json:"-"`
	Flags     []bool         `json:"flags,omitempty"`
	Submitted bool           `json:"submitted,omitempty"`
}

// Answered reports whether any selection exists.
func (s Status) Answered() bool { return s.State != Unanswered }

// Verdict is the evaluation result shown under a question.
type Verdict string

const (
	VerdictPending   Verdict = "pending"
	VerdictCorrect   Verdict = "correct"
	VerdictIncorrect Verdict = "incorrect"
)

var (
	// ErrUnknownQuestion is returned for ids that are not in the bank.
	ErrUnknownQuestion = errors.New("unknown question")
	// ErrKindMismatch is returned when a single-select operation targets a
	// multi-select question or the other way round.
	ErrKindMismatch = errors.New("operation does not match question kind")
	// ErrIndexOutOfRange is returned for option positions the question does not have.
	ErrIndexOutOfRange = errors.New("option index out of range")
)

// UIMode selects the interactive front-end.
type UIMode string

const (
	UIAuto  UIMode = "auto"
	UILive  UIMode = "live"
	UIPlain UIMode = "plain"
)

// RunConfig holds runtime parameters set via CLI flags.
type RunConfig struct {
	PageSize    int    // questions per page, 50 by default
	Lang        string // UI language (en, zh)
	GradeMulti  bool   // fold submitted multi-select answers into the score
	UIMode      UIMode
	ExplainWith string // LLM model name; empty disables explanations
}
