package plain

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/pavelanni/quizrunner/internal/bank"
	"github.com/pavelanni/quizrunner/internal/grading"
	"github.com/pavelanni/quizrunner/internal/i18n"
	"github.com/pavelanni/quizrunner/internal/llm"
	"github.com/pavelanni/quizrunner/internal/model"
	"github.com/pavelanni/quizrunner/internal/quiz"
)

type stubExplainer struct{ err error }

func (s stubExplainer) Explain(_ context.Context, q model.Question, selected string) (*llm.Explanation, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &llm.Explanation{Text: "because " + q.CorrectSpec}, nil
}

func newTestController(t *testing.T, n int) *quiz.Controller {
	t.Helper()
	if err := i18n.Init("en"); err != nil {
		t.Fatalf("i18n.Init: %v", err)
	}
	qs := []model.Question{
		{ID: "Capital of France?", Options: []string{"Berlin", "Paris", "Rome"}, CorrectSpec: "B"},
		{ID: "Even numbers?", Options: []string{"2", "3", "4", "5"}, CorrectSpec: "AC"},
	}
	for i := 3; i <= n; i++ {
		qs = append(qs, model.Question{ID: fmt.Sprintf("filler %d", i), Options: []string{"a", "b"}, CorrectSpec: "A"})
	}
	return quiz.New(bank.New(qs...), quiz.Options{Policy: grading.Policy{}})
}

func run(t *testing.T, c *quiz.Controller, ex quiz.Explainer, input string) string {
	t.Helper()
	var out bytes.Buffer
	con := New(c, strings.NewReader(input), &out, Options{Translator: i18n.New("en"), Explainer: ex})
	if err := con.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}
	return out.String()
}

func TestPickAndScore(t *testing.T) {
	c := newTestController(t, 2)
	out := run(t, c, nil, "pick 1 a\nscore\nwrong\nquit\n")

	for _, want := range []string{
		"2 questions loaded.",
		"✘ Correct answer: B",
		"Progress: 1/2",
		"Correct: 0  Wrong: 2  Answered: 1/2",
		"Wrong answers",
		"   1. [A   ] ✘ Capital of France?",
		"Bye.",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestMultiToggleSubmit(t *testing.T) {
	c := newTestController(t, 2)
	out := run(t, c, nil, "toggle 2 a\npick 2 c\nsubmit 2\n")

	if !strings.Contains(out, "✔ correct") {
		t.Errorf("expected correct verdict after submit:\n%s", out)
	}
	it, _ := c.Item(2)
	if it.Selected != "AC" || !it.Status.Submitted {
		t.Errorf("item = %+v", it)
	}
}

func TestErrorsKeepRunning(t *testing.T) {
	c := newTestController(t, 2)
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"unknown question", "show 9\n", "unknown question"},
		{"kind mismatch", "toggle 1 a\n", "operation does not match question kind"},
		{"no such option", "pick 1 h\n", "option index out of range"},
		{"bad label", "pick 1 z\n", "pick N A"},
		{"bad number", "show x\n", "is not a question number"},
		{"missing args", "pick 1\n", "expected 2 argument(s)"},
		{"unknown command", "dance\n", "Unknown command: dance"},
		{"bad page", "page 7\n", "page must be between 1 and 1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := run(t, c, nil, tt.input+"score\n")
			if !strings.Contains(out, tt.want) {
				t.Errorf("output missing %q:\n%s", tt.want, out)
			}
			if !strings.Contains(out, "Correct: ") {
				t.Error("console stopped after an error")
			}
		})
	}
}

func TestPaging(t *testing.T) {
	c := newTestController(t, 120)
	out := run(t, c, nil, "next\nnext\nnext\ntop\npage 2\n")

	if strings.Count(out, "Page 3 of 3") != 2 {
		t.Errorf("next should stop at the last page:\n%s", out)
	}
	if !strings.Contains(out, " 101. [-   ]") || !strings.Contains(out, "  51. [-   ]") {
		t.Errorf("expected page listings:\n%s", out)
	}
}

func TestExplain(t *testing.T) {
	c := newTestController(t, 2)

	out := run(t, c, nil, "explain 1\n")
	if !strings.Contains(out, "Explanations are not configured.") {
		t.Errorf("expected disabled message:\n%s", out)
	}

	out = run(t, c, stubExplainer{}, "explain 1\n")
	if !strings.Contains(out, "because B") {
		t.Errorf("expected explanation:\n%s", out)
	}

	out = run(t, c, stubExplainer{err: errors.New("upstream down")}, "explain 1\n")
	if !strings.Contains(out, "error: upstream down") {
		t.Errorf("expected error:\n%s", out)
	}
}

func TestRunStopsOnCancelledContext(t *testing.T) {
	c := newTestController(t, 2)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	con := New(c, strings.NewReader("score\n"), &bytes.Buffer{}, Options{})
	if err := con.Run(ctx); !errors.Is(err, context.Canceled) {
		t.Errorf("Run = %v, want context.Canceled", err)
	}
}

func TestBar(t *testing.T) {
	tests := []struct {
		done, total int
		want        string
	}{
		{0, 0, "[....]"},
		{1, 2, "[##..]"},
		{2, 2, "[####]"},
	}
	for _, tt := range tests {
		if got := bar(tt.done, tt.total, 4); got != tt.want {
			t.Errorf("bar(%d, %d) = %q, want %q", tt.done, tt.total, got, tt.want)
		}
	}
}
