package bank

import (
	"fmt"

	"github.com/pavelanni/quizrunner/internal/model"
)

// Issue is a non-fatal problem found in a loaded bank.
type Issue struct {
	Position int // 1-based position in the bank
	Question string
	Message  string
}

func (i Issue) String() string {
	return fmt.Sprintf("#%d %q: %s", i.Position, i.Question, i.Message)
}

// Lint reports correct specs that grading will quietly ignore or that can
// never be answered correctly.
func Lint(b *Bank) []Issue {
	var issues []Issue
	for i, q := range b.All() {
		add := func(format string, args ...any) {
			issues = append(issues, Issue{Position: i + 1, Question: q.ID, Message: fmt.Sprintf(format, args...)})
		}
		if len(q.Options) == 0 {
			add("no options")
		}
		seen := make(map[model.Label]bool)
		for _, r := range q.CorrectSpec {
			label, ok := model.ParseLabel(r)
			if !ok {
				add("correct spec %q: %q is not a label A-H and is ignored", q.CorrectSpec, r)
				continue
			}
			if label.Index() >= len(q.Options) {
				add("correct spec %q: label %s has no option", q.CorrectSpec, label)
			}
			if seen[label] {
				add("correct spec %q: label %s repeated", q.CorrectSpec, label)
			}
			seen[label] = true
		}
	}
	return issues
}
