package quiz

import (
	"context"

	"github.com/pavelanni/quizrunner/internal/llm"
	"github.com/pavelanni/quizrunner/internal/model"
)

// Explainer produces an explanation for a missed question. selected is the
// learner's answer as labels and may be empty. *llm.Client implements it.
type Explainer interface {
	Explain(ctx context.Context, q model.Question, selected string) (*llm.Explanation, error)
}
