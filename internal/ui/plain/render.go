package plain

import (
	"fmt"
	"strings"

	"github.com/pavelanni/quizrunner/internal/model"
	"github.com/pavelanni/quizrunner/internal/quiz"
)

func (c *Console) list() {
	items := c.quiz.Page(c.page)
	c.println(c.tr.Td("PageOf", map[string]any{"Page": c.page + 1, "Pages": max(c.quiz.Pages(), 1)}))
	if len(items) == 0 {
		c.println(c.tr.T("NoQuestions"))
		return
	}
	for _, it := range items {
		c.println(row(it))
	}
	c.progress()
}

func (c *Console) show(it quiz.Item) {
	head := fmt.Sprintf("%d. %s", it.Number, it.Question.ID)
	if it.Question.Kind() == model.KindMulti {
		head += " " + c.tr.T("MultiHint")
	}
	c.println(head)
	for i, opt := range it.Question.Options {
		label, ok := model.LabelAt(i)
		if !ok {
			break
		}
		mark := " "
		if strings.Contains(it.Selected, label.String()) {
			mark = "*"
		}
		c.println(fmt.Sprintf("  %s %s. %s", mark, label, opt))
	}
	switch it.Verdict {
	case model.VerdictCorrect:
		c.println("  ✔ " + c.tr.T("VerdictCorrect"))
	case model.VerdictIncorrect:
		c.println("  ✘ " + c.tr.Td("CorrectAnswer", map[string]any{"Spec": it.Question.CorrectSpec}))
	}
}

func (c *Console) progress() {
	s := c.quiz.Summary()
	c.println(c.tr.Td("Progress", map[string]any{"Answered": s.Answered, "Total": s.Total}) +
		"  " + bar(s.Answered, s.Total, 20) + "  " +
		c.tr.Td("WrongCount", map[string]any{"Count": s.Wrong}))
}

func (c *Console) score() {
	s := c.quiz.Summary()
	c.println(c.tr.Td("Score", map[string]any{
		"Correct":  s.Correct,
		"Wrong":    s.Wrong,
		"Answered": s.Answered,
		"Total":    s.Total,
	}))
}

func (c *Console) wrongList() {
	c.println(c.tr.T("WrongListTitle"))
	items := c.quiz.WrongItems()
	if len(items) == 0 {
		c.println(c.tr.T("NoWrongAnswers"))
		return
	}
	for _, it := range items {
		c.println(row(it))
	}
}

func row(it quiz.Item) string {
	answer := it.Selected
	if answer == "" {
		answer = "-"
	}
	glyph := " "
	switch it.Verdict {
	case model.VerdictCorrect:
		glyph = "✔"
	case model.VerdictIncorrect:
		glyph = "✘"
	}
	return fmt.Sprintf("%4d. [%-4s] %s %s", it.Number, answer, glyph, strings.Join(strings.Fields(it.Question.ID), " "))
}

func bar(done, total, width int) string {
	filled := 0
	if total > 0 {
		filled = done * width / total
	}
	return "[" + strings.Repeat("#", filled) + strings.Repeat(".", width-filled) + "]"
}
