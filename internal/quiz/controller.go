// Package quiz couples a question bank, the user's selections and the grading
// engine behind one serialized entry point for the interactive front-ends.
package quiz

import (
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/pavelanni/quizrunner/internal/bank"
	"github.com/pavelanni/quizrunner/internal/grading"
	"github.com/pavelanni/quizrunner/internal/model"
	"github.com/pavelanni/quizrunner/internal/session"
)

// DefaultPageSize is the number of questions shown per page.
const DefaultPageSize = 50

// Item is a question prepared for display.
type Item struct {
	Number   int            `json:"number"` // 1-based bank position
	Question model.Question `json:"question"`
	Kind     string         `json:"kind"`
	Status   model.Status   `json:"status"`
	Selected string         `json:"selected,omitempty"`
	Verdict  model.Verdict  `json:"verdict"`
	Recorded bool           `json:"recorded"` // on the wrong list
}

// Controller owns the selection state and grading engine of one run. All
// mutations go through it; a mutex serializes callers so the core itself
// never sees concurrent access.
type Controller struct {
	mu        sync.Mutex
	bank      *bank.Bank
	state     *session.State
	engine    *grading.Engine
	summary   grading.Summary
	pageSize  int
	source    string
	startedAt time.Time
}

// Options configures a controller.
type Options struct {
	PageSize int
	Policy   grading.Policy
	Source   string // where the bank came from, for reports
}

// New starts a run over a loaded bank.
func New(b *bank.Bank, opts Options) *Controller {
	if opts.PageSize <= 0 {
		opts.PageSize = DefaultPageSize
	}
	c := &Controller{
		bank:      b,
		state:     session.New(b),
		engine:    grading.New(opts.Policy),
		pageSize:  opts.PageSize,
		source:    opts.Source,
		startedAt: time.Now(),
	}
	c.summary = c.engine.Refresh(c.state)
	return c
}

// RunID identifies the run.
func (c *Controller) RunID() string { return c.state.ID() }

// Len returns the number of questions.
func (c *Controller) Len() int { return c.bank.Len() }

// PageSize returns the number of questions per page.
func (c *Controller) PageSize() int { return c.pageSize }

// Pages returns the number of pages.
func (c *Controller) Pages() int { return c.bank.Pages(c.pageSize) }

// Page returns the items on zero-based page p.
func (c *Controller) Page(p int) []Item {
	c.mu.Lock()
	defer c.mu.Unlock()
	if p < 0 || p >= c.bank.Pages(c.pageSize) {
		return nil
	}
	skip := p * c.pageSize
	qs := c.bank.Window(skip, c.pageSize)
	items := make([]Item, 0, len(qs))
	for i, q := range qs {
		items = append(items, c.item(skip+i, q))
	}
	return items
}

// Item returns the question at 1-based position n.
func (c *Controller) Item(n int) (Item, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	q, err := c.at(n)
	if err != nil {
		return Item{}, err
	}
	return c.item(n-1, q), nil
}

func (c *Controller) at(n int) (model.Question, error) {
	q, ok := c.bank.At(n - 1)
	if !ok {
		return model.Question{}, fmt.Errorf("%w: #%d", model.ErrUnknownQuestion, n)
	}
	return q, nil
}

func (c *Controller) item(pos int, q model.Question) Item {
	st := c.state.Status(q.ID)
	it := Item{
		Number:   pos + 1,
		Question: q,
		Kind:     q.Kind().String(),
		Status:   st,
		Verdict:  grading.Evaluate(q, st),
		Recorded: c.engine.Wrong().Contains(q.ID),
	}
	it.Selected = selectedLabels(st)
	return it
}

func selectedLabels(st model.Status) string {
	switch st.State {
	case model.AnsweredSingle:
		return st.Label.String()
	case model.AnsweredMulti:
		var sb strings.Builder
		for i, on := range st.Flags {
			if l, ok := model.LabelAt(i); ok && on {
				sb.WriteString(l.String())
			}
		}
		return sb.String()
	}
	return ""
}

// Select chooses a label for single-select question n.
func (c *Controller) Select(n int, label model.Label) (Item, error) {
	return c.mutate(n, func(q model.Question) error {
		return c.state.SelectSingle(q.ID, label)
	})
}

// SelectByID chooses a label for a single-select question by id. The wrong
// list uses it to re-answer questions in place.
func (c *Controller) SelectByID(id string, label model.Label) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.state.SelectSingle(id, label); err != nil {
		return err
	}
	c.summary = c.engine.Refresh(c.state)
	return nil
}

// Toggle flips option index of multi-select question n.
func (c *Controller) Toggle(n, index int) (Item, error) {
	return c.mutate(n, func(q model.Question) error {
		return c.state.ToggleMulti(q.ID, index)
	})
}

// Submit submits the multi-select answer of question n.
func (c *Controller) Submit(n int) (Item, error) {
	return c.mutate(n, func(q model.Question) error {
		return c.state.SubmitMulti(q.ID)
	})
}

// Answer applies a label to question n according to its kind: single-select
// questions get the label chosen, multi-select questions get it toggled.
func (c *Controller) Answer(n int, label model.Label) (Item, error) {
	return c.mutate(n, func(q model.Question) error {
		if q.Kind() == model.KindMulti {
			return c.state.ToggleMulti(q.ID, label.Index())
		}
		return c.state.SelectSingle(q.ID, label)
	})
}

func (c *Controller) mutate(n int, apply func(model.Question) error) (Item, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	q, err := c.at(n)
	if err != nil {
		return Item{}, err
	}
	if err := apply(q); err != nil {
		return c.item(n-1, q), err
	}
	c.summary = c.engine.Refresh(c.state)
	return c.item(n-1, q), nil
}

// Summary returns the result of the latest evaluation pass.
func (c *Controller) Summary() grading.Summary {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.summary
}

// WrongItems returns the wrong list as display items, in recording order.
func (c *Controller) WrongItems() []Item {
	c.mu.Lock()
	defer c.mu.Unlock()
	var items []Item
	for e := range c.engine.Wrong().All() {
		i, ok := c.bank.Index(e.ID)
		if !ok {
			continue
		}
		q, _ := c.bank.At(i)
		items = append(items, c.item(i, q))
	}
	return items
}

// Report builds the exportable summary of the run so far.
func (c *Controller) Report() model.Report {
	c.mu.Lock()
	defer c.mu.Unlock()
	r := model.Report{
		RunID:      c.state.ID(),
		Source:     c.source,
		StartedAt:  c.startedAt,
		FinishedAt: time.Now(),
		Total:      c.summary.Total,
		Answered:   c.summary.Answered,
		Correct:    c.summary.Correct,
		Wrong:      c.summary.Wrong,
		GradeMulti: c.engine.Policy().FoldMulti,
	}
	for e := range c.engine.Wrong().All() {
		wr := model.WrongResult{Question: e.ID}
		if q, ok := c.bank.Get(e.ID); ok {
			wr.Options = slices.Clone(q.Options)
			wr.CorrectSpec = q.CorrectSpec
		} else {
			wr.Options = e.Options()
			wr.CorrectSpec = e.CorrectSpec()
		}
		wr.Selected = selectedLabels(c.state.Status(e.ID))
		r.WrongDetail = append(r.WrongDetail, wr)
	}
	return r
}
