//go:build cucumber

package grading

import (
	"context"
	"fmt"
	"path/filepath"
	"reflect"
	"strconv"
	"strings"
	"testing"

	"github.com/cucumber/godog"

	"github.com/pavelanni/quizrunner/internal/bank"
	"github.com/pavelanni/quizrunner/internal/model"
	"github.com/pavelanni/quizrunner/internal/session"
)

// TestGradingFeatures executes the grading scenarios via godog.
func TestGradingFeatures(t *testing.T) {
	suite := godog.TestSuite{
		Name:                "grading",
		ScenarioInitializer: InitializeScenario,
		Options: &godog.Options{
			Format:    "pretty",
			Paths:     []string{filepath.Join("testdata", "grading.feature")},
			Strict:    true,
			TestingT:  t,
			Randomize: 0,
		},
	}
	if suite.Run() != 0 {
		t.Fatalf("non-zero godog status")
	}
}

// InitializeScenario wires step definitions for the grading feature.
func InitializeScenario(ctx *godog.ScenarioContext) {
	state := &gradingState{}
	ctx.Before(func(ctx context.Context, _ *godog.Scenario) (context.Context, error) {
		state.reset()
		return ctx, nil
	})

	ctx.Step(`^a question bank:$`, state.givenBank)
	ctx.Step(`^I choose "([A-H])" for "([^"]+)"$`, state.choose)
	ctx.Step(`^I tick options ([\d,]+) for "([^"]+)"$`, state.tick)
	ctx.Step(`^I submit "([^"]+)"$`, state.submit)
	ctx.Step(`^the score is (\d+)$`, state.scoreIs)
	ctx.Step(`^the wrong list is "([^"]*)"$`, state.wrongListIs)
	ctx.Step(`^"([^"]+)" is graded (correct|incorrect)$`, state.gradedAs)
	ctx.Step(`^the last action failed with "([^"]+)"$`, state.lastFailed)
	ctx.Step(`^"([^"]+)" has flags "([^"]+)"$`, state.hasFlags)
}

// gradingState holds scenario state for the feature tests.
type gradingState struct {
	session *session.State
	engine  *Engine
	lastErr error
}

func (s *gradingState) reset() {
	s.session = nil
	s.engine = New(Policy{})
	s.lastErr = nil
}

func (s *gradingState) givenBank(table *godog.Table) error {
	var questions []model.Question
	for i, row := range table.Rows {
		if i == 0 {
			continue
		}
		if len(row.Cells) != 3 {
			return fmt.Errorf("row %d: expected 3 cells", i)
		}
		questions = append(questions, model.Question{
			ID:          row.Cells[0].Value,
			Options:     strings.Split(row.Cells[1].Value, ","),
			CorrectSpec: row.Cells[2].Value,
		})
	}
	s.session = session.New(bank.New(questions...))
	return nil
}

func (s *gradingState) choose(label, id string) error {
	l, _ := model.ParseLabelString(label)
	s.lastErr = s.session.SelectSingle(id, l)
	s.engine.Refresh(s.session)
	return nil
}

func (s *gradingState) tick(indexes, id string) error {
	for _, raw := range strings.Split(indexes, ",") {
		n, err := strconv.Atoi(raw)
		if err != nil {
			return err
		}
		if s.lastErr = s.session.ToggleMulti(id, n); s.lastErr != nil {
			break
		}
	}
	s.engine.Refresh(s.session)
	return nil
}

func (s *gradingState) submit(id string) error {
	s.lastErr = s.session.SubmitMulti(id)
	s.engine.Refresh(s.session)
	return nil
}

func (s *gradingState) scoreIs(want int) error {
	if got := s.engine.Score(s.session); got != want {
		return fmt.Errorf("score = %d, want %d", got, want)
	}
	return nil
}

func (s *gradingState) wrongListIs(want string) error {
	var ids []string
	for e := range s.engine.Wrong().All() {
		ids = append(ids, e.ID)
	}
	if got := strings.Join(ids, ","); got != want {
		return fmt.Errorf("wrong list = %q, want %q", got, want)
	}
	return nil
}

func (s *gradingState) gradedAs(id, verdict string) error {
	q, ok := s.session.Bank().Get(id)
	if !ok {
		return fmt.Errorf("unknown question %q", id)
	}
	if got := Evaluate(q, s.session.Status(id)); string(got) != verdict {
		return fmt.Errorf("%s graded %s, want %s", id, got, verdict)
	}
	return nil
}

func (s *gradingState) lastFailed(msg string) error {
	if s.lastErr == nil || !strings.Contains(s.lastErr.Error(), msg) {
		return fmt.Errorf("last error = %v, want %q", s.lastErr, msg)
	}
	return nil
}

func (s *gradingState) hasFlags(id, flags string) error {
	var want []bool
	for _, f := range strings.Split(flags, ",") {
		b, err := strconv.ParseBool(f)
		if err != nil {
			return err
		}
		want = append(want, b)
	}
	if got := s.session.Status(id).Flags; !reflect.DeepEqual(got, want) {
		return fmt.Errorf("flags = %v, want %v", got, want)
	}
	return nil
}
