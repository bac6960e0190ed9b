package bank

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/pavelanni/quizrunner/internal/model"
	"github.com/pavelanni/quizrunner/internal/sheet"
)

// MalformedRowError reports a sheet row that cannot become a question.
type MalformedRowError struct {
	Row    int // 1-based sheet row number, the header is row 1
	Reason string
	Err    error
}

func (e *MalformedRowError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("row %d: %s: %v", e.Row, e.Reason, e.Err)
	}
	return fmt.Sprintf("row %d: %s", e.Row, e.Reason)
}

func (e *MalformedRowError) Unwrap() error { return e.Err }

// Loader turns sheet rows into a Bank.
type Loader struct {
	// SkipMalformed drops bad rows with a warning instead of failing the load.
	SkipMalformed bool
}

// Load builds a bank from rows. Row 0 is a header and is ignored.
func (l Loader) Load(rows []sheet.Row) (*Bank, error) {
	if len(rows) == 0 {
		return newBank(0), nil
	}
	b := newBank(len(rows) - 1)
	for i, row := range rows[1:] {
		rowNum := i + 2
		q, err := parseRow(row, rowNum)
		if err != nil {
			if !l.SkipMalformed {
				return nil, err
			}
			slog.Warn("skipping malformed row", "row", err.Row, "reason", err.Reason, "error", err.Err)
			b.skipped = append(b.skipped, err)
			continue
		}
		if !b.put(q) {
			slog.Debug("duplicate question replaced", "row", rowNum, "question", q.ID)
		}
	}
	return b, nil
}

func parseRow(row sheet.Row, rowNum int) (model.Question, *MalformedRowError) {
	cells := make([]string, 0, len(row))
	for col, c := range row {
		text, err := c.Text()
		if err != nil {
			return model.Question{}, &MalformedRowError{
				Row:    rowNum,
				Reason: fmt.Sprintf("column %d cannot be read as text", col+1),
				Err:    err,
			}
		}
		text = strings.TrimSpace(text)
		if text == "" {
			continue
		}
		cells = append(cells, text)
	}

	if len(cells) < 2 {
		return model.Question{}, &MalformedRowError{
			Row:    rowNum,
			Reason: fmt.Sprintf("need a question and a correct answer, found %d non-empty cells", len(cells)),
		}
	}
	options := cells[1 : len(cells)-1]
	if len(options) > model.MaxOptions {
		return model.Question{}, &MalformedRowError{
			Row:    rowNum,
			Reason: fmt.Sprintf("%d options, at most %d are supported", len(options), model.MaxOptions),
		}
	}

	return model.Question{
		ID:          cells[0],
		Options:     append([]string(nil), options...),
		CorrectSpec: cells[len(cells)-1],
	}, nil
}
