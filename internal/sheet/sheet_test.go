package sheet

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/xuri/excelize/v2"
)

func mustStrings(t *testing.T, rows []Row) [][]string {
	t.Helper()
	out, err := Strings(rows)
	if err != nil {
		t.Fatalf("Strings: %v", err)
	}
	return out
}

func TestReadCSV(t *testing.T) {
	input := "question,a,b,c,answer\nQ1,opt1,opt2,,B\nQ2,x,y,AB\n"
	rows, err := ReadCSV(strings.NewReader(input))
	if err != nil {
		t.Fatalf("ReadCSV: %v", err)
	}
	got := mustStrings(t, rows)
	if len(got) != 3 {
		t.Fatalf("expected 3 rows, got %d", len(got))
	}
	if len(got[1]) != 5 || got[1][3] != "" {
		t.Errorf("row 2 = %q, want empty fourth cell kept", got[1])
	}
	if len(got[2]) != 4 {
		t.Errorf("row 3 has %d cells, want 4", len(got[2]))
	}
}

func TestReadYAML(t *testing.T) {
	input := `
- [question, a, b, answer]
- [Q1, opt1, 42, B]
- [Q2, ~, x, y, AB]
`
	rows, err := ReadYAML(strings.NewReader(input))
	if err != nil {
		t.Fatalf("ReadYAML: %v", err)
	}
	got := mustStrings(t, rows)
	if got[1][2] != "42" {
		t.Errorf("numeric cell = %q, want 42", got[1][2])
	}
	if got[2][1] != "" {
		t.Errorf("null cell = %q, want empty", got[2][1])
	}
}

func TestReadYAMLNonScalarCell(t *testing.T) {
	input := "- [header]\n- [Q1, {nested: map}, A]\n"
	rows, err := ReadYAML(strings.NewReader(input))
	if err != nil {
		t.Fatalf("ReadYAML: %v", err)
	}
	_, err = rows[1][1].Text()
	if !errors.Is(err, ErrNotScalar) {
		t.Fatalf("expected ErrNotScalar, got %v", err)
	}
	if _, err := Strings(rows); err == nil {
		t.Fatal("expected Strings to fail on a non-scalar cell")
	}
}

func TestReadYAMLRejectsMapping(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"mapping root", "questions: []\n"},
		{"row not a sequence", "- [a]\n- scalar\n"},
		{"two documents", "- [a]\n---\n- [b]\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ReadYAML(strings.NewReader(tt.input)); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestReadXLSXFirstSheetOnly(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bank.xlsx")

	f := excelize.NewFile()
	if err := f.SetSheetRow("Sheet1", "A1", &[]any{"question", "a", "b", "answer"}); err != nil {
		t.Fatalf("SetSheetRow: %v", err)
	}
	if err := f.SetSheetRow("Sheet1", "A2", &[]any{"Q1", "opt1", "opt2", "A"}); err != nil {
		t.Fatalf("SetSheetRow: %v", err)
	}
	if _, err := f.NewSheet("Other"); err != nil {
		t.Fatalf("NewSheet: %v", err)
	}
	if err := f.SetSheetRow("Other", "A1", &[]any{"ignored"}); err != nil {
		t.Fatalf("SetSheetRow: %v", err)
	}
	if err := f.SaveAs(path); err != nil {
		t.Fatalf("SaveAs: %v", err)
	}
	_ = f.Close()

	rows, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	got := mustStrings(t, rows)
	if len(got) != 2 {
		t.Fatalf("expected 2 rows from the first sheet, got %d", len(got))
	}
	if got[1][0] != "Q1" || got[1][3] != "A" {
		t.Errorf("row 2 = %q", got[1])
	}
}

func TestOpenUnsupported(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bank.txt")
	if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Open(path); !errors.Is(err, ErrUnsupportedFormat) {
		t.Fatalf("expected ErrUnsupportedFormat, got %v", err)
	}
}
