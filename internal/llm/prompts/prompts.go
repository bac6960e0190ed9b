package prompts

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"regexp"
	"strings"
	"sync"
	"text/template"
	"unicode/utf8"

	"github.com/pavelanni/quizrunner/internal/model"
)

//go:embed templates/*.txt
var templateFS embed.FS

var questionTagRegex = regexp.MustCompile(`(?i)</?\s*question\b[^>]*>`)

const maxQuestionRunes = 4000

// Variant names an explanation prompt style.
type Variant string

const (
	// VariantBrief asks for a short explanation.
	VariantBrief Variant = "brief"
	// VariantDetailed walks through every option.
	VariantDetailed Variant = "detailed"
)

var validVariants = map[Variant]bool{
	VariantBrief:    true,
	VariantDetailed: true,
}

var (
	loadOnce  sync.Once
	loadErr   error
	templates map[Variant]*template.Template
)

// IsValidVariant checks if a prompt variant name is valid.
func IsValidVariant(v string) bool {
	return validVariants[Variant(v)]
}

// OptionData is one labeled option in the prompt.
type OptionData struct {
	Label string
	Text  string
}

// ExplainData holds template data for explanation prompts.
type ExplainData struct {
	Question string
	Options  []OptionData
	Correct  string
	Selected string
}

// Load parses the explanation templates. A nil fsys uses the built-in ones;
// otherwise fsys must hold templates/explain_<variant>.txt for every variant.
func Load(fsys fs.FS) error {
	loadOnce.Do(func() {
		if fsys == nil {
			fsys = templateFS
		}
		templates = make(map[Variant]*template.Template)
		for v := range validVariants {
			name := "templates/explain_" + string(v) + ".txt"
			content, err := fs.ReadFile(fsys, name)
			if err != nil {
				loadErr = fmt.Errorf("read prompt file %s: %w", name, err)
				return
			}
			tmpl, err := template.New(string(v)).Parse(string(content))
			if err != nil {
				loadErr = fmt.Errorf("parse prompt template %s: %w", name, err)
				return
			}
			templates[v] = tmpl
		}
	})
	return loadErr
}

// BuildExplainPrompt renders the prompt for a question the learner missed.
// selected is the learner's answer as labels, possibly empty.
func BuildExplainPrompt(variant Variant, q model.Question, selected string) (string, error) {
	if templates == nil {
		if loadErr != nil {
			return "", fmt.Errorf("templates load failed: %w", loadErr)
		}
		return "", errors.New("templates not initialized: call Load first")
	}
	tmpl, ok := templates[variant]
	if !ok {
		return "", errors.New("invalid prompt variant: " + string(variant))
	}

	data := ExplainData{
		Question: sanitize(q.ID),
		Correct:  q.CorrectSpec,
		Selected: selected,
	}
	for i, opt := range q.Options {
		l, ok := model.LabelAt(i)
		if !ok {
			break
		}
		data.Options = append(data.Options, OptionData{Label: l.String(), Text: sanitize(opt)})
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func sanitize(s string) string {
	s = questionTagRegex.ReplaceAllString(s, "")
	s = strings.TrimSpace(s)
	if utf8.RuneCountInString(s) > maxQuestionRunes {
		s = string([]rune(s)[:maxQuestionRunes]) + " [truncated]"
	}
	return s
}
