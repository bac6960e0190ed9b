package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/pavelanni/quizrunner/internal/model"
	"github.com/pavelanni/quizrunner/internal/quiz"
)

const (
	colorCorrect = lipgloss.Color("42")
	colorWrong   = lipgloss.Color("196")
	colorMuted   = lipgloss.Color("242")
	colorCursor  = lipgloss.Color("212")
)

// fixedLines is the number of lines outside the question list.
const fixedLines = 16

func (m Model) renderProgress() string {
	s := m.summary
	frac := 0.0
	if s.Total > 0 {
		frac = float64(s.Answered) / float64(s.Total)
	}
	line := m.tr.Td("Progress", map[string]any{"Answered": s.Answered, "Total": s.Total}) +
		"  " + m.bar.ViewAs(frac) + "  "
	wrong := m.tr.Td("WrongCount", map[string]any{"Count": s.Wrong})
	return line + stylize(wrong, m.noColor, colorWrong)
}

func (m Model) renderPageLine() string {
	line := m.tr.Td("PageOf", map[string]any{"Page": m.page + 1, "Pages": max(m.quiz.Pages(), 1)})
	return stylize(line+"  "+m.pager.View(), m.noColor, colorMuted)
}

func (m Model) renderList() string {
	if len(m.items) == 0 {
		return m.tr.T("NoQuestions")
	}
	return m.renderRows(m.items)
}

func (m Model) renderWrongList() string {
	title := stylize(m.tr.T("WrongListTitle"), m.noColor, colorWrong)
	if len(m.wrong) == 0 {
		return title + "\n" + m.tr.T("NoWrongAnswers")
	}
	return title + "\n" + m.renderRows(m.wrong)
}

// renderRows renders one line per item, scrolled to keep the cursor visible.
func (m Model) renderRows(items []quiz.Item) string {
	rows := max(m.height-fixedLines, 3)
	start := 0
	if m.cursor >= rows {
		start = m.cursor - rows + 1
	}
	end := min(start+rows, len(items))

	var sb strings.Builder
	for i := start; i < end; i++ {
		if i > start {
			sb.WriteByte('\n')
		}
		sb.WriteString(m.renderRow(items[i], i == m.cursor))
	}
	return sb.String()
}

func (m Model) renderRow(it quiz.Item, selected bool) string {
	prefix := "  "
	if selected {
		prefix = "> "
	}
	answer := it.Selected
	if answer == "" {
		answer = "-"
	}
	head := fmt.Sprintf("%s%4d. [%-4s] %s ", prefix, it.Number, answer, m.verdictGlyph(it.Verdict))
	text := truncate(oneLine(it.Question.ID), max(m.width-lipgloss.Width(head)-1, 10))
	line := head + text
	if selected {
		return stylize(line, m.noColor, colorCursor)
	}
	return line
}

func (m Model) verdictGlyph(v model.Verdict) string {
	switch v {
	case model.VerdictCorrect:
		return stylize("✔", m.noColor, colorCorrect)
	case model.VerdictIncorrect:
		return stylize("✘", m.noColor, colorWrong)
	}
	return " "
}

// renderDetail shows the options of the question under the cursor.
func (m Model) renderDetail() string {
	it, ok := m.current()
	if !ok {
		return ""
	}
	var sb strings.Builder
	sb.WriteString("\n")
	sb.WriteString(fmt.Sprintf("%d. %s", it.Number, it.Question.ID))
	if it.Question.Kind() == model.KindMulti {
		sb.WriteString(" " + stylize(m.tr.T("MultiHint"), m.noColor, colorMuted))
	}
	for i, opt := range it.Question.Options {
		label, ok := model.LabelAt(i)
		if !ok {
			break
		}
		mark := "( )"
		if strings.ContainsRune(it.Selected, rune('A'+i)) {
			mark = "(•)"
		}
		sb.WriteString(fmt.Sprintf("\n   %s %s. %s", mark, label, opt))
	}
	switch it.Verdict {
	case model.VerdictCorrect:
		sb.WriteString("\n" + stylize("✔ "+m.tr.T("VerdictCorrect"), m.noColor, colorCorrect))
	case model.VerdictIncorrect:
		line := "✘ " + m.tr.Td("CorrectAnswer", map[string]any{"Spec": it.Question.CorrectSpec})
		sb.WriteString("\n" + stylize(line, m.noColor, colorWrong))
	}
	if text, ok := m.explanation[it.Number]; ok {
		sb.WriteString("\n" + text)
	}
	return sb.String()
}

func (m Model) renderFooter() string {
	help := stylize(m.tr.T("Help"), m.noColor, colorMuted)
	if m.status == "" {
		return "\n" + help
	}
	return "\n" + m.status + "\n" + help
}

// stylize applies optional color styling.
func stylize(text string, noColor bool, color lipgloss.Color) string {
	if noColor {
		return text
	}
	return lipgloss.NewStyle().Foreground(color).Render(text)
}

func oneLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	if n <= 1 {
		return string(r[:n])
	}
	return string(r[:n-1]) + "…"
}
