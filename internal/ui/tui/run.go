package tui

import (
	"context"
	"io"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/pavelanni/quizrunner/internal/quiz"
)

// Run shows the quiz full-screen until the user quits or ctx is done.
func Run(ctx context.Context, c *quiz.Controller, in io.Reader, out io.Writer, opts Options) error {
	progOpts := []tea.ProgramOption{tea.WithAltScreen(), tea.WithContext(ctx)}
	if in != nil {
		progOpts = append(progOpts, tea.WithInput(in))
	}
	if out != nil {
		progOpts = append(progOpts, tea.WithOutput(out))
	}
	program := tea.NewProgram(NewModel(c, opts), progOpts...)
	_, err := program.Run()
	return err
}
