package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"

	"github.com/pavelanni/quizrunner/internal/model"
)

// isTerminal reports whether a stream is a TTY.
var isTerminal = defaultIsTerminal

// resolveUIMode decides whether the full-screen UI can run. The live UI needs
// both ends of the terminal.
func resolveUIMode(mode string, stdin io.Reader, stdout io.Writer) (bool, string, error) {
	normalized := model.UIMode(strings.ToLower(strings.TrimSpace(mode)))
	if normalized == "" {
		normalized = model.UIAuto
	}
	tty := isTerminal(stdin) && isTerminal(stdout)
	switch normalized {
	case model.UIAuto:
		return tty, "", nil
	case model.UILive:
		if tty {
			return true, "", nil
		}
		return false, "Live UI requested but the terminal is not interactive; falling back to plain output.", nil
	case model.UIPlain:
		return false, "", nil
	default:
		return false, "", fmt.Errorf("invalid ui mode %q (expected auto|live|plain)", mode)
	}
}

func defaultIsTerminal(stream any) bool {
	if stream == nil {
		return false
	}
	if file, ok := stream.(*os.File); ok {
		return term.IsTerminal(int(file.Fd()))
	}
	if fder, ok := stream.(interface{ Fd() uintptr }); ok {
		return term.IsTerminal(int(fder.Fd()))
	}
	return false
}
