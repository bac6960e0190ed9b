// Package plain is a line-oriented console front-end for terminals that
// cannot host the full-screen UI, and for scripted input.
package plain

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/pavelanni/quizrunner/internal/i18n"
	"github.com/pavelanni/quizrunner/internal/model"
	"github.com/pavelanni/quizrunner/internal/quiz"
)

var errUsage = errors.New("usage")

// Options configures the console.
type Options struct {
	Translator     *i18n.Translator
	Explainer      quiz.Explainer // nil disables explanations
	ExplainTimeout time.Duration
}

// Console reads commands from in and writes results to out.
type Console struct {
	quiz    *quiz.Controller
	tr      *i18n.Translator
	explain quiz.Explainer
	timeout time.Duration
	in      *bufio.Scanner
	out     io.Writer
	page    int
}

// New creates a console over a running quiz.
func New(c *quiz.Controller, in io.Reader, out io.Writer, opts Options) *Console {
	tr := opts.Translator
	if tr == nil {
		tr = i18n.New("en")
	}
	timeout := opts.ExplainTimeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	sc := bufio.NewScanner(in)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	return &Console{quiz: c, tr: tr, explain: opts.Explainer, timeout: timeout, in: sc, out: out}
}

// Run processes commands until quit, end of input, or ctx is done.
func (c *Console) Run(ctx context.Context) error {
	c.println(c.tr.T("AppTitle"))
	c.println(c.tr.Tp("QuestionsLoaded", c.quiz.Len()))
	c.println(c.tr.T("PlainHelp"))
	c.list()

	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		fmt.Fprint(c.out, "> ")
		if !c.in.Scan() {
			if err := c.in.Err(); err != nil {
				return fmt.Errorf("read command: %w", err)
			}
			return nil
		}
		if quit := c.exec(ctx, strings.Fields(c.in.Text())); quit {
			c.println(c.tr.T("Goodbye"))
			return nil
		}
	}
}

// exec runs one command line and reports whether the user asked to quit.
func (c *Console) exec(ctx context.Context, args []string) bool {
	if len(args) == 0 {
		return false
	}
	cmd, args := strings.ToLower(args[0]), args[1:]

	var err error
	switch cmd {
	case "quit", "exit", "q":
		return true
	case "help", "?":
		c.println(c.tr.T("PlainHelp"))
	case "list", "ls":
		c.list()
	case "next", "n":
		if c.page < c.quiz.Pages()-1 {
			c.page++
		}
		c.list()
	case "prev", "p":
		if c.page > 0 {
			c.page--
		}
		c.list()
	case "top", "t":
		c.page = 0
		c.list()
	case "page":
		err = c.gotoPage(args)
	case "show", "s":
		err = c.withNumber(args, 1, func(n int, _ []string) error {
			it, err := c.quiz.Item(n)
			if err == nil {
				c.show(it)
			}
			return err
		})
	case "pick":
		err = c.withNumber(args, 2, func(n int, rest []string) error {
			label, ok := model.ParseLabelString(rest[0])
			if !ok {
				return fmt.Errorf("%w: pick N A", errUsage)
			}
			return c.result(c.quiz.Answer(n, label))
		})
	case "toggle":
		err = c.withNumber(args, 2, func(n int, rest []string) error {
			label, ok := model.ParseLabelString(rest[0])
			if !ok {
				return fmt.Errorf("%w: toggle N B", errUsage)
			}
			return c.result(c.quiz.Toggle(n, label.Index()))
		})
	case "submit":
		err = c.withNumber(args, 1, func(n int, _ []string) error {
			return c.result(c.quiz.Submit(n))
		})
	case "score":
		c.score()
	case "wrong", "w":
		c.wrongList()
	case "explain", "x":
		err = c.withNumber(args, 1, func(n int, _ []string) error {
			return c.explainItem(ctx, n)
		})
	default:
		c.println(c.tr.Td("UnknownCommand", map[string]any{"Command": cmd}))
	}
	if err != nil {
		c.println("error: " + err.Error())
	}
	return false
}

func (c *Console) withNumber(args []string, want int, fn func(int, []string) error) error {
	if len(args) < want {
		return fmt.Errorf("%w: expected %d argument(s)", errUsage, want)
	}
	n, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("%w: %q is not a question number", errUsage, args[0])
	}
	return fn(n, args[1:])
}

func (c *Console) gotoPage(args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("%w: page P", errUsage)
	}
	p, err := strconv.Atoi(args[0])
	if err != nil || p < 1 || p > max(c.quiz.Pages(), 1) {
		return fmt.Errorf("%w: page must be between 1 and %d", errUsage, max(c.quiz.Pages(), 1))
	}
	c.page = p - 1
	c.list()
	return nil
}

func (c *Console) result(it quiz.Item, err error) error {
	if err != nil {
		return err
	}
	c.show(it)
	c.progress()
	return nil
}

func (c *Console) explainItem(ctx context.Context, n int) error {
	if c.explain == nil {
		c.println(c.tr.T("ExplainDisabled"))
		return nil
	}
	it, err := c.quiz.Item(n)
	if err != nil {
		return err
	}
	c.println(c.tr.T("Explaining"))
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()
	ex, err := c.explain.Explain(ctx, it.Question, it.Selected)
	if err != nil {
		return err
	}
	c.println(ex.Text)
	return nil
}

func (c *Console) println(s string) {
	fmt.Fprintln(c.out, s)
}
