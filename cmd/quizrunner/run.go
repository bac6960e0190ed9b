package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pavelanni/quizrunner/internal/bank"
	"github.com/pavelanni/quizrunner/internal/grading"
	appI18n "github.com/pavelanni/quizrunner/internal/i18n"
	"github.com/pavelanni/quizrunner/internal/llm"
	"github.com/pavelanni/quizrunner/internal/llm/prompts"
	"github.com/pavelanni/quizrunner/internal/model"
	"github.com/pavelanni/quizrunner/internal/quiz"
	"github.com/pavelanni/quizrunner/internal/sheet"
	"github.com/pavelanni/quizrunner/internal/store"
	"github.com/pavelanni/quizrunner/internal/ui/plain"
	"github.com/pavelanni/quizrunner/internal/ui/tui"
)

func runCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run [bank file]",
		Short: "Answer a question bank interactively",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runQuiz,
	}
	addQuizFlags(cmd)
	f := cmd.Flags()
	f.String("ui", string(model.UIAuto), "Front-end (auto, live, plain)")
	f.Bool("no-color", false, "Disable colors in the live UI")
	f.String("report", "", "Write a JSON report to this file on exit (- for stdout)")
	return cmd
}

// addQuizFlags registers the flags shared by run and serve.
func addQuizFlags(cmd *cobra.Command) {
	addBankFlags(cmd)
	addLogFlags(cmd)
	f := cmd.Flags()
	f.Int("page-size", quiz.DefaultPageSize, "Questions per page")
	f.StringP("lang", "l", "en", "UI language (en, zh)")
	f.Bool("grade-multi", false, "Count submitted multi-select answers in the score and wrong list")
	f.String("llm-url", "http://localhost:11434/v1", "OpenAI-compatible API base URL")
	f.String("llm-key", "ollama", "API key for LLM")
	f.String("llm-model", "", "LLM model used to explain missed questions (empty disables)")
	f.String("prompt-variant", string(prompts.VariantBrief), "Explanation prompt variant (brief, detailed)")
	f.Duration("llm-timeout", 30*time.Second, "Timeout for one explanation request")
}

func runConfig(v *viper.Viper) model.RunConfig {
	return model.RunConfig{
		PageSize:    v.GetInt("page-size"),
		Lang:        v.GetString("lang"),
		GradeMulti:  v.GetBool("grade-multi"),
		UIMode:      model.UIMode(strings.ToLower(strings.TrimSpace(v.GetString("ui")))),
		ExplainWith: v.GetString("llm-model"),
	}
}

func runQuiz(cmd *cobra.Command, args []string) error {
	closeLog, err := setupLogging(cmd)
	if err != nil {
		return err
	}
	defer closeLog()
	v := viperForCmd(cmd)
	cfg := runConfig(v)

	useLive, warning, err := resolveUIMode(string(cfg.UIMode), os.Stdin, os.Stdout)
	if err != nil {
		return err
	}
	if warning != "" {
		fmt.Fprintln(cmd.ErrOrStderr(), warning)
	}

	c, err := startQuiz(v, args, cfg)
	if err != nil {
		return err
	}
	if err := appI18n.Init(cfg.Lang); err != nil {
		return fmt.Errorf("init i18n: %w", err)
	}
	explainer, err := newExplainer(v, cfg)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	tr := appI18n.New(cfg.Lang)
	timeout := v.GetDuration("llm-timeout")
	if useLive {
		if v.GetString("log-file") == "" {
			// The terminal belongs to the UI from here on.
			slog.SetDefault(slog.New(slog.DiscardHandler))
		}
		err = tui.Run(ctx, c, nil, nil, tui.Options{
			Translator:     tr,
			Explainer:      explainer,
			ExplainTimeout: timeout,
			NoColor:        v.GetBool("no-color"),
		})
		if errors.Is(err, tea.ErrProgramKilled) {
			err = nil
		}
	} else {
		err = plain.New(c, cmd.InOrStdin(), cmd.OutOrStdout(), plain.Options{
			Translator:     tr,
			Explainer:      explainer,
			ExplainTimeout: timeout,
		}).Run(ctx)
		if errors.Is(err, context.Canceled) {
			err = nil
		}
	}
	if err != nil {
		return fmt.Errorf("run quiz: %w", err)
	}

	sum := c.Summary()
	slog.Info("run finished", "run_id", c.RunID(), "answered", sum.Answered, "correct", sum.Correct, "wrong", sum.Wrong)
	if path := v.GetString("report"); path != "" {
		if err := writeReport(path, cmd.OutOrStdout(), c.Report()); err != nil {
			return err
		}
	}
	return nil
}

// startQuiz loads the bank and wraps it in a controller.
func startQuiz(v *viper.Viper, args []string, cfg model.RunConfig) (*quiz.Controller, error) {
	b, source, err := loadBank(v, args)
	if err != nil {
		return nil, err
	}
	slog.Info("loaded bank", "source", source, "questions", b.Len(), "skipped", len(b.Skipped()))
	return quiz.New(b, quiz.Options{
		PageSize: cfg.PageSize,
		Policy:   grading.Policy{FoldMulti: cfg.GradeMulti},
		Source:   source,
	}), nil
}

// loadBank reads rows from the file argument or the catalog and parses them.
func loadBank(v *viper.Viper, args []string) (*bank.Bank, string, error) {
	rows, source, err := openRows(v, args)
	if err != nil {
		return nil, "", err
	}
	b, err := bank.Loader{SkipMalformed: v.GetBool("skip-malformed")}.Load(rows)
	if err != nil {
		return nil, "", fmt.Errorf("load bank %s: %w", source, err)
	}
	return b, source, nil
}

func openRows(v *viper.Viper, args []string) ([]sheet.Row, string, error) {
	name := v.GetString("catalog-bank")
	if len(args) > 0 && name != "" {
		return nil, "", errors.New("give either a bank file or --catalog-bank, not both")
	}
	if len(args) > 0 {
		rows, err := sheet.Open(args[0])
		if err != nil {
			return nil, "", fmt.Errorf("load bank %s: %w", args[0], err)
		}
		return rows, args[0], nil
	}

	db, err := store.New(v.GetString("db"))
	if err != nil {
		return nil, "", fmt.Errorf("open catalog: %w", err)
	}
	defer db.Close()

	if name == "" {
		name, err = db.DefaultBank()
		if err != nil {
			return nil, "", fmt.Errorf("read default bank: %w", err)
		}
		if name == "" {
			return nil, "", errors.New("no bank given: pass a file or import one with `quizrunner import --default`")
		}
	}
	records, err := db.BankRows(name)
	if err != nil {
		return nil, "", fmt.Errorf("load bank %s: %w", name, err)
	}
	return sheet.FromStrings(records), "catalog:" + name, nil
}

func newExplainer(v *viper.Viper, cfg model.RunConfig) (quiz.Explainer, error) {
	if cfg.ExplainWith == "" {
		return nil, nil
	}
	variant := strings.ToLower(strings.TrimSpace(v.GetString("prompt-variant")))
	if !prompts.IsValidVariant(variant) {
		slog.Warn("invalid prompt-variant, using brief", "variant", variant)
		variant = string(prompts.VariantBrief)
	}
	client, err := llm.New(v.GetString("llm-url"), v.GetString("llm-key"), cfg.ExplainWith, variant)
	if err != nil {
		return nil, fmt.Errorf("create LLM client: %w", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), v.GetDuration("llm-timeout"))
	defer cancel()
	if err := client.Ping(ctx); err != nil {
		return nil, fmt.Errorf("LLM health check: %w", err)
	}
	slog.Info("LLM endpoint OK", "url", v.GetString("llm-url"), "model", client.Model())
	return client, nil
}

func writeReport(path string, stdout io.Writer, r model.Report) error {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal JSON: %w", err)
	}

	var w io.Writer
	if path == "-" {
		w = stdout
	} else {
		f, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("create report file: %w", err)
		}
		defer f.Close()
		w = f
	}
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	_, _ = fmt.Fprintln(w)
	slog.Info("wrote report", "path", path, "wrong", len(r.WrongDetail))
	return nil
}
