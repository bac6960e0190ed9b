package main

import (
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/spf13/cobra"

	"github.com/pavelanni/quizrunner/internal/handler"
	appI18n "github.com/pavelanni/quizrunner/internal/i18n"
)

func serveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve [bank file]",
		Short: "Serve a quiz run as a JSON API",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runServe,
	}
	addQuizFlags(cmd)
	f := cmd.Flags()
	f.StringP("addr", "a", ":8080", "HTTP listen address")
	f.String("base-path", "", "URL prefix for sub-path deployments (e.g. /quiz)")
	return cmd
}

func runServe(cmd *cobra.Command, args []string) error {
	closeLog, err := setupLogging(cmd)
	if err != nil {
		return err
	}
	defer closeLog()
	v := viperForCmd(cmd)
	cfg := runConfig(v)

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

	// Normalize base path.
	basePath := strings.TrimRight(v.GetString("base-path"), "/")
	if basePath != "" && !strings.HasPrefix(basePath, "/") {
		basePath = "/" + basePath
	}

	h := handler.New(c, explainer, v.GetDuration("llm-timeout"))

	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(appI18n.Middleware(cfg.Lang))

	if basePath != "" {
		r.Route(basePath, h.Routes)
	} else {
		h.Routes(r)
	}

	addr := v.GetString("addr")
	slog.Info("starting server",
		"addr", addr,
		"run_id", c.RunID(),
		"questions", c.Len(),
		"lang", cfg.Lang,
		"page_size", c.PageSize(),
		"grade_multi", cfg.GradeMulti,
		"explain_model", cfg.ExplainWith,
		"base_path", basePath,
	)
	return http.ListenAndServe(addr, r)
}
