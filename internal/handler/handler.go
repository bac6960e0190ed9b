// Package handler serves a quiz run as a JSON API.
package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/pavelanni/quizrunner/internal/i18n"
	"github.com/pavelanni/quizrunner/internal/model"
	"github.com/pavelanni/quizrunner/internal/quiz"
)

// Handler holds shared dependencies for HTTP handlers.
type Handler struct {
	quiz    *quiz.Controller
	explain quiz.Explainer
	timeout time.Duration
}

// New creates a new Handler. ex may be nil, in which case explain requests
// get 503.
func New(c *quiz.Controller, ex quiz.Explainer, timeout time.Duration) *Handler {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Handler{quiz: c, explain: ex, timeout: timeout}
}

// Routes registers all HTTP routes.
func (h *Handler) Routes(r chi.Router) {
	r.Route("/api", func(r chi.Router) {
		r.Get("/questions", h.handlePage)
		r.Get("/questions/{n}", h.handleQuestion)
		r.Post("/questions/{n}/select", h.handleSelect)
		r.Post("/questions/{n}/toggle", h.handleToggle)
		r.Post("/questions/{n}/submit", h.handleSubmit)
		r.Post("/questions/{n}/explain", h.handleExplain)
		r.Get("/summary", h.handleSummary)
		r.Get("/wrong", h.handleWrong)
		r.Get("/report", h.handleReport)
	})
}

type pageResponse struct {
	Page     int         `json:"page"`
	Pages    int         `json:"pages"`
	PageSize int         `json:"page_size"`
	Total    int         `json:"total"`
	Items    []quiz.Item `json:"items"`
}

type summaryResponse struct {
	Total    int    `json:"total"`
	Answered int    `json:"answered"`
	Correct  int    `json:"correct"`
	Wrong    int    `json:"wrong"`
	Recorded int    `json:"recorded"`
	Progress string `json:"progress"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("encode response", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, errorResponse{Error: err.Error()})
}

// statusFor maps core errors to HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, model.ErrUnknownQuestion):
		return http.StatusNotFound
	case errors.Is(err, model.ErrKindMismatch), errors.Is(err, model.ErrIndexOutOfRange):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func questionNumber(r *http.Request) (int, error) {
	n, err := strconv.Atoi(chi.URLParam(r, "n"))
	if err != nil {
		return 0, errors.New("invalid question number")
	}
	return n, nil
}

func (h *Handler) handlePage(w http.ResponseWriter, r *http.Request) {
	page := 1
	if p := r.URL.Query().Get("page"); p != "" {
		v, err := strconv.Atoi(p)
		if err != nil || v < 1 {
			writeError(w, http.StatusBadRequest, errors.New("invalid page"))
			return
		}
		page = v
	}
	pages := h.quiz.Pages()
	if page > pages {
		writeError(w, http.StatusNotFound, fmt.Errorf("page %d out of range 1-%d", page, pages))
		return
	}
	writeJSON(w, http.StatusOK, pageResponse{
		Page:     page,
		Pages:    pages,
		PageSize: h.quiz.PageSize(),
		Total:    h.quiz.Len(),
		Items:    h.quiz.Page(page - 1),
	})
}

func (h *Handler) handleQuestion(w http.ResponseWriter, r *http.Request) {
	n, err := questionNumber(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	it, err := h.quiz.Item(n)
	if err != nil {
		writeError(w, statusFor(err), err)
		return
	}
	writeJSON(w, http.StatusOK, it)
}

func (h *Handler) handleSelect(w http.ResponseWriter, r *http.Request) {
	n, err := questionNumber(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	var body struct {
		Label string `json:"label"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, errors.New("invalid request body"))
		return
	}
	label, ok := model.ParseLabelString(body.Label)
	if !ok {
		writeError(w, http.StatusBadRequest, errors.New("label must be one of A-H"))
		return
	}
	h.respond(w, n, func() (quiz.Item, error) { return h.quiz.Select(n, label) })
}

func (h *Handler) handleToggle(w http.ResponseWriter, r *http.Request) {
	n, err := questionNumber(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	var body struct {
		Index *int `json:"index"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.Index == nil {
		writeError(w, http.StatusBadRequest, errors.New("invalid request body"))
		return
	}
	h.respond(w, n, func() (quiz.Item, error) { return h.quiz.Toggle(n, *body.Index) })
}

func (h *Handler) handleSubmit(w http.ResponseWriter, r *http.Request) {
	n, err := questionNumber(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	h.respond(w, n, func() (quiz.Item, error) { return h.quiz.Submit(n) })
}

func (h *Handler) respond(w http.ResponseWriter, n int, apply func() (quiz.Item, error)) {
	it, err := apply()
	if err != nil {
		slog.Debug("rejected selection", "question", n, "error", err)
		writeError(w, statusFor(err), err)
		return
	}
	writeJSON(w, http.StatusOK, it)
}

func (h *Handler) handleExplain(w http.ResponseWriter, r *http.Request) {
	if h.explain == nil {
		writeError(w, http.StatusServiceUnavailable, errors.New(i18n.FromContext(r.Context()).T("ExplainDisabled")))
		return
	}
	n, err := questionNumber(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	it, err := h.quiz.Item(n)
	if err != nil {
		writeError(w, statusFor(err), err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()
	ex, err := h.explain.Explain(ctx, it.Question, it.Selected)
	if err != nil {
		slog.Error("LLM explanation failed", "question", n, "error", err)
		writeError(w, http.StatusBadGateway, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"explanation": ex.Text})
}

func (h *Handler) handleSummary(w http.ResponseWriter, r *http.Request) {
	s := h.quiz.Summary()
	tr := i18n.FromContext(r.Context())
	writeJSON(w, http.StatusOK, summaryResponse{
		Total:    s.Total,
		Answered: s.Answered,
		Correct:  s.Correct,
		Wrong:    s.Wrong,
		Recorded: s.Recorded,
		Progress: tr.Td("Progress", map[string]any{"Answered": s.Answered, "Total": s.Total}),
	})
}

func (h *Handler) handleWrong(w http.ResponseWriter, r *http.Request) {
	items := h.quiz.WrongItems()
	if items == nil {
		items = []quiz.Item{}
	}
	writeJSON(w, http.StatusOK, items)
}

func (h *Handler) handleReport(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.quiz.Report())
}
