// Package api exposes the prompt and title services over HTTP for
// server-side, multi-user deployments.
package api

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/alexanderramin/reflekt/internal/domain"
	"github.com/alexanderramin/reflekt/internal/entries"
	"github.com/alexanderramin/reflekt/internal/service"
)

const maxBodyBytes = 1 << 20

// Handler serves the v1 routes.
type Handler struct {
	prompts service.PromptService
	titles  service.TitleService
	logger  *zap.Logger
}

// NewHandler builds the router. A nil logger disables request logging.
func NewHandler(prompts service.PromptService, titles service.TitleService, logger *zap.Logger) http.Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	h := &Handler{prompts: prompts, titles: titles, logger: logger.Named("api")}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(requestLogger(h.logger))
	r.Use(middleware.Recoverer)

	r.Route("/v1", func(r chi.Router) {
		r.Route("/users/{user}", func(r chi.Router) {
			r.Get("/context", h.handleContext)
			r.Get("/prompts", h.handleCandidates)
			r.Post("/prompts/pick", h.handlePick)
			r.Post("/prompts/shown", h.handleShown)
			r.Post("/prompts/completed", h.handleCompleted)
			r.Post("/prompts/generate", h.handleGenerate)
		})
		r.Post("/titles", h.handleTitles)
	})
	return r
}

type entriesRequest struct {
	Entries []entries.EntryImport `json:"entries"`
}

type pickRequest struct {
	entriesRequest
	Current string   `json:"current"`
	Exclude []string `json:"exclude"`
	Pool    []string `json:"pool"`
}

type markRequest struct {
	Prompt  string `json:"prompt"`
	Content string `json:"content"`
}

type titlesRequest struct {
	Content string `json:"content"`
	Title   string `json:"title"`
	// Local skips the model entirely.
	Local bool `json:"local"`
}

type candidatesResponse struct {
	Prompts []string `json:"prompts"`
}

type titlesResponse struct {
	Titles []string `json:"titles"`
}

func (h *Handler) handleContext(w http.ResponseWriter, r *http.Request) {
	list, ok := h.readEntries(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, h.prompts.Context(list))
}

// handleCandidates returns the live batch, or the scored list with ?explain=1.
func (h *Handler) handleCandidates(w http.ResponseWriter, r *http.Request) {
	list, ok := h.readEntries(w, r)
	if !ok {
		return
	}
	user := chi.URLParam(r, "user")
	if explain := r.URL.Query().Get("explain"); explain == "1" || explain == "true" {
		writeJSON(w, http.StatusOK, h.prompts.Explain(r.Context(), user, list))
		return
	}
	writeJSON(w, http.StatusOK, candidatesResponse{Prompts: h.prompts.Candidates(r.Context(), user, list)})
}

func (h *Handler) handlePick(w http.ResponseWriter, r *http.Request) {
	var req pickRequest
	if !decode(w, r, &req) {
		return
	}
	list, ok := convert(w, req.Entries)
	if !ok {
		return
	}
	resp, err := h.prompts.Pick(r.Context(), service.PickRequest{
		User:    chi.URLParam(r, "user"),
		Entries: list,
		Current: req.Current,
		Exclude: req.Exclude,
		Pool:    req.Pool,
	})
	if err != nil {
		h.internalError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) handleShown(w http.ResponseWriter, r *http.Request) {
	var req markRequest
	if !decode(w, r, &req) {
		return
	}
	if strings.TrimSpace(req.Prompt) == "" {
		http.Error(w, "prompt is required", http.StatusBadRequest)
		return
	}
	if err := h.prompts.MarkShown(r.Context(), chi.URLParam(r, "user"), req.Prompt); err != nil {
		h.internalError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleCompleted(w http.ResponseWriter, r *http.Request) {
	var req markRequest
	if !decode(w, r, &req) {
		return
	}
	if strings.TrimSpace(req.Prompt) == "" {
		http.Error(w, "prompt is required", http.StatusBadRequest)
		return
	}
	if err := h.prompts.MarkCompleted(r.Context(), chi.URLParam(r, "user"), req.Prompt, req.Content); err != nil {
		h.internalError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleGenerate(w http.ResponseWriter, r *http.Request) {
	list, ok := h.readEntries(w, r)
	if !ok {
		return
	}
	resp, err := h.prompts.Generate(r.Context(), chi.URLParam(r, "user"), list)
	if err != nil {
		h.internalError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) handleTitles(w http.ResponseWriter, r *http.Request) {
	var req titlesRequest
	if !decode(w, r, &req) {
		return
	}
	var titles []string
	if req.Local {
		titles = h.titles.SuggestLocal(req.Content, req.Title)
	} else {
		titles = h.titles.Suggest(r.Context(), req.Content, req.Title)
	}
	if titles == nil {
		titles = []string{}
	}
	writeJSON(w, http.StatusOK, titlesResponse{Titles: titles})
}

// readEntries accepts an optional {"entries": [...]} body, also on GET.
func (h *Handler) readEntries(w http.ResponseWriter, r *http.Request) ([]domain.JournalEntry, bool) {
	var req entriesRequest
	if !decode(w, r, &req) {
		return nil, false
	}
	return convert(w, req.Entries)
}

func (h *Handler) internalError(w http.ResponseWriter, r *http.Request, err error) {
	h.logger.Error("request failed",
		zap.String("request_id", middleware.GetReqID(r.Context())),
		zap.String("path", r.URL.Path),
		zap.Error(err))
	http.Error(w, "internal server error", http.StatusInternalServerError)
}

// decode reads a JSON body into v. An empty body leaves v untouched.
func decode(w http.ResponseWriter, r *http.Request, v any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(v); err != nil && !errors.Is(err, io.EOF) {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return false
	}
	return true
}

func convert(w http.ResponseWriter, raw []entries.EntryImport) ([]domain.JournalEntry, bool) {
	list, err := entries.Convert(raw)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return nil, false
	}
	return list, true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
