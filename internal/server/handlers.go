package server

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/hammamikhairi/aichef/internal/display"
	"github.com/hammamikhairi/aichef/internal/domain"
	"github.com/hammamikhairi/aichef/internal/engine"
	"github.com/hammamikhairi/aichef/internal/recipe"
)

// maxBodyBytes caps generation request bodies.
const maxBodyBytes = 64 << 10

// GenerateRequest is the body of POST /v1/recipes.
type GenerateRequest struct {
	Ingredients string `json:"ingredients"`
	MaxMinutes  int    `json:"max_minutes"`
	Save        bool   `json:"save"`
}

// RecipeResponse is a parsed recipe, plus its history ID when it was saved.
type RecipeResponse struct {
	domain.ParsedRecipe
	HistoryID string `json:"history_id,omitempty"`
}

// HistoryResponse lists history summaries, newest first.
type HistoryResponse struct {
	Entries []recipe.Summary `json:"entries"`
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	respondJSON(w, http.StatusOK, map[string]any{
		"status":    "healthy",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	if !s.ready.Load() {
		writeError(w, r, http.StatusServiceUnavailable, "NOT_READY", "Service is not ready", true)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"status": "ready"})
}

func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	var body GenerateRequest
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&body); err != nil {
		writeError(w, r, http.StatusBadRequest, ErrCodeInvalidRequest, "Invalid JSON body: "+err.Error(), false)
		return
	}

	req := domain.GenerationRequest{Ingredients: body.Ingredients, MaxMinutes: body.MaxMinutes}
	if err := req.Validate(); err != nil {
		writeDomainError(w, r, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), s.config.RequestTimeout)
	defer cancel()

	var (
		res *engine.Result
		err error
	)
	if body.Save {
		res, err = s.engine.GenerateAndSave(ctx, userID(r), req)
	} else {
		res, err = s.engine.Generate(ctx, req)
	}
	if err != nil {
		recipesGenerated.WithLabelValues("error").Inc()
		s.log.Warn("generation failed (request=%s): %v", requestID(r), err)
		writeDomainError(w, r, err)
		return
	}
	recipesGenerated.WithLabelValues("ok").Inc()

	resp := RecipeResponse{ParsedRecipe: res.Recipe}
	if res.Entry != nil {
		resp.HistoryID = res.Entry.ID
	}
	respondJSON(w, http.StatusOK, resp)
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			writeError(w, r, http.StatusBadRequest, ErrCodeInvalidRequest, "limit must be a positive integer", false)
			return
		}
		limit = n
	}

	entries, err := s.engine.History(r.Context(), userID(r), limit)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	resp := HistoryResponse{Entries: make([]recipe.Summary, 0, len(entries))}
	for _, e := range entries {
		resp.Entries = append(resp.Entries, recipe.Summarize(e))
	}
	respondJSON(w, http.StatusOK, resp)
}

func (s *Server) handleHistoryEntry(w http.ResponseWriter, r *http.Request) {
	entry, parsed, err := s.engine.Show(r.Context(), userID(r), r.PathValue("id"))
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, RecipeResponse{ParsedRecipe: parsed, HistoryID: entry.ID})
}

func (s *Server) handleHistoryHTML(w http.ResponseWriter, r *http.Request) {
	_, parsed, err := s.engine.Show(r.Context(), userID(r), r.PathValue("id"))
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	page, err := display.HTML(parsed)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = io.WriteString(w, page)
}
