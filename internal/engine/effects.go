package engine

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/hammamikhairi/aichef/internal/domain"
	"github.com/hammamikhairi/aichef/internal/retry"
)

// RunPending performs the generation a Submit queued and returns the action
// describing its outcome. save controls whether the result goes to history.
func (e *Engine) RunPending(ctx context.Context, userID string, req domain.GenerationRequest, save bool) Action {
	var (
		res *Result
		err error
	)
	if save {
		res, err = e.GenerateAndSave(ctx, userID, req)
	} else {
		res, err = e.Generate(ctx, req)
	}
	if err != nil {
		e.log.Warn("generation failed: %v", err)
		return GenerateFailed{Err: err}
	}
	return GenerateSucceeded{Recipe: res.Recipe, Entry: res.Entry}
}

// LoadHistory fetches the user's history as an action. Failures are logged
// and produce an empty list so the form stays usable.
func (e *Engine) LoadHistory(ctx context.Context, userID string) Action {
	entries, err := e.History(ctx, userID, 0)
	if err != nil {
		e.log.Error("%v", err)
		return HistoryLoaded{}
	}
	return HistoryLoaded{Entries: entries}
}

// Describe turns a generation error into a message fit for end users.
func Describe(err error) string {
	var herr *retry.HTTPError
	switch {
	case err == nil:
		return ""
	case errors.Is(err, domain.ErrInvalidRequest):
		return fmt.Sprintf("Please provide ingredients and a time limit between %d and %d minutes.",
			domain.MinMinutes, domain.MaxMinutes)
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return "The request was cancelled before a recipe came back."
	case errors.Is(err, domain.ErrRateLimited):
		return "The AI service is busy right now. Please try again in a moment."
	case errors.As(err, &herr) && herr.StatusCode >= http.StatusInternalServerError:
		return "The AI service is having trouble. Please try again later."
	case errors.As(err, &herr):
		return fmt.Sprintf("The AI service rejected the request (status %d).", herr.StatusCode)
	case errors.Is(err, domain.ErrTransient):
		return "An error occurred while connecting to the AI service. Please check your network."
	case errors.Is(err, domain.ErrMalformedResponse), errors.Is(err, domain.ErrEmptyCompletion):
		return "Could not generate a valid recipe. Please try again with different inputs."
	}
	return "Something went wrong while generating the recipe."
}
