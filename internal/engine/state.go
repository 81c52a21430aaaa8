package engine

import (
	"strings"

	"github.com/hammamikhairi/aichef/internal/domain"
	"github.com/hammamikhairi/aichef/internal/recipe"
)

// Status lines shown next to the form.
const (
	StatusGenerating = "Generating recipe..."
	StatusReady      = "Recipe successfully generated!"
	StatusFailed     = "Generation failed."
)

// DefaultMaxMinutes pre-fills the time limit.
const DefaultMaxMinutes = 30

// State is everything an interactive front end shows. It is a plain value;
// Reduce is the only thing that changes it.
type State struct {
	Ingredients string
	MaxMinutes  int

	Loading bool
	Status  string
	Err     error

	// Pending is the request a front end should run after Submit.
	Pending *domain.GenerationRequest

	Current *domain.ParsedRecipe
	History []domain.HistoryEntry

	// HistoryLimit caps History. Zero means 10.
	HistoryLimit int
}

// NewState returns the initial form state.
func NewState() State {
	return State{MaxMinutes: DefaultMaxMinutes}
}

// Action is an event fed into Reduce.
type Action interface{ isAction() }

type (
	// SetIngredients replaces the ingredient text.
	SetIngredients struct{ Value string }
	// SetMaxMinutes replaces the time limit.
	SetMaxMinutes struct{ Value int }
	// Submit asks for a generation with the current form values.
	Submit struct{}
	// GenerateSucceeded carries a finished recipe. Entry is nil when it
	// was not saved.
	GenerateSucceeded struct {
		Recipe domain.ParsedRecipe
		Entry  *domain.HistoryEntry
	}
	// GenerateFailed carries the generation error.
	GenerateFailed struct{ Err error }
	// HistoryLoaded replaces the history list.
	HistoryLoaded struct{ Entries []domain.HistoryEntry }
	// SelectHistory shows a stored entry as the current recipe.
	SelectHistory struct{ ID string }
)

func (SetIngredients) isAction()    {}
func (SetMaxMinutes) isAction()     {}
func (Submit) isAction()            {}
func (GenerateSucceeded) isAction() {}
func (GenerateFailed) isAction()    {}
func (HistoryLoaded) isAction()     {}
func (SelectHistory) isAction()     {}

// Reduce applies a to s and returns the new state. It never blocks and has
// no side effects; a front end reads Pending to know when to call Generate.
func Reduce(s State, a Action) State {
	switch a := a.(type) {
	case SetIngredients:
		s.Ingredients = a.Value
	case SetMaxMinutes:
		s.MaxMinutes = a.Value

	case Submit:
		if s.Loading {
			return s
		}
		req := domain.GenerationRequest{Ingredients: strings.TrimSpace(s.Ingredients), MaxMinutes: s.MaxMinutes}
		if err := req.Validate(); err != nil {
			s.Err = err
			s.Status = ""
			return s
		}
		s.Loading = true
		s.Err = nil
		s.Status = StatusGenerating
		s.Pending = &req

	case GenerateSucceeded:
		r := a.Recipe
		s.Loading = false
		s.Pending = nil
		s.Err = nil
		s.Status = StatusReady
		s.Current = &r
		if a.Entry != nil {
			s.History = prepend(s.History, *a.Entry, s.historyLimit())
		}

	case GenerateFailed:
		s.Loading = false
		s.Pending = nil
		s.Err = a.Err
		s.Status = StatusFailed

	case HistoryLoaded:
		s.History = capEntries(append([]domain.HistoryEntry(nil), a.Entries...), s.historyLimit())

	case SelectHistory:
		for _, e := range s.History {
			if e.ID == a.ID {
				r := recipe.Parse(e.RawText)
				s.Current = &r
				s.Err = nil
				s.Status = ""
				break
			}
		}
	}
	return s
}

func (s State) historyLimit() int {
	if s.HistoryLimit > 0 {
		return s.HistoryLimit
	}
	return 10
}

func prepend(list []domain.HistoryEntry, e domain.HistoryEntry, limit int) []domain.HistoryEntry {
	out := make([]domain.HistoryEntry, 0, len(list)+1)
	out = append(out, e)
	for _, old := range list {
		if old.ID != e.ID {
			out = append(out, old)
		}
	}
	return capEntries(out, limit)
}

func capEntries(list []domain.HistoryEntry, limit int) []domain.HistoryEntry {
	if len(list) > limit {
		return list[:limit]
	}
	return list
}
