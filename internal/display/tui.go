package display

import (
	"context"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/hammamikhairi/aichef/internal/engine"
)

// TUIOptions configures the interactive form.
type TUIOptions struct {
	UserID string
	// Save records every generated recipe in history.
	Save bool
}

// RunTUI starts the interactive form and blocks until the user quits or
// ctx is cancelled.
func RunTUI(ctx context.Context, eng *engine.Engine, opts TUIOptions) error {
	p := tea.NewProgram(newModel(ctx, eng, opts), tea.WithContext(ctx), tea.WithAltScreen())
	_, err := p.Run()
	return err
}

// ── Bubble Tea model ─────────────────────────────────────────────

type focus int

const (
	focusIngredients focus = iota
	focusMinutes
	focusHistory
	focusCount
)

// actionMsg carries an engine action produced by a background command.
type actionMsg struct{ action engine.Action }

type model struct {
	ctx  context.Context
	eng  *engine.Engine
	opts TUIOptions

	state engine.State

	ingredients textinput.Model
	minutes     textinput.Model
	spinner     spinner.Model
	recipe      viewport.Model

	focus  focus
	cursor int
	width  int
	height int
}

func newModel(ctx context.Context, eng *engine.Engine, opts TUIOptions) model {
	ing := textinput.New()
	ing.Prompt = "ingredients> "
	ing.PromptStyle = promptStyle
	ing.Placeholder = "chicken, rice, broccoli"
	ing.CharLimit = 500
	ing.Width = 60
	ing.Focus()

	state := engine.NewState()

	mins := textinput.New()
	mins.Prompt = "minutes> "
	mins.PromptStyle = promptStyle
	mins.CharLimit = 3
	mins.Width = 5
	mins.SetValue(strconv.Itoa(state.MaxMinutes))

	sp := spinner.New(spinner.WithSpinner(spinner.Dot), spinner.WithStyle(chatStyle))

	return model{
		ctx:         ctx,
		eng:         eng,
		opts:        opts,
		state:       state,
		ingredients: ing,
		minutes:     mins,
		spinner:     sp,
		recipe:      viewport.Model{Width: 80, Height: 16},
	}
}

func (m model) Init() tea.Cmd {
	return tea.Batch(
		textinput.Blink,
		tea.SetWindowTitle("AI Chef"),
		m.loadHistory(),
	)
}

func (m model) loadHistory() tea.Cmd {
	if !m.eng.HistoryEnabled() {
		return nil
	}
	eng, ctx, user := m.eng, m.ctx, m.opts.UserID
	return func() tea.Msg {
		return actionMsg{eng.LoadHistory(ctx, user)}
	}
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			return m, tea.Quit
		case tea.KeyTab:
			return m.setFocus((m.focus + 1) % focusCount), nil
		case tea.KeyShiftTab:
			return m.setFocus((m.focus + focusCount - 1) % focusCount), nil
		case tea.KeyEnter:
			if m.focus == focusHistory {
				return m.selectHistory(), nil
			}
			return m.submit()
		case tea.KeyUp:
			if m.focus == focusHistory && m.cursor > 0 {
				m.cursor--
				return m, nil
			}
		case tea.KeyDown:
			if m.focus == focusHistory && m.cursor < len(m.state.History)-1 {
				m.cursor++
				return m, nil
			}
		case tea.KeyPgUp, tea.KeyPgDown:
			var cmd tea.Cmd
			m.recipe, cmd = m.recipe.Update(msg)
			return m, cmd
		}

	case actionMsg:
		m.state = engine.Reduce(m.state, msg.action)
		if m.cursor >= len(m.state.History) {
			m.cursor = max(len(m.state.History)-1, 0)
		}
		m.refreshRecipe()
		return m, nil

	case spinner.TickMsg:
		if !m.state.Loading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.ingredients.Width = max(msg.Width-len(m.ingredients.Prompt)-2, 10)
		m.recipe.Width = max(msg.Width-2, 20)
		// Form, status and history take roughly half the screen.
		m.recipe.Height = max(msg.Height/2, 5)
		m.refreshRecipe()
		return m, nil
	}

	var cmd tea.Cmd
	switch m.focus {
	case focusIngredients:
		m.ingredients, cmd = m.ingredients.Update(msg)
	case focusMinutes:
		m.minutes, cmd = m.minutes.Update(msg)
	}
	return m, cmd
}

func (m model) setFocus(f focus) model {
	m.focus = f
	m.ingredients.Blur()
	m.minutes.Blur()
	switch f {
	case focusIngredients:
		m.ingredients.Focus()
	case focusMinutes:
		m.minutes.Focus()
	}
	return m
}

// submit pushes the form into the reducer and, if a request was queued,
// starts it in the background.
func (m model) submit() (tea.Model, tea.Cmd) {
	wasLoading := m.state.Loading

	minutes, err := strconv.Atoi(strings.TrimSpace(m.minutes.Value()))
	if err != nil {
		minutes = 0
	}
	m.state = engine.Reduce(m.state, engine.SetIngredients{Value: m.ingredients.Value()})
	m.state = engine.Reduce(m.state, engine.SetMaxMinutes{Value: minutes})
	m.state = engine.Reduce(m.state, engine.Submit{})

	if wasLoading || !m.state.Loading || m.state.Pending == nil {
		return m, nil
	}

	req := *m.state.Pending
	eng, ctx, user, save := m.eng, m.ctx, m.opts.UserID, m.opts.Save
	run := func() tea.Msg {
		return actionMsg{eng.RunPending(ctx, user, req, save)}
	}
	return m, tea.Batch(run, m.spinner.Tick)
}

func (m model) selectHistory() model {
	if m.cursor < 0 || m.cursor >= len(m.state.History) {
		return m
	}
	m.state = engine.Reduce(m.state, engine.SelectHistory{ID: m.state.History[m.cursor].ID})
	m.refreshRecipe()
	return m
}

func (m *model) refreshRecipe() {
	if m.state.Current == nil {
		m.recipe.SetContent(secondaryStyle.Render("Your recipe will appear here."))
		return
	}
	m.recipe.SetContent(RenderRecipe(*m.state.Current))
	m.recipe.GotoTop()
}

func (m model) View() string {
	sections := []string{
		titleStyle.Render("AI Chef") + secondaryStyle.Render("  tab: switch field · enter: generate/select · esc: quit"),
		m.ingredients.View(),
		m.minutes.View(),
		m.statusLine(),
		cardStyle.Render(m.recipe.View()),
	}
	if m.eng.HistoryEnabled() {
		cursor := -1
		if m.focus == focusHistory {
			cursor = m.cursor
		}
		sections = append(sections, headerStyle.Render("Recent recipes"), RenderHistory(m.state.History, cursor))
	}
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m model) statusLine() string {
	switch {
	case m.state.Loading:
		return m.spinner.View() + " " + chatStyle.Render(m.state.Status)
	case m.state.Err != nil:
		return RenderError(engine.Describe(m.state.Err))
	case m.state.Status != "":
		return RenderInfo(m.state.Status)
	}
	return ""
}
