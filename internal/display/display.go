// Package display renders recipes for people: styled terminal text with
// lipgloss, HTML through goldmark, and an interactive Bubble Tea form.
//
// Everything here reads domain.ParsedRecipe and never changes it.
package display

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/hammamikhairi/aichef/internal/domain"
	"github.com/hammamikhairi/aichef/internal/recipe"
)

// ── Styles ───────────────────────────────────────────────────────

var (
	// BannerStyle is the muted slate used for the startup banner.
	BannerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#94a3b8"))

	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#fde68a")).
			Bold(true)

	// Section labels such as "Ingredients:".
	headerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#bbf7d0")).
			Bold(true)

	primaryStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#d4d4d8"))

	secondaryStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#71717a"))

	chatStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#bae6fd"))

	urgentStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#fca5a5"))

	promptStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#94a3b8"))

	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#fde68a"))

	cardStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#52525b")).
			Padding(0, 1)
)

// ── Recipe ───────────────────────────────────────────────────────

// RenderRecipe formats a parsed recipe for the terminal. Header lines are
// emphasized; everything else is printed as-is, blank lines included.
func RenderRecipe(r domain.ParsedRecipe) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render(r.Title))
	b.WriteString("\n\n")
	for i, line := range r.Lines {
		if i > 0 {
			b.WriteByte('\n')
		}
		switch {
		case line.IsHeader:
			b.WriteString(headerStyle.Render(line.Text))
		case strings.TrimSpace(line.Text) == "":
			// keep paragraph breaks
		default:
			b.WriteString(primaryStyle.Render(line.Text))
		}
	}
	return b.String()
}

// RenderCard wraps RenderRecipe in a bordered box of the given width.
// width <= 0 uses the terminal width.
func RenderCard(r domain.ParsedRecipe, width int) string {
	if width <= 0 {
		width = termWidth()
	}
	// Border and padding take four columns.
	return cardStyle.Width(max(width-4, 20)).Render(RenderRecipe(r))
}

// ── History ──────────────────────────────────────────────────────

// RenderHistory lists history entries, one card line each. selected marks
// the highlighted row; pass -1 for none.
func RenderHistory(entries []domain.HistoryEntry, selected int) string {
	if len(entries) == 0 {
		return secondaryStyle.Render("No saved recipes yet.")
	}
	var b strings.Builder
	for i, e := range entries {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(historyLine(recipe.Summarize(e), i == selected))
	}
	return b.String()
}

func historyLine(s recipe.Summary, selected bool) string {
	marker, title := "  ", primaryStyle.Render(s.Title)
	if selected {
		marker, title = selectedStyle.Render("> "), selectedStyle.Render(s.Title)
	}
	meta := fmt.Sprintf("%d min · %s · %s", s.MaxMinutes, s.Ingredients, formatTime(s.CreatedAt))
	return marker + title + "\n    " + secondaryStyle.Render(meta) + "\n    " + secondaryStyle.Render("id "+s.ID)
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return "unknown date"
	}
	return t.Local().Format("Jan 2 15:04")
}

// ── Messages ─────────────────────────────────────────────────────

// RenderError formats a user-facing error line.
func RenderError(msg string) string {
	return urgentStyle.Render("  " + msg)
}

// RenderInfo formats a status line.
func RenderInfo(msg string) string {
	return chatStyle.Render("  " + msg)
}

// RenderHint formats a dimmed secondary line.
func RenderHint(msg string) string {
	return secondaryStyle.Render("  " + msg)
}
