package cli

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/matzehuels/kindred/pkg/cards"
	"github.com/matzehuels/kindred/pkg/errors"
	"github.com/matzehuels/kindred/pkg/graph"
	"github.com/matzehuels/kindred/pkg/selector"
)

// List styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listNormalStyle   = lipgloss.NewStyle().Foreground(colorWhite)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
	listErrorStyle    = lipgloss.NewStyle().Foreground(colorRed)
)

// =============================================================================
// cardFeed - selector listener
// =============================================================================

// cardFeed receives selected cards from the selector and holds the latest
// one for the view.
type cardFeed struct {
	card cards.Card
	week int
}

func (f *cardFeed) CardSelected(c cards.Card, week int) {
	f.card = c
	f.week = week
}

// =============================================================================
// PlayModel - Interactive card loop
// =============================================================================

// playOption is one line of the choice list.
type playOption struct {
	label    string
	followup string
}

// PlayModel is the bubbletea model for playing through the deck. The
// selector must already show a card.
type PlayModel struct {
	ctx    context.Context
	sel    *selector.Selector
	feed   *cardFeed
	Cursor int
	Err    error
	Done   bool
}

// NewPlayModel subscribes a new model to sel.
func NewPlayModel(ctx context.Context, sel *selector.Selector) PlayModel {
	feed := &cardFeed{}
	if c, ok := sel.Current(); ok {
		feed.CardSelected(c, sel.Week())
	}
	sel.Subscribe(feed)
	return PlayModel{ctx: ctx, sel: sel, feed: feed}
}

func (m PlayModel) Init() tea.Cmd {
	return nil
}

func (m PlayModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	options := m.options()
	switch key.String() {
	case "q", "ctrl+c", "esc":
		return m, tea.Quit
	case "up", "k":
		if m.Cursor > 0 {
			m.Cursor--
		}
	case "down", "j":
		if m.Cursor < len(options)-1 {
			m.Cursor++
		}
	case "enter":
		return m.advance(options[m.Cursor].followup)
	case "n", " ":
		return m.advance(options[len(options)-1].followup)
	}
	return m, nil
}

func (m PlayModel) advance(followup string) (tea.Model, tea.Cmd) {
	m.Err = nil
	if _, err := m.sel.Advance(m.ctx, cards.FollowupChoice(followup)); err != nil {
		if errors.Is(err, errors.ErrCodeSelectorExhausted) {
			m.Done = true
			return m, nil
		}
		m.Err = err
		return m, nil
	}
	m.Cursor = 0
	return m, nil
}

// options lists the card's named choices followed by a plain continue.
func (m PlayModel) options() []playOption {
	c := graph.FromCard(m.feed.card)
	out := make([]playOption, 0, len(c.Choices)+1)
	for _, ch := range c.Choices {
		out = append(out, playOption{label: ch.Label, followup: ch.Followup})
	}
	return append(out, playOption{label: "Continue", followup: c.Followup})
}

func (m PlayModel) View() string {
	var b strings.Builder

	choices := m.sel.Choices()
	followup := len(choices) > 0 && choices[len(choices)-1].HasFollowup()
	b.WriteString(cardPanel(graph.FromCard(m.feed.card), m.feed.week, followup))
	b.WriteString("\n\n")

	for i, opt := range m.options() {
		label := listNormalStyle.Render("  " + opt.label)
		if i == m.Cursor {
			label = listSelectedStyle.Render("▸ " + opt.label)
		}
		b.WriteString(label)
		if opt.followup != "" {
			b.WriteString(listDimStyle.Render(" " + iconArrow + " " + opt.followup))
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	if m.Err != nil {
		b.WriteString(listErrorStyle.Render(iconError + " " + errors.UserMessage(m.Err)))
		b.WriteString("\n")
	}
	if m.Done {
		b.WriteString(StyleSuccess.Render(fmt.Sprintf("%s Every card has been dealt.", iconSuccess)))
		b.WriteString("\n")
	}
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d cards left]  ↑/↓ choose  ⏎ pick  n continue  q quit", m.sel.Remaining())))

	return b.String()
}
