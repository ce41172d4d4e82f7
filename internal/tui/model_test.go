package tui

import (
	"context"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Zachkp/portfolio-terminal/internal/catalog"
	"github.com/Zachkp/portfolio-terminal/internal/checkout"
	"github.com/Zachkp/portfolio-terminal/internal/content"
	"github.com/Zachkp/portfolio-terminal/internal/terminal"
)

func newModel(t *testing.T) (Model, *terminal.Interpreter) {
	t.Helper()
	tracker := checkout.NewTracker(nil)
	t.Cleanup(tracker.Close)

	interp := terminal.New(terminal.Options{
		Profile:  content.Default(),
		Catalog:  catalog.Skateboards(),
		Checkout: tracker,
	})
	return New(context.Background(), interp, tracker.Session()), interp
}

func key(t tea.KeyType) tea.KeyMsg {
	return tea.KeyMsg{Type: t}
}

func submit(m Model, input string) Model {
	m.input.SetValue(input)
	next, _ := m.Update(key(tea.KeyEnter))
	return next.(Model)
}

func TestViewShowsBannerWhenEmpty(t *testing.T) {
	m, _ := newModel(t)
	view := m.View()
	assert.Contains(t, view, "Welcome to my portfolio terminal")
	assert.Contains(t, view, "Available commands")
}

func TestEnterSubmitsAndClearsInput(t *testing.T) {
	m, interp := newModel(t)

	m = submit(m, "whoami")
	assert.Empty(t, m.input.Value())
	require.Len(t, interp.History(), 1)
	assert.Contains(t, m.View(), content.Default().Identity.Name)
	assert.NotContains(t, m.View(), "Welcome to my portfolio terminal")

	m = submit(m, "nope")
	assert.Contains(t, m.View(), "Command not found: nope")
}

func TestTabCompletesInput(t *testing.T) {
	m, _ := newModel(t)
	m.input.SetValue("who")

	next, _ := m.Update(key(tea.KeyTab))
	m = next.(Model)
	assert.Equal(t, "whoami", m.input.Value())
}

func TestArrowKeysRecallHistory(t *testing.T) {
	m, _ := newModel(t)
	m = submit(m, "help")
	m = submit(m, "work")

	next, _ := m.Update(key(tea.KeyUp))
	m = next.(Model)
	assert.Equal(t, "work", m.input.Value())

	next, _ = m.Update(key(tea.KeyUp))
	m = next.(Model)
	assert.Equal(t, "help", m.input.Value())

	next, _ = m.Update(key(tea.KeyDown))
	m = next.(Model)
	assert.Equal(t, "work", m.input.Value())

	next, _ = m.Update(key(tea.KeyDown))
	m = next.(Model)
	assert.Empty(t, m.input.Value())
}

func TestSessionMsgUpdatesStatusLine(t *testing.T) {
	m, _ := newModel(t)
	assert.Empty(t, m.statusLine())

	next, _ := m.Update(SessionMsg(checkout.Session{
		Status:     checkout.StatusPending,
		CheckoutID: "co_1",
		Product:    "Aurora Cruiser",
		Message:    "Checkout status: open",
		Log:        []checkout.StatusEntry{{Status: "open", At: time.Now()}},
	}))
	m = next.(Model)
	assert.Contains(t, m.statusLine(), "Aurora Cruiser")
	assert.Contains(t, m.View(), "pending")
}

func TestCtrlCQuits(t *testing.T) {
	m, _ := newModel(t)
	_, cmd := m.Update(key(tea.KeyCtrlC))
	require.NotNil(t, cmd)
	assert.Equal(t, tea.QuitMsg{}, cmd())
}

func TestRenderPayloadError(t *testing.T) {
	out := renderPayload(terminal.Error{Message: "Invalid index: abc", Hint: "Type 'skateboards'"})
	assert.Contains(t, out, "Invalid index: abc")
	assert.Contains(t, out, "Type 'skateboards'")
}

func TestRenderCatalogFlagsUnconfigured(t *testing.T) {
	out := renderPayload(terminal.ProductCatalog{Products: catalog.Skateboards()})
	assert.Contains(t, out, "1. ")
	assert.Contains(t, out, "POLAR_PRODUCT_AURORA")
	assert.Contains(t, out, "buy <number>")
}
