package cmd

import (
	tea "github.com/charmbracelet/bubbletea"
)

// KeyHandler interface for handling specific key combinations
type KeyHandler interface {
	HandleKey(m *shareModel, msg tea.KeyMsg) (tea.Model, tea.Cmd)
}

// KeyDispatcher handles key routing based on the focused element
type KeyDispatcher struct {
	handlers       map[string]KeyHandler
	buttonHandlers map[string]KeyHandler
}

// NewKeyDispatcher creates a new key dispatcher with all handlers
func NewKeyDispatcher() *KeyDispatcher {
	return &KeyDispatcher{
		handlers: map[string]KeyHandler{
			"ctrl+c":    &quitHandler{},
			"esc":       &quitHandler{},
			"ctrl+y":    &copyHandler{},
			"enter":     &copyHandler{},
			"tab":       &focusHandler{},
			"shift+tab": &focusHandler{},
		},
		// Only while the copy button has focus; otherwise these are typing
		buttonHandlers: map[string]KeyHandler{
			" ":     &copyHandler{},
			"space": &copyHandler{},
			"y":     &copyHandler{},
			"q":     &quitHandler{},
		},
	}
}

// Dispatch handles a key press by routing to the appropriate handler
func (kd *KeyDispatcher) Dispatch(m *shareModel, msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()

	if handler, exists := kd.handlers[key]; exists {
		return handler.HandleKey(m, msg)
	}

	if m.focus == focusButton {
		if handler, exists := kd.buttonHandlers[key]; exists {
			return handler.HandleKey(m, msg)
		}
		return m, nil
	}

	// Everything else edits the link
	return m, m.updateLink(msg)
}

// quitHandler handles quit operations
type quitHandler struct{}

func (h *quitHandler) HandleKey(m *shareModel, msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	return m, m.quit()
}

// copyHandler activates the copy button
type copyHandler struct{}

func (h *copyHandler) HandleKey(m *shareModel, msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	return m, m.activate()
}

// focusHandler moves focus between the link field and the copy button
type focusHandler struct{}

func (h *focusHandler) HandleKey(m *shareModel, msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.toggleFocus()
	return m, nil
}
