package cmd

import (
	"context"
	"sync"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/sirupsen/logrus"

	"tripshare/internal/clipboard"
	"tripshare/internal/config"
	"tripshare/internal/share"
	"tripshare/internal/trip"
)

// focusArea is the element receiving keys
type focusArea int

const (
	focusLink focusArea = iota
	focusButton
)

// shareModel is the Bubble Tea model of the share screen. The link field is
// the text source, the copy button is the trigger and the status line is the
// status display of a share.Control.
type shareModel struct {
	trip  *trip.Trip // nil when a raw link is shared
	link  textinput.Model
	focus focusArea
	keys  *KeyDispatcher

	field   *share.TextField
	button  *share.Button
	display *teaDisplay
	control *share.Control

	// Last status pushed by the control
	statusText  string
	statusState share.State

	width  int
	height int
}

// statusTextMsg carries a status update from the control into the event loop
type statusTextMsg struct {
	text  string
	state share.State
}

// teaDisplay is the StatusDisplay of the share screen. Updates are sent to
// the program as messages; before bind they are dropped.
type teaDisplay struct {
	mu    sync.Mutex
	send  func(tea.Msg)
	state func() share.State
}

func (d *teaDisplay) bind(send func(tea.Msg)) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.send = send
}

func (d *teaDisplay) SetText(s string) {
	d.mu.Lock()
	send, state := d.send, d.state
	d.mu.Unlock()

	if send == nil {
		return
	}
	msg := statusTextMsg{text: s}
	if state != nil {
		msg.state = state()
	}
	send(msg)
}

func newShareModel(ctx context.Context, link string, t *trip.Trip, writer clipboard.Writer, policy share.Policy, logger logrus.FieldLogger) *shareModel {
	input := textinput.New()
	input.Prompt = ""
	input.SetValue(link)
	input.Width = config.LinkInputWidth
	input.CharLimit = 2048
	input.Focus()

	m := &shareModel{
		trip:    t,
		link:    input,
		focus:   focusLink,
		keys:    NewKeyDispatcher(),
		field:   share.NewTextField(link),
		button:  &share.Button{},
		display: &teaDisplay{},
	}

	m.control = share.New(
		share.Elements{Trigger: m.button, Source: m.field, Status: m.display},
		writer,
		share.WithPolicy(policy),
		share.WithLogger(logger),
		share.WithContext(ctx),
	)
	m.display.state = m.control.State
	return m
}

// Init implements tea.Model
func (m *shareModel) Init() tea.Cmd {
	return textinput.Blink
}

// Update implements tea.Model
func (m *shareModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		width := m.width - 8 // Account for border and padding
		if width > config.LinkInputWidth {
			width = config.LinkInputWidth
		}
		if width < config.MinLinkWidth {
			width = config.MinLinkWidth
		}
		m.link.Width = width
		return m, nil

	case tea.KeyMsg:
		return m.keys.Dispatch(m, msg)

	case statusTextMsg:
		m.statusText = msg.text
		m.statusState = msg.state
		return m, nil
	}

	if m.focus == focusLink {
		return m, m.updateLink(msg)
	}
	return m, nil
}

// updateLink feeds msg to the link field and keeps the control's text source
// in step with it
func (m *shareModel) updateLink(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	m.link, cmd = m.link.Update(msg)
	m.field.SetValue(m.link.Value())
	return cmd
}

// activate clicks the copy button; the outcome arrives as a statusTextMsg
func (m *shareModel) activate() tea.Cmd {
	m.button.Click()
	return nil
}

func (m *shareModel) quit() tea.Cmd {
	m.control.Close()
	return tea.Quit
}

func (m *shareModel) toggleFocus() {
	if m.focus == focusLink {
		m.focus = focusButton
		m.link.Blur()
		return
	}
	m.focus = focusLink
	m.link.Focus()
}
