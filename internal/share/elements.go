package share

import "sync"

// Trigger is the control the user activates
type Trigger interface {
	OnActivate(func())
}

// TextSource holds the value to copy
type TextSource interface {
	Value() string
}

// StatusDisplay shows transient human-readable status text. SetText may read
// the control (State, Copying) but must not activate it synchronously.
type StatusDisplay interface {
	SetText(string)
}

// Elements are the UI bindings handed to New. Status may be nil.
type Elements struct {
	Trigger Trigger
	Source  TextSource
	Status  StatusDisplay
}

// Button is a Trigger activated by calling Click
type Button struct {
	mu       sync.Mutex
	handlers []func()
}

func (b *Button) OnActivate(f func()) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers = append(b.handlers, f)
}

// Click runs every bound handler
func (b *Button) Click() {
	b.mu.Lock()
	handlers := make([]func(), len(b.handlers))
	copy(handlers, b.handlers)
	b.mu.Unlock()

	for _, h := range handlers {
		h()
	}
}

// TextField is a mutable TextSource
type TextField struct {
	mu    sync.RWMutex
	value string
}

func NewTextField(value string) *TextField {
	return &TextField{value: value}
}

func (f *TextField) Value() string {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.value
}

func (f *TextField) SetValue(v string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.value = v
}

// Label is a StatusDisplay that remembers its text and notifies an
// optional observer on every change.
type Label struct {
	mu       sync.RWMutex
	text     string
	onChange func(string)
}

// NewLabel creates a label; onChange may be nil
func NewLabel(onChange func(string)) *Label {
	return &Label{onChange: onChange}
}

func (l *Label) SetText(s string) {
	l.mu.Lock()
	l.text = s
	onChange := l.onChange
	l.mu.Unlock()

	if onChange != nil {
		onChange(s)
	}
}

func (l *Label) Text() string {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.text
}
