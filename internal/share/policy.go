package share

import "time"

// Outcome is the result of one clipboard write
type Outcome int

const (
	OutcomeSuccess Outcome = iota
	OutcomeFailure
)

func (o Outcome) String() string {
	if o == OutcomeSuccess {
		return "success"
	}
	return "failure"
}

// State of the status text
type State int

const (
	StateEmpty State = iota
	StateShowingSuccess
	StateShowingFailure
)

func (s State) String() string {
	switch s {
	case StateShowingSuccess:
		return "showing_success"
	case StateShowingFailure:
		return "showing_failure"
	default:
		return "empty"
	}
}

// Rule is how the status text reacts to one outcome. A zero ClearAfter
// keeps the message until the next activation.
type Rule struct {
	Message    string
	ClearAfter time.Duration
}

// Policy maps every outcome to its rule
type Policy map[Outcome]Rule

// DefaultPolicy clears success messages after successDelay and keeps
// failure messages until the next copy.
func DefaultPolicy(msgs Messages, successDelay time.Duration) Policy {
	return Policy{
		OutcomeSuccess: {Message: msgs.Copied, ClearAfter: successDelay},
		OutcomeFailure: {Message: msgs.CopyFailed},
	}
}

// WithFailureClear returns a copy of p whose failure message also clears
func (p Policy) WithFailureClear(d time.Duration) Policy {
	out := make(Policy, len(p))
	for k, v := range p {
		out[k] = v
	}
	rule := out[OutcomeFailure]
	rule.ClearAfter = d
	out[OutcomeFailure] = rule
	return out
}

// Status is the status text state machine. It is not safe for concurrent
// use; callers serialize access (Control with a mutex, the TUI through its
// event loop).
type Status struct {
	policy Policy
	state  State
	text   string
	gen    uint64
}

// NewStatus creates an empty status governed by policy
func NewStatus(policy Policy) *Status {
	return &Status{policy: policy}
}

// Apply shows the message for outcome. It returns the text to display, how
// long until it should clear (zero for never) and the generation that a
// later Clear must present.
func (s *Status) Apply(o Outcome) (string, time.Duration, uint64) {
	rule := s.policy[o]

	s.gen++
	s.text = rule.Message
	if o == OutcomeSuccess {
		s.state = StateShowingSuccess
	} else {
		s.state = StateShowingFailure
	}
	return s.text, rule.ClearAfter, s.gen
}

// Clear empties the text if gen is still the latest generation. It reports
// whether anything changed.
func (s *Status) Clear(gen uint64) bool {
	if gen != s.gen || s.state == StateEmpty {
		return false
	}
	s.state = StateEmpty
	s.text = ""
	return true
}

func (s *Status) State() State { return s.state }

func (s *Status) Text() string { return s.text }

// Generation is the number of outcomes applied so far
func (s *Status) Generation() uint64 { return s.gen }
