package action

// Simple implements the Action interface.
// It models a simple action as a func() which is called on Do.
type Simple struct {
	action  func()
	explain func() string
	enabled func() bool
}

// Do performs this simple action, unless it is disabled.
func (a *Simple) Do() {
	if !a.Enabled() {
		return
	}
	a.action()
}

// Enabled indicates whether the action is enabled.
// A simple action without an enablement condition is always enabled.
func (a *Simple) Enabled() bool {
	return a.enabled == nil || a.enabled()
}

// Explain returns the explanation for this simple action's Do member.
func (a *Simple) Explain() string {
	return a.explain()
}

// WithCondition sets the enablement condition of this action and returns it.
func (a *Simple) WithCondition(enabled func() bool) *Simple {
	a.enabled = enabled
	return a
}

// NewSimple returns a pointer to a new simple action, which stores the given
// action function and the given explainer to use when prompted with Do or
// Explain respectively.
func NewSimple(explainer func() string, action func()) *Simple {
	return &Simple{
		action:  action,
		explain: explainer,
	}
}
