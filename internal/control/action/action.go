// Package action models the commands that parts contribute to their action
// bars and that the page binds to keys.
package action

// Action is a command that can be triggered and explained.
type Action interface {
	Do()

	// Enabled indicates whether Do currently has an effect.
	Enabled() bool

	Explain() string
}
