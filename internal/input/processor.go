package input

// Processor can process the input it is configured for and provide help
// information for that configuration. It can also "capture" input to ensure
// its precedence over other processors, e.g. when it has partial input.
type Processor interface {
	// CapturesInput returns whether this processor ought to take priority in
	// processing over other processors.
	CapturesInput() bool

	// ProcessInput attempts to process the provided input.
	// Returns whether the provided input "applied".
	ProcessInput(key Key) bool

	// GetHelp returns the input help map for this processor.
	GetHelp() Help
}

// Chain is a Processor that offers input to a sequence of processors, the
// first of which has the highest priority.
//
// A processor that captures input receives all input until it stops
// capturing, otherwise the first processor that applies the input wins.
type Chain struct {
	processors func() []Processor
}

// NewChain returns a chain over the processors returned by the given
// function, which is consulted on each input so the chain can follow changes
// such as a newly activated part.
func NewChain(processors func() []Processor) *Chain {
	return &Chain{processors: processors}
}

// CapturesInput indicates whether any processor of the chain captures input.
func (c *Chain) CapturesInput() bool {
	for _, p := range c.processors() {
		if p.CapturesInput() {
			return true
		}
	}
	return false
}

// ProcessInput offers the key to the capturing processor, if any, and to each
// processor in order otherwise.
func (c *Chain) ProcessInput(key Key) bool {
	processors := c.processors()
	for _, p := range processors {
		if p.CapturesInput() {
			return p.ProcessInput(key)
		}
	}
	for _, p := range processors {
		if p.ProcessInput(key) {
			return true
		}
	}
	return false
}

// GetHelp merges the help of all processors, higher priority processors
// shadowing lower priority ones.
func (c *Chain) GetHelp() Help {
	result := Help{}
	processors := c.processors()
	for i := len(processors) - 1; i >= 0; i-- {
		for k, v := range processors[i].GetHelp() {
			result[k] = v
		}
	}
	return result
}
