// Package components defines the ECS components agents are built from.
package components

// Energy holds an agent's internal energy reserve.
// A live agent always has Value > 0.
type Energy struct {
	Value float64
}

// Agent is a read-only copy of one agent's state, used by stats and renderers.
type Agent struct {
	X, Y   int
	Energy float64
}
