// Package statemachine validates state transitions against a declared
// table. The machine is stateless: callers load the current state from
// their own store, ask whether a proposed change is legal, and persist the
// result themselves. Self-transitions are always permitted so idempotent
// re-application of an event never fails.
package statemachine
