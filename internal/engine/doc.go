// Package engine holds the gradebook rules: pure derivations that build view rows
// from a State, and mutations that validate input and return the next State.
package engine
