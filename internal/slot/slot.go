// Copyright 2025 The lazycell Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license
// that can be found in the LICENSE file.

// Package slot implements the tri-state payload holder backing a lazy
// transform cell.
//
// A Slot holds exactly one of three things at any instant:
//   - the precursor value the cell was constructed with (StatePrecursor),
//   - the result value produced by the one-time transform (StateResult),
//   - nothing, after a failed transform consumed the precursor (StateEmpty).
//
// The zero Slot is valid and holds the precursor type's zero value, which is
// what makes the zero value of the cell types usable without a constructor.
//
// Slot performs no synchronization of its own. Callers serialize all state
// transitions externally; once a slot reaches StateResult its result payload
// must never be written again.
package slot

// State identifies which payload a Slot currently holds.
type State uint8

const (
	// StatePrecursor means the slot still holds the untransformed input.
	// This is the zero state.
	StatePrecursor State = iota

	// StateResult means the slot holds the transformed value. Terminal.
	StateResult

	// StateEmpty means a failed transform consumed the precursor and left
	// nothing behind. The slot is permanently unusable for creation paths.
	StateEmpty
)

// String returns a short name for the state, used in panic messages.
func (s State) String() string {
	switch s {
	case StatePrecursor:
		return "precursor"
	case StateResult:
		return "result"
	case StateEmpty:
		return "empty"
	default:
		return "invalid"
	}
}

// Slot is the tagged union of precursor and result payloads.
type Slot[T, U any] struct {
	state     State
	precursor T
	result    U
}

// NewPrecursor returns a slot holding the given untransformed input.
func NewPrecursor[T, U any](precursor T) Slot[T, U] {
	return Slot[T, U]{state: StatePrecursor, precursor: precursor}
}

// State reports which payload the slot currently holds.
func (s *Slot[T, U]) State() State {
	return s.state
}

// Precursor copies the untransformed input out without disturbing the slot.
// Valid only in StatePrecursor; the copy is shallow.
func (s *Slot[T, U]) Precursor() T {
	if s.state != StatePrecursor {
		panic("lazycell: slot.Precursor called in state " + s.state.String())
	}
	return s.precursor
}

// TakePrecursor moves the untransformed input out, leaving the slot empty.
// Valid only in StatePrecursor. If the caller never installs a result
// afterwards, the slot stays empty, which is the poisoned-by-error state.
func (s *Slot[T, U]) TakePrecursor() T {
	if s.state != StatePrecursor {
		panic("lazycell: slot.TakePrecursor called in state " + s.state.String())
	}
	t := s.precursor
	var zero T
	s.precursor = zero // release the payload to the GC
	s.state = StateEmpty
	return t
}

// SetResult installs the transformed value, making the slot terminal.
// Any precursor still held is released.
func (s *Slot[T, U]) SetResult(result U) {
	var zero T
	s.precursor = zero
	s.result = result
	s.state = StateResult
}

// Result returns a pointer to the transformed value. Valid only in
// StateResult; the payload behind the pointer must never be mutated.
func (s *Slot[T, U]) Result() *U {
	if s.state != StateResult {
		panic("lazycell: slot.Result called in state " + s.state.String())
	}
	return &s.result
}
