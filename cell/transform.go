// Copyright 2025 The lazycell Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license
// that can be found in the LICENSE file.

package cell

import (
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"golang.org/x/xerrors"

	"github.com/kolkov/lazycell/internal/slot"
)

var (
	// ErrPoisoned reports that a cell was poisoned by an earlier failed
	// call to GetOrCreateOrPoison: the precursor was consumed, no result
	// was produced, and the original error was not retained. The condition
	// is permanent for the cell.
	ErrPoisoned = xerrors.New("lazycell: cell poisoned by a failed transform")

	// ErrUntransformed reports that a consuming extraction found the cell
	// still holding its precursor. The condition is recoverable: any
	// initializing accessor can still transform the cell.
	ErrUntransformed = xerrors.New("lazycell: cell was never transformed")
)

// Transform is a synchronized holder that owns a value of type T until a
// caller-supplied transform lazily converts it, exactly once, into a value
// of type U. After that the U value is immutable and reading it costs a
// single atomic load with no locking.
//
// The zero Transform is valid and holds T's zero value as its precursor.
//
// A Transform must not be copied after first use.
type Transform[T, U any] struct {
	// ready is the publication flag: true iff slot holds the result.
	// The Store below happens only after the result is fully written, so
	// any goroutine that loads true also observes the completed result.
	ready atomic.Bool

	// mu serializes the slow path. Completed readers never touch it.
	mu sync.Mutex

	// poisoned is set while a transform runs and cleared only if the
	// transform returns. A panic escaping the transform leaves it set,
	// and every later slow-path entry panics. Guarded by mu.
	poisoned bool

	slot slot.Slot[T, U]
}

// NewTransform returns an untransformed cell holding the given precursor.
func NewTransform[T, U any](precursor T) *Transform[T, U] {
	c := &Transform[T, U]{}
	c.slot = slot.NewPrecursor[T, U](precursor)
	return c
}

// Get returns a pointer to the transformed value, or nil if the cell has
// not been transformed. On a transformed cell this is the lock-free fast
// path: one atomic load and a branch, no lock, no write.
//
// The value behind the returned pointer is immutable and must not be
// modified.
func (c *Transform[T, U]) Get() *U {
	if !c.ready.Load() {
		return nil
	}
	return c.slot.Result()
}

// GetOrCreate returns a pointer to the transformed value, invoking f to
// transform the precursor if the cell has yet to be transformed. When
// multiple calls race, exactly one invokes its transform; every call
// returns a pointer to the same result.
//
// The transform can only ever run once, so choose it carefully.
//
// GetOrCreate panics if the cell is poisoned: with ErrPoisoned as the panic
// value after a failed GetOrCreateOrPoison, or with a descriptive message
// after a transform panic. It may deadlock if f re-enters the same cell.
func (c *Transform[T, U]) GetOrCreate(f func(T) U) *U {
	// Double-checked locking: an acquire-style load here, a re-check under
	// the lock on the slow path.
	if !c.ready.Load() {
		c.createLocked(f)
	}
	return c.slot.Result()
}

// TryGetOrCreate returns a pointer to the transformed value, invoking the
// fallible f to transform the precursor if the cell has yet to be
// transformed. When multiple calls race, exactly one successfully invokes
// its transform; every call returns a pointer to the same result.
//
// An error from f is returned verbatim and does not poison the cell: the
// precursor is copied out before f runs (a shallow copy), so the original
// stays in place and the call may be retried. Retries are not serialized
// with each other, only the check-and-transform critical section is.
//
// After a failed GetOrCreateOrPoison, TryGetOrCreate returns ErrPoisoned
// without invoking f. It panics if the cell was poisoned by a transform
// panic, and may deadlock if f re-enters the same cell.
func (c *Transform[T, U]) TryGetOrCreate(f func(T) (U, error)) (*U, error) {
	if !c.ready.Load() {
		if err := c.tryCreateLocked(f); err != nil {
			return nil, err
		}
	}
	return c.slot.Result(), nil
}

// GetOrCreateOrPoison returns a pointer to the transformed value, invoking
// the fallible f to transform the precursor if the cell has yet to be
// transformed. Unlike TryGetOrCreate, the precursor is consumed before f
// runs: if f fails, its error is returned and the cell is permanently
// poisoned. Every later initializing call, poisoning or not, then reports
// ErrPoisoned without invoking any transform.
//
// GetOrCreateOrPoison panics if the cell was poisoned by a transform panic,
// and may deadlock if f re-enters the same cell.
func (c *Transform[T, U]) GetOrCreateOrPoison(f func(T) (U, error)) (*U, error) {
	if !c.ready.Load() {
		if err := c.poisonCreateLocked(f); err != nil {
			return nil, err
		}
	}
	return c.slot.Result(), nil
}

// Extract unwraps the cell. The caller must hold the only reference to the
// cell, which must not be used afterwards; no synchronization happens here.
//
// A transformed cell yields (result, zero, nil). An untransformed cell
// yields (zero, precursor, ErrUntransformed) with the precursor unchanged.
// Extract panics on a poisoned cell; use TryExtract to observe error
// poisoning as a value.
func (c *Transform[T, U]) Extract() (result U, precursor T, err error) {
	result, precursor, err = c.TryExtract()
	if err != nil && !errors.Is(err, ErrUntransformed) {
		panic(err)
	}
	return result, precursor, err
}

// TryExtract unwraps the cell like Extract, but distinguishes all three
// terminal states: (result, _, nil) for a transformed cell,
// (_, precursor, ErrUntransformed) for a never-transformed cell, and
// (_, _, ErrPoisoned) for a cell poisoned by a failed GetOrCreateOrPoison.
//
// TryExtract still panics if the cell was poisoned by a transform panic.
func (c *Transform[T, U]) TryExtract() (result U, precursor T, err error) {
	if c.poisoned {
		panic("lazycell: cell poisoned by a panic during a previous transform")
	}
	switch c.slot.State() {
	case slot.StateResult:
		return *c.slot.Result(), precursor, nil
	case slot.StatePrecursor:
		return result, c.slot.Precursor(), ErrUntransformed
	default:
		return result, precursor, ErrPoisoned
	}
}

// Clone returns a new, independent cell in the same state as c. A
// transformed source is copied without taking its lock (it is immutable
// once published); an untransformed source is copied under its lock to
// avoid racing a first-time transform. All copies are shallow.
//
// Clone panics if the source was poisoned by a transform panic. A source
// poisoned by error clones to an equally poisoned cell.
func (c *Transform[T, U]) Clone() *Transform[T, U] {
	dst := &Transform[T, U]{}
	dst.CloneFrom(c)
	return dst
}

// CloneFrom overwrites c with a copy of src, following the same two
// branches as Clone but reusing c's lock instead of allocating a fresh
// cell. The caller must hold the only reference to c while it runs.
func (c *Transform[T, U]) CloneFrom(src *Transform[T, U]) {
	if src.ready.Load() {
		// Published and therefore immutable: lockless copy is safe.
		c.slot = src.slot
		c.poisoned = false
		c.ready.Store(true)
		return
	}
	// src may be mid-transform. Block on its lock before touching the
	// slot; the lock also orders the ready re-load below.
	src.slowLock()
	defer src.mu.Unlock()
	c.slot = src.slot
	c.poisoned = false
	c.ready.Store(src.ready.Load())
}

// String renders the cell for debugging: the transformed value if there is
// one, a placeholder otherwise. It only uses the lock-free fast path.
func (c *Transform[T, U]) String() string {
	if u := c.Get(); u != nil {
		return fmt.Sprintf("Transform(%v)", *u)
	}
	return "Transform(<untransformed>)"
}

// slowLock acquires the slow-path lock and enforces panic poisoning: if a
// previous transform panicked while holding the lock, every later entry
// panics too rather than silently using a corrupted cell.
func (c *Transform[T, U]) slowLock() {
	c.mu.Lock()
	if c.poisoned {
		c.mu.Unlock()
		panic("lazycell: cell poisoned by a panic during a previous transform")
	}
}

// takePrecursor moves the precursor out of the slot for a consuming
// transform attempt. Caller holds mu and has re-checked ready.
func (c *Transform[T, U]) takePrecursor() (T, error) {
	switch c.slot.State() {
	case slot.StateEmpty:
		var zero T
		return zero, ErrPoisoned
	case slot.StateResult:
		// ready is false yet the slot holds a result: the protocol's own
		// bookkeeping is broken.
		panic("lazycell: untransformed cell already holds a result")
	}
	return c.slot.TakePrecursor(), nil
}

// publish installs the result and flips the publication flag. The store to
// ready must come last: it is what makes the fully written result visible
// to lock-free readers.
func (c *Transform[T, U]) publish(result U) {
	c.slot.SetResult(result)
	c.ready.Store(true)
}

func (c *Transform[T, U]) createLocked(f func(T) U) {
	c.slowLock()
	defer c.mu.Unlock()
	if c.ready.Load() {
		// Lost the race; the winner already published.
		return
	}
	t, err := c.takePrecursor()
	if err != nil {
		panic(err)
	}
	c.poisoned = true
	u := f(t) // a panic here leaves the cell permanently poisoned
	c.poisoned = false
	c.publish(u)
}

func (c *Transform[T, U]) tryCreateLocked(f func(T) (U, error)) error {
	c.slowLock()
	defer c.mu.Unlock()
	if c.ready.Load() {
		return nil
	}
	if c.slot.State() == slot.StateEmpty {
		return ErrPoisoned
	}
	if c.slot.State() == slot.StateResult {
		panic("lazycell: untransformed cell already holds a result")
	}
	// Copy the precursor out without disturbing the slot, so a failed
	// attempt leaves the cell retryable.
	t := c.slot.Precursor()
	c.poisoned = true
	u, err := f(t)
	c.poisoned = false
	if err != nil {
		return err
	}
	c.publish(u)
	return nil
}

func (c *Transform[T, U]) poisonCreateLocked(f func(T) (U, error)) error {
	c.slowLock()
	defer c.mu.Unlock()
	if c.ready.Load() {
		return nil
	}
	t, err := c.takePrecursor()
	if err != nil {
		return err
	}
	// The slot is empty from here on. If f fails it stays empty, which is
	// exactly the poisoned-by-error state later calls observe.
	c.poisoned = true
	u, ferr := f(t)
	c.poisoned = false
	if ferr != nil {
		return ferr
	}
	c.publish(u)
	return nil
}
