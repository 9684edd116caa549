// Copyright 2025 The lazycell Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license
// that can be found in the LICENSE file.

package cell

import "fmt"

// Lazy is a lazily initialized synchronized holder: a Transform whose
// precursor carries no information. Use it when there is no meaningful
// input to the transform.
//
// The zero Lazy is valid and uninitialized, for every T.
type Lazy[T any] struct {
	inner Transform[struct{}, T]
}

// NewLazy returns a new, uninitialized cell. Equivalent to the zero value.
func NewLazy[T any]() *Lazy[T] {
	return &Lazy[T]{}
}

// Get returns a pointer to the contained value, or nil if the cell is
// uninitialized. Lock-free once initialized.
func (l *Lazy[T]) Get() *T {
	return l.inner.Get()
}

// GetOrCreate returns a pointer to the contained value, invoking f to
// create it if the cell is uninitialized. When multiple calls race,
// exactly one invokes its creator; every call returns a pointer to the
// same value, which is immutable from then on.
func (l *Lazy[T]) GetOrCreate(f func() T) *T {
	return l.inner.GetOrCreate(func(struct{}) T { return f() })
}

// TryGetOrCreate is GetOrCreate with a fallible creator. An error from f
// is returned verbatim and leaves the cell uninitialized, so the call may
// be retried.
func (l *Lazy[T]) TryGetOrCreate(f func() (T, error)) (*T, error) {
	return l.inner.TryGetOrCreate(func(struct{}) (T, error) { return f() })
}

// GetOrCreateOrPoison is GetOrCreate with a fallible creator that poisons
// the cell on error: after a failure, every later initializing call
// reports ErrPoisoned without invoking any creator.
func (l *Lazy[T]) GetOrCreateOrPoison(f func() (T, error)) (*T, error) {
	return l.inner.GetOrCreateOrPoison(func(struct{}) (T, error) { return f() })
}

// IntoInner unwraps the cell, returning the contained value and true if it
// was initialized. The caller must hold the only reference to the cell,
// which must not be used afterwards. Panics on a poisoned cell.
func (l *Lazy[T]) IntoInner() (T, bool) {
	v, _, err := l.inner.Extract()
	return v, err == nil
}

// Clone returns a new, independent cell in the same state as l.
func (l *Lazy[T]) Clone() *Lazy[T] {
	dst := &Lazy[T]{}
	dst.inner.CloneFrom(&l.inner)
	return dst
}

// CloneFrom overwrites l with a copy of src in place.
func (l *Lazy[T]) CloneFrom(src *Lazy[T]) {
	l.inner.CloneFrom(&src.inner)
}

// String renders the cell for debugging: the contained value if there is
// one, a placeholder otherwise. It only uses the lock-free fast path.
func (l *Lazy[T]) String() string {
	if v := l.Get(); v != nil {
		return fmt.Sprintf("Lazy(%v)", *v)
	}
	return "Lazy(<uninitialized>)"
}
