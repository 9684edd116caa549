// Copyright 2025 The lazycell Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license
// that can be found in the LICENSE file.

package cell_test

import (
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/xerrors"

	"github.com/kolkov/lazycell/cell"
)

func TestLazyGetBeforeCreate(t *testing.T) {
	t.Parallel()

	l := cell.NewLazy[int]()
	require.Nil(t, l.Get())
	require.Equal(t, "Lazy(<uninitialized>)", l.String())
}

func TestLazyGetOrCreate(t *testing.T) {
	t.Parallel()

	l := cell.NewLazy[int]()
	calls := 0

	v := l.GetOrCreate(func() int {
		calls++
		return 42
	})
	require.Equal(t, 42, *v)
	require.Equal(t, 1, calls)

	w := l.GetOrCreate(func() int {
		calls++
		return -1
	})
	require.Equal(t, 42, *w)
	require.Equal(t, 1, calls)
	require.Same(t, v, l.Get())
	require.Equal(t, "Lazy(42)", l.String())
}

func TestLazyZeroValue(t *testing.T) {
	t.Parallel()

	// The zero Lazy works for any T, no constructor needed.
	var l cell.Lazy[string]
	require.Nil(t, l.Get())
	require.Equal(t, "hello", *l.GetOrCreate(func() string { return "hello" }))
}

func TestLazyTryGetOrCreateRetry(t *testing.T) {
	t.Parallel()

	l := cell.NewLazy[int]()
	boom := xerrors.New("oh no! everything that could went horribly wrong!")

	v, err := l.TryGetOrCreate(func() (int, error) {
		return 0, boom
	})
	require.Nil(t, v)
	require.ErrorIs(t, err, boom)
	require.Nil(t, l.Get())

	v, err = l.TryGetOrCreate(func() (int, error) {
		return 42, nil
	})
	require.NoError(t, err)
	require.Equal(t, 42, *v)
}

func TestLazyPoisonTerminal(t *testing.T) {
	t.Parallel()

	l := cell.NewLazy[int]()
	boom := xerrors.New("unrecoverable")

	_, err := l.GetOrCreateOrPoison(func() (int, error) {
		return 0, boom
	})
	require.ErrorIs(t, err, boom)

	calls := 0
	_, err = l.TryGetOrCreate(func() (int, error) {
		calls++
		return 42, nil
	})
	require.ErrorIs(t, err, cell.ErrPoisoned)
	require.Zero(t, calls)
}

func TestLazyIntoInner(t *testing.T) {
	t.Parallel()

	l := cell.NewLazy[int]()
	_, ok := l.IntoInner()
	require.False(t, ok)

	l = cell.NewLazy[int]()
	l.GetOrCreate(func() int { return 42 })
	v, ok := l.IntoInner()
	require.True(t, ok)
	require.Equal(t, 42, v)
}

func TestLazyClone(t *testing.T) {
	t.Parallel()

	l := cell.NewLazy[int]()
	l.GetOrCreate(func() int { return 42 })

	clone := l.Clone()
	require.NotNil(t, clone.Get())
	require.Equal(t, 42, *clone.Get())
	require.NotSame(t, l.Get(), clone.Get())

	fresh := cell.NewLazy[int]().Clone()
	require.Nil(t, fresh.Get())

	fresh.CloneFrom(l)
	require.Equal(t, 42, *fresh.Get())
}

func TestLazyPointersShared(t *testing.T) {
	t.Parallel()

	// Pointer results stay shared: the cell freezes the pointer, not the
	// pointee.
	n := 1
	l := cell.NewLazy[*int]()
	p, err := l.TryGetOrCreate(func() (*int, error) { return &n, nil })
	require.NoError(t, err)
	q := l.Get()

	**p += 1
	**q += 1
	require.Equal(t, 3, n)
}
