package cell_test

import (
	"testing"

	"github.com/kolkov/lazycell/cell"
)

// BenchmarkTransformGet measures the post-initialization fast path.
//
// Target: one atomic load plus a branch, zero allocations.
func BenchmarkTransformGet(b *testing.B) {
	c := cell.NewTransform[int, int](21)
	c.GetOrCreate(func(precursor int) int { return precursor * 2 })

	b.ResetTimer()
	b.ReportAllocs()

	for i := 0; i < b.N; i++ {
		if c.Get() == nil {
			b.Fatal("cell lost its value")
		}
	}
}

// BenchmarkTransformGet_Parallel measures fast-path reads under contention.
// Readers share no cache line writes, so this should scale linearly.
func BenchmarkTransformGet_Parallel(b *testing.B) {
	c := cell.NewTransform[int, int](21)
	c.GetOrCreate(func(precursor int) int { return precursor * 2 })

	b.ResetTimer()
	b.ReportAllocs()

	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			if c.Get() == nil {
				b.Error("cell lost its value")
				return
			}
		}
	})
}

// BenchmarkTransformGetOrCreate_FastPath measures the initializing accessor
// once the cell is already transformed (the common steady-state call).
func BenchmarkTransformGetOrCreate_FastPath(b *testing.B) {
	c := cell.NewTransform[int, int](21)
	c.GetOrCreate(func(precursor int) int { return precursor * 2 })

	b.ResetTimer()
	b.ReportAllocs()

	for i := 0; i < b.N; i++ {
		c.GetOrCreate(func(precursor int) int { return precursor * 2 })
	}
}

// BenchmarkLazyGetOrCreate_FastPath measures the Lazy wrapper's overhead on
// the steady-state path.
func BenchmarkLazyGetOrCreate_FastPath(b *testing.B) {
	l := cell.NewLazy[int]()
	l.GetOrCreate(func() int { return 42 })

	b.ResetTimer()
	b.ReportAllocs()

	for i := 0; i < b.N; i++ {
		l.GetOrCreate(func() int { return 42 })
	}
}
