// Package cell provides synchronized holders for values that are lazily
// initialized, expensive to create, immutable after creation, and read from
// many goroutines.
//
// A [Lazy] is better than a mutex around an optional value because after
// creation, accessing the value requires no locking at all: just a single
// atomic boolean load. A [Transform] generalizes this to a cell that starts
// out holding a precursor value of one type and converts it, exactly once,
// into a result value of another type.
//
// # Quick Start
//
//	var expensive cell.Lazy[Catalog]
//
//	func catalog() *Catalog {
//		return expensive.GetOrCreate(loadCatalog)
//	}
//
// Every caller of catalog() gets a pointer to the same Catalog; loadCatalog
// runs exactly once no matter how many goroutines race on the first call,
// and every call after that is lock-free.
//
// # API Overview
//
// The package provides two cell types:
//   - [Transform]: precursor in, result out, one-time conversion.
//   - [Lazy]: a Transform with no precursor, for zero-argument creators.
//
// and, per cell, five accessors:
//   - Get: lock-free read, nil until initialized.
//   - GetOrCreate: infallible one-time initialization.
//   - TryGetOrCreate: fallible initialization, retryable on error.
//   - GetOrCreateOrPoison: fallible initialization, terminal on error.
//   - Extract / TryExtract / IntoInner: consuming extraction for a cell the
//     caller exclusively owns.
//
// # How It Works
//
// Initialization uses double-checked locking. The fast path is one atomic
// load of a publication flag; the slow path takes a mutex, re-checks the
// flag, and lets exactly one goroutine run the transform:
//
//	if !ready (atomic load)      // fast path: initialized cells stop here
//	    lock
//	    if !ready                // re-check: did someone win the race?
//	        result = f(precursor)
//	        store result
//	        ready = true          // atomic store, strictly after the result
//	    unlock
//	return &result                // plain read, no synchronization
//
// The atomic store to the flag happens only after the result is fully
// written, and readers load the flag before reading the result, so the
// store/load pair is the synchronizes-with edge that makes the completed
// result visible to every goroutine that sees the flag set. This is the
// classic safe-publication pattern; the mutex additionally orders goroutines
// that lose the initialization race after the winner.
//
// # Poisoning
//
// A cell can become permanently unusable in two ways:
//   - Error poisoning: GetOrCreateOrPoison consumes the precursor before
//     invoking its transform. If the transform fails, nothing is left to
//     retry with; later initializing calls report [ErrPoisoned] without
//     invoking anything.
//   - Panic poisoning: a transform that panics (under any accessor) leaves
//     the cell's lock poisoned. Later slow-path calls panic rather than
//     silently using a corrupted cell. Get still returns nil safely.
//
// TryGetOrCreate never poisons: its transform errors are returned to the
// caller and the precursor stays in place for a retry.
//
// # Limits
//
// A transform that re-enters the same cell's initializing accessor
// deadlocks; the package does not detect this. There is no way to cancel or
// time out a running transform: callers blocked on the slow path wait until
// the winner's transform returns.
package cell
