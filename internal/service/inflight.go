package service

import "sync"

// InflightRegistry tracks gateway references with a verification attempt
// currently in flight, so duplicate concurrent requests for the same
// reference are rejected before they touch storage or the gateway.
//
// The registry is process-local: it does not survive restarts and gives no
// exclusion across instances. Correctness never depends on it; the store
// transaction and the order uniqueness constraint do.
type InflightRegistry struct {
	mu   sync.Mutex
	refs map[string]struct{}
}

func NewInflightRegistry() *InflightRegistry {
	return &InflightRegistry{
		refs: make(map[string]struct{}),
	}
}

// TryAcquire registers ref and reports whether the caller won admission.
func (r *InflightRegistry) TryAcquire(ref string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, busy := r.refs[ref]; busy {
		return false
	}
	r.refs[ref] = struct{}{}
	return true
}

// Release must be called on every exit path of a verification attempt,
// or the reference stays wedged until restart.
func (r *InflightRegistry) Release(ref string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.refs, ref)
}
