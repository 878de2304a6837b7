// Package alignleap is the public boundary of the alignment leap engine.
//
// Instances live in a Registry and are addressed by integer Handles, the
// shape a C or FFI host expects. Handle 0 is the null handle; operations on
// the null handle, or on a destroyed or unknown handle, are no-ops that
// return zero values. Each instance must be stepped by one goroutine at a
// time; distinct handles may be driven concurrently.
package alignleap

import (
	"sync"

	"github.com/nvandessel/alignleap/internal/dynamics"
)

// Handle addresses one instance in a Registry. The zero Handle is null.
type Handle int32

// Params is the coefficient set of one instance.
type Params = dynamics.Params

// Telemetry is the per-step output of Step.
type Telemetry = dynamics.Telemetry

// DefaultParams returns the documented default coefficients.
func DefaultParams() Params {
	return dynamics.DefaultParams()
}

// Registry owns instances and hands out handles to them.
type Registry struct {
	mu        sync.RWMutex
	next      Handle
	instances map[Handle]*dynamics.Instance
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{instances: make(map[Handle]*dynamics.Instance)}
}

// Create builds an instance with n nodes. A nil params selects the defaults
// and a zero seed is replaced by a fixed non-zero seed. It returns the null
// handle when n <= 0 or the instance cannot be allocated.
func (r *Registry) Create(n int32, params *Params, seed uint64) Handle {
	in, err := dynamics.New(int(n), params, seed)
	if err != nil {
		return 0
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	// Handles wrap to 1 past the int32 range; live handles are skipped.
	for {
		r.next++
		if r.next <= 0 {
			r.next = 1
		}
		if r.instances[r.next] == nil {
			break
		}
	}
	h := r.next
	r.instances[h] = in
	return h
}

// Destroy releases the instance. No-op on the null or an unknown handle.
func (r *Registry) Destroy(h Handle) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.instances, h)
}

// Step advances the instance and writes the telemetry to out when out is
// non-nil.
func (r *Registry) Step(h Handle, pressure, dt float64, out *Telemetry) {
	in := r.lookup(h)
	if in == nil {
		return
	}
	tel := in.Step(pressure, dt)
	if out != nil {
		*out = tel
	}
}

// GetParams copies the instance parameters into out.
func (r *Registry) GetParams(h Handle, out *Params) {
	in := r.lookup(h)
	if in == nil || out == nil {
		return
	}
	*out = in.Params()
}

// SetParams replaces the instance parameters. No validation is performed.
func (r *Registry) SetParams(h Handle, p *Params) {
	in := r.lookup(h)
	if in == nil || p == nil {
		return
	}
	in.SetParams(*p)
}

// GetN returns the node count, or 0 for an invalid handle.
func (r *Registry) GetN(h Handle) int32 {
	return int32(r.lookup(h).N())
}

// GetKappaRow copies up to min(N, len(buf)) inertia values of row into buf
// and returns the count written. Invalid handles and rows write nothing.
func (r *Registry) GetKappaRow(h Handle, row int32, buf []float64) int32 {
	return int32(r.lookup(h).KappaRow(int(row), buf))
}

// Len returns the number of live instances.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.instances)
}

func (r *Registry) lookup(h Handle) *dynamics.Instance {
	if h == 0 {
		return nil
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.instances[h]
}

var defaultRegistry = NewRegistry()

// Create builds an instance in the default registry.
func Create(n int32, params *Params, seed uint64) Handle {
	return defaultRegistry.Create(n, params, seed)
}

// Destroy releases an instance from the default registry.
func Destroy(h Handle) {
	defaultRegistry.Destroy(h)
}

// Step advances an instance in the default registry.
func Step(h Handle, pressure, dt float64, out *Telemetry) {
	defaultRegistry.Step(h, pressure, dt, out)
}

// GetParams reads parameters from the default registry.
func GetParams(h Handle, out *Params) {
	defaultRegistry.GetParams(h, out)
}

// SetParams writes parameters in the default registry.
func SetParams(h Handle, p *Params) {
	defaultRegistry.SetParams(h, p)
}

// GetN returns the node count of an instance in the default registry.
func GetN(h Handle) int32 {
	return defaultRegistry.GetN(h)
}

// GetKappaRow reads an inertia row from the default registry.
func GetKappaRow(h Handle, row int32, buf []float64) int32 {
	return defaultRegistry.GetKappaRow(h, row, buf)
}
