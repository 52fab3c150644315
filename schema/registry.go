package schema

import (
	"fmt"
	"sync"

	"go.uber.org/multierr"
)

// Registry holds named descriptors. It is the closed world in which
// polymorphic subtypes are discovered.
type Registry struct {
	mu    sync.RWMutex
	types map[string]*Type
	order []*Type
	anon  map[string]*Type
}

func NewRegistry() *Registry {
	return &Registry{
		types: make(map[string]*Type),
		anon:  make(map[string]*Type),
	}
}

// Register adds named descriptors. Registering the same descriptor twice
// is a no-op; a different descriptor under a taken name is an error.
func (r *Registry) Register(ts ...*Type) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	var errs error
	for _, t := range ts {
		if t == nil {
			errs = multierr.Append(errs, fmt.Errorf("%w: cannot register nil descriptor", ErrSchema))
			continue
		}
		if t.Name == "" {
			errs = multierr.Append(errs, fmt.Errorf("%w: cannot register anonymous %s descriptor", ErrSchema, t.Kind))
			continue
		}
		if prev, ok := r.types[t.Name]; ok {
			if prev != t {
				errs = multierr.Append(errs, fmt.Errorf("%w: descriptor %q already registered", ErrSchema, t.Name))
			}
			continue
		}
		r.types[t.Name] = t
		r.order = append(r.order, t)
	}
	return errs
}

// MustRegister is Register for package initialization.
func (r *Registry) MustRegister(ts ...*Type) {
	if err := r.Register(ts...); err != nil {
		panic(err)
	}
}

func (r *Registry) Lookup(name string) (*Type, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.types[name]
	return t, ok
}

// Types returns the registered descriptors in registration order.
func (r *Registry) Types() []*Type {
	r.mu.RLock()
	defer r.mu.RUnlock()
	res := make([]*Type, len(r.order))
	copy(res, r.order)
	return res
}

// Intern returns the canonical descriptor for t's identity, recording t
// when it is the first one seen.
func (r *Registry) Intern(t *Type) *Type {
	if t.Name != "" {
		if prev, ok := r.Lookup(t.Name); ok {
			return prev
		}
		return t
	}
	id := t.ID()
	r.mu.Lock()
	defer r.mu.Unlock()
	if prev, ok := r.anon[id]; ok {
		return prev
	}
	r.anon[id] = t
	return t
}

// SubtypesOf returns the concrete registered descendants of root,
// including root itself when it is concrete, in registration order.
func (r *Registry) SubtypesOf(root *Type) []*Type {
	var res []*Type
	if !root.Abstract {
		res = append(res, root)
	}
	for _, t := range r.Types() {
		if t == root || t.Abstract || t.Kind != ObjectKind {
			continue
		}
		if t.IsSubtypeOf(root) {
			res = append(res, t)
		}
	}
	return res
}

// Validate reports recorded construction errors of every registered
// descriptor.
func (r *Registry) Validate() error {
	var errs error
	for _, t := range r.Types() {
		errs = multierr.Append(errs, t.Err())
		if t.Super != nil && t.IsSubtypeOf(t.Super) && t.Super.IsSubtypeOf(t) {
			errs = multierr.Append(errs, fmt.Errorf("%w: %s: supertype cycle", ErrSchema, t.Name))
		}
	}
	return errs
}
