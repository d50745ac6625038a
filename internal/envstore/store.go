// Package envstore persists the search-path variable per scope.
package envstore

import (
	"errors"
	"fmt"
	"sync"

	"pathboot/internal/model"
)

// Store reads and writes the persisted search-path value of a scope.
type Store interface {
	Lookup(scope model.Scope) (string, error)
	Save(scope model.Scope, value string) error
	Separator() string
}

// Expander is implemented by stores whose persisted values may hold
// unexpanded environment references, such as REG_EXPAND_SZ registry data.
type Expander interface {
	Expand(value string) string
}

// Expand returns value with references resolved by s, or value unchanged
// when s does not implement Expander.
func Expand(s Store, value string) string {
	if e, ok := s.(Expander); ok {
		return e.Expand(value)
	}
	return value
}

// ErrUnknownScope is returned for a scope the store does not know about.
var ErrUnknownScope = errors.New("unknown scope")

func checkScope(scope model.Scope) error {
	switch scope {
	case model.ScopeMachine, model.ScopeUser:
		return nil
	}
	return fmt.Errorf("%w: %q", ErrUnknownScope, scope)
}

// Memory is an in-memory Store.
type Memory struct {
	mu     sync.Mutex
	values map[model.Scope]string
	sep    string

	// FailWrites, when set, is returned by every Save.
	FailWrites error

	// ExpandFunc, when set, resolves references in stored values.
	ExpandFunc func(value string) string
}

// NewMemory returns a Memory store seeded with the given values.
func NewMemory(sep, machine, user string) *Memory {
	return &Memory{
		sep: sep,
		values: map[model.Scope]string{
			model.ScopeMachine: machine,
			model.ScopeUser:    user,
		},
	}
}

func (m *Memory) Lookup(scope model.Scope) (string, error) {
	if err := checkScope(scope); err != nil {
		return "", err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.values[scope], nil
}

func (m *Memory) Save(scope model.Scope, value string) error {
	if err := checkScope(scope); err != nil {
		return err
	}
	if m.FailWrites != nil {
		return m.FailWrites
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[scope] = value
	return nil
}

func (m *Memory) Separator() string {
	return m.sep
}

func (m *Memory) Expand(value string) string {
	if m.ExpandFunc == nil {
		return value
	}
	return m.ExpandFunc(value)
}

// Overlay reads through to a base store and keeps writes in memory.
// It backs --dry-run: nothing reaches the base store.
type Overlay struct {
	base    Store
	mu      sync.Mutex
	pending map[model.Scope]string
}

// NewOverlay wraps base.
func NewOverlay(base Store) *Overlay {
	return &Overlay{base: base, pending: map[model.Scope]string{}}
}

func (o *Overlay) Lookup(scope model.Scope) (string, error) {
	o.mu.Lock()
	v, ok := o.pending[scope]
	o.mu.Unlock()
	if ok {
		return v, nil
	}
	return o.base.Lookup(scope)
}

func (o *Overlay) Save(scope model.Scope, value string) error {
	if err := checkScope(scope); err != nil {
		return err
	}
	o.mu.Lock()
	defer o.mu.Unlock()
	o.pending[scope] = value
	return nil
}

func (o *Overlay) Separator() string {
	return o.base.Separator()
}

func (o *Overlay) Expand(value string) string {
	return Expand(o.base, value)
}

// Pending returns the writes held back from the base store.
func (o *Overlay) Pending() map[model.Scope]string {
	o.mu.Lock()
	defer o.mu.Unlock()
	out := make(map[model.Scope]string, len(o.pending))
	for k, v := range o.pending {
		out[k] = v
	}
	return out
}
