// Package registrar locates tool install directories and registers them on
// the persisted user search path.
package registrar

import (
	"fmt"
	"log/slog"
	"sync"

	"pathboot/internal/envstore"
	"pathboot/internal/model"
	"pathboot/internal/pathlist"
)

// View is the process-local copy of the effective search path. It only
// changes when Refresh is called.
type View struct {
	mu    sync.RWMutex
	value string
}

// Value returns the last refreshed search path.
func (v *View) Value() string {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.value
}

func (v *View) set(value string) {
	v.mu.Lock()
	v.value = value
	v.mu.Unlock()
}

// Registrar appends directories to the user search path and recomputes the
// process view from both scopes.
type Registrar struct {
	store envstore.Store
	view  *View
	log   *slog.Logger

	// Apply, when set, receives every refreshed view; main uses it to
	// override PATH for child processes.
	Apply func(value string) error
}

// New returns a Registrar over store.
func New(store envstore.Store, logger *slog.Logger) *Registrar {
	if logger == nil {
		logger = slog.Default()
	}
	return &Registrar{store: store, view: &View{}, log: logger}
}

// View returns the process view maintained by Refresh.
func (r *Registrar) View() *View {
	return r.view
}

// Register appends dir to the scope's search path unless it is already
// there. Only the user scope is writable. Presence is checked against the
// expanded value, but the raw value is what gets written back.
func (r *Registrar) Register(scope model.Scope, dir string) (bool, error) {
	if scope != model.ScopeUser {
		return false, ErrMachineScope
	}
	if pathlist.Normalize(dir) == "" {
		return false, ErrEmptyDirectory
	}
	current, err := r.store.Lookup(scope)
	if err != nil {
		return false, fmt.Errorf("reading %s search path: %w", scope, err)
	}

	sep := r.store.Separator()
	if pathlist.Contains(envstore.Expand(r.store, current), sep, envstore.Expand(r.store, dir)) {
		r.log.Debug("directory already on search path", "scope", scope, "dir", dir)
		return false, nil
	}
	updated, changed := pathlist.Append(current, sep, dir)
	if !changed {
		r.log.Debug("directory already on search path", "scope", scope, "dir", dir)
		return false, nil
	}
	if err := r.store.Save(scope, updated); err != nil {
		return false, &PersistenceWriteError{Scope: scope, Err: err}
	}
	r.log.Info("added directory to search path", "scope", scope, "dir", dir)
	return true, nil
}

// Refresh rebuilds the process view as machine + separator + user, read
// fresh from the store and expanded. The apply hook gets the same value
// without the dangling separator an empty scope would leave.
func (r *Registrar) Refresh() (string, error) {
	machine, err := r.store.Lookup(model.ScopeMachine)
	if err != nil {
		return "", fmt.Errorf("reading machine search path: %w", err)
	}
	user, err := r.store.Lookup(model.ScopeUser)
	if err != nil {
		return "", fmt.Errorf("reading user search path: %w", err)
	}
	machine = envstore.Expand(r.store, machine)
	user = envstore.Expand(r.store, user)

	sep := r.store.Separator()
	value := machine + sep + user
	r.view.set(value)

	if r.Apply != nil {
		if err := r.Apply(joinScopes(machine, user, sep)); err != nil {
			return value, fmt.Errorf("applying search path to process: %w", err)
		}
	}
	return value, nil
}

// joinScopes joins the two scopes, dropping an empty side. An empty PATH
// element means the current directory to POSIX shells.
func joinScopes(machine, user, sep string) string {
	switch {
	case machine == "":
		return user
	case user == "":
		return machine
	}
	return machine + sep + user
}
