package registrar

import (
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pathboot/internal/envstore"
	"pathboot/internal/model"
)

func userValue(t *testing.T, s envstore.Store) string {
	t.Helper()
	v, err := s.Lookup(model.ScopeUser)
	require.NoError(t, err)
	return v
}

func TestRegisterAppendsOnce(t *testing.T) {
	store := envstore.NewMemory(";", `C:\Windows`, `C:\Users\me\bin`)
	r := New(store, nil)

	added, err := r.Register(model.ScopeUser, `X:\bin`)
	require.NoError(t, err)
	assert.True(t, added)
	once := userValue(t, store)
	assert.Equal(t, `C:\Users\me\bin;X:\bin`, once)

	added, err = r.Register(model.ScopeUser, `X:\bin`)
	require.NoError(t, err)
	assert.False(t, added)
	assert.Equal(t, once, userValue(t, store))
}

func TestRegisterDetectsExistingWithDifferentCasingOrTrailingSeparator(t *testing.T) {
	for _, existing := range []string{`x:\BIN`, `X:\bin\`, `X:/bin/`, `A;x:\Bin\;B`} {
		t.Run(existing, func(t *testing.T) {
			store := envstore.NewMemory(";", "", existing)
			added, err := New(store, nil).Register(model.ScopeUser, `X:\bin`)
			require.NoError(t, err)
			assert.False(t, added)
			assert.Equal(t, existing, userValue(t, store))
		})
	}
}

func TestRegisterKeepsExistingTrailingSeparator(t *testing.T) {
	store := envstore.NewMemory(";", "", `A;`)
	_, err := New(store, nil).Register(model.ScopeUser, `X:\bin`)
	require.NoError(t, err)
	assert.Equal(t, `A;X:\bin`, userValue(t, store))
}

func TestRegisterRefusesMachineScope(t *testing.T) {
	store := envstore.NewMemory(";", "A", "")
	_, err := New(store, nil).Register(model.ScopeMachine, `X:\bin`)
	assert.ErrorIs(t, err, ErrMachineScope)

	machine, _ := store.Lookup(model.ScopeMachine)
	assert.Equal(t, "A", machine)
}

func TestRegisterSurfacesWriteFailure(t *testing.T) {
	store := envstore.NewMemory(";", "", "")
	denied := errors.New("access is denied")
	store.FailWrites = denied

	_, err := New(store, nil).Register(model.ScopeUser, `X:\bin`)
	require.Error(t, err)

	var pwe *PersistenceWriteError
	require.ErrorAs(t, err, &pwe)
	assert.Equal(t, model.ScopeUser, pwe.Scope)
	assert.ErrorIs(t, err, denied)
}

func TestRegisterRejectsBlankDirectory(t *testing.T) {
	store := envstore.NewMemory(";", "", `A;B`)
	r := New(store, nil)

	for _, dir := range []string{"", "   ", `"\"`} {
		added, err := r.Register(model.ScopeUser, dir)
		assert.ErrorIs(t, err, ErrEmptyDirectory, "dir %q", dir)
		assert.False(t, added)
	}
	assert.Equal(t, `A;B`, userValue(t, store))
}

func TestRegisterMatchesExpandedEntry(t *testing.T) {
	raw := `%LOCALAPPDATA%\Programs\Python\Python312`
	store := envstore.NewMemory(";", "", raw)
	store.ExpandFunc = strings.NewReplacer("%LOCALAPPDATA%", `C:\Users\me\AppData\Local`).Replace
	r := New(store, nil)

	added, err := r.Register(model.ScopeUser, `C:\Users\me\AppData\Local\Programs\Python\Python312`)
	require.NoError(t, err)
	assert.False(t, added)
	assert.Equal(t, raw, userValue(t, store))

	added, err = r.Register(model.ScopeUser, `C:\Git\cmd`)
	require.NoError(t, err)
	assert.True(t, added)
	assert.Equal(t, raw+`;C:\Git\cmd`, userValue(t, store), "raw references are written back unexpanded")
}

func TestRefreshConcatenatesScopes(t *testing.T) {
	store := envstore.NewMemory(";", "A;B", "C")
	r := New(store, nil)

	got, err := r.Refresh()
	require.NoError(t, err)
	assert.Equal(t, "A;B;C", got)
	assert.Equal(t, "A;B;C", r.View().Value())
}

func TestViewIsStaleUntilRefresh(t *testing.T) {
	store := envstore.NewMemory(";", "A", "")
	r := New(store, nil)
	_, err := r.Refresh()
	require.NoError(t, err)

	require.NoError(t, store.Save(model.ScopeUser, "C"))
	assert.Equal(t, "A;", r.View().Value())

	_, err = r.Refresh()
	require.NoError(t, err)
	assert.Equal(t, "A;C", r.View().Value())
}

func TestRefreshCallsApply(t *testing.T) {
	store := envstore.NewMemory(";", "A", "B")
	r := New(store, nil)

	var applied string
	r.Apply = func(v string) error {
		applied = v
		return nil
	}
	_, err := r.Refresh()
	require.NoError(t, err)
	assert.Equal(t, "A;B", applied)

	r.Apply = func(string) error { return errors.New("setenv failed") }
	_, err = r.Refresh()
	assert.ErrorContains(t, err, "setenv failed")
}

func TestRefreshExpandsAndAppliesWithoutEmptyElement(t *testing.T) {
	store := envstore.NewMemory(":", "/usr/bin:/bin", "")
	r := New(store, nil)
	var applied string
	r.Apply = func(v string) error {
		applied = v
		return nil
	}

	got, err := r.Refresh()
	require.NoError(t, err)
	assert.Equal(t, "/usr/bin:/bin:", got)
	assert.Equal(t, "/usr/bin:/bin", applied)

	win := envstore.NewMemory(";", `%SystemRoot%\system32`, "")
	win.ExpandFunc = strings.NewReplacer("%SystemRoot%", `C:\Windows`).Replace
	r = New(win, nil)
	r.Apply = func(v string) error {
		applied = v
		return nil
	}
	got, err = r.Refresh()
	require.NoError(t, err)
	assert.Equal(t, `C:\Windows\system32;`, got)
	assert.Equal(t, `C:\Windows\system32`, applied)
}

func runScenario(t *testing.T, initialUser string) (envstore.Store, string) {
	t.Helper()
	fs := afero.NewMemMapFs()
	touch(t, fs, filepath.Join(`X:\bin`, "tool.exe"))

	store := envstore.NewMemory(";", `C:\Windows`, initialUser)
	r := New(store, nil)

	dir, err := NewLocator(fs, nil).Locate([]string{`X:\nope`, `X:\bin`}, "tool.exe")
	require.NoError(t, err)
	require.Equal(t, `X:\bin`, dir)

	_, err = r.Register(model.ScopeUser, dir)
	require.NoError(t, err)

	view, err := r.Refresh()
	require.NoError(t, err)
	return store, view
}

func TestScenarioRegistersIntoEmptyUserScope(t *testing.T) {
	store, view := runScenario(t, "")
	assert.Equal(t, `X:\bin`, userValue(t, store))
	assert.True(t, strings.Contains(view, `X:\bin`))
}

func TestScenarioDoesNotDuplicateExistingEntry(t *testing.T) {
	store, view := runScenario(t, `X:\bin`)
	assert.Equal(t, `X:\bin`, userValue(t, store))
	assert.Equal(t, 1, strings.Count(view, `X:\bin`))
}
