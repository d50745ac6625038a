package envstore

import (
	"os"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pathboot/internal/model"
)

func TestFileMissingDocumentUsesSeed(t *testing.T) {
	f := NewFile(afero.NewMemMapFs(), "/cfg/pathboot/env.yaml", "/usr/bin:/bin")

	machine, err := f.Lookup(model.ScopeMachine)
	require.NoError(t, err)
	assert.Equal(t, "/usr/bin:/bin", machine)

	user, err := f.Lookup(model.ScopeUser)
	require.NoError(t, err)
	assert.Equal(t, "", user)
	assert.Equal(t, string(os.PathListSeparator), f.Separator())
}

func TestFileSavePersists(t *testing.T) {
	fs := afero.NewMemMapFs()
	f := NewFile(fs, "/cfg/pathboot/env.yaml", "/usr/bin")

	require.NoError(t, f.Save(model.ScopeUser, "/opt/tool/bin"))

	// A fresh store over the same file sees the write and keeps the seeded machine value.
	again := NewFile(fs, "/cfg/pathboot/env.yaml", "/ignored")
	user, err := again.Lookup(model.ScopeUser)
	require.NoError(t, err)
	assert.Equal(t, "/opt/tool/bin", user)

	machine, err := again.Lookup(model.ScopeMachine)
	require.NoError(t, err)
	assert.Equal(t, "/usr/bin", machine)
}

func TestFileCorruptDocument(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/env.yaml", []byte("machine: [unterminated"), 0o644))

	_, err := NewFile(fs, "/env.yaml", "").Lookup(model.ScopeUser)
	assert.ErrorContains(t, err, "parsing /env.yaml")
}

func TestFileSaveOnReadOnlyFs(t *testing.T) {
	f := NewFile(afero.NewReadOnlyFs(afero.NewMemMapFs()), "/env.yaml", "")
	assert.Error(t, f.Save(model.ScopeUser, "/x"))
}
