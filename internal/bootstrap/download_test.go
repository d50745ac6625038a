package bootstrap

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// closeFailFs hands out files whose Close reports a flush failure.
type closeFailFs struct{ afero.Fs }

func (fs closeFailFs) Create(name string) (afero.File, error) {
	f, err := fs.Fs.Create(name)
	if err != nil {
		return nil, err
	}
	return closeFailFile{f}, nil
}

type closeFailFile struct{ afero.File }

func (f closeFailFile) Close() error {
	f.File.Close()
	return errors.New("disk full")
}

func TestFetchNamesFile(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/attached" {
			w.Header().Set("Content-Disposition", `attachment; filename="python-3.12.7-amd64.exe"`)
		}
		if r.URL.Path == "/sneaky" {
			w.Header().Set("Content-Disposition", `attachment; filename="../../evil.exe"`)
		}
		w.Write([]byte("payload"))
	}))
	t.Cleanup(srv.Close)

	tests := []struct {
		name string
		path string
		want string
	}{
		{"url path", "/files/git.exe", "git.exe"},
		{"content disposition", "/attached", "python-3.12.7-amd64.exe"},
		{"disposition stays in dir", "/sneaky", "evil.exe"},
		{"no extension takes fallback extension", "/download?os=win", "download.exe"},
		{"bare root", "/", "installer.exe"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fs := afero.NewMemMapFs()
			d := &Downloader{Client: srv.Client(), Fs: fs}

			got, err := d.Fetch(context.Background(), srv.URL+tt.path, "/tmp/dl", "installer.exe")
			require.NoError(t, err)
			assert.Equal(t, filepath.Join("/tmp/dl", tt.want), got)

			data, err := afero.ReadFile(fs, got)
			require.NoError(t, err)
			assert.Equal(t, "payload", string(data))
		})
	}
}

func TestFetchReportsCloseFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("payload"))
	}))
	t.Cleanup(srv.Close)

	d := &Downloader{Client: srv.Client(), Fs: closeFailFs{afero.NewMemMapFs()}}
	_, err := d.Fetch(context.Background(), srv.URL+"/git.exe", "/tmp/dl", "installer.exe")
	assert.ErrorContains(t, err, "closing download: disk full")
}
