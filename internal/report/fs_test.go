package report

import (
	"errors"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnsureDir(t *testing.T) {
	fs := afero.NewMemMapFs()

	require.NoError(t, EnsureDir(fs, "/a/b"))
	require.NoError(t, EnsureDir(fs, "/a/b"), "existing directory")

	require.NoError(t, afero.WriteFile(fs, "/a/file", []byte("x"), 0o644))
	err := EnsureDir(fs, "/a/file")
	var fe *FilesystemError
	require.True(t, errors.As(err, &fe))
	assert.ErrorIs(t, err, errNotDir)

	err = EnsureDir(afero.NewReadOnlyFs(afero.NewMemMapFs()), "/new")
	require.True(t, errors.As(err, &fe))
	assert.Equal(t, "mkdir", fe.Op)
}

func TestResetDir(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/out/sub/old.txt", []byte("x"), 0o644))

	require.NoError(t, ResetDir(fs, "/out"))
	entries, err := afero.ReadDir(fs, "/out")
	require.NoError(t, err)
	assert.Empty(t, entries)

	require.NoError(t, ResetDir(fs, "/fresh"))
	ok, err := afero.DirExists(fs, "/fresh")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestDiscover(t *testing.T) {
	fs := afero.NewMemMapFs()
	for _, name := range []string{
		"/in/b.cov",
		"/in/a.cov",
		"/in/deep/er/c.cov",
		"/in/c.txt",
		"/in/.hidden.cov",
		"/in/.cache/d.cov",
		"/in/p.coverprofile",
	} {
		require.NoError(t, afero.WriteFile(fs, name, nil, 0o644))
	}

	got, err := Discover(fs, "/in", "*.cov")
	require.NoError(t, err)
	assert.Equal(t, []string{"/in/a.cov", "/in/b.cov", "/in/deep/er/c.cov"}, got)

	got, err = Discover(fs, "/in", "*.cov", "*.coverprofile", "")
	require.NoError(t, err)
	assert.Equal(t, []string{"/in/a.cov", "/in/b.cov", "/in/deep/er/c.cov", "/in/p.coverprofile"}, got)

	_, err = Discover(fs, "/in/a.cov", "*.cov")
	var fe *FilesystemError
	assert.True(t, errors.As(err, &fe))
}

func TestCopyFile(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/in/x/r.cov", []byte("F foo 1\n"), 0o644))
	require.NoError(t, fs.MkdirAll("/out", 0o755))

	require.NoError(t, CopyFile(fs, "/in/x/r.cov", "/out"))
	data, err := afero.ReadFile(fs, "/out/r.cov")
	require.NoError(t, err)
	assert.Equal(t, "F foo 1\n", string(data))

	err = CopyFile(fs, "/in/missing.cov", "/out")
	var fe *FilesystemError
	require.True(t, errors.As(err, &fe))
	assert.Equal(t, "open", fe.Op)
}
