package report

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
)

// FilesystemError is a fatal failure to set up the output directory or to
// read an input.
type FilesystemError struct {
	Op   string
	Path string
	Err  error
}

func (e *FilesystemError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *FilesystemError) Unwrap() error { return e.Err }

var errNotDir = errors.New("exists and is not a directory")

// EnsureDir creates dir and its parents. An existing directory is not an
// error; an existing non-directory is.
func EnsureDir(fs afero.Fs, dir string) error {
	info, err := fs.Stat(dir)
	switch {
	case err == nil && info.IsDir():
		return nil
	case err == nil:
		return &FilesystemError{Op: "mkdir", Path: dir, Err: errNotDir}
	case !errors.Is(err, os.ErrNotExist):
		return &FilesystemError{Op: "stat", Path: dir, Err: err}
	}
	if err := fs.MkdirAll(dir, 0o755); err != nil {
		return &FilesystemError{Op: "mkdir", Path: dir, Err: err}
	}
	return nil
}

// ResetDir removes dir with everything below it and creates it again empty.
func ResetDir(fs afero.Fs, dir string) error {
	if err := fs.RemoveAll(dir); err != nil {
		return &FilesystemError{Op: "remove", Path: dir, Err: err}
	}
	return EnsureDir(fs, dir)
}

// CopyFile copies src verbatim into dstDir under its base name, replacing
// any file of that name.
func CopyFile(fs afero.Fs, src, dstDir string) (err error) {
	in, err := fs.Open(src)
	if err != nil {
		return &FilesystemError{Op: "open", Path: src, Err: err}
	}
	defer in.Close()

	dst := filepath.Join(dstDir, filepath.Base(src))
	out, err := fs.Create(dst)
	if err != nil {
		return &FilesystemError{Op: "create", Path: dst, Err: err}
	}
	defer func() {
		if cerr := out.Close(); cerr != nil && err == nil {
			err = &FilesystemError{Op: "close", Path: dst, Err: cerr}
		}
	}()

	if _, err := io.Copy(out, in); err != nil {
		return &FilesystemError{Op: "copy", Path: dst, Err: err}
	}
	return nil
}

// Discover walks root recursively and returns the files whose base name
// matches any of patterns, in walk order. Hidden files and directories are
// skipped.
func Discover(fs afero.Fs, root string, patterns ...string) ([]string, error) {
	info, err := fs.Stat(root)
	if err != nil {
		return nil, &FilesystemError{Op: "stat", Path: root, Err: err}
	}
	if !info.IsDir() {
		return nil, &FilesystemError{Op: "list", Path: root, Err: errors.New("not a directory")}
	}

	var found []string
	err = afero.Walk(fs, root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		hidden := strings.HasPrefix(info.Name(), ".") && path != root
		if info.IsDir() {
			if hidden {
				return filepath.SkipDir
			}
			return nil
		}
		if hidden {
			return nil
		}
		if matchAny(patterns, info.Name()) {
			found = append(found, path)
		}
		return nil
	})
	if err != nil {
		return nil, &FilesystemError{Op: "list", Path: root, Err: err}
	}
	return found, nil
}

func matchAny(patterns []string, name string) bool {
	for _, p := range patterns {
		if p == "" {
			continue
		}
		if ok, _ := filepath.Match(p, name); ok {
			return true
		}
	}
	return false
}
