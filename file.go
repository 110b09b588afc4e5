package testfs

import "github.com/spf13/afero"

// file wraps an open afero.File so the visible identity of the virtual
// path is preserved: a redirected open still reports the virtual path's
// own name, never the redirect target's.
type file struct {
	afero.File
	name string
}

func newFile(f afero.File, name string) afero.File {
	return &file{File: f, name: name}
}

// Name returns the name the file was opened with, as supplied by the
// caller.
func (f *file) Name() string { return f.name }
