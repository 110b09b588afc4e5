package testfs

import (
	"slices"

	"github.com/hupe1980/testfs/internal/overlay"
	"github.com/spf13/afero"
)

type addDecl struct {
	path   string
	target string
	perm   Permission
}

type faultDecl struct {
	path string
	mode AccessMode
}

// Builder is an immutable fluent builder for test file systems.
// Each method returns a new builder with the updated configuration.
// This ensures thread-safety and prevents accidental state sharing.
//
// Example:
//
//	fs, err := testfs.New().
//	    RemovingFiles("/test/file1.log", "/test/file2.log").
//	    AddingFile("/test/file3.log", "testdata/sample.log", testfs.PermRead|testfs.PermExecute).
//	    ThrowingErrorOnWrite("/test/file4.log").
//	    Create()
type Builder struct {
	base    afero.Fs
	logger  *Logger
	removed []string
	adds    []addDecl
	faults  []faultDecl
	err     error
}

// New creates a new test file system builder delegating to the host
// operating system's file system. With no further configuration the
// resulting file system behaves exactly like the real one.
func New() Builder {
	return Builder{
		base:   afero.NewOsFs(),
		logger: NoopLogger(),
	}
}

// Base sets the real file system the overlay delegates to. The default is
// the host OS file system; tests of this library itself (or callers that
// want full hermeticity) can pass afero.NewMemMapFs().
//
// Base must be configured before AddingFile or AlteringPermissions, since
// those validate their targets against it.
func (b Builder) Base(base afero.Fs) Builder {
	if base != nil {
		b.base = base
	}
	return b
}

// Logger sets the structured logger for simulated-condition tracing.
func (b Builder) Logger(l *Logger) Builder {
	if l != nil {
		b.logger = l
	}
	return b
}

// AddingFile simulates the existence of the specified file path,
// regardless of whether or not it actually exists. Reads and other
// content operations on the simulated file are delegated to the file at
// target, which must exist; a missing target is a configuration error
// reported by Create. The optional perm argument applies simulated
// permissions to the file (default PermAll).
func (b Builder) AddingFile(path, target string, perm ...Permission) Builder {
	p := PermAll
	if len(perm) > 0 {
		p = perm[0]
	}

	if b.err == nil {
		exists, err := afero.Exists(b.base, target)
		switch {
		case err != nil:
			b.err = &ErrMissingTarget{Target: target, cause: err}
		case !exists:
			b.err = &ErrMissingTarget{Target: target}
		}
	}

	b.adds = append(slices.Clone(b.adds), addDecl{path: path, target: target, perm: p})
	return b
}

// RemovingFiles simulates the non-existence of the specified file paths,
// regardless of whether or not they actually exist. Removal is inherited:
// removing a directory hides everything beneath it. No validation is
// performed - a path that never existed can be removed.
func (b Builder) RemovingFiles(paths ...string) Builder {
	b.removed = append(slices.Clone(b.removed), paths...)
	return b
}

// AlteringPermissions simulates the specified permissions on an existing
// file. This is sugar for a self-redirecting AddingFile, so the file must
// actually exist.
func (b Builder) AlteringPermissions(path string, perm Permission) Builder {
	return b.AddingFile(path, path, perm)
}

// ThrowingErrorOnRead simulates an I/O failure whenever the contents of
// the specified files are read. No validation is performed.
func (b Builder) ThrowingErrorOnRead(paths ...string) Builder {
	return b.throwing(AccessRead, paths)
}

// ThrowingErrorOnWrite simulates an I/O failure whenever the specified
// files are written to. No validation is performed.
func (b Builder) ThrowingErrorOnWrite(paths ...string) Builder {
	return b.throwing(AccessWrite, paths)
}

func (b Builder) throwing(mode AccessMode, paths []string) Builder {
	decls := slices.Clone(b.faults)
	for _, p := range paths {
		decls = append(decls, faultDecl{path: p, mode: mode})
	}
	b.faults = decls
	return b
}

// Create builds the immutable override store and returns the test file
// system. Any configuration error recorded by an earlier declaration
// (such as a missing redirect target) is returned here.
func (b Builder) Create() (*Fs, error) {
	if b.err != nil {
		return nil, b.err
	}

	targets := make(map[string]string, len(b.adds))
	perms := make(map[string]Permission, len(b.adds))
	for _, a := range b.adds {
		targets[a.path] = a.target
		perms[a.path] = a.perm
	}

	faults := make(map[string]AccessMode, len(b.faults))
	for _, f := range b.faults {
		faults[f.path] |= f.mode
	}

	store, err := overlay.New(b.removed, targets, perms, faults)
	if err != nil {
		return nil, err
	}

	logger := b.logger
	if logger == nil {
		logger = NoopLogger()
	}

	t := &Fs{
		base:     b.base,
		resolver: overlay.NewResolver(store),
		logger:   logger,
	}
	logger.LogCreate(b.base.Name(), store.Len())
	return t, nil
}

// MustCreate builds the test file system, panicking on error.
func (b Builder) MustCreate() *Fs {
	t, err := b.Create()
	if err != nil {
		panic(err)
	}
	return t
}
