package overlay

import (
	"errors"
	"io/fs"
	"path/filepath"
)

// ErrFault is the cause carried by injected I/O failures. It deliberately
// does not map to fs.ErrNotExist or fs.ErrPermission: the simulated file
// exists and is nominally accessible, but any touch of it fails, as with
// an unspecified hardware or OS error.
var ErrFault = errors.New("simulated I/O failure")

// CheckFlag selects which optional checks a call site opts into.
type CheckFlag uint8

const (
	// CheckFaults enables the injected-failure lookup. Content-touching
	// call sites (channel open, directory enumeration, copy source) opt
	// in; pure metadata lookups do not.
	CheckFaults CheckFlag = 1 << iota
	// Redirect enables target substitution. Only operations that open
	// file content use it; every other operation keeps the virtual path's
	// own identity.
	Redirect
)

// Resolver applies the override tables to one operation at a time.
type Resolver struct {
	store *Store
}

// NewResolver returns a Resolver over the given store.
func NewResolver(store *Store) *Resolver {
	return &Resolver{store: store}
}

// Store returns the underlying override store.
func (r *Resolver) Store() *Store { return r.store }

// Resolve runs the check sequence for a single path: removed-ancestor
// walk, exact-path permission evaluation, optional fault injection, and
// optional redirect substitution. It returns the path the caller should
// delegate to - the original name unless a redirect applies.
//
// Every error is a *fs.PathError quoting the original, unresolved name
// the caller supplied, never the normalized form or a matching ancestor.
func (r *Resolver) Resolve(op, name string, mode AccessMode, flags CheckFlag) (string, error) {
	abs, err := filepath.Abs(name)
	if err != nil {
		return "", &fs.PathError{Op: op, Path: name, Err: err}
	}

	if r.removedAt(abs) {
		return "", &fs.PathError{Op: op, Path: name, Err: fs.ErrNotExist}
	}

	if perm, ok := r.store.Perm(abs); ok && !perm.Allows(mode) {
		return "", &fs.PathError{Op: op, Path: name, Err: fs.ErrPermission}
	}

	if flags&CheckFaults != 0 {
		if set, ok := r.store.Faults(abs); ok && set.Intersects(mode) {
			return "", &fs.PathError{Op: op, Path: name, Err: ErrFault}
		}
	}

	if flags&Redirect != 0 {
		if target, ok := r.store.Target(abs); ok {
			return target, nil
		}
	}

	return name, nil
}

// Access implements the access-probe semantics: the removed walk runs
// first, then a permission-table hit is authoritative. When handled is
// true the caller must NOT fall through to a native access check; when
// false no permission override exists and the native check decides.
// Fault injection never applies to access probes.
func (r *Resolver) Access(op, name string, mode AccessMode) (handled bool, err error) {
	abs, err := filepath.Abs(name)
	if err != nil {
		return false, &fs.PathError{Op: op, Path: name, Err: err}
	}

	if r.removedAt(abs) {
		return false, &fs.PathError{Op: op, Path: name, Err: fs.ErrNotExist}
	}

	perm, ok := r.store.Perm(abs)
	if !ok {
		return false, nil
	}
	if !perm.Allows(mode) {
		return true, &fs.PathError{Op: op, Path: name, Err: fs.ErrPermission}
	}
	return true, nil
}

// Removed reports whether the path, or any ancestor of it, is in the
// removed set. Removal is inherited: hiding a directory hides everything
// beneath it.
func (r *Resolver) Removed(name string) (bool, error) {
	abs, err := filepath.Abs(name)
	if err != nil {
		return false, err
	}
	return r.removedAt(abs), nil
}

// removedAt walks from abs up to the file system root, one lookup per
// segment.
func (r *Resolver) removedAt(abs string) bool {
	for p := abs; ; {
		if r.store.Removed(p) {
			return true
		}
		parent := filepath.Dir(p)
		if parent == p {
			return false
		}
		p = parent
	}
}
