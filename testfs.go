package testfs

import (
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/hupe1980/testfs/internal/overlay"
	"github.com/spf13/afero"
)

// Fs is a test file system: a thin decision layer wrapping a real file
// system. Every operation first consults the override tables (removed
// paths, redirect targets, simulated permissions, fault triggers) and
// then delegates to the wrapped file system, so a consumer cannot tell -
// except for the configured overrides - that it isn't talking to the real
// thing.
//
// Fs implements afero.Fs and afero.Lstater. It is immutable after Create
// and safe for concurrent use without locking; it holds a reference to
// the wrapped file system but does not own its lifecycle.
type Fs struct {
	base     afero.Fs
	resolver *overlay.Resolver
	logger   *Logger
}

var (
	_ afero.Fs      = (*Fs)(nil)
	_ afero.Lstater = (*Fs)(nil)
)

// Base returns the wrapped real file system.
func (t *Fs) Base() afero.Fs { return t.base }

// Name returns the name of this file system.
func (t *Fs) Name() string { return "TestFs" }

// String returns a short description including the wrapped file system.
func (t *Fs) String() string { return "TestFs(" + t.base.Name() + ")" }

// Equal reports whether two test file systems are interchangeable: the
// same kind of wrapped file system and identical override configuration.
// Equality is configuration-based, not identity-based, so two separately
// built empty overlays over independently obtained OS file systems are
// equal.
func (t *Fs) Equal(other *Fs) bool {
	if other == nil {
		return false
	}
	return t.base.Name() == other.base.Name() &&
		t.resolver.Store().Equal(other.resolver.Store())
}

// Create creates a simulated-aware file, truncating it if it already
// exists. The file is checked for removal and write permission, a write
// fault fires if registered, and a redirect substitutes the content
// target.
func (t *Fs) Create(name string) (afero.File, error) {
	return t.openContent("create", name, overlay.AccessWrite, func(delegate string) (afero.File, error) {
		return t.base.Create(delegate)
	})
}

// Open opens the named file for reading.
func (t *Fs) Open(name string) (afero.File, error) {
	return t.openContent("open", name, overlay.AccessRead, func(delegate string) (afero.File, error) {
		return t.base.Open(delegate)
	})
}

// OpenFile opens the named file with the specified flag. The requested
// access mode is derived from the flag: write or append flags imply a
// write check, anything else a read check.
func (t *Fs) OpenFile(name string, flag int, perm os.FileMode) (afero.File, error) {
	op := "open"
	mode := accessModeForFlag(flag)
	delegate, err := t.resolver.Resolve(op, name, mode, overlay.CheckFaults|overlay.Redirect)
	if err != nil {
		t.logger.LogResolve(op, name, err)
		return nil, err
	}
	if delegate != name {
		t.logger.LogRedirect(op, name, delegate)
	}
	f, err := t.base.OpenFile(delegate, flag, perm)
	if err != nil {
		return nil, err
	}
	return newFile(f, name), nil
}

func (t *Fs) openContent(op, name string, mode overlay.AccessMode, open func(string) (afero.File, error)) (afero.File, error) {
	delegate, err := t.resolver.Resolve(op, name, mode, overlay.CheckFaults|overlay.Redirect)
	if err != nil {
		t.logger.LogResolve(op, name, err)
		return nil, err
	}
	if delegate != name {
		t.logger.LogRedirect(op, name, delegate)
	}
	f, err := open(delegate)
	if err != nil {
		return nil, err
	}
	return newFile(f, name), nil
}

// Mkdir creates a directory. The parent directory is checked for removal
// and write permission; errors on the parent quote the parent's path.
func (t *Fs) Mkdir(name string, perm os.FileMode) error {
	if err := t.checkParentWrite("mkdir", name); err != nil {
		return err
	}
	return t.base.Mkdir(name, perm)
}

// MkdirAll creates a directory path along with any necessary parents.
// Like Mkdir, the immediate parent of the leaf directory is checked.
func (t *Fs) MkdirAll(path string, perm os.FileMode) error {
	if err := t.checkParentWrite("mkdir", path); err != nil {
		return err
	}
	return t.base.MkdirAll(path, perm)
}

// checkParentWrite applies the removed-path and write-permission checks
// to the parent directory of name. Errors quote the parent's path.
func (t *Fs) checkParentWrite(op, name string) error {
	parent, ok := parentOf(name)
	if !ok {
		return nil
	}
	if _, err := t.resolver.Resolve(op, parent, overlay.AccessWrite, overlay.CheckFaults); err != nil {
		t.logger.LogResolve(op, parent, err)
		return err
	}
	return nil
}

// Remove removes the named file or (empty) directory. The path itself is
// checked for removal; the parent directory is checked for write
// permission and write faults.
func (t *Fs) Remove(name string) error {
	return t.removeOp("remove", name, t.base.Remove)
}

// RemoveAll removes the named path and any children it contains.
func (t *Fs) RemoveAll(path string) error {
	return t.removeOp("removeall", path, t.base.RemoveAll)
}

func (t *Fs) removeOp(op, name string, remove func(string) error) error {
	if _, err := t.resolver.Resolve(op, name, 0, 0); err != nil {
		t.logger.LogResolve(op, name, err)
		return err
	}
	if parent, ok := parentOf(name); ok {
		if _, err := t.resolver.Resolve(op, parent, overlay.AccessWrite, overlay.CheckFaults); err != nil {
			t.logger.LogResolve(op, parent, err)
			return err
		}
	}
	return remove(name)
}

// Rename moves oldname to newname. The source's checks run before the
// target's: source removal, then source parent removal and write
// permission, then target parent removal and write permission. Each
// failure quotes the path it was detected on.
func (t *Fs) Rename(oldname, newname string) error {
	const op = "rename"
	if _, err := t.resolver.Resolve(op, oldname, 0, 0); err != nil {
		t.logger.LogResolve(op, oldname, err)
		return err
	}
	if parent, ok := parentOf(oldname); ok {
		if _, err := t.resolver.Resolve(op, parent, overlay.AccessWrite, overlay.CheckFaults); err != nil {
			t.logger.LogResolve(op, parent, err)
			return err
		}
	}
	if parent, ok := parentOf(newname); ok {
		if _, err := t.resolver.Resolve(op, parent, overlay.AccessWrite, overlay.CheckFaults); err != nil {
			t.logger.LogResolve(op, parent, err)
			return err
		}
	}
	return t.base.Rename(oldname, newname)
}

// Copy copies the content of src to dst. The source is checked for
// removal, read permission and read faults before any byte is moved;
// the target is written through the wrapped file system as-is, matching
// the delegation contract of the copy operation.
func (t *Fs) Copy(src, dst string) error {
	const op = "copy"
	if _, err := t.resolver.Resolve(op, src, overlay.AccessRead, overlay.CheckFaults); err != nil {
		t.logger.LogResolve(op, src, err)
		return err
	}

	in, err := t.base.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := t.base.Create(dst)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}

// Stat returns a FileInfo describing the named file. A removed path (or
// removed ancestor) reports a not-exist error quoting the caller's path.
func (t *Fs) Stat(name string) (os.FileInfo, error) {
	if _, err := t.resolver.Resolve("stat", name, 0, 0); err != nil {
		t.logger.LogResolve("stat", name, err)
		return nil, err
	}
	return t.base.Stat(name)
}

// StatIfExists is the non-throwing attribute lookup: a path hidden by the
// removed set yields (nil, nil) instead of an error, as the surrounding
// contract for attribute-view acquisition requires a miss indicator
// rather than a failure. All other errors pass through.
func (t *Fs) StatIfExists(name string) (os.FileInfo, error) {
	removed, err := t.resolver.Removed(name)
	if err != nil {
		return nil, err
	}
	if removed {
		return nil, nil
	}
	return t.base.Stat(name)
}

// LstatIfPossible implements afero.Lstater, applying the removed-path
// check before delegating. The boolean reports whether Lstat was actually
// called on the wrapped file system.
func (t *Fs) LstatIfPossible(name string) (os.FileInfo, bool, error) {
	if _, err := t.resolver.Resolve("lstat", name, 0, 0); err != nil {
		t.logger.LogResolve("lstat", name, err)
		return nil, false, err
	}
	if lstater, ok := t.base.(afero.Lstater); ok {
		return lstater.LstatIfPossible(name)
	}
	fi, err := t.base.Stat(name)
	return fi, false, err
}

// Chmod changes the mode of the named file.
func (t *Fs) Chmod(name string, mode os.FileMode) error {
	return t.attrOp("chmod", name, func() error { return t.base.Chmod(name, mode) })
}

// Chown changes the uid and gid of the named file.
func (t *Fs) Chown(name string, uid, gid int) error {
	return t.attrOp("chown", name, func() error { return t.base.Chown(name, uid, gid) })
}

// Chtimes changes the access and modification times of the named file.
func (t *Fs) Chtimes(name string, atime, mtime time.Time) error {
	return t.attrOp("chtimes", name, func() error { return t.base.Chtimes(name, atime, mtime) })
}

func (t *Fs) attrOp(op, name string, delegate func() error) error {
	if _, err := t.resolver.Resolve(op, name, 0, 0); err != nil {
		t.logger.LogResolve(op, name, err)
		return err
	}
	return delegate()
}

// CheckAccess probes whether the named file can be accessed with the
// given modes. A permission override on the exact path is authoritative:
// it decides without consulting the wrapped file system. Without an
// override, a native check runs against the file's real permission bits.
func (t *Fs) CheckAccess(name string, mode AccessMode) error {
	const op = "access"
	handled, err := t.resolver.Access(op, name, mode)
	if err != nil {
		t.logger.LogResolve(op, name, err)
		return err
	}
	if handled {
		return nil
	}

	fi, err := t.base.Stat(name)
	if err != nil {
		return err
	}
	if !nativeAllows(fi.Mode(), mode) {
		return &fs.PathError{Op: op, Path: name, Err: fs.ErrPermission}
	}
	return nil
}

// SameFile reports whether a and b describe the same file. No simulated
// checks apply; the answer reflects the wrapped file system.
func (t *Fs) SameFile(a, b string) (bool, error) {
	fia, err := t.base.Stat(a)
	if err != nil {
		return false, err
	}
	fib, err := t.base.Stat(b)
	if err != nil {
		return false, err
	}
	if os.SameFile(fia, fib) {
		return true, nil
	}
	// Non-OS backends have no inode identity; fall back to path identity.
	absA, err := filepath.Abs(a)
	if err != nil {
		return false, err
	}
	absB, err := filepath.Abs(b)
	if err != nil {
		return false, err
	}
	return absA == absB, nil
}

// IsHidden reports whether the named file is hidden, after the removed
// check. A removed path reports not-exist rather than false.
func (t *Fs) IsHidden(name string) (bool, error) {
	if _, err := t.resolver.Resolve("ishidden", name, 0, 0); err != nil {
		t.logger.LogResolve("ishidden", name, err)
		return false, err
	}
	base := filepath.Base(name)
	return strings.HasPrefix(base, ".") && base != "." && base != "..", nil
}

// FileStoreName returns the name of the file system store serving the
// named path, after the removed check.
func (t *Fs) FileStoreName(name string) (string, error) {
	if _, err := t.resolver.Resolve("filestore", name, 0, 0); err != nil {
		t.logger.LogResolve("filestore", name, err)
		return "", err
	}
	return t.base.Name(), nil
}

// Path constructs a virtual path value tied to this file system. Multiple
// elements are joined with the host separator; the spelling of the
// elements is preserved, so String reflects exactly what the caller
// supplied.
func (t *Fs) Path(first string, more ...string) Path {
	raw := first
	if len(more) > 0 {
		raw = strings.Join(append([]string{first}, more...), string(filepath.Separator))
	}
	return Path{raw: raw, fs: t}
}

// accessModeForFlag derives the simulated access mode from open flags:
// write, append or read-write flags imply a write check, anything else a
// read check.
func accessModeForFlag(flag int) overlay.AccessMode {
	if flag&(os.O_WRONLY|os.O_RDWR|os.O_APPEND) != 0 {
		return overlay.AccessWrite
	}
	return overlay.AccessRead
}

// nativeAllows evaluates real permission bits (owner bits, matching the
// no-owner/group/other granularity of the simulated permissions).
func nativeAllows(mode os.FileMode, req AccessMode) bool {
	perm := mode.Perm()
	if req.Has(AccessRead) && perm&0o400 == 0 {
		return false
	}
	if req.Has(AccessWrite) && perm&0o200 == 0 {
		return false
	}
	if req.Has(AccessExecute) && perm&0o100 == 0 {
		return false
	}
	return true
}

// parentOf returns the parent directory of name, or false when name has
// no parent (it is a root or a single relative segment).
func parentOf(name string) (string, bool) {
	parent := filepath.Dir(name)
	if parent == name {
		return "", false
	}
	if parent == "." && !strings.ContainsRune(name, filepath.Separator) {
		return "", false
	}
	return parent, true
}
