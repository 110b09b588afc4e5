package testfs

import (
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"
)

func writeReal(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func requirePathErr(t *testing.T, err error, path string, cause error) {
	t.Helper()
	var pe *fs.PathError
	require.ErrorAs(t, err, &pe)
	require.Equal(t, path, pe.Path)
	require.ErrorIs(t, err, cause)
}

func TestFs_PassThrough(t *testing.T) {
	dir := t.TempDir()
	real := writeReal(t, dir, "plain.txt", "pass through")

	tfs := New().MustCreate()

	content, err := afero.ReadFile(tfs, real)
	require.NoError(t, err)
	require.Equal(t, "pass through", string(content))

	fi, err := tfs.Stat(real)
	require.NoError(t, err)
	require.Equal(t, int64(len("pass through")), fi.Size())
}

func TestFs_RemovedFile(t *testing.T) {
	dir := t.TempDir()
	real := writeReal(t, dir, "a.log", "still here on disk")

	tfs := New().RemovingFiles(real).MustCreate()

	_, err := tfs.Open(real)
	require.True(t, os.IsNotExist(err))
	requirePathErr(t, err, real, fs.ErrNotExist)

	_, err = tfs.Stat(real)
	require.True(t, os.IsNotExist(err))

	// The real file is untouched.
	_, err = os.Stat(real)
	require.NoError(t, err)
}

func TestFs_RemovedDirectoryHidesDescendants(t *testing.T) {
	dir := t.TempDir()
	sub := filepath.Join(dir, "sub")
	require.NoError(t, os.MkdirAll(filepath.Join(sub, "deep"), 0o755))
	leaf := writeReal(t, filepath.Join(sub, "deep"), "a.log", "data")

	tfs := New().RemovingFiles(sub).MustCreate()

	// The error quotes the descendant, not the removed ancestor.
	_, err := tfs.Open(leaf)
	requirePathErr(t, err, leaf, fs.ErrNotExist)

	_, err = tfs.Stat(leaf)
	requirePathErr(t, err, leaf, fs.ErrNotExist)

	// Siblings outside the removed subtree still resolve.
	other := writeReal(t, dir, "other.log", "visible")
	fi, err := tfs.Stat(other)
	require.NoError(t, err)
	require.Equal(t, int64(len("visible")), fi.Size())
}

func TestFs_AddingFileRedirect(t *testing.T) {
	dir := t.TempDir()
	target := writeReal(t, dir, "sample.txt", "redirected content")
	virtual := filepath.Join(dir, "virtual.log") // never created on disk

	tfs := New().AddingFile(virtual, target).MustCreate()

	f, err := tfs.Open(virtual)
	require.NoError(t, err)
	defer f.Close()

	// Content comes from the target; the name stays virtual.
	content, err := io.ReadAll(f)
	require.NoError(t, err)
	require.Equal(t, "redirected content", string(content))
	require.Equal(t, virtual, f.Name())
}

func TestFs_AddingFileReadOnly(t *testing.T) {
	dir := t.TempDir()
	target := writeReal(t, dir, "sample.txt", "fixture")
	virtual := filepath.Join(dir, "b.log")

	tfs := New().AddingFile(virtual, target, PermRead|PermExecute).MustCreate()

	content, err := afero.ReadFile(tfs, virtual)
	require.NoError(t, err)
	require.Equal(t, "fixture", string(content))

	_, err = tfs.OpenFile(virtual, os.O_WRONLY, 0o644)
	require.True(t, os.IsPermission(err))
	requirePathErr(t, err, virtual, fs.ErrPermission)

	// Append implies a write check too.
	_, err = tfs.OpenFile(virtual, os.O_APPEND, 0o644)
	require.True(t, os.IsPermission(err))

	_, err = tfs.Create(virtual)
	require.True(t, os.IsPermission(err))
}

func TestFs_AlteringPermissions(t *testing.T) {
	dir := t.TempDir()
	real := writeReal(t, dir, "locked.txt", "cannot touch this")

	tfs := New().AlteringPermissions(real, PermNone).MustCreate()

	_, err := tfs.Open(real)
	require.True(t, os.IsPermission(err))

	_, err = tfs.OpenFile(real, os.O_RDWR, 0o644)
	require.True(t, os.IsPermission(err))

	// Metadata is unaffected: permissions gate content access only here.
	_, err = tfs.Stat(real)
	require.NoError(t, err)
}

func TestFs_FaultInjectionModeSpecific(t *testing.T) {
	dir := t.TempDir()
	real := writeReal(t, dir, "flaky.dat", "ok")

	tfs := New().ThrowingErrorOnRead(real).MustCreate()

	_, err := tfs.Open(real)
	require.ErrorIs(t, err, ErrFault)
	requirePathErr(t, err, real, ErrFault)

	// Read-only fault leaves writes alone.
	f, err := tfs.OpenFile(real, os.O_WRONLY, 0o644)
	require.NoError(t, err)
	require.NoError(t, f.Close())

	// And vice versa.
	tfs = New().ThrowingErrorOnWrite(real).MustCreate()

	_, err = tfs.OpenFile(real, os.O_WRONLY, 0o644)
	require.ErrorIs(t, err, ErrFault)

	content, err := afero.ReadFile(tfs, real)
	require.NoError(t, err)
	require.Equal(t, "ok", string(content))
}

func TestFs_FaultOnBothModes(t *testing.T) {
	dir := t.TempDir()
	real := writeReal(t, dir, "flaky.dat", "ok")

	tfs := New().
		ThrowingErrorOnRead(real).
		ThrowingErrorOnWrite(real).
		MustCreate()

	_, err := tfs.Open(real)
	require.ErrorIs(t, err, ErrFault)
	_, err = tfs.Create(real)
	require.ErrorIs(t, err, ErrFault)
}

func TestFs_DirectoryEnumeration(t *testing.T) {
	dir := t.TempDir()
	writeReal(t, dir, "one.txt", "1")
	writeReal(t, dir, "two.txt", "2")

	tfs := New().MustCreate()
	infos, err := afero.ReadDir(tfs, dir)
	require.NoError(t, err)
	require.Len(t, infos, 2)

	// Enumerating a directory is a read; a write-only override blocks it.
	tfs = New().AlteringPermissions(dir, PermWrite).MustCreate()
	_, err = afero.ReadDir(tfs, dir)
	require.True(t, os.IsPermission(err))

	// A removed directory cannot be enumerated at all.
	tfs = New().RemovingFiles(dir).MustCreate()
	_, err = afero.ReadDir(tfs, dir)
	require.True(t, os.IsNotExist(err))
}

func TestFs_MkdirParentChecks(t *testing.T) {
	dir := t.TempDir()

	tfs := New().AlteringPermissions(dir, PermRead|PermExecute).MustCreate()

	// The parent is unwritable; the error quotes the parent's path.
	err := tfs.Mkdir(filepath.Join(dir, "sub"), 0o755)
	requirePathErr(t, err, dir, fs.ErrPermission)

	err = tfs.MkdirAll(filepath.Join(dir, "sub"), 0o755)
	requirePathErr(t, err, dir, fs.ErrPermission)

	// A removed parent reports not-exist, quoting the parent.
	tfs = New().RemovingFiles(dir).MustCreate()
	err = tfs.Mkdir(filepath.Join(dir, "sub"), 0o755)
	require.True(t, os.IsNotExist(err))
}

func TestFs_RemoveChecks(t *testing.T) {
	dir := t.TempDir()
	real := writeReal(t, dir, "victim.txt", "data")

	// Removed path: reported on the path itself.
	tfs := New().RemovingFiles(real).MustCreate()
	err := tfs.Remove(real)
	requirePathErr(t, err, real, fs.ErrNotExist)

	// Unwritable parent: reported on the parent.
	tfs = New().AlteringPermissions(dir, PermRead|PermExecute).MustCreate()
	err = tfs.Remove(real)
	requirePathErr(t, err, dir, fs.ErrPermission)

	// No overrides: the delete goes through.
	tfs = New().MustCreate()
	require.NoError(t, tfs.Remove(real))
	_, err = os.Stat(real)
	require.True(t, os.IsNotExist(err))
}

func TestFs_RenameSourceCheckedBeforeTarget(t *testing.T) {
	srcDir := t.TempDir()
	dstDir := t.TempDir()
	src := writeReal(t, srcDir, "src.txt", "data")
	dst := filepath.Join(dstDir, "dst.txt")

	// Unwritable target parent: reported with the target parent's path.
	tfs := New().AlteringPermissions(dstDir, PermRead|PermExecute).MustCreate()
	err := tfs.Rename(src, dst)
	requirePathErr(t, err, dstDir, fs.ErrPermission)

	// When the source is removed AND the target parent is unwritable, the
	// source check wins and the error quotes the source.
	tfs = New().
		RemovingFiles(src).
		AlteringPermissions(dstDir, PermRead|PermExecute).
		MustCreate()
	err = tfs.Rename(src, dst)
	requirePathErr(t, err, src, fs.ErrNotExist)

	// Unwritable source parent beats the target parent check.
	tfs = New().
		AlteringPermissions(srcDir, PermRead|PermExecute).
		AlteringPermissions(dstDir, PermRead|PermExecute).
		MustCreate()
	err = tfs.Rename(src, dst)
	requirePathErr(t, err, srcDir, fs.ErrPermission)

	// No overrides: the move succeeds.
	tfs = New().MustCreate()
	require.NoError(t, tfs.Rename(src, dst))
	_, err = os.Stat(dst)
	require.NoError(t, err)
}

func TestFs_CopySourceChecks(t *testing.T) {
	dir := t.TempDir()
	src := writeReal(t, dir, "src.txt", "copy me")
	dst := filepath.Join(dir, "dst.txt")

	tfs := New().ThrowingErrorOnRead(src).MustCreate()
	err := tfs.Copy(src, dst)
	require.ErrorIs(t, err, ErrFault)
	requirePathErr(t, err, src, ErrFault)

	tfs = New().AlteringPermissions(src, PermWrite).MustCreate()
	err = tfs.Copy(src, dst)
	requirePathErr(t, err, src, fs.ErrPermission)

	tfs = New().MustCreate()
	require.NoError(t, tfs.Copy(src, dst))
	content, err := os.ReadFile(dst)
	require.NoError(t, err)
	require.Equal(t, "copy me", string(content))
}

func TestFs_CheckAccess(t *testing.T) {
	dir := t.TempDir()
	real := writeReal(t, dir, "probe.txt", "data")

	// Override hit is authoritative: write is allowed even though the
	// simulated file is the probe target, and read is denied even though
	// the real file is readable.
	tfs := New().AlteringPermissions(real, PermWrite).MustCreate()
	require.NoError(t, tfs.CheckAccess(real, AccessWrite))

	err := tfs.CheckAccess(real, AccessRead)
	requirePathErr(t, err, real, fs.ErrPermission)

	// Miss falls through to the native permission bits.
	tfs = New().MustCreate()
	require.NoError(t, os.Chmod(real, 0o400))
	require.NoError(t, tfs.CheckAccess(real, AccessRead))
	err = tfs.CheckAccess(real, AccessWrite)
	requirePathErr(t, err, real, fs.ErrPermission)

	// Removed paths probe as missing.
	tfs = New().RemovingFiles(real).MustCreate()
	err = tfs.CheckAccess(real, AccessRead)
	require.True(t, os.IsNotExist(err))
}

func TestFs_StatIfExists(t *testing.T) {
	dir := t.TempDir()
	real := writeReal(t, dir, "attrs.txt", "data")

	// Removed: a non-throwing miss, not an error.
	tfs := New().RemovingFiles(real).MustCreate()
	fi, err := tfs.StatIfExists(real)
	require.NoError(t, err)
	require.Nil(t, fi)

	// Present: attributes come through.
	tfs = New().MustCreate()
	fi, err = tfs.StatIfExists(real)
	require.NoError(t, err)
	require.NotNil(t, fi)
	require.Equal(t, int64(4), fi.Size())

	// Genuinely missing (not simulated): the real error propagates.
	_, err = tfs.StatIfExists(filepath.Join(dir, "never-there.txt"))
	require.Error(t, err)
}

func TestFs_LstatIfPossible(t *testing.T) {
	dir := t.TempDir()
	real := writeReal(t, dir, "l.txt", "data")

	tfs := New().RemovingFiles(real).MustCreate()
	_, _, err := tfs.LstatIfPossible(real)
	requirePathErr(t, err, real, fs.ErrNotExist)

	tfs = New().MustCreate()
	fi, lstatCalled, err := tfs.LstatIfPossible(real)
	require.NoError(t, err)
	require.NotNil(t, fi)
	require.True(t, lstatCalled)
}

func TestFs_AttributeWritesRespectRemoval(t *testing.T) {
	dir := t.TempDir()
	real := writeReal(t, dir, "attrs.txt", "data")

	tfs := New().RemovingFiles(real).MustCreate()

	err := tfs.Chmod(real, 0o600)
	requirePathErr(t, err, real, fs.ErrNotExist)

	err = tfs.Chtimes(real, time.Time{}, time.Time{})
	requirePathErr(t, err, real, fs.ErrNotExist)
}

func TestFs_IsHidden(t *testing.T) {
	dir := t.TempDir()
	hidden := writeReal(t, dir, ".secret", "boo")
	plain := writeReal(t, dir, "plain.txt", "data")

	tfs := New().MustCreate()

	got, err := tfs.IsHidden(hidden)
	require.NoError(t, err)
	require.True(t, got)

	got, err = tfs.IsHidden(plain)
	require.NoError(t, err)
	require.False(t, got)

	tfs = New().RemovingFiles(hidden).MustCreate()
	_, err = tfs.IsHidden(hidden)
	require.True(t, os.IsNotExist(err))
}

func TestFs_FileStoreName(t *testing.T) {
	dir := t.TempDir()
	real := writeReal(t, dir, "stored.txt", "data")

	tfs := New().MustCreate()
	name, err := tfs.FileStoreName(real)
	require.NoError(t, err)
	require.NotEmpty(t, name)

	tfs = New().RemovingFiles(real).MustCreate()
	_, err = tfs.FileStoreName(real)
	require.True(t, os.IsNotExist(err))
}

func TestFs_SameFile(t *testing.T) {
	dir := t.TempDir()
	real := writeReal(t, dir, "same.txt", "data")
	other := writeReal(t, dir, "other.txt", "data")

	tfs := New().MustCreate()

	same, err := tfs.SameFile(real, real)
	require.NoError(t, err)
	require.True(t, same)

	same, err = tfs.SameFile(real, other)
	require.NoError(t, err)
	require.False(t, same)
}

func TestFs_EqualityIsConfigurationBased(t *testing.T) {
	// Two separately built empty overlays wrap independently obtained OS
	// file systems, yet compare equal.
	fs1 := New().MustCreate()
	fs2 := New().MustCreate()
	require.True(t, fs1.Equal(fs2))
	require.True(t, fs2.Equal(fs1))
	require.False(t, fs1.Equal(nil))

	// Differing configuration breaks equality.
	fs3 := New().RemovingFiles("/test/a.log").MustCreate()
	require.False(t, fs1.Equal(fs3))

	// Identical configuration restores it, regardless of spelling.
	fs4 := New().RemovingFiles("/test/sub/../a.log").MustCreate()
	require.True(t, fs3.Equal(fs4))

	// A different kind of base file system never compares equal.
	fs5 := New().Base(afero.NewMemMapFs()).MustCreate()
	require.False(t, fs1.Equal(fs5))
}

func TestFs_MemMapBaseScenario(t *testing.T) {
	// The fully hermetic variant: a fake real backend injected into the
	// builder, per the concrete scenario in the docs.
	mem := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(mem, "/real/sample.txt", []byte("sample bytes"), 0o644))

	tfs := New().
		Base(mem).
		RemovingFiles("/test/a.log").
		AddingFile("/test/b.log", "/real/sample.txt", PermRead|PermExecute).
		MustCreate()

	_, err := tfs.Open("/test/a.log")
	require.True(t, os.IsNotExist(err))
	require.Contains(t, err.Error(), "/test/a.log")

	content, err := afero.ReadFile(tfs, "/test/b.log")
	require.NoError(t, err)
	require.Equal(t, "sample bytes", string(content))

	_, err = tfs.OpenFile("/test/b.log", os.O_WRONLY, 0o644)
	require.True(t, os.IsPermission(err))
	require.Contains(t, err.Error(), "/test/b.log")
}

func TestFs_Watch(t *testing.T) {
	dir := t.TempDir()

	tfs := New().MustCreate()

	w, err := tfs.Watch(dir)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	// Registration of a missing real path fails like the real watcher.
	_, err = tfs.Watch(filepath.Join(dir, "never-there"))
	require.Error(t, err)
}
