// Package testfs provides a simulated overlay on top of a real file system.
//
// A test file system wraps the real file system and lets the caller
// simulate the existence, non-existence, permissions, and I/O failures of
// individual files, without touching real files. It is aimed at test
// authors who want deterministic, hermetic tests for file-dependent code
// without creating and cleaning up fixtures or standing up a full
// in-memory file system.
//
// # Quick Start
//
// An unconfigured test file system behaves exactly like the real one,
// with all reads and writes passing through:
//
//	fs, _ := testfs.New().Create()
//
// The following test file system also behaves exactly like the real one,
// except that /test/file1.log and /test/file2.log don't appear to exist,
// even if in reality they do:
//
//	fs, _ := testfs.New().
//	    RemovingFiles("/test/file1.log", "/test/file2.log").
//	    Create()
//
// Simulate a read-only temporary directory:
//
//	fs, _ := testfs.New().
//	    AlteringPermissions(os.TempDir(), testfs.PermRead|testfs.PermExecute).
//	    Create()
//
// Simulate files that exist but aren't writable, with reads delegated to
// a fixture file:
//
//	fs, _ := testfs.New().
//	    AddingFile("/test/file1.log", "testdata/my.log", testfs.PermRead|testfs.PermExecute).
//	    AddingFile("/test/file2.log", "testdata/my.log", testfs.PermRead|testfs.PermExecute).
//	    Create()
//
// Simulate a disk error on any read of a file that really exists:
//
//	fs, _ := testfs.New().
//	    ThrowingErrorOnRead("/test/flaky.dat").
//	    Create()
//
// # Behavior
//
// The returned [Fs] implements afero.Fs, so it drops into any code
// written against that abstraction. Removal is inherited: removing a
// directory hides everything beneath it, and errors always quote the
// path the caller supplied. Redirect targets are validated when declared;
// a missing target is a configuration error reported by Create. All
// simulated failures carry the same error kinds the real file system
// would produce (fs.ErrNotExist, fs.ErrPermission), except injected
// faults, which wrap [ErrFault].
//
// # Concurrency
//
// A test file system is immutable after Create and safe for concurrent
// use without locking. It adds no buffering or asynchronous behavior;
// operations block only as long as the delegated real call does.
package testfs
