package testfs

import "github.com/hupe1980/testfs/internal/overlay"

// Permission is a simulated permission set for a single path: read, write
// and execute bits with no owner/group/other distinction. Bits combine
// with bitwise OR, e.g. PermRead|PermExecute for "r-x".
type Permission = overlay.Permission

// AccessMode is a set of access kinds requested by an operation or
// registered as fault triggers. Modes combine with bitwise OR.
type AccessMode = overlay.AccessMode

const (
	// PermRead allows read access.
	PermRead = overlay.PermRead
	// PermWrite allows write access.
	PermWrite = overlay.PermWrite
	// PermExecute allows execute access.
	PermExecute = overlay.PermExecute
	// PermNone denies all access.
	PermNone = overlay.PermNone
	// PermAll allows read, write and execute.
	PermAll = overlay.PermAll

	// AccessRead requests read access.
	AccessRead = overlay.AccessRead
	// AccessWrite requests write access.
	AccessWrite = overlay.AccessWrite
	// AccessExecute requests execute access.
	AccessExecute = overlay.AccessExecute
)
