package overlay

import "strings"

// AccessMode is a set of access kinds requested by a file system operation.
// Modes combine with bitwise OR.
type AccessMode uint8

const (
	// AccessRead is requested when an operation reads file content or
	// enumerates a directory.
	AccessRead AccessMode = 1 << iota
	// AccessWrite is requested when an operation writes, appends, creates
	// or removes.
	AccessWrite
	// AccessExecute is requested by explicit access probes only; no
	// delegated operation implies it.
	AccessExecute
)

// Has reports whether m contains every bit of bits.
func (m AccessMode) Has(bits AccessMode) bool { return m&bits == bits }

// Intersects reports whether m shares at least one bit with other.
func (m AccessMode) Intersects(other AccessMode) bool { return m&other != 0 }

// String returns a human-readable form such as "read|write".
func (m AccessMode) String() string {
	var parts []string
	if m.Has(AccessRead) {
		parts = append(parts, "read")
	}
	if m.Has(AccessWrite) {
		parts = append(parts, "write")
	}
	if m.Has(AccessExecute) {
		parts = append(parts, "execute")
	}
	if len(parts) == 0 {
		return "none"
	}
	return strings.Join(parts, "|")
}

// Permission is a simulated permission set for a single path. It carries
// read, write and execute bits with no owner/group/other distinction,
// yielding the eight possible combinations.
type Permission uint8

const (
	// PermRead allows read access.
	PermRead Permission = 1 << iota
	// PermWrite allows write access.
	PermWrite
	// PermExecute allows execute access.
	PermExecute

	// PermNone denies all access.
	PermNone Permission = 0
	// PermAll allows read, write and execute.
	PermAll Permission = PermRead | PermWrite | PermExecute
)

// Allows reports whether every access kind in mode is granted by p.
// Permission and AccessMode share bit positions, so the check is plain
// bitwise containment.
func (p Permission) Allows(mode AccessMode) bool {
	return Permission(mode)&^p == 0
}

// String returns the familiar "rwx" notation, e.g. "r-x" for
// PermRead|PermExecute.
func (p Permission) String() string {
	b := []byte{'-', '-', '-'}
	if p&PermRead != 0 {
		b[0] = 'r'
	}
	if p&PermWrite != 0 {
		b[1] = 'w'
	}
	if p&PermExecute != 0 {
		b[2] = 'x'
	}
	return string(b)
}
