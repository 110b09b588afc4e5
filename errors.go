package testfs

import (
	"errors"
	"fmt"

	"github.com/hupe1980/testfs/internal/overlay"
)

var (
	// ErrFault is the cause carried by injected I/O failures. Simulated
	// failures surface as *fs.PathError values wrapping this sentinel, so
	// they read as generic I/O errors rather than not-exist or permission
	// conditions.
	ErrFault = overlay.ErrFault

	// ErrForeignPath is returned when a path comparison receives an
	// operand that is not a [Path]. Crossing the abstraction boundary is
	// reported instead of silently comparing unequal.
	ErrForeignPath = errors.New("operand is not a test file system path")
)

// ErrMissingTarget indicates that a simulated file declares a redirect
// target that does not exist in the real file system. Targets are
// validated at declaration time; this is a configuration error, not a
// runtime one.
//
// The original underlying error (if any) can be accessed via errors.Unwrap.
type ErrMissingTarget struct {
	Target string
	cause  error
}

func (e *ErrMissingTarget) Error() string {
	return fmt.Sprintf("%s must exist, but does not", e.Target)
}

func (e *ErrMissingTarget) Unwrap() error { return e.cause }
