package overlay

import (
	"maps"
	"path/filepath"
)

// Store holds the override tables of a test file system. All keys (and
// redirect target values) are normalized to absolute, cleaned form at
// construction, so lookups are independent of how the caller originally
// spelled a path. A Store is immutable once built.
type Store struct {
	removed map[string]struct{}
	targets map[string]string
	perms   map[string]Permission
	faults  map[string]AccessMode
}

// New builds a Store from raw, possibly relative, path declarations.
// Relative paths are resolved against the current working directory.
func New(removed []string, targets map[string]string, perms map[string]Permission, faults map[string]AccessMode) (*Store, error) {
	s := &Store{
		removed: make(map[string]struct{}, len(removed)),
		targets: make(map[string]string, len(targets)),
		perms:   make(map[string]Permission, len(perms)),
		faults:  make(map[string]AccessMode, len(faults)),
	}

	for _, p := range removed {
		abs, err := filepath.Abs(p)
		if err != nil {
			return nil, err
		}
		s.removed[abs] = struct{}{}
	}

	for p, target := range targets {
		abs, err := filepath.Abs(p)
		if err != nil {
			return nil, err
		}
		absTarget, err := filepath.Abs(target)
		if err != nil {
			return nil, err
		}
		s.targets[abs] = absTarget
	}

	for p, perm := range perms {
		abs, err := filepath.Abs(p)
		if err != nil {
			return nil, err
		}
		s.perms[abs] = perm
	}

	for p, mode := range faults {
		abs, err := filepath.Abs(p)
		if err != nil {
			return nil, err
		}
		// Different spellings of the same path merge their trigger modes.
		s.faults[abs] |= mode
	}

	return s, nil
}

// Removed reports whether the exact normalized path is in the removed set.
// Ancestor inheritance is the Resolver's job.
func (s *Store) Removed(abs string) bool {
	_, ok := s.removed[abs]
	return ok
}

// Target returns the redirect target configured for the exact normalized
// path, if any.
func (s *Store) Target(abs string) (string, bool) {
	t, ok := s.targets[abs]
	return t, ok
}

// Perm returns the simulated permission configured for the exact
// normalized path, if any.
func (s *Store) Perm(abs string) (Permission, bool) {
	p, ok := s.perms[abs]
	return p, ok
}

// Faults returns the access modes that trigger an injected failure for the
// exact normalized path, if any.
func (s *Store) Faults(abs string) (AccessMode, bool) {
	m, ok := s.faults[abs]
	return m, ok
}

// Len returns the total number of override entries, across all tables.
func (s *Store) Len() int {
	return len(s.removed) + len(s.targets) + len(s.perms) + len(s.faults)
}

// Equal reports whether two stores carry identical override configuration.
func (s *Store) Equal(other *Store) bool {
	if other == nil {
		return false
	}
	return maps.Equal(s.removed, other.removed) &&
		maps.Equal(s.targets, other.targets) &&
		maps.Equal(s.perms, other.perms) &&
		maps.Equal(s.faults, other.faults)
}
