package testfs

import (
	"path/filepath"
	"strings"
)

// Path is a virtual path value: a raw path string tied to the test file
// system that created it. Navigation operations return new Path values
// owned by the same file system; the raw spelling supplied by the caller
// is preserved, so String never reflects a redirect target or a
// normalized form.
//
// Path is a comparable value and can be used as a map key. Equality of
// two Path values is defined by their underlying raw strings; comparing a
// Path against anything that is not a Path fails with ErrForeignPath
// rather than silently reporting false.
type Path struct {
	raw string
	fs  *Fs
}

// String returns the raw path string.
func (p Path) String() string { return p.raw }

// Fs returns the test file system that created this path.
func (p Path) Fs() *Fs { return p.fs }

// IsAbs reports whether the path is absolute.
func (p Path) IsAbs() bool { return filepath.IsAbs(p.raw) }

// Abs returns the path in absolute form, resolved against the current
// working directory if relative.
func (p Path) Abs() (Path, error) {
	abs, err := filepath.Abs(p.raw)
	if err != nil {
		return Path{}, err
	}
	return Path{raw: abs, fs: p.fs}, nil
}

// Clean returns the path in lexically cleaned form.
func (p Path) Clean() Path {
	return Path{raw: filepath.Clean(p.raw), fs: p.fs}
}

// Base returns the last element of the path.
func (p Path) Base() Path {
	return Path{raw: filepath.Base(p.raw), fs: p.fs}
}

// Parent returns the parent directory of the path. The boolean is false
// when the path has no parent (a root or a single relative segment).
func (p Path) Parent() (Path, bool) {
	parent, ok := parentOf(p.raw)
	if !ok {
		return Path{}, false
	}
	return Path{raw: parent, fs: p.fs}, true
}

// Join appends elements to the path, cleaning the result.
func (p Path) Join(elem ...string) Path {
	return Path{raw: filepath.Join(append([]string{p.raw}, elem...)...), fs: p.fs}
}

// Segments returns the cleaned name elements of the path, excluding any
// root component. A root path has zero segments.
func (p Path) Segments() []string {
	clean := filepath.ToSlash(filepath.Clean(p.raw))
	if vol := filepath.VolumeName(p.raw); vol != "" {
		clean = strings.TrimPrefix(clean, filepath.ToSlash(vol))
	}
	clean = strings.TrimPrefix(clean, "/")
	if clean == "" || clean == "." {
		return nil
	}
	return strings.Split(clean, "/")
}

// SegmentCount returns the number of name elements in the path.
func (p Path) SegmentCount() int { return len(p.Segments()) }

// Equal reports whether other is a Path with the same underlying raw
// path. The owning file system does not participate in equality. A
// non-Path operand fails with ErrForeignPath.
func (p Path) Equal(other any) (bool, error) {
	o, ok := other.(Path)
	if !ok {
		return false, ErrForeignPath
	}
	return p.raw == o.raw, nil
}

// Compare lexically orders p against another Path. A non-Path operand
// fails with ErrForeignPath.
func (p Path) Compare(other any) (int, error) {
	o, ok := other.(Path)
	if !ok {
		return 0, ErrForeignPath
	}
	return strings.Compare(p.raw, o.raw), nil
}

// StartsWith reports whether the path begins with the given prefix,
// segment-wise. The operand may be a Path or a plain string; anything
// else fails with ErrForeignPath.
func (p Path) StartsWith(other any) (bool, error) {
	raw, err := rawOf(other)
	if err != nil {
		return false, err
	}
	if filepath.IsAbs(p.raw) != filepath.IsAbs(raw) {
		return false, nil
	}
	return hasSegmentPrefix(p.Segments(), segmentsOf(raw)), nil
}

// EndsWith reports whether the path ends with the given suffix,
// segment-wise. An absolute operand only matches the entire path. The
// operand may be a Path or a plain string; anything else fails with
// ErrForeignPath.
func (p Path) EndsWith(other any) (bool, error) {
	raw, err := rawOf(other)
	if err != nil {
		return false, err
	}
	if filepath.IsAbs(raw) {
		eq := filepath.Clean(p.raw) == filepath.Clean(raw)
		return eq, nil
	}
	segs, suffix := p.Segments(), segmentsOf(raw)
	if len(suffix) > len(segs) {
		return false, nil
	}
	return hasSegmentPrefix(segs[len(segs)-len(suffix):], suffix), nil
}

// Rel returns the path of other relative to p. A non-Path operand fails
// with ErrForeignPath.
func (p Path) Rel(other any) (Path, error) {
	o, ok := other.(Path)
	if !ok {
		return Path{}, ErrForeignPath
	}
	rel, err := filepath.Rel(p.raw, o.raw)
	if err != nil {
		return Path{}, err
	}
	return Path{raw: rel, fs: p.fs}, nil
}

func rawOf(other any) (string, error) {
	switch o := other.(type) {
	case Path:
		return o.raw, nil
	case string:
		return o, nil
	default:
		return "", ErrForeignPath
	}
}

func segmentsOf(raw string) []string {
	return Path{raw: raw}.Segments()
}

func hasSegmentPrefix(segs, prefix []string) bool {
	if len(prefix) > len(segs) {
		return false
	}
	for i, s := range prefix {
		if segs[i] != s {
			return false
		}
	}
	return true
}
