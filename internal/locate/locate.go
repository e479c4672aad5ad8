// Package locate finds a compiler configuration file from a reference that is
// an absolute path, a path relative to the requesting directory, or a bare
// file name searched for in the requesting directory and its ancestors.
package locate

import (
	"path/filepath"
	"regexp"
)

// Kind classifies a configuration reference.
type Kind int

const (
	// BareName is a file name searched for in ancestor directories.
	BareName Kind = iota
	// Absolute is an absolute filesystem path.
	Absolute
	// Relative is a path starting with "./" or "../" (either separator).
	Relative
)

func (k Kind) String() string {
	switch k {
	case Absolute:
		return "absolute"
	case Relative:
		return "relative"
	default:
		return "bare-name"
	}
}

var relativePattern = regexp.MustCompile(`^\.\.?[\\/]`)

// Classify returns the kind of ref.
func Classify(ref string) Kind {
	switch {
	case filepath.IsAbs(ref):
		return Absolute
	case relativePattern.MatchString(ref):
		return Relative
	default:
		return BareName
	}
}

// Exister is the part of the filesystem capability Locate needs.
type Exister interface {
	FileExists(name string) bool
}

// Locate resolves ref from requestDir. The boolean is false when no file
// matches; that is an expected outcome, not an error.
//
// Bare names are checked in requestDir and then in each parent directory
// until the parent of a directory is the directory itself.
func Locate(fs Exister, requestDir, ref string) (string, bool) {
	if ref == "" {
		return "", false
	}

	switch Classify(ref) {
	case Absolute:
		if fs.FileExists(ref) {
			return ref, true
		}
		return "", false
	case Relative:
		path := filepath.Join(requestDir, ref)
		if fs.FileExists(path) {
			return path, true
		}
		return "", false
	}

	dir := requestDir
	for {
		path := filepath.Join(dir, ref)
		if fs.FileExists(path) {
			return path, true
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", false
		}
		dir = parent
	}
}
