// Package hostfs provides the filesystem capability consumed while locating
// and parsing compiler configuration.
//
// Host is the fixed method set every filesystem must provide. Afero
// implements it over any afero.Fs, and Remap wraps a Host so that files
// with selected extensions are also visible under a synthetic suffixed name.
package hostfs

import (
	"os"
	"path"
	"path/filepath"
	"runtime"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/spf13/afero"
)

// Host is the read-only filesystem capability.
type Host interface {
	// FileExists reports whether name is an existing regular file.
	FileExists(name string) bool

	// ReadFile returns the contents of name. The boolean is false when the
	// file cannot be read.
	ReadFile(name string) (string, bool)

	// ReadDirectory lists files below rootDir. Only files whose name ends
	// with one of extensions are returned; an empty extension list returns
	// every file. excludes and includes are glob patterns relative to
	// rootDir. depth limits how many directory levels are descended; zero
	// means unlimited.
	ReadDirectory(rootDir string, extensions, excludes, includes []string, depth int) []string

	// UseCaseSensitiveFileNames reports the case-sensitivity policy of the
	// underlying filesystem.
	UseCaseSensitiveFileNames() bool
}

// Afero is a Host backed by an afero.Fs.
type Afero struct {
	fs            afero.Fs
	caseSensitive bool
}

// NewAfero returns a Host reading from fs.
func NewAfero(fs afero.Fs, caseSensitive bool) *Afero {
	return &Afero{fs: fs, caseSensitive: caseSensitive}
}

// NewOS returns a Host reading from the operating system filesystem.
func NewOS() *Afero {
	return NewAfero(afero.NewOsFs(), runtime.GOOS != "windows" && runtime.GOOS != "darwin")
}

func (a *Afero) FileExists(name string) bool {
	info, err := a.fs.Stat(name)
	if err != nil {
		return false
	}
	return !info.IsDir()
}

func (a *Afero) ReadFile(name string) (string, bool) {
	data, err := afero.ReadFile(a.fs, name)
	if err != nil {
		return "", false
	}
	return string(data), true
}

func (a *Afero) UseCaseSensitiveFileNames() bool {
	return a.caseSensitive
}

func (a *Afero) ReadDirectory(rootDir string, extensions, excludes, includes []string, depth int) []string {
	m := newMatcher(rootDir, excludes, includes, a.caseSensitive)

	var files []string
	seen := make(map[string]bool)
	for _, base := range m.roots {
		// Walk errors only cover unreadable entries; those are skipped the
		// same way a missing root yields an empty listing.
		_ = afero.Walk(a.fs, base, func(path string, info os.FileInfo, err error) error {
			if err != nil {
				if info != nil && info.IsDir() {
					return filepath.SkipDir
				}
				return nil
			}
			rel, relErr := filepath.Rel(base, path)
			if relErr != nil {
				return nil
			}
			rel = filepath.ToSlash(rel)
			slashed := filepath.ToSlash(path)

			if info.IsDir() {
				if rel == "." {
					return nil
				}
				if m.excluded(slashed) {
					return filepath.SkipDir
				}
				if depth > 0 && strings.Count(rel, "/")+1 > depth {
					return filepath.SkipDir
				}
				return nil
			}

			if seen[path] || !hasExtension(info.Name(), extensions, a.caseSensitive) {
				return nil
			}
			if m.excluded(slashed) || !m.included(slashed) {
				return nil
			}
			seen[path] = true
			files = append(files, path)
			return nil
		})
	}
	return files
}

func hasExtension(name string, extensions []string, caseSensitive bool) bool {
	if len(extensions) == 0 {
		return true
	}
	if !caseSensitive {
		name = strings.ToLower(name)
	}
	for _, ext := range extensions {
		if !caseSensitive {
			ext = strings.ToLower(ext)
		}
		if strings.HasSuffix(name, ext) {
			return true
		}
	}
	return false
}

// matcher evaluates include and exclude specs against slash-separated
// paths. roots are the directories to walk: the listing root followed by
// the base directory of every include that lies outside it.
type matcher struct {
	includes      []string
	excludes      []string
	roots         []string
	caseSensitive bool
}

func newMatcher(rootDir string, excludes, includes []string, caseSensitive bool) matcher {
	rootDir = filepath.Clean(rootDir)
	m := matcher{caseSensitive: caseSensitive, roots: []string{rootDir}}
	root := filepath.ToSlash(rootDir)

	var external []string
	for _, spec := range includes {
		pattern := normalizeSpec(rootDir, spec, true)
		m.includes = append(m.includes, m.fold(pattern))
		if base := includeBase(pattern); !m.within(root, base) {
			external = append(external, base)
		}
	}
	for _, spec := range excludes {
		m.excludes = append(m.excludes, m.fold(normalizeSpec(rootDir, spec, false)))
	}

	sort.Strings(external)
	var kept []string
	for _, base := range external {
		if len(kept) > 0 && m.within(kept[len(kept)-1], base) {
			continue
		}
		kept = append(kept, base)
		m.roots = append(m.roots, filepath.FromSlash(base))
	}
	return m
}

// normalizeSpec resolves spec against rootDir and makes it slash-separated.
// An include spec naming a directory without wildcards selects everything
// below it.
func normalizeSpec(rootDir, spec string, include bool) string {
	if !filepath.IsAbs(spec) {
		spec = filepath.Join(rootDir, spec)
	}
	spec = filepath.ToSlash(filepath.Clean(spec))
	if include {
		last := spec[strings.LastIndex(spec, "/")+1:]
		if !hasWildcard(last) && filepath.Ext(last) == "" {
			spec = strings.TrimSuffix(spec, "/") + "/**/*"
		}
	}
	return spec
}

func hasWildcard(s string) bool {
	return strings.ContainsAny(s, "*?[{")
}

// includeBase returns the directory an include pattern starts matching in:
// the segments before the first one holding a wildcard, or the parent of a
// plain file name.
func includeBase(pattern string) string {
	segments := strings.Split(pattern, "/")
	for i, seg := range segments {
		if hasWildcard(seg) {
			if i == 1 && segments[0] == "" {
				return "/"
			}
			return strings.Join(segments[:i], "/")
		}
	}
	return path.Dir(pattern)
}

// within reports whether p is dir or lies below it.
func (m matcher) within(dir, p string) bool {
	dir, p = m.fold(dir), m.fold(p)
	if p == dir {
		return true
	}
	return strings.HasPrefix(p, strings.TrimSuffix(dir, "/")+"/")
}

func (m matcher) fold(name string) string {
	if m.caseSensitive {
		return name
	}
	return strings.ToLower(name)
}

func (m matcher) included(name string) bool {
	if len(m.includes) == 0 {
		return true
	}
	name = m.fold(name)
	for _, pattern := range m.includes {
		if ok, _ := doublestar.Match(pattern, name); ok {
			return true
		}
	}
	return false
}

func (m matcher) excluded(name string) bool {
	name = m.fold(name)
	for _, pattern := range m.excludes {
		if ok, _ := doublestar.Match(pattern, name); ok {
			return true
		}
		if ok, _ := doublestar.Match(pattern+"/**", name); ok {
			return true
		}
	}
	return false
}
