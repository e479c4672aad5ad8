package hostfs

import (
	"path/filepath"
	"strings"
)

// RewriteRule makes files whose extension is one of Extensions addressable
// under an additional synthetic name formed by appending Suffix. The rule
// {Suffix: ".ts", Extensions: [".vue"]} exposes App.vue as App.vue.ts.
type RewriteRule struct {
	Suffix     string   `json:"suffix" toml:"suffix"`
	Extensions []string `json:"extensions" toml:"extensions"`
}

func (r RewriteRule) applies(name string, caseSensitive bool) bool {
	if r.Suffix == "" {
		return false
	}
	ext := filepath.Ext(name)
	for _, e := range r.Extensions {
		if ext == e || (!caseSensitive && strings.EqualFold(ext, e)) {
			return true
		}
	}
	return false
}

// Remap wraps base so that synthetic names produced by rules resolve to the
// real files behind them. Without rules base is returned unchanged.
func Remap(base Host, rules ...RewriteRule) Host {
	if len(rules) == 0 {
		return base
	}
	return &remapHost{
		base:          base,
		rules:         rules,
		caseSensitive: base.UseCaseSensitiveFileNames(),
	}
}

type remapHost struct {
	base          Host
	rules         []RewriteRule
	caseSensitive bool
}

// real maps a synthetic name back to the file it was derived from.
func (h *remapHost) real(name string) string {
	for _, r := range h.rules {
		if r.Suffix == "" || !strings.HasSuffix(name, r.Suffix) {
			continue
		}
		if trimmed := strings.TrimSuffix(name, r.Suffix); r.applies(trimmed, h.caseSensitive) {
			return trimmed
		}
	}
	return name
}

// synthetic maps a real name to its rewritten identity.
func (h *remapHost) synthetic(name string) string {
	for _, r := range h.rules {
		if r.applies(name, h.caseSensitive) {
			return name + r.Suffix
		}
	}
	return name
}

func (h *remapHost) FileExists(name string) bool {
	return h.base.FileExists(h.real(name))
}

func (h *remapHost) ReadFile(name string) (string, bool) {
	return h.base.ReadFile(h.real(name))
}

func (h *remapHost) UseCaseSensitiveFileNames() bool {
	return h.caseSensitive
}

// ReadDirectory lists rootDir twice. The base host filters on real names,
// so the first pass, without an extension filter, finds which real
// extensions produce a requested synthetic extension; the second pass asks
// for those too.
func (h *remapHost) ReadDirectory(rootDir string, extensions, excludes, includes []string, depth int) []string {
	var extra []string
	for _, name := range h.base.ReadDirectory(rootDir, nil, excludes, includes, depth) {
		rewritten := h.synthetic(name)
		if rewritten == name || !containsExt(extensions, filepath.Ext(rewritten)) {
			continue
		}
		if ext := filepath.Ext(name); !containsExt(extensions, ext) && !containsExt(extra, ext) {
			extra = append(extra, ext)
		}
	}

	requested := extensions
	if len(extra) > 0 {
		requested = make([]string, 0, len(extensions)+len(extra))
		requested = append(requested, extensions...)
		requested = append(requested, extra...)
	}

	found := h.base.ReadDirectory(rootDir, requested, excludes, includes, depth)
	names := make([]string, len(found))
	for i, name := range found {
		names[i] = h.synthetic(name)
	}
	return names
}

func containsExt(exts []string, ext string) bool {
	for _, e := range exts {
		if e == ext {
			return true
		}
	}
	return false
}
