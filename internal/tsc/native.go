package tsc

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/tidwall/jsonc"

	"github.com/sfc-tools/tsconf/internal/hostfs"
	"github.com/sfc-tools/tsconf/internal/locate"
)

// DefaultVersion is the compiler version Native reports when none is given.
const DefaultVersion = "5.4.5"

var (
	// pathOptions are resolved against the directory of the configuration
	// file that declares them.
	pathOptions = []string{"baseUrl", "declarationDir", "outDir", "outFile", "rootDir", "tsBuildInfoFile"}
	// pathListOptions are resolved element-wise.
	pathListOptions = []string{"rootDirs", "typeRoots"}

	defaultInclude  = []string{"**/*"}
	defaultExcludes = []string{"node_modules", "bower_components", "jspm_packages"}
)

// Native implements Compiler.
type Native struct {
	version string
}

// NewNative returns a Native reporting version, or DefaultVersion when
// version is empty.
func NewNative(version string) *Native {
	if version == "" {
		version = DefaultVersion
	}
	return &Native{version: version}
}

func (n *Native) Version() string {
	return n.version
}

func (n *Native) ReadConfigFile(path string, readFile func(string) (string, bool)) (RawConfig, *Diagnostic) {
	text, ok := readFile(path)
	if !ok {
		d := errorf(CodeCannotReadFile, "", "Cannot read file '%s'.", path)
		return DefaultRawConfig(), &d
	}
	raw, err := parseConfigText(text)
	if err != nil {
		d := errorf(CodeFailedToParseFile, path, "Failed to parse file '%s': %s.", path, err)
		return DefaultRawConfig(), &d
	}
	return raw, nil
}

// parseConfigText decodes JSON with comments and trailing commas.
func parseConfigText(text string) (RawConfig, error) {
	var raw RawConfig
	data := jsonc.ToJSON([]byte(text))
	if strings.TrimSpace(string(data)) != "" {
		if err := json.Unmarshal(data, &raw); err != nil {
			return RawConfig{}, err
		}
	}
	if raw.CompilerOptions == nil {
		raw.CompilerOptions = Options{}
	}
	return raw, nil
}

func (n *Native) ParseJSONConfigFileContent(raw RawConfig, host hostfs.Host, basePath, configFileName string) ParsedConfig {
	p := &configParser{host: host, visited: make(map[string]bool)}
	if configFileName != "" {
		p.visited[filepath.Clean(configFileName)] = true
	}

	effective := p.resolveExtends(raw, basePath)
	options := absolutizeOptions(effective.CompilerOptions, basePath)

	return ParsedConfig{
		Options:   options,
		FileNames: p.expandFiles(effective, options, basePath, configFileName),
		Raw:       raw,
		Errors:    p.errors,
	}
}

type configParser struct {
	host    hostfs.Host
	visited map[string]bool
	errors  []Diagnostic
}

// resolveExtends folds the chain of extended configurations into raw. Base
// options are overlaid key by key; files, include and exclude are inherited
// only when raw leaves them out.
func (p *configParser) resolveExtends(raw RawConfig, dir string) RawConfig {
	own := raw
	own.CompilerOptions = absolutizeOptions(raw.CompilerOptions, dir)
	if raw.Extends == "" {
		return own
	}

	path, ok := p.extendedPath(raw.Extends, dir)
	if !ok {
		p.errors = append(p.errors, errorf(CodeFileNotFound, "", "File '%s' not found.", raw.Extends))
		return own
	}
	if p.visited[path] {
		p.errors = append(p.errors, errorf(CodeCircularExtends, "", "Circularity detected while resolving configuration: %s", path))
		return own
	}
	p.visited[path] = true

	text, ok := p.host.ReadFile(path)
	if !ok {
		p.errors = append(p.errors, errorf(CodeCannotReadFile, "", "Cannot read file '%s'.", path))
		return own
	}
	baseRaw, err := parseConfigText(text)
	if err != nil {
		p.errors = append(p.errors, errorf(CodeFailedToParseFile, path, "Failed to parse file '%s': %s.", path, err))
		return own
	}

	baseDir := filepath.Dir(path)
	base := p.resolveExtends(baseRaw, baseDir)

	merged := base.CompilerOptions.Clone()
	for k, v := range own.CompilerOptions {
		merged[k] = v
	}
	own.CompilerOptions = merged
	if own.Files == nil {
		own.Files = rebase(base.Files, baseDir)
	}
	if own.Include == nil {
		own.Include = rebase(base.Include, baseDir)
	}
	if own.Exclude == nil {
		own.Exclude = rebase(base.Exclude, baseDir)
	}
	return own
}

// extendedPath resolves an "extends" value. Relative and absolute values
// name a file, with ".json" appended when missing; anything else is looked
// up in node_modules of dir and its ancestors.
func (p *configParser) extendedPath(ref, dir string) (string, bool) {
	if locate.Classify(ref) != locate.BareName {
		if !strings.HasSuffix(ref, ".json") {
			ref += ".json"
		}
		return locate.Locate(p.host, dir, ref)
	}

	candidates := []string{ref}
	if !strings.HasSuffix(ref, ".json") {
		candidates = append(candidates, ref+".json", filepath.Join(ref, "tsconfig.json"))
	}
	for _, c := range candidates {
		if path, ok := locate.Locate(p.host, dir, filepath.Join("node_modules", c)); ok {
			return path, true
		}
	}
	return "", false
}

func (p *configParser) expandFiles(cfg RawConfig, options Options, basePath, configFileName string) []string {
	var names []string
	seen := make(map[string]bool)
	add := func(name string) {
		if !seen[name] {
			seen[name] = true
			names = append(names, name)
		}
	}

	for _, f := range cfg.Files {
		add(absolute(basePath, f))
	}

	include := cfg.Include
	if cfg.Files == nil && include == nil {
		include = defaultInclude
	}
	exclude := cfg.Exclude
	if exclude == nil {
		exclude = append([]string(nil), defaultExcludes...)
		if outDir, ok := options["outDir"].(string); ok && outDir != "" {
			exclude = append(exclude, outDir)
		}
	}

	if len(include) > 0 {
		for _, name := range p.host.ReadDirectory(basePath, supportedExtensions(options), exclude, include, 0) {
			add(name)
		}
	}

	if len(names) > 0 {
		return names
	}

	name := configFileName
	if name == "" {
		name = "tsconfig.json"
	}
	switch {
	case cfg.Files != nil && len(cfg.Files) == 0 && cfg.Include == nil:
		if configFileName != "" {
			p.errors = append(p.errors, errorf(CodeEmptyFilesList, configFileName, "The 'files' list in config file '%s' is empty.", configFileName))
		}
	case len(include) > 0:
		p.errors = append(p.errors, errorf(CodeNoInputsFound, configFileName,
			"No inputs were found in config file '%s'. Specified 'include' paths were '%s' and 'exclude' paths were '%s'.",
			name, jsonList(include), jsonList(exclude)))
	}
	return []string{}
}

func supportedExtensions(options Options) []string {
	exts := []string{".ts", ".tsx", ".d.ts"}
	if allowJs, _ := options["allowJs"].(bool); allowJs {
		exts = append(exts, ".js", ".jsx")
	}
	return exts
}

// absolutizeOptions returns a copy of options with path-valued options made
// absolute against dir.
func absolutizeOptions(options Options, dir string) Options {
	out := options.Clone()
	for _, key := range pathOptions {
		if v, ok := out[key].(string); ok && v != "" {
			out[key] = absolute(dir, v)
		}
	}
	for _, key := range pathListOptions {
		list, ok := out[key].([]any)
		if !ok {
			continue
		}
		resolved := make([]any, len(list))
		for i, item := range list {
			if s, ok := item.(string); ok {
				resolved[i] = absolute(dir, s)
			} else {
				resolved[i] = item
			}
		}
		out[key] = resolved
	}
	return out
}

func absolute(dir, path string) string {
	if filepath.IsAbs(path) {
		return filepath.Clean(path)
	}
	return filepath.Join(dir, path)
}

func rebase(specs []string, dir string) []string {
	if specs == nil {
		return nil
	}
	out := make([]string, len(specs))
	for i, s := range specs {
		out[i] = absolute(dir, s)
	}
	return out
}

func jsonList(list []string) string {
	data, err := json.Marshal(list)
	if err != nil {
		return fmt.Sprint(list)
	}
	return string(data)
}
