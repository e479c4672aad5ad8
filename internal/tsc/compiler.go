// Package tsc describes the host compiler capability used to read and expand
// compiler configuration, and provides Native, an implementation that
// follows the host compiler's configuration contract without any of its
// type-checking machinery.
package tsc

import (
	"github.com/sfc-tools/tsconf/internal/hostfs"
)

// Options holds compiler options keyed by their configuration-file name.
type Options map[string]any

// Clone returns a shallow copy of o. Nested values are shared.
func (o Options) Clone() Options {
	c := make(Options, len(o))
	for k, v := range o {
		c[k] = v
	}
	return c
}

// RawConfig is a configuration file's content before validation and
// expansion. A nil Files means the key was absent; an empty non-nil slice
// means it was given as [].
type RawConfig struct {
	CompilerOptions Options  `json:"compilerOptions"`
	Files           []string `json:"files"`
	Include         []string `json:"include,omitempty"`
	Exclude         []string `json:"exclude,omitempty"`
	Extends         string   `json:"extends,omitempty"`
}

// DefaultRawConfig is the configuration used when no file is found.
func DefaultRawConfig() RawConfig {
	return RawConfig{
		CompilerOptions: Options{},
		Files:           []string{},
	}
}

// ParsedConfig is a fully expanded configuration.
type ParsedConfig struct {
	Options   Options      `json:"options"`
	FileNames []string     `json:"fileNames"`
	Raw       RawConfig    `json:"raw"`
	Errors    []Diagnostic `json:"errors,omitempty"`
}

// Compiler is the capability set the host compiler provides.
type Compiler interface {
	// Version returns the compiler's semantic version.
	Version() string

	// ReadConfigFile reads and parses the configuration file at path using
	// readFile. The diagnostic is non-nil when the file is unreadable or
	// malformed.
	ReadConfigFile(path string, readFile func(string) (string, bool)) (RawConfig, *Diagnostic)

	// ParseJSONConfigFileContent validates and expands raw against basePath
	// using host for all filesystem access. configFileName is used in
	// diagnostics and may be empty.
	ParseJSONConfigFileContent(raw RawConfig, host hostfs.Host, basePath, configFileName string) ParsedConfig
}
