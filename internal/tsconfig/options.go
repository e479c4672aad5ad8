// Package tsconfig locates, loads and expands a project's compiler
// configuration for a build-time transformation step.
//
// # Pipeline
//
// A Resolver runs one invocation end to end:
//
//  1. Loader finds the configuration file (by absolute path, by path
//     relative to the request directory, or by searching the request
//     directory and its ancestors for a file name), reads it through the
//     host compiler and overlays the caller's compiler options.
//  2. Coordinator hands the merged configuration to the host compiler for
//     expansion, through a filesystem that exposes rewritten file names
//     when rewrite rules are configured, and stamps the result with the
//     file it was loaded from when the compiler version supports it.
//
// Nothing is cached between invocations.
package tsconfig

import (
	"github.com/sfc-tools/tsconf/internal/hostfs"
	"github.com/sfc-tools/tsconf/internal/tsc"
)

// DefaultConfigFileName is searched for when CallerOptions names no file.
const DefaultConfigFileName = "tsconfig.json"

// CallerOptions is the part of the build invocation's options this package
// reads. It is never modified.
type CallerOptions struct {
	// CompilerOptions override options read from the configuration file.
	CompilerOptions tsc.Options
	// ConfigFileName is an absolute path, a "./" or "../" relative path, or
	// a bare file name to search for.
	ConfigFileName string
	// Rewrites expose files under synthetic names during expansion.
	Rewrites []hostfs.RewriteRule
	// HostSelected is set when the caller supplied the compiler itself
	// instead of relying on the bundled one.
	HostSelected bool
}

// mergeOptions returns a new map holding file options overlaid by caller
// options. Only top-level keys are merged; a caller value replaces a nested
// file value entirely.
func mergeOptions(file, caller tsc.Options) tsc.Options {
	merged := file.Clone()
	for k, v := range caller {
		merged[k] = v
	}
	return merged
}
