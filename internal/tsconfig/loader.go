package tsconfig

import (
	"log/slog"
	"path/filepath"

	"github.com/sfc-tools/tsconf/internal/hostfs"
	"github.com/sfc-tools/tsconf/internal/l10n"
	"github.com/sfc-tools/tsconf/internal/locate"
	"github.com/sfc-tools/tsconf/internal/tsc"
)

// ParseError reports a configuration file that exists but could not be
// parsed.
type ParseError struct {
	Path       string
	Diagnostic tsc.Diagnostic
	message    string
}

func (e *ParseError) Error() string {
	return e.message
}

// Outcome is the result of Loader.Load.
type Outcome struct {
	// Path is the resolved configuration file, empty when none was found.
	Path  string
	Found bool
	// Raw holds the file's configuration merged with the caller's compiler
	// options. When Err is set it holds the unmerged file configuration.
	Raw tsc.RawConfig
	// Err is a *ParseError when the file was found but failed to parse.
	Err error
}

// Loader locates and reads the configuration file and overlays the caller's
// compiler options.
type Loader struct {
	FS       hostfs.Host
	Compiler tsc.Compiler
	// FormatDiagnostic renders parse errors. tsc.FormatDiagnostic is used
	// when nil.
	FormatDiagnostic func(tsc.Diagnostic) string
	// Logger receives one informational record per Load. slog.Default() is
	// used when nil.
	Logger *slog.Logger
}

// Load resolves the configuration for requestDir. A missing file is not an
// error; the default empty configuration is used instead.
func (l *Loader) Load(requestDir string, opts CallerOptions) Outcome {
	// The upward search stops at the top of the path it is given.
	if abs, err := filepath.Abs(requestDir); err == nil {
		requestDir = abs
	}

	ref := opts.ConfigFileName
	if ref == "" {
		ref = DefaultConfigFileName
	}

	path, found := locate.Locate(l.FS, requestDir, ref)
	out := Outcome{Path: path, Found: found, Raw: tsc.DefaultRawConfig()}

	if found {
		raw, diag := l.Compiler.ReadConfigFile(path, l.FS.ReadFile)
		out.Raw = raw
		if diag != nil {
			format := l.FormatDiagnostic
			if format == nil {
				format = tsc.FormatDiagnostic
			}
			out.Err = &ParseError{Path: path, Diagnostic: *diag, message: format(*diag)}
		}
	}

	l.logOutcome(requestDir, ref, opts.HostSelected, out)

	// A file that failed to parse is never blended with caller options.
	if out.Err != nil {
		return out
	}

	out.Raw.CompilerOptions = mergeOptions(out.Raw.CompilerOptions, opts.CompilerOptions)
	return out
}

func (l *Loader) logOutcome(requestDir, ref string, hostSelected bool, out Outcome) {
	logger := l.Logger
	if logger == nil {
		logger = slog.Default()
	}

	var msg string
	switch {
	case out.Found && hostSelected:
		msg = l10n.T("using config file with caller-supplied compiler")
	case out.Found:
		msg = l10n.T("using config file")
	case hostSelected:
		msg = l10n.T("no config file found, using default compiler options with caller-supplied compiler")
	default:
		msg = l10n.T("no config file found, using default compiler options")
	}

	if out.Found {
		logger.Info(msg, "path", out.Path, "compiler", l.Compiler.Version())
		return
	}
	logger.Info(msg, "name", ref, "dir", requestDir, "compiler", l.Compiler.Version())
}
