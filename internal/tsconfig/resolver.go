package tsconfig

import (
	"log/slog"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/sfc-tools/tsconf/internal/hostfs"
	"github.com/sfc-tools/tsconf/internal/tsc"
)

// Result is everything one invocation produces.
type Result struct {
	ConfigPath string
	Found      bool
	Raw        tsc.RawConfig
	// Err is a *ParseError when the configuration file failed to parse.
	// Parsed is nil in that case; whether that is fatal is up to the caller.
	Err    error
	Parsed *tsc.ParsedConfig
}

// Resolver runs the load and expansion steps for one build invocation.
type Resolver struct {
	FS               hostfs.Host
	Compiler         tsc.Compiler
	FormatDiagnostic func(tsc.Diagnostic) string
	Logger           *slog.Logger
}

// Resolve loads and expands the configuration for requestDir.
func (r *Resolver) Resolve(requestDir string, opts CallerOptions) Result {
	if abs, err := filepath.Abs(requestDir); err == nil {
		requestDir = abs
	}

	logger := r.Logger
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With("invocation", uuid.NewString())

	loader := &Loader{
		FS:               r.FS,
		Compiler:         r.Compiler,
		FormatDiagnostic: r.FormatDiagnostic,
		Logger:           logger,
	}
	outcome := loader.Load(requestDir, opts)

	result := Result{
		ConfigPath: outcome.Path,
		Found:      outcome.Found,
		Raw:        outcome.Raw,
		Err:        outcome.Err,
	}
	if outcome.Err != nil {
		return result
	}

	basePath := requestDir
	if outcome.Found {
		basePath = filepath.Dir(outcome.Path)
	}

	coordinator := &Coordinator{FS: r.FS, Compiler: r.Compiler, Logger: logger}
	parsed := coordinator.Resolve(outcome.Raw, basePath, outcome.Path, opts)
	result.Parsed = &parsed
	return result
}
