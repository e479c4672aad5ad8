package tsconfig

import (
	"fmt"
	"log/slog"

	"github.com/Masterminds/semver/v3"

	"github.com/sfc-tools/tsconf/internal/hostfs"
	"github.com/sfc-tools/tsconf/internal/tsc"
)

// ConfigFilePathOption is the compiler option recording which file a
// configuration was loaded from.
const ConfigFilePathOption = "configFilePath"

// configFilePathSince is the first compiler version that reads
// ConfigFilePathOption. Older parsers must not be given it.
var configFilePathSince = semver.MustParse("2.7.0")

// Capabilities describes which parts of the compiler's option contract may
// be used.
type Capabilities struct {
	SupportsConfigFilePathOption bool
}

// Negotiate computes the capabilities of the compiler reporting version.
func Negotiate(version string) (Capabilities, error) {
	v, err := semver.NewVersion(version)
	if err != nil {
		return Capabilities{}, fmt.Errorf("invalid compiler version %q: %w", version, err)
	}
	return Capabilities{
		SupportsConfigFilePathOption: !v.LessThan(configFilePathSince),
	}, nil
}

// Coordinator expands a merged configuration through the compiler.
type Coordinator struct {
	FS       hostfs.Host
	Compiler tsc.Compiler
	// Logger is slog.Default() when nil.
	Logger *slog.Logger
}

// Resolve expands raw relative to basePath. configPath is the file raw was
// loaded from, or empty when the default configuration is used.
func (c *Coordinator) Resolve(raw tsc.RawConfig, basePath, configPath string, opts CallerOptions) tsc.ParsedConfig {
	host := hostfs.Remap(c.FS, opts.Rewrites...)
	parsed := c.Compiler.ParseJSONConfigFileContent(raw, host, basePath, configPath)

	caps, err := Negotiate(c.Compiler.Version())
	if err != nil {
		logger := c.Logger
		if logger == nil {
			logger = slog.Default()
		}
		logger.Warn("cannot determine compiler capabilities", "error", err)
	}

	if caps.SupportsConfigFilePathOption && configPath != "" {
		options := parsed.Options.Clone()
		options[ConfigFilePathOption] = configPath
		parsed.Options = options
	}
	return parsed
}
