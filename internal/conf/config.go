package conf

import (
	_ "embed"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/sfc-tools/tsconf/internal/hostfs"
	"github.com/sfc-tools/tsconf/internal/tsc"
	"github.com/sfc-tools/tsconf/internal/tsconfig"
)

// defaultConfig is the base layer applied before any settings file.
//
//go:embed default.toml
var defaultConfig string

// Config represents the resolved settings.
type Config struct {
	// ConfigFile is the compiler configuration reference: an absolute
	// path, a relative path or a file name searched for upwards.
	ConfigFile      string
	LogLevel        slog.Level
	CompilerVersion string
	CompilerOptions tsc.Options
	Rewrites        []hostfs.RewriteRule
}

// Update applies non-nil values from a configDTO.
func (c *Config) Update(dto configDTO) {
	if dto.ConfigFile != nil {
		c.ConfigFile = *dto.ConfigFile
	}
	if dto.LogLevel != nil {
		switch strings.ToUpper(*dto.LogLevel) {
		case "DEBUG":
			c.LogLevel = slog.LevelDebug
		case "INFO":
			c.LogLevel = slog.LevelInfo
		case "WARN":
			c.LogLevel = slog.LevelWarn
		case "ERROR":
			c.LogLevel = slog.LevelError
		}
	}
	if dto.CompilerVersion != nil {
		c.CompilerVersion = *dto.CompilerVersion
	}
	if len(dto.CompilerOptions) > 0 {
		options := c.CompilerOptions.Clone()
		for k, v := range dto.CompilerOptions {
			options[k] = v
		}
		c.CompilerOptions = options
	}
	if dto.Rewrites != nil {
		c.Rewrites = append([]hostfs.RewriteRule{}, dto.Rewrites...)
	}
}

// CallerOptions converts the settings into options for a tsconfig.Resolver.
func (c Config) CallerOptions() tsconfig.CallerOptions {
	return tsconfig.CallerOptions{
		CompilerOptions: c.CompilerOptions.Clone(),
		ConfigFileName:  c.ConfigFile,
		Rewrites:        append([]hostfs.RewriteRule(nil), c.Rewrites...),
	}
}

// ConfigSource orchestrates loading configuration from multiple sources.
// See the Read method.
type ConfigSource struct {
	Path      string
	DropInDir string
}

// NewConfigSource returns the settings source for a project directory:
// tsconf.toml and tsconf.toml.d/ inside dir.
func NewConfigSource(dir string) *ConfigSource {
	path := filepath.Join(dir, "tsconf.toml")
	return &ConfigSource{Path: path, DropInDir: path + ".d"}
}

// Read loads and returns the complete Config by merging all layers:
// 1. Embedded defaults
// 2. Main settings file
// 3. Drop-in files
func (cs *ConfigSource) Read() (Config, error) {
	resolved := Config{CompilerOptions: tsc.Options{}}

	// Start with embedded defaults
	dto, err := parseConfigDTO(defaultConfig)
	if err != nil {
		slog.Error("failed to parse embedded defaults", "error", err)
		return resolved, fmt.Errorf("failed to parse embedded defaults: %w", err)
	}
	resolved.Update(dto)

	// Load main settings file
	data, err := os.ReadFile(cs.Path)
	if err != nil {
		if !os.IsNotExist(err) {
			return resolved, fmt.Errorf("failed to load %s: %w", cs.Path, err)
		}
	} else {
		mainDTO, err := parseConfigDTO(string(data))
		if err != nil {
			// Existing but malformed file should result in failure (let's not hide
			// problems from the users).
			return resolved, fmt.Errorf("failed to parse %s: %w", cs.Path, err)
		}
		resolved.Update(mainDTO)
	}

	// Load drop-in files
	dropInDTOs, err := cs.parseDropInFiles()
	if err != nil {
		slog.Error("failed to load drop-in files", "error", err, "dir", cs.DropInDir)
		return resolved, err
	}

	for _, dropInDTO := range dropInDTOs {
		resolved.Update(dropInDTO)
	}

	return resolved, nil
}

type configDTO struct {
	ConfigFile      *string              `toml:"config-file"`
	LogLevel        *string              `toml:"log-level"`
	CompilerVersion *string              `toml:"compiler-version"`
	CompilerOptions map[string]any       `toml:"compiler-options"`
	Rewrites        []hostfs.RewriteRule `toml:"rewrite"`
}

// parseConfigDTO parses a TOML string into a configDTO.
func parseConfigDTO(data string) (configDTO, error) {
	var dto configDTO

	if _, err := toml.Decode(data, &dto); err != nil {
		return dto, fmt.Errorf("failed to parse TOML: %w", err)
	}

	return dto, nil
}

// findDropInFiles finds and returns sorted paths to drop-in settings files.
// Returns nil if the drop-in directory doesn't exist (not an error).
func (cs *ConfigSource) findDropInFiles() ([]string, error) {
	if _, err := os.Stat(cs.DropInDir); os.IsNotExist(err) {
		return nil, nil
	}

	entries, err := os.ReadDir(cs.DropInDir)
	if err != nil {
		return nil, fmt.Errorf("failed to read drop-in directory %s: %w", cs.DropInDir, err)
	}

	var filenames []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if strings.HasSuffix(entry.Name(), ".toml") {
			filenames = append(filenames, filepath.Join(cs.DropInDir, entry.Name()))
		}
	}

	sort.Strings(filenames)

	return filenames, nil
}

// parseDropInFiles loads .toml files.
func (cs *ConfigSource) parseDropInFiles() ([]configDTO, error) {
	paths, err := cs.findDropInFiles()
	if err != nil {
		return nil, err
	}

	var dtos []configDTO
	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}

		dto, err := parseConfigDTO(string(data))
		if err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", path, err)
		}

		dtos = append(dtos, dto)
	}

	return dtos, nil
}
