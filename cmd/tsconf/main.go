package main

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"git.sr.ht/~spc/go-log"
	"github.com/urfave/cli/v2"
	"golang.org/x/term"

	"github.com/sfc-tools/tsconf/internal/conf"
	"github.com/sfc-tools/tsconf/internal/hostfs"
	"github.com/sfc-tools/tsconf/internal/l10n"
	"github.com/sfc-tools/tsconf/internal/tsc"
	"github.com/sfc-tools/tsconf/internal/tsconfig"
)

// Version is set at build time.
var Version = "dev"

const (
	cliSettings        = "settings"
	cliLogLevel        = "log-level"
	cliCompilerVersion = "compiler-version"
	cliDir             = "dir"
	cliProject         = "project"
	cliRewrite         = "rewrite"
	cliCompilerOption  = "compiler-option"
)

func main() {
	app := newApp()
	if err := app.Run(os.Args); err != nil {
		log.Errorf("%v", err)
		os.Exit(1)
	}
}

func newApp() *cli.App {
	projectFlags := []cli.Flag{
		&cli.StringFlag{
			Name:    cliDir,
			Aliases: []string{"C"},
			Value:   ".",
			Usage:   l10n.T("resolve configuration for `DIR`"),
		},
		&cli.StringFlag{
			Name:    cliProject,
			Aliases: []string{"p"},
			Usage:   l10n.T("use compiler configuration `FILE` (path or name searched for upwards)"),
		},
		&cli.StringSliceFlag{
			Name:  cliRewrite,
			Usage: l10n.T("expose files with `SUFFIX:EXT[,EXT]` as virtual SUFFIX files"),
		},
		&cli.StringSliceFlag{
			Name:  cliCompilerOption,
			Usage: l10n.T("override a compiler option with `KEY=VALUE` (VALUE may be JSON)"),
		},
	}

	return &cli.App{
		Name:    "tsconf",
		Version: Version,
		Usage:   l10n.T("resolve TypeScript compiler configuration for a source directory"),
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  cliSettings,
				Value: ".",
				Usage: l10n.T("read tsconf.toml and tsconf.toml.d/ from `DIR`"),
			},
			&cli.StringFlag{
				Name:  cliLogLevel,
				Usage: l10n.T("set log `LEVEL` (debug, info, warn, error)"),
			},
			&cli.StringFlag{
				Name:  cliCompilerVersion,
				Usage: l10n.T("assume compiler `VERSION` when negotiating capabilities"),
			},
		},
		Commands: []*cli.Command{
			{
				Name:   "locate",
				Usage:  l10n.T("print the path of the configuration file in effect"),
				Flags:  projectFlags,
				Action: locateAction,
			},
			{
				Name:   "show",
				Usage:  l10n.T("print the expanded configuration as JSON"),
				Flags:  projectFlags,
				Action: showAction,
			},
			{
				Name:   "files",
				Usage:  l10n.T("print the root file names, one per line"),
				Flags:  projectFlags,
				Action: filesAction,
			},
		},
	}
}

// invocation holds what a command needs once settings and flags are merged.
type invocation struct {
	dir      string
	version  string
	opts     tsconfig.CallerOptions
	logLevel slog.Level
}

func newInvocation(c *cli.Context) (*invocation, error) {
	settings, err := conf.NewConfigSource(c.String(cliSettings)).Read()
	if err != nil {
		return nil, fmt.Errorf("cannot read settings: %w", err)
	}

	if c.IsSet(cliLogLevel) {
		var level slog.Level
		if err := level.UnmarshalText([]byte(c.String(cliLogLevel))); err != nil {
			return nil, fmt.Errorf("invalid log level %q: %w", c.String(cliLogLevel), err)
		}
		settings.LogLevel = level
	}
	if level, err := log.ParseLevel(strings.ToLower(settings.LogLevel.String())); err == nil {
		log.SetLevel(level)
	}

	inv := &invocation{
		dir:      c.String(cliDir),
		version:  settings.CompilerVersion,
		opts:     settings.CallerOptions(),
		logLevel: settings.LogLevel,
	}
	if c.IsSet(cliCompilerVersion) {
		inv.version = c.String(cliCompilerVersion)
	}
	inv.opts.HostSelected = inv.version != ""

	if c.IsSet(cliProject) {
		inv.opts.ConfigFileName = c.String(cliProject)
	}

	rules, err := parseRewrites(c.StringSlice(cliRewrite))
	if err != nil {
		return nil, err
	}
	if len(rules) > 0 {
		inv.opts.Rewrites = rules
	}

	overrides, err := parseCompilerOptions(c.StringSlice(cliCompilerOption))
	if err != nil {
		return nil, err
	}
	for k, v := range overrides {
		inv.opts.CompilerOptions[k] = v
	}

	log.Debugf("resolving %s with compiler %q", inv.dir, inv.version)
	return inv, nil
}

func (inv *invocation) resolve(stderr io.Writer) tsconfig.Result {
	resolver := &tsconfig.Resolver{
		FS:       hostfs.NewOS(),
		Compiler: tsc.NewNative(inv.version),
		Logger:   slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: inv.logLevel})),
	}
	return resolver.Resolve(inv.dir, inv.opts)
}

func locateAction(c *cli.Context) error {
	inv, err := newInvocation(c)
	if err != nil {
		return err
	}

	result := inv.resolve(c.App.ErrWriter)
	if !result.Found {
		return cli.Exit(l10n.T("no config file found"), 1)
	}
	fmt.Fprintln(c.App.Writer, result.ConfigPath)
	return result.Err
}

type showOutput struct {
	ConfigPath string `json:"configPath,omitempty"`
	*tsc.ParsedConfig
}

func showAction(c *cli.Context) error {
	inv, err := newInvocation(c)
	if err != nil {
		return err
	}

	result := inv.resolve(c.App.ErrWriter)
	if result.Err != nil {
		return result.Err
	}

	data, err := encodeJSON(showOutput{ConfigPath: result.ConfigPath, ParsedConfig: result.Parsed}, isTerminal(c.App.Writer))
	if err != nil {
		return fmt.Errorf("cannot encode configuration: %w", err)
	}
	_, err = fmt.Fprintln(c.App.Writer, string(data))
	return err
}

func filesAction(c *cli.Context) error {
	inv, err := newInvocation(c)
	if err != nil {
		return err
	}

	result := inv.resolve(c.App.ErrWriter)
	if result.Err != nil {
		return result.Err
	}

	for _, d := range result.Parsed.Errors {
		log.Warnf("%v", d)
	}
	for _, name := range result.Parsed.FileNames {
		fmt.Fprintln(c.App.Writer, name)
	}
	return nil
}

func encodeJSON(v any, indent bool) ([]byte, error) {
	if indent {
		return json.MarshalIndent(v, "", "  ")
	}
	return json.Marshal(v)
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
