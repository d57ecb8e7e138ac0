package main

import (
	"io"
	"os"

	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"

	"github.com/suffix-labs/siakit/internal/config"
	"github.com/suffix-labs/siakit/internal/log"
)

var (
	configFileFlag = &cli.StringFlag{
		Name:    "config",
		Aliases: []string{"c"},
		Usage:   "Specify config file (.toml, .yaml or .yml)",
	}
	verbosityFlag = &cli.Uint64Flag{
		Name:    "verbosity",
		Aliases: []string{"v"},
		Usage:   "log verbosity (0:panic, 1:fatal, 2:error, 3:warn, 4:info, 5:debug, 6:trace)",
		Value:   config.DefaultLogLevel,
	}
	jsonFormatFlag = &cli.BoolFlag{
		Name:  "json",
		Usage: "output log in json format",
	}
	colorFormatFlag = &cli.BoolFlag{
		Name:  "color",
		Usage: "output log in color text format",
	}

	fileFlag = &cli.StringFlag{
		Name:    "file",
		Aliases: []string{"f"},
		Usage:   "read JSON input from file (default or \"-\": stdin)",
	}
	seedFlag = &cli.StringSliceFlag{
		Name:  "seed",
		Usage: "hex encoded 32-byte key seed (repeatable; default: signing.seed from config)",
	}
	inputFlag = &cli.IntFlag{
		Name:  "input",
		Usage: "siacoin input index",
	}
)

// loadConfig reads the --config file, or returns the defaults, and lets
// explicitly set log flags override the file.
func loadConfig(ctx *cli.Context) (*config.Config, error) {
	cfg := config.Default()
	if path := ctx.String(configFileFlag.Name); path != "" {
		var err error
		if cfg, err = config.Load(path); err != nil {
			return nil, err
		}
	}
	if ctx.IsSet(verbosityFlag.Name) {
		cfg.Log.Level = uint32(ctx.Uint64(verbosityFlag.Name))
	}
	if ctx.IsSet(jsonFormatFlag.Name) {
		cfg.Log.JSON = ctx.Bool(jsonFormatFlag.Name)
	}
	if ctx.IsSet(colorFormatFlag.Name) {
		cfg.Log.Color = ctx.Bool(colorFormatFlag.Name)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// setup loads the configuration and configures logging. Log output goes
// to the app's error writer so command output stays machine readable.
func setup(ctx *cli.Context) (*config.Config, error) {
	cfg, err := loadConfig(ctx)
	if err != nil {
		return nil, err
	}
	log.SetLogger(cfg.Log.Level, cfg.Log.JSON, cfg.Log.Color)
	log.SetOutput(ctx.App.ErrWriter)
	log.Debug("loaded config", "network", cfg.Network.Name, "file", ctx.String(configFileFlag.Name))
	return cfg, nil
}

// readInput returns the JSON document named by --file, or stdin.
func readInput(ctx *cli.Context) ([]byte, error) {
	var r io.Reader = ctx.App.Reader
	if path := ctx.String(fileFlag.Name); path != "" && path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return nil, errors.Wrap(err, "open input")
		}
		defer f.Close()
		r = f
	}
	b, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.Wrap(err, "read input")
	}
	return b, nil
}
