package main

import (
	"fmt"

	"github.com/wippyai/blueprint-hook/asset"
	"github.com/wippyai/blueprint-hook/errors"
	"github.com/wippyai/blueprint-hook/runner"
)

// Options are the command line flags.
type Options struct {
	Output      string `short:"o" long:"output" description:"where to write the merged asset (default: overwrite the hook)"`
	Mappings    string `long:"mappings" description:"type mappings file for unversioned assets" required:"true"`
	UEVersion   string `long:"ueversion" description:"engine version both assets were saved with" default:"VER_UE5_4"`
	DryRun      bool   `short:"n" long:"dry-run" description:"merge in memory without writing anything"`
	Interactive bool   `short:"i" long:"interactive" description:"review the merge plan before it is applied"`
	Verbose     bool   `short:"v" long:"verbose" description:"debug logging"`

	Args struct {
		Hook     string `positional-arg-name:"hook" description:"blueprint providing new and hook_ functions"`
		Original string `positional-arg-name:"original" description:"blueprint the functions are merged into"`
	} `positional-args:"yes" required:"yes"`
}

// Config converts the flags into a runner configuration.
func (o *Options) Config() (runner.Config, error) {
	version, ok := asset.ParseEngineVersion(o.UEVersion)
	if !ok {
		return runner.Config{}, errors.New(errors.PhaseParse, errors.KindInvalidInput).
			Value(o.UEVersion).
			Detail("unknown engine version %q", o.UEVersion).
			Build()
	}
	if o.Args.Hook == o.Args.Original {
		return runner.Config{}, errors.InvalidInput(errors.PhaseParse,
			fmt.Sprintf("hook and original are the same file: %s", o.Args.Hook))
	}
	return runner.Config{
		HookURL:     o.Args.Hook,
		OriginalURL: o.Args.Original,
		OutputURL:   o.Output,
		MappingsURL: o.Mappings,
		Version:     version,
		DryRun:      o.DryRun,
	}, nil
}
