// Package runner drives a merge end to end: it loads the hook and original
// blueprints, merges them, and writes the merged original.
//
// Inputs and outputs are addressed by URL through afs, so plain paths,
// file:// URLs and any storage scheme registered with afs are accepted.
package runner

import (
	"bytes"
	"context"
	"fmt"

	"github.com/viant/afs"
	"github.com/viant/afs/file"
	"github.com/viant/afs/url"
	"github.com/wippyai/blueprint-hook/asset"
	"github.com/wippyai/blueprint-hook/errors"
	"github.com/wippyai/blueprint-hook/mappings"
	"github.com/wippyai/blueprint-hook/merge"
	"go.uber.org/zap"
)

// Config describes one merge run.
type Config struct {
	HookURL     string
	OriginalURL string
	// OutputURL receives the merged original. Empty means HookURL.
	OutputURL string
	// MappingsURL locates the type mappings used for unversioned assets.
	MappingsURL string
	// Version, when set, must match the version recorded in both assets.
	Version asset.EngineVersion
	// DryRun plans and applies in memory but writes nothing.
	DryRun  bool
	Options merge.Options
	// Confirm is consulted with the validated plan before anything is
	// modified. Returning false ends the run without writing.
	Confirm func(*merge.Plan) (bool, error)
}

// Output returns the effective output location.
func (c *Config) Output() string {
	if c.OutputURL != "" {
		return c.OutputURL
	}
	return c.HookURL
}

// Validate checks that the required locations are set.
func (c *Config) Validate() error {
	if c.HookURL == "" {
		return errors.InvalidInput(errors.PhaseLoad, "hook location is required")
	}
	if c.OriginalURL == "" {
		return errors.InvalidInput(errors.PhaseLoad, "original location is required")
	}
	return nil
}

// Result is the outcome of Run.
type Result struct {
	Plan   *merge.Plan
	Report *merge.Report
	// Output is where the merged asset was, or would have been, written.
	Output  string
	Written bool
	// Declined is set when Confirm rejected the plan.
	Declined bool
}

// Run loads both assets, merges the hook into the original and writes the
// result to cfg.Output(). Nothing is written when the merge is a no-op, when
// DryRun is set, or when Confirm declines.
func Run(ctx context.Context, cfg Config) (*Result, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	fs := afs.New()
	opts := asset.DecodeOptions{Version: cfg.Version}

	if cfg.MappingsURL != "" {
		data, err := download(ctx, fs, cfg.MappingsURL)
		if err != nil {
			return nil, err
		}
		if opts.Mappings, err = mappings.Load(data); err != nil {
			return nil, fmt.Errorf("%s: %w", cfg.MappingsURL, err)
		}
	}

	hook, err := load(ctx, fs, cfg.HookURL, opts)
	if err != nil {
		return nil, err
	}
	orig, err := load(ctx, fs, cfg.OriginalURL, opts)
	if err != nil {
		return nil, err
	}

	m := merge.New(cfg.Options)
	plan, err := m.Plan(hook, orig)
	if err != nil {
		return nil, err
	}
	result := &Result{Plan: plan, Output: cfg.Output()}

	if !plan.NoOp() && cfg.Confirm != nil {
		ok, err := cfg.Confirm(plan)
		if err != nil {
			return nil, err
		}
		if !ok {
			Logger().Info("merge declined", zap.String("original", cfg.OriginalURL))
			result.Declined = true
			return result, nil
		}
	}

	if result.Report, err = m.Apply(plan); err != nil {
		return nil, err
	}
	if result.Report.NoOp {
		Logger().Info("nothing to merge, output left untouched", zap.String("original", cfg.OriginalURL))
		return result, nil
	}

	data, err := orig.Encode()
	if err != nil {
		return nil, err
	}
	if cfg.DryRun {
		Logger().Info("dry run, skipping write",
			zap.String("output", result.Output),
			zap.Int("bytes", len(data)))
		return result, nil
	}

	if err := fs.Upload(ctx, normalize(result.Output), file.DefaultFileOsMode, bytes.NewReader(data)); err != nil {
		return nil, errors.New(errors.PhaseWrite, errors.KindInvalidInput).
			Path(result.Output).
			Cause(err).
			Detail("write merged asset").
			Build()
	}
	result.Written = true
	Logger().Info("merged asset written",
		zap.String("output", result.Output),
		zap.Int("installed", len(result.Report.Installed)),
		zap.Int("imports", len(result.Report.Imports)))
	return result, nil
}

func load(ctx context.Context, fs afs.Service, URL string, opts asset.DecodeOptions) (*asset.Asset, error) {
	data, err := download(ctx, fs, URL)
	if err != nil {
		return nil, err
	}
	a, err := asset.Decode(data, opts)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", URL, err)
	}
	Logger().Debug("asset loaded",
		zap.String("url", URL),
		zap.Int("imports", len(a.Imports)),
		zap.Int("exports", len(a.Exports)),
		zap.Int("names", a.NameCount()))
	return a, nil
}

func download(ctx context.Context, fs afs.Service, URL string) ([]byte, error) {
	data, err := fs.DownloadWithURL(ctx, normalize(URL))
	if err != nil {
		return nil, errors.Load("read "+URL, err)
	}
	return data, nil
}

func normalize(URL string) string {
	return url.Normalize(URL, file.Scheme)
}
