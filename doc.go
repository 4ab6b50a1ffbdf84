// Package bphook merges the compiled functions of one blueprint asset into
// another.
//
// A hook blueprint is an editable copy of a target blueprint. Functions added
// to it are transplanted into the original; a function named hook_F replaces
// F, and the replaced F stays callable as orig_F so the hook can call through.
//
// # Architecture Overview
//
// The library is organized into several packages with distinct responsibilities:
//
//	bphook/
//	├── asset/          Asset model: exports, imports, name table, script bytecode, codec
//	├── mappings/       Type mappings for unversioned property layouts
//	├── merge/          Plan and apply a merge; reference rewriting and shape checks
//	│   └── internal/
//	│       ├── traverse/   Reference walk over exports, properties and bytecode
//	│       └── resolve/    Import closure into the target asset
//	├── runner/         Load, merge and write by path or URL
//	├── errors/         Structured error types for debugging
//	└── cmd/bphook/     Command line tool
//
// # Quick Start
//
// Merge two assets already in memory:
//
//	hook, err := asset.Decode(hookBytes, asset.DecodeOptions{})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	orig, err := asset.Decode(origBytes, asset.DecodeOptions{})
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	report, err := merge.NewWithDefaults().Merge(hook, orig)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	out, err := orig.Encode()
//
// Or let the runner handle the files:
//
//	result, err := runner.Run(ctx, runner.Config{
//	    HookURL:     "Hook.uasset",
//	    OriginalURL: "Original.uasset",
//	    OutputURL:   "Merged.uasset",
//	})
//
// # Atomicity
//
// Selection, hook matching, signature validation and the reference check all
// run before the original asset is touched. A merge that fails there leaves
// both assets unchanged. Functions that do move are detached from the hook
// asset, so a hook asset must not be reused after a successful merge.
//
// # Thread Safety
//
// Assets are not safe for concurrent use. A merge mutates both of its inputs
// and must own them for its duration.
package bphook
