package runner

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/wippyai/blueprint-hook/asset"
	"github.com/wippyai/blueprint-hook/asset/assettest"
	bperrors "github.com/wippyai/blueprint-hook/errors"
	"github.com/wippyai/blueprint-hook/merge"
)

type files struct {
	dir      string
	hook     string
	original string
}

func writeAsset(t *testing.T, path string, a *asset.Asset) []byte {
	t.Helper()
	data, err := a.Encode()
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	return data
}

// setup writes an original with Jump and a hook that hooks Jump and adds
// Crouch.
func setup(t *testing.T) files {
	t.Helper()
	dir := t.TempDir()
	f := files{
		dir:      dir,
		hook:     filepath.Join(dir, "hook.uasset"),
		original: filepath.Join(dir, "original.uasset"),
	}

	orig := assettest.New("BP_Hero")
	orig.Define("Jump", orig.Param("Height", "FloatProperty", 4))
	writeAsset(t, f.original, orig.Asset)

	hook := assettest.New("BP_Hero")
	stub, _ := hook.Define("orig_Jump", hook.Param("Height", "FloatProperty", 4))
	idx, fn := hook.Define("hook_Jump", hook.Param("Height", "FloatProperty", 4))
	assettest.Script(fn, assettest.Call(stub, hook.LocalRef(idx, "Height")))
	hook.Define("Crouch")
	writeAsset(t, f.hook, hook.Asset)
	return f
}

func readAsset(t *testing.T, path string) *asset.Asset {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	a, err := asset.Decode(data, asset.DecodeOptions{})
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	return a
}

func assertMerged(t *testing.T, a *asset.Asset) {
	t.Helper()
	class := a.PrimaryClassExport()
	if class == nil {
		t.Fatal("no class export")
	}
	for _, name := range []string{"Jump", "orig_Jump", "Crouch"} {
		if !class.FuncMap.Has(name) {
			t.Errorf("FuncMap missing %s", name)
		}
	}
}

func TestRunDefaultOutputOverwritesHook(t *testing.T) {
	f := setup(t)
	original, _ := os.ReadFile(f.original)

	result, err := Run(context.Background(), Config{HookURL: f.hook, OriginalURL: f.original})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if !result.Written {
		t.Fatal("result not written")
	}
	if len(result.Report.Installed) != 2 {
		t.Errorf("Installed = %+v", result.Report.Installed)
	}
	assertMerged(t, readAsset(t, f.hook))

	after, _ := os.ReadFile(f.original)
	if !bytes.Equal(original, after) {
		t.Error("original file modified")
	}
}

func TestRunExplicitOutput(t *testing.T) {
	f := setup(t)
	out := filepath.Join(f.dir, "merged.uasset")
	hookBefore, _ := os.ReadFile(f.hook)

	result, err := Run(context.Background(), Config{
		HookURL:     f.hook,
		OriginalURL: f.original,
		OutputURL:   out,
		Version:     asset.DefaultEngineVersion,
	})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if !result.Written {
		t.Fatal("result not written")
	}
	assertMerged(t, readAsset(t, out))

	hookAfter, _ := os.ReadFile(f.hook)
	if !bytes.Equal(hookBefore, hookAfter) {
		t.Error("hook file modified")
	}
}

func TestRunSecondPassIsNoOp(t *testing.T) {
	f := setup(t)
	out := filepath.Join(f.dir, "merged.uasset")
	if _, err := Run(context.Background(), Config{HookURL: f.hook, OriginalURL: f.original, OutputURL: out}); err != nil {
		t.Fatalf("first Run: %v", err)
	}
	merged, _ := os.ReadFile(out)

	again := filepath.Join(f.dir, "again.uasset")
	result, err := Run(context.Background(), Config{HookURL: f.hook, OriginalURL: out, OutputURL: again})
	if err != nil {
		t.Fatalf("second Run: %v", err)
	}
	if !result.Report.NoOp || result.Written {
		t.Errorf("second run: NoOp=%v Written=%v", result.Report.NoOp, result.Written)
	}
	if _, err := os.Stat(again); !os.IsNotExist(err) {
		t.Error("no-op run wrote output")
	}
	after, _ := os.ReadFile(out)
	if !bytes.Equal(merged, after) {
		t.Error("merged input modified")
	}
}

func TestRunDryRun(t *testing.T) {
	f := setup(t)
	out := filepath.Join(f.dir, "merged.uasset")

	result, err := Run(context.Background(), Config{HookURL: f.hook, OriginalURL: f.original, OutputURL: out, DryRun: true})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if result.Written || len(result.Report.Installed) != 2 {
		t.Errorf("result = %+v", result)
	}
	if _, err := os.Stat(out); !os.IsNotExist(err) {
		t.Error("dry run wrote output")
	}
}

func TestRunConfirm(t *testing.T) {
	tests := []struct {
		name      string
		answer    bool
		answerErr error
		written   bool
	}{
		{name: "accepted", answer: true, written: true},
		{name: "declined"},
		{name: "failed", answerErr: errors.New("terminal closed")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := setup(t)
			out := filepath.Join(f.dir, "merged.uasset")
			var seen *merge.Plan

			result, err := Run(context.Background(), Config{
				HookURL:     f.hook,
				OriginalURL: f.original,
				OutputURL:   out,
				Confirm: func(p *merge.Plan) (bool, error) {
					seen = p
					return tt.answer, tt.answerErr
				},
			})
			if tt.answerErr != nil {
				if !errors.Is(err, tt.answerErr) {
					t.Fatalf("Run error = %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Run: %v", err)
			}
			if seen == nil || len(seen.Hooks) != 1 || seen.Hooks[0].Name != "Jump" {
				t.Errorf("confirmed plan = %+v", seen)
			}
			if result.Written != tt.written || result.Declined == tt.answer {
				t.Errorf("Written=%v Declined=%v", result.Written, result.Declined)
			}
			_, statErr := os.Stat(out)
			if exists := statErr == nil; exists != tt.written {
				t.Errorf("output exists = %v", exists)
			}
		})
	}
}

func TestRunWithMappings(t *testing.T) {
	f := setup(t)
	m := filepath.Join(f.dir, "mappings.yaml")
	if err := os.WriteFile(m, []byte("structs:\n  Vector: {size: 12}\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Run(context.Background(), Config{HookURL: f.hook, OriginalURL: f.original, MappingsURL: m, DryRun: true}); err != nil {
		t.Fatalf("Run: %v", err)
	}

	bad := filepath.Join(f.dir, "bad.yaml")
	if err := os.WriteFile(bad, []byte("structs: [unclosed"), 0o644); err != nil {
		t.Fatal(err)
	}
	_, err := Run(context.Background(), Config{HookURL: f.hook, OriginalURL: f.original, MappingsURL: bad})
	if !errors.Is(err, &bperrors.Error{Phase: bperrors.PhaseParse, Kind: bperrors.KindInvalidData}) {
		t.Errorf("Run error = %v, want parse failure", err)
	}
}

func TestRunErrors(t *testing.T) {
	f := setup(t)
	garbage := filepath.Join(f.dir, "garbage.uasset")
	if err := os.WriteFile(garbage, []byte("not an asset"), 0o644); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name  string
		cfg   Config
		phase bperrors.Phase
		kind  bperrors.Kind
	}{
		{
			name:  "missing hook location",
			cfg:   Config{OriginalURL: f.original},
			phase: bperrors.PhaseLoad,
			kind:  bperrors.KindInvalidInput,
		},
		{
			name:  "missing original location",
			cfg:   Config{HookURL: f.hook},
			phase: bperrors.PhaseLoad,
			kind:  bperrors.KindInvalidInput,
		},
		{
			name:  "original does not exist",
			cfg:   Config{HookURL: f.hook, OriginalURL: filepath.Join(f.dir, "nope.uasset")},
			phase: bperrors.PhaseLoad,
			kind:  bperrors.KindInvalidData,
		},
		{
			name:  "original is not an asset",
			cfg:   Config{HookURL: f.hook, OriginalURL: garbage},
			phase: bperrors.PhaseDecode,
			kind:  bperrors.KindInvalidData,
		},
		{
			name:  "version mismatch",
			cfg:   Config{HookURL: f.hook, OriginalURL: f.original, Version: asset.VerUE4_27},
			phase: bperrors.PhaseDecode,
			kind:  bperrors.KindUnsupported,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Run(context.Background(), tt.cfg)
			if !errors.Is(err, &bperrors.Error{Phase: tt.phase, Kind: tt.kind}) {
				t.Errorf("Run error = %v, want %s/%s", err, tt.phase, tt.kind)
			}
		})
	}
}

func TestConfigOutput(t *testing.T) {
	c := Config{HookURL: "hook.uasset"}
	if c.Output() != "hook.uasset" {
		t.Errorf("Output = %q", c.Output())
	}
	c.OutputURL = "out.uasset"
	if c.Output() != "out.uasset" {
		t.Errorf("Output = %q", c.Output())
	}
}
