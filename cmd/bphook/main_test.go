package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/wippyai/blueprint-hook/asset"
	"github.com/wippyai/blueprint-hook/asset/assettest"
	"github.com/wippyai/blueprint-hook/merge"
)

func writeFixtures(t *testing.T) (hook, orig, mappingsFile string) {
	t.Helper()
	dir := t.TempDir()

	o := assettest.New("BP_Lamp")
	o.Define("Toggle")
	h := assettest.New("BP_Lamp")
	h.Define("hook_Toggle")
	h.Define("Dim", h.Param("Amount", "FloatProperty", 4))

	hook = filepath.Join(dir, "hook.uasset")
	orig = filepath.Join(dir, "orig.uasset")
	mappingsFile = filepath.Join(dir, "mappings.yaml")
	for path, a := range map[string]*asset.Asset{hook: h.Asset, orig: o.Asset} {
		data, err := a.Encode()
		if err != nil {
			t.Fatalf("Encode: %v", err)
		}
		if err := os.WriteFile(path, data, 0o644); err != nil {
			t.Fatal(err)
		}
	}
	if err := os.WriteFile(mappingsFile, []byte("structs: {}\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	return hook, orig, mappingsFile
}

func TestRun(t *testing.T) {
	hook, orig, mappingsFile := writeFixtures(t)
	out := filepath.Join(filepath.Dir(hook), "out.uasset")

	tests := []struct {
		name   string
		args   []string
		code   int
		stdout []string
		stderr string
	}{
		{
			name:   "help",
			args:   []string{"--help"},
			stdout: []string{"--mappings", "--dry-run"},
		},
		{
			name:   "missing positional arguments",
			args:   []string{"--mappings", mappingsFile},
			code:   1,
			stderr: "required",
		},
		{
			name:   "missing mappings",
			args:   []string{hook, orig},
			code:   1,
			stderr: "mappings",
		},
		{
			name:   "unknown engine version",
			args:   []string{"--mappings", mappingsFile, "--ueversion", "VER_UE9_9", hook, orig},
			code:   1,
			stderr: "unknown engine version",
		},
		{
			name:   "interactive without terminal",
			args:   []string{"--mappings", mappingsFile, "-i", hook, orig},
			code:   1,
			stderr: "terminal",
		},
		{
			name:   "dry run",
			args:   []string{"--mappings", mappingsFile, "-n", "-o", out, hook, orig},
			stdout: []string{"~ Toggle", "+ Dim", "dry run"},
		},
		{
			name:   "merge",
			args:   []string{"--mappings", mappingsFile, "-o", out, hook, orig},
			stdout: []string{"~ Toggle", "+ Dim", "wrote " + out},
		},
		{
			name:   "second pass",
			args:   []string{"--mappings", mappingsFile, "-o", out + ".2", hook, out},
			stdout: []string{"nothing to merge"},
		},
		{
			name:   "missing input",
			args:   []string{"--mappings", mappingsFile, hook, orig + ".missing"},
			code:   1,
			stderr: "error: [load]",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var stdout, stderr bytes.Buffer
			code := run(context.Background(), tt.args, &stdout, &stderr, false)
			if code != tt.code {
				t.Fatalf("exit code = %d, want %d; stderr: %s", code, tt.code, stderr.String())
			}
			for _, want := range tt.stdout {
				if !strings.Contains(stdout.String(), want) {
					t.Errorf("stdout missing %q:\n%s", want, stdout.String())
				}
			}
			if tt.stderr != "" && !strings.Contains(stderr.String(), tt.stderr) {
				t.Errorf("stderr missing %q:\n%s", tt.stderr, stderr.String())
			}
		})
	}
}

func TestOptionsConfig(t *testing.T) {
	opts := &Options{Mappings: "m.yaml", UEVersion: "5.3", DryRun: true}
	opts.Args.Hook = "hook.uasset"
	opts.Args.Original = "orig.uasset"

	cfg, err := opts.Config()
	if err != nil {
		t.Fatalf("Config: %v", err)
	}
	if cfg.Version != asset.VerUE5_3 || !cfg.DryRun || cfg.MappingsURL != "m.yaml" {
		t.Errorf("cfg = %+v", cfg)
	}
	if cfg.Output() != "hook.uasset" {
		t.Errorf("default output = %q", cfg.Output())
	}

	opts.Args.Original = opts.Args.Hook
	if _, err := opts.Config(); err == nil {
		t.Error("same hook and original accepted")
	}
}

func TestConfirmModel(t *testing.T) {
	orig := assettest.New("BP_Lamp")
	orig.Define("Toggle")
	hook := assettest.New("BP_Lamp")
	hook.Define("hook_Toggle")
	hook.Define("Dim")
	plan, err := merge.NewWithDefaults().Plan(hook.Asset, orig.Asset)
	if err != nil {
		t.Fatalf("Plan: %v", err)
	}

	tests := []struct {
		name     string
		keys     []tea.KeyMsg
		accepted bool
		selected int
	}{
		{
			name:     "accept",
			keys:     []tea.KeyMsg{{Type: tea.KeyRunes, Runes: []rune("y")}},
			accepted: true,
		},
		{
			name:     "enter accepts",
			keys:     []tea.KeyMsg{{Type: tea.KeyEnter}},
			accepted: true,
		},
		{
			name: "abort",
			keys: []tea.KeyMsg{{Type: tea.KeyEsc}},
		},
		{
			name:     "navigate",
			keys:     []tea.KeyMsg{{Type: tea.KeyDown}, {Type: tea.KeyDown}, {Type: tea.KeyRunes, Runes: []rune("n")}},
			selected: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := newConfirmModel(plan)
			if !strings.Contains(m.View(), "Toggle") || !strings.Contains(m.View(), "Dim") {
				t.Errorf("View missing candidates:\n%s", m.View())
			}
			var cmd tea.Cmd
			for _, k := range tt.keys {
				_, cmd = m.Update(k)
			}
			if cmd == nil {
				t.Fatal("model did not quit")
			}
			if m.accepted != tt.accepted || m.selected != tt.selected {
				t.Errorf("accepted=%v selected=%d", m.accepted, m.selected)
			}
			if m.View() != "" {
				t.Error("view not cleared after quitting")
			}
		})
	}
}
