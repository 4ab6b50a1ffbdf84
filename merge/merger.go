package merge

import (
	"fmt"
	"strings"

	"github.com/wippyai/blueprint-hook/asset"
	"github.com/wippyai/blueprint-hook/errors"
	"github.com/wippyai/blueprint-hook/merge/internal/traverse"
	"go.uber.org/zap"
)

// Reserved function name prefixes.
const (
	HookPrefix      = "hook_"
	OrigPrefix      = "orig_"
	UbergraphPrefix = "ExecuteUbergraph_"
)

// Options configures merge behavior.
type Options struct {
	// SkipPropertyCheck disables the preflight check that every hook class
	// property exists in the original class.
	SkipPropertyCheck bool
	// IgnoreShapes disables parameter shape validation of hooks.
	IgnoreShapes bool
}

// DefaultOptions returns the default merge configuration.
func DefaultOptions() Options {
	return Options{}
}

// InstallKind distinguishes new functions from replaced ones.
type InstallKind uint8

const (
	Added InstallKind = iota
	Hooked
)

func (k InstallKind) String() string {
	if k == Hooked {
		return "hooked"
	}
	return "added"
}

// Installed records one function moved into the original asset.
type Installed struct {
	Name  string
	Kind  InstallKind
	Index asset.PackageIndex
}

// Report is the outcome of a merge.
type Report struct {
	Installed []Installed
	// Imports lists imports appended to the original asset.
	Imports []asset.PackageIndex
	// NoOp is set when there was nothing to merge; the original is untouched.
	NoOp bool
}

// HookPair pairs a hook_F function with the original F it replaces.
type HookPair struct {
	Hook      *asset.FunctionExport
	Base      *asset.FunctionExport
	BaseIndex asset.PackageIndex
	// Name is F, the base name shared by both functions.
	Name string
}

// Candidate is a hook function selected for installation.
type Candidate struct {
	Function *asset.FunctionExport
	// Index is the position in the hook asset.
	Index asset.PackageIndex
	// Name is the name the function is installed under.
	Name string
	Pair *HookPair
}

// Plan is a validated merge that has not touched the original asset yet.
type Plan struct {
	hook       *asset.Asset
	orig       *asset.Asset
	class      *asset.ClassExport
	Candidates []Candidate
	Hooks      []*HookPair
	// Skipped lists hook_ functions whose target was already hooked.
	Skipped []string
	// installed maps the export position of each skipped hook_F to the F it
	// became in the original.
	installed map[int]asset.PackageIndex
	applied   bool
}

// NoOp reports whether the plan installs nothing.
func (p *Plan) NoOp() bool {
	return len(p.Candidates) == 0
}

// Merger plans and applies function merges.
type Merger struct {
	options Options
}

// New creates a merger.
func New(opts Options) *Merger {
	return &Merger{options: opts}
}

// NewWithDefaults creates a merger with default options.
func NewWithDefaults() *Merger {
	return New(DefaultOptions())
}

// Options returns the configuration.
func (m *Merger) Options() Options {
	return m.options
}

// Merge plans and applies in one step.
func (m *Merger) Merge(hook, orig *asset.Asset) (*Report, error) {
	plan, err := m.Plan(hook, orig)
	if err != nil {
		return nil, err
	}
	return m.Apply(plan)
}

// Plan selects the functions to move and validates hooks against their
// targets. The original asset is not modified. Struct-typed hook parameters
// take the element size of the parameter they replace.
func (m *Merger) Plan(hook, orig *asset.Asset) (*Plan, error) {
	origClass, err := m.preflight(hook, orig)
	if err != nil {
		return nil, err
	}

	plan := &Plan{hook: hook, orig: orig, class: origClass}
	m.selectCandidates(plan)
	if plan.NoOp() {
		Logger().Info("nothing to merge", zap.Strings("skipped", plan.Skipped))
		return plan, nil
	}

	if err := m.detectHooks(plan); err != nil {
		return nil, err
	}
	if !m.options.IgnoreShapes {
		for _, pair := range plan.Hooks {
			if err := CompareParams(hook, pair.Hook, orig, pair.Base); err != nil {
				return nil, err
			}
		}
	}
	if err := m.checkReferences(plan); err != nil {
		return nil, err
	}

	Logger().Debug("merge planned",
		zap.Int("candidates", len(plan.Candidates)),
		zap.Int("hooks", len(plan.Hooks)))
	return plan, nil
}

func (m *Merger) preflight(hook, orig *asset.Asset) (*asset.ClassExport, error) {
	origClass := orig.PrimaryClassExport()
	if origClass == nil {
		return nil, errors.Precondition("provided original is not a blueprint")
	}
	hookClass := hook.PrimaryClassExport()
	if hookClass == nil {
		return nil, errors.Precondition("provided hook is not a blueprint")
	}
	if m.options.SkipPropertyCheck {
		return origClass, nil
	}

	var missing []string
	for _, p := range hookClass.LoadedProperties {
		if _, ok := origClass.Property(p.Name.String()); !ok {
			missing = append(missing, p.Name.String())
		}
	}
	if len(missing) > 0 {
		return nil, errors.New(errors.PhaseValidate, errors.KindPrecondition).
			Value(missing).
			Detail("hook uses properties not present in original: %s", strings.Join(missing, ", ")).
			Build()
	}
	return origClass, nil
}

func (m *Merger) selectCandidates(plan *Plan) {
	for i, e := range plan.hook.Exports {
		fn, ok := e.(*asset.FunctionExport)
		if !ok {
			continue
		}
		name := fn.ObjectName.String()
		if strings.HasPrefix(name, OrigPrefix) || strings.HasPrefix(name, UbergraphPrefix) {
			continue
		}
		if plan.class.FuncMap.Has(name) {
			continue
		}
		// A hook whose target was already renamed has been installed before.
		if base, ok := strings.CutPrefix(name, HookPrefix); ok && plan.class.FuncMap.Has(OrigPrefix+base) {
			plan.Skipped = append(plan.Skipped, name)
			if idx, ok := plan.class.FuncMap.Get(base); ok {
				if plan.installed == nil {
					plan.installed = make(map[int]asset.PackageIndex)
				}
				plan.installed[i] = idx
			}
			continue
		}
		installAs := name
		if base, ok := strings.CutPrefix(name, HookPrefix); ok {
			installAs = base
		}
		plan.Candidates = append(plan.Candidates, Candidate{
			Function: fn,
			Index:    asset.ExportRef(i),
			Name:     installAs,
		})
	}
}

func (m *Merger) detectHooks(plan *Plan) error {
	for i := range plan.Candidates {
		c := &plan.Candidates[i]
		hookName := c.Function.ObjectName.String()
		if !strings.HasPrefix(hookName, HookPrefix) {
			continue
		}
		baseIdx, base, ok := plan.orig.FindFunction(c.Name)
		if !ok {
			return errors.HookTargetNotFound(hookName, c.Name)
		}
		for _, other := range plan.Hooks {
			if other.Base == base {
				return errors.New(errors.PhaseSelect, errors.KindHookTarget).
					Function(hookName).
					Detail("function %q is already hooked by %s", c.Name, other.Hook.ObjectName).
					Build()
			}
		}
		c.Pair = &HookPair{Hook: c.Function, Base: base, BaseIndex: baseIdx, Name: c.Name}
		plan.Hooks = append(plan.Hooks, c.Pair)
	}
	return nil
}

// checkReferences makes sure every export referenced by a candidate is either
// moving too or can be found by name in the original once hooks are renamed.
func (m *Merger) checkReferences(plan *Plan) error {
	moving := make(map[int]bool, len(plan.Candidates))
	roots := make([]asset.Export, len(plan.Candidates))
	for i, c := range plan.Candidates {
		moving[c.Index.Index] = true
		roots[i] = c.Function
	}
	renamed := make(map[string]bool, len(plan.Hooks))
	for _, pair := range plan.Hooks {
		renamed[pair.Name] = true
	}

	v := traverse.Funcs{Index: func(idx *asset.PackageIndex, path string) error {
		if !idx.IsExport() || moving[idx.Index] {
			return nil
		}
		if _, ok := plan.installed[idx.Index]; ok {
			return nil
		}
		e, err := plan.hook.Export(*idx)
		if err != nil {
			return errors.New(errors.PhaseRewrite, errors.KindUnresolved).Path(path).Value(*idx).Cause(err).Build()
		}
		name := e.Base().ObjectName.String()
		if base, ok := strings.CutPrefix(name, OrigPrefix); ok && renamed[base] {
			return nil
		}
		if _, ok := plan.orig.FindExport(name); ok && !renamed[name] {
			return nil
		}
		return errors.Unresolved([]string{path}, name)
	}}
	return traverse.Walk(roots, v, traverse.NewVisited(plan.hook))
}

// Apply performs a plan: renames hooked originals, rewrites and moves the
// selected functions and registers them with the original class. A plan can
// be applied once.
func (m *Merger) Apply(plan *Plan) (*Report, error) {
	if plan.applied {
		return nil, errors.InvalidInput(errors.PhaseInstall, "plan was already applied")
	}
	plan.applied = true
	if plan.NoOp() {
		return &Report{NoOp: true}, nil
	}
	hook, orig, class := plan.hook, plan.orig, plan.class

	for _, pair := range plan.Hooks {
		renamed := orig.AddName(OrigPrefix + pair.Base.ObjectName.String())
		pair.Base.ObjectName = renamed
		class.FuncMap.Set(renamed, pair.BaseIndex)
		Logger().Debug("renamed original",
			zap.String("name", pair.Name),
			zap.String("as", renamed.String()))
	}

	base := len(orig.Exports)
	exportMap := make(map[int]asset.PackageIndex, len(plan.Candidates)+len(plan.installed))
	for i, idx := range plan.installed {
		exportMap[i] = idx
	}
	roots := make([]asset.Export, len(plan.Candidates))
	for i, c := range plan.Candidates {
		exportMap[c.Index.Index] = asset.ExportRef(base + i)
		roots[i] = c.Function
	}

	rw := NewRewriter(hook, orig, exportMap)
	if err := rw.Rewrite(roots); err != nil {
		return nil, err
	}
	if err := rw.Close(); err != nil {
		return nil, err
	}

	report := &Report{Imports: rw.CreatedImports()}
	for i, c := range plan.Candidates {
		moved, err := hook.DetachExport(c.Index)
		if err != nil {
			return nil, errors.Wrap(errors.PhaseInstall, errors.KindInvalidData, err, "detach "+c.Name)
		}
		fn := moved.(*asset.FunctionExport)
		fn.ObjectName = orig.AddName(c.Name)

		idx := orig.AppendExport(fn)
		if want := asset.ExportRef(base + i); idx != want {
			return nil, errors.InvalidData(errors.PhaseInstall, []string{c.Name},
				fmt.Sprintf("installed at %s, references expect %s", idx, want))
		}
		class.FuncMap.Set(fn.ObjectName, idx)
		class.Children = append(class.Children, idx)
		class.CreateBeforeSerializationDependencies = append(class.CreateBeforeSerializationDependencies, idx)

		kind := Added
		if c.Pair != nil {
			kind = Hooked
		}
		report.Installed = append(report.Installed, Installed{Name: c.Name, Kind: kind, Index: idx})
		Logger().Info("installed function",
			zap.String("name", c.Name),
			zap.Stringer("kind", kind),
			zap.Stringer("index", idx))
	}

	Finalize(orig)
	return report, nil
}

// Finalize recomputes the bookkeeping the encoder requires after the name
// table changed.
func Finalize(a *asset.Asset) {
	a.SetNamesReferencedFromExportDataCount(len(a.NameMapIndexList()))
}
