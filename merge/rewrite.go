package merge

import (
	"github.com/wippyai/blueprint-hook/asset"
	"github.com/wippyai/blueprint-hook/errors"
	"github.com/wippyai/blueprint-hook/merge/internal/resolve"
	"github.com/wippyai/blueprint-hook/merge/internal/traverse"
	"go.uber.org/zap"
)

// Rewriter translates every reference reachable from a set of hook exports
// into the namespace of the original asset. References are rewritten in
// place; the exports themselves stay where they are until installed.
type Rewriter struct {
	hook      *asset.Asset
	orig      *asset.Asset
	exportMap map[int]asset.PackageIndex
	imports   *resolve.Resolver
}

// NewRewriter creates a rewriter. exportMap maps hook export positions that
// are moving in this batch to their final reference in orig.
func NewRewriter(hook, orig *asset.Asset, exportMap map[int]asset.PackageIndex) *Rewriter {
	return &Rewriter{
		hook:      hook,
		orig:      orig,
		exportMap: exportMap,
		imports:   resolve.New(hook, orig),
	}
}

// Rewrite walks roots and rewrites their references. The hook asset itself is
// never entered, only objects reachable from roots.
func (r *Rewriter) Rewrite(roots []asset.Export) error {
	return traverse.Walk(roots, r, traverse.NewVisited(r.hook))
}

// Close resolves the outer chains of imports created while rewriting.
func (r *Rewriter) Close() error {
	return r.imports.Close()
}

// CreatedImports returns the imports appended to orig.
func (r *Rewriter) CreatedImports() []asset.PackageIndex {
	return r.imports.Created()
}

// VisitIndex maps a hook reference to orig.
func (r *Rewriter) VisitIndex(idx *asset.PackageIndex, path string) error {
	switch idx.Kind {
	case asset.RefImport:
		resolved, err := r.imports.Resolve(*idx)
		if err != nil {
			return errors.New(errors.PhaseResolve, errors.KindUnresolved).
				Path(path).
				Value(*idx).
				Cause(err).
				Detail("resolve import").
				Build()
		}
		*idx = resolved

	case asset.RefExport:
		if mapped, ok := r.exportMap[idx.Index]; ok {
			*idx = mapped
			return nil
		}
		e, err := r.hook.Export(*idx)
		if err != nil {
			return errors.New(errors.PhaseRewrite, errors.KindUnresolved).
				Path(path).
				Value(*idx).
				Cause(err).
				Build()
		}
		name := e.Base().ObjectName.String()
		found, ok := r.orig.FindExport(name)
		if !ok {
			return errors.Unresolved([]string{path}, name)
		}
		Logger().Debug("export resolved by name",
			zap.String("name", name),
			zap.String("path", path),
			zap.Stringer("target", found))
		*idx = found
	}
	return nil
}

// VisitName re-interns a hook name in orig.
func (r *Rewriter) VisitName(name *asset.FName, path string) error {
	name.Retarget(r.orig)
	return nil
}
