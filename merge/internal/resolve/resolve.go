// Package resolve maps import references from one asset into another.
//
// Imports are matched by identity key (ClassPackage, ClassName, ObjectName).
// A missing import is copied into the target with its names re-interned there;
// its outer reference still points into the source until Close resolves the
// outer chain breadth-first.
package resolve

import (
	"fmt"

	"github.com/wippyai/blueprint-hook/asset"
	"github.com/wippyai/blueprint-hook/errors"
)

// Resolver finds or creates target imports equivalent to source imports.
// It is single-use per merge and not safe for concurrent use.
type Resolver struct {
	source  *asset.Asset
	target  *asset.Asset
	pending []*asset.PackageIndex
	created []asset.PackageIndex
}

// New creates a resolver from source into target.
func New(source, target *asset.Asset) *Resolver {
	return &Resolver{source: source, target: target}
}

// Resolve returns the target import equivalent to the source import idx,
// creating it if needed. Outer references of created imports are resolved by Close.
func (r *Resolver) Resolve(idx asset.PackageIndex) (asset.PackageIndex, error) {
	imp, err := r.source.Import(idx)
	if err != nil {
		return asset.Null(), err
	}
	return r.findOrAdd(imp)
}

func (r *Resolver) findOrAdd(imp *asset.Import) (asset.PackageIndex, error) {
	if idx, ok := r.target.SearchForImport(imp.ClassPackage.String(), imp.ClassName.String(), imp.ObjectName.String()); ok {
		return idx, nil
	}

	dup := &asset.Import{
		ClassPackage: imp.ClassPackage,
		ClassName:    imp.ClassName,
		ObjectName:   imp.ObjectName,
		OuterIndex:   imp.OuterIndex,
		Optional:     imp.Optional,
	}
	dup.ClassPackage.Retarget(r.target)
	dup.ClassName.Retarget(r.target)
	dup.ObjectName.Retarget(r.target)

	switch {
	case dup.OuterIndex.IsImport():
		r.pending = append(r.pending, &dup.OuterIndex)
	case dup.OuterIndex.IsExport():
		return asset.Null(), errors.InvalidData(errors.PhaseResolve, []string{imp.ObjectName.String(), "OuterIndex"},
			fmt.Sprintf("import outer %s is an export", dup.OuterIndex))
	}

	idx := r.target.AddImport(dup)
	r.created = append(r.created, idx)
	return idx, nil
}

// Close resolves the outer chains of every import created so far and checks
// that none of them loops back on itself.
func (r *Resolver) Close() error {
	for i := 0; i < len(r.pending); i++ {
		ref := r.pending[i]
		imp, err := r.source.Import(*ref)
		if err != nil {
			return errors.Wrap(errors.PhaseResolve, errors.KindInvalidData, err, "resolve import outer")
		}
		idx, err := r.findOrAdd(imp)
		if err != nil {
			return err
		}
		*ref = idx
	}
	r.pending = r.pending[:0]
	return r.checkAcyclic()
}

func (r *Resolver) checkAcyclic() error {
	limit := len(r.target.Imports)
	for _, start := range r.created {
		steps := 0
		for cur := start; cur.IsImport(); steps++ {
			if steps > limit {
				return errors.Cycle(errors.PhaseResolve,
					fmt.Sprintf("outer chain of import %s", r.target.Imports[start.Index].ObjectName))
			}
			imp, err := r.target.Import(cur)
			if err != nil {
				return err
			}
			cur = imp.OuterIndex
		}
	}
	return nil
}

// Created returns the target imports appended by this resolver, in order.
func (r *Resolver) Created() []asset.PackageIndex {
	out := make([]asset.PackageIndex, len(r.created))
	copy(out, r.created)
	return out
}

