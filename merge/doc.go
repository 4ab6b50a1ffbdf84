// Package merge installs functions from a hook blueprint into an original blueprint.
//
// # Main Types
//
//   - Merger: plans and applies a merge of two assets
//   - Plan: the validated, not yet applied, set of changes
//   - Rewriter: translates references of moved exports into the target namespace
//   - Report: the functions installed by Apply
//
// # Hooks
//
// A function named hook_F replaces the original function F. The original is
// renamed orig_F and stays callable, so the hook can call through to it.
// Functions without the prefix are added as new functions. Functions named
// orig_* or ExecuteUbergraph_* are never moved.
//
// # Phases
//
//  1. Preflight: both assets expose one class; hook class properties exist in the original
//  2. Select: pick candidate functions not already present in the original
//  3. Detect: pair every hook_F with F
//  4. Validate: parameter shapes of each pair must match
//  5. Rewrite: rename originals, translate names, exports and imports
//  6. Install: move the functions and register them with the class
//
// Plan runs steps 1 to 4, then checks that every export a candidate refers to
// will resolve. It never touches the original asset. Apply runs the rest. A failed Plan leaves both assets untouched.
//
// # Example
//
//	m := merge.New(merge.DefaultOptions())
//	report, err := m.Merge(hook, orig)
//	if err != nil {
//		return err
//	}
//	if report.NoOp {
//		return nil
//	}
//	data, err := orig.Encode()
package merge
