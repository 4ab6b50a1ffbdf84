// Package errors provides structured error types for the blueprint-hook tool.
//
// Errors are categorized by Phase (where in the merge pipeline the error
// occurred) and Kind (error category). The Error type carries enough context
// to locate the offending element: the function and parameter involved and
// the traversal path through the object graph.
//
// Use the Builder for structured error construction:
//
//	err := errors.New(errors.PhaseValidate, errors.KindShapeMismatch).
//		Function("hook_OnDamage").
//		Param("Amount").
//		Detail("FloatProperty does not match IntProperty").
//		Build()
//
// Or use convenience constructors for common patterns:
//
//	err := errors.HookTargetNotFound("hook_OnDamage", "OnDamage")
//	err := errors.Unresolved([]string{"#[0]", "Script[2]", "StackNode"}, "Helper")
//
// All errors implement the standard error interface and support errors.Is/As.
package errors
