package errors

import (
	"fmt"
	"strings"
)

// Phase indicates where in processing the error occurred
type Phase string

const (
	PhaseLoad     Phase = "load"     // reading input files
	PhaseDecode   Phase = "decode"   // container bytes to asset model
	PhaseEncode   Phase = "encode"   // asset model to container bytes
	PhaseParse    Phase = "parse"    // mappings and option parsing
	PhaseValidate Phase = "validate" // preflight and parameter shapes
	PhaseSelect   Phase = "select"   // candidate selection and hook matching
	PhaseRewrite  Phase = "rewrite"  // reference translation
	PhaseResolve  Phase = "resolve"  // import closure
	PhaseInstall  Phase = "install"  // appending merged functions
	PhaseWrite    Phase = "write"    // writing the merged asset
)

// Kind categorizes the error
type Kind string

const (
	KindPrecondition  Kind = "precondition"
	KindHookTarget    Kind = "hook_target_not_found"
	KindShapeMismatch Kind = "shape_mismatch"
	KindUnresolved    Kind = "unresolved_reference"
	KindCycle         Kind = "cycle"
	KindInvalidData   Kind = "invalid_data"
	KindOutOfBounds   Kind = "out_of_bounds"
	KindUnsupported   Kind = "unsupported"
	KindNotFound      Kind = "not_found"
	KindInvalidInput  Kind = "invalid_input"
)

// Error is the structured error type used throughout the tool
type Error struct {
	Value    any
	Cause    error
	Phase    Phase
	Kind     Kind
	Function string
	Param    string
	Detail   string
	Path     []string
}

// Error implements the error interface
func (e *Error) Error() string {
	var b strings.Builder

	b.WriteByte('[')
	b.WriteString(string(e.Phase))
	b.WriteString("] ")
	b.WriteString(string(e.Kind))

	if e.Function != "" {
		b.WriteString(" in ")
		b.WriteString(e.Function)
		if e.Param != "" {
			b.WriteString(" parameter ")
			b.WriteString(e.Param)
		}
	}

	if len(e.Path) > 0 {
		b.WriteString(" at ")
		b.WriteString(strings.Join(e.Path, "."))
	}

	if e.Detail != "" {
		b.WriteString(": ")
		b.WriteString(e.Detail)
	}

	if e.Cause != nil {
		b.WriteString(" (caused by: ")
		b.WriteString(e.Cause.Error())
		b.WriteByte(')')
	}

	return b.String()
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Phase == t.Phase && e.Kind == t.Kind
	}
	return false
}

// Builder provides structured error construction
type Builder struct {
	err Error
}

// New creates a new error builder
func New(phase Phase, kind Kind) *Builder {
	return &Builder{
		err: Error{
			Phase: phase,
			Kind:  kind,
		},
	}
}

// Function sets the function the error refers to
func (b *Builder) Function(name string) *Builder {
	b.err.Function = name
	return b
}

// Param sets the parameter the error refers to
func (b *Builder) Param(name string) *Builder {
	b.err.Param = name
	return b
}

// Path sets the traversal path
func (b *Builder) Path(path ...string) *Builder {
	b.err.Path = path
	return b
}

// Value sets the offending value
func (b *Builder) Value(v any) *Builder {
	b.err.Value = v
	return b
}

// Cause sets the underlying error
func (b *Builder) Cause(err error) *Builder {
	b.err.Cause = err
	return b
}

// Detail sets the human-readable detail message
func (b *Builder) Detail(msg string, args ...any) *Builder {
	if len(args) > 0 {
		b.err.Detail = fmt.Sprintf(msg, args...)
	} else {
		b.err.Detail = msg
	}
	return b
}

// Build returns the constructed error
func (b *Builder) Build() *Error {
	return &b.err
}

// Convenience constructors for common error patterns

// Precondition creates a preflight failure reported before any mutation
func Precondition(detail string) *Error {
	return &Error{
		Phase:  PhaseValidate,
		Kind:   KindPrecondition,
		Detail: detail,
	}
}

// HookTargetNotFound creates an error for a hook_ function with nothing to hook
func HookTargetNotFound(hook, target string) *Error {
	return &Error{
		Phase:    PhaseSelect,
		Kind:     KindHookTarget,
		Function: hook,
		Detail:   fmt.Sprintf("no function %q to hook was found", target),
	}
}

// ShapeMismatch creates a parameter shape mismatch error
func ShapeMismatch(function, param, detail string) *Error {
	return &Error{
		Phase:    PhaseValidate,
		Kind:     KindShapeMismatch,
		Function: function,
		Param:    param,
		Detail:   detail,
	}
}

// Unresolved creates an error for an export reference that cannot be mapped
func Unresolved(path []string, name string) *Error {
	return &Error{
		Phase:  PhaseRewrite,
		Kind:   KindUnresolved,
		Path:   path,
		Detail: fmt.Sprintf("could not find export %q in blueprint", name),
		Value:  name,
	}
}

// Cycle creates an error for a cyclic reference chain
func Cycle(phase Phase, what string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindCycle,
		Detail: what,
	}
}

// OutOfBounds creates an out of bounds error
func OutOfBounds(phase Phase, path []string, index, length int) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindOutOfBounds,
		Path:   path,
		Detail: fmt.Sprintf("index %d out of bounds (length %d)", index, length),
		Value:  index,
	}
}

// InvalidData creates an invalid data error
func InvalidData(phase Phase, path []string, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindInvalidData,
		Path:   path,
		Detail: detail,
	}
}

// Unsupported creates an unsupported operation error
func Unsupported(phase Phase, what string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindUnsupported,
		Detail: what,
	}
}

// NotFound creates a not-found error
func NotFound(phase Phase, what, name string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindNotFound,
		Detail: fmt.Sprintf("%s %q not found", what, name),
	}
}

// InvalidInput creates an invalid input error
func InvalidInput(phase Phase, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindInvalidInput,
		Detail: detail,
	}
}

// Wrap wraps an existing error with additional context
func Wrap(phase Phase, kind Kind, cause error, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   kind,
		Detail: detail,
		Cause:  cause,
	}
}

// Load creates an input loading error
func Load(detail string, cause error) *Error {
	return &Error{
		Phase:  PhaseLoad,
		Kind:   KindInvalidData,
		Detail: detail,
		Cause:  cause,
	}
}

// ParseFailed creates a parsing error
func ParseFailed(what string, cause error) *Error {
	return &Error{
		Phase:  PhaseParse,
		Kind:   KindInvalidData,
		Detail: fmt.Sprintf("parse %s", what),
		Cause:  cause,
	}
}
