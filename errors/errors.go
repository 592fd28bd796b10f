package errors

import (
	"fmt"
	"strings"
)

// Phase indicates where in processing the error occurred
type Phase string

const (
	PhaseAlloc   Phase = "alloc"   // arena sizing and chunk lookup
	PhaseDecode  Phase = "decode"  // binary program to Go
	PhaseEncode  Phase = "encode"  // Go program to binary
	PhaseParse   Phase = "parse"   // authoring text format
	PhaseLink    Phase = "link"    // op id resolution
	PhaseExecute Phase = "execute" // interpreter and operations
	PhaseHost    Phase = "host"    // guest memory hosting
	PhaseConfig  Phase = "config"  // configuration loading
)

// Kind categorizes the error
type Kind string

const (
	KindCapacity     Kind = "capacity"
	KindOutOfBounds  Kind = "out_of_bounds"
	KindArity        Kind = "arity"
	KindUnknownOp    Kind = "unknown_op"
	KindInvalidData  Kind = "invalid_data"
	KindInvalidInput Kind = "invalid_input"
	KindNotFound     Kind = "not_found"
	KindUnsupported  Kind = "unsupported"
	KindOverflow     Kind = "overflow"
	KindForwardRef   Kind = "forward_ref"
)

// Error is the structured error type used throughout procgen
type Error struct {
	Value  any
	Cause  error
	Phase  Phase
	Kind   Kind
	Op     string
	Detail string
	Path   []string
}

// Error implements the error interface
func (e *Error) Error() string {
	var b strings.Builder

	b.WriteByte('[')
	b.WriteString(string(e.Phase))
	b.WriteString("] ")
	b.WriteString(string(e.Kind))

	if len(e.Path) > 0 {
		b.WriteString(" at ")
		b.WriteString(strings.Join(e.Path, "."))
	}

	if e.Op != "" {
		b.WriteString(": op ")
		b.WriteString(e.Op)
	}

	if e.Detail != "" {
		if e.Op != "" {
			b.WriteString(" - ")
		} else {
			b.WriteString(": ")
		}
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

// Path sets the location path
func (b *Builder) Path(path ...string) *Builder {
	b.err.Path = path
	return b
}

// Op sets the operation name
func (b *Builder) Op(name string) *Builder {
	b.err.Op = name
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

// Capacity creates an error for a request larger than a fixed capacity
func Capacity(phase Phase, requested, capacity uint64) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindCapacity,
		Detail: fmt.Sprintf("requested %d bytes exceeds capacity %d", requested, capacity),
		Value:  requested,
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

// Arity creates an error for an operation called with the wrong number of values
func Arity(phase Phase, op, what string, got, want int) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindArity,
		Op:     op,
		Detail: fmt.Sprintf("got %d %s, want %d", got, what, want),
		Value:  got,
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

// InvalidInput creates an invalid input error
func InvalidInput(phase Phase, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindInvalidInput,
		Detail: detail,
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

// Unsupported creates an unsupported operation error
func Unsupported(phase Phase, what string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindUnsupported,
		Detail: what,
	}
}

// Overflow creates an overflow error
func Overflow(phase Phase, path []string, value any, target string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindOverflow,
		Path:   path,
		Detail: fmt.Sprintf("value %v overflows %s", value, target),
		Value:  value,
	}
}

// ForwardRef creates an error for an input slot not written by an earlier op
func ForwardRef(index int, op string, slot uint32) *Error {
	return &Error{
		Phase:  PhaseExecute,
		Kind:   KindForwardRef,
		Path:   []string{fmt.Sprintf("op[%d]", index)},
		Op:     op,
		Detail: fmt.Sprintf("input slot %d is not written by an earlier op", slot),
		Value:  slot,
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

// UnresolvedOp is a single instruction whose op id could not be linked
type UnresolvedOp struct {
	Index int
	ID    uint64
}

// UnresolvedOpsError is returned when linking finds op ids with no registered operation
type UnresolvedOpsError struct {
	Ops []UnresolvedOp
}

func (e *UnresolvedOpsError) Error() string {
	if len(e.Ops) == 0 {
		return "[link] unknown_op: no ops specified"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "[link] unknown_op: %d unresolved op(s):", len(e.Ops))
	for _, op := range e.Ops {
		fmt.Fprintf(&b, "\n  - op[%d] id %d", op.Index, op.ID)
	}
	return b.String()
}

// Is reports whether target matches this error type. It also matches the
// generic link/unknown_op *Error so callers can test either form.
func (e *UnresolvedOpsError) Is(target error) bool {
	switch t := target.(type) {
	case *UnresolvedOpsError:
		return true
	case *Error:
		return t.Phase == PhaseLink && t.Kind == KindUnknownOp
	}
	return false
}
