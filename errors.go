package idlc

import "fmt"

// ErrorKind tags every fatal diagnostic the core can raise (spec.md §7).
// No pack repository wraps stdlib errors with a third-party error library
// (no `pkg/errors`, no `multierr` appears anywhere in the retrieved
// examples), so CompileError follows the teacher's own plain-struct
// ParsingError shape instead of reaching for one.
type ErrorKind int

const (
	ErrMissingIdl ErrorKind = iota
	ErrMalformedTemplate
	ErrMalformedSharedPtr
	ErrUnsupportedModifier
	ErrInterfaceByPointer
	ErrReferenceFromGuest
	ErrMoveOutOrConst
	ErrPointerOut
	ErrConstOutPointerRef
	ErrOutWithoutIndirection
	ErrUnknownParse
)

func (k ErrorKind) String() string {
	switch k {
	case ErrMissingIdl:
		return "MissingIdl"
	case ErrMalformedTemplate:
		return "MalformedTemplate"
	case ErrMalformedSharedPtr:
		return "MalformedSharedPtr"
	case ErrUnsupportedModifier:
		return "UnsupportedModifier"
	case ErrInterfaceByPointer:
		return "InterfaceByPointer"
	case ErrReferenceFromGuest:
		return "ReferenceFromGuest"
	case ErrMoveOutOrConst:
		return "MoveOutOrConst"
	case ErrPointerOut:
		return "PointerOut"
	case ErrConstOutPointerRef:
		return "ConstOutPointerRef"
	case ErrOutWithoutIndirection:
		return "OutWithoutIndirection"
	case ErrUnknownParse:
		return "UnknownParse"
	default:
		return "Unknown"
	}
}

// CompileError is the single error type every fatal diagnostic of spec.md
// §7 is reported as. Text carries the offending fragment (a type string,
// a parameter name, an IDL path) named by the triggering rule.
type CompileError struct {
	Kind    ErrorKind
	Text    string
	Context string // optional: enclosing method/struct/interface name
}

func (e *CompileError) Error() string {
	if e.Context != "" {
		return fmt.Sprintf("%s: %s (in %s)", e.Kind, e.Text, e.Context)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Text)
}

// IsCompileError reports whether err is a *CompileError of the given kind.
func IsCompileError(err error, kind ErrorKind) bool {
	ce, ok := err.(*CompileError)
	return ok && ce.Kind == kind
}
