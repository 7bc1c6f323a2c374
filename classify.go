package idlc

// Role is the ABI role a parameter is classified into by component E
// (spec.md §4.4).
type Role int

const (
	RoleByValue Role = iota
	RoleReference
	RoleMove
	RolePointer
	RolePointerReference
	RolePointerToPointer
	RoleInterface
	RoleInterfaceReference
)

func (r Role) String() string {
	switch r {
	case RoleByValue:
		return "ByValue"
	case RoleReference:
		return "Reference"
	case RoleMove:
		return "Move"
	case RolePointer:
		return "Pointer"
	case RolePointerReference:
		return "PointerReference"
	case RolePointerToPointer:
		return "PointerToPointer"
	case RoleInterface:
		return "Interface"
	case RoleInterfaceReference:
		return "InterfaceReference"
	default:
		return "Unknown"
	}
}

// Classification is the result of classifying one parameter.
type Classification struct {
	Role Role
	// ElementType is the type string with reference modifiers and any
	// shared_ptr<...> wrapper stripped, i.e. the underlying value or
	// interface type this role moves, copies, or points to.
	ElementType string
}

// Classify decides the ABI role of a parameter from its type, attribute
// list, and whether the caller-side code runs in the host zone
// (spec.md §4.4's decision table). isInterface reports whether the
// (unwrapped) element type names an interface entity, as resolved by
// component C against the model the parameter belongs to.
func Classify(typ string, attrs []string, callerIsHost bool, isInterface func(elementType string) bool) (Classification, error) {
	base, modifier := StripReferenceModifiers(typ)

	inner, err := ExtractSharedPtrInner(base)
	if err != nil {
		return Classification{}, err
	}

	isIface := isInterface(inner)
	out := isOut(attrs)
	in := isIn(attrs)
	cnst := isConst(attrs)
	byValue := hasAttribute(attrs, "by_value")

	// An out parameter with no indirection at all can never carry the
	// result back to the caller.
	if out && modifier == "" && !isIface {
		return Classification{}, &CompileError{Kind: ErrOutWithoutIndirection, Text: typ}
	}

	// "out" and "const" never coexist. "&&" and "*" already reject every
	// out combination on their own (MoveOutOrConst, PointerOut), so only
	// the remaining modifiers need the blanket check here.
	if out && cnst && modifier != "&&" && modifier != "*" {
		return Classification{}, &CompileError{Kind: ErrConstOutPointerRef, Text: typ}
	}

	switch modifier {
	case "":
		if isIface {
			return Classification{Role: RoleInterface, ElementType: inner}, nil
		}
		return Classification{Role: RoleByValue, ElementType: inner}, nil

	case "&":
		if isIface {
			if out {
				return Classification{Role: RoleInterfaceReference, ElementType: inner}, nil
			}
			// const or in-only reference to an interface handle.
			return Classification{Role: RoleInterface, ElementType: inner}, nil
		}
		if byValue {
			return Classification{Role: RoleByValue, ElementType: inner}, nil
		}
		if in {
			if !callerIsHost {
				return Classification{}, &CompileError{Kind: ErrReferenceFromGuest, Text: typ}
			}
			return Classification{Role: RoleReference, ElementType: inner}, nil
		}
		if out {
			// A plain "&" out parameter already carries indirection, so
			// unlike the no-modifier case this isn't an error: the original
			// renders it as BY_VALUE unconditionally, no by_value attribute
			// required.
			return Classification{Role: RoleByValue, ElementType: inner}, nil
		}
		return Classification{Role: RoleReference, ElementType: inner}, nil

	case "&&":
		if out || cnst {
			return Classification{}, &CompileError{Kind: ErrMoveOutOrConst, Text: typ}
		}
		return Classification{Role: RoleMove, ElementType: inner}, nil

	case "*":
		if isIface {
			return Classification{}, &CompileError{Kind: ErrInterfaceByPointer, Text: typ}
		}
		if out {
			return Classification{}, &CompileError{Kind: ErrPointerOut, Text: typ}
		}
		return Classification{Role: RolePointer, ElementType: inner}, nil

	case "*&":
		if isIface {
			return Classification{}, &CompileError{Kind: ErrInterfaceByPointer, Text: typ}
		}
		if cnst && out {
			return Classification{}, &CompileError{Kind: ErrConstOutPointerRef, Text: typ}
		}
		return Classification{Role: RolePointerReference, ElementType: inner}, nil

	case "**":
		if isIface {
			return Classification{}, &CompileError{Kind: ErrInterfaceByPointer, Text: typ}
		}
		return Classification{Role: RolePointerToPointer, ElementType: inner}, nil

	default:
		return Classification{}, &CompileError{Kind: ErrUnsupportedModifier, Text: typ}
	}
}

// IsInParam reports whether a parameter carrying attrs should be treated as
// an input: everything except an out-only parameter (spec.md §4.4).
func IsInParam(attrs []string) bool {
	return !(isOut(attrs) && !isIn(attrs))
}

// IsOutParam reports whether a parameter carrying attrs carries a result
// back to the caller: true only when `out` is present.
func IsOutParam(attrs []string) bool {
	return isOut(attrs)
}
