package idlc

import "strings"

// referenceModifiers lists every trailing sequence strip_reference_modifiers
// recognizes, longest first so "*&" isn't mistaken for "*" plus an
// ambiguous remainder.
var referenceModifiers = []string{"*&", "&&", "**", "&", "*"}

// StripReferenceModifiers splits typ into its base type and the maximal
// trailing modifier from {&, &&, *, *&, **}, trimming surrounding
// whitespace from both halves (spec.md §4.1).
func StripReferenceModifiers(typ string) (base string, modifier string) {
	trimmed := strings.TrimSpace(typ)
	for _, mod := range referenceModifiers {
		if strings.HasSuffix(trimmed, mod) {
			return strings.TrimSpace(strings.TrimSuffix(trimmed, mod)), mod
		}
	}
	return trimmed, ""
}

// GetTemplateParam returns the substring between the outermost `<` and its
// matching `>` in typ, or "" if typ has no template argument list.
// Malformed (unbalanced) input fails with MalformedTemplate.
func GetTemplateParam(typ string) (string, error) {
	start := strings.IndexByte(typ, '<')
	if start < 0 {
		return "", nil
	}
	depth := 0
	for i := start; i < len(typ); i++ {
		switch typ[i] {
		case '<':
			depth++
		case '>':
			depth--
			if depth == 0 {
				return typ[start+1 : i], nil
			}
		}
	}
	return "", &CompileError{Kind: ErrMalformedTemplate, Text: typ}
}

const sharedPtrPrefix = "rpc::shared_ptr<"

// ExtractSharedPtrInner returns the type argument of a leading
// `rpc::shared_ptr<…>` wrapper, trimmed of whitespace, or typ unchanged if
// the wrapper is absent. A wrapper with no matching `>` fails with
// MalformedSharedPtr.
func ExtractSharedPtrInner(typ string) (string, error) {
	trimmed := strings.TrimSpace(typ)
	if !strings.HasPrefix(trimmed, sharedPtrPrefix) {
		return typ, nil
	}
	rest := trimmed[len(sharedPtrPrefix):]
	depth := 1
	for i := 0; i < len(rest); i++ {
		switch rest[i] {
		case '<':
			depth++
		case '>':
			depth--
			if depth == 0 {
				return strings.TrimSpace(rest[:i]), nil
			}
		}
	}
	return "", &CompileError{Kind: ErrMalformedSharedPtr, Text: typ}
}

// SplitNamespaces splits a `::`-qualified name into its ordered segments,
// preserving a leading empty segment iff name starts with `::` (so the
// scope resolver can tell a root-relative lookup from a relative one).
func SplitNamespaces(name string) []string {
	return strings.Split(name, "::")
}

func hasAttribute(attrs []string, name string) bool {
	for _, a := range attrs {
		if a == name {
			return true
		}
		if key, _, ok := strings.Cut(a, "="); ok && key == name {
			return true
		}
	}
	return false
}

func attributeValue(attrs []string, name string) string {
	for _, a := range attrs {
		if key, value, ok := strings.Cut(a, "="); ok && key == name {
			return value
		}
	}
	return ""
}

func isIn(attrs []string) bool    { return hasAttribute(attrs, "in") }
func isOut(attrs []string) bool   { return hasAttribute(attrs, "out") }
func isConst(attrs []string) bool { return hasAttribute(attrs, "const") }

// IsIn, IsOut, IsConst, HasAttribute, and AttributeValue are the attribute
// membership predicates of spec.md §4.1, exposed as free functions over a
// raw attribute list (Parameter and Entity also expose them as methods).
func IsIn(attrs []string) bool      { return isIn(attrs) }
func IsOut(attrs []string) bool     { return isOut(attrs) }
func IsConst(attrs []string) bool   { return isConst(attrs) }
func HasAttribute(attrs []string, name string) bool { return hasAttribute(attrs, name) }
func AttributeValue(attrs []string, name string) string {
	return attributeValue(attrs, name)
}
