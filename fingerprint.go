package idlc

import (
	"encoding/binary"
	"strconv"
	"strings"

	"golang.org/x/crypto/sha3"
)

// Fingerprinter produces the 64-bit structural digests of spec.md §4.3. The
// in-flight call stack is threaded as an explicit field rather than a
// package-level global, per spec.md §5 ("the fingerprint generator threads
// its recursion stack as an explicit parameter, never a shared mutable
// collection") and per DESIGN NOTES' redesign of the cycle sentinel — the
// same shape grammar_import.go's sortedDeps uses to track definition
// dependencies during import resolution.
type Fingerprinter struct {
	stack []*Entity
	cache map[*Entity]uint64
}

// NewFingerprinter returns a Fingerprinter ready to fingerprint any entity
// reachable from the same model root. A single Fingerprinter may be reused
// across calls; its cache only ever grows.
func NewFingerprinter() *Fingerprinter {
	return &Fingerprinter{cache: map[*Entity]uint64{}}
}

// Fingerprint returns the stable structural digest of e (spec.md §4.3). It
// is deterministic for a fixed entity in a fixed model and depends only on
// structural shape reachable from e, never on file paths or declaration
// order outside the IDL.
func (f *Fingerprinter) Fingerprint(e *Entity) uint64 {
	// Only a top-level call reads or fills the cache: a digest computed
	// while other entities are on the stack may have a cycle substituted by
	// name, and so differs from e's own top-level digest.
	topLevel := len(f.stack) == 0
	if topLevel {
		if v, ok := f.cache[e]; ok {
			return v
		}
	}
	for _, onStack := range f.stack {
		if onStack == e {
			// Recursive self-reference: the caller substitutes e's fully
			// qualified name textually instead of this sentinel. 0 is
			// never cached — the real digest, computed by the outermost
			// (non-recursive) call, is cached instead.
			return 0
		}
	}

	f.stack = append(f.stack, e)
	seed := f.seed(e)
	f.stack = f.stack[:len(f.stack)-1]

	digest := binary.LittleEndian.Uint64(sha3Sum(seed)[:8])
	if topLevel {
		f.cache[e] = digest
	}
	return digest
}

func sha3Sum(seed string) []byte {
	sum := sha3.Sum256([]byte(seed))
	return sum[:]
}

// qualifiedOrFingerprint renders ref (a type referenced from within a seed
// being built) as its own fingerprint in decimal, or as its fully
// qualified name if that fingerprint resolves to 0 (cycle), per spec.md
// §4.3's template-substitution rule.
func (f *Fingerprinter) qualifiedOrFingerprint(ref *Entity) string {
	fp := f.Fingerprint(ref)
	if fp == 0 {
		return ref.QualifiedName()
	}
	return strconv.FormatUint(fp, 10)
}

// seed builds the entity-kind-specific canonical seed string described by
// spec.md §4.3, step 2.
func (f *Fingerprinter) seed(e *Entity) string {
	switch e.Kind {
	case KindInterface, KindLibrary:
		return f.seedInterfaceOrLibrary(e)
	case KindFunctionMethod:
		return f.seedMethod(e)
	case KindStruct:
		return f.seedStruct(e)
	case KindCppQuote:
		return f.seedCppQuote(e)
	case KindFunctionPublicMarker:
		return "public:"
	case KindFunctionPrivateMarker:
		return "private:"
	default:
		// Every other kind (namespace, enum, typedef, variable, ...) is
		// never a top-level Fingerprint target; methods and fields are
		// seeded by seedMethod/seedStruct directly via seedParameter.
		return ""
	}
}

func (f *Fingerprinter) seedInterfaceOrLibrary(e *Entity) string {
	var b strings.Builder
	for _, a := range e.Attributes {
		b.WriteString(a)
	}
	b.WriteString(ownerChain(e))
	if e.Kind == KindLibrary {
		b.WriteString("i_")
	}
	b.WriteString(e.Name)
	b.WriteString("{")
	for _, member := range e.Children {
		f.writeInterfaceMember(&b, member)
	}
	b.WriteString("}")
	return b.String()
}

// writeInterfaceMember appends one interface/library member's seed
// contribution, skipping no_fingerprint methods entirely.
func (f *Fingerprinter) writeInterfaceMember(b *strings.Builder, member *Entity) {
	switch member.Kind {
	case KindFunctionMethod:
		if member.HasAttribute("no_fingerprint") {
			return
		}
		b.WriteString(f.seedMethod(member))
	case KindCppQuote:
		b.WriteString(f.seedCppQuote(member))
	case KindFunctionPublicMarker:
		b.WriteString("public:")
	case KindFunctionPrivateMarker:
		b.WriteString("private:")
	}
}

func (f *Fingerprinter) seedMethod(m *Entity) string {
	var b strings.Builder
	b.WriteString("[")
	for _, a := range m.Attributes {
		// `_deprecated` never perturbs the fingerprint; the un-prefixed
		// `deprecated` currently does, by legacy (spec.md §4.3, §9 open
		// question — preserved here as-is).
		if a == "_deprecated" {
			continue
		}
		b.WriteString(a)
	}
	b.WriteString("]")
	b.WriteString(m.Name)
	b.WriteString("(")
	for _, p := range m.Params {
		b.WriteString(f.seedParameter(p.Attributes, p.Type, p.Name, m))
	}
	b.WriteString(")")
	return b.String()
}

// seedParameter renders one parameter or struct field: a bracketed
// attribute list, the type with every referenced named type substituted by
// its own fingerprint, the reference-modifier string, a space, the name,
// and a trailing comma. context is the method or struct the parameter/field
// belongs to, used to resolve type references in scope.
func (f *Fingerprinter) seedParameter(attrs []string, typ string, name string, context *Entity) string {
	var b strings.Builder
	b.WriteString("[")
	for _, a := range attrs {
		b.WriteString(a)
	}
	b.WriteString("]")

	base, modifier := StripReferenceModifiers(typ)
	b.WriteString(f.ResolveAndSubstitute(base, context))
	b.WriteString(modifier)
	b.WriteString(" ")
	b.WriteString(name)
	b.WriteString(",")
	return b.String()
}

// ResolveAndSubstitute implements spec.md §4.3's
// extract_substituted_templates/substitute_template_params pair: it scans
// text character by character, and for every maximal run of identifier
// characters (alnum, `_`, `:`) that resolves via Resolve against context to
// something other than context itself, it substitutes that entity's own
// fingerprint (decimal) or fully qualified name (if the fingerprint is 0).
// Non-identifier characters pass through verbatim.
func (f *Fingerprinter) ResolveAndSubstitute(text string, context *Entity) string {
	var b strings.Builder
	i := 0
	for i < len(text) {
		if isIdentChar(text[i]) {
			j := i
			for j < len(text) && isIdentChar(text[j]) {
				j++
			}
			ident := text[i:j]
			if resolved, ok := Resolve(ident, context); ok && resolved != context {
				b.WriteString(f.qualifiedOrFingerprint(resolved))
			} else {
				b.WriteString(ident)
			}
			i = j
			continue
		}
		b.WriteByte(text[i])
		i++
	}
	return b.String()
}

func isIdentChar(c byte) bool {
	return c == '_' || c == ':' ||
		(c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9')
}

// SubstituteTemplateParams finds the outermost `<…>` in typ, replaces the
// interior with replacement, and leaves deeper angle brackets untouched.
// Unbalanced `<…>` fails with MalformedTemplate.
func SubstituteTemplateParams(typ string, replacement string) (string, error) {
	start := strings.IndexByte(typ, '<')
	if start < 0 {
		return typ, nil
	}
	depth := 0
	for i := start; i < len(typ); i++ {
		switch typ[i] {
		case '<':
			depth++
		case '>':
			depth--
			if depth == 0 {
				return typ[:start+1] + replacement + typ[i:], nil
			}
		}
	}
	return "", &CompileError{Kind: ErrMalformedTemplate, Text: typ}
}

func (f *Fingerprinter) seedStruct(s *Entity) string {
	if s.IsTemplate {
		// Template structs are not fingerprinted (spec.md §4.3).
		return ""
	}
	var b strings.Builder
	b.WriteString("struct")
	b.WriteString(s.QualifiedName())
	if len(s.Bases) > 0 {
		b.WriteString(": ")
		for i, base := range s.Bases {
			if i > 0 {
				b.WriteString(", ")
			}
			b.WriteString(f.qualifiedOrFingerprint(base))
		}
	}
	b.WriteString("{")
	for _, field := range s.Fields() {
		b.WriteString(f.seedParameter(field.Attributes, field.ReturnType, field.Name, s))
		if field.ArraySize != "" {
			b.WriteString("[")
			b.WriteString(field.ArraySize)
			b.WriteString("]")
		}
	}
	b.WriteString("}")
	return b.String()
}

func (f *Fingerprinter) seedCppQuote(q *Entity) string {
	sum := sha3.Sum256([]byte(q.DefaultValue))
	n := binary.LittleEndian.Uint64(sum[:8])
	return "#cpp_quote" + strconv.FormatUint(n, 10)
}

func ownerChain(e *Entity) string {
	var parts []string
	for cur := e.Owner; cur != nil && cur.Name != ""; cur = cur.Owner {
		parts = append([]string{cur.Name}, parts...)
	}
	return strings.Join(parts, "::")
}
