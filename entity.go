package idlc

import "strings"

// EntityKind tags every node in the semantic model built by the (external)
// parser. See spec.md §3.
type EntityKind int

const (
	KindNamespace EntityKind = iota
	KindStruct
	KindInterface
	KindLibrary
	KindEnum
	KindTypedef
	KindFunctionMethod
	KindFunctionVariable
	KindFunctionPublicMarker
	KindFunctionPrivateMarker
	KindCppQuote
	KindConstexpr
	KindEnumValue
)

func (k EntityKind) String() string {
	switch k {
	case KindNamespace:
		return "namespace"
	case KindStruct:
		return "struct"
	case KindInterface:
		return "interface"
	case KindLibrary:
		return "library"
	case KindEnum:
		return "enum"
	case KindTypedef:
		return "typedef"
	case KindFunctionMethod:
		return "function_method"
	case KindFunctionVariable:
		return "function_variable"
	case KindFunctionPublicMarker:
		return "function_public_marker"
	case KindFunctionPrivateMarker:
		return "function_private_marker"
	case KindCppQuote:
		return "cpp_quote"
	case KindConstexpr:
		return "constexpr"
	case KindEnumValue:
		return "enum_value"
	default:
		return "unknown"
	}
}

// IsClassKind reports whether k is one of the class-entity kinds that may
// own children, carry base classes, and be a template (spec.md §3).
func (k EntityKind) IsClassKind() bool {
	switch k {
	case KindNamespace, KindStruct, KindInterface, KindLibrary, KindEnum, KindTypedef:
		return true
	default:
		return false
	}
}

// IsFunctionKind reports whether k is one of the function-entity kinds.
func (k EntityKind) IsFunctionKind() bool {
	switch k {
	case KindFunctionMethod, KindFunctionVariable, KindFunctionPublicMarker,
		KindFunctionPrivateMarker, KindCppQuote, KindConstexpr:
		return true
	default:
		return false
	}
}

// TemplateParam is a `{type-keyword, name}` pair for a template class
// entity, e.g. `template<typename T>` renders as {"typename", "T"}.
type TemplateParam struct {
	Keyword string
	Name    string
}

// Parameter carries a type string (including reference modifiers), a name,
// and an attribute list, for one method parameter. Struct fields are not
// Parameters: each field is a KindFunctionVariable Entity whose type lives
// in ReturnType, with its array size and default value in ArraySize and
// DefaultValue.
type Parameter struct {
	Type       string
	Name       string
	Attributes []string
}

func (p *Parameter) HasAttribute(name string) bool { return hasAttribute(p.Attributes, name) }
func (p *Parameter) IsIn() bool                     { return isIn(p.Attributes) }
func (p *Parameter) IsOut() bool                    { return isOut(p.Attributes) }
func (p *Parameter) IsConst() bool                  { return isConst(p.Attributes) }

func (p *Parameter) AttributeValue(name string) string {
	return attributeValue(p.Attributes, name)
}

// Entity is the common supertype for every node in the semantic model
// (spec.md §3). A single tagged struct stands in for what the original
// models as a family of node kinds sharing one base class: Kind selects
// which of the class-entity or function-entity fields below are
// meaningful. Ownership forms a tree; base classes are non-owning pointers
// stored in Bases by whoever builds the model, and type references are
// resolved on demand by the scope resolver (component C).
type Entity struct {
	Kind       EntityKind
	Name       string
	Attributes []string
	Children   []*Entity
	Owner      *Entity
	IsImported bool
	ImportLib  string

	// Class-entity fields (namespace/struct/interface/library/enum/typedef).
	Bases          []*Entity
	IsTemplate     bool
	TemplateParams []TemplateParam
	AliasTarget    string // typedef only

	// Function-entity fields (method/variable/markers/quote/constexpr).
	ReturnType   string
	Params       []*Parameter
	ArraySize    string
	DefaultValue string
}

// NewEntity allocates a detached entity of the given kind. Callers attach it
// to the tree with AddChild.
func NewEntity(kind EntityKind, name string) *Entity {
	return &Entity{Kind: kind, Name: name}
}

// AddChild appends child to e's children and sets child's owner to e.
func (e *Entity) AddChild(child *Entity) {
	child.Owner = e
	e.Children = append(e.Children, child)
}

func (e *Entity) HasAttribute(name string) bool { return hasAttribute(e.Attributes, name) }

func (e *Entity) AttributeValue(name string) string {
	return attributeValue(e.Attributes, name)
}

// ChildrenOfKind returns e's direct children filtered by kind, preserving
// declaration order.
func (e *Entity) ChildrenOfKind(kind EntityKind) []*Entity {
	var out []*Entity
	for _, c := range e.Children {
		if c.Kind == kind {
			out = append(out, c)
		}
	}
	return out
}

// FindChildClass returns the first direct child class-entity named name, in
// declaration order, or nil. Used by the scope resolver (component C).
func (e *Entity) FindChildClass(name string) *Entity {
	for _, c := range e.Children {
		if c.Kind.IsClassKind() && c.Name == name {
			return c
		}
	}
	return nil
}

// Root walks Owner pointers up to the tree root.
func (e *Entity) Root() *Entity {
	cur := e
	for cur.Owner != nil {
		cur = cur.Owner
	}
	return cur
}

// QualifiedName renders the `::`-joined owner chain down to and including e,
// the form the fingerprint generator and the v1 hash path both need.
func (e *Entity) QualifiedName() string {
	var parts []string
	for cur := e; cur != nil && cur.Name != ""; cur = cur.Owner {
		parts = append([]string{cur.Name}, parts...)
	}
	return strings.Join(parts, "::")
}

// Methods returns e's direct KindFunctionMethod children, the ordered
// method list an interface or library fingerprints and emits.
func (e *Entity) Methods() []*Entity {
	return e.ChildrenOfKind(KindFunctionMethod)
}

// Fields returns e's direct KindFunctionVariable children, the ordered
// field list a struct fingerprints and emits.
func (e *Entity) Fields() []*Entity {
	return e.ChildrenOfKind(KindFunctionVariable)
}
