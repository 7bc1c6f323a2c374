package idlc

import (
	"testing"

	"github.com/davecgh/go-spew/spew"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEntity_AddChild_SetsOwner(t *testing.T) {
	parent := NewEntity(KindNamespace, "outer")
	child := NewEntity(KindStruct, "S")
	parent.AddChild(child)

	require.Same(t, parent, child.Owner)
	require.Len(t, parent.Children, 1)
	assert.Same(t, child, parent.Children[0])
}

func TestEntity_QualifiedName(t *testing.T) {
	tests := []struct {
		name     string
		build    func() *Entity
		expected string
	}{
		{
			name: "root-level struct",
			build: func() *Entity {
				root := NewEntity(KindNamespace, "")
				s := NewEntity(KindStruct, "Point")
				root.AddChild(s)
				return s
			},
			expected: "Point",
		},
		{
			name: "nested in one namespace",
			build: func() *Entity {
				root := NewEntity(KindNamespace, "")
				ns := NewEntity(KindNamespace, "geometry")
				root.AddChild(ns)
				s := NewEntity(KindStruct, "Point")
				ns.AddChild(s)
				return s
			},
			expected: "geometry::Point",
		},
		{
			name: "nested two deep",
			build: func() *Entity {
				root := NewEntity(KindNamespace, "")
				outer := NewEntity(KindNamespace, "a")
				inner := NewEntity(KindNamespace, "b")
				root.AddChild(outer)
				outer.AddChild(inner)
				i := NewEntity(KindInterface, "Widget")
				inner.AddChild(i)
				return i
			},
			expected: "a::b::Widget",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := tt.build()
			assert.Equal(t, tt.expected, e.QualifiedName(), spew.Sdump(e))
		})
	}
}

func TestEntity_ChildrenOfKind_PreservesDeclarationOrder(t *testing.T) {
	iface := NewEntity(KindInterface, "Foo")
	m1 := NewEntity(KindFunctionMethod, "first")
	m2 := NewEntity(KindFunctionMethod, "second")
	marker := NewEntity(KindFunctionPublicMarker, "")
	iface.AddChild(m1)
	iface.AddChild(marker)
	iface.AddChild(m2)

	methods := iface.Methods()
	require.Len(t, methods, 2)
	assert.Equal(t, "first", methods[0].Name)
	assert.Equal(t, "second", methods[1].Name)
}

func TestEntity_FindChildClass(t *testing.T) {
	ns := NewEntity(KindNamespace, "outer")
	s := NewEntity(KindStruct, "Point")
	ns.AddChild(s)

	found := ns.FindChildClass("Point")
	require.NotNil(t, found)
	assert.Same(t, s, found)

	assert.Nil(t, ns.FindChildClass("Missing"))
}

func TestEntity_Root(t *testing.T) {
	root := NewEntity(KindNamespace, "")
	ns := NewEntity(KindNamespace, "a")
	root.AddChild(ns)
	leaf := NewEntity(KindStruct, "S")
	ns.AddChild(leaf)

	assert.Same(t, root, leaf.Root())
	assert.Same(t, root, root.Root())
}

func TestParameter_AttributePredicates(t *testing.T) {
	p := &Parameter{Type: "int&", Name: "x", Attributes: []string{"in", "out", "const", "tag=5"}}
	assert.True(t, p.IsIn())
	assert.True(t, p.IsOut())
	assert.True(t, p.IsConst())
	assert.Equal(t, "5", p.AttributeValue("tag"))
	assert.True(t, p.HasAttribute("tag"))
	assert.False(t, p.HasAttribute("by_value"))
}

func TestEntityKind_Predicates(t *testing.T) {
	classKinds := []EntityKind{KindNamespace, KindStruct, KindInterface, KindLibrary, KindEnum, KindTypedef}
	for _, k := range classKinds {
		assert.True(t, k.IsClassKind(), k.String())
		assert.False(t, k.IsFunctionKind(), k.String())
	}

	functionKinds := []EntityKind{KindFunctionMethod, KindFunctionVariable, KindFunctionPublicMarker,
		KindFunctionPrivateMarker, KindCppQuote, KindConstexpr}
	for _, k := range functionKinds {
		assert.True(t, k.IsFunctionKind(), k.String())
		assert.False(t, k.IsClassKind(), k.String())
	}
}
