package frontend

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zonerpc/idlc"
)

func TestParse_Namespace(t *testing.T) {
	root, err := Parse(`
		namespace demo {
			interface Foo {
				int ping();
			};
		}
	`, nil)
	require.NoError(t, err)
	require.Len(t, root.Children, 1)

	ns := root.Children[0]
	assert.Equal(t, idlc.KindNamespace, ns.Kind)
	assert.Equal(t, "demo", ns.Name)
	require.Len(t, ns.Children, 1)

	foo := ns.Children[0]
	assert.Equal(t, idlc.KindInterface, foo.Kind)
	assert.Equal(t, "Foo", foo.Name)

	methods := foo.Methods()
	require.Len(t, methods, 1)
	assert.Equal(t, "ping", methods[0].Name)
	assert.Equal(t, "int", methods[0].ReturnType)
}

func TestParse_InterfaceWithBasesAndAttributes(t *testing.T) {
	root, err := Parse(`
		interface Base {
			int noop();
		};
		interface Derived : Base {
			[no_fingerprint] int debugDump();
			[tag=7] int process([in] int x, [out] int& y);
		};
	`, nil)
	require.NoError(t, err)
	require.Len(t, root.Children, 2)

	derived := root.Children[1]
	require.Len(t, derived.Bases, 1)
	assert.Equal(t, "Base", derived.Bases[0].Name)

	methods := derived.Methods()
	require.Len(t, methods, 2)
	assert.True(t, methods[0].HasAttribute("no_fingerprint"))
	assert.Equal(t, "7", methods[1].AttributeValue("tag"))

	process := methods[1]
	require.Len(t, process.Params, 2)
	assert.Equal(t, "x", process.Params[0].Name)
	assert.Equal(t, "int", process.Params[0].Type)
	assert.True(t, process.Params[0].IsIn())
	assert.Equal(t, "y", process.Params[1].Name)
	assert.Equal(t, "int&", process.Params[1].Type)
	assert.True(t, process.Params[1].IsOut())
}

func TestParse_StructWithFieldsArrayAndDefault(t *testing.T) {
	root, err := Parse(`
		struct Point {
			int x = 0;
			int y = 0;
			int history[4];
		};
	`, nil)
	require.NoError(t, err)
	require.Len(t, root.Children, 1)

	point := root.Children[0]
	assert.Equal(t, idlc.KindStruct, point.Kind)
	fields := point.Fields()
	require.Len(t, fields, 3)
	assert.Equal(t, "0", fields[0].DefaultValue)
	assert.Equal(t, "4", fields[2].ArraySize)
}

func TestParse_EnumAndTypedef(t *testing.T) {
	root, err := Parse(`
		enum Color {
			RED = 1,
			GREEN,
			BLUE
		};
		typedef int Score;
	`, nil)
	require.NoError(t, err)
	require.Len(t, root.Children, 2)

	colors := root.Children[0]
	assert.Equal(t, idlc.KindEnum, colors.Kind)
	values := colors.ChildrenOfKind(idlc.KindEnumValue)
	require.Len(t, values, 3)
	assert.Equal(t, "1", values[0].DefaultValue)
	assert.Empty(t, values[1].DefaultValue)

	score := root.Children[1]
	assert.Equal(t, idlc.KindTypedef, score.Kind)
	assert.Equal(t, "int", score.AliasTarget)
}

func TestParse_TemplateParams(t *testing.T) {
	root, err := Parse(`
		struct Box template<typename T> {
			T value;
		};
	`, nil)
	require.NoError(t, err)
	box := root.Children[0]
	assert.True(t, box.IsTemplate)
	require.Len(t, box.TemplateParams, 1)
	assert.Equal(t, "typename", box.TemplateParams[0].Keyword)
	assert.Equal(t, "T", box.TemplateParams[0].Name)
}

func TestParse_CppQuote(t *testing.T) {
	root, err := Parse(`cpp_quote("#include <cstdint>");`, nil)
	require.NoError(t, err)
	require.Len(t, root.Children, 1)
	assert.Equal(t, idlc.KindCppQuote, root.Children[0].Kind)
	assert.Equal(t, "#include <cstdint>", root.Children[0].DefaultValue)
}

func TestParse_IfdefBlockHonorsDefines(t *testing.T) {
	src := `
		#ifdef ENABLE_FOO
		interface Foo {
			int ping();
		};
		#else
		interface Bar {
			int ping();
		};
		#endif
	`

	withoutDefine, err := Parse(src, nil)
	require.NoError(t, err)
	require.Len(t, withoutDefine.Children, 1)
	assert.Equal(t, "Bar", withoutDefine.Children[0].Name)

	withDefine, err := Parse(src, map[string]string{"ENABLE_FOO": "1"})
	require.NoError(t, err)
	require.Len(t, withDefine.Children, 1)
	assert.Equal(t, "Foo", withDefine.Children[0].Name)
}

func TestParse_PublicPrivateMarkers(t *testing.T) {
	root, err := Parse(`
		interface Service {
			public:
			int open();
			private:
			int close();
		};
	`, nil)
	require.NoError(t, err)
	svc := root.Children[0]

	var kinds []idlc.EntityKind
	for _, c := range svc.Children {
		kinds = append(kinds, c.Kind)
	}
	assert.Equal(t, []idlc.EntityKind{
		idlc.KindFunctionPublicMarker,
		idlc.KindFunctionMethod,
		idlc.KindFunctionPrivateMarker,
		idlc.KindFunctionMethod,
	}, kinds)
}

func TestParse_MalformedInputReturnsCompileError(t *testing.T) {
	_, err := Parse(`interface Foo { int ping(`, nil)
	require.Error(t, err)
	var ce *idlc.CompileError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, idlc.ErrUnknownParse, ce.Kind)
}
