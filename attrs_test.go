package idlc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStripReferenceModifiers(t *testing.T) {
	tests := []struct {
		name             string
		typ              string
		expectedBase     string
		expectedModifier string
	}{
		{"no modifier", "int", "int", ""},
		{"single ref", "int &", "int", "&"},
		{"double ref", "int&&", "int", "&&"},
		{"single pointer", "Widget*", "Widget", "*"},
		{"pointer to pointer", "Widget **", "Widget", "**"},
		{"pointer reference", "Widget *&", "Widget", "*&"},
		{"shared_ptr reference", "rpc::shared_ptr<Widget>&", "rpc::shared_ptr<Widget>", "&"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			base, modifier := StripReferenceModifiers(tt.typ)
			assert.Equal(t, tt.expectedBase, base)
			assert.Equal(t, tt.expectedModifier, modifier)
		})
	}
}

func TestGetTemplateParam(t *testing.T) {
	t.Run("no template", func(t *testing.T) {
		param, err := GetTemplateParam("int")
		require.NoError(t, err)
		assert.Empty(t, param)
	})

	t.Run("simple template", func(t *testing.T) {
		param, err := GetTemplateParam("std::vector<int>")
		require.NoError(t, err)
		assert.Equal(t, "int", param)
	})

	t.Run("nested template", func(t *testing.T) {
		param, err := GetTemplateParam("rpc::shared_ptr<std::vector<int>>")
		require.NoError(t, err)
		assert.Equal(t, "std::vector<int>", param)
	})

	t.Run("unbalanced", func(t *testing.T) {
		_, err := GetTemplateParam("std::vector<int")
		require.Error(t, err)
		assert.True(t, IsCompileError(err, ErrMalformedTemplate))
	})
}

func TestExtractSharedPtrInner(t *testing.T) {
	t.Run("no wrapper", func(t *testing.T) {
		inner, err := ExtractSharedPtrInner("Widget")
		require.NoError(t, err)
		assert.Equal(t, "Widget", inner)
	})

	t.Run("wrapped", func(t *testing.T) {
		inner, err := ExtractSharedPtrInner("rpc::shared_ptr<Widget>")
		require.NoError(t, err)
		assert.Equal(t, "Widget", inner)
	})

	t.Run("unbalanced", func(t *testing.T) {
		_, err := ExtractSharedPtrInner("rpc::shared_ptr<Widget")
		require.Error(t, err)
		assert.True(t, IsCompileError(err, ErrMalformedSharedPtr))
	})
}

func TestAttributePredicates(t *testing.T) {
	attrs := []string{"in", "const", "tag=7"}
	assert.True(t, IsIn(attrs))
	assert.False(t, IsOut(attrs))
	assert.True(t, IsConst(attrs))
	assert.True(t, HasAttribute(attrs, "tag"))
	assert.Equal(t, "7", AttributeValue(attrs, "tag"))
	assert.Equal(t, "", AttributeValue(attrs, "missing"))
}

func TestSplitNamespaces(t *testing.T) {
	assert.Equal(t, []string{"a", "b", "C"}, SplitNamespaces("a::b::C"))
	assert.Equal(t, []string{"", "a", "C"}, SplitNamespaces("::a::C"))
	assert.Equal(t, []string{"C"}, SplitNamespaces("C"))
}
