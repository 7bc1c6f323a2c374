package idlc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func noInterfaces(string) bool { return false }

func onlyInterface(name string) func(string) bool {
	return func(elementType string) bool { return elementType == name }
}

func TestClassify_AllowedCombinations(t *testing.T) {
	tests := []struct {
		name         string
		typ          string
		attrs        []string
		callerIsHost bool
		isInterface  func(string) bool
		expectedRole Role
		expectedElem string
	}{
		{"plain value in", "int", []string{"in"}, true, noInterfaces, RoleByValue, "int"},
		{"const value in", "int", []string{"in", "const"}, true, noInterfaces, RoleByValue, "int"},
		{"reference in, host caller", "Widget&", []string{"in"}, true, noInterfaces, RoleReference, "Widget"},
		{"const reference in", "Widget&", []string{"in", "const"}, true, noInterfaces, RoleReference, "Widget"},
		{"by_value reference", "Widget&", []string{"in", "by_value"}, true, noInterfaces, RoleByValue, "Widget"},
		{"move in", "Widget&&", []string{"in"}, true, noInterfaces, RoleMove, "Widget"},
		{"pointer in", "Widget*", []string{"in"}, true, noInterfaces, RolePointer, "Widget"},
		{"pointer-reference out", "Widget*&", []string{"out"}, true, noInterfaces, RolePointerReference, "Widget"},
		{"pointer-to-pointer out", "Widget**", []string{"out"}, true, noInterfaces, RolePointerToPointer, "Widget"},
		{"interface by value in", "rpc::shared_ptr<Iface>", []string{"in"}, true, onlyInterface("Iface"), RoleInterface, "Iface"},
		{"interface by const reference in", "rpc::shared_ptr<Iface>&", []string{"in", "const"}, true, onlyInterface("Iface"), RoleInterface, "Iface"},
		{"interface reference out", "rpc::shared_ptr<Iface>&", []string{"out"}, true, onlyInterface("Iface"), RoleInterfaceReference, "Iface"},
		{"plain reference out, non-interface", "Widget&", []string{"out"}, true, noInterfaces, RoleByValue, "Widget"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := Classify(tt.typ, tt.attrs, tt.callerIsHost, tt.isInterface)
			require.NoError(t, err)
			assert.Equal(t, tt.expectedRole, c.Role)
			assert.Equal(t, tt.expectedElem, c.ElementType)
		})
	}
}

func TestClassify_RejectedCombinations(t *testing.T) {
	tests := []struct {
		name         string
		typ          string
		attrs        []string
		callerIsHost bool
		isInterface  func(string) bool
		expectedKind ErrorKind
	}{
		{"out with no indirection", "int", []string{"out"}, true, noInterfaces, ErrOutWithoutIndirection},
		{"const out reference", "Widget&", []string{"out", "const"}, true, noInterfaces, ErrConstOutPointerRef},
		{"move out", "Widget&&", []string{"out"}, true, noInterfaces, ErrMoveOutOrConst},
		{"move const", "Widget&&", []string{"in", "const"}, true, noInterfaces, ErrMoveOutOrConst},
		{"pointer out", "Widget*", []string{"out"}, true, noInterfaces, ErrPointerOut},
		{"interface by pointer", "rpc::shared_ptr<Iface>*", []string{"in"}, true, onlyInterface("Iface"), ErrInterfaceByPointer},
		{"interface by pointer-to-pointer", "rpc::shared_ptr<Iface>**", []string{"in"}, true, onlyInterface("Iface"), ErrInterfaceByPointer},
		{"const out pointer-reference", "Widget*&", []string{"out", "const"}, true, noInterfaces, ErrConstOutPointerRef},
		{"reference in from guest", "Widget&", []string{"in"}, false, noInterfaces, ErrReferenceFromGuest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Classify(tt.typ, tt.attrs, tt.callerIsHost, tt.isInterface)
			require.Error(t, err)
			assert.True(t, IsCompileError(err, tt.expectedKind), "got error %v", err)
		})
	}
}

func TestClassify_MalformedSharedPtrPropagates(t *testing.T) {
	_, err := Classify("rpc::shared_ptr<Iface", []string{"in"}, true, onlyInterface("Iface"))
	require.Error(t, err)
	assert.True(t, IsCompileError(err, ErrMalformedSharedPtr))
}

func TestIsInParam_IsOutParam(t *testing.T) {
	assert.True(t, IsInParam([]string{"in"}))
	assert.True(t, IsInParam(nil), "no attributes defaults to in")
	assert.False(t, IsInParam([]string{"out"}))
	assert.True(t, IsInParam([]string{"in", "out"}))

	assert.True(t, IsOutParam([]string{"out"}))
	assert.False(t, IsOutParam([]string{"in"}))
	assert.False(t, IsOutParam(nil))
}
