package idlc

import (
	"testing"

	"github.com/davecgh/go-spew/spew"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSimpleInterface(name string, methodNames ...string) *Entity {
	root := NewEntity(KindNamespace, "")
	i := NewEntity(KindInterface, name)
	root.AddChild(i)
	for _, mn := range methodNames {
		m := NewEntity(KindFunctionMethod, mn)
		m.ReturnType = "int"
		i.AddChild(m)
	}
	return i
}

func TestFingerprint_Deterministic(t *testing.T) {
	i := newSimpleInterface("Calculator", "add", "subtract")
	fp := NewFingerprinter()

	first := fp.Fingerprint(i)
	second := fp.Fingerprint(i)
	assert.Equal(t, first, second, spew.Sdump(i))
}

func TestFingerprint_StructurallyIdenticalInterfacesMatch(t *testing.T) {
	a := newSimpleInterface("Calculator", "add", "subtract")
	b := newSimpleInterface("Calculator", "add", "subtract")

	fpA := NewFingerprinter().Fingerprint(a)
	fpB := NewFingerprinter().Fingerprint(b)
	assert.Equal(t, fpA, fpB, "two structurally identical interfaces must fingerprint identically")
}

func TestFingerprint_DifferentMethodsProduceDifferentDigests(t *testing.T) {
	a := newSimpleInterface("Calculator", "add")
	b := newSimpleInterface("Calculator", "subtract")

	fpA := NewFingerprinter().Fingerprint(a)
	fpB := NewFingerprinter().Fingerprint(b)
	assert.NotEqual(t, fpA, fpB)
}

func TestFingerprint_NoFingerprintMethodIsInvisible(t *testing.T) {
	withExtra := newSimpleInterface("Calculator", "add")
	extra := NewEntity(KindFunctionMethod, "debugDump")
	extra.Attributes = []string{"no_fingerprint"}
	withExtra.AddChild(extra)

	without := newSimpleInterface("Calculator", "add")

	fpWith := NewFingerprinter().Fingerprint(withExtra)
	fpWithout := NewFingerprinter().Fingerprint(without)
	assert.Equal(t, fpWith, fpWithout, "a no_fingerprint method must not perturb the digest")
}

func TestFingerprint_UnderscoreDeprecatedIsInvisibleButDeprecatedIsNot(t *testing.T) {
	base := newSimpleInterface("Calculator", "add")

	withUnderscoreDeprecated := newSimpleInterface("Calculator")
	m := NewEntity(KindFunctionMethod, "add")
	m.ReturnType = "int"
	m.Attributes = []string{"_deprecated"}
	withUnderscoreDeprecated.AddChild(m)

	withDeprecated := newSimpleInterface("Calculator")
	m2 := NewEntity(KindFunctionMethod, "add")
	m2.ReturnType = "int"
	m2.Attributes = []string{"deprecated"}
	withDeprecated.AddChild(m2)

	fpBase := NewFingerprinter().Fingerprint(base)
	fpUnderscore := NewFingerprinter().Fingerprint(withUnderscoreDeprecated)
	fpDeprecated := NewFingerprinter().Fingerprint(withDeprecated)

	assert.Equal(t, fpBase, fpUnderscore, "_deprecated must not perturb the digest")
	assert.NotEqual(t, fpBase, fpDeprecated, "deprecated (no underscore) does perturb the digest, by legacy")
}

func TestFingerprint_MutualRecursionTerminates(t *testing.T) {
	root := NewEntity(KindNamespace, "")
	a := NewEntity(KindInterface, "A")
	b := NewEntity(KindInterface, "B")
	root.AddChild(a)
	root.AddChild(b)

	mA := NewEntity(KindFunctionMethod, "getB")
	mA.ReturnType = "int"
	mA.Params = []*Parameter{{Type: "rpc::shared_ptr<B>&", Name: "out_b", Attributes: []string{"out"}}}
	a.AddChild(mA)

	mB := NewEntity(KindFunctionMethod, "getA")
	mB.ReturnType = "int"
	mB.Params = []*Parameter{{Type: "rpc::shared_ptr<A>&", Name: "out_a", Attributes: []string{"out"}}}
	b.AddChild(mB)

	fp := NewFingerprinter()

	var fpA, fpB uint64
	done := make(chan struct{})
	go func() {
		fpA = fp.Fingerprint(a)
		fpB = fp.Fingerprint(b)
		close(done)
	}()
	<-done

	require.NotZero(t, fpA)
	require.NotZero(t, fpB)
	assert.NotEqual(t, fpA, fpB)
}

func TestFingerprint_TemplateStructIsNotFingerprinted(t *testing.T) {
	fp := NewFingerprinter()
	s := NewEntity(KindStruct, "Box")
	s.IsTemplate = true
	s.TemplateParams = []TemplateParam{{Keyword: "typename", Name: "T"}}

	assert.Equal(t, "", fp.seed(s))
}

func TestInterfaceID_V2UsesFingerprint(t *testing.T) {
	i := newSimpleInterface("Calculator", "add")
	fp := NewFingerprinter()

	expected := fp.Fingerprint(i)
	got := InterfaceID(i, ProtocolV2, fp)
	assert.Equal(t, expected, got)
}

func TestInterfaceID_V1IsStableAndNameDependent(t *testing.T) {
	a := newSimpleInterface("Calculator", "add")
	b := newSimpleInterface("Scientific", "add")
	fp := NewFingerprinter()

	idA1 := InterfaceID(a, ProtocolV1, fp)
	idA2 := InterfaceID(a, ProtocolV1, fp)
	idB := InterfaceID(b, ProtocolV1, fp)

	assert.Equal(t, idA1, idA2)
	assert.NotEqual(t, idA1, idB)
}

func TestFileChecksum_Deterministic(t *testing.T) {
	content := []byte("interface Foo { int bar(); };")
	assert.Equal(t, FileChecksum(content), FileChecksum(content))
	assert.NotEqual(t, FileChecksum(content), FileChecksum([]byte("interface Bar { int baz(); };")))
}

func TestResolveAndSubstitute_SubstitutesReferencedType(t *testing.T) {
	root := NewEntity(KindNamespace, "")
	s := NewEntity(KindStruct, "Point")
	root.AddChild(s)
	m := NewEntity(KindFunctionMethod, "move")
	root.AddChild(m)

	fp := NewFingerprinter()
	out := fp.ResolveAndSubstitute("Point&", m)
	pointFp := fp.Fingerprint(s)
	assert.Contains(t, out, "&")
	assert.NotContains(t, out, "Point", "a resolvable reference is substituted, not left as a bare name")
	assert.NotZero(t, pointFp)
}

func TestResolveAndSubstitute_LeavesUnresolvedIdentifiersAlone(t *testing.T) {
	root := NewEntity(KindNamespace, "")
	m := NewEntity(KindFunctionMethod, "compute")
	root.AddChild(m)

	fp := NewFingerprinter()
	out := fp.ResolveAndSubstitute("uint64_t", m)
	assert.Equal(t, "uint64_t", out)
}
