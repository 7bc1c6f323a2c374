package idlc

import "fmt"

// emitInterface drives the full interface emission of spec.md §4.5: the
// abstract class and serialiser policy classes into the header, the proxy
// class into the proxy stream, and the stub class into the stub stream.
// Imported interfaces are resolved through (their fingerprint still
// contributes to consumers via Resolve+Fingerprint) but never emit their
// own artifacts.
func (e *Emitter) emitInterface(i *Entity) error {
	if i.IsImported {
		return nil
	}
	e.emitInterfaceHeader(i)
	if err := e.emitProxy(i); err != nil {
		return err
	}
	return e.emitStub(i)
}

func (e *Emitter) emitInterfaceHeader(i *Entity) {
	h := e.streams.Header

	if i.IsTemplate {
		h.writeln(templateHeader(i.TemplateParams))
	}

	decl := "class " + i.Name
	if len(i.Bases) > 0 {
		decl += " : "
		for n, base := range i.Bases {
			if n > 0 {
				decl += ", "
			}
			decl += "public " + base.QualifiedName()
		}
	} else {
		decl += " : public rpc::casting_interface"
	}
	h.writeln(decl + " {")
	h.writeln("public:")

	v2 := e.fp.Fingerprint(i)
	v1 := InterfaceID(i, ProtocolV1, e.fp)
	h.writeln("static uint64_t get_id(uint64_t rpc_version) {")
	h.writeln(fmt.Sprintf("if (rpc_version == 2) return %s;", u64Literal(v2)))
	h.writeln(fmt.Sprintf("return %s;", u64Literal(v1)))
	h.writeln("}")

	for _, m := range i.Methods() {
		h.writeln("virtual int " + m.Name + "(" + declareSignature(m) + ") = 0;")
	}

	e.emitSerialiserPolicies(i)

	if e.cfg.Settings.GetBool("emit.buffered_proxy_serialiser") && hasBufferableMethod(i) {
		e.emitBufferedProxySerialiser(i)
	}

	h.writeln("};")

	if e.cfg.Settings.GetBool("emit.mock") || e.cfg.MockFile != "" {
		e.emitMock(i)
	}
}

// declareSignature renders a method's parameter list for the abstract
// class's pure-virtual declaration: reference modifiers are kept as
// written, since this is the user-facing C++ signature, not a marshalling
// fragment.
func declareSignature(m *Entity) string {
	s := ""
	for n, p := range m.Params {
		if n > 0 {
			s += ", "
		}
		s += p.Type + " " + p.Name
	}
	return s
}

// emitSerialiserPolicies emits the four pure-static serialiser policy
// classes of spec.md §4.5, parameterized on a serialiser tag and a
// variadic extra-argument pack, with one member function per unique
// method signature.
func (e *Emitter) emitSerialiserPolicies(i *Entity) {
	h := e.streams.Header
	for _, name := range []string{"proxy_serialiser", "stub_deserialiser", "stub_serialiser", "proxy_deserialiser"} {
		h.writeln("template <typename Serialiser, typename... Extra>")
		h.writeln("class " + name + " {")
		h.writeln("public:")
		for _, m := range i.Methods() {
			h.writeln("static int " + m.Name + "(Extra... extra, " + declareSignature(m) + ") {")
			h.writeln("return Serialiser::template run<" + i.Name + ">(extra..., " +
				fmt.Sprintf("%d", e.methodIndex(i, m)) + ");")
			h.writeln("}")
		}
		h.writeln("};")
	}
}

func (e *Emitter) methodIndex(i *Entity, target *Entity) int {
	for idx, m := range i.Methods() {
		if m == target {
			return idx
		}
	}
	return -1
}

// hasBufferableMethod reports whether any method of i has only in-only,
// non-interface, non-pointer parameters — the condition under which
// buffered_proxy_serialiser exposes that method (spec.md §4.5).
func hasBufferableMethod(i *Entity) bool {
	for _, m := range i.Methods() {
		if isBufferableMethod(i, m) {
			return true
		}
	}
	return false
}

func isBufferableMethod(i *Entity, m *Entity) bool {
	for _, p := range m.Params {
		if p.IsOut() {
			return false
		}
		base, modifier := StripReferenceModifiers(p.Type)
		if modifier == "*" || modifier == "*&" || modifier == "**" {
			return false
		}
		if inner, err := ExtractSharedPtrInner(base); err == nil {
			if resolved, ok := Resolve(inner, m); ok && resolved.Kind == KindInterface {
				return false
			}
		}
	}
	return true
}

// emitBufferedProxySerialiser emits the optional buffered_proxy_serialiser
// class exposing only bufferable methods (spec.md §4.5).
func (e *Emitter) emitBufferedProxySerialiser(i *Entity) {
	h := e.streams.Header
	h.writeln("template <typename Serialiser, typename... Extra>")
	h.writeln("class buffered_proxy_serialiser {")
	h.writeln("public:")
	for _, m := range i.Methods() {
		if !isBufferableMethod(i, m) {
			continue
		}
		h.writeln("static int " + m.Name + "(Extra... extra, " + declareSignature(m) + ") {")
		h.writeln("return Serialiser::template run<" + i.Name + ">(extra..., " +
			fmt.Sprintf("%d", e.methodIndex(i, m)) + ");")
		h.writeln("}")
	}
	h.writeln("};")
}

// emitMock emits the optional GoogleMock-style mock header, supplementing
// spec.md §6's --mock flag with the behavior original_source's
// synchronous_mock_generator implements but the distilled spec omits (see
// SPEC_FULL.md's "Supplemented features").
func (e *Emitter) emitMock(i *Entity) {
	m := e.streams.Mock
	m.writeln("class " + i.Name + "_mock : public " + i.Name + " {")
	m.writeln("public:")
	for _, method := range i.Methods() {
		m.writeln(fmt.Sprintf("MOCK_METHOD(int, %s, (%s), (override));", method.Name, declareSignature(method)))
	}
	m.writeln("};")
}
