package idlc

// emitTypedef writes an equivalent declaration for a non-imported typedef
// (spec.md §4.5).
func (e *Emitter) emitTypedef(t *Entity) error {
	if t.IsImported {
		return nil
	}
	e.streams.Header.writeln("using " + t.Name + " = " + t.AliasTarget + ";")
	return nil
}

// emitLibrary fingerprints and declares a library the same way an
// interface is fingerprinted (spec.md §4.3: "A library is fingerprinted
// identically to an interface except for the `i_` prefix"), but does not
// contribute proxy/stub artifacts — a library groups free functions for
// identification purposes, it has no object instances to proxy.
func (e *Emitter) emitLibrary(lib *Entity) error {
	if lib.IsImported {
		return nil
	}
	h := e.streams.Header
	h.writeln("class " + lib.Name + " {")
	h.writeln("public:")
	h.writeln("static uint64_t get_id(uint64_t rpc_version) {")
	h.writeln("if (rpc_version == 2) return " + u64Literal(e.fp.Fingerprint(lib)) + ";")
	h.writeln("return 0;")
	h.writeln("}")
	h.writeln("};")
	return nil
}
