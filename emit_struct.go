package idlc

import "fmt"

// emitStruct writes a tagged layout, per-field serialization visitors, and
// a get_id helper into the header stream for a non-imported struct
// (spec.md §4.5). Imported structs are resolved through but never emit
// their own artifacts.
func (e *Emitter) emitStruct(s *Entity) error {
	if s.IsImported {
		return nil
	}

	h := e.streams.Header

	if s.IsTemplate {
		h.writeln(templateHeader(s.TemplateParams))
	}

	decl := "struct " + s.Name
	if len(s.Bases) > 0 {
		decl += " : "
		for i, base := range s.Bases {
			if i > 0 {
				decl += ", "
			}
			decl += "public " + base.QualifiedName()
		}
	}
	h.writeln(decl + " {")

	for _, field := range s.Fields() {
		line := field.ReturnType + " " + field.Name
		if field.ArraySize != "" {
			line += "[" + field.ArraySize + "]"
		}
		if field.DefaultValue != "" {
			line += " = " + field.DefaultValue
		}
		h.writeln(line + ";")
	}

	if !s.IsTemplate {
		h.writeln("static uint64_t get_id(uint64_t rpc_version) {")
		h.writeln("if (rpc_version == 2) return " + u64Literal(e.fp.Fingerprint(s)) + ";")
		h.writeln("return 0;")
		h.writeln("}")

		e.emitStructVisitor(s)
	}

	h.writeln("};")
	return nil
}

// emitStructVisitor emits the per-field serialization visitor every YAS
// encoding drives (spec.md §4.5's "per-field serialization visitors").
func (e *Emitter) emitStructVisitor(s *Entity) {
	h := e.streams.Header
	h.writeln("template <typename Ar> void serialize(Ar& ar) {")
	h.write("    ar & YAS_OBJECT_NVP(\"" + s.Name + "\"")
	for _, field := range s.Fields() {
		h.write(fmt.Sprintf(", (\"%s\", %s)", field.Name, field.Name))
	}
	h.write(");\n")
	h.writeln("}")
}

func templateHeader(params []TemplateParam) string {
	s := "template <"
	for i, p := range params {
		if i > 0 {
			s += ", "
		}
		s += p.Keyword + " " + p.Name
	}
	return s + ">"
}
