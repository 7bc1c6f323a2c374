package idlc

// emitEnum writes an equivalent declaration for a non-imported enum
// (spec.md §4.5).
func (e *Emitter) emitEnum(en *Entity) error {
	if en.IsImported {
		return nil
	}
	h := e.streams.Header
	h.writeln("enum class " + en.Name + " {")
	for _, v := range en.ChildrenOfKind(KindEnumValue) {
		line := v.Name
		if v.DefaultValue != "" {
			line += " = " + v.DefaultValue
		}
		h.writeln(line + ",")
	}
	h.writeln("};")
	return nil
}
