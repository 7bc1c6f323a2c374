package idlc

import "fmt"

// emitStub writes the `<Interface>_stub : i_interface_stub` class for i
// into the stub stream, with a single call() dispatcher switching on the
// method ordinal (spec.md §4.5).
func (e *Emitter) emitStub(i *Entity) error {
	s := e.streams.Stub

	s.writeln("class " + i.Name + "_stub : public rpc::i_interface_stub {")
	s.writeln("std::shared_ptr<" + i.Name + "> target_;")
	s.writeln("public:")
	s.writeln("int call(uint64_t protocol_version, rpc::encoding enc, uint64_t caller_channel_zone_id, " +
		"uint64_t caller_zone_id, uint64_t method_id, const std::vector<char>& in_buf, std::vector<char>& out_buf) override {")
	s.writeln("switch (method_id) {")

	for _, m := range i.Methods() {
		if err := e.emitStubCase(i, m); err != nil {
			return err
		}
	}

	s.writeln("default: return rpc::error::INVALID_METHOD_ID();")
	s.writeln("}")
	s.writeln("}")
	s.writeln("};")
	return nil
}

func (e *Emitter) emitStubCase(i *Entity, m *Entity) error {
	s := e.streams.Stub

	s.writeln(fmt.Sprintf("case %d: {", e.methodIndex(i, m)))

	ins, outs, classes, err := e.classifyMethod(i, m, e.cfg.CallerIsHost)
	if err != nil {
		return err
	}

	for _, p := range m.Params {
		switch classes[p].Role {
		case RoleInterface, RoleInterfaceReference:
			s.writeln("rpc::interface_descriptor " + p.Name + "_descriptor{};")
			s.writeln("std::shared_ptr<" + classes[p].ElementType + "> " + p.Name + ";")
		default:
			s.writeln(classes[p].ElementType + " " + p.Name + "{};")
		}
	}

	s.writeln("try {")
	s.writeln("switch (enc) {")
	for _, enc := range encodings {
		s.writeln("case rpc::encoding::" + enc.String() + ": {")
		e.emitStubUnmarshalIn(ins, classes, enc)
		s.writeln("break;")
		s.writeln("}")
	}
	s.writeln("}")
	s.writeln("} catch (...) {")
	s.writeln("return rpc::error::STUB_DESERIALISATION_ERROR();")
	s.writeln("}")

	for _, p := range ins {
		if classes[p].Role == RoleInterface {
			s.writeln(fmt.Sprintf("if (!rpc::stub_bind_in_param(protocol_version, caller_zone_id, %s_descriptor, %s)) return rpc::error::OBJECT_NOT_FOUND();",
				p.Name, p.Name))
		}
	}

	s.writeln("int __rpc_ret = 0;")
	s.writeln("try {")
	s.write("__rpc_ret = target_->" + m.Name + "(")
	for n, p := range m.Params {
		if n > 0 {
			s.write(", ")
		}
		s.write(p.Name)
	}
	s.write(");\n")
	s.writeln("} catch (...) {")
	s.writeln("return rpc::error::EXCEPTION();")
	s.writeln("}")

	for _, p := range outs {
		if classes[p].Role == RoleInterfaceReference {
			s.writeln(fmt.Sprintf("%s_descriptor = stub_bind_out_param(caller_channel_zone_id, caller_zone_id, %s);", p.Name, p.Name))
		}
	}

	s.writeln("switch (enc) {")
	for _, enc := range encodings {
		s.writeln("case rpc::encoding::" + enc.String() + ": {")
		if enc == EncodingYASBinary {
			// yas_binary is the only encoding v1 ever dispatches with, so
			// the "__return_value" field (synchronous_generator.cpp:1244-
			// 1262) only goes out when this call actually came in as v1.
			s.writeln("if (protocol_version == 1) {")
			e.emitStubMarshalOut(outs, classes, enc, true)
			s.writeln("} else {")
			e.emitStubMarshalOut(outs, classes, enc, false)
			s.writeln("}")
		} else {
			e.emitStubMarshalOut(outs, classes, enc, false)
		}
		s.writeln("break;")
		s.writeln("}")
	}
	s.writeln("}")

	s.writeln("return __rpc_ret;")
	s.writeln("}")
	return nil
}

func (e *Emitter) emitStubUnmarshalIn(ins []*Parameter, classes map[*Parameter]Classification, enc Encoding) {
	s := e.streams.Stub
	if len(ins) == 0 {
		return
	}
	s.write("rpc::marshaller<" + enc.String() + ">::unmarshal_in(in_buf")
	for _, p := range ins {
		switch classes[p].Role {
		case RoleInterface:
			s.write(", " + p.Name + "_descriptor")
		default:
			s.write(", " + p.Name)
		}
	}
	s.write(");\n")
}

// emitStubMarshalOut marshals the out parameters (and, under v1, the
// method's own "__return_value") into out_buf. v1 always carries a result,
// so includeReturnValue forces the marshal call to run even with no
// declared outs; v2 with no outs collapses to an empty JSON object (or
// nothing, for the binary/text encodings).
func (e *Emitter) emitStubMarshalOut(outs []*Parameter, classes map[*Parameter]Classification, enc Encoding, includeReturnValue bool) {
	s := e.streams.Stub
	if len(outs) == 0 && !includeReturnValue {
		if enc == EncodingYASJSON {
			s.writeln("out_buf = rpc::to_yas_bytes(std::string(\"{}\"));")
		}
		return
	}
	if includeReturnValue {
		s.writeln("int& __return_value = __rpc_ret;")
	}
	s.write("rpc::marshaller<" + enc.String() + ">::marshal_out(out_buf")
	if includeReturnValue {
		s.write(", __return_value")
	}
	for _, p := range outs {
		switch classes[p].Role {
		case RoleInterfaceReference:
			s.write(", " + p.Name + "_descriptor")
		default:
			s.write(", " + p.Name)
		}
	}
	s.write(");\n")
}
