package idlc

import "fmt"

// emitProxy writes the `<Interface>_proxy` class for i into the proxy
// stream, implementing each virtual method per spec.md §4.5's proxy
// description and the DeclareLocals -> MarshalIn -> Send -> UnmarshalOut
// -> CleanupIn -> Return state machine, emitted once per protocol version
// (v1 and v2 both always emitted, guarded at compile time by RPC_V1/RPC_V2;
// the v1 branch is also taken at runtime when the v2 attempt returns
// INVALID_VERSION).
func (e *Emitter) emitProxy(i *Entity) error {
	if len(i.Methods()) == 0 {
		e.streams.ProxyHeader.writeln("class " + i.Name + "_proxy;")
	}

	p := e.streams.Proxy
	ph := e.streams.ProxyHeader
	ph.writeln("class " + i.Name + "_proxy;")

	p.writeln("class " + i.Name + "_proxy : public " + i.Name + " {")
	p.writeln("std::shared_ptr<rpc::object_proxy> object_proxy_;")
	p.writeln("public:")

	for _, m := range i.Methods() {
		if err := e.emitProxyMethod(i, m); err != nil {
			return err
		}
	}

	p.writeln("};")
	return nil
}

func (e *Emitter) emitProxyMethod(i *Entity, m *Entity) error {
	p := e.streams.Proxy

	p.writeln("int " + m.Name + "(" + declareSignature(m) + ") override {")
	p.writeln("auto service_proxy = object_proxy_->get_service_proxy();")
	p.writeln(fmt.Sprintf("RPC_TELEMETRY_CALLOUT(\"%s\", \"%s\")", i.Name, m.Name))
	p.writeln("int __rpc_ret = 0;")

	ins, outs, classes, err := e.classifyMethod(i, m, e.cfg.CallerIsHost)
	if err != nil {
		return err
	}

	for _, in := range ins {
		if classes[in].Role == RoleInterface {
			p.writeln(fmt.Sprintf("rpc::interface_descriptor %s_descriptor = object_proxy_->prepare_in_param(%s);",
				in.Name, in.Name))
		}
	}

	p.writeln("#ifdef RPC_V2")
	p.writeln("if (service_proxy->get_remote_rpc_version() == 2) {")
	p.writeln("switch (service_proxy->get_encoding()) {")
	for _, enc := range encodings {
		p.writeln("case rpc::encoding::" + enc.String() + ": {")
		e.emitProxyMarshalIn(i, m, ins, classes, enc)
		p.writeln(fmt.Sprintf("__rpc_ret = service_proxy->send(2, %s, object_proxy_->get_object_id(), %d, %s, __in_buf, __out_buf);",
			"rpc::encoding("+enc.String()+")", e.methodIndex(i, m), methodTag(m)))
		e.emitProxyUnmarshalOut(i, m, outs, classes, enc, false)
		p.writeln("break;")
		p.writeln("}")
	}
	p.writeln("}")
	p.writeln("}")
	p.writeln("#endif")

	p.writeln("#ifdef RPC_V1")
	p.writeln("if (service_proxy->get_remote_rpc_version() == 1 || __rpc_ret == rpc::error::INVALID_VERSION()) {")
	p.writeln("uint64_t __version = 1;")
	e.emitProxyMarshalIn(i, m, ins, classes, EncodingYASBinary)
	p.writeln(fmt.Sprintf("__rpc_ret = service_proxy->send(1, rpc::encoding::yas_binary, object_proxy_->get_object_id(), %d, %s, __in_buf, __out_buf);",
		e.methodIndex(i, m), methodTag(m)))
	e.emitProxyUnmarshalOut(i, m, outs, classes, EncodingYASBinary, true)
	p.writeln("}")
	p.writeln("#endif")

	for _, in := range ins {
		if classes[in].Role == RoleInterface {
			p.writeln(fmt.Sprintf("object_proxy_->release_in_param(%s_descriptor);", in.Name))
		}
	}

	p.writeln("return __rpc_ret;")
	p.writeln("}")
	return nil
}

func (e *Emitter) emitProxyMarshalIn(i *Entity, m *Entity, ins []*Parameter, classes map[*Parameter]Classification, enc Encoding) {
	p := e.streams.Proxy
	p.writeln("std::vector<char> __in_buf;")
	p.writeln("std::vector<char> __out_buf;")
	if enc == EncodingYASJSON && len(ins) == 0 {
		p.writeln("__in_buf = rpc::to_yas_bytes(std::string(\"{}\"));")
		return
	}
	p.write("rpc::marshaller<" + enc.String() + ">::marshal_in(__in_buf")
	for _, in := range ins {
		switch classes[in].Role {
		case RoleInterface:
			p.write(", " + in.Name + "_descriptor")
		default:
			p.write(", " + in.Name)
		}
	}
	p.write(");\n")
}

// emitProxyUnmarshalOut unmarshals out_buf back into the out parameters.
// Under v1 (includeReturnValue) the wire always carries the method's own
// status alongside any declared outs, matching
// synchronous_generator.cpp:1244-1262's "__return_value" field, so the
// unmarshal call runs even when there are no declared outs at all; v2
// never carries it, and collapses to nothing when outs is empty.
func (e *Emitter) emitProxyUnmarshalOut(i *Entity, m *Entity, outs []*Parameter, classes map[*Parameter]Classification, enc Encoding, includeReturnValue bool) {
	p := e.streams.Proxy
	if len(outs) == 0 && !includeReturnValue {
		return
	}
	p.writeln("if (__rpc_ret == rpc::error::OK()) {")
	if includeReturnValue {
		p.writeln("int& __return_value = __rpc_ret;")
	}
	p.write("rpc::marshaller<" + enc.String() + ">::unmarshal_out(__out_buf")
	if includeReturnValue {
		p.write(", __return_value")
	}
	for _, out := range outs {
		switch classes[out].Role {
		case RoleInterfaceReference:
			p.write(", " + out.Name + "_descriptor")
		default:
			p.write(", " + out.Name)
		}
	}
	p.write(");\n")
	for _, out := range outs {
		if classes[out].Role == RoleInterfaceReference {
			p.writeln(fmt.Sprintf("object_proxy_->proxy_bind_out_param(%s_descriptor, %s);", out.Name, out.Name))
		}
	}
	p.writeln("}")
}

// classifyMethod classifies every parameter of m once, splitting them into
// the in-parameter and out-parameter lists the proxy/stub slot emission
// loop iterates separately (spec.md §4.5).
func (e *Emitter) classifyMethod(i *Entity, m *Entity, callerIsHost bool) (ins []*Parameter, outs []*Parameter, classes map[*Parameter]Classification, err error) {
	classes = map[*Parameter]Classification{}
	for _, p := range m.Params {
		c, err := e.classifyParam(p, m, callerIsHost)
		if err != nil {
			return nil, nil, nil, &paramError{method: i.Name + "::" + m.Name, param: p.Name, err: err}
		}
		classes[p] = c
		if IsInParam(p.Attributes) {
			ins = append(ins, p)
		}
		if IsOutParam(p.Attributes) {
			outs = append(outs, p)
		}
	}
	return ins, outs, classes, nil
}

// paramError wraps a classifier error with the enclosing method and
// parameter, matching spec.md §7's "offending text fragment" propagation
// while preserving the original CompileError via errors.Unwrap-compatible
// Error() chaining.
type paramError struct {
	method string
	param  string
	err    error
}

func (e *paramError) Error() string {
	return fmt.Sprintf("%s: parameter %q: %s", e.method, e.param, e.err)
}

func (e *paramError) Unwrap() error { return e.err }
