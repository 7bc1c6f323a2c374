package idlc

import "fmt"

// emitRegisterStubs writes the `<module>_register_stubs(service)` function
// into the stub header stream, registering an interface-stub factory for
// every concrete (non-imported) interface under every namespace prefix
// reachable from root (spec.md §4.5).
func (e *Emitter) emitRegisterStubs(root *Entity) {
	sh := e.streams.StubHeader
	moduleName := e.cfg.ModuleName
	if moduleName == "" {
		moduleName = "idl"
	}

	sh.writeln(fmt.Sprintf("void %s_register_stubs(std::shared_ptr<rpc::service> service) {", moduleName))

	var interfaces []*Entity
	collectInterfaces(root, &interfaces)

	for _, i := range interfaces {
		qualified := i.QualifiedName()
		sh.writeln(fmt.Sprintf(
			"service->add_interface_stub_factory(%s::get_id(2), %s::get_id(1), [](rpc::i_interface_stub_original& original) {",
			qualified, qualified))
		sh.writeln(fmt.Sprintf(
			"return std::make_shared<%s_stub>(std::dynamic_pointer_cast<%s>(original.get_castable_interface()));",
			qualified, qualified))
		sh.writeln("});")
	}

	sh.writeln("}")
}

func collectInterfaces(scope *Entity, out *[]*Entity) {
	for _, child := range scope.Children {
		switch child.Kind {
		case KindInterface:
			if !child.IsImported {
				*out = append(*out, child)
			}
		case KindNamespace:
			collectInterfaces(child, out)
		}
	}
}
