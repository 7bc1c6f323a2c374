package idlc

import (
	"fmt"
	"strconv"
)

// Output is the set of buffered file contents component F produces for one
// compilation unit (spec.md §6's file-layout table). Every stream is fully
// buffered in memory before Generate returns, per spec.md §5's I/O
// discipline ("output files are written only after their entire contents
// have been buffered") — writing them to disk, and deciding whether they
// changed at all, is left to the (external) driver.
type Output struct {
	Header      string
	Proxy       string
	ProxyHeader string
	Stub        string
	StubHeader  string
	Mock        string
}

// Emitter is the multi-stream emitter of spec.md §4.5 (component F). It
// walks the semantic model depth-first, consulting the scope resolver
// (component C) for every type reference and the parameter classifier
// (component E) once per parameter for the proxy and once for the stub,
// and assembles the emitted fragments into the streams of a multiStream.
type Emitter struct {
	cfg     *CompilerConfig
	fp      *Fingerprinter
	streams *multiStream
}

// Generate runs component F over root and returns the buffered output
// streams, or the first fatal diagnostic encountered (spec.md §4.5's
// failure semantics: malformed types and classifier errors abort the whole
// compilation, nothing partial is returned).
func Generate(root *Entity, cfg *CompilerConfig) (*Output, error) {
	e := &Emitter{
		cfg:     cfg,
		fp:      NewFingerprinter(),
		streams: newMultiStream(),
	}

	e.emitPreamble()

	e.streams.openNamespaces(cfg.Namespaces)
	if err := e.visitChildren(root); err != nil {
		return nil, err
	}
	e.streams.closeNamespaces(cfg.Namespaces)

	e.emitRegisterStubs(root)

	return &Output{
		Header:      e.streams.Header.String(),
		Proxy:       e.streams.Proxy.String(),
		ProxyHeader: e.streams.ProxyHeader.String(),
		Stub:        e.streams.Stub.String(),
		StubHeader:  e.streams.StubHeader.String(),
		Mock:        e.streams.Mock.String(),
	}, nil
}

// emitPreamble writes the standard/rpc/yas #include block spec.md §6's
// file-layout table calls for ("(includes <header>)", "(includes <header>
// and <stub_header>)") at the top of each stream, before any namespace is
// opened, following synchronous_generator.cpp's write_files.
func (e *Emitter) emitPreamble() {
	h := e.streams.Header
	h.writeln("#pragma once")
	h.writeln("")
	for _, inc := range []string{"memory", "vector", "list", "map", "set", "string", "array"} {
		h.writeln("#include <" + inc + ">")
	}
	for _, inc := range []string{
		"rpc/version.h", "rpc/marshaller.h", "rpc/service.h",
		"rpc/error_codes.h", "rpc/types.h", "rpc/casting_interface.h",
	} {
		h.writeln("#include <" + inc + ">")
	}
	h.writeln("")

	e.streams.ProxyHeader.writeln("#pragma once")
	e.streams.ProxyHeader.writeln("")

	p := e.streams.Proxy
	for _, inc := range []string{
		"yas/mem_streams.hpp", "yas/binary_iarchive.hpp", "yas/binary_oarchive.hpp",
		"yas/json_iarchive.hpp", "yas/json_oarchive.hpp", "yas/text_iarchive.hpp",
		"yas/text_oarchive.hpp", "yas/std_types.hpp", "yas/count_streams.hpp",
		"rpc/proxy.h", "rpc/stub.h", "rpc/service.h",
	} {
		p.writeln("#include <" + inc + ">")
	}
	if e.cfg.HeaderFile != "" {
		p.writeln("#include \"" + e.cfg.HeaderFile + "\"")
	}
	p.writeln("")

	sh := e.streams.StubHeader
	sh.writeln("#pragma once")
	sh.writeln("#include <rpc/service.h>")
	sh.writeln("")

	s := e.streams.Stub
	for _, inc := range []string{
		"yas/mem_streams.hpp", "yas/binary_iarchive.hpp", "yas/binary_oarchive.hpp",
		"yas/count_streams.hpp", "yas/std_types.hpp", "rpc/stub.h", "rpc/proxy.h",
	} {
		s.writeln("#include <" + inc + ">")
	}
	if e.cfg.HeaderFile != "" {
		s.writeln("#include \"" + e.cfg.HeaderFile + "\"")
	}
	if e.cfg.StubHeader != "" {
		s.writeln("#include \"" + e.cfg.StubHeader + "\"")
	}
	s.writeln("")

	if e.cfg.MockFile != "" {
		mk := e.streams.Mock
		mk.writeln("#pragma once")
		mk.writeln("#include <gmock/gmock.h>")
		if e.cfg.HeaderFile != "" {
			mk.writeln("#include \"" + e.cfg.HeaderFile + "\"")
		}
		mk.writeln("")
	}
}

func (e *Emitter) visitChildren(scope *Entity) error {
	for _, child := range scope.Children {
		if err := e.visit(child); err != nil {
			return err
		}
	}
	return nil
}

func (e *Emitter) visit(n *Entity) error {
	switch n.Kind {
	case KindNamespace:
		return e.visitNamespace(n)
	case KindStruct:
		return e.emitStruct(n)
	case KindInterface:
		return e.emitInterface(n)
	case KindLibrary:
		return e.emitLibrary(n)
	case KindEnum:
		return e.emitEnum(n)
	case KindTypedef:
		return e.emitTypedef(n)
	case KindCppQuote:
		e.streams.Header.writeln(n.DefaultValue)
		return nil
	default:
		return nil
	}
}

func (e *Emitter) visitNamespace(n *Entity) error {
	if n.IsImported {
		// Imported entities are resolved through and contribute to
		// fingerprints of consumers, but never emit their own artifacts
		// (spec.md §3 invariant).
		return nil
	}
	e.streams.openNamespaces([]string{n.Name})
	err := e.visitChildren(n)
	e.streams.closeNamespaces([]string{n.Name})
	return err
}

// resolveTypeEntity resolves the (shared_ptr-unwrapped) element type of a
// type string against context, returning nil if it doesn't resolve to a
// named entity in the model (e.g. a builtin like `int`).
func (e *Emitter) resolveTypeEntity(elementType string, context *Entity) *Entity {
	resolved, ok := Resolve(elementType, context)
	if !ok {
		return nil
	}
	return resolved
}

// isInterfaceType reports whether elementType (already unwrapped from any
// shared_ptr<...>) resolves to an interface entity in context's scope.
func (e *Emitter) isInterfaceType(elementType string, context *Entity) bool {
	resolved := e.resolveTypeEntity(elementType, context)
	return resolved != nil && resolved.Kind == KindInterface
}

// classifyParam runs component E for one parameter declared within
// context (a method or struct), resolving its interface-ness against the
// model before handing off to Classify.
func (e *Emitter) classifyParam(p *Parameter, context *Entity, callerIsHost bool) (Classification, error) {
	return Classify(p.Type, p.Attributes, callerIsHost, func(elementType string) bool {
		return e.isInterfaceType(elementType, context)
	})
}

// u64Literal renders n as a C++ unsigned 64-bit literal.
func u64Literal(n uint64) string {
	return strconv.FormatUint(n, 10) + "ULL"
}

func methodTag(m *Entity) string {
	if v := m.AttributeValue("tag"); v != "" {
		return v
	}
	return fmt.Sprintf("%d", defaultMethodTag)
}
