package frontend

import (
	"fmt"
	"strings"

	"github.com/zonerpc/idlc"
)

// Parser turns one IDL source file into a semantic model rooted at an
// unnamed KindNamespace entity. It does not resolve #include directives:
// the defines map only drives #ifdef/#ifndef/#else/#endif conditional
// compilation, mirroring how an external preprocessor would have already
// expanded macros before handing text to this stage.
type Parser struct {
	lex     *lexer
	tok     token
	defines map[string]string
}

// NewParser returns a Parser over src. defines seeds the symbol table used
// to evaluate #ifdef/#ifndef blocks; a nil map behaves as an empty one.
func NewParser(src string, defines map[string]string) *Parser {
	if defines == nil {
		defines = map[string]string{}
	}
	p := &Parser{lex: newLexer(preprocessConditionals(src, defines)), defines: defines}
	p.advance()
	return p
}

// preprocessConditionals strips #ifdef/#ifndef/#else/#endif blocks by
// symbol-table lookup, line by line. Nesting is not supported: this is
// deliberately shallow conditional compilation, not a general preprocessor
// (no #include, no #define, no macro substitution — see the frontend
// package doc comment).
func preprocessConditionals(src string, defines map[string]string) string {
	lines := strings.Split(src, "\n")
	out := make([]string, 0, len(lines))
	keep := true
	inBlock := false
	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		switch {
		case strings.HasPrefix(trimmed, "#ifdef "):
			name := strings.TrimSpace(strings.TrimPrefix(trimmed, "#ifdef "))
			_, defined := defines[name]
			keep = defined
			inBlock = true
			continue
		case strings.HasPrefix(trimmed, "#ifndef "):
			name := strings.TrimSpace(strings.TrimPrefix(trimmed, "#ifndef "))
			_, defined := defines[name]
			keep = !defined
			inBlock = true
			continue
		case trimmed == "#else":
			keep = !keep
			continue
		case trimmed == "#endif":
			keep = true
			inBlock = false
			continue
		}
		if !inBlock || keep {
			out = append(out, line)
		}
	}
	return strings.Join(out, "\n")
}

// Parse consumes the whole input and returns its root entity.
func Parse(src string, defines map[string]string) (*idlc.Entity, error) {
	return NewParser(src, defines).ParseFile()
}

func (p *Parser) advance() { p.tok = p.lex.next() }

func (p *Parser) at(text string) bool {
	return (p.tok.kind == tokPunct || p.tok.kind == tokIdent) && p.tok.text == text
}

func (p *Parser) errorf(format string, args ...any) error {
	return &idlc.CompileError{Kind: idlc.ErrUnknownParse, Text: fmt.Sprintf(format, args...), Context: fmt.Sprintf("line %d", p.tok.line)}
}

func (p *Parser) expect(text string) error {
	if !p.at(text) {
		return p.errorf("expected %q, got %q", text, p.tok.text)
	}
	p.advance()
	return nil
}

func (p *Parser) expectIdent() (string, error) {
	if p.tok.kind != tokIdent {
		return "", p.errorf("expected identifier, got %q", p.tok.text)
	}
	name := p.tok.text
	p.advance()
	return name, nil
}

// ParseFile parses the whole token stream into a root namespace entity.
func (p *Parser) ParseFile() (*idlc.Entity, error) {
	root := idlc.NewEntity(idlc.KindNamespace, "")
	if err := p.parseBody(root); err != nil {
		return nil, err
	}
	return root, nil
}

// parseBody parses zero or more top-level declarations into scope, until
// EOF or a closing "}" (used recursively for namespace bodies).
func (p *Parser) parseBody(scope *idlc.Entity) error {
	for {
		if p.tok.kind == tokEOF || p.at("}") {
			return nil
		}
		if err := p.parseDeclaration(scope); err != nil {
			return err
		}
	}
}

func (p *Parser) parseDeclaration(scope *idlc.Entity) error {
	attrs, err := p.parseOptionalAttributes()
	if err != nil {
		return err
	}

	switch {
	case p.at("namespace"):
		return p.parseNamespace(scope, attrs)
	case p.at("struct"):
		return p.parseStruct(scope, attrs)
	case p.at("interface"):
		return p.parseInterface(scope, attrs)
	case p.at("library"):
		return p.parseLibrary(scope, attrs)
	case p.at("enum"):
		return p.parseEnum(scope, attrs)
	case p.at("typedef"):
		return p.parseTypedef(scope, attrs)
	case p.at("cpp_quote"):
		return p.parseCppQuote(scope, attrs)
	default:
		return p.errorf("unexpected token %q at top level", p.tok.text)
	}
}

// parseOptionalAttributes consumes a leading `[attr, attr=value, ...]`
// bracketed list, returning nil when none is present.
func (p *Parser) parseOptionalAttributes() ([]string, error) {
	if !p.at("[") {
		return nil, nil
	}
	p.advance()
	var attrs []string
	for !p.at("]") {
		name, err := p.expectIdent()
		if err != nil {
			return nil, err
		}
		if p.at("=") {
			p.advance()
			val, err := p.parseAttributeValue()
			if err != nil {
				return nil, err
			}
			attrs = append(attrs, name+"="+val)
		} else {
			attrs = append(attrs, name)
		}
		if p.at(",") {
			p.advance()
		}
	}
	if err := p.expect("]"); err != nil {
		return nil, err
	}
	return attrs, nil
}

func (p *Parser) parseAttributeValue() (string, error) {
	switch p.tok.kind {
	case tokNumber, tokString:
		v := p.tok.text
		p.advance()
		return v, nil
	case tokIdent:
		v := p.tok.text
		p.advance()
		return v, nil
	default:
		return "", p.errorf("expected attribute value, got %q", p.tok.text)
	}
}

// parseTemplateParams consumes an optional `template<typename T, ...>`
// prefix, returning nil when absent.
func (p *Parser) parseTemplateParams() ([]idlc.TemplateParam, error) {
	if !p.at("template") {
		return nil, nil
	}
	p.advance()
	if err := p.expect("<"); err != nil {
		return nil, err
	}
	var params []idlc.TemplateParam
	for !p.at(">") {
		keyword, err := p.expectIdent()
		if err != nil {
			return nil, err
		}
		name, err := p.expectIdent()
		if err != nil {
			return nil, err
		}
		params = append(params, idlc.TemplateParam{Keyword: keyword, Name: name})
		if p.at(",") {
			p.advance()
		}
	}
	if err := p.expect(">"); err != nil {
		return nil, err
	}
	return params, nil
}

// parseBaseList consumes an optional `: Base1, Base2` suffix on an
// interface or struct declaration, returning the base names as written.
// The names are not resolved: the callers store each one as a detached
// placeholder entity that carries only that name, and nothing later binds
// it to the declared interface or struct.
func (p *Parser) parseBaseList() ([]string, error) {
	if !p.at(":") {
		return nil, nil
	}
	p.advance()
	var bases []string
	for {
		name, err := p.parseQualifiedName()
		if err != nil {
			return nil, err
		}
		bases = append(bases, name)
		if p.at(",") {
			p.advance()
			continue
		}
		break
	}
	return bases, nil
}

func (p *Parser) parseQualifiedName() (string, error) {
	var sb strings.Builder
	if p.at("::") {
		sb.WriteString("::")
		p.advance()
	}
	name, err := p.expectIdent()
	if err != nil {
		return "", err
	}
	sb.WriteString(name)
	for p.at("::") {
		p.advance()
		seg, err := p.expectIdent()
		if err != nil {
			return "", err
		}
		sb.WriteString("::")
		sb.WriteString(seg)
	}
	return sb.String(), nil
}

func (p *Parser) parseNamespace(scope *idlc.Entity, attrs []string) error {
	p.advance() // 'namespace'
	name, err := p.expectIdent()
	if err != nil {
		return err
	}
	ns := idlc.NewEntity(idlc.KindNamespace, name)
	ns.Attributes = attrs
	scope.AddChild(ns)

	if err := p.expect("{"); err != nil {
		return err
	}
	if err := p.parseBody(ns); err != nil {
		return err
	}
	return p.expect("}")
}

func (p *Parser) parseLibrary(scope *idlc.Entity, attrs []string) error {
	p.advance() // 'library'
	name, err := p.expectIdent()
	if err != nil {
		return err
	}
	lib := idlc.NewEntity(idlc.KindLibrary, name)
	lib.Attributes = attrs
	templateParams, err := p.parseTemplateParams()
	if err != nil {
		return err
	}
	lib.TemplateParams = templateParams
	lib.IsTemplate = len(templateParams) > 0
	scope.AddChild(lib)

	if err := p.expect("{"); err != nil {
		return err
	}
	for !p.at("}") {
		if err := p.parseMember(lib); err != nil {
			return err
		}
	}
	return p.expect("}")
}

func (p *Parser) parseInterface(scope *idlc.Entity, attrs []string) error {
	p.advance() // 'interface'
	name, err := p.expectIdent()
	if err != nil {
		return err
	}
	iface := idlc.NewEntity(idlc.KindInterface, name)
	iface.Attributes = attrs

	templateParams, err := p.parseTemplateParams()
	if err != nil {
		return err
	}
	iface.TemplateParams = templateParams
	iface.IsTemplate = len(templateParams) > 0

	baseNames, err := p.parseBaseList()
	if err != nil {
		return err
	}
	for _, bn := range baseNames {
		iface.Bases = append(iface.Bases, idlc.NewEntity(idlc.KindInterface, bn))
	}

	scope.AddChild(iface)

	if err := p.expect("{"); err != nil {
		return err
	}
	for !p.at("}") {
		if err := p.parseMember(iface); err != nil {
			return err
		}
	}
	if err := p.expect("}"); err != nil {
		return err
	}
	return p.expect(";")
}

func (p *Parser) parseStruct(scope *idlc.Entity, attrs []string) error {
	p.advance() // 'struct'
	name, err := p.expectIdent()
	if err != nil {
		return err
	}
	st := idlc.NewEntity(idlc.KindStruct, name)
	st.Attributes = attrs

	templateParams, err := p.parseTemplateParams()
	if err != nil {
		return err
	}
	st.TemplateParams = templateParams
	st.IsTemplate = len(templateParams) > 0

	baseNames, err := p.parseBaseList()
	if err != nil {
		return err
	}
	for _, bn := range baseNames {
		st.Bases = append(st.Bases, idlc.NewEntity(idlc.KindStruct, bn))
	}

	scope.AddChild(st)

	if err := p.expect("{"); err != nil {
		return err
	}
	for !p.at("}") {
		if err := p.parseField(st); err != nil {
			return err
		}
	}
	if err := p.expect("}"); err != nil {
		return err
	}
	return p.expect(";")
}

func (p *Parser) parseEnum(scope *idlc.Entity, attrs []string) error {
	p.advance() // 'enum'
	name, err := p.expectIdent()
	if err != nil {
		return err
	}
	en := idlc.NewEntity(idlc.KindEnum, name)
	en.Attributes = attrs
	scope.AddChild(en)

	if err := p.expect("{"); err != nil {
		return err
	}
	for !p.at("}") {
		valName, err := p.expectIdent()
		if err != nil {
			return err
		}
		v := idlc.NewEntity(idlc.KindEnumValue, valName)
		if p.at("=") {
			p.advance()
			val, err := p.parseExprText([]string{",", "}"})
			if err != nil {
				return err
			}
			v.DefaultValue = val
		}
		en.AddChild(v)
		if p.at(",") {
			p.advance()
		}
	}
	if err := p.expect("}"); err != nil {
		return err
	}
	return p.expect(";")
}

func (p *Parser) parseTypedef(scope *idlc.Entity, attrs []string) error {
	p.advance() // 'typedef'
	decl, err := p.parseTypeText([]string{";"})
	if err != nil {
		return err
	}
	name, target, err := splitTrailingIdent(decl)
	if err != nil {
		return err
	}
	td := idlc.NewEntity(idlc.KindTypedef, name)
	td.Attributes = attrs
	td.AliasTarget = target
	scope.AddChild(td)
	return p.expect(";")
}

func (p *Parser) parseCppQuote(scope *idlc.Entity, attrs []string) error {
	p.advance() // 'cpp_quote'
	if err := p.expect("("); err != nil {
		return err
	}
	if p.tok.kind != tokString {
		return p.errorf("cpp_quote expects a string literal body")
	}
	body := p.tok.text
	p.advance()
	if err := p.expect(")"); err != nil {
		return err
	}
	quote := idlc.NewEntity(idlc.KindCppQuote, "")
	quote.Attributes = attrs
	quote.DefaultValue = body
	scope.AddChild(quote)
	return p.expect(";")
}

// parseMember parses one interface/library member: a method, a
// "public:"/"private:" marker, or a nested cpp_quote.
func (p *Parser) parseMember(scope *idlc.Entity) error {
	attrs, err := p.parseOptionalAttributes()
	if err != nil {
		return err
	}

	if p.at("public") {
		p.advance()
		if err := p.expect(":"); err != nil {
			return err
		}
		scope.AddChild(idlc.NewEntity(idlc.KindFunctionPublicMarker, ""))
		return nil
	}
	if p.at("private") {
		p.advance()
		if err := p.expect(":"); err != nil {
			return err
		}
		scope.AddChild(idlc.NewEntity(idlc.KindFunctionPrivateMarker, ""))
		return nil
	}
	if p.at("cpp_quote") {
		return p.parseCppQuote(scope, attrs)
	}

	return p.parseMethod(scope, attrs)
}

// parseMethod parses `ReturnType name(Type1 p1 [attrs], ...);`.
func (p *Parser) parseMethod(scope *idlc.Entity, attrs []string) error {
	returnType, err := p.parseTypeText([]string{"("}) // the identifier immediately before '(' is the name
	if err != nil {
		return err
	}
	// The last identifier run in returnType is actually the method name;
	// split it back out the way a one-token-of-lookahead grammar would.
	name, retType, err := splitTrailingIdent(returnType)
	if err != nil {
		return err
	}

	m := idlc.NewEntity(idlc.KindFunctionMethod, name)
	m.Attributes = attrs
	m.ReturnType = retType

	if err := p.expect("("); err != nil {
		return err
	}
	for !p.at(")") {
		param, err := p.parseParameter()
		if err != nil {
			return err
		}
		m.Params = append(m.Params, param)
		if p.at(",") {
			p.advance()
		}
	}
	if err := p.expect(")"); err != nil {
		return err
	}
	if err := p.expect(";"); err != nil {
		return err
	}
	scope.AddChild(m)
	return nil
}

func (p *Parser) parseParameter() (*idlc.Parameter, error) {
	attrs, err := p.parseOptionalAttributes()
	if err != nil {
		return nil, err
	}
	decl, err := p.parseTypeText([]string{",", ")"})
	if err != nil {
		return nil, err
	}
	name, typ, err := splitTrailingIdent(decl)
	if err != nil {
		return nil, err
	}
	return &idlc.Parameter{Type: typ, Name: name, Attributes: attrs}, nil
}

func (p *Parser) parseField(scope *idlc.Entity) error {
	attrs, err := p.parseOptionalAttributes()
	if err != nil {
		return err
	}
	decl, err := p.parseTypeText([]string{";", "[", "="})
	if err != nil {
		return err
	}
	name, typ, err := splitTrailingIdent(decl)
	if err != nil {
		return err
	}

	field := idlc.NewEntity(idlc.KindFunctionVariable, name)
	field.Attributes = attrs
	field.ReturnType = typ

	if p.at("[") {
		p.advance()
		size, err := p.parseExprText([]string{"]"})
		if err != nil {
			return err
		}
		field.ArraySize = size
		if err := p.expect("]"); err != nil {
			return err
		}
	}
	if p.at("=") {
		p.advance()
		val, err := p.parseExprText([]string{";"})
		if err != nil {
			return err
		}
		field.DefaultValue = val
	}
	if err := p.expect(";"); err != nil {
		return err
	}
	scope.AddChild(field)
	return nil
}

// parseTypeText accumulates raw token text up to (but excluding) one of the
// stop tokens, preserving the source spelling (including "::", "<...>",
// "&", "&&", "*", "*&", "**") the classifier and fingerprinter rely on.
func (p *Parser) parseTypeText(stop []string) (string, error) {
	var sb strings.Builder
	depth := 0
	for {
		if depth == 0 {
			for _, s := range stop {
				if p.at(s) {
					return strings.TrimSpace(sb.String()), nil
				}
			}
		}
		if p.tok.kind == tokEOF {
			return "", p.errorf("unexpected end of input while parsing a type")
		}
		switch p.tok.text {
		case "<":
			depth++
		case ">":
			depth--
		}
		if sb.Len() > 0 {
			sb.WriteRune(' ')
		}
		sb.WriteString(p.tok.text)
		p.advance()
	}
}

// parseExprText accumulates raw token text for a default-value or
// array-size expression up to one of the stop tokens, at bracket depth 0.
func (p *Parser) parseExprText(stop []string) (string, error) {
	var sb strings.Builder
	depth := 0
	for {
		if depth == 0 {
			for _, s := range stop {
				if p.at(s) {
					return strings.TrimSpace(sb.String()), nil
				}
			}
		}
		if p.tok.kind == tokEOF {
			return "", p.errorf("unexpected end of input while parsing an expression")
		}
		switch p.tok.text {
		case "(", "[":
			depth++
		case ")", "]":
			depth--
		}
		sb.WriteString(p.tok.text)
		p.advance()
	}
}

// splitTrailingIdent splits a parsed "Type ... Name" token run into its
// trailing identifier (the declared name) and the remaining type text,
// reattaching any reference-modifier tokens ("&", "&&", "*", "*&", "**")
// that the tokenizer separated with spaces back onto the type.
func splitTrailingIdent(text string) (name string, typ string, err error) {
	fields := strings.Fields(text)
	if len(fields) == 0 {
		return "", "", fmt.Errorf("expected a declaration, got empty text")
	}
	name = fields[len(fields)-1]
	rest := fields[:len(fields)-1]
	if !isIdentStart([]rune(name)[0]) {
		return "", "", fmt.Errorf("expected an identifier, got %q", name)
	}
	typ = strings.Join(rest, " ")
	typ = strings.ReplaceAll(typ, " ::", "::")
	typ = strings.ReplaceAll(typ, ":: ", "::")
	typ = strings.ReplaceAll(typ, " <", "<")
	typ = strings.ReplaceAll(typ, "< ", "<")
	typ = strings.ReplaceAll(typ, " >", ">")
	typ = strings.ReplaceAll(typ, " &", "&")
	typ = strings.ReplaceAll(typ, " *", "*")
	return name, strings.TrimSpace(typ), nil
}
