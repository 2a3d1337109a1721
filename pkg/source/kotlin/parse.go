package kotlin

import (
	"context"
	"fmt"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	tskotlin "github.com/smacker/go-tree-sitter/kotlin"

	"github.com/simonhull/firebird-suite/heron/pkg/source"
)

// fileScope is the name-resolution context shared by every declaration in
// one source file.
type fileScope struct {
	path      string
	pkg       string
	imports   map[string]string // simple name or alias -> qualified name
	wildcards []string          // packages imported with .*
}

// classDecl is a class or interface declaration found in a file. Type
// references are kept as source text and resolved later against the
// whole-project index.
type classDecl struct {
	name       string
	qualified  string
	kind       source.DeclKind
	visibility source.Visibility
	scope      *fileScope

	supertypes []string
	properties []string
	parameters []string
}

func (d *classDecl) Name() string                  { return d.name }
func (d *classDecl) QualifiedName() string         { return d.qualified }
func (d *classDecl) Kind() source.DeclKind         { return d.kind }
func (d *classDecl) Visibility() source.Visibility { return d.visibility }

// parsedFile is the result of parsing one file.
type parsedFile struct {
	scope     *fileScope
	classes   []*classDecl
	hasErrors bool
}

// parseFile parses Kotlin source and extracts its declarations. A new
// parser is created per call; tree-sitter parsers are not safe for
// concurrent use.
func parseFile(ctx context.Context, path string, content []byte) (*parsedFile, error) {
	parser := sitter.NewParser()
	defer parser.Close()
	parser.SetLanguage(tskotlin.GetLanguage())

	tree, err := parser.ParseCtx(ctx, nil, content)
	if err != nil {
		return nil, fmt.Errorf("tree-sitter parse failed: %w", err)
	}
	defer tree.Close()

	root := tree.RootNode()
	if root == nil {
		return nil, fmt.Errorf("tree-sitter returned no root node for %s", path)
	}

	scope := &fileScope{path: path, imports: make(map[string]string)}
	out := &parsedFile{scope: scope, hasErrors: root.HasError()}

	for i := 0; i < int(root.NamedChildCount()); i++ {
		child := root.NamedChild(i)
		switch child.Type() {
		case "package_header":
			scope.pkg = packageName(child, content)
		case "import_list":
			for j := 0; j < int(child.NamedChildCount()); j++ {
				if h := child.NamedChild(j); h.Type() == "import_header" {
					scope.addImport(h.Content(content))
				}
			}
		case "import_header":
			scope.addImport(child.Content(content))
		default:
			out.classes = extractNested(child, content, scope, scope.pkg, out.classes)
		}
	}
	return out, nil
}

func packageName(header *sitter.Node, content []byte) string {
	for i := 0; i < int(header.NamedChildCount()); i++ {
		if c := header.NamedChild(i); c.Type() == "identifier" {
			return compact(c.Content(content))
		}
	}
	text := strings.TrimPrefix(strings.TrimSpace(header.Content(content)), "package")
	return compact(strings.TrimSuffix(strings.TrimSpace(text), ";"))
}

// addImport records "import a.b.C", "import a.b.C as D" or "import a.b.*".
func (s *fileScope) addImport(header string) {
	text := strings.TrimSpace(header)
	text = strings.TrimPrefix(text, "import")
	text = strings.TrimSuffix(strings.TrimSpace(text), ";")

	path, alias := text, ""
	if i := strings.Index(text, " as "); i >= 0 {
		path, alias = text[:i], strings.TrimSpace(text[i+len(" as "):])
	}
	path = compact(path)
	if path == "" {
		return
	}

	if strings.HasSuffix(path, ".*") {
		s.wildcards = append(s.wildcards, strings.TrimSuffix(path, ".*"))
		return
	}
	if alias == "" {
		alias = path[strings.LastIndex(path, ".")+1:]
	}
	s.imports[alias] = path
}

// extractNested appends the classes declared by node: the class itself, the
// classes inside an object or companion object, or the local classes of a
// function.
func extractNested(node *sitter.Node, content []byte, scope *fileScope, prefix string, out []*classDecl) []*classDecl {
	switch node.Type() {
	case "class_declaration":
		return extractClass(node, content, scope, prefix, out)
	case "object_declaration", "companion_object":
		return extractObject(node, content, scope, prefix, out)
	case "function_declaration":
		return extractLocalClasses(node, content, scope, qualify(prefix, identifier(node, content)), out)
	}
	return out
}

// extractClass appends the declaration at node and every class nested in
// its body.
func extractClass(node *sitter.Node, content []byte, scope *fileScope, prefix string, out []*classDecl) []*classDecl {
	d := &classDecl{kind: source.DeclClass, visibility: source.Public, scope: scope}
	var body *sitter.Node

	for i := 0; i < int(node.ChildCount()); i++ {
		child := node.Child(i)
		switch child.Type() {
		case "interface":
			d.kind = source.DeclInterface
		case "modifiers":
			if !isPublic(child, content) {
				d.visibility = source.NonPublic
			}
		case "type_identifier", "simple_identifier":
			if d.name == "" {
				d.name = child.Content(content)
			}
		case "primary_constructor":
			d.properties = append(d.properties, constructorProperties(child, content)...)
		case "delegation_specifier":
			if t := delegatedType(child, content); t != "" {
				d.supertypes = append(d.supertypes, t)
			}
		case "delegation_specifiers":
			for j := 0; j < int(child.NamedChildCount()); j++ {
				if t := delegatedType(child.NamedChild(j), content); t != "" {
					d.supertypes = append(d.supertypes, t)
				}
			}
		case "class_body", "enum_class_body":
			body = child
		}
	}

	if d.name == "" {
		return out
	}
	d.qualified = qualify(prefix, d.name)
	out = append(out, d)

	if body == nil {
		return out
	}
	for i := 0; i < int(body.NamedChildCount()); i++ {
		member := body.NamedChild(i)
		switch member.Type() {
		case "property_declaration":
			if t := propertyType(member, content); t != "" {
				d.properties = append(d.properties, t)
			}
		case "function_declaration":
			d.parameters = append(d.parameters, functionParameters(member, content)...)
			out = extractNested(member, content, scope, d.qualified, out)
		case "secondary_constructor":
			d.parameters = append(d.parameters, functionParameters(member, content)...)
		default:
			out = extractNested(member, content, scope, d.qualified, out)
		}
	}
	return out
}

// extractObject collects the classes declared inside an object. The object
// is a name scope only: its own members belong to no element. An unnamed
// companion object is called Companion.
func extractObject(node *sitter.Node, content []byte, scope *fileScope, prefix string, out []*classDecl) []*classDecl {
	name := identifier(node, content)
	if name == "" {
		if node.Type() != "companion_object" {
			return out
		}
		name = "Companion"
	}
	body := childOfType(node, "class_body")
	if body == nil {
		return out
	}
	qualified := qualify(prefix, name)
	for i := 0; i < int(body.NamedChildCount()); i++ {
		out = extractNested(body.NamedChild(i), content, scope, qualified, out)
	}
	return out
}

// extractLocalClasses collects classes declared anywhere inside a function
// body. They are qualified by the function name, so they bind only from
// within that function.
func extractLocalClasses(fn *sitter.Node, content []byte, scope *fileScope, prefix string, out []*classDecl) []*classDecl {
	body := childOfType(fn, "function_body")
	if body == nil {
		return out
	}
	var visit func(n *sitter.Node)
	visit = func(n *sitter.Node) {
		for i := 0; i < int(n.NamedChildCount()); i++ {
			c := n.NamedChild(i)
			switch c.Type() {
			case "class_declaration", "function_declaration":
				out = extractNested(c, content, scope, prefix, out)
			default:
				visit(c)
			}
		}
	}
	visit(body)
	return out
}

func identifier(node *sitter.Node, content []byte) string {
	for i := 0; i < int(node.NamedChildCount()); i++ {
		switch c := node.NamedChild(i); c.Type() {
		case "type_identifier", "simple_identifier":
			return c.Content(content)
		}
	}
	return ""
}

func childOfType(node *sitter.Node, typ string) *sitter.Node {
	for i := 0; i < int(node.NamedChildCount()); i++ {
		if c := node.NamedChild(i); c.Type() == typ {
			return c
		}
	}
	return nil
}

func qualify(prefix, name string) string {
	if prefix == "" {
		return name
	}
	return prefix + "." + name
}

func isPublic(modifiers *sitter.Node, content []byte) bool {
	for i := 0; i < int(modifiers.NamedChildCount()); i++ {
		m := modifiers.NamedChild(i)
		if m.Type() != "visibility_modifier" {
			continue
		}
		switch strings.TrimSpace(m.Content(content)) {
		case "private", "protected", "internal":
			return false
		}
	}
	return true
}

// constructorProperties returns the types of primary constructor
// parameters declared with val or var.
func constructorProperties(ctor *sitter.Node, content []byte) []string {
	var out []string
	var visit func(n *sitter.Node)
	visit = func(n *sitter.Node) {
		for i := 0; i < int(n.NamedChildCount()); i++ {
			c := n.NamedChild(i)
			switch c.Type() {
			case "class_parameter":
				if promoted(c) {
					if t := typeText(c, content); t != "" {
						out = append(out, t)
					}
				}
			case "class_parameters":
				visit(c)
			}
		}
	}
	visit(ctor)
	return out
}

func promoted(param *sitter.Node) bool {
	for i := 0; i < int(param.ChildCount()); i++ {
		switch param.Child(i).Type() {
		case "val", "var", "binding_pattern_kind":
			return true
		}
	}
	return false
}

func delegatedType(spec *sitter.Node, content []byte) string {
	if spec.Type() != "delegation_specifier" {
		return ""
	}
	for i := 0; i < int(spec.NamedChildCount()); i++ {
		c := spec.NamedChild(i)
		switch c.Type() {
		case "user_type", "function_type":
			return compact(c.Content(content))
		case "constructor_invocation", "explicit_delegation":
			for j := 0; j < int(c.NamedChildCount()); j++ {
				if u := c.NamedChild(j); u.Type() == "user_type" {
					return compact(u.Content(content))
				}
			}
		}
	}
	return ""
}

func propertyType(prop *sitter.Node, content []byte) string {
	for i := 0; i < int(prop.NamedChildCount()); i++ {
		if c := prop.NamedChild(i); c.Type() == "variable_declaration" {
			return typeText(c, content)
		}
	}
	return ""
}

func functionParameters(fn *sitter.Node, content []byte) []string {
	var out []string
	for i := 0; i < int(fn.NamedChildCount()); i++ {
		params := fn.NamedChild(i)
		if params.Type() != "function_value_parameters" {
			continue
		}
		for j := 0; j < int(params.NamedChildCount()); j++ {
			if p := params.NamedChild(j); p.Type() == "parameter" {
				if t := typeText(p, content); t != "" {
					out = append(out, t)
				}
			}
		}
	}
	return out
}

var typeNodes = map[string]bool{
	"user_type":          true,
	"nullable_type":      true,
	"function_type":      true,
	"parenthesized_type": true,
	"not_nullable_type":  true,
	"dynamic":            true,
}

// typeText returns the source text of the declared type of n, with
// whitespace removed around punctuation.
func typeText(n *sitter.Node, content []byte) string {
	for i := 0; i < int(n.NamedChildCount()); i++ {
		if c := n.NamedChild(i); typeNodes[c.Type()] {
			return compact(c.Content(content))
		}
	}
	return ""
}

// compact collapses runs of whitespace to a single space and drops
// whitespace next to dots and angle brackets.
func compact(s string) string {
	fields := strings.Fields(s)
	joined := strings.Join(fields, " ")
	r := strings.NewReplacer(" .", ".", ". ", ".", " <", "<", "< ", "<", " >", ">", " ?", "?")
	return r.Replace(joined)
}
