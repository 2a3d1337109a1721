package source

import (
	"context"
	"fmt"
	"strings"
)

// StaticDecl describes one declaration of a Static provider.
type StaticDecl struct {
	Qualified  string
	DeclKind   DeclKind
	Private    bool
	Supertypes []string
	Properties []string
	Parameters []string
}

// Name returns the last segment of the qualified name.
func (d *StaticDecl) Name() string {
	if i := strings.LastIndex(d.Qualified, "."); i >= 0 {
		return d.Qualified[i+1:]
	}
	return d.Qualified
}

func (d *StaticDecl) Visibility() Visibility {
	if d.Private {
		return NonPublic
	}
	return Public
}

func (d *StaticDecl) Kind() DeclKind        { return d.DeclKind }
func (d *StaticDecl) QualifiedName() string { return d.Qualified }

// staticRef is a type reference written as a fully-qualified name with
// optional angle-bracketed arguments, e.g. "kotlin.collections.Map<a.K, a.V>".
type staticRef string

func (r staticRef) String() string { return string(r) }

// Static is an in-memory Provider. Type references are written as
// fully-qualified names; a reference listed in Unresolvable cannot be
// bound.
type Static struct {
	Decls        []*StaticDecl
	Unresolvable map[string]bool
}

// NewStatic creates a Static provider over decls.
func NewStatic(decls ...*StaticDecl) *Static {
	return &Static{Decls: decls, Unresolvable: make(map[string]bool)}
}

func (s *Static) Name() string { return "static" }

func (s *Static) Declarations(ctx context.Context) ([]Declaration, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	out := make([]Declaration, 0, len(s.Decls))
	for _, d := range s.Decls {
		out = append(out, d)
	}
	return out, nil
}

func (s *Static) Supertypes(d Declaration) []TypeRef {
	return refs(s.decl(d).Supertypes)
}

func (s *Static) Properties(d Declaration) []TypeRef {
	return refs(s.decl(d).Properties)
}

func (s *Static) Parameters(d Declaration) []TypeRef {
	return refs(s.decl(d).Parameters)
}

func (s *Static) Resolve(ref TypeRef) (ResolvedType, bool) {
	text := ref.String()
	if s.Unresolvable[text] {
		return ResolvedType{}, false
	}
	return ParseTypeText(text)
}

func (s *Static) decl(d Declaration) *StaticDecl {
	sd, ok := d.(*StaticDecl)
	if !ok {
		panic(fmt.Sprintf("source: declaration %T does not belong to the static provider", d))
	}
	return sd
}

func refs(texts []string) []TypeRef {
	out := make([]TypeRef, 0, len(texts))
	for _, t := range texts {
		out = append(out, staticRef(t))
	}
	return out
}

// ParseTypeText splits "Head<A, B<C>>" into its head and top-level
// arguments, trimming whitespace and trailing nullability markers. It
// reports false for empty text or unbalanced brackets.
func ParseTypeText(text string) (ResolvedType, bool) {
	text = strings.TrimSpace(text)
	text = strings.TrimRight(text, "?")
	if text == "" {
		return ResolvedType{}, false
	}

	open := strings.IndexByte(text, '<')
	if open < 0 {
		return ResolvedType{QualifiedName: text}, true
	}
	if !strings.HasSuffix(text, ">") {
		return ResolvedType{}, false
	}

	head := strings.TrimSpace(text[:open])
	inner := text[open+1 : len(text)-1]
	args, ok := SplitTypeArgs(inner)
	if !ok || head == "" {
		return ResolvedType{}, false
	}
	for i, a := range args {
		args[i] = strings.TrimRight(a, "?")
	}
	return ResolvedType{QualifiedName: head, Args: args}, true
}

// SplitTypeArgs splits a comma separated argument list at nesting depth
// zero.
func SplitTypeArgs(inner string) ([]string, bool) {
	var args []string
	depth, start := 0, 0
	for i, r := range inner {
		switch r {
		case '<', '(':
			depth++
		case '>', ')':
			if r == '>' && i > 0 && inner[i-1] == '-' {
				continue
			}
			depth--
			if depth < 0 {
				return nil, false
			}
		case ',':
			if depth == 0 {
				args = append(args, strings.TrimSpace(inner[start:i]))
				start = i + 1
			}
		}
	}
	if depth != 0 {
		return nil, false
	}
	if last := strings.TrimSpace(inner[start:]); last != "" || len(args) > 0 {
		args = append(args, last)
	}
	return args, true
}
