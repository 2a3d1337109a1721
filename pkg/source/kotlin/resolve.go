package kotlin

import (
	"strings"

	"github.com/simonhull/firebird-suite/heron/pkg/source"
)

// Types available without an import.
var (
	kotlinBuiltins = set(
		"Any", "Nothing", "Unit", "String", "CharSequence", "Char", "Boolean",
		"Byte", "Short", "Int", "Long", "Float", "Double", "Number",
		"Array", "IntArray", "LongArray", "ByteArray", "CharArray", "BooleanArray",
		"DoubleArray", "FloatArray", "ShortArray",
		"Comparable", "Enum", "Throwable", "Exception", "RuntimeException",
		"Error", "Pair", "Triple", "Lazy", "Result", "Function",
	)
	kotlinCollections = set(
		"Iterable", "MutableIterable", "Collection", "MutableCollection",
		"List", "MutableList", "Set", "MutableSet", "Map", "MutableMap",
		"ArrayList", "HashMap", "HashSet", "LinkedHashMap", "LinkedHashSet",
		"Iterator", "MutableIterator", "Sequence",
	)
)

func set(names ...string) map[string]bool {
	m := make(map[string]bool, len(names))
	for _, n := range names {
		m[n] = true
	}
	return m
}

// typeRef is a type written in a declaration, together with where it was
// written.
type typeRef struct {
	text  string
	owner *classDecl
}

func (r typeRef) String() string { return r.text }

// resolver binds type names against the set of every class declared in
// the project. It is read-only after construction.
type resolver struct {
	index map[string]bool
}

func (r *resolver) resolve(ref typeRef) (source.ResolvedType, bool) {
	rt, ok := source.ParseTypeText(ref.text)
	if !ok || !isNamedType(rt.QualifiedName) {
		return source.ResolvedType{}, false
	}

	out := source.ResolvedType{QualifiedName: r.bind(rt.QualifiedName, ref.owner)}
	for _, arg := range rt.Args {
		out.Args = append(out.Args, r.bindArg(arg, ref.owner))
	}
	return out, true
}

// bindArg resolves a type argument. Star projections and function types
// stay as written, so they never match a declaration.
func (r *resolver) bindArg(arg string, owner *classDecl) string {
	arg = strings.TrimSpace(arg)
	arg = strings.TrimPrefix(arg, "out ")
	arg = strings.TrimPrefix(arg, "in ")

	rt, ok := source.ParseTypeText(arg)
	if !ok || !isNamedType(rt.QualifiedName) {
		return arg
	}
	name := r.bind(rt.QualifiedName, owner)
	if len(rt.Args) == 0 {
		return name
	}
	bound := make([]string, 0, len(rt.Args))
	for _, a := range rt.Args {
		bound = append(bound, r.bindArg(a, owner))
	}
	return name + "<" + strings.Join(bound, ", ") + ">"
}

// bind resolves a possibly dotted type name in the order Kotlin does:
// classes nested in the enclosing declarations, explicit imports, the
// current package, star imports, then the default kotlin packages. A name
// that matches nothing is returned as written.
func (r *resolver) bind(name string, owner *classDecl) string {
	scope := owner.scope
	first, rest := name, ""
	if i := strings.IndexByte(name, '.'); i >= 0 {
		first, rest = name[:i], name[i:]
	}

	for encl := owner.qualified; len(encl) > len(scope.pkg); {
		if candidate := encl + "." + name; r.index[candidate] {
			return candidate
		}
		i := strings.LastIndexByte(encl, '.')
		if i < 0 {
			break
		}
		encl = encl[:i]
	}

	if imported, ok := scope.imports[first]; ok {
		return imported + rest
	}

	if scope.pkg != "" {
		if candidate := scope.pkg + "." + name; r.index[candidate] {
			return candidate
		}
	} else if r.index[name] {
		return name
	}

	for _, w := range scope.wildcards {
		if candidate := w + "." + name; r.index[candidate] {
			return candidate
		}
	}

	if rest == "" {
		switch {
		case kotlinBuiltins[name]:
			return "kotlin." + name
		case kotlinCollections[name]:
			return "kotlin.collections." + name
		}
	}
	return name
}

// isNamedType rejects function types, parenthesized types and dynamic.
func isNamedType(head string) bool {
	if head == "" || head == "dynamic" || head == "*" {
		return false
	}
	return !strings.ContainsAny(head, "()->@ ")
}
