package golang

import (
	"go/types"
	"strconv"

	"github.com/simonhull/firebird-suite/heron/pkg/source"
)

// decl is a package-level named type. All references are computed while
// loading, so the accessors only read.
type decl struct {
	obj       *types.TypeName
	named     *types.Named
	qualified string
	kind      source.DeclKind

	supertypes []source.TypeRef
	properties []source.TypeRef
	parameters []source.TypeRef
}

func (d *decl) Name() string          { return d.obj.Name() }
func (d *decl) QualifiedName() string { return d.qualified }
func (d *decl) Kind() source.DeclKind { return d.kind }

func (d *decl) Visibility() source.Visibility {
	if d.obj.Exported() {
		return source.Public
	}
	return source.NonPublic
}

// typeRef wraps a go/types type as written at the reference site.
type typeRef struct {
	t types.Type
}

func (r typeRef) String() string {
	return types.TypeString(r.t, nil)
}

func declarationsOf(pkg *types.Package) []*decl {
	scope := pkg.Scope()
	var out []*decl
	for _, name := range scope.Names() {
		obj, ok := scope.Lookup(name).(*types.TypeName)
		if !ok {
			continue
		}

		d := &decl{obj: obj, qualified: pkg.Path() + "." + name, kind: source.DeclOther}
		named, ok := obj.Type().(*types.Named)
		if !ok || obj.IsAlias() {
			out = append(out, d)
			continue
		}
		d.named = named

		switch u := named.Underlying().(type) {
		case *types.Struct:
			d.kind = source.DeclClass
			for i := 0; i < u.NumFields(); i++ {
				f := u.Field(i)
				if f.Embedded() {
					d.supertypes = append(d.supertypes, typeRef{f.Type()})
				} else {
					d.properties = append(d.properties, typeRef{f.Type()})
				}
			}
			for i := 0; i < named.NumMethods(); i++ {
				d.parameters = append(d.parameters, paramsOf(named.Method(i))...)
			}
		case *types.Interface:
			d.kind = source.DeclInterface
			for i := 0; i < u.NumEmbeddeds(); i++ {
				d.supertypes = append(d.supertypes, typeRef{u.EmbeddedType(i)})
			}
			for i := 0; i < u.NumExplicitMethods(); i++ {
				d.parameters = append(d.parameters, paramsOf(u.ExplicitMethod(i))...)
			}
		}
		out = append(out, d)
	}
	return out
}

func paramsOf(fn *types.Func) []source.TypeRef {
	sig, ok := fn.Type().(*types.Signature)
	if !ok {
		return nil
	}
	params := sig.Params()
	out := make([]source.TypeRef, 0, params.Len())
	for i := 0; i < params.Len(); i++ {
		out = append(out, typeRef{params.At(i).Type()})
	}
	return out
}

// addImplicitImplements records, for every non-generic struct, each
// project interface with at least one method that the struct or a pointer
// to it satisfies.
func addImplicitImplements(all []*decl) {
	type target struct {
		named *types.Named
		iface *types.Interface
	}
	var ifaces []target
	for _, d := range all {
		if d.kind != source.DeclInterface || d.named.TypeParams().Len() > 0 {
			continue
		}
		iface := d.named.Underlying().(*types.Interface)
		if iface.NumMethods() == 0 {
			continue
		}
		ifaces = append(ifaces, target{named: d.named, iface: iface})
	}

	for _, d := range all {
		if d.kind != source.DeclClass || d.named.TypeParams().Len() > 0 {
			continue
		}
		ptr := types.NewPointer(d.named)
		for _, t := range ifaces {
			if types.Implements(d.named, t.iface) || types.Implements(ptr, t.iface) {
				d.supertypes = append(d.supertypes, typeRef{t.named})
			}
		}
	}
}

// resolve maps a Go type onto a head name and generic arguments.
// Pointers are transparent. Slices, arrays and channels carry their
// element as the single argument, maps carry key and value, and
// instantiated generic types carry their type arguments.
func resolve(t types.Type) (source.ResolvedType, bool) {
	switch t := t.(type) {
	case *types.Alias:
		return resolve(types.Unalias(t))
	case *types.Pointer:
		return resolve(t.Elem())
	case *types.Named:
		rt := source.ResolvedType{QualifiedName: qualifiedName(t)}
		if args := t.TypeArgs(); args != nil {
			for i := 0; i < args.Len(); i++ {
				rt.Args = append(rt.Args, argName(args.At(i)))
			}
		}
		return rt, true
	case *types.Basic:
		return source.ResolvedType{QualifiedName: t.Name()}, true
	case *types.Slice:
		return source.ResolvedType{QualifiedName: "[]", Args: []string{argName(t.Elem())}}, true
	case *types.Array:
		return source.ResolvedType{QualifiedName: "[" + strconv.FormatInt(t.Len(), 10) + "]", Args: []string{argName(t.Elem())}}, true
	case *types.Chan:
		return source.ResolvedType{QualifiedName: "chan", Args: []string{argName(t.Elem())}}, true
	case *types.Map:
		return source.ResolvedType{QualifiedName: "map", Args: []string{argName(t.Key()), argName(t.Elem())}}, true
	default:
		// Signatures, type parameters, and anonymous structs or interfaces.
		return source.ResolvedType{}, false
	}
}

func qualifiedName(n *types.Named) string {
	obj := n.Obj()
	if obj.Pkg() == nil {
		return obj.Name()
	}
	return obj.Pkg().Path() + "." + obj.Name()
}

// argName names a generic argument the way declarations are named, so it
// can be looked up directly.
func argName(t types.Type) string {
	t = types.Unalias(t)
	for {
		p, ok := t.(*types.Pointer)
		if !ok {
			break
		}
		t = types.Unalias(p.Elem())
	}
	if n, ok := t.(*types.Named); ok && n.TypeArgs() == nil {
		return qualifiedName(n)
	}
	return types.TypeString(t, nil)
}
