// Package golang provides declarations of a Go module to the analyzer.
//
// Structs become classes and interfaces become interfaces. Embedded fields
// are supertypes, the remaining fields are properties, and the parameters
// of every method declared on T or *T are the member parameters. Packages
// are loaded and type-checked with golang.org/x/tools/go/packages.
package golang

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"golang.org/x/tools/go/packages"

	"github.com/simonhull/firebird-suite/heron/internal/project"
	"github.com/simonhull/firebird-suite/heron/pkg/logger"
	"github.com/simonhull/firebird-suite/heron/pkg/source"
)

// ErrNoPackages is returned when the patterns match no Go package.
var ErrNoPackages = errors.New("no Go packages matched")

// Options configures package loading.
type Options struct {
	Dir                string   // Directory patterns are resolved in
	Patterns           []string // Package patterns (default: ./...)
	IncludeTests       bool     // Also load _test.go files
	ImplicitImplements bool     // Report interfaces a struct satisfies as supertypes
	Logger             logger.Logger
}

// Provider implements source.Provider for Go code.
type Provider struct {
	opts   Options
	logger logger.Logger
	decls  map[source.Declaration]*decl
}

// New creates a Go provider. Nothing is loaded until Declarations.
func New(opts Options) *Provider {
	if len(opts.Patterns) == 0 {
		opts.Patterns = []string{"./..."}
	}
	if opts.Dir == "" {
		opts.Dir = "."
	}
	log := opts.Logger
	if log == nil {
		log = logger.Default()
	}
	return &Provider{opts: opts, logger: log.WithFields(logger.F("provider", "go"))}
}

func (p *Provider) Name() string { return "go" }

const loadMode = packages.NeedName |
	packages.NeedFiles |
	packages.NeedTypes |
	packages.NeedTypesInfo |
	packages.NeedSyntax

// Declarations loads and type-checks the packages and returns every
// package-level named type, sorted by qualified name.
func (p *Provider) Declarations(ctx context.Context) ([]source.Declaration, error) {
	if mod, err := project.FindModule(p.opts.Dir); err != nil {
		p.logger.Warn("No Go module found", logger.F("dir", p.opts.Dir), logger.F("error", err))
	} else {
		p.logger.Info("Loading Go module", logger.F("module", mod.Path), logger.F("go", mod.GoVersion))
	}

	cfg := &packages.Config{
		Context: ctx,
		Mode:    loadMode,
		Dir:     p.opts.Dir,
		Tests:   p.opts.IncludeTests,
	}
	pkgs, err := packages.Load(cfg, p.opts.Patterns...)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, fmt.Errorf("loading packages: %w", err)
	}

	pkgs = selectVariants(pkgs)

	var all []*decl
	loaded := 0
	for _, pkg := range pkgs {
		for _, e := range pkg.Errors {
			p.logger.Warn("Package has errors", logger.F("package", pkg.PkgPath), logger.F("error", e.Msg))
		}
		if pkg.Types == nil || len(pkg.GoFiles) == 0 {
			continue
		}
		loaded++
		found := declarationsOf(pkg.Types)
		p.logger.Debug("Loaded package",
			logger.F("package", pkg.PkgPath),
			logger.F("files", len(pkg.GoFiles)),
			logger.F("types", len(found)))
		all = append(all, found...)
	}

	if loaded == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNoPackages, strings.Join(p.opts.Patterns, " "))
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if p.opts.ImplicitImplements {
		addImplicitImplements(all)
	}

	sort.Slice(all, func(i, j int) bool { return all[i].qualified < all[j].qualified })

	p.decls = make(map[source.Declaration]*decl, len(all))
	out := make([]source.Declaration, 0, len(all))
	for _, d := range all {
		p.decls[d] = d
		out = append(out, d)
	}
	return out, nil
}

// selectVariants keeps one package per import path. With tests enabled
// go/packages also returns the test variant "p [p.test]" and a generated
// "p.test" main package; the variant with the most files wins and
// generated test mains are dropped.
func selectVariants(pkgs []*packages.Package) []*packages.Package {
	best := make(map[string]*packages.Package, len(pkgs))
	var order []string
	for _, pkg := range pkgs {
		if pkg.Name == "main" && strings.HasSuffix(pkg.PkgPath, ".test") {
			continue
		}
		cur, ok := best[pkg.PkgPath]
		if !ok {
			order = append(order, pkg.PkgPath)
			best[pkg.PkgPath] = pkg
			continue
		}
		if len(pkg.GoFiles) > len(cur.GoFiles) {
			best[pkg.PkgPath] = pkg
		}
	}

	out := make([]*packages.Package, 0, len(order))
	for _, path := range order {
		out = append(out, best[path])
	}
	return out
}

func (p *Provider) Supertypes(d source.Declaration) []source.TypeRef {
	return p.decl(d).supertypes
}

func (p *Provider) Properties(d source.Declaration) []source.TypeRef {
	return p.decl(d).properties
}

func (p *Provider) Parameters(d source.Declaration) []source.TypeRef {
	return p.decl(d).parameters
}

// Resolve binds a reference produced by this provider.
func (p *Provider) Resolve(ref source.TypeRef) (source.ResolvedType, bool) {
	r, ok := ref.(typeRef)
	if !ok {
		return source.ResolvedType{}, false
	}
	return resolve(r.t)
}

func (p *Provider) decl(d source.Declaration) *decl {
	gd, ok := p.decls[d]
	if !ok {
		panic(fmt.Sprintf("golang: declaration %s was not returned by this provider", d.QualifiedName()))
	}
	return gd
}
