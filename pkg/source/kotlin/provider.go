// Package kotlin provides declarations of a Kotlin source tree to the
// analyzer.
//
// Files are parsed with tree-sitter, so no compiler or build system is
// needed. Names are resolved by the provider itself after every file has
// been indexed: nested classes first, then imports and aliases, the file's
// package, star imports and finally the implicit kotlin packages.
package kotlin

import (
	"context"
	"fmt"
	"os"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/simonhull/firebird-suite/heron/internal/filesystem"
	"github.com/simonhull/firebird-suite/heron/pkg/logger"
	"github.com/simonhull/firebird-suite/heron/pkg/source"
)

// Options configures source discovery.
type Options struct {
	Root        string // Directory searched for .kt files
	Workers     int    // Parallel parsers (default: number of CPUs)
	NoGitignore bool   // Do not honour .gitignore files
	Logger      logger.Logger
}

// Provider implements source.Provider for Kotlin sources.
type Provider struct {
	opts     Options
	logger   logger.Logger
	resolver *resolver
	decls    map[source.Declaration]*classDecl
}

// New creates a Kotlin provider. Nothing is read until Declarations.
func New(opts Options) *Provider {
	if opts.Root == "" {
		opts.Root = "."
	}
	if opts.Workers <= 0 {
		opts.Workers = runtime.NumCPU()
	}
	log := opts.Logger
	if log == nil {
		log = logger.Default()
	}
	return &Provider{opts: opts, logger: log.WithFields(logger.F("provider", "kotlin"))}
}

func (p *Provider) Name() string { return "kotlin" }

// Declarations parses every .kt file under the root and returns the
// class and interface declarations in file order, then source order.
func (p *Provider) Declarations(ctx context.Context) ([]source.Declaration, error) {
	files, err := filesystem.FindFiles(p.opts.Root, filesystem.WalkOptions{NoGitignore: p.opts.NoGitignore}, ".kt")
	if err != nil {
		return nil, fmt.Errorf("finding Kotlin sources: %w", err)
	}
	p.logger.Info("Parsing Kotlin sources",
		logger.F("root", p.opts.Root),
		logger.F("files", len(files)),
		logger.F("workers", p.opts.Workers))

	parsed, err := p.parseAll(ctx, files)
	if err != nil {
		return nil, err
	}

	p.resolver = &resolver{index: make(map[string]bool)}
	p.decls = make(map[source.Declaration]*classDecl)
	var out []source.Declaration
	for _, f := range parsed {
		if f == nil {
			continue
		}
		for _, d := range f.classes {
			p.resolver.index[d.qualified] = true
			p.decls[d] = d
			out = append(out, d)
		}
	}
	return out, nil
}

// parseAll parses files with a bounded pool of workers. Results keep the
// input order. A file that cannot be read or parsed is logged and skipped.
func (p *Provider) parseAll(ctx context.Context, files []string) ([]*parsedFile, error) {
	results := make([]*parsedFile, len(files))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.opts.Workers)
	for i, path := range files {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}

			content, err := os.ReadFile(path)
			if err != nil {
				p.logger.Warn("Failed to read file", logger.F("path", path), logger.F("error", err))
				return nil
			}

			f, err := parseFile(gctx, path, content)
			if err != nil {
				if ctxErr := gctx.Err(); ctxErr != nil {
					return ctxErr
				}
				p.logger.Warn("Failed to parse file", logger.F("path", path), logger.F("error", err))
				return nil
			}
			if f.hasErrors {
				p.logger.Debug("File has syntax errors, using partial tree", logger.F("path", path))
			}
			p.logger.Debug("Parsed file",
				logger.F("path", path),
				logger.F("package", f.scope.pkg),
				logger.F("classes", len(f.classes)))

			results[i] = f
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func (p *Provider) Supertypes(d source.Declaration) []source.TypeRef {
	cd := p.decl(d)
	return refs(cd, cd.supertypes)
}

func (p *Provider) Properties(d source.Declaration) []source.TypeRef {
	cd := p.decl(d)
	return refs(cd, cd.properties)
}

func (p *Provider) Parameters(d source.Declaration) []source.TypeRef {
	cd := p.decl(d)
	return refs(cd, cd.parameters)
}

// Resolve binds a reference produced by this provider.
func (p *Provider) Resolve(ref source.TypeRef) (source.ResolvedType, bool) {
	r, ok := ref.(typeRef)
	if !ok || p.resolver == nil {
		return source.ResolvedType{}, false
	}
	return p.resolver.resolve(r)
}

func (p *Provider) decl(d source.Declaration) *classDecl {
	cd, ok := p.decls[d]
	if !ok {
		panic(fmt.Sprintf("kotlin: declaration %s was not returned by this provider", d.QualifiedName()))
	}
	return cd
}

func refs(owner *classDecl, texts []string) []source.TypeRef {
	out := make([]source.TypeRef, 0, len(texts))
	for _, t := range texts {
		out = append(out, typeRef{text: t, owner: owner})
	}
	return out
}
