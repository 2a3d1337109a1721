package analyzer

import (
	"fmt"
	"strconv"

	"github.com/google/uuid"

	"github.com/simonhull/firebird-suite/heron/pkg/model"
	"github.com/simonhull/firebird-suite/heron/pkg/source"
)

// IDGenerator assigns element IDs. The key is the declaration's qualified
// name, suffixed with "#n" for the n-th repeat of the same name.
type IDGenerator interface {
	ID(key string) string
}

// IDFunc adapts a function to IDGenerator.
type IDFunc func(key string) string

func (f IDFunc) ID(key string) string { return f(key) }

var idNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("https://github.com/simonhull/firebird-suite/heron"))

// DeterministicIDs derives a name-based UUID (version 5) from the key, so
// the same project yields the same IDs on every run.
func DeterministicIDs() IDGenerator {
	return IDFunc(func(key string) string {
		return uuid.NewSHA1(idNamespace, []byte(key)).String()
	})
}

// RandomIDs assigns a fresh random UUID to every element.
func RandomIDs() IDGenerator {
	return IDFunc(func(string) string {
		return uuid.NewString()
	})
}

// ParseIDScheme maps a config value to a generator.
func ParseIDScheme(name string) (IDGenerator, error) {
	switch name {
	case "deterministic", "":
		return DeterministicIDs(), nil
	case "random":
		return RandomIDs(), nil
	default:
		return nil, fmt.Errorf("unknown id scheme %q", name)
	}
}

// Symbol is a collected declaration together with the element it became.
type Symbol struct {
	Element model.Element
	Decl    source.Declaration
}

// SymbolTable is the frozen output of collection. It is read-only once
// Collect returns and may be shared between goroutines.
type SymbolTable struct {
	symbols     []Symbol
	byQualified map[string]int
	duplicates  []string
}

// Symbols returns the collected symbols in declaration order. The slice
// must not be modified.
func (t *SymbolTable) Symbols() []Symbol {
	return t.symbols
}

// Len returns the number of collected symbols.
func (t *SymbolTable) Len() int {
	return len(t.symbols)
}

// Lookup finds the element declared under a qualified name. When several
// declarations share the name, the first one collected wins.
func (t *SymbolTable) Lookup(qualifiedName string) (model.Element, bool) {
	i, ok := t.byQualified[qualifiedName]
	if !ok {
		return model.Element{}, false
	}
	return t.symbols[i].Element, true
}

// Duplicates lists qualified names declared more than once, in the order
// the repeats were found.
func (t *SymbolTable) Duplicates() []string {
	return t.duplicates
}

// Collect turns public class and interface declarations into elements.
// Non-public declarations and declarations that are neither classes nor
// interfaces are skipped.
func Collect(decls []source.Declaration, ids IDGenerator) (*SymbolTable, error) {
	t := &SymbolTable{
		symbols:     make([]Symbol, 0, len(decls)),
		byQualified: make(map[string]int, len(decls)),
	}
	seen := make(map[string]int, len(decls))

	for _, d := range decls {
		if d.Visibility() != source.Public {
			continue
		}

		var kind model.ElementKind
		switch d.Kind() {
		case source.DeclClass:
			kind = model.ElementClass
		case source.DeclInterface:
			kind = model.ElementInterface
		case source.DeclOther:
			continue
		default:
			return nil, &model.UnknownVariantError{Context: "declaration", Value: d.Kind().String()}
		}

		qn := d.QualifiedName()
		key := qn
		if n := seen[qn]; n > 0 {
			key = qn + "#" + strconv.Itoa(n+1)
			t.duplicates = append(t.duplicates, qn)
		}
		seen[qn]++

		if _, exists := t.byQualified[qn]; !exists {
			t.byQualified[qn] = len(t.symbols)
		}
		t.symbols = append(t.symbols, Symbol{
			Element: model.Element{ID: ids.ID(key), Name: d.Name(), Kind: kind},
			Decl:    d,
		})
	}

	return t, nil
}
