package analyzer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/simonhull/firebird-suite/heron/pkg/source"
)

type textRef string

func (r textRef) String() string { return string(r) }

func TestResolver_Canonical(t *testing.T) {
	p := source.NewStatic()
	p.Unresolvable["lambda"] = true
	r := NewResolver(p, &SymbolTable{byQualified: map[string]int{}}, nil)

	tests := []struct {
		ref    string
		want   string
		wantOK bool
	}{
		{"app.Engine", "app.Engine", true},
		{"kotlin.collections.List<app.Wheel>", "app.Wheel", true},
		{"app.Box<kotlin.collections.List<app.Wheel>>", "kotlin.collections.List<app.Wheel>", true},
		{"kotlin.collections.Map<app.K, app.V>", "", false},
		{"lambda", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.ref, func(t *testing.T) {
			got, ok := r.Canonical(textRef(tt.ref))
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCollect(t *testing.T) {
	decls := []source.Declaration{
		&source.StaticDecl{Qualified: "a.Zebra", DeclKind: source.DeclClass},
		&source.StaticDecl{Qualified: "a.Secret", DeclKind: source.DeclClass, Private: true},
		&source.StaticDecl{Qualified: "a.Runner", DeclKind: source.DeclInterface},
		&source.StaticDecl{Qualified: "a.Zebra", DeclKind: source.DeclInterface},
		&source.StaticDecl{Qualified: "a.Func", DeclKind: source.DeclOther},
	}

	table, err := Collect(decls, DeterministicIDs())
	require.NoError(t, err)
	require.Equal(t, 3, table.Len())

	zebra, ok := table.Lookup("a.Zebra")
	require.True(t, ok)
	assert.Equal(t, "Zebra", zebra.Name)
	assert.Equal(t, table.Symbols()[0].Element, zebra, "first declaration wins")
	assert.NotEqual(t, table.Symbols()[0].Element.ID, table.Symbols()[2].Element.ID)
	assert.Equal(t, []string{"a.Zebra"}, table.Duplicates())

	_, ok = table.Lookup("a.Secret")
	assert.False(t, ok)
	_, ok = table.Lookup("a.Func")
	assert.False(t, ok)
}

func TestDeterministicIDs(t *testing.T) {
	ids := DeterministicIDs()
	assert.Equal(t, ids.ID("zoo.Dog"), ids.ID("zoo.Dog"))
	assert.NotEqual(t, ids.ID("zoo.Dog"), ids.ID("zoo.Cat"))
	assert.Len(t, ids.ID("zoo.Dog"), 36)
}

func TestParseIDScheme(t *testing.T) {
	for _, name := range []string{"", "deterministic", "random"} {
		ids, err := ParseIDScheme(name)
		require.NoError(t, err, name)
		assert.NotEmpty(t, ids.ID("x"))
	}

	_, err := ParseIDScheme("sequential")
	assert.Error(t, err)
}
