package catalog

import (
	"testing"

	"github.com/reglet-dev/reglet-modhost/domain/entities"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fill(v float64) entities.GeneratorFunc {
	return func(table []float64) int {
		for i := range table {
			table[i] = v
		}
		return 0
	}
}

func perform(args []float64) int { return len(args) }

func TestGenerators_Empty(t *testing.T) {
	g := NewGenerators()
	assert.Empty(t, g.Names())
	assert.Equal(t, 0, g.Len())
	assert.False(t, g.Has("x"))
}

func TestGenerators_RegisterSorted(t *testing.T) {
	g := NewGenerators()
	require.NoError(t, g.Register("normal", fill(1)))
	require.NoError(t, g.Register("beta", fill(2)))
	require.NoError(t, g.Register("uniform", fill(3)))

	assert.Equal(t, []string{"beta", "normal", "uniform"}, g.Names())
	assert.Equal(t, 3, g.Len())

	r, ok := g.Lookup("beta")
	require.True(t, ok)
	table := make([]float64, 2)
	assert.Equal(t, 0, r(table))
	assert.Equal(t, []float64{2, 2}, table)
}

func TestGenerators_ReplaceByDefault(t *testing.T) {
	g := NewGenerators()
	require.NoError(t, g.Register("x", fill(1)))
	require.NoError(t, g.Register("x", fill(9)))

	assert.Equal(t, []string{"x"}, g.Names())
	r, _ := g.Lookup("x")
	table := make([]float64, 1)
	r(table)
	assert.Equal(t, 9.0, table[0])
}

func TestGenerators_StrictMode(t *testing.T) {
	g := NewGenerators(WithStrictMode(true))
	require.NoError(t, g.Register("x", fill(1)))

	err := g.Register("x", fill(2))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate generator name")
}

func TestGenerators_Invalid(t *testing.T) {
	g := NewGenerators()
	assert.ErrorContains(t, g.Register("", fill(1)), "cannot be empty")
	assert.ErrorContains(t, g.Register("x", nil), "has no routine")
	assert.Equal(t, 0, g.Len())
}

func TestOperations_Append(t *testing.T) {
	o := NewOperations()
	require.NoError(t, o.Append([]entities.OperationEntry{
		{Name: "add", Inputs: "dd", Outputs: "d", Perform: perform},
		{Name: "neg", Inputs: "d", Outputs: "d", Perform: perform},
	}))
	require.NoError(t, o.Append([]entities.OperationEntry{{Name: "add", Flags: 1, Perform: perform}}))

	assert.Equal(t, 3, o.Len())
	names := make([]string, 0, o.Len())
	for _, e := range o.Entries() {
		names = append(names, e.Name)
	}
	assert.Equal(t, []string{"add", "neg", "add"}, names)

	op, ok := o.Lookup("add")
	require.True(t, ok)
	assert.Equal(t, uint32(1), op.Flags)

	_, ok = o.Lookup("missing")
	assert.False(t, ok)
}

func TestOperations_AppendIsAllOrNothing(t *testing.T) {
	o := NewOperations()
	err := o.Append([]entities.OperationEntry{
		{Name: "ok", Perform: perform},
		{Name: "", Perform: perform},
	})
	require.Error(t, err)
	assert.Equal(t, 0, o.Len())

	err = o.Append([]entities.OperationEntry{{Name: "noop"}})
	assert.ErrorContains(t, err, "no perform routine")
	assert.Equal(t, 0, o.Len())
}

func TestOperations_Limit(t *testing.T) {
	o := NewOperations(WithLimit(2))
	require.NoError(t, o.Append([]entities.OperationEntry{{Name: "a", Perform: perform}}))
	err := o.Append([]entities.OperationEntry{{Name: "b", Perform: perform}, {Name: "c", Perform: perform}})
	assert.ErrorContains(t, err, "operation table full")
	assert.Equal(t, 1, o.Len())
}
