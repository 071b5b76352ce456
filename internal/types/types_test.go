package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/funvibe/sigbind/internal/diagnostics"
)

func TestBuiltinConstraints(t *testing.T) {
	reg := DefaultRegistry()

	testCases := []struct {
		constraint string
		value      interface{}
		ok         bool
	}{
		{"Int", 42, true},
		{"Int", int64(42), true},
		{"Int", "42", false},
		{"Int", 4.2, false},
		{"Str", "hello", true},
		{"Str", 42, false},
		{"Num", 4.2, true},
		{"Num", 42, true},
		{"Num", "4.2", false},
		{"Bool", true, true},
		{"Bool", 1, false},
		{"Any", nil, true},
		{"Any", struct{}{}, true},
		{"ArrayRef", []interface{}{1, 2}, true},
		{"ArrayRef", "nope", false},
		{"HashRef", map[string]interface{}{"k": 1}, true},
		{"HashRef", []interface{}{}, false},
	}

	for _, tc := range testCases {
		c, ok := reg.Lookup(tc.constraint)
		require.True(t, ok, "constraint %s not registered", tc.constraint)
		err := c.Check(tc.value)
		if tc.ok {
			assert.NoError(t, err, "%s should accept %v", tc.constraint, tc.value)
		} else {
			assert.Error(t, err, "%s should reject %v", tc.constraint, tc.value)
			assert.True(t, diagnostics.Is(err, diagnostics.ErrConstraintViolation))
		}
	}
}

func TestIntCoercion(t *testing.T) {
	reg := DefaultRegistry()
	c, _ := reg.Lookup("Int")
	require.True(t, c.HasCoercion())

	v, err := c.Coerce("42")
	require.NoError(t, err)
	assert.Equal(t, int64(42), v)

	v, err = c.Coerce(4.9)
	require.NoError(t, err)
	assert.Equal(t, int64(4), v)

	_, err = c.Coerce("not a number")
	require.Error(t, err)
	assert.True(t, diagnostics.Is(err, diagnostics.ErrCoercionFailed))
}

func TestNoCoercionPath(t *testing.T) {
	reg := DefaultRegistry()
	c, _ := reg.Lookup("Str")
	assert.False(t, c.HasCoercion())
	_, err := c.Coerce(42)
	require.Error(t, err)
	assert.True(t, diagnostics.Is(err, diagnostics.ErrCoercionFailed))
}

func TestParameterizedLookup(t *testing.T) {
	reg := DefaultRegistry()

	c, ok := reg.Lookup("ArrayRef[Int]")
	require.True(t, ok)
	assert.Equal(t, "ArrayRef[Int]", c.Name())

	assert.NoError(t, c.Check([]interface{}{1, 2, 3}))
	assert.Error(t, c.Check([]interface{}{1, "two"}))
	assert.Error(t, c.Check("not a list"))

	// Nested parameterization composes recursively.
	nested, ok := reg.Lookup("ArrayRef[ArrayRef[Int]]")
	require.True(t, ok)
	assert.NoError(t, nested.Check([]interface{}{[]interface{}{1}, []interface{}{2, 3}}))
	assert.Error(t, nested.Check([]interface{}{[]interface{}{"x"}}))

	_, ok = reg.Lookup("Bogus[Int]")
	assert.False(t, ok)
	_, ok = reg.Lookup("ArrayRef[Bogus]")
	assert.False(t, ok)
}

func TestIsAggregate(t *testing.T) {
	assert.True(t, IsAggregate("ArrayRef"))
	assert.True(t, IsAggregate("ArrayRef[Int]"))
	assert.True(t, IsAggregate("HashRef"))
	assert.False(t, IsAggregate("Int"))
	assert.False(t, IsAggregate(""))
}

func TestLoadYAML(t *testing.T) {
	reg := DefaultRegistry()
	err := reg.LoadYAML([]byte(`
constraints:
  - name: Size
    base: Str
    one_of: [small, medium, large]
  - name: Port
    base: Int
`))
	require.NoError(t, err)

	size, ok := reg.Lookup("Size")
	require.True(t, ok)
	assert.NoError(t, size.Check("medium"))
	assert.Error(t, size.Check("gigantic"))
	assert.Error(t, size.Check(42))

	port, ok := reg.Lookup("Port")
	require.True(t, ok)
	assert.True(t, port.HasCoercion(), "derived constraints inherit the base coercion path")
	v, err := port.Coerce("8080")
	require.NoError(t, err)
	assert.NoError(t, port.Check(v))
}

func TestLoadYAMLIntSetComparesLooselyOnWidth(t *testing.T) {
	reg := DefaultRegistry()
	err := reg.LoadYAML([]byte(`
constraints:
  - name: Level
    base: Int
    one_of: [1, 2, 3]
`))
	require.NoError(t, err)

	level, _ := reg.Lookup("Level")
	assert.NoError(t, level.Check(int64(2)), "yaml ints must match bound int64 values")
	assert.Error(t, level.Check(int64(9)))
}

func TestLoadYAMLErrors(t *testing.T) {
	reg := DefaultRegistry()
	assert.Error(t, reg.LoadYAML([]byte(`constraints: [{name: X, base: Nope}]`)))
	assert.Error(t, reg.LoadYAML([]byte(`constraints: [{base: Int}]`)))
	assert.Error(t, reg.LoadYAML([]byte(`{{not yaml`)))
}
