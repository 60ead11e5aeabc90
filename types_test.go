package structargs

import (
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseBoolToken(t *testing.T) {
	for _, s := range []string{"true", "TRUE", "t", "tr", "True", "1"} {
		b, err := parseBoolToken(s)
		require.NoError(t, err, s)
		assert.True(t, b, s)
	}
	for _, s := range []string{"false", "f", "FA", "False", "0"} {
		b, err := parseBoolToken(s)
		require.NoError(t, err, s)
		assert.False(t, b, s)
	}
	for _, s := range []string{"", "yes", "no", "2", "truely", "falsehood"} {
		_, err := parseBoolToken(s)
		assert.Error(t, err, s)
	}
}

func mustResolve(t *testing.T, typ reflect.Type) *typeDesc {
	d, err := resolveType(typ, "x", "")
	require.NoError(t, err)
	return d
}

func TestResolveArities(t *testing.T) {
	assert.EqualValues(t, arity{1, 1}, mustResolve(t, reflect.TypeOf("")).arity)
	assert.EqualValues(t, arity{1, 1}, mustResolve(t, reflect.TypeOf(0)).arity)
	assert.EqualValues(t, arity{0, infArity}, mustResolve(t, reflect.TypeOf([]int(nil))).arity)
	assert.EqualValues(t, arity{0, infArity}, mustResolve(t, reflect.TypeOf(map[string]struct{}(nil))).arity)
	assert.EqualValues(t, arity{3, 3}, mustResolve(t, reflect.TypeOf([3]float64{})).arity)
}

func TestResolveContainers(t *testing.T) {
	assert.EqualValues(t, kindSlice, mustResolve(t, reflect.TypeOf([]int(nil))).container)
	assert.EqualValues(t, kindSet, mustResolve(t, reflect.TypeOf(map[int]struct{}(nil))).container)
	assert.EqualValues(t, kindTuple, mustResolve(t, reflect.TypeOf([2]string{})).container)
	assert.EqualValues(t, kindScalar, mustResolve(t, reflect.TypeOf(0.0)).container)
}

func TestResolveOptionalUnwrapsOneLevel(t *testing.T) {
	d := mustResolve(t, reflect.TypeOf((*[]int)(nil)))
	assert.True(t, d.optional)
	assert.EqualValues(t, kindSlice, d.container)
	assert.EqualValues(t, arity{0, infArity}, d.arity)

	_, err := resolveType(reflect.TypeOf((**int)(nil)), "x", "")
	assert.IsType(t, configError{}, err)
}

func TestResolveEmptyTuple(t *testing.T) {
	_, err := resolveType(reflect.TypeOf([0]int{}), "pair", "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "empty fixed-size tuple")
	assert.Contains(t, err.Error(), `"pair"`)
}

func TestResolveBadMap(t *testing.T) {
	_, err := resolveType(reflect.TypeOf(map[string]int(nil)), "x", "")
	assert.IsType(t, configError{}, err)
}

func TestChoicesValidation(t *testing.T) {
	_, err := parseChoices("X,Y,X", "arg", reflect.TypeOf(""))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate choice")

	_, err = parseChoices("a,b", "arg", reflect.TypeOf(struct{}{}))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "primitive")

	choices, err := parseChoices("1, 2, 3", "arg", reflect.TypeOf(0))
	require.NoError(t, err)
	assert.EqualValues(t, []string{"1", "2", "3"}, choices)
}

func TestChoicesOnListElements(t *testing.T) {
	type cmd struct {
		Arg []string `choices:"X,Y"`
	}
	var c cmd
	require.NoError(t, ParseErr(&c, []string{"--arg", "X", "Y"}))
	assert.EqualValues(t, []string{"X", "Y"}, c.Arg)
	assert.Error(t, ParseErr(&cmd{}, []string{"--arg", "Z"}))
}

func TestShortTypeName(t *testing.T) {
	assert.EqualValues(t, "[]int", shortTypeName(reflect.TypeOf([]int(nil))))
	assert.EqualValues(t, "Bytes", shortTypeName(reflect.TypeOf(Bytes(0))))
	assert.EqualValues(t, "[]Bytes", shortTypeName(reflect.TypeOf([]Bytes(nil))))
}
