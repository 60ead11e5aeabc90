package structargs

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAsMapLoadMapRoundTrip(t *testing.T) {
	type cmd struct {
		Name     string `arg:"required"`
		Stars    int    `arg:"required"`
		Language string
		Tags     []string
	}
	c := cmd{Language: "Python"}
	p, err := New(&c)
	require.NoError(t, err)
	require.NoError(t, p.Parse([]string{"--name", "Jesse", "--stars", "5", "--tags", "x", "y"}))
	m := p.AsMap()
	assert.EqualValues(t, map[string]interface{}{
		"name":     "Jesse",
		"stars":    5,
		"language": "Python",
		"tags":     []string{"x", "y"},
	}, m)

	var c2 cmd
	p2, err := New(&c2)
	require.NoError(t, err)
	require.NoError(t, p2.LoadMap(m))
	assert.EqualValues(t, c, c2)
	assert.EqualValues(t, m, p2.AsMap())
}

func TestAsMapCopiesContainers(t *testing.T) {
	type cmd struct {
		Tags []string
	}
	c := cmd{}
	p, err := New(&c)
	require.NoError(t, err)
	require.NoError(t, p.Parse([]string{"--tags", "a"}))
	m := p.AsMap()
	m["tags"].([]string)[0] = "mutated"
	assert.EqualValues(t, []string{"a"}, c.Tags)
}

func TestAsMapCopiesPointers(t *testing.T) {
	type cmd struct {
		Opt *int
	}
	c := cmd{}
	p, err := New(&c)
	require.NoError(t, err)
	require.NoError(t, p.Parse([]string{"--opt", "5"}))
	m := p.AsMap()
	*m["opt"].(*int) = 9
	assert.EqualValues(t, 5, *c.Opt)
}

func TestLoadMapCopiesContainers(t *testing.T) {
	type cmd struct {
		Tags []string
	}
	shared := []string{"a", "b"}
	var c cmd
	p, err := New(&c)
	require.NoError(t, err)
	require.NoError(t, p.LoadMap(map[string]interface{}{"tags": shared}))
	shared[0] = "mutated"
	assert.EqualValues(t, []string{"a", "b"}, c.Tags)
}

func TestLoadMapUnknownKey(t *testing.T) {
	var c struct {
		A string
	}
	p, err := New(&c)
	require.NoError(t, err)
	assert.EqualValues(t,
		logicError{`no settable field "nope"`},
		p.LoadMap(map[string]interface{}{"nope": 1}))
}

func TestLoadMapThenParseRejected(t *testing.T) {
	var c struct {
		A string
	}
	p, err := New(&c)
	require.NoError(t, err)
	require.NoError(t, p.LoadMap(map[string]interface{}{"a": "x"}))
	assert.EqualValues(t,
		logicError{"already parsed: parse may only be called once"},
		p.Parse([]string{"-a", "y"}))
}

func TestLoadMapConverts(t *testing.T) {
	var c struct {
		Stars int64
	}
	p, err := New(&c)
	require.NoError(t, err)
	require.NoError(t, p.LoadMap(map[string]interface{}{"stars": 5}))
	assert.EqualValues(t, 5, c.Stars)
}
