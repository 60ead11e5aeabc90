package structargs

import (
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fieldNames(fs []field) (ret []string) {
	for _, f := range fs {
		ret = append(ret, f.name)
	}
	return
}

type baseOpts struct {
	Verbose bool
	DataDir string
}

type derivedOpts struct {
	Torrent string
	baseOpts
	DataDir string // shadows the embedded declaration
}

func TestCollectEmbedded(t *testing.T) {
	var c derivedOpts
	fs, err := collectFields(reflect.ValueOf(&c).Elem(), fieldFlagName)
	require.NoError(t, err)
	// Outer declarations first, embedded after, shadowed name only once.
	assert.EqualValues(t, []string{"torrent", "data_dir", "verbose"}, fieldNames(fs))
}

func TestUnexportedEmbeddedType(t *testing.T) {
	// baseOpts is an unexported type; its exported fields still promote.
	var c derivedOpts
	require.NoError(t, ParseErr(&c, []string{"--verbose", "--torrent", "t"}))
	assert.True(t, c.Verbose)
	assert.EqualValues(t, "t", c.Torrent)
}

func TestCollectShadowedDefault(t *testing.T) {
	type base struct {
		Language string
	}
	type derived struct {
		base
		Language string
	}
	c := derived{Language: "Go"}
	c.base.Language = "Python"
	var parsed derived
	parsed = c
	require.NoError(t, ParseErr(&parsed, nil))
	assert.EqualValues(t, "Go", parsed.Language)
}

func TestInheritedFieldParses(t *testing.T) {
	type base struct {
		Level int
	}
	type derived struct {
		base
		Name string
	}
	var c derived
	require.NoError(t, ParseErr(&c, []string{"--level", "3", "--name", "x"}))
	assert.EqualValues(t, 3, c.Level)
	assert.EqualValues(t, "x", c.Name)
}

func TestIgnoredField(t *testing.T) {
	type cmd struct {
		Keep   string
		Hidden string `arg:"-"`
	}
	c := cmd{Hidden: "default"}
	require.NoError(t, ParseErr(&c, []string{"--keep", "x"}))
	assert.EqualValues(t, "default", c.Hidden)
	assert.EqualValues(t,
		userError{msg: `unknown flag: "hidden"`, recoverable: true},
		ParseErr(&cmd{}, []string{"--hidden", "y"}))
}

func TestUnignoreInDerived(t *testing.T) {
	type base struct {
		Secret string `arg:"-"`
	}
	// Redeclaring without the marker restores the flag.
	type derived struct {
		base
		Secret string
	}
	var c derived
	require.NoError(t, ParseErr(&c, []string{"--secret", "x"}))
	assert.EqualValues(t, "x", c.Secret)

	// And the other way around: the outer marker hides the inherited flag.
	type base2 struct {
		Secret string
	}
	type derived2 struct {
		base2
		Secret string `arg:"-"`
	}
	assert.EqualValues(t,
		userError{msg: `unknown flag: "secret"`, recoverable: true},
		ParseErr(&derived2{}, []string{"--secret", "x"}))
}

func TestDuplicateFlagSameLevel(t *testing.T) {
	type cmd struct {
		A string
		B string `name:"a"`
	}
	err := ParseErr(&cmd{}, nil)
	assert.EqualValues(t, configError{`flag "a" defined more than once`}, err)
}

func TestUnexportedFieldsSkipped(t *testing.T) {
	type cmd struct {
		A      string
		hidden int
	}
	var c cmd
	require.NoError(t, ParseErr(&c, []string{"-a", "x"}))
	assert.Zero(t, c.hidden)
}

func TestDiamondEmbeddingVisitedOnce(t *testing.T) {
	type grand struct {
		Root string
	}
	type left struct {
		grand
		L string
	}
	var c struct {
		left
		Own string
	}
	fs, err := collectFields(reflect.ValueOf(&c).Elem(), fieldFlagName)
	require.NoError(t, err)
	assert.EqualValues(t, []string{"own", "l", "root"}, fieldNames(fs))
}
