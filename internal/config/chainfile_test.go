package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ib-77/ropipe/pkg/rop/chain"
)

func TestParse(t *testing.T) {
	t.Parallel()

	cf, err := Parse([]byte(`
name: shout
initial: 5
steps:
  - inc
  - strconv::itoa
  - '|s: string| s + "!"'
mode: mixed
timeout: 1500ms
workers: 2
`))
	require.NoError(t, err)

	assert.Equal(t, "shout", cf.Name)
	assert.Equal(t, []string{"inc", "strconv::itoa", `|s: string| s + "!"`}, cf.Steps)
	assert.Equal(t, 1500*time.Millisecond, cf.Timeout)
	assert.Equal(t, 2, cf.Workers)
	assert.Equal(t, chain.Mixed, cf.ChainMode())

	v, err := cf.InitialValue()
	require.NoError(t, err)
	assert.Equal(t, 5, v)
}

func TestInitialExprWins(t *testing.T) {
	t.Parallel()

	cf, err := Parse([]byte("initial: 1\ninitial_expr: 2 * 21\nsteps: [inc]\neach: [1, two]\n"))
	require.NoError(t, err)

	v, err := cf.InitialValue()
	require.NoError(t, err)
	assert.Equal(t, 42, v)
	assert.Equal(t, []any{1, "two"}, cf.Each)
}

func TestParseErrors(t *testing.T) {
	t.Parallel()

	tests := map[string]string{
		"no steps":     "initial: 1\n",
		"unknown key":  "steps: [inc]\nstep: inc\n",
		"bad mode":     "steps: [inc]\nmode: loose\n",
		"bad timeout":  "steps: [inc]\ntimeout: soon\n",
		"negative":     "steps: [inc]\nworkers: -1\n",
		"invalid yaml": "steps: [inc\n",
		"wrong type":   "steps: inc\nworkers: many\n",
	}

	for name, src := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			_, err := Parse([]byte(src))
			assert.Error(t, err)
		})
	}

	_, err := Parse([]byte("initial: 1\n"))
	assert.ErrorIs(t, err, ErrNoSteps)
}

func TestLoad(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "chain.yaml")
	require.NoError(t, os.WriteFile(path, []byte("steps: [inc]\ninitial: 1\n"), 0o600))

	cf, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"inc"}, cf.Steps)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}
