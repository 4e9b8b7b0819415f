package cli

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := New()
	out := &bytes.Buffer{}
	cmd.SetOut(out)
	cmd.SetErr(out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestEvalArithmetic(t *testing.T) {
	out, err := run(t, "eval", "1 + 2")
	require.NoError(t, err)
	assert.Contains(t, out, "3")
}

func TestEvalWithVar(t *testing.T) {
	out, err := run(t, "eval", "--var", "x=2", "x + 1")
	require.NoError(t, err)
	assert.Contains(t, out, "3")
}

func TestCheckReportsUndeclaredVariable(t *testing.T) {
	_, err := run(t, "check", "y + 1")
	assert.Error(t, err)
}

func TestCheckOK(t *testing.T) {
	out, err := run(t, "check", "--var", "x=1", "x + 1")
	require.NoError(t, err)
	assert.Contains(t, out, "OK")
}

func TestParseVarFlagsDistinguishesIntFromFloat(t *testing.T) {
	vars, err := parseVarFlags([]string{"n=3", "f=3.5"})
	require.NoError(t, err)
	assert.Equal(t, int64(3), vars["n"])
	assert.Equal(t, 3.5, vars["f"])
}
