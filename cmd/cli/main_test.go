package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gostrata/internal/config"
	"gostrata/internal/errors"
)

const sampleCSV = `value,group,outcome
1.0,0,a
1.1,1,a
5.0,0,b
5.2,1,b
1.05,0,a
5.1,1,b
`

func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	for _, key := range []string{config.EnvLogLevel, config.EnvBinMethod, config.EnvPermutations, config.EnvSeed, config.EnvWorkers, config.EnvSheet} {
		t.Setenv(key, "")
	}

	var out, errOut bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(append(args, "--env-file", ""))
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func sampleFile(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "sample.csv")
	require.NoError(t, os.WriteFile(path, []byte(sampleCSV), 0o644))
	return path
}

func TestCLI_IC(t *testing.T) {
	out, err := runCLI(t, "ic", sampleFile(t), "--permutations", "100", "--seed", "7", "--workers", "2")
	require.NoError(t, err)

	var result map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(out), &result))
	assert.Equal(t, "IC", result["kind"])
	assert.Equal(t, "Sturges", result["bin_method"])
	assert.InDelta(t, 0.0081929, result["score"], 1e-6)
	assert.Equal(t, float64(100), result["permutations"])
	assert.Equal(t, float64(7), result["seed"])
	assert.Contains(t, result, "p_value")
}

func TestCLI_IN(t *testing.T) {
	out, err := runCLI(t, "in", sampleFile(t), "--labels", "outcome", "--response", "group", "--permutations", "0")
	require.NoError(t, err)

	var result map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(out), &result))
	assert.Equal(t, "IN", result["kind"])
	assert.NotContains(t, result, "p_value")
	assert.Equal(t, float64(2), result["groups"])
}

func TestCLI_DefaultPermutationsFromConfig(t *testing.T) {
	out, err := runCLI(t, "in", sampleFile(t), "--labels", "outcome", "--response", "group")
	require.NoError(t, err)

	var result map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(out), &result))
	assert.Contains(t, result, "p_value")
	assert.Equal(t, float64(config.DefaultPermutations), result["permutations"])
	assert.Equal(t, float64(config.DefaultSeed), result["seed"])
}

func TestCLI_DensityWithEdges(t *testing.T) {
	out, err := runCLI(t, "density", sampleFile(t), "--edges", "1,3,5.2")
	require.NoError(t, err)

	var result struct {
		Counts []int `json:"counts"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &result))
	assert.Equal(t, []int{3, 3}, result.Counts)
}

func TestCLI_Bins(t *testing.T) {
	out, err := runCLI(t, "bins", sampleFile(t))
	require.NoError(t, err)

	var rows []struct {
		Method string `json:"method"`
		Bins   int    `json:"bins"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &rows))
	require.Len(t, rows, 5)
	for _, r := range rows {
		assert.GreaterOrEqual(t, r.Bins, 1, r.Method)
	}
}

func TestCLI_DescribeAndEntropy(t *testing.T) {
	out, err := runCLI(t, "describe", sampleFile(t))
	require.NoError(t, err)
	assert.Contains(t, out, `"n": 6`)

	out, err = runCLI(t, "entropy", sampleFile(t), "--labels", "outcome")
	require.NoError(t, err)
	assert.Contains(t, out, `"name": "a"`)
}

func TestCLI_Errors(t *testing.T) {
	_, err := runCLI(t, "ic", sampleFile(t), "--method", "Doane")
	require.Error(t, err)
	assert.Equal(t, errors.CodeConfigInvalid, errors.Classify(err))

	_, err = runCLI(t, "density", sampleFile(t), "--edges", "3,1")
	require.Error(t, err)
	assert.Equal(t, errors.CodeInvalidInput, errors.Classify(err))

	_, err = runCLI(t, "ic", filepath.Join(t.TempDir(), "none.csv"))
	require.Error(t, err)
	assert.Equal(t, errors.CodeNotFound, errors.Classify(err))
}
