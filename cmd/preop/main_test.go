// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"bytes"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/preop-engine/internal/calc"
	"github.com/pdiddy/preop-engine/internal/report"
	"github.com/pdiddy/preop-engine/pkg/types"
)

// execute runs the root command with args and returns what it wrote to stdout.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	resetFlags(rootCmd)
	t.Cleanup(viper.Reset)
	var buf bytes.Buffer
	rootCmd.SetOut(&buf)
	rootCmd.SetErr(io.Discard)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return buf.String(), err
}

// resetFlags clears values left on the package-level commands by earlier runs.
func resetFlags(cmd *cobra.Command) {
	cmd.Flags().VisitAll(func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	})
	for _, sub := range cmd.Commands() {
		resetFlags(sub)
	}
}

func TestVersionCommand(t *testing.T) {
	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.Equal(t, "preop dev\n", out)
}

func TestASACommand(t *testing.T) {
	out, err := execute(t, "asa", "--emergency", "healthy", "adult", "for", "hernia", "repair")
	require.NoError(t, err)
	assert.Equal(t, "ASA IE\n", out)
}

func TestAssessCommandJSON(t *testing.T) {
	out, err := execute(t, "assess",
		"--format", "json",
		"--procedure", "Open AAA repair",
		"--sex", "male",
		"--hct", "42",
		`78 year old male, 190 lbs, 5'10", septic shock, on vasopressors, ESRD`,
	)
	require.NoError(t, err)

	var r report.Report
	require.NoError(t, json.Unmarshal([]byte(out), &r))
	assert.Equal(t, "ASA IV", r.ASA)
	assert.Equal(t, 7, r.Assessment.Score)
	assert.Equal(t, types.RiskModerate, r.Assessment.RiskCategory)
	require.NotNil(t, r.Calculations)
	require.NotNil(t, r.Calculations.MaxBloodLossHctML)
	assert.InDelta(t, 2770.1, *r.Calculations.MaxBloodLossHctML, 1e-9)
}

func TestAssessCommandCaseFile(t *testing.T) {
	dir := t.TempDir()
	casePath := filepath.Join(dir, "case.yaml")
	savePath := filepath.Join(dir, "saved.yaml")
	content := "procedure: Cholecystectomy\n" +
		"text: 65 year old female, 70 kg, 162 cm tall, history of well-controlled diabetes\n" +
		"sex: female\n"
	require.NoError(t, os.WriteFile(casePath, []byte(content), 0o644))

	out, err := execute(t, "assess", "--format", "text", "--case", casePath, "--save", savePath)
	require.NoError(t, err)
	assert.Contains(t, out, "ASA II")
	assert.Contains(t, out, "1 (low)")

	saved, err := report.ReadCase(savePath)
	require.NoError(t, err)
	assert.Equal(t, "Cholecystectomy", saved.Procedure)
}

func TestAssessCommandRejectsInvalidSex(t *testing.T) {
	_, err := execute(t, "assess", "--sex", "robot", "--text", "40 yo")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid sex")
}

func TestCalcEBVCommand(t *testing.T) {
	out, err := execute(t, "calc", "ebv", "--weight", "70", "--sex", "male", "--age-group", "adult")
	require.NoError(t, err)
	assert.Equal(t, "EBV: 5250 mL\n", out)
}

func TestCalcIBWCommandRejectsInvalidSex(t *testing.T) {
	_, err := execute(t, "calc", "ibw", "--sex", "x", "--height-in", "70")
	require.ErrorIs(t, err, calc.ErrInvalidSex)
}

func TestCalcMABLCommand(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{"hct default threshold", []string{"--hct", "42"}, "MABL (hct): 2250.0 mL\n"},
		{"hct explicit threshold", []string{"--hct", "42", "--lowest", "21"}, "MABL (hct): 2625.0 mL\n"},
		{"hgb default threshold", []string{"--hgb", "16"}, "MABL (hgb): 2625.0 mL\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			args := append([]string{"calc", "mabl", "--weight", "70", "--sex", "male"}, tt.args...)
			out, err := execute(t, args...)
			require.NoError(t, err)
			assert.Equal(t, tt.want, out)
		})
	}
}

func TestCalcMABLCommandRequiresLabValue(t *testing.T) {
	_, err := execute(t, "calc", "mabl", "--weight", "70", "--sex", "male")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--hct or --hgb required")
}

func TestConfigFileOverridesThresholds(t *testing.T) {
	path := filepath.Join(t.TempDir(), "preop.yaml")
	content := "format: json\n" +
		"blood_loss:\n" +
		"  lowest_hct: 30\n" +
		"  lowest_hgb: 7\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	out, err := execute(t, "--config", path, "calc", "mabl", "--weight", "70", "--sex", "male", "--hct", "42")
	require.NoError(t, err)
	assert.Equal(t, "MABL (hct): 1500.0 mL\n", out)

	out, err = execute(t, "--config", path, "calc", "mabl", "--weight", "70", "--sex", "male", "--hgb", "14")
	require.NoError(t, err)
	assert.Equal(t, "MABL (hgb): 2625.0 mL\n", out)

	out, err = execute(t, "--config", path, "assess", "--sex", "female", "--hgb", "14",
		"65 year old female, 70 kg, 162 cm tall")
	require.NoError(t, err)
	var r report.Report
	require.NoError(t, json.Unmarshal([]byte(out), &r))
	require.NotNil(t, r.Calculations)
	require.NotNil(t, r.Calculations.MaxBloodLossHgbML)
	assert.InDelta(t, 2275.0, *r.Calculations.MaxBloodLossHgbML, 1e-9)
}
