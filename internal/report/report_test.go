// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package report

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/preop-engine/internal/calc"
	"github.com/pdiddy/preop-engine/pkg/types"
)

var defaultBloodLoss = types.BloodLossConfig{LowestHct: 24, LowestHgb: 8}

func septicCase() types.CaseInput {
	hct := 42.0
	return types.CaseInput{
		Procedure:  "Open AAA repair",
		Text:       `78 year old male, 190 lbs, 5'10", septic shock, on vasopressors, ESRD`,
		Sex:        types.SexMale,
		Emergency:  true,
		InitialHct: &hct,
	}
}

// --- Build ---

func TestBuild(t *testing.T) {
	r, err := Build(septicCase(), defaultBloodLoss)
	require.NoError(t, err)

	assert.Equal(t, "Open AAA repair", r.Procedure)
	assert.Equal(t, "ASA IVE", r.ASA)
	assert.Equal(t, 8, r.Assessment.Score)
	assert.Equal(t, types.RiskHigh, r.Assessment.RiskCategory)
	assert.Contains(t, r.Recommendation, "High perioperative risk")

	c := r.Calculations
	require.NotNil(t, c)
	assert.Equal(t, types.AgeGroupAdult, c.AgeGroup)
	require.NotNil(t, c.IdealBodyWeightKg)
	assert.InDelta(t, 73.0, *c.IdealBodyWeightKg, 1e-9)
	require.NotNil(t, c.AdjustedBodyWeightKg)
	assert.InDelta(t, 78.27, *c.AdjustedBodyWeightKg, 1e-9)
	require.NotNil(t, c.EstimatedBloodVolumeML)
	assert.InDelta(t, 6463.5, *c.EstimatedBloodVolumeML, 1e-6)
	require.NotNil(t, c.MaxBloodLossHctML)
	assert.InDelta(t, 2770.1, *c.MaxBloodLossHctML, 1e-9)
	assert.Nil(t, c.MaxBloodLossHgbML)
}

func TestBuildWithoutSexSkipsCalculations(t *testing.T) {
	c := septicCase()
	c.Sex = ""
	r, err := Build(c, defaultBloodLoss)
	require.NoError(t, err)
	assert.Nil(t, r.Calculations)
	assert.Equal(t, "ASA IVE", r.ASA)
}

func TestBuildExplicitAgeGroup(t *testing.T) {
	c := types.CaseInput{Text: "3.5 kg infant", Sex: types.SexFemale, AgeGroup: "Neonate"}
	r, err := Build(c, defaultBloodLoss)
	require.NoError(t, err)
	require.NotNil(t, r.Calculations)
	assert.Equal(t, types.AgeGroupNeonate, r.Calculations.AgeGroup)
	require.NotNil(t, r.Calculations.EstimatedBloodVolumeML)
	assert.InDelta(t, 315.0, *r.Calculations.EstimatedBloodVolumeML, 1e-9)
	assert.Nil(t, r.Calculations.IdealBodyWeightKg)
}

func TestBuildErrors(t *testing.T) {
	t.Run("invalid age group", func(t *testing.T) {
		c := septicCase()
		c.AgeGroup = "teenager"
		_, err := Build(c, defaultBloodLoss)
		require.ErrorIs(t, err, calc.ErrInvalidAgeGroup)
	})

	t.Run("non-positive hemoglobin", func(t *testing.T) {
		c := septicCase()
		zero := 0.0
		c.InitialHgb = &zero
		_, err := Build(c, defaultBloodLoss)
		require.ErrorIs(t, err, calc.ErrInvalidLabValue)
	})
}

// --- Write ---

func TestWriteYAML(t *testing.T) {
	r, err := Build(septicCase(), defaultBloodLoss)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, r, types.FormatYAML))

	var decoded map[string]any
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, "ASA IVE", decoded["asa"])
	patient, ok := decoded["patient"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "constant_threat", patient["systemic_disease"])
}

func TestWriteJSON(t *testing.T) {
	r, err := Build(septicCase(), defaultBloodLoss)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, r, types.FormatJSON))

	var decoded Report
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, r.ASA, decoded.ASA)
	assert.Equal(t, r.Assessment, decoded.Assessment)
}

func TestWriteText(t *testing.T) {
	r, err := Build(septicCase(), defaultBloodLoss)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, r, types.FormatText))
	out := buf.String()

	assert.Contains(t, out, "ASA IVE")
	assert.Contains(t, out, "8 (high)")
	assert.Contains(t, out, "177.80 cm (70.00 in)")
	assert.Contains(t, out, "* Emergency procedure")
	assert.Contains(t, out, "> NPO status may not be met")
	assert.Contains(t, out, "2770.1")
}

func TestWriteUnsupportedFormat(t *testing.T) {
	err := Write(&bytes.Buffer{}, &Report{}, "xml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported format")
}

// --- case files ---

func TestReadCase(t *testing.T) {
	dir := t.TempDir()

	t.Run("valid", func(t *testing.T) {
		path := filepath.Join(dir, "valid.yaml")
		content := "procedure: Cholecystectomy\n" +
			"text: 65 year old female, 70 kg, 162 cm tall\n" +
			"sex: female\n" +
			"emergency: true\n" +
			"initial_hgb: 12.5\n"
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

		c, err := ReadCase(path)
		require.NoError(t, err)
		assert.Equal(t, "Cholecystectomy", c.Procedure)
		assert.Equal(t, types.SexFemale, c.Sex)
		assert.True(t, c.Emergency)
		require.NotNil(t, c.InitialHgb)
		assert.InDelta(t, 12.5, *c.InitialHgb, 1e-9)
		assert.Nil(t, c.InitialHct)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := ReadCase(filepath.Join(dir, "nope.yaml"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "reading case file")
	})

	t.Run("empty case", func(t *testing.T) {
		path := filepath.Join(dir, "empty.yaml")
		require.NoError(t, os.WriteFile(path, []byte("sex: male\n"), 0o644))
		_, err := ReadCase(path)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "procedure or text required")
	})

	t.Run("malformed yaml", func(t *testing.T) {
		path := filepath.Join(dir, "bad.yaml")
		require.NoError(t, os.WriteFile(path, []byte("text: [unclosed\n"), 0o644))
		_, err := ReadCase(path)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "parsing case file")
	})
}

func TestWriteCaseCanBeReread(t *testing.T) {
	path := filepath.Join(t.TempDir(), "case.yaml")
	want := septicCase()
	require.NoError(t, WriteCase(path, want))

	got, err := ReadCase(path)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}
