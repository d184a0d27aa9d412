// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package report runs one patient case through extraction, scoring and the
// perioperative formulas, and renders the result.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/preop-engine/internal/assess"
	"github.com/pdiddy/preop-engine/internal/calc"
	"github.com/pdiddy/preop-engine/internal/parse"
	"github.com/pdiddy/preop-engine/pkg/types"
)

// Report is the full evaluation of one case.
type Report struct {
	Procedure      string              `json:"procedure,omitempty" yaml:"procedure,omitempty"`
	Patient        types.PatientRecord `json:"patient" yaml:"patient"`
	ASA            string              `json:"asa" yaml:"asa"`
	Assessment     types.Assessment    `json:"assessment" yaml:"assessment"`
	Recommendation string              `json:"recommendation" yaml:"recommendation"`
	Calculations   *Calculations       `json:"calculations,omitempty" yaml:"calculations,omitempty"`
}

// Calculations holds the formula results the case had enough inputs for.
type Calculations struct {
	AgeGroup               types.AgeGroup `json:"age_group,omitempty" yaml:"age_group,omitempty"`
	IdealBodyWeightKg      *float64       `json:"ideal_body_weight_kg,omitempty" yaml:"ideal_body_weight_kg,omitempty"`
	AdjustedBodyWeightKg   *float64       `json:"adjusted_body_weight_kg,omitempty" yaml:"adjusted_body_weight_kg,omitempty"`
	EstimatedBloodVolumeML *float64       `json:"estimated_blood_volume_ml,omitempty" yaml:"estimated_blood_volume_ml,omitempty"`
	MaxBloodLossHctML      *float64       `json:"max_blood_loss_hct_ml,omitempty" yaml:"max_blood_loss_hct_ml,omitempty"`
	MaxBloodLossHgbML      *float64       `json:"max_blood_loss_hgb_ml,omitempty" yaml:"max_blood_loss_hgb_ml,omitempty"`
}

func (c *Calculations) empty() bool {
	return c.IdealBodyWeightKg == nil && c.EstimatedBloodVolumeML == nil
}

// Build evaluates a case. Extraction and scoring never fail; an error means
// the case carried an invalid age group or a non-positive lab value.
func Build(c types.CaseInput, cfg types.BloodLossConfig) (*Report, error) {
	rec := parse.ExtractCase(c)
	a := assess.ScoreComorbidities(rec)

	r := &Report{
		Procedure:      c.Procedure,
		Patient:        rec,
		ASA:            assess.ClassifyASA(rec),
		Assessment:     a,
		Recommendation: assess.Recommend(a.RiskCategory),
	}

	calcs, err := calculate(rec, c, cfg)
	if err != nil {
		return nil, err
	}
	if !calcs.empty() {
		r.Calculations = calcs
	}
	return r, nil
}

// calculate runs each formula whose inputs are all present. Sex is required
// by every formula, so an unset sex yields no calculations.
func calculate(rec types.PatientRecord, c types.CaseInput, cfg types.BloodLossConfig) (*Calculations, error) {
	out := &Calculations{}
	if rec.Sex == "" {
		return out, nil
	}

	if rec.Height != nil {
		ibw, err := calc.IdealBodyWeight(rec.Sex, rec.Height.In)
		if err != nil {
			return nil, err
		}
		out.IdealBodyWeightKg = &ibw
		if rec.WeightKg != nil {
			abw := calc.AdjustedBodyWeight(*rec.WeightKg, ibw)
			out.AdjustedBodyWeightKg = &abw
		}
	}

	group, ok, err := ageGroup(rec, c)
	if err != nil {
		return nil, err
	}
	if !ok || rec.WeightKg == nil {
		return out, nil
	}
	out.AgeGroup = group

	ebv, err := calc.EstimatedBloodVolume(*rec.WeightKg, rec.Sex, group)
	if err != nil {
		return nil, err
	}
	out.EstimatedBloodVolumeML = &ebv

	if c.InitialHct != nil {
		v, err := calc.MaxAllowableBloodLossHct(*rec.WeightKg, rec.Sex, group, *c.InitialHct, cfg.LowestHct)
		if err != nil {
			return nil, err
		}
		out.MaxBloodLossHctML = &v
	}
	if c.InitialHgb != nil {
		v, err := calc.MaxAllowableBloodLossHgb(*rec.WeightKg, rec.Sex, group, *c.InitialHgb, cfg.LowestHgb)
		if err != nil {
			return nil, err
		}
		out.MaxBloodLossHgbML = &v
	}
	return out, nil
}

// ageGroup prefers the case's explicit group and falls back to the one
// derived from the extracted age.
func ageGroup(rec types.PatientRecord, c types.CaseInput) (types.AgeGroup, bool, error) {
	if c.AgeGroup == "" {
		g, ok := rec.AgeGroup()
		return g, ok, nil
	}
	g, ok := parse.ParseAgeGroup(string(c.AgeGroup))
	if !ok {
		return "", false, fmt.Errorf("age group %q: %w", c.AgeGroup, calc.ErrInvalidAgeGroup)
	}
	return g, true, nil
}

// Write renders r in the requested format. An empty format means YAML.
func Write(w io.Writer, r *Report, format types.OutputFormat) error {
	switch format {
	case types.FormatYAML, "":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(r); err != nil {
			return fmt.Errorf("encoding yaml report: %w", err)
		}
		return enc.Close()
	case types.FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(r)
	case types.FormatText:
		return writeText(w, r)
	default:
		return fmt.Errorf("unsupported format %q: use yaml, json or text", format)
	}
}

func writeText(w io.Writer, r *Report) error {
	var b strings.Builder
	p := r.Patient

	if r.Procedure != "" {
		fmt.Fprintf(&b, "%-16s %s\n", "Procedure", r.Procedure)
	}
	fmt.Fprintf(&b, "%-16s %s\n", "Age", optional(p.Age, "%d"))
	fmt.Fprintf(&b, "%-16s %s\n", "Weight (kg)", optional(p.WeightKg, "%.2f"))
	if p.Height != nil {
		fmt.Fprintf(&b, "%-16s %.2f cm (%.2f in)\n", "Height", p.Height.CM, p.Height.In)
	} else {
		fmt.Fprintf(&b, "%-16s -\n", "Height")
	}
	fmt.Fprintf(&b, "%-16s %s\n", "Systemic", p.SystemicDisease)
	fmt.Fprintf(&b, "%-16s %s\n", "ASA", r.ASA)
	fmt.Fprintf(&b, "%-16s %d (%s)\n", "Score", r.Assessment.Score, r.Assessment.RiskCategory)
	fmt.Fprintln(&b, strings.Repeat("-", 60))

	for _, c := range r.Assessment.Comorbidities {
		fmt.Fprintf(&b, "  * %s\n", c)
	}
	for _, c := range r.Assessment.Considerations {
		fmt.Fprintf(&b, "  > %s\n", c)
	}
	fmt.Fprintf(&b, "\n%s\n", r.Recommendation)

	if c := r.Calculations; c != nil {
		fmt.Fprintln(&b)
		fmt.Fprintf(&b, "%-16s %s\n", "IBW (kg)", optional(c.IdealBodyWeightKg, "%.2f"))
		fmt.Fprintf(&b, "%-16s %s\n", "ABW (kg)", optional(c.AdjustedBodyWeightKg, "%.2f"))
		fmt.Fprintf(&b, "%-16s %s\n", "EBV (mL)", optional(c.EstimatedBloodVolumeML, "%.0f"))
		fmt.Fprintf(&b, "%-16s %s\n", "MABL hct (mL)", optional(c.MaxBloodLossHctML, "%.1f"))
		fmt.Fprintf(&b, "%-16s %s\n", "MABL hgb (mL)", optional(c.MaxBloodLossHgbML, "%.1f"))
	}

	_, err := io.WriteString(w, b.String())
	return err
}

func optional[T any](v *T, format string) string {
	if v == nil {
		return "-"
	}
	return fmt.Sprintf(format, *v)
}
