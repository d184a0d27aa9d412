// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package assess applies the perioperative rule sets to a PatientRecord:
// the comorbidity score, the ASA physical status and the risk
// recommendation. Every function here is total.
package assess

import (
	"fmt"

	"github.com/pdiddy/preop-engine/pkg/types"
)

// finding is what a single scoring rule contributes.
type finding struct {
	points         int
	comorbidity    string
	considerations []string
}

// diseaseRule is one branch of the mutually exclusive disease tier.
type diseaseRule struct {
	name  string
	when  func(types.PatientRecord) bool
	finds finding
}

func hasDisease(d types.SystemicDisease) func(types.PatientRecord) bool {
	return func(r types.PatientRecord) bool { return r.SystemicDisease == d }
}

// diseaseRules is evaluated top to bottom; only the first match scores.
var diseaseRules = []diseaseRule{
	{
		name: "brain_dead",
		when: func(r types.PatientRecord) bool { return r.BrainDead },
		finds: finding{
			points:      10,
			comorbidity: "Brain dead - organ procurement case",
		},
	},
	{
		name: "moribund",
		when: func(r types.PatientRecord) bool { return r.Moribund },
		finds: finding{
			points:      9,
			comorbidity: "Moribund - actively dying",
		},
	},
	{
		name: "constant_threat",
		when: hasDisease(types.DiseaseConstantThreat),
		finds: finding{
			points:      6,
			comorbidity: "Life-threatening systemic disease (septic shock, ECMO, respiratory failure, etc.)",
			considerations: []string{
				"Consider ICU admission post-op",
				"Optimize hemodynamics pre-op",
			},
		},
	},
	{
		name: "severe",
		when: hasDisease(types.DiseaseSevere),
		finds: finding{
			points:      4,
			comorbidity: "Severe systemic disease (cirrhosis, heart failure, ESRD, etc.)",
			considerations: []string{
				"Careful fluid management",
				"Consider regional anesthesia if appropriate",
			},
		},
	},
	{
		name: "mild",
		when: hasDisease(types.DiseaseMild),
		finds: finding{
			points:         1,
			comorbidity:    "Mild systemic disease (controlled HTN, DM, asthma, etc.)",
			considerations: []string{"Continue home medications"},
		},
	},
}

// riskThresholds maps the minimum score of each category, highest first.
var riskThresholds = []struct {
	minScore int
	category types.RiskCategory
}{
	{12, types.RiskVeryHigh},
	{8, types.RiskHigh},
	{3, types.RiskModerate},
	{0, types.RiskLow},
}

// ScoreComorbidities accumulates the comorbidity score across the disease,
// age, BMI and emergency categories and buckets it into a risk category.
func ScoreComorbidities(r types.PatientRecord) types.Assessment {
	a := types.Assessment{
		Comorbidities:  []string{},
		Considerations: []string{},
	}

	add := func(f finding) {
		a.Score += f.points
		if f.comorbidity != "" {
			a.Comorbidities = append(a.Comorbidities, f.comorbidity)
		}
		a.Considerations = append(a.Considerations, f.considerations...)
	}

	for _, rule := range diseaseRules {
		if rule.when(r) {
			add(rule.finds)
			break
		}
	}

	if f, ok := ageFinding(r.Age); ok {
		add(f)
	}
	if bmi, ok := r.BMI(); ok {
		if f, ok := bmiFinding(bmi); ok {
			add(f)
		}
	}
	if r.Emergency {
		add(finding{
			points:      1,
			comorbidity: "Emergency procedure",
			considerations: []string{
				"Limited preop optimization time",
				"NPO status may not be met",
			},
		})
	}

	a.RiskCategory = RiskCategoryFor(a.Score)
	// Brain death is terminal regardless of the remaining categories.
	if r.BrainDead {
		a.RiskCategory = types.RiskVeryHigh
	}
	return a
}

// RiskCategoryFor buckets a score using the fixed cut points.
func RiskCategoryFor(score int) types.RiskCategory {
	for _, t := range riskThresholds {
		if score >= t.minScore {
			return t.category
		}
	}
	return types.RiskLow
}

func ageFinding(age *int) (finding, bool) {
	switch {
	case age == nil:
		return finding{}, false
	case *age >= 80:
		return finding{
			points:         2,
			comorbidity:    "Age ≥80 years",
			considerations: []string{"Increased risk of delirium and cognitive decline"},
		}, true
	case *age >= 70:
		return finding{points: 1, comorbidity: "Age 70-79"}, true
	}
	return finding{}, false
}

func bmiFinding(bmi float64) (finding, bool) {
	switch {
	case bmi >= 35:
		return finding{
			points:      2,
			comorbidity: fmt.Sprintf("Obesity (BMI %.1f)", bmi),
			considerations: []string{
				"Increased aspiration risk - modified rapid sequence",
				"Difficult airway assessment essential",
			},
		}, true
	case bmi >= 30:
		return finding{points: 1, comorbidity: fmt.Sprintf("Overweight (BMI %.1f)", bmi)}, true
	}
	return finding{}, false
}
