// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// RiskCategory is the qualitative bucket for a comorbidity score.
type RiskCategory string

const (
	RiskLow      RiskCategory = "low"
	RiskModerate RiskCategory = "moderate"
	RiskHigh     RiskCategory = "high"
	RiskVeryHigh RiskCategory = "very_high"
)

// RiskCategories lists every category from lowest to highest.
var RiskCategories = []RiskCategory{RiskLow, RiskModerate, RiskHigh, RiskVeryHigh}

// Assessment is the output of the comorbidity scorer.
type Assessment struct {
	Score        int          `json:"score" yaml:"score"`
	RiskCategory RiskCategory `json:"risk_category" yaml:"risk_category"`

	// Comorbidities and Considerations keep the order in which the scoring
	// rules fired.
	Comorbidities  []string `json:"comorbidities" yaml:"comorbidities"`
	Considerations []string `json:"considerations" yaml:"considerations"`
}
