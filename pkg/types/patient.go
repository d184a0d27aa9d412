// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// SystemicDisease is the single severity tier assigned to a patient.
// The tiers are mutually exclusive; a record never carries more than one.
type SystemicDisease string

const (
	DiseaseNone           SystemicDisease = "none"
	DiseaseMild           SystemicDisease = "mild"
	DiseaseSevere         SystemicDisease = "severe"
	DiseaseConstantThreat SystemicDisease = "constant_threat"
)

// Sex is the closed set of values accepted by the body-weight and
// blood-volume formulas. The empty value means unset.
type Sex string

const (
	SexMale   Sex = "male"
	SexFemale Sex = "female"
)

// AgeGroup selects a row of the estimated blood volume table.
// The empty value means unset.
type AgeGroup string

const (
	AgeGroupAdult   AgeGroup = "adult"
	AgeGroupChild   AgeGroup = "child"
	AgeGroupNeonate AgeGroup = "neonate"
)

// adultAge is the first age in whole years treated as adult.
const adultAge = 18

// Height carries both units together so one is never set without the other.
type Height struct {
	CM float64 `json:"cm" yaml:"cm"`
	In float64 `json:"in" yaml:"in"`
}

// PatientRecord is the structured view of a free-text patient description.
// Optional fields are nil when the text did not yield a plausible value.
type PatientRecord struct {
	// Age in whole years, set only when 0 < age < 120.
	Age *int `json:"age,omitempty" yaml:"age,omitempty"`

	// WeightKg is always kilograms, set only when 2 < kg < 300.
	WeightKg *float64 `json:"weight_kg,omitempty" yaml:"weight_kg,omitempty"`

	// Height is set only when 80 < cm < 250.
	Height *Height `json:"height,omitempty" yaml:"height,omitempty"`

	// Sex is never extracted from text; callers supply it.
	Sex Sex `json:"sex,omitempty" yaml:"sex,omitempty"`

	SystemicDisease      SystemicDisease `json:"systemic_disease" yaml:"systemic_disease"`
	BrainDead            bool            `json:"brain_dead" yaml:"brain_dead"`
	Moribund             bool            `json:"moribund" yaml:"moribund"`
	Emergency            bool            `json:"emergency" yaml:"emergency"`
	FunctionalLimitation bool            `json:"functional_limitation" yaml:"functional_limitation"`
}

// AgeGroup derives the blood-volume age group from Age. Neonates are never
// inferred from whole-year ages.
func (r PatientRecord) AgeGroup() (AgeGroup, bool) {
	if r.Age == nil {
		return "", false
	}
	if *r.Age < adultAge {
		return AgeGroupChild, true
	}
	return AgeGroupAdult, true
}

// BMI returns weight / height² in kg/m², or false when either is unset.
func (r PatientRecord) BMI() (float64, bool) {
	if r.WeightKg == nil || r.Height == nil || r.Height.CM <= 0 {
		return 0, false
	}
	m := r.Height.CM / 100
	return *r.WeightKg / (m * m), true
}

// CaseInput is one patient case as supplied on the command line or in a
// case file. Everything except the text is optional.
type CaseInput struct {
	Procedure            string   `json:"procedure" yaml:"procedure"`
	Text                 string   `json:"text" yaml:"text"`
	Sex                  Sex      `json:"sex,omitempty" yaml:"sex,omitempty"`
	AgeGroup             AgeGroup `json:"age_group,omitempty" yaml:"age_group,omitempty"`
	Emergency            bool     `json:"emergency,omitempty" yaml:"emergency,omitempty"`
	FunctionalLimitation bool     `json:"functional_limitation,omitempty" yaml:"functional_limitation,omitempty"`

	// InitialHct is the starting hematocrit, as a fraction or a percentage.
	InitialHct *float64 `json:"initial_hct,omitempty" yaml:"initial_hct,omitempty"`

	// InitialHgb is the starting hemoglobin in g/dL.
	InitialHgb *float64 `json:"initial_hgb,omitempty" yaml:"initial_hgb,omitempty"`
}
