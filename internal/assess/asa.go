// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package assess

import "github.com/pdiddy/preop-engine/pkg/types"

// ASAClass is an ASA physical status class without the emergency suffix.
type ASAClass string

const (
	ASAI   ASAClass = "ASA I"
	ASAII  ASAClass = "ASA II"
	ASAIII ASAClass = "ASA III"
	ASAIV  ASAClass = "ASA IV"
	ASAV   ASAClass = "ASA V"
	ASAVI  ASAClass = "ASA VI"
)

// ASAUndetermined is returned when the record carries a disease tier
// outside the defined enum. Records built by the parse package never do,
// and an unset tier reads as none.
const ASAUndetermined = "Unable to determine ASA status"

const emergencySuffix = "E"

// ASARule is one entry of the ASA precedence order.
type ASARule struct {
	Name  string
	When  func(types.PatientRecord) bool
	Class ASAClass
}

// ASAPrecedence is the total order used by ClassifyASA, evaluated top to
// bottom: brain_dead > moribund > constant_threat > severe > mild > none.
var ASAPrecedence = []ASARule{
	{Name: "brain_dead", When: func(r types.PatientRecord) bool { return r.BrainDead }, Class: ASAVI},
	{Name: "moribund", When: func(r types.PatientRecord) bool { return r.Moribund }, Class: ASAV},
	{Name: "constant_threat", When: hasDisease(types.DiseaseConstantThreat), Class: ASAIV},
	{Name: "severe", When: hasDisease(types.DiseaseSevere), Class: ASAIII},
	{Name: "mild", When: hasDisease(types.DiseaseMild), Class: ASAII},
	{Name: "none", When: noDisease, Class: ASAI},
}

// noDisease treats an unset tier the same as none.
func noDisease(r types.PatientRecord) bool {
	return r.SystemicDisease == types.DiseaseNone || r.SystemicDisease == ""
}

// ClassifyASA returns the ASA physical status for r, with an "E" suffix for
// emergency cases (e.g. "ASA IIIE").
func ClassifyASA(r types.PatientRecord) string {
	for _, rule := range ASAPrecedence {
		if !rule.When(r) {
			continue
		}
		if r.Emergency {
			return string(rule.Class) + emergencySuffix
		}
		return string(rule.Class)
	}
	return ASAUndetermined
}
