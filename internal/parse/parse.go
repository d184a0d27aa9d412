// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package parse turns a free-text description of a surgical patient into a
// typed PatientRecord.
//
// Extraction is total: fields the text does not support, or supports only
// with implausible values, are left unset. Nothing here returns an error.
package parse

import (
	"regexp"
	"strings"

	"github.com/pdiddy/preop-engine/pkg/types"
)

var whitespaceRun = regexp.MustCompile(`\s+`)

// Normalize joins the procedure name and free text, lowercases the result,
// and collapses every whitespace run to a single space.
func Normalize(procedureName, freeText string) string {
	text := strings.ToLower(procedureName + " " + freeText)
	return strings.TrimSpace(whitespaceRun.ReplaceAllString(text, " "))
}

// ExtractPatient builds a PatientRecord from a procedure name and free text.
func ExtractPatient(procedureName, freeText string) types.PatientRecord {
	text := Normalize(procedureName, freeText)
	cond := Classify(text)

	return types.PatientRecord{
		Age:             extractAge(text),
		WeightKg:        extractWeight(text),
		Height:          extractHeight(text),
		SystemicDisease: cond.SystemicDisease,
		BrainDead:       cond.BrainDead,
		Moribund:        cond.Moribund,
	}
}

// ExtractCase builds a PatientRecord from a case and copies the values the
// text cannot provide: sex, emergency status and functional limitation.
// A sex outside the closed enum is dropped rather than passed on.
func ExtractCase(c types.CaseInput) types.PatientRecord {
	rec := ExtractPatient(c.Procedure, c.Text)
	rec.Emergency = c.Emergency
	rec.FunctionalLimitation = c.FunctionalLimitation
	if sex, ok := ParseSex(string(c.Sex)); ok {
		rec.Sex = sex
	}
	return rec
}

// ParseSex maps user input onto the closed Sex enum.
func ParseSex(s string) (types.Sex, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "male", "m":
		return types.SexMale, true
	case "female", "f":
		return types.SexFemale, true
	}
	return "", false
}

// ParseAgeGroup maps user input onto the closed AgeGroup enum.
func ParseAgeGroup(s string) (types.AgeGroup, bool) {
	switch g := types.AgeGroup(strings.ToLower(strings.TrimSpace(s))); g {
	case types.AgeGroupAdult, types.AgeGroupChild, types.AgeGroupNeonate:
		return g, true
	}
	return "", false
}
