// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package parse

import (
	"strings"

	"github.com/pdiddy/preop-engine/pkg/types"
)

// Conditions is the classifier's view of a normalized text.
type Conditions struct {
	BrainDead       bool
	Moribund        bool
	SystemicDisease types.SystemicDisease
}

var donationTerms = []string{
	"organ donation",
	"organ donor",
	"procurement",
	"organ procurement",
	"donor hepatectomy",
	"donor nephrectomy",
	"heart procurement",
	"lung procurement",
}

// brainDeathTerms must appear explicitly; a donation context alone never
// implies brain death.
var brainDeathTerms = []string{
	"brain dead",
	"brain-dead",
	"declared brain dead",
	"brain death confirmed",
}

var moribundTerms = []string{
	"moribund",
	"actively dying",
	"imminent death",
	"expected to die",
	"comfort measures only",
	"end of life",
}

// severityTier pairs a disease tier with the terms that select it.
type severityTier struct {
	disease types.SystemicDisease
	terms   []string
}

// severityTiers is evaluated top to bottom; the first tier with any
// matching term wins. One hit counts as much as many.
var severityTiers = []severityTier{
	{
		disease: types.DiseaseConstantThreat,
		terms: []string{
			"septic shock",
			"multi-organ failure",
			"respiratory failure",
			"on multiple pressors",
			"ecmo",
			"hemodynamically unstable",
			"hemodynamic instability",
			"critical illness",
		},
	},
	{
		disease: types.DiseaseSevere,
		terms: []string{
			"severe",
			"decompensated",
			"poorly controlled",
			"end-stage",
			"esrd",
			"cirrhosis",
			"heart failure",
			"copd exacerbation",
			"oxygen dependent",
		},
	},
	{
		disease: types.DiseaseMild,
		terms: []string{
			"mild",
			"well controlled",
			"well-controlled",
			"controlled with medication",
			"history of",
			"hypertension",
			"diabetes",
			"asthma",
			"obesity",
		},
	},
}

// Classify detects brain death, moribund state and the disease tier in a
// normalized text. Brain death confirmed in a donation case is terminal:
// no other rule runs once it fires. Otherwise a matching severity tier
// replaces the constant_threat set by a moribund term; the Moribund flag
// itself still outranks every tier downstream.
func Classify(text string) Conditions {
	c := Conditions{SystemicDisease: types.DiseaseNone}

	if containsAny(text, donationTerms) && containsAny(text, brainDeathTerms) {
		c.BrainDead = true
		c.Moribund = true
		c.SystemicDisease = types.DiseaseConstantThreat
		return c
	}

	if containsAny(text, moribundTerms) {
		c.Moribund = true
		c.SystemicDisease = types.DiseaseConstantThreat
	}

	if tier := matchTier(text); tier != types.DiseaseNone {
		c.SystemicDisease = tier
	}
	return c
}

// matchTier returns the first tier in severityTiers with a matching term,
// or none.
func matchTier(text string) types.SystemicDisease {
	for _, t := range severityTiers {
		if containsAny(text, t.terms) {
			return t.disease
		}
	}
	return types.DiseaseNone
}

func containsAny(text string, terms []string) bool {
	for _, term := range terms {
		if strings.Contains(text, term) {
			return true
		}
	}
	return false
}
