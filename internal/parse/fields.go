// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package parse

import (
	"math"
	"regexp"
	"strconv"

	"github.com/pdiddy/preop-engine/pkg/types"
)

const (
	lbsPerKg  = 2.20462
	cmPerInch = 2.54

	minWeightKg = 2.0
	maxWeightKg = 300.0
	minHeightCM = 80.0
	maxHeightCM = 250.0
	minAge      = 0
	maxAge      = 120
)

// rule is one pattern in a field's ordered extraction chain. convert turns
// the submatches into the field's canonical unit.
type rule struct {
	name    string
	pattern *regexp.Regexp
	convert func(m []string) (float64, bool)
}

// number matches an integer or a decimal with up to two places.
const number = `(\d{1,3}(?:\.\d{1,2})?)`

// weightRules are tried in order: kilograms before pounds.
var weightRules = []rule{
	{name: "kg", pattern: regexp.MustCompile(number + `\s*kg\b`), convert: scaled(1)},
	{name: "lbs", pattern: regexp.MustCompile(number + `\s*lbs?\b`), convert: scaled(1 / lbsPerKg)},
	{name: "pound-sign", pattern: regexp.MustCompile(number + `\s*#`), convert: scaled(1 / lbsPerKg)},
}

// heightRules are tried in order: centimeters before feet and inches.
// A feet marker is required so unrelated adjacent digits never parse.
var heightRules = []rule{
	{name: "cm", pattern: regexp.MustCompile(number + `\s*cm\b`), convert: scaled(1)},
	{name: "feet-mark", pattern: regexp.MustCompile(`\b(\d)\s*'\s*(\d{1,2})`), convert: feetInches},
	{name: "feet-words", pattern: regexp.MustCompile(`\b(\d)\s*(?:ft|feet|foot)\.?\s*(\d{1,2})\s*(?:in|inches)?\b`), convert: feetInches},
}

// ageRules are tried in order.
var ageRules = []rule{
	{name: "yo", pattern: regexp.MustCompile(`\b(\d{1,3})\s*yo\b`), convert: scaled(1)},
	{name: "y/o", pattern: regexp.MustCompile(`\b(\d{1,3})\s*y/o\b`), convert: scaled(1)},
	{name: "year-old", pattern: regexp.MustCompile(`\b(\d{1,3})[\s-]*years?[- ]old\b`), convert: scaled(1)},
	{name: "age", pattern: regexp.MustCompile(`\bage:?\s*(\d{1,3})\b`), convert: scaled(1)},
}

// firstMatch returns the converted value of the first rule whose pattern
// matches text. Once a rule matches, later rules are never consulted, even
// when the conversion fails or the caller rejects the value.
func firstMatch(rules []rule, text string) (float64, bool) {
	for _, r := range rules {
		if m := r.pattern.FindStringSubmatch(text); m != nil {
			return r.convert(m)
		}
	}
	return 0, false
}

// extractWeight returns kilograms rounded to two places, or nil when no
// rule matched or the matched value is outside (2, 300).
func extractWeight(text string) *float64 {
	kg, ok := firstMatch(weightRules, text)
	if !ok || kg <= minWeightKg || kg >= maxWeightKg {
		return nil
	}
	v := round2(kg)
	return &v
}

// extractHeight returns both units, or nil when no rule matched or the
// matched value is outside (80, 250) cm.
func extractHeight(text string) *types.Height {
	cm, ok := firstMatch(heightRules, text)
	if !ok || cm <= minHeightCM || cm >= maxHeightCM {
		return nil
	}
	return &types.Height{CM: round2(cm), In: round2(cm / cmPerInch)}
}

// extractAge returns whole years, or nil when no rule matched or the
// matched value is outside (0, 120).
func extractAge(text string) *int {
	v, ok := firstMatch(ageRules, text)
	if !ok {
		return nil
	}
	age := int(v)
	if age <= minAge || age >= maxAge {
		return nil
	}
	return &age
}

// scaled parses the first submatch and multiplies it by factor.
func scaled(factor float64) func([]string) (float64, bool) {
	return func(m []string) (float64, bool) {
		v, err := strconv.ParseFloat(m[1], 64)
		if err != nil {
			return 0, false
		}
		return v * factor, true
	}
}

// feetInches converts feet and inches submatches to centimeters.
func feetInches(m []string) (float64, bool) {
	feet, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, false
	}
	inches, err := strconv.Atoi(m[2])
	if err != nil {
		return 0, false
	}
	return float64(feet*12+inches) * cmPerInch, true
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
