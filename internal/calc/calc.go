// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package calc implements the perioperative body-weight and blood-volume
// formulas that consume extracted patient fields.
//
// Unlike extraction, these functions are partial: a sex or age group outside
// its closed set selects no table row and is reported as an error. Such an
// error is an integration bug in the caller, not a data-quality gap, and is
// not worth retrying.
package calc

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/pdiddy/preop-engine/pkg/types"
)

var (
	// ErrInvalidSex is returned when sex is not male or female.
	ErrInvalidSex = errors.New("sex must be 'male' or 'female'")

	// ErrInvalidAgeGroup is returned when the age group is not adult, child or neonate.
	ErrInvalidAgeGroup = errors.New("age_group must be 'adult', 'child', or 'neonate'")

	// ErrInvalidLabValue is returned when an initial hematocrit or
	// hemoglobin is not positive.
	ErrInvalidLabValue = errors.New("initial lab value must be positive")
)

const (
	maleDevineBaseKg   = 50.0
	femaleDevineBaseKg = 45.5
	devineBaseInches   = 60.0
	devinePerInchKg    = 2.3
	shortPerInchKg     = 1.6
	abwCorrection      = 0.4
	defaultLowestHct   = 24.0
	defaultLowestHgb   = 8.0
)

// bloodVolumePerKg is the estimated blood volume in mL/kg by age group and sex.
var bloodVolumePerKg = map[types.AgeGroup]map[types.Sex]float64{
	types.AgeGroupAdult:   {types.SexMale: 75, types.SexFemale: 65},
	types.AgeGroupChild:   {types.SexMale: 70, types.SexFemale: 70},
	types.AgeGroupNeonate: {types.SexMale: 90, types.SexFemale: 90},
}

// IdealBodyWeight returns the Devine ideal body weight in kg, rounded to two
// places. Below 60 inches it subtracts 1.6 kg per inch. Sex is matched
// case-insensitively.
func IdealBodyWeight(sex types.Sex, heightIn float64) (float64, error) {
	var ibw float64
	switch sex = normalizeSex(sex); sex {
	case types.SexMale:
		ibw = maleDevineBaseKg
	case types.SexFemale:
		ibw = femaleDevineBaseKg
	default:
		return 0, fmt.Errorf("ideal body weight for sex %q: %w", sex, ErrInvalidSex)
	}

	if heightIn >= devineBaseInches {
		ibw += devinePerInchKg * (heightIn - devineBaseInches)
	} else {
		ibw -= shortPerInchKg * (devineBaseInches - heightIn)
	}
	return round(ibw, 2), nil
}

// AdjustedBodyWeight returns IBW + 0.4·(actual − IBW) in kg, or the actual
// weight when it does not exceed IBW. Rounded to two places.
func AdjustedBodyWeight(actualKg, ibwKg float64) float64 {
	if actualKg <= ibwKg {
		return round(actualKg, 2)
	}
	return round(ibwKg+abwCorrection*(actualKg-ibwKg), 2)
}

// EstimatedBloodVolume returns the estimated blood volume in mL.
func EstimatedBloodVolume(weightKg float64, sex types.Sex, group types.AgeGroup) (float64, error) {
	perKg, err := bloodVolumeRate(sex, group)
	if err != nil {
		return 0, err
	}
	return perKg * weightKg, nil
}

// MaxAllowableBloodLossHct returns the maximum allowable blood loss in mL,
// rounded to one place. Hematocrits above 1 are read as percentages. A
// lowest value of zero selects the 24% default.
func MaxAllowableBloodLossHct(weightKg float64, sex types.Sex, group types.AgeGroup, initialHct, lowestHct float64) (float64, error) {
	if lowestHct == 0 {
		lowestHct = defaultLowestHct
	}
	initialHct, lowestHct = fraction(initialHct), fraction(lowestHct)
	return maxAllowableBloodLoss(weightKg, sex, group, initialHct, lowestHct)
}

// MaxAllowableBloodLossHgb returns the maximum allowable blood loss in mL
// from hemoglobin in g/dL, rounded to one place. A lowest value of zero
// selects the 8 g/dL default.
func MaxAllowableBloodLossHgb(weightKg float64, sex types.Sex, group types.AgeGroup, initialHgb, lowestHgb float64) (float64, error) {
	if lowestHgb == 0 {
		lowestHgb = defaultLowestHgb
	}
	return maxAllowableBloodLoss(weightKg, sex, group, initialHgb, lowestHgb)
}

func maxAllowableBloodLoss(weightKg float64, sex types.Sex, group types.AgeGroup, initial, lowest float64) (float64, error) {
	ebv, err := EstimatedBloodVolume(weightKg, sex, group)
	if err != nil {
		return 0, err
	}
	if initial <= 0 {
		return 0, fmt.Errorf("maximum allowable blood loss with initial value %v: %w", initial, ErrInvalidLabValue)
	}
	return round(ebv*(initial-lowest)/initial, 1), nil
}

// bloodVolumeRate matches sex and age group case-insensitively.
func bloodVolumeRate(sex types.Sex, group types.AgeGroup) (float64, error) {
	sex = normalizeSex(sex)
	group = types.AgeGroup(strings.ToLower(strings.TrimSpace(string(group))))
	if sex != types.SexMale && sex != types.SexFemale {
		return 0, fmt.Errorf("blood volume for sex %q: %w", sex, ErrInvalidSex)
	}
	row, ok := bloodVolumePerKg[group]
	if !ok {
		return 0, fmt.Errorf("blood volume for age group %q: %w", group, ErrInvalidAgeGroup)
	}
	return row[sex], nil
}

func normalizeSex(sex types.Sex) types.Sex {
	return types.Sex(strings.ToLower(strings.TrimSpace(string(sex))))
}

// fraction converts a percentage to a fraction; values at or below 1 are
// already fractions.
func fraction(v float64) float64 {
	if v > 1 {
		return v / 100
	}
	return v
}

func round(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}
