package assess

import "github.com/pdiddy/preop-engine/pkg/types"

// RecommendationUndetermined is returned for a category with no entry.
const RecommendationUndetermined = "Unable to determine risk recommendation"

var recommendations = map[types.RiskCategory]string{
	types.RiskLow: "Low perioperative risk. Standard preop assessment and anesthetic plan appropriate. " +
		"Routine monitoring and recovery expected.",
	types.RiskModerate: "Moderate perioperative risk. Ensure thorough preop evaluation, " +
		"optimize comorbidities if possible, and plan for potential complications.",
	types.RiskHigh: "High perioperative risk. Strongly recommend multidisciplinary consultation, " +
		"thorough optimization of comorbidities, and discussion of risks/benefits with patient. " +
		"Consider ICU-level monitoring if available.",
	types.RiskVeryHigh: "Very high perioperative risk. This patient requires careful interdisciplinary planning. " +
		"Discuss case with surgical team, anesthesia leadership, and if possible, intensivist. " +
		"Detailed risk/benefit discussion with patient and family essential.",
}

// Recommend returns the advisory text for a risk category.
func Recommend(c types.RiskCategory) string {
	if text, ok := recommendations[c]; ok {
		return text
	}
	return RecommendationUndetermined
}
