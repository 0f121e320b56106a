package predictor

import (
	"unicode/utf16"

	"crime-insights-go/internal/types"
)

// HashScorer is the canonical, deterministic scorer: identical queries always
// produce identical predictions.
type HashScorer struct{}

// Hash sums the UTF-16 code units of s.
func Hash(s string) int {
	total := 0
	for _, u := range utf16.Encode([]rune(s)) {
		total += int(u)
	}
	return total
}

func (HashScorer) Score(q types.Query) types.Prediction {
	h := Hash(q.Location + q.TimeOfDay + q.DayOfWeek)
	return types.Prediction{
		Location:           q.Location,
		TimeOfDay:          q.TimeOfDay,
		DayOfWeek:          q.DayOfWeek,
		PredictedCrimeType: CrimeTypes[h%len(CrimeTypes)],
		RiskLevel:          RiskLevels[h%len(RiskLevels)],
		Probability:        clamp(0.45 + float64(h%50)/100),
		Confidence:         clamp(0.70 + float64(h%25)/100),
	}
}
