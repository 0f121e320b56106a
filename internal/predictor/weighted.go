package predictor

import (
	"math/rand/v2"
	"strings"
	"sync"

	"crime-insights-go/internal/catalog"
	"crime-insights-go/internal/types"
)

var (
	NightCrimeTypes = []string{"Theft", "Robbery", "Burglary", "Drug Offense"}
	DayCrimeTypes   = []string{"Theft", "Fraud", "Vandalism", "Assault"}

	weightedRiskLevels = []string{
		string(types.SeverityLow), string(types.SeverityMedium), string(types.SeverityHigh),
	}
)

// WeightedScorer derives probability from the location's catalog position,
// the time of day and the weekend, then draws the crime type and confidence
// at random. Repeated calls with the same query can disagree.
type WeightedScorer struct {
	mu  sync.Mutex
	rng *rand.Rand
}

func NewWeightedScorer(rng *rand.Rand) *WeightedScorer {
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return &WeightedScorer{rng: rng}
}

func timeMultiplier(timeOfDay string) float64 {
	switch strings.ToLower(timeOfDay) {
	case "night":
		return 0.8
	case "evening":
		return 0.6
	default:
		return 0.4
	}
}

func weekendMultiplier(day string) float64 {
	switch strings.ToLower(day) {
	case "saturday", "sunday":
		return 1.1
	default:
		return 1
	}
}

func riskFor(probability float64) string {
	switch {
	case probability > 0.7:
		return string(types.SeverityHigh)
	case probability > 0.5:
		return string(types.SeverityMedium)
	default:
		return string(types.SeverityLow)
	}
}

func (w *WeightedScorer) Score(q types.Query) types.Prediction {
	idx := catalog.LocationIndex(q.Location)
	base := 0.4 + float64(idx)*0.03 + timeMultiplier(q.TimeOfDay)*0.2
	probability := clamp(base * weekendMultiplier(q.DayOfWeek))

	pool := DayCrimeTypes
	if strings.EqualFold(q.TimeOfDay, "night") {
		pool = NightCrimeTypes
	}

	w.mu.Lock()
	confidence := clamp(0.75 + w.rng.Float64()*0.2)
	crime := pool[w.rng.IntN(len(pool))]
	w.mu.Unlock()

	return types.Prediction{
		Location:           q.Location,
		TimeOfDay:          q.TimeOfDay,
		DayOfWeek:          q.DayOfWeek,
		PredictedCrimeType: crime,
		RiskLevel:          riskFor(probability),
		Probability:        probability,
		Confidence:         confidence,
	}
}
