// Package seed generates the synthetic incident dataset the dashboard ships with.
package seed

import (
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/google/uuid"

	"crime-insights-go/internal/catalog"
	"crime-insights-go/internal/types"
)

// Year is the calendar year synthetic incidents fall in.
const Year = 2024

// Generate returns n incidents drawn from rng. The same seed always yields
// the same dataset, including ids.
func Generate(n int, rng *rand.Rand) []types.Incident {
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	ids := uuid.NewSHA1(uuid.NameSpaceOID, []byte(fmt.Sprintf("seed-%d", rng.Uint64())))

	out := make([]types.Incident, 0, n)
	for i := 0; i < n; i++ {
		loc := catalog.Locations[rng.IntN(len(catalog.Locations))]
		crime := catalog.IncidentCrimeTypes[rng.IntN(len(catalog.IncidentCrimeTypes))]
		date := time.Date(Year, time.Month(rng.IntN(12)+1), rng.IntN(28)+1, 0, 0, 0, 0, time.UTC)
		incidentID := fmt.Sprintf("CR%05d", i+1)

		out = append(out, types.Incident{
			ID:         uuid.NewSHA1(ids, []byte(incidentID)).String(),
			IncidentID: incidentID,
			Date:       date.Format(time.DateOnly),
			Time:       fmt.Sprintf("%02d:%02d", rng.IntN(24), rng.IntN(60)),
			CrimeType:  crime,
			Location:   loc.Name,
			Latitude:   loc.Lat + (rng.Float64()-0.5)*0.02,
			Longitude:  loc.Lng + (rng.Float64()-0.5)*0.02,
			Severity:   types.Severities[rng.IntN(len(types.Severities))],
			Status:     types.Statuses[rng.IntN(len(types.Statuses))],
		})
	}
	return out
}
