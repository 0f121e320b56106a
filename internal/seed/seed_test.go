package seed

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"crime-insights-go/internal/catalog"
)

func TestGenerate(t *testing.T) {
	incidents := Generate(150, rand.New(rand.NewPCG(42, 1)))
	require.Len(t, incidents, 150)

	assert.Equal(t, "CR00001", incidents[0].IncidentID)
	assert.Equal(t, "CR00150", incidents[149].IncidentID)

	seen := map[string]bool{}
	for _, in := range incidents {
		require.NoError(t, in.Validate())
		assert.False(t, seen[in.ID], "duplicate id %s", in.ID)
		seen[in.ID] = true

		assert.Contains(t, catalog.IncidentCrimeTypes, in.CrimeType)
		loc, ok := catalog.LookupLocation(in.Location)
		require.True(t, ok)
		assert.InDelta(t, loc.Lat, in.Latitude, 0.01)
		assert.InDelta(t, loc.Lng, in.Longitude, 0.01)

		assert.Regexp(t, `^2024-(0[1-9]|1[0-2])-(0[1-9]|1[0-9]|2[0-8])$`, in.Date)
		assert.Regexp(t, `^([01][0-9]|2[0-3]):[0-5][0-9]$`, in.Time)
	}
}

func TestGenerateDeterministic(t *testing.T) {
	a := Generate(20, rand.New(rand.NewPCG(9, 9)))
	b := Generate(20, rand.New(rand.NewPCG(9, 9)))
	assert.Equal(t, a, b)
}
