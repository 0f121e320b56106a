package dataset

import (
	"fmt"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"crime-insights-go/internal/types"
)

func tableFixture(n int) []types.Incident {
	out := make([]types.Incident, n)
	for i := range out {
		loc := "Adyar"
		if i%2 == 1 {
			loc = "Porur"
		}
		out[i] = types.Incident{IncidentID: fmt.Sprintf("CR%05d", i+1), CrimeType: "Theft", Location: loc}
	}
	return out
}

func TestSearch(t *testing.T) {
	data := tableFixture(6)
	data[2].CrimeType = "Vehicle Theft"

	assert.Len(t, Search(data, ""), 6)
	assert.Len(t, Search(data, "porur"), 3)
	assert.Len(t, Search(data, "VEHICLE"), 1)
	assert.Len(t, Search(data, "cr00004"), 1)
	assert.Empty(t, Search(data, "fraud"))
}

func TestPaginate(t *testing.T) {
	data := tableFixture(23)

	p := Paginate(data, 1, PageSize)
	assert.Len(t, p.Items, 10)
	assert.Equal(t, 3, p.TotalPages)
	assert.Equal(t, 23, p.TotalItems)
	assert.Equal(t, "CR00001", p.Items[0].IncidentID)

	p = Paginate(data, 3, PageSize)
	assert.Len(t, p.Items, 3)
	assert.Equal(t, "CR00021", p.Items[0].IncidentID)

	p = Paginate(data, 4, PageSize)
	assert.Empty(t, p.Items)
	assert.NotNil(t, p.Items)

	p = Paginate(data, math.MaxInt, PageSize)
	assert.Empty(t, p.Items)
	assert.Equal(t, math.MaxInt, p.Page)

	p = Paginate(data, 1, math.MaxInt)
	assert.Len(t, p.Items, 23)
	assert.Equal(t, 1, p.TotalPages)

	p = Paginate(data, 0, 0)
	assert.Equal(t, 1, p.Page)
	assert.Equal(t, PageSize, p.PageSize)

	p = Paginate(nil, 1, PageSize)
	assert.Equal(t, 0, p.TotalPages)
	assert.Empty(t, p.Items)
}
