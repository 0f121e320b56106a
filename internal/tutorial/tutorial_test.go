package tutorial

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSteps(t *testing.T) {
	steps, err := Steps(DefaultParams())
	require.NoError(t, err)
	require.Len(t, steps, 12)

	for i, s := range steps {
		assert.Equal(t, i+1, s.Number)
		assert.NotEmpty(t, s.Title)
		assert.True(t, strings.HasPrefix(s.Code, "# Step "), "step %d", s.Number)
		assert.False(t, strings.HasSuffix(s.Code, "\n"))
		assert.NotContains(t, s.Code, "{{")
	}

	assert.Contains(t, steps[1].Code, "pd.read_csv('crime_dataset.csv')")
	assert.Contains(t, steps[5].Code, "feature_columns = ['Location_Encoded', 'Hour', 'DayOfWeek', 'IsWeekend', 'Latitude', 'Longitude']")
	assert.Contains(t, steps[6].Code, "test_size=0.2,    # 20% for testing")
	assert.Contains(t, steps[6].Code, "(80%)")
	assert.Contains(t, steps[10].Code, "'Anna Nagar': (13.085, 80.210),")
	assert.Contains(t, steps[10].Code, "('Guindy', 20, 4),   # Evening, Friday")
}

func TestStepsCustomParams(t *testing.T) {
	p := DefaultParams()
	p.Dataset = "my_export.csv"
	p.TestSize = 0.3
	p.RandomState = 7

	steps, err := Steps(p)
	require.NoError(t, err)
	assert.Contains(t, steps[1].Code, "'my_export.csv'")
	assert.Contains(t, steps[6].Code, "random_state=7")
	assert.Contains(t, steps[6].Code, "(70%)")
}

func TestScript(t *testing.T) {
	script, err := Script(DefaultParams())
	require.NoError(t, err)

	steps, err := Steps(DefaultParams())
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(script, steps[0].Code+"\n\n# Step 2"))
	assert.True(t, strings.HasSuffix(script, steps[11].Code))
	assert.Equal(t, 12, strings.Count(script, "\n# Step ")+1)
}

func TestConcepts(t *testing.T) {
	cs := Concepts()
	require.Len(t, cs, 4)
	assert.Equal(t, "supervised", cs[0].ID)
	for _, c := range cs {
		assert.NotEmpty(t, c.Techniques)
	}
}
