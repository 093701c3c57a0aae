package synthetic

import (
	"regexp"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tomtap1997/dashbord-tr/pkg/contracts/domain"
)

func TestGenerate_Count(t *testing.T) {
	tests := []struct {
		name  string
		count int
		want  int
	}{
		{"default on zero", 0, DefaultCount},
		{"default on negative", -3, DefaultCount},
		{"one", 1, 1},
		{"explicit", 120, 120},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			records := NewSeededGenerator(1).Generate(tt.count)
			assert.Len(t, records, tt.want)
		})
	}
}

func TestGenerate_RecordShape(t *testing.T) {
	idPattern := regexp.MustCompile(`^5[23]-\d{6}$`)
	records := NewSeededGenerator(42).Generate(500)

	for i, r := range records {
		index := i + 1
		assert.Regexp(t, idPattern, r.ID)
		assert.Equal(t, index, atoiSuffix(t, r.ID))
		assert.Contains(t, []float64{50, 160}, r.RatedCapacityKVA)
		assert.GreaterOrEqual(t, r.PeakLoadPercent, 0.0)
		assert.Less(t, r.PeakLoadPercent, 120.0)
		assert.Equal(t, float64(int(r.PeakLoadPercent)), r.PeakLoadPercent)
		assert.GreaterOrEqual(t, r.SystemLoss, 0.0)
		assert.Less(t, r.SystemLoss, 500.0)
		assert.Equal(t, 3, r.PhaseCount)
		assert.Equal(t, domain.ClassifyLoad(r.PeakLoadPercent), r.Status)

		if r.PeakLoadPercent > 100 {
			assert.Equal(t, 210.0, r.EndVoltage)
			assert.Equal(t, 8.5, r.VoltageDropPercent)
		} else {
			assert.Equal(t, 225.0, r.EndVoltage)
			assert.Equal(t, 2.0, r.VoltageDropPercent)
		}

		inLow := r.UnbalancePercent >= 0 && r.UnbalancePercent < 15
		inHigh := r.UnbalancePercent >= 20 && r.UnbalancePercent < 80
		assert.True(t, inLow || inHigh, "unbalance %v", r.UnbalancePercent)
	}

	assert.Equal(t, "ซอยเทศบาล 2 ต.ในเมือง", records[0].Location)
	assert.Equal(t, "ซอยเทศบาล 1 ต.ในเมือง", records[9].Location)
}

func TestGenerate_UnbalanceDistribution(t *testing.T) {
	records := NewSeededGenerator(2024).Generate(20000)

	high := 0
	for _, r := range records {
		if r.UnbalancePercent >= 20 {
			high++
		}
	}
	share := float64(high) / float64(len(records))
	assert.InDelta(t, 0.2, share, 0.02)
}

func TestGenerate_Reproducible(t *testing.T) {
	a := NewSeededGenerator(99).Generate(50)
	b := NewSeededGenerator(99).Generate(50)
	assert.Equal(t, a, b)

	c := NewSeededGenerator(100).Generate(50)
	assert.NotEqual(t, a, c)
}

func TestGenerate_NilSource(t *testing.T) {
	records := NewGenerator(nil).Generate(5)
	require.Len(t, records, 5)
}

func TestGenerate_Concurrent(t *testing.T) {
	gen := NewSeededGenerator(5)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.Len(t, gen.Generate(100), 100)
		}()
	}
	wg.Wait()
}

func atoiSuffix(t *testing.T, id string) int {
	t.Helper()
	n := 0
	for _, c := range id[3:] {
		n = n*10 + int(c-'0')
	}
	return n
}
