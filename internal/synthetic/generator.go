// Package synthetic produces demo transformer datasets with the same shape
// as an extracted survey.
package synthetic

import (
	"fmt"
	"math"
	"math/rand"
	"sync"
	"time"

	"github.com/tomtap1997/dashbord-tr/pkg/contracts/domain"
)

// DefaultCount is the number of records generated when no count is given.
const DefaultCount = 50

// Catalog values used by the generator.
var (
	RegionPrefixes = [2]string{"52", "53"}
	CapacitySizes  = [2]float64{50, 160}
)

// Fixed voltage readings. Overloaded transformers get the low pair; the
// drop is not derived from the voltage.
const (
	overloadedVoltage = 210.0
	overloadedDrop    = 8.5
	nominalVoltage    = 225.0
	nominalDrop       = 2.0
)

// Generator builds random transformer records. A Generator is safe for
// concurrent use; records from one seed are always the same.
type Generator struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewGenerator uses rng as its only source of randomness. A nil rng is
// seeded from the clock.
func NewGenerator(rng *rand.Rand) *Generator {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Generator{rng: rng}
}

// NewSeededGenerator is shorthand for NewGenerator with a fresh seeded source.
func NewSeededGenerator(seed int64) *Generator {
	return NewGenerator(rand.New(rand.NewSource(seed)))
}

// Generate returns count records indexed 1..count. A count of zero or less
// uses DefaultCount.
func (g *Generator) Generate(count int) []domain.TransformerRecord {
	if count <= 0 {
		count = DefaultCount
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	records := make([]domain.TransformerRecord, 0, count)
	for i := 1; i <= count; i++ {
		records = append(records, g.record(i))
	}
	return records
}

func (g *Generator) record(i int) domain.TransformerRecord {
	load := math.Floor(g.rng.Float64() * 120)

	prefix := RegionPrefixes[1]
	if g.rng.Float64() > 0.5 {
		prefix = RegionPrefixes[0]
	}

	// a fifth of the fleet sits in the unbalance hot spot
	var unbalance float64
	if g.rng.Float64() > 0.8 {
		unbalance = math.Floor(g.rng.Float64()*60) + 20
	} else {
		unbalance = math.Floor(g.rng.Float64() * 15)
	}

	kva := CapacitySizes[1]
	if g.rng.Float64() > 0.5 {
		kva = CapacitySizes[0]
	}

	voltage, drop := nominalVoltage, nominalDrop
	if load > domain.CriticalLoadThreshold {
		voltage, drop = overloadedVoltage, overloadedDrop
	}

	return domain.TransformerRecord{
		ID:                 fmt.Sprintf("%s-%06d", prefix, i),
		Location:           fmt.Sprintf("ซอยเทศบาล %d ต.ในเมือง", i%10+1),
		RatedCapacityKVA:   kva,
		PeakLoadPercent:    load,
		EndVoltage:         voltage,
		VoltageDropPercent: drop,
		SystemLoss:         math.Floor(g.rng.Float64() * 500),
		PhaseCount:         domain.DefaultPhaseCount,
		UnbalancePercent:   unbalance,
		Status:             domain.ClassifyLoad(load),
	}
}
