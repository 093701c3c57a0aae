package dataprocessing

import (
	"fmt"

	"github.com/tomtap1997/dashbord-tr/internal/config"
)

// ColumnLayout names the zero-based column of every field the extractor
// reads. A survey export with a different layout only needs a new layout.
type ColumnLayout struct {
	ID               int `json:"id"`
	Location         int `json:"location"`
	LocationFallback int `json:"locationFallback"`
	Capacity         int `json:"capacity"`
	PeakLoad         int `json:"peakLoad"`
	Unbalance        int `json:"unbalance"`
	EndVoltage       int `json:"endVoltage"`
	Loss             int `json:"loss"`
}

// DefaultColumnLayout matches the field survey export: A id, B location,
// C fallback location, D kVA, N peak load, S unbalance, T end voltage, U loss.
func DefaultColumnLayout() ColumnLayout {
	return ColumnLayout{
		ID:               config.DefaultIDColumn,
		Location:         config.DefaultLocationColumn,
		LocationFallback: config.DefaultLocationFallbackColumn,
		Capacity:         config.DefaultCapacityColumn,
		PeakLoad:         config.DefaultPeakLoadColumn,
		Unbalance:        config.DefaultUnbalanceColumn,
		EndVoltage:       config.DefaultEndVoltageColumn,
		Loss:             config.DefaultLossColumn,
	}
}

// LayoutFromConfig copies the configured offsets.
func LayoutFromConfig(cfg config.ExtractionConfig) ColumnLayout {
	return ColumnLayout{
		ID:               cfg.IDColumn,
		Location:         cfg.LocationColumn,
		LocationFallback: cfg.LocationFallbackColumn,
		Capacity:         cfg.CapacityColumn,
		PeakLoad:         cfg.PeakLoadColumn,
		Unbalance:        cfg.UnbalanceColumn,
		EndVoltage:       cfg.EndVoltageColumn,
		Loss:             cfg.LossColumn,
	}
}

// Validate rejects negative offsets.
func (l ColumnLayout) Validate() error {
	columns := map[string]int{
		"id":                l.ID,
		"location":          l.Location,
		"location_fallback": l.LocationFallback,
		"capacity":          l.Capacity,
		"peak_load":         l.PeakLoad,
		"unbalance":         l.Unbalance,
		"end_voltage":       l.EndVoltage,
		"loss":              l.Loss,
	}
	for name, col := range columns {
		if col < 0 {
			return fmt.Errorf("column %s has negative offset %d", name, col)
		}
	}
	return nil
}
