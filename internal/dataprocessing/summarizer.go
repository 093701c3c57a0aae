package dataprocessing

import (
	"math"

	"github.com/montanaflynn/stats"
	"gonum.org/v1/gonum/stat"

	"github.com/tomtap1997/dashbord-tr/pkg/contracts/domain"
)

// Pie chart labels and colours per status.
var statusSlices = []struct {
	status domain.TransformerStatus
	name   string
	color  string
}{
	{domain.StatusNormal, "ปกติ", "#22c55e"},
	{domain.StatusWarning, "เฝ้าระวัง", "#f59e0b"},
	{domain.StatusCritical, "เร่งด่วน", "#ef4444"},
}

// Summarize aggregates records for the dashboard. An empty input yields a
// zero summary with empty chart series.
func Summarize(records []domain.TransformerRecord) domain.Summary {
	summary := domain.Summary{
		Total:              len(records),
		StatusDistribution: make([]domain.StatusSlice, 0, len(statusSlices)),
		LoadVoltagePoints:  make([]domain.ScatterPoint, 0, len(records)),
	}

	loads := make(stats.Float64Data, 0, len(records))
	drops := make([]float64, 0, len(records))
	for _, r := range records {
		switch r.Status {
		case domain.StatusCritical:
			summary.Critical++
		case domain.StatusWarning:
			summary.Warning++
		}
		if r.HasUnbalanceIssue() {
			summary.UnbalanceIssues++
		}
		summary.TotalLoss += r.SystemLoss

		loads = append(loads, r.PeakLoadPercent)
		drops = append(drops, r.VoltageDropPercent)
		summary.LoadVoltagePoints = append(summary.LoadVoltagePoints, domain.ScatterPoint{
			X:      r.PeakLoadPercent,
			Y:      r.VoltageDropPercent,
			Z:      r.RatedCapacityKVA,
			Name:   r.ID,
			Status: r.Status,
		})
	}
	summary.Normal = summary.Total - summary.Critical - summary.Warning

	counts := map[domain.TransformerStatus]int{
		domain.StatusNormal:   summary.Normal,
		domain.StatusWarning:  summary.Warning,
		domain.StatusCritical: summary.Critical,
	}
	for _, s := range statusSlices {
		summary.StatusDistribution = append(summary.StatusDistribution, domain.StatusSlice{
			Name:   s.name,
			Status: s.status,
			Value:  counts[s.status],
			Color:  s.color,
		})
	}

	if len(loads) == 0 {
		return summary
	}

	summary.AverageLoad = finiteOrZero(stats.Mean(loads))
	summary.MedianLoad = finiteOrZero(stats.Median(loads))
	summary.P95Load = finiteOrZero(stats.Percentile(loads, 95))
	if len(loads) > 1 {
		summary.LoadVoltageCorrelation = finite(stat.Correlation(loads, drops, nil))
	}
	return summary
}

func finiteOrZero(v float64, err error) float64 {
	if err != nil {
		return 0
	}
	return finite(v)
}

func finite(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}
