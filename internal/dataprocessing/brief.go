package dataprocessing

import (
	"sort"
	"time"

	"github.com/tomtap1997/dashbord-tr/pkg/contracts/domain"
)

// Brief list sizes.
const (
	BriefCriticalLimit  = 15
	BriefUnbalanceLimit = 10
	BriefHighLossLimit  = 5
)

// BuildBrief condenses records into the payload report writers work from:
// headline counts, the first critical and unbalanced transformers in input
// order, and the highest losses.
func BuildBrief(records []domain.TransformerRecord, generatedAt time.Time) domain.Brief {
	brief := domain.Brief{
		Summary:                domain.BriefCounts{TotalTransformers: len(records)},
		CriticalTransformers:   make([]domain.CriticalItem, 0),
		UnbalancedTransformers: make([]domain.UnbalanceItem, 0),
		HighLossTransformers:   make([]domain.LossItem, 0, BriefHighLossLimit),
		GeneratedAt:            generatedAt,
	}

	for _, r := range records {
		switch r.Status {
		case domain.StatusCritical:
			brief.Summary.CriticalCount++
			if len(brief.CriticalTransformers) < BriefCriticalLimit {
				brief.CriticalTransformers = append(brief.CriticalTransformers, domain.CriticalItem{
					ID:                 r.ID,
					PeakLoadPercent:    r.PeakLoadPercent,
					VoltageDropPercent: r.VoltageDropPercent,
					Location:           r.Location,
				})
			}
		case domain.StatusWarning:
			brief.Summary.WarningCount++
		}

		if r.HasUnbalanceIssue() {
			brief.Summary.UnbalanceCriticalCount++
			if len(brief.UnbalancedTransformers) < BriefUnbalanceLimit {
				brief.UnbalancedTransformers = append(brief.UnbalancedTransformers, domain.UnbalanceItem{
					ID:               r.ID,
					PeakLoadPercent:  r.PeakLoadPercent,
					UnbalancePercent: r.UnbalancePercent,
				})
			}
		}
	}

	byLoss := make([]int, len(records))
	for i := range byLoss {
		byLoss[i] = i
	}
	sort.SliceStable(byLoss, func(a, b int) bool {
		return records[byLoss[a]].SystemLoss > records[byLoss[b]].SystemLoss
	})
	for _, idx := range byLoss {
		if len(brief.HighLossTransformers) == BriefHighLossLimit {
			break
		}
		r := records[idx]
		brief.HighLossTransformers = append(brief.HighLossTransformers, domain.LossItem{
			ID:         r.ID,
			SystemLoss: r.SystemLoss,
			Location:   r.Location,
		})
	}

	return brief
}
