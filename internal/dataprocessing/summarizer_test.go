package dataprocessing

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tomtap1997/dashbord-tr/pkg/contracts/domain"
)

func rec(id, location string, load, unbalance, loss float64) domain.TransformerRecord {
	voltage := 225.0
	if load > 100 {
		voltage = 210
	}
	return domain.TransformerRecord{
		ID:                 id,
		Location:           location,
		RatedCapacityKVA:   50,
		PeakLoadPercent:    load,
		EndVoltage:         voltage,
		VoltageDropPercent: domain.VoltageDropPercent(voltage),
		SystemLoss:         loss,
		PhaseCount:         domain.DefaultPhaseCount,
		UnbalancePercent:   unbalance,
		Status:             domain.ClassifyLoad(load),
	}
}

func fixtureRecords() []domain.TransformerRecord {
	return []domain.TransformerRecord{
		rec("52-000001", "ซอยเทศบาล 1", 110, 60, 100),
		rec("52-000002", "ตลาดสด", 90, 55, 400),
		rec("53-000003", "ซอยเทศบาล 3", 40, 70, 250),
		rec("53-000004", "โรงเรียน", 20, 5, 400),
		rec("52-000005", "วัดกลาง", 105, 10, 0),
	}
}

func TestSummarize(t *testing.T) {
	summary := Summarize(fixtureRecords())

	assert.Equal(t, 5, summary.Total)
	assert.Equal(t, 2, summary.Critical)
	assert.Equal(t, 1, summary.Warning)
	assert.Equal(t, 2, summary.Normal)
	assert.Equal(t, 2, summary.UnbalanceIssues)
	assert.Equal(t, 1150.0, summary.TotalLoss)
	assert.InDelta(t, 73.0, summary.AverageLoad, 1e-9)
	assert.Equal(t, 90.0, summary.MedianLoad)
	assert.InDelta(t, 107.5, summary.P95Load, 1e-9)
	assert.Greater(t, summary.LoadVoltageCorrelation, 0.5)

	assert.Equal(t, []domain.StatusSlice{
		{Name: "ปกติ", Status: domain.StatusNormal, Value: 2, Color: "#22c55e"},
		{Name: "เฝ้าระวัง", Status: domain.StatusWarning, Value: 1, Color: "#f59e0b"},
		{Name: "เร่งด่วน", Status: domain.StatusCritical, Value: 2, Color: "#ef4444"},
	}, summary.StatusDistribution)

	require.Len(t, summary.LoadVoltagePoints, 5)
	assert.Equal(t, domain.ScatterPoint{X: 110, Y: 8.7, Z: 50, Name: "52-000001", Status: domain.StatusCritical}, summary.LoadVoltagePoints[0])
}

func TestSummarize_Empty(t *testing.T) {
	summary := Summarize(nil)

	assert.Equal(t, 0, summary.Total)
	assert.Equal(t, 0.0, summary.AverageLoad)
	assert.Equal(t, 0.0, summary.LoadVoltageCorrelation)
	assert.NotNil(t, summary.LoadVoltagePoints)
	require.Len(t, summary.StatusDistribution, 3)
	for _, s := range summary.StatusDistribution {
		assert.Zero(t, s.Value)
	}
}

func TestSummarize_ConstantSeriesHasNoCorrelation(t *testing.T) {
	records := []domain.TransformerRecord{
		rec("52-000001", "a", 50, 0, 0),
		rec("52-000002", "b", 50, 0, 0),
	}
	summary := Summarize(records)
	assert.Equal(t, 0.0, summary.LoadVoltageCorrelation)
	assert.Equal(t, 50.0, summary.P95Load)
}

func TestFilter(t *testing.T) {
	records := fixtureRecords()

	tests := []struct {
		name     string
		criteria domain.FilterCriteria
		want     []string
	}{
		{"no criteria", domain.FilterCriteria{}, []string{"52-000001", "52-000002", "53-000003", "53-000004", "52-000005"}},
		{"all", domain.FilterCriteria{Status: "ALL"}, []string{"52-000001", "52-000002", "53-000003", "53-000004", "52-000005"}},
		{"critical", domain.FilterCriteria{Status: "Critical"}, []string{"52-000001", "52-000005"}},
		{"warning upper case", domain.FilterCriteria{Status: "WARNING"}, []string{"52-000002"}},
		{"normal", domain.FilterCriteria{Status: "normal"}, []string{"53-000003", "53-000004"}},
		{"unbalance", domain.FilterCriteria{Status: "UNBALANCE"}, []string{"52-000001", "52-000002"}},
		{"id search", domain.FilterCriteria{Query: "53-"}, []string{"53-000003", "53-000004"}},
		{"location search", domain.FilterCriteria{Query: "ซอยเทศบาล"}, []string{"52-000001", "53-000003"}},
		{"status and search", domain.FilterCriteria{Status: "NORMAL", Query: "ซอย"}, []string{"53-000003"}},
		{"no match", domain.FilterCriteria{Query: "zzz"}, []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Filter(records, tt.criteria)
			require.NoError(t, err)

			ids := make([]string, len(got))
			for i, r := range got {
				ids[i] = r.ID
			}
			assert.Equal(t, tt.want, ids)
		})
	}

	assert.Equal(t, fixtureRecords(), records)
}

func TestFilter_UnknownStatus(t *testing.T) {
	_, err := Filter(fixtureRecords(), domain.FilterCriteria{Status: "BROKEN"})
	assert.Error(t, err)
}

func TestFilter_CaseInsensitiveQuery(t *testing.T) {
	records := []domain.TransformerRecord{rec("BKK-TR-0042", "Main Street", 10, 0, 0)}

	got, err := Filter(records, domain.FilterCriteria{Query: "main STREET"})
	require.NoError(t, err)
	assert.Len(t, got, 1)

	got, err = Filter(records, domain.FilterCriteria{Query: "bkk"})
	require.NoError(t, err)
	assert.Len(t, got, 1)
}

func TestBuildBrief(t *testing.T) {
	records := fixtureRecords()
	at := time.Date(2024, 5, 1, 8, 0, 0, 0, time.UTC)

	brief := BuildBrief(records, at)

	assert.Equal(t, domain.BriefCounts{
		TotalTransformers:      5,
		CriticalCount:          2,
		WarningCount:           1,
		UnbalanceCriticalCount: 2,
	}, brief.Summary)
	assert.Equal(t, at, brief.GeneratedAt)

	assert.Equal(t, []domain.CriticalItem{
		{ID: "52-000001", PeakLoadPercent: 110, VoltageDropPercent: 8.7, Location: "ซอยเทศบาล 1"},
		{ID: "52-000005", PeakLoadPercent: 105, VoltageDropPercent: 8.7, Location: "วัดกลาง"},
	}, brief.CriticalTransformers)

	assert.Equal(t, []domain.UnbalanceItem{
		{ID: "52-000001", PeakLoadPercent: 110, UnbalancePercent: 60},
		{ID: "52-000002", PeakLoadPercent: 90, UnbalancePercent: 55},
	}, brief.UnbalancedTransformers)

	// ties keep input order
	assert.Equal(t, []domain.LossItem{
		{ID: "52-000002", SystemLoss: 400, Location: "ตลาดสด"},
		{ID: "53-000004", SystemLoss: 400, Location: "โรงเรียน"},
		{ID: "53-000003", SystemLoss: 250, Location: "ซอยเทศบาล 3"},
		{ID: "52-000001", SystemLoss: 100, Location: "ซอยเทศบาล 1"},
		{ID: "52-000005", SystemLoss: 0, Location: "วัดกลาง"},
	}, brief.HighLossTransformers)

	// the input is never reordered
	assert.Equal(t, fixtureRecords(), records)
}

func TestBuildBrief_Limits(t *testing.T) {
	records := make([]domain.TransformerRecord, 0, 30)
	for i := 0; i < 30; i++ {
		records = append(records, rec("52-"+string(rune('A'+i)), "x", 120, 80, float64(i)))
	}

	brief := BuildBrief(records, time.Time{})
	assert.Equal(t, 30, brief.Summary.CriticalCount)
	assert.Len(t, brief.CriticalTransformers, BriefCriticalLimit)
	assert.Len(t, brief.UnbalancedTransformers, BriefUnbalanceLimit)
	require.Len(t, brief.HighLossTransformers, BriefHighLossLimit)
	assert.Equal(t, 29.0, brief.HighLossTransformers[0].SystemLoss)
	assert.Equal(t, records[0].ID, brief.CriticalTransformers[0].ID)
}

func TestBuildBrief_Empty(t *testing.T) {
	brief := BuildBrief(nil, time.Time{})
	assert.Zero(t, brief.Summary.TotalTransformers)
	assert.NotNil(t, brief.CriticalTransformers)
	assert.NotNil(t, brief.HighLossTransformers)
}
