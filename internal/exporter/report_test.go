package exporter

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tomtap1997/dashbord-tr/pkg/contracts/domain"
)

func sampleBrief() domain.Brief {
	return domain.Brief{
		Summary: domain.BriefCounts{
			TotalTransformers:      3,
			CriticalCount:          1,
			WarningCount:           1,
			UnbalanceCriticalCount: 1,
		},
		CriticalTransformers: []domain.CriticalItem{
			{ID: "52-123456", PeakLoadPercent: 110, VoltageDropPercent: 8.7, Location: "ซอย|เทศบาล 1"},
		},
		UnbalancedTransformers: []domain.UnbalanceItem{
			{ID: "52-123456", PeakLoadPercent: 110, UnbalancePercent: 60},
		},
		HighLossTransformers: []domain.LossItem{
			{ID: "52-123456", SystemLoss: 320, Location: "ซอยเทศบาล 1"},
			{ID: "53-123457", SystemLoss: 40, Location: "ต.ในเมือง"},
		},
		GeneratedAt: time.Date(2026, 10, 19, 8, 30, 0, 0, time.UTC),
	}
}

func TestRenderReportMarkdown(t *testing.T) {
	summary := domain.Summary{AverageLoad: 80.1666, MedianLoad: 85, P95Load: 110, TotalLoss: 360}
	md := RenderReportMarkdown(sampleBrief(), summary)

	assert.True(t, strings.HasPrefix(md, "# "+ReportTitle+"\n"))
	assert.Contains(t, md, "_สร้างเมื่อ 2026-10-19 08:30 UTC_")
	assert.Contains(t, md, "- หม้อแปลงทั้งหมด: 3 เครื่อง")
	assert.Contains(t, md, "โหลดเฉลี่ย 80.17% มัธยฐาน 85.00% P95 110.00%")
	assert.Contains(t, md, "| 52-123456 | 110 | 8.7 | ซอย\\|เทศบาล 1 |")
	assert.Contains(t, md, "| 52-123456 | 110 | 60 |")
	assert.Contains(t, md, "| 53-123457 | 40 | ต.ในเมือง |")
	assert.Contains(t, md, criticalAdvice[0])
	assert.Contains(t, md, unbalanceAdvice[0])
	assert.Contains(t, md, lossAdvice[0])
	assert.True(t, strings.HasSuffix(md, "\n"))
	assert.False(t, strings.HasSuffix(md, "\n\n"))
}

func TestRenderReportMarkdown_EmptyBuckets(t *testing.T) {
	md := RenderReportMarkdown(domain.Brief{}, domain.Summary{})

	assert.NotContains(t, md, "สร้างเมื่อ")
	assert.Contains(t, md, "ไม่พบหม้อแปลงที่มีโหลดเกิน 100%")
	assert.Contains(t, md, "ไม่พบหม้อแปลงที่มี Unbalance เกิน 50%")
	assert.Contains(t, md, "ไม่มีข้อมูลหน่วยสูญเสีย")
	assert.NotContains(t, md, "ข้อแนะนำ")
}

func TestRenderReportMarkdown_Deterministic(t *testing.T) {
	brief := sampleBrief()
	assert.Equal(t, RenderReportMarkdown(brief, domain.Summary{}), RenderReportMarkdown(brief, domain.Summary{}))
}

func TestRenderReportHTML(t *testing.T) {
	page := string(RenderReportHTML(RenderReportMarkdown(sampleBrief(), domain.Summary{})))

	require.NotEmpty(t, page)
	assert.Contains(t, page, "<title>"+ReportTitle+"</title>")
	assert.Contains(t, page, "<table>")
	assert.Contains(t, page, "<td>52-123456</td>")
	assert.Contains(t, page, "<li>")
	assert.Contains(t, page, "</html>")
}
