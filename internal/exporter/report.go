package exporter

import (
	"fmt"
	"strings"

	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"

	"github.com/tomtap1997/dashbord-tr/pkg/contracts/domain"
)

// ReportTitle heads both the markdown and the HTML report.
const ReportTitle = "รายงานวิเคราะห์หม้อแปลงไฟฟ้า"

const reportTimeLayout = "2006-01-02 15:04 MST"

// Fixed guidance per bucket. Shown only when the bucket has entries.
var (
	criticalAdvice = []string{
		"ตรวจวัดโหลดจริงช่วง Peak และพิจารณาเพิ่มขนาดหม้อแปลง (Upgrade kVA)",
		"แบ่งโหลดไปยังหม้อแปลงข้างเคียงหรือติดตั้งหม้อแปลงใหม่ (Load Transfer)",
		"ตรวจสอบแรงดันปลายสาย หากแรงดันตกเกิน 5% ให้ปรับแทปหรือเพิ่มขนาดสาย",
	}
	unbalanceAdvice = []string{
		"ย้ายโหลดผู้ใช้ไฟระหว่างเฟสให้สมดุล (Re-balancing) โดยเริ่มจากเฟสที่โหลดสูงสุด",
		"ตรวจสอบกระแสในสายนิวทรัล หากไม่แก้ไขจะเกิดความร้อนสะสมและแรงดันเฟสไม่สมดุล",
	}
	lossAdvice = []string{
		"ตรวจสอบจุดต่อและขั้วสายที่หลวมหรือเสื่อมสภาพ",
		"ตรวจหาการลักใช้ไฟและมิเตอร์ที่คลาดเคลื่อน",
	}
)

// RenderReportMarkdown builds the maintenance report. Output depends only on
// its arguments.
func RenderReportMarkdown(brief domain.Brief, summary domain.Summary) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# %s\n\n", ReportTitle)
	if !brief.GeneratedAt.IsZero() {
		fmt.Fprintf(&b, "_สร้างเมื่อ %s_\n\n", brief.GeneratedAt.UTC().Format(reportTimeLayout))
	}

	b.WriteString("## 1. ภาพรวมโหลดในระบบ\n\n")
	fmt.Fprintf(&b, "- หม้อแปลงทั้งหมด: %d เครื่อง\n", brief.Summary.TotalTransformers)
	fmt.Fprintf(&b, "- สถานะ Critical (โหลด > 100%%): %d เครื่อง\n", brief.Summary.CriticalCount)
	fmt.Fprintf(&b, "- สถานะ Warning (โหลด > 80%%): %d เครื่อง\n", brief.Summary.WarningCount)
	fmt.Fprintf(&b, "- Unbalance > 50%% และโหลด > 50%%: %d เครื่อง\n", brief.Summary.UnbalanceCriticalCount)
	fmt.Fprintf(&b, "- โหลดเฉลี่ย %s%% มัธยฐาน %s%% P95 %s%%\n",
		formatFixed(summary.AverageLoad), formatFixed(summary.MedianLoad), formatFixed(summary.P95Load))
	fmt.Fprintf(&b, "- หน่วยสูญเสียรวม: %s หน่วย\n", formatFixed(summary.TotalLoss))
	fmt.Fprintf(&b, "- สหสัมพันธ์ระหว่างโหลดกับแรงดันตก: %s\n\n", formatFixed(summary.LoadVoltageCorrelation))

	b.WriteString("## 2. หม้อแปลงสถานะ Critical\n\n")
	if len(brief.CriticalTransformers) == 0 {
		b.WriteString("ไม่พบหม้อแปลงที่มีโหลดเกิน 100%\n\n")
	} else {
		writeTable(&b, []string{"รหัสหม้อแปลง", "โหลด (%)", "แรงดันตก (%)", "สถานที่"}, len(brief.CriticalTransformers), func(i int) []string {
			t := brief.CriticalTransformers[i]
			return []string{t.ID, formatFloat(t.PeakLoadPercent), formatFloat(t.VoltageDropPercent), t.Location}
		})
		writeBullets(&b, criticalAdvice)
	}

	b.WriteString("## 3. หม้อแปลงที่มีปัญหา Unbalance\n\n")
	if len(brief.UnbalancedTransformers) == 0 {
		b.WriteString("ไม่พบหม้อแปลงที่มี Unbalance เกิน 50% ร่วมกับโหลดเกิน 50%\n\n")
	} else {
		writeTable(&b, []string{"รหัสหม้อแปลง", "โหลด (%)", "Unbalance (%)"}, len(brief.UnbalancedTransformers), func(i int) []string {
			t := brief.UnbalancedTransformers[i]
			return []string{t.ID, formatFloat(t.PeakLoadPercent), formatFloat(t.UnbalancePercent)}
		})
		writeBullets(&b, unbalanceAdvice)
	}

	b.WriteString("## 4. หม้อแปลงที่มีหน่วยสูญเสียสูง\n\n")
	if len(brief.HighLossTransformers) == 0 {
		b.WriteString("ไม่มีข้อมูลหน่วยสูญเสีย\n")
	} else {
		writeTable(&b, []string{"รหัสหม้อแปลง", "หน่วยสูญเสีย", "สถานที่"}, len(brief.HighLossTransformers), func(i int) []string {
			t := brief.HighLossTransformers[i]
			return []string{t.ID, formatFloat(t.SystemLoss), t.Location}
		})
		writeBullets(&b, lossAdvice)
	}

	return strings.TrimRight(b.String(), "\n") + "\n"
}

// RenderReportHTML converts a markdown report into a standalone HTML page.
func RenderReportHTML(md string) []byte {
	// parsers keep state between calls
	p := parser.NewWithExtensions(parser.CommonExtensions | parser.AutoHeadingIDs)
	renderer := html.NewRenderer(html.RendererOptions{
		Flags: html.CommonFlags | html.CompletePage | html.HrefTargetBlank,
		Title: ReportTitle,
	})
	return markdown.ToHTML([]byte(md), p, renderer)
}

func writeTable(b *strings.Builder, headers []string, n int, row func(int) []string) {
	b.WriteString("| " + strings.Join(headers, " | ") + " |\n")
	b.WriteString("|" + strings.Repeat(" --- |", len(headers)) + "\n")
	for i := 0; i < n; i++ {
		cells := row(i)
		for j, c := range cells {
			cells[j] = escapeCell(c)
		}
		b.WriteString("| " + strings.Join(cells, " | ") + " |\n")
	}
	b.WriteString("\n")
}

func writeBullets(b *strings.Builder, items []string) {
	b.WriteString("**ข้อแนะนำ**\n\n")
	for _, item := range items {
		b.WriteString("- " + item + "\n")
	}
	b.WriteString("\n")
}

func escapeCell(s string) string {
	s = strings.ReplaceAll(s, "|", `\|`)
	return strings.ReplaceAll(s, "\n", " ")
}
