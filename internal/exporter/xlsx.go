package exporter

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/tomtap1997/dashbord-tr/pkg/contracts/domain"
)

// TransformersSheet is the worksheet name used by XLSX exports.
const TransformersSheet = "Transformers"

var statusFills = map[domain.TransformerStatus]string{
	domain.StatusNormal:   "#DCFCE7",
	domain.StatusWarning:  "#FEF3C7",
	domain.StatusCritical: "#FEE2E2",
}

// WriteTransformersXLSX writes the records as a single-sheet workbook with a
// frozen header row. Numeric columns are stored as numbers.
func WriteTransformersXLSX(w io.Writer, records []domain.TransformerRecord) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), TransformersSheet); err != nil {
		return fmt.Errorf("failed to rename sheet: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#E5E7EB"}, Pattern: 1},
	})
	if err != nil {
		return fmt.Errorf("failed to create header style: %w", err)
	}

	statusStyles := make(map[domain.TransformerStatus]int, len(statusFills))
	for status, color := range statusFills {
		id, err := f.NewStyle(&excelize.Style{
			Fill: excelize.Fill{Type: "pattern", Color: []string{color}, Pattern: 1},
		})
		if err != nil {
			return fmt.Errorf("failed to create %s style: %w", status, err)
		}
		statusStyles[status] = id
	}

	sw, err := f.NewStreamWriter(TransformersSheet)
	if err != nil {
		return fmt.Errorf("failed to open stream writer: %w", err)
	}
	if err := sw.SetPanes(&excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	}); err != nil {
		return fmt.Errorf("failed to freeze header: %w", err)
	}
	if err := sw.SetColWidth(1, 2, 24); err != nil {
		return err
	}

	header := make([]interface{}, len(TransformerHeaders))
	for i, h := range TransformerHeaders {
		header[i] = excelize.Cell{StyleID: headerStyle, Value: h}
	}
	if err := sw.SetRow("A1", header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	for i, r := range records {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		row := []interface{}{
			r.ID,
			r.Location,
			r.RatedCapacityKVA,
			r.PeakLoadPercent,
			r.EndVoltage,
			r.VoltageDropPercent,
			r.SystemLoss,
			r.PhaseCount,
			r.UnbalancePercent,
			excelize.Cell{StyleID: statusStyles[r.Status], Value: string(r.Status)},
		}
		if err := sw.SetRow(cell, row); err != nil {
			return fmt.Errorf("failed to write row %d: %w", i+2, err)
		}
	}

	if err := sw.Flush(); err != nil {
		return fmt.Errorf("failed to flush workbook: %w", err)
	}
	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}
