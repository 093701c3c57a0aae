package exporter

import (
	"bytes"
	"encoding/csv"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tomtap1997/dashbord-tr/internal/config"
	"github.com/tomtap1997/dashbord-tr/pkg/contracts/domain"
)

func sampleRecords() []domain.TransformerRecord {
	return []domain.TransformerRecord{
		{
			ID: "52-123456", Location: "ซอยเทศบาล 1", RatedCapacityKVA: 50, PeakLoadPercent: 110,
			EndVoltage: 210, VoltageDropPercent: 8.7, SystemLoss: 320, PhaseCount: 3,
			UnbalancePercent: 60, Status: domain.StatusCritical,
		},
		{
			ID: "53-123457", Location: "ต.ในเมือง", RatedCapacityKVA: 160, PeakLoadPercent: 85,
			EndVoltage: 230, VoltageDropPercent: 0, SystemLoss: 40, PhaseCount: 3,
			UnbalancePercent: 12, Status: domain.StatusWarning,
		},
		{
			ID: "52-123458", Location: "ตลาดสด", RatedCapacityKVA: 100, PeakLoadPercent: 45.5,
			EndVoltage: 225, VoltageDropPercent: 2.17, SystemLoss: 0, PhaseCount: 3,
			UnbalancePercent: 5, Status: domain.StatusNormal,
		},
	}
}

func TestRecordToRow(t *testing.T) {
	row := RecordToRow(sampleRecords()[0])

	require.Len(t, row, len(TransformerHeaders))
	assert.Equal(t, []string{"52-123456", "ซอยเทศบาล 1", "50", "110", "210", "8.7", "320", "3", "60", "Critical"}, row)
}

func TestWriteTransformersCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteTransformersCSV(&buf, sampleRecords()))

	require.True(t, bytes.HasPrefix(buf.Bytes(), utf8BOM))
	rows, err := csv.NewReader(bytes.NewReader(buf.Bytes()[len(utf8BOM):])).ReadAll()
	require.NoError(t, err)

	require.Len(t, rows, 4)
	assert.Equal(t, TransformerHeaders, rows[0])
	assert.Equal(t, "53-123457", rows[2][0])
	assert.Equal(t, "2.17", rows[3][5])
	assert.Equal(t, "Normal", rows[3][9])
}

func TestWriteTransformersCSV_Empty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteTransformersCSV(&buf, nil))

	rows, err := csv.NewReader(bytes.NewReader(bytes.TrimPrefix(buf.Bytes(), utf8BOM))).ReadAll()
	require.NoError(t, err)
	assert.Equal(t, [][]string{TransformerHeaders}, rows)
}

func TestTransformerExporter_ExportFile(t *testing.T) {
	dir := t.TempDir()
	exp := NewTransformerExporter(&config.Paths{ReportsDir: dir}, nil)

	require.NoError(t, exp.ExportFile(sampleRecords(), "survey_transformers.csv"))

	hasBOM, rows := readCSV(t, filepath.Join(dir, "survey_transformers.csv"))
	assert.True(t, hasBOM)
	require.Len(t, rows, 4)
	assert.Equal(t, "52-123456", rows[1][0])
}

func TestTransformerExporter_ExportCombined(t *testing.T) {
	dir := t.TempDir()
	exp := NewTransformerExporter(&config.Paths{ReportsDir: dir}, nil)
	recs := sampleRecords()

	written, err := exp.ExportCombined([]SourceRecords{
		{Source: "north.xlsx", Records: recs[:2]},
		{Source: "south.csv", Records: recs[2:]},
		{Source: "empty.csv"},
	}, "combined.csv")
	require.NoError(t, err)
	assert.Equal(t, 3, written)

	_, rows := readCSV(t, filepath.Join(dir, "combined.csv"))
	require.Len(t, rows, 4)
	assert.Equal(t, append([]string{SourceHeader}, TransformerHeaders...), rows[0])
	assert.Equal(t, []string{"north.xlsx", "52-123456"}, rows[1][:2])
	assert.Equal(t, []string{"north.xlsx", "53-123457"}, rows[2][:2])
	assert.Equal(t, []string{"south.csv", "52-123458"}, rows[3][:2])
}
