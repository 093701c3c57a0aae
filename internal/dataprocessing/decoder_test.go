package dataprocessing

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/tomtap1997/dashbord-tr/internal/errors"
	"github.com/tomtap1997/dashbord-tr/internal/shared/testutil"
)

func TestParseFile_XLSX(t *testing.T) {
	path := testutil.WriteSurveyWorkbook(t, t.TempDir(), testutil.SampleSurveyRows())

	wb, err := ParseFile(path)
	require.NoError(t, err)
	require.Len(t, wb.Sheets, 1)

	sheet := wb.Sheets[0]
	require.Len(t, sheet.Rows, 7)

	// numbers written natively come back as numbers, text stays text
	assert.Equal(t, TextCell("52-123456"), sheet.Rows[1].At(0))
	assert.Equal(t, NumberCell(110), sheet.Rows[1].At(13))
	assert.Equal(t, TextCell("53123457"), sheet.Rows[2].At(0))
	assert.True(t, sheet.Rows[2].At(1).IsEmpty())
	assert.Empty(t, sheet.Rows[5])
	assert.Equal(t, TextCell("100 kVA"), sheet.Rows[6].At(3))
	assert.Equal(t, TextCell("n/a"), sheet.Rows[6].At(20))
}

func TestParseFile_CSV(t *testing.T) {
	path := testutil.WriteSurveyCSV(t, t.TempDir(), testutil.SampleSurveyRows())

	wb, err := ParseFile(path)
	require.NoError(t, err)
	require.Len(t, wb.Sheets, 1)
	assert.Equal(t, "survey", wb.Sheets[0].Name)

	records := NewExtractor().ExtractWorkbook(wb)
	ids := make([]string, len(records))
	for i, r := range records {
		ids[i] = r.ID
	}
	assert.Equal(t, testutil.SampleAcceptedIDs, ids)
}

func TestDecodeCSV(t *testing.T) {
	input := "\xEF\xBB\xBF52-123456,ตลาด,,50\n\"53123457\",\"บ้าน, ตำบล\"\n0512345678,x\n"

	wb, err := DecodeCSV(strings.NewReader(input), "")
	require.NoError(t, err)

	sheet := wb.Sheets[0]
	assert.Equal(t, "Sheet1", sheet.Name)
	require.Len(t, sheet.Rows, 3)
	assert.Equal(t, TextCell("52-123456"), sheet.Rows[0].At(0))
	assert.True(t, sheet.Rows[0].At(2).IsEmpty())
	assert.Equal(t, NumberCell(50), sheet.Rows[0].At(3))
	assert.Len(t, sheet.Rows[1], 2)
	assert.Equal(t, NumberCell(53123457), sheet.Rows[1].At(0))
	assert.Equal(t, TextCell("บ้าน, ตำบล"), sheet.Rows[1].At(1))
	assert.Equal(t, TextCell("0512345678"), sheet.Rows[2].At(0))
}

func TestDecode_Errors(t *testing.T) {
	tests := []struct {
		name     string
		filename string
		data     []byte
		want     error
	}{
		{
			name:     "corrupt workbook",
			filename: "survey.xlsx",
			data:     []byte("definitely not a zip archive"),
			want:     apperrors.ErrUnreadableFile,
		},
		{
			name:     "legacy binary workbook",
			filename: "SURVEY.XLS",
			data:     []byte{0xD0, 0xCF, 0x11, 0xE0, 0xA1, 0xB1, 0x1A, 0xE1},
			want:     apperrors.ErrUnreadableFile,
		},
		{
			name:     "unsupported extension",
			filename: "survey.pdf",
			data:     []byte("%PDF-1.7"),
			want:     apperrors.ErrUnsupportedFileType,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode(bytes.NewReader(tt.data), tt.filename)
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.want), "got %v", err)
		})
	}
}

func TestParseFile_Missing(t *testing.T) {
	_, err := ParseFile(filepath.Join(t.TempDir(), "missing.xlsx"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrUnreadableFile))
	assert.True(t, errors.Is(err, os.ErrNotExist))
}
