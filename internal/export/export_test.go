package export

import (
	"bytes"
	"encoding/csv"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"labelscan/internal/domain"
)

func sampleOutcome() *domain.BatchOutcome {
	return &domain.BatchOutcome{
		ID: uuid.MustParse("6f1c2d4e-8a9b-4c3d-9e2f-0a1b2c3d4e5f"),
		Results: []domain.AnalysisResult{
			{Filename: "drawer1.jpg", ExtractedText: "Holotypus\nCarabus auratus L."},
			{Filename: "drawer3.png", ExtractedText: "Coll. Müller, 1921"},
		},
		Failures: []domain.FileFailure{
			{Filename: "drawer2.jpg", Kind: domain.FailureQuota, Message: "API limit hit while processing drawer2.jpg. Skipped.", Cause: errors.New("429")},
		},
		FinishedAt: time.Date(2026, 3, 2, 9, 15, 0, 0, time.UTC),
	}
}

func TestWriteHeader(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf)
	require.NoError(t, w.WriteHeader())
	w.Flush()
	require.NoError(t, w.Error())

	row, err := csv.NewReader(&buf).Read()
	require.NoError(t, err)

	assert.Len(t, row, 7)
	assert.Equal(t, "File Name", row[0])
	assert.Equal(t, "Extracted Text", row[3])
	assert.Equal(t, "Finished At", row[6])
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, sampleOutcome()))

	data := buf.Bytes()
	require.True(t, bytes.HasPrefix(data, BOM))

	rows, err := csv.NewReader(bytes.NewReader(data[len(BOM):])).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 4)

	assert.Equal(t, []string{
		"drawer1.jpg", "succeeded", "", "Holotypus\nCarabus auratus L.", "",
		"6f1c2d4e-8a9b-4c3d-9e2f-0a1b2c3d4e5f", "2026-03-02T09:15:00Z",
	}, rows[1])
	assert.Equal(t, "drawer3.png", rows[2][0])
	assert.Equal(t, "Coll. Müller, 1921", rows[2][3])
	assert.Equal(t, "drawer2.jpg", rows[3][0])
	assert.Equal(t, "failed", rows[3][1])
	assert.Equal(t, "quota", rows[3][2])
	assert.Equal(t, "API limit hit while processing drawer2.jpg. Skipped.", rows[3][4])
}

func TestWriteCSV_Empty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, &domain.BatchOutcome{}))

	rows, err := csv.NewReader(bytes.NewReader(buf.Bytes()[len(BOM):])).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 1)
}

func TestWriteXLSX(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteXLSX(&buf, sampleOutcome()))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer func() { _ = f.Close() }()

	assert.Equal(t, []string{"Results", "Failures"}, f.GetSheetList())

	rows, err := f.GetRows("Results")
	require.NoError(t, err)
	require.Len(t, rows, 4)
	assert.Equal(t, "File Name", rows[0][0])
	assert.Equal(t, "drawer1.jpg", rows[1][0])
	assert.Equal(t, "Holotypus\nCarabus auratus L.", rows[1][3])

	failures, err := f.GetRows("Failures")
	require.NoError(t, err)
	require.Len(t, failures, 2)
	assert.Equal(t, []string{"drawer2.jpg", "quota", "API limit hit while processing drawer2.jpg. Skipped."}, failures[1])
}

func TestSanitizeFilename(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"simple", "Drawer 12 Labels", "Drawer_12_Labels"},
		{"special chars", "Coll. Müller / Box (3)", "Coll_M_ller_Box_3"},
		{"hyphens and underscores preserved", "tray-4_2025", "tray-4_2025"},
		{"consecutive underscores collapsed", "ocr___results", "ocr_results"},
		{"leading/trailing cleaned", "  hello  ", "hello"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, SanitizeFilename(tt.input))
		})
	}
}

func TestBuildFilename(t *testing.T) {
	today := time.Now().Format("2006-01-02")

	assert.Equal(t, "ocr_results_"+today+".csv", BuildFilename("ocr results", "csv"))
	assert.Equal(t, "batch_"+today+".xlsx", BuildFilename("///", "xlsx"))
}
