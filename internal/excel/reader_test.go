package excel

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/toranj-io/daftar/internal/common"
)

// buildWorkbook writes rows into a fresh in-memory workbook and returns
// its serialized bytes.
func buildWorkbook(t *testing.T, rows [][]any) *bytes.Buffer {
	t.Helper()
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	sheet := f.GetSheetList()[0]
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow(sheet, cell, &row))
	}

	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	return buf
}

func TestReadRecords_PersianHeaders(t *testing.T) {
	buf := buildWorkbook(t, [][]any{
		{"کد زیرپروژه", "عنوان قرارداد", "مبلغ کل قرارداد"},
		{"SP-1", "Road works", 1000},
	})

	records, err := NewReader().ReadRecords(context.Background(), buf)
	require.NoError(t, err)
	require.Len(t, records, 1)

	rec := records[0]
	assert.Equal(t, "SP-1", rec.SubProjectCode)
	assert.Equal(t, "Road works", rec.ContractTitle)
	require.NotNil(t, rec.TotalContractAmount)
	assert.True(t, rec.TotalContractAmount.Equal(decimal.NewFromInt(1000)))
}

func TestReadRecords_MissingCodeHeader(t *testing.T) {
	buf := buildWorkbook(t, [][]any{
		{"عنوان قرارداد", "مبلغ کل قرارداد"},
		{"Road works", 1000},
	})

	_, err := NewReader().ReadRecords(context.Background(), buf)
	assert.True(t, errors.Is(err, common.ErrMissingCodeHeader), "got %v", err)
}

func TestReadRecords_SkipsRowsWithoutCode(t *testing.T) {
	buf := buildWorkbook(t, [][]any{
		{"کد زیرپروژه", "عنوان قرارداد"},
		{"SP-1", "First"},
		{"", "spacer row"},
		{"SP-2", "Second"},
	})

	records, err := NewReader().ReadRecords(context.Background(), buf)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "SP-1", records[0].SubProjectCode)
	assert.Equal(t, "SP-2", records[1].SubProjectCode)
}

func TestReadRecords_CanonicalHeaderNamesAlsoMatch(t *testing.T) {
	buf := buildWorkbook(t, [][]any{
		{"Sub Project Code", "Contract Title"},
		{"SP-1", "Road works"},
	})

	records, err := NewReader().ReadRecords(context.Background(), buf)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "Road works", records[0].ContractTitle)
}

func TestReadRecords_DecimalCoercion(t *testing.T) {
	tests := []struct {
		name  string
		cell  any
		want  string
		isNil bool
	}{
		{name: "plain number", cell: 1000, want: "1000"},
		{name: "number as text", cell: "2500.75", want: "2500.75"},
		{name: "grouped text", cell: "1,234,567", want: "1234567"},
		{name: "percent text keeps displayed value", cell: "12.5%", want: "12.5"},
		{name: "persian digits", cell: "۴۵۰۰", want: "4500"},
		{name: "negative number", cell: -250, want: "-250"},
		{name: "garbage text", cell: "abc", isNil: true},
		{name: "empty cell", cell: "", isNil: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := buildWorkbook(t, [][]any{
				{"کد زیرپروژه", "مبلغ کل قرارداد"},
				{"SP-1", tt.cell},
			})

			records, err := NewReader().ReadRecords(context.Background(), buf)
			require.NoError(t, err)
			require.Len(t, records, 1)

			got := records[0].TotalContractAmount
			if tt.isNil {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.Equal(t, tt.want, got.String())
		})
	}
}

func TestReadRecords_PercentFormattedNumber(t *testing.T) {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()
	sheet := f.GetSheetList()[0]

	require.NoError(t, f.SetCellValue(sheet, "A1", "کد زیرپروژه"))
	require.NoError(t, f.SetCellValue(sheet, "B1", "درصد پیشرفت"))
	require.NoError(t, f.SetCellValue(sheet, "A2", "SP-1"))
	require.NoError(t, f.SetCellValue(sheet, "B2", 0.45))

	styleID, err := f.NewStyle(&excelize.Style{NumFmt: 10}) // "0.00%"
	require.NoError(t, err)
	require.NoError(t, f.SetCellStyle(sheet, "B2", "B2", styleID))

	buf, err := f.WriteToBuffer()
	require.NoError(t, err)

	records, err := NewReader().ReadRecords(context.Background(), buf)
	require.NoError(t, err)
	require.Len(t, records, 1)

	// Underlying 0.45 displayed as 45% must extract as 45.
	require.NotNil(t, records[0].TotalWorkProgress)
	assert.Equal(t, "45", records[0].TotalWorkProgress.String())
}

func TestReadRecords_DateCoercion(t *testing.T) {
	tests := []struct {
		name string
		cell any
		want string
	}{
		{name: "iso text", cell: "2024-08-28", want: "2024-08-28"},
		{name: "slash text", cell: "2024/08/28", want: "2024-08-28"},
		{name: "jalali text reformatted but kept in its calendar", cell: "1403/06/07", want: "1403-06-07"},
		{name: "persian digit text", cell: "۱۴۰۳/۰۶/۰۷", want: "1403-06-07"},
		{name: "unparsable text preserved", cell: "در حال تمدید", want: "در حال تمدید"},
		{name: "empty", cell: "", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := buildWorkbook(t, [][]any{
				{"کد زیرپروژه", "تاریخ قرارداد"},
				{"SP-1", tt.cell},
			})

			records, err := NewReader().ReadRecords(context.Background(), buf)
			require.NoError(t, err)
			require.Len(t, records, 1)
			assert.Equal(t, tt.want, records[0].ContractDate)
		})
	}
}

func TestReadRecords_NativeDateCell(t *testing.T) {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()
	sheet := f.GetSheetList()[0]

	require.NoError(t, f.SetCellValue(sheet, "A1", "کد زیرپروژه"))
	require.NoError(t, f.SetCellValue(sheet, "B1", "تاریخ قرارداد"))
	require.NoError(t, f.SetCellValue(sheet, "A2", "SP-1"))
	require.NoError(t, f.SetCellValue(sheet, "B2", time.Date(2024, 8, 28, 0, 0, 0, 0, time.UTC)))

	buf, err := f.WriteToBuffer()
	require.NoError(t, err)

	records, err := NewReader().ReadRecords(context.Background(), buf)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "2024-08-28", records[0].ContractDate)
}

func TestReadRecords_Cancellation(t *testing.T) {
	buf := buildWorkbook(t, [][]any{
		{"کد زیرپروژه"},
		{"SP-1"},
		{"SP-2"},
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewReader().ReadRecords(ctx, buf)
	assert.True(t, errors.Is(err, context.Canceled), "got %v", err)
}

func TestNormalizeHeader(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"کد زیرپروژه", "کدزیرپروژه"},
		{"Sub Project Code", "subprojectcode"},
		{"  Contract-Title! ", "contracttitle"},
		{"مبلغ کل صورت وضعیت‌ها", "مبلغکلصورتوضعیتها"},
	}

	for _, tt := range tests {
		if got := normalizeHeader(tt.input); got != tt.want {
			t.Errorf("normalizeHeader(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}
