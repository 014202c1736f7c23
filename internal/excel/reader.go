// Package excel reads budget records out of uploaded spreadsheets.
//
// Sheets arrive with Persian headers in inconsistent order, spacing and
// punctuation, so columns are located by normalized header matching against
// a synonym table rather than by position. Cell values are coerced
// heuristically: spreadsheet input is untrusted, and a cell that cannot be
// read as a number or date degrades to nil or to its original text instead
// of failing the whole sheet.
package excel

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"unicode"

	"github.com/xuri/excelize/v2"

	"github.com/toranj-io/daftar/internal/common"
	"github.com/toranj-io/daftar/internal/model"
)

// headerSynonyms maps each canonical field to the Persian headers it may
// appear under. Matching tries the canonical name first, then each synonym,
// all normalized. The table is constant; it is never mutated at runtime.
var headerSynonyms = map[string][]string{
	"SubProjectCode":            {"کد زیرپروژه", "کدزیرپروژه"},
	"ContractTitle":             {"عنوان قرارداد"},
	"ContractNumber":            {"شماره قرارداد"},
	"ContractDate":              {"تاریخ قرارداد"},
	"Contractor":                {"پیمانکار"},
	"Agent":                     {"کارگزار"},
	"ContractStatus":            {"وضعیت قرارداد"},
	"TotalContractAmount":       {"مبلغ کل قرارداد"},
	"InitialAmount":             {"مبلغ اولیه"},
	"CurrentYearCashCredit":     {"تامین اعتبار نقدی سال جاری"},
	"CurrentYearNonCashCredit":  {"تامین اعتبار غیرنقدی سال جاری"},
	"CurrentYearTotalCredit":    {"مبلغ کل تامین اعتبار سال جاری"},
	"TotalCreditFromStart":      {"کل مبلغ تامین از ابتدای پیمان"},
	"ExecutiveDept":             {"معاونت اجرایی"},
	"StartDate":                 {"تاریخ شروع"},
	"EndDate":                   {"تاریخ خاتمه"},
	"ExtendedEndDate":           {"تاریخ تمدید یافته"},
	"WorkReferralMethod":        {"نحوه ارجاع کار"},
	"TotalInvoicesAmount":       {"مبلغ کل صورت وضعیت ها", "مبلغ کل صورت وضعیت‌ها"},
	"TotalWorkProgress":         {"مبلغ کل کارکرد", "درصد پیشرفت"},
	"CurrentYearInvoicesAmount": {"مبلغ صورت وضعیت ها در سال جاری", "مبلغ صورت وضعیت‌ها در سال جاری"},
	"CreditNumber":              {"شماره تامین", "شماره تأمین"},
	"Nature":                    {"ماهیت"},
}

// normalizeHeader strips every rune that is not a Unicode letter or digit
// and lower-cases the rest, so matching ignores spacing, punctuation and
// zero-width joiners that creep into Persian spreadsheet headers.
func normalizeHeader(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(unicode.ToLower(r))
		}
	}
	return b.String()
}

// Reader extracts budget records from xlsx workbooks.
type Reader struct{}

// NewReader creates a spreadsheet reader.
func NewReader() *Reader {
	return &Reader{}
}

// ReadRecords parses the first worksheet of the workbook. The header row
// must contain a recognizable SubProjectCode column or the whole sheet is
// rejected; data rows without a code are treated as non-data (spacer rows)
// and skipped. Cancellation is checked at every row boundary.
func (r *Reader) ReadRecords(ctx context.Context, src io.Reader) ([]model.BudgetRecord, error) {
	f, err := excelize.OpenReader(src)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer func() { _ = f.Close() }()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, common.ErrNoWorksheet
	}
	sheet := sheets[0]

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q: %w", sheet, err)
	}
	if len(rows) == 0 {
		return nil, nil
	}

	// The header is the first row containing any non-blank cell.
	headerIdx := -1
	for i, row := range rows {
		for _, cell := range row {
			if strings.TrimSpace(cell) != "" {
				headerIdx = i
				break
			}
		}
		if headerIdx >= 0 {
			break
		}
	}
	if headerIdx < 0 {
		return nil, nil
	}

	headerMap := buildHeaderMap(rows[headerIdx])

	codeCol, ok := findColumn(headerMap, "SubProjectCode")
	if !ok {
		return nil, common.ErrMissingCodeHeader
	}

	ex := &extractor{file: f, sheet: sheet, headers: headerMap}

	var records []model.BudgetRecord
	for i := headerIdx + 1; i < len(rows); i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		rowNum := i + 1
		code := ex.cellString(codeCol, rowNum)
		if code == "" {
			continue
		}

		rec := model.BudgetRecord{SubProjectCode: code}

		rec.ContractTitle = ex.fieldString("ContractTitle", rowNum)
		rec.ContractNumber = ex.fieldString("ContractNumber", rowNum)
		rec.Contractor = ex.fieldString("Contractor", rowNum)
		rec.Agent = ex.fieldString("Agent", rowNum)
		rec.ContractStatus = ex.fieldString("ContractStatus", rowNum)
		rec.ExecutiveDept = ex.fieldString("ExecutiveDept", rowNum)
		rec.WorkReferralMethod = ex.fieldString("WorkReferralMethod", rowNum)
		rec.CreditNumber = ex.fieldString("CreditNumber", rowNum)
		rec.Nature = ex.fieldString("Nature", rowNum)

		rec.ContractDate = ex.fieldDate("ContractDate", rowNum)
		rec.StartDate = ex.fieldDate("StartDate", rowNum)
		rec.EndDate = ex.fieldDate("EndDate", rowNum)
		rec.ExtendedEndDate = ex.fieldDate("ExtendedEndDate", rowNum)

		rec.TotalContractAmount = ex.fieldDecimal("TotalContractAmount", rowNum)
		rec.InitialAmount = ex.fieldDecimal("InitialAmount", rowNum)
		rec.CurrentYearCashCredit = ex.fieldDecimal("CurrentYearCashCredit", rowNum)
		rec.CurrentYearNonCashCredit = ex.fieldDecimal("CurrentYearNonCashCredit", rowNum)
		rec.CurrentYearTotalCredit = ex.fieldDecimal("CurrentYearTotalCredit", rowNum)
		rec.TotalCreditFromStart = ex.fieldDecimal("TotalCreditFromStart", rowNum)
		rec.TotalInvoicesAmount = ex.fieldDecimal("TotalInvoicesAmount", rowNum)
		rec.TotalWorkProgress = ex.fieldDecimal("TotalWorkProgress", rowNum)
		rec.CurrentYearInvoicesAmount = ex.fieldDecimal("CurrentYearInvoicesAmount", rowNum)

		records = append(records, rec)
	}

	slog.Debug("Parsed worksheet",
		"sheet", sheet,
		"rows", len(rows)-headerIdx-1,
		"records", len(records))

	return records, nil
}

// buildHeaderMap maps normalized header text to its 1-based column number.
// The first occurrence of a duplicated header wins.
func buildHeaderMap(headerRow []string) map[string]int {
	m := make(map[string]int, len(headerRow))
	for i, raw := range headerRow {
		if strings.TrimSpace(raw) == "" {
			continue
		}
		key := normalizeHeader(raw)
		if _, exists := m[key]; !exists {
			m[key] = i + 1
		}
	}
	return m
}

// findColumn resolves a canonical field name to a column number, trying
// the canonical name itself and then each localized synonym.
func findColumn(headerMap map[string]int, field string) (int, bool) {
	if col, ok := headerMap[normalizeHeader(field)]; ok {
		return col, true
	}
	for _, syn := range headerSynonyms[field] {
		if col, ok := headerMap[normalizeHeader(syn)]; ok {
			return col, true
		}
	}
	return 0, false
}
