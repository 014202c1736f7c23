package excel

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"github.com/toranj-io/daftar/internal/jalali"
	"github.com/toranj-io/daftar/internal/model"
)

// dateLayouts are the Gregorian forms accepted for text cells in date
// columns, tried in order.
var dateLayouts = []string{
	"2006-01-02",
	"2006/01/02",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02T15:04:05Z07:00",
	"01/02/2006",
	"1/2/2006",
}

// Built-in number format IDs that render a serial number as a date or
// time. See ECMA-376 18.8.30.
var builtInDateFormats = map[int]bool{
	14: true, 15: true, 16: true, 17: true, 22: true,
	27: true, 28: true, 29: true, 30: true, 31: true,
	32: true, 33: true, 34: true, 35: true, 36: true,
	45: true, 46: true, 47: true,
}

// Built-in percentage formats ("0%" and "0.00%").
var builtInPercentFormats = map[int]bool{9: true, 10: true}

// extractor reads typed values out of one worksheet using a resolved
// header map.
type extractor struct {
	file    *excelize.File
	sheet   string
	headers map[string]int
}

func (e *extractor) cellName(col, row int) string {
	name, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return ""
	}
	return name
}

// cellString returns the trimmed display text of a cell; "" means absent.
func (e *extractor) cellString(col, row int) string {
	v, err := e.file.GetCellValue(e.sheet, e.cellName(col, row))
	if err != nil {
		return ""
	}
	return strings.TrimSpace(v)
}

// fieldString extracts a text field; an unmapped header is simply absent.
func (e *extractor) fieldString(field string, row int) string {
	col, ok := findColumn(e.headers, field)
	if !ok {
		return ""
	}
	return e.cellString(col, row)
}

// fieldDate extracts a date field as a Gregorian yyyy-MM-dd string.
//
// Native date cells and numeric cells with a date-looking format are
// converted from their underlying value. Text cells are parsed with the
// known Gregorian layouts after digit normalization; when parsing fails
// the trimmed original text is kept as-is, so a Jalali or otherwise
// human-meaningful date survives instead of being discarded.
func (e *extractor) fieldDate(field string, row int) string {
	col, ok := findColumn(e.headers, field)
	if !ok {
		return ""
	}
	cell := e.cellName(col, row)

	raw, err := e.file.GetCellValue(e.sheet, cell, excelize.Options{RawCellValue: true})
	if err != nil || strings.TrimSpace(raw) == "" {
		return ""
	}

	cellType, _ := e.file.GetCellType(e.sheet, cell)
	if cellType == excelize.CellTypeDate {
		for _, layout := range []string{time.RFC3339, "2006-01-02T15:04:05", "2006-01-02"} {
			if t, perr := time.Parse(layout, strings.TrimSpace(raw)); perr == nil {
				return t.Format("2006-01-02")
			}
		}
	}

	// Serial number with a date-like display format.
	if serial, derr := decimal.NewFromString(strings.TrimSpace(raw)); derr == nil {
		if e.formatLooksLikeDate(cell) {
			if t, terr := excelize.ExcelDateToTime(serial.InexactFloat64(), false); terr == nil {
				return t.Format("2006-01-02")
			}
		}
	}

	// Text cell: parse, or keep the trimmed original.
	txt := e.cellString(col, row)
	if txt == "" {
		return ""
	}
	normalized := jalali.NormalizeDigits(txt)
	for _, layout := range dateLayouts {
		if t, perr := time.Parse(layout, normalized); perr == nil {
			return t.Format("2006-01-02")
		}
	}
	return txt
}

// fieldDecimal extracts a monetary field. Numeric cells convert directly,
// with percentage formats scaled so the value matches what the sheet
// displays ("45%" stored as 0.45 yields 45). Text cells are trimmed,
// digit-normalized and parsed; a trailing percent sign is stripped without
// rescaling. Unparsable content yields nil, never an error.
func (e *extractor) fieldDecimal(field string, row int) *decimal.Decimal {
	col, ok := findColumn(e.headers, field)
	if !ok {
		return nil
	}
	cell := e.cellName(col, row)

	raw, err := e.file.GetCellValue(e.sheet, cell, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil
	}
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}

	if d, derr := decimal.NewFromString(raw); derr == nil {
		if e.formatIsPercent(cell) {
			d = d.Mul(decimal.NewFromInt(100))
		}
		return model.Dec(d)
	}

	txt := jalali.NormalizeDigits(e.cellString(col, row))
	if txt == "" {
		return nil
	}

	// A percent suffix marks the number as already being the displayed
	// percentage; it is not multiplied again.
	for _, suffix := range []string{"%", "٪"} {
		if strings.HasSuffix(txt, suffix) {
			txt = strings.TrimSpace(strings.TrimSuffix(txt, suffix))
			break
		}
	}

	// Drop grouping separators before parsing.
	txt = strings.NewReplacer(",", "", "٬", "", " ", "").Replace(txt)

	if d, derr := decimal.NewFromString(txt); derr == nil {
		return model.Dec(d)
	}
	return nil
}

// formatLooksLikeDate reports whether the cell's number format contains
// date tokens (year/month/day letters) or is a built-in date format.
func (e *extractor) formatLooksLikeDate(cell string) bool {
	id, code := e.numberFormat(cell)
	if builtInDateFormats[id] {
		return true
	}
	return strings.ContainsAny(code, "ydm")
}

// formatIsPercent reports whether the cell's number format renders the
// value as a percentage.
func (e *extractor) formatIsPercent(cell string) bool {
	id, code := e.numberFormat(cell)
	return builtInPercentFormats[id] || strings.Contains(code, "%")
}

func (e *extractor) numberFormat(cell string) (id int, code string) {
	styleID, err := e.file.GetCellStyle(e.sheet, cell)
	if err != nil {
		return 0, ""
	}
	style, err := e.file.GetStyle(styleID)
	if err != nil || style == nil {
		return 0, ""
	}
	if style.CustomNumFmt != nil {
		code = *style.CustomNumFmt
	}
	return style.NumFmt, code
}
