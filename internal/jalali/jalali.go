// Package jalali converts between the Jalali (Persian solar) calendar and
// Gregorian time, and normalizes Persian/Arabic digit scripts for parsing.
//
// Business dates in the ledger are stored as opaque Gregorian strings; the
// Jalali calendar appears only at the import and report boundaries. The
// conversion here has to be exact: a wrong leap-year rule silently corrupts
// every date-range report.
package jalali

import (
	"errors"
	"strconv"
	"strings"
	"time"
)

// ErrInvalidDate indicates a string that cannot be read as a Jalali date.
var ErrInvalidDate = errors.New("invalid jalali date")

// Jump years of the arithmetic Jalali calendar. Each entry starts a period
// with a regular 33-year leap cycle; the table covers years 1 through 3177.
var breaks = []int{
	-61, 9, 38, 199, 426, 686, 756, 818, 1111, 1181,
	1210, 1635, 2060, 2097, 2192, 2262, 2324, 2394, 2456, 3178,
}

// NormalizeDigits maps Extended Arabic-Indic (U+06F0..U+06F9) and
// Arabic-Indic (U+0660..U+0669) digits to ASCII 0-9. Every other rune
// passes through unchanged.
func NormalizeDigits(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		switch {
		case r >= '۰' && r <= '۹': // U+06F0..U+06F9
			b.WriteRune('0' + (r - '۰'))
		case r >= '٠' && r <= '٩': // U+0660..U+0669
			b.WriteRune('0' + (r - '٠'))
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}

// IsLeapYear reports whether the given Jalali year has 366 days.
func IsLeapYear(year int) bool {
	leap, _, _ := calPeriod(year)
	return leap == 0
}

// MonthDays returns the number of days in the given Jalali month:
// 31 for months 1-6, 30 for 7-11, 29 for month 12 (30 in leap years).
// Returns 0 for a month outside 1-12.
func MonthDays(year, month int) int {
	switch {
	case month >= 1 && month <= 6:
		return 31
	case month >= 7 && month <= 11:
		return 30
	case month == 12:
		if IsLeapYear(year) {
			return 30
		}
		return 29
	default:
		return 0
	}
}

// Parse reads a Jalali date written as year/month/day (separated by '/' or
// '-'), validates it against the calendar, and returns the equivalent
// Gregorian instant at midnight UTC. The input must already be
// digit-normalized; use NormalizeDigits for user-entered text.
func Parse(s string) (time.Time, error) {
	if strings.TrimSpace(s) == "" {
		return time.Time{}, ErrInvalidDate
	}

	parts := strings.FieldsFunc(s, func(r rune) bool {
		return r == '/' || r == '-'
	})
	if len(parts) != 3 {
		return time.Time{}, ErrInvalidDate
	}

	nums := make([]int, 3)
	for i, p := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return time.Time{}, ErrInvalidDate
		}
		nums[i] = n
	}
	year, month, day := nums[0], nums[1], nums[2]

	if month < 1 || month > 12 {
		return time.Time{}, ErrInvalidDate
	}
	if day < 1 || day > MonthDays(year, month) {
		return time.Time{}, ErrInvalidDate
	}

	return ToTime(year, month, day), nil
}

// Format renders a Gregorian instant as a zero-padded Jalali yyyy/MM/dd
// string.
func Format(t time.Time) string {
	y, m, d := FromTime(t)
	return pad4(y) + "/" + pad2(m) + "/" + pad2(d)
}

// FormatDateTime renders a Gregorian instant as a Jalali date followed by
// the Gregorian time of day, e.g. "1403/06/10 14:05:09".
func FormatDateTime(t time.Time) string {
	return Format(t) + " " + t.Format("15:04:05")
}

// ToTime converts a Jalali date to the equivalent Gregorian instant at
// midnight UTC. The date is assumed valid; use Parse for untrusted input.
func ToTime(year, month, day int) time.Time {
	gy, gm, gd := jdnToGregorian(jalaliToJDN(year, month, day))
	return time.Date(gy, time.Month(gm), gd, 0, 0, 0, 0, time.UTC)
}

// FromTime converts a Gregorian instant to its Jalali year, month and day.
func FromTime(t time.Time) (year, month, day int) {
	gy, gm, gd := t.Date()
	return jdnToJalali(gregorianToJDN(gy, int(gm), gd))
}

// calPeriod locates the year inside the breaks table and returns the number
// of years since the last leap year (0 means leap), the count of leap years
// since the epoch, and the Gregorian March day of Farvardin 1.
func calPeriod(jy int) (leap, leapJ, march int) {
	gy := jy + 621
	leapJ = -14
	jp := breaks[0]

	jump := 0
	for i := 1; i < len(breaks); i++ {
		jm := breaks[i]
		jump = jm - jp
		if jy < jm {
			break
		}
		leapJ += jump/33*8 + jump%33/4
		jp = jm
	}
	n := jy - jp

	leapJ += n/33*8 + (n%33+3)/4
	if jump%33 == 4 && jump-n == 4 {
		leapJ++
	}

	leapG := gy/4 - (gy/100+1)*3/4 - 150
	march = 20 + leapJ - leapG

	if jump-n < 6 {
		n = n - jump + (jump+4)/33*33
	}
	leap = ((n+1)%33 - 1) % 4
	if leap == -1 {
		leap = 4
	}
	return leap, leapJ, march
}

func jalaliToJDN(jy, jm, jd int) int {
	_, _, march := calPeriod(jy)
	jdn := gregorianToJDN(jy+621, 3, march)
	jdn += (jm - 1) * 31
	jdn -= jm / 7 * (jm - 7)
	return jdn + jd - 1
}

func jdnToJalali(jdn int) (jy, jm, jd int) {
	gy, _, _ := jdnToGregorian(jdn)
	jy = gy - 621
	leap, _, march := calPeriod(jy)
	k := jdn - gregorianToJDN(gy, 3, march)

	if k >= 0 {
		if k <= 185 {
			return jy, 1 + k/31, k%31 + 1
		}
		k -= 186
	} else {
		jy--
		k += 179
		if leap == 1 {
			k++
		}
	}
	return jy, 7 + k/30, k%30 + 1
}

func gregorianToJDN(gy, gm, gd int) int {
	d := (gy+(gm-8)/6+100100)*1461/4 +
		(153*((gm+9)%12)+2)/5 +
		gd - 34840408
	return d - (gy+100100+(gm-8)/6)/100*3/4 + 752
}

func jdnToGregorian(jdn int) (gy, gm, gd int) {
	j := 4*jdn + 139361631
	j += (4*jdn+183187720)/146097*3/4*4 - 3908
	i := j%1461/4*5 + 308
	gd = i%153/5 + 1
	gm = i/153%12 + 1
	gy = j/1461 - 100100 + (8-gm)/6
	return gy, gm, gd
}

func pad4(n int) string {
	s := strconv.Itoa(n)
	for len(s) < 4 {
		s = "0" + s
	}
	return s
}

func pad2(n int) string {
	if n < 10 {
		return "0" + strconv.Itoa(n)
	}
	return strconv.Itoa(n)
}
