package jalali

import (
	"testing"
	"time"
)

func TestNormalizeDigits(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "persian digits",
			input: "۱۴۰۳/۰۶/۰۷",
			want:  "1403/06/07",
		},
		{
			name:  "arabic-indic digits",
			input: "١٤٠٣-٠٦-٠٧",
			want:  "1403-06-07",
		},
		{
			name:  "latin digits pass through",
			input: "1403/06/07",
			want:  "1403/06/07",
		},
		{
			name:  "mixed scripts and text",
			input: "مبلغ ۴۵٪",
			want:  "مبلغ 45٪",
		},
		{
			name:  "empty string",
			input: "",
			want:  "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NormalizeDigits(tt.input); got != tt.want {
				t.Errorf("NormalizeDigits(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestIsLeapYear(t *testing.T) {
	leapYears := map[int]bool{
		1395: true,
		1399: true,
		1403: true,
		1408: true,
		1400: false,
		1401: false,
		1402: false,
		1404: false,
	}

	for year, want := range leapYears {
		if got := IsLeapYear(year); got != want {
			t.Errorf("IsLeapYear(%d) = %v, want %v", year, got, want)
		}
	}
}

func TestMonthDays(t *testing.T) {
	tests := []struct {
		name  string
		year  int
		month int
		want  int
	}{
		{"first half month", 1402, 1, 31},
		{"month six", 1402, 6, 31},
		{"month seven", 1402, 7, 30},
		{"month eleven", 1402, 11, 30},
		{"esfand common year", 1402, 12, 29},
		{"esfand leap year", 1403, 12, 30},
		{"month zero", 1402, 0, 0},
		{"month thirteen", 1402, 13, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := MonthDays(tt.year, tt.month); got != tt.want {
				t.Errorf("MonthDays(%d, %d) = %d, want %d", tt.year, tt.month, got, tt.want)
			}
		})
	}
}

func TestConversionKnownDates(t *testing.T) {
	tests := []struct {
		gregorian time.Time
		jalali    string
	}{
		{time.Date(2024, 3, 20, 0, 0, 0, 0, time.UTC), "1403/01/01"},
		{time.Date(2025, 3, 20, 0, 0, 0, 0, time.UTC), "1403/12/30"},
		{time.Date(2025, 3, 21, 0, 0, 0, 0, time.UTC), "1404/01/01"},
		{time.Date(2024, 3, 19, 0, 0, 0, 0, time.UTC), "1402/12/29"},
		{time.Date(2021, 3, 21, 0, 0, 0, 0, time.UTC), "1400/01/01"},
		{time.Date(2021, 9, 1, 0, 0, 0, 0, time.UTC), "1400/06/10"},
		{time.Date(2022, 9, 22, 0, 0, 0, 0, time.UTC), "1401/06/31"},
		{time.Date(2022, 9, 23, 0, 0, 0, 0, time.UTC), "1401/07/01"},
	}

	for _, tt := range tests {
		if got := Format(tt.gregorian); got != tt.jalali {
			t.Errorf("Format(%s) = %q, want %q", tt.gregorian.Format("2006-01-02"), got, tt.jalali)
		}

		parsed, err := Parse(tt.jalali)
		if err != nil {
			t.Fatalf("Parse(%q) returned error: %v", tt.jalali, err)
		}
		if !parsed.Equal(tt.gregorian) {
			t.Errorf("Parse(%q) = %s, want %s", tt.jalali,
				parsed.Format("2006-01-02"), tt.gregorian.Format("2006-01-02"))
		}
	}
}

func TestRoundTripFullYears(t *testing.T) {
	// One leap and one common year, every day.
	for _, year := range []int{1402, 1403} {
		for month := 1; month <= 12; month++ {
			for day := 1; day <= MonthDays(year, month); day++ {
				g := ToTime(year, month, day)
				y, m, d := FromTime(g)
				if y != year || m != month || d != day {
					t.Fatalf("round trip %04d/%02d/%02d -> %s -> %04d/%02d/%02d",
						year, month, day, g.Format("2006-01-02"), y, m, d)
				}

				formatted := Format(g)
				reparsed, err := Parse(formatted)
				if err != nil {
					t.Fatalf("Parse(Format(%s)) failed: %v", g.Format("2006-01-02"), err)
				}
				if !reparsed.Equal(g) {
					t.Fatalf("string round trip drifted: %s vs %s", reparsed, g)
				}
			}
		}
	}
}

func TestParseRejectsInvalid(t *testing.T) {
	invalid := []string{
		"",
		"   ",
		"1403",
		"1403/06",
		"1403/06/07/01",
		"1403/13/01",
		"1403/00/10",
		"1402/12/30", // common year has 29 days in esfand
		"1403/07/31",
		"1403/01/32",
		"abcd/ef/gh",
		"not a date",
	}

	for _, s := range invalid {
		if _, err := Parse(s); err == nil {
			t.Errorf("Parse(%q) succeeded, want error", s)
		}
	}
}

func TestParseAcceptsBothSeparators(t *testing.T) {
	slash, err := Parse("1403/06/07")
	if err != nil {
		t.Fatalf("slash separator: %v", err)
	}
	dash, err := Parse("1403-06-07")
	if err != nil {
		t.Fatalf("dash separator: %v", err)
	}
	if !slash.Equal(dash) {
		t.Errorf("separator variants disagree: %s vs %s", slash, dash)
	}
}

func TestFormatDateTime(t *testing.T) {
	ts := time.Date(2024, 8, 28, 14, 5, 9, 0, time.UTC)
	got := FormatDateTime(ts)
	want := "1403/06/07 14:05:09"
	if got != want {
		t.Errorf("FormatDateTime = %q, want %q", got, want)
	}
}
