package temporal

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractDateFromFilename_FullDate(t *testing.T) {
	e := New()

	tests := []struct {
		filename string
		want     string
	}{
		{"2023-12-31-Summary.pdf", "2023-12-31"},
		{"2023_12_31_Summary.pdf", "2023-12-31"},
		{"20240827_minutes.pdf", "2024-08-27"},
		{"12-31-2023_summary.pdf", "2023-12-31"},
		{"Meeting_JANUARY 28TH,2025.pdf", "2025-01-28"},
		{"July 1st. 2025.pdf", "2025-07-01"},
		{"Aug 27, 2024 earnings.pdf", "2024-08-27"},
		{"7th of January, 2025.pdf", "2025-01-07"},
		{"1st of November, 2024.pdf", "2024-11-01"},
	}

	for _, tt := range tests {
		t.Run(tt.filename, func(t *testing.T) {
			got, ok := e.ExtractDateFromFilename(tt.filename)
			require.True(t, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestExtractDateFromFilename_Quarter(t *testing.T) {
	e := New()

	tests := []struct {
		filename string
		want     string
	}{
		{"JBHT_Q4_2024_Earnings_Release.pdf", "Q4 2024"},
		{"Q1_2023_Report.pdf", "Q1 2023"},
		{"Q1_FY23_Report.pdf", "Q1 2023"},
		{"2023Q1_results.pdf", "Q1 2023"},
		{"first_quarter_2023.pdf", "Q1 2023"},
	}

	for _, tt := range tests {
		t.Run(tt.filename, func(t *testing.T) {
			got, ok := e.ExtractDateFromFilename(tt.filename)
			require.True(t, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestExtractDateFromFilename_MonthYearAndYear(t *testing.T) {
	e := New()

	tests := []struct {
		filename string
		want     string
	}{
		{"Brief_January_2023.pdf", "2023-01"},
		{"Jan2023_notes.pdf", "2023-01"},
		{"report_2023-01.pdf", "2023-01"},
		{"FY2023_Overview.pdf", "2023"},
		{"FY23_Overview.pdf", "2023"},
		{"Annual_2021.pdf", "2021"},
	}

	for _, tt := range tests {
		t.Run(tt.filename, func(t *testing.T) {
			got, ok := e.ExtractDateFromFilename(tt.filename)
			require.True(t, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

// A filename with both a full date and a year must yield the full date;
// priority never falls back once a higher granularity matched.
func TestExtractDateFromFilename_PriorityOrdering(t *testing.T) {
	e := New()

	got, ok := e.ExtractDateFromFilename("2024-08-27_FY2023_Report.pdf")
	require.True(t, ok)
	assert.Equal(t, "2024-08-27", got)

	got, ok = e.ExtractDateFromFilename("Q4_2024_January_2023.pdf")
	require.True(t, ok)
	assert.Equal(t, "Q4 2024", got)
}

func TestExtractDateFromFilename_NoDate(t *testing.T) {
	e := New()

	for _, filename := range []string{"random_report.pdf", "notes.txt", ""} {
		t.Run(filename, func(t *testing.T) {
			got, ok := e.ExtractDateFromFilename(filename)
			assert.False(t, ok)
			assert.Empty(t, got)
		})
	}
}

func TestExtractDateFromFilename_RangeValidation(t *testing.T) {
	e := New()

	// Month 99 fails validation; the search continues and finds the
	// standalone year instead of aborting.
	got, ok := e.ExtractDateFromFilename("99-99-2023_summary.pdf")
	require.True(t, ok)
	assert.Equal(t, "2023", got)

	// Out-of-range year is rejected outright.
	_, ok = e.ExtractDateFromFilename("Annual_1776.pdf")
	assert.False(t, ok)
}

func TestExtractDateFromFilename_DateOrder(t *testing.T) {
	mdy := New()
	dmy := New(WithDateOrder(DateOrderDMY))

	got, ok := mdy.ExtractDateFromFilename("03-04-2024_memo.pdf")
	require.True(t, ok)
	assert.Equal(t, "2024-03-04", got)

	got, ok = dmy.ExtractDateFromFilename("03-04-2024_memo.pdf")
	require.True(t, ok)
	assert.Equal(t, "2024-04-03", got)

	// 31 cannot be a month, so the DMY policy rejects the full-date
	// candidate and degrades to year granularity.
	got, ok = dmy.ExtractDateFromFilename("12-31-2023_summary.pdf")
	require.True(t, ok)
	assert.Equal(t, "2023", got)
}
