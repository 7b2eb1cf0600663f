package grading

import (
	"math"
	"testing"

	"github.com/Veraticus/khru/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr(f float64) *float64 { return &f }

func TestNumericGrade(t *testing.T) {
	tests := []struct {
		total *float64
		name  string
		max   float64
		want  Grade
	}{
		{name: "80 is a four", total: ptr(80), max: 100, want: Grade{4, true}},
		{name: "79.9 is three and a half", total: ptr(79.9), max: 100, want: Grade{3.5, true}},
		{name: "75", total: ptr(75), max: 100, want: Grade{3.5, true}},
		{name: "70", total: ptr(70), max: 100, want: Grade{3, true}},
		{name: "65", total: ptr(65), max: 100, want: Grade{2.5, true}},
		{name: "60", total: ptr(60), max: 100, want: Grade{2, true}},
		{name: "55", total: ptr(55), max: 100, want: Grade{1.5, true}},
		{name: "50", total: ptr(50), max: 100, want: Grade{1, true}},
		{name: "49.9 fails", total: ptr(49.9), max: 100, want: Grade{0, true}},
		{name: "zero", total: ptr(0), max: 100, want: Grade{0, true}},
		{name: "above max is capped", total: ptr(140), max: 100, want: Grade{4, true}},
		{name: "scaled from 110", total: ptr(86), max: 110, want: Grade{3.5, true}},
		{name: "scaled from 50", total: ptr(40), max: 50, want: Grade{4, true}},
		{name: "zero max is not scaled", total: ptr(72), max: 0, want: Grade{3, true}},
		{name: "missing", total: nil, max: 100, want: NotAvailable},
		{name: "negative", total: ptr(-1), max: 100, want: NotAvailable},
		{name: "nan", total: ptr(math.NaN()), max: 100, want: NotAvailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NumericGrade(tt.total, tt.max))
		})
	}
}

func TestNumericGrade_Monotonic(t *testing.T) {
	prev := -1.0
	for x := 0.0; x <= 120; x += 0.1 {
		g := NumericGrade(ptr(x), 100)
		require.True(t, g.Available)
		require.GreaterOrEqual(t, g.Value, prev, "grade dropped at %.1f", x)
		prev = g.Value
	}
}

func TestGrade_String(t *testing.T) {
	assert.Equal(t, "-", NotAvailable.String())
	assert.Equal(t, "4", Grade{4, true}.String())
	assert.Equal(t, "3.5", Grade{3.5, true}.String())
	assert.Equal(t, "0", Grade{0, true}.String())
}

func TestSum(t *testing.T) {
	assert.Nil(t, Sum(nil, nil))
	assert.InDelta(t, 5.0, *Sum(ptr(5), nil), 0)
	assert.InDelta(t, 7.0, *Sum(nil, ptr(7)), 0)
	assert.InDelta(t, 12.0, *Sum(ptr(5), ptr(7)), 0)
}

func TestYearGrade_MaxChangeWithoutRescale(t *testing.T) {
	row := model.StudentScore{
		Term1Classwork: ptr(28), Term1Exam: ptr(18),
		Term2Classwork: ptr(25), Term2Exam: ptr(15),
	}

	totals := TotalsOf(row)
	assert.InDelta(t, 46.0, *totals.Term1, 0)
	assert.InDelta(t, 40.0, *totals.Term2, 0)
	assert.InDelta(t, 86.0, *totals.Year, 0)

	assert.Equal(t, Grade{4, true}, YearGrade(row, model.MaxScores{Classwork: 30, Exam: 20}))

	widened := model.MaxScores{Classwork: 30, Exam: 25}
	assert.InDelta(t, 78.18, *Percentage(totals.Year, widened.YearTotal()), 0.01)
	assert.Equal(t, Grade{3.5, true}, YearGrade(row, widened))
}

func TestTotalsOf_Partial(t *testing.T) {
	totals := TotalsOf(model.StudentScore{Term1Exam: ptr(10)})
	require.NotNil(t, totals.Term1)
	assert.InDelta(t, 10.0, *totals.Term1, 0)
	assert.Nil(t, totals.Term2)
	assert.InDelta(t, 10.0, *totals.Year, 0)

	assert.Equal(t, NotAvailable, YearGrade(model.StudentScore{}, model.MaxScores{Classwork: 30, Exam: 20}))
}
