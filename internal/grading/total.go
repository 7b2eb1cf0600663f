package grading

import "github.com/Veraticus/khru/internal/model"

// Sum adds two optional components. A missing component counts as zero unless
// both are missing, in which case the sum is missing too.
func Sum(a, b *float64) *float64 {
	if a == nil && b == nil {
		return nil
	}
	var s float64
	if a != nil {
		s += *a
	}
	if b != nil {
		s += *b
	}
	return &s
}

// Totals holds the derived totals of one score row.
type Totals struct {
	Term1 *float64
	Term2 *float64
	Year  *float64
}

// TotalsOf derives the term and year totals of a score row.
func TotalsOf(s model.StudentScore) Totals {
	t1 := Sum(s.Term1Classwork, s.Term1Exam)
	t2 := Sum(s.Term2Classwork, s.Term2Exam)
	return Totals{Term1: t1, Term2: t2, Year: Sum(t1, t2)}
}

// YearGrade grades a score row against the subject maxima.
func YearGrade(s model.StudentScore, maxScores model.MaxScores) Grade {
	return NumericGrade(TotalsOf(s).Year, maxScores.YearTotal())
}
