package model

import (
	"fmt"
	"time"
)

// ScoreField names one of the four score components of a StudentScore.
type ScoreField string

// Score components.
const (
	Term1Classwork ScoreField = "term1Classwork"
	Term1Exam      ScoreField = "term1Exam"
	Term2Classwork ScoreField = "term2Classwork"
	Term2Exam      ScoreField = "term2Exam"
)

// ScoreFields lists every component in sheet column order.
var ScoreFields = []ScoreField{Term1Classwork, Term1Exam, Term2Classwork, Term2Exam}

// Valid reports whether f names a known component.
func (f ScoreField) Valid() bool {
	switch f {
	case Term1Classwork, Term1Exam, Term2Classwork, Term2Exam:
		return true
	default:
		return false
	}
}

// IsClasswork reports whether the component is bounded by the classwork maximum.
func (f ScoreField) IsClasswork() bool {
	return f == Term1Classwork || f == Term2Classwork
}

// ParseScoreField accepts the canonical names plus the short forms t1cw, t1ex, t2cw, t2ex.
func ParseScoreField(s string) (ScoreField, error) {
	switch s {
	case "t1cw":
		return Term1Classwork, nil
	case "t1ex":
		return Term1Exam, nil
	case "t2cw":
		return Term2Classwork, nil
	case "t2ex":
		return Term2Exam, nil
	}
	f := ScoreField(s)
	if !f.Valid() {
		return "", fmt.Errorf("unknown score field %q", s)
	}
	return f, nil
}

// StudentScore is one student's row within a subject. Name and ID number are
// copies of the profile kept for flat report rows.
type StudentScore struct {
	Term1Classwork  *float64 `json:"term1Classwork"`
	Term1Exam       *float64 `json:"term1Exam"`
	Term2Classwork  *float64 `json:"term2Classwork"`
	Term2Exam       *float64 `json:"term2Exam"`
	StudentID       string   `json:"studentId"`
	StudentName     string   `json:"studentName"`
	StudentIDNumber string   `json:"studentIdNumber,omitempty"`
}

// Get returns the value of a component.
func (s StudentScore) Get(f ScoreField) *float64 {
	switch f {
	case Term1Classwork:
		return s.Term1Classwork
	case Term1Exam:
		return s.Term1Exam
	case Term2Classwork:
		return s.Term2Classwork
	case Term2Exam:
		return s.Term2Exam
	}
	return nil
}

// With returns a copy of s with one component replaced.
func (s StudentScore) With(f ScoreField, v *float64) StudentScore {
	if v != nil {
		c := *v
		v = &c
	}
	switch f {
	case Term1Classwork:
		s.Term1Classwork = v
	case Term1Exam:
		s.Term1Exam = v
	case Term2Classwork:
		s.Term2Classwork = v
	case Term2Exam:
		s.Term2Exam = v
	}
	return s
}

// Complete reports whether all four components are entered.
func (s StudentScore) Complete() bool {
	return s.Term1Classwork != nil && s.Term1Exam != nil &&
		s.Term2Classwork != nil && s.Term2Exam != nil
}

// MaxScores holds the per-term component maxima of a subject.
type MaxScores struct {
	Classwork float64 `json:"classwork"`
	Exam      float64 `json:"exam"`
}

// TermTotal is the maximum of one term.
func (m MaxScores) TermTotal() float64 {
	return m.Classwork + m.Exam
}

// YearTotal is the maximum of both terms together.
func (m MaxScores) YearTotal() float64 {
	return 2 * m.TermTotal()
}

// Bound returns the maximum of a single component.
func (m MaxScores) Bound(f ScoreField) float64 {
	if f.IsClasswork() {
		return m.Classwork
	}
	return m.Exam
}

// IndicatorSource records where a curriculum indicator came from.
type IndicatorSource string

// Indicator origins.
const (
	IndicatorManual IndicatorSource = "manual"
	IndicatorAI     IndicatorSource = "ai"
)

// Indicator is one curriculum indicator attached to a subject.
type Indicator struct {
	ID     string          `json:"id"`
	Text   string          `json:"text"`
	Source IndicatorSource `json:"source"`
}

// SubjectData is one subject's sheet for a year and class.
type SubjectData struct {
	LastUpdated time.Time      `json:"lastUpdated"`
	MaxScores   *MaxScores     `json:"maxScores,omitempty"`
	SubjectID   string         `json:"subjectId"`
	SubjectName string         `json:"subjectName"`
	Students    []StudentScore `json:"students"`
	Indicators  []Indicator    `json:"indicators,omitempty"`
}

// MaxScoresOr returns the configured maxima, or def when none are set.
func (d SubjectData) MaxScoresOr(def MaxScores) MaxScores {
	if d.MaxScores == nil {
		return def
	}
	return *d.MaxScores
}

// FindScore returns the row for a student.
func (d SubjectData) FindScore(studentID string) (StudentScore, bool) {
	for _, s := range d.Students {
		if s.StudentID == studentID {
			return s, true
		}
	}
	return StudentScore{}, false
}
