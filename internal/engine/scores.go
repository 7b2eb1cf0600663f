package engine

import (
	"math"
	"slices"
	"strings"

	"github.com/Veraticus/khru/internal/common"
	"github.com/Veraticus/khru/internal/model"
)

// InitializeSubjectData reconciles a subject sheet with the class roster: exactly
// one row per roster member, existing scores kept, maxima kept or defaulted,
// indicators kept. Callers run it after any roster, subject, or year change.
// It only repairs derived shape, so it needs no edit permission.
func (e *Engine) InitializeSubjectData(st model.State, scope model.Scope, subjectID string) (model.State, error) {
	def, ok := FindSubject(st, scope, subjectID)
	if !ok {
		return st, common.NotFoundf("subject %s in %s %s", subjectID, scope.Class, scope.Year)
	}

	existing, _ := st.Subject(scope, subjectID)
	roster := Roster(st, scope.Class)

	rows := make([]model.StudentScore, 0, len(roster))
	for _, p := range roster {
		rows = append(rows, joinRow(existing, p))
	}

	maxScores := existing.MaxScoresOr(e.config.DefaultMaxScores)

	return st.WithSubject(scope, model.SubjectData{
		SubjectID:   subjectID,
		SubjectName: DisplaySubjectName(def.BaseName, scope.Class),
		MaxScores:   &maxScores,
		Students:    rows,
		Indicators:  existing.Indicators,
		LastUpdated: e.now(),
	}), nil
}

// SetScoreInput identifies one score component to overwrite.
type SetScoreInput struct {
	Value     *float64         `json:"value"`
	Scope     model.Scope      `json:"-"`
	SubjectID string           `json:"subjectId" validate:"required"`
	ProfileID string           `json:"profileId" validate:"required"`
	Field     model.ScoreField `json:"field" validate:"required,score_field"`
}

// SetScore writes one component for one student. A nil value clears it.
// Values must lie within [0, component maximum].
func (e *Engine) SetScore(st model.State, authorized bool, in SetScoreInput) (model.State, error) {
	if err := authorize(authorized, "set score"); err != nil {
		return st, err
	}
	if err := e.check(in); err != nil {
		return st, err
	}

	data, ok := st.Subject(in.Scope, in.SubjectID)
	if !ok {
		return st, common.NotFoundf("subject %s has no score sheet", in.SubjectID)
	}
	profile, ok := model.FindProfile(st.Roster(in.Scope.Class), in.ProfileID)
	if !ok {
		return st, common.NotFoundf("student %s is not on the %s roster", in.ProfileID, in.Scope.Class)
	}

	if in.Value != nil {
		v := *in.Value
		bound := data.MaxScoresOr(e.config.DefaultMaxScores).Bound(in.Field)
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return st, common.Invalidf("%s must be a number", in.Field)
		}
		if v < 0 || v > bound {
			return st, common.Invalidf("%s must be between 0 and %v, got %v", in.Field, bound, v)
		}
	}

	rows := slices.Clone(data.Students)
	idx := slices.IndexFunc(rows, func(r model.StudentScore) bool { return r.StudentID == in.ProfileID })
	if idx < 0 {
		rows = append(rows, joinRow(model.SubjectData{}, profile).With(in.Field, in.Value))
	} else {
		rows[idx] = rows[idx].With(in.Field, in.Value)
	}
	SortScores(rows)

	data.Students = rows
	data.LastUpdated = e.now()
	return st.WithSubject(in.Scope, data), nil
}

// MaxScoresInput sets the component maxima of a subject.
type MaxScoresInput struct {
	Scope     model.Scope `json:"-"`
	SubjectID string      `json:"subjectId" validate:"required"`
	Classwork float64     `json:"classwork" validate:"gte=0"`
	Exam      float64     `json:"exam" validate:"gte=0"`
}

// SetSubjectMaxScores overwrites a subject's maxima. The two must add up to the
// configured term total. Existing scores are kept as entered, not rescaled.
func (e *Engine) SetSubjectMaxScores(st model.State, authorized bool, in MaxScoresInput) (model.State, error) {
	if err := authorize(authorized, "set max scores"); err != nil {
		return st, err
	}
	if err := e.check(in); err != nil {
		return st, err
	}
	if math.IsNaN(in.Classwork) || math.IsNaN(in.Exam) {
		return st, common.Invalidf("max scores must be numbers")
	}
	if !sameTotal(in.Classwork+in.Exam, e.config.TermTotal) {
		return st, common.Invalidf("classwork %v + exam %v must equal %v", in.Classwork, in.Exam, e.config.TermTotal)
	}

	data, ok := st.Subject(in.Scope, in.SubjectID)
	if !ok {
		return st, common.NotFoundf("subject %s has no score sheet", in.SubjectID)
	}

	data.MaxScores = &model.MaxScores{Classwork: in.Classwork, Exam: in.Exam}
	data.LastUpdated = e.now()
	return st.WithSubject(in.Scope, data), nil
}

// IndicatorsInput replaces the indicator list of a subject.
type IndicatorsInput struct {
	Scope      model.Scope       `json:"-"`
	SubjectID  string            `json:"subjectId" validate:"required"`
	Indicators []model.Indicator `json:"indicators"`
}

type indicatorCheck struct {
	Text   string                `json:"text" validate:"required"`
	Source model.IndicatorSource `json:"source" validate:"required,indicator_source"`
}

// SaveIndicators replaces a subject's indicators wholesale. Indicators without
// an id get one. Duplicates are allowed here.
func (e *Engine) SaveIndicators(st model.State, authorized bool, in IndicatorsInput) (model.State, error) {
	if err := authorize(authorized, "save indicators"); err != nil {
		return st, err
	}
	if err := e.check(in); err != nil {
		return st, err
	}

	data, ok := st.Subject(in.Scope, in.SubjectID)
	if !ok {
		return st, common.NotFoundf("subject %s has no score sheet", in.SubjectID)
	}

	indicators := make([]model.Indicator, 0, len(in.Indicators))
	for _, ind := range in.Indicators {
		ind.Text = strings.TrimSpace(ind.Text)
		if err := e.check(indicatorCheck{Text: ind.Text, Source: ind.Source}); err != nil {
			return st, err
		}
		if ind.ID == "" {
			ind.ID = e.newID()
		}
		indicators = append(indicators, ind)
	}

	data.Indicators = indicators
	data.LastUpdated = e.now()
	return st.WithSubject(in.Scope, data), nil
}
