package workspace

import (
	"context"
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/Veraticus/khru/internal/common"
	"github.com/Veraticus/khru/internal/engine"
	"github.com/Veraticus/khru/internal/importer"
	"github.com/Veraticus/khru/internal/model"
)

// SetScore overwrites one score component of a student in the current subject.
// A nil value clears it.
func (w *Workspace) SetScore(ctx context.Context, profileID string, field model.ScoreField, value *float64) error {
	in := engine.SetScoreInput{
		Scope:     w.session.Scope(),
		SubjectID: w.session.Subject,
		ProfileID: profileID,
		Field:     field,
		Value:     value,
	}
	c := &change{
		op:     "set_score",
		detail: fmt.Sprintf("%s %s %s=%s", w.session.Subject, profileID, field, formatValue(value)),
		docs:   docScores,
	}
	return w.apply(ctx, c, func(st model.State) (model.State, error) {
		return w.engine.SetScore(st, w.session.LoggedIn, in)
	})
}

// SetMaxScores changes the maxima of the current subject.
func (w *Workspace) SetMaxScores(ctx context.Context, classwork, exam float64) error {
	in := engine.MaxScoresInput{
		Scope:     w.session.Scope(),
		SubjectID: w.session.Subject,
		Classwork: classwork,
		Exam:      exam,
	}
	c := &change{
		op:     "set_max_scores",
		detail: fmt.Sprintf("%s %g/%g", w.session.Subject, classwork, exam),
		docs:   docScores,
	}
	return w.apply(ctx, c, func(st model.State) (model.State, error) {
		return w.engine.SetSubjectMaxScores(st, w.session.LoggedIn, in)
	})
}

// AddIndicators appends indicators to the current subject, skipping any whose
// text is already present. It returns how many were added.
func (w *Workspace) AddIndicators(ctx context.Context, texts []string, source model.IndicatorSource) (int, error) {
	data, _ := w.state.Subject(w.session.Scope(), w.session.Subject)
	indicators := slices.Clone(data.Indicators)

	seen := make(map[string]bool, len(indicators))
	for _, ind := range indicators {
		seen[ind.Text] = true
	}
	added := 0
	for _, text := range texts {
		text = strings.TrimSpace(text)
		if seen[text] {
			continue
		}
		seen[text] = true
		indicators = append(indicators, model.Indicator{Text: text, Source: source})
		added++
	}

	c := &change{
		op:     "add_indicators",
		detail: fmt.Sprintf("%s +%d (%s)", w.session.Subject, added, source),
		docs:   docScores,
	}
	err := w.apply(ctx, c, func(st model.State) (model.State, error) {
		return w.engine.SaveIndicators(st, w.session.LoggedIn, engine.IndicatorsInput{
			Scope:      w.session.Scope(),
			SubjectID:  w.session.Subject,
			Indicators: indicators,
		})
	})
	if err != nil {
		return 0, err
	}
	return added, nil
}

// RemoveIndicator drops one indicator from the current subject.
func (w *Workspace) RemoveIndicator(ctx context.Context, indicatorID string) error {
	if err := w.requireLogin("remove_indicator"); err != nil {
		return err
	}
	data, _ := w.state.Subject(w.session.Scope(), w.session.Subject)
	idx := slices.IndexFunc(data.Indicators, func(ind model.Indicator) bool { return ind.ID == indicatorID })
	if idx < 0 {
		return common.NotFoundf("indicator %s in subject %s", indicatorID, w.session.Subject)
	}
	indicators := slices.Delete(slices.Clone(data.Indicators), idx, idx+1)

	c := &change{
		op:     "remove_indicator",
		detail: fmt.Sprintf("%s %s", w.session.Subject, indicatorID),
		docs:   docScores,
	}
	return w.apply(ctx, c, func(st model.State) (model.State, error) {
		return w.engine.SaveIndicators(st, w.session.LoggedIn, engine.IndicatorsInput{
			Scope:      w.session.Scope(),
			SubjectID:  w.session.Subject,
			Indicators: indicators,
		})
	})
}

// ImportProfiles merges a parsed export into the rosters. Rows the parser
// rejected are added to the skipped count.
func (w *Workspace) ImportProfiles(ctx context.Context, parsed importer.Result) (engine.ImportResult, error) {
	var res engine.ImportResult
	c := &change{
		op:         "import_profiles",
		docs:       docProfiles,
		checkpoint: true,
	}
	err := w.apply(ctx, c, func(st model.State) (model.State, error) {
		next, r, err := w.engine.ImportProfiles(st, w.session.LoggedIn, parsed.Profiles)
		r.Skipped += parsed.Skipped()
		res = r
		c.detail = fmt.Sprintf("imported=%d updated=%d skipped=%d", r.Imported, r.Updated, r.Skipped)
		return next, err
	})
	if err != nil {
		return engine.ImportResult{}, err
	}
	return res, nil
}

// AddStudent puts a new student on the current class roster.
func (w *Workspace) AddStudent(ctx context.Context, in engine.NewStudentInput) (model.StudentProfile, error) {
	var profile model.StudentProfile
	c := &change{op: "add_student", docs: docProfiles}
	err := w.apply(ctx, c, func(st model.State) (model.State, error) {
		next, p, err := w.engine.AddStudentToClass(st, w.session.LoggedIn, w.session.Scope(), in)
		profile = p
		c.detail = p.ID + " " + p.FullName
		return next, err
	})
	if err != nil {
		return model.StudentProfile{}, err
	}
	return profile, nil
}

// SaveProfile stores an edited profile of the current class.
func (w *Workspace) SaveProfile(ctx context.Context, edited model.StudentProfile) error {
	c := &change{
		op:     "save_profile",
		detail: edited.ID,
		docs:   docProfiles,
	}
	return w.apply(ctx, c, func(st model.State) (model.State, error) {
		return w.engine.SaveStudentProfile(st, w.session.LoggedIn, w.session.Scope(), edited)
	})
}

// RemoveStudent takes a student off the current class with every score and
// attendance entry of the year. Callers confirm with the user first.
func (w *Workspace) RemoveStudent(ctx context.Context, profileID string) error {
	c := &change{
		op:         "remove_student",
		detail:     profileID,
		docs:       docProfiles | docDaily | docSummaries,
		checkpoint: true,
	}
	return w.apply(ctx, c, func(st model.State) (model.State, error) {
		return w.engine.RemoveStudentFromClass(st, w.session.LoggedIn, w.session.Scope(), profileID)
	})
}

// AddSubject creates a custom subject and selects it.
func (w *Workspace) AddSubject(ctx context.Context, name string) (model.CustomSubjectDefinition, error) {
	var def model.CustomSubjectDefinition
	c := &change{op: "add_subject", docs: docCustom}
	err := w.apply(ctx, c, func(st model.State) (model.State, error) {
		next, d, err := w.engine.AddCustomSubject(st, w.session.LoggedIn, w.session.Scope(), name)
		def = d
		c.detail = d.ID + " " + d.BaseName
		c.nextSubject = d.ID
		return next, err
	})
	if err != nil {
		return model.CustomSubjectDefinition{}, err
	}
	return def, nil
}

// DeleteSubject removes a custom subject and its sheet. Deleting the current
// subject moves the selection to S1. Callers confirm with the user first.
func (w *Workspace) DeleteSubject(ctx context.Context, subjectID string) error {
	c := &change{
		op:         "delete_subject",
		detail:     subjectID,
		docs:       docCustom,
		checkpoint: true,
	}
	return w.apply(ctx, c, func(st model.State) (model.State, error) {
		next, selected, err := w.engine.DeleteCustomSubject(st, w.session.LoggedIn, w.session.Scope(), subjectID, w.session.Subject)
		c.nextSubject = selected
		return next, err
	})
}

// MarkAttendance merges marks into the record of date. Students not named keep
// whatever mark they had.
func (w *Workspace) MarkAttendance(ctx context.Context, date string, marks model.DailyAttendanceRecord) error {
	if err := w.requireLogin("mark_attendance"); err != nil {
		return err
	}
	for id := range marks {
		if !engine.OnRoster(w.state, w.session.Class, id) {
			return common.NotFoundf("student %s is not on the %s roster", id, w.session.Class)
		}
	}
	record := maps.Clone(w.state.DailyRecords(w.session.Scope())[date])
	if record == nil {
		record = make(model.DailyAttendanceRecord, len(marks))
	}
	maps.Copy(record, marks)

	c := &change{
		op:     "mark_attendance",
		detail: fmt.Sprintf("%s %d marks", date, len(marks)),
		docs:   docDaily,
	}
	return w.apply(ctx, c, func(st model.State) (model.State, error) {
		return w.engine.SaveDailyAttendance(st, w.session.LoggedIn, w.session.Scope(), date, record)
	})
}

// SaveSummary stores a student's attendance summary. With deriveAbsent the
// absent days are computed as total minus present.
func (w *Workspace) SaveSummary(ctx context.Context, studentID string, summary model.AttendanceSummary, deriveAbsent bool) error {
	if deriveAbsent {
		summary = engine.DeriveAbsent(summary)
	}
	c := &change{
		op: "save_attendance_summary",
		detail: fmt.Sprintf("%s %d/%d", studentID,
			summary.DaysPresent, summary.TotalInstructionalDays),
		docs: docSummaries,
	}
	return w.apply(ctx, c, func(st model.State) (model.State, error) {
		return w.engine.SaveAttendanceSummary(st, w.session.LoggedIn, w.session.Scope(), studentID, summary)
	})
}

func formatValue(v *float64) string {
	if v == nil {
		return "-"
	}
	return fmt.Sprintf("%g", *v)
}
