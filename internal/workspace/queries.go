package workspace

import (
	"context"
	"fmt"

	"github.com/Veraticus/khru/internal/common"
	"github.com/Veraticus/khru/internal/engine"
	"github.com/Veraticus/khru/internal/model"
	"github.com/Veraticus/khru/internal/report"
)

// Sheet is the current subject's score sheet as shown to the teacher.
type Sheet struct {
	Subject     model.SubjectDefinition `json:"subject"`
	DisplayName string                  `json:"displayName"`
	Max         model.MaxScores         `json:"max"`
	Rows        []model.StudentScore    `json:"rows"`
	Indicators  []model.Indicator       `json:"indicators"`
	Complete    bool                    `json:"complete"`
}

// Dashboard summarizes completion across the class's subjects.
type Dashboard struct {
	Session    Session                `json:"session"`
	Completion engine.Completion      `json:"completion"`
	Subjects   []engine.SubjectStatus `json:"subjects"`
	Students   int                    `json:"students"`
}

// AttendanceOverview puts a student's manual summary next to the counts
// derived from daily marks.
type AttendanceOverview struct {
	Summary *model.AttendanceSummary `json:"summary,omitempty"`
	Profile model.StudentProfile     `json:"profile"`
	Tally   engine.Tally             `json:"tally"`
}

// Subjects lists the combined subjects of the current class and year.
func (w *Workspace) Subjects() []engine.SubjectStatus {
	return engine.SubjectStatuses(w.state, w.session.Scope())
}

// Roster returns the current class roster in name order.
func (w *Workspace) Roster() []model.StudentProfile {
	return engine.Roster(w.state, w.session.Class)
}

// Profile returns one profile of the current class.
func (w *Workspace) Profile(profileID string) (model.StudentProfile, error) {
	p, ok := model.FindProfile(w.state.Roster(w.session.Class), profileID)
	if !ok {
		return model.StudentProfile{}, common.NotFoundf("student %s is not on the %s roster", profileID, w.session.Class)
	}
	return p, nil
}

// Sheet returns the current subject's score sheet.
func (w *Workspace) Sheet() (Sheet, error) {
	scope := w.session.Scope()
	def, ok := engine.FindSubject(w.state, scope, w.session.Subject)
	if !ok {
		return Sheet{}, common.NotFoundf("subject %s in %s %s", w.session.Subject, scope.Class, scope.Year)
	}
	data, _ := w.state.Subject(scope, def.ID)
	return Sheet{
		Subject:     def,
		DisplayName: engine.DisplaySubjectName(def.BaseName, scope.Class),
		Max:         engine.SubjectMaxScores(w.state, scope, def.ID, w.engine.Config().DefaultMaxScores),
		Rows:        engine.RosterJoinedScores(w.state, scope, def.ID),
		Indicators:  data.Indicators,
		Complete:    engine.SubjectCompletion(w.state, scope, def.ID),
	}, nil
}

// Dashboard returns the completion overview of the current class.
func (w *Workspace) Dashboard() Dashboard {
	scope := w.session.Scope()
	return Dashboard{
		Session:    w.session,
		Completion: engine.AggregateCompletion(w.state, scope),
		Subjects:   engine.SubjectStatuses(w.state, scope),
		Students:   len(w.state.Roster(scope.Class)),
	}
}

// DailyView lists the roster with each member's mark on date.
func (w *Workspace) DailyView(date string) []engine.DayEntry {
	return engine.DailyView(w.state, w.session.Scope(), date)
}

// AttendanceDates lists the dates with marks in the current year and class.
func (w *Workspace) AttendanceDates() []string {
	return engine.AttendanceDates(w.state, w.session.Scope())
}

// Attendance returns a student's summary and tally.
func (w *Workspace) Attendance(profileID string) (AttendanceOverview, error) {
	p, err := w.Profile(profileID)
	if err != nil {
		return AttendanceOverview{}, err
	}
	out := AttendanceOverview{
		Profile: p,
		Tally:   engine.AttendanceTally(w.state, w.session.Scope(), profileID),
	}
	if s, ok := w.state.Summaries(w.session.Scope())[profileID]; ok {
		out.Summary = &s
	}
	return out, nil
}

// History returns the latest entries of the activity log.
func (w *Workspace) History(ctx context.Context, limit int) ([]model.Activity, error) {
	entries, err := w.store.RecentActivity(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to read history: %w", err)
	}
	return entries, nil
}

// PP6 assembles the subject score report of the current subject. selection
// is report.SelectAll or one profile id.
func (w *Workspace) PP6(selection string) (report.PP6Report, error) {
	return w.assembler.AssemblePP6(w.state, w.session.Scope(), w.session.Subject, selection)
}

// PP5 assembles a student's all-subjects report for the current year.
func (w *Workspace) PP5(profileID string) (report.PP5Report, error) {
	return w.assembler.AssemblePP5(w.state, w.session.Scope(), profileID)
}
