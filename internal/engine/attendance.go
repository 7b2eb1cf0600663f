package engine

import (
	"maps"

	"github.com/Veraticus/khru/internal/common"
	"github.com/Veraticus/khru/internal/model"
)

type attendanceDate struct {
	Date string `json:"date" validate:"required,datetime=2006-01-02"`
}

// SaveDailyAttendance stores the marks of one date, replacing any earlier record
// for that date.
func (e *Engine) SaveDailyAttendance(st model.State, authorized bool, scope model.Scope, date string, record model.DailyAttendanceRecord) (model.State, error) {
	if err := authorize(authorized, "save attendance"); err != nil {
		return st, err
	}
	if err := e.check(attendanceDate{Date: date}); err != nil {
		return st, err
	}
	for id, status := range record {
		if !status.Valid() {
			return st, common.Invalidf("student %s has unknown attendance status %q", id, status)
		}
	}

	records := maps.Clone(st.DailyRecords(scope))
	if records == nil {
		records = make(map[string]model.DailyAttendanceRecord)
	}
	records[date] = maps.Clone(record)
	return st.WithDailyRecords(scope, records), nil
}

// SaveAttendanceSummary stores a student's attendance rollup. DaysAbsent is taken
// as given; callers that derive it do so before calling.
func (e *Engine) SaveAttendanceSummary(st model.State, authorized bool, scope model.Scope, studentID string, summary model.AttendanceSummary) (model.State, error) {
	if err := authorize(authorized, "save attendance summary"); err != nil {
		return st, err
	}
	if err := e.check(summary); err != nil {
		return st, err
	}
	if !OnRoster(st, scope.Class, studentID) {
		return st, common.NotFoundf("student %s is not on the %s roster", studentID, scope.Class)
	}

	summaries := maps.Clone(st.Summaries(scope))
	if summaries == nil {
		summaries = make(map[string]model.AttendanceSummary)
	}
	summaries[studentID] = summary
	return st.WithSummaries(scope, summaries), nil
}

// DeriveAbsent fills DaysAbsent as total minus present, the rule used when a
// summary is entered from a present-days count.
func DeriveAbsent(summary model.AttendanceSummary) model.AttendanceSummary {
	summary.DaysAbsent = summary.TotalInstructionalDays - summary.DaysPresent
	return summary
}
