package engine

import (
	"slices"
	"sort"

	"github.com/Veraticus/khru/internal/model"
)

// DisplaySubjectName appends the class number to a subject name: "ภาษาไทย 1".
func DisplaySubjectName(baseName, className string) string {
	return baseName + " " + model.ClassNumber(className)
}

// CombinedSubjectList returns the built-in subjects followed by the custom
// subjects of the year and class in insertion order.
func CombinedSubjectList(st model.State, scope model.Scope) []model.SubjectDefinition {
	custom := st.Custom(scope)
	out := make([]model.SubjectDefinition, 0, len(model.BuiltinSubjects)+len(custom))
	out = append(out, model.BuiltinSubjects...)
	for _, c := range custom {
		out = append(out, model.SubjectDefinition{ID: c.ID, BaseName: c.BaseName, IsCustom: true})
	}
	return out
}

// FindSubject looks a subject up in the combined list.
func FindSubject(st model.State, scope model.Scope, subjectID string) (model.SubjectDefinition, bool) {
	for _, s := range CombinedSubjectList(st, scope) {
		if s.ID == subjectID {
			return s, true
		}
	}
	return model.SubjectDefinition{}, false
}

// Roster returns the class roster in Thai name order.
func Roster(st model.State, class string) []model.StudentProfile {
	return sortedRoster(st.Roster(class))
}

// RosterJoinedScores returns one score row per roster member in Thai name order.
// Stored rows are reused with name and number refreshed from the profile; members
// without a stored row get an empty one. Rows of students no longer on the roster
// are never returned.
func RosterJoinedScores(st model.State, scope model.Scope, subjectID string) []model.StudentScore {
	data, _ := st.Subject(scope, subjectID)
	roster := Roster(st, scope.Class)

	rows := make([]model.StudentScore, 0, len(roster))
	for _, p := range roster {
		rows = append(rows, joinRow(data, p))
	}
	return rows
}

func joinRow(data model.SubjectData, p model.StudentProfile) model.StudentScore {
	row, ok := data.FindScore(p.ID)
	if !ok {
		row = model.StudentScore{StudentID: p.ID}
	}
	row.StudentName = p.FullName
	row.StudentIDNumber = p.DisplayID()
	return row
}

// SubjectCompletion reports whether every roster member has all four scores
// entered. An empty roster is complete.
func SubjectCompletion(st model.State, scope model.Scope, subjectID string) bool {
	data, _ := st.Subject(scope, subjectID)
	for _, p := range st.Roster(scope.Class) {
		row, ok := data.FindScore(p.ID)
		if !ok || !row.Complete() {
			return false
		}
	}
	return true
}

// Completion counts complete subjects out of the combined list.
type Completion struct {
	Completed int `json:"completed"`
	Total     int `json:"total"`
}

// SubjectStatus is one dashboard line.
type SubjectStatus struct {
	Subject     model.SubjectDefinition `json:"subject"`
	DisplayName string                  `json:"displayName"`
	Complete    bool                    `json:"complete"`
}

// AggregateCompletion applies SubjectCompletion to every subject of the combined list.
func AggregateCompletion(st model.State, scope model.Scope) Completion {
	var c Completion
	for _, s := range SubjectStatuses(st, scope) {
		c.Total++
		if s.Complete {
			c.Completed++
		}
	}
	return c
}

// SubjectStatuses lists the combined subjects with their completion.
func SubjectStatuses(st model.State, scope model.Scope) []SubjectStatus {
	subjects := CombinedSubjectList(st, scope)
	out := make([]SubjectStatus, 0, len(subjects))
	for _, s := range subjects {
		out = append(out, SubjectStatus{
			Subject:     s,
			DisplayName: DisplaySubjectName(s.BaseName, scope.Class),
			Complete:    SubjectCompletion(st, scope, s.ID),
		})
	}
	return out
}

// SubjectMaxScores returns the configured maxima of a subject, or def when none are set.
func SubjectMaxScores(st model.State, scope model.Scope, subjectID string, def model.MaxScores) model.MaxScores {
	data, _ := st.Subject(scope, subjectID)
	return data.MaxScoresOr(def)
}

// Tally counts a student's daily attendance marks. It is a view only and is
// never written into the attendance summary.
type Tally struct {
	Recorded int `json:"recorded"`
	Present  int `json:"present"`
	Absent   int `json:"absent"`
	Late     int `json:"late"`
	Excused  int `json:"excused"`
}

// AttendanceTally counts the daily marks of one student across the year.
func AttendanceTally(st model.State, scope model.Scope, studentID string) Tally {
	var t Tally
	for _, rec := range st.DailyRecords(scope) {
		status, ok := rec[studentID]
		if !ok {
			continue
		}
		t.Recorded++
		switch status {
		case model.StatusPresent:
			t.Present++
		case model.StatusAbsent:
			t.Absent++
		case model.StatusLate:
			t.Late++
		case model.StatusExcused:
			t.Excused++
		}
	}
	return t
}

// DayEntry is one roster member's mark on a date.
type DayEntry struct {
	Status  model.AttendanceStatus `json:"status,omitempty"`
	Profile model.StudentProfile   `json:"profile"`
	Marked  bool                   `json:"marked"`
}

// DailyView lists the roster with each member's mark on date.
func DailyView(st model.State, scope model.Scope, date string) []DayEntry {
	rec := st.DailyRecords(scope)[date]
	roster := Roster(st, scope.Class)
	out := make([]DayEntry, 0, len(roster))
	for _, p := range roster {
		status, ok := rec[p.ID]
		out = append(out, DayEntry{Profile: p, Status: status, Marked: ok})
	}
	return out
}

// AttendanceDates returns the recorded dates of a year and class in ascending order.
func AttendanceDates(st model.State, scope model.Scope) []string {
	records := st.DailyRecords(scope)
	dates := make([]string, 0, len(records))
	for d := range records {
		dates = append(dates, d)
	}
	sort.Strings(dates)
	return dates
}

// OnRoster reports whether a profile id is on the class roster.
func OnRoster(st model.State, class, profileID string) bool {
	return slices.ContainsFunc(st.Roster(class), func(p model.StudentProfile) bool {
		return p.ID == profileID
	})
}
