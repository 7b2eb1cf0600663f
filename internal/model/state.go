package model

import "maps"

// State is the whole gradebook document. Year-scoped maps are keyed year, then class.
// State values are never modified in place: the With methods copy every map level
// they touch and share the rest, so an older State stays a consistent snapshot.
type State struct {
	Profiles            map[string][]StudentProfile                            `json:"profiles"`
	Scores              map[string]map[string]map[string]SubjectData           `json:"scores"`
	CustomSubjects      map[string]map[string][]CustomSubjectDefinition        `json:"customSubjects"`
	DailyAttendance     map[string]map[string]map[string]DailyAttendanceRecord `json:"dailyAttendance"`
	AttendanceSummaries map[string]map[string]map[string]AttendanceSummary     `json:"attendanceSummaries"`
}

// Roster returns the profiles on a class roster.
func (s State) Roster(class string) []StudentProfile {
	return s.Profiles[class]
}

// ClassSubjects returns every SubjectData of a year and class, keyed by subject id.
func (s State) ClassSubjects(scope Scope) map[string]SubjectData {
	return scoped(s.Scores, scope)
}

// Subject returns one SubjectData.
func (s State) Subject(scope Scope, subjectID string) (SubjectData, bool) {
	d, ok := scoped(s.Scores, scope)[subjectID]
	return d, ok
}

// Custom returns the custom subject definitions of a year and class in insertion order.
func (s State) Custom(scope Scope) []CustomSubjectDefinition {
	return scoped(s.CustomSubjects, scope)
}

// DailyRecords returns the daily attendance of a year and class keyed by YYYY-MM-DD date.
func (s State) DailyRecords(scope Scope) map[string]DailyAttendanceRecord {
	return scoped(s.DailyAttendance, scope)
}

// Summaries returns the attendance summaries of a year and class keyed by student id.
func (s State) Summaries(scope Scope) map[string]AttendanceSummary {
	return scoped(s.AttendanceSummaries, scope)
}

// WithRoster replaces a class roster.
func (s State) WithRoster(class string, profiles []StudentProfile) State {
	next := maps.Clone(s.Profiles)
	if next == nil {
		next = make(map[string][]StudentProfile)
	}
	next[class] = profiles
	s.Profiles = next
	return s
}

// WithSubject stores one SubjectData.
func (s State) WithSubject(scope Scope, data SubjectData) State {
	subjects := maps.Clone(s.ClassSubjects(scope))
	if subjects == nil {
		subjects = make(map[string]SubjectData)
	}
	subjects[data.SubjectID] = data
	s.Scores = withScoped(s.Scores, scope, subjects)
	return s
}

// WithClassSubjects replaces every SubjectData of a year and class.
func (s State) WithClassSubjects(scope Scope, subjects map[string]SubjectData) State {
	s.Scores = withScoped(s.Scores, scope, subjects)
	return s
}

// WithoutSubject drops one SubjectData.
func (s State) WithoutSubject(scope Scope, subjectID string) State {
	subjects := maps.Clone(s.ClassSubjects(scope))
	delete(subjects, subjectID)
	s.Scores = withScoped(s.Scores, scope, subjects)
	return s
}

// WithCustom replaces the custom subject definitions of a year and class.
func (s State) WithCustom(scope Scope, defs []CustomSubjectDefinition) State {
	s.CustomSubjects = withScoped(s.CustomSubjects, scope, defs)
	return s
}

// WithDailyRecords replaces the daily attendance of a year and class.
func (s State) WithDailyRecords(scope Scope, records map[string]DailyAttendanceRecord) State {
	s.DailyAttendance = withScoped(s.DailyAttendance, scope, records)
	return s
}

// WithSummaries replaces the attendance summaries of a year and class.
func (s State) WithSummaries(scope Scope, summaries map[string]AttendanceSummary) State {
	s.AttendanceSummaries = withScoped(s.AttendanceSummaries, scope, summaries)
	return s
}

func scoped[V any](m map[string]map[string]V, scope Scope) V {
	return m[scope.Year][scope.Class]
}

func withScoped[V any](m map[string]map[string]V, scope Scope, v V) map[string]map[string]V {
	years := maps.Clone(m)
	if years == nil {
		years = make(map[string]map[string]V)
	}
	classes := maps.Clone(years[scope.Year])
	if classes == nil {
		classes = make(map[string]V)
	}
	classes[scope.Class] = v
	years[scope.Year] = classes
	return years
}
