// Package report assembles the PP5 and PP6 Thai school report documents into
// flat row structures and renders them for output.
package report

import (
	"strconv"

	"github.com/Veraticus/khru/internal/common"
	"github.com/Veraticus/khru/internal/engine"
	"github.com/Veraticus/khru/internal/grading"
	"github.com/Veraticus/khru/internal/model"
)

// SelectAll asks AssemblePP6 for every roster member.
const SelectAll = "all"

const (
	defaultSchoolName = "โรงเรียน"
	noData            = "ไม่มีข้อมูล"
)

// PP6Report is the per-subject class score sheet.
type PP6Report struct {
	SchoolName   string    `json:"schoolName"`
	AcademicYear string    `json:"academicYear"`
	ClassName    string    `json:"className"`
	SubjectID    string    `json:"subjectId"`
	SubjectName  string    `json:"subjectName"`
	Rows         []PP6Row  `json:"rows"`
	Max          MaxLabels `json:"max"`
}

// MaxLabels are the column maxima printed in report headers.
type MaxLabels struct {
	Classwork string `json:"classwork"`
	Exam      string `json:"exam"`
	Term      string `json:"term"`
	Year      string `json:"year"`
}

// PP6Row is one student's line on the score sheet. Scores use one decimal
// place; missing values print as "-".
type PP6Row struct {
	StudentID      string `json:"studentId"`
	Name           string `json:"name"`
	Term1Classwork string `json:"term1Classwork"`
	Term1Exam      string `json:"term1Exam"`
	Term1Total     string `json:"term1Total"`
	Term2Classwork string `json:"term2Classwork"`
	Term2Exam      string `json:"term2Exam"`
	Term2Total     string `json:"term2Total"`
	YearTotal      string `json:"yearTotal"`
	Grade          string `json:"grade"`
	Index          int    `json:"index"`
}

// PP5Report is a single student's full-year report book.
type PP5Report struct {
	Attendance   *PP5Attendance  `json:"attendance,omitempty"`
	Student      PP5Student      `json:"student"`
	SchoolName   string          `json:"schoolName"`
	AcademicYear string          `json:"academicYear"`
	ClassName    string          `json:"className"`
	Subjects     []PP5SubjectRow `json:"subjects"`
}

// PP5Student is the identity block of the report book.
type PP5Student struct {
	FullName        string `json:"fullName"`
	StudentSchoolID string `json:"studentSchoolId"`
	NationalID      string `json:"nationalId"`
	BirthDate       string `json:"birthDate"`
	Gender          string `json:"gender"`
}

// PP5SubjectRow is one subject's year result.
type PP5SubjectRow struct {
	Name       string `json:"name"`
	Term1Total string `json:"term1Total"`
	Term2Total string `json:"term2Total"`
	YearTotal  string `json:"yearTotal"`
	Grade      string `json:"grade"`
	YearMax    string `json:"yearMax"`
	Index      int    `json:"index"`
}

// PP5Attendance summarizes attendance for the year.
type PP5Attendance struct {
	Rate      string `json:"rate"`
	TotalDays int    `json:"totalDays"`
	Present   int    `json:"present"`
	Absent    int    `json:"absent"`
	Late      int    `json:"late"`
	Excused   int    `json:"excused"`
}

// Assembler builds reports from a gradebook state.
type Assembler struct {
	defaults model.MaxScores
}

// NewAssembler creates an assembler. defaults apply to subjects without
// configured maxima.
func NewAssembler(defaults model.MaxScores) *Assembler {
	return &Assembler{defaults: defaults}
}

// AssemblePP6 builds the score sheet of one subject for every roster member,
// or for a single profile id.
func (a *Assembler) AssemblePP6(st model.State, scope model.Scope, subjectID, selection string) (PP6Report, error) {
	subject, ok := engine.FindSubject(st, scope, subjectID)
	if !ok {
		return PP6Report{}, common.NotFoundf("subject %s in %s %s", subjectID, scope.Class, scope.Year)
	}
	maxScores := engine.SubjectMaxScores(st, scope, subjectID, a.defaults)

	var rows []PP6Row
	for _, s := range engine.RosterJoinedScores(st, scope, subjectID) {
		if selection != SelectAll && s.StudentID != selection {
			continue
		}
		t := grading.TotalsOf(s)
		rows = append(rows, PP6Row{
			Index:          len(rows) + 1,
			StudentID:      orText(s.StudentIDNumber, noData),
			Name:           orText(s.StudentName, noData),
			Term1Classwork: fixed1(s.Term1Classwork),
			Term1Exam:      fixed1(s.Term1Exam),
			Term1Total:     fixed1(t.Term1),
			Term2Classwork: fixed1(s.Term2Classwork),
			Term2Exam:      fixed1(s.Term2Exam),
			Term2Total:     fixed1(t.Term2),
			YearTotal:      fixed1(t.Year),
			Grade:          grading.NumericGrade(t.Year, maxScores.YearTotal()).String(),
		})
	}
	if len(rows) == 0 {
		return PP6Report{}, common.NotFoundf("no students selected for %q", selection)
	}

	return PP6Report{
		SchoolName:   schoolName(st.Roster(scope.Class)),
		AcademicYear: scope.Year,
		ClassName:    scope.Class,
		SubjectID:    subject.ID,
		SubjectName:  engine.DisplaySubjectName(subject.BaseName, scope.Class),
		Max:          labels(maxScores),
		Rows:         rows,
	}, nil
}

// AssemblePP5 builds the report book of one student across every subject.
func (a *Assembler) AssemblePP5(st model.State, scope model.Scope, profileID string) (PP5Report, error) {
	profile, ok := model.FindProfile(st.Roster(scope.Class), profileID)
	if !ok {
		return PP5Report{}, common.NotFoundf("student %s in %s", profileID, scope.Class)
	}

	subjects := engine.CombinedSubjectList(st, scope)
	rows := make([]PP5SubjectRow, 0, len(subjects))
	for i, subj := range subjects {
		data, _ := st.Subject(scope, subj.ID)
		maxScores := data.MaxScoresOr(a.defaults)
		score, _ := data.FindScore(profile.ID)
		t := grading.TotalsOf(score)
		rows = append(rows, PP5SubjectRow{
			Index:      i + 1,
			Name:       engine.DisplaySubjectName(subj.BaseName, scope.Class),
			Term1Total: fixed1(t.Term1),
			Term2Total: fixed1(t.Term2),
			YearTotal:  fixed1(t.Year),
			Grade:      grading.NumericGrade(t.Year, maxScores.YearTotal()).String(),
			YearMax:    "เต็ม " + number(maxScores.YearTotal()),
		})
	}

	r := PP5Report{
		SchoolName:   orText(profile.SchoolName, defaultSchoolName),
		AcademicYear: scope.Year,
		ClassName:    scope.Class,
		Student: PP5Student{
			FullName:        profile.FullName,
			StudentSchoolID: orText(profile.StudentSchoolID, "-"),
			NationalID:      orText(profile.NationalID, "-"),
			BirthDate:       orText(profile.BirthDate, "-"),
			Gender:          orText(profile.Gender, "-"),
		},
		Subjects: rows,
	}
	if sum, ok := st.Summaries(scope)[profile.ID]; ok {
		r.Attendance = attendanceBlock(sum)
	}
	return r, nil
}

func attendanceBlock(s model.AttendanceSummary) *PP5Attendance {
	rate := "-"
	if s.TotalInstructionalDays > 0 {
		rate = strconv.FormatFloat(s.AttendanceRate(), 'f', 1, 64) + "%"
	}
	return &PP5Attendance{
		TotalDays: s.TotalInstructionalDays,
		Present:   s.DaysPresent,
		Absent:    s.DaysAbsent,
		Late:      s.DaysLate,
		Excused:   s.DaysExcused,
		Rate:      rate,
	}
}

func schoolName(roster []model.StudentProfile) string {
	if len(roster) == 0 {
		return defaultSchoolName
	}
	return orText(roster[0].SchoolName, defaultSchoolName)
}

func labels(m model.MaxScores) MaxLabels {
	return MaxLabels{
		Classwork: number(m.Classwork),
		Exam:      number(m.Exam),
		Term:      number(m.TermTotal()),
		Year:      number(m.YearTotal()),
	}
}

func fixed1(v *float64) string {
	if v == nil {
		return "-"
	}
	return strconv.FormatFloat(*v, 'f', 1, 64)
}

func number(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func orText(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}
