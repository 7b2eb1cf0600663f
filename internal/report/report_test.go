package report

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Veraticus/khru/internal/common"
	"github.com/Veraticus/khru/internal/model"
)

var scope = model.Scope{Year: "2567", Class: "ป.1"}

func ptr(v float64) *float64 { return &v }

func student(id, first, last string) model.StudentProfile {
	return model.StudentProfile{
		ID:              id,
		SchoolName:      "บ้านหนองบัว",
		ClassName:       scope.Class,
		FirstName:       first,
		LastName:        last,
		FullName:        model.ComposeFullName("เด็กชาย", first, last),
		StudentSchoolID: "10" + id,
		NationalID:      "1100" + id,
		Gender:          "ชาย",
	}
}

func fixture() model.State {
	full := model.StudentScore{
		StudentID:      "a",
		Term1Classwork: ptr(28), Term1Exam: ptr(18),
		Term2Classwork: ptr(25), Term2Exam: ptr(15),
	}
	st := model.State{}.WithRoster(scope.Class, []model.StudentProfile{
		student("b", "ขวัญ", "มีสุข"),
		student("a", "กมล", "รักเรียน"),
	})
	st = st.WithSubject(scope, model.SubjectData{
		SubjectID:   "S1",
		SubjectName: "ภาษาไทย 1",
		MaxScores:   &model.MaxScores{Classwork: 30, Exam: 20},
		Students: []model.StudentScore{
			full,
			{StudentID: "b", Term1Classwork: ptr(20)},
			{StudentID: "gone", Term1Classwork: ptr(30)},
		},
	})
	st = st.WithCustom(scope, []model.CustomSubjectDefinition{{ID: "C1", BaseName: "ดนตรี"}})
	st = st.WithSubject(scope, model.SubjectData{
		SubjectID:   "C1",
		SubjectName: "ดนตรี 1",
		MaxScores:   &model.MaxScores{Classwork: 30, Exam: 25},
		Students:    []model.StudentScore{full},
	})
	return st.WithSummaries(scope, map[string]model.AttendanceSummary{
		"a": {TotalInstructionalDays: 200, DaysPresent: 190, DaysAbsent: 6, DaysLate: 3, DaysExcused: 4},
	})
}

func assembler() *Assembler {
	return NewAssembler(model.MaxScores{Classwork: 30, Exam: 20})
}

func TestAssemblePP6_All(t *testing.T) {
	r, err := assembler().AssemblePP6(fixture(), scope, "S1", SelectAll)
	require.NoError(t, err)

	assert.Equal(t, "บ้านหนองบัว", r.SchoolName)
	assert.Equal(t, "ภาษาไทย 1", r.SubjectName)
	assert.Equal(t, MaxLabels{Classwork: "30", Exam: "20", Term: "50", Year: "100"}, r.Max)
	require.Len(t, r.Rows, 2, "stale rows are never reported")

	assert.Equal(t, PP6Row{
		Index: 1, StudentID: "10a", Name: "เด็กชายกมล รักเรียน",
		Term1Classwork: "28.0", Term1Exam: "18.0", Term1Total: "46.0",
		Term2Classwork: "25.0", Term2Exam: "15.0", Term2Total: "40.0",
		YearTotal: "86.0", Grade: "4",
	}, r.Rows[0])

	assert.Equal(t, PP6Row{
		Index: 2, StudentID: "10b", Name: "เด็กชายขวัญ มีสุข",
		Term1Classwork: "20.0", Term1Exam: "-", Term1Total: "20.0",
		Term2Classwork: "-", Term2Exam: "-", Term2Total: "-",
		YearTotal: "20.0", Grade: "0",
	}, r.Rows[1])
}

func TestAssemblePP6_Selection(t *testing.T) {
	tests := []struct {
		name      string
		subjectID string
		selection string
		wantRows  int
		wantErr   error
	}{
		{name: "single student", subjectID: "S1", selection: "b", wantRows: 1},
		{name: "unknown student", subjectID: "S1", selection: "zzz", wantErr: common.ErrNotFound},
		{name: "empty selection", subjectID: "S1", selection: "", wantErr: common.ErrNotFound},
		{name: "unknown subject", subjectID: "S9", selection: SelectAll, wantErr: common.ErrNotFound},
		{name: "subject without sheet", subjectID: "S3", selection: SelectAll, wantRows: 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, err := assembler().AssemblePP6(fixture(), scope, tt.subjectID, tt.selection)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Len(t, r.Rows, tt.wantRows)
			assert.Equal(t, 1, r.Rows[0].Index)
		})
	}
}

func TestAssemblePP6_DefaultSchoolName(t *testing.T) {
	p := student("a", "กมล", "รักเรียน")
	p.SchoolName = ""
	st := model.State{}.WithRoster(scope.Class, []model.StudentProfile{p})

	r, err := assembler().AssemblePP6(st, scope, "S1", SelectAll)
	require.NoError(t, err)
	assert.Equal(t, "โรงเรียน", r.SchoolName)
	assert.Equal(t, "-", r.Rows[0].Grade)
}

func TestAssemblePP5(t *testing.T) {
	r, err := assembler().AssemblePP5(fixture(), scope, "a")
	require.NoError(t, err)

	assert.Equal(t, "เด็กชายกมล รักเรียน", r.Student.FullName)
	assert.Equal(t, "-", r.Student.BirthDate)
	require.Len(t, r.Subjects, len(model.BuiltinSubjects)+1)

	first := r.Subjects[0]
	assert.Equal(t, PP5SubjectRow{
		Index: 1, Name: "ภาษาไทย 1",
		Term1Total: "46.0", Term2Total: "40.0", YearTotal: "86.0",
		Grade: "4", YearMax: "เต็ม 100",
	}, first)

	unset := r.Subjects[1]
	assert.Equal(t, "คณิตศาสตร์ 1", unset.Name)
	assert.Equal(t, "-", unset.YearTotal)
	assert.Equal(t, "-", unset.Grade)
	assert.Equal(t, "เต็ม 100", unset.YearMax, "falls back to 30/20")

	custom := r.Subjects[len(r.Subjects)-1]
	assert.Equal(t, "ดนตรี 1", custom.Name)
	assert.Equal(t, "3.5", custom.Grade, "86 of 110")
	assert.Equal(t, "เต็ม 110", custom.YearMax)

	require.NotNil(t, r.Attendance)
	assert.Equal(t, "95.0%", r.Attendance.Rate)
	assert.Equal(t, 6, r.Attendance.Absent)
}

func TestAssemblePP5_NoSummary(t *testing.T) {
	r, err := assembler().AssemblePP5(fixture(), scope, "b")
	require.NoError(t, err)
	assert.Nil(t, r.Attendance)
	assert.Equal(t, "20.0", r.Subjects[0].YearTotal)
}

func TestAssemblePP5_NotOnRoster(t *testing.T) {
	_, err := assembler().AssemblePP5(fixture(), scope, "gone")
	assert.ErrorIs(t, err, common.ErrNotFound)

	_, err = assembler().AssemblePP5(fixture(), model.Scope{Year: "2567", Class: "ป.2"}, "a")
	assert.ErrorIs(t, err, common.ErrNotFound)
}
