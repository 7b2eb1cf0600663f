package engine

import (
	"testing"

	"github.com/Veraticus/khru/internal/common"
	"github.com/Veraticus/khru/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func csvRow(class, nationalID, first, last string) model.StudentProfile {
	return model.StudentProfile{
		ID:         nationalID,
		ClassName:  class,
		NationalID: nationalID,
		Title:      "เด็กหญิง",
		FirstName:  first,
		LastName:   last,
	}
}

func TestImportProfiles(t *testing.T) {
	e := newTestEngine()

	t.Run("inserts, skips unknown classes, sorts", func(t *testing.T) {
		st, res, err := e.ImportProfiles(model.State{}, true, []model.StudentProfile{
			csvRow("ป.1", "1100000000002", "สุดา", "ใจงาม"),
			csvRow("ป.1", "1100000000001", "กานดา", "ดีเลิศ"),
			csvRow("ม.1", "1100000000003", "ปิติ", "ยินดี"),
			csvRow("", "1100000000004", "ชูใจ", "เพื่อนดี"),
			csvRow("ป.2", "", "มานะ", "อดทน"),
		})
		require.NoError(t, err)
		assert.Equal(t, ImportResult{Imported: 3, Skipped: 2}, res)

		roster := st.Roster("ป.1")
		require.Len(t, roster, 2)
		assert.Equal(t, "เด็กหญิงกานดา ดีเลิศ", roster[0].FullName)
		assert.Equal(t, testNow, roster[0].LastProfileUpdate)

		p2 := st.Roster("ป.2")
		require.Len(t, p2, 1)
		assert.Equal(t, "id1", p2[0].ID, "rows without national id get a generated id")
	})

	t.Run("matching national id updates in place", func(t *testing.T) {
		st, _, err := e.ImportProfiles(model.State{}, true, []model.StudentProfile{csvRow("ป.1", "1100000000001", "กานดา", "ดีเลิศ")})
		require.NoError(t, err)

		again := csvRow("ป.1", "1100000000001", "กานดา", "ดีเยี่ยม")
		again.ID = "other-token"
		st, res, err := e.ImportProfiles(st, true, []model.StudentProfile{again})
		require.NoError(t, err)
		assert.Equal(t, ImportResult{Updated: 1}, res)

		roster := st.Roster("ป.1")
		require.Len(t, roster, 1)
		assert.Equal(t, "1100000000001", roster[0].ID, "existing id is preserved")
		assert.Equal(t, "เด็กหญิงกานดา ดีเยี่ยม", roster[0].FullName)
	})

	t.Run("duplicate national id within one batch yields one profile", func(t *testing.T) {
		st, res, err := e.ImportProfiles(model.State{}, true, []model.StudentProfile{
			csvRow("ป.1", "1100000000009", "วีระ", "กล้าหาญ"),
			csvRow("ป.1", "1100000000009", "วีระพงษ์", "กล้าหาญ"),
		})
		require.NoError(t, err)
		assert.Equal(t, ImportResult{Imported: 1, Updated: 1}, res)
		require.Len(t, st.Roster("ป.1"), 1)
		assert.Equal(t, "วีระพงษ์", st.Roster("ป.1")[0].FirstName)
	})

	t.Run("not authorized", func(t *testing.T) {
		st, res, err := e.ImportProfiles(model.State{}, false, []model.StudentProfile{csvRow("ป.1", "1", "a", "b")})
		require.ErrorIs(t, err, common.ErrUnauthorized)
		assert.Equal(t, ImportResult{}, res)
		assert.Empty(t, st.Roster("ป.1"))
	})
}

func TestRemoveStudentFromClass(t *testing.T) {
	e := newTestEngine()
	st := seeded(t, e)
	st = fillAll(t, e, st, "S1", "a", [4]float64{20, 10, 20, 10})
	st, err := e.InitializeSubjectData(st, testScope, "S2")
	require.NoError(t, err)
	st, err = e.SaveAttendanceSummary(st, true, testScope, "a", model.AttendanceSummary{TotalInstructionalDays: 100, DaysPresent: 95, DaysAbsent: 5})
	require.NoError(t, err)
	st, err = e.SaveDailyAttendance(st, true, testScope, "2024-06-03", model.DailyAttendanceRecord{"a": model.StatusPresent, "b": model.StatusLate})
	require.NoError(t, err)

	lastYear := model.Scope{Year: "2566", Class: testScope.Class}
	st, err = e.InitializeSubjectData(st, lastYear, "S1")
	require.NoError(t, err)

	before := st
	st, err = e.RemoveStudentFromClass(st, true, testScope, "a")
	require.NoError(t, err)

	assert.False(t, OnRoster(st, testScope.Class, "a"))
	for _, subject := range []string{"S1", "S2"} {
		for _, row := range RosterJoinedScores(st, testScope, subject) {
			assert.NotEqual(t, "a", row.StudentID)
		}
		data, _ := st.Subject(testScope, subject)
		_, ok := data.FindScore("a")
		assert.False(t, ok, "stored row must be deleted in %s", subject)
	}
	assert.NotContains(t, st.Summaries(testScope), "a")
	assert.NotContains(t, st.DailyRecords(testScope)["2024-06-03"], "a")
	assert.Contains(t, st.DailyRecords(testScope)["2024-06-03"], "b")

	assert.True(t, OnRoster(before, testScope.Class, "a"), "previous snapshot keeps the student")
	assert.Contains(t, before.DailyRecords(testScope)["2024-06-03"], "a")

	old, _ := st.Subject(lastYear, "S1")
	_, ok := old.FindScore("a")
	assert.True(t, ok, "other years are untouched")

	_, err = e.RemoveStudentFromClass(st, true, testScope, "a")
	require.ErrorIs(t, err, common.ErrNotFound)
	_, err = e.RemoveStudentFromClass(before, false, testScope, "a")
	require.ErrorIs(t, err, common.ErrUnauthorized)
}

func TestSaveStudentProfile(t *testing.T) {
	e := newTestEngine()
	st := seeded(t, e)
	st, err := e.InitializeSubjectData(st, testScope, "S2")
	require.NoError(t, err)

	lastYear := model.Scope{Year: "2566", Class: testScope.Class}
	st, err = e.InitializeSubjectData(st, lastYear, "S1")
	require.NoError(t, err)

	edited, ok := model.FindProfile(st.Roster(testScope.Class), "b")
	require.True(t, ok)
	edited.Title = "เด็กหญิง"
	edited.FirstName = "  ขวัญตา "
	edited.StudentSchoolID = "9001"
	edited.FullName = "ignored"

	st, err = e.SaveStudentProfile(st, true, testScope, edited)
	require.NoError(t, err)

	saved, _ := model.FindProfile(st.Roster(testScope.Class), "b")
	assert.Equal(t, "ขวัญตา", saved.FirstName)
	assert.Equal(t, "เด็กหญิงขวัญตา มีสุข", saved.FullName)

	for _, subject := range []string{"S1", "S2"} {
		data, _ := st.Subject(testScope, subject)
		row, ok := data.FindScore("b")
		require.True(t, ok)
		assert.Equal(t, "เด็กหญิงขวัญตา มีสุข", row.StudentName)
		assert.Equal(t, "9001", row.StudentIDNumber)
	}

	old, _ := st.Subject(lastYear, "S1")
	row, _ := old.FindScore("b")
	assert.Equal(t, "ขวัญใจ มีสุข", row.StudentName, "other years keep their copy")

	blank := saved
	blank.LastName = "   "
	_, err = e.SaveStudentProfile(st, true, testScope, blank)
	require.ErrorIs(t, err, common.ErrInvalidInput)

	missing := saved
	missing.ID = "nobody"
	_, err = e.SaveStudentProfile(st, true, testScope, missing)
	require.ErrorIs(t, err, common.ErrNotFound)

	_, err = e.SaveStudentProfile(st, false, testScope, blank)
	require.ErrorIs(t, err, common.ErrUnauthorized)
}

func TestAddStudentToClass(t *testing.T) {
	e := newTestEngine()
	st := seeded(t, e)

	in := NewStudentInput{Title: "เด็กชาย", FirstName: "ก้อง", LastName: "เกียรติ", Gender: "ชาย", StudentSchoolID: "3001"}
	next, p, err := e.AddStudentToClass(st, true, testScope, in)
	require.NoError(t, err)
	assert.Equal(t, "manual_id1", p.ID)
	assert.Equal(t, "เด็กชายก้อง เกียรติ", p.FullName)
	assert.Equal(t, testScope.Class, p.ClassName)
	assert.True(t, OnRoster(next, testScope.Class, p.ID))

	data, _ := next.Subject(testScope, "S1")
	_, ok := data.FindScore(p.ID)
	assert.False(t, ok, "rows appear only after the next initialization")

	next, err = e.InitializeSubjectData(next, testScope, "S1")
	require.NoError(t, err)
	data, _ = next.Subject(testScope, "S1")
	_, ok = data.FindScore(p.ID)
	assert.True(t, ok)

	_, p2, err := e.AddStudentToClass(next, true, testScope, in)
	require.NoError(t, err)
	assert.NotEqual(t, p.ID, p2.ID)

	for _, bad := range []NewStudentInput{
		{FirstName: "a", LastName: "b", Gender: "ชาย"},
		{FirstName: " ", LastName: "b", Gender: "ชาย", StudentSchoolID: "1"},
		{FirstName: "a", LastName: "b", StudentSchoolID: "1"},
	} {
		_, _, err := e.AddStudentToClass(st, true, testScope, bad)
		require.ErrorIs(t, err, common.ErrInvalidInput)
	}

	_, _, err = e.AddStudentToClass(st, false, testScope, in)
	require.ErrorIs(t, err, common.ErrUnauthorized)
}
