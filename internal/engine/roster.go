package engine

import (
	"maps"
	"slices"
	"strings"

	"github.com/Veraticus/khru/internal/common"
	"github.com/Veraticus/khru/internal/model"
)

// ImportResult counts what an import did with each row.
type ImportResult struct {
	Imported int `json:"imported"`
	Updated  int `json:"updated"`
	Skipped  int `json:"skipped"`
}

// ImportProfiles merges parsed profiles into the class rosters named by each row.
// A row matches an existing profile by id, or by equal non-empty national id, and
// then replaces it while keeping its id. Unmatched rows are inserted. Rows naming
// an unknown class are counted as skipped; no row aborts the import.
func (e *Engine) ImportProfiles(st model.State, authorized bool, rows []model.StudentProfile) (model.State, ImportResult, error) {
	var res ImportResult
	if err := authorize(authorized, "import profiles"); err != nil {
		return st, res, err
	}

	now := e.now()
	rosters := make(map[string][]model.StudentProfile)

	for _, row := range rows {
		class := strings.TrimSpace(row.ClassName)
		if !model.IsClassLevel(class) {
			res.Skipped++
			continue
		}

		roster, touched := rosters[class]
		if !touched {
			roster = slices.Clone(st.Roster(class))
		}

		row.ClassName = class
		row.FullName = model.ComposeFullName(row.Title, row.FirstName, row.LastName)
		row.LastProfileUpdate = now

		idx := slices.IndexFunc(roster, func(p model.StudentProfile) bool {
			return (row.ID != "" && p.ID == row.ID) ||
				(row.NationalID != "" && p.NationalID == row.NationalID)
		})
		if idx >= 0 {
			row.ID = roster[idx].ID
			roster[idx] = row
			res.Updated++
		} else {
			if row.ID == "" {
				row.ID = row.NationalID
			}
			if row.ID == "" {
				row.ID = e.newID()
			}
			roster = append(roster, row)
			res.Imported++
		}
		rosters[class] = roster
	}

	classes := make([]string, 0, len(rosters))
	for class := range rosters {
		classes = append(classes, class)
	}
	slices.Sort(classes)
	for _, class := range classes {
		roster := rosters[class]
		SortProfiles(roster)
		st = st.WithRoster(class, roster)
	}
	return st, res, nil
}

// RemoveStudentFromClass takes a student off the class roster and deletes the
// student's score rows, attendance summary, and daily marks for the year.
// It is irreversible; callers confirm with the user first.
func (e *Engine) RemoveStudentFromClass(st model.State, authorized bool, scope model.Scope, profileID string) (model.State, error) {
	if err := authorize(authorized, "remove student"); err != nil {
		return st, err
	}
	if !OnRoster(st, scope.Class, profileID) {
		return st, common.NotFoundf("student %s is not on the %s roster", profileID, scope.Class)
	}

	roster := slices.DeleteFunc(slices.Clone(st.Roster(scope.Class)), func(p model.StudentProfile) bool {
		return p.ID == profileID
	})
	st = st.WithRoster(scope.Class, roster)

	if subjects := st.ClassSubjects(scope); subjects != nil {
		next := make(map[string]model.SubjectData, len(subjects))
		for id, data := range subjects {
			data.Students = slices.DeleteFunc(slices.Clone(data.Students), func(r model.StudentScore) bool {
				return r.StudentID == profileID
			})
			next[id] = data
		}
		st = st.WithClassSubjects(scope, next)
	}

	if summaries := st.Summaries(scope); summaries != nil {
		next := maps.Clone(summaries)
		delete(next, profileID)
		st = st.WithSummaries(scope, next)
	}

	if records := st.DailyRecords(scope); records != nil {
		next := make(map[string]model.DailyAttendanceRecord, len(records))
		for date, rec := range records {
			if _, ok := rec[profileID]; ok {
				rec = maps.Clone(rec)
				delete(rec, profileID)
			}
			next[date] = rec
		}
		st = st.WithDailyRecords(scope, next)
	}

	return st, nil
}

// SaveStudentProfile stores an edited profile and copies the new name and number
// into every score row of the student for the given year. Other years keep the
// copies they had.
func (e *Engine) SaveStudentProfile(st model.State, authorized bool, scope model.Scope, edited model.StudentProfile) (model.State, error) {
	if err := authorize(authorized, "save profile"); err != nil {
		return st, err
	}

	edited.FirstName = strings.TrimSpace(edited.FirstName)
	edited.LastName = strings.TrimSpace(edited.LastName)
	if err := e.check(profileNames{FirstName: edited.FirstName, LastName: edited.LastName}); err != nil {
		return st, err
	}

	roster := slices.Clone(st.Roster(scope.Class))
	idx := slices.IndexFunc(roster, func(p model.StudentProfile) bool { return p.ID == edited.ID })
	if idx < 0 {
		return st, common.NotFoundf("student %s is not on the %s roster", edited.ID, scope.Class)
	}

	edited.ClassName = scope.Class
	edited.FullName = model.ComposeFullName(edited.Title, edited.FirstName, edited.LastName)
	edited.LastProfileUpdate = e.now()
	roster[idx] = edited
	SortProfiles(roster)
	st = st.WithRoster(scope.Class, roster)

	subjects := st.ClassSubjects(scope)
	if subjects == nil {
		return st, nil
	}
	next := make(map[string]model.SubjectData, len(subjects))
	for id, data := range subjects {
		if i := slices.IndexFunc(data.Students, func(r model.StudentScore) bool { return r.StudentID == edited.ID }); i >= 0 {
			rows := slices.Clone(data.Students)
			rows[i].StudentName = edited.FullName
			rows[i].StudentIDNumber = edited.DisplayID()
			SortScores(rows)
			data.Students = rows
		}
		next[id] = data
	}
	return st.WithClassSubjects(scope, next), nil
}

type profileNames struct {
	FirstName string `json:"firstName" validate:"required"`
	LastName  string `json:"lastName" validate:"required"`
}

// NewStudentInput holds the fields required to add a student by hand.
type NewStudentInput struct {
	Title           string `json:"title"`
	FirstName       string `json:"firstName" validate:"required"`
	LastName        string `json:"lastName" validate:"required"`
	Gender          string `json:"gender" validate:"required"`
	StudentSchoolID string `json:"studentSchoolId" validate:"required"`
}

// AddStudentToClass creates a profile with a fresh id and puts it on the roster.
// Score rows appear on the next InitializeSubjectData.
func (e *Engine) AddStudentToClass(st model.State, authorized bool, scope model.Scope, in NewStudentInput) (model.State, model.StudentProfile, error) {
	if err := authorize(authorized, "add student"); err != nil {
		return st, model.StudentProfile{}, err
	}

	in.Title = strings.TrimSpace(in.Title)
	in.FirstName = strings.TrimSpace(in.FirstName)
	in.LastName = strings.TrimSpace(in.LastName)
	in.Gender = strings.TrimSpace(in.Gender)
	in.StudentSchoolID = strings.TrimSpace(in.StudentSchoolID)
	if err := e.check(in); err != nil {
		return st, model.StudentProfile{}, err
	}

	profile := model.StudentProfile{
		ID:                "manual_" + e.newID(),
		ClassName:         scope.Class,
		Title:             in.Title,
		FirstName:         in.FirstName,
		LastName:          in.LastName,
		FullName:          model.ComposeFullName(in.Title, in.FirstName, in.LastName),
		Gender:            in.Gender,
		StudentSchoolID:   in.StudentSchoolID,
		LastProfileUpdate: e.now(),
	}

	roster := append(slices.Clone(st.Roster(scope.Class)), profile)
	SortProfiles(roster)
	return st.WithRoster(scope.Class, roster), profile, nil
}
