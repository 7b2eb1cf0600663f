package model

// DefaultSubjectID is the subject selected when nothing else is.
const DefaultSubjectID = "S1"

// SubjectDefinition is an entry of the combined subject list.
type SubjectDefinition struct {
	ID       string `json:"id"`
	BaseName string `json:"baseName"`
	IsCustom bool   `json:"isCustom"`
}

// CustomSubjectDefinition is a user-defined subject for one year and class.
type CustomSubjectDefinition struct {
	ID       string `json:"id"`
	BaseName string `json:"baseName"`
}

// BuiltinSubjects are present for every class and year and cannot be changed.
var BuiltinSubjects = []SubjectDefinition{
	{ID: "S1", BaseName: "ภาษาไทย"},
	{ID: "S2", BaseName: "คณิตศาสตร์"},
	{ID: "S3", BaseName: "วิทยาศาสตร์"},
	{ID: "S4", BaseName: "สังคมศึกษา"},
	{ID: "S5", BaseName: "ประวัติศาสตร์"},
	{ID: "S6", BaseName: "ภาษาอังกฤษ"},
}

// IsBuiltinSubject reports whether id names one of the fixed subjects.
func IsBuiltinSubject(id string) bool {
	for _, s := range BuiltinSubjects {
		if s.ID == id {
			return true
		}
	}
	return false
}
