package roster

// Name is one fixture student.
type Name struct {
	Title string
	First string
	Last  string
}

// Fixture is a predefined set of students.
type Fixture struct {
	Name     string
	Students []Name
}

var (
	// FixtureSmallClass is three students listed out of name order.
	FixtureSmallClass = Fixture{
		Name: "small class",
		Students: []Name{
			{Title: "เด็กชาย", First: "ปิติ", Last: "พากเพียร"},
			{Title: "เด็กหญิง", First: "กานดา", Last: "ดีเลิศ"},
			{Title: "เด็กชาย", First: "ข้าว", Last: "หอม"},
		},
	}

	// FixtureSingle is one student, for report tests.
	FixtureSingle = Fixture{
		Name:     "single",
		Students: []Name{{Title: "เด็กหญิง", First: "มานี", Last: "มีตา"}},
	}
)
