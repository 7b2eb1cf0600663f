// Package roster builds student profiles for tests.
//
// Example usage:
//
//	profiles := roster.NewBuilder(t).
//		WithFixture(roster.FixtureSmallClass).
//		InClass("ป.2").
//		WithStudent("มานี", "มีตา").
//		Build()
package roster

import (
	"fmt"
	"testing"
	"time"

	"github.com/Veraticus/khru/internal/model"
)

// DefaultSchool is the school name given to built profiles.
const DefaultSchool = "โรงเรียนบ้านหนองบัว"

// Builder accumulates profiles. Students are added to the class most recently
// set with InClass, ป.1 until then. National ids are assigned in order starting
// at 1100000000001 and double as profile ids, the way the school export keys them.
type Builder struct {
	t        testing.TB
	updated  time.Time
	class    string
	school   string
	profiles []model.StudentProfile
}

// NewBuilder starts an empty roster in ป.1.
func NewBuilder(t testing.TB) *Builder {
	return &Builder{
		t:       t,
		class:   model.ClassLevels[0],
		school:  DefaultSchool,
		updated: time.Date(2024, time.May, 16, 8, 0, 0, 0, time.UTC),
	}
}

// InClass sets the class of students added afterwards. The class is not
// checked, so tests can build rows the import must skip.
func (b *Builder) InClass(class string) *Builder {
	b.class = class
	return b
}

// AtSchool sets the school name of students added afterwards.
func (b *Builder) AtSchool(name string) *Builder {
	b.school = name
	return b
}

// WithStudent adds one student.
func (b *Builder) WithStudent(first, last string) *Builder {
	return b.WithTitledStudent("", first, last)
}

// WithTitledStudent adds one student with a name title such as เด็กหญิง.
func (b *Builder) WithTitledStudent(title, first, last string) *Builder {
	if first == "" || last == "" {
		b.t.Fatalf("roster: student needs first and last name, got %q %q", first, last)
	}
	n := len(b.profiles) + 1
	nationalID := fmt.Sprintf("11000000%05d", n)
	b.profiles = append(b.profiles, model.StudentProfile{
		ID:                nationalID,
		NationalID:        nationalID,
		StudentSchoolID:   fmt.Sprintf("%d", 10000+n),
		ClassName:         b.class,
		SchoolName:        b.school,
		Title:             title,
		FirstName:         first,
		LastName:          last,
		FullName:          model.ComposeFullName(title, first, last),
		LastProfileUpdate: b.updated,
	})
	return b
}

// WithFixture adds every student of f to the current class.
func (b *Builder) WithFixture(f Fixture) *Builder {
	for _, s := range f.Students {
		b.WithTitledStudent(s.Title, s.First, s.Last)
	}
	return b
}

// Build returns a copy of the accumulated profiles.
func (b *Builder) Build() []model.StudentProfile {
	out := make([]model.StudentProfile, len(b.profiles))
	copy(out, b.profiles)
	return out
}
