package engine

import (
	"slices"

	"github.com/Veraticus/khru/internal/model"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// A Collator carries mutable buffers, so each sort gets its own.
func thaiCollator() *collate.Collator {
	return collate.New(language.Thai)
}

// SortProfiles orders profiles by full name using Thai collation.
func SortProfiles(profiles []model.StudentProfile) {
	c := thaiCollator()
	slices.SortStableFunc(profiles, func(a, b model.StudentProfile) int {
		return c.CompareString(a.FullName, b.FullName)
	})
}

// SortScores orders score rows by student name using Thai collation.
func SortScores(rows []model.StudentScore) {
	c := thaiCollator()
	slices.SortStableFunc(rows, func(a, b model.StudentScore) int {
		return c.CompareString(a.StudentName, b.StudentName)
	})
}

func sortedRoster(profiles []model.StudentProfile) []model.StudentProfile {
	out := slices.Clone(profiles)
	SortProfiles(out)
	return out
}
