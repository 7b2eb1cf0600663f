package model

import (
	"slices"
	"strconv"
	"strings"
	"time"
)

// ClassPrefix is the label prefix shared by every primary class level.
const ClassPrefix = "ป."

// ClassLevels lists the class labels a roster can belong to, in display order.
var ClassLevels = []string{"ป.1", "ป.2", "ป.3", "ป.4", "ป.5", "ป.6"}

// IsClassLevel reports whether name is one of the known class labels.
func IsClassLevel(name string) bool {
	return slices.Contains(ClassLevels, name)
}

// ClassNumber strips the class prefix, so "ป.1" becomes "1".
func ClassNumber(className string) string {
	return strings.TrimPrefix(className, ClassPrefix)
}

// Scope identifies the academic year and class every year-scoped entity lives under.
type Scope struct {
	Year  string
	Class string
}

// DefaultAcademicYear returns the Buddhist-calendar academic year in effect at now.
// The Thai school year starts in May, so January through April belong to the previous year.
func DefaultAcademicYear(now time.Time) string {
	year := now.Year() + 543
	if now.Month() < time.May {
		year--
	}
	return strconv.Itoa(year)
}
