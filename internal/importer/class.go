package importer

import (
	"strings"

	"golang.org/x/text/width"

	"github.com/Veraticus/khru/internal/model"
)

var thaiDigits = strings.NewReplacer(
	"๐", "0", "๑", "1", "๒", "2", "๓", "3", "๔", "4",
	"๕", "5", "๖", "6", "๗", "7", "๘", "8", "๙", "9",
)

// classLongPrefix is how the national export spells a primary level in full.
const classLongPrefix = "ประถมศึกษาปีที่"

// NormalizeClass maps the spellings found in school exports onto the roster
// labels, so "ประถมศึกษาปีที่ ๓", "ป. 3" and "ป3" all become "ป.3".
// Values it does not recognize are returned trimmed and otherwise untouched.
func NormalizeClass(raw string) string {
	s := strings.TrimSpace(width.Narrow.String(raw))
	s = thaiDigits.Replace(s)

	var level string
	switch {
	case strings.HasPrefix(s, classLongPrefix):
		level = strings.TrimPrefix(s, classLongPrefix)
	case strings.HasPrefix(s, model.ClassPrefix):
		level = strings.TrimPrefix(s, model.ClassPrefix)
	case strings.HasPrefix(s, "ป"):
		level = strings.TrimPrefix(s, "ป")
	default:
		return s
	}

	label := model.ClassPrefix + strings.Join(strings.Fields(level), "")
	if model.IsClassLevel(label) {
		return label
	}
	return s
}
