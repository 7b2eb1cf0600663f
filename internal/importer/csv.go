// Package importer reads student profile exports into roster rows.
package importer

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Veraticus/khru/internal/common"
	"github.com/Veraticus/khru/internal/model"
)

// Columns is the header row of a profile export, in column order.
var Columns = []string{
	"รหัสโรงเรียน",
	"ชื่อโรงเรียน",
	"เลขประจำตัวประชาชน",
	"ชั้น",
	"ห้อง",
	"เลขประจำตัวนักเรียน2",
	"เพศ",
	"คำนำหน้าชื่อ",
	"ชื่อ",
	"นามสกุล",
	"วันเกิด",
	"อายุ(ปี)",
	"น้ำหนัก",
	"ส่วนสูง",
	"กลุ่มเลือด",
	"ศาสนา",
	"เชื้อชาติ",
	"สัญชาติ",
	"บ้านเลขที่",
	"หมู่",
	"ถนน/ซอย",
	"ตำบล",
	"อำเภอ",
	"จังหวัด",
	"ชื่อผู้ปกครอง",
	"นามสกุลผู้ปกครอง",
	"อาชีพของผู้ปกครอง",
	"ความเกี่ยวข้องของผู้ปกครองกับนักเรียน",
	"ชื่อบิดา",
	"นามสกุลบิดา",
	"อาชีพของบิดา",
	"ชื่อมารดา",
	"นามสกุลมารดา",
	"อาชีพของมารดา",
	"ความด้อยโอกาส",
	"ยังไม่สามารถจำหน่ายได้ (3.1.8)",
}

const (
	colSchoolCode = iota
	colSchoolName
	colNationalID
	colClass
	colRoom
	colStudentID
	colGender
	colTitle
	colFirstName
	colLastName
	colBirthDate
	colAge
	colWeight
	colHeight
	colBloodGroup
	colReligion
	colEthnicity
	colNationality
	colHouseNumber
	colMoo
	colStreet
	colSubDistrict
	colDistrict
	colProvince
	colGuardianFirst
	colGuardianLast
	colGuardianOccupation
	colGuardianRelation
	colFatherFirst
	colFatherLast
	colFatherOccupation
	colMotherFirst
	colMotherLast
	colMotherOccupation
	colDisadvantage
	colStatusNote
)

// Skip reasons reported in Result.Skips.
const (
	SkipBlank        = "blank line"
	SkipShort        = "insufficient columns"
	SkipMissingClass = "missing class"
	SkipMissingName  = "missing national id and name"
)

// Skip records one rejected data row. Line is the 1-based file line the row starts on.
type Skip struct {
	Reason string `json:"reason"`
	Line   int    `json:"line"`
}

// Result is the outcome of parsing one export.
type Result struct {
	Profiles []model.StudentProfile `json:"profiles"`
	Skips    []Skip                 `json:"skips,omitempty"`
}

// Skipped is the number of rejected data rows.
func (r Result) Skipped() int {
	return len(r.Skips)
}

// ProgressFunc is told how many data rows have been handled out of total.
type ProgressFunc func(done, total int)

// Parser turns profile exports into StudentProfile rows.
type Parser struct {
	now      func() time.Time
	newID    func() string
	progress ProgressFunc
}

// Option configures a Parser.
type Option func(*Parser)

// WithClock sets the time stamped on LastProfileUpdate.
func WithClock(now func() time.Time) Option {
	return func(p *Parser) { p.now = now }
}

// WithIDGenerator sets the id source for rows without a national id.
func WithIDGenerator(gen func() string) Option {
	return func(p *Parser) { p.newID = gen }
}

// WithProgress registers a progress callback.
func WithProgress(fn ProgressFunc) Option {
	return func(p *Parser) { p.progress = fn }
}

// NewParser creates a parser.
func NewParser(opts ...Option) *Parser {
	p := &Parser{
		now:   time.Now,
		newID: uuid.NewString,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Parse reads a whole export. The first row is the header and is never
// imported. Empty lines are not records and are neither imported nor counted. Rows that cannot become a profile are recorded in Result.Skips;
// only an unreadable file is an error.
func (p *Parser) Parse(r io.Reader) (Result, error) {
	var res Result

	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true
	cr.TrimLeadingSpace = true

	records, lines, err := readAll(cr)
	if err != nil {
		return res, err
	}
	if len(records) == 0 {
		return res, nil
	}

	data, lines := records[1:], lines[1:]
	now := p.now()
	for i, rec := range data {
		if reason := p.check(rec); reason != "" {
			slog.Debug("Skipping profile row", "line", lines[i], "reason", reason)
			res.Skips = append(res.Skips, Skip{Line: lines[i], Reason: reason})
		} else {
			res.Profiles = append(res.Profiles, p.profile(rec, now))
		}
		if p.progress != nil {
			p.progress(i+1, len(data))
		}
	}

	slog.Info("Parsed profile export",
		"profiles", len(res.Profiles),
		"skipped", res.Skipped())
	return res, nil
}

// readAll reads every record along with the file line it starts on.
func readAll(cr *csv.Reader) ([][]string, []int, error) {
	var records [][]string
	var lines []int
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			return records, lines, nil
		}
		if err != nil {
			var perr *csv.ParseError
			if errors.As(err, &perr) {
				return nil, nil, fmt.Errorf("%w: csv line %d: %w", common.ErrInvalidInput, perr.Line, perr.Err)
			}
			return nil, nil, fmt.Errorf("failed to read profile export: %w", err)
		}
		line, _ := cr.FieldPos(0)
		records = append(records, rec)
		lines = append(lines, line)
	}
}

func (p *Parser) check(rec []string) string {
	if isBlank(rec) {
		return SkipBlank
	}
	if len(rec) < len(Columns) {
		return SkipShort
	}
	if field(rec, colClass) == "" {
		return SkipMissingClass
	}
	if field(rec, colNationalID) == "" &&
		(field(rec, colFirstName) == "" || field(rec, colLastName) == "") {
		return SkipMissingName
	}
	return ""
}

func (p *Parser) profile(rec []string, now time.Time) model.StudentProfile {
	nationalID := field(rec, colNationalID)
	id := nationalID
	if id == "" {
		id = p.newID()
		slog.Warn("Generated id for student without national id",
			"first_name", field(rec, colFirstName),
			"last_name", field(rec, colLastName))
	}

	title := field(rec, colTitle)
	first := field(rec, colFirstName)
	last := field(rec, colLastName)

	return model.StudentProfile{
		ID:              id,
		SchoolCode:      field(rec, colSchoolCode),
		SchoolName:      field(rec, colSchoolName),
		NationalID:      nationalID,
		ClassName:       NormalizeClass(field(rec, colClass)),
		Room:            field(rec, colRoom),
		StudentSchoolID: field(rec, colStudentID),
		Gender:          field(rec, colGender),
		Title:           title,
		FirstName:       first,
		LastName:        last,
		FullName:        model.ComposeFullName(title, first, last),
		BirthDate:       field(rec, colBirthDate),
		Age:             field(rec, colAge),
		Weight:          field(rec, colWeight),
		Height:          field(rec, colHeight),
		BloodGroup:      field(rec, colBloodGroup),
		Religion:        field(rec, colReligion),
		Ethnicity:       field(rec, colEthnicity),
		Nationality:     field(rec, colNationality),
		Address: model.Address{
			HouseNumber: field(rec, colHouseNumber),
			Moo:         field(rec, colMoo),
			Street:      field(rec, colStreet),
			SubDistrict: field(rec, colSubDistrict),
			District:    field(rec, colDistrict),
			Province:    field(rec, colProvince),
		},
		Guardian: model.PersonInfo{
			FirstName:  field(rec, colGuardianFirst),
			LastName:   field(rec, colGuardianLast),
			Occupation: field(rec, colGuardianOccupation),
			Relation:   field(rec, colGuardianRelation),
		},
		Father: model.PersonInfo{
			FirstName:  field(rec, colFatherFirst),
			LastName:   field(rec, colFatherLast),
			Occupation: field(rec, colFatherOccupation),
		},
		Mother: model.PersonInfo{
			FirstName:  field(rec, colMotherFirst),
			LastName:   field(rec, colMotherLast),
			Occupation: field(rec, colMotherOccupation),
		},
		Disadvantage:      field(rec, colDisadvantage),
		StatusNote:        field(rec, colStatusNote),
		LastProfileUpdate: now,
	}
}

func field(rec []string, i int) string {
	if i >= len(rec) {
		return ""
	}
	return strings.TrimSpace(rec[i])
}

func isBlank(rec []string) bool {
	for _, v := range rec {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}
