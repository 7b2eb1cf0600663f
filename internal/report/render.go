package report

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/Veraticus/khru/internal/common"
)

// Renderer writes assembled reports. Rendering never touches gradebook state;
// failures surface as external failures.
type Renderer interface {
	RenderPP6(w io.Writer, r PP6Report) error
	RenderPP5(w io.Writer, r PP5Report) error
}

// Output formats.
const (
	FormatText = "text"
	FormatJSON = "json"
)

// NewRenderer returns the renderer for format.
func NewRenderer(format string) (Renderer, error) {
	switch strings.ToLower(format) {
	case "", FormatText:
		return TextRenderer{}, nil
	case FormatJSON:
		return JSONRenderer{}, nil
	default:
		return nil, common.Invalidf("unknown report format %q", format)
	}
}

// JSONRenderer writes reports as indented JSON.
type JSONRenderer struct{}

// RenderPP6 implements Renderer.
func (JSONRenderer) RenderPP6(w io.Writer, r PP6Report) error {
	return writeJSON(w, "pp6", r)
}

// RenderPP5 implements Renderer.
func (JSONRenderer) RenderPP5(w io.Writer, r PP5Report) error {
	return writeJSON(w, "pp5", r)
}

func writeJSON(w io.Writer, name string, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return common.External("render "+name, err)
	}
	return nil
}

var (
	headingStyle = lipgloss.NewStyle().Bold(true).Align(lipgloss.Center)
	subStyle     = lipgloss.NewStyle().Align(lipgloss.Center)
	sectionStyle = lipgloss.NewStyle().Bold(true).MarginTop(1)
	headerCell   = lipgloss.NewStyle().Bold(true).Padding(0, 1).Align(lipgloss.Center)
	cell         = lipgloss.NewStyle().Padding(0, 1).Align(lipgloss.Center)
	nameCell     = lipgloss.NewStyle().Padding(0, 1)
)

// TextRenderer draws reports as terminal tables.
type TextRenderer struct{}

func grid(headers []string, rows [][]string, leftCols ...int) *table.Table {
	return table.New().
		Border(lipgloss.NormalBorder()).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerCell
			}
			for _, c := range leftCols {
				if c == col {
					return nameCell
				}
			}
			return cell
		})
}

// RenderPP6 implements Renderer.
func (TextRenderer) RenderPP6(w io.Writer, r PP6Report) error {
	headers := []string{
		"ลำดับ", "เลขประจำตัว", "ชื่อ-นามสกุล",
		"ภ.1 เก็บ (" + r.Max.Classwork + ")", "ภ.1 สอบ (" + r.Max.Exam + ")", "ภ.1 รวม (" + r.Max.Term + ")",
		"ภ.2 เก็บ (" + r.Max.Classwork + ")", "ภ.2 สอบ (" + r.Max.Exam + ")", "ภ.2 รวม (" + r.Max.Term + ")",
		"รวม (" + r.Max.Year + ")", "เกรดปี",
	}
	rows := make([][]string, 0, len(r.Rows))
	for _, row := range r.Rows {
		rows = append(rows, []string{
			strconv.Itoa(row.Index), row.StudentID, row.Name,
			row.Term1Classwork, row.Term1Exam, row.Term1Total,
			row.Term2Classwork, row.Term2Exam, row.Term2Total,
			row.YearTotal, row.Grade,
		})
	}

	out := lipgloss.JoinVertical(lipgloss.Left,
		headingStyle.Render("แบบรายงานผลการพัฒนาคุณภาพผู้เรียนรายบุคคล (ปพ.๖)"),
		subStyle.Render("ระดับชั้นประถมศึกษา โรงเรียน"+r.SchoolName),
		subStyle.Render("ภาคเรียนที่ ๑ - ๒ ปีการศึกษา "+r.AcademicYear),
		fmt.Sprintf("รายวิชา: %s    ชั้น: %s", r.SubjectName, r.ClassName),
		grid(headers, rows, 2).Render(),
	)
	return writeText(w, "pp6", out)
}

// RenderPP5 implements Renderer.
func (TextRenderer) RenderPP5(w io.Writer, r PP5Report) error {
	s := r.Student
	info := grid(nil, [][]string{
		{"ชื่อ-นามสกุล:", s.FullName, "เลขประจำตัวนักเรียน:", s.StudentSchoolID},
		{"ชั้นเรียน:", r.ClassName, "เลขประจำตัวประชาชน:", s.NationalID},
		{"วันเกิด:", s.BirthDate, "เพศ:", s.Gender},
	}, 0, 1, 2, 3).Border(lipgloss.HiddenBorder())

	attendance := "(ยังไม่มีสรุปเวลามาเรียน)"
	if a := r.Attendance; a != nil {
		attendance = grid(nil, [][]string{
			{"วันเปิดเรียน:", days(a.TotalDays), "มาเรียน:", days(a.Present), "ร้อยละ:", a.Rate},
			{"ขาดเรียน:", days(a.Absent), "ลาป่วย/ลากิจ:", days(a.Excused), "มาสาย:", days(a.Late)},
		}, 0, 1, 2, 3, 4, 5).Border(lipgloss.HiddenBorder()).Render()
	}

	rows := make([][]string, 0, len(r.Subjects))
	for _, row := range r.Subjects {
		rows = append(rows, []string{
			strconv.Itoa(row.Index), row.Name, row.Term1Total, row.Term2Total, row.YearTotal, row.Grade, row.YearMax,
		})
	}
	results := grid(
		[]string{"ลำดับ", "รายวิชา", "ภาคเรียนที่ 1", "ภาคเรียนที่ 2", "รวมทั้งปี", "ระดับผลการเรียน", "คะแนนเต็มปี"},
		rows, 1,
	)

	out := lipgloss.JoinVertical(lipgloss.Left,
		headingStyle.Render("สมุดรายงานประจำตัวนักเรียน (ปพ.๕)"),
		subStyle.Render("โรงเรียน"+r.SchoolName),
		subStyle.Render("ปีการศึกษา "+r.AcademicYear),
		sectionStyle.Render("ข้อมูลนักเรียน"),
		info.Render(),
		sectionStyle.Render("สรุปเวลามาเรียน (ตลอดปีการศึกษา)"),
		attendance,
		sectionStyle.Render("ผลการเรียนรายวิชา"),
		results.Render(),
	)
	return writeText(w, "pp5", out)
}

func days(n int) string {
	return strconv.Itoa(n) + " วัน"
}

func writeText(w io.Writer, name, s string) error {
	if _, err := io.WriteString(w, s+"\n"); err != nil {
		return common.External("render "+name, err)
	}
	return nil
}
