package model

// AttendanceStatus is the mark a student receives on a teaching day.
type AttendanceStatus string

// Attendance marks.
const (
	StatusPresent AttendanceStatus = "present"
	StatusAbsent  AttendanceStatus = "absent"
	StatusLate    AttendanceStatus = "late"
	StatusExcused AttendanceStatus = "excused"
)

// AttendanceStatuses lists every mark in display order.
var AttendanceStatuses = []AttendanceStatus{StatusPresent, StatusAbsent, StatusLate, StatusExcused}

// Valid returns true when the status is a supported value.
func (s AttendanceStatus) Valid() bool {
	switch s {
	case StatusPresent, StatusAbsent, StatusLate, StatusExcused:
		return true
	default:
		return false
	}
}

// DailyAttendanceRecord maps student id to a mark for one date. Missing ids are unrecorded.
type DailyAttendanceRecord map[string]AttendanceStatus

// AttendanceSummary is the manually entered attendance rollup of a student for a year.
type AttendanceSummary struct {
	TotalInstructionalDays int `json:"totalInstructionalDays" validate:"gt=0"`
	DaysPresent            int `json:"daysPresent" validate:"gte=0,ltefield=TotalInstructionalDays"`
	DaysAbsent             int `json:"daysAbsent" validate:"gte=0"`
	DaysLate               int `json:"daysLate" validate:"gte=0"`
	DaysExcused            int `json:"daysExcused" validate:"gte=0"`
}

// AttendanceRate is the share of instructional days present, in percent.
func (a AttendanceSummary) AttendanceRate() float64 {
	if a.TotalInstructionalDays <= 0 {
		return 0
	}
	return float64(a.DaysPresent) / float64(a.TotalInstructionalDays) * 100
}
