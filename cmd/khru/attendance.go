package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/Veraticus/khru/internal/cli"
	"github.com/Veraticus/khru/internal/common"
	"github.com/Veraticus/khru/internal/model"
)

const dateLayout = "2006-01-02"

// statusAliases accepts the Thai words teachers write on paper registers.
var statusAliases = map[string]model.AttendanceStatus{
	"มา":  model.StatusPresent,
	"ขาด": model.StatusAbsent,
	"สาย": model.StatusLate,
	"ลา":  model.StatusExcused,
}

var statusLabels = map[model.AttendanceStatus]string{
	model.StatusPresent: "มา",
	model.StatusAbsent:  "ขาด",
	model.StatusLate:    "สาย",
	model.StatusExcused: "ลา",
}

func parseStatus(s string) (model.AttendanceStatus, error) {
	s = strings.TrimSpace(s)
	if st, ok := statusAliases[s]; ok {
		return st, nil
	}
	st := model.AttendanceStatus(strings.ToLower(s))
	if !st.Valid() {
		return "", common.Invalidf("unknown attendance status %q", s)
	}
	return st, nil
}

func attendanceCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "attendance",
		Short: "Daily attendance and yearly summaries",
	}
	cmd.AddCommand(attendanceMarkCmd(), attendanceShowCmd(), attendanceDatesCmd(), attendanceSummaryCmd())
	return cmd
}

func attendanceMarkCmd() *cobra.Command {
	var date, rest string

	cmd := &cobra.Command{
		Use:   "mark <student>=<status>...",
		Short: "Mark attendance for a date",
		Long: `Mark students for one teaching day. Status is present, absent, late,
excused, or มา/ขาด/สาย/ลา. With --rest every roster member not named on the
command line and not yet marked gets that status.`,
		Example: "  khru attendance mark 10234=ขาด 10240=late --rest present",
		RunE: func(cmd *cobra.Command, args []string) error {
			if date == "" {
				date = time.Now().Format(dateLayout)
			}
			return withApp(cmd.Context(), func(a *app) error {
				marks := make(model.DailyAttendanceRecord, len(args))
				for _, arg := range args {
					ref, raw, ok := strings.Cut(arg, "=")
					if !ok {
						return common.Invalidf("%q is not <student>=<status>", arg)
					}
					status, err := parseStatus(raw)
					if err != nil {
						return err
					}
					p, err := resolveStudent(a.ws, ref)
					if err != nil {
						return err
					}
					marks[p.ID] = status
				}
				if rest != "" {
					status, err := parseStatus(rest)
					if err != nil {
						return err
					}
					for _, e := range a.ws.DailyView(date) {
						if _, named := marks[e.Profile.ID]; !named && !e.Marked {
							marks[e.Profile.ID] = status
						}
					}
				}
				if len(marks) == 0 {
					return common.Invalidf("no students to mark")
				}
				if err := a.ws.MarkAttendance(cmd.Context(), date, marks); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess(fmt.Sprintf("บันทึกการมาเรียน %s %d คน", date, len(marks))))
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&date, "date", "d", "", "date as YYYY-MM-DD (default today)")
	cmd.Flags().StringVar(&rest, "rest", "", "status for everyone else not yet marked")
	return cmd
}

func attendanceShowCmd() *cobra.Command {
	var date string

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show the marks of a date",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if date == "" {
				date = time.Now().Format(dateLayout)
			}
			return withApp(cmd.Context(), func(a *app) error {
				entries := a.ws.DailyView(date)
				rows := make([][]string, 0, len(entries))
				for _, e := range entries {
					label := "-"
					if e.Marked {
						label = statusLabels[e.Status]
					}
					rows = append(rows, []string{e.Profile.DisplayID(), e.Profile.FullName, label})
				}
				fmt.Fprintln(cmd.OutOrStdout(), cli.FormatTitle("การมาเรียน "+date))
				renderTable(cmd.OutOrStdout(), []string{"เลขประจำตัว", "ชื่อ-สกุล", "สถานะ"}, rows)
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&date, "date", "d", "", "date as YYYY-MM-DD (default today)")
	return cmd
}

func attendanceDatesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "dates",
		Short: "List dates with recorded marks",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd.Context(), func(a *app) error {
				dates := a.ws.AttendanceDates()
				if len(dates) == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), cli.SubtitleStyle.Render("ยังไม่มีการบันทึกการมาเรียน"))
					return nil
				}
				for _, d := range dates {
					fmt.Fprintln(cmd.OutOrStdout(), d)
				}
				return nil
			})
		},
	}
}

func attendanceSummaryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Yearly attendance summary used by the PP5 report",
	}

	var s model.AttendanceSummary
	var derive bool
	set := &cobra.Command{
		Use:     "set <student>",
		Short:   "Record a student's attendance summary",
		Args:    cobra.ExactArgs(1),
		Example: "  khru attendance summary set 10234 --total 200 --present 195 --late 3 --derive-absent",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd.Context(), func(a *app) error {
				p, err := resolveStudent(a.ws, args[0])
				if err != nil {
					return err
				}
				if err := a.ws.SaveSummary(cmd.Context(), p.ID, s, derive); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess("บันทึกสรุปการมาเรียนของ "+p.FullName+" แล้ว"))
				return nil
			})
		},
	}
	f := set.Flags()
	f.IntVar(&s.TotalInstructionalDays, "total", 0, "instructional days")
	f.IntVar(&s.DaysPresent, "present", 0, "days present")
	f.IntVar(&s.DaysAbsent, "absent", 0, "days absent")
	f.IntVar(&s.DaysLate, "late", 0, "days late")
	f.IntVar(&s.DaysExcused, "excused", 0, "days excused")
	f.BoolVar(&derive, "derive-absent", false, "compute absent days as total minus present")
	cmd.AddCommand(set)

	cmd.AddCommand(&cobra.Command{
		Use:   "show <student>",
		Short: "Show a student's summary next to the daily tally",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd.Context(), func(a *app) error {
				p, err := resolveStudent(a.ws, args[0])
				if err != nil {
					return err
				}
				ov, err := a.ws.Attendance(p.ID)
				if err != nil {
					return err
				}
				t := ov.Tally
				rows := [][]string{
					{"บันทึกรายวัน", fmt.Sprint(t.Recorded), fmt.Sprint(t.Present), fmt.Sprint(t.Absent), fmt.Sprint(t.Late), fmt.Sprint(t.Excused), "-"},
				}
				if sum := ov.Summary; sum != nil {
					rows = append(rows, []string{
						"สรุป", fmt.Sprint(sum.TotalInstructionalDays), fmt.Sprint(sum.DaysPresent), fmt.Sprint(sum.DaysAbsent),
						fmt.Sprint(sum.DaysLate), fmt.Sprint(sum.DaysExcused), fmt.Sprintf("%.1f%%", sum.AttendanceRate()),
					})
				}
				fmt.Fprintln(cmd.OutOrStdout(), cli.FormatTitle(p.FullName))
				renderTable(cmd.OutOrStdout(), []string{"", "วัน", "มา", "ขาด", "สาย", "ลา", "ร้อยละ"}, rows)
				return nil
			})
		},
	})
	return cmd
}
