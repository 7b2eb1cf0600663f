package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/Veraticus/khru/internal/cli"
	"github.com/Veraticus/khru/internal/engine"
	"github.com/Veraticus/khru/internal/importer"
)

func studentsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "students",
		Aliases: []string{"student"},
		Short:   "Manage the roster of the current class",
	}
	cmd.AddCommand(
		studentsListCmd(),
		studentsShowCmd(),
		studentsImportCmd(),
		studentsAddCmd(),
		studentsEditCmd(),
		studentsRemoveCmd(),
	)
	return cmd
}

func studentsListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List the roster in name order",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd.Context(), func(a *app) error {
				roster := a.ws.Roster()
				if len(roster) == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), cli.SubtitleStyle.Render("ยังไม่มีนักเรียนในชั้น "+a.ws.Session().Class))
					return nil
				}
				rows := make([][]string, 0, len(roster))
				for i, p := range roster {
					rows = append(rows, []string{fmt.Sprint(i + 1), p.DisplayID(), p.FullName, p.Gender, p.Room, p.ID})
				}
				renderTable(cmd.OutOrStdout(), []string{"ที่", "เลขประจำตัว", "ชื่อ-สกุล", "เพศ", "ห้อง", "id"}, rows)
				return nil
			})
		},
	}
}

func studentsShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <student>",
		Short: "Print a student's profile and attendance",
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
				body := fmt.Sprintf("เลขประจำตัว: %s\nเลขประชาชน: %s\nชั้น: %s ห้อง %s\nเพศ: %s\nวันเกิด: %s\nผู้ปกครอง: %s %s (%s)\nมาเรียน (บันทึกรายวัน): %d/%d วัน",
					orDash(p.StudentSchoolID), orDash(p.NationalID), p.ClassName, orDash(p.Room), orDash(p.Gender),
					orDash(p.BirthDate), p.Guardian.FirstName, p.Guardian.LastName, orDash(p.Guardian.Relation),
					ov.Tally.Present, ov.Tally.Recorded)
				fmt.Fprintln(cmd.OutOrStdout(), cli.RenderBox(p.FullName, body))
				return nil
			})
		},
	}
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func studentsImportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import <file.csv>",
		Short: "Import student profiles from a school-system CSV export",
		Long: `Import the student profile CSV exported by the school information system.
Rows are routed to their class by the ชั้น column. A row whose id already
exists replaces that profile; the previous database is checkpointed first.`,
		Args:    cobra.ExactArgs(1),
		Example: "  khru students import ~/Downloads/students.csv",
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("failed to open %s: %w", args[0], err)
			}
			defer f.Close()

			handler := cli.NewInterruptHandler(cmd.ErrOrStderr())
			ctx, stop := handler.HandleInterrupts(cmd.Context(), "การนำเข้า")
			defer stop()

			parser := importer.NewParser(importer.WithProgress(cli.Progress(cmd.ErrOrStderr(), "อ่านไฟล์")))
			parsed, err := parser.Parse(f)
			if err != nil {
				return err
			}
			if err := ctx.Err(); err != nil {
				return err
			}

			return withApp(ctx, func(a *app) error {
				res, err := a.ws.ImportProfiles(ctx, parsed)
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				fmt.Fprintln(out, cli.FormatSuccess(fmt.Sprintf("นำเข้าใหม่ %d คน · ปรับปรุง %d คน · ข้าม %d แถว",
					res.Imported, res.Updated, res.Skipped)))
				for _, s := range parsed.Skips {
					fmt.Fprintln(out, cli.SubtleStyle.Render(fmt.Sprintf("  บรรทัด %d: %s", s.Line, s.Reason)))
				}
				return nil
			})
		},
	}
}

func studentsAddCmd() *cobra.Command {
	var in engine.NewStudentInput

	cmd := &cobra.Command{
		Use:     "add",
		Short:   "Add a student to the current class by hand",
		Example: "  khru students add --title เด็กชาย --first สมชาย --last ใจดี --gender ชาย --number 10234",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd.Context(), func(a *app) error {
				p, err := a.ws.AddStudent(cmd.Context(), in)
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess(fmt.Sprintf("เพิ่ม %s (%s)", p.FullName, p.ID)))
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&in.Title, "title", "", "title, e.g. เด็กชาย")
	cmd.Flags().StringVar(&in.FirstName, "first", "", "first name")
	cmd.Flags().StringVar(&in.LastName, "last", "", "last name")
	cmd.Flags().StringVar(&in.Gender, "gender", "", "gender")
	cmd.Flags().StringVar(&in.StudentSchoolID, "number", "", "student number")
	return cmd
}

func studentsEditCmd() *cobra.Command {
	var v struct {
		title, first, last, gender, number, room, birth string
		guardianFirst, guardianLast, guardianRelation   string
	}

	cmd := &cobra.Command{
		Use:   "edit <student>",
		Short: "Edit a student's profile",
		Long: `Change profile fields of a student. Only the flags given are changed.
Name changes are copied onto the student's score rows.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd.Context(), func(a *app) error {
				p, err := resolveStudent(a.ws, args[0])
				if err != nil {
					return err
				}
				flags := cmd.Flags()
				for name, dst := range map[string]*string{
					"title":             &p.Title,
					"first":             &p.FirstName,
					"last":              &p.LastName,
					"gender":            &p.Gender,
					"number":            &p.StudentSchoolID,
					"room":              &p.Room,
					"birth-date":        &p.BirthDate,
					"guardian-first":    &p.Guardian.FirstName,
					"guardian-last":     &p.Guardian.LastName,
					"guardian-relation": &p.Guardian.Relation,
				} {
					if flags.Changed(name) {
						*dst, _ = flags.GetString(name)
					}
				}
				if err := a.ws.SaveProfile(cmd.Context(), p); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess("บันทึกประวัติ "+p.ID+" แล้ว"))
				return nil
			})
		},
	}

	f := cmd.Flags()
	f.StringVar(&v.title, "title", "", "title")
	f.StringVar(&v.first, "first", "", "first name")
	f.StringVar(&v.last, "last", "", "last name")
	f.StringVar(&v.gender, "gender", "", "gender")
	f.StringVar(&v.number, "number", "", "student number")
	f.StringVar(&v.room, "room", "", "room")
	f.StringVar(&v.birth, "birth-date", "", "birth date")
	f.StringVar(&v.guardianFirst, "guardian-first", "", "guardian first name")
	f.StringVar(&v.guardianLast, "guardian-last", "", "guardian last name")
	f.StringVar(&v.guardianRelation, "guardian-relation", "", "guardian relation")
	return cmd
}

func studentsRemoveCmd() *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "remove <student>",
		Short: "Remove a student from the current class",
		Long: `Remove a student's profile, daily attendance marks, and attendance summary.
Score rows disappear from the sheets on the next view. You are asked to type
the student's full name unless --yes is given.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd.Context(), func(a *app) error {
				p, err := resolveStudent(a.ws, args[0])
				if err != nil {
					return err
				}
				if !yes {
					confirm := cli.NewConfirmer(cmd.InOrStdin(), cmd.OutOrStdout())
					if err := confirm.ConfirmTyped(cmd.Context(), "ลบ "+p.FullName+" ออกจากชั้น "+p.ClassName, p.FullName); err != nil {
						return err
					}
				}
				if err := a.ws.RemoveStudent(cmd.Context(), p.ID); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess("ลบ "+p.FullName+" แล้ว"))
				return nil
			})
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "skip the typed confirmation")
	return cmd
}
