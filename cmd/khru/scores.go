package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Veraticus/khru/internal/cli"
	"github.com/Veraticus/khru/internal/common"
	"github.com/Veraticus/khru/internal/grading"
	"github.com/Veraticus/khru/internal/model"
)

func scoresCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scores",
		Short: "View and enter scores for the current subject",
	}
	cmd.AddCommand(scoresShowCmd(), scoresSetCmd(), scoresTipsCmd())
	return cmd
}

func scoresShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the score sheet",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd.Context(), func(a *app) error {
				sheet, err := a.ws.Sheet()
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				fmt.Fprintln(out, cli.FormatTitle(sheet.DisplayName))
				fmt.Fprintln(out, cli.SubtleStyle.Render(sessionLine(a.ws.Session())))

				if len(sheet.Rows) == 0 {
					fmt.Fprintln(out, cli.SubtitleStyle.Render("ยังไม่มีนักเรียนในชั้นนี้ (khru students import)"))
					return nil
				}

				m := sheet.Max
				headers := []string{
					"รหัส", "ชื่อ",
					fmt.Sprintf("t1cw/%g", m.Classwork), fmt.Sprintf("t1ex/%g", m.Exam), "ภาค 1",
					fmt.Sprintf("t2cw/%g", m.Classwork), fmt.Sprintf("t2ex/%g", m.Exam), "ภาค 2",
					fmt.Sprintf("รวม/%g", m.YearTotal()), "เกรด",
				}
				rows := make([][]string, 0, len(sheet.Rows))
				for _, r := range sheet.Rows {
					t := grading.TotalsOf(r)
					rows = append(rows, []string{
						r.StudentIDNumber, r.StudentName,
						formatScore(r.Term1Classwork), formatScore(r.Term1Exam), formatScore(t.Term1),
						formatScore(r.Term2Classwork), formatScore(r.Term2Exam), formatScore(t.Term2),
						formatScore(t.Year), grading.YearGrade(r, m).String(),
					})
				}
				renderTable(out, headers, rows)
				fmt.Fprintln(out, "กรอกคะแนนครบ", cli.FormatCheck(sheet.Complete))
				return nil
			})
		},
	}
}

func scoresSetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "set <student> <field> <value>",
		Short: "Record one score component",
		Long: `Record one score component for a student of the current subject.

Fields: t1cw (term 1 classwork), t1ex (term 1 exam), t2cw, t2ex.
A value of "-" clears the component. The student may be given by id,
student number, or full name.`,
		Args:    cobra.ExactArgs(3),
		Example: "  khru scores set 10234 t1cw 25\n  khru scores set 10234 t2ex -",
		RunE: func(cmd *cobra.Command, args []string) error {
			field, err := model.ParseScoreField(args[1])
			if err != nil {
				return common.Invalidf("%v", err)
			}
			value, err := parseScore(args[2])
			if err != nil {
				return err
			}
			return withApp(cmd.Context(), func(a *app) error {
				p, err := resolveStudent(a.ws, args[0])
				if err != nil {
					return err
				}
				if err := a.ws.SetScore(cmd.Context(), p.ID, field, value); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess(fmt.Sprintf("%s %s = %s", p.FullName, field, formatScore(value))))
				return nil
			})
		},
	}
}

func scoresTipsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "tips <student>",
		Short: "Ask the AI provider for study tips for a student",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd.Context(), func(a *app) error {
				p, err := resolveStudent(a.ws, args[0])
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), cli.InfoStyle.Render(cli.RobotIcon+" กำลังขอคำแนะนำ..."))
				tips, err := a.ws.StudyTips(cmd.Context(), p.ID)
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), cli.RenderBox(p.FullName, tips))
				return nil
			})
		},
	}
}
