package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Veraticus/khru/internal/cli"
	"github.com/Veraticus/khru/internal/common"
	"github.com/Veraticus/khru/internal/engine"
	"github.com/Veraticus/khru/internal/model"
)

func subjectsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "subjects",
		Aliases: []string{"subject"},
		Short:   "Manage the subjects of the current class and year",
	}
	cmd.AddCommand(
		subjectsListCmd(),
		subjectsAddCmd(),
		subjectsDeleteCmd(),
		subjectsSelectCmd(),
		subjectsMaxCmd(),
		indicatorsCmd(),
	)
	return cmd
}

func subjectsListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List built-in and custom subjects",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd.Context(), func(a *app) error {
				current := a.ws.Session().Subject
				rows := [][]string{}
				for _, s := range a.ws.Subjects() {
					marker := ""
					if s.Subject.ID == current {
						marker = "▶"
					}
					kind := "พื้นฐาน"
					if s.Subject.IsCustom {
						kind = "เพิ่มเติม"
					}
					rows = append(rows, []string{marker, s.Subject.ID, s.DisplayName, kind, cli.FormatCheck(s.Complete)})
				}
				renderTable(cmd.OutOrStdout(), []string{"", "รหัส", "วิชา", "ประเภท", "ครบ"}, rows)
				return nil
			})
		},
	}
}

func subjectsAddCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "add <name>",
		Short:   "Add a custom subject and select it",
		Args:    cobra.MinimumNArgs(1),
		Example: "  khru subjects add ศิลปะ",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd.Context(), func(a *app) error {
				def, err := a.ws.AddSubject(cmd.Context(), strings.Join(args, " "))
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess(fmt.Sprintf("เพิ่มวิชา %s (%s)",
					engine.DisplaySubjectName(def.BaseName, a.ws.Session().Class), def.ID)))
				return nil
			})
		},
	}
}

func subjectsDeleteCmd() *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "delete <subject-id>",
		Short: "Delete a custom subject and all of its scores",
		Long: `Delete a custom subject of the current class and year together with its
scores and indicators. Built-in subjects cannot be deleted. You are asked to
type the subject name unless --yes is given.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd.Context(), func(a *app) error {
				def, ok := engine.FindSubject(a.ws.State(), a.ws.Session().Scope(), args[0])
				if !ok {
					return common.NotFoundf("subject %s", args[0])
				}
				if !yes {
					confirm := cli.NewConfirmer(cmd.InOrStdin(), cmd.OutOrStdout())
					action := "ลบวิชา " + def.BaseName + " พร้อมคะแนนทั้งหมด"
					if err := confirm.ConfirmTyped(cmd.Context(), action, def.BaseName); err != nil {
						return err
					}
				}
				if err := a.ws.DeleteSubject(cmd.Context(), def.ID); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess("ลบวิชา "+def.BaseName+" แล้ว"))
				return nil
			})
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "skip the typed confirmation")
	return cmd
}

func subjectsSelectCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "select <subject-id>",
		Short:   "Make a subject the current one",
		Args:    cobra.ExactArgs(1),
		Example: "  khru subjects select S2",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd.Context(), func(a *app) error {
				if err := a.ws.SelectSubject(cmd.Context(), args[0]); err != nil {
					return err
				}
				sheet, err := a.ws.Sheet()
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess("วิชา "+sheet.DisplayName))
				return nil
			})
		},
	}
}

func subjectsMaxCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "max [<classwork> <exam>]",
		Short: "Show or set the per-term maxima of the current subject",
		Long: `Without arguments, print the classwork and exam maxima of the current
subject. With two arguments, set them. They must add up to the term total.`,
		Args:    cobra.MatchAll(cobra.RangeArgs(0, 2), notOneArg),
		Example: "  khru subjects max 35 20",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd.Context(), func(a *app) error {
				if len(args) == 2 {
					classwork, err := parseNumber(args[0])
					if err != nil {
						return err
					}
					exam, err := parseNumber(args[1])
					if err != nil {
						return err
					}
					if err := a.ws.SetMaxScores(cmd.Context(), classwork, exam); err != nil {
						return err
					}
				}
				sheet, err := a.ws.Sheet()
				if err != nil {
					return err
				}
				m := sheet.Max
				fmt.Fprintf(cmd.OutOrStdout(), "%s: เก็บ %g + สอบ %g = %g ต่อภาค (%g ต่อปี)\n",
					sheet.DisplayName, m.Classwork, m.Exam, m.TermTotal(), m.YearTotal())
				return nil
			})
		},
	}
}

func notOneArg(_ *cobra.Command, args []string) error {
	if len(args) == 1 {
		return fmt.Errorf("give both classwork and exam maxima")
	}
	return nil
}

func parseNumber(s string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, common.Invalidf("%q is not a number", s)
	}
	return v, nil
}

func indicatorsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "indicators",
		Short: "Manage curriculum indicators of the current subject",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List indicators",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd.Context(), func(a *app) error {
				sheet, err := a.ws.Sheet()
				if err != nil {
					return err
				}
				if len(sheet.Indicators) == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), cli.SubtitleStyle.Render("ยังไม่มีตัวชี้วัด"))
					return nil
				}
				rows := make([][]string, 0, len(sheet.Indicators))
				for _, in := range sheet.Indicators {
					src := ""
					if in.Source == model.IndicatorAI {
						src = cli.RobotIcon
					}
					rows = append(rows, []string{in.ID, in.Text, src})
				}
				renderTable(cmd.OutOrStdout(), []string{"รหัส", "ตัวชี้วัด", ""}, rows)
				return nil
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "add <text>...",
		Short: "Add one indicator per argument",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd.Context(), func(a *app) error {
				n, err := a.ws.AddIndicators(cmd.Context(), args, model.IndicatorManual)
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess(fmt.Sprintf("เพิ่มตัวชี้วัด %d รายการ", n)))
				return nil
			})
		},
	})

	var query string
	var keep bool
	suggest := &cobra.Command{
		Use:   "suggest",
		Short: "Ask the AI provider for indicators",
		Long: `Ask the configured AI provider for curriculum indicators of the current
subject and class. With --add the suggestions are saved to the subject.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd.Context(), func(a *app) error {
				out := cmd.OutOrStdout()
				fmt.Fprintln(out, cli.InfoStyle.Render(cli.RobotIcon+" กำลังขอคำแนะนำ..."))
				items, err := a.ws.SuggestIndicators(cmd.Context(), query)
				if err != nil {
					return err
				}
				for i, s := range items {
					fmt.Fprintf(out, "%d. %s\n", i+1, s)
				}
				if !keep || len(items) == 0 {
					return nil
				}
				n, err := a.ws.AddIndicators(cmd.Context(), items, model.IndicatorAI)
				if err != nil {
					return err
				}
				fmt.Fprintln(out, cli.FormatSuccess(fmt.Sprintf("เพิ่มตัวชี้วัด %d รายการ", n)))
				return nil
			})
		},
	}
	suggest.Flags().StringVarP(&query, "query", "q", "", "search text (defaults to the subject name)")
	suggest.Flags().BoolVar(&keep, "add", false, "save the suggestions")
	cmd.AddCommand(suggest)

	cmd.AddCommand(&cobra.Command{
		Use:   "remove <indicator-id>",
		Short: "Remove an indicator",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd.Context(), func(a *app) error {
				if err := a.ws.RemoveIndicator(cmd.Context(), args[0]); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess("ลบตัวชี้วัดแล้ว"))
				return nil
			})
		},
	})

	return cmd
}
