package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/Veraticus/khru/internal/cli"
	"github.com/Veraticus/khru/internal/report"
)

type reportFlags struct {
	format string
	output string
}

func (f *reportFlags) bind(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.format, "format", report.FormatText, "output format: text or json")
	cmd.Flags().StringVarP(&f.output, "output", "o", "", "write to a file instead of stdout")
}

// write renders into the output file, or stdout when none is given.
func (f *reportFlags) write(cmd *cobra.Command, render func(report.Renderer, io.Writer) error) error {
	r, err := report.NewRenderer(f.format)
	if err != nil {
		return err
	}
	if f.output == "" {
		return render(r, cmd.OutOrStdout())
	}

	file, err := os.Create(f.output)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", f.output, err)
	}
	if err := render(r, file); err != nil {
		_ = file.Close()
		return err
	}
	if err := file.Close(); err != nil {
		return fmt.Errorf("failed to write %s: %w", f.output, err)
	}
	fmt.Fprintln(cmd.ErrOrStderr(), cli.FormatSuccess("บันทึกรายงานที่ "+f.output))
	return nil
}

func reportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Produce PP5 and PP6 school reports",
	}
	cmd.AddCommand(reportPP6Cmd(), reportPP5Cmd())
	return cmd
}

func reportPP6Cmd() *cobra.Command {
	var flags reportFlags
	var student string

	cmd := &cobra.Command{
		Use:   "pp6",
		Short: "Score report (ปพ.6) of the current subject",
		Long: `Print the ปพ.6 score sheet of the current subject for the whole class,
or for a single student with --student.`,
		Example: "  khru report pp6\n  khru report pp6 --student 10234 --format json -o pp6.json",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd.Context(), func(a *app) error {
				selection := report.SelectAll
				if student != "" && student != report.SelectAll {
					p, err := resolveStudent(a.ws, student)
					if err != nil {
						return err
					}
					selection = p.ID
				}
				r, err := a.ws.PP6(selection)
				if err != nil {
					return err
				}
				return flags.write(cmd, func(rd report.Renderer, w io.Writer) error {
					return rd.RenderPP6(w, r)
				})
			})
		},
	}

	flags.bind(cmd)
	cmd.Flags().StringVarP(&student, "student", "s", report.SelectAll, `student, or "all"`)
	return cmd
}

func reportPP5Cmd() *cobra.Command {
	var flags reportFlags

	cmd := &cobra.Command{
		Use:     "pp5 <student>",
		Short:   "Student report book (ปพ.5) for the current year",
		Args:    cobra.ExactArgs(1),
		Example: "  khru report pp5 10234",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd.Context(), func(a *app) error {
				p, err := resolveStudent(a.ws, args[0])
				if err != nil {
					return err
				}
				r, err := a.ws.PP5(p.ID)
				if err != nil {
					return err
				}
				return flags.write(cmd, func(rd report.Renderer, w io.Writer) error {
					return rd.RenderPP5(w, r)
				})
			})
		},
	}

	flags.bind(cmd)
	return cmd
}
