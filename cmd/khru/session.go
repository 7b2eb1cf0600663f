package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/Veraticus/khru/internal/auth"
	"github.com/Veraticus/khru/internal/cli"
	"github.com/Veraticus/khru/internal/model"
)

func loginCmd() *cobra.Command {
	var passphrase string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Enter edit mode",
		Long: `Turn on edit mode with the shared passphrase. Every command that
changes the gradebook needs edit mode. It stays on until "khru logout".`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd.Context(), func(a *app) error {
				if passphrase == "" {
					p, err := readPassphrase(cmd.Context(), cmd.InOrStdin(), cmd.OutOrStdout())
					if err != nil {
						return err
					}
					passphrase = p
				}
				if err := a.ws.Login(cmd.Context(), passphrase); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess("เข้าสู่โหมดแก้ไขแล้ว"))
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&passphrase, "passphrase", "p", "", "passphrase (prompted when omitted)")
	return cmd
}

// readPassphrase prompts without echo on a terminal and reads a plain line otherwise.
func readPassphrase(ctx context.Context, in io.Reader, out io.Writer) (string, error) {
	fmt.Fprint(out, cli.FormatPrompt("รหัสผ่าน"))
	if f, ok := in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		b, err := term.ReadPassword(int(f.Fd()))
		fmt.Fprintln(out)
		if err != nil {
			return "", fmt.Errorf("failed to read passphrase: %w", err)
		}
		return string(b), nil
	}
	line, err := cli.NewNonBlockingReader(in).ReadLine(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to read passphrase: %w", err)
	}
	return line, nil
}

func logoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Leave edit mode",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd.Context(), func(a *app) error {
				if err := a.ws.Logout(cmd.Context()); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess("ออกจากโหมดแก้ไขแล้ว"))
				return nil
			})
		},
	}
}

func statusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the current year, class, subject, and mode",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd.Context(), func(a *app) error {
				s := a.ws.Session()
				sheet, err := a.ws.Sheet()
				if err != nil {
					return err
				}
				ai := "ปิด"
				if a.ws.HasAdvisor() {
					ai = a.cfg.LLM.Provider
				}
				body := fmt.Sprintf("%s\nวิชา: %s (%s)\nนักเรียน: %d คน\nAI: %s\nฐานข้อมูล: %s",
					sessionLine(s), sheet.DisplayName, sheet.Subject.ID,
					len(a.ws.Roster()), ai, a.store.Path())
				fmt.Fprintln(cmd.OutOrStdout(), cli.RenderBox(cli.BookIcon+" khru", body))
				return nil
			})
		},
	}
}

func yearCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "year",
		Short: "Manage the active academic year",
	}
	cmd.AddCommand(&cobra.Command{
		Use:     "set <year>",
		Short:   "Switch to another academic year (Buddhist era, e.g. 2568)",
		Args:    cobra.ExactArgs(1),
		Example: "  khru year set 2568",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd.Context(), func(a *app) error {
				if err := a.ws.SetAcademicYear(cmd.Context(), args[0]); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess("ปีการศึกษา "+args[0]))
				return nil
			})
		},
	})
	return cmd
}

func classCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "class",
		Short: "Manage the current class",
	}
	cmd.AddCommand(&cobra.Command{
		Use:       "select <class>",
		Short:     "Switch to another class (ป.1 - ป.6)",
		Args:      cobra.ExactArgs(1),
		ValidArgs: model.ClassLevels,
		Example:   "  khru class select ป.4",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd.Context(), func(a *app) error {
				if err := a.ws.SelectClass(cmd.Context(), args[0]); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess("ชั้น "+args[0]))
				return nil
			})
		},
	})
	return cmd
}

func dashboardCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "dashboard",
		Short: "Show score completion for every subject of the class",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd.Context(), func(a *app) error {
				d := a.ws.Dashboard()
				out := cmd.OutOrStdout()

				fmt.Fprintln(out, cli.FormatTitle("ภาพรวมชั้น "+d.Session.Class))
				fmt.Fprintln(out, cli.SubtleStyle.Render(sessionLine(d.Session)))
				fmt.Fprintf(out, "%s กรอกคะแนนครบ %d/%d วิชา · นักเรียน %d คน\n\n",
					cli.ChartIcon, d.Completion.Completed, d.Completion.Total, d.Students)

				rows := make([][]string, 0, len(d.Subjects))
				for _, s := range d.Subjects {
					rows = append(rows, []string{s.Subject.ID, s.DisplayName, cli.FormatCheck(s.Complete)})
				}
				renderTable(out, []string{"รหัส", "วิชา", "ครบ"}, rows)
				return nil
			})
		},
	}
}

func historyCmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recent changes",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd.Context(), func(a *app) error {
				entries, err := a.ws.History(cmd.Context(), limit)
				if err != nil {
					return err
				}
				if len(entries) == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), cli.SubtitleStyle.Render("ยังไม่มีประวัติการแก้ไข"))
					return nil
				}
				rows := make([][]string, 0, len(entries))
				for _, e := range entries {
					rows = append(rows, []string{
						strconv.FormatInt(e.ID, 10),
						e.At.Local().Format("2006-01-02 15:04"),
						e.Op, e.Year, e.Class, e.Detail,
					})
				}
				renderTable(cmd.OutOrStdout(), []string{"#", "เวลา", "การกระทำ", "ปี", "ชั้น", "รายละเอียด"}, rows)
				return nil
			})
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "number of entries")
	return cmd
}

func passphraseCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "passphrase",
		Short: "Passphrase utilities",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "hash",
		Short: "Print a bcrypt hash for auth.passphrase_hash",
		RunE: func(cmd *cobra.Command, _ []string) error {
			plain, err := readPassphrase(cmd.Context(), cmd.InOrStdin(), cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			hash, err := auth.HashPassphrase(plain)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), hash)
			return nil
		},
	})
	return cmd
}
