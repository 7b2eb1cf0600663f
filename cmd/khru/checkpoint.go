package main

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/Veraticus/khru/internal/cli"
	"github.com/Veraticus/khru/internal/model"
	"github.com/Veraticus/khru/internal/storage"
)

func checkpointCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "checkpoint",
		Short: "Manage database checkpoints",
		Long: `Create, list, restore, and delete database checkpoints.

Checkpoints save the whole gradebook before risky changes. Imports, student
removal, and subject deletion take one automatically; the newest few
automatic checkpoints are kept.`,
		Example: `  # Snapshot before the end-of-term grading session
  khru checkpoint create --tag before-term2

  # List all checkpoints
  khru checkpoint list

  # Restore from a checkpoint
  khru checkpoint restore before-term2`,
	}

	cmd.AddCommand(createCheckpointCmd())
	cmd.AddCommand(listCheckpointsCmd())
	cmd.AddCommand(restoreCheckpointCmd())
	cmd.AddCommand(deleteCheckpointCmd())

	return cmd
}

// withCheckpoints opens storage alone; checkpoints do not need the workspace.
func withCheckpoints(ctx context.Context, fn func(*storage.SQLiteStorage, *storage.CheckpointManager) error) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	store, err := initStorage(ctx, cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	manager, err := store.NewCheckpointManager()
	if err != nil {
		return fmt.Errorf("failed to create checkpoint manager: %w", err)
	}
	return fn(store, manager)
}

func createCheckpointCmd() *cobra.Command {
	var tag string
	var description string

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a new checkpoint",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withCheckpoints(cmd.Context(), func(_ *storage.SQLiteStorage, m *storage.CheckpointManager) error {
				info, err := m.Create(cmd.Context(), tag, description)
				if err != nil {
					return fmt.Errorf("failed to create checkpoint: %w", err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s สร้างจุดสำรอง %s (%s)\n",
					cli.SuccessStyle.Render(cli.SuccessIcon),
					cli.InfoStyle.Render(info.ID),
					formatFileSize(info.FileSize))
				if info.Description != "" {
					fmt.Fprintf(cmd.OutOrStdout(), "  คำอธิบาย: %s\n", info.Description)
				}
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&tag, "tag", "t", "", "checkpoint name (timestamped when omitted)")
	cmd.Flags().StringVarP(&description, "description", "d", "", "description of the checkpoint")
	return cmd
}

func listCheckpointsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all checkpoints",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withCheckpoints(cmd.Context(), func(_ *storage.SQLiteStorage, m *storage.CheckpointManager) error {
				checkpoints, err := m.List(cmd.Context())
				if err != nil {
					return fmt.Errorf("failed to list checkpoints: %w", err)
				}
				if len(checkpoints) == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), cli.SubtitleStyle.Render("ยังไม่มีจุดสำรอง"))
					return nil
				}

				rows := make([][]string, 0, len(checkpoints))
				for _, cp := range checkpoints {
					kind := "manual"
					if cp.IsAuto {
						kind = "auto"
					}
					rows = append(rows, []string{
						cp.ID,
						formatRelativeTime(cp.CreatedAt),
						formatFileSize(cp.FileSize),
						strconv.Itoa(cp.Documents),
						strconv.Itoa(cp.Activities),
						kind,
						cp.Description,
					})
				}
				renderTable(cmd.OutOrStdout(), []string{"NAME", "CREATED", "SIZE", "DOCUMENTS", "HISTORY", "TYPE", "DESCRIPTION"}, rows)
				return nil
			})
		},
	}
}

func restoreCheckpointCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "restore <checkpoint-id>",
		Short: "Restore the database from a checkpoint",
		Long:  `Replace the current database with a checkpoint. Changes made since the checkpoint are lost.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			id := args[0]

			err := withCheckpoints(ctx, func(_ *storage.SQLiteStorage, m *storage.CheckpointManager) error {
				info, err := m.Info(ctx, id)
				if err != nil {
					return err
				}
				if !force {
					fmt.Fprintf(cmd.OutOrStdout(), "  สร้างเมื่อ: %s\n", info.CreatedAt.Local().Format("2006-01-02 15:04:05"))
					if info.Description != "" {
						fmt.Fprintf(cmd.OutOrStdout(), "  คำอธิบาย: %s\n", info.Description)
					}
					confirm := cli.NewConfirmer(cmd.InOrStdin(), cmd.OutOrStdout())
					if err := confirm.ConfirmTyped(ctx, "แทนที่ฐานข้อมูลด้วยจุดสำรอง "+id, id); err != nil {
						return err
					}
				}
				// Restore closes the live connection itself.
				if err := m.Restore(ctx, id); err != nil {
					return fmt.Errorf("failed to restore checkpoint: %w", err)
				}
				return nil
			})
			if err != nil {
				return err
			}

			// Reopen so the restore itself shows up in the history.
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			store, err := initStorage(ctx, cfg)
			if err != nil {
				return err
			}
			defer store.Close()
			_ = store.RecordActivity(ctx, model.Activity{At: time.Now(), Op: "restore_checkpoint", Detail: id})

			fmt.Fprintf(cmd.OutOrStdout(), "%s กู้คืนจากจุดสำรอง %s แล้ว\n",
				cli.SuccessStyle.Render(cli.SuccessIcon),
				cli.InfoStyle.Render(id))
			return nil
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "skip the typed confirmation")
	return cmd
}

func deleteCheckpointCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "delete <checkpoint-id>",
		Short: "Delete a checkpoint",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			id := args[0]

			return withCheckpoints(ctx, func(_ *storage.SQLiteStorage, m *storage.CheckpointManager) error {
				info, err := m.Info(ctx, id)
				if err != nil {
					return err
				}
				if !force {
					fmt.Fprintf(cmd.OutOrStdout(), "  สร้างเมื่อ: %s · %s\n",
						info.CreatedAt.Local().Format("2006-01-02 15:04:05"), formatFileSize(info.FileSize))
					confirm := cli.NewConfirmer(cmd.InOrStdin(), cmd.OutOrStdout())
					if err := confirm.ConfirmTyped(ctx, "ลบจุดสำรอง "+id, id); err != nil {
						return err
					}
				}
				if err := m.Delete(ctx, id); err != nil {
					return fmt.Errorf("failed to delete checkpoint: %w", err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s ลบจุดสำรอง %s แล้ว\n",
					cli.SuccessStyle.Render(cli.SuccessIcon),
					cli.InfoStyle.Render(id))
				return nil
			})
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "skip the typed confirmation")
	return cmd
}

func formatFileSize(size int64) string {
	const unit = 1024
	if size < unit {
		return fmt.Sprintf("%d B", size)
	}
	div, exp := int64(unit), 0
	for n := size / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(size)/float64(div), "KMGTPE"[exp])
}

func formatRelativeTime(t time.Time) string {
	d := time.Since(t)
	switch {
	case d < time.Minute:
		return "just now"
	case d < time.Hour:
		return plural(int(d.Minutes()), "minute")
	case d < 24*time.Hour:
		return plural(int(d.Hours()), "hour")
	case d < 7*24*time.Hour:
		days := int(d.Hours() / 24)
		if days == 1 {
			return "yesterday"
		}
		return fmt.Sprintf("%d days ago", days)
	default:
		return t.Local().Format("2006-01-02 15:04")
	}
}

func plural(n int, unit string) string {
	if n == 1 {
		return "1 " + unit + " ago"
	}
	return fmt.Sprintf("%d %ss ago", n, unit)
}
