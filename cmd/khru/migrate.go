package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/Veraticus/khru/internal/cli"
	"github.com/Veraticus/khru/internal/storage"
)

func migrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Run database migrations",
		Long: `Initialize or update the database schema to the latest version.

Every command migrates on start, so this is only needed to prepare a new
database file or to check its version.`,
		RunE: runMigrate,
	}

	cmd.Flags().Bool("status", false, "show the schema version without applying changes")
	return cmd
}

func runMigrate(cmd *cobra.Command, _ []string) error {
	status, _ := cmd.Flags().GetBool("status")
	ctx := cmd.Context()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	slog.Info("Starting database migration", "database", cfg.Database.Path, "status_only", status)

	store, err := storage.NewSQLiteStorage(cfg.Database.Path)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	before, err := store.SchemaVersion(ctx)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if status {
		fmt.Fprintln(out, cli.TitleStyle.Render(cli.FolderIcon+"  สถานะฐานข้อมูล"))
		fmt.Fprintf(out, "ไฟล์: %s\nเวอร์ชันปัจจุบัน: %d\nเวอร์ชันล่าสุด: %d\n", cfg.Database.Path, before, storage.ExpectedSchemaVersion)
		if before < storage.ExpectedSchemaVersion {
			fmt.Fprintln(out, cli.FormatWarning("ต้องอัปเดต: khru migrate"))
		}
		return nil
	}

	if err := store.Migrate(ctx); err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}
	after, err := store.SchemaVersion(ctx)
	if err != nil {
		return err
	}
	if after == before {
		fmt.Fprintln(out, cli.FormatInfo(fmt.Sprintf("ฐานข้อมูลเป็นเวอร์ชันล่าสุดแล้ว (%d)", after)))
		return nil
	}
	fmt.Fprintln(out, cli.FormatSuccess(fmt.Sprintf("อัปเดตฐานข้อมูลจากเวอร์ชัน %d เป็น %d", before, after)))
	return nil
}
