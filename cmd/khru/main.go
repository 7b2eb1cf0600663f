package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/Veraticus/khru/internal/cli"
	"github.com/Veraticus/khru/internal/common"
	"github.com/Veraticus/khru/internal/config"
)

var (
	cfgFile string
	envFile string
	version = "dev"
	rootCmd = newRootCmd()
)

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "khru",
		Short: "📚 สมุดบันทึกคะแนนประจำชั้น",
		Long: `khru: a single-classroom gradebook for Thai primary schools.

Keeps class rosters, per-subject scores, attendance, and curriculum
indicators in a local database, and prints ปพ.5 / ปพ.6 reports.`,
		PersistentPreRunE: initConfig,
		SilenceErrors:     true,
		SilenceUsage:      true,
	}

	cmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: $HOME/.config/khru/config.yaml)")
	cmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "dotenv file loaded before the config")
	cmd.PersistentFlags().String("log-level", "info", "log level (debug, info, warn, error)")
	cmd.PersistentFlags().String("log-format", "console", "log format (console, json)")
	cmd.PersistentFlags().String("db", "", "database path (overrides database.path)")

	_ = viper.BindPFlag("logging.level", cmd.PersistentFlags().Lookup("log-level"))
	_ = viper.BindPFlag("logging.format", cmd.PersistentFlags().Lookup("log-format"))
	_ = viper.BindPFlag("database.path", cmd.PersistentFlags().Lookup("db"))

	cmd.AddCommand(loginCmd())
	cmd.AddCommand(logoutCmd())
	cmd.AddCommand(statusCmd())
	cmd.AddCommand(yearCmd())
	cmd.AddCommand(classCmd())
	cmd.AddCommand(dashboardCmd())
	cmd.AddCommand(historyCmd())
	cmd.AddCommand(passphraseCmd())
	cmd.AddCommand(subjectsCmd())
	cmd.AddCommand(scoresCmd())
	cmd.AddCommand(studentsCmd())
	cmd.AddCommand(attendanceCmd())
	cmd.AddCommand(reportCmd())
	cmd.AddCommand(checkpointCmd())
	cmd.AddCommand(migrateCmd())
	cmd.AddCommand(versionCmd())

	return cmd
}

func main() {
	ctx, cancel := context.WithCancel(context.Background())

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		slog.Info("Received interrupt signal, shutting down gracefully...")
		cancel()
	}()

	err := rootCmd.ExecuteContext(ctx)
	cancel()

	if err != nil {
		printError(os.Stderr, err)
		os.Exit(1)
	}
}

func initConfig(_ *cobra.Command, _ []string) error {
	if err := config.LoadDotEnv(envFile); err != nil {
		return err
	}

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		dir, err := config.ConfigDir()
		if err != nil {
			return err
		}

		viper.AddConfigPath(dir)
		viper.AddConfigPath(".")
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
	}

	config.Configure(viper.GetViper())

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return fmt.Errorf("failed to read config: %w", err)
		}
	}

	if err := setupLogging(); err != nil {
		return fmt.Errorf("failed to setup logging: %w", err)
	}
	return nil
}

func setupLogging() error {
	level, err := common.ParseLevel(viper.GetString("logging.level"))
	if err != nil {
		return err
	}
	return common.SetupLogger(level, viper.GetString("logging.format"))
}

// printError renders err as a one-line notification. Edit-mode rejections
// are warnings; everything else is an error.
func printError(w io.Writer, err error) {
	msg := err.Error()
	var uerr *common.UserError
	if errors.As(err, &uerr) {
		msg = uerr.UserMessage
	}

	switch common.OutcomeOf(err) {
	case common.Unauthorized:
		fmt.Fprintln(w, cli.FormatWarning("ต้องเข้าสู่โหมดแก้ไขก่อน (khru login): "+msg))
	case common.InvalidInput:
		fmt.Fprintln(w, cli.FormatError("ข้อมูลไม่ถูกต้อง: "+msg))
	case common.NotFound:
		fmt.Fprintln(w, cli.FormatError("ไม่พบข้อมูล: "+msg))
	default:
		fmt.Fprintln(w, cli.FormatError(msg))
	}
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "khru %s\n", version)
		},
	}
}
