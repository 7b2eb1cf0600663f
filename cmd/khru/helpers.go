package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/viper"

	"github.com/Veraticus/khru/internal/auth"
	"github.com/Veraticus/khru/internal/cli"
	"github.com/Veraticus/khru/internal/common"
	"github.com/Veraticus/khru/internal/config"
	"github.com/Veraticus/khru/internal/engine"
	"github.com/Veraticus/khru/internal/llm"
	"github.com/Veraticus/khru/internal/model"
	"github.com/Veraticus/khru/internal/storage"
	"github.com/Veraticus/khru/internal/workspace"
)

// app bundles everything a command needs. Close releases it.
type app struct {
	cfg         *config.Config
	store       *storage.SQLiteStorage
	checkpoints *storage.CheckpointManager
	ws          *workspace.Workspace
	closers     []io.Closer
}

func loadConfig() (*config.Config, error) {
	return config.Load(viper.GetViper())
}

// initStorage opens and migrates the configured database.
func initStorage(ctx context.Context, cfg *config.Config) (*storage.SQLiteStorage, error) {
	store, err := storage.NewSQLiteStorage(cfg.Database.Path)
	if err != nil {
		return nil, err
	}
	if err := store.Migrate(ctx); err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}
	return store, nil
}

// openApp loads config, storage, and the workspace. Missing passphrase or AI
// settings only disable the features that need them.
func openApp(ctx context.Context) (*app, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}

	store, err := initStorage(ctx, cfg)
	if err != nil {
		return nil, err
	}
	a := &app{cfg: cfg, store: store}

	a.checkpoints, err = store.NewCheckpointManager()
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("failed to create checkpoint manager: %w", err)
	}

	opts := []workspace.Option{workspace.WithCheckpoints(a.checkpoints)}

	gate, err := auth.NewPassphraseGate(cfg.Auth.PassphraseHash, cfg.Auth.Passphrase)
	switch {
	case err == nil:
		opts = append(opts, workspace.WithGate(gate))
	case errors.Is(err, common.ErrMissingConfig):
		slog.Debug("No passphrase configured; edit mode unavailable")
	default:
		a.Close()
		return nil, err
	}

	if cfg.LLM.Enabled() {
		client, closer, err := llm.NewClient(llm.Config{
			Provider:    cfg.LLM.Provider,
			APIKey:      cfg.LLM.APIKey,
			Model:       cfg.LLM.Model,
			BaseURL:     cfg.LLM.BaseURL,
			CacheTTL:    cfg.LLM.CacheTTL,
			RateLimit:   cfg.LLM.RateLimit,
			Temperature: cfg.LLM.Temperature,
			MaxTokens:   cfg.LLM.MaxTokens,
		})
		if err != nil {
			a.Close()
			return nil, err
		}
		a.closers = append(a.closers, closer)
		opts = append(opts, workspace.WithAdvisor(llm.NewAdvisor(client)))
	}

	eng := engine.NewWithConfig(engine.Config{
		TermTotal: cfg.Scores.TermTotal,
		DefaultMaxScores: model.MaxScores{
			Classwork: cfg.Scores.DefaultClasswork,
			Exam:      cfg.Scores.DefaultExam,
		},
	})

	a.ws, err = workspace.Open(ctx, store, eng, opts...)
	if err != nil {
		a.Close()
		return nil, err
	}
	return a, nil
}

func (a *app) Close() {
	for _, c := range a.closers {
		_ = c.Close()
	}
	if a.store != nil {
		_ = a.store.Close()
	}
}

// withApp runs fn with an opened app and closes it afterwards.
func withApp(ctx context.Context, fn func(*app) error) error {
	a, err := openApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()
	return fn(a)
}

var (
	headerCell = lipgloss.NewStyle().Bold(true).Padding(0, 1).Foreground(lipgloss.Color("4"))
	bodyCell   = lipgloss.NewStyle().Padding(0, 1)
)

// renderTable draws rows as a bordered table.
func renderTable(w io.Writer, headers []string, rows [][]string) {
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerCell
			}
			return bodyCell
		})
	fmt.Fprintln(w, t.Render())
}

func sessionLine(s workspace.Session) string {
	mode := cli.LockIcon + " อ่านอย่างเดียว"
	if s.LoggedIn {
		mode = cli.UnlockIcon + " โหมดแก้ไข"
	}
	return fmt.Sprintf("ปีการศึกษา %s · ชั้น %s · %s", s.Year, s.Class, mode)
}

// parseScore reads a score argument. "-" or an empty string clears the score.
func parseScore(s string) (*float64, error) {
	s = strings.TrimSpace(s)
	if s == "" || s == "-" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil, common.Invalidf("score %q is not a number", s)
	}
	return &v, nil
}

func formatScore(v *float64) string {
	if v == nil {
		return "-"
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}

// resolveStudent finds a roster member by id, student number, or full name.
func resolveStudent(ws *workspace.Workspace, ref string) (model.StudentProfile, error) {
	ref = strings.TrimSpace(ref)
	for _, p := range ws.Roster() {
		if p.ID == ref || p.StudentSchoolID == ref || p.FullName == ref {
			return p, nil
		}
	}
	return model.StudentProfile{}, common.NotFoundf("student %q is not on the %s roster", ref, ws.Session().Class)
}
