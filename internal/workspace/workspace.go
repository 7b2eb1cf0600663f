// Package workspace owns the loaded gradebook and the teacher's session. It
// calls the engine for every change, reconciles the current subject sheet,
// and persists each affected document.
package workspace

import (
	"context"
	"fmt"
	"time"

	"github.com/Veraticus/khru/internal/common"
	"github.com/Veraticus/khru/internal/engine"
	"github.com/Veraticus/khru/internal/model"
	"github.com/Veraticus/khru/internal/report"
	"github.com/Veraticus/khru/internal/service"
)

// Storage keys. Each is one JSON document.
const (
	KeyProfiles        = "studentProfiles"
	KeyScores          = "scores"
	KeyCustomSubjects  = "customSubjects"
	KeyDailyAttendance = "dailyAttendance"
	KeySummaries       = "attendanceSummaries"

	KeyClass   = "current_class"
	KeyYear    = "academic_year"
	KeySubject = "selected_subject"
	KeyLogin   = "login_state"
)

// Session is what the teacher is looking at and whether edit mode is on.
type Session struct {
	Year     string `json:"year"`
	Class    string `json:"class"`
	Subject  string `json:"subject"`
	LoggedIn bool   `json:"loggedIn"`
}

// Scope returns the year and class the session is on.
func (s Session) Scope() model.Scope {
	return model.Scope{Year: s.Year, Class: s.Class}
}

// Checkpointer snapshots the database before destructive changes.
type Checkpointer interface {
	AutoCheckpoint(ctx context.Context, op string) error
}

// Workspace is the single owner of the in-memory gradebook. It is not safe
// for concurrent use.
type Workspace struct {
	store       service.Storage
	gate        service.Gate
	advisor     service.Advisor
	checkpoints Checkpointer
	engine      *engine.Engine
	assembler   *report.Assembler
	now         func() time.Time
	state       model.State
	session     Session
}

// Option configures a Workspace.
type Option func(*Workspace)

// WithGate sets the passphrase gate used by Login.
func WithGate(g service.Gate) Option {
	return func(w *Workspace) { w.gate = g }
}

// WithAdvisor enables study tips and indicator suggestions.
func WithAdvisor(a service.Advisor) Option {
	return func(w *Workspace) { w.advisor = a }
}

// WithCheckpoints enables automatic snapshots before destructive changes.
func WithCheckpoints(c Checkpointer) Option {
	return func(w *Workspace) { w.checkpoints = c }
}

// WithClock sets the clock used for the default academic year and the activity log.
func WithClock(now func() time.Time) Option {
	return func(w *Workspace) { w.now = now }
}

// Open loads every document and the session from store. Missing documents
// start empty; a missing session starts on ป.1, the current academic year, and S1.
func Open(ctx context.Context, store service.Storage, eng *engine.Engine, opts ...Option) (*Workspace, error) {
	w := &Workspace{
		store:     store,
		engine:    eng,
		assembler: report.NewAssembler(eng.Config().DefaultMaxScores),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(w)
	}

	if err := w.load(ctx); err != nil {
		return nil, err
	}

	next, err := w.reconcile(w.state)
	if err != nil {
		return nil, err
	}
	w.state = next
	return w, nil
}

func (w *Workspace) load(ctx context.Context) error {
	docs := []struct {
		dest any
		key  string
	}{
		{&w.state.Profiles, KeyProfiles},
		{&w.state.Scores, KeyScores},
		{&w.state.CustomSubjects, KeyCustomSubjects},
		{&w.state.DailyAttendance, KeyDailyAttendance},
		{&w.state.AttendanceSummaries, KeySummaries},
		{&w.session.Class, KeyClass},
		{&w.session.Year, KeyYear},
		{&w.session.Subject, KeySubject},
		{&w.session.LoggedIn, KeyLogin},
	}
	for _, d := range docs {
		if _, err := w.store.Get(ctx, d.key, d.dest); err != nil {
			return fmt.Errorf("failed to load %s: %w", d.key, err)
		}
	}

	if !model.IsClassLevel(w.session.Class) {
		w.session.Class = model.ClassLevels[0]
	}
	if w.session.Year == "" {
		w.session.Year = model.DefaultAcademicYear(w.now())
	}
	if _, ok := engine.FindSubject(w.state, w.session.Scope(), w.session.Subject); !ok {
		w.session.Subject = model.DefaultSubjectID
	}
	return nil
}

// reconcile brings the current subject sheet in line with the roster.
func (w *Workspace) reconcile(st model.State) (model.State, error) {
	return w.engine.InitializeSubjectData(st, w.session.Scope(), w.session.Subject)
}

// Session returns the current session.
func (w *Workspace) Session() Session {
	return w.session
}

// State returns the current gradebook snapshot.
func (w *Workspace) State() model.State {
	return w.state
}

// Engine returns the engine the workspace applies changes with.
func (w *Workspace) Engine() *engine.Engine {
	return w.engine
}

// HasAdvisor reports whether AI features are configured.
func (w *Workspace) HasAdvisor() bool {
	return w.advisor != nil
}

func (w *Workspace) logFields(op string) common.Fields {
	return common.Fields{
		"op":    op,
		"year":  w.session.Year,
		"class": w.session.Class,
	}
}
