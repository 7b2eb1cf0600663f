package workspace

import (
	"context"
	"fmt"

	"github.com/go-playground/validator/v10"

	"github.com/Veraticus/khru/internal/common"
	"github.com/Veraticus/khru/internal/engine"
	"github.com/Veraticus/khru/internal/model"
)

var yearValidator = validator.New()

// Login turns edit mode on when the passphrase matches.
func (w *Workspace) Login(ctx context.Context, passphrase string) error {
	if w.gate == nil {
		return fmt.Errorf("%w: no passphrase configured (auth.passphrase or auth.passphrase_hash)", common.ErrMissingConfig)
	}
	if err := w.gate.Check(passphrase); err != nil {
		common.LogDebug("Rejected login", w.logFields("login"))
		return err
	}
	if err := w.setKey(ctx, KeyLogin, true); err != nil {
		return err
	}
	w.session.LoggedIn = true
	w.record(ctx, "login", "")
	return nil
}

// Logout turns edit mode off. It always succeeds in memory; only the save can fail.
func (w *Workspace) Logout(ctx context.Context) error {
	w.session.LoggedIn = false
	if err := w.setKey(ctx, KeyLogin, false); err != nil {
		return err
	}
	w.record(ctx, "logout", "")
	return nil
}

// SelectClass switches to another class. The current subject is kept when the
// class has it, otherwise S1 is selected.
func (w *Workspace) SelectClass(ctx context.Context, class string) error {
	if !model.IsClassLevel(class) {
		return common.Invalidf("unknown class %q", class)
	}
	return w.moveTo(ctx, Session{Year: w.session.Year, Class: class, Subject: w.session.Subject, LoggedIn: w.session.LoggedIn})
}

// SetAcademicYear switches the active year. It needs edit mode.
func (w *Workspace) SetAcademicYear(ctx context.Context, year string) error {
	if err := w.requireLogin("set_academic_year"); err != nil {
		return err
	}
	if err := yearValidator.Var(year, "required,len=4,numeric"); err != nil {
		return common.Invalidf("academic year must be four digits, got %q", year)
	}
	return w.moveTo(ctx, Session{Year: year, Class: w.session.Class, Subject: w.session.Subject, LoggedIn: true})
}

// SelectSubject makes subjectID the current subject.
func (w *Workspace) SelectSubject(ctx context.Context, subjectID string) error {
	if _, ok := engine.FindSubject(w.state, w.session.Scope(), subjectID); !ok {
		return common.NotFoundf("subject %s in %s %s", subjectID, w.session.Class, w.session.Year)
	}
	s := w.session
	s.Subject = subjectID
	return w.moveTo(ctx, s)
}

// moveTo switches session, reconciles the new current sheet, and saves both.
func (w *Workspace) moveTo(ctx context.Context, s Session) error {
	if _, ok := engine.FindSubject(w.state, s.Scope(), s.Subject); !ok {
		s.Subject = model.DefaultSubjectID
	}

	next, err := w.engine.InitializeSubjectData(w.state, s.Scope(), s.Subject)
	if err != nil {
		return err
	}
	if err := w.persist(ctx, next, docScores); err != nil {
		return err
	}
	for _, kv := range []struct {
		value string
		key   string
	}{
		{s.Class, KeyClass},
		{s.Year, KeyYear},
		{s.Subject, KeySubject},
	} {
		if err := w.setKey(ctx, kv.key, kv.value); err != nil {
			return err
		}
	}

	w.state = next
	w.session = s
	common.LogInfo("Switched view", common.Fields{"year": s.Year, "class": s.Class, "subject": s.Subject})
	return nil
}
