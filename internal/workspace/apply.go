package workspace

import (
	"context"
	"fmt"

	"github.com/Veraticus/khru/internal/common"
	"github.com/Veraticus/khru/internal/model"
)

// docs is a set of gradebook documents touched by a change.
type docs uint8

const (
	docProfiles docs = 1 << iota
	docScores
	docCustom
	docDaily
	docSummaries
)

// change describes one mutation for apply.
type change struct {
	op          string
	detail      string
	docs        docs
	checkpoint  bool
	nextSubject string
}

// apply runs fn against the current state. fn may set c.nextSubject to move
// the selection along with the change. On success it reconciles the current
// subject sheet, saves the touched documents, and records the change. On any
// error the in-memory state is left as it was.
func (w *Workspace) apply(ctx context.Context, c *change, fn func(model.State) (model.State, error)) error {
	fields := w.logFields(c.op)

	next, err := fn(w.state)
	if err != nil {
		fields["outcome"] = string(common.OutcomeOf(err))
		fields["error"] = err.Error()
		common.LogDebug("Rejected change", fields)
		return err
	}

	session := w.session
	if c.nextSubject != "" {
		session.Subject = c.nextSubject
	}
	next, err = w.engine.InitializeSubjectData(next, session.Scope(), session.Subject)
	if err != nil {
		return err
	}

	if c.checkpoint && w.checkpoints != nil {
		if err := w.checkpoints.AutoCheckpoint(ctx, c.op); err != nil {
			return common.External("checkpoint before "+c.op, err)
		}
	}

	if err := w.persist(ctx, next, c.docs|docScores); err != nil {
		return err
	}
	if session.Subject != w.session.Subject {
		if err := w.setKey(ctx, KeySubject, session.Subject); err != nil {
			return err
		}
	}

	w.state = next
	w.session = session
	w.record(ctx, c.op, c.detail)
	common.LogInfo("Applied change", fields)
	return nil
}

// requireLogin rejects op outside edit mode. Workspace-level lookups that run
// before the engine call use it so the permission check still comes first.
func (w *Workspace) requireLogin(op string) error {
	if w.session.LoggedIn {
		return nil
	}
	err := fmt.Errorf("%w: %s", common.ErrUnauthorized, op)
	fields := w.logFields(op)
	fields["outcome"] = string(common.Unauthorized)
	common.LogDebug("Rejected change", fields)
	return err
}

func (w *Workspace) persist(ctx context.Context, st model.State, d docs) error {
	writes := []struct {
		value any
		key   string
		doc   docs
	}{
		{st.Profiles, KeyProfiles, docProfiles},
		{st.Scores, KeyScores, docScores},
		{st.CustomSubjects, KeyCustomSubjects, docCustom},
		{st.DailyAttendance, KeyDailyAttendance, docDaily},
		{st.AttendanceSummaries, KeySummaries, docSummaries},
	}
	for _, wr := range writes {
		if d&wr.doc == 0 {
			continue
		}
		if err := w.setKey(ctx, wr.key, wr.value); err != nil {
			return err
		}
	}
	return nil
}

func (w *Workspace) setKey(ctx context.Context, key string, value any) error {
	if err := w.store.Set(ctx, key, value); err != nil {
		return common.External("save "+key, err)
	}
	return nil
}

// record appends to the activity log. The change is already saved, so a
// failure here is only logged.
func (w *Workspace) record(ctx context.Context, op, detail string) {
	err := w.store.RecordActivity(ctx, model.Activity{
		At:     w.now(),
		Op:     op,
		Year:   w.session.Year,
		Class:  w.session.Class,
		Detail: detail,
	})
	if err != nil {
		common.LogError(err, "Failed to record activity", w.logFields(op))
	}
}
