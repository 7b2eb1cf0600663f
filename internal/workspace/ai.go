package workspace

import (
	"context"
	"fmt"
	"slices"

	"github.com/Veraticus/khru/internal/common"
	"github.com/Veraticus/khru/internal/engine"
	"github.com/Veraticus/khru/internal/model"
	"github.com/Veraticus/khru/internal/service"
)

func (w *Workspace) requireAdvisor() error {
	if w.advisor == nil {
		return fmt.Errorf("%w: no AI provider configured (llm.provider and llm.api_key)", common.ErrMissingConfig)
	}
	return nil
}

// StudyTips asks the advisor for advice on one student's standing in the
// current subject. It needs edit mode. The state is never changed.
func (w *Workspace) StudyTips(ctx context.Context, profileID string) (string, error) {
	if err := w.requireLogin("study_tips"); err != nil {
		return "", err
	}
	if err := w.requireAdvisor(); err != nil {
		return "", err
	}

	sheet, err := w.Sheet()
	if err != nil {
		return "", err
	}
	idx := slices.IndexFunc(sheet.Rows, func(r model.StudentScore) bool { return r.StudentID == profileID })
	if idx < 0 {
		return "", common.NotFoundf("student %s is not on the %s roster", profileID, w.session.Class)
	}
	row := sheet.Rows[idx]

	tips, err := w.advisor.StudyTips(ctx, service.TipsRequest{
		StudentName: row.StudentName,
		SubjectName: sheet.DisplayName,
		ClassName:   w.session.Class,
		Score:       row,
		Max:         sheet.Max,
	})
	if err != nil {
		common.LogError(err, "Study tips failed", w.logFields("study_tips"))
		return "", err
	}
	return tips, nil
}

// SuggestIndicators asks the advisor for curriculum indicators. query
// defaults to the current subject's display name. Nothing is saved; pass the
// result to AddIndicators with model.IndicatorAI.
func (w *Workspace) SuggestIndicators(ctx context.Context, query string) ([]string, error) {
	if err := w.requireLogin("suggest_indicators"); err != nil {
		return nil, err
	}
	if err := w.requireAdvisor(); err != nil {
		return nil, err
	}

	if query == "" {
		def, ok := engine.FindSubject(w.state, w.session.Scope(), w.session.Subject)
		if !ok {
			return nil, common.NotFoundf("subject %s", w.session.Subject)
		}
		query = engine.DisplaySubjectName(def.BaseName, w.session.Class)
	}

	suggestions, err := w.advisor.SuggestIndicators(ctx, service.IndicatorRequest{
		Query:     query,
		ClassName: w.session.Class,
	})
	if err != nil {
		common.LogError(err, "Indicator suggestions failed", w.logFields("suggest_indicators"))
		return nil, err
	}
	return suggestions, nil
}
