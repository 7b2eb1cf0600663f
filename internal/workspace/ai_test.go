package workspace

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Veraticus/khru/internal/common"
	"github.com/Veraticus/khru/internal/engine"
	"github.com/Veraticus/khru/internal/model"
)

func TestStudyTips(t *testing.T) {
	ctx := context.Background()
	advisor := &fakeAdvisor{tips: "ฝึกอ่านทุกวัน"}
	store := openStore(t)

	w := openWorkspace(t, store, WithAdvisor(advisor))
	_, err := w.StudyTips(ctx, "p1")
	assert.Equal(t, common.Unauthorized, common.OutcomeOf(err))

	w = loggedIn(t, store, WithAdvisor(advisor))
	p, err := w.AddStudent(ctx, engine.NewStudentInput{Title: "ด.ช.", FirstName: "สมชาย", LastName: "ใจดี", Gender: "ช", StudentSchoolID: "1"})
	require.NoError(t, err)
	require.NoError(t, w.SetScore(ctx, p.ID, model.Term1Classwork, f(25)))

	tips, err := w.StudyTips(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "ฝึกอ่านทุกวัน", tips)
	assert.Equal(t, "ด.ช.สมชาย ใจดี", advisor.tipsReq.StudentName)
	assert.Equal(t, "ภาษาไทย 1", advisor.tipsReq.SubjectName)
	assert.Equal(t, "ป.1", advisor.tipsReq.ClassName)
	assert.Equal(t, 25.0, *advisor.tipsReq.Score.Term1Classwork)
	assert.Equal(t, model.MaxScores{Classwork: 30, Exam: 20}, advisor.tipsReq.Max)

	_, err = w.StudyTips(ctx, "ghost")
	assert.Equal(t, common.NotFound, common.OutcomeOf(err))

	advisor.err = common.External("study tips", errors.New("timeout"))
	_, err = w.StudyTips(ctx, p.ID)
	assert.Equal(t, common.ExternalFailure, common.OutcomeOf(err))
}

func TestStudyTips_NoAdvisor(t *testing.T) {
	w := loggedIn(t, openStore(t))
	assert.False(t, w.HasAdvisor())

	_, err := w.StudyTips(context.Background(), "p1")
	assert.True(t, errors.Is(err, common.ErrMissingConfig))
	_, err = w.SuggestIndicators(context.Background(), "")
	assert.True(t, errors.Is(err, common.ErrMissingConfig))
}

func TestSuggestAndAddIndicators(t *testing.T) {
	ctx := context.Background()
	advisor := &fakeAdvisor{indicators: []string{"อ่านออกเสียงได้ถูกต้อง", "เขียนสะกดคำได้"}}
	w := loggedIn(t, openStore(t), WithAdvisor(advisor))

	got, err := w.SuggestIndicators(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, advisor.indicators, got)
	assert.Equal(t, "ภาษาไทย 1", advisor.indicatorReq.Query, "query defaults to the subject name")

	_, err = w.SuggestIndicators(ctx, "การอ่าน")
	require.NoError(t, err)
	assert.Equal(t, "การอ่าน", advisor.indicatorReq.Query)

	added, err := w.AddIndicators(ctx, []string{"อ่านออกเสียงได้ถูกต้อง"}, model.IndicatorManual)
	require.NoError(t, err)
	assert.Equal(t, 1, added)

	added, err = w.AddIndicators(ctx, got, model.IndicatorAI)
	require.NoError(t, err)
	assert.Equal(t, 1, added, "exact-text duplicates are skipped")

	sheet, err := w.Sheet()
	require.NoError(t, err)
	require.Len(t, sheet.Indicators, 2)
	assert.Equal(t, model.IndicatorManual, sheet.Indicators[0].Source)
	assert.Equal(t, model.IndicatorAI, sheet.Indicators[1].Source)
	assert.NotEmpty(t, sheet.Indicators[1].ID)

	require.NoError(t, w.RemoveIndicator(ctx, sheet.Indicators[0].ID))
	sheet, err = w.Sheet()
	require.NoError(t, err)
	require.Len(t, sheet.Indicators, 1)
	assert.Equal(t, "เขียนสะกดคำได้", sheet.Indicators[0].Text)

	err = w.RemoveIndicator(ctx, "missing")
	assert.Equal(t, common.NotFound, common.OutcomeOf(err))
}
