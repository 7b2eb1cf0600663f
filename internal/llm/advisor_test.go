package llm

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Veraticus/khru/internal/common"
	"github.com/Veraticus/khru/internal/model"
	"github.com/Veraticus/khru/internal/service"
)

func f(v float64) *float64 { return &v }

func TestAdvisor_StudyTips(t *testing.T) {
	inner := &countingClient{reply: "  ควรทบทวนบทเรียนสม่ำเสมอ  "}
	a := NewAdvisor(inner)

	out, err := a.StudyTips(context.Background(), service.TipsRequest{
		StudentName: "เด็กหญิงกานดา ใจดี",
		SubjectName: "คณิตศาสตร์ 1",
		Score: model.StudentScore{
			Term1Classwork: f(28),
			Term1Exam:      f(18.5),
			Term2Exam:      f(15),
		},
		Max: model.MaxScores{Classwork: 30, Exam: 20},
	})
	require.NoError(t, err)
	assert.Equal(t, "ควรทบทวนบทเรียนสม่ำเสมอ", out)

	prompt := inner.last.Prompt
	assert.Contains(t, prompt, "นักเรียนชื่อ: เด็กหญิงกานดา ใจดี")
	assert.Contains(t, prompt, "เก็บ 30 คะแนน, สอบ 20 คะแนน (รวม 50 คะแนน)")
	assert.Contains(t, prompt, "ภาคเรียนที่ 1: คะแนนเก็บ 28, คะแนนสอบ 18.5, รวม 46.5")
	assert.Contains(t, prompt, "ภาคเรียนที่ 2: คะแนนเก็บ ไม่ได้กรอก, คะแนนสอบ 15, รวม 15.0")
	assert.False(t, inner.last.JSON)
}

func TestAdvisor_StudyTipsFailures(t *testing.T) {
	tests := []struct {
		client *countingClient
		name   string
	}{
		{name: "provider error", client: &countingClient{err: errors.New("timeout")}},
		{name: "blank reply", client: &countingClient{reply: "   "}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewAdvisor(tt.client).StudyTips(context.Background(), service.TipsRequest{})
			assert.Equal(t, common.ExternalFailure, common.OutcomeOf(err))
		})
	}
}

func TestAdvisor_SuggestIndicators(t *testing.T) {
	tests := []struct {
		name    string
		reply   string
		err     error
		query   string
		want    []string
		outcome common.Outcome
	}{
		{
			name:    "plain array",
			query:   "คณิตศาสตร์",
			reply:   `["บวกเลขได้", "ลบเลขได้"]`,
			want:    []string{"บวกเลขได้", "ลบเลขได้"},
			outcome: common.Success,
		},
		{
			name:    "fenced array with blanks",
			query:   "ภาษาไทย",
			reply:   "```json\n[\" อ่านออกเสียงได้ \", \"\"]\n```",
			want:    []string{"อ่านออกเสียงได้"},
			outcome: common.Success,
		},
		{
			name:    "empty array",
			query:   "ดนตรี",
			reply:   `[]`,
			want:    []string{},
			outcome: common.Success,
		},
		{name: "object", query: "x", reply: `{"items":[]}`, outcome: common.ExternalFailure},
		{name: "mixed types", query: "x", reply: `["a", 1]`, outcome: common.ExternalFailure},
		{name: "prose", query: "x", reply: `Here are some indicators`, outcome: common.ExternalFailure},
		{name: "null", query: "x", reply: `null`, outcome: common.ExternalFailure},
		{name: "provider error", query: "x", err: errors.New("boom"), outcome: common.ExternalFailure},
		{name: "empty query", query: "  ", outcome: common.InvalidInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			inner := &countingClient{reply: tt.reply, err: tt.err}
			got, err := NewAdvisor(inner).SuggestIndicators(context.Background(), service.IndicatorRequest{
				Query:     tt.query,
				ClassName: "ป.2",
			})
			assert.Equal(t, tt.outcome, common.OutcomeOf(err))
			if tt.outcome != common.Success {
				return
			}
			assert.Equal(t, tt.want, got)
			assert.True(t, inner.last.JSON)
			assert.Contains(t, inner.last.Prompt, `ระดับชั้น "ป.2"`)
		})
	}
}
