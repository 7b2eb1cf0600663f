package engine

import (
	"fmt"
	"testing"
	"time"

	"github.com/Veraticus/khru/internal/model"
	"github.com/stretchr/testify/require"
)

var (
	testScope = model.Scope{Year: "2567", Class: "ป.1"}
	testNow   = time.Date(2024, time.June, 3, 9, 0, 0, 0, time.UTC)
)

func ptr(f float64) *float64 { return &f }

func newTestEngine() *Engine {
	n := 0
	return New(
		WithClock(func() time.Time { return testNow }),
		WithIDGenerator(func() string {
			n++
			return fmt.Sprintf("id%d", n)
		}),
	)
}

func profile(id, first, last string) model.StudentProfile {
	return model.StudentProfile{
		ID:              id,
		ClassName:       testScope.Class,
		FirstName:       first,
		LastName:        last,
		FullName:        model.ComposeFullName("", first, last),
		StudentSchoolID: "S-" + id,
	}
}

// seeded returns a state with three students on the ป.1 roster and an
// initialized S1 sheet.
func seeded(t *testing.T, e *Engine) model.State {
	t.Helper()
	st := model.State{}.WithRoster(testScope.Class, []model.StudentProfile{
		profile("c", "สมชาย", "ใจดี"),
		profile("a", "กมล", "รักเรียน"),
		profile("b", "ขวัญใจ", "มีสุข"),
	})
	st, err := e.InitializeSubjectData(st, testScope, "S1")
	require.NoError(t, err)
	return st
}

func fillAll(t *testing.T, e *Engine, st model.State, subjectID, profileID string, v [4]float64) model.State {
	t.Helper()
	for i, f := range model.ScoreFields {
		var err error
		st, err = e.SetScore(st, true, SetScoreInput{
			Scope: testScope, SubjectID: subjectID, ProfileID: profileID, Field: f, Value: ptr(v[i]),
		})
		require.NoError(t, err)
	}
	return st
}

func names(rows []model.StudentScore) []string {
	out := make([]string, len(rows))
	for i, r := range rows {
		out[i] = r.StudentName
	}
	return out
}
