package workspace

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/Veraticus/khru/internal/auth"
	"github.com/Veraticus/khru/internal/engine"
	"github.com/Veraticus/khru/internal/service"
	"github.com/Veraticus/khru/internal/storage"
	"github.com/Veraticus/khru/internal/testutil"
)

const testPassphrase = "ครูใหญ่"

var fixedNow = time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC)

func f(v float64) *float64 { return &v }

func openStore(t *testing.T) *storage.SQLiteStorage {
	t.Helper()
	return testutil.SetupTestDB(t)
}

func newEngine() *engine.Engine {
	n := 0
	return engine.New(
		engine.WithClock(func() time.Time { return fixedNow }),
		engine.WithIDGenerator(func() string {
			n++
			return fmt.Sprintf("id%d", n)
		}),
	)
}

func openWorkspace(t *testing.T, store service.Storage, opts ...Option) *Workspace {
	t.Helper()
	gate, err := auth.NewPassphraseGate("", testPassphrase)
	require.NoError(t, err)

	base := []Option{
		WithGate(gate),
		WithClock(func() time.Time { return fixedNow }),
	}
	w, err := Open(context.Background(), store, newEngine(), append(base, opts...)...)
	require.NoError(t, err)
	return w
}

// loggedIn opens a workspace in edit mode.
func loggedIn(t *testing.T, store service.Storage, opts ...Option) *Workspace {
	t.Helper()
	w := openWorkspace(t, store, opts...)
	require.NoError(t, w.Login(context.Background(), testPassphrase))
	return w
}

type fakeCheckpoints struct {
	err error
	ops []string
}

func (c *fakeCheckpoints) AutoCheckpoint(_ context.Context, op string) error {
	c.ops = append(c.ops, op)
	return c.err
}

type fakeAdvisor struct {
	tipsReq      service.TipsRequest
	indicatorReq service.IndicatorRequest
	err          error
	tips         string
	indicators   []string
}

func (a *fakeAdvisor) StudyTips(_ context.Context, req service.TipsRequest) (string, error) {
	a.tipsReq = req
	return a.tips, a.err
}

func (a *fakeAdvisor) SuggestIndicators(_ context.Context, req service.IndicatorRequest) ([]string, error) {
	a.indicatorReq = req
	return a.indicators, a.err
}

// failingStore rejects writes to one key.
type failingStore struct {
	*storage.SQLiteStorage
	key string
}

func (s failingStore) Set(ctx context.Context, key string, value any) error {
	if key == s.key {
		return errors.New("disk full")
	}
	return s.SQLiteStorage.Set(ctx, key, value)
}
