package common

import (
	"errors"
	"fmt"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOutcomeOf(t *testing.T) {
	tests := []struct {
		err  error
		name string
		want Outcome
	}{
		{name: "nil", err: nil, want: Success},
		{name: "unauthorized", err: fmt.Errorf("set score: %w", ErrUnauthorized), want: Unauthorized},
		{name: "invalid", err: Invalidf("score %v above %v", 31, 30), want: InvalidInput},
		{name: "not found", err: NotFoundf("subject %s", "C9"), want: NotFound},
		{name: "external", err: External("study tips", errors.New("boom")), want: ExternalFailure},
		{name: "unclassified", err: errors.New("disk full"), want: ExternalFailure},
		{name: "user error keeps cause", err: NewUserError("ลบไม่สำเร็จ", ErrNotFound), want: NotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, OutcomeOf(tt.err))
		})
	}
}

func TestExternal(t *testing.T) {
	cause := errors.New("status 500")
	err := External("indicators", cause)
	require.ErrorIs(t, err, ErrExternalFailure)
	require.ErrorIs(t, err, cause)

	assert.Same(t, err, External("again", err), "already external errors are not wrapped twice")
}

func TestUserError(t *testing.T) {
	err := NewUserError("กรุณาเข้าสู่ระบบ", ErrUnauthorized)
	assert.Equal(t, "กรุณาเข้าสู่ระบบ: not authorized", err.Error())

	var ue *UserError
	require.ErrorAs(t, err, &ue)
	assert.Equal(t, "กรุณาเข้าสู่ระบบ", ue.UserMessage)

	assert.Equal(t, "plain", NewUserError("plain", nil).Error())
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    slog.Level
		wantErr bool
	}{
		{in: "debug", want: slog.LevelDebug},
		{in: "INFO", want: slog.LevelInfo},
		{in: "", want: slog.LevelInfo},
		{in: "warn", want: slog.LevelWarn},
		{in: "error", want: slog.LevelError},
		{in: "verbose", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseLevel(tt.in)
			if tt.wantErr {
				require.ErrorIs(t, err, ErrInvalidConfig)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSetupLogger(t *testing.T) {
	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })

	require.NoError(t, SetupLogger(slog.LevelDebug, "json"))
	require.NoError(t, SetupLogger(slog.LevelInfo, "console"))
	require.ErrorIs(t, SetupLogger(slog.LevelInfo, "xml"), ErrInvalidConfig)
}
