package main

import (
	"bytes"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Veraticus/khru/internal/common"
	"github.com/Veraticus/khru/internal/model"
)

func TestParseScore(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    *float64
		wantErr bool
	}{
		{name: "number", in: "25", want: ptr(25)},
		{name: "decimal", in: " 17.5 ", want: ptr(17.5)},
		{name: "dash clears", in: "-", want: nil},
		{name: "empty clears", in: "", want: nil},
		{name: "not a number", in: "abc", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseScore(tt.in)
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, common.ErrInvalidInput)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFormatScore(t *testing.T) {
	assert.Equal(t, "-", formatScore(nil))
	assert.Equal(t, "25", formatScore(ptr(25)))
	assert.Equal(t, "17.5", formatScore(ptr(17.5)))
}

func TestParseStatus(t *testing.T) {
	tests := []struct {
		in      string
		want    model.AttendanceStatus
		wantErr bool
	}{
		{in: "present", want: model.StatusPresent},
		{in: "LATE", want: model.StatusLate},
		{in: "มา", want: model.StatusPresent},
		{in: "ขาด", want: model.StatusAbsent},
		{in: "สาย", want: model.StatusLate},
		{in: "ลา", want: model.StatusExcused},
		{in: "sick", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := parseStatus(tt.in)
			if tt.wantErr {
				assert.ErrorIs(t, err, common.ErrInvalidInput)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFormatFileSize(t *testing.T) {
	assert.Equal(t, "512 B", formatFileSize(512))
	assert.Equal(t, "1.0 KB", formatFileSize(1024))
	assert.Equal(t, "1.5 MB", formatFileSize(1536*1024))
}

func TestFormatRelativeTime(t *testing.T) {
	now := time.Now()
	assert.Equal(t, "just now", formatRelativeTime(now.Add(-10*time.Second)))
	assert.Equal(t, "1 minute ago", formatRelativeTime(now.Add(-90*time.Second)))
	assert.Equal(t, "5 hours ago", formatRelativeTime(now.Add(-5*time.Hour-time.Minute)))
	assert.Equal(t, "yesterday", formatRelativeTime(now.Add(-25*time.Hour)))
}

func TestPrintError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want []string
	}{
		{
			name: "unauthorized",
			err:  common.ErrUnauthorized,
			want: []string{"khru login"},
		},
		{
			name: "invalid input",
			err:  common.Invalidf("score 31 is above 30"),
			want: []string{"ข้อมูลไม่ถูกต้อง", "score 31 is above 30"},
		},
		{
			name: "not found",
			err:  common.NotFoundf("subject X9"),
			want: []string{"ไม่พบข้อมูล", "subject X9"},
		},
		{
			name: "user message wins",
			err:  common.NewUserError("ยกเลิก", common.Invalidf("mismatch")),
			want: []string{"ยกเลิก"},
		},
		{
			name: "other",
			err:  errors.New("disk full"),
			want: []string{"disk full"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			printError(&buf, tt.err)
			for _, w := range tt.want {
				assert.Contains(t, buf.String(), w)
			}
		})
	}
}

func TestNotOneArg(t *testing.T) {
	assert.NoError(t, notOneArg(nil, nil))
	assert.Error(t, notOneArg(nil, []string{"30"}))
	assert.NoError(t, notOneArg(nil, []string{"30", "20"}))
}

func ptr(v float64) *float64 { return &v }
