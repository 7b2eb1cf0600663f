package cli

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatters(t *testing.T) {
	tests := []struct {
		name   string
		format func(string) string
		icon   string
	}{
		{"success", FormatSuccess, SuccessIcon},
		{"error", FormatError, ErrorIcon},
		{"warning", FormatWarning, WarningIcon},
		{"info", FormatInfo, InfoIcon},
		{"title", FormatTitle, BookIcon},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := tt.format("บันทึกคะแนนแล้ว")
			assert.Contains(t, out, tt.icon)
			assert.Contains(t, out, "บันทึกคะแนนแล้ว")
		})
	}
}

func TestFormatCheck(t *testing.T) {
	assert.Contains(t, FormatCheck(true), SuccessIcon)
	assert.Contains(t, FormatCheck(false), ErrorIcon)
}

func TestRenderBox(t *testing.T) {
	out := RenderBox("ภาพรวม", "ครบ 3/8 วิชา")
	assert.Contains(t, out, "ภาพรวม")
	assert.Contains(t, out, "ครบ 3/8 วิชา")
}

func TestProgress(t *testing.T) {
	var out bytes.Buffer
	report := Progress(&out, "importing")
	for i := 1; i <= 3; i++ {
		report(i, 3)
	}
	assert.True(t, strings.Contains(out.String(), "importing"))
}
