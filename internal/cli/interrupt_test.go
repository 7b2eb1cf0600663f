package cli

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewInterruptHandler(t *testing.T) {
	tests := []struct {
		writer io.Writer
		name   string
	}{
		{
			name:   "with custom writer",
			writer: &bytes.Buffer{},
		},
		{
			name:   "with nil writer",
			writer: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := NewInterruptHandler(tt.writer)
			assert.NotNil(t, handler)
			assert.NotNil(t, handler.writer)
			assert.False(t, handler.WasInterrupted())
		})
	}
}

func TestHandleInterrupts_InterruptCancelsOnce(t *testing.T) {
	var output bytes.Buffer
	handler := NewInterruptHandler(&output)

	ctx, stop := handler.HandleInterrupts(context.Background(), "นำเข้าข้อมูลนักเรียน")
	defer stop()

	select {
	case <-ctx.Done():
		t.Fatal("context should not be canceled initially")
	default:
	}

	handler.interrupt()
	handler.interrupt()

	<-ctx.Done()
	assert.True(t, handler.WasInterrupted())
	assert.Equal(t, 1, strings.Count(output.String(), "นำเข้าข้อมูลนักเรียน ถูกยกเลิก"))
	assert.Contains(t, output.String(), "ยังไม่มีการบันทึกข้อมูล")
}

func TestHandleInterrupts_StopIsQuiet(t *testing.T) {
	var output bytes.Buffer
	handler := NewInterruptHandler(&output)

	ctx, stop := handler.HandleInterrupts(context.Background(), "import")
	stop()

	<-ctx.Done()
	assert.False(t, handler.WasInterrupted())
	assert.Empty(t, output.String())
}
