package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/Veraticus/khru/internal/common"
)

// ErrInputCancelled is returned when input is canceled by context.
var ErrInputCancelled = errors.New("input canceled")

// NonBlockingReader provides context-aware input reading that can be interrupted.
type NonBlockingReader struct {
	reader      *bufio.Reader
	readingLock sync.Mutex
}

// NewNonBlockingReader creates a new non-blocking reader.
func NewNonBlockingReader(reader io.Reader) *NonBlockingReader {
	if reader == nil {
		panic("reader cannot be nil")
	}

	return &NonBlockingReader{
		reader: bufio.NewReader(reader),
	}
}

// ReadString reads a string until delimiter, respecting context cancellation.
func (r *NonBlockingReader) ReadString(ctx context.Context, delim byte) (string, error) {
	type result struct {
		err   error
		value string
	}
	resultCh := make(chan result, 1)

	go func() {
		r.readingLock.Lock()
		defer r.readingLock.Unlock()

		value, err := r.reader.ReadString(delim)
		resultCh <- result{value: value, err: err}
	}()

	// The reading goroutine outlives a canceled caller until its read returns.
	select {
	case <-ctx.Done():
		return "", ErrInputCancelled
	case res := <-resultCh:
		return res.value, res.err
	}
}

// ReadLine reads a line, respecting context cancellation. A final line without
// a newline is still returned.
func (r *NonBlockingReader) ReadLine(ctx context.Context) (string, error) {
	line, err := r.ReadString(ctx, '\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// Confirmer asks the user to retype a name before a destructive operation.
type Confirmer struct {
	reader *NonBlockingReader
	writer io.Writer
}

// NewConfirmer creates a confirmer reading from r and prompting on w.
func NewConfirmer(r io.Reader, w io.Writer) *Confirmer {
	return &Confirmer{reader: NewNonBlockingReader(r), writer: w}
}

// ConfirmTyped prompts for expected and returns nil only when the typed text
// matches it exactly after trimming. A mismatch is an invalid-input error.
func (c *Confirmer) ConfirmTyped(ctx context.Context, action, expected string) error {
	msg := fmt.Sprintf("%s\nพิมพ์ %q เพื่อยืนยัน", action, expected)
	if _, err := fmt.Fprintln(c.writer, FormatWarning(msg)); err != nil {
		return fmt.Errorf("failed to write confirmation prompt: %w", err)
	}
	if _, err := fmt.Fprint(c.writer, FormatPrompt(">")); err != nil {
		return fmt.Errorf("failed to write confirmation prompt: %w", err)
	}

	typed, err := c.reader.ReadLine(ctx)
	if err != nil {
		return fmt.Errorf("failed to read confirmation: %w", err)
	}
	if typed != strings.TrimSpace(expected) {
		return common.NewUserError("ข้อความยืนยันไม่ตรงกัน ยกเลิกการดำเนินการ",
			fmt.Errorf("%w: confirmation text mismatch", common.ErrInvalidInput))
	}
	return nil
}
