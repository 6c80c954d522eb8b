package errutil

import (
	"bytes"
	"errors"
	"log/slog"
	"testing"

	"github.com/samber/oops"
	"github.com/stretchr/testify/assert"
)

func TestLogError(t *testing.T) {
	newLogger := func(buf *bytes.Buffer) *slog.Logger {
		return slog.New(slog.NewTextHandler(buf, nil))
	}

	t.Run("plain error logs message and error", func(t *testing.T) {
		var buf bytes.Buffer
		LogError(newLogger(&buf), "something failed", errors.New("boom"))

		out := buf.String()
		assert.Contains(t, out, "something failed")
		assert.Contains(t, out, "boom")
	})

	t.Run("coded error includes code and context", func(t *testing.T) {
		var buf bytes.Buffer
		err := oops.Code("STORE_UNAVAILABLE").With("operation", "create account").Errorf("boom")
		LogError(newLogger(&buf), "something failed", err)

		out := buf.String()
		assert.Contains(t, out, "STORE_UNAVAILABLE")
		assert.Contains(t, out, "create account")
	})

	t.Run("coded error without context omits context attr", func(t *testing.T) {
		var buf bytes.Buffer
		LogError(newLogger(&buf), "failed", oops.Code("X").Errorf("boom"))
		assert.NotContains(t, buf.String(), "context=")
	})
}
