package ctxlog

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFromContext(t *testing.T) {
	t.Parallel()

	buf := &bytes.Buffer{}
	logger := slog.New(slog.NewTextHandler(buf, nil))
	ctx := WithLogger(context.Background(), logger)

	assert.Same(t, logger, FromContext(ctx))

	With(ctx, "component", "test").Info("hello")
	assert.Contains(t, buf.String(), "component=test")
	assert.Contains(t, buf.String(), "msg=hello")
}

func TestFromContext_Missing(t *testing.T) {
	t.Parallel()

	assert.NotPanics(t, func() {
		FromContext(context.Background()).Info("dropped")
		FromContext(nil).Info("dropped")
	})
}
