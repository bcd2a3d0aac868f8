package common

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestWithTimeout(t *testing.T) {
	ctx, cancel := WithTimeout(context.Background(), time.Minute)
	defer cancel()
	_, ok := ctx.Deadline()
	assert.True(t, ok)

	ctx, cancel = WithTimeout(context.Background(), 0)
	_, ok = ctx.Deadline()
	assert.False(t, ok)
	cancel()
	assert.ErrorIs(t, ctx.Err(), context.Canceled)
}

func TestContextIDs(t *testing.T) {
	ctx := WithDocumentID(WithRequestID(context.Background(), "req-1"), "doc-1")
	assert.Equal(t, "req-1", RequestIDFromContext(ctx))
	assert.Equal(t, "doc-1", DocumentIDFromContext(ctx))
	assert.Empty(t, DocumentIDFromContext(context.Background()))
}
