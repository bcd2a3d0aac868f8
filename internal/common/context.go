package common

import (
	"context"
	"time"
)

// Context keys for storing values in context
type contextKey string

const (
	ContextKeyRequestID  contextKey = "request_id"
	ContextKeyDocumentID contextKey = "document_id"
)

// WithRequestID adds a request ID to the context
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, ContextKeyRequestID, requestID)
}

// RequestIDFromContext extracts the request ID from context
func RequestIDFromContext(ctx context.Context) string {
	if requestID, ok := ctx.Value(ContextKeyRequestID).(string); ok {
		return requestID
	}
	return ""
}

// WithDocumentID adds a document ID to the context
func WithDocumentID(ctx context.Context, documentID string) context.Context {
	return context.WithValue(ctx, ContextKeyDocumentID, documentID)
}

// DocumentIDFromContext extracts the document ID from context
func DocumentIDFromContext(ctx context.Context) string {
	if documentID, ok := ctx.Value(ContextKeyDocumentID).(string); ok {
		return documentID
	}
	return ""
}

// WithTimeout bounds parent by timeout. A non-positive timeout adds no deadline,
// only cancellation.
func WithTimeout(parent context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if timeout <= 0 {
		return context.WithCancel(parent)
	}
	return context.WithTimeout(parent, timeout)
}
