package logger

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

const loggerContextKey = "logger.entry"

var defaultLogger = logrus.New()
var defaultEntry = logrus.NewEntry(defaultLogger)

// NewContextWithFields returns a context whose logger carries the given fields
// on every subsequent log line.
func NewContextWithFields(parent context.Context, fields logrus.Fields) context.Context {
	return context.WithValue(parent, loggerContextKey, For(parent).WithFields(fields))
}

// SetLoggerOptions applies options to the process-wide logger.
func SetLoggerOptions(optionsFunc func(logger *logrus.Logger)) {
	optionsFunc(defaultLogger)
}

// For returns the logger entry scoped to ctx, falling back to the default
// entry when the context carries none. A *gin.Context is unwrapped to its
// request context first.
func For(ctx context.Context) *logrus.Entry {
	if ctx == nil {
		return defaultEntry.WithContext(ctx)
	}

	if gc, ok := ctx.(*gin.Context); ok {
		ctx = gc.Request.Context()
	}

	if entry, ok := ctx.Value(loggerContextKey).(*logrus.Entry); ok {
		return entry.WithContext(ctx)
	}

	return defaultEntry.WithContext(ctx)
}
