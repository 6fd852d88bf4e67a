// Package log is a thin logrus wrapper whose entries pick up the request id carried by a context.
package log

import (
	"context"
	"io"
	"strings"

	"userstream/trace"

	"github.com/sirupsen/logrus"
)

// Field names set by the wrapper itself.
const (
	FieldService   = "service"
	FieldRequestID = "request_id"
	FieldStack     = "stack"
)

// Logger represent common interface for logging function
type Logger interface {
	With(ctx context.Context) Logger
	WithStack(err error) Logger
	WithParam(key string, value interface{}) Logger
	WithParams(params Params) Logger
	Errorf(format string, args ...interface{})
	Error(args ...interface{})
	Fatalf(format string, args ...interface{})
	Fatal(args ...interface{})
	Infof(format string, args ...interface{})
	Info(args ...interface{})
	Warnf(format string, args ...interface{})
	Warn(args ...interface{})
	Debugf(format string, args ...interface{})
	Debug(args ...interface{})
}

// Params type, used to pass to `WithParams`.
type Params map[string]interface{}

type entry struct {
	*logrus.Entry
}

// root is the logrus logger behind the last New call. The package level setters act on it.
var root *logrus.Logger

// New returns a logger tagged with service.
func New(service string) Logger {
	return NewFromLogrus(logrus.New(), service)
}

// NewFromLogrus wraps an existing logrus logger, e.g. a test logger with hooks attached.
func NewFromLogrus(l *logrus.Logger, service string) Logger {
	root = l
	return &entry{l.WithField(FieldService, service)}
}

func SetOutput(output io.Writer) {
	root.SetOutput(output)
}

func SetFormatter(formatter logrus.Formatter) {
	root.SetFormatter(formatter)
}

func SetLevel(level logrus.Level) {
	root.SetLevel(level)
}

// SetFormat picks the formatter by name: "json", or text for anything else.
func SetFormat(name string) {

	if strings.EqualFold(name, "json") {
		SetFormatter(&logrus.JSONFormatter{})
		return
	}

	SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

}

// ParseLevel parses a level name, falling back to info for unknown names.
func ParseLevel(name string) logrus.Level {

	level, err := logrus.ParseLevel(name)
	if err != nil {
		return logrus.InfoLevel
	}
	return level

}

// With adds the request id carried by ctx, when there is one.
func (e *entry) With(ctx context.Context) Logger {

	if ctx == nil {
		return e
	}

	id := trace.GetRequestIDFromContext(ctx)
	if id == "" {
		return e
	}

	return &entry{e.WithField(FieldRequestID, id)}

}

// WithStack attaches the stack trace recorded in err.
func (e *entry) WithStack(err error) Logger {
	return &entry{e.WithField(FieldStack, MarshalStack(err))}
}

func (e *entry) WithParam(key string, value interface{}) Logger {
	return &entry{e.WithField(key, value)}
}

func (e *entry) WithParams(params Params) Logger {
	return &entry{e.WithFields(logrus.Fields(params))}
}
