package log

import "context"

// nopLogger discards everything. Useful in tests that do not assert on log output.
type nopLogger struct{}

// NewMock returns a Logger that drops every entry.
func NewMock() Logger {
	return nopLogger{}
}

func (n nopLogger) With(context.Context) Logger { return n }
func (n nopLogger) WithStack(error) Logger { return n }
func (n nopLogger) WithParam(string, interface{}) Logger { return n }
func (n nopLogger) WithParams(Params) Logger { return n }
func (nopLogger) Errorf(string, ...interface{}) {}
func (nopLogger) Error(...interface{}) {}
func (nopLogger) Fatalf(string, ...interface{}) {}
func (nopLogger) Fatal(...interface{}) {}
func (nopLogger) Infof(string, ...interface{}) {}
func (nopLogger) Info(...interface{}) {}
func (nopLogger) Warnf(string, ...interface{}) {}
func (nopLogger) Warn(...interface{}) {}
func (nopLogger) Debugf(string, ...interface{}) {}
func (nopLogger) Debug(...interface{}) {}
