package core

// Logger is implemented by any logging service used across the app.
// Implementations may inspect args for known types (eg. errors, users)
// and report them to an external error tracker.
type Logger interface {
	Debug(msg string, args ...interface{})
	Info(msg string, args ...interface{})
	Warn(msg string, args ...interface{})
	Error(msg string, args ...interface{})
	Fatal(msg string, args ...interface{})
}
