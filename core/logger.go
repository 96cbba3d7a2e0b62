package core

// Logger is the application logger. Implementations may ship logs to an
// external aggregator; args may carry errors or a user.User for context.
type Logger interface {
	Debug(msg string, args ...interface{})
	Info(msg string, args ...interface{})
	Warn(msg string, args ...interface{})
	Error(msg string, args ...interface{})
	Fatal(msg string, args ...interface{})
}
