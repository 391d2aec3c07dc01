package log

import (
	"github.com/gowaitq/waitq/log/tag"
)

type (
	// Logger is the logging interface.
	// Usage example:
	//  logger.Info("wait timed out",
	//          tag.Name("session-lock"),
	//          tag.Timeout(time.Second),
	//  )
	// Note: msg should be static, do not use fmt.Sprintf() for msg. Anything
	// dynamic should be tagged.
	Logger interface {
		Debug(msg string, tags ...tag.Tag)
		Info(msg string, tags ...tag.Tag)
		Warn(msg string, tags ...tag.Tag)
		Error(msg string, tags ...tag.Tag)
		Fatal(msg string, tags ...tag.Tag)
	}

	// WithLogger is implemented by loggers that can return a new instance
	// with prepended tags.
	WithLogger interface {
		With(tags ...tag.Tag) Logger
	}
)

// With returns a logger with the given tags prepended. If the logger does not
// implement WithLogger the tags are dropped.
func With(logger Logger, tags ...tag.Tag) Logger {
	if wl, ok := logger.(WithLogger); ok {
		return wl.With(tags...)
	}
	return logger
}
