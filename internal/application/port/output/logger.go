package output

// LoggerPort takes alternating key/value args after the message. Bots get a
// child logger carrying their "bot" id, so every line a bot writes can be
// filtered per bot.
type LoggerPort interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)

	WithField(key string, value any) LoggerPort
	WithFields(fields map[string]any) LoggerPort

	Close() error
}
