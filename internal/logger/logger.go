package logger

import (
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"weebdex/internal/domain"

	"github.com/rs/zerolog"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Logger is the leveled logger passed around the application.
type Logger interface {
	Log() *zerolog.Event
	Fatal() *zerolog.Event
	Err(err error) *zerolog.Event
	Error() *zerolog.Event
	Warn() *zerolog.Event
	Info() *zerolog.Event
	Trace() *zerolog.Event
	Debug() *zerolog.Event
	With() zerolog.Context
	SetLogLevel(level string)
}

type DefaultLogger struct {
	m      sync.RWMutex
	log    zerolog.Logger
	level  zerolog.Level
	writer io.Writer
}

func New(cfg *domain.Config) Logger {
	l := &DefaultLogger{
		writer: zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.DateTime},
		level:  zerolog.DebugLevel,
	}

	zerolog.TimeFieldFormat = time.RFC3339

	if cfg.LogPath != "" {
		l.writer = io.MultiWriter(l.writer, zerolog.ConsoleWriter{
			Out: &lumberjack.Logger{
				Filename:   cfg.LogPath,
				MaxSize:    cfg.LogMaxSize, // megabytes
				MaxBackups: cfg.LogMaxBackups,
			},
			TimeFormat: time.DateTime,
			NoColor:    true,
		})
	}

	l.log = zerolog.New(l.writer).With().Timestamp().Logger()
	l.SetLogLevel(cfg.LogLevel)

	return l
}

// ParseLevel maps the config values ERROR, WARN, INFO, DEBUG and TRACE to zerolog levels.
// Unknown values fall back to DEBUG.
func ParseLevel(level string) zerolog.Level {
	switch strings.ToUpper(strings.TrimSpace(level)) {
	case "ERROR":
		return zerolog.ErrorLevel
	case "WARN":
		return zerolog.WarnLevel
	case "INFO":
		return zerolog.InfoLevel
	case "TRACE":
		return zerolog.TraceLevel
	default:
		return zerolog.DebugLevel
	}
}

func (l *DefaultLogger) SetLogLevel(level string) {
	l.m.Lock()
	defer l.m.Unlock()

	l.level = ParseLevel(level)
	l.log = l.log.Level(l.level)
}

func (l *DefaultLogger) current() *zerolog.Logger {
	l.m.RLock()
	defer l.m.RUnlock()

	log := l.log
	return &log
}

func (l *DefaultLogger) Log() *zerolog.Event {
	return l.current().Log()
}

func (l *DefaultLogger) Fatal() *zerolog.Event {
	return l.current().Fatal()
}

func (l *DefaultLogger) Err(err error) *zerolog.Event {
	return l.current().Err(err)
}

func (l *DefaultLogger) Error() *zerolog.Event {
	return l.current().Error()
}

func (l *DefaultLogger) Warn() *zerolog.Event {
	return l.current().Warn()
}

func (l *DefaultLogger) Info() *zerolog.Event {
	return l.current().Info()
}

func (l *DefaultLogger) Trace() *zerolog.Event {
	return l.current().Trace()
}

func (l *DefaultLogger) Debug() *zerolog.Event {
	return l.current().Debug()
}

func (l *DefaultLogger) With() zerolog.Context {
	return l.current().With()
}
