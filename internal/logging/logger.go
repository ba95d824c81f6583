package logging

import (
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"gopkg.in/natefinch/lumberjack.v2"
)

var (
	mu     sync.RWMutex
	logger = zerolog.New(os.Stderr).With().Timestamp().Logger()
)

// InitLogger configures the global logger. When file is empty logs go to
// stderr; otherwise they are written to a rotating file.
func InitLogger(file string, maxSizeMB, maxBackups, maxAgeDays int, compress bool, level string) {
	var out io.Writer = zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}
	if file != "" {
		out = &lumberjack.Logger{
			Filename:   file,
			MaxSize:    maxSizeMB,
			MaxBackups: maxBackups,
			MaxAge:     maxAgeDays,
			Compress:   compress,
		}
	}

	mu.Lock()
	logger = zerolog.New(out).With().Timestamp().Logger().Level(parseLevel(level))
	mu.Unlock()
}

// SetLogLevel changes the level of the global logger. Unknown levels fall
// back to info.
func SetLogLevel(level string) {
	mu.Lock()
	logger = logger.Level(parseLevel(level))
	mu.Unlock()
}

// SetLoggerForTest replaces the global logger.
func SetLoggerForTest(l zerolog.Logger) {
	mu.Lock()
	logger = l
	mu.Unlock()
}

func parseLevel(level string) zerolog.Level {
	lvl, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil || level == "" {
		return zerolog.InfoLevel
	}
	return lvl
}

func Debug(msg string, kv ...any) { write(zerolog.DebugLevel, msg, kv) }
func Info(msg string, kv ...any)  { write(zerolog.InfoLevel, msg, kv) }
func Warn(msg string, kv ...any)  { write(zerolog.WarnLevel, msg, kv) }
func Error(msg string, kv ...any) { write(zerolog.ErrorLevel, msg, kv) }

func write(level zerolog.Level, msg string, kv []any) {
	mu.RLock()
	l := logger
	mu.RUnlock()

	ev := l.WithLevel(level)
	for i := 0; i+1 < len(kv); i += 2 {
		key, ok := kv[i].(string)
		if !ok {
			continue
		}
		switch v := kv[i+1].(type) {
		case error:
			ev = ev.AnErr(key, v)
		default:
			ev = ev.Interface(key, v)
		}
	}
	if len(kv)%2 == 1 {
		ev = ev.Interface("extra", kv[len(kv)-1])
	}
	ev.Msg(msg)
}
