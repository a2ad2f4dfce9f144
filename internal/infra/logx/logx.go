package logx

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/rs/zerolog"
)

// Level represents log severity.
type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "debug"
	case LevelInfo:
		return "info"
	case LevelWarn:
		return "warn"
	case LevelError:
		return "error"
	default:
		return "debug"
	}
}

func (l Level) zerolog() zerolog.Level {
	switch l {
	case LevelInfo:
		return zerolog.InfoLevel
	case LevelWarn:
		return zerolog.WarnLevel
	case LevelError:
		return zerolog.ErrorLevel
	default:
		return zerolog.DebugLevel
	}
}

// ParseLevel maps a level name ("debug", "info", "warn", "error") to a Level.
func ParseLevel(s string) (Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return LevelDebug, nil
	case "info", "":
		return LevelInfo, nil
	case "warn", "warning":
		return LevelWarn, nil
	case "error":
		return LevelError, nil
	}
	return LevelInfo, fmt.Errorf("unknown log level %q", s)
}

const maxMsgLen = 2 * 1024 // non-verbose limit for messages and string fields

var (
	mu       sync.RWMutex
	minLevel           = LevelWarn
	out      io.Writer = io.Discard
	secrets            = make([]string, 0)
	verbose  bool
)

// SetOutput sets the destination for logs. A nil writer discards them.
func SetOutput(w io.Writer) {
	if w == nil {
		w = io.Discard
	}
	mu.Lock()
	out = w
	mu.Unlock()
}

// SetMinLevel sets the minimum level to emit.
func SetMinLevel(l Level) { mu.Lock(); minLevel = l; mu.Unlock() }

// SetVerbose toggles verbose output (no truncation of large fields/messages).
func SetVerbose(v bool) { mu.Lock(); verbose = v; mu.Unlock() }

// Verbose returns whether verbose output is enabled.
func Verbose() bool { mu.RLock(); defer mu.RUnlock(); return verbose }

// RegisterSecret adds a string to be redacted in outputs.
func RegisterSecret(s string) {
	s = strings.TrimSpace(s)
	if s == "" {
		return
	}
	mu.Lock()
	secrets = append(secrets, s)
	mu.Unlock()
}

// StdlogWriter wraps writes as structured JSON lines at a fixed level.
// It applies redaction and optional truncation when verbose is disabled.
func StdlogWriter(level Level, w io.Writer) io.Writer {
	if w == nil {
		w = os.Stderr
	}
	return &stdlogWriter{level: level, w: w}
}

type stdlogWriter struct {
	level Level
	w     io.Writer
}

func (sw *stdlogWriter) Write(p []byte) (int, error) {
	for _, line := range bytes.Split(p, []byte("\n")) {
		if len(line) == 0 {
			continue
		}
		if err := emit(sw.w, sw.level, string(line), nil); err != nil {
			return 0, err
		}
	}
	return len(p), nil
}

func output() io.Writer { mu.RLock(); defer mu.RUnlock(); return out }

// Debugf logs a debug message.
func Debugf(format string, args ...any) {
	_ = emit(output(), LevelDebug, fmt.Sprintf(format, args...), nil)
}

// Infof logs an info message.
func Infof(format string, args ...any) {
	_ = emit(output(), LevelInfo, fmt.Sprintf(format, args...), nil)
}

// Warnf logs a warning message.
func Warnf(format string, args ...any) {
	_ = emit(output(), LevelWarn, fmt.Sprintf(format, args...), nil)
}

// Errorf logs an error message.
func Errorf(format string, args ...any) {
	_ = emit(output(), LevelError, fmt.Sprintf(format, args...), nil)
}

// Log emits msg with structured fields at the given level.
func Log(l Level, msg string, fields map[string]any) { _ = emit(output(), l, msg, fields) }

func emit(w io.Writer, lvl Level, msg string, fields map[string]any) error {
	mu.RLock()
	ml := minLevel
	v := verbose
	mu.RUnlock()
	if lvl < ml {
		return nil
	}
	msg = redact(msg)
	if !v {
		msg = truncate(msg, maxMsgLen)
	}
	var clean map[string]any
	if len(fields) > 0 {
		clean = make(map[string]any, len(fields))
		for k, val := range fields {
			if s, ok := val.(string); ok {
				s = redact(s)
				if !v {
					s = truncate(s, maxMsgLen)
				}
				val = s
			}
			clean[k] = val
		}
	}
	ew := &errWriter{w: w}
	zl := zerolog.New(ew).With().Timestamp().Logger()
	ev := zl.WithLevel(lvl.zerolog())
	if clean != nil {
		ev = ev.Fields(clean)
	}
	ev.Msg(msg)
	return ew.err
}

// errWriter keeps the last write error, which zerolog otherwise only
// reports through its global error handler.
type errWriter struct {
	w   io.Writer
	err error
}

func (e *errWriter) Write(p []byte) (int, error) {
	n, err := e.w.Write(p)
	if err != nil {
		e.err = err
	}
	return n, err
}

func redact(s string) string {
	mu.RLock()
	defer mu.RUnlock()
	if len(secrets) == 0 {
		return s
	}
	out := s
	for _, sec := range secrets {
		out = strings.ReplaceAll(out, sec, "[REDACTED]")
	}
	return out
}

func truncate(s string, limit int) string {
	if limit <= 0 || len(s) <= limit {
		return s
	}
	// keep last 10 chars to aid context
	suffix := "… [truncated]"
	if limit > len(suffix)+10 {
		head := s[:limit-len(suffix)-10]
		tail := s[len(s)-10:]
		return head + suffix + tail
	}
	return s[:limit]
}
