// Package logger provides structured JSON logging to stderr with level
// gating and automatic redaction of contact emails, which are PII in a
// lead database.
package logger

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"regexp"
	"strings"
	"sync"
	"time"
)

// Level represents the severity of a log entry.
type Level int

const (
	DEBUG Level = iota
	INFO
	WARN
	ERROR
)

func (l Level) String() string {
	switch l {
	case DEBUG:
		return "DEBUG"
	case WARN:
		return "WARN"
	case ERROR:
		return "ERROR"
	default:
		return "INFO"
	}
}

// Logger writes one JSON object per entry. Fields are alternating
// key/value pairs, printf-style values flattened to strings.
type Logger struct {
	mu     sync.Mutex
	out    io.Writer
	level  Level
	redact bool
}

var std = &Logger{out: os.Stderr, level: INFO, redact: true}

// SetLevel sets the minimum level emitted by the package-level logger.
func SetLevel(l Level) { std.level = l }

// SetRedact toggles email redaction on the package-level logger. Disable
// only in local development.
func SetRedact(on bool) { std.redact = on }

// Debug emits a DEBUG entry.
func Debug(msg string, kv ...any) { std.emit(DEBUG, msg, kv...) }

// Info emits an INFO entry.
func Info(msg string, kv ...any) { std.emit(INFO, msg, kv...) }

// Warn emits a WARN entry.
func Warn(msg string, kv ...any) { std.emit(WARN, msg, kv...) }

// Error emits an ERROR entry.
func Error(msg string, kv ...any) { std.emit(ERROR, msg, kv...) }

func (l *Logger) emit(level Level, msg string, kv ...any) {
	if level < l.level {
		return
	}

	entry := map[string]string{
		"time":  time.Now().UTC().Format(time.RFC3339),
		"level": level.String(),
		"msg":   msg,
	}
	for i := 0; i+1 < len(kv); i += 2 {
		key := fmt.Sprintf("%v", kv[i])
		val := fmt.Sprintf("%v", kv[i+1])
		if l.redact {
			val = redactValue(key, val)
		}
		entry[key] = val
	}

	line, err := json.Marshal(entry)
	if err != nil {
		return
	}
	l.mu.Lock()
	fmt.Fprintln(l.out, string(line))
	l.mu.Unlock()
}

var emailPattern = regexp.MustCompile(`[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}`)

func redactValue(key, val string) string {
	k := strings.ToLower(key)
	if strings.Contains(k, "email") || strings.Contains(k, "lead") || strings.Contains(k, "contact") {
		return RedactEmail(val)
	}
	return emailPattern.ReplaceAllStringFunc(val, RedactEmail)
}

// RedactEmail masks an address for safe logging:
// "jane.doe@acme.com" becomes "ja***@acme.com". Local parts of two or
// fewer characters are fully masked. Non-address input masks entirely.
func RedactEmail(email string) string {
	at := strings.LastIndex(email, "@")
	if at <= 0 || at == len(email)-1 {
		return "***@***"
	}
	local, dom := email[:at], email[at+1:]
	if len(local) <= 2 {
		return "***@" + dom
	}
	return local[:2] + "***@" + dom
}
