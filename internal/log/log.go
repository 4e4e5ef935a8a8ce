package log

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/apex/log"
)

const (
	// LevelEnv selects the log level: trace, debug, info, warn, error or fatal.
	LevelEnv = "VOCABDIFF_LOG"
	// FileEnv redirects log output to a file, appending.
	FileEnv = "VOCABDIFF_LOG_FILE"
)

var traceEnabled bool

// Init installs the line handler and the level from VOCABDIFF_LOG. Output
// goes to VOCABDIFF_LOG_FILE when set, otherwise to w. The returned closer
// releases the log file, if any.
func Init(w io.Writer) (io.Closer, error) {
	level, trace := ParseLevel(os.Getenv(LevelEnv))
	traceEnabled = trace

	var closer io.Closer = nopCloser{}
	if path := os.Getenv(FileEnv); path != "" {
		f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return closer, fmt.Errorf("opening log file: %w", err)
		}
		w, closer = f, f
	}
	if w == nil {
		w = io.Discard
	}

	log.SetHandler(NewHandler(w))
	log.SetLevel(level)
	return closer, nil
}

// ParseLevel maps an env level name to an apex level. Unknown or empty names
// map to error. trace is reported separately since apex has no such level.
func ParseLevel(s string) (log.Level, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "trace":
		return log.DebugLevel, true
	case "debug":
		return log.DebugLevel, false
	case "info":
		return log.InfoLevel, false
	case "warn", "warning":
		return log.WarnLevel, false
	case "fatal":
		return log.FatalLevel, false
	default:
		return log.ErrorLevel, false
	}
}

// Handler writes one line per entry: timestamp, level letter, message and
// sorted fields.
type Handler struct {
	mu  sync.Mutex
	w   io.Writer
	now func() time.Time
}

func NewHandler(w io.Writer) *Handler {
	return &Handler{w: w, now: time.Now}
}

// HandleLog implements log.Handler.
func (h *Handler) HandleLog(e *log.Entry) error {
	message := e.Message
	level := "?"
	if rest, ok := strings.CutPrefix(message, "TRACE: "); ok {
		level = "T"
		message = rest
	} else {
		switch e.Level {
		case log.DebugLevel:
			level = "D"
		case log.InfoLevel:
			level = "I"
		case log.WarnLevel:
			level = "W"
		case log.ErrorLevel:
			level = "E"
		case log.FatalLevel:
			level = "F"
		}
	}

	var b strings.Builder
	b.WriteString(h.now().Format("2006-01-02 15:04:05"))
	b.WriteByte(' ')
	b.WriteString(level)
	b.WriteByte(' ')
	b.WriteString(message)

	names := e.Fields.Names()
	sort.Strings(names)
	for _, name := range names {
		fmt.Fprintf(&b, " %s=%v", name, e.Fields.Get(name))
	}
	b.WriteByte('\n')

	h.mu.Lock()
	defer h.mu.Unlock()
	_, err := io.WriteString(h.w, b.String())
	return err
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// Tracef logs below Debug, only when VOCABDIFF_LOG=trace.
func Tracef(format string, args ...any) {
	if traceEnabled {
		log.Debug("TRACE: " + fmt.Sprintf(format, args...))
	}
}

func Debugf(format string, args ...any) {
	log.Debugf(format, args...)
}

func Infof(format string, args ...any) {
	log.Infof(format, args...)
}

func Warnf(format string, args ...any) {
	log.Warnf(format, args...)
}

func Errorf(format string, args ...any) {
	log.Errorf(format, args...)
}

// WithError returns an entry carrying err.
func WithError(err error) *log.Entry {
	return log.WithError(err)
}

// WithFields returns an entry carrying fields.
func WithFields(fields log.Fields) *log.Entry {
	return log.WithFields(fields)
}
