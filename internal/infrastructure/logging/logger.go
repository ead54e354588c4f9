package logging

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/andrescamacho/focusplanner/internal/infrastructure/config"
)

var levelRank = map[string]int{
	"DEBUG":   0,
	"INFO":    1,
	"WARN":    2,
	"WARNING": 2,
	"ERROR":   3,
}

// Logger writes leveled log lines as text or JSON. Safe for concurrent use.
type Logger struct {
	mu     sync.Mutex
	out    io.Writer
	closer io.Closer
	min    int
	json   bool
	now    func() time.Time
}

// NewLogger builds a logger from the logging section of the config
func NewLogger(cfg config.LoggingConfig) (*Logger, error) {
	var out io.Writer
	var closer io.Closer

	switch cfg.Output {
	case "", "stderr":
		out = os.Stderr
	case "stdout":
		out = os.Stdout
	case "file":
		if cfg.FilePath == "" {
			return nil, fmt.Errorf("logging output is file but file_path is empty")
		}
		f, err := os.OpenFile(cfg.FilePath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return nil, fmt.Errorf("failed to open log file: %w", err)
		}
		out = f
		closer = f
	default:
		return nil, fmt.Errorf("unsupported logging output: %s", cfg.Output)
	}

	logger := NewWriterLogger(out, cfg.Level, cfg.Format)
	logger.closer = closer
	return logger, nil
}

// NewWriterLogger writes to w with the given level ("debug", "info"...) and format ("json" or "text")
func NewWriterLogger(w io.Writer, level, format string) *Logger {
	min, ok := levelRank[strings.ToUpper(level)]
	if !ok {
		min = levelRank["INFO"]
	}
	return &Logger{
		out:  w,
		min:  min,
		json: strings.EqualFold(format, "json"),
		now:  time.Now,
	}
}

// Log writes one line if level passes the filter. Unknown levels are treated as INFO.
func (l *Logger) Log(level, message string, metadata map[string]interface{}) {
	level = strings.ToUpper(level)
	rank, ok := levelRank[level]
	if !ok {
		rank = levelRank["INFO"]
	}
	if rank < l.min {
		return
	}
	if level == "WARNING" {
		level = "WARN"
	}

	var line string
	if l.json {
		line = l.formatJSON(level, message, metadata)
	} else {
		line = l.formatText(level, message, metadata)
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintln(l.out, line)
}

// Close releases the log file, if any
func (l *Logger) Close() error {
	if l.closer == nil {
		return nil
	}
	return l.closer.Close()
}

func (l *Logger) formatJSON(level, message string, metadata map[string]interface{}) string {
	entry := make(map[string]interface{}, len(metadata)+3)
	for k, v := range metadata {
		entry[k] = v
	}
	entry["time"] = l.now().UTC().Format(time.RFC3339)
	entry["level"] = level
	entry["message"] = message

	data, err := json.Marshal(entry)
	if err != nil {
		return fmt.Sprintf(`{"level":%q,"message":%q,"marshal_error":%q}`, level, message, err.Error())
	}
	return string(data)
}

func (l *Logger) formatText(level, message string, metadata map[string]interface{}) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s [%s] %s", l.now().Format("15:04:05"), level, message)

	keys := make([]string, 0, len(metadata))
	for k := range metadata {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(&b, " %s=%v", k, metadata[k])
	}
	return b.String()
}
