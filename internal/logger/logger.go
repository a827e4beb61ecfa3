// Package logger writes optional per-handler request logs, one file per
// handler per day, and prunes files older than a week.
package logger

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"sync"
	"time"
)

const (
	maxLogAge       = 7 * 24 * time.Hour
	cleanupInterval = 24 * time.Hour
)

var (
	mu        sync.Mutex
	logDir    string
	loggers   = map[string]*HandlerLogger{}
	cleanOnce sync.Once
	unsafeRe  = regexp.MustCompile(`[^a-z0-9]+`)
)

// HandlerLogger appends lines to <dir>/<name>-<date>.log.
type HandlerLogger struct {
	mu   sync.Mutex
	name string
	dir  string
	day  string
	file *os.File
}

// Init enables file logging under dir. An empty dir leaves file logging off.
func Init(dir string) error {
	if dir == "" {
		return nil
	}
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("creating log dir: %w", err)
	}
	mu.Lock()
	logDir = dir
	mu.Unlock()
	cleanOnce.Do(func() { go cleanupLoop(dir) })
	return nil
}

// For returns the logger for a handler name, or nil when file logging is off.
// Names differing only in case or punctuation share a logger.
func For(name string) *HandlerLogger {
	mu.Lock()
	defer mu.Unlock()
	if logDir == "" {
		return nil
	}
	key := unsafeRe.ReplaceAllString(strings.ToLower(name), "-")
	l, ok := loggers[key]
	if !ok {
		l = &HandlerLogger{name: key, dir: logDir}
		loggers[key] = l
	}
	return l
}

// Log appends one timestamped line. Calls on a nil logger are dropped.
func (l *HandlerLogger) Log(format string, args ...any) {
	if l == nil {
		return
	}
	now := time.Now()

	l.mu.Lock()
	defer l.mu.Unlock()
	if err := l.openFor(now.Format(time.DateOnly)); err != nil {
		slog.Error("request log unavailable", "handler", l.name, "error", err)
		return
	}
	fmt.Fprintf(l.file, "%s %s\n", now.Format(time.DateTime), fmt.Sprintf(format, args...))
}

// openFor switches the open file to the one for day.
func (l *HandlerLogger) openFor(day string) error {
	if l.file != nil && l.day == day {
		return nil
	}
	l.closeFile()
	f, err := os.OpenFile(filepath.Join(l.dir, l.name+"-"+day+".log"), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0600)
	if err != nil {
		return err
	}
	l.file, l.day = f, day
	return nil
}

func (l *HandlerLogger) closeFile() {
	if l.file != nil {
		l.file.Close()
		l.file = nil
	}
}

// Close closes the current file. The next Log reopens it.
func (l *HandlerLogger) Close() {
	if l == nil {
		return
	}
	l.mu.Lock()
	l.closeFile()
	l.mu.Unlock()
}

// CloseAll closes and forgets every logger.
func CloseAll() {
	mu.Lock()
	defer mu.Unlock()
	for key, l := range loggers {
		l.Close()
		delete(loggers, key)
	}
}

func cleanupLoop(dir string) {
	t := time.NewTicker(cleanupInterval)
	defer t.Stop()
	for {
		cleanOldLogs(dir, time.Now().Add(-maxLogAge))
		<-t.C
	}
}

// cleanOldLogs removes .log files in dir last modified before cutoff.
func cleanOldLogs(dir string, cutoff time.Time) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return
	}
	for _, e := range entries {
		if e.IsDir() || filepath.Ext(e.Name()) != ".log" {
			continue
		}
		info, err := e.Info()
		if err != nil || !info.ModTime().Before(cutoff) {
			continue
		}
		path := filepath.Join(dir, e.Name())
		if err := os.Remove(path); err == nil {
			slog.Debug("removed old request log", "path", path)
		}
	}
}
