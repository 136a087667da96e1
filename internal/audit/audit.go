// Package audit keeps the append-only transition log, one line per
// classification change:
//
//	2026-08-29 13:04:05 UTC - [UNREACHABLE]: example.com
package audit

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"gopkg.in/natefinch/lumberjack.v2"
)

type Log struct {
	mu sync.Mutex
	w  io.Writer
}

func New(w io.Writer) *Log {
	return &Log{w: w}
}

// NewFile writes to a rotated transitions.log under dir.
func NewFile(dir string) (*Log, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return New(&lumberjack.Logger{
		Filename:   filepath.Join(dir, "transitions.log"),
		MaxSize:    10, // MB
		MaxBackups: 5,
		MaxAge:     90, // days
		Compress:   true,
	}), nil
}

func (l *Log) Record(at time.Time, domain string, unreachable bool) error {
	state := "REACHABLE"
	if unreachable {
		state = "UNREACHABLE"
	}
	line := fmt.Sprintf("%s - [%s]: %s\n", at.Format("2006-01-02 15:04:05 MST"), state, domain)

	l.mu.Lock()
	defer l.mu.Unlock()
	_, err := io.WriteString(l.w, line)
	return err
}
