package audit

import (
	"bytes"
	"os"
	"testing"
	"time"
)

func TestLog_RecordFormat(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf)

	at := time.Date(2026, 8, 29, 13, 4, 5, 0, time.UTC)
	if err := l.Record(at, "example.com", true); err != nil {
		t.Fatalf("Record: %v", err)
	}
	if err := l.Record(at.Add(time.Minute), "example.com", false); err != nil {
		t.Fatalf("Record: %v", err)
	}

	want := "2026-08-29 13:04:05 UTC - [UNREACHABLE]: example.com\n" +
		"2026-08-29 13:05:05 UTC - [REACHABLE]: example.com\n"
	if buf.String() != want {
		t.Fatalf("got:\n%q\nwant:\n%q", buf.String(), want)
	}
}

func TestNewFile_CreatesDir(t *testing.T) {
	dir := t.TempDir() + "/nested"
	l, err := NewFile(dir)
	if err != nil {
		t.Fatalf("NewFile: %v", err)
	}
	if err := l.Record(time.Now(), "example.com", true); err != nil {
		t.Fatalf("Record: %v", err)
	}
	if _, err := os.Stat(dir); err != nil {
		t.Fatalf("audit dir missing: %v", err)
	}
}
