package simframe

import (
	"bytes"
	"strings"
	"testing"

	"github.com/aeonis-sim/aeonis/internal/domain"
)

func TestWriterAppendsNDJSONLines(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf)

	f1 := domain.NewFrame(1, 4, 4, domain.Diff{}, nil, nil, false)
	f2 := domain.NewFrame(2, 4, 4, domain.Diff{}, nil, []string{"quiet tick"}, false)

	if err := w.WriteFrame(f1); err != nil {
		t.Fatalf("WriteFrame 1: %v", err)
	}
	if err := w.WriteFrame(f2); err != nil {
		t.Fatalf("WriteFrame 2: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	if len(lines) != 2 {
		t.Fatalf("got %d lines, want 2:\n%s", len(lines), buf.String())
	}
	if !strings.Contains(lines[0], `"t":1`) {
		t.Errorf("first line missing t:1: %s", lines[0])
	}
	if !strings.Contains(lines[1], `"t":2`) {
		t.Errorf("second line missing t:2: %s", lines[1])
	}
}
