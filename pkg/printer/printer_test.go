package printer

import (
	"bytes"
	"context"
	"strings"
	"testing"
)

func TestDocumentPairAlignsToWidth(t *testing.T) {
	doc := NewDocument(Width58mm)
	doc.Pair("Sub Total", "20.00")

	line := strings.TrimSuffix(doc.Text(), "\n")
	if len(line) != Width58mm {
		t.Fatalf("expected %d chars, got %d (%q)", Width58mm, len(line), line)
	}
	if !strings.HasPrefix(line, "Sub Total") || !strings.HasSuffix(line, "20.00") {
		t.Fatalf("unexpected pair line %q", line)
	}
}

func TestDocumentWrapsLongLines(t *testing.T) {
	doc := NewDocument(16)
	doc.Line("Paracetamol 500mg Tablet strip")

	lines := strings.Split(strings.TrimSuffix(doc.Text(), "\n"), "\n")
	if len(lines) != 3 || lines[0] != "Paracetamol" {
		t.Fatalf("expected 3 wrapped lines, got %d: %q", len(lines), lines)
	}
	for _, l := range lines {
		if len(l) > 16 {
			t.Fatalf("line exceeds width: %q", l)
		}
	}
}

func TestDocumentCenterPadsPreview(t *testing.T) {
	doc := NewDocument(10)
	doc.Align(AlignCenter).Line("AB")
	if got := doc.Text(); got != "    AB\n" {
		t.Fatalf("unexpected centered text %q", got)
	}
}

func TestDocumentBytesCarryCommands(t *testing.T) {
	doc := NewDocument(Width58mm).Bold(true).Line("PharmaCare").Cut()
	raw := doc.Bytes()

	if !bytes.HasPrefix(raw, []byte{esc, '@'}) {
		t.Fatalf("job should start with initialize")
	}
	if !bytes.HasSuffix(raw, []byte{gs, 'V', 0x01}) {
		t.Fatalf("job should end with a cut")
	}
	if strings.Contains(doc.Text(), "\x1b") {
		t.Fatalf("preview must not contain control codes")
	}
}

func TestSpoolKeepsJobs(t *testing.T) {
	spool := NewSpool()
	if err := spool.Print(context.Background(), []byte("one")); err != nil {
		t.Fatalf("print: %v", err)
	}
	_ = spool.Print(context.Background(), []byte("two"))

	jobs := spool.Jobs()
	if len(jobs) != 2 || string(jobs[1]) != "two" {
		t.Fatalf("unexpected jobs %q", jobs)
	}
}

func TestNewRejectsIncompleteConfig(t *testing.T) {
	if _, err := New("usb", "", "", 0); err == nil {
		t.Fatalf("expected error for usb without path")
	}
	if _, err := New("network", "", "", 0); err == nil {
		t.Fatalf("expected error for network without address")
	}
	if _, err := New("serial", "", "", 0); err == nil {
		t.Fatalf("expected error for unknown type")
	}
	p, err := New("none", "", "", 0)
	if err != nil || p.Name() != "spool" {
		t.Fatalf("expected spool printer, got %v (%v)", p, err)
	}
}
