package pdftext

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/kirillkom/docsorter/internal/core/domain"
)

// writePDF assembles a minimal single-page PDF with an uncompressed content
// stream, computing xref offsets so the file is well formed.
func writePDF(t *testing.T, path, text string) {
	t.Helper()

	var buf bytes.Buffer
	offsets := make([]int, 6)
	buf.WriteString("%PDF-1.4\n")

	writeObj := func(num int, body string) {
		offsets[num] = buf.Len()
		fmt.Fprintf(&buf, "%d 0 obj\n%s\nendobj\n", num, body)
	}

	contents := ""
	if text != "" {
		contents = fmt.Sprintf("BT /F1 12 Tf 72 720 Td (%s) Tj ET", text)
	}
	writeObj(1, "<< /Type /Catalog /Pages 2 0 R >>")
	writeObj(2, "<< /Type /Pages /Kids [3 0 R] /Count 1 >>")
	writeObj(3, "<< /Type /Page /Parent 2 0 R /MediaBox [0 0 612 792] /Contents 4 0 R /Resources << /Font << /F1 5 0 R >> >> >>")
	writeObj(4, fmt.Sprintf("<< /Length %d >>\nstream\n%s\nendstream", len(contents), contents))
	writeObj(5, "<< /Type /Font /Subtype /Type1 /BaseFont /Helvetica >>")

	xrefPos := buf.Len()
	buf.WriteString("xref\n0 6\n")
	buf.WriteString("0000000000 65535 f \n")
	for i := 1; i <= 5; i++ {
		fmt.Fprintf(&buf, "%010d 00000 n \n", offsets[i])
	}
	fmt.Fprintf(&buf, "trailer\n<< /Size 6 /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n", xrefPos)

	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		t.Fatalf("write pdf fixture: %v", err)
	}
}

func TestExtractReadsPageText(t *testing.T) {
	path := filepath.Join(t.TempDir(), "contract.pdf")
	writePDF(t, path, "This employment agreement is made between the parties")

	ext := New(Config{MaxChars: 4000, MaxPages: 10})
	text, err := ext.Extract(context.Background(), path)
	if err != nil {
		t.Fatalf("Extract() error = %v", err)
	}
	if !strings.Contains(text, "employment agreement") {
		t.Fatalf("extracted text missing content: %q", text)
	}
}

func TestExtractNoTextFailsWithoutBackendCall(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scan.pdf")
	writePDF(t, path, "")

	ext := New(Config{MaxChars: 4000, MaxPages: 10})
	_, err := ext.Extract(context.Background(), path)
	if err == nil {
		t.Fatal("expected error for text-free pdf")
	}
	if !domain.IsKind(err, domain.ErrNoExtractableText) {
		t.Fatalf("expected no-extractable-text kind, got %v", err)
	}
	// the source file must be left where it was
	if _, statErr := os.Stat(path); statErr != nil {
		t.Fatalf("source file disturbed: %v", statErr)
	}
}

func TestExtractRejectsNonPDF(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fake.pdf")
	if err := os.WriteFile(path, bytes.Repeat([]byte("not a pdf at all\n"), 20), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	ext := New(Config{})
	_, err := ext.Extract(context.Background(), path)
	if err == nil {
		t.Fatal("expected error for non-pdf input")
	}
	if !domain.IsKind(err, domain.ErrExtraction) {
		t.Fatalf("expected extraction kind, got %v", err)
	}
}

func TestExtractHonorsCharacterBudget(t *testing.T) {
	path := filepath.Join(t.TempDir(), "long.pdf")
	writePDF(t, path, strings.Repeat("lorem ipsum dolor sit amet ", 50))

	ext := New(Config{MaxChars: 100, MaxPages: 10})
	text, err := ext.Extract(context.Background(), path)
	if err != nil {
		t.Fatalf("Extract() error = %v", err)
	}
	if len(text) > 100 {
		t.Fatalf("extracted %d chars, budget is 100", len(text))
	}
}

func TestExtractSizeGate(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "tiny.pdf")
	if err := os.WriteFile(path, []byte("%PDF-"), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	ext := New(Config{MinFileSize: 100})
	_, err := ext.Extract(context.Background(), path)
	if err == nil {
		t.Fatal("expected size-gate error")
	}
	if !domain.IsKind(err, domain.ErrExtraction) {
		t.Fatalf("expected extraction kind, got %v", err)
	}

	big := filepath.Join(dir, "big.pdf")
	writePDF(t, big, "text")
	extMax := New(Config{MaxFileSize: 10})
	if _, err := extMax.Extract(context.Background(), big); err == nil {
		t.Fatal("expected max-size gate error")
	}
}

func TestExtractMissingFile(t *testing.T) {
	ext := New(Config{})
	_, err := ext.Extract(context.Background(), filepath.Join(t.TempDir(), "absent.pdf"))
	if err == nil {
		t.Fatal("expected error for missing file")
	}
	if !domain.IsKind(err, domain.ErrExtraction) {
		t.Fatalf("expected extraction kind, got %v", err)
	}
}
