package localfs

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/kirillkom/docsorter/internal/core/domain"
)

func writeSource(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write source file: %v", err)
	}
	return path
}

func TestPlaceMovesIntoCategoryTree(t *testing.T) {
	inputDir := t.TempDir()
	outputRoot := t.TempDir()
	source := writeSource(t, inputDir, "contract.pdf", "pdf-bytes")

	org, err := New(outputRoot)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	finalPath, err := org.Place(context.Background(), source, "Work-Related", "Employment Contracts")
	if err != nil {
		t.Fatalf("Place() error = %v", err)
	}

	want := filepath.Join(outputRoot, "Work-Related", "Employment Contracts", "contract.pdf")
	if finalPath != want {
		t.Fatalf("final path = %q, want %q", finalPath, want)
	}
	data, err := os.ReadFile(finalPath)
	if err != nil {
		t.Fatalf("read destination: %v", err)
	}
	if string(data) != "pdf-bytes" {
		t.Fatalf("destination content = %q", data)
	}
	if _, err := os.Stat(source); !os.IsNotExist(err) {
		t.Fatal("source file must be gone after a successful move")
	}
}

func TestPlaceResolvesNameCollisions(t *testing.T) {
	inputDir := t.TempDir()
	outputRoot := t.TempDir()
	first := writeSource(t, inputDir, "statement.pdf", "first")
	second := writeSource(t, mkdir(t, inputDir, "b"), "statement.pdf", "second")

	org, err := New(outputRoot)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	ctx := context.Background()
	firstPath, err := org.Place(ctx, first, "Personal Finance", "Bank Statements")
	if err != nil {
		t.Fatalf("first Place() error = %v", err)
	}
	secondPath, err := org.Place(ctx, second, "Personal Finance", "Bank Statements")
	if err != nil {
		t.Fatalf("second Place() error = %v", err)
	}

	if firstPath == secondPath {
		t.Fatalf("collision not resolved, both at %q", firstPath)
	}
	if filepath.Base(secondPath) != "statement_1.pdf" {
		t.Fatalf("expected numeric suffix, got %q", filepath.Base(secondPath))
	}
	if got, _ := os.ReadFile(firstPath); string(got) != "first" {
		t.Fatalf("first file overwritten: %q", got)
	}
	if got, _ := os.ReadFile(secondPath); string(got) != "second" {
		t.Fatalf("second file content = %q", got)
	}
}

func mkdir(t *testing.T, parent, name string) string {
	t.Helper()
	path := filepath.Join(parent, name)
	if err := os.MkdirAll(path, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	return path
}

func TestPlaceSanitizesSlashInCategoryName(t *testing.T) {
	inputDir := t.TempDir()
	outputRoot := t.TempDir()
	source := writeSource(t, inputDir, "notes.pdf", "x")

	org, err := New(outputRoot)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	finalPath, err := org.Place(context.Background(), source, "College/Academics", "Lecture Notes")
	if err != nil {
		t.Fatalf("Place() error = %v", err)
	}
	want := filepath.Join(outputRoot, "College-Academics", "Lecture Notes", "notes.pdf")
	if finalPath != want {
		t.Fatalf("final path = %q, want %q", finalPath, want)
	}
}

func TestPlaceMissingSourceLeavesNoDestination(t *testing.T) {
	outputRoot := t.TempDir()
	org, err := New(outputRoot)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	_, err = org.Place(context.Background(), filepath.Join(t.TempDir(), "ghost.pdf"), "Travel", "Visas")
	if err == nil {
		t.Fatal("expected move error for missing source")
	}
	if !domain.IsKind(err, domain.ErrMove) {
		t.Fatalf("expected move error kind, got %v", err)
	}
	if _, statErr := os.Stat(filepath.Join(outputRoot, "Travel", "Visas", "ghost.pdf")); !os.IsNotExist(statErr) {
		t.Fatal("failed move must not leave a destination file")
	}
}

func TestPlaceIsIdempotentOnDirectoryCreation(t *testing.T) {
	inputDir := t.TempDir()
	outputRoot := t.TempDir()

	org, err := New(outputRoot)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	ctx := context.Background()
	for i := 0; i < 3; i++ {
		source := writeSource(t, inputDir, "doc.pdf", "x")
		if _, err := org.Place(ctx, source, "Healthcare", "Lab Results"); err != nil {
			t.Fatalf("Place() round %d error = %v", i, err)
		}
	}

	entries, err := os.ReadDir(filepath.Join(outputRoot, "Healthcare", "Lab Results"))
	if err != nil {
		t.Fatalf("read destination dir: %v", err)
	}
	if len(entries) != 3 {
		t.Fatalf("expected 3 distinct files, got %d", len(entries))
	}
}
