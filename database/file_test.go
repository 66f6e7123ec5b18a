package database

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestFileBackend(t *testing.T) {
	ctx := context.Background()
	dir := filepath.Join(t.TempDir(), "data")

	f, err := NewFileBackend(dir)
	if err != nil {
		t.Fatalf("NewFileBackend: %v", err)
	}
	if err := f.Ping(ctx); err != nil {
		t.Fatalf("Ping: %v", err)
	}

	var list []record
	if err := f.Read(ctx, "parties", &list); !errors.Is(err, ErrNoDocument) {
		t.Fatalf("expected ErrNoDocument, got %v", err)
	}

	if err := f.Write(ctx, "parties", []record{{Name: "Reform"}}); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if err := f.Read(ctx, "parties", &list); err != nil {
		t.Fatalf("Read: %v", err)
	}
	if len(list) != 1 || list[0].Name != "Reform" {
		t.Errorf("expected [Reform], got %+v", list)
	}

	raw, err := os.ReadFile(filepath.Join(dir, "parties.json"))
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if !strings.Contains(string(raw), "\n  {") {
		t.Errorf("expected indented JSON, got %s", raw)
	}

	entries, _ := os.ReadDir(dir)
	if len(entries) != 1 {
		t.Errorf("expected temp files to be cleaned up, found %d entries", len(entries))
	}

	if err := f.Remove(ctx, "parties"); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if err := f.Remove(ctx, "parties"); err != nil {
		t.Errorf("second Remove should be a no-op, got %v", err)
	}
}

func TestFileBackendNilIsEmptyList(t *testing.T) {
	ctx := context.Background()
	f, err := NewFileBackend(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileBackend: %v", err)
	}

	var none []record
	if err := f.Write(ctx, "votes", none); err != nil {
		t.Fatalf("Write: %v", err)
	}
	raw, _ := os.ReadFile(filepath.Join(f.dir, "votes.json"))
	if string(raw) != "[]" {
		t.Errorf("expected [], got %s", raw)
	}
}

func TestFileBackendCorrupt(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	f, err := NewFileBackend(dir)
	if err != nil {
		t.Fatalf("NewFileBackend: %v", err)
	}

	if err := os.WriteFile(filepath.Join(dir, "users.json"), []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}

	var list []record
	err = f.Read(ctx, "users", &list)
	if !errors.Is(err, ErrCorrupt) {
		t.Errorf("expected ErrCorrupt, got %v", err)
	}
}
