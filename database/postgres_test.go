package database

import (
	"context"
	"errors"
	"os"
	"testing"
)

// TestPostgresBackend needs a disposable database in VOTE_TEST_DATABASE_URL.
func TestPostgresBackend(t *testing.T) {
	url := os.Getenv("VOTE_TEST_DATABASE_URL")
	if url == "" {
		t.Skip("VOTE_TEST_DATABASE_URL not set")
	}

	ctx := context.Background()
	p, err := OpenPostgres(ctx, url)
	if err != nil {
		t.Fatalf("OpenPostgres: %v", err)
	}
	defer p.Close(ctx)

	if _, err := p.db.ExecContext(ctx, `DELETE FROM collections`); err != nil {
		t.Fatalf("clean: %v", err)
	}

	var list []record
	if err := p.Read(ctx, "votes", &list); !errors.Is(err, ErrNoDocument) {
		t.Fatalf("expected ErrNoDocument, got %v", err)
	}

	store := NewStore(p)
	err = store.Update(ctx, func(tx *Tx) error {
		tx.Put("votes", []record{{Name: "bob"}})
		tx.Put("session", []record{})
		return nil
	})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}

	if err := p.Read(ctx, "votes", &list); err != nil {
		t.Fatalf("Read: %v", err)
	}
	if len(list) != 1 || list[0].Name != "bob" {
		t.Errorf("unexpected votes %+v", list)
	}

	if err := p.Remove(ctx, "votes"); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if err := p.Read(ctx, "votes", &list); !errors.Is(err, ErrNoDocument) {
		t.Errorf("expected ErrNoDocument after Remove, got %v", err)
	}
}
