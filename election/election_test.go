package election

import (
	"context"
	"errors"
	"testing"

	"github.com/Alen-Aazim/noble-voting/database"
)

var errBoom = errors.New("boom")

// failingBackend refuses writes to one collection.
type failingBackend struct {
	*database.MemoryBackend
	failOn string
}

func (f *failingBackend) Write(ctx context.Context, name string, records interface{}) error {
	if name == f.failOn {
		return errBoom
	}
	return f.MemoryBackend.Write(ctx, name, records)
}

func newTestStore() *database.Store {
	return database.NewStore(database.NewMemoryBackend())
}

// seed builds a catalog of Reform{Alice, Carol} and Green{Dave} and opens
// voting.
func seed(t *testing.T, store *database.Store) {
	t.Helper()
	ctx := context.Background()
	catalog := NewCatalog(store)

	for _, p := range []string{"Reform", "Green"} {
		if err := catalog.AddParty(ctx, p); err != nil {
			t.Fatalf("AddParty(%s): %v", p, err)
		}
	}
	for _, c := range []Candidate{{"Alice", "Reform"}, {"Carol", "Reform"}, {"Dave", "Green"}} {
		if err := catalog.AddCandidate(ctx, c.Name, c.Party); err != nil {
			t.Fatalf("AddCandidate(%s): %v", c.Name, err)
		}
	}
	if err := NewGate(store).Set(ctx, true); err != nil {
		t.Fatalf("Set: %v", err)
	}
}
