package election

import (
	"context"
	"reflect"
	"testing"
)

func ptr(s string) *string { return &s }

func TestComputeScenario(t *testing.T) {
	ctx := context.Background()
	store := newTestStore()
	catalog := NewCatalog(store)
	if err := catalog.AddParty(ctx, "Reform"); err != nil {
		t.Fatal(err)
	}
	if err := catalog.AddCandidate(ctx, "Alice", "Reform"); err != nil {
		t.Fatal(err)
	}
	if err := NewGate(store).Set(ctx, true); err != nil {
		t.Fatal(err)
	}
	if err := NewBallot(store).Cast(ctx, "bob", "Alice"); err != nil {
		t.Fatalf("Cast: %v", err)
	}

	tally := NewTally(store)
	got, err := tally.Compute(ctx)
	if err != nil {
		t.Fatalf("Compute: %v", err)
	}
	want := Results{
		TotalVoters:    1,
		CandidateVotes: map[string]int{"Alice": 1},
		PartyVotes:     map[string]int{"Reform": 1},
		Winner:         ptr("Alice"),
		PartyWinner:    ptr("Reform"),
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("expected %+v, got %+v", want, got)
	}

	again, err := tally.Compute(ctx)
	if err != nil {
		t.Fatalf("Compute: %v", err)
	}
	if !reflect.DeepEqual(got, again) {
		t.Errorf("Compute is not idempotent: %+v then %+v", got, again)
	}
}

func TestCount(t *testing.T) {
	tests := []struct {
		name        string
		votes       []Vote
		total       int
		winner      *string
		partyWinner *string
	}{
		{
			name: "no votes",
		},
		{
			name: "clear winner",
			votes: []Vote{
				{"a", "Alice", "Reform"},
				{"b", "Dave", "Green"},
				{"c", "Alice", "Reform"},
			},
			total:       3,
			winner:      ptr("Alice"),
			partyWinner: ptr("Reform"),
		},
		{
			name: "tie goes to the earliest first vote",
			votes: []Vote{
				{"a", "Dave", "Green"},
				{"b", "Alice", "Reform"},
				{"c", "Alice", "Reform"},
				{"d", "Dave", "Green"},
			},
			total:       4,
			winner:      ptr("Dave"),
			partyWinner: ptr("Green"),
		},
		{
			name: "party winner differs from candidate winner",
			votes: []Vote{
				{"a", "Alice", "Reform"},
				{"b", "Alice", "Reform"},
				{"c", "Dave", "Green"},
				{"d", "Erin", "Green"},
				{"e", "Frank", "Green"},
			},
			total:       5,
			winner:      ptr("Alice"),
			partyWinner: ptr("Green"),
		},
		{
			name: "later leader overtakes",
			votes: []Vote{
				{"a", "Alice", "Reform"},
				{"b", "Dave", "Green"},
				{"c", "Dave", "Green"},
			},
			total:       3,
			winner:      ptr("Dave"),
			partyWinner: ptr("Green"),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := Count(tt.votes)
			if r.TotalVoters != tt.total {
				t.Errorf("expected %d voters, got %d", tt.total, r.TotalVoters)
			}
			if !reflect.DeepEqual(r.Winner, tt.winner) {
				t.Errorf("winner: expected %v, got %v", deref(tt.winner), deref(r.Winner))
			}
			if !reflect.DeepEqual(r.PartyWinner, tt.partyWinner) {
				t.Errorf("party winner: expected %v, got %v", deref(tt.partyWinner), deref(r.PartyWinner))
			}

			var sum int
			for _, n := range r.CandidateVotes {
				sum += n
			}
			if sum != tt.total {
				t.Errorf("candidate counts sum to %d, want %d", sum, tt.total)
			}
		})
	}
}

func TestCountNoVotesHasEmptyMaps(t *testing.T) {
	r := Count(nil)
	if r.CandidateVotes == nil || r.PartyVotes == nil {
		t.Errorf("count maps must be empty, not nil: %+v", r)
	}
}

func deref(s *string) string {
	if s == nil {
		return "<nil>"
	}
	return *s
}
