package store

import (
	"context"
	"errors"
	"testing"
)

type account struct {
	ID      string          `bson:"_id"`
	Name    string          `bson:"name"`
	Tags    []string        `bson:"tags"`
	Counts  map[string]bool `bson:"counts"`
	Balance int             `bson:"balance"`
}

func TestMemoryInsertGetRoundtrip(t *testing.T) {
	s := NewMemory()
	ctx := context.Background()

	in := account{ID: "a1", Name: "alice", Tags: []string{"x"}, Balance: 7}
	if err := s.Insert(ctx, "accounts", in); err != nil {
		t.Fatalf("insert: %v", err)
	}

	var out account
	if err := s.Get(ctx, "accounts", "a1", &out); err != nil {
		t.Fatalf("get: %v", err)
	}
	if out.Name != "alice" || out.Balance != 7 || len(out.Tags) != 1 || out.Tags[0] != "x" {
		t.Fatalf("roundtrip mismatch: %+v", out)
	}
}

func TestMemoryDuplicateInsert(t *testing.T) {
	s := NewMemory()
	ctx := context.Background()

	if err := s.Insert(ctx, "accounts", account{ID: "a1"}); err != nil {
		t.Fatalf("insert: %v", err)
	}
	if err := s.Insert(ctx, "accounts", account{ID: "a1"}); err == nil {
		t.Fatal("expected duplicate insert to fail")
	}
}

func TestMemoryGetMissing(t *testing.T) {
	s := NewMemory()
	var out account
	if err := s.Get(context.Background(), "accounts", "nope", &out); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestMemoryUpdateDottedPath(t *testing.T) {
	s := NewMemory()
	ctx := context.Background()

	// the nil Counts map is stored as null; the dotted write must
	// still create the sub-document under it
	if err := s.Insert(ctx, "accounts", account{ID: "a1"}); err != nil {
		t.Fatalf("insert: %v", err)
	}
	if err := s.Update(ctx, "accounts", "a1", SetField("counts.u1", true)); err != nil {
		t.Fatalf("update: %v", err)
	}

	var out account
	if err := s.Get(ctx, "accounts", "a1", &out); err != nil {
		t.Fatalf("get: %v", err)
	}
	if !out.Counts["u1"] {
		t.Fatalf("expected counts.u1 set, got %+v", out.Counts)
	}

	// a second dotted write reuses the created sub-document
	if err := s.Update(ctx, "accounts", "a1", SetField("counts.u2", true)); err != nil {
		t.Fatalf("second update: %v", err)
	}
	if err := s.Get(ctx, "accounts", "a1", &out); err != nil {
		t.Fatalf("get: %v", err)
	}
	if !out.Counts["u1"] || !out.Counts["u2"] {
		t.Fatalf("expected both flags set, got %+v", out.Counts)
	}
}

func TestMemoryUnsetThroughMissingPath(t *testing.T) {
	s := NewMemory()
	ctx := context.Background()

	if err := s.Insert(ctx, "accounts", account{ID: "a1"}); err != nil {
		t.Fatalf("insert: %v", err)
	}
	// unsetting under a null intermediate is a no-op, not an error
	if err := s.Update(ctx, "accounts", "a1", UnsetField("counts.u1")); err != nil {
		t.Fatalf("unset: %v", err)
	}
}

func TestMemoryUpdateInc(t *testing.T) {
	s := NewMemory()
	ctx := context.Background()

	if err := s.Insert(ctx, "accounts", account{ID: "a1", Balance: 3}); err != nil {
		t.Fatalf("insert: %v", err)
	}
	if err := s.Update(ctx, "accounts", "a1", IncField("balance", 2)); err != nil {
		t.Fatalf("inc: %v", err)
	}
	if err := s.Update(ctx, "accounts", "a1", IncField("balance", -1)); err != nil {
		t.Fatalf("dec: %v", err)
	}

	var out account
	if err := s.Get(ctx, "accounts", "a1", &out); err != nil {
		t.Fatalf("get: %v", err)
	}
	if out.Balance != 4 {
		t.Fatalf("expected balance 4, got %d", out.Balance)
	}
}

func TestMemoryAddToSetIdempotent(t *testing.T) {
	s := NewMemory()
	ctx := context.Background()

	if err := s.Insert(ctx, "accounts", account{ID: "a1"}); err != nil {
		t.Fatalf("insert: %v", err)
	}
	for i := 0; i < 3; i++ {
		if err := s.Update(ctx, "accounts", "a1", AddToSet("tags", "go")); err != nil {
			t.Fatalf("addToSet: %v", err)
		}
	}

	var out account
	if err := s.Get(ctx, "accounts", "a1", &out); err != nil {
		t.Fatalf("get: %v", err)
	}
	if len(out.Tags) != 1 || out.Tags[0] != "go" {
		t.Fatalf("expected single element, got %v", out.Tags)
	}
}

func TestMemoryPullAndPush(t *testing.T) {
	s := NewMemory()
	ctx := context.Background()

	if err := s.Insert(ctx, "accounts", account{ID: "a1", Tags: []string{"a", "b", "a"}}); err != nil {
		t.Fatalf("insert: %v", err)
	}
	if err := s.Update(ctx, "accounts", "a1", Pull("tags", "a")); err != nil {
		t.Fatalf("pull: %v", err)
	}
	if err := s.Update(ctx, "accounts", "a1", Push("tags", "c"), Push("tags", "c")); err != nil {
		t.Fatalf("push: %v", err)
	}

	var out account
	if err := s.Get(ctx, "accounts", "a1", &out); err != nil {
		t.Fatalf("get: %v", err)
	}
	want := []string{"b", "c", "c"}
	if len(out.Tags) != len(want) {
		t.Fatalf("expected %v, got %v", want, out.Tags)
	}
	for i := range want {
		if out.Tags[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, out.Tags)
		}
	}
}

func TestMemoryUpdateMissingDoc(t *testing.T) {
	s := NewMemory()
	if err := s.Update(context.Background(), "accounts", "nope", SetField("name", "x")); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestMemoryQueryAndQueryIn(t *testing.T) {
	s := NewMemory()
	ctx := context.Background()

	for _, a := range []account{
		{ID: "a1", Name: "alice"},
		{ID: "a2", Name: "bob"},
		{ID: "a3", Name: "alice"},
	} {
		if err := s.Insert(ctx, "accounts", a); err != nil {
			t.Fatalf("insert: %v", err)
		}
	}

	var byName []account
	if err := s.Query(ctx, "accounts", "name", "alice", &byName); err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(byName) != 2 {
		t.Fatalf("expected 2 matches, got %d", len(byName))
	}

	var byID []account
	if err := s.QueryIn(ctx, "accounts", "_id", []string{"a2", "a3", "missing"}, &byID); err != nil {
		t.Fatalf("queryIn: %v", err)
	}
	if len(byID) != 2 {
		t.Fatalf("expected 2 matches, got %d", len(byID))
	}
}

func TestMemoryFind(t *testing.T) {
	s := NewMemory()
	ctx := context.Background()

	for _, a := range []account{
		{ID: "a1", Name: "Beach Cleanup", Tags: []string{"environment", "community"}},
		{ID: "a2", Name: "Tree Planting", Tags: []string{"environment"}},
		{ID: "a3", Name: "Food Drive", Tags: []string{"community"}},
	} {
		if err := s.Insert(ctx, "accounts", a); err != nil {
			t.Fatalf("insert: %v", err)
		}
	}

	// array field: equality matches containment, as in Mongo
	var byTag []account
	if err := s.Find(ctx, "accounts", Filter{Equals: map[string]interface{}{"tags": "environment"}}, &byTag); err != nil {
		t.Fatalf("find by tag: %v", err)
	}
	if len(byTag) != 2 {
		t.Fatalf("by tag = %d matches, want 2", len(byTag))
	}

	// regex is case-insensitive substring match
	var byName []account
	if err := s.Find(ctx, "accounts", Filter{Regex: map[string]string{"name": "tree"}}, &byName); err != nil {
		t.Fatalf("find by name: %v", err)
	}
	if len(byName) != 1 || byName[0].ID != "a2" {
		t.Fatalf("by name = %+v, want only a2", byName)
	}

	// conditions are conjunctive
	var both []account
	filter := Filter{
		Equals: map[string]interface{}{"tags": "community"},
		Regex:  map[string]string{"name": "beach"},
	}
	if err := s.Find(ctx, "accounts", filter, &both); err != nil {
		t.Fatalf("find both: %v", err)
	}
	if len(both) != 1 || both[0].ID != "a1" {
		t.Fatalf("both = %+v, want only a1", both)
	}

	// empty filter lists everything
	var all []account
	if err := s.Find(ctx, "accounts", Filter{}, &all); err != nil {
		t.Fatalf("find all: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("all = %d matches, want 3", len(all))
	}
}

func TestMemoryReplace(t *testing.T) {
	s := NewMemory()
	ctx := context.Background()

	if err := s.Insert(ctx, "accounts", account{ID: "a1", Name: "old", Balance: 1}); err != nil {
		t.Fatalf("insert: %v", err)
	}
	if err := s.Replace(ctx, "accounts", "a1", account{ID: "a1", Name: "new"}); err != nil {
		t.Fatalf("replace: %v", err)
	}

	var out account
	if err := s.Get(ctx, "accounts", "a1", &out); err != nil {
		t.Fatalf("get: %v", err)
	}
	if out.Name != "new" || out.Balance != 0 {
		t.Fatalf("expected replaced doc, got %+v", out)
	}
}
