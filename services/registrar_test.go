package services

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"

	"github.com/Anuj-gif-web/helpunity-backend/models"
	"github.com/Anuj-gif-web/helpunity-backend/store"
)

func newRegistrarFixture(t *testing.T) (*Registrar, *store.Memory) {
	t.Helper()
	st := store.NewMemory()
	seedUser(t, st, "org1", "Helping Hands")
	seedUser(t, st, "vol1", "Alice")
	seedEvent(t, st, models.Event{ID: "e1", Title: "Beach cleanup", Organizer: "org1"})
	return NewRegistrar(st, zap.NewNop()), st
}

func TestSignUpRecordsParticipantAndSeedsHistory(t *testing.T) {
	reg, st := newRegistrarFixture(t)
	ctx := context.Background()

	if err := reg.SignUp(ctx, "e1", "vol1"); err != nil {
		t.Fatalf("signup: %v", err)
	}

	ev := getEvent(t, st, "e1")
	if !ev.Participants["vol1"] {
		t.Fatalf("participants = %v", ev.Participants)
	}

	user := getUser(t, st, "vol1")
	if len(user.History) != 1 {
		t.Fatalf("history = %v, want one seeded entry", user.History)
	}
	if got := user.History[0]; got.EventID != "e1" || got.Hours != 0 {
		t.Fatalf("seeded entry = %+v, want {e1 0}", got)
	}
}

func TestSignUpDuplicate(t *testing.T) {
	reg, st := newRegistrarFixture(t)
	ctx := context.Background()

	if err := reg.SignUp(ctx, "e1", "vol1"); err != nil {
		t.Fatalf("first signup: %v", err)
	}
	if err := reg.SignUp(ctx, "e1", "vol1"); !errors.Is(err, ErrAlreadyRegistered) {
		t.Fatalf("expected ErrAlreadyRegistered, got %v", err)
	}

	// the duplicate attempt must not change anything
	if got := getUser(t, st, "vol1").History; len(got) != 1 {
		t.Fatalf("history = %v, want one entry", got)
	}
	if got := getEvent(t, st, "e1").Participants; len(got) != 1 {
		t.Fatalf("participants = %v, want one entry", got)
	}
}

func TestSignUpMissingEventOrUser(t *testing.T) {
	reg, _ := newRegistrarFixture(t)
	ctx := context.Background()

	if err := reg.SignUp(ctx, "ghost", "vol1"); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for event, got %v", err)
	}
	if err := reg.SignUp(ctx, "e1", "ghost"); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for user, got %v", err)
	}
}

func TestLogHoursAppendsEntry(t *testing.T) {
	reg, st := newRegistrarFixture(t)
	ctx := context.Background()

	if err := reg.SignUp(ctx, "e1", "vol1"); err != nil {
		t.Fatalf("signup: %v", err)
	}
	if err := reg.LogHours(ctx, "e1", "org1", "vol1", 3); err != nil {
		t.Fatalf("log hours: %v", err)
	}

	user := getUser(t, st, "vol1")
	if len(user.History) != 2 {
		t.Fatalf("history = %v, want seeded entry plus logged entry", user.History)
	}
	if got := user.History[1]; got.EventID != "e1" || got.Hours != 3 {
		t.Fatalf("logged entry = %+v, want {e1 3}", got)
	}
}

func TestLogHoursAccumulates(t *testing.T) {
	reg, _ := newRegistrarFixture(t)
	ctx := context.Background()

	if err := reg.SignUp(ctx, "e1", "vol1"); err != nil {
		t.Fatalf("signup: %v", err)
	}
	if err := reg.LogHours(ctx, "e1", "org1", "vol1", 3); err != nil {
		t.Fatalf("log hours: %v", err)
	}
	if err := reg.LogHours(ctx, "e1", "org1", "vol1", 2); err != nil {
		t.Fatalf("log hours again: %v", err)
	}

	entries, total, err := reg.History(ctx, "vol1")
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	if len(entries) != 3 {
		t.Fatalf("entries = %v, want 3", entries)
	}
	if total != 5 {
		t.Fatalf("total = %d, want 5", total)
	}
}

func TestLogHoursOrganizerOnly(t *testing.T) {
	reg, _ := newRegistrarFixture(t)
	ctx := context.Background()

	if err := reg.SignUp(ctx, "e1", "vol1"); err != nil {
		t.Fatalf("signup: %v", err)
	}
	if err := reg.LogHours(ctx, "e1", "vol1", "vol1", 3); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
}

func TestLogHoursRequiresParticipant(t *testing.T) {
	reg, _ := newRegistrarFixture(t)

	err := reg.LogHours(context.Background(), "e1", "org1", "vol1", 3)
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
}

func TestLogHoursRejectsNonPositive(t *testing.T) {
	reg, _ := newRegistrarFixture(t)

	for _, hours := range []int{0, -2} {
		err := reg.LogHours(context.Background(), "e1", "org1", "vol1", hours)
		var verr *ValidationError
		if !errors.As(err, &verr) {
			t.Fatalf("hours=%d: expected ValidationError, got %v", hours, err)
		}
	}
}

func TestHistoryEmpty(t *testing.T) {
	reg, _ := newRegistrarFixture(t)

	entries, total, err := reg.History(context.Background(), "vol1")
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	if len(entries) != 0 || total != 0 {
		t.Fatalf("history = (%v, %d), want empty", entries, total)
	}
}
