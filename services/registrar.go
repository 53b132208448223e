package services

import (
	"context"

	"go.uber.org/zap"

	"github.com/Anuj-gif-web/helpunity-backend/models"
	"github.com/Anuj-gif-web/helpunity-backend/store"
)

// Registrar handles event signups and organizer hour logging. A signup
// flips the participant flag on the event and seeds a zero-hour
// history entry on the user; the organizer later appends real hour
// entries.
type Registrar struct {
	store  store.DocumentStore
	logger *zap.Logger
}

func NewRegistrar(st store.DocumentStore, logger *zap.Logger) *Registrar {
	return &Registrar{store: st, logger: logger}
}

// SignUp registers userID as a participant of eventID. Duplicate
// signups fail with ErrAlreadyRegistered before any write.
func (r *Registrar) SignUp(ctx context.Context, eventID, userID string) error {
	var event models.Event
	if err := r.store.Get(ctx, CollectionEvents, eventID, &event); err != nil {
		return err
	}
	event.Normalize()
	if event.Participants[userID] {
		return ErrAlreadyRegistered
	}

	var user models.User
	if err := r.store.Get(ctx, CollectionUsers, userID, &user); err != nil {
		return err
	}

	if err := r.store.Update(ctx, CollectionEvents, eventID,
		store.SetField("participants."+userID, true)); err != nil {
		return err
	}

	// Seed the hours-tracking entry. AddToSet keeps a re-run of the
	// signup path from duplicating it.
	entry := models.HistoryEntry{EventID: eventID, Hours: 0}
	if err := r.store.Update(ctx, CollectionUsers, userID,
		store.AddToSet("history", entry)); err != nil {
		r.logger.Error("signup recorded but history entry failed",
			zap.String("event", eventID),
			zap.String("user", userID),
			zap.Error(err))
		return err
	}
	return nil
}

// LogHours appends a {eventId, hours} entry to the participant's
// history. Only the event's organizer may call it, and only for users
// who actually signed up. Entries accumulate; repeated calls add
// further entries rather than replacing earlier ones.
func (r *Registrar) LogHours(ctx context.Context, eventID, organizerID, participantID string, hours int) error {
	if hours <= 0 {
		return invalid("hours", "must be a positive integer")
	}

	var event models.Event
	if err := r.store.Get(ctx, CollectionEvents, eventID, &event); err != nil {
		return err
	}
	event.Normalize()
	if event.Organizer != organizerID {
		return ErrForbidden
	}
	if !event.Participants[participantID] {
		return invalid("userId", "user is not a participant of this event")
	}

	entry := models.HistoryEntry{EventID: eventID, Hours: hours}
	return r.store.Update(ctx, CollectionUsers, participantID,
		store.Push("history", entry))
}

// History returns a user's hour-log entries and their sum.
func (r *Registrar) History(ctx context.Context, userID string) ([]models.HistoryEntry, int, error) {
	var user models.User
	if err := r.store.Get(ctx, CollectionUsers, userID, &user); err != nil {
		return nil, 0, err
	}
	user.Normalize()
	total := 0
	for _, entry := range user.History {
		total += entry.Hours
	}
	return user.History, total, nil
}
