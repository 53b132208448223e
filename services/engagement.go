package services

import (
	"context"

	"go.uber.org/zap"

	"github.com/Anuj-gif-web/helpunity-backend/store"
)

// EntityType selects which likeable collection a toggle targets.
type EntityType string

const (
	EntityEvent         EntityType = "event"
	EntityFundraisePost EntityType = "fundraisePost"
)

// Engagement toggles per-user like flags and keeps the aggregate
// counter on the same document in step. The flag and the counter live
// at disjoint field paths, so two users toggling concurrently cannot
// clobber each other's flag.
type Engagement struct {
	store  store.DocumentStore
	logger *zap.Logger
}

func NewEngagement(st store.DocumentStore, logger *zap.Logger) *Engagement {
	return &Engagement{store: st, logger: logger}
}

// likeState is the slice of an event or fundraise post document that
// the toggle reads.
type likeState struct {
	Likes   int             `bson:"likes"`
	LikedBy map[string]bool `bson:"likedBy"`
}

// ToggleLike flips userID's like flag on the entity and adjusts the
// counter by ±1 in the same atomic update. Returns the resulting flag
// and count.
func (e *Engagement) ToggleLike(ctx context.Context, entity EntityType, entityID, userID string) (bool, int, error) {
	collection, err := collectionFor(entity)
	if err != nil {
		return false, 0, err
	}

	var state likeState
	if err := e.store.Get(ctx, collection, entityID, &state); err != nil {
		return false, 0, err
	}
	if state.LikedBy == nil {
		state.LikedBy = map[string]bool{}
	}

	liked := !state.LikedBy[userID]
	updates := []store.FieldUpdate{store.SetField("likedBy."+userID, liked)}

	var count int
	if !liked && state.Likes <= 0 {
		// The counter already drifted below the flag count; rebuild it
		// from the flags map instead of decrementing further.
		state.LikedBy[userID] = false
		count = countLikes(state.LikedBy)
		updates = append(updates, store.SetField("likes", count))
		e.logger.Warn("like counter drifted, recounted from flags",
			zap.String("collection", collection),
			zap.String("id", entityID),
			zap.Int("recounted", count))
	} else {
		delta := int64(1)
		if !liked {
			delta = -1
		}
		count = state.Likes + int(delta)
		updates = append(updates, store.IncField("likes", delta))
	}

	if err := e.store.Update(ctx, collection, entityID, updates...); err != nil {
		return false, 0, err
	}
	return liked, count, nil
}

func collectionFor(entity EntityType) (string, error) {
	switch entity {
	case EntityEvent:
		return CollectionEvents, nil
	case EntityFundraisePost:
		return CollectionFundraisePosts, nil
	default:
		return "", invalid("entityType", "must be event or fundraisePost")
	}
}

func countLikes(likedBy map[string]bool) int {
	n := 0
	for _, liked := range likedBy {
		if liked {
			n++
		}
	}
	return n
}
