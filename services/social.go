package services

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/Anuj-gif-web/helpunity-backend/models"
	"github.com/Anuj-gif-web/helpunity-backend/store"
)

// SocialGraph maintains the follower/following sets across pairs of
// user documents. The store only guarantees atomicity per document, so
// each mutation is two writes: the actor's side first, then the
// target's. Both writes use set semantics, which makes every call
// idempotent and safe to re-run — re-running after a partial failure
// repairs the half-written state.
type SocialGraph struct {
	store  store.DocumentStore
	logger *zap.Logger
}

func NewSocialGraph(st store.DocumentStore, logger *zap.Logger) *SocialGraph {
	return &SocialGraph{store: st, logger: logger}
}

// Follow records actorID following targetID on both user documents.
// A call that is already fully recorded is a no-op; a call that is
// half-recorded completes the missing side.
func (s *SocialGraph) Follow(ctx context.Context, actorID, targetID string) error {
	actor, target, err := s.loadPair(ctx, actorID, targetID)
	if err != nil {
		return err
	}

	if contains(actor.Following, targetID) && contains(target.Followers, actorID) {
		return nil
	}

	if err := s.store.Update(ctx, CollectionUsers, actorID,
		store.AddToSet("following", targetID)); err != nil {
		return fmt.Errorf("recording following: %w", err)
	}
	return s.writeBack(ctx, targetID, store.AddToSet("followers", actorID), actorID, "follow")
}

// Unfollow removes the relationship from both user documents.
func (s *SocialGraph) Unfollow(ctx context.Context, actorID, targetID string) error {
	actor, target, err := s.loadPair(ctx, actorID, targetID)
	if err != nil {
		return err
	}

	if !contains(actor.Following, targetID) && !contains(target.Followers, actorID) {
		return nil
	}

	if err := s.store.Update(ctx, CollectionUsers, actorID,
		store.Pull("following", targetID)); err != nil {
		return fmt.Errorf("removing following: %w", err)
	}
	return s.writeBack(ctx, targetID, store.Pull("followers", actorID), actorID, "unfollow")
}

// writeBack applies the target-side half of the mutation, retrying
// once. A second failure leaves the graph half-updated and is surfaced
// as ErrReconcileNeeded.
func (s *SocialGraph) writeBack(ctx context.Context, targetID string, update store.FieldUpdate, actorID, op string) error {
	err := s.store.Update(ctx, CollectionUsers, targetID, update)
	if err == nil {
		return nil
	}
	if err = s.store.Update(ctx, CollectionUsers, targetID, update); err == nil {
		return nil
	}
	s.logger.Error("follower-side write failed, graph half-updated",
		zap.String("op", op),
		zap.String("actor", actorID),
		zap.String("target", targetID),
		zap.Error(err))
	return fmt.Errorf("%w: %v", ErrReconcileNeeded, err)
}

// ListFollowers resolves a user's follower ids to profile summaries.
// Ids that no longer resolve to a user are skipped.
func (s *SocialGraph) ListFollowers(ctx context.Context, userID string) ([]models.ProfileSummary, error) {
	user, err := s.loadUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.resolve(ctx, user.Followers)
}

// ListFollowing resolves a user's following ids to profile summaries.
func (s *SocialGraph) ListFollowing(ctx context.Context, userID string) ([]models.ProfileSummary, error) {
	user, err := s.loadUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.resolve(ctx, user.Following)
}

func (s *SocialGraph) loadPair(ctx context.Context, actorID, targetID string) (*models.User, *models.User, error) {
	if actorID == targetID {
		return nil, nil, invalid("targetId", "cannot follow yourself")
	}
	actor, err := s.loadUser(ctx, actorID)
	if err != nil {
		return nil, nil, err
	}
	target, err := s.loadUser(ctx, targetID)
	if err != nil {
		return nil, nil, err
	}
	return actor, target, nil
}

func (s *SocialGraph) loadUser(ctx context.Context, id string) (*models.User, error) {
	var user models.User
	if err := s.store.Get(ctx, CollectionUsers, id, &user); err != nil {
		return nil, err
	}
	user.Normalize()
	return &user, nil
}

func (s *SocialGraph) resolve(ctx context.Context, ids []string) ([]models.ProfileSummary, error) {
	if len(ids) == 0 {
		return []models.ProfileSummary{}, nil
	}
	var users []models.User
	if err := s.store.QueryIn(ctx, CollectionUsers, "_id", ids, &users); err != nil {
		return nil, err
	}
	byID := make(map[string]*models.User, len(users))
	for i := range users {
		byID[users[i].ID] = &users[i]
	}
	// keep the order of the stored id set
	summaries := make([]models.ProfileSummary, 0, len(ids))
	for _, id := range ids {
		if u, ok := byID[id]; ok {
			summaries = append(summaries, u.Summary())
		}
	}
	return summaries, nil
}

func contains(ids []string, id string) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}
