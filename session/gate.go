// Package session tracks each signed-in user's place in the
// login flow: unauthenticated, awaiting email verification, awaiting
// profile setup, or fully active. The gate re-evaluates the whole
// state machine on every pushed auth change and mirrors verified
// sessions into a persistent cache.
package session

import (
	"context"
	"sync"

	"go.uber.org/zap"
)

type State string

const (
	StateUnauthenticated State = "unauthenticated"
	StateUnverified      State = "unverified"
	StateOnboarding      State = "onboarding"
	StateActive          State = "active"
)

// AuthChange is one pushed auth-state notification.
type AuthChange struct {
	UserID        string
	Email         string
	SignedIn      bool
	EmailVerified bool
}

// ProfileChecker reports whether a user finished onboarding.
type ProfileChecker interface {
	HasProfile(ctx context.Context, userID string) (bool, error)
}

// Cache is the persistent verified-session mirror.
type Cache interface {
	Put(userID string) error
	Delete(userID string) error
	Has(userID string) bool
}

type Gate struct {
	profiles ProfileChecker
	cache    Cache
	logger   *zap.Logger

	mu      sync.Mutex
	states  map[string]State
	subs    map[int]func(userID string, state State)
	nextSub int
}

func NewGate(profiles ProfileChecker, cache Cache, logger *zap.Logger) *Gate {
	return &Gate{
		profiles: profiles,
		cache:    cache,
		logger:   logger,
		states:   map[string]State{},
		subs:     map[int]func(string, State){},
	}
}

// Evaluate runs the full state machine for the change and returns the
// resulting state. Verified sessions are recorded in the cache;
// anything else clears the cached entry.
func (g *Gate) Evaluate(ctx context.Context, change AuthChange) (State, error) {
	var next State
	switch {
	case !change.SignedIn:
		next = StateUnauthenticated
	case !change.EmailVerified:
		next = StateUnverified
	default:
		has, err := g.profiles.HasProfile(ctx, change.UserID)
		if err != nil {
			return g.StateOf(change.UserID), err
		}
		if has {
			next = StateActive
		} else {
			next = StateOnboarding
		}
	}

	if next == StateOnboarding || next == StateActive {
		if err := g.cache.Put(change.UserID); err != nil {
			g.logger.Warn("session cache write failed",
				zap.String("user", change.UserID), zap.Error(err))
		}
	} else if change.UserID != "" {
		if err := g.cache.Delete(change.UserID); err != nil {
			g.logger.Warn("session cache delete failed",
				zap.String("user", change.UserID), zap.Error(err))
		}
	}

	g.transition(change.UserID, next)
	return next, nil
}

// SignOut clears the user's session and cached entry.
func (g *Gate) SignOut(userID string) {
	if err := g.cache.Delete(userID); err != nil {
		g.logger.Warn("session cache delete failed",
			zap.String("user", userID), zap.Error(err))
	}
	g.transition(userID, StateUnauthenticated)
}

// StateOf returns the last evaluated state for the user.
func (g *Gate) StateOf(userID string) State {
	g.mu.Lock()
	defer g.mu.Unlock()
	if s, ok := g.states[userID]; ok {
		return s
	}
	return StateUnauthenticated
}

// Subscribe registers a callback invoked on every state transition.
// The returned function unsubscribes.
func (g *Gate) Subscribe(fn func(userID string, state State)) func() {
	g.mu.Lock()
	id := g.nextSub
	g.nextSub++
	g.subs[id] = fn
	g.mu.Unlock()
	return func() {
		g.mu.Lock()
		delete(g.subs, id)
		g.mu.Unlock()
	}
}

func (g *Gate) transition(userID string, next State) {
	g.mu.Lock()
	prev, ok := g.states[userID]
	if next == StateUnauthenticated {
		delete(g.states, userID)
	} else {
		g.states[userID] = next
	}
	var notify []func(string, State)
	if !ok && next != StateUnauthenticated || ok && prev != next {
		for _, fn := range g.subs {
			notify = append(notify, fn)
		}
	}
	g.mu.Unlock()

	for _, fn := range notify {
		fn(userID, next)
	}
}
