package session

import (
	"context"
	"errors"

	"github.com/Anuj-gif-web/helpunity-backend/models"
	"github.com/Anuj-gif-web/helpunity-backend/services"
	"github.com/Anuj-gif-web/helpunity-backend/store"
)

// StoreProfiles checks onboarding completion against the document
// store. A missing user document counts as no profile.
type StoreProfiles struct {
	Store store.DocumentStore
}

func (p StoreProfiles) HasProfile(ctx context.Context, userID string) (bool, error) {
	var user models.User
	err := p.Store.Get(ctx, services.CollectionUsers, userID, &user)
	if errors.Is(err, store.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return user.HasProfile(), nil
}
