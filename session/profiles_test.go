package session

import (
	"context"
	"testing"
	"time"

	"github.com/Anuj-gif-web/helpunity-backend/models"
	"github.com/Anuj-gif-web/helpunity-backend/services"
	"github.com/Anuj-gif-web/helpunity-backend/store"
)

func TestStoreProfilesHasProfile(t *testing.T) {
	st := store.NewMemory()
	now := time.Now()
	users := []models.User{
		{ID: "complete", Email: "a@example.com", UserType: "volunteer", CreatedAt: now, UpdatedAt: now},
		{ID: "incomplete", Email: "b@example.com", CreatedAt: now, UpdatedAt: now},
	}
	for _, u := range users {
		if err := st.Insert(context.Background(), services.CollectionUsers, u); err != nil {
			t.Fatalf("seed %s: %v", u.ID, err)
		}
	}
	profiles := StoreProfiles{Store: st}

	cases := []struct {
		userID string
		want   bool
	}{
		{"complete", true},
		{"incomplete", false},
		{"missing", false},
	}
	for _, tc := range cases {
		got, err := profiles.HasProfile(context.Background(), tc.userID)
		if err != nil {
			t.Fatalf("%s: %v", tc.userID, err)
		}
		if got != tc.want {
			t.Fatalf("%s: HasProfile = %v, want %v", tc.userID, got, tc.want)
		}
	}
}
