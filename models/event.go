package models

import (
	"time"
)

type Event struct {
	ID           string          `bson:"_id" json:"id"`
	Title        string          `bson:"title" json:"title"`
	Description  string          `bson:"description,omitempty" json:"description,omitempty"`
	Date         time.Time       `bson:"date" json:"date"`
	Time         time.Time       `bson:"time" json:"time"`
	Location     string          `bson:"location,omitempty" json:"location,omitempty"`
	Category     string          `bson:"category,omitempty" json:"category,omitempty"`
	CoverPhoto   string          `bson:"coverPhoto,omitempty" json:"coverPhoto,omitempty"`
	Organizer    string          `bson:"organizer" json:"organizer"`
	Participants map[string]bool `bson:"participants" json:"participants"`
	Likes        int             `bson:"likes" json:"likes"`
	LikedBy      map[string]bool `bson:"likedBy" json:"likedBy"`
	CreatedAt    time.Time       `bson:"createdAt" json:"createdAt"`
	UpdatedAt    time.Time       `bson:"updatedAt" json:"updatedAt"`
}

func (e *Event) Normalize() {
	if e.Participants == nil {
		e.Participants = map[string]bool{}
	}
	if e.LikedBy == nil {
		e.LikedBy = map[string]bool{}
	}
}

// ParticipantIDs returns the ids of users whose membership flag is set.
func (e *Event) ParticipantIDs() []string {
	ids := make([]string, 0, len(e.Participants))
	for id, in := range e.Participants {
		if in {
			ids = append(ids, id)
		}
	}
	return ids
}
