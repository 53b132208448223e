package models

import (
	"time"
)

type FundraisePost struct {
	ID            string          `bson:"_id" json:"id"`
	UserID        string          `bson:"userId" json:"userId"`
	Recipient     string          `bson:"recipient" json:"recipient"` // Yourself, Someone Else, Charity or Organization
	Categories    []string        `bson:"categories" json:"categories"`
	Title         string          `bson:"title" json:"title"`
	Description   string          `bson:"description" json:"description"`
	Goal          float64         `bson:"goal" json:"goal"`
	CurrentAmount float64         `bson:"currentAmount" json:"currentAmount"`
	CoverPhoto    string          `bson:"coverPhoto,omitempty" json:"coverPhoto,omitempty"`
	ShareLink     string          `bson:"shareLink,omitempty" json:"shareLink,omitempty"`
	Likes         int             `bson:"likes" json:"likes"`
	LikedBy       map[string]bool `bson:"likedBy" json:"likedBy"`
	CreatedAt     time.Time       `bson:"createdAt" json:"createdAt"`
	UpdatedAt     time.Time       `bson:"updatedAt" json:"updatedAt"`
}

func (p *FundraisePost) Normalize() {
	if p.Categories == nil {
		p.Categories = []string{}
	}
	if p.LikedBy == nil {
		p.LikedBy = map[string]bool{}
	}
}
