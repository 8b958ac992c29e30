package entity

import (
	"time"

	"github.com/google/uuid"
)

type Post struct {
	ID       uint      `gorm:"primaryKey" json:"id"`
	Text     string    `gorm:"type:text;not null" json:"text"`
	PubDate  time.Time `gorm:"not null;index:idx_posts_pub_date" json:"pub_date"`
	GroupID  *uint     `gorm:"index" json:"group_id"`
	Group    *Group    `gorm:"constraint:OnDelete:SET NULL" json:"group,omitempty"`
	AuthorID uuid.UUID `gorm:"type:uuid;not null;index" json:"author_id"`
	Author   User      `gorm:"foreignKey:AuthorID;constraint:OnDelete:CASCADE" json:"author"`
	Image    string    `gorm:"type:text;not null;default:''" json:"image"`
}

// PostOrder is the listing order of every feed: newest first, later inserts first on ties.
const PostOrder = "pub_date DESC, id DESC"
