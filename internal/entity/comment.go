package entity

import (
	"time"

	"github.com/google/uuid"
)

type Comment struct {
	ID       uint      `gorm:"primaryKey" json:"id"`
	PostID   *uint     `gorm:"index" json:"post_id"`
	Post     *Post     `gorm:"constraint:OnDelete:SET NULL" json:"-"`
	AuthorID uuid.UUID `gorm:"type:uuid;not null;index" json:"author_id"`
	Author   User      `gorm:"foreignKey:AuthorID;constraint:OnDelete:CASCADE" json:"author"`
	Text     string    `gorm:"type:text;not null" json:"text"`
	Created  time.Time `gorm:"not null;index" json:"created"`
}

const CommentOrder = "created DESC, id DESC"
