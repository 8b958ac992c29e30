package dto

import (
	"io"
	"time"

	"github.com/google/uuid"
)

type AuthorResponse struct {
	ID       uuid.UUID `json:"id"`
	Username string    `json:"username"`
}

type GroupResponse struct {
	ID          uint   `json:"id"`
	Title       string `json:"title"`
	Slug        string `json:"slug"`
	Description string `json:"description"`
}

type PostResponse struct {
	ID      uint           `json:"id"`
	Text    string         `json:"text"`
	PubDate time.Time      `json:"pub_date"`
	Author  AuthorResponse `json:"author"`
	Group   *GroupResponse `json:"group,omitempty"`
	Image   string         `json:"image,omitempty"`
}

type CommentResponse struct {
	ID      uint           `json:"id"`
	PostID  *uint          `json:"post_id"`
	Author  AuthorResponse `json:"author"`
	Text    string         `json:"text"`
	Created time.Time      `json:"created"`
}

type PaginationMeta struct {
	CurrentPage int   `json:"current_page"`
	TotalPages  int   `json:"total_pages"`
	TotalItems  int64 `json:"total_items"`
	Limit       int   `json:"limit"`
	HasNext     bool  `json:"has_next"`
	HasPrevious bool  `json:"has_previous"`
}

type PageQuery struct {
	Page string `form:"page"`
}

// ImageFile is an uploaded image not yet handed to storage.
type ImageFile struct {
	Reader   io.Reader
	FileName string
}

// FormField describes one input of a form for the rendering layer.
type FormField struct {
	Name     string       `json:"name"`
	Label    string       `json:"label"`
	HelpText string       `json:"help_text,omitempty"`
	Kind     string       `json:"kind"`
	Required bool         `json:"required"`
	Choices  []FormChoice `json:"choices,omitempty"`
	Value    any          `json:"value,omitempty"`
}

type FormChoice struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

type FormSchema struct {
	Fields []FormField `json:"fields"`
	IsEdit bool        `json:"is_edit"`
}
