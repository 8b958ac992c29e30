package dto

import commonDto "anoa.com/blogfeed/pkg/dto"

const (
	KindGlobal   = "global"
	KindGroup    = "group"
	KindProfile  = "profile"
	KindFollowed = "followed"
)

// FeedPage is one page of a post listing, newest first.
type FeedPage struct {
	Kind   string                    `json:"kind"`
	Group  *commonDto.GroupResponse  `json:"group,omitempty"`
	Author *commonDto.AuthorResponse `json:"author,omitempty"`
	Data   []commonDto.PostResponse  `json:"data"`
	Meta   commonDto.PaginationMeta  `json:"meta"`
}

// ProfileResponse adds viewer-specific state to a cached profile page.
type ProfileResponse struct {
	FeedPage
	PostCount int64 `json:"post_count"`
	Following bool  `json:"following"`
}
