package dto

import (
	"anoa.com/blogfeed/internal/entity"
	commonDto "anoa.com/blogfeed/pkg/dto"
)

type CreatePostRequest struct {
	Text    string `form:"text" json:"text" binding:"required"`
	GroupID string `form:"group" json:"group"`
}

// UpdatePostRequest leaves nil fields untouched. An empty GroupID clears the group.
type UpdatePostRequest struct {
	Text       *string `form:"text" json:"text"`
	GroupID    *string `form:"group" json:"group"`
	ClearImage bool    `form:"clear_image" json:"clear_image"`
}

type PostDetailResponse struct {
	Post            commonDto.PostResponse      `json:"post"`
	AuthorPostCount int64                       `json:"author_post_count"`
	Comments        []commonDto.CommentResponse `json:"comments"`
	CommentForm     commonDto.FormSchema        `json:"comment_form"`
}

func ToAuthorResponse(u *entity.User) commonDto.AuthorResponse {
	return commonDto.AuthorResponse{
		ID:       u.ID,
		Username: u.Username,
	}
}

func ToGroupResponse(g *entity.Group) *commonDto.GroupResponse {
	if g == nil {
		return nil
	}
	return &commonDto.GroupResponse{
		ID:          g.ID,
		Title:       g.Title,
		Slug:        g.Slug,
		Description: g.Description,
	}
}

// ToPostResponse expects Author and Group to be preloaded.
func ToPostResponse(p *entity.Post) commonDto.PostResponse {
	return commonDto.PostResponse{
		ID:      p.ID,
		Text:    p.Text,
		PubDate: p.PubDate,
		Author:  ToAuthorResponse(&p.Author),
		Group:   ToGroupResponse(p.Group),
		Image:   p.Image,
	}
}

func ToPostResponses(posts []*entity.Post) []commonDto.PostResponse {
	out := make([]commonDto.PostResponse, 0, len(posts))
	for _, p := range posts {
		out = append(out, ToPostResponse(p))
	}
	return out
}

func ToCommentResponse(c *entity.Comment) commonDto.CommentResponse {
	return commonDto.CommentResponse{
		ID:      c.ID,
		PostID:  c.PostID,
		Author:  ToAuthorResponse(&c.Author),
		Text:    c.Text,
		Created: c.Created,
	}
}
