package dto

type CreateGroupRequest struct {
	Title       string `form:"title" json:"title" binding:"required,max=200"`
	Slug        string `form:"slug" json:"slug" binding:"omitempty,slug,max=255"`
	Description string `form:"description" json:"description"`
}

// UpdateGroupRequest leaves nil fields untouched. An empty Slug is derived again from the title.
type UpdateGroupRequest struct {
	Title       *string `form:"title" json:"title" binding:"omitempty,min=1,max=200"`
	Slug        *string `form:"slug" json:"slug" binding:"omitempty,max=255"`
	Description *string `form:"description" json:"description"`
}

type GroupSlugUri struct {
	Slug string `uri:"slug" binding:"required"`
}
