package dto

import (
	"strconv"

	"anoa.com/blogfeed/internal/entity"
	commonDto "anoa.com/blogfeed/pkg/dto"
)

const (
	KindTextarea = "textarea"
	KindSelect   = "select"
	KindImage    = "image"
)

// PostForm describes the create/edit form. Pass the post being edited, or nil.
func PostForm(groups []*entity.Group, post *entity.Post) commonDto.FormSchema {
	choices := make([]commonDto.FormChoice, 0, len(groups)+1)
	choices = append(choices, commonDto.FormChoice{Value: "", Label: "---------"})
	for _, g := range groups {
		choices = append(choices, commonDto.FormChoice{
			Value: strconv.FormatUint(uint64(g.ID), 10),
			Label: g.Title,
		})
	}

	text := commonDto.FormField{
		Name:     "text",
		Label:    "Your post",
		HelpText: "Enter the text of your post here",
		Kind:     KindTextarea,
		Required: true,
	}
	group := commonDto.FormField{
		Name:     "group",
		Label:    "Group",
		HelpText: "Choose the matching group",
		Kind:     KindSelect,
		Choices:  choices,
	}
	image := commonDto.FormField{
		Name:  "image",
		Label: "Image",
		Kind:  KindImage,
	}

	if post != nil {
		text.Value = post.Text
		if post.GroupID != nil {
			group.Value = strconv.FormatUint(uint64(*post.GroupID), 10)
		}
		if post.Image != "" {
			image.Value = post.Image
		}
	}

	return commonDto.FormSchema{
		Fields: []commonDto.FormField{text, group, image},
		IsEdit: post != nil,
	}
}

func CommentForm() commonDto.FormSchema {
	return commonDto.FormSchema{
		Fields: []commonDto.FormField{{
			Name:     "text",
			Label:    "Comment text",
			HelpText: "Enter the comment text",
			Kind:     KindTextarea,
			Required: true,
		}},
	}
}
