package dto

import commonDto "anoa.com/blogfeed/pkg/dto"

type SearchQuery struct {
	Q    string `form:"q" binding:"required,max=200"`
	Page string `form:"page"`
}

type SearchResponse struct {
	Query string                   `json:"query"`
	Data  []commonDto.PostResponse `json:"data"`
	Meta  commonDto.PaginationMeta `json:"meta"`
}
