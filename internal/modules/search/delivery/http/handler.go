package handler

import (
	"net/http"

	"anoa.com/blogfeed/internal/modules/search/dto"
	search "anoa.com/blogfeed/internal/modules/search/service"
	"anoa.com/blogfeed/pkg/response"
	"anoa.com/blogfeed/pkg/validator"
	"github.com/gin-gonic/gin"
)

type SearchHandler struct {
	service search.SearchService
}

func NewSearchHandler(service search.SearchService) *SearchHandler {
	return &SearchHandler{service: service}
}

func (h *SearchHandler) SearchPosts(c *gin.Context) {
	var query dto.SearchQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.ResponseError(c, validator.ToValidationError(err))
		return
	}

	resp, err := h.service.SearchPosts(c.Request.Context(), query)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}
