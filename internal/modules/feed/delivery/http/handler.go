package handler

import (
	"net/http"

	feed "anoa.com/blogfeed/internal/modules/feed/service"
	"anoa.com/blogfeed/pkg/dto"
	"anoa.com/blogfeed/pkg/response"
	"github.com/gin-gonic/gin"
)

const jsonContentType = "application/json; charset=utf-8"

type FeedHandler struct {
	service feed.FeedService
}

func NewFeedHandler(service feed.FeedService) *FeedHandler {
	return &FeedHandler{service: service}
}

func (h *FeedHandler) Index(c *gin.Context) {
	var query dto.PageQuery
	_ = c.ShouldBindQuery(&query)

	data, err := h.service.GlobalPage(c.Request.Context(), query.Page)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.Data(http.StatusOK, jsonContentType, data)
}

func (h *FeedHandler) GroupPosts(c *gin.Context) {
	var query dto.PageQuery
	_ = c.ShouldBindQuery(&query)

	data, err := h.service.GroupPage(c.Request.Context(), c.Param("slug"), query.Page)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.Data(http.StatusOK, jsonContentType, data)
}

func (h *FeedHandler) Profile(c *gin.Context) {
	var query dto.PageQuery
	_ = c.ShouldBindQuery(&query)

	resp, err := h.service.Profile(c.Request.Context(), c.Param("username"), response.GetOptionalUserID(c), query.Page)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (h *FeedHandler) FollowIndex(c *gin.Context) {
	userID, err := response.GetUserID(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	var query dto.PageQuery
	_ = c.ShouldBindQuery(&query)

	resp, err := h.service.Followed(c.Request.Context(), userID, query.Page)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}
