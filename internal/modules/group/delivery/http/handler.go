package handler

import (
	"net/http"

	"anoa.com/blogfeed/internal/modules/group/dto"
	group "anoa.com/blogfeed/internal/modules/group/service"
	"anoa.com/blogfeed/pkg/response"
	"anoa.com/blogfeed/pkg/validator"
	"github.com/gin-gonic/gin"
)

type GroupHandler struct {
	service group.GroupService
}

func NewGroupHandler(service group.GroupService) *GroupHandler {
	return &GroupHandler{service: service}
}

func (h *GroupHandler) CreateGroup(c *gin.Context) {
	var req dto.CreateGroupRequest
	if err := c.ShouldBind(&req); err != nil {
		response.ResponseError(c, validator.ToValidationError(err))
		return
	}

	resp, err := h.service.CreateGroup(c.Request.Context(), req)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusCreated, resp)
}

func (h *GroupHandler) ListGroups(c *gin.Context) {
	groups, err := h.service.ListGroups(c.Request.Context())
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": groups})
}

func (h *GroupHandler) UpdateGroup(c *gin.Context) {
	var uri dto.GroupSlugUri
	if err := c.ShouldBindUri(&uri); err != nil {
		response.ResponseError(c, validator.ToValidationError(err))
		return
	}

	var req dto.UpdateGroupRequest
	if err := c.ShouldBind(&req); err != nil {
		response.ResponseError(c, validator.ToValidationError(err))
		return
	}

	resp, err := h.service.UpdateGroup(c.Request.Context(), uri.Slug, req)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (h *GroupHandler) DeleteGroup(c *gin.Context) {
	var uri dto.GroupSlugUri
	if err := c.ShouldBindUri(&uri); err != nil {
		response.ResponseError(c, validator.ToValidationError(err))
		return
	}

	if err := h.service.DeleteGroup(c.Request.Context(), uri.Slug); err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "group deleted successfully"})
}
