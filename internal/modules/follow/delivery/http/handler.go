package handler

import (
	"net/http"

	follow "anoa.com/blogfeed/internal/modules/follow/service"
	"anoa.com/blogfeed/pkg/response"
	"github.com/gin-gonic/gin"
)

type FollowHandler struct {
	service follow.FollowService
}

func NewFollowHandler(service follow.FollowService) *FollowHandler {
	return &FollowHandler{service: service}
}

func (h *FollowHandler) Follow(c *gin.Context) {
	userID, err := response.GetUserID(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	username := c.Param("username")
	if err := h.service.Follow(c.Request.Context(), userID, username); err != nil {
		response.ResponseError(c, err)
		return
	}

	c.Redirect(http.StatusFound, "/profile/"+username+"/")
}

func (h *FollowHandler) Unfollow(c *gin.Context) {
	userID, err := response.GetUserID(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	username := c.Param("username")
	if err := h.service.Unfollow(c.Request.Context(), userID, username); err != nil {
		response.ResponseError(c, err)
		return
	}

	c.Redirect(http.StatusFound, "/profile/"+username+"/")
}
