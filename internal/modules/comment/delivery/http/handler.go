package handler

import (
	"net/http"

	"anoa.com/blogfeed/internal/modules/comment/dto"
	comment "anoa.com/blogfeed/internal/modules/comment/service"
	postHttp "anoa.com/blogfeed/internal/modules/post/delivery/http"
	"anoa.com/blogfeed/pkg/response"
	"anoa.com/blogfeed/pkg/validator"
	"github.com/gin-gonic/gin"
)

type CommentHandler struct {
	service comment.CommentService
}

func NewCommentHandler(service comment.CommentService) *CommentHandler {
	return &CommentHandler{service: service}
}

// AddComment always lands back on the post detail page unless the post is missing.
func (h *CommentHandler) AddComment(c *gin.Context) {
	postID, err := postHttp.ParsePostID(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	userID, err := response.GetUserID(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	var req dto.CreateCommentRequest
	if err := c.ShouldBind(&req); err != nil {
		response.ResponseError(c, validator.ToValidationError(err))
		return
	}

	if _, err := h.service.AddComment(c.Request.Context(), userID, postID, req); err != nil {
		response.ResponseError(c, err)
		return
	}

	c.Redirect(http.StatusFound, postHttp.DetailPath(postID))
}

func (h *CommentHandler) ListComments(c *gin.Context) {
	postID, err := postHttp.ParsePostID(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	comments, err := h.service.ListByPost(c.Request.Context(), postID)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": comments})
}
