package handler

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	postDto "anoa.com/blogfeed/internal/modules/post/dto"
	post "anoa.com/blogfeed/internal/modules/post/service"
	"anoa.com/blogfeed/pkg/apperror"
	"anoa.com/blogfeed/pkg/dto"
	"anoa.com/blogfeed/pkg/response"
	"anoa.com/blogfeed/pkg/validator"
	"github.com/gin-gonic/gin"
)

type PostHandler struct {
	service post.PostService
}

func NewPostHandler(service post.PostService) *PostHandler {
	return &PostHandler{service: service}
}

func DetailPath(id uint) string {
	return fmt.Sprintf("/posts/%d/", id)
}

func ProfilePath(username string) string {
	return "/profile/" + username + "/"
}

// ParsePostID reads the :id path parameter. Anything but a positive integer is a 404.
func ParsePostID(c *gin.Context) (uint, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return 0, fmt.Errorf("post %q: %w", c.Param("id"), apperror.ErrNotFound)
	}
	return uint(id), nil
}

func (h *PostHandler) CreateForm(c *gin.Context) {
	form, err := h.service.CreateForm(c.Request.Context())
	if err != nil {
		response.ResponseError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"form": form})
}

func (h *PostHandler) CreatePost(c *gin.Context) {
	userID, err := response.GetUserID(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	var req postDto.CreatePostRequest
	if err := c.ShouldBind(&req); err != nil {
		h.rejectForm(c, validator.ToValidationError(err), nil)
		return
	}

	image, cleanup, err := imageFromForm(c)
	if err != nil {
		h.rejectForm(c, err, nil)
		return
	}
	defer cleanup()

	resp, err := h.service.CreatePost(c.Request.Context(), userID, req, image)
	if err != nil {
		h.rejectForm(c, err, nil)
		return
	}

	c.Redirect(http.StatusFound, ProfilePath(resp.Author.Username))
}

func (h *PostHandler) GetPostDetail(c *gin.Context) {
	postID, err := ParsePostID(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	detail, err := h.service.GetPostDetail(c.Request.Context(), postID)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, detail)
}

func (h *PostHandler) EditForm(c *gin.Context) {
	postID, err := ParsePostID(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	userID, err := response.GetUserID(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	form, err := h.service.EditForm(c.Request.Context(), userID, postID)
	if err != nil {
		if errors.Is(err, apperror.ErrForbidden) {
			c.Redirect(http.StatusFound, DetailPath(postID))
			return
		}
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"form": form})
}

func (h *PostHandler) UpdatePost(c *gin.Context) {
	postID, err := ParsePostID(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	userID, err := response.GetUserID(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	var req postDto.UpdatePostRequest
	if err := c.ShouldBind(&req); err != nil {
		h.rejectForm(c, validator.ToValidationError(err), &postID)
		return
	}

	image, cleanup, err := imageFromForm(c)
	if err != nil {
		h.rejectForm(c, err, &postID)
		return
	}
	defer cleanup()

	if _, err := h.service.UpdatePost(c.Request.Context(), userID, postID, req, image); err != nil {
		if errors.Is(err, apperror.ErrForbidden) {
			c.Redirect(http.StatusFound, DetailPath(postID))
			return
		}
		h.rejectForm(c, err, &postID)
		return
	}

	c.Redirect(http.StatusFound, DetailPath(postID))
}

func (h *PostHandler) DeletePost(c *gin.Context) {
	postID, err := ParsePostID(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	userID, err := response.GetUserID(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	username, err := h.service.DeletePost(c.Request.Context(), userID, postID)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.Redirect(http.StatusFound, ProfilePath(username))
}

// rejectForm answers a failed submission. Validation failures carry the form
// again so the client can re-present it with the field messages.
func (h *PostHandler) rejectForm(c *gin.Context, err error, postID *uint) {
	var validationErr *apperror.ValidationError
	if !errors.As(err, &validationErr) {
		response.ResponseError(c, err)
		return
	}

	var (
		form    *dto.FormSchema
		formErr error
		userID  = response.GetOptionalUserID(c)
		ctx     = c.Request.Context()
	)
	if postID != nil && userID != nil {
		form, formErr = h.service.EditForm(ctx, *userID, *postID)
	} else {
		form, formErr = h.service.CreateForm(ctx)
	}
	if formErr != nil {
		response.ResponseError(c, formErr)
		return
	}

	c.JSON(http.StatusBadRequest, gin.H{
		"error":  apperror.ErrInvalidInput.Error(),
		"fields": validationErr.Fields,
		"form":   form,
	})
}

func imageFromForm(c *gin.Context) (*dto.ImageFile, func(), error) {
	noop := func() {}

	fileHeader, err := c.FormFile("image")
	if err != nil || fileHeader == nil {
		return nil, noop, nil
	}

	file, err := fileHeader.Open()
	if err != nil {
		return nil, noop, apperror.NewValidationError("image", "failed to read image")
	}

	return &dto.ImageFile{Reader: file, FileName: fileHeader.Filename}, func() { _ = file.Close() }, nil
}
