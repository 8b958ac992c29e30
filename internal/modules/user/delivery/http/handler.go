package handler

import (
	"net/http"
	"strings"
	"time"

	"anoa.com/blogfeed/internal/middleware"
	"anoa.com/blogfeed/internal/modules/user/dto"
	"anoa.com/blogfeed/internal/modules/user/service"
	"anoa.com/blogfeed/pkg/response"
	"anoa.com/blogfeed/pkg/validator"
	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	authService service.AuthService
	userService service.UserService
	secure      bool
}

func NewAuthHandler(authService service.AuthService, userService service.UserService, secureCookies bool) *AuthHandler {
	return &AuthHandler{authService: authService, userService: userService, secure: secureCookies}
}

func (h *AuthHandler) Signup(c *gin.Context) {
	var input dto.SignupInput
	if err := c.ShouldBind(&input); err != nil {
		response.ResponseError(c, validator.ToValidationError(err))
		return
	}

	resp, err := h.authService.Signup(c.Request.Context(), input)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	h.setTokenCookie(c, resp)
	c.JSON(http.StatusCreated, resp)
}

// LoginPage is where unauthenticated requests are sent; it echoes next back.
func (h *AuthHandler) LoginPage(c *gin.Context) {
	var query dto.LoginQuery
	_ = c.ShouldBindQuery(&query)

	c.JSON(http.StatusUnauthorized, gin.H{
		"error": "login required",
		"next":  safeNext(query.Next),
	})
}

func (h *AuthHandler) Login(c *gin.Context) {
	var input dto.LoginInput
	if err := c.ShouldBind(&input); err != nil {
		response.ResponseError(c, validator.ToValidationError(err))
		return
	}
	if input.Next == "" {
		input.Next = c.Query("next")
	}

	resp, err := h.authService.Login(c.Request.Context(), input)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	h.setTokenCookie(c, resp)

	if next := safeNext(input.Next); next != "" {
		c.Redirect(http.StatusSeeOther, next)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *AuthHandler) DeleteUser(c *gin.Context) {
	var uri dto.UsernameUri
	if err := c.ShouldBindUri(&uri); err != nil {
		response.ResponseError(c, validator.ToValidationError(err))
		return
	}

	if err := h.userService.DeleteUser(c.Request.Context(), uri.Username); err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "user deleted successfully"})
}

func (h *AuthHandler) setTokenCookie(c *gin.Context, resp *dto.AuthResponse) {
	maxAge := int(time.Until(time.Unix(resp.ExpiresIn, 0)).Seconds())
	if maxAge < 0 {
		maxAge = 0
	}
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(middleware.TokenCookie, resp.AccessToken, maxAge, "/", "", h.secure, true)
}

// safeNext only allows redirects to paths on this host.
func safeNext(next string) string {
	if !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") || strings.HasPrefix(next, "/\\") {
		return ""
	}
	return next
}
