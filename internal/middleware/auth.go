package middleware

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	userRepo "anoa.com/blogfeed/internal/modules/user/repository"
	"anoa.com/blogfeed/pkg/logger"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// TokenCookie is the cookie set by the login endpoint.
const TokenCookie = "token"

type AuthMiddleware struct {
	userRepo userRepo.UserRepository
	secret   string
	loginURL string
}

func NewAuthMiddleware(userRepo userRepo.UserRepository, secret, loginURL string) *AuthMiddleware {
	if loginURL == "" {
		loginURL = "/auth/login/"
	}
	return &AuthMiddleware{
		userRepo: userRepo,
		secret:   secret,
		loginURL: loginURL,
	}
}

// RequireAuth sends anonymous requests to the login page, keeping the
// original target in the next parameter.
func (m *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := m.authenticate(c)
		if !ok {
			c.Redirect(http.StatusFound, m.LoginRedirect(c.Request.URL.RequestURI()))
			c.Abort()
			return
		}

		c.Set("user_id", userID)
		c.Next()
	}
}

// OptionalAuth identifies the viewer when a valid token is present and lets
// anonymous requests through.
func (m *AuthMiddleware) OptionalAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if userID, ok := m.authenticate(c); ok {
			c.Set("user_id", userID)
		}
		c.Next()
	}
}

// RequireAdmin must run after RequireAuth.
func (m *AuthMiddleware) RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, exists := c.Get("user_id")
		if !exists {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
			c.Abort()
			return
		}

		id, err := uuid.Parse(userID.(string))
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid user id"})
			c.Abort()
			return
		}

		user, err := m.userRepo.FindByID(c.Request.Context(), id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.JSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
			} else {
				logger.Ctx(c.Request.Context()).Error().Err(err).Msg("admin lookup failed")
				c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
			}
			c.Abort()
			return
		}

		if !user.IsAdmin() {
			c.JSON(http.StatusForbidden, gin.H{"error": "admin access required"})
			c.Abort()
			return
		}

		c.Set("user", user)
		c.Next()
	}
}

func (m *AuthMiddleware) LoginRedirect(next string) string {
	return m.loginURL + "?next=" + url.QueryEscape(next)
}

// authenticate reads the token from the Authorization header, the token
// cookie or the token query parameter, in that order.
func (m *AuthMiddleware) authenticate(c *gin.Context) (string, bool) {
	tokenString := ""

	if authHeader := c.GetHeader("Authorization"); authHeader != "" {
		parts := strings.Split(authHeader, " ")
		if len(parts) == 2 && parts[0] == "Bearer" {
			tokenString = parts[1]
		}
	}
	if tokenString == "" {
		if cookie, err := c.Cookie(TokenCookie); err == nil {
			tokenString = cookie
		}
	}
	if tokenString == "" {
		tokenString = c.Query("token")
	}
	if tokenString == "" {
		return "", false
	}

	token, err := jwt.ParseWithClaims(tokenString, &jwt.RegisteredClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(m.secret), nil
	})
	if err != nil || !token.Valid {
		return "", false
	}

	claims, ok := token.Claims.(*jwt.RegisteredClaims)
	if !ok {
		return "", false
	}
	if _, err := uuid.Parse(claims.Subject); err != nil {
		return "", false
	}

	return claims.Subject, true
}
