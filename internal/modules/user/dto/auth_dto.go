package dto

import (
	commonDto "anoa.com/blogfeed/pkg/dto"
)

type SignupInput struct {
	Username string `form:"username" json:"username" binding:"required,min=3,max=150,slug"`
	Email    string `form:"email" json:"email" binding:"required,email,max=254"`
	Password string `form:"password" json:"password" binding:"required,min=8,max=72"`
}

type LoginInput struct {
	Username string `form:"username" json:"username" binding:"required"`
	Password string `form:"password" json:"password" binding:"required"`
	Next     string `form:"next" json:"next"`
}

type LoginQuery struct {
	Next string `form:"next"`
}

type AuthResponse struct {
	AccessToken string                   `json:"access_token"`
	TokenType   string                   `json:"token_type"`
	ExpiresIn   int64                    `json:"expires_in"`
	User        commonDto.AuthorResponse `json:"user"`
	Role        string                   `json:"role"`
}

type UsernameUri struct {
	Username string `uri:"username" binding:"required"`
}
