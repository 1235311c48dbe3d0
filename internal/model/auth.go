package model

import "github.com/golang-jwt/jwt/v5"

// AuthorClaims are the JWT claims issued to a survey author.
type AuthorClaims struct {
	AuthorID string `json:"authorId"`
	jwt.RegisteredClaims
}

// LoginResponse is returned from a successful login.
type LoginResponse struct {
	Token    string `json:"token"`
	AuthorID string `json:"authorId"`
}
