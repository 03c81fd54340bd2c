package models

import "github.com/golang-jwt/jwt/v5"

// Claims holds the JWT claims identifying the caller
type Claims struct {
	UserID string `json:"userId"`
	Name   string `json:"name,omitempty"`
	jwt.RegisteredClaims
}
