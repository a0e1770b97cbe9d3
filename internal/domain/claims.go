package domain

import "github.com/golang-jwt/jwt/v5"

const (
	RoleAdmin   = "admin"
	RoleAnalyst = "analyst"
)

type Claims struct {
	Name string `json:"name"`
	Role string `json:"role"`
	jwt.RegisteredClaims
}
