package types

import "github.com/golang-jwt/jwt/v5"

// Claims are the access-token claims issued by the hosted auth provider.
// The subject carries the user ID.
type Claims struct {
	Email string `json:"email,omitempty"`
	jwt.RegisteredClaims
}
