package server

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
)

// Identity claims carried by the token issued at login: subject, display
// name and the rating known at issue time. Credential checking itself
// happens in the account service; the game server only verifies the
// signature and decodes the claims.
func identityFromToken(tokenString string, secret []byte) (Identity, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return secret, nil
	})
	if err != nil || !token.Valid {
		return Identity{}, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return Identity{}, fmt.Errorf("%w: invalid map claims", ErrInvalidToken)
	}

	userId, ok := claims["sub"].(string)
	if !ok || userId == "" {
		return Identity{}, fmt.Errorf("%w: user id not found", ErrInvalidToken)
	}
	username, _ := claims["username"].(string)
	if username == "" {
		username = userId
	}

	identity := Identity{
		UserId:   userId,
		Username: username,
		Rating:   defaultRating,
	}
	if elo, ok := claims["rating"].(float64); ok {
		identity.Rating = int(elo)
	}
	return identity, nil
}

const defaultRating = 1200

// auth extracts and verifies the identity attached to a connection
// attempt. Connections with no token or an invalid one are rejected
// before any core state is touched.
func (s *server) auth(r *http.Request) (Identity, error) {
	token := r.Header.Get("Authorization")
	if token == "" {
		token = r.URL.Query().Get("token")
	}
	token = strings.TrimPrefix(token, "Bearer ")
	if token == "" {
		return Identity{}, ErrAuthenticationRequired
	}
	return identityFromToken(token, []byte(s.config.JwtSecret))
}
