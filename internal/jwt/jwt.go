// Package jwt signs and verifies the session tokens handed to players
package jwt

import (
	"errors"
	"fmt"
	"time"

	jwtgo "github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Issuer issues the JWT
const Issuer = "jaffre-server"

// Audience is the intended JWT audience
const Audience = "jaffre-client"

// ErrNoSecret happens when a signer is created without a secret
var ErrNoSecret = errors.New("a signing secret is required")

// Claims binds a token to a seat of a game
type Claims struct {
	GameID     string `json:"gid"`
	PlayerID   string `json:"pid"`
	PlayerName string `json:"name"`
	jwtgo.RegisteredClaims
}

// Signer signs and verifies claims with HMAC-SHA256
type Signer struct {
	secret []byte
}

// NewSigner returns a signer for the secret
func NewSigner(secret string) (*Signer, error) {
	if secret == "" {
		return nil, ErrNoSecret
	}

	return &Signer{secret: []byte(secret)}, nil
}

// Sign returns a signed token for the seat. The token ID is returned with it
func (s *Signer) Sign(gameID, playerID, playerName string, issuedAt time.Time) (string, string, error) {
	id := uuid.New().String()
	token := jwtgo.NewWithClaims(jwtgo.SigningMethodHS256, Claims{
		GameID:     gameID,
		PlayerID:   playerID,
		PlayerName: playerName,
		RegisteredClaims: jwtgo.RegisteredClaims{
			Audience: jwtgo.ClaimStrings{Audience},
			ID:       id,
			IssuedAt: jwtgo.NewNumericDate(issuedAt),
			Issuer:   Issuer,
			Subject:  playerID,
		},
	})

	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", "", err
	}

	return signed, id, nil
}

// Parse verifies the signature of a token and returns its claims
func (s *Signer) Parse(signedString string) (*Claims, error) {
	token, err := jwtgo.ParseWithClaims(signedString, &Claims{}, func(token *jwtgo.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwtgo.SigningMethodHMAC); !ok {
			return nil, errors.New("expected HS256 signing method")
		}

		return s.secret, nil
	}, jwtgo.WithAudience(Audience), jwtgo.WithIssuer(Issuer), jwtgo.WithValidMethods([]string{jwtgo.SigningMethodHS256.Alg()}))

	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(*Claims)
	if !ok {
		return nil, fmt.Errorf("expected jwt.Claims, got %T", token.Claims)
	}

	if claims.ID == "" || claims.GameID == "" || claims.PlayerID == "" {
		return nil, errors.New("incomplete claims")
	}

	return claims, nil
}
