package auth

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

/*
TokenService mints and validates the HS256 bearer tokens used by the dev
agent server.  Real deployments sit behind an external identity provider;
this exists so the local server can exercise the 401 path end to end.
*/
type TokenService struct {
	signingKey []byte
}

func NewTokenService(signingKey []byte) *TokenService {
	return &TokenService{signingKey: signingKey}
}

// Mint issues a token for the given subject.
func (s *TokenService) Mint(subject string, ttl time.Duration) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": subject,
		"iat": time.Now().Unix(),
		"exp": time.Now().Add(ttl).Unix(),
	})

	signed, err := token.SignedString(s.signingKey)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}

	return signed, nil
}

// ValidateRequest checks the Authorization header of an inbound request.
func (s *TokenService) ValidateRequest(req *http.Request) error {
	return s.Validate(req.Header.Get("Authorization"))
}

// Validate checks a raw Authorization header value.
func (s *TokenService) Validate(authHeader string) error {
	if authHeader == "" {
		return fmt.Errorf("missing authorization header")
	}

	tokenStr := strings.TrimPrefix(authHeader, "Bearer ")

	token, err := jwt.Parse(tokenStr, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.signingKey, nil
	})
	if err != nil {
		return fmt.Errorf("invalid token: %w", err)
	}

	if !token.Valid {
		return fmt.Errorf("token expired")
	}

	return nil
}
