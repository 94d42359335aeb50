package auth

import (
	"errors"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
)

// DownloadTokenManager signs and validates the expiring tokens embedded in
// completion emails so customers can fetch their certificate without the
// operator API key.
type DownloadTokenManager struct {
	secret []byte
	ttl    time.Duration
}

// NewDownloadTokenManager builds a new manager.
func NewDownloadTokenManager(secret string, ttl time.Duration) *DownloadTokenManager {
	if ttl <= 0 {
		ttl = 7 * 24 * time.Hour
	}
	return &DownloadTokenManager{secret: []byte(secret), ttl: ttl}
}

// DownloadClaims describes the signed download grant.
type DownloadClaims struct {
	TicketID string `json:"ticketId"`
	Arquivo  string `json:"arquivo"`
	jwt.RegisteredClaims
}

// GenerateToken signs a download grant for one ticket attachment.
func (tm *DownloadTokenManager) GenerateToken(ticketID, arquivo string) (string, time.Time, error) {
	expiresAt := time.Now().Add(tm.ttl)
	claims := &DownloadClaims{
		TicketID: ticketID,
		Arquivo:  arquivo,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   ticketID,
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(tm.secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return tokenString, expiresAt, nil
}

// ParseToken validates and returns the claims.
func (tm *DownloadTokenManager) ParseToken(tokenStr string) (*DownloadClaims, error) {
	parsed, err := jwt.ParseWithClaims(tokenStr, &DownloadClaims{}, func(token *jwt.Token) (interface{}, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, errors.New("unexpected signing method")
		}
		return tm.secret, nil
	})
	if err != nil {
		return nil, err
	}

	claims, ok := parsed.Claims.(*DownloadClaims)
	if !ok || !parsed.Valid {
		return nil, errors.New("invalid token claims")
	}
	return claims, nil
}
