package tokens

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/clinicdesk/clinicdesk/internal/config"
	"github.com/clinicdesk/clinicdesk/internal/models"
)

var (
	// ErrExpired is returned for structurally valid tokens past their expiry.
	ErrExpired = errors.New("token expired")
	// ErrInvalid is returned for every other verification failure.
	ErrInvalid = errors.New("invalid token")
)

// DoctorClaims is the payload embedded in access tokens.
type DoctorClaims struct {
	DoctorID string `json:"id"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	jwt.RegisteredClaims
}

// GenerateAccessToken creates a signed HS256 token carrying the doctor identity.
func GenerateAccessToken(cfg *config.Config, d *models.Doctor, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := DoctorClaims{
		DoctorID: d.ID.Hex(),
		Name:     d.Name,
		Email:    d.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	jt := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return jt.SignedString([]byte(cfg.JWT.Secret))
}

// VerifyAccessToken parses and validates a token, returning its claims.
// Expired tokens report ErrExpired so callers can surface a distinct message.
func VerifyAccessToken(secret, raw string) (*DoctorClaims, error) {
	var claims DoctorClaims
	_, err := jwt.ParseWithClaims(raw, &claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalid
		}
		return []byte(secret), nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpired
		}
		return nil, ErrInvalid
	}
	if claims.DoctorID == "" {
		return nil, ErrInvalid
	}
	return &claims, nil
}
