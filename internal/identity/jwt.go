// Package identity verifies bearer tokens from the identity provider and
// binds the authenticated account onto the request context.
package identity

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	id "ethos/pkg/domain"
	derrors "ethos/pkg/domain-errors"
)

// Claims are the token claims issued for an authenticated account.
type Claims struct {
	UID         string `json:"uid"`
	Email       string `json:"email"`
	DisplayName string `json:"name,omitempty"`
	jwt.RegisteredClaims
}

// Session is a validated token resolved into domain types.
type Session struct {
	UID         id.UserID
	Email       string
	DisplayName string
}

// JWTService signs and validates HS256 access tokens.
type JWTService struct {
	signingKey []byte
	issuer     string
}

func NewJWTService(signingKey string, issuer string) *JWTService {
	return &JWTService{
		signingKey: []byte(signingKey),
		issuer:     issuer,
	}
}

// GenerateToken issues a signed token for an account session.
func (s *JWTService) GenerateToken(uid id.UserID, email, displayName string, expiresIn time.Duration) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		UID:         uid.String(),
		Email:       email,
		DisplayName: displayName,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(expiresIn)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			Issuer:    s.issuer,
			ID:        uuid.NewString(),
		},
	})
	return token.SignedString(s.signingKey)
}

// ValidateToken parses and verifies a token string, resolving its claims
// into a Session.
func (s *JWTService) ValidateToken(tokenString string) (*Session, error) {
	parsed, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrTokenUnverifiable
		}
		return s.signingKey, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, derrors.New(derrors.CodeUnauthorized, "token has expired")
		}
		return nil, derrors.New(derrors.CodeUnauthorized, "invalid token")
	}
	if !parsed.Valid {
		return nil, derrors.New(derrors.CodeUnauthorized, "invalid token")
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok {
		return nil, derrors.New(derrors.CodeUnauthorized, "invalid token claims")
	}

	uid, err := id.ParseUserID(claims.UID)
	if err != nil || uid.IsNil() {
		return nil, derrors.New(derrors.CodeUnauthorized, "invalid token subject")
	}
	if claims.Email == "" {
		return nil, derrors.New(derrors.CodeUnauthorized, "token missing account email")
	}

	return &Session{
		UID:         uid,
		Email:       claims.Email,
		DisplayName: claims.DisplayName,
	}, nil
}
