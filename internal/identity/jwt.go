package identity

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// JWTProvider verifies HS256 bearer tokens issued by the identity provider
// and maps the sub/email claims onto a Principal.
type JWTProvider struct {
	secret []byte
}

func NewJWTProvider(secret string) *JWTProvider {
	return &JWTProvider{secret: []byte(secret)}
}

func (p *JWTProvider) CurrentUser(r *http.Request) (*Principal, error) {
	header := r.Header.Get("Authorization")
	if header == "" {
		return nil, ErrNotAuthenticated
	}

	raw := strings.TrimPrefix(header, "Bearer ")
	token, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return p.secret, nil
	})
	if err != nil || !token.Valid {
		return nil, ErrNotAuthenticated
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, ErrNotAuthenticated
	}

	subject, _ := claims["sub"].(string)
	email, _ := claims["email"].(string)
	if subject == "" {
		return nil, ErrNotAuthenticated
	}

	return &Principal{SubjectID: subject, Email: email}, nil
}

// Issue signs a token for the given principal. Used by tests and local
// tooling; production tokens come from the identity provider.
func (p *JWTProvider) Issue(subjectID, email string, ttl time.Duration) (string, error) {
	claims := jwt.MapClaims{
		"sub":   subjectID,
		"email": email,
		"jti":   uuid.NewString(),
		"exp":   time.Now().Add(ttl).Unix(),
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(p.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}
