package identity

import (
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/pkg/errors"

	"github.com/iliyamo/seat-allocation/internal/apperror"
)

// AccessToken is a signed HS256 JWT and its expiry.
type AccessToken struct {
	Token string    `json:"token"`
	Exp   time.Time `json:"expires_at"`
}

// IssueToken signs an access token whose subject is principalID.
func IssueToken(secret, principalID string, ttl time.Duration) (AccessToken, error) {
	if principalID == "" {
		return AccessToken{}, errors.New("identity: empty principal")
	}
	now := time.Now().UTC()
	exp := now.Add(ttl)
	claims := jwt.RegisteredClaims{
		Subject:   principalID,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(exp),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		return AccessToken{}, errors.Wrap(err, "sign token")
	}
	return AccessToken{Token: signed, Exp: exp}, nil
}

// JWT resolves the principal from the sub claim of a bearer token signed
// with the shared secret.
type JWT struct {
	secret []byte
	parser *jwt.Parser
}

func NewJWT(secret string) *JWT {
	return &JWT{
		secret: []byte(secret),
		parser: jwt.NewParser(jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired()),
	}
}

func (j *JWT) Resolve(r *http.Request) (string, error) {
	auth := r.Header.Get("Authorization")
	if !strings.HasPrefix(auth, "Bearer ") {
		return "", apperror.Unauthorized("missing bearer token")
	}
	raw := strings.TrimSpace(strings.TrimPrefix(auth, "Bearer "))

	var claims jwt.RegisteredClaims
	tok, err := j.parser.ParseWithClaims(raw, &claims, func(*jwt.Token) (any, error) {
		return j.secret, nil
	})
	if err != nil || !tok.Valid {
		return "", apperror.Unauthorized("invalid token")
	}
	if claims.Subject == "" {
		return "", apperror.Unauthorized("token has no subject")
	}
	return claims.Subject, nil
}
