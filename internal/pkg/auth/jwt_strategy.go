package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/polkiloo/weddingmart/internal/domain/model"
)

const jwtIssuer = "weddingmart"

type jwtClaims struct {
	Role model.Role `json:"role"`
	jwt.RegisteredClaims
}

// JWTStrategy issues HS256 JSON Web Tokens carrying user id and role.
type JWTStrategy struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewJWTStrategy builds JWTStrategy with provided secret and options.
func NewJWTStrategy(secret string, opts Options) *JWTStrategy {
	return &JWTStrategy{secret: []byte(secret), ttl: ttlOrDefault(opts), now: time.Now}
}

// IssueToken signs a token for the principal.
func (s *JWTStrategy) IssueToken(p model.Principal) (string, error) {
	if p.UserID == "" {
		return "", ErrInvalidToken
	}
	now := s.now()
	claims := jwtClaims{
		Role: p.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   p.UserID,
			Issuer:    jwtIssuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
}

// ParseToken verifies signature, algorithm, issuer and expiry.
func (s *JWTStrategy) ParseToken(token string) (model.Principal, error) {
	var claims jwtClaims
	parsed, err := jwt.ParseWithClaims(token, &claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(jwtIssuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil || !parsed.Valid {
		return model.Principal{}, ErrInvalidToken
	}
	if claims.Subject == "" || (claims.Role != model.RoleUser && claims.Role != model.RoleAdmin) {
		return model.Principal{}, ErrInvalidToken
	}
	return model.Principal{UserID: claims.Subject, Role: claims.Role}, nil
}

func (s *JWTStrategy) Name() string {
	return "jwt"
}
