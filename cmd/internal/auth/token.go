package auth

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/MicahParks/keyfunc/v3"
	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/gommon/log"
)

var ErrEmptyToken = errors.New("empty token")

type TokenData struct {
	Sub   string
	Email string
	Exp   int64
}

// Verifier turns a raw bearer token into its claims, failing on any token
// that is not authentic or has expired.
type Verifier interface {
	Verify(token string) (*TokenData, error)
}

type claims struct {
	Email string `json:"email,omitempty"`
	jwt.RegisteredClaims
}

// HMACIssuer signs and verifies the HS256 tokens handed out on login.
type HMACIssuer struct {
	secret []byte
	issuer string
	ttl    time.Duration
	now    func() time.Time
}

func NewHMACIssuer(secret, issuer string, ttl time.Duration) *HMACIssuer {
	return &HMACIssuer{
		secret: []byte(secret),
		issuer: issuer,
		ttl:    ttl,
		now:    time.Now,
	}
}

func (h *HMACIssuer) TTL() time.Duration {
	return h.ttl
}

func (h *HMACIssuer) Issue(sub, email string) (string, error) {
	now := h.now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, &claims{
		Email: email,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    h.issuer,
			Subject:   sub,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(h.ttl)),
		},
	})
	return token.SignedString(h.secret)
}

func (h *HMACIssuer) Verify(tokenString string) (*TokenData, error) {
	clean := sanitizeToken(tokenString)
	if clean == "" {
		return nil, ErrEmptyToken
	}

	var c claims
	token, err := jwt.ParseWithClaims(clean, &c, func(*jwt.Token) (any, error) {
		return h.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(h.issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(h.now),
	)
	if err != nil {
		return nil, fmt.Errorf("invalid token: %w", err)
	}

	if !token.Valid || c.Subject == "" {
		return nil, errors.New("token is not valid")
	}

	return &TokenData{
		Sub:   c.Subject,
		Email: c.Email,
		Exp:   c.ExpiresAt.Unix(),
	}, nil
}

// JWKSVerifier validates tokens signed by an external identity provider
// that publishes its public keys as a JWK set.
type JWKSVerifier struct {
	jwks keyfunc.Keyfunc
}

func NewJWKSVerifier(jwksURL string) (*JWKSVerifier, error) {
	jwks, err := keyfunc.NewDefault([]string{jwksURL})
	if err != nil {
		return nil, fmt.Errorf("failed to create JWKS from resource at %s: %w", jwksURL, err)
	}

	log.Infof("JWKS initialized. Keys loaded from %s", jwksURL)
	return &JWKSVerifier{jwks: jwks}, nil
}

func NewJWKSVerifierFromKeyfunc(jwks keyfunc.Keyfunc) *JWKSVerifier {
	return &JWKSVerifier{jwks: jwks}
}

func (v *JWKSVerifier) Verify(tokenString string) (*TokenData, error) {
	clean := sanitizeToken(tokenString)
	if clean == "" {
		return nil, ErrEmptyToken
	}

	token, err := jwt.Parse(clean, v.jwks.Keyfunc, jwt.WithExpirationRequired())
	if err != nil {
		return nil, fmt.Errorf("invalid token: %w", err)
	}

	if !token.Valid {
		return nil, errors.New("token is not valid")
	}

	mc, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, errors.New("invalid claims format")
	}

	return &TokenData{
		Sub:   getValue(mc, "sub"),
		Email: getValue(mc, "email"),
		Exp:   getInt64(mc, "exp"),
	}, nil
}

// sanitizeToken strips the bearer scheme, matched case-insensitively.
// A value without a scheme is taken as the raw token.
func sanitizeToken(header string) string {
	scheme, token, _ := strings.Cut(strings.TrimLeft(header, " "), " ")
	if strings.EqualFold(scheme, "Bearer") {
		return strings.TrimSpace(token)
	}
	return strings.TrimSpace(header)
}

func getValue(mc jwt.MapClaims, key string) string {
	if val, ok := mc[key].(string); ok {
		return val
	}
	return ""
}

func getInt64(mc jwt.MapClaims, key string) int64 {
	val, ok := mc[key]
	if !ok {
		return 0
	}
	if f, ok := val.(float64); ok {
		return int64(f)
	}
	if i, ok := val.(int64); ok {
		return i
	}
	return 0
}
