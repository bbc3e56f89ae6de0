package auth

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/terraincognita07/sleeptrack/internal/metrics"
)

const (
	verifierNameJWT    = "jwt"
	verifierNameRemote = "remote"
)

var errEmptySecret = errors.New("jwt secret is empty")

// JWTConfig is shared by the issuer and the verifier. An empty Issuer or
// Audience disables the matching claim check on verification.
type JWTConfig struct {
	Secret   []byte
	Issuer   string
	Audience string
	TTL      time.Duration
}

type Claims struct {
	Email string `json:"email,omitempty"`
	jwt.RegisteredClaims
}

type JWTVerifier struct {
	secret []byte
	parser *jwt.Parser
}

func NewJWTVerifier(cfg JWTConfig) (*JWTVerifier, error) {
	if len(cfg.Secret) == 0 {
		return nil, errEmptySecret
	}

	options := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithLeeway(30 * time.Second),
	}
	if issuer := strings.TrimSpace(cfg.Issuer); issuer != "" {
		options = append(options, jwt.WithIssuer(issuer))
	}
	if audience := strings.TrimSpace(cfg.Audience); audience != "" {
		options = append(options, jwt.WithAudience(audience))
	}

	return &JWTVerifier{
		secret: cfg.Secret,
		parser: jwt.NewParser(options...),
	}, nil
}

func (verifier *JWTVerifier) Verify(_ context.Context, tokenValue string) (Identity, error) {
	claims := &Claims{}
	token, err := verifier.parser.ParseWithClaims(tokenValue, claims, func(*jwt.Token) (any, error) {
		return verifier.secret, nil
	})
	if err != nil || !token.Valid {
		metrics.AuthVerifications.WithLabelValues(verifierNameJWT, "invalid").Inc()
		return Identity{}, ErrInvalidToken
	}

	subject := strings.TrimSpace(claims.Subject)
	if subject == "" {
		metrics.AuthVerifications.WithLabelValues(verifierNameJWT, "invalid").Inc()
		return Identity{}, ErrInvalidToken
	}

	metrics.AuthVerifications.WithLabelValues(verifierNameJWT, "valid").Inc()
	return Identity{UserID: subject, Email: claims.Email}, nil
}

type TokenIssuer struct {
	cfg JWTConfig
	now func() time.Time
}

func NewTokenIssuer(cfg JWTConfig) (*TokenIssuer, error) {
	if len(cfg.Secret) == 0 {
		return nil, errEmptySecret
	}
	if cfg.TTL <= 0 {
		cfg.TTL = 24 * time.Hour
	}
	return &TokenIssuer{cfg: cfg, now: time.Now}, nil
}

func (issuer *TokenIssuer) TTL() time.Duration {
	return issuer.cfg.TTL
}

// Issue signs an access token for a local account.
func (issuer *TokenIssuer) Issue(userID string, email string) (string, time.Time, error) {
	now := issuer.now()
	expiresAt := now.Add(issuer.cfg.TTL)

	claims := Claims{
		Email: email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			Issuer:    issuer.cfg.Issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}
	if issuer.cfg.Audience != "" {
		claims.Audience = jwt.ClaimStrings{issuer.cfg.Audience}
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(issuer.cfg.Secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, expiresAt, nil
}
