package auth

import (
	"crypto/rsa"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/poketeer/pokeapi/internal/common"
)

// Claims is the payload carried by an access token: the registered claims
// {iss, sub, exp, iat, jti} plus the denormalized username.
//
// The jti (RegisteredClaims.ID) is the binding key to the token whitelist:
// a token without it is rejected as an unsupported token shape.
type Claims struct {
	jwt.RegisteredClaims
	Username string `json:"username"`
}

// Codec creates and verifies signed, expiring bearer tokens.
type Codec interface {
	// Issue encodes and signs a token for the given subject.
	Issue(subject, username string, issuedAt, expiresAt time.Time, jti string) (string, error)

	// Verify parses a token and validates its signature, issuer, expiry,
	// and shape. Failures are reported as common.ErrTokenVerification.
	Verify(token string) (*Claims, error)
}

// JWTCodec signs tokens with an RSA private key and verifies them with the
// matching public key. The key pair is loaded once at construction and
// treated as immutable for the process lifetime.
type JWTCodec struct {
	privateKey *rsa.PrivateKey
	publicKey  *rsa.PublicKey
	method     jwt.SigningMethod
	issuer     string
	now        func() time.Time
}

// NewJWTCodec parses the PEM-encoded key pair and resolves the signing
// algorithm by name (e.g. "RS256"). Only RSA algorithms are accepted.
func NewJWTCodec(privateKeyPEM, publicKeyPEM []byte, algorithm, issuer string) (*JWTCodec, error) {
	privateKey, err := jwt.ParseRSAPrivateKeyFromPEM(privateKeyPEM)
	if err != nil {
		return nil, fmt.Errorf("error parsing private key: %w", err)
	}

	publicKey, err := jwt.ParseRSAPublicKeyFromPEM(publicKeyPEM)
	if err != nil {
		return nil, fmt.Errorf("error parsing public key: %w", err)
	}

	method := jwt.GetSigningMethod(algorithm)
	if _, ok := method.(*jwt.SigningMethodRSA); !ok {
		return nil, fmt.Errorf("unsupported signing algorithm: %s", algorithm)
	}

	return &JWTCodec{
		privateKey: privateKey,
		publicKey:  publicKey,
		method:     method,
		issuer:     issuer,
		now:        time.Now,
	}, nil
}

func (c *JWTCodec) Issue(subject, username string, issuedAt, expiresAt time.Time, jti string) (string, error) {
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    c.issuer,
			Subject:   subject,
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			ID:        jti,
		},
		Username: username,
	}

	token, err := jwt.NewWithClaims(c.method, claims).SignedString(c.privateKey)
	if err != nil {
		return "", fmt.Errorf("error signing token: %w", err)
	}

	return token, nil
}

func (c *JWTCodec) Verify(tokenString string) (*Claims, error) {
	claims := &Claims{}

	// No leeway: expiry comparisons are strict wall-clock checks.
	token, err := jwt.ParseWithClaims(tokenString, claims,
		func(t *jwt.Token) (any, error) { return c.publicKey, nil },
		jwt.WithValidMethods([]string{c.method.Alg()}),
		jwt.WithIssuer(c.issuer),
		jwt.WithIssuedAt(),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(func() time.Time { return c.now() }),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrTokenVerification, err)
	}
	if !token.Valid {
		return nil, common.ErrTokenVerification
	}

	// An absent jti is an unsupported token shape, not missing optional data.
	if claims.ID == "" {
		return nil, fmt.Errorf("%w: missing jti claim", common.ErrTokenVerification)
	}

	return claims, nil
}
