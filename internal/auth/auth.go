// Package auth issues and verifies RSA signed JWTs and answers role based
// authorization questions about their claims.
package auth

import (
	"context"
	"crypto/rsa"
	"errors"
	"fmt"
	"strings"

	"github.com/golang-jwt/jwt/v4"
)

var (
	ErrForbidden    = errors.New("attempted action is not allowed")
	ErrKIDMissing   = errors.New("kid missing from token header")
	ErrKIDMalformed = errors.New("kid in token header is malformed")
	ErrInvalidToken = errors.New("invalid token")
)

type Claims struct {
	jwt.RegisteredClaims
	Role string `json:"role"`
}

type keyLoader interface {
	PrivateKey(kid string) (*rsa.PrivateKey, error)
	PublicKey(kid string) (*rsa.PublicKey, error)
}

type Auth struct {
	keyLoader    keyLoader
	signinMethod jwt.SigningMethod
	parser       *jwt.Parser
	issuer       string
}

func New(loader keyLoader, issuer string) *Auth {
	return &Auth{
		keyLoader:    loader,
		signinMethod: jwt.GetSigningMethod(jwt.SigningMethodRS256.Name),
		parser:       jwt.NewParser(jwt.WithValidMethods([]string{jwt.SigningMethodRS256.Name})),
		issuer:       issuer,
	}
}

func (a *Auth) Issuer() string {
	return a.issuer
}

func (a *Auth) GenerateToken(kid string, c Claims) (string, error) {
	t := jwt.NewWithClaims(a.signinMethod, c)

	t.Header["kid"] = kid

	privateKey, err := a.keyLoader.PrivateKey(kid)
	if err != nil {
		return "", fmt.Errorf("privateKey: %w", err)
	}

	token, err := t.SignedString(privateKey)
	if err != nil {
		return "", fmt.Errorf("signedString: %w", err)
	}

	return token, nil
}

func (a *Auth) VerifyToken(ctx context.Context, bearer string) (Claims, error) {
	//expected format "Bearer <TOKEN>"
	if !strings.HasPrefix(bearer, "Bearer ") {
		return Claims{}, errors.New("expected authorization header format: Bearer <token>")
	}

	token := bearer[7:]

	var claims Claims
	verifiedToken, err := a.parser.ParseWithClaims(token, &claims, func(t *jwt.Token) (interface{}, error) {
		k, ok := t.Header["kid"]
		if !ok {
			return nil, ErrKIDMissing
		}

		kid, ok := k.(string)
		if !ok {
			return nil, ErrKIDMalformed
		}

		pub, err := a.keyLoader.PublicKey(kid)
		if err != nil {
			return nil, fmt.Errorf("fetching public key for kid[%s]: %w", kid, err)
		}

		return pub, nil
	})

	if err != nil {
		return Claims{}, fmt.Errorf("parseWithClaims: %w", err)
	}

	if !verifiedToken.Valid {
		return Claims{}, ErrInvalidToken
	}

	return claims, nil
}

func (a *Auth) Authorized(c Claims, roleSet map[string]struct{}) error {
	if _, ok := roleSet[c.Role]; ok {
		return nil
	}

	return ErrForbidden
}
