package auth

import (
	"context"
	"errors"
	"strconv"
	"strings"

	jwt "github.com/golang-jwt/jwt/v5"
	"google.golang.org/grpc/metadata"
)

var (
	ErrMissingToken  = errors.New("missing bearer token")
	ErrInvalidClaims = errors.New("invalid claims")
)

// Principal is the caller a marketplace token was issued to.
// UserID comes from the "sub" claim and is the acting user for status notes and payouts.
type Principal struct {
	UserID int64
	Name   string // username, optional
	Kind   string // role: "admin" | "seller" | "deliveryman" | "user"
}

// tokenClaims is the token payload issued to marketplace staff and customers.
type tokenClaims struct {
	Name string `json:"name,omitempty"`
	Kind string `json:"kind"`
	jwt.RegisteredClaims
}

type principalKey struct{}

func WithPrincipal(ctx context.Context, p *Principal) context.Context {
	return context.WithValue(ctx, principalKey{}, p)
}

func FromContext(ctx context.Context) (*Principal, bool) {
	p, ok := ctx.Value(principalKey{}).(*Principal)
	return p, ok
}

// ParseFromMD reads the "authorization: Bearer <jwt>" pair from incoming metadata.
func ParseFromMD(ctx context.Context, secret string) (*Principal, error) {
	md, ok := metadata.FromIncomingContext(ctx)
	if !ok {
		return nil, ErrMissingToken
	}
	vals := md.Get("authorization")
	if len(vals) == 0 {
		return nil, ErrMissingToken
	}
	scheme, token, found := strings.Cut(vals[0], " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return nil, errors.New("invalid authorization header")
	}
	return parseJWT(strings.TrimSpace(token), secret)
}

func parseJWT(tokenStr string, secret string) (*Principal, error) {
	if secret == "" {
		return nil, errors.New("jwt secret is empty")
	}
	var c tokenClaims
	_, err := jwt.ParseWithClaims(tokenStr, &c, func(*jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, err
	}
	return c.principal()
}

func (c *tokenClaims) principal() (*Principal, error) {
	id, err := strconv.ParseInt(c.Subject, 10, 64)
	if err != nil || id <= 0 {
		return nil, ErrInvalidClaims
	}
	kind := strings.ToLower(strings.TrimSpace(c.Kind))
	if kind == "" {
		return nil, ErrInvalidClaims
	}
	return &Principal{UserID: id, Name: c.Name, Kind: kind}, nil
}
