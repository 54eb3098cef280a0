package auth

import (
	"context"
	"errors"
	"testing"

	jwt "github.com/golang-jwt/jwt/v5"
	"google.golang.org/grpc/metadata"

	"marketplaceOrders/internal/testutil"
)

const testSecret = "test-secret"

func TestParseFromMD_ValidBearer(t *testing.T) {
	tok := testutil.GenerateJWTHS256(t, testSecret, 42, "alice", "Seller")
	ctx := testutil.CtxWithBearer(context.Background(), tok)
	p, err := ParseFromMD(ctx, testSecret)
	if err != nil {
		t.Fatalf("ParseFromMD: %v", err)
	}
	if p.UserID != 42 || p.Name != "alice" || p.Kind != "seller" {
		t.Fatalf("principal mismatch: %+v", p)
	}
}

func TestParseFromMD_MissingHeader(t *testing.T) {
	if _, err := ParseFromMD(context.Background(), testSecret); !errors.Is(err, ErrMissingToken) {
		t.Fatalf("expected ErrMissingToken for missing metadata, got %v", err)
	}
	ctx := metadata.NewIncomingContext(context.Background(), metadata.Pairs("x-other", "1"))
	if _, err := ParseFromMD(ctx, testSecret); !errors.Is(err, ErrMissingToken) {
		t.Fatalf("expected ErrMissingToken for missing authorization, got %v", err)
	}
}

func TestParseFromMD_InvalidScheme(t *testing.T) {
	tok := testutil.GenerateJWTHS256(t, testSecret, 7, "bob", "deliveryman")
	ctx := metadata.NewIncomingContext(context.Background(), metadata.Pairs("authorization", "Basic "+tok))
	if _, err := ParseFromMD(ctx, testSecret); err == nil {
		t.Fatalf("expected error for non-Bearer scheme")
	}
	if _, err := parseJWT(tok, "wrong"); err == nil {
		t.Fatalf("expected error for wrong secret")
	}
	if _, err := parseJWT(tok, ""); err == nil {
		t.Fatalf("expected error for empty secret")
	}
}

func TestParseJWT_SubjectCarriesUserID(t *testing.T) {
	// Name is optional; the subject identifies the user.
	tok := testutil.GenerateJWTHS256(t, testSecret, 9, "", "admin")
	p, err := parseJWT(tok, testSecret)
	if err != nil {
		t.Fatalf("parseJWT: %v", err)
	}
	if p.UserID != 9 || p.Name != "" || p.Kind != "admin" {
		t.Fatalf("principal mismatch: %+v", p)
	}

	for name, claims := range map[string]jwt.MapClaims{
		"missing subject": {"kind": "admin"},
		"non-numeric":     {"sub": "alice", "kind": "admin"},
		"zero subject":    {"sub": "0", "kind": "admin"},
		"missing kind":    {"sub": "9"},
	} {
		tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
		if err != nil {
			t.Fatalf("%s: sign: %v", name, err)
		}
		if _, err := parseJWT(tok, testSecret); !errors.Is(err, ErrInvalidClaims) {
			t.Fatalf("%s: expected ErrInvalidClaims, got %v", name, err)
		}
	}
}

func TestParseJWT_RejectsOtherAlgorithms(t *testing.T) {
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS512, jwt.MapClaims{"sub": "1", "kind": "admin"}).SignedString([]byte(testSecret))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	if _, err := parseJWT(tok, testSecret); err == nil {
		t.Fatalf("expected HS512 token to be rejected")
	}
}
