package testutil

import (
	"context"
	"database/sql"
	"regexp"
	"strconv"
	"testing"

	jwt "github.com/golang-jwt/jwt/v5"
	"github.com/shopspring/decimal"
	"google.golang.org/grpc/metadata"

	"marketplaceOrders/internal/db"
	"marketplaceOrders/models"
	"marketplaceOrders/repository"
)

var unsafeName = regexp.MustCompile(`[^A-Za-z0-9_]`)

// OpenInMemoryDB opens an in-memory SQLite database and applies migrations.
// The database is closed via t.Cleanup.
func OpenInMemoryDB(t *testing.T, name string) *sql.DB {
	t.Helper()
	// Shared cache so that every pooled connection sees the same database.
	d, err := db.Open("file:" + unsafeName.ReplaceAllString(name, "_") + "?mode=memory&cache=shared")
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { _ = d.Close() })
	return d
}

// NewStore returns a Store over a fresh in-memory database named after the test.
func NewStore(t *testing.T) *repository.Store {
	t.Helper()
	return repository.NewStore(OpenInMemoryDB(t, t.Name()))
}

// CreateUser inserts a user with the given role. A non-nil balance also opens a wallet.
func CreateUser(t *testing.T, s *repository.Store, username, role string, balance *decimal.Decimal) *models.User {
	t.Helper()
	ctx := context.Background()
	u, err := s.Users.Create(ctx, username, role)
	if err != nil {
		t.Fatalf("create user %s: %v", username, err)
	}
	if balance != nil {
		w, err := s.Wallets.Create(ctx, u.ID, *balance)
		if err != nil {
			t.Fatalf("create wallet for %s: %v", username, err)
		}
		u.Wallet = w
	}
	return u
}

// CreateShop registers a shop for the seller.
func CreateShop(t *testing.T, s *repository.Store, seller *models.User) *models.Shop {
	t.Helper()
	shop, err := s.Users.CreateShop(context.Background(), seller.ID)
	if err != nil {
		t.Fatalf("create shop: %v", err)
	}
	return shop
}

// CreateOrder inserts the order and returns the stored row.
func CreateOrder(t *testing.T, s *repository.Store, o models.Order) *models.Order {
	t.Helper()
	created, err := s.Orders.Create(context.Background(), &o)
	if err != nil {
		t.Fatalf("create order: %v", err)
	}
	return created
}

// Money parses a decimal literal.
func Money(v string) *decimal.Decimal {
	d := decimal.RequireFromString(v)
	return &d
}

// GenerateJWTHS256 returns a signed token for the user id with the given name and kind.
func GenerateJWTHS256(t *testing.T, secret string, userID int64, name, kind string) string {
	t.Helper()
	claims := jwt.MapClaims{"kind": kind}
	if userID != 0 {
		claims["sub"] = strconv.FormatInt(userID, 10)
	}
	if name != "" {
		claims["name"] = name
	}
	s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return s
}

// BearerFor signs a token for a stored user.
func BearerFor(t *testing.T, secret string, u *models.User) string {
	t.Helper()
	return GenerateJWTHS256(t, secret, u.ID, u.Username, u.Role)
}

// CtxWithBearer returns a context containing gRPC metadata Authorization header with the given token.
func CtxWithBearer(ctx context.Context, token string) context.Context {
	md := metadata.Pairs("authorization", "Bearer "+token)
	return metadata.NewIncomingContext(ctx, md)
}

// OutgoingWithBearer attaches the token to an outgoing client context.
func OutgoingWithBearer(ctx context.Context, token string) context.Context {
	return metadata.AppendToOutgoingContext(ctx, "authorization", "Bearer "+token)
}
