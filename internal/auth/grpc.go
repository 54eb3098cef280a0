package auth

import (
	"context"
	"strings"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"marketplaceOrders/models"
	"marketplaceOrders/repository"
)

// NewUnaryAuthInterceptor returns a gRPC unary interceptor that extracts and validates
// a Bearer JWT from incoming metadata and injects the Principal into the context.
// Methods listed in allowUnauthenticated will bypass authentication (e.g., health checks).
func NewUnaryAuthInterceptor(secret string, allowUnauthenticated ...string) grpc.UnaryServerInterceptor {
	allow := make(map[string]struct{}, len(allowUnauthenticated))
	for _, m := range allowUnauthenticated {
		allow[strings.TrimSpace(m)] = struct{}{}
	}
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		if _, ok := allow[info.FullMethod]; ok {
			return handler(ctx, req)
		}
		p, err := ParseFromMD(ctx, secret)
		if err != nil {
			return nil, status.Errorf(codes.Unauthenticated, "auth error: %v", err)
		}
		return handler(WithPrincipal(ctx, p), req)
	}
}

// RequirePrincipal ensures a principal is present in context.
func RequirePrincipal(ctx context.Context) (*Principal, error) {
	p, ok := FromContext(ctx)
	if !ok {
		return nil, status.Error(codes.Unauthenticated, "missing principal")
	}
	return p, nil
}

// RequireKind ensures the principal has the given kind (lowercased compare).
func RequireKind(ctx context.Context, kind string) (*Principal, error) {
	p, err := RequirePrincipal(ctx)
	if err != nil {
		return nil, err
	}
	if p.Kind != strings.ToLower(kind) {
		return nil, status.Errorf(codes.PermissionDenied, "only %s can perform this action", strings.ToLower(kind))
	}
	return p, nil
}

// RequireStaff resolves the caller to a stored user that may manage orders:
// any role except a plain customer. The token kind must match the stored role.
func RequireStaff(ctx context.Context, users repository.UserRepositoryI) (*models.User, error) {
	p, err := RequirePrincipal(ctx)
	if err != nil {
		return nil, err
	}
	u, err := lookupUser(ctx, users, p)
	if err != nil {
		return nil, err
	}
	if u.Role == models.RoleUser {
		return nil, status.Error(codes.PermissionDenied, "customers cannot change order status")
	}
	return u, nil
}

// RequireAdmin ensures the caller is an admin principal AND that the underlying
// user exists with role 'admin'. This prevents spoofing by a non-admin.
func RequireAdmin(ctx context.Context, users repository.UserRepositoryI) (*models.User, error) {
	p, err := RequireKind(ctx, models.RoleAdmin)
	if err != nil {
		return nil, err
	}
	u, err := lookupUser(ctx, users, p)
	if err != nil {
		return nil, err
	}
	if u.Role != models.RoleAdmin {
		return nil, status.Error(codes.PermissionDenied, "only admin can perform this action")
	}
	return u, nil
}

// lookupUser resolves the token subject to a stored user. The stored role must
// match the token kind, and a username claim, when present, must match too.
func lookupUser(ctx context.Context, users repository.UserRepositoryI, p *Principal) (*models.User, error) {
	if users == nil {
		return nil, status.Error(codes.Internal, "users repository not configured")
	}
	u, err := users.GetByID(ctx, p.UserID)
	if err != nil {
		return nil, status.Errorf(codes.Internal, "get user: %v", err)
	}
	if u == nil {
		return nil, status.Error(codes.PermissionDenied, "unknown user")
	}
	if p.Name != "" && u.Username != p.Name {
		return nil, status.Error(codes.PermissionDenied, "token name does not match user")
	}
	u.Role = strings.ToLower(strings.TrimSpace(u.Role))
	if u.Role != p.Kind {
		return nil, status.Error(codes.PermissionDenied, "token role does not match user")
	}
	return u, nil
}
