package auth

import (
	"context"

	"github.com/Emmanuel-365/chezflora-api/internal/model"
	"google.golang.org/grpc/metadata"
)

type UserContext struct {
	UserID string
	Email  string
	Role   model.Role
}

func (u UserContext) IsAdmin() bool {
	return u.Role == model.RoleAdmin
}

func (u UserContext) IsClient() bool {
	return u.Role == model.RoleClient
}

// CanActFor reports whether the user may act on a resource owned by ownerID.
func (u UserContext) CanActFor(ownerID string) bool {
	return u.IsAdmin() || (u.UserID != "" && u.UserID == ownerID)
}

type userKey struct{}

func WithUser(ctx context.Context, u UserContext) context.Context {
	return context.WithValue(ctx, userKey{}, u)
}

// GetUser reads the user set by the HTTP middleware or gRPC interceptor,
// falling back to raw gRPC metadata.
func GetUser(ctx context.Context) (UserContext, bool) {
	if u, ok := ctx.Value(userKey{}).(UserContext); ok {
		return u, true
	}

	md, ok := metadata.FromIncomingContext(ctx)
	if ok {
		if ids := md.Get("x-user-id"); len(ids) > 0 {
			u := UserContext{UserID: ids[0], Role: model.RoleClient}
			if roles := md.Get("x-user-role"); len(roles) > 0 {
				u.Role = model.Role(roles[0])
			}
			return u, true
		}
	}
	return UserContext{}, false
}
