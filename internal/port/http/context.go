package http

import "context"

// ContextKey is a dedicated type for request context keys to avoid collisions.
type ContextKey string

const (
	SellerIDCtxKey ContextKey = "authenticatedSellerID"
	IsStaffCtxKey  ContextKey = "authenticatedIsStaff"
)

func sellerIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(SellerIDCtxKey).(string)
	return id, ok && id != ""
}

func isStaffFromContext(ctx context.Context) bool {
	staff, ok := ctx.Value(IsStaffCtxKey).(bool)
	return ok && staff
}
