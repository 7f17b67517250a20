package http

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/Realquiid/vendopage/internal/platform/logger"
	"github.com/Realquiid/vendopage/internal/platform/metrics"
	"github.com/golang-jwt/jwt/v5"
)

// JWTAuth validates the Bearer token and puts the seller ID and staff flag
// into the request context.
func JWTAuth(jwtSecret string, log logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				writeError(w, http.StatusUnauthorized, "authorization token is not provided")
				return
			}

			parts := strings.Fields(authHeader)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
				writeError(w, http.StatusUnauthorized, "authorization token format is invalid, expected 'Bearer <token>'")
				return
			}

			claims := jwt.MapClaims{}
			token, err := jwt.ParseWithClaims(parts[1], claims, func(token *jwt.Token) (interface{}, error) {
				if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
					return nil, jwt.ErrSignatureInvalid
				}
				return []byte(jwtSecret), nil
			})
			if err != nil || !token.Valid {
				log.Debugf("rejected token: %v", err)
				writeError(w, http.StatusUnauthorized, "token is invalid")
				return
			}

			sub, _ := claims["sub"].(string)
			if sub == "" {
				writeError(w, http.StatusUnauthorized, "token is missing subject claim")
				return
			}
			isStaff, _ := claims["is_staff"].(bool)

			ctx := context.WithValue(r.Context(), SellerIDCtxKey, sub)
			ctx = context.WithValue(ctx, IsStaffCtxKey, isStaff)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// StaffOnly gates admin routes. Must run after JWTAuth.
func StaffOnly(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !isStaffFromContext(r.Context()) {
			writeError(w, http.StatusForbidden, "staff access required")
			return
		}
		next.ServeHTTP(w, r)
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (rec *statusRecorder) WriteHeader(status int) {
	rec.status = status
	rec.ResponseWriter.WriteHeader(status)
}

// CountRequests records per-method/status request totals.
func CountRequests(m *metrics.Metrics) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(rec, r)
			m.HTTPRequests.WithLabelValues(r.Method, strconv.Itoa(rec.status)).Inc()
		})
	}
}
