package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/juicefit/juice-platform/internal/domain"
	"github.com/juicefit/juice-platform/internal/http/response"
	"github.com/juicefit/juice-platform/internal/service"
	"github.com/juicefit/juice-platform/pkg/auth"
	"github.com/juicefit/juice-platform/pkg/config"
	"github.com/juicefit/juice-platform/pkg/logger"
)

type claimsKey string

const sessionClaimsKey claimsKey = "session_claims"

type Handlers struct {
	trainerService   service.TrainerService
	directoryService service.DirectoryService
	leadService      service.LeadService
	paymentService   service.PaymentService
	accountService   service.AccountService
	config           *config.Config
}

func New(
	trainerService service.TrainerService,
	directoryService service.DirectoryService,
	leadService service.LeadService,
	paymentService service.PaymentService,
	accountService service.AccountService,
	cfg *config.Config,
) *Handlers {
	return &Handlers{
		trainerService:   trainerService,
		directoryService: directoryService,
		leadService:      leadService,
		paymentService:   paymentService,
		accountService:   accountService,
		config:           cfg,
	}
}

// RequireJWT gates a route on a bearer token with the given role. Admin
// tokens pass every role check.
func (h *Handlers) RequireJWT(requiredRole string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if !strings.HasPrefix(authHeader, "Bearer ") {
				response.Unauthorized(w, "Missing or invalid authorization header")
				return
			}

			token := strings.TrimPrefix(authHeader, "Bearer ")
			claims, err := auth.Parse(token, h.config.Auth.JWTSecret)
			if err != nil {
				response.Unauthorized(w, "Invalid token")
				return
			}

			if requiredRole != "" && claims.Role != requiredRole && claims.Role != "admin" {
				response.Forbidden(w, "Insufficient permissions")
				return
			}

			ctx := context.WithValue(r.Context(), logger.TrainerIDKey, claims.Sub)
			ctx = context.WithValue(ctx, sessionClaimsKey, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func getClaims(r *http.Request) *auth.Claims {
	if claims, ok := r.Context().Value(sessionClaimsKey).(*auth.Claims); ok {
		return claims
	}
	return nil
}

func writeJSON(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(data)
}

// writeDomainError maps the failure taxonomy to its fixed HTTP status.
func writeDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrMissingID), errors.Is(err, domain.ErrMissingToken), errors.Is(err, domain.ErrValidation):
		response.BadRequest(w, err.Error())
	case errors.Is(err, domain.ErrInvalidToken):
		response.Forbidden(w, domain.ErrInvalidToken.Error())
	case errors.Is(err, domain.ErrNotFound):
		response.NotFound(w, domain.ErrNotFound.Error())
	case errors.Is(err, domain.ErrExpired):
		response.Gone(w, domain.ErrExpired.Error())
	case errors.Is(err, domain.ErrUpstream):
		response.InternalError(w, err.Error(), "payment provider request failed")
	default:
		response.InternalError(w, "Internal server error", err.Error())
	}
}

func parsePagination(r *http.Request) (limit, offset int) {
	limit = 20
	offset = 0

	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 && n <= 100 {
			limit = n
		}
	}
	if v := r.URL.Query().Get("offset"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			offset = n
		}
	}

	return limit, offset
}
