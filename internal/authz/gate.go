// Package authz decides whether the caller of a privileged route is an
// administrator. The decision is derived from the identity service and the
// store on every call and is never cached.
package authz

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/google/uuid"
	"github.com/tournevent/fulfillment/internal/store"
	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"go.uber.org/zap"
)

// RoleAdmin is the only role the gate inspects.
const RoleAdmin = "admin"

// Identity is the authenticated caller as reported by the identity service.
type Identity struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

// IdentityProvider resolves the caller of a request. A nil identity with a
// nil error means the request is anonymous.
type IdentityProvider interface {
	Identify(ctx context.Context, r *http.Request) (*Identity, error)
}

// CustomerLookup finds the customer linked to an identity.
type CustomerLookup interface {
	CustomerByAuthUserID(ctx context.Context, authUserID string) (*store.Customer, error)
}

// RoleLookup lists a customer's roles.
type RoleLookup interface {
	RolesForCustomer(ctx context.Context, customerID uuid.UUID) ([]string, error)
}

// DecisionObserver is notified of every decision with the step that ended it.
type DecisionObserver interface {
	ObserveDecision(allowed bool, reason string)
}

// Decision reasons.
const (
	ReasonAllowed       = "allowed"
	ReasonNoIdentity    = "no_identity"
	ReasonIdentityError = "identity_error"
	ReasonNoCustomer    = "no_customer"
	ReasonCustomerError = "customer_error"
	ReasonRoleError     = "role_error"
	ReasonNotAdmin      = "not_admin"
)

// Gate is the single authorization check shared by all admin routes.
type Gate struct {
	identity  IdentityProvider
	customers CustomerLookup
	roles     RoleLookup
	logger    *otelzap.Logger
	observer  DecisionObserver
}

// NewGate creates a gate.
func NewGate(identity IdentityProvider, customers CustomerLookup, roles RoleLookup, logger *otelzap.Logger) *Gate {
	return &Gate{
		identity:  identity,
		customers: customers,
		roles:     roles,
		logger:    logger,
	}
}

// WithObserver sets the decision observer.
func (g *Gate) WithObserver(o DecisionObserver) *Gate {
	g.observer = o
	return g
}

// IsAdmin reports whether the request's caller holds the admin role.
// Every failure along the way denies.
func (g *Gate) IsAdmin(ctx context.Context, r *http.Request) bool {
	allowed, reason := g.decide(ctx, r)
	if g.observer != nil {
		g.observer.ObserveDecision(allowed, reason)
	}
	if !allowed {
		g.logger.Ctx(ctx).Debug("Admin access denied", zap.String("reason", reason))
	}
	return allowed
}

func (g *Gate) decide(ctx context.Context, r *http.Request) (bool, string) {
	ident, err := g.identity.Identify(ctx, r)
	if err != nil {
		g.logger.Ctx(ctx).Warn("Identity lookup failed", zap.Error(err))
		return false, ReasonIdentityError
	}
	if ident == nil || ident.ID == "" {
		return false, ReasonNoIdentity
	}

	customer, err := g.customers.CustomerByAuthUserID(ctx, ident.ID)
	if err != nil {
		if store.IsNotFound(err) {
			return false, ReasonNoCustomer
		}
		g.logger.Ctx(ctx).Warn("Customer lookup failed", zap.Error(err))
		return false, ReasonCustomerError
	}
	if customer == nil {
		return false, ReasonNoCustomer
	}

	roles, err := g.roles.RolesForCustomer(ctx, customer.ID)
	if err != nil {
		g.logger.Ctx(ctx).Warn("Role lookup failed", zap.Error(err))
		return false, ReasonRoleError
	}
	for _, role := range roles {
		if role == RoleAdmin {
			return true, ReasonAllowed
		}
	}
	return false, ReasonNotAdmin
}

// Require wraps a handler so that it only runs for administrators. Denied
// requests get 401 before the handler touches the store.
func (g *Gate) Require(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !g.IsAdmin(r.Context(), r) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusUnauthorized)
			_ = json.NewEncoder(w).Encode(map[string]string{"error": "Unauthorized"})
			return
		}
		next.ServeHTTP(w, r)
	})
}
