package authz_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/tournevent/fulfillment/internal/authz"
	"github.com/tournevent/fulfillment/internal/store"
	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"go.uber.org/zap"
)

type staticIdentity struct {
	ident *authz.Identity
	err   error
}

func (s staticIdentity) Identify(ctx context.Context, r *http.Request) (*authz.Identity, error) {
	return s.ident, s.err
}

type fakeDirectory struct {
	customers   map[string]*store.Customer
	roles       map[uuid.UUID][]string
	customerErr error
	roleErr     error
	roleLookups int
}

func (d *fakeDirectory) CustomerByAuthUserID(ctx context.Context, authUserID string) (*store.Customer, error) {
	if d.customerErr != nil {
		return nil, d.customerErr
	}
	c, ok := d.customers[authUserID]
	if !ok {
		return nil, store.ErrNotFound
	}
	return c, nil
}

func (d *fakeDirectory) RolesForCustomer(ctx context.Context, customerID uuid.UUID) ([]string, error) {
	d.roleLookups++
	if d.roleErr != nil {
		return nil, d.roleErr
	}
	return d.roles[customerID], nil
}

type decisionLog struct {
	reasons []string
}

func (l *decisionLog) ObserveDecision(allowed bool, reason string) {
	l.reasons = append(l.reasons, reason)
}

var adminCustomer = &store.Customer{ID: uuid.MustParse("6f1c7c1e-8d3a-4f7e-9c55-0d5b8a1e2f10"), AuthUserID: "user-1"}

func newDirectory(roles ...string) *fakeDirectory {
	return &fakeDirectory{
		customers: map[string]*store.Customer{"user-1": adminCustomer},
		roles:     map[uuid.UUID][]string{adminCustomer.ID: roles},
	}
}

func newGate(ident authz.IdentityProvider, dir *fakeDirectory) *authz.Gate {
	return authz.NewGate(ident, dir, dir, otelzap.New(zap.NewNop()))
}

func signedIn() staticIdentity {
	return staticIdentity{ident: &authz.Identity{ID: "user-1"}}
}

func TestGate_IsAdmin(t *testing.T) {
	tests := []struct {
		name   string
		ident  staticIdentity
		dir    *fakeDirectory
		want   bool
		reason string
	}{
		{name: "admin", ident: signedIn(), dir: newDirectory("customer", "admin"), want: true, reason: authz.ReasonAllowed},
		{name: "anonymous", ident: staticIdentity{}, dir: newDirectory("admin"), want: false, reason: authz.ReasonNoIdentity},
		{name: "identity error", ident: staticIdentity{err: errors.New("timeout")}, dir: newDirectory("admin"), want: false, reason: authz.ReasonIdentityError},
		{name: "no customer", ident: staticIdentity{ident: &authz.Identity{ID: "user-2"}}, dir: newDirectory("admin"), want: false, reason: authz.ReasonNoCustomer},
		{name: "customer lookup error", ident: signedIn(), dir: &fakeDirectory{customerErr: errors.New("db down")}, want: false, reason: authz.ReasonCustomerError},
		{name: "role lookup error", ident: signedIn(), dir: func() *fakeDirectory { d := newDirectory("admin"); d.roleErr = errors.New("db down"); return d }(), want: false, reason: authz.ReasonRoleError},
		{name: "no roles", ident: signedIn(), dir: newDirectory(), want: false, reason: authz.ReasonNotAdmin},
		{name: "role match is case sensitive", ident: signedIn(), dir: newDirectory("Admin", "ADMIN"), want: false, reason: authz.ReasonNotAdmin},
		{name: "role match is exact", ident: signedIn(), dir: newDirectory("admin ", "superadmin"), want: false, reason: authz.ReasonNotAdmin},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			log := &decisionLog{}
			gate := newGate(tt.ident, tt.dir).WithObserver(log)

			got := gate.IsAdmin(context.Background(), httptest.NewRequest(http.MethodGet, "/", nil))

			assert.Equal(t, tt.want, got)
			assert.Equal(t, []string{tt.reason}, log.reasons)
		})
	}
}

func TestGate_RevocationTakesEffectOnNextCall(t *testing.T) {
	dir := newDirectory("admin")
	gate := newGate(signedIn(), dir)
	req := httptest.NewRequest(http.MethodGet, "/", nil)

	assert.True(t, gate.IsAdmin(context.Background(), req))

	dir.roles[adminCustomer.ID] = []string{"customer"}

	assert.False(t, gate.IsAdmin(context.Background(), req))
	assert.Equal(t, 2, dir.roleLookups)
}

func TestGate_Require(t *testing.T) {
	var reached int
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		reached++
		w.WriteHeader(http.StatusNoContent)
	})

	t.Run("denied", func(t *testing.T) {
		gate := newGate(staticIdentity{}, newDirectory("admin"))
		rec := httptest.NewRecorder()

		gate.Require(next).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/admin/orders", nil))

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.JSONEq(t, `{"error":"Unauthorized"}`, rec.Body.String())
		assert.Equal(t, 0, reached)
	})

	t.Run("allowed", func(t *testing.T) {
		gate := newGate(signedIn(), newDirectory("admin"))
		rec := httptest.NewRecorder()

		gate.Require(next).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/admin/orders", nil))

		assert.Equal(t, http.StatusNoContent, rec.Code)
		assert.Equal(t, 1, reached)
	})
}
