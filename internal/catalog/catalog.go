// Package catalog lists the carriers and package sizes the storefront can
// ship with.
package catalog

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/tournevent/fulfillment/internal/store"
	"github.com/tournevent/fulfillment/pkg/carrier"
	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"go.uber.org/zap"
)

// ErrCarriersDisabled is returned by ListCarrierIDs in production.
var ErrCarriersDisabled = carrier.NewError(carrier.KindDisabled, "Carrier listing is disabled in production")

// PackageSource reads the configured shipping packages.
type PackageSource interface {
	ListShippingPackages(ctx context.Context) ([]store.ShippingPackage, error)
}

// Catalog answers carrier and package listings.
type Catalog struct {
	production bool
	provider   carrier.Provider
	resolver   *carrier.Resolver
	packages   PackageSource
	logger     *otelzap.Logger
}

// New creates a catalog. production disables the carrier listing.
func New(production bool, provider carrier.Provider, resolver *carrier.Resolver, packages PackageSource, logger *otelzap.Logger) *Catalog {
	return &Catalog{
		production: production,
		provider:   provider,
		resolver:   resolver,
		packages:   packages,
		logger:     logger,
	}
}

// ListCarrierIDs returns the sorted, distinct ids of the active carrier
// accounts visible to the test credential (or the live one when no test
// credential exists).
func (c *Catalog) ListCarrierIDs(ctx context.Context) ([]string, error) {
	if c.production {
		return nil, ErrCarriersDisabled
	}

	cred, ok := c.resolver.Resolve(carrier.FlowContext{IsTestFlow: true}).Primary()
	if !ok {
		return nil, carrier.ErrUnconfigured
	}

	accounts, err := c.provider.ListCarrierAccounts(ctx, cred)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		if errors.Is(err, carrier.ErrProviderUnavailable) {
			return nil, err
		}
		return nil, fmt.Errorf("list carrier accounts: %w", err)
	}

	seen := make(map[string]struct{}, len(accounts))
	ids := make([]string, 0, len(accounts))
	for _, a := range accounts {
		if !a.Active || a.ID == "" {
			continue
		}
		if _, dup := seen[a.ID]; dup {
			continue
		}
		seen[a.ID] = struct{}{}
		ids = append(ids, a.ID)
	}
	sort.Strings(ids)

	c.logger.Ctx(ctx).Debug("Listed carrier accounts",
		zap.String("environment", string(cred.Environment)),
		zap.Int("accounts", len(accounts)),
		zap.Int("active", len(ids)),
	)
	return ids, nil
}

// ListPackages returns every shipping package, defaults first and then by
// name. The order is enforced here whatever order the source returns.
func (c *Catalog) ListPackages(ctx context.Context) ([]store.ShippingPackage, error) {
	pkgs, err := c.packages.ListShippingPackages(ctx)
	if err != nil {
		return nil, fmt.Errorf("list shipping packages: %w", err)
	}
	if pkgs == nil {
		pkgs = []store.ShippingPackage{}
	}
	SortPackages(pkgs)
	return pkgs, nil
}

// SortPackages orders packages by IsDefault descending, then Name ascending.
func SortPackages(pkgs []store.ShippingPackage) {
	sort.SliceStable(pkgs, func(i, j int) bool {
		if pkgs[i].IsDefault != pkgs[j].IsDefault {
			return pkgs[i].IsDefault
		}
		return pkgs[i].Name < pkgs[j].Name
	})
}
