package carrier

import (
	"context"
	"errors"

	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"go.uber.org/zap"
)

const genericValidationFailure = "Address validation failed"

// Validator validates addresses against exactly one provider call.
type Validator struct {
	provider Provider
	resolver *Resolver
	logger   *otelzap.Logger
}

// NewValidator creates a new address validator.
func NewValidator(provider Provider, resolver *Resolver, logger *otelzap.Logger) *Validator {
	return &Validator{
		provider: provider,
		resolver: resolver,
		logger:   logger,
	}
}

// ValidateAddress checks the address, resolves the credential for the flow
// and validates with it. Malformed input is rejected before the credential
// is even looked at.
func (v *Validator) ValidateAddress(ctx context.Context, addr Address, flow FlowContext) (*ValidationResult, error) {
	normalized, err := addr.Normalize()
	if err != nil {
		return nil, err
	}

	cred, ok := v.resolver.Resolve(flow).Primary()
	if !ok {
		return nil, ErrUnconfigured
	}
	return v.Validate(ctx, normalized, cred)
}

// Validate validates addr with cred. The provider is called at most once.
func (v *Validator) Validate(ctx context.Context, addr Address, cred Credential) (*ValidationResult, error) {
	normalized, err := addr.Normalize()
	if err != nil {
		return nil, err
	}

	v.logger.Ctx(ctx).Debug("Validating address",
		zap.String("provider", v.provider.Name()),
		zap.String("environment", string(cred.Environment)),
		zap.String("country", normalized.Country),
	)

	result, err := v.provider.ValidateAddress(ctx, cred, normalized)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		v.logger.Ctx(ctx).Warn("Address validation provider error",
			zap.String("provider", v.provider.Name()),
			zap.Error(err),
		)
		return nil, providerUnavailable(v.provider.Name(), err, genericValidationFailure)
	}
	if result == nil {
		return nil, NewError(KindProviderUnavailable, genericValidationFailure).WithProvider(v.provider.Name())
	}

	result.Environment = cred.Environment
	if result.Messages == nil {
		result.Messages = []string{}
	}
	return result, nil
}

// providerUnavailable keeps an existing ProviderUnavailable error (and its
// provider message) or wraps anything else under a generic message.
func providerUnavailable(provider string, err error, fallback string) *Error {
	var e *Error
	if errors.As(err, &e) && e.Kind == KindProviderUnavailable {
		return e
	}
	return NewError(KindProviderUnavailable, fallback).WithProvider(provider).WithCause(err)
}
