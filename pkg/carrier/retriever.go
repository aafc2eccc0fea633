package carrier

import (
	"context"
	"encoding/json"
	"errors"
	"strings"

	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"go.uber.org/zap"
)

// AttemptObserver is notified of every provider attempt.
type AttemptObserver interface {
	ObserveAttempt(provider, tag string, succeeded bool)
}

// Retriever fetches label transactions, walking the credential chain until
// one attempt succeeds.
type Retriever struct {
	provider Provider
	resolver *Resolver
	logger   *otelzap.Logger
	observer AttemptObserver
}

// NewRetriever creates a new transaction retriever.
func NewRetriever(provider Provider, resolver *Resolver, logger *otelzap.Logger) *Retriever {
	return &Retriever{
		provider: provider,
		resolver: resolver,
		logger:   logger,
	}
}

// WithObserver sets the attempt observer.
func (r *Retriever) WithObserver(o AttemptObserver) *Retriever {
	r.observer = o
	return r
}

// Retrieve looks up a transaction. Attempts are sequential: the next
// credential is only tried after the previous attempt failed, and each
// credential is tried once.
//
// The returned error is non-nil only for malformed input, missing
// configuration or local failures; upstream failures are recorded in the
// result's attempts.
func (r *Retriever) Retrieve(ctx context.Context, transactionID string, flow FlowContext) (*TransactionResult, error) {
	id := strings.TrimSpace(transactionID)
	if id == "" {
		return nil, NewError(KindMalformedInput, "transactionId is required")
	}

	chain := r.resolver.Resolve(flow)
	if chain.Empty() {
		return nil, ErrUnconfigured
	}

	result := &TransactionResult{
		TransactionID: id,
		Attempts:      make([]Attempt, 0, len(chain)),
	}
	for i, cred := range chain {
		attempt, err := r.attempt(ctx, Tag(i), cred, id)
		if err != nil {
			return nil, err
		}
		result.Attempts = append(result.Attempts, attempt)
		if attempt.Succeeded {
			result.Out = attempt.Body
			break
		}
	}

	r.logger.Ctx(ctx).Info("Transaction lookup finished",
		zap.String("transaction_id", id),
		zap.Strings("chain", chain.Environments()),
		zap.Int("attempts", len(result.Attempts)),
		zap.Bool("succeeded", result.Succeeded()),
	)
	return result, nil
}

func (r *Retriever) attempt(ctx context.Context, tag string, cred Credential, id string) (Attempt, error) {
	attempt := Attempt{
		Tag:         tag,
		Environment: cred.Environment,
		Keys:        []string{},
		Body:        map[string]any{},
	}

	resp, err := r.provider.FetchTransaction(ctx, cred, id)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return Attempt{}, ctxErr
		}
		if !errors.Is(err, ErrProviderUnavailable) {
			return Attempt{}, err
		}
		r.logger.Ctx(ctx).Warn("Transaction attempt failed",
			zap.String("credential", tag),
			zap.String("environment", string(cred.Environment)),
			zap.Error(err),
		)
		attempt.Error = PublicMessage(err)
		r.observe(tag, false)
		return attempt, nil
	}

	attempt.StatusCode = resp.StatusCode
	attempt.Succeeded = resp.Succeeded()
	attempt.Body = decodeObject(resp.Body)
	attempt.Keys = sortedKeys(attempt.Body)
	r.observe(tag, attempt.Succeeded)
	return attempt, nil
}

func (r *Retriever) observe(tag string, succeeded bool) {
	if r.observer != nil {
		r.observer.ObserveAttempt(r.provider.Name(), tag, succeeded)
	}
}

// decodeObject parses a JSON object body. Anything unparsable, or a
// non-object document, becomes an empty object.
func decodeObject(body []byte) map[string]any {
	var obj map[string]any
	if err := json.Unmarshal(body, &obj); err != nil || obj == nil {
		return map[string]any{}
	}
	return obj
}
