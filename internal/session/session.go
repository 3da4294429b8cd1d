// Package session decides when a failed response invalidates the
// stored credential.
package session

import (
	"context"
	"net/http"

	"github.com/fieldops/franchise-client/internal/model"
)

// DefaultDemoToken is the credential denoting a demonstration session.
// The backend rejects it with 401 but it is never invalidated.
const DefaultDemoToken = "demo-session-token"

// Decision is the outcome of evaluating the [Policy].
type Decision struct {
	// ShouldInvalidate is true when the credential must be removed.
	ShouldInvalidate bool
}

// Policy is the session invalidation rule.
//
// The zero value uses [DefaultDemoToken].
type Policy struct {
	// DemoToken is the OPTIONAL demo sentinel value.
	DemoToken string
}

// Demo returns the demo sentinel value in use.
func (p Policy) Demo() string {
	if p.DemoToken != "" {
		return p.DemoToken
	}
	return DefaultDemoToken
}

// IsDemo returns whether token is the demo sentinel.
func (p Policy) IsDemo(token string) bool {
	return token == p.Demo()
}

// OnResponseFailure evaluates the rule for a response with the given
// status and the credential currently stored. Only a 401 for a present,
// non-demo credential invalidates the session.
func (p Policy) OnResponseFailure(status int, token string, found bool) Decision {
	return Decision{
		ShouldInvalidate: status == http.StatusUnauthorized && found && !p.IsDemo(token),
	}
}

// Enforce re-reads the credential from store, evaluates the rule and
// removes the credential when required. Storage failures are logged
// and do not propagate: invalidation is best-effort.
func (p Policy) Enforce(ctx context.Context, store model.CredentialStore, status int, logger model.Logger) Decision {
	if status != http.StatusUnauthorized {
		return Decision{}
	}
	logger = model.ValidLoggerOrDefault(logger)
	token, found, err := store.Get(ctx)
	if err != nil {
		logger.Warnf("session: cannot read credential: %s", err.Error())
		return Decision{}
	}
	decision := p.OnResponseFailure(status, token, found)
	if !decision.ShouldInvalidate {
		return decision
	}
	if err := store.Remove(ctx); err != nil {
		logger.Warnf("session: cannot remove credential: %s", err.Error())
		return decision
	}
	logger.Info("session: credential invalidated")
	return decision
}
