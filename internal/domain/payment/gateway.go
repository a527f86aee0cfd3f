package payment

import (
	"context"

	domorder "example.com/ecom-backend/internal/domain/order"
)

// Gateway is the contract every payment provider adapter implements. Each
// provider has its own signing scheme and field layout; only these three
// operations are visible to the orchestrator.
type Gateway interface {
	// Initiate opens a checkout session for the order. It must not mutate
	// order state; persisting the pending payment is the orchestrator's job.
	Initiate(ctx context.Context, o *domorder.Order) (*Session, error)
	// VerifySignature recomputes the provider signature over the canonical
	// payload bytes and compares in constant time. Malformed input yields
	// false, never a panic.
	VerifySignature(body []byte, signature string) bool
	// ParseCallback normalizes a verified callback payload. Missing
	// required fields yield ErrInvalidCallback.
	ParseCallback(body []byte) (*Callback, error)
}
