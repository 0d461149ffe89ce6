// Package payments is the narrow port to the hosted payment provider.
// The checkout orchestrator only ever sees this interface; the Stripe
// adapter lives behind it.
package payments

import "context"

// LineItem is one priced unit within a hosted session, referenced by the
// provider's price id. Quantity is fixed at 1 per distinct product; the
// cart guarantees uniqueness upstream.
type LineItem struct {
	PriceID  string
	Quantity int64
}

// SessionParams describes the hosted checkout page to create. Metadata must
// carry the order and user ids so the asynchronous confirmation can be
// correlated back to the order row.
type SessionParams struct {
	SuccessURL         string
	CancelURL          string
	PaymentMethodTypes []string
	LineItems          []LineItem
	Metadata           map[string]string
}

// Session is the provider-owned resource; only its URL matters here.
type Session struct {
	URL string
}

// Provider creates hosted payment sessions.
type Provider interface {
	CreateSession(ctx context.Context, params SessionParams) (*Session, error)
}
