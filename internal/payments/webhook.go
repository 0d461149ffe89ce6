package payments

import (
	"encoding/json"
	"errors"
	"fmt"

	stripe "github.com/stripe/stripe-go/v79"
	"github.com/stripe/stripe-go/v79/webhook"
)

// ErrIgnoredEvent marks event types the storefront does not act on.
// The webhook handler still answers 200 for these so the provider stops
// retrying them.
var ErrIgnoredEvent = errors.New("ignored provider event")

// Confirmation is the piece of a completed checkout session we act on.
type Confirmation struct {
	OrderID string
	UserID  string
}

// ParseConfirmation verifies the provider signature over the raw body and
// extracts the order correlation from a checkout.session.completed event.
func ParseConfirmation(payload []byte, sigHeader, secret string) (*Confirmation, error) {
	// api_version drifts independently of this module; the signature check
	// is what gates trust here.
	event, err := webhook.ConstructEventWithOptions(payload, sigHeader, secret, webhook.ConstructEventOptions{
		IgnoreAPIVersionMismatch: true,
	})
	if err != nil {
		return nil, fmt.Errorf("verify webhook signature: %w", err)
	}

	if event.Type != "checkout.session.completed" {
		return nil, ErrIgnoredEvent
	}

	var session stripe.CheckoutSession
	if err := json.Unmarshal(event.Data.Raw, &session); err != nil {
		return nil, fmt.Errorf("unmarshal checkout session: %w", err)
	}

	orderID := session.Metadata["orderId"]
	if orderID == "" {
		return nil, errors.New("completed session is missing orderId metadata")
	}

	return &Confirmation{
		OrderID: orderID,
		UserID:  session.Metadata["userId"],
	}, nil
}
