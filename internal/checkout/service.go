// Package checkout turns a set of client-supplied product ids into a priced,
// provider-hosted payment session backed by a pending order row.
package checkout

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/larkerlabs/storefront-orderflow/internal/apierr"
	"github.com/larkerlabs/storefront-orderflow/internal/orders"
	"github.com/larkerlabs/storefront-orderflow/internal/payments"
	"github.com/larkerlabs/storefront-orderflow/internal/products"
)

// Result is the checkout outcome. URL is nil when the provider session could
// not be created; the pending order row persists either way, so callers show
// a soft error instead of failing the request.
type Result struct {
	URL *string `json:"url"`
}

// Status is the polling answer for one order.
type Status struct {
	IsPaid bool `json:"is_paid"`
}

// productFinder and orderStore are the slices of the stores this service
// needs; tests swap in fakes.
type productFinder interface {
	FindByIDs(ctx context.Context, ids []string) ([]products.Product, error)
}

type orderStore interface {
	Create(ctx context.Context, userID string, productIDs []string) (*orders.Order, error)
	Get(ctx context.Context, orderID string) (*orders.Order, error)
}

// Service orchestrates checkout-session creation and order-status polling.
type Service struct {
	products productFinder
	orders   orderStore
	provider payments.Provider
	baseURL  string // public site base for redirect targets
}

func NewService(productStore *products.Store, orderStore *orders.Store, provider payments.Provider, baseURL string) *Service {
	return &Service{
		products: productStore,
		orders:   orderStore,
		provider: provider,
		baseURL:  baseURL,
	}
}

// CreateSession resolves productIDs, records a pending order and requests a
// hosted payment session. The order write happens before the provider call;
// the session's metadata must embed the order id for later correlation.
func (s *Service) CreateSession(ctx context.Context, userID string, productIDs []string) (*Result, error) {
	if userID == "" {
		return nil, apierr.New(apierr.KindUnauthenticated, "sign in to check out")
	}
	if len(productIDs) == 0 {
		return nil, apierr.New(apierr.KindBadRequest, "no products to check out")
	}

	// stage one: unknown ids are silently absent from the lookup result
	resolved, err := s.products.FindByIDs(ctx, productIDs)
	if err != nil {
		return nil, fmt.Errorf("resolve products: %w", err)
	}

	// stage two: drop catalog items without a provider price reference
	payable := products.FilterPayable(resolved)

	payableIDs := make([]string, 0, len(payable))
	lineItems := make([]payments.LineItem, 0, len(payable))
	for _, p := range payable {
		payableIDs = append(payableIDs, p.ProductID)
		lineItems = append(lineItems, payments.LineItem{
			PriceID:  p.PriceID,
			Quantity: 1,
		})
	}

	order, err := s.orders.Create(ctx, userID, payableIDs)
	if err != nil {
		return nil, fmt.Errorf("create pending order: %w", err)
	}

	session, err := s.provider.CreateSession(ctx, payments.SessionParams{
		SuccessURL:         fmt.Sprintf("%s/thank-you?orderId=%s", s.baseURL, order.OrderID),
		CancelURL:          fmt.Sprintf("%s/cart", s.baseURL),
		PaymentMethodTypes: []string{"card", "paypal"},
		LineItems:          lineItems,
		Metadata: map[string]string{
			"userId":  userID,
			"orderId": order.OrderID,
		},
	})
	if err != nil {
		// The order row is durable; session creation alone is retryable.
		slog.Error("provider session creation failed", "order_id", order.OrderID, "err", err)
		return &Result{URL: nil}, nil
	}

	return &Result{URL: &session.URL}, nil
}

// OrderStatus re-reads the order on every call; it is side-effect-free and
// safe for tight polling while the confirmation is in flight.
func (s *Service) OrderStatus(ctx context.Context, orderID string) (*Status, error) {
	order, err := s.orders.Get(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("load order: %w", err)
	}
	if order == nil {
		return nil, apierr.New(apierr.KindNotFound, "order not found")
	}
	return &Status{IsPaid: order.IsPaid}, nil
}
