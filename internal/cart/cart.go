package cart

import (
	"context"
	"errors"
	"time"
)

var ErrCartNotFound = errors.New("cart not found")

// Cart is one client's selection, keyed by an anonymous client id so it
// survives reloads before sign-in. The server never trusts a stored total:
// checkout receives product ids only and reprices from the catalog.
type Cart struct {
	ClientID  string    `json:"client_id"`
	Items     []Item    `json:"items"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Item references one product. The cart is a set of distinct products;
// there is no quantity field.
type Item struct {
	ProductID string    `json:"product_id"`
	Name      string    `json:"name"`
	Price     int64     `json:"price"` // cents, display only
	AddedAt   time.Time `json:"added_at"`
}

// AddItem appends item unless the product is already present.
// Returns false on the dedup no-op.
func (c *Cart) AddItem(item Item) bool {
	for _, existing := range c.Items {
		if existing.ProductID == item.ProductID {
			return false
		}
	}
	c.Items = append(c.Items, item)
	return true
}

// RemoveItem drops the product if present. Removing an absent product is a
// no-op, not an error.
func (c *Cart) RemoveItem(productID string) bool {
	for i, existing := range c.Items {
		if existing.ProductID == productID {
			c.Items = append(c.Items[:i], c.Items[i+1:]...)
			return true
		}
	}
	return false
}

// Clear empties the cart.
func (c *Cart) Clear() {
	c.Items = nil
}

// Total sums item prices on demand; it is never cached or stored.
func (c *Cart) Total() int64 {
	var total int64
	for _, item := range c.Items {
		total += item.Price
	}
	return total
}

// ProductIDs returns the ids in insertion order, for the checkout request.
func (c *Cart) ProductIDs() []string {
	ids := make([]string, 0, len(c.Items))
	for _, item := range c.Items {
		ids = append(ids, item.ProductID)
	}
	return ids
}

// Store persists carts per client id.
type Store interface {
	Get(ctx context.Context, clientID string) (*Cart, error)
	Save(ctx context.Context, cart *Cart) error
	Delete(ctx context.Context, clientID string) error
}
