package validation

// Credentials is the payload for sign-in and account creation. Both surfaces
// share the schema so malformed input fails identically before any store
// round trip. The pair is transient; it is never persisted by this layer.
type Credentials struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

// CheckoutRequest is the payload for POST /checkout/session. Prices are
// deliberately absent: the server reprices from the catalog.
type CheckoutRequest struct {
	ProductIDs []string `json:"product_ids" validate:"required,min=1,dive,required"`
}

// AddItemRequest is the payload for POST /cart/items.
type AddItemRequest struct {
	ProductID string `json:"product_id" validate:"required"`
}
