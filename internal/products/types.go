package products

// Product is the catalog item stored in the products DynamoDB table.
// Price is in the smallest currency unit. PriceID is the payment provider's
// price reference; a product without one exists in the catalog but cannot
// be sold online.
type Product struct {
	ProductID string `dynamodbav:"product_id" json:"product_id"` // PK
	Name      string `dynamodbav:"name" json:"name"`
	Price     int64  `dynamodbav:"price" json:"price"` // cents
	PriceID   string `dynamodbav:"price_id,omitempty" json:"price_id,omitempty"`
}

// Payable reports whether the product carries a provider price reference.
func (p Product) Payable() bool {
	return p.PriceID != ""
}
