package orders

import "time"

// Order is the item stored in the orders DynamoDB table. Rows are written
// once at checkout with IsPaid=false; the only mutation afterwards is the
// paid flag, flipped by the payment-confirmation worker.
type Order struct {
	OrderID   string    `dynamodbav:"order_id" json:"order_id"` // PK, assigned by the store
	UserID    string    `dynamodbav:"user_id" json:"user_id"`
	Products  []string  `dynamodbav:"products" json:"products"` // payable product ids only
	IsPaid    bool      `dynamodbav:"is_paid" json:"is_paid"`
	CreatedAt time.Time `dynamodbav:"created_at" json:"created_at"`
	UpdatedAt time.Time `dynamodbav:"updated_at" json:"updated_at"`
}
