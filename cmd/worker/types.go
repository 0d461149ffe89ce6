package main

// PaymentMessage is the confirmation payload sent webhook -> SQS -> worker.
type PaymentMessage struct {
	OrderID string `json:"order_id"`
	UserID  string `json:"user_id,omitempty"`
}
