package auth

import "time"

// User is the identity record stored in the users DynamoDB table, keyed by
// email. Only the bcrypt hash is ever persisted.
type User struct {
	UserID       string    `dynamodbav:"user_id" json:"user_id"`
	Email        string    `dynamodbav:"email" json:"email"` // PK
	PasswordHash string    `dynamodbav:"password_hash" json:"-"`
	CreatedAt    time.Time `dynamodbav:"created_at" json:"created_at"`
}
